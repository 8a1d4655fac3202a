package config

import (
	"context"
	"fmt"
	"net"
	"time"

	"github.com/sethvargo/go-envconfig"
)

type Config struct {
	// ConsoleHost is the interface `serve` listens on. The console acts with
	// the stored token, so it stays on loopback unless told otherwise.
	ConsoleHost string `env:"CONSOLE_HOST, default=127.0.0.1"`
	Port        string `env:"PORT,         default=8080"`
	LogLevel    string `env:"LOG_LEVEL,    default=info"`
	LogPretty   bool   `env:"LOG_PRETTY,   default=true"`

	API    APIConfig
	Token  TokenConfig
	Report ReportConfig
	Mongo  MongoConfig
	Redis  RedisConfig
}

// APIConfig describes the remote companies API.
type APIConfig struct {
	BaseURL   string        `env:"API_BASE_URL,   default=http://localhost:8000/users"`
	Key       string        `env:"API_KEY"`
	KeyHeader string        `env:"API_KEY_HEADER, default=access_token"`
	Timeout   time.Duration `env:"API_TIMEOUT,    default=30s"`

	Endpoints Endpoints
}

// Endpoints enumerates every path of the remote API relative to BaseURL.
type Endpoints struct {
	Login        string `env:"ENDPOINT_LOGIN,         default=/login"`
	Register     string `env:"ENDPOINT_REGISTER,      default=/"`
	VerifyEmail  string `env:"ENDPOINT_VERIFY_EMAIL,  default=/verify-email"`
	Me           string `env:"ENDPOINT_ME,            default=/me"`
	MeFilters    string `env:"ENDPOINT_ME_FILTERS,    default=/me/filters"`
	News         string `env:"ENDPOINT_NEWS,          default=/news"`
	Companies    string `env:"ENDPOINT_COMPANIES,     default=/companies"`
	FilterLabels string `env:"ENDPOINT_FILTERS,       default=/filters"`
	Charts       string `env:"ENDPOINT_CHARTS,        default=/charts"`
	GeneratePDF  string `env:"ENDPOINT_GENERATE_PDF,  default=/generate-pdf"`
	ContactMail  string `env:"ENDPOINT_CONTACT_MAIL,  default=/contactmail"`
	// Account is the prefix for /{id} account operations.
	Account string `env:"ENDPOINT_ACCOUNT, default=/"`
}

// TokenConfig selects the credential store backend: memory, file or redis.
type TokenConfig struct {
	Store      string `env:"TOKEN_STORE,      default=file"`
	File       string `env:"TOKEN_FILE"`
	Passphrase string `env:"TOKEN_PASSPHRASE"`
	Profile    string `env:"TOKEN_PROFILE,    default=default"`
}

// ReportConfig selects where downloaded reports go: dir, mongo or gcs.
type ReportConfig struct {
	Sink   string `env:"REPORT_SINK,   default=dir"`
	Dir    string `env:"REPORT_DIR,    default=."`
	Bucket string `env:"REPORT_BUCKET"`
}

type MongoConfig struct {
	URI      string `env:"MONGO_URI"`
	Database string `env:"MONGO_DB,  default=companywatch"`
}

type RedisConfig struct {
	Addr string `env:"REDIS_ADDR"`
	DB   int    `env:"REDIS_DB,   default=0"`
}

// Load reads configuration from environment variables using go-envconfig.
func Load(ctx context.Context) (*Config, error) {
	return load(ctx, envconfig.OsLookuper())
}

func load(ctx context.Context, lookuper envconfig.Lookuper) (*Config, error) {
	var cfg Config
	if err := envconfig.ProcessWith(ctx, &envconfig.Config{
		Target:   &cfg,
		Lookuper: lookuper,
	}); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	return &cfg, nil
}

// ConsoleAddr is the listen address of the console.
func (c *Config) ConsoleAddr() string {
	return net.JoinHostPort(c.ConsoleHost, c.Port)
}

func (c *Config) validate() error {
	switch c.Token.Store {
	case "memory", "file":
	case "redis":
		if c.Redis.Addr == "" {
			return fmt.Errorf("TOKEN_STORE=redis requires REDIS_ADDR")
		}
	default:
		return fmt.Errorf("unknown TOKEN_STORE %q", c.Token.Store)
	}

	switch c.Report.Sink {
	case "dir", "none":
	case "mongo":
		if c.Mongo.URI == "" {
			return fmt.Errorf("REPORT_SINK=mongo requires MONGO_URI")
		}
	case "gcs":
		if c.Report.Bucket == "" {
			return fmt.Errorf("REPORT_SINK=gcs requires REPORT_BUCKET")
		}
	default:
		return fmt.Errorf("unknown REPORT_SINK %q", c.Report.Sink)
	}

	if c.API.Timeout <= 0 {
		return fmt.Errorf("API_TIMEOUT must be positive")
	}
	return nil
}
