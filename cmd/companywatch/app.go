package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"cloud.google.com/go/storage"
	"github.com/rs/zerolog"

	"github.com/notastartupanymore/companywatch/internal/api/handler"
	"github.com/notastartupanymore/companywatch/internal/core/ports"
	"github.com/notastartupanymore/companywatch/internal/core/service"
	"github.com/notastartupanymore/companywatch/internal/infrastructure/config"
	"github.com/notastartupanymore/companywatch/internal/infrastructure/credstore"
	mongodb "github.com/notastartupanymore/companywatch/internal/infrastructure/db/mongo"
	redisdb "github.com/notastartupanymore/companywatch/internal/infrastructure/db/redis"
	"github.com/notastartupanymore/companywatch/internal/infrastructure/navigation"
	"github.com/notastartupanymore/companywatch/internal/infrastructure/queue"
	"github.com/notastartupanymore/companywatch/internal/infrastructure/remote"
	"github.com/notastartupanymore/companywatch/internal/infrastructure/sink"
	"github.com/notastartupanymore/companywatch/pkg/logger"
)

// app holds every wired service for one process.
type app struct {
	cfg *config.Config
	log zerolog.Logger

	api           *remote.Client
	session       *service.SessionManager
	account       *service.AccountService
	subscriptions *service.Collection
	filters       *service.Collection
	feed          *service.FeedService
	reports       *service.ReportBuilder

	// set only for serve
	redirects *navigation.Recorder
	probes    map[string]handler.Probe

	closers []func()
	cancel  context.CancelFunc
}

func newApp(ctx context.Context, cfg *config.Config, log zerolog.Logger, console bool, stderr io.Writer) (*app, error) {
	a := &app{cfg: cfg, log: log, probes: map[string]handler.Probe{}}

	api, err := remote.NewClient(cfg.API, logger.Component("remote"))
	if err != nil {
		return nil, err
	}
	a.api = api
	a.probes["remote_api"] = func(ctx context.Context) error {
		_, err := api.FilterLabels(ctx)
		return err
	}

	store, err := a.tokenStore(ctx)
	if err != nil {
		a.close()
		return nil, err
	}
	sinkImpl, err := a.reportSink(ctx)
	if err != nil {
		a.close()
		return nil, err
	}

	var nav ports.Navigator
	if console {
		a.redirects = navigation.NewRecorder()
		nav = a.redirects
	} else {
		nav = navigation.NewPrinter(stderr)
	}

	qctx, cancel := context.WithCancel(context.Background())
	a.cancel = cancel
	q := queue.NewSerializer(2, logger.Component("queue"))
	q.Start(qctx)

	a.session = service.NewSessionManager(store, api, nav, logger.Component("session"))
	a.subscriptions = service.NewSubscriptions(a.session, api, q, logger.Component("subscriptions"))
	a.filters = service.NewFilters(a.session, api, q, logger.Component("filters"))
	a.account = service.NewAccountService(api, store, a.session, logger.Component("account"))
	a.feed = service.NewFeedService(api, a.session, a.subscriptions, a.filters)
	a.reports = service.NewReportBuilder(api, a.session, sinkImpl, logger.Component("reports"))
	return a, nil
}

func (a *app) tokenStore(ctx context.Context) (ports.CredentialStore, error) {
	switch a.cfg.Token.Store {
	case "memory":
		return credstore.NewMemory(), nil
	case "redis":
		client, err := redisdb.Connect(ctx, redisdb.Config{Addr: a.cfg.Redis.Addr, DB: a.cfg.Redis.DB}, a.log)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
		a.probes["redis"] = func(ctx context.Context) error { return client.Ping(ctx).Err() }
		return redisdb.NewTokenStore(client, a.cfg.Token.Profile), nil
	default:
		path := a.cfg.Token.File
		if path == "" {
			p, err := credstore.DefaultPath()
			if err != nil {
				return nil, err
			}
			path = p
		}
		return credstore.NewFile(path, a.cfg.Token.Passphrase, logger.Component("credstore")), nil
	}
}

// reportSink returns nil for "none"; the builder then hands files back
// without storing them.
func (a *app) reportSink(ctx context.Context) (ports.ReportSink, error) {
	switch a.cfg.Report.Sink {
	case "none":
		return nil, nil
	case "mongo":
		client, db, err := mongodb.Connect(ctx, mongodb.Config{URI: a.cfg.Mongo.URI, Database: a.cfg.Mongo.Database}, a.log)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, func() {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = client.Disconnect(ctx)
		})
		a.probes["mongodb"] = func(ctx context.Context) error { return client.Ping(ctx, nil) }
		return mongodb.NewReportArchive(db)
	case "gcs":
		client, err := storage.NewClient(ctx)
		if err != nil {
			return nil, fmt.Errorf("gcs client: %w", err)
		}
		a.closers = append(a.closers, func() { _ = client.Close() })
		return sink.NewGCS(client, a.cfg.Report.Bucket, logger.Component("gcs")), nil
	default:
		return sink.NewDir(a.cfg.Report.Dir), nil
	}
}

func (a *app) close() {
	if a.cancel != nil {
		a.cancel()
	}
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}
