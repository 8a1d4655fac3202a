// Package remote is the HTTP client for the companies API. It attaches the
// static API key, the bearer token and a request id to every call, and maps
// responses onto the domain error kinds.
package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/notastartupanymore/companywatch/internal/api/metrics"
	"github.com/notastartupanymore/companywatch/internal/core/domain"
	"github.com/notastartupanymore/companywatch/internal/infrastructure/config"
)

const (
	requestIDHeader = "X-Request-ID"
	maxBodyBytes    = 32 << 20
)

// Client implements ports.RemoteAPI over net/http.
type Client struct {
	http      *http.Client
	base      string
	apiKey    string
	keyHeader string
	endpoints config.Endpoints
	log       zerolog.Logger
}

// NewClient builds a Client from cfg. The base URL must be absolute.
func NewClient(cfg config.APIConfig, log zerolog.Logger) (*Client, error) {
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("remote: invalid base url %q", cfg.BaseURL)
	}
	return &Client{
		http:      &http.Client{Timeout: cfg.Timeout},
		base:      strings.TrimSuffix(cfg.BaseURL, "/"),
		apiKey:    cfg.Key,
		keyHeader: cfg.KeyHeader,
		endpoints: cfg.Endpoints,
		log:       log,
	}, nil
}

// call describes one request. name labels metrics and errors.
type call struct {
	name   string
	method string
	path   string
	query  url.Values
	token  string
	body   any
}

type response struct {
	status      int
	contentType string
	body        []byte
}

func (c *Client) url(path string, query url.Values) string {
	u := c.base + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	return u
}

// do performs the call and returns the 2xx response. Every other outcome is
// mapped by classify.
func (c *Client) do(ctx context.Context, in call) (*response, error) {
	var body io.Reader
	if in.body != nil {
		raw, err := json.Marshal(in.body)
		if err != nil {
			return nil, fmt.Errorf("%s: encode body: %w", in.name, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, in.method, c.url(in.path, in.query), body)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", in.name, err)
	}
	requestID := uuid.NewString()
	req.Header.Set(requestIDHeader, requestID)
	req.Header.Set("Accept", "application/json, application/pdf")
	if in.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.apiKey != "" {
		req.Header.Set(c.keyHeader, c.apiKey)
	}
	if in.token != "" {
		req.Header.Set("Authorization", "Bearer "+in.token)
	}

	start := time.Now()
	resp, err := c.http.Do(req)
	if err != nil {
		metrics.RemoteRequestsTotal.WithLabelValues(in.name, "network").Inc()
		c.log.Debug().Err(err).Str("call", in.name).Str("request_id", requestID).Msg("remote call failed")
		return nil, transportError(ctx, in.name, err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	metrics.RemoteRequestDuration.WithLabelValues(in.name).Observe(time.Since(start).Seconds())
	if err != nil {
		metrics.RemoteRequestsTotal.WithLabelValues(in.name, "network").Inc()
		return nil, transportError(ctx, in.name, err)
	}

	out := &response{
		status:      resp.StatusCode,
		contentType: resp.Header.Get("Content-Type"),
		body:        raw,
	}
	if err := classify(in, out); err != nil {
		metrics.RemoteRequestsTotal.WithLabelValues(in.name, outcome(err)).Inc()
		c.log.Debug().
			Err(err).
			Str("call", in.name).
			Int("status", out.status).
			Str("request_id", requestID).
			Msg("remote call rejected")
		return nil, err
	}
	metrics.RemoteRequestsTotal.WithLabelValues(in.name, "ok").Inc()
	return out, nil
}

// decode runs the call and unmarshals a JSON body into dst. An empty body
// leaves dst untouched.
func (c *Client) decode(ctx context.Context, in call, dst any) error {
	resp, err := c.do(ctx, in)
	if err != nil {
		return err
	}
	if dst == nil || len(bytes.TrimSpace(resp.body)) == 0 {
		return nil
	}
	if err := json.Unmarshal(resp.body, dst); err != nil {
		return fmt.Errorf("%s: decode response: %w", in.name, &domain.ServerError{Status: resp.status, Detail: "malformed response from server"})
	}
	return nil
}
