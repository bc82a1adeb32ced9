// Package notify delivers plain-text messages to a webhook.
package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"time"
)

// DefaultTimeout bounds a single delivery attempt.
const DefaultTimeout = 5 * time.Second

var (
	// ErrNoEndpoint indicates no webhook URL is configured.
	ErrNoEndpoint = errors.New("no webhook endpoint configured")

	// ErrUnavailable indicates the webhook host could not be reached.
	ErrUnavailable = errors.New("webhook endpoint unreachable")

	// ErrRejected indicates the webhook answered with a non-2xx status.
	ErrRejected = errors.New("webhook rejected message")
)

// Notifier sends a message and reports whether it was delivered. Failures
// are logged by the implementation, never returned.
type Notifier interface {
	Notify(ctx context.Context, message string) bool
}

// NotifierFunc adapts a function to Notifier.
type NotifierFunc func(ctx context.Context, message string) bool

func (f NotifierFunc) Notify(ctx context.Context, message string) bool { return f(ctx, message) }

// Noop drops every message and reports failure.
type Noop struct{}

func (Noop) Notify(context.Context, string) bool { return false }

// payload is the JSON body posted to the webhook.
type payload struct {
	Text string `json:"text"`
}

// Webhook posts {"text": message} to a URL. Each message is attempted at
// most once.
type Webhook struct {
	url     func() string
	timeout time.Duration
	http    *http.Client
	logger  *slog.Logger
}

// Option configures a Webhook.
type Option func(*Webhook)

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(w *Webhook) {
		if d > 0 {
			w.timeout = d
		}
	}
}

// WithHTTPClient replaces the default client.
func WithHTTPClient(c *http.Client) Option {
	return func(w *Webhook) {
		if c != nil {
			w.http = c
		}
	}
}

// WithLogger sets the logger that records delivery failures.
func WithLogger(l *slog.Logger) Option {
	return func(w *Webhook) {
		if l != nil {
			w.logger = l
		}
	}
}

// NewWebhook creates a Webhook that resolves its URL on every call, so a
// settings change takes effect without rebuilding the notifier.
func NewWebhook(url func() string, opts ...Option) *Webhook {
	w := &Webhook{
		url:     url,
		timeout: DefaultTimeout,
		http: &http.Client{
			Transport: &http.Transport{
				DialContext: (&net.Dialer{
					Timeout: 3 * time.Second,
				}).DialContext,
			},
		},
		logger: slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// NewStaticWebhook creates a Webhook for a fixed URL.
func NewStaticWebhook(url string, opts ...Option) *Webhook {
	return NewWebhook(func() string { return url }, opts...)
}

// Notify delivers message and reports success. Errors are logged and
// swallowed.
func (w *Webhook) Notify(ctx context.Context, message string) bool {
	start := time.Now()
	err := w.Send(ctx, message)
	if err != nil {
		w.logger.WarnContext(ctx, "webhook_notify",
			"success", false,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", err.Error(),
		)
		return false
	}
	w.logger.InfoContext(ctx, "webhook_notify",
		"success", true,
		"duration_ms", time.Since(start).Milliseconds(),
	)
	return true
}

// Send delivers message and returns the failure cause, for callers that
// want it.
func (w *Webhook) Send(ctx context.Context, message string) error {
	url := ""
	if w.url != nil {
		url = w.url()
	}
	if url == "" {
		return ErrNoEndpoint
	}

	ctx, cancel := context.WithTimeout(ctx, w.timeout)
	defer cancel()

	data, err := json.Marshal(payload{Text: message})
	if err != nil {
		return fmt.Errorf("marshaling payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(data))
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.http.Do(req)
	if err != nil {
		if isConnectionError(err) {
			return fmt.Errorf("%w: %v", ErrUnavailable, err)
		}
		return fmt.Errorf("posting webhook: %w", err)
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 64<<10))

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%w: status %d", ErrRejected, resp.StatusCode)
	}
	return nil
}

func isConnectionError(err error) bool {
	var netErr *net.OpError
	return errors.As(err, &netErr)
}
