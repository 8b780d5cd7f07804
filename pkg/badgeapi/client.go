package badgeapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"sync/atomic"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/garnizeh/badgeclient/internal/config"
	"github.com/garnizeh/badgeclient/pkg/models"
)

// maxBodyBytes bounds how much of a response body is read.
const maxBodyBytes = 4 << 20

// TokenSource returns the bearer token to attach, if any.
type TokenSource func() (string, bool)

// Option configures a Client.
type Option func(*Client)

// WithTokenSource attaches "Authorization: Bearer <token>" to every request
// for which src returns a token.
func WithTokenSource(src TokenSource) Option {
	return func(c *Client) {
		c.tokens = src
	}
}

// Client is a typed binding of the badge service REST API.
type Client struct {
	cfg    config.APIConfig
	base   *url.URL
	client *http.Client
	tokens TokenSource

	// identical concurrent requests share one round-trip when dedupe is on
	group  singleflight.Group
	dedupe bool

	closed int32 // atomic flag for Close()
}

// NewClient creates a badge API client. A nil httpClient gets one with the
// configured timeout.
func NewClient(cfg config.APIConfig, httpClient *http.Client, opts ...Option) (*Client, error) {
	if cfg.Timeout <= 0 {
		cfg.Timeout = config.DefaultAPIConfig().Timeout
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.Timeout}
	}

	u, err := url.ParseRequestURI(cfg.BaseURL)
	if err != nil {
		return nil, fmt.Errorf("invalid base url: %w", err)
	}

	if _, err := loadSchemas(); err != nil {
		return nil, err
	}

	c := &Client{
		cfg:    cfg,
		base:   u,
		client: httpClient,
		dedupe: cfg.Dedupe(),
	}
	for _, opt := range opts {
		opt(c)
	}

	logger.Info("badgeapi: NewClient created", slog.String("base_url", cfg.BaseURL), slog.Duration("timeout", cfg.Timeout), slog.Bool("dedupe", c.dedupe))
	return c, nil
}

// NewDefaultClient creates a client with a tuned transport.
func NewDefaultClient(cfg config.APIConfig, opts ...Option) (*Client, error) {
	defaultClient := &http.Client{
		Timeout: cfg.Timeout,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout:   10 * time.Second,
				KeepAlive: 15 * time.Second,
			}).DialContext,
			ForceAttemptHTTP2:     true,
			MaxIdleConns:          20,
			IdleConnTimeout:       90 * time.Second,
			TLSHandshakeTimeout:   10 * time.Second,
			ExpectContinueTimeout: 1 * time.Second,
		},
	}

	return NewClient(cfg, defaultClient, opts...)
}

// Close releases idle connections held by the underlying transport. Close is
// idempotent; calls made afterwards return ErrClosed.
func (c *Client) Close() error {
	if c == nil {
		return nil
	}
	if !atomic.CompareAndSwapInt32(&c.closed, 0, 1) {
		return nil
	}
	if c.client != nil && c.client.Transport != nil {
		if tr, ok := c.client.Transport.(interface{ CloseIdleConnections() }); ok {
			tr.CloseIdleConnections()
			logger.Info("badgeapi: client Close() called - CloseIdleConnections invoked")
		}
	}
	return nil
}

// package-level logger for pkg/badgeapi; can be replaced by callers
var logger = slog.New(slog.NewJSONHandler(os.Stdout, nil))

// SetLogger sets the logger used by pkg/badgeapi. Passing nil is a no-op.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

// Login posts credentials. A successful response without UserID means the
// server declined the login.
func (c *Client) Login(ctx context.Context, username, password string) (models.LoginResult, error) {
	var out models.LoginResult
	req := models.LoginRequest{Username: username, Password: password}
	err := c.call(ctx, "login", http.MethodPost, "/login", req, schemaLogin, &out)
	return out, err
}

// Register creates an account. Nil optional fields are sent as null.
func (c *Client) Register(ctx context.Context, req models.RegisterRequest) (models.BasicResult, error) {
	var out models.BasicResult
	err := c.call(ctx, "register", http.MethodPost, "/register", req, schemaBasic, &out)
	return out, err
}

// GetProfile fetches the user together with earned badges and certification
// progress.
func (c *Client) GetProfile(ctx context.Context, userID int64) (*models.ProfileSnapshot, error) {
	var out models.ProfileSnapshot
	if err := c.call(ctx, "get profile", http.MethodGet, "/profile/"+strconv.FormatInt(userID, 10), nil, schemaProfile, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// ListBadges returns the catalog projection, without criteria.
func (c *Client) ListBadges(ctx context.Context) ([]models.Badge, error) {
	var out []models.Badge
	if err := c.call(ctx, "list badges", http.MethodGet, "/badges", nil, schemaBadgeList, &out); err != nil {
		return nil, err
	}
	if out == nil {
		out = []models.Badge{}
	}
	return out, nil
}

// GetBadge returns the detail projection, criteria included.
func (c *Client) GetBadge(ctx context.Context, badgeID int64) (*models.Badge, error) {
	var out models.Badge
	if err := c.call(ctx, "get badge", http.MethodGet, "/badges/"+strconv.FormatInt(badgeID, 10), nil, schemaBadgeDetail, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// UpdateProfile sends a partial edit. Nil fields are sent as null.
func (c *Client) UpdateProfile(ctx context.Context, userID int64, req models.UpdateProfileRequest) (models.BasicResult, error) {
	var out models.BasicResult
	err := c.call(ctx, "update profile", http.MethodPut, "/profile/"+strconv.FormatInt(userID, 10), req, schemaBasic, &out)
	return out, err
}

// call performs one request and decodes a validated success body into out.
func (c *Client) call(ctx context.Context, op, method, path string, body any, schema string, out any) error {
	if atomic.LoadInt32(&c.closed) == 1 {
		return ErrClosed
	}

	var payload []byte
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("%s: encode request: %w", op, err)
		}
		payload = b
	}

	start := time.Now()
	data, err := c.send(ctx, op, method, path, payload)
	latency := time.Since(start)
	if err != nil {
		logger.Warn("badgeapi: request failed", slog.String("op", op), slog.String("method", method), slog.String("path", path), slog.Duration("latency", latency), slog.Any("err", err))
		return err
	}

	if err := decodeValidated(ctx, op, schema, data, out); err != nil {
		logger.Warn("badgeapi: response rejected", slog.String("op", op), slog.String("path", path), slog.Any("err", err))
		return err
	}

	logger.Debug("badgeapi: request ok", slog.String("op", op), slog.String("method", method), slog.String("path", path), slog.Duration("latency", latency))
	return nil
}

// send returns the raw 2xx body. With dedupe on, a GET shares its round-trip
// with identical in-flight GETs; writes always go out on their own.
func (c *Client) send(ctx context.Context, op, method, path string, payload []byte) ([]byte, error) {
	if !c.dedupe || method != http.MethodGet {
		ctxReq, cancel := context.WithTimeout(ctx, c.cfg.Timeout)
		defer cancel()
		return c.roundTrip(ctxReq, op, method, path, payload)
	}

	token, _ := c.token()
	key := method + " " + path + "\x00" + token + "\x00" + string(payload)
	ch := c.group.DoChan(key, func() (any, error) {
		// the shared request must not die with whichever caller started it
		ctxReq, cancel := context.WithTimeout(context.WithoutCancel(ctx), c.cfg.Timeout)
		defer cancel()
		return c.roundTrip(ctxReq, op, method, path, payload)
	})

	select {
	case <-ctx.Done():
		return nil, &UnreachableError{Op: op, Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			logger.Debug("badgeapi: shared in-flight response", slog.String("op", op), slog.String("path", path))
		}
		return res.Val.([]byte), nil
	}
}

func (c *Client) roundTrip(ctx context.Context, op, method, path string, payload []byte) ([]byte, error) {
	u := c.base.ResolveReference(&url.URL{Path: path})

	var rd io.Reader
	if payload != nil {
		rd = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, u.String(), rd)
	if err != nil {
		return nil, fmt.Errorf("%s: build request: %w", op, err)
	}
	req.Header.Set("Accept", "application/json")
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token, ok := c.token(); ok {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, &UnreachableError{Op: op, Err: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return nil, &UnreachableError{Op: op, Err: fmt.Errorf("read body: %w", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, &ServerError{Op: op, Status: resp.StatusCode, Message: errorMessage(data)}
	}

	return data, nil
}

func (c *Client) token() (string, bool) {
	if c.tokens == nil {
		return "", false
	}
	return c.tokens()
}
