// Package groupmeapi is a small client for the GroupMe v3 REST API.
package groupmeapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/aalvaropc/gmscraper/internal/domain"
	"github.com/aalvaropc/gmscraper/internal/infra/httpclient"
	"github.com/aalvaropc/gmscraper/internal/ports"
)

const (
	DefaultBaseURL = "https://api.groupme.com/v3"

	defaultRetries    = 2
	defaultBackoff    = 250 * time.Millisecond
	defaultMaxBackoff = 5 * time.Second
	defaultRateLimit  = 5
	defaultBurst      = 5
	groupsPerPage     = 100
	maxGroupPages     = 50
	maxErrorBody      = 512
)

// Options configures the client behavior.
type Options struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
	RateLimit  rate.Limit
	Burst      int
	MaxRetries int
	Backoff    time.Duration
	MaxBackoff time.Duration
	Logger     *slog.Logger
}

// Client talks to the GroupMe API. The token travels in the X-Access-Token
// header so it never shows up in URLs or error messages.
type Client struct {
	baseURL    string
	token      string
	http       *http.Client
	limiter    *rate.Limiter
	maxRetries int
	backoff    time.Duration
	maxBackoff time.Duration
	log        *slog.Logger
}

var _ ports.GroupSource = (*Client)(nil)

// StatusError is returned for unexpected HTTP statuses.
type StatusError struct {
	Status int
	Body   string
}

func (e *StatusError) Error() string {
	msg := fmt.Sprintf("unexpected status %d", e.Status)
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

func New(opts Options) *Client {
	opts = normalizeOptions(opts)
	return &Client{
		baseURL:    strings.TrimRight(opts.BaseURL, "/"),
		token:      opts.Token,
		http:       opts.HTTPClient,
		limiter:    rate.NewLimiter(opts.RateLimit, opts.Burst),
		maxRetries: opts.MaxRetries,
		backoff:    opts.Backoff,
		maxBackoff: opts.MaxBackoff,
		log:        opts.Logger,
	}
}

func normalizeOptions(opts Options) Options {
	if strings.TrimSpace(opts.BaseURL) == "" {
		opts.BaseURL = DefaultBaseURL
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = httpclient.New(httpclient.DefaultConfig())
	}
	if opts.RateLimit <= 0 {
		opts.RateLimit = rate.Limit(defaultRateLimit)
	}
	if opts.Burst <= 0 {
		opts.Burst = defaultBurst
	}
	if opts.MaxRetries < 0 {
		opts.MaxRetries = 0
	}
	if opts.Backoff <= 0 {
		opts.Backoff = defaultBackoff
	}
	if opts.MaxBackoff <= 0 {
		opts.MaxBackoff = defaultMaxBackoff
	}
	if opts.Logger == nil {
		opts.Logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return opts
}

// ListGroups returns every group the token's user belongs to, following pagination.
func (c *Client) ListGroups(ctx context.Context) ([]domain.Group, error) {
	var out []domain.Group

	for page := 1; page <= maxGroupPages; page++ {
		q := url.Values{}
		q.Set("page", strconv.Itoa(page))
		q.Set("per_page", strconv.Itoa(groupsPerPage))

		var env envelope[[]groupDTO]
		status, err := c.getJSON(ctx, []string{"groups"}, q, &env)
		if err != nil {
			return nil, c.wrap("groupmeapi.groups", status, err)
		}

		for _, g := range env.Response {
			out = append(out, mapGroup(g))
		}
		if len(env.Response) < groupsPerPage {
			break
		}
	}

	c.log.Debug("groupmeapi.groups.ok", "count", len(out))
	return out, nil
}

// ListMessages returns one page of messages older than beforeID.
// GroupMe answers 304 Not Modified when there is nothing older; that is an empty page.
func (c *Client) ListMessages(ctx context.Context, groupID, beforeID string, limit int) ([]domain.Message, error) {
	if strings.TrimSpace(groupID) == "" {
		return nil, &domain.OpError{
			Op:   "groupmeapi.messages",
			Kind: domain.KindMessageFetch,
			Err:  errors.New("group id is empty"),
		}
	}

	q := url.Values{}
	if limit > 0 {
		q.Set("limit", strconv.Itoa(limit))
	}
	if beforeID != "" {
		q.Set("before_id", beforeID)
	}

	var env envelope[messagesDTO]
	status, err := c.getJSON(ctx, []string{"groups", groupID, "messages"}, q, &env)
	if status == http.StatusNotModified {
		return []domain.Message{}, nil
	}
	if err != nil {
		return nil, c.wrap("groupmeapi.messages", status, err)
	}

	out := make([]domain.Message, 0, len(env.Response.Messages))
	for _, m := range env.Response.Messages {
		out = append(out, mapMessage(m))
	}

	c.log.Debug("groupmeapi.messages.page",
		"group_id", groupID,
		"before_id", beforeID,
		"count", len(out),
	)
	return out, nil
}

func (c *Client) wrap(op string, status int, err error) error {
	var ctxErr error
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		ctxErr = err
	}

	kind := domain.KindMessageFetch
	switch {
	case ctxErr != nil:
		kind = domain.KindExecution
	case status == http.StatusUnauthorized:
		kind = domain.KindTokenMissing
	case status == http.StatusNotFound:
		kind = domain.KindNotFound
	}
	return &domain.OpError{Op: op, Kind: kind, Err: err}
}

// getJSON performs a GET with rate limiting and retries, decoding a 2xx body into dst.
// The returned status is the last HTTP status seen (0 if no response).
func (c *Client) getJSON(ctx context.Context, segments []string, q url.Values, dst any) (int, error) {
	rawURL, err := httpclient.BuildURL(c.baseURL, segments, q)
	if err != nil {
		return 0, err
	}

	maxAttempts := c.maxRetries + 1
	var lastErr error
	lastStatus := 0

	for attempt := 1; attempt <= maxAttempts; attempt++ {
		if err := c.limiter.Wait(ctx); err != nil {
			return lastStatus, err
		}

		status, body, err := c.do(ctx, rawURL)
		lastStatus = status

		if err == nil && status >= 200 && status < 300 {
			if err := json.Unmarshal(body, dst); err != nil {
				return status, fmt.Errorf("decode response: %w", err)
			}
			return status, nil
		}
		if err == nil && status == http.StatusNotModified {
			return status, nil
		}

		if err != nil {
			lastErr = err
		} else {
			lastErr = &StatusError{Status: status, Body: trimBody(body)}
		}

		if attempt == maxAttempts || !shouldRetry(status, err) {
			break
		}

		wait := c.backoffFor(attempt - 1)
		c.log.Warn("groupmeapi.retry",
			"path", strings.Join(segments, "/"),
			"attempt", attempt,
			"status", status,
			"wait", wait.String(),
			"err", lastErr,
		)
		if err := sleepWithContext(ctx, wait); err != nil {
			return lastStatus, err
		}
	}

	return lastStatus, lastErr
}

func (c *Client) do(ctx context.Context, rawURL string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Access-Token", c.token)

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}

func shouldRetry(status int, err error) bool {
	if err != nil {
		return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
	}
	return status == http.StatusTooManyRequests || status >= http.StatusInternalServerError
}

func (c *Client) backoffFor(attempt int) time.Duration {
	wait := c.backoff * time.Duration(1<<attempt)
	if wait > c.maxBackoff {
		wait = c.maxBackoff
	}
	return wait
}

func sleepWithContext(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

func trimBody(b []byte) string {
	s := strings.TrimSpace(string(b))
	if len(s) > maxErrorBody {
		s = s[:maxErrorBody] + "..."
	}
	return s
}
