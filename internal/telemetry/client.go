// Package telemetry is a best-effort client for the remote games API.
//
// No method returns an error. Failures are logged at debug level and
// reported as a false ok value; nothing is retried.
package telemetry

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

	"go.uber.org/zap"

	"github.com/verte-zerg/tuizen/internal/model"
)

const (
	defaultTimeout  = 3 * time.Second
	defaultDebounce = 200 * time.Millisecond
	maxBodyBytes    = 1 << 20
)

// Options configures a Client.
type Options struct {
	// Endpoint is the API root, e.g. http://127.0.0.1:5001/api. Empty
	// disables every call.
	Endpoint   string
	Timeout    time.Duration
	Debounce   time.Duration
	HTTPClient *http.Client
	Logger     *zap.Logger
}

// Client talks to the games API.
type Client struct {
	base    string
	http    *http.Client
	timeout time.Duration
	logger  *zap.Logger
	prefs   *debouncer
}

// New builds a client.
func New(opts Options) *Client {
	c := &Client{
		base:    strings.TrimRight(strings.TrimSpace(opts.Endpoint), "/"),
		http:    opts.HTTPClient,
		timeout: opts.Timeout,
		logger:  opts.Logger,
	}
	if c.http == nil {
		c.http = &http.Client{}
	}
	if c.timeout <= 0 {
		c.timeout = defaultTimeout
	}
	if c.logger == nil {
		c.logger = zap.NewNop()
	}
	debounce := opts.Debounce
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	c.prefs = newDebouncer(debounce, c.sendPreferences)
	return c
}

// Enabled reports whether an endpoint is configured.
func (c *Client) Enabled() bool {
	return c.base != ""
}

// StartSession opens a session and returns its id.
func (c *Client) StartSession(ctx context.Context, userID string, game model.Game) (string, bool) {
	var resp startResponse
	if !c.post(ctx, "/games/session/start", startRequest{UserID: userID, Game: game}, &resp) {
		return "", false
	}
	if resp.SessionID == "" {
		return "", false
	}
	return resp.SessionID, true
}

// StopSession closes a session.
func (c *Client) StopSession(ctx context.Context, sessionID string) (FinalState, bool) {
	var final FinalState
	if sessionID == "" {
		return final, false
	}
	ok := c.post(ctx, "/games/session/stop", stopRequest{SessionID: sessionID}, &final)
	return final, ok
}

// LogEvent records one game event. Events without a session are dropped.
func (c *Client) LogEvent(ctx context.Context, ev Event) bool {
	if ev.SessionID == "" || ev.Type == "" {
		return false
	}
	return c.post(ctx, "/games/event", ev, nil)
}

// SetPreferences stores preferences after a quiet period; a burst of changes
// for the same user and game results in one request with the last value.
func (c *Client) SetPreferences(userID string, game model.Game, prefs model.Preferences) {
	if !c.Enabled() {
		return
	}
	c.prefs.schedule(preferencesRequest{UserID: userID, Game: game, Preferences: prefs})
}

// GetState fetches the remote state of a game.
func (c *Client) GetState(ctx context.Context, userID string, game model.Game) (GameState, bool) {
	var st GameState
	q := url.Values{}
	q.Set("userId", userID)
	q.Set("game", string(game))
	ok := c.get(ctx, "/games/state", q, &st)
	return st, ok
}

// SubmitBubbleScore records a bubble-pop result.
func (c *Client) SubmitBubbleScore(ctx context.Context, userID string, score int) (ScoreResult, bool) {
	var res ScoreResult
	ok := c.post(ctx, "/games/bubble/score", scoreRequest{UserID: userID, Score: score}, &res)
	return res, ok
}

// SaveZen uploads a garden image and returns its id.
func (c *Client) SaveZen(ctx context.Context, save ZenSave) (string, bool) {
	var resp zenSaveResponse
	if !c.post(ctx, "/games/zen/save", save, &resp) {
		return "", false
	}
	return resp.ID, resp.ID != ""
}

// ListZen lists the most recent gardens of a user.
func (c *Client) ListZen(ctx context.Context, userID string) ([]ZenSummary, bool) {
	var items []ZenSummary
	q := url.Values{}
	q.Set("userId", userID)
	ok := c.get(ctx, "/games/zen/list", q, &items)
	return items, ok
}

// Close sends pending preferences and releases idle connections.
func (c *Client) Close() {
	c.prefs.flush()
	c.http.CloseIdleConnections()
}

func (c *Client) sendPreferences(req preferencesRequest) {
	ctx := context.Background()
	c.post(ctx, "/games/preferences", req, nil)
}

func (c *Client) post(ctx context.Context, path string, body, out any) bool {
	if !c.Enabled() {
		return false
	}
	payload, err := json.Marshal(body)
	if err != nil {
		c.logger.Debug("telemetry encode failed", zap.String("path", path), zap.Error(err))
		return false
	}
	return c.do(ctx, http.MethodPost, path, nil, payload, out)
}

func (c *Client) get(ctx context.Context, path string, q url.Values, out any) bool {
	if !c.Enabled() {
		return false
	}
	return c.do(ctx, http.MethodGet, path, q, nil, out)
}

func (c *Client) do(ctx context.Context, method, path string, q url.Values, payload []byte, out any) bool {
	if err := c.roundTrip(ctx, method, path, q, payload, out); err != nil {
		c.logger.Debug("telemetry call failed",
			zap.String("method", method),
			zap.String("path", path),
			zap.Error(err))
		return false
	}
	return true
}

func (c *Client) roundTrip(ctx context.Context, method, path string, q url.Values, payload []byte, out any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	target := c.base + path
	if len(q) > 0 {
		target += "?" + q.Encode()
	}
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, target, body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			// Best-effort body close.
			_ = cerr
		}
	}()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("decode response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 || env.Status != "success" {
		msg := env.Error
		if msg == "" {
			msg = http.StatusText(resp.StatusCode)
		}
		return fmt.Errorf("server rejected request (status %d): %s", resp.StatusCode, msg)
	}
	if out == nil || len(env.Data) == 0 || string(env.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(env.Data, out); err != nil {
		return fmt.Errorf("decode data: %w", err)
	}
	return nil
}
