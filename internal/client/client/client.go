// Package client is the CLI's HTTP client for the learnjournal API and the
// assistant relay, plus the local state database it keeps its session in.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"sync"
	"time"

	"github.com/dmitrijs2005/learnjournal/internal/assistant"
	"github.com/dmitrijs2005/learnjournal/internal/client/models"
	"github.com/dmitrijs2005/learnjournal/internal/common"
	"github.com/dmitrijs2005/learnjournal/internal/streak"
)

const maxErrorBody = 4 << 10

// TokenSink is told about every token pair the client obtains, so the
// session can be persisted.
type TokenSink func(ctx context.Context, pair models.TokenPair) error

type HTTPClient struct {
	baseURL       string
	timeout       time.Duration
	streamTimeout time.Duration
	http          *http.Client

	mu           sync.Mutex
	accessToken  string
	refreshToken string
	onTokens     TokenSink
}

// NewHTTPClient returns a client for baseURL. timeout bounds each
// non-streaming call; a nil hc means http.DefaultClient.
func NewHTTPClient(baseURL string, timeout time.Duration, hc *http.Client) *HTTPClient {
	if hc == nil {
		hc = http.DefaultClient
	}
	return &HTTPClient{baseURL: baseURL, timeout: timeout, http: hc}
}

// SetStreamTimeout bounds assistant calls, including reading a streamed
// answer to the end. Zero leaves them bounded only by ctx.
func (c *HTTPClient) SetStreamTimeout(d time.Duration) {
	c.streamTimeout = d
}

func (c *HTTPClient) SetTokens(pair models.TokenPair) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.accessToken = pair.AccessToken
	c.refreshToken = pair.RefreshToken
}

func (c *HTTPClient) Tokens() models.TokenPair {
	c.mu.Lock()
	defer c.mu.Unlock()
	return models.TokenPair{AccessToken: c.accessToken, RefreshToken: c.refreshToken}
}

func (c *HTTPClient) OnTokens(fn TokenSink) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.onTokens = fn
}

func (c *HTTPClient) storeTokens(ctx context.Context, pair models.TokenPair) error {
	c.SetTokens(pair)
	c.mu.Lock()
	sink := c.onTokens
	c.mu.Unlock()
	if sink == nil {
		return nil
	}
	return sink(ctx, pair)
}

func (c *HTTPClient) Register(ctx context.Context, email, password string) error {
	body := map[string]string{"email": email, "password": password}
	return c.do(ctx, http.MethodPost, "/api/auth/register", body, nil, false)
}

func (c *HTTPClient) Login(ctx context.Context, email, password string) (models.TokenPair, error) {
	var pair models.TokenPair
	body := map[string]string{"email": email, "password": password}
	if err := c.do(ctx, http.MethodPost, "/api/auth/login", body, &pair, false); err != nil {
		return models.TokenPair{}, err
	}
	return pair, c.storeTokens(ctx, pair)
}

// Logout revokes the refresh token server-side and forgets both tokens.
func (c *HTTPClient) Logout(ctx context.Context) error {
	rt := c.Tokens().RefreshToken
	c.SetTokens(models.TokenPair{})
	if rt == "" {
		return nil
	}
	return c.do(ctx, http.MethodPost, "/api/auth/logout", map[string]string{"refresh_token": rt}, nil, false)
}

func (c *HTTPClient) refresh(ctx context.Context) error {
	rt := c.Tokens().RefreshToken
	if rt == "" {
		return ErrNotLoggedIn
	}
	var pair models.TokenPair
	if err := c.do(ctx, http.MethodPost, "/api/auth/refresh", map[string]string{"refresh_token": rt}, &pair, false); err != nil {
		return err
	}
	return c.storeTokens(ctx, pair)
}

func (c *HTTPClient) ListEntries(ctx context.Context, query, status string) ([]models.Entry, error) {
	v := url.Values{}
	if query != "" {
		v.Set("q", query)
	}
	if status != "" {
		v.Set("status", status)
	}
	path := "/api/entries"
	if len(v) > 0 {
		path += "?" + v.Encode()
	}
	var out []models.Entry
	return out, c.do(ctx, http.MethodGet, path, nil, &out, true)
}

func (c *HTTPClient) CreateEntry(ctx context.Context, in models.EntryInput) (*models.Entry, error) {
	var out models.Entry
	if err := c.do(ctx, http.MethodPost, "/api/entries", in, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) DeleteEntry(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/entries/"+url.PathEscape(id), nil, nil, true)
}

func (c *HTTPClient) ListTopics(ctx context.Context) ([]models.Topic, error) {
	var out []models.Topic
	return out, c.do(ctx, http.MethodGet, "/api/topics", nil, &out, true)
}

func (c *HTTPClient) CreateTopic(ctx context.Context, name, color string) (*models.Topic, error) {
	var out models.Topic
	if err := c.do(ctx, http.MethodPost, "/api/topics", map[string]string{"name": name, "color": color}, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) ListTags(ctx context.Context) ([]models.Tag, error) {
	var out []models.Tag
	return out, c.do(ctx, http.MethodGet, "/api/tags", nil, &out, true)
}

func (c *HTTPClient) CreateTag(ctx context.Context, name string) (*models.Tag, error) {
	var out models.Tag
	if err := c.do(ctx, http.MethodPost, "/api/tags", map[string]string{"name": name}, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Streak(ctx context.Context) (*streak.Stats, error) {
	var out streak.Stats
	if err := c.do(ctx, http.MethodGet, "/api/streak", nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) StreakWindow(ctx context.Context, days int) ([]streak.Day, error) {
	var out []streak.Day
	return out, c.do(ctx, http.MethodGet, "/api/streak/window?days="+strconv.Itoa(days), nil, &out, true)
}

func (c *HTTPClient) ListFavorites(ctx context.Context) ([]models.FavoriteQuestion, error) {
	var out []models.FavoriteQuestion
	return out, c.do(ctx, http.MethodGet, "/api/favorites", nil, &out, true)
}

func (c *HTTPClient) AddFavorite(ctx context.Context, q assistant.Question, sourceTopic *string) (*models.FavoriteQuestion, error) {
	body := struct {
		Question    assistant.Question `json:"question"`
		SourceTopic *string            `json:"source_topic"`
	}{q, sourceTopic}
	var out models.FavoriteQuestion
	if err := c.do(ctx, http.MethodPost, "/api/favorites", body, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) RemoveFavorite(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/api/favorites/"+url.PathEscape(id), nil, nil, true)
}

func (c *HTTPClient) Subscribe(ctx context.Context, sub models.Subscription) error {
	return c.do(ctx, http.MethodPut, "/api/push/subscriptions", sub, nil, true)
}

func (c *HTTPClient) Unsubscribe(ctx context.Context, endpoint string) error {
	return c.do(ctx, http.MethodDelete, "/api/push/subscriptions?endpoint="+url.QueryEscape(endpoint), nil, nil, true)
}

func (c *HTTPClient) SubscriptionStatus(ctx context.Context) (*models.SubscriptionStatus, error) {
	var out models.SubscriptionStatus
	if err := c.do(ctx, http.MethodGet, "/api/push/subscriptions", nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *HTTPClient) Export(ctx context.Context) (*models.Export, error) {
	var out models.Export
	if err := c.do(ctx, http.MethodPost, "/api/export", nil, &out, true); err != nil {
		return nil, err
	}
	return &out, nil
}

// StreamAssistant posts a streaming action to the relay and returns the
// event-stream body. The caller closes it. The stream timeout covers the
// whole read; cancel ctx to abort earlier.
func (c *HTTPClient) StreamAssistant(ctx context.Context, req *assistant.Request) (io.ReadCloser, error) {
	ctx, cancel := c.streamContext(ctx)
	resp, err := c.send(ctx, http.MethodPost, "/functions/ai-assistant", req, true)
	if err != nil {
		cancel()
		return nil, err
	}
	return &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}, nil
}

func (c *HTTPClient) InterviewPrep(ctx context.Context, req *assistant.Request) (*assistant.InterviewPrep, error) {
	ctx, cancel := c.streamContext(ctx)
	defer cancel()

	resp, err := c.send(ctx, http.MethodPost, "/functions/ai-assistant", req, true)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	var out assistant.InterviewPrep
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode interview prep: %w", err)
	}
	return &out, nil
}

func (c *HTTPClient) streamContext(ctx context.Context) (context.Context, context.CancelFunc) {
	if c.streamTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, c.streamTimeout)
}

// cancelOnClose releases the request context once the body is closed.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (b *cancelOnClose) Close() error {
	err := b.ReadCloser.Close()
	b.cancel()
	return err
}

// do runs a bounded call and decodes the JSON response into out when out
// is non-nil.
func (c *HTTPClient) do(ctx context.Context, method, path string, in, out any, authed bool) error {
	if c.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.timeout)
		defer cancel()
	}

	resp, err := c.send(ctx, method, path, in, authed)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode %s %s: %w", method, path, err)
	}
	return nil
}

// send performs the request and, for authenticated calls answered with
// 401, refreshes the token pair once and retries. Non-2xx responses come
// back as *APIError.
func (c *HTTPClient) send(ctx context.Context, method, path string, in any, authed bool) (*http.Response, error) {
	var payload []byte
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return nil, err
		}
		payload = b
	}

	if authed && c.Tokens().AccessToken == "" {
		return nil, ErrNotLoggedIn
	}

	resp, err := c.roundTrip(ctx, method, path, payload, authed)
	if err != nil {
		return nil, err
	}

	if authed && resp.StatusCode == http.StatusUnauthorized && c.Tokens().RefreshToken != "" {
		resp.Body.Close()
		if err := c.refresh(ctx); err != nil {
			if errors.Is(err, ErrUnauthorized) {
				return nil, fmt.Errorf("session expired, log in again: %w", err)
			}
			return nil, err
		}
		resp, err = c.roundTrip(ctx, method, path, payload, authed)
		if err != nil {
			return nil, err
		}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		defer resp.Body.Close()
		return nil, decodeError(resp)
	}
	return resp, nil
}

func (c *HTTPClient) roundTrip(ctx context.Context, method, path string, payload []byte, authed bool) (*http.Response, error) {
	var body io.Reader
	if payload != nil {
		body = bytes.NewReader(payload)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if authed {
		req.Header.Set(common.AuthorizationHeaderName, common.BearerPrefix+c.Tokens().AccessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if ctx.Err() != nil {
			return nil, ctx.Err()
		}
		return nil, fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	return resp, nil
}

func decodeError(resp *http.Response) error {
	b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var body struct {
		Error string `json:"error"`
	}
	msg := http.StatusText(resp.StatusCode)
	if json.Unmarshal(b, &body) == nil && body.Error != "" {
		msg = body.Error
	}
	return &APIError{Status: resp.StatusCode, Message: msg}
}
