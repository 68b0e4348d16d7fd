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
	"strings"
	"time"

	"gymflow/fitness-app/internal/events"
	"gymflow/fitness-app/internal/planner"

	log "github.com/sirupsen/logrus"
)

const (
	defaultTimeout = 15 * time.Second
	maxErrorBody   = 64 << 10
)

// Config is everything a client needs to reach the API. There is no package
// level state: two clients with different configs never interfere.
type Config struct {
	BaseURL    string
	Timeout    time.Duration
	HTTPClient *http.Client // optional, a client with Timeout is built when nil
	Tokens     TokenSource  // required for the plan client
	Sessions   *events.Bus[SessionExpired]
}

type transport struct {
	baseURL  *url.URL
	http     *http.Client
	tokens   TokenSource
	sessions *events.Bus[SessionExpired]
}

func newTransport(cfg Config) (*transport, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("client: base URL is required")
	}
	base, err := url.Parse(strings.TrimRight(cfg.BaseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("client: parse base URL: %w", err)
	}
	if base.Scheme != "http" && base.Scheme != "https" {
		return nil, fmt.Errorf("client: unsupported base URL scheme %q", base.Scheme)
	}

	httpClient := cfg.HTTPClient
	if httpClient == nil {
		timeout := cfg.Timeout
		if timeout <= 0 {
			timeout = defaultTimeout
		}
		httpClient = &http.Client{Timeout: timeout}
	}

	return &transport{
		baseURL:  base,
		http:     httpClient,
		tokens:   cfg.Tokens,
		sessions: cfg.Sessions,
	}, nil
}

// errorBody is the error document returned by the API.
type errorBody struct {
	Message string            `json:"message"`
	Error   string            `json:"error"`
	Errors  map[string]string `json:"errors"`
}

func (b errorBody) text(status int) string {
	switch {
	case b.Message != "":
		return b.Message
	case b.Error != "":
		return b.Error
	default:
		return http.StatusText(status)
	}
}

// do sends one request and decodes a 2xx JSON body into out (when out is not
// nil). Non-2xx answers are turned into the typed errors of this package.
func (t *transport) do(ctx context.Context, method, path string, authenticated bool, in, out any) (int, error) {
	var body io.Reader
	if in != nil {
		payload, err := json.Marshal(in)
		if err != nil {
			return 0, fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, t.baseURL.String()+path, body)
	if err != nil {
		return 0, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	if authenticated {
		if t.tokens == nil {
			return 0, &AuthError{Message: ErrNoToken.Error()}
		}
		token, err := t.tokens.Token()
		if err != nil {
			return 0, &AuthError{Message: err.Error()}
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := t.http.Do(req)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, ctxErr
		}
		return 0, &TransientError{Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		if out == nil || resp.StatusCode == http.StatusNoContent {
			_, _ = io.Copy(io.Discard, resp.Body)
			return resp.StatusCode, nil
		}
		if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
			return resp.StatusCode, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		return resp.StatusCode, nil
	}

	var eb errorBody
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &eb); err != nil {
			log.Debugf("client: non-JSON error body for %s %s: %s", method, path, err)
		}
	}
	return resp.StatusCode, t.statusError(resp.StatusCode, eb, authenticated)
}

func (t *transport) statusError(status int, eb errorBody, authenticated bool) error {
	msg := eb.text(status)
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		if authenticated {
			t.sessions.Publish(SessionExpired{StatusCode: status, At: time.Now()})
		}
		return &AuthError{StatusCode: status, Message: msg}
	case status == http.StatusNotFound:
		return &NotFoundError{}
	case status == http.StatusTooManyRequests || status >= 500:
		return &TransientError{StatusCode: status, Err: errors.New(msg)}
	case status >= 400:
		return &planner.ValidationError{Message: msg, Fields: eb.Errors}
	default:
		return fmt.Errorf("unexpected status %d: %s", status, msg)
	}
}
