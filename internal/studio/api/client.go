// Package api implements the HTTP client for the Product Studio backend.
// Every analysis feature mounts the same verb set under its own base path;
// the client is parameterized by feature and stays payload-agnostic.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/productstudio/studio/internal/core/feature"
	"github.com/productstudio/studio/internal/core/session"
)

// Client is a Product Studio REST API client.
type Client struct {
	baseURL    string
	token      string
	httpClient *http.Client
	logger     zerolog.Logger
}

// NewClient creates a client for the backend at baseURL. token is optional;
// when set it is sent as a bearer token.
func NewClient(baseURL, token string, timeout time.Duration, logger zerolog.Logger) *Client {
	return &Client{
		baseURL: baseURL,
		token:   token,
		httpClient: &http.Client{
			Timeout: timeout,
		},
		logger: logger,
	}
}

// do executes one JSON round trip and unmarshals the response into out.
// Non-2xx responses become *Error with the backend detail when present.
func (c *Client) do(ctx context.Context, method, path string, body any, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshal request: %w", err)
		}
		reader = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	requestID := uuid.NewString()
	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-ID", requestID)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}

	c.logger.Debug().
		Str("method", method).
		Str("path", path).
		Str("request_id", requestID).
		Msg("api request")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &Error{Message: fmt.Sprintf("request failed: %v", err)}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Message: fmt.Sprintf("read response: %v", err)}
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &Error{
			StatusCode: resp.StatusCode,
			Message:    http.StatusText(resp.StatusCode),
		}
		var eb errorBody
		if json.Unmarshal(respBody, &eb) == nil {
			apiErr.Detail = eb.Detail
		}
		c.logger.Debug().
			Int("status", resp.StatusCode).
			Str("path", path).
			Str("request_id", requestID).
			Msg("api error response")
		return apiErr
	}

	if out != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, out); err != nil {
			return &Error{Message: fmt.Sprintf("decode response: %v", err)}
		}
	}

	return nil
}

// CreateSession starts a new analysis job with feature-specific parameters.
func (c *Client) CreateSession(ctx context.Context, f feature.Feature, params map[string]any) (*session.Session, error) {
	var sess session.Session
	if err := c.do(ctx, http.MethodPost, f.BasePath+"/sessions", params, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// ListSessions fetches one page of sessions, most recent first.
func (c *Client) ListSessions(ctx context.Context, f feature.Feature, skip, limit int) ([]session.Session, error) {
	q := url.Values{}
	q.Set("skip", strconv.Itoa(skip))
	q.Set("limit", strconv.Itoa(limit))

	var sessions []session.Session
	if err := c.do(ctx, http.MethodGet, f.BasePath+"/sessions?"+q.Encode(), nil, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// GetSession fetches the full session document, including nested
// sub-resources for the richer features.
func (c *Client) GetSession(ctx context.Context, f feature.Feature, id int64) (*session.Session, error) {
	var sess session.Session
	if err := c.do(ctx, http.MethodGet, sessionPath(f, id), nil, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// GetStatus fetches the lightweight status projection. This is the call the
// poller repeats; it deliberately avoids transferring the result payload.
func (c *Client) GetStatus(ctx context.Context, f feature.Feature, id int64) (*session.StatusProjection, error) {
	var proj session.StatusProjection
	if err := c.do(ctx, http.MethodGet, sessionPath(f, id)+"/status", nil, &proj); err != nil {
		return nil, err
	}
	return &proj, nil
}

// RetrySession resets a failed session for reprocessing and returns the
// updated session with its reset status.
func (c *Client) RetrySession(ctx context.Context, f feature.Feature, id int64) (*session.Session, error) {
	var sess session.Session
	if err := c.do(ctx, http.MethodPost, sessionPath(f, id)+"/retry", nil, &sess); err != nil {
		return nil, err
	}
	return &sess, nil
}

// DeleteSession removes a session.
func (c *Client) DeleteSession(ctx context.Context, f feature.Feature, id int64) error {
	return c.do(ctx, http.MethodDelete, sessionPath(f, id), nil, nil)
}

// UpdateComponent patches an editable component sub-resource. Only features
// with HasComponents expose this endpoint.
func (c *Client) UpdateComponent(ctx context.Context, f feature.Feature, componentID int64, fields map[string]any) (*session.Component, error) {
	if !f.HasComponents {
		return nil, &Error{Message: fmt.Sprintf("feature %s has no editable components", f.Name)}
	}

	var comp session.Component
	path := fmt.Sprintf("%s/components/%d", f.BasePath, componentID)
	if err := c.do(ctx, http.MethodPatch, path, fields, &comp); err != nil {
		return nil, err
	}
	return &comp, nil
}

func sessionPath(f feature.Feature, id int64) string {
	return fmt.Sprintf("%s/sessions/%d", f.BasePath, id)
}
