// Package client provides an HTTP client for the place-notes REST API.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/evcraddock/place-notes/internal/auth"
	"github.com/evcraddock/place-notes/internal/comment"
	"github.com/evcraddock/place-notes/internal/place"
)

// Client is an HTTP client for the place-notes API.
type Client struct {
	baseURL    string
	apiKey     string
	httpClient *http.Client
}

// New creates a new API client.
func New(baseURL, apiKey string) *Client {
	return &Client{
		baseURL:    baseURL,
		apiKey:     apiKey,
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
}

// ShowResponse is the response from GET /api/places/{id}.
type ShowResponse struct {
	Place    *place.Place      `json:"place"`
	Comments []comment.Comment `json:"comments"`
}

// ListPlaces returns all places, newest first.
func (c *Client) ListPlaces(ctx context.Context) ([]*place.Place, error) {
	var places []*place.Place
	if err := c.send(ctx, http.MethodGet, "/api/places", "", nil, &places); err != nil {
		return nil, err
	}
	return places, nil
}

// GetPlace returns a place with its comments.
func (c *Client) GetPlace(ctx context.Context, id int64) (*ShowResponse, error) {
	var resp ShowResponse
	if err := c.send(ctx, http.MethodGet, fmt.Sprintf("/api/places/%d", id), "", nil, &resp); err != nil {
		return nil, err
	}
	return &resp, nil
}

// AddPlace creates a place.
func (c *Client) AddPlace(ctx context.Context, name, address string) (*place.Place, error) {
	body := map[string]string{"name": name, "address": address}
	var p place.Place
	if err := c.send(ctx, http.MethodPost, "/api/places", "", body, &p); err != nil {
		return nil, err
	}
	return &p, nil
}

// DeletePlace removes a place and its comments.
func (c *Client) DeletePlace(ctx context.Context, id int64) error {
	return c.send(ctx, http.MethodDelete, fmt.Sprintf("/api/places/%d", id), "", nil, nil)
}

// ListComments returns the comments of a place, oldest first.
func (c *Client) ListComments(ctx context.Context, placeID int64) ([]comment.Comment, error) {
	var comments []comment.Comment
	if err := c.send(ctx, http.MethodGet, fmt.Sprintf("/api/places/%d/comments", placeID), "", nil, &comments); err != nil {
		return nil, err
	}
	return comments, nil
}

// AddComment creates a comment from d.
func (c *Client) AddComment(ctx context.Context, d comment.Draft) (*comment.Comment, error) {
	var comm comment.Comment
	if err := c.send(ctx, http.MethodPost, fmt.Sprintf("/api/places/%d/comments", d.PlaceID), "", d, &comm); err != nil {
		return nil, err
	}
	return &comm, nil
}

// UpdateComment replaces a comment's text.
func (c *Client) UpdateComment(ctx context.Context, id int64, text string) (*comment.Comment, error) {
	body := map[string]string{"text": text}
	var comm comment.Comment
	if err := c.send(ctx, http.MethodPatch, fmt.Sprintf("/api/comments/%d", id), "", body, &comm); err != nil {
		return nil, err
	}
	return &comm, nil
}

// DeleteComment removes a comment.
func (c *Client) DeleteComment(ctx context.Context, id int64) error {
	return c.send(ctx, http.MethodDelete, fmt.Sprintf("/api/comments/%d", id), "", nil, nil)
}

// GetUserProfile returns the user that token belongs to. An empty token
// falls back to the client's API key.
func (c *Client) GetUserProfile(ctx context.Context, token string) (*auth.User, error) {
	var u auth.User
	if err := c.send(ctx, http.MethodGet, "/api/me", token, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// send builds a request, encoding body as JSON when non-nil, and decodes
// the response into result.
func (c *Client) send(ctx context.Context, method, path, token string, body, result interface{}) error {
	var r io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("marshaling request: %w", err)
		}
		r = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, r)
	if err != nil {
		return fmt.Errorf("creating request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token == "" {
		token = c.apiKey
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	return c.do(req, result)
}

// do executes an HTTP request and classifies failures.
func (c *Client) do(req *http.Request, result interface{}) error {
	resp, err := c.httpClient.Do(req)
	if err != nil {
		return &NetworkError{Err: err}
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			slog.Warn("closing response body", "error", cerr)
		}
	}()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return &NetworkError{Err: fmt.Errorf("reading response: %w", err)}
	}

	if resp.StatusCode >= 400 {
		var errResp struct {
			Error string `json:"error"`
		}
		serr := &ServerError{StatusCode: resp.StatusCode}
		if json.Unmarshal(respBody, &errResp) == nil {
			serr.Message = errResp.Error
		}
		return serr
	}

	if result != nil && len(respBody) > 0 {
		if err := json.Unmarshal(respBody, result); err != nil {
			return fmt.Errorf("decoding response: %w", err)
		}
	}

	return nil
}
