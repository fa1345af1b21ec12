// Package apiclient is a typed client for the whispermap HTTP and websocket API.
package apiclient

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"

	"whispermap/internal/story"
)

// APIError is a non-2xx response decoded from the server's JSON error body.
type APIError struct {
	Status  int      `json:"-"`
	Message string   `json:"error"`
	Details []string `json:"details,omitempty"`
}

func (e *APIError) Error() string {
	if len(e.Details) > 0 {
		return fmt.Sprintf("api %d: %s (%s)", e.Status, e.Message, strings.Join(e.Details, "; "))
	}
	return fmt.Sprintf("api %d: %s", e.Status, e.Message)
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

type NewStory struct {
	Content   string         `json:"content"`
	Category  story.Category `json:"category"`
	Latitude  float64        `json:"latitude"`
	Longitude float64        `json:"longitude"`
}

type reactBody struct {
	Type      story.ReactionType `json:"type"`
	SessionID string             `json:"sessionId"`
}

type ReportEntry struct {
	ID        uint64    `json:"id"`
	StoryID   uint64    `json:"storyId"`
	Reason    string    `json:"reason"`
	CreatedAt time.Time `json:"createdAt"`
}

func (c *Client) ListStories(ctx context.Context, category string) ([]story.View, error) {
	path := "/stories"
	if category != "" {
		path += "?category=" + url.QueryEscape(category)
	}
	var out []story.View
	return out, c.do(ctx, http.MethodGet, path, "", nil, &out)
}

func (c *Client) GetStory(ctx context.Context, id uint64) (story.View, error) {
	var out story.View
	return out, c.do(ctx, http.MethodGet, storyPath(id, ""), "", nil, &out)
}

func (c *Client) Trending(ctx context.Context) ([]story.View, error) {
	var out []story.View
	return out, c.do(ctx, http.MethodGet, "/stories/trending", "", nil, &out)
}

func (c *Client) CreateStory(ctx context.Context, in NewStory) (story.View, error) {
	var out story.View
	return out, c.do(ctx, http.MethodPost, "/stories", "", in, &out)
}

func (c *Client) React(ctx context.Context, id uint64, t story.ReactionType, session string) (story.ReactionState, error) {
	var out story.ReactionState
	return out, c.do(ctx, http.MethodPost, storyPath(id, "/react"), "", reactBody{Type: t, SessionID: session}, &out)
}

func (c *Client) Unreact(ctx context.Context, id uint64, t story.ReactionType, session string) (story.ReactionState, error) {
	var out story.ReactionState
	return out, c.do(ctx, http.MethodDelete, storyPath(id, "/react"), "", reactBody{Type: t, SessionID: session}, &out)
}

func (c *Client) Toggle(ctx context.Context, id uint64, t story.ReactionType, session string) (story.ReactionState, error) {
	var out story.ReactionState
	return out, c.do(ctx, http.MethodPost, storyPath(id, "/react/toggle"), "", reactBody{Type: t, SessionID: session}, &out)
}

// Report files a report and returns its id.
func (c *Client) Report(ctx context.Context, id uint64, reason string) (uint64, error) {
	var out struct {
		ReportID uint64 `json:"reportId"`
	}
	err := c.do(ctx, http.MethodPost, storyPath(id, "/report"), "", map[string]string{"reason": reason}, &out)
	return out.ReportID, err
}

// Login exchanges admin credentials for a bearer token.
func (c *Client) Login(ctx context.Context, username, password string) (string, error) {
	var out struct {
		Token string `json:"token"`
	}
	err := c.do(ctx, http.MethodPost, "/admin/login", "", map[string]string{"username": username, "password": password}, &out)
	return out.Token, err
}

func (c *Client) Reports(ctx context.Context, token string, limit int) ([]ReportEntry, error) {
	path := "/admin/reports"
	if limit > 0 {
		path += "?limit=" + strconv.Itoa(limit)
	}
	var out []ReportEntry
	return out, c.do(ctx, http.MethodGet, path, token, nil, &out)
}

func storyPath(id uint64, suffix string) string {
	return "/stories/" + strconv.FormatUint(id, 10) + suffix
}

func (c *Client) do(ctx context.Context, method, path, token string, in, out any) error {
	var body io.Reader
	if in != nil {
		b, err := json.Marshal(in)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(io.LimitReader(resp.Body, 4<<20))
	if err != nil {
		return err
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		apiErr := &APIError{Status: resp.StatusCode}
		if json.Unmarshal(raw, apiErr) != nil || apiErr.Message == "" {
			apiErr.Message = http.StatusText(resp.StatusCode)
		}
		return apiErr
	}
	if out == nil || len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, out)
}
