package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

type Category struct {
	Id   uint   `json:"id"`
	Name string `json:"name"`
}

type Note struct {
	Id         uint       `json:"id"`
	Title      string     `json:"title"`
	Content    string     `json:"content"`
	Archived   bool       `json:"archived"`
	CreatedAt  time.Time  `json:"createdAt"`
	Categories []Category `json:"categories"`
}

// APIError is a non-2xx response decoded from the server's error body.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("notes api: %d %s", e.StatusCode, e.Message)
}

type NotesQuery struct {
	Archived *bool
	Category string
}

// NotePatch carries a partial update; nil fields are left untouched.
type NotePatch struct {
	Title   *string `json:"title,omitempty"`
	Content *string `json:"content,omitempty"`
}

// Client is a typed HTTP client over the notes REST API.
type Client struct {
	baseURL    string
	httpClient *http.Client
}

func New(baseURL string) *Client {
	return &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Timeout: 10 * time.Second,
		},
	}
}

func (c *Client) ListNotes(ctx context.Context, query NotesQuery) ([]Note, error) {
	params := url.Values{}
	if query.Archived != nil {
		params.Set("archived", strconv.FormatBool(*query.Archived))
	}
	if query.Category != "" {
		params.Set("category", query.Category)
	}

	path := "/notes"
	if encoded := params.Encode(); encoded != "" {
		path += "?" + encoded
	}

	var notes []Note
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &notes); err != nil {
		return nil, err
	}
	return notes, nil
}

func (c *Client) CreateNote(ctx context.Context, title, content string) (*Note, error) {
	body := map[string]string{"title": title, "content": content}
	var note Note
	if err := c.doJSON(ctx, http.MethodPost, "/notes", body, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (c *Client) UpdateNote(ctx context.Context, id uint, patch NotePatch) (*Note, error) {
	var note Note
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/notes/%d", id), patch, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (c *Client) DeleteNote(ctx context.Context, id uint) error {
	return c.doJSON(ctx, http.MethodDelete, fmt.Sprintf("/notes/%d", id), nil, nil)
}

func (c *Client) ToggleArchive(ctx context.Context, id uint) (*Note, error) {
	var note Note
	if err := c.doJSON(ctx, http.MethodPut, fmt.Sprintf("/notes/%d/archive", id), nil, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.doJSON(ctx, http.MethodGet, "/notes/category", nil, &categories); err != nil {
		return nil, err
	}
	return categories, nil
}

func (c *Client) CreateCategory(ctx context.Context, name string) (*Category, error) {
	body := map[string]string{"name": name}
	var category Category
	if err := c.doJSON(ctx, http.MethodPost, "/notes/category", body, &category); err != nil {
		return nil, err
	}
	return &category, nil
}

func (c *Client) AssignCategory(ctx context.Context, noteId, categoryId uint) (*Note, error) {
	body := map[string]uint{"categoryId": categoryId}
	var note Note
	if err := c.doJSON(ctx, http.MethodPost, fmt.Sprintf("/notes/%d/category", noteId), body, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (c *Client) RemoveCategory(ctx context.Context, noteId, categoryId uint) (*Note, error) {
	var note Note
	path := fmt.Sprintf("/notes/%d/category/%d", noteId, categoryId)
	if err := c.doJSON(ctx, http.MethodDelete, path, nil, &note); err != nil {
		return nil, err
	}
	return &note, nil
}

func (c *Client) doJSON(ctx context.Context, method, path string, body, out interface{}) error {
	var reqBody *bytes.Buffer
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("notes api: encode request: %w", err)
		}
		reqBody = bytes.NewBuffer(encoded)
	} else {
		reqBody = &bytes.Buffer{}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reqBody)
	if err != nil {
		return fmt.Errorf("notes api: build request: %w", err)
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return fmt.Errorf("notes api: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		apiErr := &APIError{StatusCode: resp.StatusCode, Message: resp.Status}
		var errBody struct {
			Message string `json:"message"`
		}
		if decodeErr := json.NewDecoder(resp.Body).Decode(&errBody); decodeErr == nil && errBody.Message != "" {
			apiErr.Message = errBody.Message
		}
		return apiErr
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("notes api: decode response: %w", err)
	}
	return nil
}
