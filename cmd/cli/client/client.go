// Package client is a small HTTP client for the forum API used by forumctl.
package client

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/crucial707/forum-api/cmd/cli/config"
	"github.com/crucial707/forum-api/internal/models"
)

// APIError is a non-2xx answer from the API.
type APIError struct {
	Status  int
	Message string
	Fields  map[string]string
}

func (e *APIError) Error() string {
	msg := e.Message
	if msg == "" {
		msg = http.StatusText(e.Status)
	}
	if len(e.Fields) > 0 {
		parts := make([]string, 0, len(e.Fields))
		for f, m := range e.Fields {
			parts = append(parts, f+" "+m)
		}
		msg += " (" + strings.Join(parts, "; ") + ")"
	}
	return fmt.Sprintf("%s [%d]", msg, e.Status)
}

// IsStatus reports whether err is an APIError with one of the given statuses.
func IsStatus(err error, statuses ...int) bool {
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return false
	}
	for _, s := range statuses {
		if apiErr.Status == s {
			return true
		}
	}
	return false
}

type Client struct {
	BaseURL string
	Token   string
	HTTP    *http.Client
}

// New returns a client for baseURL. token may be empty for public calls.
func New(baseURL, token string) *Client {
	return &Client{
		BaseURL: strings.TrimRight(baseURL, "/"),
		Token:   token,
		HTTP:    &http.Client{Timeout: 15 * time.Second},
	}
}

// Do sends payload as JSON (when non-nil) and decodes a 2xx body into out (when non-nil).
func (c *Client) Do(ctx context.Context, method, path string, payload, out interface{}) error {
	var body io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		body = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, body)
	if err != nil {
		return err
	}
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if c.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.Token)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		apiErr := &APIError{Status: resp.StatusCode}
		var e struct {
			Error  string            `json:"error"`
			Fields map[string]string `json:"fields"`
		}
		if json.Unmarshal(data, &e) == nil {
			apiErr.Message = e.Error
			apiErr.Fields = e.Fields
		}
		return apiErr
	}

	if out != nil && len(data) > 0 {
		return json.Unmarshal(data, out)
	}
	return nil
}

// LoginResult is the body of a successful login.
type LoginResult struct {
	Token string         `json:"token"`
	User  models.UserRef `json:"user"`
}

func (c *Client) Signup(ctx context.Context, username, email, password string) error {
	return c.Do(ctx, http.MethodPost, "/auth/signup", map[string]string{
		"username": username,
		"email":    email,
		"password": password,
	}, nil)
}

func (c *Client) Login(ctx context.Context, email, password string) (*LoginResult, error) {
	var out LoginResult
	err := c.Do(ctx, http.MethodPost, "/auth/login", map[string]string{
		"email":    email,
		"password": password,
	}, &out)
	if err != nil {
		return nil, err
	}
	if out.Token == "" {
		return nil, errors.New("login succeeded but no token returned")
	}
	return &out, nil
}

func (c *Client) Profile(ctx context.Context) (*models.User, error) {
	var u models.User
	if err := c.Do(ctx, http.MethodGet, "/auth/profile", nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// ForumInput is the create/update payload.
type ForumInput struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	Tags        []string `json:"tags"`
}

func (c *Client) ListForums(ctx context.Context, limit, offset int) ([]models.Forum, error) {
	var out []models.Forum
	path := "/forums?limit=" + strconv.Itoa(limit) + "&offset=" + strconv.Itoa(offset)
	if err := c.Do(ctx, http.MethodGet, path, nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) GetForum(ctx context.Context, id int) (*models.ForumDetail, error) {
	var out models.ForumDetail
	if err := c.Do(ctx, http.MethodGet, "/forums/"+strconv.Itoa(id), nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) CreateForum(ctx context.Context, in ForumInput) (*models.Forum, error) {
	var out models.Forum
	if err := c.Do(ctx, http.MethodPost, "/forums", in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) UpdateForum(ctx context.Context, id int, in ForumInput) (*models.Forum, error) {
	var out models.Forum
	if err := c.Do(ctx, http.MethodPut, "/forums/"+strconv.Itoa(id), in, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DeleteForum returns how many comments were removed with the forum.
func (c *Client) DeleteForum(ctx context.Context, id int) (int64, error) {
	var out struct {
		CommentsDeleted int64 `json:"comments_deleted"`
	}
	if err := c.Do(ctx, http.MethodDelete, "/forums/"+strconv.Itoa(id), nil, &out); err != nil {
		return 0, err
	}
	return out.CommentsDeleted, nil
}

func (c *Client) ListComments(ctx context.Context, forumID int) ([]models.Comment, error) {
	var out []models.Comment
	if err := c.Do(ctx, http.MethodGet, "/comments/"+strconv.Itoa(forumID), nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *Client) AddComment(ctx context.Context, forumID int, content string) (*models.Comment, error) {
	var out models.Comment
	payload := map[string]interface{}{"forumId": forumID, "content": content}
	if err := c.Do(ctx, http.MethodPost, "/comments", payload, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *Client) DeleteComment(ctx context.Context, id int) error {
	return c.Do(ctx, http.MethodDelete, "/comments/"+strconv.Itoa(id), nil, nil)
}

// Public returns a client for the configured API URL, carrying the stored
// token when there is one.
func Public() *Client {
	c := New(config.APIURL(), "")
	if s, err := config.LoadSession(); err == nil {
		c.Token = s.Token
	}
	return c
}

// Authenticated returns a client carrying the stored token, or
// config.ErrNoSession when nobody is logged in.
func Authenticated() (*Client, error) {
	s, err := config.LoadSession()
	if err != nil {
		return nil, err
	}
	return New(config.APIURL(), s.Token), nil
}
