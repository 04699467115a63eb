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
	"strings"
	"time"

	"github.com/dmitrijs2005/todokeeper/internal/client/models"
)

const maxErrorBody = 64 << 10

// HTTPClient implements Client against the JSON API rooted at baseURL.
type HTTPClient struct {
	baseURL *url.URL
	http    *http.Client
}

var _ Client = (*HTTPClient)(nil)

// NewHTTPClient validates baseURL and returns a client whose requests are
// bounded by timeout.
func NewHTTPClient(baseURL string, timeout time.Duration) (*HTTPClient, error) {
	u, err := url.Parse(strings.TrimRight(baseURL, "/"))
	if err != nil {
		return nil, fmt.Errorf("parse server url: %w", err)
	}
	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("server url %q is not absolute", baseURL)
	}
	return &HTTPClient{baseURL: u, http: &http.Client{Timeout: timeout}}, nil
}

func (c *HTTPClient) Ping(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/", "", nil, nil)
}

func (c *HTTPClient) Signup(ctx context.Context, email, password, name string) (*models.Session, error) {
	body := map[string]string{"email": email, "password": password, "name": name}
	var s models.Session
	if err := c.do(ctx, http.MethodPost, "/api/auth/signup", "", body, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *HTTPClient) Signin(ctx context.Context, email, password string) (*models.Session, error) {
	body := map[string]string{"email": email, "password": password}
	var s models.Session
	if err := c.do(ctx, http.MethodPost, "/api/auth/signin", "", body, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

func (c *HTTPClient) Refresh(ctx context.Context, refreshToken string) (string, error) {
	var res struct {
		AccessToken string `json:"access_token"`
	}
	body := map[string]string{"refresh_token": refreshToken}
	if err := c.do(ctx, http.MethodPost, "/api/auth/refresh", "", body, &res); err != nil {
		return "", err
	}
	return res.AccessToken, nil
}

func (c *HTTPClient) Signout(ctx context.Context, accessToken string) error {
	return c.do(ctx, http.MethodPost, "/api/auth/signout", accessToken, nil, nil)
}

func (c *HTTPClient) Me(ctx context.Context, accessToken string) (*models.User, error) {
	var u models.User
	if err := c.do(ctx, http.MethodGet, "/api/auth/me", accessToken, nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

func (c *HTTPClient) ListTasks(ctx context.Context, accessToken string) ([]*models.Task, error) {
	tasks := []*models.Task{}
	if err := c.do(ctx, http.MethodGet, "/api/tasks", accessToken, nil, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

func (c *HTTPClient) CreateTask(ctx context.Context, accessToken string, in models.TaskInput) (*models.Task, error) {
	return c.task(ctx, http.MethodPost, "/api/tasks", accessToken, in)
}

func (c *HTTPClient) GetTask(ctx context.Context, accessToken string, id int64) (*models.Task, error) {
	return c.task(ctx, http.MethodGet, taskPath(id), accessToken, nil)
}

func (c *HTTPClient) UpdateTask(ctx context.Context, accessToken string, id int64, in models.TaskInput) (*models.Task, error) {
	return c.task(ctx, http.MethodPut, taskPath(id), accessToken, in)
}

func (c *HTTPClient) ToggleTask(ctx context.Context, accessToken string, id int64) (*models.Task, error) {
	return c.task(ctx, http.MethodPatch, taskPath(id)+"/toggle", accessToken, nil)
}

func (c *HTTPClient) DeleteTask(ctx context.Context, accessToken string, id int64) error {
	return c.do(ctx, http.MethodDelete, taskPath(id), accessToken, nil, nil)
}

func (c *HTTPClient) task(ctx context.Context, method, path, accessToken string, body any) (*models.Task, error) {
	var t models.Task
	if err := c.do(ctx, method, path, accessToken, body, &t); err != nil {
		return nil, err
	}
	return &t, nil
}

func taskPath(id int64) string {
	return "/api/tasks/" + strconv.FormatInt(id, 10)
}

// do sends one request. A nil body sends no payload, a nil out discards the
// response body. Non-2xx responses come back as *APIError.
func (c *HTTPClient) do(ctx context.Context, method, path, accessToken string, body, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL.String()+path, reader)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if accessToken != "" {
		req.Header.Set("Authorization", "Bearer "+accessToken)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return err
		}
		return fmt.Errorf("%w: %w", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return decodeAPIError(resp)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func decodeAPIError(resp *http.Response) error {
	apiErr := &APIError{Status: resp.StatusCode}

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	var envelope struct {
		Detail string `json:"detail"`
	}
	if json.Unmarshal(raw, &envelope) == nil {
		apiErr.Detail = envelope.Detail
	}
	return apiErr
}
