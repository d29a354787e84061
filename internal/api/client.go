// Package api is the HTTP client for the remote task service. It attaches
// the stored bearer token to every request, does not retry, does not cache,
// and surfaces failures unchanged for the caller to classify.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"taskdeck/internal/model"

	"github.com/sirupsen/logrus"
)

// TokenSource supplies the current access token; "" means logged out.
// *session.Store satisfies this.
type TokenSource interface {
	Token() string
}

type Client struct {
	base string
	hc   *http.Client
	log  *logrus.Logger
}

func New(baseURL string, tokens TokenSource, log *logrus.Logger) *Client {
	return &Client{
		base: strings.TrimRight(baseURL, "/"),
		hc: &http.Client{
			Transport: &bearerTransport{tokens: tokens, next: http.DefaultTransport},
		},
		log: log,
	}
}

// bearerTransport injects "Authorization: Bearer <token>" when a token is
// present in the session store; requests pass through unmodified otherwise.
type bearerTransport struct {
	tokens TokenSource
	next   http.RoundTripper
}

func (t *bearerTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	if tok := t.tokens.Token(); tok != "" {
		req = req.Clone(req.Context())
		req.Header.Set("Authorization", "Bearer "+tok)
	}
	return t.next.RoundTrip(req)
}

// LoginResult is the body of a successful POST /auth/login.
type LoginResult struct {
	AccessToken string `json:"access_token"`
	Username    string `json:"username"`
	Role        string `json:"role"`
}

// Login submits credentials form-encoded, as the auth endpoint expects.
func (c *Client) Login(ctx context.Context, username, password string) (LoginResult, error) {
	form := url.Values{}
	form.Set("username", username)
	form.Set("password", password)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.base+"/auth/login", strings.NewReader(form.Encode()))
	if err != nil {
		return LoginResult{}, err
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	var out LoginResult
	if err := c.send(req, &out); err != nil {
		return LoginResult{}, err
	}
	return out, nil
}

// Register creates an account. Email is optional and omitted when empty.
func (c *Client) Register(ctx context.Context, username, password, email string) error {
	body := map[string]string{"username": username, "password": password}
	if strings.TrimSpace(email) != "" {
		body["email"] = email
	}
	req, err := c.jsonRequest(ctx, http.MethodPost, "/auth/register", body)
	if err != nil {
		return err
	}
	return c.send(req, nil)
}

func (c *Client) ListTasks(ctx context.Context) ([]model.Task, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/tasks/", nil)
	if err != nil {
		return nil, err
	}
	var tasks []model.Task
	if err := c.send(req, &tasks); err != nil {
		return nil, err
	}
	return tasks, nil
}

// TaskInput is the request body shared by create and update.
type TaskInput struct {
	Title       string       `json:"title"`
	Description string       `json:"description"`
	Status      model.Status `json:"status"`
}

func (c *Client) CreateTask(ctx context.Context, in TaskInput) (model.Task, error) {
	req, err := c.jsonRequest(ctx, http.MethodPost, "/tasks/", in)
	if err != nil {
		return model.Task{}, err
	}
	var t model.Task
	if err := c.send(req, &t); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

func (c *Client) UpdateTask(ctx context.Context, id int, in TaskInput) (model.Task, error) {
	req, err := c.jsonRequest(ctx, http.MethodPut, fmt.Sprintf("/tasks/%d", id), in)
	if err != nil {
		return model.Task{}, err
	}
	var t model.Task
	if err := c.send(req, &t); err != nil {
		return model.Task{}, err
	}
	return t, nil
}

func (c *Client) DeleteTask(ctx context.Context, id int) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, fmt.Sprintf("%s/tasks/%d", c.base, id), nil)
	if err != nil {
		return err
	}
	return c.send(req, nil)
}

func (c *Client) Analytics(ctx context.Context) (model.AnalyticsSnapshot, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, c.base+"/analytics", nil)
	if err != nil {
		return model.AnalyticsSnapshot{}, err
	}
	var snap model.AnalyticsSnapshot
	if err := c.send(req, &snap); err != nil {
		return model.AnalyticsSnapshot{}, err
	}
	return snap, nil
}

func (c *Client) jsonRequest(ctx context.Context, method, path string, body any) (*http.Request, error) {
	raw, err := json.Marshal(body)
	if err != nil {
		return nil, err
	}
	req, err := http.NewRequestWithContext(ctx, method, c.base+path, bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}

// send executes the request and decodes a 2xx body into out (when non-nil).
// Non-2xx becomes *RemoteError, network failure *TransportError; both are
// logged here so callers only deal with user-facing mapping.
func (c *Client) send(req *http.Request, out any) error {
	resp, err := c.hc.Do(req)
	if err != nil {
		c.log.WithError(err).WithField("url", req.URL.String()).Error("request failed")
		return &TransportError{Err: err}
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		// Keep a short body excerpt for the diagnostics log only.
		excerpt, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		c.log.WithFields(logrus.Fields{
			"url":    req.URL.String(),
			"status": resp.StatusCode,
		}).Warn("remote error")
		return &RemoteError{StatusCode: resp.StatusCode, Body: string(excerpt)}
	}
	if out == nil {
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		c.log.WithError(err).WithField("url", req.URL.String()).Error("decode response")
		return &TransportError{Err: err}
	}
	return nil
}
