// Package tracker integrates with the task-tracking service: it reads task
// context (landing page URL, design link, copy doc) and posts QA results
// back as task comments.
package tracker

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"golang.org/x/time/rate"
)

const defaultTimeout = 15 * time.Second

var (
	ErrTokenMissing = errors.New("tracker: access token not set")
	ErrTaskNotFound = errors.New("tracker: task not found")

	// ErrSectionNotFound reports a project section lookup miss; the error
	// string lists the sections that do exist.
	ErrSectionNotFound = errors.New("tracker: section not found")
)

// Client is a minimal task-tracker API client. Credentials are passed in
// explicitly; the client holds no global state.
type Client struct {
	token   string
	baseURL string
	httpc   *http.Client
	limiter *rate.Limiter
}

// NewClient builds a client for the given API base URL. requestsPerSecond
// bounds the request rate; zero or negative disables limiting.
func NewClient(token, baseURL string, requestsPerSecond float64) (*Client, error) {
	if token == "" {
		return nil, ErrTokenMissing
	}
	limiter := rate.NewLimiter(rate.Inf, 1)
	if requestsPerSecond > 0 {
		limiter = rate.NewLimiter(rate.Limit(requestsPerSecond), 1)
	}
	return &Client{
		token:   token,
		baseURL: baseURL,
		httpc:   &http.Client{Timeout: defaultTimeout},
		limiter: limiter,
	}, nil
}

// Task is the subset of tracker task data the QA agent reads.
type Task struct {
	GID          string        `json:"gid"`
	Name         string        `json:"name"`
	Notes        string        `json:"notes"`
	Completed    bool          `json:"completed"`
	Parent       *TaskRef      `json:"parent"`
	CustomFields []CustomField `json:"custom_fields"`
}

// TaskRef is a task or section reference.
type TaskRef struct {
	GID  string `json:"gid"`
	Name string `json:"name"`
}

// CustomField is one tracker custom field with its rendered value.
type CustomField struct {
	Name         string `json:"name"`
	DisplayValue string `json:"display_value"`
	TextValue    string `json:"text_value"`
}

type dataEnvelope struct {
	Data json.RawMessage `json:"data"`
}

func (c *Client) do(ctx context.Context, method, path string, query url.Values, body any, out any) error {
	if err := c.limiter.Wait(ctx); err != nil {
		return err
	}
	u := c.baseURL + path
	if len(query) > 0 {
		u += "?" + query.Encode()
	}
	var reqBody io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reqBody = bytes.NewReader(data)
	}
	req, err := http.NewRequestWithContext(ctx, method, u, reqBody)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.token)
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpc.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return ErrTaskNotFound
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		msg, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return fmt.Errorf("tracker: %s %s: status %d: %s", method, path, resp.StatusCode, msg)
	}
	if out == nil {
		return nil
	}
	var env dataEnvelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("tracker: decode response: %w", err)
	}
	return json.Unmarshal(env.Data, out)
}

// GetTask fetches a task with the fields needed to build QA context.
func (c *Client) GetTask(ctx context.Context, taskGID string) (*Task, error) {
	q := url.Values{}
	q.Set("opt_fields", "name,notes,completed,parent.name,custom_fields.name,custom_fields.display_value,custom_fields.text_value")
	var task Task
	if err := c.do(ctx, http.MethodGet, "/tasks/"+taskGID, q, nil, &task); err != nil {
		return nil, err
	}
	return &task, nil
}

// PostComment adds a plain-text comment to a task and returns the comment
// GID.
func (c *Client) PostComment(ctx context.Context, taskGID, text string) (string, error) {
	body := map[string]any{"data": map[string]string{"text": text}}
	var story TaskRef
	if err := c.do(ctx, http.MethodPost, "/tasks/"+taskGID+"/stories", nil, body, &story); err != nil {
		return "", err
	}
	return story.GID, nil
}

// ListOpenTasksInSection returns the incomplete tasks in the first project
// section whose name contains sectionName, case-insensitively.
func (c *Client) ListOpenTasksInSection(ctx context.Context, projectGID, sectionName string) ([]TaskRef, error) {
	var sections []TaskRef
	if err := c.do(ctx, http.MethodGet, "/projects/"+projectGID+"/sections", nil, nil, &sections); err != nil {
		return nil, err
	}
	target := findSection(sections, sectionName)
	if target == nil {
		names := make([]string, 0, len(sections))
		for _, s := range sections {
			names = append(names, s.Name)
		}
		return nil, fmt.Errorf("%w: %q (available: %v)", ErrSectionNotFound, sectionName, names)
	}

	q := url.Values{}
	q.Set("opt_fields", "name,completed")
	var tasks []Task
	if err := c.do(ctx, http.MethodGet, "/sections/"+target.GID+"/tasks", q, nil, &tasks); err != nil {
		return nil, err
	}
	open := make([]TaskRef, 0, len(tasks))
	for _, t := range tasks {
		if !t.Completed {
			open = append(open, TaskRef{GID: t.GID, Name: t.Name})
		}
	}
	return open, nil
}
