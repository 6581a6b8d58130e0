package tracker

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := NewClient("test-token", srv.URL, 0)
	if err != nil {
		t.Fatal(err)
	}
	return c
}

func TestNewClientRequiresToken(t *testing.T) {
	if _, err := NewClient("", "https://example.com", 0); !errors.Is(err, ErrTokenMissing) {
		t.Fatalf("expected ErrTokenMissing, got %v", err)
	}
}

func TestGetTaskSendsAuth(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("Authorization"); got != "Bearer test-token" {
			t.Errorf("authorization header: %q", got)
		}
		if !strings.HasPrefix(r.URL.Path, "/tasks/123") {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{
			"gid": "123", "name": "QA: Acme summer LP", "notes": "notes here",
		}})
	})
	task, err := c.GetTask(context.Background(), "123")
	if err != nil {
		t.Fatal(err)
	}
	if task.Name != "QA: Acme summer LP" {
		t.Fatalf("unexpected task: %+v", task)
	}
}

func TestGetTaskNotFound(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "not found", http.StatusNotFound)
	})
	if _, err := c.GetTask(context.Background(), "missing"); !errors.Is(err, ErrTaskNotFound) {
		t.Fatalf("expected ErrTaskNotFound, got %v", err)
	}
}

func TestBuildContextPrefersBuilderURL(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{
			"gid":  "42",
			"name": "Summer LP QA",
			"notes": "Design: https://www.figma.com/file/abc\n" +
				"Copy: https://docs.google.com/document/d/xyz\n" +
				"Page: https://try.unbounce.com/acme-summer/\n",
			"parent": map[string]any{"gid": "1", "name": "Acme Summer Campaign"},
			"custom_fields": []map[string]any{
				{"name": "Client", "display_value": "Acme Corp"},
			},
		}})
	})
	qa, err := c.BuildContext(context.Background(), "42")
	if err != nil {
		t.Fatal(err)
	}
	if qa.LandingPageURL != "https://try.unbounce.com/acme-summer/" {
		t.Fatalf("landing page url: %q", qa.LandingPageURL)
	}
	if !strings.Contains(qa.DesignURL, "figma.com") {
		t.Fatalf("design url: %q", qa.DesignURL)
	}
	if !strings.Contains(qa.CopyDocURL, "docs.google.com") {
		t.Fatalf("copy doc url: %q", qa.CopyDocURL)
	}
	if qa.ClientName != "Acme Corp" {
		t.Fatalf("client name: %q", qa.ClientName)
	}
	if qa.CampaignName != "Acme Summer Campaign" {
		t.Fatalf("campaign should come from parent: %q", qa.CampaignName)
	}
	if qa.TaskID != "42" {
		t.Fatalf("task id: %q", qa.TaskID)
	}
}

func TestBuildContextSkipsInternalTools(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{
			"gid":  "7",
			"name": "LP review",
			"notes": "Brief: https://app.asana.com/0/1/2\n" +
				"Design: https://www.figma.com/file/abc\n" +
				"Live page: https://offers.acme.com/landing\n",
		}})
	})
	qa, err := c.BuildContext(context.Background(), "7")
	if err != nil {
		t.Fatal(err)
	}
	if qa.LandingPageURL != "https://offers.acme.com/landing" {
		t.Fatalf("should fall back to first non-internal url, got %q", qa.LandingPageURL)
	}
	if qa.CampaignName != "LP review" {
		t.Fatalf("campaign should fall back to task name: %q", qa.CampaignName)
	}
}

func TestBuildContextNoURLs(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{
			"gid": "9", "name": "Fix the page", "notes": "no links here",
		}})
	})
	qa, err := c.BuildContext(context.Background(), "9")
	if err != nil {
		t.Fatal(err)
	}
	if qa.LandingPageURL != "" {
		t.Fatalf("expected empty landing page url, got %q", qa.LandingPageURL)
	}
}

func TestPostComment(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost || r.URL.Path != "/tasks/42/stories" {
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
		}
		var body struct {
			Data struct {
				Text string `json:"text"`
			} `json:"data"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			t.Error(err)
		}
		if !strings.Contains(body.Data.Text, "QA Agent Report") {
			t.Errorf("comment body: %q", body.Data.Text)
		}
		json.NewEncoder(w).Encode(map[string]any{"data": map[string]any{"gid": "story-1"}})
	})
	gid, err := c.PostComment(context.Background(), "42", "🤖 QA Agent Report - results attached")
	if err != nil {
		t.Fatal(err)
	}
	if gid != "story-1" {
		t.Fatalf("comment gid: %q", gid)
	}
}

func TestListOpenTasksInSection(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case strings.HasSuffix(r.URL.Path, "/sections"):
			json.NewEncoder(w).Encode(map[string]any{"data": []map[string]any{
				{"gid": "s1", "name": "In Progress"},
				{"gid": "s2", "name": "🔁 Final QA"},
			}})
		case strings.HasPrefix(r.URL.Path, "/sections/s2/tasks"):
			json.NewEncoder(w).Encode(map[string]any{"data": []map[string]any{
				{"gid": "t1", "name": "LP one", "completed": false},
				{"gid": "t2", "name": "LP two", "completed": true},
				{"gid": "t3", "name": "LP three", "completed": false},
			}})
		default:
			t.Errorf("unexpected path %s", r.URL.Path)
			http.NotFound(w, r)
		}
	})
	tasks, err := c.ListOpenTasksInSection(context.Background(), "p1", "qa")
	if err != nil {
		t.Fatal(err)
	}
	if len(tasks) != 2 {
		t.Fatalf("expected 2 open tasks, got %d", len(tasks))
	}
	if tasks[0].GID != "t1" || tasks[1].GID != "t3" {
		t.Fatalf("unexpected tasks: %+v", tasks)
	}
}

func TestListOpenTasksSectionMissing(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]any{"data": []map[string]any{
			{"gid": "s1", "name": "In Progress"},
		}})
	})
	_, err := c.ListOpenTasksInSection(context.Background(), "p1", "QA")
	if !errors.Is(err, ErrSectionNotFound) {
		t.Fatalf("expected ErrSectionNotFound, got %v", err)
	}
	if !strings.Contains(err.Error(), "In Progress") {
		t.Fatalf("error should list available sections: %v", err)
	}
}

func TestExtractURLs(t *testing.T) {
	urls := extractURLs(`See https://example.com/a and (https://example.com/b) plus "https://example.com/c".`)
	if len(urls) != 3 {
		t.Fatalf("expected 3 urls, got %v", urls)
	}
	for _, u := range urls {
		if strings.ContainsAny(u, `"')`) {
			t.Fatalf("url not trimmed: %q", u)
		}
	}
}
