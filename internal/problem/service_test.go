package problem

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"ojpad/internal/judge"
	apperr "ojpad/pkg/errors"
)

// memCache is an in-memory stand-in for the redis cache.
type memCache struct {
	mu   sync.Mutex
	data map[string]string
	fail bool
}

func newMemCache() *memCache {
	return &memCache{data: make(map[string]string)}
}

func (m *memCache) Get(ctx context.Context, key string) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return "", errors.New("cache down")
	}
	return m.data[key], nil
}

func (m *memCache) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.fail {
		return errors.New("cache down")
	}
	m.data[key] = value
	return nil
}

func (m *memCache) Del(ctx context.Context, keys ...string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, k := range keys {
		delete(m.data, k)
	}
	return nil
}

func (m *memCache) Ping(ctx context.Context) error { return nil }
func (m *memCache) Close() error                   { return nil }

func newProblemServer(t *testing.T, fetches *int64) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			Query     string                 `json:"query"`
			Variables map[string]interface{} `json:"variables"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			t.Fatalf("decode graphql request failed: %v", err)
		}
		switch {
		case strings.Contains(req.Query, "problemsetQuestionList"):
			_, _ = w.Write([]byte(`{"data": {"problemsetQuestionList": {
				"total": 2,
				"questions": [
					{"questionId": "1", "title": "Two Sum", "titleSlug": "two-sum", "difficulty": "Easy", "paidOnly": false, "status": "ac", "acRate": 0.55},
					{"questionId": "4", "title": "Median of Two Sorted Arrays", "titleSlug": "median-of-two-sorted-arrays", "difficulty": "Hard", "paidOnly": false, "status": "", "acRate": 0.44}
				]}}}`))
		case strings.Contains(req.Query, "questionDetail"):
			atomic.AddInt64(fetches, 1)
			_, _ = w.Write([]byte(`{"data": {"question": {
				"questionId": "1", "title": "Two Sum", "titleSlug": "two-sum",
				"content": "<p>Given an array...</p>", "difficulty": "Easy",
				"codeSnippets": [
					{"lang": "Go", "langSlug": "golang", "code": "func twoSum() {}"},
					{"lang": "Python3", "langSlug": "python3", "code": "class Solution: pass"}
				]}}}`))
		default:
			_, _ = w.Write([]byte(`{"data": {}}`))
		}
	}))
}

func newTestService(t *testing.T, srvURL string, c *memCache) *Service {
	t.Helper()
	transport := judge.NewTransport(srvURL, time.Second, nil, nil)
	if c == nil {
		return NewService(transport, nil, time.Minute)
	}
	return NewService(transport, c, time.Minute)
}

func TestList(t *testing.T) {
	var fetches int64
	srv := newProblemServer(t, &fetches)
	defer srv.Close()

	svc := newTestService(t, srv.URL, nil)
	summaries, total, err := svc.List(context.Background(), Filters{Difficulty: "EASY"})
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if total != 2 || len(summaries) != 2 {
		t.Fatalf("got %d summaries (total %d), want 2", len(summaries), total)
	}
	if summaries[0].TitleSlug != "two-sum" || summaries[1].Difficulty != "Hard" {
		t.Errorf("summaries not parsed: %+v", summaries)
	}
}

func TestDetailUsesCache(t *testing.T) {
	var fetches int64
	srv := newProblemServer(t, &fetches)
	defer srv.Close()

	c := newMemCache()
	svc := newTestService(t, srv.URL, c)

	for i := 0; i < 3; i++ {
		detail, err := svc.Detail(context.Background(), "two-sum")
		if err != nil {
			t.Fatalf("detail failed: %v", err)
		}
		if detail.QuestionID != "1" {
			t.Fatalf("detail not parsed: %+v", detail)
		}
	}
	if got := atomic.LoadInt64(&fetches); got != 1 {
		t.Errorf("remote fetched %d times, want 1 (cache should serve repeats)", got)
	}
}

func TestDetailDegradesWhenCacheDown(t *testing.T) {
	var fetches int64
	srv := newProblemServer(t, &fetches)
	defer srv.Close()

	c := newMemCache()
	c.fail = true
	svc := newTestService(t, srv.URL, c)

	detail, err := svc.Detail(context.Background(), "two-sum")
	if err != nil {
		t.Fatalf("detail should degrade to direct fetch, got %v", err)
	}
	if detail.Title != "Two Sum" {
		t.Errorf("detail not parsed: %+v", detail)
	}
}

func TestSnippets(t *testing.T) {
	var fetches int64
	srv := newProblemServer(t, &fetches)
	defer srv.Close()

	svc := newTestService(t, srv.URL, nil)
	set, err := svc.Snippets(context.Background(), "two-sum")
	if err != nil {
		t.Fatalf("snippets failed: %v", err)
	}
	if set["golang"] != "func twoSum() {}" {
		t.Errorf("golang snippet = %q", set["golang"])
	}
	if len(set) != 2 {
		t.Errorf("got %d snippets, want 2", len(set))
	}
}

func TestDetailUnknownSlug(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"data": {"question": null}}`))
	}))
	defer srv.Close()

	svc := newTestService(t, srv.URL, nil)
	_, err := svc.Detail(context.Background(), "no-such-problem")
	if err == nil {
		t.Fatal("unknown slug should error")
	}
	if !apperr.Is(err, apperr.NotFound) {
		t.Errorf("error code = %d, want NotFound", apperr.GetCode(err))
	}
}
