package hn

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"
	"sync"
	"testing"

	"github.com/agentuity/go-hn/logger"
)

// fakeAPI serves feeds and items from memory and counts requests per path.
type fakeAPI struct {
	mu     sync.Mutex
	hits   map[string]int
	feeds  map[string][]int
	items  map[int]string
	status map[string]int
	gate   map[string]chan struct{}
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		hits:   make(map[string]int),
		feeds:  make(map[string][]int),
		items:  make(map[int]string),
		status: make(map[string]int),
		gate:   make(map[string]chan struct{}),
	}
}

func (f *fakeAPI) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	f.hits[r.URL.Path]++
	gate := f.gate[r.URL.Path]
	status := f.status[r.URL.Path]
	f.mu.Unlock()
	if gate != nil {
		select {
		case <-gate:
		case <-r.Context().Done():
			return
		}
	}
	if status != 0 {
		http.Error(w, "nope", status)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	if name, ok := strings.CutPrefix(r.URL.Path, "/item/"); ok {
		id, _ := strconv.Atoi(strings.TrimSuffix(name, ".json"))
		f.mu.Lock()
		body, ok := f.items[id]
		f.mu.Unlock()
		if !ok {
			body = "null"
		}
		w.Write([]byte(body))
		return
	}
	f.mu.Lock()
	ids, ok := f.feeds[strings.TrimSuffix(strings.TrimPrefix(r.URL.Path, "/"), ".json")]
	f.mu.Unlock()
	if !ok {
		http.NotFound(w, r)
		return
	}
	json.NewEncoder(w).Encode(ids)
}

func (f *fakeAPI) count(path string) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.hits[path]
}

func (f *fakeAPI) setItem(id int, body string) {
	f.mu.Lock()
	f.items[id] = body
	f.mu.Unlock()
}

func (f *fakeAPI) setStatus(path string, status int) {
	f.mu.Lock()
	f.status[path] = status
	f.mu.Unlock()
}

func (f *fakeAPI) hold(path string) chan struct{} {
	ch := make(chan struct{})
	f.mu.Lock()
	f.gate[path] = ch
	f.mu.Unlock()
	return ch
}

func story(id int, title string, kids ...int) string {
	buf, _ := json.Marshal(Item{ID: id, Type: TypeStory, Title: title, Kids: kids, By: "pg", Time: 1_700_000_000})
	return string(buf)
}

func comment(id, parent int, kids ...int) string {
	buf, _ := json.Marshal(Item{ID: id, Type: TypeComment, Parent: parent, Text: "c" + strconv.Itoa(id), Kids: kids})
	return string(buf)
}

func newTestClient(t *testing.T, api *fakeAPI, opts ...ClientOption) (*Client, *logger.TestLogger) {
	t.Helper()
	srv := httptest.NewServer(api)
	t.Cleanup(srv.Close)
	log := logger.NewTestLogger()
	opts = append([]ClientOption{WithBaseURL(srv.URL), WithHTTPClient(srv.Client()), WithLogger(log)}, opts...)
	return NewClient(opts...), log
}
