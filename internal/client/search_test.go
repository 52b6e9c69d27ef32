package client

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/quizgenie/quizgenie/internal/server"
)

// listingRecorder serves /api/quizzes, remembering every request and
// optionally delaying responses by sort value.
type listingRecorder struct {
	mu       sync.Mutex
	requests []string
	delays   map[string]time.Duration
}

func (l *listingRecorder) handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		sort := r.URL.Query().Get("sort")

		l.mu.Lock()
		l.requests = append(l.requests, r.URL.RawQuery)
		delay := l.delays[sort]
		l.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}

		// Echo the request back through the quiz title so the test can
		// tell which dispatch produced the result.
		title := sort
		if title == "" {
			title = r.URL.Query().Get("search")
		}
		json.NewEncoder(w).Encode([]server.QuizSummary{{ID: "q1", Title: title}})
	})
}

func (l *listingRecorder) count() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return len(l.requests)
}

type resultSink struct {
	mu      sync.Mutex
	batches [][]server.QuizSummary
	errs    []error
}

func (s *resultSink) accept(quizzes []server.QuizSummary, err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.batches = append(s.batches, quizzes)
	s.errs = append(s.errs, err)
}

func (s *resultSink) snapshot() [][]server.QuizSummary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([][]server.QuizSummary(nil), s.batches...)
}

func TestSearcherDebouncesQuery(t *testing.T) {
	rec := &listingRecorder{}
	ts := httptest.NewServer(rec.handler())
	defer ts.Close()

	sink := &resultSink{}
	s := NewSearcher(New(ts.URL, nil), 30*time.Millisecond, sink.accept)
	defer s.Close()

	// Two keystrokes inside the debounce window collapse to one request.
	s.SetQuery("a")
	s.SetQuery("ab")

	time.Sleep(250 * time.Millisecond)

	if got := rec.count(); got != 1 {
		t.Fatalf("requests = %d, want 1", got)
	}

	batches := sink.snapshot()
	if len(batches) != 1 {
		t.Fatalf("deliveries = %d, want 1", len(batches))
	}
	if batches[0][0].Title != "ab" {
		t.Errorf("delivered query %q, want ab", batches[0][0].Title)
	}
}

func TestSearcherDropsSupersededRequests(t *testing.T) {
	rec := &listingRecorder{delays: map[string]time.Duration{"trending": 150 * time.Millisecond}}
	ts := httptest.NewServer(rec.handler())
	defer ts.Close()

	sink := &resultSink{}
	s := NewSearcher(New(ts.URL, nil), time.Millisecond, sink.accept)
	defer s.Close()

	// The slow dispatch is superseded before it responds.
	s.SetSort("trending")
	time.Sleep(20 * time.Millisecond)
	s.SetSort("newest")

	time.Sleep(400 * time.Millisecond)

	batches := sink.snapshot()
	if len(batches) != 1 {
		t.Fatalf("deliveries = %d, want 1", len(batches))
	}
	if batches[0][0].Title != "newest" {
		t.Errorf("delivered sort %q, want newest", batches[0][0].Title)
	}
}

func TestSearcherSlowDeliveryKeepsNewestLast(t *testing.T) {
	rec := &listingRecorder{}
	ts := httptest.NewServer(rec.handler())
	defer ts.Close()

	firstDelivering := make(chan struct{})
	release := make(chan struct{})
	var (
		mu    sync.Mutex
		order []string
	)
	s := NewSearcher(New(ts.URL, nil), time.Millisecond, func(quizzes []server.QuizSummary, err error) {
		if err != nil || len(quizzes) == 0 {
			return
		}
		mu.Lock()
		n := len(order)
		mu.Unlock()
		if n == 0 {
			// Stall the first delivery so a newer dispatch can overtake it.
			close(firstDelivering)
			<-release
		}
		mu.Lock()
		order = append(order, quizzes[0].Title)
		mu.Unlock()
	})
	defer s.Close()

	s.SetSort("old")
	<-firstDelivering

	// Supersede the result while its delivery is still in progress, then
	// let the stalled delivery finish.
	s.SetSort("newest")
	time.Sleep(50 * time.Millisecond)
	close(release)
	time.Sleep(300 * time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	if len(order) == 0 || order[len(order)-1] != "newest" {
		t.Fatalf("delivery order = %v, want newest last", order)
	}
}

func TestSearcherCloseStopsDeliveries(t *testing.T) {
	rec := &listingRecorder{}
	ts := httptest.NewServer(rec.handler())
	defer ts.Close()

	sink := &resultSink{}
	s := NewSearcher(New(ts.URL, nil), 10*time.Millisecond, sink.accept)

	s.SetQuery("pending")
	s.Close()

	time.Sleep(100 * time.Millisecond)
	if got := len(sink.snapshot()); got != 0 {
		t.Errorf("deliveries after close = %d, want 0", got)
	}

	// Mutations after Close are ignored.
	s.SetSort("newest")
	time.Sleep(50 * time.Millisecond)
	if got := len(sink.snapshot()); got != 0 {
		t.Errorf("deliveries after closed mutation = %d, want 0", got)
	}
}

func TestMatchesFilter(t *testing.T) {
	quiz := server.QuizSummary{
		Title:       "Photosynthesis Quiz",
		Description: "Light reactions and chlorophyll",
		Difficulty:  "easy",
		Category:    "biology",
		Tags:        []string{"biology", "plants"},
	}

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"empty filter", Filter{}, true},
		{"search in title", Filter{Search: "photo"}, true},
		{"search in description", Filter{Search: "chlorophyll"}, true},
		{"search miss", Filter{Search: "astronomy"}, false},
		{"difficulty match", Filter{Difficulty: "easy"}, true},
		{"difficulty all", Filter{Difficulty: "all"}, true},
		{"difficulty miss", Filter{Difficulty: "hard"}, false},
		{"category match", Filter{Category: "Biology"}, true},
		{"tag match", Filter{Tags: []string{"plants"}}, true},
		{"tag miss", Filter{Tags: []string{"plants", "space"}}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := matchesFilter(quiz, tt.filter); got != tt.want {
				t.Errorf("matchesFilter = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestRemoveQuiz(t *testing.T) {
	listing := []server.QuizSummary{{ID: "a"}, {ID: "b"}, {ID: "c"}}

	got := RemoveQuiz(listing, "b")
	if len(got) != 2 || got[0].ID != "a" || got[1].ID != "c" {
		t.Errorf("RemoveQuiz = %v", got)
	}

	// Removing an unknown ID is a no-op.
	got = RemoveQuiz(got, "zzz")
	if len(got) != 2 {
		t.Errorf("RemoveQuiz of unknown ID changed the listing: %v", got)
	}
}
