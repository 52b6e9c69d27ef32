package client

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/quizgenie/quizgenie/internal/server"
)

// DefaultDebounce is how long the Searcher waits after the last keystroke
// before querying.
const DefaultDebounce = 300 * time.Millisecond

// Searcher drives the discovery listing. Free-text query changes are
// debounced; category, difficulty, tag, and sort changes apply immediately.
// Each dispatch cancels the previous in-flight request, and responses from
// superseded requests are dropped, so onResults only ever sees the newest
// listing.
type Searcher struct {
	client    *Client
	debounce  time.Duration
	onResults func([]server.QuizSummary, error)

	mu      sync.Mutex
	filter  Filter
	timer   *time.Timer
	cancel  context.CancelFunc
	seq     int
	closed  bool
	pending sync.WaitGroup

	// deliverMu serializes the staleness check with the onResults call, so
	// a result superseded mid-delivery can never land after a newer one.
	deliverMu sync.Mutex
}

// NewSearcher creates a searcher delivering listings to onResults. A zero
// debounce means DefaultDebounce. onResults may be called from another
// goroutine but never concurrently with itself.
func NewSearcher(c *Client, debounce time.Duration, onResults func([]server.QuizSummary, error)) *Searcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Searcher{client: c, debounce: debounce, onResults: onResults}
}

// SetQuery updates the free-text query. The fetch fires once the query has
// been stable for the debounce window.
func (s *Searcher) SetQuery(query string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	s.filter.Search = query
	if s.timer != nil {
		s.timer.Stop()
	}
	s.timer = time.AfterFunc(s.debounce, func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		s.dispatchLocked()
	})
}

func (s *Searcher) SetDifficulty(difficulty string) {
	s.applyNow(func(f *Filter) { f.Difficulty = difficulty })
}

func (s *Searcher) SetCategory(category string) {
	s.applyNow(func(f *Filter) { f.Category = category })
}

func (s *Searcher) SetTags(tags []string) {
	s.applyNow(func(f *Filter) { f.Tags = tags })
}

func (s *Searcher) SetSort(sort string) {
	s.applyNow(func(f *Filter) { f.Sort = sort })
}

// Refresh refetches with the current filter, immediately.
func (s *Searcher) Refresh() {
	s.applyNow(func(*Filter) {})
}

// Close cancels any in-flight request and pending debounce timer and waits
// for the worker to drain. No results are delivered after Close returns.
func (s *Searcher) Close() {
	s.mu.Lock()
	s.closed = true
	if s.timer != nil {
		s.timer.Stop()
	}
	if s.cancel != nil {
		s.cancel()
	}
	s.mu.Unlock()

	s.pending.Wait()
}

func (s *Searcher) applyNow(update func(*Filter)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	update(&s.filter)
	if s.timer != nil {
		s.timer.Stop()
	}
	s.dispatchLocked()
}

func (s *Searcher) dispatchLocked() {
	if s.closed {
		return
	}

	if s.cancel != nil {
		s.cancel()
	}
	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel

	s.seq++
	seq := s.seq
	filter := s.filter
	filter.Tags = append([]string(nil), filter.Tags...)

	s.pending.Add(1)
	go func() {
		defer s.pending.Done()

		quizzes, err := s.client.ListQuizzes(ctx, filter)
		if err == nil {
			quizzes = refilter(quizzes, filter)
		}

		// Checking staleness and delivering under the same lock keeps
		// deliveries in dispatch order: once a newer dispatch has
		// delivered, this seq can no longer be current.
		s.deliverMu.Lock()
		defer s.deliverMu.Unlock()

		s.mu.Lock()
		stale := s.closed || seq != s.seq
		s.mu.Unlock()
		if stale || ctx.Err() != nil {
			return
		}
		s.onResults(quizzes, err)
	}()
}

// refilter re-applies the filter locally. The server filter is
// authoritative; anything that slips through is dropped here too.
func refilter(quizzes []server.QuizSummary, f Filter) []server.QuizSummary {
	matched := make([]server.QuizSummary, 0, len(quizzes))
	for _, q := range quizzes {
		if matchesFilter(q, f) {
			matched = append(matched, q)
		}
	}
	return matched
}

func matchesFilter(q server.QuizSummary, f Filter) bool {
	if f.Search != "" {
		needle := strings.ToLower(f.Search)
		if !strings.Contains(strings.ToLower(q.Title), needle) &&
			!strings.Contains(strings.ToLower(q.Description), needle) {
			return false
		}
	}
	if f.Difficulty != "" && f.Difficulty != "all" && q.Difficulty != f.Difficulty {
		return false
	}
	if f.Category != "" && f.Category != "all" && !strings.EqualFold(q.Category, f.Category) {
		return false
	}
	for _, tag := range f.Tags {
		if !hasTag(q.Tags, tag) {
			return false
		}
	}
	return true
}

func hasTag(tags []string, want string) bool {
	for _, t := range tags {
		if strings.EqualFold(t, want) {
			return true
		}
	}
	return false
}

// RemoveQuiz drops a quiz from an in-memory listing, for updating the view
// after a delete without a refetch.
func RemoveQuiz(quizzes []server.QuizSummary, quizID string) []server.QuizSummary {
	kept := quizzes[:0]
	for _, q := range quizzes {
		if q.ID != quizID {
			kept = append(kept, q)
		}
	}
	return kept
}
