// Package chat holds per-user conversation state and answers follow-up questions about
// the current search results.
package chat

import (
	"slices"
	"sync"

	"github.com/google/uuid"

	"github.com/spigell/jobcoach/internal/postings"
	"github.com/spigell/jobcoach/internal/ranking"
)

type State int

const (
	AwaitingQuery State = iota
	ResultsReady
)

func (s State) String() string {
	switch s {
	case ResultsReady:
		return "results_ready"
	default:
		return "awaiting_query"
	}
}

type Role string

const (
	RoleUser Role = "user"
	RoleBot  Role = "bot"
)

// Turn is one chat message.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`
}

// Session is the state of one user: the last search and the chat history.
type Session struct {
	ID string

	mu      sync.RWMutex
	query   string
	results []ranking.Result
	history []Turn
}

func NewSession() *Session {
	return &Session{ID: uuid.NewString()}
}

// Replace swaps in the results of a new search. An empty result set clears the session.
func (s *Session) Replace(query string, results []ranking.Result) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(results) == 0 {
		s.query, s.results = "", nil
		return
	}
	s.query, s.results = query, slices.Clone(results)
}

// Clear drops the current results. History is kept.
func (s *Session) Clear() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.query, s.results = "", nil
}

// ResetChat drops the chat history. Results are kept.
func (s *Session) ResetChat() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = nil
}

func (s *Session) State() State {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.results) == 0 {
		return AwaitingQuery
	}
	return ResultsReady
}

// Query returns the query that produced the current results.
func (s *Session) Query() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.query
}

func (s *Session) Results() []ranking.Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.results)
}

// Postings returns the postings of the current results in rank order.
func (s *Session) Postings() []postings.Posting {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return ranking.Postings(s.results).Items
}

func (s *Session) Append(role Role, content string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.history = append(s.history, Turn{Role: role, Content: content})
}

func (s *Session) History() []Turn {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return slices.Clone(s.history)
}

// Sessions isolates the state of concurrent users.
type Sessions struct {
	mu    sync.Mutex
	byID  map[string]*Session
	order []string
}

func NewSessions() *Sessions {
	return &Sessions{byID: map[string]*Session{}}
}

// Create starts a new empty session.
func (r *Sessions) Create() *Session {
	s := NewSession()
	r.mu.Lock()
	defer r.mu.Unlock()
	r.byID[s.ID] = s
	r.order = append(r.order, s.ID)
	return s
}

func (r *Sessions) Get(id string) (*Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	s, ok := r.byID[id]
	return s, ok
}

// Delete ends a session.
func (r *Sessions) Delete(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.byID, id)
	r.order = slices.DeleteFunc(r.order, func(v string) bool { return v == id })
}

// List returns the live sessions in creation order.
func (r *Sessions) List() []*Session {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]*Session, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[id])
	}
	return out
}

func (r *Sessions) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.byID)
}
