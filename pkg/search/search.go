// Package search tracks the storefront search term and mirrors it into the
// "search" query parameter.
package search

import (
	"net/url"
	"strings"
	"sync"
)

// Param is the query parameter carrying the submitted term.
const Param = "search"

// State holds the draft term and whether a search is applied.
type State struct {
	mu        sync.RWMutex
	term      string
	searching bool
}

// New returns an empty State.
func New() *State {
	return &State{}
}

// SetTerm updates the draft term without applying it.
func (s *State) SetTerm(term string) {
	s.mu.Lock()
	s.term = term
	s.mu.Unlock()
}

// Term returns the draft term.
func (s *State) Term() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.term
}

// IsSearching reports whether a non-empty term has been applied.
func (s *State) IsSearching() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.searching
}

// Submit applies the draft term and returns a copy of values with the trimmed
// term set, or the parameter removed when the term is blank. Other
// parameters are preserved.
func (s *State) Submit(values url.Values) url.Values {
	out := clone(values)

	s.mu.Lock()
	defer s.mu.Unlock()
	if t := strings.TrimSpace(s.term); t != "" {
		out.Set(Param, t)
		s.searching = true
	} else {
		out.Del(Param)
		s.searching = false
	}
	return out
}

// Sync pulls the term from values after an external navigation. A present
// but empty parameter leaves the state untouched.
func (s *State) Sync(values url.Values) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if t := values.Get(Param); t != "" {
		s.term = t
		s.searching = true
		return
	}
	if !values.Has(Param) {
		s.term = ""
		s.searching = false
	}
}

// Clear drops the term.
func (s *State) Clear() {
	s.mu.Lock()
	s.term = ""
	s.searching = false
	s.mu.Unlock()
}

func clone(values url.Values) url.Values {
	out := make(url.Values, len(values))
	for k, v := range values {
		out[k] = append([]string(nil), v...)
	}
	return out
}
