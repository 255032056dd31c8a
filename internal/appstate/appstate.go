// Package appstate replaces the dashboard's ambient alert/loading context
// with an explicit store: mutations go through setters, and every listener
// receives a snapshot of the new state in subscription order.
package appstate

import "sync"

type AlertKind string

const (
	AlertInfo    AlertKind = "info"
	AlertSuccess AlertKind = "success"
	AlertWarning AlertKind = "warning"
	AlertError   AlertKind = "error"
)

// Alert is a transient user-facing notification.
type Alert struct {
	Message string
	Kind    AlertKind
}

// State is an immutable snapshot handed to listeners.
type State struct {
	Alert   *Alert
	Loading bool
}

type listener struct {
	id int
	fn func(State)
}

// Store holds the screen-wide UI state.
type Store struct {
	mu        sync.Mutex
	state     State
	listeners []listener
	nextID    int
}

func New() *Store {
	return &Store{}
}

// Subscribe registers fn for state changes and returns a cancel func.
// Listeners run synchronously on the mutating goroutine.
func (s *Store) Subscribe(fn func(State)) func() {
	s.mu.Lock()
	id := s.nextID
	s.nextID++
	s.listeners = append(s.listeners, listener{id: id, fn: fn})
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		for i, l := range s.listeners {
			if l.id == id {
				s.listeners = append(s.listeners[:i], s.listeners[i+1:]...)
				return
			}
		}
	}
}

func (s *Store) SetAlert(a Alert) {
	s.update(func(st *State) { st.Alert = &a })
}

func (s *Store) ClearAlert() {
	s.update(func(st *State) { st.Alert = nil })
}

func (s *Store) SetLoading(loading bool) {
	s.update(func(st *State) { st.Loading = loading })
}

func (s *Store) Current() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

func (s *Store) update(mutate func(*State)) {
	s.mu.Lock()
	mutate(&s.state)
	snapshot := s.state
	listeners := make([]listener, len(s.listeners))
	copy(listeners, s.listeners)
	s.mu.Unlock()

	// Outside the lock so a listener may call back into the store.
	for _, l := range listeners {
		l.fn(snapshot)
	}
}
