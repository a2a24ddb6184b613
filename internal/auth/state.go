// Package auth holds the client-side login state.
//
// A State is created once by the application root and passed by reference to
// every component that needs to know who is logged in. It is never a global.
package auth

import (
	"log/slog"
	"sync"

	"github.com/me/yogastudio/internal/logging"
	"github.com/me/yogastudio/pkg/model"
)

// State tracks whether a user is logged in and, if so, their session
// information. Subscribers observe the logged-in flag as a stream: the current
// value on subscription, then one event per LogIn or LogOut call.
type State struct {
	mu        sync.Mutex
	isLogged  bool
	info      *model.SessionInformation
	listeners []*listener
	nextID    int
	logger    *slog.Logger
}

type listener struct {
	id int
	fn func(bool)
}

// NewState returns a logged-out State.
func NewState(logger *slog.Logger) *State {
	return &State{logger: logging.OrDiscard(logger).With("component", "auth-state")}
}

// LogIn stores info (last writer wins) and notifies subscribers with true.
// Calling it while already logged in replaces the snapshot and notifies again.
// A nil info is stored as an empty snapshot so IsLogged and Information agree.
func (s *State) LogIn(info *model.SessionInformation) {
	if info == nil {
		info = &model.SessionInformation{}
	}
	s.mu.Lock()
	s.isLogged = true
	s.info = info
	fns := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Debug("logged in", "user_id", info.ID, "username", info.Username)
	emit(fns, true)
}

// LogOut clears the session information and notifies subscribers with false.
// It is idempotent: every call emits false.
func (s *State) LogOut() {
	s.mu.Lock()
	s.isLogged = false
	s.info = nil
	fns := s.snapshotLocked()
	s.mu.Unlock()

	s.logger.Debug("logged out")
	emit(fns, false)
}

// IsLogged reports the current flag.
func (s *State) IsLogged() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.isLogged
}

// Information returns the stored snapshot, or nil when logged out.
func (s *State) Information() *model.SessionInformation {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.info
}

// Token returns the bearer token of the logged-in user, or "".
func (s *State) Token() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.info == nil {
		return ""
	}
	return s.info.Token
}

// Subscribe registers fn on the logged-in stream. fn is called immediately
// with the current value, then synchronously on every LogIn/LogOut, in call
// order for calls made from one goroutine. Emissions from racing goroutines
// are not ordered; a listener needing the settled state reads IsLogged or
// Information. The returned cancel func removes the subscription; calling it
// more than once is a no-op. fn may itself call LogIn or LogOut.
func (s *State) Subscribe(fn func(bool)) (cancel func()) {
	s.mu.Lock()
	s.nextID++
	id := s.nextID
	s.listeners = append(s.listeners, &listener{id: id, fn: fn})
	current := s.isLogged
	s.mu.Unlock()

	fn(current)

	var once sync.Once
	return func() {
		once.Do(func() { s.unsubscribe(id) })
	}
}

// Subscribers returns the number of active subscriptions.
func (s *State) Subscribers() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.listeners)
}

func (s *State) unsubscribe(id int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i, l := range s.listeners {
		if l.id == id {
			s.listeners = append(s.listeners[:i:i], s.listeners[i+1:]...)
			return
		}
	}
}

// snapshotLocked copies the listener funcs so they run without s.mu held.
func (s *State) snapshotLocked() []func(bool) {
	fns := make([]func(bool), len(s.listeners))
	for i, l := range s.listeners {
		fns[i] = l.fn
	}
	return fns
}

func emit(fns []func(bool), v bool) {
	for _, fn := range fns {
		fn(v)
	}
}
