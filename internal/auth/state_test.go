package auth

import (
	"math/rand"
	"testing"

	"github.com/me/yogastudio/pkg/model"
)

func testInfo() *model.SessionInformation {
	return &model.SessionInformation{
		Token:     "token",
		Type:      "Bearer",
		ID:        1,
		Username:  "yoga@studio.com",
		FirstName: "Yoga",
		LastName:  "Studio",
		Admin:     false,
	}
}

// recorder collects the values emitted to one subscriber.
type recorder struct {
	values []bool
}

func (r *recorder) fn(v bool) { r.values = append(r.values, v) }

func (r *recorder) last(t *testing.T) bool {
	t.Helper()
	if len(r.values) == 0 {
		t.Fatal("no value received")
	}
	return r.values[len(r.values)-1]
}

func TestState_InitiallyLoggedOut(t *testing.T) {
	s := NewState(nil)
	if s.IsLogged() {
		t.Error("new state should be logged out")
	}
	if s.Information() != nil {
		t.Error("new state should hold no session information")
	}
	if s.Token() != "" {
		t.Error("new state should have no token")
	}
}

func TestState_SubscribeReplaysCurrentValue(t *testing.T) {
	s := NewState(nil)
	s.LogIn(testInfo())

	var r recorder
	s.Subscribe(r.fn)

	if len(r.values) != 1 || !r.values[0] {
		t.Errorf("late subscriber got %v, want [true]", r.values)
	}
}

func TestState_LogIn(t *testing.T) {
	s := NewState(nil)
	var r recorder
	s.Subscribe(r.fn)

	info := testInfo()
	s.LogIn(info)

	if !s.IsLogged() {
		t.Error("expected logged in")
	}
	if s.Information() != info {
		t.Error("expected the same session information pointer to be stored")
	}
	if s.Token() != "token" {
		t.Errorf("Token() = %q", s.Token())
	}
	if !r.last(t) {
		t.Error("subscriber should have received true")
	}
}

func TestState_LogOut(t *testing.T) {
	s := NewState(nil)
	s.LogIn(testInfo())
	var r recorder
	s.Subscribe(r.fn)

	s.LogOut()

	if s.IsLogged() {
		t.Error("expected logged out")
	}
	if s.Information() != nil {
		t.Error("session information should be cleared")
	}
	if r.last(t) {
		t.Error("subscriber should have received false")
	}
}

func TestState_LogOutIsIdempotent(t *testing.T) {
	s := NewState(nil)
	var r recorder
	s.Subscribe(r.fn)

	s.LogOut()
	s.LogOut()

	want := []bool{false, false, false}
	if len(r.values) != len(want) {
		t.Fatalf("got %v, want %v", r.values, want)
	}
	for i := range want {
		if r.values[i] != want[i] {
			t.Fatalf("got %v, want %v", r.values, want)
		}
	}
	if s.Information() != nil {
		t.Error("session information should stay cleared")
	}
}

func TestState_RepeatedLogInIsNotDeduplicated(t *testing.T) {
	s := NewState(nil)
	var r recorder
	s.Subscribe(r.fn)

	first := testInfo()
	second := testInfo()
	second.Username = "yoga_admin"
	second.Admin = true

	s.LogIn(first)
	s.LogIn(second)

	if len(r.values) != 3 || !r.values[1] || !r.values[2] {
		t.Errorf("got %v, want [false true true]", r.values)
	}
	if s.Information() != second {
		t.Error("last writer should win")
	}
}

func TestState_LogInNilKeepsFlagAndSnapshotConsistent(t *testing.T) {
	s := NewState(nil)
	s.LogIn(nil)
	if !s.IsLogged() || s.Information() == nil {
		t.Error("logged-in flag and snapshot presence must agree")
	}
}

func TestState_EmittedValueTracksMostRecentCall(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	s := NewState(nil)
	var r recorder
	s.Subscribe(r.fn)

	for i := 0; i < 200; i++ {
		login := rng.Intn(2) == 0
		if login {
			s.LogIn(testInfo())
		} else {
			s.LogOut()
		}
		if got := r.last(t); got != login {
			t.Fatalf("step %d: emitted %v after LogIn=%v", i, got, login)
		}
		if (s.Information() != nil) != s.IsLogged() {
			t.Fatalf("step %d: snapshot presence disagrees with flag", i)
		}
	}
	if len(r.values) != 201 {
		t.Errorf("expected one event per call plus the replay, got %d", len(r.values))
	}
}

func TestState_SubscriptionsAreIndependent(t *testing.T) {
	s := NewState(nil)
	var a, b recorder
	cancelA := s.Subscribe(a.fn)
	s.LogIn(testInfo())
	s.Subscribe(b.fn)

	cancelA()
	cancelA() // no-op
	s.LogOut()

	if len(a.values) != 2 {
		t.Errorf("cancelled subscriber got %v, want [false true]", a.values)
	}
	if len(b.values) != 2 || !b.values[0] || b.values[1] {
		t.Errorf("second subscriber got %v, want [true false]", b.values)
	}
	if s.Subscribers() != 1 {
		t.Errorf("Subscribers() = %d, want 1", s.Subscribers())
	}
}

func TestState_ListenerMayChangeState(t *testing.T) {
	s := NewState(nil)
	var r recorder
	s.Subscribe(func(v bool) {
		if v {
			s.LogOut()
		}
	})
	s.Subscribe(r.fn)

	s.LogIn(testInfo())

	if s.IsLogged() {
		t.Error("listener-triggered LogOut should win")
	}
	if r.values[len(r.values)-2] != false {
		t.Errorf("expected the nested LogOut to reach later subscribers, got %v", r.values)
	}
}
