package app

import "testing"

func TestResolve(t *testing.T) {
	tests := []struct {
		path   string
		logged bool
		want   Route
	}{
		{"/", false, RouteLanding},
		{"", true, RouteLanding},
		{"/login", false, RouteLogin},
		{"/login", true, RouteSessions},
		{"/register", true, RouteSessions},
		{"/sessions", false, RouteLogin},
		{"/sessions/", true, RouteSessions},
		{"/sessions/detail/1", false, RouteLogin},
		{"/sessions/detail/1", true, "/sessions/detail/1"},
		{"/sessions/detail/abc", true, RouteNotFound},
		{"/sessions/update/2", true, "/sessions/update/2"},
		{"/sessions/create", true, RouteSessionCreate},
		{"/me", false, RouteLogin},
		{"/me", true, RouteMe},
		{"/nowhere", true, RouteNotFound},
		{"/404", false, RouteNotFound},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := Resolve(tt.path, tt.logged); got != tt.want {
				t.Errorf("Resolve(%q, %v) = %q, want %q", tt.path, tt.logged, got, tt.want)
			}
		})
	}
}
