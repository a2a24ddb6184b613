package app

import (
	"strconv"
	"strings"
)

// Route is a navigable location in the application.
type Route string

const (
	RouteLanding       Route = "/"
	RouteLogin         Route = "/login"
	RouteRegister      Route = "/register"
	RouteSessions      Route = "/sessions"
	RouteSessionCreate Route = "/sessions/create"
	RouteMe            Route = "/me"
	RouteNotFound      Route = "/404"

	sessionDetailPrefix = "/sessions/detail/"
	sessionUpdatePrefix = "/sessions/update/"
)

// SessionDetailRoute returns the detail route for session id.
func SessionDetailRoute(id string) Route { return Route(sessionDetailPrefix + id) }

// SessionUpdateRoute returns the edit route for session id.
func SessionUpdateRoute(id string) Route { return Route(sessionUpdatePrefix + id) }

// Resolve applies the route guards to path: pages behind login send a
// logged-out user to /login, the login and register pages send a logged-in
// user to /sessions, and unknown paths resolve to /404.
func Resolve(path string, logged bool) Route {
	r := Route(strings.TrimSuffix(path, "/"))
	if r == "" {
		r = RouteLanding
	}

	switch {
	case r == RouteLanding, r == RouteNotFound:
		return r
	case r == RouteLogin, r == RouteRegister:
		if logged {
			return RouteSessions
		}
		return r
	case r == RouteSessions, r == RouteSessionCreate, r == RouteMe,
		hasIDSuffix(r, sessionDetailPrefix), hasIDSuffix(r, sessionUpdatePrefix):
		if !logged {
			return RouteLogin
		}
		return r
	default:
		return RouteNotFound
	}
}

func hasIDSuffix(r Route, prefix string) bool {
	id, ok := strings.CutPrefix(string(r), prefix)
	if !ok {
		return false
	}
	_, err := strconv.ParseInt(id, 10, 64)
	return err == nil
}
