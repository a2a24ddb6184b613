// Package app implements the studio client's pages as plain operations:
// each one validates its input, calls the backend, updates the login state,
// and reports where the user ends up and what notice they see.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/me/yogastudio/internal/api"
	"github.com/me/yogastudio/internal/auth"
	"github.com/me/yogastudio/internal/logging"
	"github.com/me/yogastudio/pkg/model"
)

// Notices shown after a successful operation.
const (
	NoticeSessionCreated = "Session created !"
	NoticeSessionUpdated = "Session updated !"
	NoticeSessionDeleted = "Session deleted !"
	NoticeAccountDeleted = "Your account has been deleted !"
)

// Outcome is where an operation left the user.
type Outcome struct {
	Route   Route
	Notice  string
	Session *model.Session // set by create and update
}

// SessionView is the session detail page.
type SessionView struct {
	Session       *model.Session
	Teacher       *model.Teacher
	IsParticipate bool
	IsAdmin       bool
}

// Listing is the sessions page with each session's teacher resolved.
type Listing struct {
	Sessions []model.Session
	Teachers map[int64]model.Teacher
}

// MenuItem is a toolbar link.
type MenuItem struct {
	Label string
	Route Route
}

// App wires the backend client to the login state.
type App struct {
	client *api.Client
	state  *auth.State
	logger *slog.Logger

	mu         sync.Mutex
	current    Route
	menu       []MenuItem
	cancelMenu func()
}

// New creates an App. The toolbar menu follows the login state until Close.
func New(client *api.Client, state *auth.State, logger *slog.Logger) *App {
	a := &App{
		client:  client,
		state:   state,
		logger:  logging.OrDiscard(logger).With("component", "app"),
		current: RouteLanding,
	}
	a.cancelMenu = state.Subscribe(a.updateMenu)
	return a
}

// Close detaches the App from the login state.
func (a *App) Close() {
	a.cancelMenu()
}

func (a *App) updateMenu(logged bool) {
	var items []MenuItem
	if logged {
		items = []MenuItem{
			{Label: "Sessions", Route: RouteSessions},
			{Label: "Account", Route: RouteMe},
			{Label: "Logout", Route: RouteLanding},
		}
	} else {
		items = []MenuItem{
			{Label: "Login", Route: RouteLogin},
			{Label: "Register", Route: RouteRegister},
		}
	}
	a.mu.Lock()
	a.menu = items
	a.mu.Unlock()
}

// Menu returns the toolbar links for the current login state.
func (a *App) Menu() []MenuItem {
	a.mu.Lock()
	defer a.mu.Unlock()
	return append([]MenuItem(nil), a.menu...)
}

// Navigate moves to path after applying the route guards and returns the
// route actually reached.
func (a *App) Navigate(path string) Route {
	r := Resolve(path, a.state.IsLogged())
	a.mu.Lock()
	a.current = r
	a.mu.Unlock()
	if string(r) != path {
		a.logger.Debug("redirected", "from", path, "to", r)
	}
	return r
}

// Current returns the route last navigated to.
func (a *App) Current() Route {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.current
}

func (a *App) outcome(r Route, notice string) Outcome {
	return Outcome{Route: a.Navigate(string(r)), Notice: notice}
}

// userID returns the logged-in user's id as a path segment.
func (a *App) userID() (string, error) {
	info := a.state.Information()
	if info == nil {
		return "", ErrLoginRequired
	}
	return strconv.FormatInt(info.ID, 10), nil
}

func (a *App) requireLogin() error {
	if !a.state.IsLogged() {
		return ErrLoginRequired
	}
	return nil
}

// --- Authentication ---

// Login authenticates and stores the returned session information.
// Every failure is reported as an *AuthError.
func (a *App) Login(ctx context.Context, form LoginForm) (Outcome, error) {
	if err := form.Validate(); err != nil {
		return Outcome{}, &AuthError{Op: "login", Err: err}
	}
	info, err := a.client.Auth().Login(ctx, model.LoginRequest{Email: form.Email, Password: form.Password})
	if err != nil {
		a.logger.Debug("login failed", "email", form.Email, "error", err)
		return Outcome{}, &AuthError{Op: "login", Err: err}
	}
	a.state.LogIn(info)
	a.logger.Info("logged in", "user_id", info.ID, "admin", info.Admin)
	return a.outcome(RouteSessions, ""), nil
}

// Register creates an account and sends the user to the login page.
// Every failure is reported as an *AuthError.
func (a *App) Register(ctx context.Context, form RegisterForm) (Outcome, error) {
	if err := form.Validate(); err != nil {
		return Outcome{}, &AuthError{Op: "register", Err: err}
	}
	if err := a.client.Auth().Register(ctx, form.request()); err != nil {
		a.logger.Debug("registration failed", "email", form.Email, "error", err)
		return Outcome{}, &AuthError{Op: "register", Err: err}
	}
	return a.outcome(RouteLogin, ""), nil
}

// Logout clears the login state and returns to the landing page.
func (a *App) Logout() Outcome {
	a.state.LogOut()
	return a.outcome(RouteLanding, "")
}

// --- Sessions ---

// Sessions lists every booking session.
func (a *App) Sessions(ctx context.Context) ([]model.Session, error) {
	if err := a.requireLogin(); err != nil {
		return nil, err
	}
	return a.client.Sessions().All(ctx)
}

// Teachers lists every teacher.
func (a *App) Teachers(ctx context.Context) ([]model.Teacher, error) {
	if err := a.requireLogin(); err != nil {
		return nil, err
	}
	return a.client.Teachers().All(ctx)
}

// Teacher fetches one teacher.
func (a *App) Teacher(ctx context.Context, id string) (*model.Teacher, error) {
	if err := a.requireLogin(); err != nil {
		return nil, err
	}
	return a.client.Teachers().Detail(ctx, id)
}

// Listing fetches sessions and teachers concurrently.
func (a *App) Listing(ctx context.Context) (*Listing, error) {
	if err := a.requireLogin(); err != nil {
		return nil, err
	}

	var sessions []model.Session
	var teachers []model.Teacher
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		sessions, err = a.client.Sessions().All(gctx)
		return err
	})
	g.Go(func() error {
		var err error
		teachers, err = a.client.Teachers().All(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}

	l := &Listing{Sessions: sessions, Teachers: make(map[int64]model.Teacher, len(teachers))}
	for _, t := range teachers {
		l.Teachers[t.ID] = t
	}
	return l, nil
}

// SessionDetail fetches a session, its teacher, and the current user's
// relation to it.
func (a *App) SessionDetail(ctx context.Context, id string) (*SessionView, error) {
	if err := a.requireLogin(); err != nil {
		return nil, err
	}
	s, err := a.client.Sessions().Detail(ctx, id)
	if err != nil {
		return nil, err
	}

	view := &SessionView{Session: s}
	if info := a.state.Information(); info != nil {
		view.IsParticipate = s.HasParticipant(info.ID)
		view.IsAdmin = info.Admin
	}
	if s.TeacherID != 0 {
		t, err := a.client.Teachers().Detail(ctx, strconv.FormatInt(s.TeacherID, 10))
		if err != nil {
			return nil, fmt.Errorf("teacher %d of session %s: %w", s.TeacherID, id, err)
		}
		view.Teacher = t
	}
	a.Navigate(string(SessionDetailRoute(id)))
	return view, nil
}

// EditSession opens the edit page for session id with the form pre-filled
// from the current session.
func (a *App) EditSession(ctx context.Context, id string) (SessionForm, error) {
	if err := a.requireLogin(); err != nil {
		return SessionForm{}, err
	}
	s, err := a.client.Sessions().Detail(ctx, id)
	if err != nil {
		return SessionForm{}, err
	}
	a.Navigate(string(SessionUpdateRoute(id)))
	return SessionFormFrom(s), nil
}

// CreateSession validates form and creates the session.
func (a *App) CreateSession(ctx context.Context, form SessionForm) (Outcome, error) {
	if err := a.requireLogin(); err != nil {
		return Outcome{}, err
	}
	payload, err := form.Session()
	if err != nil {
		return Outcome{}, err
	}
	created, err := a.client.Sessions().Create(ctx, payload)
	if err != nil {
		return Outcome{}, err
	}
	out := a.outcome(RouteSessions, NoticeSessionCreated)
	out.Session = created
	return out, nil
}

// UpdateSession validates form and replaces session id with it.
func (a *App) UpdateSession(ctx context.Context, id string, form SessionForm) (Outcome, error) {
	if err := a.requireLogin(); err != nil {
		return Outcome{}, err
	}
	payload, err := form.Session()
	if err != nil {
		return Outcome{}, err
	}
	updated, err := a.client.Sessions().Update(ctx, id, payload)
	if err != nil {
		return Outcome{}, err
	}
	out := a.outcome(RouteSessions, NoticeSessionUpdated)
	out.Session = updated
	return out, nil
}

// DeleteSession deletes session id.
func (a *App) DeleteSession(ctx context.Context, id string) (Outcome, error) {
	if err := a.requireLogin(); err != nil {
		return Outcome{}, err
	}
	if err := a.client.Sessions().Delete(ctx, id); err != nil {
		return Outcome{}, err
	}
	return a.outcome(RouteSessions, NoticeSessionDeleted), nil
}

// Participate adds the current user to session id and returns the refreshed detail.
func (a *App) Participate(ctx context.Context, id string) (*SessionView, error) {
	userID, err := a.userID()
	if err != nil {
		return nil, err
	}
	if err := a.client.Sessions().Participate(ctx, id, userID); err != nil {
		return nil, err
	}
	return a.SessionDetail(ctx, id)
}

// Unparticipate removes the current user from session id and returns the refreshed detail.
func (a *App) Unparticipate(ctx context.Context, id string) (*SessionView, error) {
	userID, err := a.userID()
	if err != nil {
		return nil, err
	}
	if err := a.client.Sessions().UnParticipate(ctx, id, userID); err != nil {
		return nil, err
	}
	return a.SessionDetail(ctx, id)
}

// --- Account ---

// Me fetches the current user's account.
func (a *App) Me(ctx context.Context) (*model.User, error) {
	userID, err := a.userID()
	if err != nil {
		return nil, err
	}
	return a.client.Users().GetByID(ctx, userID)
}

// DeleteAccount deletes the current user's account, logs out, and returns
// to the landing page.
func (a *App) DeleteAccount(ctx context.Context) (Outcome, error) {
	userID, err := a.userID()
	if err != nil {
		return Outcome{}, err
	}
	if err := a.client.Users().Delete(ctx, userID); err != nil {
		return Outcome{}, err
	}
	a.state.LogOut()
	a.logger.Info("account deleted", "user_id", userID)
	return a.outcome(RouteLanding, NoticeAccountDeleted), nil
}
