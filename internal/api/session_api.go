package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/me/yogastudio/pkg/model"
)

const sessionPath = "/api/session"

// SessionAPI maps booking-session operations to /api/session calls.
type SessionAPI struct {
	client *Client
}

func sessionIDPath(id string) string {
	return sessionPath + "/" + url.PathEscape(id)
}

func participatePath(id, userID string) string {
	return sessionIDPath(id) + "/participate/" + url.PathEscape(userID)
}

// All lists every session.
func (a *SessionAPI) All(ctx context.Context) ([]model.Session, error) {
	var sessions []model.Session
	if err := a.client.do(ctx, http.MethodGet, sessionPath, nil, &sessions); err != nil {
		return nil, err
	}
	return sessions, nil
}

// Detail fetches one session.
func (a *SessionAPI) Detail(ctx context.Context, id string) (*model.Session, error) {
	var s model.Session
	if err := a.client.do(ctx, http.MethodGet, sessionIDPath(id), nil, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Create sends session as-is and returns the stored copy with its assigned id.
func (a *SessionAPI) Create(ctx context.Context, session *model.Session) (*model.Session, error) {
	var created model.Session
	if err := a.client.do(ctx, http.MethodPost, sessionPath, session, &created); err != nil {
		return nil, err
	}
	return &created, nil
}

// Update overwrites session id with the given payload, sent as-is.
func (a *SessionAPI) Update(ctx context.Context, id string, session *model.Session) (*model.Session, error) {
	var updated model.Session
	if err := a.client.do(ctx, http.MethodPut, sessionIDPath(id), session, &updated); err != nil {
		return nil, err
	}
	return &updated, nil
}

// Delete removes session id.
func (a *SessionAPI) Delete(ctx context.Context, id string) error {
	return a.client.do(ctx, http.MethodDelete, sessionIDPath(id), nil, nil)
}

// Participate adds userID to the participants of session id. No body is sent.
func (a *SessionAPI) Participate(ctx context.Context, id, userID string) error {
	return a.client.do(ctx, http.MethodPost, participatePath(id, userID), nil, nil)
}

// UnParticipate removes userID from the participants of session id.
func (a *SessionAPI) UnParticipate(ctx context.Context, id, userID string) error {
	return a.client.do(ctx, http.MethodDelete, participatePath(id, userID), nil, nil)
}
