package api

import (
	"context"
	"net/http"

	"github.com/me/yogastudio/pkg/model"
)

const (
	loginPath    = "/api/auth/login"
	registerPath = "/api/auth/register"
)

// AuthAPI wraps /api/auth.
type AuthAPI struct {
	client *Client
}

// Login exchanges credentials for session information.
func (a *AuthAPI) Login(ctx context.Context, req model.LoginRequest) (*model.SessionInformation, error) {
	var info model.SessionInformation
	if err := a.client.do(ctx, http.MethodPost, loginPath, req, &info); err != nil {
		return nil, err
	}
	return &info, nil
}

// Register creates an account. The new user still has to log in.
func (a *AuthAPI) Register(ctx context.Context, req model.RegisterRequest) error {
	return a.client.do(ctx, http.MethodPost, registerPath, req, nil)
}
