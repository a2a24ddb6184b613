package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/me/yogastudio/pkg/model"
)

const userPath = "/api/user"

// UserAPI wraps /api/user.
type UserAPI struct {
	client *Client
}

// GetByID fetches the account id.
func (a *UserAPI) GetByID(ctx context.Context, id string) (*model.User, error) {
	var u model.User
	if err := a.client.do(ctx, http.MethodGet, userPath+"/"+url.PathEscape(id), nil, &u); err != nil {
		return nil, err
	}
	return &u, nil
}

// Delete removes the account id.
func (a *UserAPI) Delete(ctx context.Context, id string) error {
	return a.client.do(ctx, http.MethodDelete, userPath+"/"+url.PathEscape(id), nil, nil)
}
