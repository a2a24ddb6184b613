package api

import (
	"context"
	"net/http"
	"net/url"

	"github.com/me/yogastudio/pkg/model"
)

const teacherPath = "/api/teacher"

// TeacherAPI wraps the read-only /api/teacher resource.
type TeacherAPI struct {
	client *Client
}

// All lists every teacher.
func (a *TeacherAPI) All(ctx context.Context) ([]model.Teacher, error) {
	var teachers []model.Teacher
	if err := a.client.do(ctx, http.MethodGet, teacherPath, nil, &teachers); err != nil {
		return nil, err
	}
	return teachers, nil
}

// Detail fetches one teacher.
func (a *TeacherAPI) Detail(ctx context.Context, id string) (*model.Teacher, error) {
	var t model.Teacher
	if err := a.client.do(ctx, http.MethodGet, teacherPath+"/"+url.PathEscape(id), nil, &t); err != nil {
		return nil, err
	}
	return &t, nil
}
