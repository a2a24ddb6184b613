package model

import "time"

// User is a studio account as served by /api/user/{id}.
type User struct {
	ID        int64      `json:"id" yaml:"id"`
	Email     string     `json:"email" yaml:"email"`
	FirstName string     `json:"firstName" yaml:"first_name"`
	LastName  string     `json:"lastName" yaml:"last_name"`
	Admin     bool       `json:"admin" yaml:"admin"`
	Password  string     `json:"password,omitempty" yaml:"-"` // write-only, sent on registration
	CreatedAt *time.Time `json:"createdAt,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty" yaml:"updated_at,omitempty"`
}
