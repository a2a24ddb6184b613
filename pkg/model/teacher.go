package model

import "time"

// Teacher leads sessions. Read-only for clients.
type Teacher struct {
	ID        int64      `json:"id" yaml:"id"`
	FirstName string     `json:"firstName" yaml:"first_name"`
	LastName  string     `json:"lastName" yaml:"last_name"`
	CreatedAt *time.Time `json:"createdAt,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updatedAt,omitempty" yaml:"updated_at,omitempty"`
}

// FullName returns "First Last".
func (t *Teacher) FullName() string {
	return t.FirstName + " " + t.LastName
}
