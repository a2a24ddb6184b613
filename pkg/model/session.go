package model

import (
	"slices"
	"time"
)

// Session is a bookable yoga class as served by /api/session.
// Not to be confused with SessionInformation, which describes the logged-in user.
type Session struct {
	ID          int64      `json:"id,omitempty" yaml:"id,omitempty"`
	Name        string     `json:"name" yaml:"name"`
	Description string     `json:"description" yaml:"description"`
	Date        time.Time  `json:"date" yaml:"date"`
	TeacherID   int64      `json:"teacher_id" yaml:"teacher_id"`
	Users       []int64    `json:"users" yaml:"users,omitempty"` // participant user IDs, in join order; null when unset
	CreatedAt   *time.Time `json:"createdAt,omitempty" yaml:"created_at,omitempty"`
	UpdatedAt   *time.Time `json:"updatedAt,omitempty" yaml:"updated_at,omitempty"`
}

// HasParticipant reports whether userID has joined the session.
func (s *Session) HasParticipant(userID int64) bool {
	return slices.Contains(s.Users, userID)
}

// Attendees returns the number of participants.
func (s *Session) Attendees() int {
	return len(s.Users)
}
