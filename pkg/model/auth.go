package model

// SessionInformation is the token and profile snapshot returned by a
// successful login. The client holds at most one at a time.
type SessionInformation struct {
	Token     string `json:"token" yaml:"-"`
	Type      string `json:"type" yaml:"type"`
	ID        int64  `json:"id" yaml:"id"`
	Username  string `json:"username" yaml:"username"`
	FirstName string `json:"firstName" yaml:"first_name"`
	LastName  string `json:"lastName" yaml:"last_name"`
	Admin     bool   `json:"admin" yaml:"admin"`
}

// TokenType returns the authorization scheme, defaulting to Bearer.
func (s *SessionInformation) TokenType() string {
	if s.Type == "" {
		return "Bearer"
	}
	return s.Type
}

// LoginRequest is the body of POST /api/auth/login.
type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// RegisterRequest is the body of POST /api/auth/register.
type RegisterRequest struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

// MessageResponse is the {"message": ...} body the backend uses for
// registration results and some errors.
type MessageResponse struct {
	Message string `json:"message"`
}
