package app

import (
	"fmt"
	"net/mail"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/me/yogastudio/pkg/model"
)

// DateLayout is the calendar-date format used by the session form.
const DateLayout = "2006-01-02"

const maxDescriptionLength = 2000

// LoginForm is the login page input.
type LoginForm struct {
	Email    string
	Password string
}

// Validate checks that both fields are present and the email is well formed.
func (f LoginForm) Validate() error {
	v := validator{}
	v.email("email", f.Email)
	v.required("password", f.Password)
	return v.err()
}

// RegisterForm is the registration page input.
type RegisterForm struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// Validate applies the registration field rules.
func (f RegisterForm) Validate() error {
	v := validator{}
	v.length("firstName", f.FirstName, 3, 20)
	v.length("lastName", f.LastName, 3, 20)
	v.email("email", f.Email)
	v.length("password", f.Password, 3, 40)
	return v.err()
}

func (f RegisterForm) request() model.RegisterRequest {
	return model.RegisterRequest{
		FirstName: f.FirstName,
		LastName:  f.LastName,
		Email:     f.Email,
		Password:  f.Password,
	}
}

// SessionForm is the create/edit page input. Date uses DateLayout.
type SessionForm struct {
	Name        string `yaml:"name"`
	Date        string `yaml:"date"`
	TeacherID   int64  `yaml:"teacher_id"`
	Description string `yaml:"description"`
}

// SessionFormFrom pre-fills a form from an existing session.
func SessionFormFrom(s *model.Session) SessionForm {
	f := SessionForm{
		Name:        s.Name,
		TeacherID:   s.TeacherID,
		Description: s.Description,
	}
	if !s.Date.IsZero() {
		f.Date = s.Date.Format(DateLayout)
	}
	return f
}

// Validate applies the session field rules.
func (f SessionForm) Validate() error {
	v := validator{}
	v.required("name", f.Name)
	if v.required("date", f.Date) {
		if _, err := time.Parse(DateLayout, f.Date); err != nil {
			v.fail("date", "must be a date like "+DateLayout)
		}
	}
	if f.TeacherID <= 0 {
		v.fail("teacher_id", "required")
	}
	if v.required("description", f.Description) && utf8.RuneCountInString(f.Description) > maxDescriptionLength {
		v.fail("description", fmt.Sprintf("must be at most %d characters", maxDescriptionLength))
	}
	return v.err()
}

// Session converts a validated form into the payload sent to the backend.
func (f SessionForm) Session() (*model.Session, error) {
	if err := f.Validate(); err != nil {
		return nil, err
	}
	date, _ := time.Parse(DateLayout, f.Date)
	return &model.Session{
		Name:        f.Name,
		Description: f.Description,
		Date:        date,
		TeacherID:   f.TeacherID,
	}, nil
}

type validator map[string]string

func (v validator) fail(field, msg string) {
	if _, ok := v[field]; !ok {
		v[field] = msg
	}
}

func (v validator) required(field, value string) bool {
	if strings.TrimSpace(value) == "" {
		v.fail(field, "required")
		return false
	}
	return true
}

func (v validator) length(field, value string, lo, hi int) {
	if !v.required(field, value) {
		return
	}
	if n := utf8.RuneCountInString(value); n < lo || n > hi {
		v.fail(field, fmt.Sprintf("must be %d to %d characters", lo, hi))
	}
}

func (v validator) email(field, value string) {
	if !v.required(field, value) {
		return
	}
	addr, err := mail.ParseAddress(value)
	if err != nil || addr.Address != value || !strings.Contains(value, "@") {
		v.fail(field, "must be a valid email")
	}
}

func (v validator) err() error {
	if len(v) == 0 {
		return nil
	}
	return &ValidationError{Fields: v}
}
