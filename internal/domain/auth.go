package domain

import "time"

type Email = string

// Credentials are used transiently for sign-in and never persisted.
type Credentials struct {
	Email    Email  `json:"email"`
	Password string `json:"password"`
}

// RegistrationDraft is the registration form as typed by the user.
// It lives only until the registration reaches a terminal outcome.
type RegistrationDraft struct {
	Username        string `json:"username"`
	FirstName       string `json:"first_name"`
	LastName        string `json:"last_name"`
	Email           Email  `json:"email" validate:"emailsuffix"`
	Password        string `json:"password"`
	ConfirmPassword string `json:"confirm_password" validate:"eqfield=Password"`
}

func (d RegistrationDraft) Credentials() Credentials {
	return Credentials{Email: d.Email, Password: d.Password}
}

// FullName is the "First Last" shown on the review step.
func (d RegistrationDraft) FullName() string {
	switch {
	case d.FirstName == "":
		return d.LastName
	case d.LastName == "":
		return d.FirstName
	}
	return d.FirstName + " " + d.LastName
}

// Session is the opaque sign-in result issued by the auth backend.
// The application only carries it between the browser and the backend.
type Session struct {
	AccessToken  string    `json:"access_token"`
	RefreshToken string    `json:"refresh_token"`
	TokenType    string    `json:"token_type,omitempty"`
	ExpiresAt    time.Time `json:"expires_at"`
	Email        Email     `json:"email,omitempty"`
}

func (s *Session) Expired(now time.Time) bool {
	return s == nil || s.AccessToken == "" || (!s.ExpiresAt.IsZero() && !now.Before(s.ExpiresAt))
}
