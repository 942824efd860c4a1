package auth

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"

	"github.com/dmitrymomot/soda/pkg/file"
)

// UserType records how an account was created.
type UserType string

const (
	UserTypePlatform UserType = "platform"
	UserTypeOAuth    UserType = "oauth"
)

// User is an account. EmailConfirmedAt is nil until the address is confirmed.
type User struct {
	ID               uuid.UUID  `db:"id" json:"id"`
	FirstName        string     `db:"first_name" json:"firstName"`
	LastName         string     `db:"last_name" json:"lastName"`
	Avatar           *string    `db:"avatar" json:"avatar"`
	Email            string     `db:"email" json:"email"`
	Type             UserType   `db:"type" json:"type"`
	CreatedAt        time.Time  `db:"created_at" json:"createdAt"`
	EmailConfirmedAt *time.Time `db:"email_confirmed_at" json:"emailConfirmedAt"`
}

// Confirmed reports whether the user may sign in.
func (u User) Confirmed() bool {
	return u.EmailConfirmedAt != nil
}

// Password is a stored bcrypt hash. At most one row per user is kept.
type Password struct {
	ID        uuid.UUID `db:"id"`
	Hash      string    `db:"password"`
	UserID    uuid.UUID `db:"user_id"`
	CreatedAt time.Time `db:"created_at"`
}

// Session backs a signed-in browser. Value is the opaque cookie token.
type Session struct {
	ID     uuid.UUID `db:"id" json:"id"`
	Value  string    `db:"session" json:"-"`
	UserID uuid.UUID `db:"user_id" json:"userId"`
}

// TokenType names the action a token authorises.
type TokenType string

const (
	TokenEmailConfirmation TokenType = "email-confirmation"
	TokenResetPassword     TokenType = "reset-password"
	TokenChangeEmail       TokenType = "change-email"
)

// Token is a single-use action token. Payload is nil for types that carry none.
type Token struct {
	ID        uuid.UUID       `db:"id"`
	Value     string          `db:"token"`
	Type      TokenType       `db:"type"`
	Payload   json.RawMessage `db:"payload"`
	UserID    uuid.UUID       `db:"user_id"`
	CreatedAt time.Time       `db:"created_at"`
}

// ChangeEmailPayload is carried by change-email tokens.
type ChangeEmailPayload struct {
	Email string `json:"email"`
}

// Auth is the resolved identity of a request.
type Auth struct {
	User    User
	Session Session
}

// NewUser holds the sign-up fields.
type NewUser struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
}

// ProfileUpdate holds the editable profile fields. Avatar is optional.
type ProfileUpdate struct {
	FirstName string
	LastName  string
	Avatar    *file.Upload
}
