package models

import (
	"fmt"
	"unicode"

	"github.com/desertthunder/kedoo/internal/shared"
)

// User is a dashboard account. The password is stored in plaintext.
type User struct {
	ID       string `json:"id" validate:"required"`
	Email    string `json:"email" validate:"required,email"`
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

var _ Record = (*User)(nil)

// NewUser builds a [User]; callers supply the id (see [shared.GenerateID]).
func NewUser(id, email, username, password string) *User {
	return &User{ID: id, Email: email, Username: username, Password: password}
}

func (u *User) RecordID() string { return u.ID }
func (u *User) Owner() string    { return u.ID }
func (u *User) Validate() error  { return validateStruct(u) }

// Redacted returns a copy without the password, used for the session slot.
func (u *User) Redacted() *User {
	cp := *u
	cp.Password = ""
	return &cp
}

// Initial returns the upper-cased first letter of the username, shown as the avatar.
func (u *User) Initial() string {
	for _, r := range u.Username {
		return string(unicode.ToUpper(r))
	}
	return "?"
}

// UserPatch is a partial update for [User]. Nil fields are left unchanged.
type UserPatch struct {
	Email    *string `json:"email,omitempty"`
	Username *string `json:"username,omitempty"`
	Password *string `json:"password,omitempty"`
}

// Apply merges the non-nil fields of p into u.
func (p UserPatch) Apply(u *User) {
	if p.Email != nil {
		u.Email = *p.Email
	}
	if p.Username != nil {
		u.Username = *p.Username
	}
	if p.Password != nil {
		u.Password = *p.Password
	}
}

// Empty reports whether the patch changes nothing.
func (p UserPatch) Empty() bool {
	return p.Email == nil && p.Username == nil && p.Password == nil
}

// ValidateEmail checks a single address with the same rule as [User.Validate].
func ValidateEmail(email string) error {
	if err := validate.Var(email, "required,email"); err != nil {
		return fmt.Errorf("%w: email %q", shared.ErrInvalidInput, email)
	}
	return nil
}
