package domain

import "time"

// User is the authenticated account as returned by GET /users/me.
type User struct {
	ID       string
	Username string
	Email    string
	Name     string
	Age      *int
	Gender   string
}

// DisplayName prefers the profile name and falls back to the username.
func (u *User) DisplayName() string {
	if u == nil {
		return ""
	}
	return CoalesceStr(u.Name, u.Username)
}

// ProfileUpdate carries the editable profile fields for PUT /users/me.
// Nil pointers leave the stored value unchanged.
type ProfileUpdate struct {
	Name   *string
	Age    *int
	Gender *string
	Email  *string
}

// Account is a server-side user row including the password hash.
type Account struct {
	User
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Credential is the locally stored login: the bearer token plus enough of
// the user to greet them without a network call.
type Credential struct {
	Token    string
	Username string
	Email    string
	SavedAt  time.Time
}
