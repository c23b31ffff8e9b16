package domain

import "time"

type User struct {
	ID             string
	Username       string // unique
	Email          string // unique
	PasswordHash   string // argon2 encoded
	Bio            string
	ProfilePicture string
	Verified       bool // set by the (out of scope) email verification flow
	Roles          []Role
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// Authorities returns the role-derived permission strings used for
// per-request authorization decisions.
func (u User) Authorities() []string {
	authorities := make([]string, 0, len(u.Roles))
	for _, role := range u.Roles {
		authorities = append(authorities, role.String())
	}
	return authorities
}
