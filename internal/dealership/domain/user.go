package domain

import "time"

// User はログイン可能なアカウント。
type User struct {
	ID           uint
	Username     string
	FirstName    string
	LastName     string
	PasswordHash []byte
	IsStaff      bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// DisplayName returns "First Last", falling back to the username.
func (u User) DisplayName() string {
	switch {
	case u.FirstName != "" && u.LastName != "":
		return u.FirstName + " " + u.LastName
	case u.FirstName != "":
		return u.FirstName
	case u.LastName != "":
		return u.LastName
	}
	return u.Username
}
