package domain

import "time"

type User struct {
	ID           string // uuid v4, the token subject
	FullName     string
	Email        string // trimmed and lower-cased, unique
	PasswordHash string // PHC argon2id, or a legacy hash until the next login
	CreatedAt    time.Time
}

// Profile is the part of a User that is shown back to its owner.
type Profile struct {
	FullName string
	Email    string
}

func (u User) Profile() Profile {
	return Profile{FullName: u.FullName, Email: u.Email}
}
