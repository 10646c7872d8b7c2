package domain

import "time"

// LoginAttempt is one entry of the login attempt ledger. Email is empty
// when the request did not carry one.
type LoginAttempt struct {
	ID        string
	Email     string
	IP        string
	At        time.Time
	Succeeded bool
}
