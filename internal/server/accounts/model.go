package accounts

import "time"

// Account is an identity record. Email is unique and stored lowercase.
// PasswordHash and MasterPasswordHash hold adaptive (bcrypt) digests; the
// plaintext secrets never survive registration.
type Account struct {
	ID                 string
	Email              string
	PasswordHash       string
	MasterPasswordHash string
	FirstName          string
	LastName           string
	IsEmailVerified    bool
	LastLogin          *time.Time
	CreatedAt          time.Time
	UpdatedAt          time.Time
}
