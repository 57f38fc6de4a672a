// Package credentials stores and serves vault records: per-account login
// entries whose password and optional two-factor seed are encrypted at rest
// and only decrypted on the way out to their owner.
package credentials

import "time"

// Record is a single stored credential. Password and TwoFactorSecret hold
// plaintext on the way in and out of the service; at rest and inside the
// repository they hold sealed ciphertext.
type Record struct {
	ID              string    `json:"id"`
	OwnerID         string    `json:"-"`
	ServiceName     string    `json:"serviceName"`
	ServiceURL      string    `json:"serviceUrl"`
	Username        string    `json:"username"`
	Email           string    `json:"email"`
	Password        string    `json:"password"`
	Category        string    `json:"category"`
	IsPinned        bool      `json:"isPinned"`
	TwoFactorSecret string    `json:"twoFactorSecret,omitempty"`
	Notes           string    `json:"notes,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// DefaultCategory is assigned when a record arrives without one.
const DefaultCategory = "General"

// Filter narrows a list query. Zero values mean "no restriction".
type Filter struct {
	Category string
	Search   string
}
