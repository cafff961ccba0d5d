package accounts

import (
	"time"

	"golang.org/x/crypto/bcrypt"
)

// Account is the durable internal identity. An account owns zero or more
// external identity links and at most one password hash (set by the
// out-of-band signup flow, absent for accounts provisioned from an external
// login).
type Account struct {
	ID           string    `json:"id,omitempty"`         // Unique identifier for the account
	Email        string    `json:"email,omitempty"`      // Primary email address, lowercased
	FirstName    string    `json:"first_name,omitempty"` // First name; may be empty for single-word names
	LastName     string    `json:"last_name,omitempty"`
	PasswordHash string    `json:"-"` // Hashed password - never serialize
	Banned       bool      `json:"banned,omitempty"`
	CreatedAt    time.Time `json:"created_at,omitempty"`
}

func HashPassword(password string) (string, error) {
	bytes, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	return string(bytes), err
}

func CheckPasswordHash(password, hash string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(password))
	return err == nil
}

// DisplayName returns the account's name for signed-in payloads.
func (a *Account) DisplayName() string {
	if a.FirstName == "" {
		return a.LastName
	}
	if a.LastName == "" {
		return a.FirstName
	}
	return a.FirstName + " " + a.LastName
}
