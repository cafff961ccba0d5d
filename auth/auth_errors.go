package auth

import "fmt"

// Rejection errors are terminal for the current attempt and carry the exact
// user-facing message, including remediation instructions. The core never
// retries; the HTTP layer renders Error() verbatim.

// IdentityConflictError rejects an attempt to re-bind an external identity
// that is already linked to a different account.
type IdentityConflictError struct {
	Strategy string
}

func (e *IdentityConflictError) Error() string {
	return fmt.Sprintf("this %s identity is already linked to a different account - sign out and log in with %s to use that account, or unlink it there first", e.Strategy, e.Strategy)
}

// EmailRegisteredError rejects an attempt whose email already belongs to an
// existing account. Accounts are never silently merged by email; the user
// must sign in to the existing account and link explicitly.
type EmailRegisteredError struct {
	Email string
}

func (e *EmailRegisteredError) Error() string {
	return fmt.Sprintf("an account already exists for %s - sign in to that account and link this identity from account settings", e.Email)
}

// BannedError rejects any outcome whose resolved account is banned.
type BannedError struct {
	HelpEmail string
}

func (e *BannedError) Error() string {
	return fmt.Sprintf("this account has been suspended - contact %s for assistance", e.HelpEmail)
}
