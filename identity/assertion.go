package identity

import (
	"net/mail"
	"strings"
)

// Assertion is a normalized external-login assertion: the already-validated
// output of a third-party strategy handshake. Immutable once constructed;
// the reconciler never touches the transport that produced it.
type Assertion struct {
	Strategy   string
	ExternalID string
	Emails     []string // normalized, lowercase, syntax-checked
	FirstName  string
	LastName   string
	FullName   string
	Profile    map[string]any // raw provider profile, persisted with the link
}

// NewAssertion builds an assertion, normalizing emails. Invalid addresses
// are dropped rather than failing the whole assertion.
func NewAssertion(strategy, externalID string, emails []string, firstName, lastName, fullName string, profile map[string]any) *Assertion {
	return &Assertion{
		Strategy:   strategy,
		ExternalID: externalID,
		Emails:     NormalizeEmails(emails),
		FirstName:  firstName,
		LastName:   lastName,
		FullName:   fullName,
		Profile:    profile,
	}
}

// NormalizeEmails lowercases, trims and syntax-checks addresses, dropping
// duplicates and anything unparseable.
func NormalizeEmails(emails []string) []string {
	normalized := make([]string, 0, len(emails))
	seen := make(map[string]struct{}, len(emails))
	for _, email := range emails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email == "" {
			continue
		}
		if _, err := mail.ParseAddress(email); err != nil {
			continue
		}
		if _, ok := seen[email]; ok {
			continue
		}
		seen[email] = struct{}{}
		normalized = append(normalized, email)
	}
	return normalized
}

// DerivedNames returns the first/last name pair for account creation. When a
// profile supplies only a full name it is split on the last space: the suffix
// is the last name, the trimmed prefix the first name. A single-word name
// yields an empty first name.
func (a *Assertion) DerivedNames() (firstName, lastName string) {
	if a.FirstName != "" || a.LastName != "" {
		return a.FirstName, a.LastName
	}
	full := strings.TrimSpace(a.FullName)
	if full == "" {
		return "", ""
	}
	idx := strings.LastIndex(full, " ")
	if idx < 0 {
		return "", full
	}
	return strings.TrimSpace(full[:idx]), full[idx+1:]
}

// PrimaryEmail returns the first normalized email, or empty when the
// strategy supplied none.
func (a *Assertion) PrimaryEmail() string {
	if len(a.Emails) == 0 {
		return ""
	}
	return a.Emails[0]
}
