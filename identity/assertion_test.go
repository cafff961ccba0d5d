package identity_test

import (
	"testing"

	"github.com/jrsteele09/go-identity-server/identity"
	"github.com/stretchr/testify/require"
)

func TestNormalizeEmails(t *testing.T) {
	tests := []struct {
		name     string
		emails   []string
		expected []string
	}{
		{"lowercases", []string{"John.Doe@Example.COM"}, []string{"john.doe@example.com"}},
		{"trims", []string{"  a@x.com "}, []string{"a@x.com"}},
		{"drops invalid", []string{"not-an-email", "a@x.com"}, []string{"a@x.com"}},
		{"drops empties", []string{"", "a@x.com"}, []string{"a@x.com"}},
		{"dedupes", []string{"a@x.com", "A@X.com"}, []string{"a@x.com"}},
		{"none", nil, []string{}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			require.Equal(t, tc.expected, identity.NormalizeEmails(tc.emails))
		})
	}
}

func TestDerivedNames(t *testing.T) {
	tests := []struct {
		name      string
		assertion identity.Assertion
		firstName string
		lastName  string
	}{
		{"explicit names win", identity.Assertion{FirstName: "Ada", LastName: "Lovelace", FullName: "ignored"}, "Ada", "Lovelace"},
		{"full name splits on last space", identity.Assertion{FullName: "Ada Augusta Lovelace"}, "Ada Augusta", "Lovelace"},
		{"single word is a last name", identity.Assertion{FullName: "Madonna"}, "", "Madonna"},
		{"prefix is trimmed", identity.Assertion{FullName: "Ada  Lovelace"}, "Ada", "Lovelace"},
		{"no names at all", identity.Assertion{}, "", ""},
		{"first name only", identity.Assertion{FirstName: "Ada"}, "Ada", ""},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			firstName, lastName := tc.assertion.DerivedNames()
			require.Equal(t, tc.firstName, firstName)
			require.Equal(t, tc.lastName, lastName)
		})
	}
}

func TestPrimaryEmail(t *testing.T) {
	assertion := identity.NewAssertion("github", "42", []string{"A@x.com", "b@x.com"}, "", "", "", nil)
	require.Equal(t, "a@x.com", assertion.PrimaryEmail())

	empty := identity.NewAssertion("github", "42", nil, "", "", "", nil)
	require.Empty(t, empty.PrimaryEmail())
}
