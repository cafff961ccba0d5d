package identity_test

import (
	"testing"

	"github.com/jrsteele09/go-identity-server/identity"
	"github.com/stretchr/testify/require"
)

func TestExtractorForUnknownStrategy(t *testing.T) {
	_, err := identity.ExtractorFor("myspace")
	require.ErrorIs(t, err, identity.ErrUnknownStrategy)
}

func TestGithubExtractor(t *testing.T) {
	extractor, err := identity.ExtractorFor("github")
	require.NoError(t, err)

	// JSON hands numeric ids over as float64; they must come out stringified.
	assertion, err := extractor.Extract(map[string]any{
		"id":    float64(5823),
		"name":  "Ada Lovelace",
		"email": "Ada@Example.com",
		"emails": []any{
			map[string]any{"value": "second@example.com"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, "github", assertion.Strategy)
	require.Equal(t, "5823", assertion.ExternalID)
	require.Equal(t, []string{"ada@example.com", "second@example.com"}, assertion.Emails)
	require.Equal(t, "Ada Lovelace", assertion.FullName)
}

func TestGithubExtractorRequiresID(t *testing.T) {
	extractor, err := identity.ExtractorFor("github")
	require.NoError(t, err)

	_, err = extractor.Extract(map[string]any{"name": "No ID"})
	require.Error(t, err)
}

func TestGoogleExtractor(t *testing.T) {
	extractor, err := identity.ExtractorFor("google")
	require.NoError(t, err)

	assertion, err := extractor.Extract(map[string]any{
		"sub":         "108234",
		"email":       "ada@example.com",
		"given_name":  "Ada",
		"family_name": "Lovelace",
		"name":        "Ada Lovelace",
	})
	require.NoError(t, err)
	require.Equal(t, "108234", assertion.ExternalID)
	require.Equal(t, "Ada", assertion.FirstName)
	require.Equal(t, "Lovelace", assertion.LastName)

	firstName, lastName := assertion.DerivedNames()
	require.Equal(t, "Ada", firstName)
	require.Equal(t, "Lovelace", lastName)
}

func TestFacebookExtractor(t *testing.T) {
	extractor, err := identity.ExtractorFor("facebook")
	require.NoError(t, err)

	assertion, err := extractor.Extract(map[string]any{
		"id":         "990011",
		"email":      "ada@example.com",
		"first_name": "Ada",
		"last_name":  "Lovelace",
	})
	require.NoError(t, err)
	require.Equal(t, "990011", assertion.ExternalID)
	require.Equal(t, []string{"ada@example.com"}, assertion.Emails)
}

func TestTwitterExtractorPrefersIDStr(t *testing.T) {
	extractor, err := identity.ExtractorFor("twitter")
	require.NoError(t, err)

	assertion, err := extractor.Extract(map[string]any{
		"id":     float64(123456789012345680), // precision-lossy float
		"id_str": "123456789012345678",
		"name":   "Ada Lovelace",
	})
	require.NoError(t, err)
	require.Equal(t, "123456789012345678", assertion.ExternalID)
	require.Empty(t, assertion.Emails)
}
