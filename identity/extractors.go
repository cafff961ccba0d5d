package identity

import (
	"github.com/jrsteele09/go-identity-server/internal/utils"
	"github.com/pkg/errors"
)

// ErrUnknownStrategy indicates a profile arrived for a strategy that has no
// registered extractor.
var ErrUnknownStrategy = errors.New("unknown strategy")

// ProfileFieldExtractor derives the normalized assertion fields from one
// strategy's raw profile shape. The set of strategies is fixed at build time;
// each extractor is registered once in the static table below.
type ProfileFieldExtractor interface {
	Strategy() string
	Extract(profile map[string]any) (*Assertion, error)
}

var extractors = map[string]ProfileFieldExtractor{
	"github":   githubExtractor{},
	"google":   googleExtractor{},
	"facebook": facebookExtractor{},
	"twitter":  twitterExtractor{},
}

// ExtractorFor returns the registered extractor for a strategy.
func ExtractorFor(strategy string) (ProfileFieldExtractor, error) {
	extractor, ok := extractors[strategy]
	if !ok {
		return nil, errors.Wrapf(ErrUnknownStrategy, "[identity.ExtractorFor] %q", strategy)
	}
	return extractor, nil
}

// Strategies lists the registered strategy names.
func Strategies() []string {
	names := make([]string, 0, len(extractors))
	for name := range extractors {
		names = append(names, name)
	}
	return names
}

type githubExtractor struct{}

func (githubExtractor) Strategy() string { return "github" }

func (e githubExtractor) Extract(profile map[string]any) (*Assertion, error) {
	externalID := utils.Stringify(profile["id"])
	if externalID == "" {
		return nil, errors.New("[githubExtractor.Extract] profile has no id")
	}
	emails := profileEmails(profile)
	return NewAssertion(e.Strategy(), externalID, emails,
		"", "", utils.Stringify(profile["name"]), profile), nil
}

type googleExtractor struct{}

func (googleExtractor) Strategy() string { return "google" }

func (e googleExtractor) Extract(profile map[string]any) (*Assertion, error) {
	externalID := utils.Stringify(profile["sub"])
	if externalID == "" {
		externalID = utils.Stringify(profile["id"])
	}
	if externalID == "" {
		return nil, errors.New("[googleExtractor.Extract] profile has no sub")
	}
	emails := profileEmails(profile)
	return NewAssertion(e.Strategy(), externalID, emails,
		utils.Stringify(profile["given_name"]),
		utils.Stringify(profile["family_name"]),
		utils.Stringify(profile["name"]), profile), nil
}

type facebookExtractor struct{}

func (facebookExtractor) Strategy() string { return "facebook" }

func (e facebookExtractor) Extract(profile map[string]any) (*Assertion, error) {
	externalID := utils.Stringify(profile["id"])
	if externalID == "" {
		return nil, errors.New("[facebookExtractor.Extract] profile has no id")
	}
	emails := profileEmails(profile)
	return NewAssertion(e.Strategy(), externalID, emails,
		utils.Stringify(profile["first_name"]),
		utils.Stringify(profile["last_name"]),
		utils.Stringify(profile["name"]), profile), nil
}

type twitterExtractor struct{}

func (twitterExtractor) Strategy() string { return "twitter" }

func (e twitterExtractor) Extract(profile map[string]any) (*Assertion, error) {
	// Twitter sends numeric ids; id_str is authoritative when present.
	externalID := utils.Stringify(profile["id_str"])
	if externalID == "" {
		externalID = utils.Stringify(profile["id"])
	}
	if externalID == "" {
		return nil, errors.New("[twitterExtractor.Extract] profile has no id")
	}
	emails := profileEmails(profile) // usually empty; twitter rarely shares emails
	return NewAssertion(e.Strategy(), externalID, emails,
		"", "", utils.Stringify(profile["name"]), profile), nil
}

// profileEmails gathers candidate addresses from the common provider shapes:
// a single "email" field, an "emails" list of strings, or an "emails" list of
// {value: ...} objects.
func profileEmails(profile map[string]any) []string {
	emails := make([]string, 0, 2)
	if email := utils.Stringify(profile["email"]); email != "" {
		emails = append(emails, email)
	}
	if list, ok := profile["emails"].([]any); ok {
		emails = append(emails, utils.ToStringSlice(list)...)
		for _, entry := range list {
			if obj, ok := entry.(map[string]any); ok {
				if value := utils.Stringify(obj["value"]); value != "" {
					emails = append(emails, value)
				}
			}
		}
	}
	return emails
}
