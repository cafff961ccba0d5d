package token

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/pkg/errors"
)

// ErrMalformedToken indicates a remember-me cookie value that does not have
// exactly four "$"-joined fields. Unlike an unresolvable token this is fatal:
// a well-formed client never produces it.
var ErrMalformedToken = errors.New("malformed remember-me token")

// ErrRememberMeNotFound is returned by a RememberMeRepo when no record exists
// for the given hash.
var ErrRememberMeNotFound = errors.New("remember-me record not found")

// RememberMe is the decoded form of a remember-me cookie value:
// "algorithm$salt$iterations$secret". The secret travels only in the cookie;
// the server stores a hash of it keyed by that hash.
type RememberMe struct {
	Algorithm  string
	Salt       string
	Iterations int
	Secret     string
}

// ParseRememberMe splits a cookie value into its four fields.
func ParseRememberMe(cookieValue string) (*RememberMe, error) {
	fields := strings.Split(cookieValue, "$")
	if len(fields) != 4 {
		return nil, errors.Wrapf(ErrMalformedToken, "[token.ParseRememberMe] %d fields", len(fields))
	}
	// Only the field count decides malformedness. A non-numeric iterations
	// field yields a token that can never resolve to a record, which is the
	// ordinary "not signed in" path rather than a hard failure.
	iterations, err := strconv.Atoi(fields[2])
	if err != nil {
		return nil, errors.Wrap(err, "[token.ParseRememberMe] iterations field")
	}
	return &RememberMe{
		Algorithm:  fields[0],
		Salt:       fields[1],
		Iterations: iterations,
		Secret:     fields[3],
	}, nil
}

// CookieValue encodes the token for transport in a cookie.
func (rm *RememberMe) CookieValue() string {
	return fmt.Sprintf("%s$%s$%d$%s", rm.Algorithm, rm.Salt, rm.Iterations, rm.Secret)
}

// StorageHash derives the datastore key for this token by hashing its secret
// with the parameters it carries.
func (rm *RememberMe) StorageHash() (string, error) {
	return Hash(rm.Secret, rm.Salt, rm.Algorithm, rm.Iterations)
}

// RememberMeRecord is the server-side record backing a remember-me cookie.
// The client only ever sees the cookie value; this record is keyed by the
// hash of the cookie's secret.
type RememberMeRecord struct {
	Hash      string    // Hash of the session secret (storage key)
	AccountID string    // Account the session belongs to
	Payload   string    // Signed-in payload stored at issuance
	IssuedAt  time.Time // When the session was issued
	ExpiresAt time.Time // When the session stops authenticating
}

// Valid tells whether the record still authenticates at the given time.
// Expired records are never deleted, only logically invalid.
func (r *RememberMeRecord) Valid(now time.Time) bool {
	return r.ExpiresAt.After(now)
}

// RememberMeRepo manages server-side storage of remember-me records.
type RememberMeRepo interface {
	// Get retrieves a record by storage hash, failing ErrRememberMeNotFound
	// when no record exists.
	Get(ctx context.Context, hash string) (*RememberMeRecord, error)

	// Save persists a freshly issued record.
	Save(ctx context.Context, record *RememberMeRecord) error
}
