package auth

// OutcomeKind tags the single variant a reconciliation attempt resolved to.
type OutcomeKind string

const (
	// OutcomeSignedIn - the external identity was already linked; the caller
	// is logged in to the linked account.
	OutcomeSignedIn OutcomeKind = "signed_in"

	// OutcomeLinked - a new link was attached to the account the caller was
	// already authenticated as via remember-me.
	OutcomeLinked OutcomeKind = "linked"

	// OutcomeCreated - a brand-new account was provisioned and linked.
	OutcomeCreated OutcomeKind = "created"

	// OutcomeRejected - the attempt was refused; Rejection carries the
	// user-facing reason.
	OutcomeRejected OutcomeKind = "rejected"
)

// Outcome is the result of one reconciliation attempt. Exactly one variant
// holds per attempt.
type Outcome struct {
	Kind      OutcomeKind
	AccountID string // resolved account; empty only for rejections before resolution
	Email     string // primary email recorded at creation (Created only)
	Rejection error  // rejection reason (Rejected only)

	// CookieValue is the freshly minted remember-me cookie value, empty when
	// the caller already held a live remember-me session or was rejected.
	CookieValue string

	// APIKey is set when the request carried an API-key request token and
	// the exchange completed.
	APIKey string
}

// Rejected reports whether the attempt resolved to the rejected variant.
func (o *Outcome) Rejected() bool {
	return o != nil && o.Kind == OutcomeRejected
}
