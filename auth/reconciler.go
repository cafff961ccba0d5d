package auth

import (
	"context"
	"encoding/json"
	"time"

	"github.com/jrsteele09/go-identity-server/accounts"
	"github.com/jrsteele09/go-identity-server/identity"
	"github.com/jrsteele09/go-identity-server/token"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// defaultHelpEmail is the support contact used when the settings store has
// none configured or cannot be reached.
const defaultHelpEmail = "support@example.com"

// SessionContext carries the caller's session-bearing cookies. It is opaque
// to the reconciler except for token validation.
type SessionContext struct {
	RememberMeToken    string // raw remember-me cookie value, empty if absent
	APIKeyRequestToken string // raw API-key request cookie value, empty if absent
}

// ReconciliationService maps one external-login assertion onto exactly one
// internal account. Given the assertion and the caller's session context it
// produces exactly one Outcome: signed in to an existing account, linked to
// the current session's account, a brand-new account, or a rejection.
//
// The step order is load-bearing: remember-me validation, link resolution,
// email-collision probe, account creation, ban check, session issuance,
// API-key exchange. Checking bans after creation means a banned actor's
// attempt surfaces a specific rejection while still never issuing a session;
// the created account or link is deliberately not rolled back.
type ReconciliationService struct {
	repos     Repos
	issuer    *token.Issuer
	apiKeys   *token.APIKeyManager
	logger    zerolog.Logger
	helpEmail string
	nowTime   func() time.Time // nowTime function (injectable for testing)
}

// ReconciliationServiceOption defines a function type to modify the
// ReconciliationService instance.
type ReconciliationServiceOption func(*ReconciliationService)

// WithNowTime sets the now time function (primarily for testing)
func WithNowTime(nowFunc func() time.Time) ReconciliationServiceOption {
	return func(rs *ReconciliationService) {
		rs.nowTime = nowFunc
	}
}

// WithAPIKeyManager enables the API-key exchange side protocol.
func WithAPIKeyManager(manager *token.APIKeyManager) ReconciliationServiceOption {
	return func(rs *ReconciliationService) {
		rs.apiKeys = manager
	}
}

// WithLogger sets the audit logger.
func WithLogger(logger zerolog.Logger) ReconciliationServiceOption {
	return func(rs *ReconciliationService) {
		rs.logger = logger
	}
}

// WithHelpEmailFallback overrides the hardcoded support contact used when
// the settings store has none.
func WithHelpEmailFallback(email string) ReconciliationServiceOption {
	return func(rs *ReconciliationService) {
		if email != "" {
			rs.helpEmail = email
		}
	}
}

// NewReconciliationService initializes a new ReconciliationService with
// required dependencies.
func NewReconciliationService(
	repos Repos,
	issuer *token.Issuer,
	options ...ReconciliationServiceOption,
) (*ReconciliationService, error) {
	if repos.Accounts == nil {
		return nil, errors.New("[NewReconciliationService] Accounts repo is required")
	}
	if repos.Links == nil {
		return nil, errors.New("[NewReconciliationService] Links repo is required")
	}
	if repos.Settings == nil {
		return nil, errors.New("[NewReconciliationService] Settings repo is required")
	}
	if issuer == nil {
		return nil, errors.New("[NewReconciliationService] issuer is required")
	}

	service := &ReconciliationService{
		repos:     repos,
		issuer:    issuer,
		logger:    zerolog.Nop(),
		helpEmail: defaultHelpEmail,
		nowTime:   time.Now,
	}
	for _, opt := range options {
		opt(service)
	}
	return service, nil
}

// reconcileState is the accumulator threaded between the protocol steps.
// Each step returns an updated copy or records a terminal rejection in
// outcome; no hidden mutation crosses step boundaries.
type reconcileState struct {
	assertion       *identity.Assertion
	session         SessionContext
	authenticatedID string // account resolved from a live remember-me cookie
	outcome         *Outcome
}

type reconcileStep func(context.Context, reconcileState) (reconcileState, error)

// Reconcile runs the protocol. A returned error is a hard failure (malformed
// cookie, datastore breakage); every policy refusal comes back as an Outcome
// with Kind OutcomeRejected and a nil error.
func (rs *ReconciliationService) Reconcile(ctx context.Context, assertion *identity.Assertion, session SessionContext) (*Outcome, error) {
	if assertion == nil || assertion.Strategy == "" || assertion.ExternalID == "" {
		return nil, errors.New("[Reconcile] assertion strategy and external id are required")
	}

	state := reconcileState{assertion: assertion, session: session}

	var err error
	for _, step := range []reconcileStep{
		rs.validateRememberMe,
		rs.resolveLink,
		rs.probeEmails,
		rs.createAccount,
		rs.checkBan,
		rs.issueSession,
		rs.exchangeAPIKey,
	} {
		state, err = step(ctx, state)
		if err != nil {
			return nil, err
		}
		if state.outcome.Rejected() {
			break
		}
	}

	if state.outcome == nil {
		return nil, errors.New("[Reconcile] attempt left unresolved")
	}
	return state.outcome, nil
}

// validateRememberMe (step 1). A malformed cookie is a hard error; a
// well-formed but unresolvable one just means the caller isn't signed in.
func (rs *ReconciliationService) validateRememberMe(ctx context.Context, state reconcileState) (reconcileState, error) {
	if state.session.RememberMeToken == "" {
		return state, nil
	}
	record, err := rs.issuer.Validate(ctx, state.session.RememberMeToken)
	if err != nil {
		return state, errors.Wrap(err, "[Reconcile] remember-me validation")
	}
	if record != nil {
		state.authenticatedID = record.AccountID
	}
	return state, nil
}

// resolveLink (step 2). Resolves (strategy, externalID) against the link
// store; may finish the attempt as SignedIn, Linked or a conflict rejection,
// or defer to the email probe when nothing matches an unauthenticated caller.
func (rs *ReconciliationService) resolveLink(ctx context.Context, state reconcileState) (reconcileState, error) {
	link, err := rs.repos.Links.Find(ctx, state.assertion.Strategy, state.assertion.ExternalID)
	switch {
	case err == nil:
		switch state.authenticatedID {
		case "", link.AccountID:
			state.outcome = &Outcome{Kind: OutcomeSignedIn, AccountID: link.AccountID}
		default:
			// An external identity never silently re-binds to a second account.
			state.outcome = &Outcome{Kind: OutcomeRejected, Rejection: &IdentityConflictError{Strategy: state.assertion.Strategy}}
		}
		return state, nil

	case errors.Is(err, identity.ErrLinkNotFound):
		if state.authenticatedID == "" {
			return state, nil // unresolved; fall through to the email probe
		}
		if err := rs.createLink(ctx, state.authenticatedID, state.assertion); err != nil {
			if errors.Is(err, identity.ErrLinkExists) {
				// Lost a creation race: the link now exists, re-resolve as found.
				return rs.resolveLink(ctx, state)
			}
			return state, errors.Wrap(err, "[Reconcile] Links.Create")
		}
		state.outcome = &Outcome{Kind: OutcomeLinked, AccountID: state.authenticatedID}
		return state, nil

	default:
		return state, errors.Wrap(err, "[Reconcile] Links.Find")
	}
}

// probeEmails (step 3). Concurrently probes every assertion email for an
// existing account. The first definitive match to land rejects the attempt;
// results arriving after that are ignored. Which match wins under latency is
// deliberately unspecified.
func (rs *ReconciliationService) probeEmails(ctx context.Context, state reconcileState) (reconcileState, error) {
	if state.outcome != nil || len(state.assertion.Emails) == 0 {
		return state, nil
	}

	type probeResult struct {
		email string
		err   error
	}
	results := make(chan probeResult, len(state.assertion.Emails))
	for _, email := range state.assertion.Emails {
		go func(email string) {
			_, err := rs.repos.Accounts.GetByEmail(ctx, email)
			results <- probeResult{email: email, err: err}
		}(email)
	}

	var probeErr error
	for range state.assertion.Emails {
		result := <-results
		if result.err == nil {
			state.outcome = &Outcome{Kind: OutcomeRejected, Rejection: &EmailRegisteredError{Email: result.email}}
			return state, nil
		}
		if !errors.Is(result.err, accounts.ErrAccountNotFound) && probeErr == nil {
			probeErr = result.err
		}
	}
	if probeErr != nil {
		return state, errors.Wrap(probeErr, "[Reconcile] Accounts.GetByEmail")
	}
	return state, nil
}

// createAccount (step 4). Provisions a new account and its link from the
// assertion's name and email fields.
func (rs *ReconciliationService) createAccount(ctx context.Context, state reconcileState) (reconcileState, error) {
	if state.outcome != nil {
		return state, nil
	}

	firstName, lastName := state.assertion.DerivedNames()
	account := &accounts.Account{
		Email:     state.assertion.PrimaryEmail(),
		FirstName: firstName,
		LastName:  lastName,
		CreatedAt: rs.nowTime(),
	}
	accountID, err := rs.repos.Accounts.Create(ctx, account)
	if err != nil {
		return state, errors.Wrap(err, "[Reconcile] Accounts.Create")
	}

	if err := rs.createLink(ctx, accountID, state.assertion); err != nil {
		if errors.Is(err, identity.ErrLinkExists) {
			// A concurrent request bound this identity first; sign in to that
			// account. The account created above stays (no rollback).
			link, findErr := rs.repos.Links.Find(ctx, state.assertion.Strategy, state.assertion.ExternalID)
			if findErr != nil {
				return state, errors.Wrap(findErr, "[Reconcile] Links.Find after lost race")
			}
			state.outcome = &Outcome{Kind: OutcomeSignedIn, AccountID: link.AccountID}
			return state, nil
		}
		return state, errors.Wrap(err, "[Reconcile] Links.Create")
	}

	// Fire-and-forget audit log: recording the creation must never fail or
	// delay the response.
	go rs.logger.Info().
		Str("accountId", accountID).
		Str("strategy", state.assertion.Strategy).
		Str("email", account.Email).
		Msg("account created from external login")

	state.outcome = &Outcome{Kind: OutcomeCreated, AccountID: accountID, Email: account.Email}
	return state, nil
}

// checkBan (step 5). Applies to every non-rejected outcome; a ban overrides
// it without rolling back whatever steps 2-4 wrote.
func (rs *ReconciliationService) checkBan(ctx context.Context, state reconcileState) (reconcileState, error) {
	banned, err := rs.repos.Accounts.IsBanned(ctx, state.outcome.AccountID)
	if err != nil {
		return state, errors.Wrap(err, "[Reconcile] Accounts.IsBanned")
	}
	if banned {
		state.outcome = &Outcome{
			Kind:      OutcomeRejected,
			AccountID: state.outcome.AccountID,
			Rejection: &BannedError{HelpEmail: rs.resolveHelpEmail(ctx)},
		}
	}
	return state, nil
}

// issueSession (step 6). Mints a fresh remember-me session unless the caller
// already authenticated through a live one.
func (rs *ReconciliationService) issueSession(ctx context.Context, state reconcileState) (reconcileState, error) {
	if state.authenticatedID != "" {
		return state, nil
	}

	payload, err := json.Marshal(signedInPayload{
		AccountID: state.outcome.AccountID,
		Strategy:  state.assertion.Strategy,
		Email:     state.assertion.PrimaryEmail(),
	})
	if err != nil {
		return state, errors.Wrap(err, "[Reconcile] payload marshal")
	}

	cookieValue, _, err := rs.issuer.Issue(ctx, state.outcome.AccountID, string(payload))
	if err != nil {
		return state, errors.Wrap(err, "[Reconcile] session issuance")
	}
	state.outcome.CookieValue = cookieValue
	return state, nil
}

// exchangeAPIKey (step 7). Optional side protocol; a failure here degrades
// rather than failing the finished reconciliation.
func (rs *ReconciliationService) exchangeAPIKey(ctx context.Context, state reconcileState) (reconcileState, error) {
	if state.session.APIKeyRequestToken == "" || rs.apiKeys == nil {
		return state, nil
	}
	key, err := rs.apiKeys.Exchange(ctx, state.outcome.AccountID)
	if err != nil {
		rs.logger.Warn().Err(err).Str("accountId", state.outcome.AccountID).Msg("api key exchange failed")
		return state, nil
	}
	state.outcome.APIKey = key
	return state, nil
}

func (rs *ReconciliationService) createLink(ctx context.Context, accountID string, assertion *identity.Assertion) error {
	firstName, lastName := assertion.DerivedNames()
	return rs.repos.Links.Create(ctx, &identity.Link{
		Strategy:   assertion.Strategy,
		ExternalID: assertion.ExternalID,
		AccountID:  accountID,
		Email:      assertion.PrimaryEmail(),
		FirstName:  firstName,
		LastName:   lastName,
		Profile:    assertion.Profile,
		CreatedAt:  rs.nowTime(),
	})
}

func (rs *ReconciliationService) resolveHelpEmail(ctx context.Context) string {
	serverSettings, err := rs.repos.Settings.Get(ctx)
	if err != nil || serverSettings == nil || serverSettings.HelpEmail == "" {
		return rs.helpEmail
	}
	return serverSettings.HelpEmail
}

// signedInPayload is stored with the remember-me record at issuance.
type signedInPayload struct {
	AccountID string `json:"account_id"`
	Strategy  string `json:"strategy"`
	Email     string `json:"email,omitempty"`
}
