package token_test

import (
	"context"
	"testing"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-identity-server/token"
	tokenrepofake "github.com/jrsteele09/go-identity-server/token/repofake"
	"github.com/stretchr/testify/require"
)

func TestAPIKeyExchangeGeneratesOnFirstUse(t *testing.T) {
	manager, err := token.NewAPIKeyManager(tokenrepofake.NewFakeAPIKeyRepo(), token.NewHMACSigner("test-secret"))
	require.NoError(t, err)
	ctx := context.Background()

	key, err := manager.Exchange(ctx, "account-1")
	require.NoError(t, err)
	require.NotEmpty(t, key)

	parsed, err := jwtlib.Parse(key, func(t *jwtlib.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	require.NoError(t, err)
	subject, err := parsed.Claims.GetSubject()
	require.NoError(t, err)
	require.Equal(t, "account-1", subject)
}

func TestAPIKeyVerify(t *testing.T) {
	manager, err := token.NewAPIKeyManager(tokenrepofake.NewFakeAPIKeyRepo(), token.NewHMACSigner("test-secret"))
	require.NoError(t, err)

	key, err := manager.Exchange(context.Background(), "account-1")
	require.NoError(t, err)

	accountID, err := manager.Verify(key)
	require.NoError(t, err)
	require.Equal(t, "account-1", accountID)

	// A key signed with a different secret must not verify.
	other, err := token.NewAPIKeyManager(tokenrepofake.NewFakeAPIKeyRepo(), token.NewHMACSigner("other-secret"))
	require.NoError(t, err)
	foreign, err := other.Exchange(context.Background(), "account-1")
	require.NoError(t, err)
	_, err = manager.Verify(foreign)
	require.Error(t, err)
}

func TestAPIKeyExchangeIsStable(t *testing.T) {
	manager, err := token.NewAPIKeyManager(tokenrepofake.NewFakeAPIKeyRepo(), token.NewHMACSigner("test-secret"))
	require.NoError(t, err)
	ctx := context.Background()

	first, err := manager.Exchange(ctx, "account-1")
	require.NoError(t, err)
	second, err := manager.Exchange(ctx, "account-1")
	require.NoError(t, err)
	require.Equal(t, first, second)

	other, err := manager.Exchange(ctx, "account-2")
	require.NoError(t, err)
	require.NotEqual(t, first, other)
}
