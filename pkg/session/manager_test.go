package session

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/txn2/ledger/pkg/identity"
)

const managerTestTTL = time.Hour

func newTestManager(t *testing.T) (*Manager, *MemoryStore, identity.Store) {
	t.Helper()
	store := NewMemoryStore(managerTestTTL)
	t.Cleanup(func() { _ = store.Close() })
	users := identity.NewMemoryStore()
	return NewManager(store, users, managerTestTTL), store, users
}

func TestManager_LoginCreatesUserAndSession(t *testing.T) {
	manager, _, users := newTestManager(t)
	ctx := context.Background()

	token, err := manager.Login(ctx, "", "alice")
	require.NoError(t, err)
	require.NotEmpty(t, token)

	user, err := users.FindByName(ctx, "alice")
	require.NoError(t, err)
	require.NotNil(t, user)

	got, err := manager.Identity(ctx, token)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "alice", got.Name)
}

func TestManager_LoginTwiceSameNameReusesUser(t *testing.T) {
	manager, _, _ := newTestManager(t)
	ctx := context.Background()

	token1, err := manager.Login(ctx, "", "alice")
	require.NoError(t, err)
	user1, err := manager.Identity(ctx, token1)
	require.NoError(t, err)

	token2, err := manager.Login(ctx, token1, "alice")
	require.NoError(t, err)
	user2, err := manager.Identity(ctx, token2)
	require.NoError(t, err)

	assert.Equal(t, user1.ID, user2.ID, "repeated login must not create a duplicate user")
	assert.NotEqual(t, token1, token2, "login must issue a fresh token")
}

func TestManager_LoginDiscardsPreviousSession(t *testing.T) {
	manager, _, _ := newTestManager(t)
	ctx := context.Background()

	oldToken, err := manager.Login(ctx, "", "alice")
	require.NoError(t, err)

	_, err = manager.Login(ctx, oldToken, "bob")
	require.NoError(t, err)

	user, err := manager.Identity(ctx, oldToken)
	require.NoError(t, err)
	assert.Nil(t, user, "old token must not resolve after a new login")
}

func TestManager_LogoutClearsContext(t *testing.T) {
	manager, store, _ := newTestManager(t)
	ctx := context.Background()

	token, err := manager.Login(ctx, "", "alice")
	require.NoError(t, err)

	require.NoError(t, manager.Logout(ctx, token))

	sess, err := store.Get(ctx, token)
	require.NoError(t, err)
	assert.Nil(t, sess, "logout must remove the whole session, not just the name")

	user, err := manager.Identity(ctx, token)
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestManager_LogoutEmptyTokenIsNoOp(t *testing.T) {
	manager, _, _ := newTestManager(t)
	assert.NoError(t, manager.Logout(context.Background(), ""))
}

func TestManager_IdentityAnonymous(t *testing.T) {
	manager, _, _ := newTestManager(t)
	ctx := context.Background()

	t.Run("empty token", func(t *testing.T) {
		user, err := manager.Identity(ctx, "")
		require.NoError(t, err)
		assert.Nil(t, user)
	})

	t.Run("unknown token", func(t *testing.T) {
		user, err := manager.Identity(ctx, "bogus")
		require.NoError(t, err)
		assert.Nil(t, user)
	})
}

func TestManager_IdentityExpiredSession(t *testing.T) {
	store := NewMemoryStore(managerTestTTL)
	t.Cleanup(func() { _ = store.Close() })
	users := identity.NewMemoryStore()
	manager := NewManager(store, users, managerTestTTL)
	ctx := context.Background()

	now := time.Now()
	require.NoError(t, store.Create(ctx, &Session{
		Token:     "stale",
		Name:      "alice",
		CreatedAt: now.Add(-2 * time.Hour),
		ExpiresAt: now.Add(-time.Hour),
	}))

	user, err := manager.Identity(ctx, "stale")
	require.NoError(t, err)
	assert.Nil(t, user)
}
