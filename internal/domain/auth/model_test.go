package auth

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserLockout(t *testing.T) {
	user := NewUser("alice@example.org", "hash")
	require.NoError(t, user.CanLogin())

	for i := 0; i < 4; i++ {
		user.RecordFailedLogin(5, 15*time.Minute)
	}
	assert.False(t, user.IsLocked(), "four failures stay under the limit")
	assert.NoError(t, user.CanLogin())

	user.RecordFailedLogin(5, 15*time.Minute)
	assert.True(t, user.IsLocked())
	assert.Error(t, user.CanLogin())

	user.RecordSuccessfulLogin()
	assert.False(t, user.IsLocked())
	assert.Zero(t, user.FailedLoginAttempts)
	assert.NotNil(t, user.LastLoginAt)
}

func TestUserCanLoginDisabled(t *testing.T) {
	user := NewUser("bob@example.org", "hash")
	user.IsActive = false
	assert.Error(t, user.CanLogin())
}

func TestUserRoles(t *testing.T) {
	user := NewUser("carol@example.org", "hash")
	assert.False(t, user.CanOperateLedger())

	user.Roles = []Role{*NewRole(RoleViewer, "Viewer")}
	assert.True(t, user.HasRole(RoleViewer))
	assert.False(t, user.CanOperateLedger())

	user.Roles = append(user.Roles, *NewRole(RoleStorekeeper, "Storekeeper"))
	assert.True(t, user.CanOperateLedger())

	admin := NewUser("root@example.org", "hash")
	admin.IsAdmin = true
	assert.True(t, admin.CanOperateLedger())
}

func TestUserFullName(t *testing.T) {
	user := NewUser("dan@example.org", "hash")
	assert.Equal(t, "dan@example.org", user.FullName())

	user.FirstName = "Dan"
	assert.Equal(t, "Dan", user.FullName())

	user.LastName = "Otieno"
	assert.Equal(t, "Dan Otieno", user.FullName())
}

func TestRefreshTokenValidity(t *testing.T) {
	tok := &RefreshToken{ExpiresAt: time.Now().Add(time.Hour)}
	assert.True(t, tok.IsValid())

	revoked := time.Now()
	tok.RevokedAt = &revoked
	assert.False(t, tok.IsValid())

	expired := &RefreshToken{ExpiresAt: time.Now().Add(-time.Minute)}
	assert.False(t, expired.IsValid())
}
