package service

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/hubsite/internal/auth/domain"
	"github.com/stretchr/testify/require"
)

func TestCreateAdminUser(t *testing.T) {
	f := newFixture(t)
	admin := f.seedUser(t, "admin@example.org", domain.RoleAdmin)
	member := f.seedUser(t, "member@example.org", domain.RoleMember)
	adminToken := f.signIn(t, admin).AccessToken

	t.Run("members are refused", func(t *testing.T) {
		_, err := f.admin.CreateAdminUser(f.ctx, f.signIn(t, member).AccessToken, CreateUserInput{
			Email: "new@example.org",
			Name:  "New",
		})
		require.ErrorIs(t, err, ErrInsufficientPermissions)
	})

	t.Run("creates admin with generated password", func(t *testing.T) {
		created, err := f.admin.CreateAdminUser(f.ctx, adminToken, CreateUserInput{
			Email: "New@Example.org",
			Name:  "New Admin",
		})
		require.NoError(t, err)
		require.Equal(t, "new@example.org", created.User.Email)
		require.Equal(t, domain.RoleAdmin, created.User.GlobalRole)
		require.Len(t, created.GeneratedPassword, 12)
		require.Equal(t, NotifyAdminCreated, f.notifier.last(t).Kind)

		res, err := f.sessions.SignIn(f.ctx, SignInInput{Email: "new@example.org", Password: created.GeneratedPassword})
		require.NoError(t, err)
		require.Equal(t, created.User.ID, res.User.ID)
	})

	t.Run("duplicate email", func(t *testing.T) {
		_, err := f.admin.CreateAdminUser(f.ctx, adminToken, CreateUserInput{
			Email: "member@example.org",
			Name:  "Dup",
		})
		require.ErrorIs(t, err, ErrEmailTaken)
	})

	t.Run("invalid input", func(t *testing.T) {
		_, err := f.admin.CreateAdminUser(f.ctx, adminToken, CreateUserInput{Email: "not-an-email", Name: "X"})
		require.ErrorIs(t, err, ErrInvalidInput)

		_, err = f.admin.CreateAdminUser(f.ctx, adminToken, CreateUserInput{Email: "x@example.org", Name: "X", Password: "short"})
		require.ErrorIs(t, err, ErrWeakPassword)
	})
}

func TestCreateSuperAdmin(t *testing.T) {
	f := newFixture(t)

	_, err := f.admin.CreateSuperAdmin(f.ctx, "wrong-key", CreateUserInput{Email: "root@example.org", Name: "Root"})
	require.ErrorIs(t, err, ErrInvalidBootstrapKey)

	created, err := f.admin.CreateSuperAdmin(f.ctx, "bootstrap-key", CreateUserInput{
		Email:    "root@example.org",
		Name:     "Root",
		Password: "a very long password",
	})
	require.NoError(t, err)
	require.Equal(t, domain.RoleSuperAdmin, created.User.GlobalRole)
	require.Empty(t, created.GeneratedPassword)

	_, err = f.admin.CreateSuperAdmin(f.ctx, "bootstrap-key", CreateUserInput{Email: "root2@example.org", Name: "Root 2"})
	require.ErrorIs(t, err, ErrSuperAdminExists)
}

func TestCreateSuperAdmin_DisabledWithoutKey(t *testing.T) {
	f := newFixture(t)
	f.admin.SuperAdminKey = ""

	_, err := f.admin.CreateSuperAdmin(f.ctx, "", CreateUserInput{Email: "root@example.org", Name: "Root"})
	require.ErrorIs(t, err, ErrInvalidBootstrapKey)
}

func TestTemporaryAdminAccess(t *testing.T) {
	f := newFixture(t)
	root := f.seedUser(t, "root@example.org", domain.RoleSuperAdmin)
	admin := f.seedUser(t, "admin@example.org", domain.RoleAdmin)
	member := f.seedUser(t, "member@example.org", domain.RoleMember)
	rootToken := f.signIn(t, root).AccessToken

	_, err := f.admin.GrantTemporaryAdminAccess(f.ctx, f.signIn(t, admin).AccessToken, member.ID, time.Hour)
	require.ErrorIs(t, err, ErrInsufficientPermissions, "plain admins cannot grant")

	until, err := f.admin.GrantTemporaryAdminAccess(f.ctx, rootToken, member.ID, 0)
	require.NoError(t, err)
	require.True(t, until.Equal(f.clock.Now().Add(DefaultTemporaryAdminDuration)))
	require.Equal(t, NotifyTemporaryAdminGrant, f.notifier.last(t).Kind)

	memberToken := f.signIn(t, member).AccessToken
	p, err := f.resolver.Resolve(f.ctx, memberToken)
	require.NoError(t, err)
	require.True(t, p.IsGlobalAdmin())
	require.False(t, p.IsSuperAdmin())

	until, err = f.admin.GrantTemporaryAdminAccess(f.ctx, rootToken, member.ID, 90*24*time.Hour)
	require.NoError(t, err)
	require.True(t, until.Equal(f.clock.Now().Add(MaxTemporaryAdminDuration)))

	require.NoError(t, f.admin.RevokeTemporaryAdminAccess(f.ctx, rootToken, member.ID))
	p, err = f.resolver.Resolve(f.ctx, memberToken)
	require.NoError(t, err)
	require.False(t, p.IsGlobalAdmin())

	_, err = f.admin.GrantTemporaryAdminAccess(f.ctx, rootToken, "missing", time.Hour)
	require.ErrorIs(t, err, ErrNotFound)
}

func TestTemporaryAdminAccess_Expires(t *testing.T) {
	f := newFixture(t)
	root := f.seedUser(t, "root@example.org", domain.RoleSuperAdmin)
	member := f.seedUser(t, "member@example.org", domain.RoleMember)

	_, err := f.admin.GrantTemporaryAdminAccess(f.ctx, f.signIn(t, root).AccessToken, member.ID, time.Hour)
	require.NoError(t, err)

	memberToken := f.signIn(t, member).AccessToken
	_, err = f.hubs.CreateHub(f.ctx, memberToken, HubInput{Name: "Robotics"})
	require.NoError(t, err)

	f.clock.Advance(time.Hour)
	_, err = f.hubs.CreateHub(f.ctx, memberToken, HubInput{Name: "Garden"})
	require.ErrorIs(t, err, ErrInsufficientPermissions)
}

func TestDeactivateUser(t *testing.T) {
	f := newFixture(t)
	root := f.seedUser(t, "root@example.org", domain.RoleSuperAdmin)
	admin := f.seedUser(t, "admin@example.org", domain.RoleAdmin)
	member := f.seedUser(t, "member@example.org", domain.RoleMember)
	adminToken := f.signIn(t, admin).AccessToken
	memberPair := f.signIn(t, member)

	require.ErrorIs(t, f.admin.DeactivateUser(f.ctx, memberPair.AccessToken, admin.ID), ErrInsufficientPermissions)
	require.ErrorIs(t, f.admin.DeactivateUser(f.ctx, adminToken, root.ID), ErrInsufficientPermissions)
	require.ErrorIs(t, f.admin.DeactivateUser(f.ctx, adminToken, admin.ID), ErrInvalidInput)

	require.NoError(t, f.admin.DeactivateUser(f.ctx, adminToken, member.ID))
	require.False(t, f.user(t, member.ID).IsActive)

	_, err := f.sessions.Refresh(f.ctx, memberPair.RefreshToken)
	require.ErrorIs(t, err, ErrInvalidRefresh)

	_, err = f.sessions.SignIn(f.ctx, SignInInput{Email: member.Email, Password: testPassword})
	require.ErrorIs(t, err, ErrAccountDeactivated)
}
