package service

import (
	"testing"
	"time"

	"github.com/aussiebroadwan/hubsite/internal/auth/domain"
	"github.com/stretchr/testify/require"
)

func TestResolve_HubLeadCanManageOnlyTheirHub(t *testing.T) {
	f := newFixture(t)
	robotics := f.seedHub(t, "Robotics")
	garden := f.seedHub(t, "Garden")

	lead := f.seedUser(t, "lead@example.org", domain.RoleMember)
	member := f.seedUser(t, "member@example.org", domain.RoleMember)
	f.seedMembership(t, lead.ID, robotics.ID, domain.HubRoleLead, domain.MembershipApproved)
	f.seedMembership(t, member.ID, robotics.ID, domain.HubRoleMember, domain.MembershipApproved)

	p, err := f.resolver.Resolve(f.ctx, f.signIn(t, lead).AccessToken)
	require.NoError(t, err)
	require.False(t, p.IsGlobalAdmin())
	require.True(t, p.IsHubLead(robotics.ID))
	require.True(t, p.CanManageHub(robotics.ID))
	require.False(t, p.CanManageHub(garden.ID))

	p, err = f.resolver.Resolve(f.ctx, f.signIn(t, member).AccessToken)
	require.NoError(t, err)
	require.True(t, p.IsMemberOfHub(robotics.ID))
	require.False(t, p.IsHubLead(robotics.ID))
	require.False(t, p.CanManageHub(robotics.ID))
}

func TestResolve_IgnoresUnapprovedMemberships(t *testing.T) {
	f := newFixture(t)
	hub := f.seedHub(t, "Robotics")
	u := f.seedUser(t, "pending@example.org", domain.RoleMember)
	f.seedMembership(t, u.ID, hub.ID, domain.HubRoleLead, domain.MembershipPending)

	p, err := f.resolver.Resolve(f.ctx, f.signIn(t, u).AccessToken)
	require.NoError(t, err)
	require.Empty(t, p.Memberships)
	require.False(t, p.IsMemberOfHub(hub.ID))
	require.False(t, p.CanManageHub(hub.ID))
}

func TestResolve_GlobalRoles(t *testing.T) {
	f := newFixture(t)
	hub := f.seedHub(t, "Robotics")

	tests := []struct {
		role        domain.GlobalRole
		globalAdmin bool
		superAdmin  bool
	}{
		{domain.RoleMember, false, false},
		{domain.RoleAdmin, true, false},
		{domain.RoleSuperAdmin, true, true},
	}
	for _, tt := range tests {
		t.Run(string(tt.role), func(t *testing.T) {
			u := f.seedUser(t, string(tt.role)+"@example.org", tt.role)
			p, err := f.resolver.Resolve(f.ctx, f.signIn(t, u).AccessToken)
			require.NoError(t, err)
			require.Equal(t, tt.globalAdmin, p.IsGlobalAdmin())
			require.Equal(t, tt.superAdmin, p.IsSuperAdmin())
			require.Equal(t, tt.globalAdmin, p.CanManageHub(hub.ID))
		})
	}
}

func TestPermissions_TemporaryAdminIsPointInTime(t *testing.T) {
	clock := &testClock{t: time.Date(2025, 3, 1, 9, 0, 0, 0, time.UTC)}
	until := clock.Now().Add(time.Hour)

	p := NewPermissions(domain.User{GlobalRole: domain.RoleMember, TemporaryAdminUntil: &until}, nil, clock.Now)
	require.True(t, p.IsGlobalAdmin())
	require.True(t, p.CanManageHub("any"))
	require.False(t, p.IsSuperAdmin())

	clock.Advance(time.Hour)
	require.False(t, p.IsGlobalAdmin())
	require.False(t, p.CanManageHub("any"))
}

func TestPermissions_NilIsPowerless(t *testing.T) {
	var p *Permissions
	require.False(t, p.IsGlobalAdmin())
	require.False(t, p.IsSuperAdmin())
	require.False(t, p.IsMemberOfHub("hub"))
	require.False(t, p.CanManageHub("hub"))
}

func TestResolve_Unauthenticated(t *testing.T) {
	f := newFixture(t)
	u := f.seedUser(t, "alice@example.org", domain.RoleAdmin)

	t.Run("garbage", func(t *testing.T) {
		_, err := f.resolver.Resolve(f.ctx, "garbage")
		require.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("empty", func(t *testing.T) {
		_, err := f.resolver.Resolve(f.ctx, "")
		require.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("refresh token", func(t *testing.T) {
		_, err := f.resolver.Resolve(f.ctx, f.signIn(t, u).RefreshToken)
		require.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("signed out", func(t *testing.T) {
		token := f.signIn(t, u).AccessToken
		require.NoError(t, f.sessions.SignOut(f.ctx, token))
		_, err := f.resolver.Resolve(f.ctx, token)
		require.ErrorIs(t, err, ErrUnauthenticated)
	})

	t.Run("inactive user", func(t *testing.T) {
		token := f.signIn(t, u).AccessToken
		require.NoError(t, f.store.Users().SetActive(f.ctx, u.ID, false, f.clock.Now()))
		t.Cleanup(func() { _ = f.store.Users().SetActive(f.ctx, u.ID, true, f.clock.Now()) })

		_, err := f.resolver.Resolve(f.ctx, token)
		require.ErrorIs(t, err, ErrUnauthenticated)
	})
}

func TestAuthorize_UniformDenial(t *testing.T) {
	f := newFixture(t)
	member := f.seedUser(t, "member@example.org", domain.RoleMember)
	admin := f.seedUser(t, "admin@example.org", domain.RoleAdmin)

	_, unauthErr := f.resolver.Authorize(f.ctx, "garbage", GlobalAdmin())
	_, deniedErr := f.resolver.Authorize(f.ctx, f.signIn(t, member).AccessToken, GlobalAdmin())
	require.ErrorIs(t, unauthErr, ErrInsufficientPermissions)
	require.ErrorIs(t, deniedErr, ErrInsufficientPermissions)
	require.Equal(t, unauthErr.Error(), deniedErr.Error())

	p, err := f.resolver.Authorize(f.ctx, f.signIn(t, admin).AccessToken, GlobalAdmin())
	require.NoError(t, err)
	require.Equal(t, admin.ID, p.User.ID)

	_, err = f.resolver.Authorize(f.ctx, f.signIn(t, admin).AccessToken, SuperAdmin())
	require.ErrorIs(t, err, ErrInsufficientPermissions)
}
