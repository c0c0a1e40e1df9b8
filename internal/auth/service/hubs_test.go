package service

import (
	"testing"

	"github.com/aussiebroadwan/hubsite/internal/auth/domain"
	"github.com/stretchr/testify/require"
)

func TestHubService_Lifecycle(t *testing.T) {
	f := newFixture(t)
	admin := f.seedUser(t, "admin@example.org", domain.RoleAdmin)
	lead := f.seedUser(t, "lead@example.org", domain.RoleMember)
	applicant := f.seedUser(t, "applicant@example.org", domain.RoleMember)

	adminToken := f.signIn(t, admin).AccessToken
	leadToken := f.signIn(t, lead).AccessToken
	applicantToken := f.signIn(t, applicant).AccessToken

	_, err := f.hubs.CreateHub(f.ctx, leadToken, HubInput{Name: "Robotics"})
	require.ErrorIs(t, err, ErrInsufficientPermissions)

	robotics, err := f.hubs.CreateHub(f.ctx, adminToken, HubInput{Name: " Robotics ", Description: "Builds robots"})
	require.NoError(t, err)
	require.Equal(t, "Robotics", robotics.Name)

	garden, err := f.hubs.CreateHub(f.ctx, adminToken, HubInput{Name: "Garden"})
	require.NoError(t, err)

	_, err = f.hubs.CreateHub(f.ctx, adminToken, HubInput{Name: "Garden"})
	require.ErrorIs(t, err, ErrHubNameTaken)

	hubs, err := f.hubs.ListHubs(f.ctx)
	require.NoError(t, err)
	require.Len(t, hubs, 2)

	// Make lead an approved lead of robotics through the public flow.
	m, err := f.hubs.ApplyForMembership(f.ctx, leadToken, robotics.ID)
	require.NoError(t, err)
	require.Equal(t, domain.MembershipPending, m.Status)

	_, err = f.hubs.ReviewMembership(f.ctx, leadToken, m.ID, true)
	require.ErrorIs(t, err, ErrInsufficientPermissions, "applicants cannot approve themselves")

	m, err = f.hubs.ReviewMembership(f.ctx, adminToken, m.ID, true)
	require.NoError(t, err)
	require.Equal(t, domain.MembershipApproved, m.Status)

	_, err = f.hubs.SetMembershipRole(f.ctx, leadToken, m.ID, domain.HubRoleLead)
	require.ErrorIs(t, err, ErrInsufficientPermissions)
	m, err = f.hubs.SetMembershipRole(f.ctx, adminToken, m.ID, domain.HubRoleLead)
	require.NoError(t, err)
	require.Equal(t, domain.HubRoleLead, m.Role)

	_, err = f.hubs.ApplyForMembership(f.ctx, leadToken, robotics.ID)
	require.ErrorIs(t, err, ErrAlreadyMember)

	// The lead now manages robotics but not garden.
	updated, err := f.hubs.UpdateHub(f.ctx, leadToken, robotics.ID, HubInput{Name: "Robotics Club"})
	require.NoError(t, err)
	require.Equal(t, "Robotics Club", updated.Name)

	_, err = f.hubs.UpdateHub(f.ctx, leadToken, garden.ID, HubInput{Name: "Lead Garden"})
	require.ErrorIs(t, err, ErrInsufficientPermissions)

	// Leads review applications for their hub only.
	application, err := f.hubs.ApplyForMembership(f.ctx, applicantToken, robotics.ID)
	require.NoError(t, err)
	gardenApplication, err := f.hubs.ApplyForMembership(f.ctx, applicantToken, garden.ID)
	require.NoError(t, err)

	reviewed, err := f.hubs.ReviewMembership(f.ctx, leadToken, application.ID, false)
	require.NoError(t, err)
	require.Equal(t, domain.MembershipRejected, reviewed.Status)

	_, err = f.hubs.ReviewMembership(f.ctx, leadToken, gardenApplication.ID, true)
	require.ErrorIs(t, err, ErrInsufficientPermissions)

	_, err = f.hubs.ReviewMembership(f.ctx, leadToken, "missing", true)
	require.ErrorIs(t, err, ErrInsufficientPermissions)

	require.ErrorIs(t, f.hubs.DeleteHub(f.ctx, leadToken, robotics.ID), ErrInsufficientPermissions)
	require.NoError(t, f.hubs.DeleteHub(f.ctx, adminToken, robotics.ID))
	require.ErrorIs(t, f.hubs.DeleteHub(f.ctx, adminToken, robotics.ID), ErrNotFound)

	// Memberships went with the hub.
	p, err := f.resolver.Resolve(f.ctx, leadToken)
	require.NoError(t, err)
	require.False(t, p.IsMemberOfHub(robotics.ID))
}

func TestHubService_ApplyUnknownHub(t *testing.T) {
	f := newFixture(t)
	u := f.seedUser(t, "alice@example.org", domain.RoleMember)

	_, err := f.hubs.ApplyForMembership(f.ctx, f.signIn(t, u).AccessToken, "missing")
	require.ErrorIs(t, err, ErrNotFound)

	_, err = f.hubs.ApplyForMembership(f.ctx, "garbage", "missing")
	require.ErrorIs(t, err, ErrInsufficientPermissions)
}
