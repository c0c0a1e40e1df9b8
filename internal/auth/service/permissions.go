package service

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/aussiebroadwan/hubsite/internal/auth/domain"
	"github.com/aussiebroadwan/hubsite/internal/auth/store"
	"github.com/aussiebroadwan/hubsite/pkg/cryptox"
	"github.com/aussiebroadwan/hubsite/pkg/jwtx"
	"github.com/aussiebroadwan/hubsite/pkg/metricsx"
	"github.com/aussiebroadwan/hubsite/pkg/slogx"
)

// Permissions is the resolved authority of one caller. Predicates are
// evaluated at call time against the clock, never cached.
type Permissions struct {
	User        domain.User
	Memberships []domain.HubMembership // approved only

	now func() time.Time
}

// NewPermissions builds a Permissions value for u. A nil now uses time.Now.
func NewPermissions(u domain.User, memberships []domain.HubMembership, now func() time.Time) *Permissions {
	if now == nil {
		now = time.Now
	}
	return &Permissions{User: u, Memberships: memberships, now: now}
}

// IsGlobalAdmin is true for admins and superadmins, and for anyone holding
// temporary admin access that has not yet run out.
func (p *Permissions) IsGlobalAdmin() bool {
	if p == nil {
		return false
	}
	switch p.User.GlobalRole {
	case domain.RoleAdmin, domain.RoleSuperAdmin:
		return true
	}
	return p.User.TemporaryAdminUntil != nil && p.User.TemporaryAdminUntil.After(p.now())
}

func (p *Permissions) IsSuperAdmin() bool {
	return p != nil && p.User.GlobalRole == domain.RoleSuperAdmin
}

func (p *Permissions) IsHubLead(hubID string) bool {
	m, ok := p.membership(hubID)
	return ok && m.Role == domain.HubRoleLead
}

func (p *Permissions) IsMemberOfHub(hubID string) bool {
	_, ok := p.membership(hubID)
	return ok
}

// CanManageHub is true for global admins and approved leads of hubID.
func (p *Permissions) CanManageHub(hubID string) bool {
	return p.IsGlobalAdmin() || p.IsHubLead(hubID)
}

func (p *Permissions) membership(hubID string) (domain.HubMembership, bool) {
	if p == nil || hubID == "" {
		return domain.HubMembership{}, false
	}
	for _, m := range p.Memberships {
		if m.HubID == hubID && m.Status == domain.MembershipApproved {
			return m, true
		}
	}
	return domain.HubMembership{}, false
}

// Check is a predicate evaluated by Authorize.
type Check func(p *Permissions) bool

func GlobalAdmin() Check { return (*Permissions).IsGlobalAdmin }
func SuperAdmin() Check  { return (*Permissions).IsSuperAdmin }
func Authenticated() Check {
	return func(*Permissions) bool { return true }
}
func ManageHub(hubID string) Check {
	return func(p *Permissions) bool { return p.CanManageHub(hubID) }
}

// Resolver turns a bearer token into Permissions. It is the single place
// mutations ask who the caller is and what they may do.
type Resolver struct {
	Store   store.Store
	Codec   *jwtx.Codec
	Metrics *metricsx.Metrics
	Now     func() time.Time

	// RequireSession additionally requires a live session row for the token,
	// so signed-out tokens stop resolving before they expire.
	RequireSession bool
}

func (r *Resolver) now() time.Time {
	if r.Now != nil {
		return r.Now()
	}
	return time.Now()
}

// Resolve returns the caller's permissions. Every failure, including store
// errors, yields ErrUnauthenticated; the cause is only logged.
func (r *Resolver) Resolve(ctx context.Context, token string) (*Permissions, error) {
	l := slogx.FromContext(ctx)
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrUnauthenticated
	}

	claims, err := r.Codec.VerifyAccess(token)
	if err != nil {
		l.Debug("resolve: token rejected", slog.String("kind", string(jwtx.KindOf(err))))
		return nil, ErrUnauthenticated
	}

	if r.RequireSession {
		session, err := r.Store.Sessions().GetSessionByAccessHash(ctx, cryptox.FingerprintToken(token))
		if err != nil {
			if !errors.Is(err, store.ErrNotFound) {
				l.Error("resolve: session lookup failed", slog.Any("error", err))
			}
			return nil, ErrUnauthenticated
		}
		if !r.now().Before(session.ExpiresAt) || session.UserID != claims.UserID {
			return nil, ErrUnauthenticated
		}
	}

	u, err := r.Store.Users().GetUserByID(ctx, claims.UserID)
	if err != nil {
		if !errors.Is(err, store.ErrNotFound) {
			l.Error("resolve: user lookup failed", slog.Any("error", err))
		}
		return nil, ErrUnauthenticated
	}
	if !u.IsActive {
		l.Debug("resolve: user inactive", slog.String("user_id", u.ID))
		return nil, ErrUnauthenticated
	}

	memberships, err := r.Store.Memberships().ListApprovedByUser(ctx, u.ID)
	if err != nil {
		l.Error("resolve: membership lookup failed", slog.Any("error", err))
		return nil, ErrUnauthenticated
	}

	return NewPermissions(u, memberships, r.now), nil
}

// Authorize resolves token and applies check. Unauthenticated callers and
// failed checks both yield ErrInsufficientPermissions.
func (r *Resolver) Authorize(ctx context.Context, token string, check Check) (*Permissions, error) {
	p, err := r.Resolve(ctx, token)
	if err != nil {
		r.Metrics.Authorization("unauthenticated")
		return nil, ErrInsufficientPermissions
	}
	if check != nil && !check(p) {
		r.Metrics.Authorization("denied")
		slogx.FromContext(ctx).Info("authorization denied", slog.String("user_id", p.User.ID))
		return nil, ErrInsufficientPermissions
	}
	r.Metrics.Authorization("allowed")
	return p, nil
}
