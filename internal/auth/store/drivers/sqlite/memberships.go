package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/hubsite/internal/auth/domain"
	"github.com/aussiebroadwan/hubsite/internal/auth/store/drivers/sqlite/gen"
)

type membershipsRepo struct {
	q *gen.Queries
}

func (r *membershipsRepo) CreateMembership(ctx context.Context, m domain.HubMembership) error {
	return mapConstraint(r.q.CreateMembership(ctx, gen.CreateMembershipParams{
		ID:        m.ID,
		UserID:    m.UserID,
		HubID:     m.HubID,
		Role:      string(m.Role),
		Status:    string(m.Status),
		CreatedAt: toMillis(m.CreatedAt),
		UpdatedAt: toMillis(m.UpdatedAt),
	}))
}

func (r *membershipsRepo) GetMembershipByID(ctx context.Context, id string) (domain.HubMembership, error) {
	row, err := r.q.GetMembershipByID(ctx, id)
	if err != nil {
		return domain.HubMembership{}, mapNotFound(err)
	}
	return mapMembership(row), nil
}

func (r *membershipsRepo) ListApprovedByUser(ctx context.Context, userID string) ([]domain.HubMembership, error) {
	return mapMemberships(r.q.ListApprovedMembershipsByUser(ctx, userID))
}

func (r *membershipsRepo) ListByHub(ctx context.Context, hubID string) ([]domain.HubMembership, error) {
	return mapMemberships(r.q.ListMembershipsByHub(ctx, hubID))
}

func (r *membershipsRepo) UpdateMembershipStatus(
	ctx context.Context,
	id string,
	status domain.MembershipStatus,
	now time.Time,
) error {
	return expectOne(r.q.UpdateMembershipStatus(ctx, gen.UpdateMembershipStatusParams{
		Status:    string(status),
		UpdatedAt: toMillis(now),
		ID:        id,
	}))
}

func (r *membershipsRepo) UpdateMembershipRole(ctx context.Context, id string, role domain.HubRole, now time.Time) error {
	return expectOne(r.q.UpdateMembershipRole(ctx, gen.UpdateMembershipRoleParams{
		Role:      string(role),
		UpdatedAt: toMillis(now),
		ID:        id,
	}))
}

func mapMemberships(rows []gen.HubMembership, err error) ([]domain.HubMembership, error) {
	if err != nil {
		return nil, err
	}
	out := make([]domain.HubMembership, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapMembership(row))
	}
	return out, nil
}

func mapMembership(row gen.HubMembership) domain.HubMembership {
	return domain.HubMembership{
		ID:        row.ID,
		UserID:    row.UserID,
		HubID:     row.HubID,
		Role:      domain.HubRole(row.Role),
		Status:    domain.MembershipStatus(row.Status),
		CreatedAt: fromMillis(row.CreatedAt),
		UpdatedAt: fromMillis(row.UpdatedAt),
	}
}
