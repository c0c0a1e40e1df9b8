package sqlite

import (
	"context"

	"github.com/aussiebroadwan/hubsite/internal/auth/domain"
	"github.com/aussiebroadwan/hubsite/internal/auth/store/drivers/sqlite/gen"
)

type hubsRepo struct {
	q *gen.Queries
}

func (r *hubsRepo) CreateHub(ctx context.Context, h domain.Hub) error {
	return mapConstraint(r.q.CreateHub(ctx, gen.CreateHubParams{
		ID:          h.ID,
		Name:        h.Name,
		Description: h.Description,
		CreatedAt:   toMillis(h.CreatedAt),
		UpdatedAt:   toMillis(h.UpdatedAt),
	}))
}

func (r *hubsRepo) GetHubByID(ctx context.Context, id string) (domain.Hub, error) {
	row, err := r.q.GetHubByID(ctx, id)
	if err != nil {
		return domain.Hub{}, mapNotFound(err)
	}
	return mapHub(row), nil
}

func (r *hubsRepo) ListHubs(ctx context.Context) ([]domain.Hub, error) {
	rows, err := r.q.ListHubs(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]domain.Hub, 0, len(rows))
	for _, row := range rows {
		out = append(out, mapHub(row))
	}
	return out, nil
}

func (r *hubsRepo) UpdateHub(ctx context.Context, h domain.Hub) error {
	n, err := r.q.UpdateHub(ctx, gen.UpdateHubParams{
		Name:        h.Name,
		Description: h.Description,
		UpdatedAt:   toMillis(h.UpdatedAt),
		ID:          h.ID,
	})
	return expectOne(n, mapConstraint(err))
}

func (r *hubsRepo) DeleteHub(ctx context.Context, id string) error {
	return expectOne(r.q.DeleteHub(ctx, id))
}

func mapHub(row gen.Hub) domain.Hub {
	return domain.Hub{
		ID:          row.ID,
		Name:        row.Name,
		Description: row.Description,
		CreatedAt:   fromMillis(row.CreatedAt),
		UpdatedAt:   fromMillis(row.UpdatedAt),
	}
}
