package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/hubsite/internal/auth/domain"
	"github.com/aussiebroadwan/hubsite/internal/auth/store/drivers/sqlite/gen"
)

type passwordResetsRepo struct {
	q *gen.Queries
}

func (r *passwordResetsRepo) CreateResetToken(ctx context.Context, t domain.PasswordResetToken) error {
	return mapConstraint(r.q.CreateResetToken(ctx, gen.CreateResetTokenParams{
		ID:        t.ID,
		UserID:    t.UserID,
		TokenHash: t.TokenHash,
		ExpiresAt: toMillis(t.ExpiresAt),
		UsedAt:    mapOptionalMillis(t.UsedAt),
		CreatedAt: toMillis(t.CreatedAt),
	}))
}

func (r *passwordResetsRepo) GetResetTokenByHash(ctx context.Context, hash string) (domain.PasswordResetToken, error) {
	row, err := r.q.GetResetTokenByHash(ctx, hash)
	if err != nil {
		return domain.PasswordResetToken{}, mapNotFound(err)
	}
	return domain.PasswordResetToken{
		ID:        row.ID,
		UserID:    row.UserID,
		TokenHash: row.TokenHash,
		ExpiresAt: fromMillis(row.ExpiresAt),
		UsedAt:    mapNullMillis(row.UsedAt),
		CreatedAt: fromMillis(row.CreatedAt),
	}, nil
}

// MarkResetTokenUsed reports ErrNotFound for a token that was already used.
func (r *passwordResetsRepo) MarkResetTokenUsed(ctx context.Context, id string, now time.Time) error {
	return expectOne(r.q.MarkResetTokenUsed(ctx, gen.MarkResetTokenUsedParams{
		UsedAt: mapOptionalMillis(&now),
		ID:     id,
	}))
}

func (r *passwordResetsRepo) DeleteUserResetTokens(ctx context.Context, userID string) (int64, error) {
	return r.q.DeleteUserResetTokens(ctx, userID)
}

func (r *passwordResetsRepo) DeleteExpiredResetTokens(ctx context.Context, now time.Time) (int64, error) {
	return r.q.DeleteExpiredResetTokens(ctx, toMillis(now))
}

func (r *passwordResetsRepo) DeleteUsedResetTokens(ctx context.Context, cutoff time.Time) (int64, error) {
	return r.q.DeleteUsedResetTokens(ctx, toMillis(cutoff))
}
