package sqlite

import (
	"context"
	"time"

	"github.com/aussiebroadwan/hubsite/internal/auth/domain"
	"github.com/aussiebroadwan/hubsite/internal/auth/store/drivers/sqlite/gen"
)

type sessionsRepo struct {
	q *gen.Queries
}

func (r *sessionsRepo) CreateSession(ctx context.Context, s domain.AuthSession) error {
	return mapConstraint(r.q.CreateSession(ctx, gen.CreateSessionParams{
		ID:               s.ID,
		UserID:           s.UserID,
		AccessTokenHash:  s.AccessTokenHash,
		RefreshTokenHash: s.RefreshTokenHash,
		DeviceInfo:       s.DeviceInfo,
		ExpiresAt:        toMillis(s.ExpiresAt),
		RefreshExpiresAt: toMillis(s.RefreshExpiresAt),
		LastUsedAt:       toMillis(s.LastUsedAt),
		CreatedAt:        toMillis(s.CreatedAt),
	}))
}

func (r *sessionsRepo) GetSessionByAccessHash(ctx context.Context, hash string) (domain.AuthSession, error) {
	row, err := r.q.GetSessionByAccessHash(ctx, hash)
	if err != nil {
		return domain.AuthSession{}, mapNotFound(err)
	}
	return mapSession(row), nil
}

func (r *sessionsRepo) GetSessionByRefreshHash(ctx context.Context, hash string) (domain.AuthSession, error) {
	row, err := r.q.GetSessionByRefreshHash(ctx, hash)
	if err != nil {
		return domain.AuthSession{}, mapNotFound(err)
	}
	return mapSession(row), nil
}

// RotateSession swaps in next's hashes and expiries only while the row still
// holds expectedRefreshHash, so a concurrent rotation reports ErrNotFound.
func (r *sessionsRepo) RotateSession(ctx context.Context, id, expectedRefreshHash string, next domain.AuthSession) error {
	return expectOne(r.q.RotateSession(ctx, gen.RotateSessionParams{
		AccessTokenHash:     next.AccessTokenHash,
		RefreshTokenHash:    next.RefreshTokenHash,
		ExpiresAt:           toMillis(next.ExpiresAt),
		RefreshExpiresAt:    toMillis(next.RefreshExpiresAt),
		LastUsedAt:          toMillis(next.LastUsedAt),
		ID:                  id,
		ExpectedRefreshHash: expectedRefreshHash,
	}))
}

func (r *sessionsRepo) TouchSession(ctx context.Context, id string, now time.Time) error {
	return expectOne(r.q.TouchSession(ctx, gen.TouchSessionParams{
		LastUsedAt: toMillis(now),
		ID:         id,
	}))
}

func (r *sessionsRepo) DeleteSessionByAccessHash(ctx context.Context, hash string) error {
	return r.q.DeleteSessionByAccessHash(ctx, hash)
}

func (r *sessionsRepo) DeleteUserSessions(ctx context.Context, userID string) (int64, error) {
	return r.q.DeleteUserSessions(ctx, userID)
}

func (r *sessionsRepo) DeleteExpiredSessions(ctx context.Context, now time.Time) (int64, error) {
	return r.q.DeleteExpiredSessions(ctx, toMillis(now))
}

func mapSession(row gen.AuthSession) domain.AuthSession {
	return domain.AuthSession{
		ID:               row.ID,
		UserID:           row.UserID,
		AccessTokenHash:  row.AccessTokenHash,
		RefreshTokenHash: row.RefreshTokenHash,
		DeviceInfo:       row.DeviceInfo,
		ExpiresAt:        fromMillis(row.ExpiresAt),
		RefreshExpiresAt: fromMillis(row.RefreshExpiresAt),
		LastUsedAt:       fromMillis(row.LastUsedAt),
		CreatedAt:        fromMillis(row.CreatedAt),
	}
}
