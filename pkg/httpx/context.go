package httpx

import "context"

type ctxKey string

const (
	CtxKeyUserID      ctxKey = "user_id"
	CtxKeyAccessToken ctxKey = "access_token"
)

// UserIDFromContext returns the user id placed by RequireBearer.
func UserIDFromContext(ctx context.Context) string {
	v, _ := ctx.Value(CtxKeyUserID).(string)
	return v
}

// AccessTokenFromContext returns the raw bearer token placed by RequireBearer.
func AccessTokenFromContext(ctx context.Context) string {
	v, _ := ctx.Value(CtxKeyAccessToken).(string)
	return v
}

func contextWithAuth(ctx context.Context, userID, token string) context.Context {
	ctx = context.WithValue(ctx, CtxKeyUserID, userID)
	ctx = context.WithValue(ctx, CtxKeyAccessToken, token)
	return ctx
}
