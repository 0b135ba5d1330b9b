package httpx

import "context"

type ctxKey string

const (
	CtxKeyUserID ctxKey = "user_id"
	CtxKeyEmail  ctxKey = "email"
	CtxKeyRoles  ctxKey = "roles"  // comma-delimited, e.g. "USER,ADMIN"
	CtxKeyClaims ctxKey = "claims" // if you want full jwtx.Claims
)

// UserIDFromCtx returns the authenticated user's ID, or "" for anonymous
// requests (e.g. behind OptionalAuthnMiddleware).
func UserIDFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserID).(string); ok {
		return v
	}
	return ""
}

// EmailFromCtx returns the authenticated user's email, or "".
func EmailFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyEmail).(string); ok {
		return v
	}
	return ""
}

// RolesFromCtx returns the caller's roles as the raw comma-delimited string.
func RolesFromCtx(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyRoles).(string); ok {
		return v
	}
	return ""
}
