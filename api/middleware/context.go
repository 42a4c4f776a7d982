package middleware

import "context"

type contextKey string

const (
	ctxSubjectID contextKey = "subject_id"
	ctxRole      contextKey = "actor_role"
	ctxAccessID  contextKey = "access_id"
)

func SubjectIDFromContext(ctx context.Context) int {
	if ctx == nil {
		return 0
	}
	if v, ok := ctx.Value(ctxSubjectID).(int); ok {
		return v
	}
	return 0
}

func RoleFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxRole).(string); ok {
		return v
	}
	return ""
}

// AccessIDFromContext returns the session identifier minted into the token.
func AccessIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if v, ok := ctx.Value(ctxAccessID).(string); ok {
		return v
	}
	return ""
}

// WithSubjectID injects the authenticated subject into the context.
func WithSubjectID(ctx context.Context, subjectID int) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxSubjectID, subjectID)
}

// WithRole injects the actor role into the context.
func WithRole(ctx context.Context, role string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxRole, role)
}

// WithAccessID injects the session identifier into the context.
func WithAccessID(ctx context.Context, accessID string) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxAccessID, accessID)
}
