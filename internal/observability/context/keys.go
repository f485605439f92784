package context

import "context"

type contextKey string

const (
	runIDKey    contextKey = "observability_run_id"
	officeIDKey contextKey = "observability_office_id"
)

func WithRunID(ctx context.Context, runID string) context.Context {
	if ctx == nil || runID == "" {
		return ctx
	}
	return context.WithValue(ctx, runIDKey, runID)
}

func RunIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(runIDKey).(string)
	return value
}

func WithOfficeID(ctx context.Context, officeID string) context.Context {
	if ctx == nil || officeID == "" {
		return ctx
	}
	return context.WithValue(ctx, officeIDKey, officeID)
}

func OfficeIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	value, _ := ctx.Value(officeIDKey).(string)
	return value
}
