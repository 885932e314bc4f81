package core

import "context"

type contextKey string

const ctxKeyTrigger contextKey = "run_trigger"

// ContextWithTrigger records what started a generation run ("cli",
// "http 10.0.0.7", ...) so it can be stored with the run.
func ContextWithTrigger(ctx context.Context, trigger string) context.Context {
	return context.WithValue(ctx, ctxKeyTrigger, trigger)
}

// TriggerFromContext returns the trigger stored by ContextWithTrigger.
func TriggerFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKeyTrigger).(string); ok {
		return v
	}
	return ""
}
