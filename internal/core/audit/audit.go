// Package audit propagates the acting identity through the request context so
// the persistence layer can stamp created-by/updated-by without a global.
package audit

import "context"

type ctxKey struct{}

// SystemActor is recorded when the context carries no identity (startup jobs,
// tests, unauthenticated traffic).
const SystemActor = "system"

func WithActor(ctx context.Context, actor string) context.Context {
	if actor == "" {
		return ctx
	}
	return context.WithValue(ctx, ctxKey{}, actor)
}

func Actor(ctx context.Context) string {
	if v, ok := ctx.Value(ctxKey{}).(string); ok && v != "" {
		return v
	}
	return SystemActor
}
