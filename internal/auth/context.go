package auth

import (
	"context"
	"errors"
)

type ctxKey int

const (
	ctxActorID ctxKey = iota
	ctxActorEmail
)

func WithActor(ctx context.Context, userID, email string) context.Context {
	ctx = context.WithValue(ctx, ctxActorID, userID)
	ctx = context.WithValue(ctx, ctxActorEmail, email)
	return ctx
}

// ActorID returns the authenticated actor id from context.
// An error here means the request is unauthenticated (401), never 403.
func ActorID(ctx context.Context) (string, error) {
	v := ctx.Value(ctxActorID)
	if s, ok := v.(string); ok && s != "" {
		return s, nil
	}
	return "", errors.New("actor not in context")
}

func ActorEmail(ctx context.Context) string {
	v := ctx.Value(ctxActorEmail)
	if s, ok := v.(string); ok {
		return s
	}
	return ""
}
