package utils

import (
	"context"

	"inspection-system/pkg/contextkeys"
	apperrors "inspection-system/pkg/errors"
)

// Actor is the authenticated caller as placed in the request context by
// the auth middleware.
type Actor struct {
	UserID string
	Role   string
}

const RoleAdmin = "admin"

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, contextkeys.ActorKey, actor)
}

func GetActorFromCtx(ctx context.Context) (Actor, error) {
	actor, ok := ctx.Value(contextkeys.ActorKey).(Actor)
	if !ok || actor.UserID == "" {
		return Actor{}, apperrors.ErrUserIDNotFoundInContext
	}
	return actor, nil
}
