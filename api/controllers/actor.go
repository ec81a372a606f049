package controllers

import (
	"context"

	"github.com/google/uuid"

	"github.com/mrbebidas/catalog-backend/api/middleware"
	"github.com/mrbebidas/catalog-backend/pkg/outbox"
)

// actorFromContext builds the outbox actor from the authenticated request.
func actorFromContext(ctx context.Context) *outbox.ActorRef {
	raw := middleware.UserIDFromContext(ctx)
	if raw == "" {
		return nil
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		return nil
	}
	return &outbox.ActorRef{
		UserID: userID,
		Email:  middleware.UserEmailFromContext(ctx),
	}
}
