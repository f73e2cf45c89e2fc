package service

import (
	"context"
	"encoding/json"

	"bookingdesk/internal/model"
	"bookingdesk/internal/repository"

	"github.com/google/uuid"
)

// writeAudit records a transition. Callers run it inside the mutation's transaction.
func writeAudit(ctx context.Context, repo repository.AuditRepository, actorID *uuid.UUID, action, entityID, entityName string, details map[string]interface{}) error {
	payload, err := json.Marshal(details)
	if err != nil {
		return err
	}
	return repo.Log(ctx, &model.AuditLog{
		ActorID:    actorID,
		Action:     action,
		EntityID:   entityID,
		EntityName: entityName,
		Details:    string(payload),
	})
}
