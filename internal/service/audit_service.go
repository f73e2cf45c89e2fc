package service

import (
	"context"
	"time"

	"bookingdesk/internal/model"
	"bookingdesk/internal/repository"
)

type AuditLogResponse struct {
	ID         string `json:"id"`
	ActorID    string `json:"actor_id"`
	ActorEmail string `json:"actor_email"`
	Action     string `json:"action"`
	EntityID   string `json:"entity_id"`
	EntityName string `json:"entity_name"`
	Details    string `json:"details"`
	CreatedAt  string `json:"created_at"`
}

// AuditQuery filters the trail by action and entity
type AuditQuery struct {
	Action   string
	EntityID string
	Offset   int
	Limit    int
}

type AuditService interface {
	GetAuditLogs(ctx context.Context, actor Actor, q AuditQuery) ([]AuditLogResponse, int64, error)
}

type auditService struct {
	repo repository.AuditRepository
}

// NewAuditService creates a new AuditService instance
func NewAuditService(repo repository.AuditRepository) AuditService {
	return &auditService{repo: repo}
}

// GetAuditLogs returns the transition trail newest first. Public submissions
// have no actor and are attributed to "Public".
func (s *auditService) GetAuditLogs(ctx context.Context, actor Actor, q AuditQuery) ([]AuditLogResponse, int64, error) {
	if err := requireSuperAdmin(actor); err != nil {
		return nil, 0, err
	}
	if q.Action != "" && !model.IsAuditAction(q.Action) {
		return nil, 0, fieldError("action", "is invalid")
	}
	if q.Offset < 0 {
		q.Offset = 0
	}
	if q.Limit <= 0 {
		q.Limit = 20
	}

	logs, total, err := s.repo.List(ctx, repository.AuditFilter{
		Action:   q.Action,
		EntityID: q.EntityID,
		Offset:   q.Offset,
		Limit:    q.Limit,
	})
	if err != nil {
		return nil, 0, wrapErr("audit logs", err)
	}

	res := make([]AuditLogResponse, 0, len(logs))
	for _, l := range logs {
		email, actorID := "Public", ""
		if l.ActorID != nil {
			actorID = l.ActorID.String()
			email = ""
		}
		if l.Actor != nil {
			email = l.Actor.Email
		}

		res = append(res, AuditLogResponse{
			ID:         l.ID.String(),
			ActorID:    actorID,
			ActorEmail: email,
			Action:     l.Action,
			EntityID:   l.EntityID,
			EntityName: l.EntityName,
			Details:    l.Details,
			CreatedAt:  l.CreatedAt.Format(time.RFC3339),
		})
	}

	return res, total, nil
}
