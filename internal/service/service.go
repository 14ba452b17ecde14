package service

import (
	"context"
	"strings"

	"github.com/google/uuid"

	"github.com/Skotchmaster/marketplace/internal/logging"
	"github.com/Skotchmaster/marketplace/internal/models"
	"github.com/Skotchmaster/marketplace/internal/mykafka"
)

// Caller is the authenticated identity attached by the role guard.
type Caller struct {
	ID   uuid.UUID
	Role string
}

func (c Caller) IsAdmin() bool {
	return models.IsAdmin(c.Role)
}

func (c Caller) Owns(id uuid.UUID) bool {
	return c.ID != uuid.Nil && c.ID == id
}

// publish sends a domain event. Failures are logged and never returned.
func publish(ctx context.Context, p mykafka.Publisher, topic, key, typ string, data any) {
	if p == nil {
		return
	}
	if err := p.PublishEvent(ctx, topic, key, mykafka.NewEvent(typ, key, data)); err != nil {
		logging.FromContext(ctx).Error("publish_event_failed", "topic", topic, "type", typ, "error", err)
	}
}

// normalizeEmail is the form emails are stored, compared and keyed by.
func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
