package queue

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/folio-app/folio/backend/pkg/cache"
	"github.com/folio-app/folio/backend/pkg/logger"

	gonanoid "github.com/matoous/go-nanoid/v2"
)

// MutationEvent announces that collection rows changed and cached graph
// snapshots may be stale.
type MutationEvent struct {
	CorrelationID string `json:"correlation_id"`
	Entity        string `json:"entity"`
	Action        string `json:"action"`
}

// NewMutationEvent creates an event with a fresh correlation id.
func NewMutationEvent(entity, action string) (MutationEvent, error) {
	id, err := gonanoid.New()
	if err != nil {
		return MutationEvent{}, err
	}
	return MutationEvent{
		CorrelationID: id,
		Entity:        entity,
		Action:        action,
	}, nil
}

// ProcessMutationMessage drops every cached graph snapshot in response to
// one mutation event. Any mutation can change nodes, edges, and metadata
// at once, so the whole key prefix goes.
func ProcessMutationMessage(ctx context.Context, cacheClient *cache.Client, body string) error {
	var event MutationEvent
	if err := json.Unmarshal([]byte(body), &event); err != nil {
		return fmt.Errorf("failed to decode mutation event: %w", err)
	}

	deleted, err := cacheClient.Invalidate(ctx)
	if err != nil {
		return fmt.Errorf("failed to invalidate graph cache: %w", err)
	}

	logger.Info(
		"[Cache] Invalidated graph snapshots",
		"deleted", deleted,
		"entity", event.Entity,
		"action", event.Action,
		"correlation_id", event.CorrelationID,
	)

	return nil
}
