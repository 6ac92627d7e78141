// Package messaging carries settings change events between service instances.
package messaging

import (
	"context"
	"time"
)

// EventSettingsUpdated is emitted after the image pool or content types change
const EventSettingsUpdated = "settings.updated"

// SettingsEvent announces that one or more options were rewritten
type SettingsEvent struct {
	ID         string    `json:"id"`
	Type       string    `json:"type"`
	Options    []string  `json:"options"`
	Source     string    `json:"source"`
	OccurredAt time.Time `json:"occurredAt"`
}

// Publisher sends settings events to every interested instance
type Publisher interface {
	Publish(ctx context.Context, event SettingsEvent) error
	Close() error
}

// Handler reacts to a delivered event
type Handler func(ctx context.Context, event SettingsEvent) error
