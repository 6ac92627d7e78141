package container

import (
	"context"

	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/messaging"
)

// HandleSettingsEvent invalidates the option cache entries named by an event
func (c *Container) HandleSettingsEvent(_ context.Context, event messaging.SettingsEvent) error {
	if event.Type != messaging.EventSettingsUpdated {
		return nil
	}
	if len(event.Options) == 0 {
		c.OptionCache.InvalidateAll()
		return nil
	}
	for _, name := range event.Options {
		c.OptionCache.InvalidateOption(name)
	}
	c.Logger.Messaging().Debug("Option cache invalidated", "eventId", event.ID, "source", event.Source, "options", event.Options)
	return nil
}
