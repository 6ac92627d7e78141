// Package stores provides concrete cache store implementations
package stores

import (
	"sync"
	"time"

	"github.com/AtRiskMedia/tractstack-featured/internal/infrastructure/observability/logging"
)

type optionEntry struct {
	value   []byte
	expires time.Time
}

// OptionStore caches persisted option values in-process with a TTL.
// Expired entries read as misses until PurgeExpired removes them; settings
// change events drop entries immediately.
type OptionStore struct {
	entries map[string]optionEntry
	ttl     time.Duration
	now     func() time.Time
	mu      sync.RWMutex
	logger  *logging.ChanneledLogger
}

// NewOptionStore creates an option cache. A non-positive ttl disables expiry.
func NewOptionStore(ttl time.Duration, logger *logging.ChanneledLogger) *OptionStore {
	if logger != nil {
		logger.Cache().Info("Initializing option cache store", "ttl", ttl)
	}
	return &OptionStore{
		entries: make(map[string]optionEntry),
		ttl:     ttl,
		now:     time.Now,
		logger:  logger,
	}
}

func (s *OptionStore) GetOption(name string) ([]byte, bool) {
	start := time.Now()
	s.mu.RLock()
	entry, exists := s.entries[name]
	s.mu.RUnlock()

	hit := exists && (entry.expires.IsZero() || s.now().Before(entry.expires))
	if s.logger != nil {
		s.logger.LogCacheOperation("get", "option:"+name, hit, time.Since(start))
	}
	if !hit {
		return nil, false
	}

	value := make([]byte, len(entry.value))
	copy(value, entry.value)
	return value, true
}

func (s *OptionStore) SetOption(name string, value []byte) {
	stored := make([]byte, len(value))
	copy(stored, value)

	entry := optionEntry{value: stored}
	if s.ttl > 0 {
		entry.expires = s.now().Add(s.ttl)
	}

	s.mu.Lock()
	s.entries[name] = entry
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Cache().Debug("Cache operation", "operation", "set", "type", "option", "name", name, "size", len(stored))
	}
}

func (s *OptionStore) InvalidateOption(name string) {
	s.mu.Lock()
	delete(s.entries, name)
	s.mu.Unlock()
}

func (s *OptionStore) InvalidateAll() {
	s.mu.Lock()
	count := len(s.entries)
	s.entries = make(map[string]optionEntry)
	s.mu.Unlock()

	if s.logger != nil {
		s.logger.Cache().Info("Option cache cleared", "entries", count)
	}
}

// PurgeExpired drops every expired entry and returns how many were removed
func (s *OptionStore) PurgeExpired() int {
	now := s.now()
	s.mu.Lock()
	defer s.mu.Unlock()

	purged := 0
	for name, entry := range s.entries {
		if !entry.expires.IsZero() && !now.Before(entry.expires) {
			delete(s.entries, name)
			purged++
		}
	}
	return purged
}
