package performance

import (
	"sort"
	"sync"
	"time"
)

// Tracker keeps a bounded window of completed markers and aggregates them per operation
type Tracker struct {
	completed []*Marker
	config    *TrackerConfig
	started   time.Time
	mu        sync.RWMutex
}

// TrackerConfig contains configuration options for the performance tracker
type TrackerConfig struct {
	MaxMarkers    int           `json:"maxMarkers"`    // Maximum number of completed markers to retain
	SlowThreshold time.Duration `json:"slowThreshold"` // Operations above this count as slow
}

// DefaultTrackerConfig returns a sensible default configuration
func DefaultTrackerConfig() *TrackerConfig {
	return &TrackerConfig{
		MaxMarkers:    5000,
		SlowThreshold: 500 * time.Millisecond,
	}
}

// OperationStats summarizes the retained markers of one operation
type OperationStats struct {
	Operation    string        `json:"operation"`
	Count        int           `json:"count"`
	Failures     int           `json:"failures"`
	SlowCount    int           `json:"slowCount"`
	AverageTime  time.Duration `json:"averageTime"`
	MaxTime      time.Duration `json:"maxTime"`
	CacheHitRate float64       `json:"cacheHitRate"`
}

// NewTracker creates a new performance tracker with the given configuration
func NewTracker(config *TrackerConfig) *Tracker {
	if config == nil {
		config = DefaultTrackerConfig()
	}
	return &Tracker{
		completed: make([]*Marker, 0, 64),
		config:    config,
		started:   time.Now(),
	}
}

// StartOperation creates a new performance marker for an operation
func (t *Tracker) StartOperation(operation string) *Marker {
	return &Marker{
		Operation: operation,
		StartTime: time.Now(),
		Metadata:  make(map[string]any),
		Success:   true,
		tracker:   t,
	}
}

func (t *Tracker) record(m *Marker) {
	t.mu.Lock()
	defer t.mu.Unlock()

	t.completed = append(t.completed, m)
	if over := len(t.completed) - t.config.MaxMarkers; over > 0 {
		t.completed = append(t.completed[:0], t.completed[over:]...)
	}
}

// Stats aggregates the retained markers by operation, sorted by name
func (t *Tracker) Stats() []OperationStats {
	t.mu.RLock()
	defer t.mu.RUnlock()

	byOp := make(map[string]*OperationStats)
	totals := make(map[string]time.Duration)
	hits := make(map[string][2]int)

	for _, m := range t.completed {
		s, ok := byOp[m.Operation]
		if !ok {
			s = &OperationStats{Operation: m.Operation}
			byOp[m.Operation] = s
		}
		s.Count++
		if !m.Success {
			s.Failures++
		}
		if m.Duration > t.config.SlowThreshold {
			s.SlowCount++
		}
		if m.Duration > s.MaxTime {
			s.MaxTime = m.Duration
		}
		totals[m.Operation] += m.Duration
		h := hits[m.Operation]
		h[0] += m.CacheHits
		h[1] += m.CacheHits + m.CacheMisses
		hits[m.Operation] = h
	}

	stats := make([]OperationStats, 0, len(byOp))
	for op, s := range byOp {
		s.AverageTime = totals[op] / time.Duration(s.Count)
		if h := hits[op]; h[1] > 0 {
			s.CacheHitRate = float64(h[0]) / float64(h[1])
		}
		stats = append(stats, *s)
	}
	sort.Slice(stats, func(i, j int) bool { return stats[i].Operation < stats[j].Operation })
	return stats
}

// Uptime returns how long the tracker has been running
func (t *Tracker) Uptime() time.Duration {
	return time.Since(t.started)
}
