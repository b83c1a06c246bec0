// Package throttle enforces a per-key cooldown between repeated actions,
// such as re-sending sign-in links to the same address.
package throttle

import (
	"context"
	"sync"
	"time"
)

// Limiter reports whether an action for key may proceed now. Allowing an
// action starts a new cooldown for that key; Release ends it early, for
// actions that did not complete.
type Limiter interface {
	Allow(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

// Disabled allows everything.
type Disabled struct{}

func (Disabled) Allow(context.Context, string) (bool, error) { return true, nil }
func (Disabled) Release(context.Context, string) error       { return nil }

// Memory keeps cooldowns in process memory. Expired entries are dropped
// lazily on access and by Sweep.
type Memory struct {
	mu       sync.Mutex
	cooldown time.Duration
	until    map[string]time.Time
	now      func() time.Time
}

func NewMemory(cooldown time.Duration) *Memory {
	return &Memory{cooldown: cooldown, until: make(map[string]time.Time), now: time.Now}
}

func (m *Memory) Allow(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	if until, ok := m.until[key]; ok && now.Before(until) {
		return false, nil
	}
	m.until[key] = now.Add(m.cooldown)
	return true, nil
}

func (m *Memory) Release(ctx context.Context, key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	delete(m.until, key)
	return nil
}

// Sweep forgets keys whose cooldown has passed.
func (m *Memory) Sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	for k, until := range m.until {
		if !now.Before(until) {
			delete(m.until, k)
		}
	}
}

// Run sweeps every interval until ctx is done.
func (m *Memory) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.Sweep()
		}
	}
}
