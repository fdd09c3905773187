package registration

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/Roger0222/dandelion/internal/logger"
)

type entry struct {
	flow      *Flow
	expiresAt time.Time
}

// DraftStore keeps in-progress registrations keyed by an opaque id.
// Entries expire ttl after their last access.
type DraftStore struct {
	mu      sync.Mutex
	entries map[string]*entry
	ttl     time.Duration
	now     func() time.Time
}

func NewDraftStore(ttl time.Duration) *DraftStore {
	return &DraftStore{
		entries: make(map[string]*entry),
		ttl:     ttl,
		now:     time.Now,
	}
}

// Create starts a new flow in Editing and returns its id.
func (s *DraftStore) Create() (string, *Flow) {
	id := uuid.NewString()
	flow := NewFlow()

	s.mu.Lock()
	s.entries[id] = &entry{flow: flow, expiresAt: s.now().Add(s.ttl)}
	s.mu.Unlock()

	return id, flow
}

// Get returns a live flow and extends its expiry.
func (s *DraftStore) Get(id string) (*Flow, bool) {
	if _, err := uuid.Parse(id); err != nil {
		return nil, false
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.entries[id]
	if !ok {
		return nil, false
	}
	now := s.now()
	if !now.Before(e.expiresAt) {
		delete(s.entries, id)
		return nil, false
	}
	e.expiresAt = now.Add(s.ttl)
	return e.flow, true
}

func (s *DraftStore) Delete(id string) {
	s.mu.Lock()
	delete(s.entries, id)
	s.mu.Unlock()
}

func (s *DraftStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

// Sweep drops expired drafts and reports how many were removed.
func (s *DraftStore) Sweep() int {
	now := s.now()

	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for id, e := range s.entries {
		if !now.Before(e.expiresAt) {
			delete(s.entries, id)
			removed++
		}
	}
	return removed
}

// StartJanitor sweeps expired drafts every interval until ctx is cancelled.
func (s *DraftStore) StartJanitor(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	logger.Log.Info("started registration draft janitor",
		"component", "draft_store",
		"interval", interval,
		"ttl", s.ttl)

	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := s.Sweep(); n > 0 {
					logger.Log.Debug("expired registration drafts removed",
						"component", "draft_store",
						"removed", n)
				}
			case <-ctx.Done():
				logger.Log.Info("registration draft janitor shutting down gracefully",
					"component", "draft_store")
				return
			}
		}
	}()
}
