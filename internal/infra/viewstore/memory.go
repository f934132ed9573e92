package viewstore

import (
	"context"
	"sync"
	"time"

	"github.com/yanqian/birthchart/internal/domain/birthchart"
)

type viewRecord struct {
	view      birthchart.View
	expiresAt time.Time
}

// MemoryStore keeps visitor views in process memory.
type MemoryStore struct {
	mu    sync.Mutex
	views map[string]viewRecord
	ttl   time.Duration
	now   func() time.Time
}

// NewMemoryStore constructs a store whose entries expire after ttl (0 keeps them forever).
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		views: make(map[string]viewRecord),
		ttl:   ttl,
		now:   time.Now,
	}
}

// Load implements birthchart.StateStore.
func (s *MemoryStore) Load(_ context.Context, id string) (birthchart.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentLocked(id), nil
}

// Begin implements birthchart.StateStore.
func (s *MemoryStore) Begin(_ context.Context, id string, form birthchart.FormInput) (birthchart.View, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	next, err := s.currentLocked(id).Begin(form, s.now())
	if err != nil {
		return birthchart.View{}, err
	}
	s.saveLocked(id, next)
	return next, nil
}

// Finish implements birthchart.StateStore.
func (s *MemoryStore) Finish(_ context.Context, id string, view birthchart.View) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.saveLocked(id, view)
	s.cleanupLocked()
	return nil
}

func (s *MemoryStore) currentLocked(id string) birthchart.View {
	record, ok := s.views[id]
	if !ok {
		return birthchart.IdleView()
	}
	if s.expired(record.expiresAt) {
		delete(s.views, id)
		return birthchart.IdleView()
	}
	return record.view
}

func (s *MemoryStore) saveLocked(id string, view birthchart.View) {
	exp := time.Time{}
	if s.ttl > 0 {
		exp = s.now().Add(s.ttl)
	}
	s.views[id] = viewRecord{view: view, expiresAt: exp}
}

func (s *MemoryStore) cleanupLocked() {
	for id, record := range s.views {
		if s.expired(record.expiresAt) {
			delete(s.views, id)
		}
	}
}

func (s *MemoryStore) expired(ts time.Time) bool {
	if ts.IsZero() {
		return false
	}
	return ts.Before(s.now())
}

var _ birthchart.StateStore = (*MemoryStore)(nil)
