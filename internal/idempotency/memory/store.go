package memory

import (
	"context"
	"sync"
	"time"

	"github.com/dejobratic/sharedorders/internal/orders/ports"
)

type entry struct {
	response  ports.StoredResponse
	expiresAt time.Time
}

// Store retains append responses for replaying duplicate requests. The first
// response saved under a key wins until it expires.
type Store struct {
	mu    sync.Mutex
	ttl   time.Duration
	now   func() time.Time
	items map[string]entry
}

// NewStore creates an in-memory store. A non-positive ttl keeps entries forever.
func NewStore(ttl time.Duration) *Store {
	return &Store{ttl: ttl, now: time.Now, items: make(map[string]entry)}
}

func (s *Store) Get(_ context.Context, key string) (*ports.StoredResponse, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	e, ok := s.items[key]
	if !ok {
		return nil, nil
	}
	if s.expired(e) {
		delete(s.items, key)
		return nil, nil
	}

	resp := e.response
	resp.Body = append([]byte(nil), e.response.Body...)
	return &resp, nil
}

func (s *Store) Save(_ context.Context, key string, response ports.StoredResponse) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if e, ok := s.items[key]; ok && !s.expired(e) {
		return nil
	}

	response.Body = append([]byte(nil), response.Body...)
	e := entry{response: response}
	if s.ttl > 0 {
		e.expiresAt = s.now().Add(s.ttl)
	}
	s.items[key] = e
	return nil
}

func (s *Store) expired(e entry) bool {
	return !e.expiresAt.IsZero() && !s.now().Before(e.expiresAt)
}
