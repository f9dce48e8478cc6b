package cart

import (
	"context"
	"sync"
	"time"

	"github.com/shopspring/decimal"
)

// DefaultSessionTTL is how long an idle cart survives before eviction.
const DefaultSessionTTL = 2 * time.Hour

// SessionStore holds one cart per POS session, creating carts on first use
// and evicting carts that have been idle longer than the TTL.
type SessionStore struct {
	mu      sync.Mutex
	carts   map[string]*session
	taxRate decimal.Decimal
	ttl     time.Duration
	now     func() time.Time
}

type session struct {
	cart     *Cart
	lastUsed time.Time
}

// NewSessionStore creates a SessionStore. Carts it hands out apply the given
// tax rate. A non-positive ttl falls back to DefaultSessionTTL.
func NewSessionStore(taxRate decimal.Decimal, ttl time.Duration) *SessionStore {
	if ttl <= 0 {
		ttl = DefaultSessionTTL
	}
	return &SessionStore{
		carts:   make(map[string]*session),
		taxRate: taxRate,
		ttl:     ttl,
		now:     time.Now,
	}
}

// Get returns the cart for the given session ID, creating it if necessary.
func (s *SessionStore) Get(sessionID string) *Cart {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.carts[sessionID]
	if !ok {
		sess = &session{cart: New(s.taxRate)}
		s.carts[sessionID] = sess
	}
	sess.lastUsed = s.now()
	return sess.cart
}

// Drop removes the cart for the given session ID.
func (s *SessionStore) Drop(sessionID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.carts, sessionID)
}

// Len returns the number of live sessions.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.carts)
}

// evict removes carts idle past the TTL.
func (s *SessionStore) evict(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.carts {
		if now.Sub(sess.lastUsed) >= s.ttl {
			delete(s.carts, id)
		}
	}
}

// StartCleanup launches a background goroutine that periodically evicts idle
// carts. It stops when ctx is cancelled.
func (s *SessionStore) StartCleanup(ctx context.Context, interval time.Duration) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case now := <-ticker.C:
				s.evict(now)
			}
		}
	}()
}
