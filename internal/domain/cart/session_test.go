package cart

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSessionStore_GetCreatesOnce(t *testing.T) {
	s := NewSessionStore(decimal.Zero, time.Hour)

	c1 := s.Get("pos-1")
	c2 := s.Get("pos-1")
	other := s.Get("pos-2")

	assert.Same(t, c1, c2)
	assert.NotSame(t, c1, other)
	assert.Equal(t, 2, s.Len())
}

func TestSessionStore_CartsCarryTaxRate(t *testing.T) {
	s := NewSessionStore(decimal.RequireFromString("0.16"), time.Hour)

	c := s.Get("pos-1")
	require.NoError(t, c.AddLine(newTestItem("m1", "Chicken Biryani", 450, true)))

	assert.True(t, c.Total().Equal(decimal.NewFromInt(522)))
}

func TestSessionStore_Drop(t *testing.T) {
	s := NewSessionStore(decimal.Zero, time.Hour)
	c := s.Get("pos-1")
	require.NoError(t, c.AddLine(newTestItem("m1", "Chicken Biryani", 450, true)))

	s.Drop("pos-1")

	assert.Equal(t, 0, s.Len())
	assert.Empty(t, s.Get("pos-1").Lines())
}

func TestSessionStore_EvictsIdleCarts(t *testing.T) {
	current := time.Now()
	s := NewSessionStore(decimal.Zero, time.Hour)
	s.now = func() time.Time { return current }

	s.Get("idle")
	current = current.Add(30 * time.Minute)
	s.Get("active")

	s.evict(current.Add(31 * time.Minute))

	assert.Equal(t, 1, s.Len())
	assert.Empty(t, s.Get("idle").Lines())
}

func TestSessionStore_DefaultTTL(t *testing.T) {
	s := NewSessionStore(decimal.Zero, 0)
	assert.Equal(t, DefaultSessionTTL, s.ttl)
}
