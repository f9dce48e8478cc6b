package postgres

import (
	"context"
	"sync"
	"time"

	"github.com/go-faster/sdk/zctx"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// changeChannel is the Postgres NOTIFY channel raised by the schema triggers
// whenever orders or inventory change.
const changeChannel = "zaiqa_changes"

// retryDelay is how long the listener waits before reconnecting after a
// connection failure.
const retryDelay = 5 * time.Second

// Listener subscribes to the database change feed and fans notifications out
// to in-process subscribers, so stores can re-fetch when another session
// writes.
type Listener struct {
	pool *pgxpool.Pool

	mu   sync.Mutex
	subs map[int]chan string
	next int
}

// NewListener creates a Listener on the given pool.
func NewListener(pool *pgxpool.Pool) *Listener {
	return &Listener{
		pool: pool,
		subs: make(map[int]chan string),
	}
}

// Subscribe registers a subscriber. The returned channel receives the name of
// the table that changed; slow subscribers drop notifications rather than
// block the feed. Call the cancel function to unsubscribe.
func (l *Listener) Subscribe() (<-chan string, func()) {
	l.mu.Lock()
	defer l.mu.Unlock()

	id := l.next
	l.next++
	ch := make(chan string, 8)
	l.subs[id] = ch

	return ch, func() {
		l.mu.Lock()
		defer l.mu.Unlock()
		if _, ok := l.subs[id]; ok {
			delete(l.subs, id)
			close(ch)
		}
	}
}

func (l *Listener) publish(table string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, ch := range l.subs {
		select {
		case ch <- table:
		default:
		}
	}
}

// Start runs the listen loop in a background goroutine until ctx is
// cancelled. Connection failures are logged and retried.
func (l *Listener) Start(ctx context.Context) {
	go func() {
		lg := zctx.From(ctx)
		for ctx.Err() == nil {
			if err := l.listen(ctx); err != nil && ctx.Err() == nil {
				lg.Warn("Change feed disconnected, retrying",
					zap.Error(err),
					zap.Duration("delay", retryDelay))
				select {
				case <-ctx.Done():
				case <-time.After(retryDelay):
				}
			}
		}
	}()
}

// listen holds one dedicated connection and forwards notifications until the
// connection drops or ctx is cancelled.
func (l *Listener) listen(ctx context.Context) error {
	conn, err := l.pool.Acquire(ctx)
	if err != nil {
		return err
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+changeChannel); err != nil {
		return err
	}

	for {
		n, err := conn.Conn().WaitForNotification(ctx)
		if err != nil {
			return err
		}
		l.publish(n.Payload)
	}
}
