package rdx

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"sync"
	"time"

	"tourguide/errs"

	"github.com/redis/go-redis/v9"
)

const (
	spoolBatch  = 100
	pushTimeout = 2 * time.Second
)

// Sink drains spooled payloads into the primary store. It returns how many
// payloads, counted from the head, were consumed; those are removed from the
// spool even when err is non-nil.
type Sink func(ctx context.Context, payloads [][]byte) (int, error)

// Spool is a write-behind queue for non-critical records whose primary write
// failed. Each named queue lives in the Redis list "spool:<name>" and is
// drained by its registered Sink.
type Spool struct {
	conn  *redis.Client
	mu    sync.RWMutex
	sinks map[string]Sink
}

func NewSpool(conn *redis.Client) *Spool {
	return &Spool{conn: conn, sinks: make(map[string]Sink)}
}

func spoolKey(name string) string { return "spool:" + name }

// Register attaches the sink for the named queue.
func (s *Spool) Register(name string, sink Sink) {
	s.mu.Lock()
	s.sinks[name] = sink
	s.mu.Unlock()
}

// Push appends v to the named queue. It runs on its own deadline, detached
// from ctx, since callers reach it after a primary write that may have used up
// their request context.
func (s *Spool) Push(ctx context.Context, name string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), pushTimeout)
	defer cancel()
	return s.conn.RPush(ctx, spoolKey(name), data).Err()
}

// Len reports how many payloads are waiting in the named queue.
func (s *Spool) Len(ctx context.Context, name string) (int64, error) {
	return s.conn.LLen(ctx, spoolKey(name)).Result()
}

// FlushOnce drains every registered queue once, one batch at a time, until a
// queue is empty or its sink fails.
func (s *Spool) FlushOnce(ctx context.Context) {
	s.mu.RLock()
	sinks := make(map[string]Sink, len(s.sinks))
	for name, sink := range s.sinks {
		sinks[name] = sink
	}
	s.mu.RUnlock()

	for name, sink := range sinks {
		key := spoolKey(name)
		for {
			items, err := s.conn.LRange(ctx, key, 0, spoolBatch-1).Result()
			if err != nil {
				log.Printf("[Spool] LRange %s: %v", key, err)
				break
			}
			if len(items) == 0 {
				break
			}
			payloads := make([][]byte, len(items))
			for i, it := range items {
				payloads[i] = []byte(it)
			}

			n, sinkErr := sink(ctx, payloads)
			if n > 0 {
				// RPush appends at the tail, so trimming the head never drops
				// entries pushed while the sink was running.
				if err := s.conn.LTrim(ctx, key, int64(n), -1).Err(); err != nil {
					log.Printf("[Spool] LTrim %s: %v", key, err)
					break
				}
				log.Printf("[Spool] flushed %d entries from %s", n, key)
			}
			if sinkErr != nil {
				log.Printf("[Spool] sink %s: %v", name, sinkErr)
				break
			}
			if n < len(items) {
				break
			}
		}
	}
}

// Run flushes every interval until ctx is cancelled.
func (s *Spool) Run(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			s.FlushOnce(ctx)
		}
	}
}

// JSONSink decodes each payload into T and hands it to insert. Records that
// already exist are treated as flushed, malformed payloads are dropped.
func JSONSink[T any](insert func(context.Context, *T) error) Sink {
	return func(ctx context.Context, payloads [][]byte) (int, error) {
		for i, p := range payloads {
			var v T
			if err := json.Unmarshal(p, &v); err != nil {
				log.Printf("[Spool] dropping malformed payload: %v", err)
				continue
			}
			if err := insert(ctx, &v); err != nil && !errors.Is(err, errs.ErrConflict) {
				return i, fmt.Errorf("insert spooled record: %w", err)
			}
		}
		return len(payloads), nil
	}
}
