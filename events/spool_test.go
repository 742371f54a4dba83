package events

import (
	"context"
	"fmt"
	"testing"
	"time"

	"tourguide/errs"
	"tourguide/models"
	"tourguide/rdx"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
)

// blockingStore stands in for an unreachable MongoDB: inserts hang until the
// caller's deadline passes.
type blockingStore struct{ memStore }

func (b *blockingStore) Insert(ctx context.Context, _ *models.Registration) error {
	<-ctx.Done()
	return fmt.Errorf("%w: insert registration: %v", errs.ErrStorage, ctx.Err())
}

func TestRegisterQueuesWhenInsertTimesOut(t *testing.T) {
	mr := miniredis.RunT(t)
	conn := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { conn.Close() })
	spool := rdx.NewSpool(conn)
	svc := NewService(&blockingStore{}, spool)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	reg, queued, err := svc.Register(ctx, "u1", RegisterRequest{EventID: "e1", Name: "Asha", Email: "asha@example.com"})
	if err != nil || !queued {
		t.Fatalf("expected queued registration, got queued=%v err=%v", queued, err)
	}
	if n, _ := spool.Len(context.Background(), SpoolName); n != 1 {
		t.Fatalf("expected 1 spooled registration, got %d", n)
	}
	if reg.ID == "" {
		t.Fatal("queued registration has no id")
	}
}
