package idempotency

import (
	"context"
	"testing"
	"time"

	memclock "github.com/isail-maritime/crew-rotation-api/internal/adapters/memory/clock"
	"github.com/isail-maritime/crew-rotation-api/internal/domain"
	"github.com/isail-maritime/crew-rotation-api/internal/ports/out/idempotency"
)

func fingerprint(key string) idempotency.Fingerprint {
	return idempotency.Fingerprint{
		Key:      idempotency.Key(key),
		Subject:  domain.SubjectID("sub-1"),
		Method:   "PATCH",
		Route:    "/users/me",
		BodyHash: "abc123",
	}
}

func TestStore_ReturnedBodyIsACopy(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	s := NewStore()
	body := []byte(`{"ok":true}`)
	if err := s.Put(ctx, fingerprint("k1"), idempotency.Record{StatusCode: 200, Body: body}); err != nil {
		t.Fatalf("Put() err=%v", err)
	}
	body[0] = 'X'

	got, ok, err := s.Get(ctx, fingerprint("k1"))
	if err != nil || !ok {
		t.Fatalf("Get() ok=%v err=%v", ok, err)
	}
	if string(got.Body) != `{"ok":true}` {
		t.Fatalf("stored body=%q, caller mutation leaked in", got.Body)
	}

	got.Body[0] = 'Y'
	again, _, _ := s.Get(ctx, fingerprint("k1"))
	if string(again.Body) != `{"ok":true}` {
		t.Fatalf("stored body=%q, returned slice aliases the store", again.Body)
	}
}

func TestStore_Retention(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	clk := memclock.NewManualClock(time.Date(2024, 1, 1, 12, 0, 0, 0, time.UTC))
	s := NewStore(WithRetention(24*time.Hour, clk))

	if err := s.Put(ctx, fingerprint("old"), idempotency.Record{StatusCode: 200, CreatedAt: clk.Now()}); err != nil {
		t.Fatalf("Put(old) err=%v", err)
	}

	clk.Advance(24 * time.Hour)
	if _, ok, err := s.Get(ctx, fingerprint("old")); err != nil || !ok {
		t.Fatalf("Get() at retention boundary ok=%v err=%v, want replay", ok, err)
	}

	clk.Advance(time.Second)
	if _, ok, err := s.Get(ctx, fingerprint("old")); err != nil || ok {
		t.Fatalf("Get() past retention ok=%v err=%v, want miss", ok, err)
	}

	if err := s.Put(ctx, fingerprint("new"), idempotency.Record{StatusCode: 201, CreatedAt: clk.Now()}); err != nil {
		t.Fatalf("Put(new) err=%v", err)
	}
	if n := s.Len(); n != 1 {
		t.Fatalf("Len()=%d, want 1 after pruning", n)
	}
}
