package usecase

import (
	"context"
	"errors"
	"testing"
	"time"

	"apostila-generator/internal/domain"
)

func TestModelInvoker_Invoke(t *testing.T) {
	t.Run("returns first success", func(t *testing.T) {
		gen := &scriptedGenerator{script: []scriptedReply{{text: "olá"}}}
		inv := NewModelInvoker(gen, 3, time.Millisecond, nopLogger())
		inv.sleep = noSleep

		got, err := inv.Invoke(context.Background(), "prompt")
		if err != nil {
			t.Fatalf("Invoke returned error: %v", err)
		}
		if got != "olá" {
			t.Fatalf("Invoke = %q, want %q", got, "olá")
		}
		if gen.calls != 1 {
			t.Fatalf("generator called %d times, want 1", gen.calls)
		}
	})

	t.Run("retries transient failures", func(t *testing.T) {
		boom := errors.New("rate limited")
		gen := &scriptedGenerator{script: []scriptedReply{
			{err: boom}, {err: boom}, {text: "terceira tentativa"},
		}}
		inv := NewModelInvoker(gen, 3, time.Millisecond, nopLogger())
		inv.sleep = noSleep

		got, err := inv.Invoke(context.Background(), "prompt")
		if err != nil {
			t.Fatalf("Invoke returned error: %v", err)
		}
		if got != "terceira tentativa" {
			t.Fatalf("Invoke = %q", got)
		}
		if gen.calls != 3 {
			t.Fatalf("generator called %d times, want 3", gen.calls)
		}
	})

	t.Run("exhaustion wraps ErrModelUnavailable", func(t *testing.T) {
		boom := errors.New("down")
		gen := &scriptedGenerator{script: []scriptedReply{{err: boom}, {err: boom}, {err: boom}}}
		inv := NewModelInvoker(gen, 3, time.Millisecond, nopLogger())
		inv.sleep = noSleep

		_, err := inv.Invoke(context.Background(), "prompt")
		if !errors.Is(err, domain.ErrModelUnavailable) {
			t.Fatalf("err = %v, want ErrModelUnavailable", err)
		}
		if gen.calls != 3 {
			t.Fatalf("generator called %d times, want 3", gen.calls)
		}
	})

	t.Run("cancellation stops the retry loop", func(t *testing.T) {
		gen := &scriptedGenerator{script: []scriptedReply{{err: errors.New("x")}}}
		inv := NewModelInvoker(gen, 3, time.Minute, nopLogger())

		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := inv.Invoke(ctx, "prompt")
		if !errors.Is(err, context.Canceled) {
			t.Fatalf("err = %v, want context.Canceled", err)
		}
	})
}
