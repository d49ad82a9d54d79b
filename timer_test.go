package congsim

import (
	"errors"
	"testing"
)

func TestTimerRegistryArmCancel(t *testing.T) {
	t.Run("arming twice without cancelling fails", func(t *testing.T) {
		r := NewTimerRegistry()
		if err := r.Arm(1, 10); err != nil {
			t.Fatal("unexpected error", err)
		}
		if err := r.Arm(1, 20); !errors.Is(err, ErrTimerAlreadyArmed) {
			t.Fatal("unexpected error", err)
		}
	})

	t.Run("cancel then re-arm succeeds", func(t *testing.T) {
		r := NewTimerRegistry()
		_ = r.Arm(1, 10)
		if err := r.Cancel(1); err != nil {
			t.Fatal("unexpected error", err)
		}
		if err := r.Arm(1, 20); err != nil {
			t.Fatal("unexpected error", err)
		}
		if !r.Armed(1) {
			t.Fatal("expected timer to be armed")
		}
	})

	t.Run("cancelling an unarmed timer fails", func(t *testing.T) {
		r := NewTimerRegistry()
		if err := r.Cancel(1); !errors.Is(err, ErrTimerNotArmed) {
			t.Fatal("unexpected error", err)
		}
	})

	t.Run("DueAt fires exactly once", func(t *testing.T) {
		r := NewTimerRegistry()
		_ = r.Arm(1, 10)
		if r.DueAt(1, 9) {
			t.Fatal("should not be due yet")
		}
		if !r.DueAt(1, 10) {
			t.Fatal("should be due now")
		}
		if r.Armed(1) {
			t.Fatal("timer should no longer be armed after firing")
		}
	})

	t.Run("insertion order is preserved", func(t *testing.T) {
		r := NewTimerRegistry()
		_ = r.Arm(3, 1)
		_ = r.Arm(1, 1)
		_ = r.Arm(2, 1)
		want := []EndpointID{3, 1, 2}
		if len(r.order) != len(want) {
			t.Fatalf("got %d entries, want %d", len(r.order), len(want))
		}
		for i, id := range want {
			if r.order[i] != id {
				t.Fatalf("order[%d] = %d, want %d", i, r.order[i], id)
			}
		}
	})
}
