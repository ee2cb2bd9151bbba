package workers

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"
)

func TestEach_RunsEveryItem(t *testing.T) {
	items := make([]int, 50)
	for i := range items {
		items[i] = i
	}

	var sum atomic.Int64
	err := Each(context.Background(), 4, items, func(_ context.Context, n int) error {
		sum.Add(int64(n))
		return nil
	})
	if err != nil {
		t.Fatalf("Each() error = %v", err)
	}
	if got := sum.Load(); got != 1225 {
		t.Errorf("sum = %d, want 1225", got)
	}
}

func TestEach_RespectsLimit(t *testing.T) {
	const limit = 3
	var current, peak atomic.Int32

	err := Each(context.Background(), limit, make([]struct{}, 20), func(context.Context, struct{}) error {
		n := current.Add(1)
		for {
			p := peak.Load()
			if n <= p || peak.CompareAndSwap(p, n) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		current.Add(-1)
		return nil
	})
	if err != nil {
		t.Fatalf("Each() error = %v", err)
	}
	if got := peak.Load(); got > limit {
		t.Errorf("peak concurrency = %d, want <= %d", got, limit)
	}
}

func TestEach_ErrorsDoNotStopSiblings(t *testing.T) {
	errBad := errors.New("bad item")
	var ran atomic.Int32

	err := Each(context.Background(), 2, []int{1, 2, 3, 4, 5}, func(_ context.Context, n int) error {
		ran.Add(1)
		if n == 3 {
			return errBad
		}
		return nil
	})

	if !errors.Is(err, errBad) {
		t.Errorf("Each() error = %v, want %v", err, errBad)
	}
	if got := ran.Load(); got != 5 {
		t.Errorf("ran %d units, want 5", got)
	}
}

func TestEach_CancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var ran atomic.Int32
	err := Each(ctx, 2, []int{1, 2, 3}, func(context.Context, int) error {
		ran.Add(1)
		return nil
	})

	if !errors.Is(err, context.Canceled) {
		t.Errorf("Each() error = %v, want context.Canceled", err)
	}
	if got := ran.Load(); got != 0 {
		t.Errorf("ran %d units after cancel, want 0", got)
	}
}

func TestEach_ZeroLimit(t *testing.T) {
	var ran atomic.Int32
	err := Each(context.Background(), 0, []int{1, 2}, func(context.Context, int) error {
		ran.Add(1)
		return nil
	})
	if err != nil {
		t.Fatalf("Each() error = %v", err)
	}
	if ran.Load() != 2 {
		t.Errorf("ran %d units, want 2", ran.Load())
	}
}
