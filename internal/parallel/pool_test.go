package parallel

import (
	"errors"
	"runtime"
	"sync/atomic"
	"testing"
	"time"
)

func TestNewPool_Workers(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name string
		in   int
		want int
	}{
		{"explicit", 4, 4},
		{"single", 1, 1},
		{"default", 0, runtime.GOMAXPROCS(0)},
		{"negative", -3, runtime.GOMAXPROCS(0)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := NewPool(tt.in).Workers(); got != tt.want {
				t.Errorf("Workers() = %d, want %d", got, tt.want)
			}
		})
	}

	var nilPool *Pool
	if nilPool.Workers() != 1 {
		t.Errorf("nil pool should report 1 worker")
	}
}

func TestFork_InlineOrder(t *testing.T) {
	t.Parallel()
	for _, p := range []*Pool{nil, NewPool(1)} {
		var order []int
		err := p.Fork(
			func() error { order = append(order, 1); return nil },
			func() error { order = append(order, 2); return nil },
			func() error { order = append(order, 3); return nil },
		)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(order) != 3 || order[0] != 1 || order[1] != 2 || order[2] != 3 {
			t.Errorf("inline pool ran branches out of order: %v", order)
		}
	}
}

func TestFork_JoinsAllBranches(t *testing.T) {
	t.Parallel()
	p := NewPool(4)
	var done atomic.Int32
	branches := make([]func() error, 8)
	for i := range branches {
		branches[i] = func() error {
			time.Sleep(time.Millisecond)
			done.Add(1)
			return nil
		}
	}
	if err := p.Fork(branches...); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := done.Load(); got != 8 {
		t.Errorf("Fork returned before all branches finished: %d/8", got)
	}
}

func TestFork_ReturnsError(t *testing.T) {
	t.Parallel()
	boom := errors.New("boom")
	for _, workers := range []int{1, 4} {
		p := NewPool(workers)
		var ran atomic.Int32
		err := p.Fork(
			func() error { ran.Add(1); return nil },
			func() error { ran.Add(1); return boom },
			func() error { ran.Add(1); return nil },
		)
		if !errors.Is(err, boom) {
			t.Errorf("workers=%d: expected boom, got %v", workers, err)
		}
		if ran.Load() != 3 {
			t.Errorf("workers=%d: every branch must run, ran %d", workers, ran.Load())
		}
	}
}

func TestFork_NestedRespectsBudget(t *testing.T) {
	t.Parallel()
	const workers = 3
	p := NewPool(workers)

	var active, peak atomic.Int32
	leaf := func() error {
		n := active.Add(1)
		for {
			old := peak.Load()
			if n <= old || peak.CompareAndSwap(old, n) {
				break
			}
		}
		time.Sleep(2 * time.Millisecond)
		active.Add(-1)
		return nil
	}

	var fork func(depth int) error
	fork = func(depth int) error {
		if depth == 0 {
			return leaf()
		}
		next := func() error { return fork(depth - 1) }
		return p.Fork(next, next, next, next)
	}

	if err := fork(3); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got := peak.Load(); got > workers {
		t.Errorf("observed %d concurrent leaves with a budget of %d", got, workers)
	}
}
