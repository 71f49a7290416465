package multiply

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/agbru/matbench/internal/matrix"
)

func TestDefaultFactory_List(t *testing.T) {
	t.Parallel()
	f := NewDefaultFactory()
	want := []string{Iterative, DivideConquerSeq, DivideConquerParallel, StrassenSeq, StrassenParallel}
	got := f.List()
	if len(got) != len(want) {
		t.Fatalf("List() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("List()[%d] = %s, want %s", i, got[i], want[i])
		}
	}
}

func TestDefaultFactory_GetCachesInstances(t *testing.T) {
	t.Parallel()
	f := NewDefaultFactory()
	first, err := f.Get(StrassenSeq)
	if err != nil {
		t.Fatal(err)
	}
	second, _ := f.Get(StrassenSeq)
	if first != second {
		t.Error("Get should return the cached instance")
	}
	if first.Name() != StrassenSeq {
		t.Errorf("Name() = %s", first.Name())
	}
}

func TestDefaultFactory_Unknown(t *testing.T) {
	t.Parallel()
	f := NewDefaultFactory()
	if f.Has("naive") {
		t.Error("Has(naive) should be false")
	}
	_, err := f.Get("naive")
	if !errors.Is(err, ErrUnknownAlgorithm) {
		t.Errorf("expected ErrUnknownAlgorithm, got %v", err)
	}
}

type doublingCore struct{}

func (doublingCore) Name() string { return "doubling" }

func (doublingCore) MultiplyCore(_ context.Context, _ ProgressReporter, a, b *matrix.Matrix, _ Options) (*matrix.Matrix, error) {
	c := iterative(a, b)
	return matrix.Add(c, c)
}

func TestDefaultFactory_RegisterCustom(t *testing.T) {
	t.Parallel()
	f := NewDefaultFactory()
	f.Register("doubling", func() coreMultiplier { return doublingCore{} })

	names := f.List()
	if names[len(names)-1] != "doubling" {
		t.Errorf("custom algorithm should be listed last, got %v", names)
	}
	m, err := f.Get("doubling")
	if err != nil {
		t.Fatal(err)
	}
	id, _ := matrix.Identity(2)
	got, err := m.Multiply(context.Background(), nil, 0, id, id, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got.At(0, 0) != 2 {
		t.Errorf("custom core not used: %v", got)
	}
}

func TestDefaultFactory_ConcurrentGet(t *testing.T) {
	t.Parallel()
	f := NewDefaultFactory()
	var wg sync.WaitGroup
	results := make([]Multiplier, 32)
	for i := range results {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], _ = f.Get(DivideConquerParallel)
		}()
	}
	wg.Wait()
	for _, m := range results {
		if m != results[0] {
			t.Fatal("concurrent Get returned different instances")
		}
	}
}

func TestNewMultiplier_PanicsOnNil(t *testing.T) {
	t.Parallel()
	defer func() {
		if recover() == nil {
			t.Error("expected panic")
		}
	}()
	NewMultiplier(nil)
}
