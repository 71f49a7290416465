package multiply

import (
	"errors"
	"fmt"
	"sort"
	"sync"
)

// ErrUnknownAlgorithm is returned for an algorithm identifier that is not
// registered.
var ErrUnknownAlgorithm = errors.New("multiply: unknown algorithm")

// Factory creates and caches Multiplier instances by algorithm identifier.
type Factory interface {
	// Get returns the cached Multiplier for name, creating it on first use.
	Get(name string) (Multiplier, error)
	// List returns the registered identifiers in canonical order.
	List() []string
	// Has reports whether name is registered.
	Has(name string) bool
}

// DefaultFactory is a thread-safe registry of the built-in algorithms.
type DefaultFactory struct {
	mu          sync.RWMutex
	creators    map[string]func() coreMultiplier
	multipliers map[string]Multiplier
}

// NewDefaultFactory returns a factory with the five built-in algorithms:
// iterative, divide_conquer_seq, divide_conquer_parallel, strassen_seq and
// strassen_parallel.
func NewDefaultFactory() *DefaultFactory {
	f := &DefaultFactory{
		creators:    make(map[string]func() coreMultiplier),
		multipliers: make(map[string]Multiplier),
	}
	f.Register(Iterative, func() coreMultiplier { return &IterativeMultiplier{} })
	f.Register(DivideConquerSeq, func() coreMultiplier { return &DivideConquerMultiplier{} })
	f.Register(DivideConquerParallel, func() coreMultiplier { return &DivideConquerMultiplier{Parallel: true} })
	f.Register(StrassenSeq, func() coreMultiplier { return &StrassenMultiplier{} })
	f.Register(StrassenParallel, func() coreMultiplier { return &StrassenMultiplier{Parallel: true} })
	return f
}

// Register adds or replaces an algorithm. A replaced algorithm's cached
// instance is dropped.
func (f *DefaultFactory) Register(name string, creator func() coreMultiplier) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creators[name] = creator
	delete(f.multipliers, name)
}

// Get returns the Multiplier registered under name.
//
// Returns:
//   - Multiplier: The cached instance.
//   - error: ErrUnknownAlgorithm (wrapped with the name) if not registered.
func (f *DefaultFactory) Get(name string) (Multiplier, error) {
	f.mu.RLock()
	if m, ok := f.multipliers[name]; ok {
		f.mu.RUnlock()
		return m, nil
	}
	f.mu.RUnlock()

	f.mu.Lock()
	defer f.mu.Unlock()
	if m, ok := f.multipliers[name]; ok {
		return m, nil
	}
	creator, ok := f.creators[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownAlgorithm, name)
	}
	m := NewMultiplier(creator())
	f.multipliers[name] = m
	return m, nil
}

// List returns the registered identifiers, built-ins first in their
// canonical order, then any custom registrations sorted by name.
func (f *DefaultFactory) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()

	names := make([]string, 0, len(f.creators))
	for _, name := range canonicalOrder {
		if _, ok := f.creators[name]; ok {
			names = append(names, name)
		}
	}
	var extra []string
	for name := range f.creators {
		if canonicalRank(name) < 0 {
			extra = append(extra, name)
		}
	}
	sort.Strings(extra)
	return append(names, extra...)
}

// Has reports whether name is registered.
func (f *DefaultFactory) Has(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.creators[name]
	return ok
}

var canonicalOrder = []string{
	Iterative,
	DivideConquerSeq,
	DivideConquerParallel,
	StrassenSeq,
	StrassenParallel,
}

func canonicalRank(name string) int {
	for i, n := range canonicalOrder {
		if n == name {
			return i
		}
	}
	return -1
}

var globalFactory = NewDefaultFactory()

// GlobalFactory returns the process-wide factory.
func GlobalFactory() *DefaultFactory {
	return globalFactory
}
