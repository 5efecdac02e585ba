package hyperop

// Note: CalculatorFactory cannot be mocked with mockgen because Register()
// takes the unexported coreCalculator type. Use TestFactory instead.

import (
	"fmt"
	"sort"
	"sync"
)

// CalculatorFactory creates and caches Calculator instances by backend name.
type CalculatorFactory interface {
	// Create returns a fresh Calculator for the backend.
	Create(name string) (Calculator, error)
	// Get returns the cached Calculator for the backend, creating it once.
	Get(name string) (Calculator, error)
	// List returns the registered backend names, sorted.
	List() []string
	// Register adds or replaces a backend.
	Register(name string, creator func() coreCalculator) error
	// GetAll returns every registered backend.
	GetAll() map[string]Calculator
}

// DefaultFactory is the thread-safe CalculatorFactory used by the
// application.
type DefaultFactory struct {
	mu          sync.RWMutex
	creators    map[string]func() coreCalculator
	calculators map[string]Calculator
}

// NewDefaultFactory returns a factory with the built-in backends registered:
//
//   - "u8", "u16", "u32", "u64": fixed-width, wrapping on overflow
//   - "big": math/big, exact
//
// The "gmp" backend joins the global factory when built with -tags=gmp.
func NewDefaultFactory() *DefaultFactory {
	f := &DefaultFactory{
		creators:    make(map[string]func() coreCalculator),
		calculators: make(map[string]Calculator),
	}
	_ = f.Register("u8", func() coreCalculator { return &FixedCalculator[uint8]{} })
	_ = f.Register("u16", func() coreCalculator { return &FixedCalculator[uint16]{} })
	_ = f.Register("u32", func() coreCalculator { return &FixedCalculator[uint32]{} })
	_ = f.Register("u64", func() coreCalculator { return &FixedCalculator[uint64]{} })
	_ = f.Register("big", func() coreCalculator { return &BigCalculator{} })
	return f
}

// Register adds a backend, replacing any previous one with the same name.
func (f *DefaultFactory) Register(name string, creator func() coreCalculator) error {
	if name == "" || creator == nil {
		return fmt.Errorf("hyperop: invalid registration for backend %q", name)
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.creators[name] = creator
	delete(f.calculators, name)
	return nil
}

// Create always builds a new Calculator.
func (f *DefaultFactory) Create(name string) (Calculator, error) {
	f.mu.RLock()
	creator, ok := f.creators[name]
	f.mu.RUnlock()
	if !ok {
		return nil, &UnknownCalculatorError{Name: name}
	}
	return NewCalculator(creator()), nil
}

// Get returns the cached Calculator for name.
func (f *DefaultFactory) Get(name string) (Calculator, error) {
	f.mu.RLock()
	calc, ok := f.calculators[name]
	f.mu.RUnlock()
	if ok {
		return calc, nil
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if calc, ok := f.calculators[name]; ok {
		return calc, nil
	}
	creator, ok := f.creators[name]
	if !ok {
		return nil, &UnknownCalculatorError{Name: name}
	}
	calc = NewCalculator(creator())
	f.calculators[name] = calc
	return calc, nil
}

// List returns the registered names in alphabetical order.
func (f *DefaultFactory) List() []string {
	f.mu.RLock()
	defer f.mu.RUnlock()
	names := make([]string, 0, len(f.creators))
	for name := range f.creators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// GetAll initializes every backend and returns a copy of the cache.
func (f *DefaultFactory) GetAll() map[string]Calculator {
	f.mu.Lock()
	defer f.mu.Unlock()
	for name, creator := range f.creators {
		if _, ok := f.calculators[name]; !ok {
			f.calculators[name] = NewCalculator(creator())
		}
	}
	out := make(map[string]Calculator, len(f.calculators))
	for name, calc := range f.calculators {
		out[name] = calc
	}
	return out
}

// MustGet is like Get but panics for an unknown backend.
func (f *DefaultFactory) MustGet(name string) Calculator {
	calc, err := f.Get(name)
	if err != nil {
		panic(fmt.Sprintf("hyperop: required backend not found: %s", name))
	}
	return calc
}

// Has reports whether name is registered.
func (f *DefaultFactory) Has(name string) bool {
	f.mu.RLock()
	defer f.mu.RUnlock()
	_, ok := f.creators[name]
	return ok
}

var globalFactory = NewDefaultFactory()

// GlobalFactory returns the process-wide factory.
func GlobalFactory() *DefaultFactory {
	return globalFactory
}

// RegisterCalculator registers a backend in the global factory.
func RegisterCalculator(name string, creator func() coreCalculator) error {
	return globalFactory.Register(name, creator)
}

// UnknownCalculatorError is returned for an unregistered backend name.
type UnknownCalculatorError struct {
	Name string
}

func (e *UnknownCalculatorError) Error() string {
	return "unknown backend: " + e.Name
}
