package hyperop

import (
	"context"
	"math/big"
	"sort"
)

// MockCalculator is a Calculator for tests in other packages.
type MockCalculator struct {
	// NameValue is returned by Name; "mock" when empty.
	NameValue string
	Result    *big.Int
	Err       error
	// Fn, when set, replaces the canned Result and Err.
	Fn func(ctx context.Context, in Operands) (*big.Int, error)
}

// Name returns the configured name.
func (m *MockCalculator) Name() string {
	if m.NameValue == "" {
		return "mock"
	}
	return m.NameValue
}

// Calculate calls Fn or returns the canned values, reporting completion on
// progressChan without blocking.
func (m *MockCalculator) Calculate(ctx context.Context, progressChan chan<- ProgressUpdate, calcIndex int, in Operands) (*big.Int, error) {
	if m.Fn != nil {
		return m.Fn(ctx, in)
	}
	if progressChan != nil {
		select {
		case progressChan <- ProgressUpdate{CalculatorIndex: calcIndex, Value: 1.0}:
		default:
		}
	}
	return m.Result, m.Err
}

// TestFactory is a CalculatorFactory over a fixed set of calculators.
type TestFactory struct {
	calculators map[string]Calculator
}

// NewTestFactory returns a factory serving calculators.
func NewTestFactory(calculators map[string]Calculator) *TestFactory {
	if calculators == nil {
		calculators = make(map[string]Calculator)
	}
	return &TestFactory{calculators: calculators}
}

func (f *TestFactory) Create(name string) (Calculator, error) { return f.Get(name) }

func (f *TestFactory) Get(name string) (Calculator, error) {
	calc, ok := f.calculators[name]
	if !ok {
		return nil, &UnknownCalculatorError{Name: name}
	}
	return calc, nil
}

func (f *TestFactory) List() []string {
	names := make([]string, 0, len(f.calculators))
	for name := range f.calculators {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Register is a no-op: calculators are fixed at construction.
func (f *TestFactory) Register(string, func() coreCalculator) error { return nil }

func (f *TestFactory) GetAll() map[string]Calculator {
	out := make(map[string]Calculator, len(f.calculators))
	for k, v := range f.calculators {
		out[k] = v
	}
	return out
}
