// Package service exposes hyperoperation evaluation as a validated service
// shared by the HTTP server: it resolves backends by name, enforces request
// limits and evaluates batches concurrently.
package service

//go:generate mockgen -source=calculator_service.go -destination=mocks/mock_service.go -package=mocks

import (
	"context"
	"errors"
	"fmt"
	"math/big"

	"github.com/agbru/hypercalc/internal/config"
	"github.com/agbru/hypercalc/internal/hyperop"
	"github.com/agbru/hypercalc/internal/parallel"
)

var (
	// ErrArrowsExceeded is returned when a request has more arrows than
	// Limits.MaxArrows.
	ErrArrowsExceeded = errors.New("maximum arrow count exceeded")
	// ErrOperandExceeded is returned when an operand is above
	// Limits.MaxOperand.
	ErrOperandExceeded = errors.New("maximum operand value exceeded")
	// ErrBatchTooLarge is returned when a batch exceeds Limits.MaxBatch.
	ErrBatchTooLarge = errors.New("batch too large")
)

// Limits bounds the requests the service accepts. Zero values disable the
// corresponding check.
type Limits struct {
	MaxArrows  uint8
	MaxOperand *big.Int
	MaxBatch   int
}

// LimitsFromConfig builds Limits from the server settings of cfg.
func LimitsFromConfig(cfg config.AppConfig) Limits {
	maxArrows := cfg.MaxArrows
	if maxArrows > 255 {
		maxArrows = 255
	}
	return Limits{
		MaxArrows:  uint8(maxArrows),
		MaxOperand: new(big.Int).SetUint64(cfg.MaxOperand),
		MaxBatch:   cfg.BatchLimit,
	}
}

// Service evaluates hyperoperations by backend name.
type Service interface {
	// Evaluate validates in and evaluates it with the named backend.
	//
	// Parameters:
	//   - ctx: The context for cancellation.
	//   - backend: A registered backend name.
	//   - in: The operands and arrow count.
	//
	// Returns:
	//   - *big.Int: The value computed by the backend.
	//   - error: A limit, backend or evaluation error.
	Evaluate(ctx context.Context, backend string, in hyperop.Operands) (*big.Int, error)

	// EvaluateBatch evaluates every expression with the named backend,
	// concurrently. Results are in input order; the first failure cancels
	// the rest and is returned.
	EvaluateBatch(ctx context.Context, backend string, batch []hyperop.Operands) ([]*big.Int, error)

	// Backends returns the available backend names.
	Backends() []string
}

// CalculatorService is the Service backed by a hyperop.CalculatorFactory.
type CalculatorService struct {
	factory hyperop.CalculatorFactory
	limits  Limits
	workers int
}

var _ Service = (*CalculatorService)(nil)

// NewCalculatorService returns a service resolving backends from factory.
// workers bounds batch concurrency (0 means one goroutine per expression).
func NewCalculatorService(factory hyperop.CalculatorFactory, limits Limits, workers int) *CalculatorService {
	return &CalculatorService{factory: factory, limits: limits, workers: workers}
}

// Validate checks in against the limits.
func (s *CalculatorService) Validate(in hyperop.Operands) error {
	if in.A == nil || in.B == nil {
		return fmt.Errorf("missing operand in %s", in)
	}
	if s.limits.MaxArrows > 0 && in.Arrows > s.limits.MaxArrows {
		return fmt.Errorf("%w: %d > %d", ErrArrowsExceeded, in.Arrows, s.limits.MaxArrows)
	}
	if max := s.limits.MaxOperand; max != nil && max.Sign() > 0 {
		if in.A.Cmp(max) > 0 {
			return fmt.Errorf("%w: a=%s > %s", ErrOperandExceeded, in.A, max)
		}
		if in.B.Cmp(max) > 0 {
			return fmt.Errorf("%w: b=%s > %s", ErrOperandExceeded, in.B, max)
		}
	}
	return nil
}

// Evaluate implements Service.
func (s *CalculatorService) Evaluate(ctx context.Context, backend string, in hyperop.Operands) (*big.Int, error) {
	if err := s.Validate(in); err != nil {
		return nil, err
	}
	calc, err := s.factory.Get(backend)
	if err != nil {
		return nil, err
	}
	return calc.Calculate(ctx, nil, 0, in)
}

// EvaluateBatch implements Service.
func (s *CalculatorService) EvaluateBatch(ctx context.Context, backend string, batch []hyperop.Operands) ([]*big.Int, error) {
	if s.limits.MaxBatch > 0 && len(batch) > s.limits.MaxBatch {
		return nil, fmt.Errorf("%w: %d > %d", ErrBatchTooLarge, len(batch), s.limits.MaxBatch)
	}
	for i, in := range batch {
		if err := s.Validate(in); err != nil {
			return nil, fmt.Errorf("expression %d: %w", i, err)
		}
	}
	calc, err := s.factory.Get(backend)
	if err != nil {
		return nil, err
	}

	results := make([]*big.Int, len(batch))
	err = parallel.ForEach(ctx, len(batch), s.workers, func(ctx context.Context, i int) error {
		res, err := calc.Calculate(ctx, nil, i, batch[i])
		if err != nil {
			return fmt.Errorf("expression %d (%s): %w", i, batch[i], err)
		}
		results[i] = res
		return nil
	})
	if err != nil {
		return nil, err
	}
	return results, nil
}

// Backends implements Service.
func (s *CalculatorService) Backends() []string {
	return s.factory.List()
}
