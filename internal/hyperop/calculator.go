package hyperop

import (
	"context"
	"fmt"
	"math/big"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/rs/zerolog/log"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

var (
	evaluationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "hyperop_evaluations_total",
			Help: "The total number of hyperoperation evaluations processed",
		},
		[]string{"backend", "status"},
	)
	evaluationDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name: "hyperop_evaluation_duration_seconds",
			Help: "The duration of hyperoperation evaluations in seconds",
		},
		[]string{"backend"},
	)
)

// Operands is a backend-neutral evaluation request. Each backend converts A
// and B into its own Number type before evaluating.
type Operands struct {
	A      *big.Int
	B      *big.Int
	Arrows uint8
}

// NewOperands builds Operands from native values.
func NewOperands(a, b uint64, arrows uint8) Operands {
	return Operands{
		A:      new(big.Int).SetUint64(a),
		B:      new(big.Int).SetUint64(b),
		Arrows: arrows,
	}
}

// String renders the operands in up-arrow notation.
func (o Operands) String() string {
	return Format(intString(o.A), intString(o.B), o.Arrows)
}

func intString(x *big.Int) string {
	if x == nil {
		return "0"
	}
	return x.String()
}

// OperandRangeError is returned when an operand cannot be represented by a
// backend's numeric type: it is negative, or wider than a fixed-width type.
type OperandRangeError struct {
	// Operand names the offending operand ("a" or "b").
	Operand string
	// Value is the decimal representation of the rejected value.
	Value string
	// Bits is the width of the backend type, 0 for arbitrary precision.
	Bits int
}

func (e *OperandRangeError) Error() string {
	if e.Bits == 0 {
		return fmt.Sprintf("operand %s=%s is out of range", e.Operand, e.Value)
	}
	return fmt.Sprintf("operand %s=%s does not fit in %d bits", e.Operand, e.Value, e.Bits)
}

// Calculator is the interface used by the orchestration, service and server
// layers to evaluate a hyperoperation with a given numeric backend.
type Calculator interface {
	// Calculate evaluates in. It is safe for concurrent use and stops when
	// ctx is done. Progress updates are sent to progressChan without
	// blocking; progressChan may be nil.
	//
	// Parameters:
	//   - ctx: The context for managing cancellation and deadlines.
	//   - progressChan: The channel for sending progress updates.
	//   - calcIndex: A unique index for the calculator instance.
	//   - in: The operands and arrow count.
	//
	// Returns:
	//   - *big.Int: The value computed by the backend.
	//   - error: An error if the operands do not fit or the context ended.
	Calculate(ctx context.Context, progressChan chan<- ProgressUpdate, calcIndex int, in Operands) (*big.Int, error)

	// Name returns the display name of the backend (e.g., "uint64 (wrapping)").
	Name() string
}

// coreCalculator is a pure evaluation backend.
type coreCalculator interface {
	CalculateCore(ctx context.Context, reporter ProgressReporter, in Operands) (*big.Int, error)
	Name() string
}

// HyperCalculator decorates a coreCalculator with tracing, metrics, debug
// logging and observer-based progress reporting.
type HyperCalculator struct {
	core coreCalculator
}

// NewCalculator wraps core in a HyperCalculator. It panics if core is nil.
func NewCalculator(core coreCalculator) Calculator {
	if core == nil {
		panic("hyperop: the `coreCalculator` implementation cannot be nil")
	}
	return &HyperCalculator{core: core}
}

// Name delegates to the wrapped backend.
func (c *HyperCalculator) Name() string {
	return c.core.Name()
}

// Calculate adapts progressChan into a ProgressSubject with a single
// ChannelObserver and calls CalculateWithObservers.
func (c *HyperCalculator) Calculate(ctx context.Context, progressChan chan<- ProgressUpdate, calcIndex int, in Operands) (*big.Int, error) {
	subject := NewProgressSubject()
	if progressChan != nil {
		subject.Register(NewChannelObserver(progressChan))
	}
	return c.CalculateWithObservers(ctx, subject, calcIndex, in)
}

// CalculateWithObservers evaluates in and notifies every observer
// registered on subject. A nil subject discards progress. On success the
// observers always receive a final 1.0.
//
// Parameters:
//   - ctx: The context for managing cancellation and deadlines.
//   - subject: The progress subject with registered observers.
//   - calcIndex: A unique index for the calculator instance.
//   - in: The operands and arrow count.
//
// Returns:
//   - *big.Int: The value computed by the backend.
//   - error: An error if one occurred.
func (c *HyperCalculator) CalculateWithObservers(ctx context.Context, subject *ProgressSubject, calcIndex int, in Operands) (result *big.Int, err error) {
	ctx, span := otel.Tracer("hyperop").Start(ctx, "Calculate")
	span.SetAttributes(
		attribute.String("hyperop.backend", c.core.Name()),
		attribute.Int("hyperop.arrows", int(in.Arrows)),
	)
	defer span.End()

	start := time.Now()
	defer func() {
		duration := time.Since(start).Seconds()
		status := "success"
		if err != nil {
			status = "error"
			span.RecordError(err)
		}
		name := c.core.Name()
		evaluationsTotal.WithLabelValues(name, status).Inc()
		evaluationDuration.WithLabelValues(name).Observe(duration)

		log.Debug().
			Str("backend", name).
			Str("expression", in.String()).
			Float64("duration", duration).
			Str("status", status).
			Msg("evaluation completed")
	}()

	reporter := func(float64) {}
	if subject != nil {
		reporter = subject.AsProgressReporter(calcIndex)
	}

	if in.A == nil || in.B == nil {
		return nil, fmt.Errorf("hyperop: missing operand in %s", in)
	}

	result, err = c.core.CalculateCore(ctx, reporter, in)
	if err == nil && result != nil {
		reporter(1.0)
	}
	return result, err
}
