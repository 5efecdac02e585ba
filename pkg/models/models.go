// Package models defines the JSON records exchanged by the hypercalc HTTP
// API and written by the command line in -json mode.
package models

import (
	"math/big"
	"time"
)

// Evaluation is the outcome of evaluating one expression with one backend.
type Evaluation struct {
	// Expression is the canonical rendering, e.g. "3 ↑↑ 3".
	Expression string `json:"expression"`
	Backend    string `json:"backend"`
	A          string `json:"a"`
	B          string `json:"b"`
	Arrows     uint8  `json:"arrows"`
	// Result is the decimal value. It is a string because values quickly
	// exceed what JSON numbers carry faithfully.
	Result string `json:"result,omitempty"`
	// Bits is the bit length of Result.
	Bits     int    `json:"bits,omitempty"`
	Duration string `json:"duration"`
	Error    string `json:"error,omitempty"`
}

// NewEvaluation builds an Evaluation. result is ignored when err is set.
func NewEvaluation(expression, backend string, a, b *big.Int, arrows uint8, result *big.Int, duration time.Duration, err error) Evaluation {
	e := Evaluation{
		Expression: expression,
		Backend:    backend,
		A:          intString(a),
		B:          intString(b),
		Arrows:     arrows,
		Duration:   duration.String(),
	}
	switch {
	case err != nil:
		e.Error = err.Error()
	case result != nil:
		e.Result = result.String()
		e.Bits = result.BitLen()
	}
	return e
}

func intString(x *big.Int) string {
	if x == nil {
		return ""
	}
	return x.String()
}

// ExpressionRequest is one expression of a batch request. Operands are
// decimal strings.
type ExpressionRequest struct {
	A      string `json:"a"`
	B      string `json:"b"`
	Arrows uint8  `json:"arrows"`
}

// BatchRequest is the body of POST /evaluate/batch.
type BatchRequest struct {
	// Backend defaults to "big" when empty.
	Backend     string              `json:"backend,omitempty"`
	Expressions []ExpressionRequest `json:"expressions"`
}

// BatchResponse is the reply to a batch request, in request order.
type BatchResponse struct {
	Backend  string       `json:"backend"`
	Results  []Evaluation `json:"results"`
	Duration string       `json:"duration"`
}
