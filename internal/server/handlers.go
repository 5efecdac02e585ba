package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"net/http"
	"strconv"
	"time"

	"github.com/agbru/hypercalc/internal/hyperop"
	"github.com/agbru/hypercalc/internal/service"
	"github.com/agbru/hypercalc/pkg/models"
)

// DefaultBackend is used when a request names no backend.
const DefaultBackend = "big"

// maxBatchBody bounds the size of a batch request body.
const maxBatchBody = 1 << 20

// ErrorResponse is the body of every non-2xx reply.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
}

// ParseError is an invalid request parameter.
type ParseError struct {
	Message    string
	StatusCode int
}

func (e ParseError) Error() string { return e.Message }

func badRequest(format string, args ...any) ParseError {
	return ParseError{Message: fmt.Sprintf(format, args...), StatusCode: http.StatusBadRequest}
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{
		"status":    "healthy",
		"timestamp": time.Now().Unix(),
	})
}

func (s *Server) handleBackends(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}
	writeJSONResponse(w, http.StatusOK, map[string]any{
		"backends": s.service.Backends(),
	})
}

// handleEvaluate serves GET /evaluate?a=&b=&arrows=&backend=.
func (s *Server) handleEvaluate(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	q := r.URL.Query()
	in, err := parseOperands(q.Get("a"), q.Get("b"), q.Get("arrows"))
	if err != nil {
		s.writeError(w, err)
		return
	}
	backend := q.Get("backend")
	if backend == "" {
		backend = DefaultBackend
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeouts.RequestTimeout)
	defer cancel()

	start := time.Now()
	result, err := s.service.Evaluate(ctx, backend, in)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSONResponse(w, http.StatusOK, evaluation(backend, in, result, time.Since(start)))
}

// handleBatch serves POST /evaluate/batch.
func (s *Server) handleBatch(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.writeErrorResponse(w, http.StatusMethodNotAllowed, "Method not allowed")
		return
	}

	var req models.BatchRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBatchBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeErrorResponse(w, http.StatusBadRequest, "Invalid JSON body: "+err.Error())
		return
	}
	if len(req.Expressions) == 0 {
		s.writeErrorResponse(w, http.StatusBadRequest, "Empty batch")
		return
	}
	if req.Backend == "" {
		req.Backend = DefaultBackend
	}

	batch := make([]hyperop.Operands, len(req.Expressions))
	for i, e := range req.Expressions {
		in, err := parseOperands(e.A, e.B, strconv.Itoa(int(e.Arrows)))
		if err != nil {
			s.writeError(w, badRequest("expression %d: %v", i, err))
			return
		}
		batch[i] = in
	}

	ctx, cancel := context.WithTimeout(r.Context(), s.timeouts.RequestTimeout)
	defer cancel()

	start := time.Now()
	results, err := s.service.EvaluateBatch(ctx, req.Backend, batch)
	if err != nil {
		s.writeError(w, err)
		return
	}
	elapsed := time.Since(start)

	resp := models.BatchResponse{
		Backend:  req.Backend,
		Results:  make([]models.Evaluation, len(batch)),
		Duration: elapsed.String(),
	}
	for i, in := range batch {
		resp.Results[i] = evaluation(req.Backend, in, results[i], 0)
	}
	writeJSONResponse(w, http.StatusOK, resp)
}

func evaluation(backend string, in hyperop.Operands, result *big.Int, d time.Duration) models.Evaluation {
	expr := hyperop.Format(in.A.String(), in.B.String(), in.Arrows)
	return models.NewEvaluation(expr, backend, in.A, in.B, in.Arrows, result, d, nil)
}

// parseOperands parses decimal, non-negative a and b and an arrow count in
// [0, 255].
func parseOperands(a, b, arrows string) (hyperop.Operands, error) {
	var in hyperop.Operands
	for _, p := range []struct {
		name, value string
		dst         **big.Int
	}{{"a", a, &in.A}, {"b", b, &in.B}} {
		if p.value == "" {
			return in, badRequest("Missing '%s' parameter", p.name)
		}
		x, ok := new(big.Int).SetString(p.value, 10)
		if !ok || x.Sign() < 0 {
			return in, badRequest("Invalid '%s' parameter: must be a non-negative integer", p.name)
		}
		*p.dst = x
	}
	if arrows == "" {
		return in, badRequest("Missing 'arrows' parameter")
	}
	n, err := strconv.ParseUint(arrows, 10, 8)
	if err != nil {
		return in, badRequest("Invalid 'arrows' parameter: must be an integer between 0 and 255")
	}
	in.Arrows = uint8(n)
	return in, nil
}

// statusFor maps an evaluation error to its HTTP status.
func statusFor(err error) int {
	var (
		parseErr   ParseError
		unknownErr *hyperop.UnknownCalculatorError
		rangeErr   *hyperop.OperandRangeError
	)
	switch {
	case errors.As(err, &parseErr):
		return parseErr.StatusCode
	case errors.Is(err, service.ErrArrowsExceeded),
		errors.Is(err, service.ErrOperandExceeded),
		errors.Is(err, service.ErrBatchTooLarge),
		errors.As(err, &unknownErr):
		return http.StatusBadRequest
	case errors.As(err, &rangeErr):
		return http.StatusUnprocessableEntity
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	case errors.Is(err, context.Canceled):
		return http.StatusServiceUnavailable
	}
	return http.StatusInternalServerError
}

func (s *Server) writeError(w http.ResponseWriter, err error) {
	status := statusFor(err)
	if status >= http.StatusInternalServerError {
		s.logger.Error("evaluation failed", err)
	}
	s.writeErrorResponse(w, status, err.Error())
}

func writeJSONResponse(w http.ResponseWriter, statusCode int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) writeErrorResponse(w http.ResponseWriter, statusCode int, message string) {
	writeJSONResponse(w, statusCode, ErrorResponse{
		Error:   http.StatusText(statusCode),
		Message: message,
	})
}
