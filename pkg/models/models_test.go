package models

import (
	"encoding/json"
	"errors"
	"math/big"
	"strings"
	"testing"
	"time"
)

func TestNewEvaluation(t *testing.T) {
	res := big.NewInt(7625597484987)
	e := NewEvaluation("3 ↑↑ 3", "big", big.NewInt(3), big.NewInt(3), 2, res, 1500*time.Microsecond, nil)

	if e.Result != "7625597484987" || e.Bits != 43 || e.Error != "" {
		t.Errorf("unexpected evaluation %+v", e)
	}
	if e.Duration != "1.5ms" || e.A != "3" || e.Arrows != 2 {
		t.Errorf("unexpected evaluation %+v", e)
	}
}

func TestNewEvaluationError(t *testing.T) {
	e := NewEvaluation("3 ↑↑↑ 3", "u64", big.NewInt(3), nil, 3, big.NewInt(1), time.Second, errors.New("timeout"))
	if e.Result != "" || e.Error != "timeout" || e.B != "" {
		t.Errorf("unexpected evaluation %+v", e)
	}

	data, err := json.Marshal(e)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), `"result"`) || !strings.Contains(string(data), `"error":"timeout"`) {
		t.Errorf("JSON = %s", data)
	}
}
