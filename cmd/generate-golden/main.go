// Command generate-golden writes the hyperoperation golden file used by the
// backend tests. Values come from math/big directly (Exp for one arrow,
// iterated right folds above) and never from the hyperop package.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/big"
	"os"
	"path/filepath"
)

// GoldenData is one case of the golden file.
type GoldenData struct {
	A      string `json:"a"`
	B      string `json:"b"`
	Arrows uint8  `json:"arrows"`
	Result string `json:"result"`
}

type target struct {
	a, b   int64
	arrows uint8
}

// targets covers the zero count, the unit base, the 64-bit boundary and
// the first values of tetration and pentation. 4 ↑↑ 3 = 2^512 is the
// largest.
var targets = []target{
	{0, 0, 0}, {4, 7, 0}, {255, 255, 0},
	{7, 0, 1}, {7, 0, 3}, {9, 1, 4}, {0, 5, 1}, {1, 100, 3},
	{2, 5, 1}, {2, 10, 1}, {3, 4, 1}, {5, 3, 1},
	{2, 63, 1}, {2, 64, 1}, {10, 20, 1}, {2, 100, 1},
	{3, 2, 2}, {2, 3, 2}, {2, 4, 2}, {3, 3, 2}, {4, 3, 2},
	{2, 2, 5}, {2, 3, 3}, {3, 2, 3},
}

func main() {
	outputDir := flag.String("out", "internal/hyperop/testdata", "Output directory for the golden file")
	flag.Parse()

	if err := run(*outputDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(outputDir string) (err error) {
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		return fmt.Errorf("creating output directory: %w", err)
	}
	filename := filepath.Join(outputDir, "hyperop_golden.json")
	file, err := os.Create(filename)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer func() {
		if cerr := file.Close(); err == nil {
			err = cerr
		}
	}()

	data := make([]GoldenData, 0, len(targets))
	for _, tc := range targets {
		res := oracle(big.NewInt(tc.a), big.NewInt(tc.b), tc.arrows)
		data = append(data, GoldenData{
			A:      fmt.Sprint(tc.a),
			B:      fmt.Sprint(tc.b),
			Arrows: tc.arrows,
			Result: res.String(),
		})
		fmt.Printf("Generated %d (%d arrows) %d: %d bits\n", tc.a, tc.arrows, tc.b, res.BitLen())
	}

	encoder := json.NewEncoder(file)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(data); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	fmt.Printf("Successfully generated golden file at %s\n", filename)
	return nil
}

// oracle computes a ↑^n b from the definition:
//
//	a ↑^0 b = a·b
//	a ↑^1 b = a^b
//	a ↑^n 0 = 1
//	a ↑^n b = a ↑^(n-1) (a ↑^n (b-1))
//
// Only the small targets above are feasible.
func oracle(a, b *big.Int, arrows uint8) *big.Int {
	switch {
	case arrows == 0:
		return new(big.Int).Mul(a, b)
	case arrows == 1:
		return new(big.Int).Exp(a, b, nil)
	case b.Sign() == 0:
		return big.NewInt(1)
	}
	acc := new(big.Int).Set(a)
	for i := int64(1); i < b.Int64(); i++ {
		acc = oracle(a, acc, arrows-1)
	}
	return acc
}
