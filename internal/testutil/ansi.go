// Package testutil provides helpers shared by the package tests.
package testutil

import (
	"math/big"
	"regexp"
	"testing"
)

var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;]*[a-zA-Z]`)

// StripAnsiCodes removes ANSI CSI escape sequences from s.
func StripAnsiCodes(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// MustInt parses a base-10 integer or fails the test.
func MustInt(tb testing.TB, s string) *big.Int {
	tb.Helper()
	x, ok := new(big.Int).SetString(s, 10)
	if !ok {
		tb.Fatalf("invalid integer %q", s)
	}
	return x
}
