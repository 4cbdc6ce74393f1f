// Package algo holds the small algorithm demos shipped with the CLI.
package algo

import (
	"math/rand/v2"
	"strconv"
	"strings"
)

// RecursiveSearch returns the index of the first element equal to target, or -1.
func RecursiveSearch[T comparable](xs []T, target T) int {
	return searchFrom(xs, target, 0)
}

func searchFrom[T comparable](xs []T, target T, i int) int {
	if i >= len(xs) {
		return -1
	}
	if xs[i] == target {
		return i
	}
	return searchFrom(xs, target, i+1)
}

// RandomBinary draws digits random bits from r and returns them as a binary
// string together with their base-10 value. digits is clamped to [1, 63].
func RandomBinary(r *rand.Rand, digits int) (string, int64) {
	if digits < 1 {
		digits = 1
	}
	if digits > 63 {
		digits = 63
	}
	var b strings.Builder
	b.Grow(digits)
	for i := 0; i < digits; i++ {
		b.WriteByte('0' + byte(r.IntN(2)))
	}
	s := b.String()
	v, _ := strconv.ParseInt(s, 2, 64)
	return s, v
}

// SumFibonacci sums the first n Fibonacci numbers, starting from 0.
// Results for n above 93 overflow uint64.
func SumFibonacci(n int) uint64 {
	if n <= 0 {
		return 0
	}
	var a, b, sum uint64 = 0, 1, 0
	for i := 0; i < n; i++ {
		sum += a
		a, b = b, a+b
	}
	return sum
}
