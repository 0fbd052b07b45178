//
// Copyright 2020 Google LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//      http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.
//


// Package interval provides bounding interval arithmetic for computations
// whose result must never be overstated by floating-point rounding.
//
// An Interval encloses an unknown real value: the true value is guaranteed to
// lie in [Lower, Upper]. Arithmetic implementations round every lower bound
// towards -∞ and every upper bound towards +∞, so that chaining operations
// can only widen, never silently narrow, the enclosure. Decisions that depend
// on an enclosed value (comparisons, rounding to integers) are certified: they
// either return a provably correct answer or fail with ErrIndeterminate.
package interval

import (
	"errors"
	"fmt"
	"math"
)

// ErrIndeterminate is returned when an interval is too imprecise, relative to
// a decision boundary, for a comparison or rounding to be certified.
var ErrIndeterminate = errors.New("interval arithmetic indeterminate")

// IndeterminateError describes a certified operation that could not decide.
// It matches ErrIndeterminate with errors.Is.
type IndeterminateError struct {
	// Op is the name of the failed operation, e.g. "GreaterThan".
	Op string
	// A and B are the operands. B is the zero Interval for unary operations.
	A, B Interval
	// Reason is a short human readable explanation.
	Reason string
}

func (e *IndeterminateError) Error() string {
	if e.B == (Interval{}) {
		return fmt.Sprintf("%v: %s(%v): %s", ErrIndeterminate, e.Op, e.A, e.Reason)
	}
	return fmt.Sprintf("%v: %s(%v, %v): %s", ErrIndeterminate, e.Op, e.A, e.B, e.Reason)
}

// Unwrap makes IndeterminateError match ErrIndeterminate.
func (e *IndeterminateError) Unwrap() error {
	return ErrIndeterminate
}

// Interval is a closed interval [Lower, Upper] enclosing a real value.
// Intervals produced by an Arithmetic always satisfy Lower <= Upper; the
// bounds may be infinite when an operation leaves its well-defined domain.
type Interval struct {
	Lower float64
	Upper float64
}

// New returns the interval [lower, upper]. It returns an error if either
// bound is NaN or if lower > upper.
func New(lower, upper float64) (Interval, error) {
	if math.IsNaN(lower) || math.IsNaN(upper) {
		return Interval{}, fmt.Errorf("interval bounds must not be NaN, got [%g, %g]", lower, upper)
	}
	if lower > upper {
		return Interval{}, fmt.Errorf("interval lower bound %g is greater than upper bound %g", lower, upper)
	}
	return Interval{Lower: lower, Upper: upper}, nil
}

// Point returns the degenerate interval [x, x]. Only use it for values that
// are exactly representable as a float64.
func Point(x float64) Interval {
	return Interval{Lower: x, Upper: x}
}

// Around returns the tightest interval with float64 bounds that is guaranteed
// to contain a real number whose nearest float64 is x. Use it for values
// parsed from decimal literals such as 1e-5, which are not exactly
// representable.
func Around(x float64) Interval {
	return Interval{Lower: down(x), Upper: up(x)}
}

// Contains reports whether x lies in the interval.
func (i Interval) Contains(x float64) bool {
	return i.Lower <= x && x <= i.Upper
}

// Width returns Upper - Lower, rounded up.
func (i Interval) Width() float64 {
	return up(i.Upper - i.Lower)
}

// IsPoint reports whether the interval has zero width.
func (i Interval) IsPoint() bool {
	return i.Lower == i.Upper
}

func (i Interval) String() string {
	return fmt.Sprintf("[%g, %g]", i.Lower, i.Upper)
}

// Arithmetic is a conservative numeric engine over Intervals.
//
// Arithmetic operations are total: when an operand leaves an operation's
// domain (division by an interval containing zero, logarithm of a
// non-positive value) the result is a wider, possibly infinite, interval that
// still encloses every defined result. Certified operations return
// ErrIndeterminate instead of guessing.
type Arithmetic interface {
	// Zero, One and MinusOne return exact constants.
	Zero() Interval
	One() Interval
	MinusOne() Interval

	// FromInt returns an interval enclosing n.
	FromInt(n int) Interval
	// FromFloat returns the point interval [x, x].
	FromFloat(x float64) Interval

	Add(a, b Interval) Interval
	Sub(a, b Interval) Interval
	Mul(a, b Interval) Interval
	Div(a, b Interval) Interval
	Exp(a Interval) Interval
	Log(a Interval) Interval

	// Max returns an interval enclosing max(x, y) for every x in a and y in b.
	Max(a, b Interval) Interval

	// BinomialProbability returns an interval enclosing the probability mass
	// of Binomial(trials, p) at successes, for every p in the given interval.
	BinomialProbability(trials int, p Interval, successes int) Interval

	// FloorLowerBoundToInt returns ⌊a.Lower⌋. It fails if the lower bound
	// cannot be represented as an int.
	FloorLowerBoundToInt(a Interval) (int, error)
	// CeilLowerBoundToInt returns ⌈a.Lower⌉. It fails if the lower bound
	// cannot be represented as an int.
	CeilLowerBoundToInt(a Interval) (int, error)

	// GreaterThan reports whether every value of a is greater than every
	// value of b. It returns false only if no value of a is greater than any
	// value of b, and fails otherwise.
	GreaterThan(a, b Interval) (bool, error)
	// LessThan reports whether every value of a is less than every value of
	// b. It returns false only if no value of a is less than any value of b,
	// and fails otherwise.
	LessThan(a, b Interval) (bool, error)
}

func down(x float64) float64 {
	if math.IsInf(x, -1) || math.IsNaN(x) {
		return math.Inf(-1)
	}
	return math.Nextafter(x, math.Inf(-1))
}

func up(x float64) float64 {
	if math.IsInf(x, 1) || math.IsNaN(x) {
		return math.Inf(1)
	}
	return math.Nextafter(x, math.Inf(1))
}
