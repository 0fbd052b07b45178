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


package interval

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"
)

const (
	// defaultSlack is the number of ulps by which Exp and Log widen their
	// results. Go's math.Exp and math.Log are accurate to within one ulp.
	defaultSlack = 4
	// binomialRelativeError bounds the relative error of every log-domain
	// term in a binomial mass evaluation.
	binomialRelativeError = 64 * 0x1p-52
	// maxExactInt is the largest integer n such that every integer in
	// [-n, n] is exactly representable as a float64.
	maxExactInt = 1 << 53
)

// Float64 is an Arithmetic on IEEE-754 binary64 intervals. Correctly
// rounded operations (+, -, *, /) move each bound one ulp outwards;
// transcendental functions move Slack ulps outwards.
//
// The zero value is ready to use.
type Float64 struct {
	// Slack is the number of ulps by which results of Exp, Log and
	// BinomialProbability are widened. Defaults to 4.
	Slack int
}

var _ Arithmetic = Float64{}

func (f Float64) slack() int {
	if f.Slack <= 0 {
		return defaultSlack
	}
	return f.Slack
}

// widen moves lower down and upper up by the given number of ulps.
func widen(lower, upper float64, ulps int) Interval {
	for i := 0; i < ulps; i++ {
		lower, upper = down(lower), up(upper)
	}
	return Interval{Lower: lower, Upper: upper}
}

func (Float64) Zero() Interval     { return Point(0) }
func (Float64) One() Interval      { return Point(1) }
func (Float64) MinusOne() Interval { return Point(-1) }

// FromInt returns [n, n] if n is exactly representable, and the enclosing
// one-ulp interval otherwise.
func (Float64) FromInt(n int) Interval {
	if int64(n) >= -maxExactInt && int64(n) <= maxExactInt {
		return Point(float64(n))
	}
	return Around(float64(n))
}

func (Float64) FromFloat(x float64) Interval {
	return Point(x)
}

func (Float64) Add(a, b Interval) Interval {
	return Interval{Lower: down(a.Lower + b.Lower), Upper: up(a.Upper + b.Upper)}
}

func (Float64) Sub(a, b Interval) Interval {
	return Interval{Lower: down(a.Lower - b.Upper), Upper: up(a.Upper - b.Lower)}
}

func (Float64) Mul(a, b Interval) Interval {
	p1, p2 := a.Lower*b.Lower, a.Lower*b.Upper
	p3, p4 := a.Upper*b.Lower, a.Upper*b.Upper
	return Interval{
		Lower: down(math.Min(math.Min(p1, p2), math.Min(p3, p4))),
		Upper: up(math.Max(math.Max(p1, p2), math.Max(p3, p4))),
	}
}

// Div returns (-∞, +∞) if b contains zero.
func (Float64) Div(a, b Interval) Interval {
	if b.Lower <= 0 && b.Upper >= 0 {
		return Interval{Lower: math.Inf(-1), Upper: math.Inf(1)}
	}
	q1, q2 := a.Lower/b.Lower, a.Lower/b.Upper
	q3, q4 := a.Upper/b.Lower, a.Upper/b.Upper
	return Interval{
		Lower: down(math.Min(math.Min(q1, q2), math.Min(q3, q4))),
		Upper: up(math.Max(math.Max(q1, q2), math.Max(q3, q4))),
	}
}

func (f Float64) Exp(a Interval) Interval {
	r := widen(math.Exp(a.Lower), math.Exp(a.Upper), f.slack())
	r.Lower = math.Max(r.Lower, 0)
	return r
}

// Log returns an interval with an infinite lower bound if a contains
// non-positive values, and (-∞, +∞) if a contains no positive value.
func (f Float64) Log(a Interval) Interval {
	if a.Upper <= 0 || math.IsNaN(a.Upper) {
		return Interval{Lower: math.Inf(-1), Upper: math.Inf(1)}
	}
	return widen(math.Log(math.Max(a.Lower, 0)), math.Log(a.Upper), f.slack())
}

func (Float64) Max(a, b Interval) Interval {
	return Interval{Lower: math.Max(a.Lower, b.Lower), Upper: math.Max(a.Upper, b.Upper)}
}

// BinomialProbability evaluates the mass in the log domain. The log mass is
// concave in p, so over [p.Lower, p.Upper] its minimum is attained at an end
// point and its maximum at the mode successes/trials, or at an end point if
// the mode lies outside the interval.
func (f Float64) BinomialProbability(trials int, p Interval, successes int) Interval {
	if trials < 0 || successes < 0 || successes > trials {
		return f.Zero()
	}
	lo, hi := math.Max(p.Lower, 0), math.Min(p.Upper, 1)
	if math.IsNaN(lo) || math.IsNaN(hi) || lo > hi {
		return Interval{Lower: 0, Upper: 1}
	}

	atLo, atHi := logBinomialMass(trials, successes, lo), logBinomialMass(trials, successes, hi)
	minLog, maxLog := math.Min(atLo, atHi), math.Max(atLo, atHi)
	if mode := float64(successes) / float64(trials); trials > 0 && lo < mode && mode < hi {
		maxLog = math.Max(maxLog, logBinomialMass(trials, successes, mode))
	}

	errBound := binomialRelativeError * (1 + math.Max(
		logBinomialMagnitude(trials, successes, lo),
		logBinomialMagnitude(trials, successes, hi)))
	r := widen(math.Exp(minLog-errBound), math.Exp(maxLog+errBound), f.slack())
	r.Lower = math.Max(r.Lower, 0)
	r.Upper = math.Min(r.Upper, 1)
	return r
}

// logBinomialMass returns log P[X = j] for X ~ Binomial(n, p).
func logBinomialMass(n, j int, p float64) float64 {
	switch p {
	case 0:
		if j == 0 {
			return 0
		}
		return math.Inf(-1)
	case 1:
		if j == n {
			return 0
		}
		return math.Inf(-1)
	}
	return distuv.Binomial{N: float64(n), P: p}.LogProb(float64(j))
}

// logBinomialMagnitude returns the sum of the absolute values of the terms
// that make up logBinomialMass, which scales its absolute rounding error.
func logBinomialMagnitude(n, j int, p float64) float64 {
	lgN, _ := math.Lgamma(float64(n + 1))
	lgJ, _ := math.Lgamma(float64(j + 1))
	lgNJ, _ := math.Lgamma(float64(n - j + 1))
	m := math.Abs(lgN) + math.Abs(lgJ) + math.Abs(lgNJ)
	if p > 0 && j > 0 {
		m += math.Abs(float64(j) * math.Log(p))
	}
	if p < 1 && j < n {
		m += math.Abs(float64(n-j) * math.Log1p(-p))
	}
	return m
}

func (Float64) FloorLowerBoundToInt(a Interval) (int, error) {
	return lowerBoundToInt("FloorLowerBoundToInt", a, math.Floor)
}

func (Float64) CeilLowerBoundToInt(a Interval) (int, error) {
	return lowerBoundToInt("CeilLowerBoundToInt", a, math.Ceil)
}

func lowerBoundToInt(op string, a Interval, round func(float64) float64) (int, error) {
	if math.IsNaN(a.Lower) || math.IsInf(a.Lower, 0) {
		return 0, &IndeterminateError{Op: op, A: a, Reason: "lower bound is not finite"}
	}
	r := round(a.Lower)
	if r < math.MinInt32 || r > math.MaxInt32 {
		return 0, &IndeterminateError{Op: op, A: a, Reason: "lower bound does not fit in an int"}
	}
	return int(r), nil
}

func (Float64) GreaterThan(a, b Interval) (bool, error) {
	if hasNaN(a, b) {
		return false, &IndeterminateError{Op: "GreaterThan", A: a, B: b, Reason: "operand is NaN"}
	}
	switch {
	case a.Lower > b.Upper:
		return true, nil
	case a.Upper <= b.Lower:
		return false, nil
	}
	return false, &IndeterminateError{Op: "GreaterThan", A: a, B: b, Reason: "intervals overlap"}
}

func (Float64) LessThan(a, b Interval) (bool, error) {
	if hasNaN(a, b) {
		return false, &IndeterminateError{Op: "LessThan", A: a, B: b, Reason: "operand is NaN"}
	}
	switch {
	case a.Upper < b.Lower:
		return true, nil
	case a.Lower >= b.Upper:
		return false, nil
	}
	return false, &IndeterminateError{Op: "LessThan", A: a, B: b, Reason: "intervals overlap"}
}

func hasNaN(a, b Interval) bool {
	return math.IsNaN(a.Lower) || math.IsNaN(a.Upper) || math.IsNaN(b.Lower) || math.IsNaN(b.Upper)
}
