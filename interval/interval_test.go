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
	"errors"
	"math"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var arith = Float64{}

// encloses reports whether got contains the whole of want.
func encloses(got Interval, want ...float64) bool {
	for _, w := range want {
		if !got.Contains(w) {
			return false
		}
	}
	return got.Lower <= got.Upper
}

func TestNew(t *testing.T) {
	for _, tc := range []struct {
		desc         string
		lower, upper float64
		wantErr      bool
	}{
		{"regular interval", 1, 2, false},
		{"point interval", 1, 1, false},
		{"infinite bounds", math.Inf(-1), math.Inf(1), false},
		{"lower greater than upper", 2, 1, true},
		{"NaN lower bound", math.NaN(), 1, true},
		{"NaN upper bound", 1, math.NaN(), true},
	} {
		got, err := New(tc.lower, tc.upper)
		if (err != nil) != tc.wantErr {
			t.Errorf("New: when %s got err %v, want err %t", tc.desc, err, tc.wantErr)
		}
		if err == nil {
			if diff := cmp.Diff(Interval{tc.lower, tc.upper}, got); diff != "" {
				t.Errorf("New: when %s got diff (-want +got):\n%s", tc.desc, diff)
			}
		}
	}
}

func TestAround(t *testing.T) {
	for _, x := range []float64{0, 1e-5, 0.1, math.Log(3) / 2, -7.25} {
		got := Around(x)
		if !(got.Lower < x && x < got.Upper) {
			t.Errorf("Around(%g) = %v, want x strictly inside", x, got)
		}
		if got.Width() > 1e-15*math.Max(1, math.Abs(x)) {
			t.Errorf("Around(%g) = %v is too wide", x, got)
		}
	}
}

func TestElementaryOperationsEnclose(t *testing.T) {
	a, b := Interval{1, 2}, Interval{3, 4}
	neg := Interval{-1, 2}
	for _, tc := range []struct {
		desc string
		got  Interval
		want []float64
	}{
		{"add", arith.Add(a, b), []float64{4, 6}},
		{"sub", arith.Sub(a, b), []float64{-3, -1}},
		{"mul", arith.Mul(a, b), []float64{3, 8}},
		{"mul with sign change", arith.Mul(neg, b), []float64{-4, 8}},
		{"div", arith.Div(a, b), []float64{0.25, 2.0 / 3.0}},
		{"div by negative", arith.Div(a, Interval{-4, -2}), []float64{-1, -0.25}},
		{"exp", arith.Exp(Point(1)), []float64{math.E}},
		{"exp of zero", arith.Exp(arith.Zero()), []float64{1}},
		{"log", arith.Log(Point(math.E)), []float64{1}},
		{"log of one", arith.Log(arith.One()), []float64{0}},
		{"max", arith.Max(a, b), []float64{3, 4}},
		{"max of overlapping", arith.Max(Interval{0, 5}, b), []float64{3, 5}},
		{"from int", arith.FromInt(42), []float64{42}},
		{"minus one times", arith.Mul(arith.MinusOne(), a), []float64{-2, -1}},
	} {
		if !encloses(tc.got, tc.want...) {
			t.Errorf("%s: got %v, want an interval containing %v", tc.desc, tc.got, tc.want)
		}
		if w := tc.got.Width(); len(tc.want) == 1 && w > 1e-12 {
			t.Errorf("%s: got %v, width %g is too wide for a point operand", tc.desc, tc.got, w)
		}
	}
}

func TestFromLargeInt(t *testing.T) {
	n := 1<<53 + 1
	got := arith.FromInt(n)
	if got.IsPoint() || !got.Contains(float64(n)) {
		t.Errorf("FromInt(%d) = %v, want a non-degenerate interval around it", n, got)
	}
}

func TestOperationsLeavingTheirDomain(t *testing.T) {
	for _, tc := range []struct {
		desc      string
		got       Interval
		wantLower float64
		wantUpper float64
	}{
		{"div by interval containing zero", arith.Div(arith.One(), Interval{-1, 1}), math.Inf(-1), math.Inf(1)},
		{"div by interval touching zero", arith.Div(arith.One(), Interval{0, 1}), math.Inf(-1), math.Inf(1)},
		{"log of negative", arith.Log(Point(-1)), math.Inf(-1), math.Inf(1)},
		{"exp overflow", arith.Exp(Point(1000)), math.Inf(1), math.Inf(1)},
	} {
		if tc.got.Lower > tc.wantLower || tc.got.Upper < tc.wantUpper {
			t.Errorf("%s: got %v, want it to contain [%g, %g]", tc.desc, tc.got, tc.wantLower, tc.wantUpper)
		}
	}
	if got := arith.Log(Interval{0, 1}); !math.IsInf(got.Lower, -1) || got.Upper < 0 {
		t.Errorf("Log([0, 1]) = %v, want (-∞, ≥0]", got)
	}
	if got := arith.Exp(Point(math.Inf(-1))); got.Lower != 0 {
		t.Errorf("Exp(-∞) = %v, want lower bound 0", got)
	}
}

func TestBinomialProbability(t *testing.T) {
	for _, tc := range []struct {
		desc      string
		trials    int
		p         Interval
		successes int
		want      []float64
	}{
		{"fair coin mode", 10, Point(0.5), 5, []float64{252.0 / 1024.0}},
		{"fair coin tail", 10, Point(0.5), 10, []float64{1.0 / 1024.0}},
		{"no trials", 0, Point(0.3), 0, []float64{1}},
		{"zero probability", 5, Point(0), 0, []float64{1}},
		{"certain success", 5, Point(1), 5, []float64{1}},
		{"impossible outcome", 5, Point(0), 3, []float64{0}},
		{"interval probability", 10, Interval{0.3, 0.7}, 5,
			[]float64{252 * math.Pow(0.3, 5) * math.Pow(0.7, 5), 252.0 / 1024.0}},
		{"interval probability with mode outside", 10, Interval{0.6, 0.7}, 2,
			[]float64{45 * math.Pow(0.6, 2) * math.Pow(0.4, 8), 45 * math.Pow(0.7, 2) * math.Pow(0.3, 8)}},
		{"successes above trials", 3, Point(0.5), 4, []float64{0}},
	} {
		got := arith.BinomialProbability(tc.trials, tc.p, tc.successes)
		if !encloses(got, tc.want...) {
			t.Errorf("BinomialProbability: when %s got %v, want an interval containing %v", tc.desc, got, tc.want)
		}
		if got.Lower < 0 || got.Upper > 1 {
			t.Errorf("BinomialProbability: when %s got %v, want a sub-interval of [0, 1]", tc.desc, got)
		}
	}
}

func TestBinomialProbabilitySumsToOne(t *testing.T) {
	for _, n := range []int{1, 10, 100, 1000} {
		sum := arith.Zero()
		beta := Around(0.4226497308103742)
		for j := 0; j <= n; j++ {
			sum = arith.Add(sum, arith.BinomialProbability(n, beta, j))
		}
		if !sum.Contains(1) {
			t.Errorf("sum of Binomial(%d, %v) masses = %v, want it to contain 1", n, beta, sum)
		}
		if sum.Width() > 1e-8 {
			t.Errorf("sum of Binomial(%d, %v) masses = %v is too wide", n, beta, sum)
		}
	}
}

func TestLowerBoundToInt(t *testing.T) {
	for _, tc := range []struct {
		desc      string
		a         Interval
		wantFloor int
		wantCeil  int
		wantErr   bool
	}{
		{"fractional lower bound", Interval{2.5, 3}, 2, 3, false},
		{"integral lower bound", Interval{3, 3.5}, 3, 3, false},
		{"interval straddling an integer", Interval{2.9999, 3.0001}, 2, 3, false},
		{"negative lower bound", Interval{-0.5, 1}, -1, 0, false},
		{"infinite lower bound", Interval{math.Inf(-1), 1}, 0, 0, true},
		{"NaN lower bound", Interval{math.NaN(), 1}, 0, 0, true},
		{"huge lower bound", Interval{1e300, 1e301}, 0, 0, true},
	} {
		floor, err := arith.FloorLowerBoundToInt(tc.a)
		if (err != nil) != tc.wantErr {
			t.Errorf("FloorLowerBoundToInt: when %s got err %v, want err %t", tc.desc, err, tc.wantErr)
		}
		if err != nil && !errors.Is(err, ErrIndeterminate) {
			t.Errorf("FloorLowerBoundToInt: when %s got err %v, want ErrIndeterminate", tc.desc, err)
		}
		ceil, err := arith.CeilLowerBoundToInt(tc.a)
		if (err != nil) != tc.wantErr {
			t.Errorf("CeilLowerBoundToInt: when %s got err %v, want err %t", tc.desc, err, tc.wantErr)
		}
		if tc.wantErr {
			continue
		}
		if floor != tc.wantFloor {
			t.Errorf("FloorLowerBoundToInt: when %s got %d, want %d", tc.desc, floor, tc.wantFloor)
		}
		if ceil != tc.wantCeil {
			t.Errorf("CeilLowerBoundToInt: when %s got %d, want %d", tc.desc, ceil, tc.wantCeil)
		}
	}
}

func TestCertifiedComparisons(t *testing.T) {
	for _, tc := range []struct {
		desc        string
		a, b        Interval
		wantGreater bool
		wantLess    bool
		wantErr     bool
	}{
		{"a above b", Interval{2, 3}, Interval{0, 1}, true, false, false},
		{"a below b", Interval{0, 1}, Interval{2, 3}, false, true, false},
		{"a touches b from below", Interval{0, 1}, Interval{1, 2}, false, false, true},
		{"overlapping", Interval{0, 2}, Interval{1, 3}, false, false, true},
		{"identical points", Point(1), Point(1), false, false, false},
		{"sentinels", Point(-math.MaxFloat64), Point(math.MaxFloat64), false, true, false},
		{"NaN operand", Interval{math.NaN(), 1}, Point(0), false, false, true},
	} {
		greater, gErr := arith.GreaterThan(tc.a, tc.b)
		less, lErr := arith.LessThan(tc.a, tc.b)
		if tc.desc == "a touches b from below" {
			// a.Upper == b.Lower certifies a ≤ b, but not a < b.
			if gErr != nil || greater {
				t.Errorf("GreaterThan: when %s got (%t, %v), want (false, nil)", tc.desc, greater, gErr)
			}
			if !errors.Is(lErr, ErrIndeterminate) {
				t.Errorf("LessThan: when %s got err %v, want ErrIndeterminate", tc.desc, lErr)
			}
			continue
		}
		if tc.desc == "identical points" {
			if gErr != nil || greater || lErr != nil || less {
				t.Errorf("when %s got GreaterThan (%t, %v) and LessThan (%t, %v), want false without error", tc.desc, greater, gErr, less, lErr)
			}
			continue
		}
		if (gErr != nil) != tc.wantErr || (lErr != nil) != tc.wantErr {
			t.Errorf("when %s got errors %v and %v, want err %t", tc.desc, gErr, lErr, tc.wantErr)
			continue
		}
		if tc.wantErr {
			var ie *IndeterminateError
			if !errors.As(gErr, &ie) || ie.Op != "GreaterThan" {
				t.Errorf("GreaterThan: when %s got err %v, want an *IndeterminateError for GreaterThan", tc.desc, gErr)
			}
			if !errors.Is(lErr, ErrIndeterminate) {
				t.Errorf("LessThan: when %s got err %v, want ErrIndeterminate", tc.desc, lErr)
			}
			continue
		}
		if greater != tc.wantGreater {
			t.Errorf("GreaterThan: when %s got %t, want %t", tc.desc, greater, tc.wantGreater)
		}
		if less != tc.wantLess {
			t.Errorf("LessThan: when %s got %t, want %t", tc.desc, less, tc.wantLess)
		}
	}
}

func TestIndeterminateErrorMessage(t *testing.T) {
	err := &IndeterminateError{Op: "LessThan", A: Interval{0, 2}, B: Interval{1, 3}, Reason: "intervals overlap"}
	for _, want := range []string{"LessThan", "[0, 2]", "[1, 3]", "intervals overlap"} {
		if !strings.Contains(err.Error(), want) {
			t.Errorf("IndeterminateError.Error() = %q, want it to contain %q", err.Error(), want)
		}
	}
}
