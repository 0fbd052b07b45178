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


// Package stattestutils provides basic statistical utility functions for
// tests of randomized code.
//
// This package is not optimized for performance or speed and is only intended
// to be used in tests.
package stattestutils

import (
	"math"

	"gonum.org/v1/gonum/floats"
)

// Z999995 is the 99.9995% quantile of the standard normal distribution. A
// two-sided check with this tolerance falsely rejects with probability 10⁻⁵.
const Z999995 = 4.41717

// SampleMean returns the mean of a slice, calculated as the average over the
// values in the slice.
func SampleMean(values []float64) float64 {
	return floats.Sum(values) / math.Max(1, float64(len(values)))
}

// SampleVariance returns the variance of a slice, calculated as the sum of
// squares of the distance to the mean of each of the values, divided by the
// number of values.
func SampleVariance(values []float64) float64 {
	mean := SampleMean(values)
	var sumOfSquares float64
	for _, v := range values {
		sumOfSquares += (v - mean) * (v - mean)
	}
	return sumOfSquares / math.Max(1, float64(len(values)))
}

// ProportionTolerance returns the Z999995 tolerance for the observed success
// rate of trials independent Bernoulli(p) draws, using the normal
// approximation of the binomial distribution.
func ProportionTolerance(p float64, trials int) float64 {
	if trials <= 0 {
		return math.Inf(1)
	}
	return Z999995 * math.Sqrt(p*(1-p)/float64(trials))
}

// WithinProportion reports whether successes out of trials is consistent
// with a success probability of p.
func WithinProportion(successes, trials int, p float64) bool {
	if trials <= 0 {
		return successes == 0
	}
	observed := float64(successes) / float64(trials)
	return math.Abs(observed-p) <= ProportionTolerance(p, trials)
}
