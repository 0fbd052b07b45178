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


package dpparams

import (
	"fmt"
	"math"

	"github.com/build2last/arx/interval"
	log "github.com/golang/glog"
)

// solver evaluates the sequences for one ε. It owns the caches for a_n and
// c_n, which stay valid for every k because they do not depend on k.
type solver struct {
	arith interval.Arithmetic
	beta  interval.Interval
	gamma interval.Interval
	maxN  int

	// aCache and cCache are nil when memoization is disabled.
	aCache *sequenceCache
	cCache *sequenceCache
	// evaluations counts computed (not cached) indices.
	evaluations int
}

func newSolver(arith interval.Arithmetic, epsilon interval.Interval, opt *Options) *solver {
	s := &solver{arith: arith, maxN: opt.MaxN}
	if !opt.DisableMemoization {
		s.aCache = newSequenceCache()
		s.cCache = newSequenceCache()
	}
	s.beta = calculateBeta(arith, epsilon)
	s.gamma = calculateGamma(arith, epsilon, s.beta)
	return s
}

// calculateBeta returns 1 - exp(-ε).
func calculateBeta(arith interval.Arithmetic, epsilon interval.Interval) interval.Interval {
	return arith.Sub(arith.One(), arith.Exp(arith.Mul(arith.MinusOne(), epsilon)))
}

// calculateGamma returns (exp(ε) - 1 + β) / exp(ε).
func calculateGamma(arith interval.Arithmetic, epsilon, beta interval.Interval) interval.Interval {
	power := arith.Exp(epsilon)
	return arith.Div(arith.Add(arith.Sub(power, arith.One()), beta), power)
}

// a returns the binomial tail Σ_{j=⌊nγ⌋+1}^{n} Binom(j; n, β). The floor is
// taken of the lower bound of nγ, which can only add summands.
func (s *solver) a(n int) (interval.Interval, error) {
	arith := s.arith
	from, err := arith.FloorLowerBoundToInt(arith.Mul(arith.FromInt(n), s.gamma))
	if err != nil {
		return interval.Interval{}, fmt.Errorf("computing a_%d: %w", n, err)
	}
	sum := arith.Zero()
	for j := from + 1; j <= n; j++ {
		sum = arith.Add(sum, arith.BinomialProbability(n, s.beta, j))
	}
	return sum, nil
}

// c returns exp(-n (γ log(γ/β) - (γ - β))).
func (s *solver) c(n int) interval.Interval {
	arith := s.arith
	term1 := arith.Mul(s.gamma, arith.Log(arith.Div(s.gamma, s.beta)))
	term2 := arith.Sub(term1, arith.Sub(s.gamma, s.beta))
	return arith.Exp(arith.Mul(arith.MinusOne(), arith.Mul(arith.FromInt(n), term2)))
}

// sequences returns a_n and c_n, from the caches if possible.
func (s *solver) sequences(n int) (interval.Interval, interval.Interval, error) {
	if s.aCache != nil {
		if a, ok := s.aCache.get(n); ok {
			c, _ := s.cCache.get(n)
			return a, c, nil
		}
	}
	a, err := s.a(n)
	if err != nil {
		return interval.Interval{}, interval.Interval{}, err
	}
	c := s.c(n)
	s.evaluations++
	if s.aCache != nil {
		s.aCache.put(n, a)
		s.cCache.put(n, c)
	}
	return a, c, nil
}

// deltaFor returns δ(k): the running maximum of a_n for n = ⌈k/γ - 1⌉, ...
// once it is certified to exceed c_n.
func (s *solver) deltaFor(k int) (interval.Interval, error) {
	arith := s.arith
	start, err := arith.CeilLowerBoundToInt(arith.Sub(arith.Div(arith.FromInt(k), s.gamma), arith.One()))
	if err != nil {
		return interval.Interval{}, fmt.Errorf("computing the first index for k = %d: %w", k, err)
	}
	if start < 0 {
		start = 0
	}

	delta := arith.FromFloat(-math.MaxFloat64)
	bound := arith.FromFloat(math.MaxFloat64)
	for n := start; ; n++ {
		done, err := arith.GreaterThan(delta, bound)
		if err != nil {
			return interval.Interval{}, fmt.Errorf("comparing a_n with c_n at n = %d for k = %d: %w", n-1, k, err)
		}
		if done {
			log.V(2).Infof("δ(%d) = %v, found at n = %d", k, delta, n-1)
			return delta, nil
		}
		if s.maxN > 0 && n-start >= s.maxN {
			return interval.Interval{}, fmt.Errorf("%w: δ(%d) not bounded after %d indices starting at n = %d", ErrNotConverged, k, s.maxN, start)
		}
		a, c, err := s.sequences(n)
		if err != nil {
			return interval.Interval{}, fmt.Errorf("k = %d: %w", k, err)
		}
		delta = arith.Max(delta, a)
		bound = c
	}
}

// solveK returns the smallest k ≥ 1 for which δ(k) is certified to be less
// than target, together with δ(k).
func (s *solver) solveK(target interval.Interval, maxK int) (int, interval.Interval, error) {
	for k := 1; ; k++ {
		if maxK > 0 && k > maxK {
			return 0, interval.Interval{}, fmt.Errorf("%w: no k ≤ %d meets δ = %v", ErrNotConverged, maxK, target)
		}
		deltaK, err := s.deltaFor(k)
		if err != nil {
			return 0, interval.Interval{}, err
		}
		below, err := s.arith.LessThan(deltaK, target)
		if err != nil {
			return 0, interval.Interval{}, fmt.Errorf("comparing δ(%d) with the target: %w", k, err)
		}
		log.V(2).Infof("k = %d: δ(k) = %v, below target %v: %t", k, deltaK, target, below)
		if below {
			return k, deltaK, nil
		}
	}
}

// visited returns the number of distinct indices held in the caches, or the
// number of evaluations if memoization is disabled.
func (s *solver) visited() int {
	if s.aCache == nil {
		return s.evaluations
	}
	return s.aCache.len()
}
