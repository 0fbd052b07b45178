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


// Package dpparams calibrates the parameters of a sampling-and-suppression
// release mechanism so that it satisfies an (ε,δ)-differential privacy
// budget.
//
// The mechanism keeps every record independently with probability β and then
// suppresses every group of records that share their quasi-identifier values
// if the group has fewer than k members. For a given ε the largest admissible
// sampling probability is
//
//	β = 1 - exp(-ε)
//
// and k is the smallest group size for which
//
//	δ(k) = max_{n ≥ ⌈k/γ - 1⌉} Σ_{j > γn} Binom(j; n, β)
//
// is below the target δ, where γ = (exp(ε) - 1 + β) / exp(ε). The maximum is
// taken until the running maximum exceeds the large-deviation bound
//
//	c_n = exp(-n (γ log(γ/β) - (γ - β)))
//
// beyond which no later term can be larger.
//
// All quantities are computed with bounding interval arithmetic and every
// decision is certified. If the supplied intervals are too imprecise for a
// decision, NewCalculator fails with interval.ErrIndeterminate rather than
// returning parameters that might not meet the budget.
//
// See "SafePub: A Truthful Data Anonymization Algorithm With Strong Privacy
// Guarantees" (Bild, Kuhn, Prasser; PoPETs 2018) for the underlying proofs.
package dpparams

import (
	"errors"
	"fmt"

	"github.com/build2last/arx/checks"
	"github.com/build2last/arx/interval"
	log "github.com/golang/glog"
)

// ErrNotConverged is returned when a search exceeds the iteration ceiling
// configured in Options.
var ErrNotConverged = errors.New("dpparams: search did not converge")

// Options configures a Calculator. The zero value and nil both select the
// defaults.
type Options struct {
	// MaxK is a diagnostic ceiling on the candidate group size k. The search
	// for k terminates for every valid budget, so MaxK is only needed to
	// guard against a faulty Arithmetic. Defaults to 0, meaning no ceiling.
	MaxK int
	// MaxN is a diagnostic ceiling on the number of sequence indices
	// visited while evaluating δ(k) for a single k. Defaults to 0, meaning
	// no ceiling.
	MaxN int
	// DisableMemoization recomputes the binomial tail sums and bounds for
	// every visited index instead of caching them across candidate values
	// of k. Results are identical; only the running time changes.
	DisableMemoization bool
}

// Calculator holds (β, k) calibrated for an (ε,δ) budget. It is immutable
// once NewCalculator returns.
type Calculator struct {
	epsilon interval.Interval
	delta   interval.Interval

	betaInterval  interval.Interval
	gamma         interval.Interval
	achievedDelta interval.Interval
	beta          float64
	k             int
}

// Result is a serializable summary of a calibration.
type Result struct {
	EpsilonLower  float64 `yaml:"epsilon_lower"`
	EpsilonUpper  float64 `yaml:"epsilon_upper"`
	DeltaLower    float64 `yaml:"delta_lower"`
	DeltaUpper    float64 `yaml:"delta_upper"`
	Beta          float64 `yaml:"beta"`
	K             int     `yaml:"k"`
	AchievedDelta float64 `yaml:"achieved_delta"`
}

// NewCalculator computes β and k for the budget (epsilon, delta) using arith
// for every numeric operation. It returns an error wrapping
// interval.ErrIndeterminate if any decision along the way cannot be
// certified, and ErrNotConverged if a ceiling set in opt is exceeded. No
// partial result is ever returned.
func NewCalculator(arith interval.Arithmetic, epsilon, delta interval.Interval, opt *Options) (*Calculator, error) {
	if opt == nil {
		opt = &Options{}
	}
	if arith == nil {
		return nil, errors.New("dpparams.NewCalculator: arithmetic must not be nil")
	}
	if err := checks.CheckEpsilonInterval(epsilon); err != nil {
		return nil, fmt.Errorf("dpparams.NewCalculator: %w", err)
	}
	if err := checks.CheckDeltaInterval(delta); err != nil {
		return nil, fmt.Errorf("dpparams.NewCalculator: %w", err)
	}
	if err := checks.CheckMaxIterations(opt.MaxK, "MaxK"); err != nil {
		return nil, fmt.Errorf("dpparams.NewCalculator: %w", err)
	}
	if err := checks.CheckMaxIterations(opt.MaxN, "MaxN"); err != nil {
		return nil, fmt.Errorf("dpparams.NewCalculator: %w", err)
	}

	s := newSolver(arith, epsilon, opt)
	k, achieved, err := s.solveK(delta, opt.MaxK)
	if err != nil {
		return nil, fmt.Errorf("dpparams.NewCalculator(ε=%v, δ=%v): %w", epsilon, delta, err)
	}
	c := &Calculator{
		epsilon:       epsilon,
		delta:         delta,
		betaInterval:  s.beta,
		gamma:         s.gamma,
		achievedDelta: achieved,
		beta:          s.beta.Lower,
		k:             k,
	}
	log.V(1).Infof("%s: visited %d sequence indices", c, s.visited())
	return c, nil
}

// Beta returns the sampling probability. It is the lower bound of the
// enclosure of 1 - exp(-ε): a smaller β only strengthens the guarantee.
func (c *Calculator) Beta() float64 {
	return c.beta
}

// K returns the smallest group size for which δ(k) is certified to be below
// the target δ.
func (c *Calculator) K() int {
	return c.k
}

// BetaInterval returns the enclosure of 1 - exp(-ε) that Beta was taken from.
func (c *Calculator) BetaInterval() interval.Interval {
	return c.betaInterval
}

// Gamma returns the enclosure of (exp(ε) - 1 + β) / exp(ε).
func (c *Calculator) Gamma() interval.Interval {
	return c.gamma
}

// AchievedDelta returns the enclosure of δ(K()), which is certified to be
// below the target δ.
func (c *Calculator) AchievedDelta() interval.Interval {
	return c.achievedDelta
}

// Result returns a summary of the calibration.
func (c *Calculator) Result() Result {
	return Result{
		EpsilonLower:  c.epsilon.Lower,
		EpsilonUpper:  c.epsilon.Upper,
		DeltaLower:    c.delta.Lower,
		DeltaUpper:    c.delta.Upper,
		Beta:          c.beta,
		K:             c.k,
		AchievedDelta: c.achievedDelta.Upper,
	}
}

func (c *Calculator) String() string {
	return fmt.Sprintf("&Calculator(epsilon %v, delta %v, beta %f, k %d)", c.epsilon, c.delta, c.beta, c.k)
}
