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


// Package release applies a sampling-and-suppression mechanism to tabular
// data. With β and k calibrated by package dpparams the release satisfies the
// (ε,δ)-differential privacy budget the parameters were computed for.
//
// Each row is kept independently with probability β. The kept rows are then
// grouped by their quasi-identifier values, and every group with fewer than k
// rows is suppressed entirely.
package release

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/build2last/arx/checks"
	"github.com/build2last/arx/dpparams"
	"github.com/build2last/arx/rand"
	log "github.com/golang/glog"
)

// Options configures Apply.
type Options struct {
	// Beta is the probability of keeping each row. Required.
	Beta float64
	// K is the minimal number of sampled rows a group needs to be released.
	// Required.
	K int
	// Sample returns true with probability p. Defaults to rand.Bernoulli.
	// Only replace it in tests.
	Sample func(p float64) bool
}

// OptionsFromCalculator returns Options using the parameters of c.
func OptionsFromCalculator(c *dpparams.Calculator) *Options {
	return &Options{Beta: c.Beta(), K: c.K()}
}

// Result holds the released rows and statistics about the release.
type Result struct {
	// Rows are the released rows, in input order.
	Rows [][]string

	InputRows        int
	SampledRows      int
	SuppressedRows   int
	ReleasedGroups   int
	SuppressedGroups int
}

func (r *Result) String() string {
	return fmt.Sprintf("&Result(input %d, sampled %d, released %d in %d groups, suppressed %d in %d groups)",
		r.InputRows, r.SampledRows, len(r.Rows), r.ReleasedGroups, r.SuppressedRows, r.SuppressedGroups)
}

// Apply samples rows and suppresses small groups. Rows are grouped by the
// values at the column indices in quasiIdentifiers; with no quasi-identifiers
// all sampled rows form a single group.
func Apply(rows [][]string, quasiIdentifiers []int, opt *Options) (*Result, error) {
	if opt == nil {
		return nil, fmt.Errorf("release.Apply: options are required")
	}
	if err := checks.CheckProbability(opt.Beta, "Beta"); err != nil {
		return nil, fmt.Errorf("release.Apply: %w", err)
	}
	if err := checks.CheckGroupSize(opt.K); err != nil {
		return nil, fmt.Errorf("release.Apply: %w", err)
	}
	for _, col := range quasiIdentifiers {
		if col < 0 {
			return nil, fmt.Errorf("release.Apply: quasi-identifier column %d is negative", col)
		}
	}
	sample := opt.Sample
	if sample == nil {
		sample = rand.Bernoulli
	}

	var sampled []int
	groupOf := make(map[int]string)
	groupSize := make(map[string]int)
	for i, row := range rows {
		key, err := groupKey(row, quasiIdentifiers)
		if err != nil {
			return nil, fmt.Errorf("release.Apply: row %d: %w", i, err)
		}
		if !sample(opt.Beta) {
			continue
		}
		sampled = append(sampled, i)
		groupOf[i] = key
		groupSize[key]++
	}

	res := &Result{InputRows: len(rows), SampledRows: len(sampled)}
	for _, size := range groupSize {
		if size >= opt.K {
			res.ReleasedGroups++
		} else {
			res.SuppressedGroups++
			res.SuppressedRows += size
		}
	}
	for _, i := range sampled {
		if groupSize[groupOf[i]] >= opt.K {
			res.Rows = append(res.Rows, rows[i])
		}
	}
	log.V(1).Infof("release.Apply(β=%f, k=%d): %s", opt.Beta, opt.K, res)
	return res, nil
}

// groupKey encodes the quasi-identifier values of row. Each value is length
// prefixed so that distinct tuples never share a key.
func groupKey(row []string, quasiIdentifiers []int) (string, error) {
	var b strings.Builder
	for _, col := range quasiIdentifiers {
		if col >= len(row) {
			return "", fmt.Errorf("quasi-identifier column %d out of range for a row with %d columns", col, len(row))
		}
		b.WriteString(strconv.Itoa(len(row[col])))
		b.WriteByte(':')
		b.WriteString(row[col])
	}
	return b.String(), nil
}
