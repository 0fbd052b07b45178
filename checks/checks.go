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


// Package checks contains parameter checks for the calibration and release
// packages.
package checks

import (
	"fmt"
	"math"

	"github.com/build2last/arx/interval"
	log "github.com/golang/glog"
)

const (
	epsilonName     = "Epsilon"
	deltaName       = "Delta"
	probabilityName = "Probability"
	groupSizeName   = "K"
)

func verifyName(defaultName string, nameSlice []string) (string, error) {
	var name string
	switch len(nameSlice) {
	case 0:
		name = defaultName
	case 1:
		name = nameSlice[0]
	default:
		return "", fmt.Errorf("This should never happen. There should be 0 or 1 'name' parameter, got %d", len(nameSlice))
	}
	return name, nil
}

// CheckEpsilonStrict returns an error if ε is nonpositive or +∞.
func CheckEpsilonStrict(epsilon float64, name ...string) error {
	epsName, err := verifyName(epsilonName, name)
	if err != nil {
		return err
	}
	if epsilon <= 0 || math.IsInf(epsilon, 0) || math.IsNaN(epsilon) {
		return fmt.Errorf("%s is %f, must be strictly positive and finite", epsName, epsilon)
	}
	return nil
}

// CheckDeltaStrict returns an error if δ is nonpositive or greater than or equal to 1.
func CheckDeltaStrict(delta float64, name ...string) error {
	delName, err := verifyName(deltaName, name)
	if err != nil {
		return err
	}
	if math.IsNaN(delta) {
		return fmt.Errorf("%s is %e, cannot be NaN", delName, delta)
	}
	if delta <= 0 {
		return fmt.Errorf("%s is %e, must be strictly positive", delName, delta)
	}
	if delta >= 1 {
		return fmt.Errorf("%s is %e, must be strictly less than 1", delName, delta)
	}
	return nil
}

// CheckEpsilonInterval returns an error if the interval is malformed or if
// any of its values is nonpositive or +∞.
func CheckEpsilonInterval(epsilon interval.Interval, name ...string) error {
	epsName, err := verifyName(epsilonName, name)
	if err != nil {
		return err
	}
	if err := checkInterval(epsilon, epsName); err != nil {
		return err
	}
	if err := CheckEpsilonStrict(epsilon.Lower, epsName+" lower bound"); err != nil {
		return err
	}
	return CheckEpsilonStrict(epsilon.Upper, epsName+" upper bound")
}

// CheckDeltaInterval returns an error if the interval is malformed or if any
// of its values is nonpositive or greater than or equal to 1.
func CheckDeltaInterval(delta interval.Interval, name ...string) error {
	delName, err := verifyName(deltaName, name)
	if err != nil {
		return err
	}
	if err := checkInterval(delta, delName); err != nil {
		return err
	}
	if err := CheckDeltaStrict(delta.Lower, delName+" lower bound"); err != nil {
		return err
	}
	return CheckDeltaStrict(delta.Upper, delName+" upper bound")
}

func checkInterval(i interval.Interval, name string) error {
	if _, err := interval.New(i.Lower, i.Upper); err != nil {
		return fmt.Errorf("%s is %v: %w", name, i, err)
	}
	if i.IsPoint() {
		log.Warningf("%s is the point interval %v: make sure %g is exactly the intended value, or use interval.Around", name, i, i.Lower)
	}
	return nil
}

// CheckProbability returns an error if p is not within [0, 1].
func CheckProbability(p float64, name ...string) error {
	pName, err := verifyName(probabilityName, name)
	if err != nil {
		return err
	}
	if p < 0 || p > 1 || math.IsNaN(p) {
		return fmt.Errorf("%s is %f, must be within [0, 1]", pName, p)
	}
	return nil
}

// CheckGroupSize returns an error if k is less than 1.
func CheckGroupSize(k int, name ...string) error {
	kName, err := verifyName(groupSizeName, name)
	if err != nil {
		return err
	}
	if k < 1 {
		return fmt.Errorf("%s is %d, must be at least 1", kName, k)
	}
	return nil
}

// CheckMaxIterations returns an error if maxIterations is negative. Zero
// means unbounded.
func CheckMaxIterations(maxIterations int, name string) error {
	if maxIterations < 0 {
		return fmt.Errorf("%s is %d, must be nonnegative", name, maxIterations)
	}
	return nil
}
