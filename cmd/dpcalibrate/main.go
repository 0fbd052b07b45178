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


// Command dpcalibrate computes the sampling probability β and the minimal
// group size k that make a sampling-and-suppression release satisfy an
// (ε,δ)-differential privacy budget, and optionally applies the release to a
// csv file.
//
// Usage examples:
//
//	go run ./cmd/dpcalibrate --epsilon=0.5493061443340549 --delta=1e-5
//	go run ./cmd/dpcalibrate --config=budgets.yaml
//	go run ./cmd/dpcalibrate --epsilon=1 --delta=1e-6 --input_file=data.csv \
//	    --output_file=released.csv --quasi_identifiers=age,zip
package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/build2last/arx/dpparams"
	"github.com/build2last/arx/interval"
	"github.com/build2last/arx/release"
	log "github.com/golang/glog"
)

var (
	epsilon      = flag.Float64("epsilon", 0, "Privacy loss ε, enclosed in the tightest surrounding interval.")
	epsilonLower = flag.Float64("epsilon_lower", 0, "Lower bound of ε. Use together with --epsilon_upper instead of --epsilon.")
	epsilonUpper = flag.Float64("epsilon_upper", 0, "Upper bound of ε.")
	delta        = flag.Float64("delta", 0, "Failure probability δ, enclosed in the tightest surrounding interval.")
	deltaLower   = flag.Float64("delta_lower", 0, "Lower bound of δ. Use together with --delta_upper instead of --delta.")
	deltaUpper   = flag.Float64("delta_upper", 0, "Upper bound of δ.")
	configFile   = flag.String("config", "", "YAML file with a list of budgets. Overrides the budget flags.")
	maxK         = flag.Int("max_k", 0, "Diagnostic ceiling on k. 0 means no ceiling.")
	maxN         = flag.Int("max_n", 0, "Diagnostic ceiling on sequence indices per k. 0 means no ceiling.")
	inputFile    = flag.String("input_file", "", "Optional csv file with a header row to release.")
	outputFile   = flag.String("output_file", "", "Output csv file for the released rows.")
	qiColumns    = flag.String("quasi_identifiers", "", "Comma separated quasi-identifier column names of --input_file.")
)

func main() {
	flag.Parse()

	config, err := configFromFlags()
	if err != nil {
		log.Exitf("Invalid arguments: %v", err)
	}
	report, calculators, err := calibrate(config)
	if err != nil {
		log.Exitf("Calibration failed: %v", err)
	}
	if err := writeReport(os.Stdout, report); err != nil {
		log.Exitf("Couldn't write the report: %v", err)
	}

	if *inputFile == "" {
		return
	}
	if len(calculators) != 1 {
		log.Exitf("--input_file needs exactly one budget, got %d", len(calculators))
	}
	if *outputFile == "" {
		log.Exit("No output file for the released rows was chosen")
	}
	if err := releaseFile(calculators[0], *inputFile, *outputFile, splitColumns(*qiColumns), os.Stderr); err != nil {
		log.Exitf("Couldn't release %q: %v", *inputFile, err)
	}
}

func configFromFlags() (*Config, error) {
	if *configFile != "" {
		config, err := loadConfig(*configFile)
		if err != nil {
			return nil, err
		}
		if *maxK != 0 {
			config.MaxK = *maxK
		}
		if *maxN != 0 {
			config.MaxN = *maxN
		}
		return config, nil
	}
	config := &Config{
		Budgets: []Budget{{
			Name:         "flags",
			Epsilon:      *epsilon,
			EpsilonLower: *epsilonLower,
			EpsilonUpper: *epsilonUpper,
			Delta:        *delta,
			DeltaLower:   *deltaLower,
			DeltaUpper:   *deltaUpper,
		}},
		MaxK: *maxK,
		MaxN: *maxN,
	}
	if err := config.validate(); err != nil {
		return nil, err
	}
	return config, nil
}

// calibrate runs one calibration per budget. It stops at the first failure.
func calibrate(config *Config) (*Report, []*dpparams.Calculator, error) {
	report := &Report{}
	var calculators []*dpparams.Calculator
	for _, b := range config.Budgets {
		eps, del, err := b.intervals()
		if err != nil {
			return nil, nil, fmt.Errorf("budget %q: %w", b.Name, err)
		}
		log.Infof("Calibrating budget %q: ε = %v, δ = %v", b.Name, eps, del)
		c, err := dpparams.NewCalculator(interval.Float64{}, eps, del, &dpparams.Options{MaxK: config.MaxK, MaxN: config.MaxN})
		if err != nil {
			return nil, nil, fmt.Errorf("budget %q: %w", b.Name, err)
		}
		report.Results = append(report.Results, NamedResult{Name: b.Name, Result: c.Result()})
		calculators = append(calculators, c)
	}
	return report, calculators, nil
}

func releaseFile(c *dpparams.Calculator, input, output string, qiNames []string, summary io.Writer) error {
	header, rows, err := readTableFromCSV(input)
	if err != nil {
		return err
	}
	qis, err := columnIndices(header, qiNames)
	if err != nil {
		return err
	}
	res, err := release.Apply(rows, qis, release.OptionsFromCalculator(c))
	if err != nil {
		return err
	}
	if err := writeTableToCSV(header, res.Rows, output); err != nil {
		return err
	}
	_, err = fmt.Fprintf(summary, "released %d of %d rows (%d sampled, %d suppressed in %d groups)\n",
		len(res.Rows), res.InputRows, res.SampledRows, res.SuppressedRows, res.SuppressedGroups)
	return err
}

func splitColumns(s string) []string {
	var cols []string
	for _, c := range strings.Split(s, ",") {
		if c = strings.TrimSpace(c); c != "" {
			cols = append(cols, c)
		}
	}
	return cols
}
