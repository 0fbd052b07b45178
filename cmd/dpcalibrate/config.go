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


package main

import (
	"fmt"
	"io"
	"os"

	"github.com/build2last/arx/dpparams"
	"github.com/build2last/arx/interval"
	"gopkg.in/yaml.v3"
)

// Budget is one (ε,δ) budget. Either the value or both bounds must be set
// for each parameter; a value is enclosed with interval.Around.
type Budget struct {
	Name         string  `yaml:"name"`
	Epsilon      float64 `yaml:"epsilon,omitempty"`
	EpsilonLower float64 `yaml:"epsilon_lower,omitempty"`
	EpsilonUpper float64 `yaml:"epsilon_upper,omitempty"`
	Delta        float64 `yaml:"delta,omitempty"`
	DeltaLower   float64 `yaml:"delta_lower,omitempty"`
	DeltaUpper   float64 `yaml:"delta_upper,omitempty"`
}

// Config is the content of a --config file.
type Config struct {
	Budgets []Budget `yaml:"budgets"`
	MaxK    int      `yaml:"max_k"`
	MaxN    int      `yaml:"max_n"`
}

// Report is written after calibration.
type Report struct {
	Results []NamedResult `yaml:"results"`
}

// NamedResult is a calibration result labelled with its budget name.
type NamedResult struct {
	Name            string `yaml:"name"`
	dpparams.Result `yaml:",inline"`
}

func loadConfig(path string) (*Config, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("couldn't open the config file = %q, err = %v", path, err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return nil, fmt.Errorf("couldn't read the config file = %q, err = %v", path, err)
	}
	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("couldn't parse the config file = %q, err = %v", path, err)
	}
	if err := config.validate(); err != nil {
		return nil, fmt.Errorf("invalid config file = %q: %w", path, err)
	}
	return &config, nil
}

func (c *Config) validate() error {
	if len(c.Budgets) == 0 {
		return fmt.Errorf("no budgets")
	}
	for i, b := range c.Budgets {
		if _, _, err := b.intervals(); err != nil {
			return fmt.Errorf("budget %d (%q): %w", i, b.Name, err)
		}
	}
	return nil
}

// intervals returns the ε and δ intervals of the budget.
func (b Budget) intervals() (epsilon, delta interval.Interval, err error) {
	epsilon, err = parameter("epsilon", b.Epsilon, b.EpsilonLower, b.EpsilonUpper)
	if err != nil {
		return interval.Interval{}, interval.Interval{}, err
	}
	delta, err = parameter("delta", b.Delta, b.DeltaLower, b.DeltaUpper)
	if err != nil {
		return interval.Interval{}, interval.Interval{}, err
	}
	return epsilon, delta, nil
}

func parameter(name string, value, lower, upper float64) (interval.Interval, error) {
	hasBounds := lower != 0 || upper != 0
	switch {
	case value != 0 && hasBounds:
		return interval.Interval{}, fmt.Errorf("%s: set either a value or bounds, not both", name)
	case value != 0:
		return interval.Around(value), nil
	case hasBounds:
		return interval.New(lower, upper)
	}
	return interval.Interval{}, fmt.Errorf("%s is not set", name)
}

func writeReport(w io.Writer, r *Report) error {
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(r); err != nil {
		return fmt.Errorf("couldn't encode the report, err = %v", err)
	}
	return enc.Close()
}
