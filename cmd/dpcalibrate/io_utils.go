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
	"encoding/csv"
	"fmt"
	"io"
	"os"
)

// readTableFromCSV returns the header and the data rows of a csv file.
func readTableFromCSV(inputFile string) ([]string, [][]string, error) {
	csvFile, err := os.Open(inputFile)
	if err != nil {
		return nil, nil, fmt.Errorf("couldn't open the csv file = %q, err = %v", inputFile, err)
	}
	defer csvFile.Close()

	r := csv.NewReader(csvFile)
	var header []string
	rows := make([][]string, 0)
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("couldn't read the csv file = %q, err = %v", inputFile, err)
		}
		if header == nil {
			header = record
			continue
		}
		rows = append(rows, record)
	}
	if header == nil {
		return nil, nil, fmt.Errorf("the csv file = %q has no header", inputFile)
	}
	return header, rows, nil
}

func writeTableToCSV(header []string, rows [][]string, outputFile string) error {
	csvFile, err := os.Create(outputFile)
	if err != nil {
		return fmt.Errorf("couldn't open the csv file = %q, err = %v", outputFile, err)
	}

	writer := csv.NewWriter(csvFile)
	if err := writer.Write(header); err != nil {
		return fmt.Errorf("couldn't write to the csv file = %q, err = %v",
			outputFile, combineErrors(err, csvFile.Close()))
	}
	if err := writer.WriteAll(rows); err != nil {
		return fmt.Errorf("couldn't write to the csv file = %q, err = %v",
			outputFile, combineErrors(err, csvFile.Close()))
	}

	if err := csvFile.Close(); err != nil {
		return fmt.Errorf("couldn't close the csv file = %q, err = %v", outputFile, err)
	}
	return nil
}

// columnIndices maps column names to their positions in header.
func columnIndices(header, names []string) ([]int, error) {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		positions[h] = i
	}
	indices := make([]int, 0, len(names))
	for _, name := range names {
		i, ok := positions[name]
		if !ok {
			return nil, fmt.Errorf("column %q not found in header %v", name, header)
		}
		indices = append(indices, i)
	}
	return indices, nil
}

func combineErrors(errors ...error) string {
	var nonNilErrors []error
	for _, err := range errors {
		if err != nil {
			nonNilErrors = append(nonNilErrors, err)
		}
	}
	return fmt.Sprintf("%+v", nonNilErrors)
}
