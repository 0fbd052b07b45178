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

import "github.com/build2last/arx/interval"

// sequenceCache memoizes one interval per non-negative index. Entries are
// written at most once and never evicted.
type sequenceCache struct {
	values map[int]interval.Interval
}

func newSequenceCache() *sequenceCache {
	return &sequenceCache{values: make(map[int]interval.Interval)}
}

func (c *sequenceCache) get(n int) (interval.Interval, bool) {
	v, ok := c.values[n]
	return v, ok
}

// put stores v for n unless a value is already present.
func (c *sequenceCache) put(n int, v interval.Interval) {
	if _, ok := c.values[n]; ok {
		return
	}
	c.values[n] = v
}

func (c *sequenceCache) len() int {
	return len(c.values)
}
