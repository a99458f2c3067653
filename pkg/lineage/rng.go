// Copyright 2025 KrakLabs
//
// SPDX-License-Identifier: AGPL-3.0-or-later

package lineage

import (
	"math/rand"
	"time"
)

// RNGSource is the randomness the loader consumes when sampling
// execution_time and execution_type. Injecting it (rather than calling
// math/rand's global functions directly) lets tests supply a deterministic
// sequence instead of depending on wall-clock seeding.
type RNGSource interface {
	Float64() float64
}

// defaultRNG wraps a seeded math/rand.Rand as the production RNGSource.
type defaultRNG struct {
	r *rand.Rand
}

// NewDefaultRNG returns an RNGSource seeded from the current time, suitable
// for production loads where execution_time/execution_type need not be
// reproducible.
func NewDefaultRNG() RNGSource {
	return &defaultRNG{r: rand.New(rand.NewSource(time.Now().UnixNano()))}
}

func (d *defaultRNG) Float64() float64 { return d.r.Float64() }

// executionTimeMinMS and executionTimeMaxMS bound the uniform
// execution_time sample, per the [10ms, 1000ms) range.
const (
	executionTimeMinMS = 10.0
	executionTimeMaxMS = 1000.0
)

func sampleExecutionTime(rng RNGSource) time.Duration {
	ms := executionTimeMinMS + rng.Float64()*(executionTimeMaxMS-executionTimeMinMS)
	return time.Duration(ms * float64(time.Millisecond))
}

type executionTypeWeight struct {
	Type   string
	Weight float64
}

// executionTypeWeights gives the fixed categorical distribution over
// execution types. FED carries probability 0 and is unreachable by design,
// kept here so the full enum stays visible next to its weights.
var executionTypeWeights = []executionTypeWeight{
	{"CP", 0.90},
	{"CP_FILE", 0.01},
	{"SPARK", 0.04},
	{"GPU", 0.05},
	{"FED", 0.00},
}

func sampleExecutionType(rng RNGSource) string {
	x := rng.Float64()
	cum := 0.0
	for _, w := range executionTypeWeights {
		cum += w.Weight
		if x < cum {
			return w.Type
		}
	}
	return executionTypeWeights[len(executionTypeWeights)-1].Type
}
