// Package specs decodes a processor capability profile (cache hierarchy, core and
// thread topology, instruction set extensions and identity) from the values the
// CPUID instruction returns.
//
// Decoding is deterministic for a given set of register values. Every query goes
// through a cpuid.Querier, so the decoders can be driven by the hardware, by a
// recorded dump, or by a test script.
package specs

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"fmt"
)

// KiB is the unit cache sizes are reported in by the legacy AMD leaves
const KiB = 1024

// CacheLevel indexes the cache levels of a Specs value
type CacheLevel int

const (
	L1 CacheLevel = iota
	L2
	L3
	// CacheLevelCount is the number of cache levels tracked
	CacheLevelCount
)

// CacheLevels lists the tracked levels from L1 to L3
var CacheLevels = []CacheLevel{L1, L2, L3}

func (l CacheLevel) String() string {
	return fmt.Sprintf("L%d", int(l)+1)
}

// CacheLevelSpecs describes the data (or unified) cache of one level
type CacheLevelSpecs struct {
	// DataCacheSize is in bytes
	DataCacheSize int
	// AttachedCoreCount is the number of cores sharing one instance of the cache
	AttachedCoreCount int
}

// LeafContext holds the highest standard and extended leaves the processor reports.
// It is zero when CPUID is unavailable.
type LeafContext struct {
	MaxStandard uint32
	MaxExtended uint32
}

// Specs is the capability profile produced by decoding
type Specs struct {
	Caches         [CacheLevelCount]CacheLevelSpecs
	CacheLineSize  int
	ThreadsPerCore int
	CoreCount      int
	Instructions   InstructionSet
}

// Cache returns the specs of one cache level
func (s Specs) Cache(level CacheLevel) CacheLevelSpecs {
	if level < L1 || level >= CacheLevelCount {
		return CacheLevelSpecs{}
	}
	return s.Caches[level]
}

// LogicalCount returns the number of hardware threads
func (s Specs) LogicalCount() int {
	return s.CoreCount * s.ThreadsPerCore
}

// Profile bundles everything decoded in one pass
type Profile struct {
	Available bool
	Leaves    LeafContext
	Specs     Specs
	Identity  Identity
}

// Vendor returns the vendor named by the identity signature
func (p Profile) Vendor() Vendor {
	return p.Identity.Vendor()
}
