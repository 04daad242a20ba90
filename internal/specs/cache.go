package specs

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"log/slog"

	"cpuspecs/internal/cpuid"
)

// maxCacheDescriptors bounds the subleaf walk of the deterministic cache leaves
const maxCacheDescriptors = 64

// cacheDescriptor is one subleaf of leaf 4 (Intel) or leaf 0x8000001D (AMD)
type cacheDescriptor struct {
	cacheType      uint32 // 0 means no more caches
	level          int
	sharingThreads int
	ways           int
	partitions     int
	sets           int
}

func parseCacheDescriptor(regs cpuid.Registers) cacheDescriptor {
	return cacheDescriptor{
		cacheType:      regs[cpuid.EAX] & 0xF,
		level:          int(regs[cpuid.EAX]>>5&0x3),
		sharingThreads: int(regs[cpuid.EAX]>>14&0xFFF) + 1,
		ways:           int(regs[cpuid.EBX]>>22) + 1,
		partitions:     int(regs[cpuid.EBX]>>12&0x3FF) + 1,
		sets:           int(regs[cpuid.ECX]) + 1,
	}
}

// holdsData is true for data and unified caches
func (c cacheDescriptor) holdsData() bool {
	return c.cacheType&1 == 1
}

func (c cacheDescriptor) lineCount() int {
	return c.partitions * c.ways * c.sets
}

// walkCacheDescriptors decodes the line size from subleaf 0 and then every data
// or unified cache descriptor until the terminating null descriptor. When
// clampToCores is set the attached core count is capped at the core count.
func (d *decoder) walkCacheDescriptors(leaf uint32, clampToCores bool) {
	regs := d.query(leaf, 0)
	d.specs.CacheLineSize = int(regs[cpuid.EBX]&0x7F) + 1
	for subleaf := uint32(0); subleaf < maxCacheDescriptors; subleaf++ {
		if subleaf > 0 {
			regs = d.query(leaf, subleaf)
		}
		desc := parseCacheDescriptor(regs)
		if desc.cacheType == 0 {
			return
		}
		if !desc.holdsData() {
			continue
		}
		if desc.level < 1 || desc.level > int(CacheLevelCount) {
			slog.Debug("skipping cache descriptor", slog.Int("level", desc.level), slog.Int("subleaf", int(subleaf)))
			continue
		}
		attached := desc.sharingThreads / d.specs.ThreadsPerCore
		if clampToCores {
			attached = min(attached, d.specs.CoreCount)
		}
		d.specs.Caches[desc.level-1] = CacheLevelSpecs{
			DataCacheSize:     desc.lineCount() * d.specs.CacheLineSize,
			AttachedCoreCount: attached,
		}
	}
	slog.Warn("cache descriptor list not terminated", slog.String("leaf", cpuid.Key{Leaf: leaf}.String()))
}
