package specs

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"cpuspecs/internal/cpuid"
)

// AVX-512 state component geometry reported by leaf 0xD subleaf 5
const (
	amdAVX512StateSize   uint32 = 0x40
	amdAVX512StateOffset uint32 = 0x340
)

func (d *decoder) amdThreads() {
	if d.leaves.MaxStandard >= leafTopology {
		d.topologyFromLeaf(leafTopology)
		return
	}
	features := d.query(leafFeatures, 0)
	var multiThreaded uint
	if bitSet(features[cpuid.EDX], 28) {
		multiThreaded = 1
	}
	d.specs.ThreadsPerCore = int(multiThreaded) + 1
	if d.leaves.MaxExtended >= leafAMDCoreCount {
		logical := int(d.query(leafAMDCoreCount, 0)[cpuid.ECX]&0xFF) + 1
		d.specs.CoreCount = logical >> multiThreaded
		return
	}
	if multiThreaded == 0 {
		return
	}
	cores := int(features[cpuid.EBX]>>16&0xFF) >> 1
	if d.leaves.MaxExtended >= leafExtSignature {
		// accepted only when the legacy multi-core bit confirms it
		if bitSet(d.query(leafExtSignature, 0)[cpuid.ECX], 1) {
			d.specs.CoreCount = cores
		}
		return
	}
	d.specs.CoreCount = cores
}

func (d *decoder) amdCaches() {
	if d.leaves.MaxExtended >= leafAMDCacheTopo && bitSet(d.query(leafExtSignature, 0)[cpuid.ECX], 22) {
		d.walkCacheDescriptors(leafAMDCacheTopo, false)
		return
	}
	if d.leaves.MaxExtended < leafAMDL1Cache {
		return
	}
	l1 := d.query(leafAMDL1Cache, 0)
	d.specs.CacheLineSize = int(l1[cpuid.ECX] & 0xFF)
	d.specs.Caches[L1] = CacheLevelSpecs{
		DataCacheSize:     int(l1[cpuid.ECX]>>24&0xFF) * KiB,
		AttachedCoreCount: 1,
	}
	if d.leaves.MaxExtended < leafAMDL2L3Cache {
		return
	}
	l2l3 := d.query(leafAMDL2L3Cache, 0)
	d.specs.Caches[L2] = CacheLevelSpecs{
		DataCacheSize:     int(l2l3[cpuid.ECX]>>16&0xFFFF) * KiB,
		AttachedCoreCount: 1,
	}
	d.specs.Caches[L3] = CacheLevelSpecs{
		DataCacheSize:     int(l2l3[cpuid.EDX]>>18&0x3FFF) * 512 * KiB,
		AttachedCoreCount: d.specs.CoreCount,
	}
}

func (d *decoder) amdInstructions() {
	if d.leaves.MaxStandard >= leafTopology {
		state := d.query(0xD, 5)
		d.specs.Instructions.Assign(AVX512F, state[cpuid.EAX] == amdAVX512StateSize && state[cpuid.EBX] == amdAVX512StateOffset)
	}
	// the TBM gate compares the extended leaf count with 0xB
	if d.leaves.MaxExtended >= leafTopology {
		d.specs.Instructions.Assign(TBM, bitSet(d.query(leafExtSignature, 0)[cpuid.ECX], 21))
	}
}
