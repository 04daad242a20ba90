package specs

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"cpuspecs/internal/cpuid"
)

func (d *decoder) intelThreads() {
	switch {
	case d.leaves.MaxStandard >= leafTopologyV2:
		d.topologyFromLeaf(leafTopologyV2)
	case d.leaves.MaxStandard >= leafTopology:
		d.topologyFromLeaf(leafTopology)
	default:
		features := d.query(leafFeatures, 0)
		if !bitSet(features[cpuid.EDX], 28) {
			d.specs.ThreadsPerCore = 1
			return
		}
		d.specs.ThreadsPerCore = 2
		d.specs.CoreCount = int(features[cpuid.EBX]>>16&0xFF) / d.specs.ThreadsPerCore
	}
}

func (d *decoder) intelCaches() {
	if d.leaves.MaxStandard >= leafIntelCacheDesc {
		d.walkCacheDescriptors(leafIntelCacheDesc, true)
	}
}

func (d *decoder) intelInstructions() {
	if d.leaves.MaxStandard >= leafExtFeatures {
		d.specs.Instructions.Assign(AVX512F, bitSet(d.query(leafExtFeatures, 0)[cpuid.EBX], 16))
	}
}
