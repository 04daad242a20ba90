// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package compare

import (
	"runtime"

	kcpuid "github.com/klauspost/cpuid/v2"
	"golang.org/x/sys/cpu"

	"cpuspecs/internal/specs"
)

const (
	SourceXSys      = "golang.org/x/sys/cpu"
	SourceKlauspost = "github.com/klauspost/cpuid/v2"
)

// References returns the reference detections available on this architecture
func References() []Reference {
	if runtime.GOARCH != "amd64" && runtime.GOARCH != "386" {
		return nil
	}
	return []Reference{XSysReference(), KlauspostReference()}
}

// unknownReference returns a reference with every numeric field Unknown
func unknownReference(source string) Reference {
	ref := Reference{
		Source:         source,
		Instructions:   make(map[specs.Instruction]bool),
		CoreCount:      Unknown,
		ThreadsPerCore: Unknown,
		CacheLineSize:  Unknown,
		Family:         Unknown,
		Model:          Unknown,
		Stepping:       Unknown,
	}
	for i := range ref.CacheSizes {
		ref.CacheSizes[i] = Unknown
	}
	return ref
}

// XSysReference reports the x86 flags of golang.org/x/sys/cpu. The AVX flags there
// also require operating system support for the extended register state.
func XSysReference() Reference {
	ref := unknownReference(SourceXSys)
	ref.Instructions[specs.SSE2] = cpu.X86.HasSSE2
	ref.Instructions[specs.SSE3] = cpu.X86.HasSSE3
	ref.Instructions[specs.SSSE3] = cpu.X86.HasSSSE3
	ref.Instructions[specs.SSE4_1] = cpu.X86.HasSSE41
	ref.Instructions[specs.SSE4_2] = cpu.X86.HasSSE42
	ref.Instructions[specs.POPCNT] = cpu.X86.HasPOPCNT
	ref.Instructions[specs.AVX1] = cpu.X86.HasAVX
	ref.Instructions[specs.AVX2] = cpu.X86.HasAVX2
	ref.Instructions[specs.FMA3] = cpu.X86.HasFMA
	ref.Instructions[specs.AVX512F] = cpu.X86.HasAVX512F
	ref.Instructions[specs.BMI1] = cpu.X86.HasBMI1
	ref.Instructions[specs.BMI2] = cpu.X86.HasBMI2
	return ref
}

// klauspostFeatures maps flags to the feature ids of github.com/klauspost/cpuid/v2
var klauspostFeatures = map[specs.Instruction]kcpuid.FeatureID{
	specs.SSE1:    kcpuid.SSE,
	specs.SSE2:    kcpuid.SSE2,
	specs.SSE3:    kcpuid.SSE3,
	specs.SSSE3:   kcpuid.SSSE3,
	specs.SSE4_1:  kcpuid.SSE4,
	specs.SSE4_2:  kcpuid.SSE42,
	specs.AVX1:    kcpuid.AVX,
	specs.AVX2:    kcpuid.AVX2,
	specs.FMA3:    kcpuid.FMA3,
	specs.AVX512F: kcpuid.AVX512F,
	specs.POPCNT:  kcpuid.POPCNT,
	specs.LZCNT:   kcpuid.LZCNT,
	specs.BMI1:    kcpuid.BMI1,
	specs.BMI2:    kcpuid.BMI2,
	specs.TBM:     kcpuid.TBM,
	specs.RDTSCP:  kcpuid.RDTSCP,
	specs.F16C:    kcpuid.F16C,
}

// KlauspostReference reports the topology, caches and flags of
// github.com/klauspost/cpuid/v2
func KlauspostReference() Reference {
	return klauspostReference(kcpuid.CPU)
}

func klauspostReference(info kcpuid.CPUInfo) Reference {
	ref := unknownReference(SourceKlauspost)
	for instruction, id := range klauspostFeatures {
		ref.Instructions[instruction] = info.Supports(id)
	}
	known := func(v int) int {
		if v <= 0 {
			return Unknown
		}
		return v
	}
	ref.CoreCount = known(info.PhysicalCores)
	ref.ThreadsPerCore = known(info.ThreadsPerCore)
	ref.CacheLineSize = known(info.CacheLine)
	ref.CacheSizes[specs.L1] = known(info.Cache.L1D)
	ref.CacheSizes[specs.L2] = known(info.Cache.L2)
	ref.CacheSizes[specs.L3] = known(info.Cache.L3)
	ref.Vendor = info.VendorString
	ref.Family = info.Family
	ref.Model = info.Model
	ref.Stepping = info.Stepping
	return ref
}
