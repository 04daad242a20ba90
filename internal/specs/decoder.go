package specs

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"log/slog"

	"cpuspecs/internal/cpuid"
)

// leaves read by more than one decoder
const (
	leafVendor         uint32 = 0x0
	leafFeatures       uint32 = 0x1
	leafExtFeatures    uint32 = 0x7
	leafTopology       uint32 = 0xB
	leafTopologyV2     uint32 = 0x1F
	leafExtBase        uint32 = cpuid.ExtendedBase
	leafExtSignature   uint32 = 0x80000001
	leafBrandFirst     uint32 = 0x80000002
	leafBrandLast      uint32 = 0x80000004
	leafAMDL1Cache     uint32 = 0x80000005
	leafAMDL2L3Cache   uint32 = 0x80000006
	leafAMDCoreCount   uint32 = 0x80000008
	leafAMDCacheTopo   uint32 = 0x8000001D
	leafIntelCacheDesc uint32 = 0x4
)

// bitRule maps one register bit of a leaf to an instruction flag
type bitRule struct {
	instruction Instruction
	register    int
	bit         uint
}

// leaf 1
var featureRules = []bitRule{
	{RDTSCP, cpuid.EDX, 4},
	{SSE1, cpuid.EDX, 25},
	{SSE2, cpuid.EDX, 26},
	{SSE3, cpuid.ECX, 0},
	{SSSE3, cpuid.ECX, 9},
	{FMA3, cpuid.ECX, 12},
	{SSE4_1, cpuid.ECX, 19},
	{SSE4_2, cpuid.ECX, 20},
	{POPCNT, cpuid.ECX, 23},
	{AVX1, cpuid.ECX, 28},
	{F16C, cpuid.ECX, 29},
}

// leaf 7, subleaf 0
var extFeatureRules = []bitRule{
	{BMI1, cpuid.EBX, 3},
	{TZCNT, cpuid.EBX, 3},
	{AVX2, cpuid.EBX, 5},
	{BMI2, cpuid.EBX, 8},
}

// leaf 0x80000001
var extSignatureRules = []bitRule{
	{LZCNT, cpuid.ECX, 5},
}

func bitSet(reg uint32, bit uint) bool {
	return reg>>bit&1 == 1
}

// decoder carries the state of one decoding pass
type decoder struct {
	querier cpuid.Querier
	leaves  LeafContext
	specs   Specs
}

func (d *decoder) query(leaf, subleaf uint32) cpuid.Registers {
	return d.querier.Query(leaf, subleaf)
}

func (d *decoder) apply(regs cpuid.Registers, rules []bitRule) {
	for _, rule := range rules {
		d.specs.Instructions.Assign(rule.instruction, bitSet(regs[rule.register], rule.bit))
	}
}

// resolveLeafContext reads the highest standard and extended leaves
func resolveLeafContext(q cpuid.Querier) LeafContext {
	return LeafContext{
		MaxStandard: q.Query(leafVendor, 0)[cpuid.EAX],
		MaxExtended: q.Query(leafExtBase, 0)[cpuid.EAX],
	}
}

// decodeSpecs runs the common decoder and then the pipeline of the manufacturer.
// The pipelines run threads, caches and instructions in that order because cache
// decoding divides by the thread count.
func decodeSpecs(q cpuid.Querier, leaves LeafContext) Specs {
	d := &decoder{querier: q, leaves: leaves, specs: DefaultSpecs()}
	d.commonInstructions()
	vendor := VendorFromSignature(d.query(leafVendor, 0)[cpuid.ECX])
	switch vendor {
	case VendorAMD:
		d.amdThreads()
		d.amdCaches()
		d.amdInstructions()
	case VendorIntel:
		d.intelThreads()
		d.intelCaches()
		d.intelInstructions()
	default:
		slog.Debug("unrecognized manufacturer, keeping default topology and caches")
	}
	slog.Debug("decoded cpu specs", slog.String("vendor", vendor.String()),
		slog.Int("cores", d.specs.CoreCount), slog.Int("threads_per_core", d.specs.ThreadsPerCore),
		slog.String("instructions", d.specs.Instructions.String()))
	return d.specs
}

// commonInstructions decodes the flags every manufacturer reports the same way
func (d *decoder) commonInstructions() {
	d.apply(d.query(leafFeatures, 0), featureRules)
	if d.leaves.MaxStandard < leafExtFeatures {
		return
	}
	d.apply(d.query(leafExtFeatures, 0), extFeatureRules)
	if d.leaves.MaxExtended >= leafExtSignature {
		d.apply(d.query(leafExtSignature, 0), extSignatureRules)
	}
}

// topologyFromLeaf reads threads per core from subleaf 0 and logical processors per
// package from subleaf 1 of an extended topology leaf (0xB or 0x1F).
//
// The leaf is trusted once the leaf count covers it. A processor that reports the
// leaf but returns zeros decodes to a core count of 0, and since the AMD cache walk
// does not clamp, attached core counts then exceed the core count.
func (d *decoder) topologyFromLeaf(leaf uint32) {
	threads := int(d.query(leaf, 0)[cpuid.EBX] & 0xFFFF)
	logical := int(d.query(leaf, 1)[cpuid.EBX] & 0xFFFF)
	if threads == 0 {
		slog.Debug("topology leaf reports zero threads per core", slog.String("leaf", cpuid.Key{Leaf: leaf}.String()))
		threads = 1
	}
	d.specs.ThreadsPerCore = threads
	d.specs.CoreCount = logical / threads
}
