package specs

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cpuspecs/internal/cpuid"
)

const MiB = 1024 * KiB

var commonInstructions = []Instruction{RDTSCP, SSE1, SSE2, SSE3, SSSE3, FMA3, SSE4_1, SSE4_2, POPCNT, AVX1, F16C}

func withCommon(extra ...Instruction) InstructionSet {
	return NewInstructionSet(append(append([]Instruction{}, commonInstructions...), extra...)...)
}

func TestDetectorSpecs(t *testing.T) {
	tests := []struct {
		name   string
		script *cpuid.Script
		want   Specs
	}{
		{
			name:   "intel leaf 0xB and leaf 4",
			script: intelCoffeeLake(),
			want: Specs{
				Caches: [CacheLevelCount]CacheLevelSpecs{
					{DataCacheSize: 32 * KiB, AttachedCoreCount: 1},
					{DataCacheSize: 256 * KiB, AttachedCoreCount: 1},
					{DataCacheSize: 12 * MiB, AttachedCoreCount: 6},
				},
				CacheLineSize:  64,
				ThreadsPerCore: 2,
				CoreCount:      6,
				Instructions:   withCommon(BMI1, TZCNT, AVX2, BMI2, LZCNT),
			},
		},
		{
			name:   "intel leaf 0x1F preferred over 0xB",
			script: intelSapphireRapids(),
			want: Specs{
				Caches: [CacheLevelCount]CacheLevelSpecs{
					{DataCacheSize: 48 * KiB, AttachedCoreCount: 1},
					{DataCacheSize: 2 * MiB, AttachedCoreCount: 1},
					{DataCacheSize: 105 * MiB, AttachedCoreCount: 56},
				},
				CacheLineSize:  64,
				ThreadsPerCore: 2,
				CoreCount:      56,
				Instructions:   withCommon(BMI1, TZCNT, AVX2, BMI2, LZCNT, AVX512F),
			},
		},
		{
			name:   "intel legacy hyper-threading",
			script: intelPentium4(),
			want: Specs{
				Caches: [CacheLevelCount]CacheLevelSpecs{
					{DataCacheSize: 4 * KiB, AttachedCoreCount: 1},
				},
				CacheLineSize:  64,
				ThreadsPerCore: 2,
				CoreCount:      1,
				Instructions:   NewInstructionSet(SSE1, SSE2),
			},
		},
		{
			name:   "amd cache topology leaf with legacy core count",
			script: amdZen2(),
			want: Specs{
				Caches: [CacheLevelCount]CacheLevelSpecs{
					{DataCacheSize: 32 * KiB, AttachedCoreCount: 1},
					{DataCacheSize: 512 * KiB, AttachedCoreCount: 1},
					{DataCacheSize: 16 * MiB, AttachedCoreCount: 4},
				},
				CacheLineSize:  64,
				ThreadsPerCore: 2,
				CoreCount:      8,
				Instructions:   withCommon(BMI1, TZCNT, AVX2, BMI2, LZCNT),
			},
		},
		{
			name:   "amd leaf 0xB and avx-512 state",
			script: amdZen4(),
			want: Specs{
				Caches: [CacheLevelCount]CacheLevelSpecs{
					{DataCacheSize: 32 * KiB, AttachedCoreCount: 1},
					{DataCacheSize: 1 * MiB, AttachedCoreCount: 1},
					{DataCacheSize: 32 * MiB, AttachedCoreCount: 8},
				},
				CacheLineSize:  64,
				ThreadsPerCore: 2,
				CoreCount:      16,
				Instructions:   withCommon(BMI1, TZCNT, AVX2, BMI2, LZCNT, AVX512F),
			},
		},
		{
			name:   "unknown vendor keeps default topology",
			script: unknownVendor(),
			want: Specs{
				Caches: [CacheLevelCount]CacheLevelSpecs{
					{DataCacheSize: 4 * KiB, AttachedCoreCount: 1},
				},
				CacheLineSize:  64,
				ThreadsPerCore: 1,
				CoreCount:      1,
				Instructions:   NewInstructionSet(SSE1, SSE2, SSE3, SSSE3, AVX2),
			},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewBackendDetector(tt.script).Specs()
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDetectorSpecsFromDump(t *testing.T) {
	s, err := cpuid.LoadScript("testdata/amd-phenom-ii.yaml")
	require.NoError(t, err)
	d := NewBackendDetector(s)

	specs := d.Specs()
	assert.Equal(t, 2, specs.ThreadsPerCore)
	assert.Equal(t, 2, specs.CoreCount)
	assert.Equal(t, 64, specs.CacheLineSize)
	assert.Equal(t, CacheLevelSpecs{DataCacheSize: 64 * KiB, AttachedCoreCount: 1}, specs.Cache(L1))
	assert.Equal(t, CacheLevelSpecs{DataCacheSize: 512 * KiB, AttachedCoreCount: 1}, specs.Cache(L2))
	assert.Equal(t, CacheLevelSpecs{DataCacheSize: 6 * MiB, AttachedCoreCount: 2}, specs.Cache(L3))
	// LZCNT is only read when leaf 7 exists
	assert.Equal(t, NewInstructionSet(RDTSCP, SSE1, SSE2, SSE3, POPCNT), specs.Instructions)

	id := d.Identity()
	assert.Equal(t, AMDVendor, id.Manufacturer.String())
	assert.Equal(t, 16, id.Family)
	assert.Equal(t, 4, id.Model)
	assert.Equal(t, 2, id.Stepping)
	assert.Equal(t, "AMD Phenom(tm) II X4 940 Processor", id.Name.String())
}

func TestDetectorUnavailable(t *testing.T) {
	s := intelCoffeeLake()
	s.Sticky = false
	rec := cpuid.NewRecorder(s)
	d := NewDetector(rec, s)

	assert.False(t, d.Available())
	assert.Equal(t, DefaultSpecs(), d.Specs())
	assert.Equal(t, DefaultIdentity(), d.Identity())
	assert.Equal(t, LeafContext{}, d.LeafContext())
	assert.Equal(t, DefaultProfile(), d.Profile())
	assert.Zero(t, rec.Calls())
}

func TestDefaults(t *testing.T) {
	specs := DefaultSpecs()
	assert.Equal(t, CacheLevelSpecs{DataCacheSize: 4096, AttachedCoreCount: 1}, specs.Cache(L1))
	assert.Equal(t, CacheLevelSpecs{}, specs.Cache(L2))
	assert.Equal(t, CacheLevelSpecs{}, specs.Cache(L3))
	assert.Equal(t, CacheLevelSpecs{}, specs.Cache(CacheLevelCount))
	assert.Equal(t, 64, specs.CacheLineSize)
	assert.Equal(t, 1, specs.ThreadsPerCore)
	assert.Equal(t, 1, specs.CoreCount)
	assert.True(t, specs.Instructions.IsEmpty())

	id := DefaultIdentity()
	assert.Zero(t, id.Family)
	assert.Zero(t, id.Model)
	assert.Zero(t, id.Stepping)
	assert.Zero(t, id.Manufacturer.Len())
	assert.False(t, id.Name.Available())
}

func TestDetectorIsIdempotent(t *testing.T) {
	for _, s := range []*cpuid.Script{intelCoffeeLake(), intelSapphireRapids(), amdZen2(), amdZen4(), unknownVendor()} {
		d := NewBackendDetector(s)
		assert.Equal(t, d.Specs(), d.Specs())
		assert.Equal(t, d.Identity(), d.Identity())
		assert.Equal(t, d.Profile(), d.Profile())
	}
}

func TestAttachedCoresBoundedByCoreCount(t *testing.T) {
	for _, s := range []*cpuid.Script{intelCoffeeLake(), intelSapphireRapids(), intelPentium4(), amdZen2(), amdZen4()} {
		specs := NewBackendDetector(s).Specs()
		for _, level := range CacheLevels {
			assert.LessOrEqual(t, specs.Cache(level).AttachedCoreCount, specs.CoreCount, level.String())
		}
	}
}

func TestLeafContext(t *testing.T) {
	d := NewBackendDetector(amdZen2())
	assert.Equal(t, LeafContext{MaxStandard: 0xA, MaxExtended: 0x8000001F}, d.LeafContext())
}

func TestProfileMatchesSeparateCalls(t *testing.T) {
	d := NewBackendDetector(intelCoffeeLake())
	p := d.Profile()
	assert.True(t, p.Available)
	assert.Equal(t, d.LeafContext(), p.Leaves)
	assert.Equal(t, d.Specs(), p.Specs)
	assert.Equal(t, d.Identity(), p.Identity)
	assert.Equal(t, VendorIntel, p.Vendor())
	assert.Equal(t, 12, p.Specs.LogicalCount())
}

func TestRecordedQueriesReplay(t *testing.T) {
	rec := cpuid.NewRecorder(amdZen4())
	want := NewDetector(rec, cpuid.NewScript(true)).Profile()
	got := NewBackendDetector(rec.Script(true)).Profile()
	assert.Equal(t, want, got)
}

func TestTopologyLeaf(t *testing.T) {
	s := unknownVendor()
	s.Set(0x0, 0, vendorLeaf(0xB, AMDVendor))
	specs := NewBackendDetector(s).Specs()
	assert.Equal(t, 2, specs.ThreadsPerCore)
	assert.Equal(t, 4, specs.CoreCount)

	// a zero thread count is read as one thread per core
	s.Set(0xB, 0, cpuid.Registers{0, 0, 0x100, 0})
	specs = NewBackendDetector(s).Specs()
	assert.Equal(t, 1, specs.ThreadsPerCore)
	assert.Equal(t, 8, specs.CoreCount)
}

func TestUnknownVendorMinimalLeaves(t *testing.T) {
	s := cpuid.NewScript(true)
	s.Set(0x0, 0, vendorLeaf(0x1, "CentaurHauls"))
	s.Set(0x1, 0, cpuid.Registers{0x000006F2, 4 << 16, bits(0, 9), bits(25, 26, 28)})
	// set but unreachable with these leaf counts
	s.Set(0x7, 0, cpuid.Registers{0, bits(3, 5, 8), 0, 0})
	s.Set(0x80000001, 0, cpuid.Registers{0, 0, bits(5), 0})
	d := NewBackendDetector(s)

	assert.Equal(t, LeafContext{MaxStandard: 0x1, MaxExtended: 0}, d.LeafContext())
	want := DefaultSpecs()
	want.Instructions = NewInstructionSet(SSE1, SSE2, SSE3, SSSE3)
	assert.Equal(t, want, d.Specs())
}

func TestTopologyLeafAllZeros(t *testing.T) {
	s := amdZen2()
	s.Set(0x0, 0, vendorLeaf(0xB, AMDVendor))
	specs := NewBackendDetector(s).Specs()
	// the leaf values are trusted: no cores, and the cache walk is not clamped
	assert.Equal(t, 1, specs.ThreadsPerCore)
	assert.Zero(t, specs.CoreCount)
	assert.Equal(t, CacheLevelSpecs{DataCacheSize: 16 * MiB, AttachedCoreCount: 8}, specs.Cache(L3))
	assert.Greater(t, specs.Cache(L3).AttachedCoreCount, specs.CoreCount)
}

func TestAMDLegacyCoreCount(t *testing.T) {
	tests := []struct {
		name        string
		maxExtended uint32
		multiCore   bool
		threads     int
		cores       int
	}{
		{"multi-core bit confirms", 0x80000001, true, 2, 2},
		{"multi-core bit clear", 0x80000001, false, 2, 1},
		{"no extended leaves", 0x80000000, false, 2, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := cpuid.NewScript(true)
			s.Set(0x0, 0, vendorLeaf(0x1, AMDVendor))
			s.Set(0x1, 0, cpuid.Registers{0x00000F48, 4 << 16, 0, bits(28)})
			s.Set(0x80000000, 0, cpuid.Registers{tt.maxExtended, 0, 0, 0})
			if tt.multiCore {
				s.Set(0x80000001, 0, cpuid.Registers{0, 0, bits(1), 0})
			}
			specs := NewBackendDetector(s).Specs()
			assert.Equal(t, tt.threads, specs.ThreadsPerCore)
			assert.Equal(t, tt.cores, specs.CoreCount)
		})
	}

	// without the multi-threading bit the core count stays at its default
	s := cpuid.NewScript(true)
	s.Set(0x0, 0, vendorLeaf(0x1, AMDVendor))
	s.Set(0x1, 0, cpuid.Registers{0x00000F48, 4 << 16, 0, 0})
	specs := NewBackendDetector(s).Specs()
	assert.Equal(t, 1, specs.ThreadsPerCore)
	assert.Equal(t, 1, specs.CoreCount)
}

func TestAMDCacheFallbackWithoutTopologyExtensions(t *testing.T) {
	s := amdZen2()
	s.Set(0x80000001, 0, cpuid.Registers{0, 0, bits(1, 5), 0})
	s.Set(0x80000005, 0, cpuid.Registers{0, 0, 0x20080140, 0})
	s.Set(0x80000006, 0, cpuid.Registers{0, 0, 0x02006140, 16 << 18})
	specs := NewBackendDetector(s).Specs()
	assert.Equal(t, CacheLevelSpecs{DataCacheSize: 32 * KiB, AttachedCoreCount: 1}, specs.Cache(L1))
	assert.Equal(t, CacheLevelSpecs{DataCacheSize: 512 * KiB, AttachedCoreCount: 1}, specs.Cache(L2))
	assert.Equal(t, CacheLevelSpecs{DataCacheSize: 8 * MiB, AttachedCoreCount: 8}, specs.Cache(L3))
	assert.Equal(t, 64, specs.CacheLineSize)
}

func TestAMDTBMGate(t *testing.T) {
	tests := []struct {
		name        string
		maxExtended uint32
		want        bool
	}{
		{"extended leaves present", 0x80000001, true},
		// the gate compares the extended leaf count with 0xB
		{"extended count below 0xB", 0xA, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := cpuid.NewScript(true)
			s.Set(0x0, 0, vendorLeaf(0x1, AMDVendor))
			s.Set(0x80000000, 0, cpuid.Registers{tt.maxExtended, 0, 0, 0})
			s.Set(0x80000001, 0, cpuid.Registers{0, 0, bits(21), 0})
			assert.Equal(t, tt.want, NewBackendDetector(s).Specs().Instructions.Has(TBM))
		})
	}
}

func TestAMDAVX512StateMismatch(t *testing.T) {
	s := amdZen4()
	s.Set(0xD, 5, cpuid.Registers{0x40, 0x440, 0, 0})
	assert.False(t, NewBackendDetector(s).Specs().Instructions.Has(AVX512F))
}

func TestIntelAVX512NeedsLeaf7(t *testing.T) {
	s := intelSapphireRapids()
	s.Set(0x0, 0, vendorLeaf(0x6, IntelVendor))
	specs := NewBackendDetector(s).Specs()
	assert.False(t, specs.Instructions.Has(AVX512F))
	assert.False(t, specs.Instructions.Has(AVX2))
	assert.True(t, specs.Instructions.Has(SSE4_2))
}

func TestCacheWalkSkipsInstructionAndUnknownLevels(t *testing.T) {
	s := intelCoffeeLake()
	s.Set(0x4, 1, cacheLeaf(1, 0, 2, 64, 1, 8, 64))
	s.Set(0x4, 2, cacheLeaf(2, 2, 2, 64, 1, 4, 1024))
	specs := NewBackendDetector(s).Specs()
	assert.Equal(t, 32*KiB, specs.Cache(L1).DataCacheSize)
	assert.Equal(t, CacheLevelSpecs{}, specs.Cache(L2))
	assert.Equal(t, 12*MiB, specs.Cache(L3).DataCacheSize)
}

func TestCacheWalkIsBounded(t *testing.T) {
	var leaf4Queries int
	q := queryFunc(func(leaf, subleaf uint32) cpuid.Registers {
		switch leaf {
		case 0x0:
			return vendorLeaf(0x4, IntelVendor)
		case 0x4:
			leaf4Queries++
			return cacheLeaf(3, 2, 1, 64, 1, 8, 64)
		}
		return cpuid.Registers{}
	})
	specs := NewDetector(q, cpuid.NewScript(true)).Specs()
	assert.Equal(t, maxCacheDescriptors, leaf4Queries)
	assert.Equal(t, 32*KiB, specs.Cache(L2).DataCacheSize)
}
