// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// Package cpus maps x86 vendor, family, model and stepping to a microarchitecture
// and the characteristics the decoded capability profile is checked against.
package cpus

import (
	"fmt"
	"slices"
	"strings"
)

const IntelVendor = "GenuineIntel"
const AMDVendor = "AuthenticAMD"

var IntelFamilies = []int{6, 19}

// Microarchitecture constants
const (
	// Intel Core CPUs
	UarchNHM = "NHM"
	UarchSNB = "SNB"
	UarchIVB = "IVB"
	UarchHSW = "HSW"
	UarchBDW = "BDW"
	UarchSKL = "SKL"
	UarchKBL = "KBL"
	UarchCFL = "CFL"
	UarchRKL = "RKL"
	UarchTGL = "TGL"
	UarchADL = "ADL"
	UarchMTL = "MTL"
	UarchARL = "ARL"
	// Intel Xeon CPUs
	UarchHSX = "HSX"
	UarchBDX = "BDX"
	UarchSKX = "SKX"
	UarchCLX = "CLX"
	UarchCPX = "CPX"
	UarchICX = "ICX"
	UarchSPR = "SPR"
	UarchEMR = "EMR"
	UarchSRF = "SRF"
	UarchGNR = "GNR"
	UarchCWF = "CWF"
	UarchDMR = "DMR"
	// Intel NetBurst
	UarchNetBurst = "NetBurst"
	// AMD CPUs
	UarchK8      = "K8"
	UarchK10     = "K10"
	UarchZen     = "Zen"
	UarchZen2    = "Zen 2"
	UarchZen3    = "Zen 3"
	UarchZen4    = "Zen 4"
	UarchZen5    = "Zen 5"
	UarchNaples  = "Naples"
	UarchRome    = "Rome"
	UarchMilan   = "Milan"
	UarchGenoa   = "Genoa"
	UarchBergamo = "Bergamo"
	UarchTurin   = "Turin"
)

// CPUCharacteristics are the published properties of a microarchitecture
type CPUCharacteristics struct {
	MicroArchitecture string
	Vendor            string
	// LogicalThreadCount is the number of hardware threads per core when SMT is on
	LogicalThreadCount int
	// CacheWayCount is the L3 associativity, 0 when it varies by SKU
	CacheWayCount int
	// VectorWidth is the widest SIMD register in bits
	VectorWidth int
}

// CPUIdentifier holds the version numbers decoded from leaf 1 and the vendor
// signature
type CPUIdentifier struct {
	Vendor   string
	Family   int
	Model    int
	Stepping int
}

// modelRange matches models from First to Last inclusive
type modelRange struct {
	First, Last int
}

func models(values ...int) []modelRange {
	ranges := make([]modelRange, 0, len(values))
	for _, v := range values {
		ranges = append(ranges, modelRange{v, v})
	}
	return ranges
}

type identifierRule struct {
	Vendor    string
	Family    int
	Models    []modelRange
	Steppings []int // empty means any stepping
}

func (r identifierRule) matches(id CPUIdentifier) bool {
	if r.Vendor != id.Vendor || r.Family != id.Family {
		return false
	}
	if len(r.Steppings) > 0 && !slices.Contains(r.Steppings, id.Stepping) {
		return false
	}
	return slices.ContainsFunc(r.Models, func(m modelRange) bool {
		return id.Model >= m.First && id.Model <= m.Last
	})
}

// cpuCharacteristicsMap maps microarchitecture name to CPU characteristics
var cpuCharacteristicsMap = map[string]CPUCharacteristics{
	// Intel Core CPUs
	UarchNHM: {MicroArchitecture: UarchNHM, Vendor: IntelVendor, LogicalThreadCount: 2, VectorWidth: 128}, // Nehalem
	UarchSNB: {MicroArchitecture: UarchSNB, Vendor: IntelVendor, LogicalThreadCount: 2, VectorWidth: 256}, // Sandy Bridge
	UarchIVB: {MicroArchitecture: UarchIVB, Vendor: IntelVendor, LogicalThreadCount: 2, VectorWidth: 256}, // Ivy Bridge
	UarchHSW: {MicroArchitecture: UarchHSW, Vendor: IntelVendor, LogicalThreadCount: 2, VectorWidth: 256}, // Haswell
	UarchBDW: {MicroArchitecture: UarchBDW, Vendor: IntelVendor, LogicalThreadCount: 2, VectorWidth: 256}, // Broadwell
	UarchSKL: {MicroArchitecture: UarchSKL, Vendor: IntelVendor, LogicalThreadCount: 2, VectorWidth: 256}, // Skylake
	UarchKBL: {MicroArchitecture: UarchKBL, Vendor: IntelVendor, LogicalThreadCount: 2, VectorWidth: 256}, // Kabylake
	UarchCFL: {MicroArchitecture: UarchCFL, Vendor: IntelVendor, LogicalThreadCount: 2, VectorWidth: 256}, // Coffeelake
	UarchRKL: {MicroArchitecture: UarchRKL, Vendor: IntelVendor, LogicalThreadCount: 2, VectorWidth: 512}, // Rocket Lake
	UarchTGL: {MicroArchitecture: UarchTGL, Vendor: IntelVendor, LogicalThreadCount: 2, VectorWidth: 512}, // Tiger Lake
	UarchADL: {MicroArchitecture: UarchADL, Vendor: IntelVendor, LogicalThreadCount: 2, VectorWidth: 256}, // Alder Lake
	UarchMTL: {MicroArchitecture: UarchMTL, Vendor: IntelVendor, LogicalThreadCount: 2, VectorWidth: 256}, // Meteor Lake
	UarchARL: {MicroArchitecture: UarchARL, Vendor: IntelVendor, LogicalThreadCount: 1, VectorWidth: 256}, // Arrow Lake
	// Intel Xeon CPUs
	UarchHSX: {MicroArchitecture: UarchHSX, Vendor: IntelVendor, LogicalThreadCount: 2, CacheWayCount: 20, VectorWidth: 256}, // Haswell
	UarchBDX: {MicroArchitecture: UarchBDX, Vendor: IntelVendor, LogicalThreadCount: 2, CacheWayCount: 20, VectorWidth: 256}, // Broadwell
	UarchSKX: {MicroArchitecture: UarchSKX, Vendor: IntelVendor, LogicalThreadCount: 2, CacheWayCount: 11, VectorWidth: 512}, // Skylake
	UarchCLX: {MicroArchitecture: UarchCLX, Vendor: IntelVendor, LogicalThreadCount: 2, CacheWayCount: 11, VectorWidth: 512}, // Cascadelake
	UarchCPX: {MicroArchitecture: UarchCPX, Vendor: IntelVendor, LogicalThreadCount: 2, CacheWayCount: 11, VectorWidth: 512}, // Cooperlake
	UarchICX: {MicroArchitecture: UarchICX, Vendor: IntelVendor, LogicalThreadCount: 2, CacheWayCount: 12, VectorWidth: 512}, // Icelake
	UarchSPR: {MicroArchitecture: UarchSPR, Vendor: IntelVendor, LogicalThreadCount: 2, CacheWayCount: 15, VectorWidth: 512}, // Sapphire Rapids
	UarchEMR: {MicroArchitecture: UarchEMR, Vendor: IntelVendor, LogicalThreadCount: 2, CacheWayCount: 15, VectorWidth: 512}, // Emerald Rapids
	UarchSRF: {MicroArchitecture: UarchSRF, Vendor: IntelVendor, LogicalThreadCount: 1, CacheWayCount: 12, VectorWidth: 256}, // Sierra Forest
	UarchGNR: {MicroArchitecture: UarchGNR, Vendor: IntelVendor, LogicalThreadCount: 2, CacheWayCount: 16, VectorWidth: 512}, // Granite Rapids
	UarchCWF: {MicroArchitecture: UarchCWF, Vendor: IntelVendor, LogicalThreadCount: 1, VectorWidth: 256},                    // Clearwater Forest
	UarchDMR: {MicroArchitecture: UarchDMR, Vendor: IntelVendor, LogicalThreadCount: 1, VectorWidth: 512},                    // Diamond Rapids
	// Intel NetBurst
	UarchNetBurst: {MicroArchitecture: UarchNetBurst, Vendor: IntelVendor, LogicalThreadCount: 2, VectorWidth: 128}, // Pentium 4
	// AMD CPUs
	UarchK8:      {MicroArchitecture: UarchK8, Vendor: AMDVendor, LogicalThreadCount: 1, VectorWidth: 128},      // Athlon 64
	UarchK10:     {MicroArchitecture: UarchK10, Vendor: AMDVendor, LogicalThreadCount: 1, VectorWidth: 128},     // Phenom
	UarchZen:     {MicroArchitecture: UarchZen, Vendor: AMDVendor, LogicalThreadCount: 2, VectorWidth: 256},     // Summit Ridge
	UarchZen2:    {MicroArchitecture: UarchZen2, Vendor: AMDVendor, LogicalThreadCount: 2, VectorWidth: 256},    // Matisse
	UarchZen3:    {MicroArchitecture: UarchZen3, Vendor: AMDVendor, LogicalThreadCount: 2, VectorWidth: 256},    // Vermeer
	UarchZen4:    {MicroArchitecture: UarchZen4, Vendor: AMDVendor, LogicalThreadCount: 2, VectorWidth: 512},    // Raphael
	UarchZen5:    {MicroArchitecture: UarchZen5, Vendor: AMDVendor, LogicalThreadCount: 2, VectorWidth: 512},    // Granite Ridge
	UarchNaples:  {MicroArchitecture: UarchNaples, Vendor: AMDVendor, LogicalThreadCount: 2, VectorWidth: 256},  // Naples
	UarchRome:    {MicroArchitecture: UarchRome, Vendor: AMDVendor, LogicalThreadCount: 2, VectorWidth: 256},    // Rome
	UarchMilan:   {MicroArchitecture: UarchMilan, Vendor: AMDVendor, LogicalThreadCount: 2, VectorWidth: 256},   // Milan
	UarchGenoa:   {MicroArchitecture: UarchGenoa, Vendor: AMDVendor, LogicalThreadCount: 2, VectorWidth: 512},   // Genoa
	UarchBergamo: {MicroArchitecture: UarchBergamo, Vendor: AMDVendor, LogicalThreadCount: 2, VectorWidth: 512}, // Bergamo
	UarchTurin:   {MicroArchitecture: UarchTurin, Vendor: AMDVendor, LogicalThreadCount: 2, VectorWidth: 512},   // Turin
}

// cpuIdentifiers maps identification to microarchitecture names, first match wins
var cpuIdentifiers = []struct {
	Identifier        identifierRule
	MicroArchitecture string
}{
	// Intel Core CPUs
	{identifierRule{IntelVendor, 6, models(26, 30, 31, 46), nil}, UarchNHM},                  // Nehalem
	{identifierRule{IntelVendor, 6, models(42, 45), nil}, UarchSNB},                          // Sandy Bridge
	{identifierRule{IntelVendor, 6, models(58), nil}, UarchIVB},                              // Ivy Bridge
	{identifierRule{IntelVendor, 6, models(60, 69, 70), nil}, UarchHSW},                      // Haswell
	{identifierRule{IntelVendor, 6, models(61, 71), nil}, UarchBDW},                          // Broadwell
	{identifierRule{IntelVendor, 6, models(78, 94), nil}, UarchSKL},                          // Skylake
	{identifierRule{IntelVendor, 6, models(142, 158), []int{9}}, UarchKBL},                   // Kabylake
	{identifierRule{IntelVendor, 6, models(142, 158), []int{10, 11, 12, 13}}, UarchCFL},      // Coffeelake
	{identifierRule{IntelVendor, 6, models(167), nil}, UarchRKL},                             // Rocket Lake
	{identifierRule{IntelVendor, 6, models(140, 141), nil}, UarchTGL},                        // Tiger Lake
	{identifierRule{IntelVendor, 6, models(151, 154), nil}, UarchADL},                        // Alder Lake
	{identifierRule{IntelVendor, 6, models(170), nil}, UarchMTL},                             // Meteor Lake
	{identifierRule{IntelVendor, 6, models(197, 198), nil}, UarchARL},                        // Arrow Lake
	// Intel Xeon CPUs
	{identifierRule{IntelVendor, 6, models(63), nil}, UarchHSX},                        // Haswell
	{identifierRule{IntelVendor, 6, models(79, 86), nil}, UarchBDX},                    // Broadwell
	{identifierRule{IntelVendor, 6, models(85), []int{0, 1, 2, 3, 4}}, UarchSKX},       // Skylake
	{identifierRule{IntelVendor, 6, models(85), []int{5, 6, 7}}, UarchCLX},             // Cascadelake
	{identifierRule{IntelVendor, 6, models(85), []int{11}}, UarchCPX},                  // Cooperlake
	{identifierRule{IntelVendor, 6, models(106, 108), nil}, UarchICX},                  // Icelake
	{identifierRule{IntelVendor, 6, models(143), nil}, UarchSPR},                       // Sapphire Rapids
	{identifierRule{IntelVendor, 6, models(207), nil}, UarchEMR},                       // Emerald Rapids
	{identifierRule{IntelVendor, 6, models(175), nil}, UarchSRF},                       // Sierra Forest
	{identifierRule{IntelVendor, 6, models(173, 174), nil}, UarchGNR},                  // Granite Rapids
	{identifierRule{IntelVendor, 6, models(221), nil}, UarchCWF},                       // Clearwater Forest
	{identifierRule{IntelVendor, 19, models(1), nil}, UarchDMR},                        // Diamond Rapids
	{identifierRule{IntelVendor, 15, []modelRange{{0, 6}}, nil}, UarchNetBurst},        // Pentium 4
	// AMD CPUs
	{identifierRule{AMDVendor, 15, []modelRange{{0, 0xFF}}, nil}, UarchK8},             // Athlon 64, Opteron
	{identifierRule{AMDVendor, 16, []modelRange{{0, 0xFF}}, nil}, UarchK10},            // Phenom, Opteron
	{identifierRule{AMDVendor, 23, models(1), nil}, UarchNaples},                       // Naples
	{identifierRule{AMDVendor, 23, models(49), nil}, UarchRome},                        // Rome
	{identifierRule{AMDVendor, 23, []modelRange{{0, 0x2F}}, nil}, UarchZen},            // Zen, Zen+
	{identifierRule{AMDVendor, 23, []modelRange{{0x30, 0xFF}}, nil}, UarchZen2},        // Matisse, Renoir
	{identifierRule{AMDVendor, 25, models(1), nil}, UarchMilan},                        // Milan
	{identifierRule{AMDVendor, 25, []modelRange{{16, 31}}, nil}, UarchGenoa},           // Genoa
	{identifierRule{AMDVendor, 25, []modelRange{{160, 175}}, nil}, UarchBergamo},       // Bergamo
	{identifierRule{AMDVendor, 25, []modelRange{{0x20, 0x5F}}, nil}, UarchZen3},        // Vermeer, Cezanne
	{identifierRule{AMDVendor, 25, []modelRange{{0x60, 0x7F}}, nil}, UarchZen4},        // Raphael, Phoenix
	{identifierRule{AMDVendor, 26, models(2, 17), nil}, UarchTurin},                    // Turin
	{identifierRule{AMDVendor, 26, []modelRange{{0x20, 0x7F}}, nil}, UarchZen5},        // Granite Ridge, Strix
}

// Lookup returns the characteristics of the microarchitecture matching the vendor
// signature, family, model and stepping
func Lookup(vendor string, family, model, stepping int) (CPUCharacteristics, error) {
	return GetCPU(CPUIdentifier{Vendor: vendor, Family: family, Model: model, Stepping: stepping})
}

// GetCPU retrieves CPU characteristics for an identifier
func GetCPU(id CPUIdentifier) (cpu CPUCharacteristics, err error) {
	for _, entry := range cpuIdentifiers {
		if !entry.Identifier.matches(id) {
			continue
		}
		var ok bool
		cpu, ok = cpuCharacteristicsMap[entry.MicroArchitecture]
		if !ok {
			err = fmt.Errorf("CPU characteristics not found for microarchitecture %s", entry.MicroArchitecture)
		}
		return
	}
	err = fmt.Errorf("CPU match not found for vendor %s, family %d, model %d, stepping %d", id.Vendor, id.Family, id.Model, id.Stepping)
	return
}

func GetCPUByMicroArchitecture(uarch string) (cpu CPUCharacteristics, err error) {
	// Try exact match first
	if chars, ok := cpuCharacteristicsMap[uarch]; ok {
		cpu = chars
		return
	}
	// Try case-insensitive match
	for key, chars := range cpuCharacteristicsMap {
		if strings.EqualFold(key, uarch) {
			cpu = chars
			return
		}
	}
	err = fmt.Errorf("CPU match not found for uarch %s", uarch)
	return
}

// IsIntelCPUFamily checks if the CPU family corresponds to Intel CPUs.
func IsIntelCPUFamily(family int) bool {
	return slices.Contains(IntelFamilies, family)
}
