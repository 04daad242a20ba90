package specs

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"encoding/binary"

	"cpuspecs/internal/cpuid"
)

// signature register values of leaf 0 for "GenuineIntel"
const (
	genuEBX uint32 = 0x756E6547 // "Genu"
	ineiEDX uint32 = 0x49656E69 // "ineI"
	ntelECX uint32 = 0x6C65746E // "ntel"
)

type queryFunc func(leaf, subleaf uint32) cpuid.Registers

func (f queryFunc) Query(leaf, subleaf uint32) cpuid.Registers {
	return f(leaf, subleaf)
}

// signatureRegisters splits a 12 character signature into the EBX, ECX, EDX
// values of leaf 0
func signatureRegisters(s string) (ebx, ecx, edx uint32) {
	var chars [SignatureLength]byte
	copy(chars[:], s)
	return binary.LittleEndian.Uint32(chars[0:4]),
		binary.LittleEndian.Uint32(chars[8:12]),
		binary.LittleEndian.Uint32(chars[4:8])
}

func vendorLeaf(maxLeaf uint32, signature string) cpuid.Registers {
	ebx, ecx, edx := signatureRegisters(signature)
	return cpuid.Registers{maxLeaf, ebx, ecx, edx}
}

func bits(positions ...uint) uint32 {
	var v uint32
	for _, p := range positions {
		v |= 1 << p
	}
	return v
}

// cacheLeaf encodes one deterministic cache descriptor
func cacheLeaf(cacheType, level, sharingThreads, lineSize, partitions, ways, sets uint32) cpuid.Registers {
	return cpuid.Registers{
		cacheType | level<<5 | (sharingThreads-1)<<14,
		(lineSize - 1) | (partitions-1)<<12 | (ways-1)<<22,
		sets - 1,
		0,
	}
}

func setBrand(s *cpuid.Script, name string) {
	var chars [BrandNameLength]byte
	copy(chars[:], name)
	for i := range 3 {
		var regs cpuid.Registers
		for j := range regs {
			offset := i*16 + j*4
			regs[j] = binary.LittleEndian.Uint32(chars[offset : offset+4])
		}
		s.Set(leafBrandFirst+uint32(i), 0, regs)
	}
}

// feature bits of leaf 1 ECX and EDX for a processor with everything up to F16C
var (
	allFeaturesECX = bits(0, 9, 12, 19, 20, 23, 28, 29)
	allFeaturesEDX = bits(4, 25, 26)
)

// intelCoffeeLake is a 6 core, 12 thread desktop part reporting topology through
// leaf 0xB and caches through leaf 4
func intelCoffeeLake() *cpuid.Script {
	s := cpuid.NewScript(true)
	s.Set(0x0, 0, vendorLeaf(0x16, IntelVendor))
	s.Set(0x1, 0, cpuid.Registers{0x000906EA, 12 << 16, allFeaturesECX, allFeaturesEDX | bits(28)})
	s.Set(0x4, 0, cacheLeaf(1, 1, 2, 64, 1, 8, 64))
	s.Set(0x4, 1, cacheLeaf(2, 1, 2, 64, 1, 8, 64))
	s.Set(0x4, 2, cacheLeaf(3, 2, 2, 64, 1, 4, 1024))
	s.Set(0x4, 3, cacheLeaf(3, 3, 16, 64, 1, 16, 12288))
	s.Set(0x7, 0, cpuid.Registers{0, bits(3, 5, 8), 0, 0})
	s.Set(0xB, 0, cpuid.Registers{1, 2, 0x100, 0})
	s.Set(0xB, 1, cpuid.Registers{4, 12, 0x201, 0})
	s.Set(0x80000000, 0, cpuid.Registers{0x80000008, 0, 0, 0})
	s.Set(0x80000001, 0, cpuid.Registers{0, 0, bits(0, 5, 8), bits(11, 20, 27, 29)})
	setBrand(s, "Intel(R) Core(TM) i7-8700 CPU @ 3.20GHz")
	return s
}

// intelSapphireRapids reports topology through leaf 0x1F and AVX-512
func intelSapphireRapids() *cpuid.Script {
	s := cpuid.NewScript(true)
	s.Set(0x0, 0, vendorLeaf(0x20, IntelVendor))
	s.Set(0x1, 0, cpuid.Registers{0x000806F8, 0, allFeaturesECX, allFeaturesEDX | bits(28)})
	s.Set(0x4, 0, cacheLeaf(1, 1, 2, 64, 1, 12, 64))
	s.Set(0x4, 1, cacheLeaf(3, 2, 2, 64, 1, 16, 2048))
	s.Set(0x4, 2, cacheLeaf(3, 3, 256, 64, 1, 15, 114688))
	s.Set(0x7, 0, cpuid.Registers{0, bits(3, 5, 8, 16), 0, 0})
	s.Set(0xB, 0, cpuid.Registers{1, 2, 0x100, 0})
	s.Set(0xB, 1, cpuid.Registers{7, 999, 0x201, 0})
	s.Set(0x1F, 0, cpuid.Registers{1, 2, 0x100, 0})
	s.Set(0x1F, 1, cpuid.Registers{7, 112, 0x201, 0})
	s.Set(0x80000000, 0, cpuid.Registers{0x80000008, 0, 0, 0})
	s.Set(0x80000001, 0, cpuid.Registers{0, 0, bits(5), 0})
	setBrand(s, "Intel(R) Xeon(R) Platinum 8480+")
	return s
}

// intelPentium4 is a hyper-threaded part that predates leaf 4
func intelPentium4() *cpuid.Script {
	s := cpuid.NewScript(true)
	s.Set(0x0, 0, vendorLeaf(0x2, IntelVendor))
	s.Set(0x1, 0, cpuid.Registers{0x00000F29, 2 << 16, 0, bits(25, 26, 28)})
	s.Set(0x80000000, 0, cpuid.Registers{0x80000004, 0, 0, 0})
	setBrand(s, "              Intel(R) Pentium(R) 4 CPU 3.06GHz")
	return s
}

// amdZen2 is an 8 core, 16 thread part that reports caches through the cache
// topology leaf. Its highest standard leaf is below 0xB so the core count comes
// from leaf 0x80000008.
func amdZen2() *cpuid.Script {
	s := cpuid.NewScript(true)
	s.Set(0x0, 0, vendorLeaf(0xA, AMDVendor))
	s.Set(0x1, 0, cpuid.Registers{0x00870F10, 16 << 16, allFeaturesECX, allFeaturesEDX | bits(28)})
	s.Set(0x7, 0, cpuid.Registers{0, bits(3, 5, 8), 0, 0})
	s.Set(0x80000000, 0, cpuid.Registers{0x8000001F, 0, 0, 0})
	s.Set(0x80000001, 0, cpuid.Registers{0, 0, bits(1, 5, 22), 0})
	s.Set(0x80000008, 0, cpuid.Registers{0x3030, 0, 15, 0})
	s.Set(0x8000001D, 0, cacheLeaf(1, 1, 2, 64, 1, 8, 64))
	s.Set(0x8000001D, 1, cacheLeaf(2, 1, 2, 64, 1, 8, 64))
	s.Set(0x8000001D, 2, cacheLeaf(3, 2, 2, 64, 1, 8, 1024))
	s.Set(0x8000001D, 3, cacheLeaf(3, 3, 8, 64, 1, 16, 16384))
	setBrand(s, "AMD Ryzen 7 3700X 8-Core Processor")
	return s
}

// amdZen4 reports leaf 0xB and the AVX-512 state component
func amdZen4() *cpuid.Script {
	s := cpuid.NewScript(true)
	s.Set(0x0, 0, vendorLeaf(0x11, AMDVendor))
	s.Set(0x1, 0, cpuid.Registers{0x00A60F12, 32 << 16, allFeaturesECX, allFeaturesEDX | bits(28)})
	s.Set(0x7, 0, cpuid.Registers{0, bits(3, 5, 8, 16), 0, 0})
	s.Set(0xB, 0, cpuid.Registers{1, 2, 0x100, 0})
	s.Set(0xB, 1, cpuid.Registers{5, 32, 0x201, 0})
	s.Set(0xD, 5, cpuid.Registers{0x40, 0x340, 0, 0})
	s.Set(0x80000000, 0, cpuid.Registers{0x80000021, 0, 0, 0})
	s.Set(0x80000001, 0, cpuid.Registers{0, 0, bits(1, 5, 22), 0})
	s.Set(0x80000008, 0, cpuid.Registers{0x3030, 0, 31, 0})
	s.Set(0x8000001D, 0, cacheLeaf(1, 1, 2, 64, 1, 8, 64))
	s.Set(0x8000001D, 1, cacheLeaf(3, 2, 2, 64, 1, 8, 2048))
	s.Set(0x8000001D, 2, cacheLeaf(3, 3, 16, 64, 1, 16, 32768))
	setBrand(s, "AMD Ryzen 9 7950X 16-Core Processor")
	return s
}

// unknownVendor reports common features but no recognized signature
func unknownVendor() *cpuid.Script {
	s := cpuid.NewScript(true)
	s.Set(0x0, 0, vendorLeaf(0x7, "CentaurHauls"))
	s.Set(0x1, 0, cpuid.Registers{0x000006F2, 4 << 16, bits(0, 9), bits(25, 26, 28)})
	s.Set(0x4, 0, cacheLeaf(1, 1, 1, 64, 1, 8, 64))
	s.Set(0x7, 0, cpuid.Registers{0, bits(5), 0, 0})
	s.Set(0xB, 0, cpuid.Registers{1, 2, 0x100, 0})
	s.Set(0xB, 1, cpuid.Registers{4, 8, 0x201, 0})
	s.Set(0x80000000, 0, cpuid.Registers{0x80000001, 0, 0, 0})
	return s
}
