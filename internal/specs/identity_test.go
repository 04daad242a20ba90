package specs

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"cpuspecs/internal/cpuid"
)

func TestVendorFromSignature(t *testing.T) {
	assert.Equal(t, VendorAMD, VendorFromSignature(0x444D4163))
	assert.Equal(t, VendorIntel, VendorFromSignature(0x6C65746E))
	assert.Equal(t, VendorUnknown, VendorFromSignature(0))
	_, ecx, _ := signatureRegisters("CentaurHauls")
	assert.Equal(t, VendorUnknown, VendorFromSignature(ecx))
	assert.Equal(t, "Unknown", VendorUnknown.String())
}

func TestSignatureRoundTrip(t *testing.T) {
	sig := NewSignature(genuEBX, ineiEDX, ntelECX)
	assert.Equal(t, "GenuineIntel", sig.String())
	assert.Equal(t, SignatureLength, sig.Len())
	assert.Equal(t, VendorIntel, sig.Vendor())
	c, ok := sig.At(4)
	assert.True(t, ok)
	assert.Equal(t, byte('i'), c)
	_, ok = sig.At(12)
	assert.False(t, ok)
	_, ok = sig.At(-1)
	assert.False(t, ok)

	var empty Signature
	assert.Equal(t, 0, empty.Len())
	assert.Equal(t, "", empty.String())
	assert.Empty(t, empty.Bytes())
	_, ok = empty.At(0)
	assert.False(t, ok)
	assert.Equal(t, VendorUnknown, empty.Vendor())
}

func TestBrandName(t *testing.T) {
	var unread BrandName
	assert.False(t, unread.Available())
	assert.Equal(t, "", unread.String())
	assert.Nil(t, unread.Bytes())

	s := cpuid.NewScript(true)
	setBrand(s, "  AMD Ryzen 7 3700X 8-Core Processor   ")
	var leaves [3][4]uint32
	for i := range leaves {
		leaves[i] = s.Query(leafBrandFirst+uint32(i), 0)
	}
	name := NewBrandName(leaves)
	assert.True(t, name.Available())
	assert.Equal(t, "AMD Ryzen 7 3700X 8-Core Processor", name.String())
	assert.Len(t, name.Bytes(), BrandNameLength)
}

func TestIdentityVersionNumbers(t *testing.T) {
	tests := []struct {
		name     string
		vendor   string
		eax      uint32
		family   int
		model    int
		stepping int
	}{
		{"extended family added", AMDVendor, 0x00200F00, 17, 0, 0},
		{"extended model with family 0xF", AMDVendor, 0x00870F10, 23, 0x71, 0},
		{"intel family 6 extended model", IntelVendor, 0x000906EA, 6, 158, 10},
		{"amd family 6 ignores extended model", AMDVendor, 0x000306A9, 6, 0xA, 9},
		{"intel family 0xF", IntelVendor, 0x00000F29, 15, 2, 9},
		{"unknown vendor", "CentaurHauls", 0x000306F2, 6, 0xF, 2},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := cpuid.NewScript(true)
			s.Set(0x0, 0, vendorLeaf(1, tt.vendor))
			s.Set(0x1, 0, cpuid.Registers{tt.eax, 0, 0, 0})
			id := NewBackendDetector(s).Identity()
			assert.Equal(t, tt.family, id.Family)
			assert.Equal(t, tt.model, id.Model)
			assert.Equal(t, tt.stepping, id.Stepping)
			assert.Equal(t, tt.vendor, id.Manufacturer.String())
			assert.False(t, id.Name.Available())
		})
	}
}

func TestIdentityManufacturerRegisterOrder(t *testing.T) {
	s := cpuid.NewScript(true)
	s.Set(0x0, 0, cpuid.Registers{0xD, genuEBX, ntelECX, ineiEDX})
	id := NewBackendDetector(s).Identity()
	assert.Equal(t, "GenuineIntel", id.Manufacturer.String())
	assert.Equal(t, VendorIntel, id.Vendor())
}

func TestIdentityBrandNameNeedsBrandLeaves(t *testing.T) {
	s := intelCoffeeLake()
	s.Set(0x80000000, 0, cpuid.Registers{0x80000003, 0, 0, 0})
	assert.False(t, NewBackendDetector(s).Identity().Name.Available())

	s.Set(0x80000000, 0, cpuid.Registers{0x80000004, 0, 0, 0})
	id := NewBackendDetector(s).Identity()
	assert.True(t, id.Name.Available())
	assert.Equal(t, "Intel(R) Core(TM) i7-8700 CPU @ 3.20GHz", id.Name.String())
}
