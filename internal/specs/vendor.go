package specs

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// Vendor is a processor manufacturer recognized by the decoders
type Vendor int

const (
	VendorUnknown Vendor = iota
	VendorAMD
	VendorIntel
)

// last four signature characters, as returned in ECX of leaf 0
const (
	amdSignatureECX   uint32 = 0x444D4163 // "cAMD" of "AuthenticAMD"
	intelSignatureECX uint32 = 0x6C65746E // "ntel" of "GenuineIntel"
)

const (
	AMDVendor   = "AuthenticAMD"
	IntelVendor = "GenuineIntel"
)

// VendorFromSignature selects a vendor from the ECX value of leaf 0
func VendorFromSignature(ecx uint32) Vendor {
	switch ecx {
	case amdSignatureECX:
		return VendorAMD
	case intelSignatureECX:
		return VendorIntel
	}
	return VendorUnknown
}

func (v Vendor) String() string {
	switch v {
	case VendorAMD:
		return AMDVendor
	case VendorIntel:
		return IntelVendor
	}
	return "Unknown"
}
