package specs

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"bytes"
	"encoding/binary"
	"strings"
)

// SignatureLength is the number of characters in a manufacturer signature
const SignatureLength = 12

// BrandNameLength is the number of bytes in a processor brand string
const BrandNameLength = 48

// Signature is the manufacturer identification string, e.g., "GenuineIntel".
// The zero value is the empty signature.
type Signature struct {
	chars  [SignatureLength]byte
	length int
}

// NewSignature assembles a signature from the three registers of leaf 0 in the
// order they appear in the string, i.e., EBX, EDX, ECX.
func NewSignature(first, second, third uint32) Signature {
	var s Signature
	binary.LittleEndian.PutUint32(s.chars[0:4], first)
	binary.LittleEndian.PutUint32(s.chars[4:8], second)
	binary.LittleEndian.PutUint32(s.chars[8:12], third)
	s.length = SignatureLength
	return s
}

// Len returns 12 for a decoded signature and 0 otherwise
func (s Signature) Len() int {
	return s.length
}

// At returns the character at position i, false when i is out of range
func (s Signature) At(i int) (byte, bool) {
	if i < 0 || i >= s.length {
		return 0, false
	}
	return s.chars[i], true
}

// Bytes returns a copy of the signature characters
func (s Signature) Bytes() []byte {
	return bytes.Clone(s.chars[:s.length])
}

func (s Signature) String() string {
	return string(s.chars[:s.length])
}

// Vendor returns the vendor named by the signature
func (s Signature) Vendor() Vendor {
	if s.length != SignatureLength {
		return VendorUnknown
	}
	return VendorFromSignature(binary.LittleEndian.Uint32(s.chars[8:12]))
}

// BrandName is the processor brand string. It is only present when the processor
// reports the brand string leaves.
type BrandName struct {
	chars [BrandNameLength]byte
	valid bool
}

// NewBrandName builds a brand name from the registers of the three brand string
// leaves, each contributing EAX, EBX, ECX, EDX in that order.
func NewBrandName(leaves [3][4]uint32) BrandName {
	var n BrandName
	for i, regs := range leaves {
		for j, reg := range regs {
			offset := i*16 + j*4
			binary.LittleEndian.PutUint32(n.chars[offset:offset+4], reg)
		}
	}
	n.valid = true
	return n
}

// Available reports whether the brand string was read
func (n BrandName) Available() bool {
	return n.valid
}

// Bytes returns a copy of the raw 48 bytes, nil when unavailable
func (n BrandName) Bytes() []byte {
	if !n.valid {
		return nil
	}
	return bytes.Clone(n.chars[:])
}

// String returns the brand string up to the first NUL with padding spaces trimmed
func (n BrandName) String() string {
	if !n.valid {
		return ""
	}
	raw := n.chars[:]
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	return strings.TrimSpace(string(raw))
}

// Identity holds the manufacturer, brand and version numbers of the processor
type Identity struct {
	Family       int
	Model        int
	Stepping     int
	Manufacturer Signature
	Name         BrandName
}

// Vendor returns the vendor named by the manufacturer signature
func (id Identity) Vendor() Vendor {
	return id.Manufacturer.Vendor()
}
