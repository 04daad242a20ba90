package specs

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"strings"
)

// Instruction is one instruction set extension flag
type Instruction uint32

const (
	// SIMD extensions
	SSE1 Instruction = 1 << iota
	SSE2
	SSE3
	SSSE3
	SSE4_1 //lint:ignore ST1003 instruction set names use underscores in place of dots
	SSE4_2 //lint:ignore ST1003 instruction set names use underscores in place of dots
	AVX1
	AVX2
	FMA3
	AVX512F
	// Bitwise instructions
	POPCNT
	LZCNT
	TZCNT
	BMI1
	BMI2
	TBM
	// Utilities
	RDTSCP
	F16C
)

// InstructionDefinition names an instruction flag
type InstructionDefinition struct {
	Instruction Instruction
	Name        string
	FullName    string
}

// InstructionDefinitions lists every flag in bit order
var InstructionDefinitions = []InstructionDefinition{
	{SSE1, "SSE1", "Streaming SIMD Extensions"},
	{SSE2, "SSE2", "Streaming SIMD Extensions 2"},
	{SSE3, "SSE3", "Streaming SIMD Extensions 3"},
	{SSSE3, "SSSE3", "Supplemental Streaming SIMD Extensions 3"},
	{SSE4_1, "SSE4_1", "Streaming SIMD Extensions 4.1"},
	{SSE4_2, "SSE4_2", "Streaming SIMD Extensions 4.2"},
	{AVX1, "AVX1", "Advanced Vector Extensions"},
	{AVX2, "AVX2", "Advanced Vector Extensions 2"},
	{FMA3, "FMA3", "Fused Multiply-Add (3 operand)"},
	{AVX512F, "AVX512F", "AVX-512 Foundation"},
	{POPCNT, "POPCNT", "Population Count"},
	{LZCNT, "LZCNT", "Leading Zero Count"},
	{TZCNT, "TZCNT", "Trailing Zero Count"},
	{BMI1, "BMI1", "Bit Manipulation Instruction Set 1"},
	{BMI2, "BMI2", "Bit Manipulation Instruction Set 2"},
	{TBM, "TBM", "Trailing Bit Manipulation"},
	{RDTSCP, "RDTSCP", "Read Time-Stamp Counter"},
	{F16C, "F16C", "Half-Precision Conversion"},
}

func (i Instruction) String() string {
	for _, def := range InstructionDefinitions {
		if def.Instruction == i {
			return def.Name
		}
	}
	return "UNKNOWN"
}

// ParseInstruction looks up an instruction by name. Matching ignores case and
// accepts a dot in place of the underscore, e.g., "sse4.2".
func ParseInstruction(name string) (Instruction, bool) {
	name = strings.ReplaceAll(strings.TrimSpace(name), ".", "_")
	for _, def := range InstructionDefinitions {
		if strings.EqualFold(def.Name, name) {
			return def.Instruction, true
		}
	}
	return 0, false
}

// InstructionSet is the set of instruction flags decoded for a processor. The zero
// value is the empty set.
type InstructionSet struct {
	bits uint32
}

// NewInstructionSet returns a set holding the given instructions
func NewInstructionSet(instructions ...Instruction) InstructionSet {
	var s InstructionSet
	for _, i := range instructions {
		s.Assign(i, true)
	}
	return s
}

// Has reports whether every bit of i is present
func (s InstructionSet) Has(i Instruction) bool {
	return s.bits&uint32(i) == uint32(i)
}

// Assign sets the bits of i when present is true and clears them otherwise,
// leaving every other bit untouched. Decoders update the set through it only.
func (s *InstructionSet) Assign(i Instruction, present bool) {
	if present {
		s.bits |= uint32(i)
	} else {
		s.bits &^= uint32(i)
	}
}

// Bits returns the raw bit mask
func (s InstructionSet) Bits() uint32 {
	return s.bits
}

// IsEmpty reports whether no flag is set
func (s InstructionSet) IsEmpty() bool {
	return s.bits == 0
}

// Names returns the names of the present instructions in bit order
func (s InstructionSet) Names() []string {
	var names []string
	for _, def := range InstructionDefinitions {
		if s.Has(def.Instruction) {
			names = append(names, def.Name)
		}
	}
	return names
}

func (s InstructionSet) String() string {
	if s.IsEmpty() {
		return "none"
	}
	return strings.Join(s.Names(), " ")
}
