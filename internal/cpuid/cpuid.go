// Package cpuid provides access to the processor identification instruction and the
// flag register used to detect it, behind interfaces so that decoders can be driven
// by the real processor, by a scripted fake, or by a recorded dump.
package cpuid

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import "fmt"

// Register slots, in the order a query returns them
const (
	EAX = 0
	EBX = 1
	ECX = 2
	EDX = 3
)

// ExtendedBase is the first leaf of the extended leaf range
const ExtendedBase uint32 = 0x80000000

// IDFlag is the flag register bit that can only be toggled when the identification
// instruction is supported
const IDFlag uint64 = 1 << 21

// Registers holds the four register values returned by one query
type Registers [4]uint32

// Key identifies a query by leaf and subleaf
type Key struct {
	Leaf    uint32
	Subleaf uint32
}

func (k Key) String() string {
	return fmt.Sprintf("0x%08x/0x%x", k.Leaf, k.Subleaf)
}

// Querier issues one identification query for a (leaf, subleaf) pair.
type Querier interface {
	Query(leaf, subleaf uint32) Registers
}

// FlagRegister reads and writes the processor's flag register.
type FlagRegister interface {
	ReadFlags() uint64
	WriteFlags(flags uint64)
}

// Backend is the pair of primitives a detection pass needs.
type Backend interface {
	Querier
	FlagRegister
}
