package cpuid

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"cmp"
	"maps"
	"slices"
)

// Script is a Backend that answers queries from a fixed table of register values.
// Queries for leaves that are not in the table return zeros.
type Script struct {
	// Sticky controls whether a toggled ID flag survives a write followed by a read,
	// i.e., whether Probe reports the instruction as available.
	Sticky bool

	leaves map[Key]Registers
	flags  uint64
}

// NewScript returns an empty script
func NewScript(sticky bool) *Script {
	return &Script{
		Sticky: sticky,
		leaves: make(map[Key]Registers),
	}
}

// Set stores the registers returned for leaf/subleaf and returns the script so calls
// can be chained.
func (s *Script) Set(leaf, subleaf uint32, regs Registers) *Script {
	if s.leaves == nil {
		s.leaves = make(map[Key]Registers)
	}
	s.leaves[Key{Leaf: leaf, Subleaf: subleaf}] = regs
	return s
}

// Lookup returns the registers stored for leaf/subleaf, if any
func (s *Script) Lookup(leaf, subleaf uint32) (Registers, bool) {
	regs, ok := s.leaves[Key{Leaf: leaf, Subleaf: subleaf}]
	return regs, ok
}

// Keys returns the stored keys ordered by leaf then subleaf
func (s *Script) Keys() []Key {
	keys := slices.Collect(maps.Keys(s.leaves))
	slices.SortFunc(keys, func(a, b Key) int {
		if c := cmp.Compare(a.Leaf, b.Leaf); c != 0 {
			return c
		}
		return cmp.Compare(a.Subleaf, b.Subleaf)
	})
	return keys
}

// Len returns the number of stored entries
func (s *Script) Len() int {
	return len(s.leaves)
}

// Query implements Querier
func (s *Script) Query(leaf, subleaf uint32) Registers {
	return s.leaves[Key{Leaf: leaf, Subleaf: subleaf}]
}

// ReadFlags implements FlagRegister
func (s *Script) ReadFlags() uint64 {
	return s.flags
}

// WriteFlags implements FlagRegister. When the script is not sticky the ID bit keeps
// its previous value.
func (s *Script) WriteFlags(flags uint64) {
	if s.Sticky {
		s.flags = flags
		return
	}
	s.flags = (flags &^ IDFlag) | (s.flags & IDFlag)
}
