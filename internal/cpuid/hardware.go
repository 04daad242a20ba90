package cpuid

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// Hardware queries the processor the program is running on. On architectures
// without the identification instruction every query returns zeros and Probe
// reports false.
type Hardware struct{}

// Query implements Querier
func (Hardware) Query(leaf, subleaf uint32) Registers {
	eax, ebx, ecx, edx := cpuidex(leaf, subleaf)
	return Registers{eax, ebx, ecx, edx}
}

// ReadFlags implements FlagRegister
func (Hardware) ReadFlags() uint64 {
	return readFlags()
}

// WriteFlags implements FlagRegister
func (Hardware) WriteFlags(flags uint64) {
	writeFlags(flags)
}
