// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

//go:build amd64 && !purego

package cpuid

// cpuidex executes CPUID with EAX=leaf and ECX=subleaf.
// The implementation is in hardware_amd64.s
func cpuidex(leaf, subleaf uint32) (eax, ebx, ecx, edx uint32)

// readFlags returns RFLAGS
func readFlags() uint64

// writeFlags loads RFLAGS
func writeFlags(flags uint64)
