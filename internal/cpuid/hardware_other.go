// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

//go:build !amd64 || purego

package cpuid

// The identification instruction is not reachable here. The flag register is
// modelled as a constant so that Probe always reports false.

func cpuidex(leaf, subleaf uint32) (eax, ebx, ecx, edx uint32) {
	return 0, 0, 0, 0
}

func readFlags() uint64 {
	return 0
}

func writeFlags(flags uint64) {}
