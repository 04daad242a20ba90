package cpuid

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import "log/slog"

// Probe reports whether the identification instruction can be used. It toggles the
// ID bit of the flag register, writes it back and reads the register again; the
// instruction is available if the toggle stuck. The original flags are written back
// before returning.
func Probe(f FlagRegister) bool {
	original := f.ReadFlags()
	f.WriteFlags(original ^ IDFlag)
	toggled := f.ReadFlags()
	f.WriteFlags(original)
	available := (toggled^original)&IDFlag != 0
	slog.Debug("cpuid availability probe", slog.Bool("available", available))
	return available
}
