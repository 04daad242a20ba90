package report

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// table_helpers.go contains helper functions that format profile values for the tables

import (
	"fmt"
	"strconv"

	"cpuspecs/internal/cpus"
	"cpuspecs/internal/specs"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// use printer to get commas at thousands, e.g., 1,048,576
var printer = message.NewPrinter(language.English)

// formatCount returns n with thousands separators
func formatCount(n int) string {
	return printer.Sprintf("%d", n)
}

// formatSize returns a byte count in the largest binary unit that divides it
// evenly, e.g., "48 KiB", "1.25 MiB" when it does not
func formatSize(bytes int) string {
	const (
		kib = 1024
		mib = 1024 * kib
	)
	switch {
	case bytes == 0:
		return "0"
	case bytes >= mib:
		return formatUnit(bytes, mib, "MiB")
	case bytes >= kib:
		return formatUnit(bytes, kib, "KiB")
	}
	return fmt.Sprintf("%d B", bytes)
}

func formatUnit(bytes, unit int, suffix string) string {
	if bytes%unit == 0 {
		return printer.Sprintf("%d %s", bytes/unit, suffix)
	}
	return fmt.Sprintf("%s %s", strconv.FormatFloat(float64(bytes)/float64(unit), 'f', -1, 64), suffix)
}

func formatLeaf(leaf uint32) string {
	return fmt.Sprintf("0x%08X", leaf)
}

func yesNo(b bool) string {
	if b {
		return "Yes"
	}
	return "No"
}

// microarchitecture returns the characteristics of the profile's processor, or
// the zero value when the identity is not in the cpus table
func microarchitecture(p specs.Profile) (cpus.CPUCharacteristics, bool) {
	if !p.Available {
		return cpus.CPUCharacteristics{}, false
	}
	id := p.Identity
	cpu, err := cpus.Lookup(p.Vendor().String(), id.Family, id.Model, id.Stepping)
	if err != nil {
		return cpus.CPUCharacteristics{}, false
	}
	return cpu, true
}

// cacheInstances returns how many copies of a cache level the processor has
func cacheInstances(s specs.Specs, level specs.CacheLevel) int {
	cache := s.Cache(level)
	if cache.DataCacheSize == 0 || cache.AttachedCoreCount == 0 {
		return 0
	}
	instances := s.CoreCount / cache.AttachedCoreCount
	if instances == 0 {
		return 1
	}
	return instances
}
