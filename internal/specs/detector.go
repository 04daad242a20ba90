package specs

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"log/slog"

	"cpuspecs/internal/cpuid"
)

// Detector decodes specs and identity from a CPUID backend. A Detector holds no
// state between calls, so repeated calls against the same backend return equal
// values.
type Detector struct {
	querier cpuid.Querier
	flags   cpuid.FlagRegister
}

// NewDetector returns a Detector issuing queries to q and probing availability
// through f
func NewDetector(q cpuid.Querier, f cpuid.FlagRegister) *Detector {
	return &Detector{querier: q, flags: f}
}

// NewBackendDetector returns a Detector using b for both queries and the probe
func NewBackendDetector(b cpuid.Backend) *Detector {
	return NewDetector(b, b)
}

// NewHardwareDetector returns a Detector reading the executing processor
func NewHardwareDetector() *Detector {
	return NewBackendDetector(cpuid.Hardware{})
}

// Available reports whether the CPUID instruction can be executed
func (d *Detector) Available() bool {
	return cpuid.Probe(d.flags)
}

// LeafContext returns the highest standard and extended leaves, zero when CPUID is
// unavailable
func (d *Detector) LeafContext() LeafContext {
	if !d.Available() {
		return LeafContext{}
	}
	return resolveLeafContext(d.querier)
}

// Specs decodes the capability profile. Without CPUID the defaults are returned
// and no query is issued.
func (d *Detector) Specs() Specs {
	if !d.Available() {
		slog.Debug("cpuid unavailable, using default specs")
		return DefaultSpecs()
	}
	return decodeSpecs(d.querier, resolveLeafContext(d.querier))
}

// Identity decodes manufacturer, brand and version numbers. Without CPUID the
// default identity is returned and no query is issued.
func (d *Detector) Identity() Identity {
	if !d.Available() {
		slog.Debug("cpuid unavailable, using default identity")
		return DefaultIdentity()
	}
	return decodeIdentity(d.querier)
}

// Profile probes once and decodes both specs and identity
func (d *Detector) Profile() Profile {
	if !d.Available() {
		slog.Debug("cpuid unavailable, using default profile")
		return DefaultProfile()
	}
	leaves := resolveLeafContext(d.querier)
	return Profile{
		Available: true,
		Leaves:    leaves,
		Specs:     decodeSpecs(d.querier, leaves),
		Identity:  decodeIdentity(d.querier),
	}
}

// Detect returns the profile of the executing processor
func Detect() Profile {
	return NewHardwareDetector().Profile()
}

func decodeIdentity(q cpuid.Querier) Identity {
	id := DefaultIdentity()
	vendor := q.Query(leafVendor, 0)
	id.Manufacturer = NewSignature(vendor[cpuid.EBX], vendor[cpuid.EDX], vendor[cpuid.ECX])

	version := q.Query(leafFeatures, 0)[cpuid.EAX]
	id.Family = int(version>>8&0xF)
	id.Model = int(version>>4&0xF)
	id.Stepping = int(version&0xF)
	if id.Family == 0xF {
		id.Family += int(version>>20&0xFF)
		id.Model |= int(version>>12&0xF0)
	}
	if VendorFromSignature(vendor[cpuid.ECX]) == VendorIntel && id.Family == 0x6 {
		id.Model |= int(version>>12&0xF0)
	}

	if q.Query(leafExtBase, 0)[cpuid.EAX] >= leafBrandLast {
		var brand [3][4]uint32
		for i := range brand {
			brand[i] = q.Query(leafBrandFirst+uint32(i), 0)
		}
		id.Name = NewBrandName(brand)
	}
	slog.Debug("decoded cpu identity", slog.String("manufacturer", id.Manufacturer.String()),
		slog.Int("family", id.Family), slog.Int("model", id.Model), slog.Int("stepping", id.Stepping),
		slog.String("name", id.Name.String()))
	return id
}
