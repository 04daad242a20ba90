// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// Package compare checks a decoded capability profile against the feature
// detection of other libraries.
package compare

import (
	"fmt"
	"log/slog"
	"strconv"

	mapset "github.com/deckarep/golang-set/v2"

	"cpuspecs/internal/specs"
)

// Unknown marks a reference value the library could not detect
const Unknown = -1

// Reference is what another detection library reports for the executing processor.
// Fields the library does not report are Unknown, and Instructions only holds the
// flags the library knows about.
type Reference struct {
	Source         string
	Instructions   map[specs.Instruction]bool
	CoreCount      int
	ThreadsPerCore int
	CacheLineSize  int
	CacheSizes     [specs.CacheLevelCount]int
	Vendor         string
	Family         int
	Model          int
	Stepping       int
}

// Difference is one value on which the decoded profile and the reference disagree
type Difference struct {
	Field     string
	Decoded   string
	Reference string
}

// Result of comparing a profile with one reference
type Result struct {
	Source      string
	Agreed      mapset.Set[string]
	Unchecked   mapset.Set[string]
	Differences []Difference
}

// Matches reports whether no difference was found
func (r Result) Matches() bool {
	return len(r.Differences) == 0
}

// Compare checks every field the reference reports against the profile
func Compare(p specs.Profile, ref Reference) Result {
	result := Result{
		Source:    ref.Source,
		Agreed:    mapset.NewThreadUnsafeSet[string](),
		Unchecked: mapset.NewThreadUnsafeSet[string](),
	}
	check := func(field string, decoded, reference int) {
		if reference == Unknown {
			result.Unchecked.Add(field)
			return
		}
		if decoded == reference {
			result.Agreed.Add(field)
			return
		}
		result.Differences = append(result.Differences, Difference{Field: field, Decoded: strconv.Itoa(decoded), Reference: strconv.Itoa(reference)})
	}
	check("core_count", p.Specs.CoreCount, ref.CoreCount)
	check("threads_per_core", p.Specs.ThreadsPerCore, ref.ThreadsPerCore)
	check("cache_line_size", p.Specs.CacheLineSize, ref.CacheLineSize)
	for _, level := range specs.CacheLevels {
		check(level.String()+"_size", p.Specs.Cache(level).DataCacheSize, ref.CacheSizes[level])
	}
	check("family", p.Identity.Family, ref.Family)
	check("model", p.Identity.Model, ref.Model)
	check("stepping", p.Identity.Stepping, ref.Stepping)
	if ref.Vendor == "" {
		result.Unchecked.Add("vendor")
	} else if ref.Vendor == p.Identity.Manufacturer.String() {
		result.Agreed.Add("vendor")
	} else {
		result.Differences = append(result.Differences, Difference{Field: "vendor", Decoded: p.Identity.Manufacturer.String(), Reference: ref.Vendor})
	}

	decoded := mapset.NewThreadUnsafeSet[string]()
	reported := mapset.NewThreadUnsafeSet[string]()
	known := mapset.NewThreadUnsafeSet[string]()
	for _, def := range specs.InstructionDefinitions {
		present, ok := ref.Instructions[def.Instruction]
		if !ok {
			result.Unchecked.Add(def.Name)
			continue
		}
		known.Add(def.Name)
		if present {
			reported.Add(def.Name)
		}
		if p.Specs.Instructions.Has(def.Instruction) {
			decoded.Add(def.Name)
		}
	}
	result.Agreed = result.Agreed.Union(known.Difference(decoded.SymmetricDifference(reported)))
	for _, name := range mapset.Sorted(decoded.Difference(reported)) {
		result.Differences = append(result.Differences, Difference{Field: name, Decoded: "yes", Reference: "no"})
	}
	for _, name := range mapset.Sorted(reported.Difference(decoded)) {
		result.Differences = append(result.Differences, Difference{Field: name, Decoded: "no", Reference: "yes"})
	}
	slog.Debug("compared profile", slog.String("source", ref.Source), slog.Int("agreed", result.Agreed.Cardinality()),
		slog.Int("differences", len(result.Differences)))
	return result
}

// Run compares the profile with every available reference library
func Run(p specs.Profile) []Result {
	var results []Result
	for _, ref := range References() {
		results = append(results, Compare(p, ref))
	}
	return results
}

func (d Difference) String() string {
	return fmt.Sprintf("%s: decoded %s, reference %s", d.Field, d.Decoded, d.Reference)
}
