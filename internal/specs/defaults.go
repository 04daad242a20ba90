package specs

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// default values reported when nothing is decoded
const (
	DefaultL1DataCacheSize = 4 * KiB
	DefaultCacheLineSize   = 64
)

// DefaultSpecs returns the specs reported when CPUID is unavailable. The decoders
// start from these values and overwrite what they find.
func DefaultSpecs() Specs {
	return Specs{
		Caches: [CacheLevelCount]CacheLevelSpecs{
			L1: {DataCacheSize: DefaultL1DataCacheSize, AttachedCoreCount: 1},
		},
		CacheLineSize:  DefaultCacheLineSize,
		ThreadsPerCore: 1,
		CoreCount:      1,
	}
}

// DefaultIdentity returns the empty identity: zero version numbers, an empty
// signature and no brand name.
func DefaultIdentity() Identity {
	return Identity{}
}

// DefaultProfile returns the profile of a processor without CPUID
func DefaultProfile() Profile {
	return Profile{
		Specs:    DefaultSpecs(),
		Identity: DefaultIdentity(),
	}
}
