// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// Package exporter publishes a decoded capability profile as Prometheus metrics.
package exporter

import (
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"cpuspecs/internal/cpus"
	"cpuspecs/internal/specs"
)

const promMetricPrefix = "cpuspecs_"

// ProfileSource returns the profile to export on each scrape
type ProfileSource func() specs.Profile

// StoreSource reads the published profile of a store
func StoreSource(s *specs.Store) ProfileSource {
	return func() specs.Profile {
		p, _ := s.Load()
		return p
	}
}

// Collector is a prometheus.Collector exporting one profile
type Collector struct {
	source ProfileSource

	available      *prometheus.Desc
	info           *prometheus.Desc
	cacheSize      *prometheus.Desc
	cacheCores     *prometheus.Desc
	cacheLineSize  *prometheus.Desc
	coreCount      *prometheus.Desc
	threadsPerCore *prometheus.Desc
	instruction    *prometheus.Desc
}

// NewCollector returns a collector reading the profile from source
func NewCollector(source ProfileSource) *Collector {
	return &Collector{
		source: source,
		available: prometheus.NewDesc(promMetricPrefix+"cpuid_available",
			"Whether the CPUID instruction is available (1) or defaults are reported (0)", nil, nil),
		info: prometheus.NewDesc(promMetricPrefix+"info",
			"Processor identity, always 1", []string{"vendor", "name", "family", "model", "stepping", "microarchitecture"}, nil),
		cacheSize: prometheus.NewDesc(promMetricPrefix+"cache_size_bytes",
			"Data or unified cache size per level", []string{"level"}, nil),
		cacheCores: prometheus.NewDesc(promMetricPrefix+"cache_attached_cores",
			"Number of cores sharing one instance of the cache", []string{"level"}, nil),
		cacheLineSize: prometheus.NewDesc(promMetricPrefix+"cache_line_size_bytes",
			"Cache line size", nil, nil),
		coreCount: prometheus.NewDesc(promMetricPrefix+"core_count",
			"Number of physical cores", nil, nil),
		threadsPerCore: prometheus.NewDesc(promMetricPrefix+"threads_per_core",
			"Number of hardware threads per core", nil, nil),
		instruction: prometheus.NewDesc(promMetricPrefix+"instruction_supported",
			"Whether the instruction set extension is supported", []string{"instruction"}, nil),
	}
}

// Describe implements prometheus.Collector
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	for _, desc := range []*prometheus.Desc{c.available, c.info, c.cacheSize, c.cacheCores, c.cacheLineSize, c.coreCount, c.threadsPerCore, c.instruction} {
		ch <- desc
	}
}

// Collect implements prometheus.Collector
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	p := c.source()
	gauge := func(desc *prometheus.Desc, value float64, labels ...string) {
		ch <- prometheus.MustNewConstMetric(desc, prometheus.GaugeValue, value, labels...)
	}
	gauge(c.available, boolValue(p.Available))
	id := p.Identity
	uarch := ""
	if cpu, err := cpus.Lookup(id.Manufacturer.String(), id.Family, id.Model, id.Stepping); err == nil {
		uarch = cpu.MicroArchitecture
	}
	gauge(c.info, 1, id.Manufacturer.String(), id.Name.String(),
		strconv.Itoa(id.Family), strconv.Itoa(id.Model), strconv.Itoa(id.Stepping), uarch)
	for _, level := range specs.CacheLevels {
		cache := p.Specs.Cache(level)
		name := strings.ToLower(level.String())
		gauge(c.cacheSize, float64(cache.DataCacheSize), name)
		gauge(c.cacheCores, float64(cache.AttachedCoreCount), name)
	}
	gauge(c.cacheLineSize, float64(p.Specs.CacheLineSize))
	gauge(c.coreCount, float64(p.Specs.CoreCount))
	gauge(c.threadsPerCore, float64(p.Specs.ThreadsPerCore))
	for _, def := range specs.InstructionDefinitions {
		gauge(c.instruction, boolValue(p.Specs.Instructions.Has(def.Instruction)), strings.ToLower(def.Name))
	}
}

func boolValue(b bool) float64 {
	if b {
		return 1
	}
	return 0
}
