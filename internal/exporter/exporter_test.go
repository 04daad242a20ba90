// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package exporter

import (
	"context"
	"io"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"cpuspecs/internal/cpuid"
	"cpuspecs/internal/specs"
)

func testProfile() specs.Profile {
	p := specs.DefaultProfile()
	p.Available = true
	p.Specs.CoreCount = 6
	p.Specs.ThreadsPerCore = 2
	p.Specs.Caches[specs.L3] = specs.CacheLevelSpecs{DataCacheSize: 12 * 1024 * 1024, AttachedCoreCount: 6}
	p.Specs.Instructions = specs.NewInstructionSet(specs.SSE2, specs.AVX2)
	p.Identity = specs.Identity{Family: 6, Model: 158, Stepping: 10, Manufacturer: specs.NewSignature(0x756E6547, 0x49656E69, 0x6C65746E)}
	return p
}

func TestCollector(t *testing.T) {
	c := NewCollector(func() specs.Profile { return testProfile() })
	expected := `
# HELP cpuspecs_cache_size_bytes Data or unified cache size per level
# TYPE cpuspecs_cache_size_bytes gauge
cpuspecs_cache_size_bytes{level="l1"} 4096
cpuspecs_cache_size_bytes{level="l2"} 0
cpuspecs_cache_size_bytes{level="l3"} 1.2582912e+07
# HELP cpuspecs_core_count Number of physical cores
# TYPE cpuspecs_core_count gauge
cpuspecs_core_count 6
# HELP cpuspecs_info Processor identity, always 1
# TYPE cpuspecs_info gauge
cpuspecs_info{family="6",microarchitecture="CFL",model="158",name="",stepping="10",vendor="GenuineIntel"} 1
`
	err := testutil.CollectAndCompare(c, strings.NewReader(expected),
		"cpuspecs_cache_size_bytes", "cpuspecs_core_count", "cpuspecs_info")
	require.NoError(t, err)

	// 5 unlabelled gauges, 2 series per cache level and one per instruction
	assert.Equal(t, 5+6+18, testutil.CollectAndCount(c))
	assert.Equal(t, 18, testutil.CollectAndCount(c, "cpuspecs_instruction_supported"))
}

func TestCollectorInstructionValues(t *testing.T) {
	c := NewCollector(func() specs.Profile { return testProfile() })
	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(c))
	families, err := reg.Gather()
	require.NoError(t, err)
	values := map[string]float64{}
	for _, family := range families {
		if family.GetName() != "cpuspecs_instruction_supported" {
			continue
		}
		for _, m := range family.GetMetric() {
			values[m.GetLabel()[0].GetValue()] = m.GetGauge().GetValue()
		}
	}
	assert.Equal(t, float64(1), values["avx2"])
	assert.Equal(t, float64(1), values["sse2"])
	assert.Equal(t, float64(0), values["avx512f"])
}

func gatherValue(t *testing.T, c prometheus.Collector, name string) float64 {
	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(c))
	families, err := reg.Gather()
	require.NoError(t, err)
	for _, family := range families {
		if family.GetName() == name {
			return family.GetMetric()[0].GetGauge().GetValue()
		}
	}
	t.Fatalf("metric %s not gathered", name)
	return 0
}

func TestStoreSource(t *testing.T) {
	var store specs.Store
	source := StoreSource(&store)
	assert.False(t, source().Available)
	assert.Equal(t, float64(0), gatherValue(t, NewCollector(source), "cpuspecs_cpuid_available"))

	s := cpuid.NewScript(true)
	s.Set(0x0, 0, cpuid.Registers{0x1, 0x756E6547, 0x6C65746E, 0x49656E69})
	store.Refresh(specs.NewBackendDetector(s))
	assert.True(t, source().Available)
	assert.Equal(t, float64(1), gatherValue(t, NewCollector(source), "cpuspecs_cpuid_available"))
}

func TestHandler(t *testing.T) {
	reg := prometheus.NewRegistry()
	reg.MustRegister(NewCollector(func() specs.Profile { return testProfile() }))
	server := httptest.NewServer(NewHandler(reg))
	defer server.Close()

	resp, err := http.Get(server.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(body), `cpuspecs_threads_per_core 2`)

	health, err := http.Get(server.URL + "/healthz")
	require.NoError(t, err)
	health.Body.Close()
	assert.Equal(t, http.StatusOK, health.StatusCode)
}

func TestServeListenerStopsOnCancel(t *testing.T) {
	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- ServeListener(ctx, listener, prometheus.NewRegistry())
	}()
	resp, err := http.Get("http://" + listener.Addr().String() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	cancel()
	assert.NoError(t, <-done)
}
