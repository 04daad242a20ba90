package specs

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"log/slog"
	"sync"
	"sync/atomic"
	"time"
)

// Store publishes the most recent profile. Refresh calls are serialized; readers
// never block and always see a complete profile.
type Store struct {
	mu        sync.Mutex
	current   atomic.Pointer[Profile]
	refreshed atomic.Int64
}

// Refresh runs a full detection pass and publishes the result
func (s *Store) Refresh(d *Detector) Profile {
	s.mu.Lock()
	defer s.mu.Unlock()
	p := d.Profile()
	s.current.Store(&p)
	s.refreshed.Store(time.Now().UnixNano())
	slog.Debug("cpu profile refreshed", slog.Bool("available", p.Available))
	return p
}

// Load returns the published profile. Before the first refresh it returns the
// default profile and false.
func (s *Store) Load() (Profile, bool) {
	p := s.current.Load()
	if p == nil {
		return DefaultProfile(), false
	}
	return *p, true
}

// RefreshedAt returns the time of the last refresh, zero before the first one
func (s *Store) RefreshedAt() time.Time {
	ns := s.refreshed.Load()
	if ns == 0 {
		return time.Time{}
	}
	return time.Unix(0, ns)
}
