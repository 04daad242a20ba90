// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package dispatch

import (
	"errors"
	"fmt"
	"strings"

	"cpuspecs/internal/specs"
)

// Candidate is a named code path guarded by a requirement
type Candidate struct {
	Name        string
	Requirement *Requirement
}

// ParseCandidate parses "name=expression"
func ParseCandidate(s string) (Candidate, error) {
	name, expression, ok := strings.Cut(s, "=")
	name = strings.TrimSpace(name)
	if !ok || name == "" || strings.TrimSpace(expression) == "" {
		return Candidate{}, fmt.Errorf("invalid code path %q, expected name=expression", s)
	}
	req, err := Compile(expression)
	if err != nil {
		return Candidate{}, err
	}
	return Candidate{Name: name, Requirement: req}, nil
}

// ErrNoCandidate is returned by Select when no requirement is satisfied
var ErrNoCandidate = errors.New("no code path is supported by this processor")

// Select returns the first candidate whose requirement the profile satisfies
func Select(p specs.Profile, candidates []Candidate) (Candidate, error) {
	for _, c := range candidates {
		ok, err := c.Requirement.Satisfied(p)
		if err != nil {
			return Candidate{}, fmt.Errorf("code path %s: %w", c.Name, err)
		}
		if ok {
			return c, nil
		}
	}
	return Candidate{}, ErrNoCandidate
}
