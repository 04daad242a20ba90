// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// Package dispatch selects a code path from a decoded capability profile, either
// as a fixed SIMD level or by evaluating a requirement expression.
package dispatch

import (
	"fmt"
	"strings"

	"cpuspecs/internal/specs"
)

// Level is a SIMD dispatch level, ordered from least to most capable
type Level int

const (
	LevelScalar Level = iota
	LevelSSE2
	LevelSSE4
	LevelAVX2
	LevelAVX512
)

var levelNames = []string{"scalar", "sse2", "sse4", "avx2", "avx512"}

// Levels lists every level from least to most capable
var Levels = []Level{LevelScalar, LevelSSE2, LevelSSE4, LevelAVX2, LevelAVX512}

// levelInstructions are the flags each level adds to the level below it
var levelInstructions = map[Level][]specs.Instruction{
	LevelSSE2:   {specs.SSE1, specs.SSE2},
	LevelSSE4:   {specs.SSE3, specs.SSSE3, specs.SSE4_1, specs.SSE4_2, specs.POPCNT},
	LevelAVX2:   {specs.AVX1, specs.AVX2, specs.FMA3, specs.F16C, specs.BMI1, specs.BMI2, specs.LZCNT},
	LevelAVX512: {specs.AVX512F},
}

func (l Level) String() string {
	if l < LevelScalar || int(l) >= len(levelNames) {
		return fmt.Sprintf("Level(%d)", int(l))
	}
	return levelNames[l]
}

// VectorWidth returns the register width of the level in bytes
func (l Level) VectorWidth() int {
	switch l {
	case LevelAVX512:
		return 64
	case LevelAVX2:
		return 32
	}
	return 16
}

// ParseLevel returns the level with the given name
func ParseLevel(name string) (Level, error) {
	for _, l := range Levels {
		if strings.EqualFold(l.String(), strings.TrimSpace(name)) {
			return l, nil
		}
	}
	return LevelScalar, fmt.Errorf("unknown dispatch level: %s, valid levels are %s", name, strings.Join(levelNames, ", "))
}

// Required returns every instruction the level needs, including those of the
// levels below it
func (l Level) Required() specs.InstructionSet {
	var set specs.InstructionSet
	for _, level := range Levels {
		if level > l {
			break
		}
		for _, i := range levelInstructions[level] {
			set.Assign(i, true)
		}
	}
	return set
}

// Supported reports whether the instruction set holds every instruction the
// level needs
func (l Level) Supported(instructions specs.InstructionSet) bool {
	return instructions.Has(specs.Instruction(l.Required().Bits()))
}

// Missing returns the instructions the level needs that are not in the set
func (l Level) Missing(instructions specs.InstructionSet) []string {
	var missing []string
	for _, def := range specs.InstructionDefinitions {
		if l.Required().Has(def.Instruction) && !instructions.Has(def.Instruction) {
			missing = append(missing, def.Name)
		}
	}
	return missing
}

// SelectLevel returns the most capable level the specs support
func SelectLevel(s specs.Specs) Level {
	selected := LevelScalar
	for _, l := range Levels {
		if !l.Supported(s.Instructions) {
			break
		}
		selected = l
	}
	return selected
}
