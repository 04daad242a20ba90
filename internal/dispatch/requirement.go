// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

package dispatch

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/casbin/govaluate"
	mapset "github.com/deckarep/golang-set/v2"

	"cpuspecs/internal/cpus"
	"cpuspecs/internal/specs"
)

// Requirement is a parsed boolean expression over a capability profile, e.g.,
// "AVX2 && FMA3 && core_count >= 4 && l2_size >= kib(512)".
//
// Every instruction name is a boolean variable. Numeric variables are core_count,
// threads_per_core, logical_count, cache_line_size, l1_size, l2_size, l3_size,
// l1_cores, l2_cores, l3_cores, family, model and stepping. vendor and
// microarchitecture are strings. The functions has(name), kib(n) and mib(n) are
// available.
type Requirement struct {
	Expression string
}

// VariableNames returns every variable a requirement may reference, sorted
func VariableNames() []string {
	return mapset.Sorted(variableNames())
}

func variableNames() mapset.Set[string] {
	names := mapset.NewSet[string](
		"core_count", "threads_per_core", "logical_count", "cache_line_size",
		"family", "model", "stepping", "vendor", "microarchitecture",
	)
	for _, level := range specs.CacheLevels {
		prefix := strings.ToLower(level.String())
		names.Add(prefix + "_size")
		names.Add(prefix + "_cores")
	}
	for _, def := range specs.InstructionDefinitions {
		names.Add(def.Name)
	}
	return names
}

// Compile parses an expression and checks that it only references known variables
func Compile(expression string) (*Requirement, error) {
	evaluable, err := govaluate.NewEvaluableExpressionWithFunctions(expression, functions(specs.InstructionSet{}))
	if err != nil {
		return nil, fmt.Errorf("failed to parse requirement %q: %w", expression, err)
	}
	unknown := mapset.NewSet(evaluable.Vars()...).Difference(variableNames())
	if unknown.Cardinality() > 0 {
		return nil, fmt.Errorf("requirement %q references unknown variables: %s", expression, strings.Join(mapset.Sorted(unknown), ", "))
	}
	return &Requirement{Expression: expression}, nil
}

// Satisfied evaluates the requirement against a profile
func (r *Requirement) Satisfied(p specs.Profile) (bool, error) {
	// has() reads the instruction set of the profile, so the expression is bound to it
	evaluable, err := govaluate.NewEvaluableExpressionWithFunctions(r.Expression, functions(p.Specs.Instructions))
	if err != nil {
		return false, fmt.Errorf("failed to parse requirement %q: %w", r.Expression, err)
	}
	result, err := evaluable.Evaluate(Variables(p))
	if err != nil {
		return false, fmt.Errorf("failed to evaluate requirement %q: %w", r.Expression, err)
	}
	satisfied, ok := result.(bool)
	if !ok {
		return false, fmt.Errorf("requirement %q evaluated to %v, not a boolean", r.Expression, result)
	}
	slog.Debug("evaluated requirement", slog.String("expression", r.Expression), slog.Bool("satisfied", satisfied))
	return satisfied, nil
}

// Variables returns the values requirement expressions are evaluated with
func Variables(p specs.Profile) map[string]any {
	s := p.Specs
	vars := map[string]any{
		"core_count":        float64(s.CoreCount),
		"threads_per_core":  float64(s.ThreadsPerCore),
		"logical_count":     float64(s.LogicalCount()),
		"cache_line_size":   float64(s.CacheLineSize),
		"family":            float64(p.Identity.Family),
		"model":             float64(p.Identity.Model),
		"stepping":          float64(p.Identity.Stepping),
		"vendor":            p.Identity.Manufacturer.String(),
		"microarchitecture": "",
	}
	if cpu, err := cpus.Lookup(p.Identity.Manufacturer.String(), p.Identity.Family, p.Identity.Model, p.Identity.Stepping); err == nil {
		vars["microarchitecture"] = cpu.MicroArchitecture
	}
	for _, level := range specs.CacheLevels {
		prefix := strings.ToLower(level.String())
		vars[prefix+"_size"] = float64(s.Cache(level).DataCacheSize)
		vars[prefix+"_cores"] = float64(s.Cache(level).AttachedCoreCount)
	}
	for _, def := range specs.InstructionDefinitions {
		vars[def.Name] = s.Instructions.Has(def.Instruction)
	}
	return vars
}

// functions defines functions that can be called in requirement expressions
func functions(instructions specs.InstructionSet) map[string]govaluate.ExpressionFunction {
	toFloat := func(name string, args []any) (float64, error) {
		if len(args) != 1 {
			return 0, fmt.Errorf("%s takes one argument", name)
		}
		switch t := args[0].(type) {
		case int:
			return float64(t), nil
		case float64:
			return t, nil
		}
		return 0, fmt.Errorf("%s takes a number, got %v", name, args[0])
	}
	return map[string]govaluate.ExpressionFunction{
		"has": func(args ...any) (any, error) {
			if len(args) != 1 {
				return nil, fmt.Errorf("has takes one argument")
			}
			name, ok := args[0].(string)
			if !ok {
				return nil, fmt.Errorf("has takes an instruction name, got %v", args[0])
			}
			instruction, ok := specs.ParseInstruction(name)
			if !ok {
				return nil, fmt.Errorf("unknown instruction: %s", name)
			}
			return instructions.Has(instruction), nil
		},
		"kib": func(args ...any) (any, error) {
			v, err := toFloat("kib", args)
			return v * 1024, err
		},
		"mib": func(args ...any) (any, error) {
			v, err := toFloat("mib", args)
			return v * 1024 * 1024, err
		},
	}
}
