package cpuid

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v2"
)

// Hex32 is a register value that is written to YAML as a fixed width hex string.
// Hex strings and decimal integers are both accepted when reading.
type Hex32 uint32

// MarshalYAML implements yaml.Marshaler
func (h Hex32) MarshalYAML() (any, error) {
	return fmt.Sprintf("0x%08x", uint32(h)), nil
}

// UnmarshalYAML implements yaml.Unmarshaler
func (h *Hex32) UnmarshalYAML(unmarshal func(any) error) error {
	var s string
	if err := unmarshal(&s); err != nil {
		return err
	}
	v, err := strconv.ParseUint(strings.TrimSpace(s), 0, 32)
	if err != nil {
		return fmt.Errorf("invalid register value %q: %w", s, err)
	}
	*h = Hex32(v)
	return nil
}

type dumpLeaf struct {
	Leaf    Hex32 `yaml:"leaf"`
	Subleaf Hex32 `yaml:"subleaf"`
	EAX     Hex32 `yaml:"eax"`
	EBX     Hex32 `yaml:"ebx"`
	ECX     Hex32 `yaml:"ecx"`
	EDX     Hex32 `yaml:"edx"`
}

type dumpFile struct {
	Available bool       `yaml:"available"`
	Leaves    []dumpLeaf `yaml:"leaves"`
}

// ReadScript decodes a YAML dump
func ReadScript(r io.Reader) (*Script, error) {
	content, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Wrap(err, "failed to read cpuid dump")
	}
	var dump dumpFile
	if err := yaml.UnmarshalStrict(content, &dump); err != nil {
		return nil, errors.Wrap(err, "failed to parse cpuid dump")
	}
	s := NewScript(dump.Available)
	for _, leaf := range dump.Leaves {
		key := Key{Leaf: uint32(leaf.Leaf), Subleaf: uint32(leaf.Subleaf)}
		if _, ok := s.leaves[key]; ok {
			return nil, errors.Errorf("duplicate leaf %s in cpuid dump", key)
		}
		s.Set(key.Leaf, key.Subleaf, Registers{uint32(leaf.EAX), uint32(leaf.EBX), uint32(leaf.ECX), uint32(leaf.EDX)})
	}
	return s, nil
}

// LoadScript reads a YAML dump from a file
func LoadScript(path string) (*Script, error) {
	f, err := os.Open(path) // #nosec G304
	if err != nil {
		return nil, errors.Wrapf(err, "failed to open cpuid dump %s", path)
	}
	defer f.Close()
	s, err := ReadScript(f)
	if err != nil {
		return nil, errors.Wrapf(err, "%s", path)
	}
	return s, nil
}

// WriteYAML encodes the script as a YAML dump, leaves ordered by leaf then subleaf
func (s *Script) WriteYAML(w io.Writer) error {
	dump := dumpFile{Available: s.Sticky}
	for _, key := range s.Keys() {
		regs := s.leaves[key]
		dump.Leaves = append(dump.Leaves, dumpLeaf{
			Leaf:    Hex32(key.Leaf),
			Subleaf: Hex32(key.Subleaf),
			EAX:     Hex32(regs[EAX]),
			EBX:     Hex32(regs[EBX]),
			ECX:     Hex32(regs[ECX]),
			EDX:     Hex32(regs[EDX]),
		})
	}
	out, err := yaml.Marshal(&dump)
	if err != nil {
		return errors.Wrap(err, "failed to encode cpuid dump")
	}
	if _, err := io.Copy(w, bytes.NewReader(out)); err != nil {
		return errors.Wrap(err, "failed to write cpuid dump")
	}
	return nil
}

// Save writes the script to a YAML file
func (s *Script) Save(path string) error {
	var buf bytes.Buffer
	if err := s.WriteYAML(&buf); err != nil {
		return err
	}
	if err := os.WriteFile(path, buf.Bytes(), 0644); err != nil { // #nosec G306
		return errors.Wrapf(err, "failed to write cpuid dump %s", path)
	}
	return nil
}
