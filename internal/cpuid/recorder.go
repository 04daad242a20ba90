package cpuid

// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

// Recorder wraps a Querier and remembers every distinct query it forwards, so a
// detection pass can be replayed later from a Script.
type Recorder struct {
	querier Querier
	order   []Key
	seen    map[Key]Registers
	calls   int
}

// NewRecorder returns a Recorder forwarding to q
func NewRecorder(q Querier) *Recorder {
	return &Recorder{
		querier: q,
		seen:    make(map[Key]Registers),
	}
}

// Query implements Querier
func (r *Recorder) Query(leaf, subleaf uint32) Registers {
	r.calls++
	regs := r.querier.Query(leaf, subleaf)
	key := Key{Leaf: leaf, Subleaf: subleaf}
	if _, ok := r.seen[key]; !ok {
		r.order = append(r.order, key)
	}
	r.seen[key] = regs
	return regs
}

// Calls returns the number of queries forwarded, including repeats
func (r *Recorder) Calls() int {
	return r.calls
}

// Keys returns the distinct keys in the order they were first queried
func (r *Recorder) Keys() []Key {
	return append([]Key(nil), r.order...)
}

// Script returns a Script holding every recorded query
func (r *Recorder) Script(sticky bool) *Script {
	s := NewScript(sticky)
	for _, key := range r.order {
		s.Set(key.Leaf, key.Subleaf, r.seen[key])
	}
	return s
}
