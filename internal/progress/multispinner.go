// Copyright (C) 2021-2025 Intel Corporation
// SPDX-License-Identifier: BSD-3-Clause

/*
Package progress shows the status of each profile source while reports are built.
*/
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"golang.org/x/term"
)

var spinChars = []string{"⣾", "⣽", "⣻", "⢿", "⡿", "⣟", "⣯", "⣷"}

type spinnerState struct {
	label       string
	status      string
	statusIsNew bool
	spinIndex   int
}

// MultiSpinner draws one line per label. On a terminal the lines are redrawn in
// place; otherwise a line is written only when its status changes.
type MultiSpinner struct {
	mu          sync.Mutex
	out         io.Writer
	interactive bool
	spinners    []spinnerState
	ticker      *time.Ticker
	done        chan struct{}
	spinning    bool
}

// NewMultiSpinner returns a spinner drawing to stderr
func NewMultiSpinner() *MultiSpinner {
	return NewMultiSpinnerWriter(os.Stderr, term.IsTerminal(int(os.Stderr.Fd())))
}

// NewMultiSpinnerWriter returns a spinner drawing to out
func NewMultiSpinnerWriter(out io.Writer, interactive bool) *MultiSpinner {
	return &MultiSpinner{out: out, interactive: interactive}
}

// AddSpinner adds a line for label, labels must be unique
func (ms *MultiSpinner) AddSpinner(label string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	for _, spinner := range ms.spinners {
		if spinner.label == label {
			return fmt.Errorf("spinner with label %s already exists", label)
		}
	}
	ms.spinners = append(ms.spinners, spinnerState{label: label, status: "?"})
	return nil
}

// Start draws the lines and redraws them until Finish
func (ms *MultiSpinner) Start() {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if ms.spinning {
		return
	}
	ms.draw(true)
	ms.done = make(chan struct{})
	ms.ticker = time.NewTicker(250 * time.Millisecond)
	ms.spinning = true
	go ms.onTick(ms.ticker, ms.done)
}

// Finish stops redrawing and draws the final statuses, it does nothing when
// the spinner is not running
func (ms *MultiSpinner) Finish() {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	if !ms.spinning {
		return
	}
	ms.ticker.Stop()
	close(ms.done)
	ms.spinning = false
	ms.draw(false)
}

// Status sets the status shown for label
func (ms *MultiSpinner) Status(label string, status string) error {
	ms.mu.Lock()
	defer ms.mu.Unlock()
	for i := range ms.spinners {
		if ms.spinners[i].label == label {
			if status != ms.spinners[i].status {
				ms.spinners[i].status = status
				ms.spinners[i].statusIsNew = true
			}
			return nil
		}
	}
	return fmt.Errorf("did not find spinner with label %s", label)
}

func (ms *MultiSpinner) onTick(ticker *time.Ticker, done <-chan struct{}) {
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			ms.mu.Lock()
			ms.draw(true)
			ms.mu.Unlock()
		}
	}
}

// draw must be called with mu held
func (ms *MultiSpinner) draw(goUp bool) {
	for i, spinner := range ms.spinners {
		if !ms.interactive {
			if spinner.statusIsNew {
				fmt.Fprintf(ms.out, "%-20s  %s\n", spinner.label, spinner.status)
				ms.spinners[i].statusIsNew = false
			}
			continue
		}
		fmt.Fprintf(ms.out, "%-20s  %s  %-40s\n", spinner.label, spinChars[spinner.spinIndex], spinner.status)
		ms.spinners[i].statusIsNew = false
		ms.spinners[i].spinIndex = (spinner.spinIndex + 1) % len(spinChars)
	}
	if goUp && ms.interactive {
		for range ms.spinners {
			fmt.Fprint(ms.out, "\x1b[1A")
		}
	}
}
