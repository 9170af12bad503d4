// go-addone
// Copyright (c) 2026 The OpenAccel Contributors.
// SPDX-License-Identifier: Apache-2.0
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package addone

import (
	"fmt"
	"io"
	"strings"
)

// SlotResult is the outcome of one slot of a command cycle.
type SlotResult struct {
	Slot     int
	Input    uint32
	Output   uint32
	Expected uint32
	Pass     bool
}

// Report is the read-only result of a completed command cycle: one row
// per slot plus the poll count of the cycle that produced it.
type Report struct {
	Slots []SlotResult
	Polls int
}

// newReport builds the per-slot comparison of outputs against the
// command's expected transform.
func newReport(cmd *Command, outputs []uint32, polls int) *Report {
	report := &Report{
		Slots: make([]SlotResult, cmd.Len()),
		Polls: polls,
	}
	for i := range report.Slots {
		report.Slots[i] = SlotResult{
			Slot:     i,
			Input:    cmd.Operand(i),
			Output:   outputs[i],
			Expected: cmd.Expected(i),
			Pass:     outputs[i] == cmd.Expected(i),
		}
	}
	return report
}

// Len returns the number of slots in the report.
func (r *Report) Len() int { return len(r.Slots) }

// CorrectCount returns how many slots matched the expected result.
func (r *Report) CorrectCount() int {
	n := 0
	for _, s := range r.Slots {
		if s.Pass {
			n++
		}
	}
	return n
}

// Passed reports whether every slot matched.
func (r *Report) Passed() bool { return r.CorrectCount() == r.Len() }

// Accuracy returns the percentage of correct slots, truncated to an
// integer.
func (r *Report) Accuracy() int {
	if r.Len() == 0 {
		return 0
	}
	return r.CorrectCount() * 100 / r.Len()
}

// WriteTable renders the per-slot comparison and summary in the
// fixed-width layout of the reference host tool.
func (r *Report) WriteTable(w io.Writer) error {
	if _, err := fmt.Fprintf(w, "Reg# | Input      | Output     | Expected   | Status\n"); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if _, err := fmt.Fprintf(w, "-----|------------|------------|------------|-------\n"); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	for _, s := range r.Slots {
		status := "PASS"
		if !s.Pass {
			status = "FAIL"
		}
		_, err := fmt.Fprintf(w, "%2d   | 0x%08x | 0x%08x | 0x%08x | %s\n",
			s.Slot, s.Input, s.Output, s.Expected, status)
		if err != nil {
			return fmt.Errorf("write report: %w", err)
		}
	}
	_, err := fmt.Fprintf(w, "\nSummary: %d/%d correct (%d%%)\n",
		r.CorrectCount(), r.Len(), r.Accuracy())
	if err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	return nil
}

// String renders the report table.
func (r *Report) String() string {
	var sb strings.Builder
	_ = r.WriteTable(&sb)
	return sb.String()
}
