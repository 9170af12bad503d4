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
	"context"
	"fmt"
	"time"
)

// RunCommand executes one full command cycle against the accelerator:
//
//  1. clear the control register
//  2. write the operands to the input zone in ascending slot order
//  3. read back and verify every input slot
//  4. read the initial status (informational)
//  5. write the start bit
//  6. poll the status register until the done bit is set or the poll
//     budget is exhausted
//  7. clear the control register again so the next cycle cannot
//     re-trigger
//  8. read the output zone in ascending slot order
//  9. verify every output against the wrapping add-one of its input
//
// A register access failure at any step aborts the remaining steps and
// returns a *RegisterError with no report. An output mismatch is not a
// transport failure: the cycle runs to completion and both the full
// report and ErrResultMismatch are returned.
//
// The context is only consulted while sleeping between status polls.
// Cancelling a run mid-cycle leaves the accelerator state undefined.
func (d *Device) RunCommand(ctx context.Context, cmd *Command) (*Report, error) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return nil, ErrTransportClosed
	}
	if cmd == nil {
		return nil, fmt.Errorf("nil command")
	}
	if cmd.Len() != d.rm.NumSlots {
		return nil, fmt.Errorf("command has %d operands, register map has %d slots",
			cmd.Len(), d.rm.NumSlots)
	}

	d.progress("clearing control register")
	if err := d.write32(d.rm.Control, 0); err != nil {
		return nil, err
	}

	d.progress("writing %d input registers", cmd.Len())
	for i := 0; i < cmd.Len(); i++ {
		addr := d.rm.InputAddr(i)
		if err := d.write32(addr, cmd.Operand(i)); err != nil {
			return nil, err
		}
		Debugf("wrote 0x%08X to 0x%02X", cmd.Operand(i), addr)
	}

	d.progress("verifying input readback")
	for i := 0; i < cmd.Len(); i++ {
		addr := d.rm.InputAddr(i)
		got, err := d.read32(addr)
		if err != nil {
			return nil, err
		}
		if got != cmd.Operand(i) {
			return nil, &ReadbackError{
				Slot:     i,
				Addr:     addr,
				Expected: cmd.Operand(i),
				Got:      got,
			}
		}
	}

	status, err := d.read32(d.rm.Status)
	if err != nil {
		return nil, err
	}
	d.progress("initial status: 0x%08X", status)

	d.progress("starting computation")
	if err := d.write32(d.rm.Control, d.rm.StartBit); err != nil {
		return nil, err
	}

	attempts, err := d.pollDone(ctx)
	if err != nil {
		return nil, err
	}
	d.progress("computation completed after %d polls", attempts)

	d.progress("clearing start bit")
	if err := d.write32(d.rm.Control, 0); err != nil {
		return nil, err
	}

	d.progress("reading %d output registers", cmd.Len())
	outputs := make([]uint32, cmd.Len())
	for i := range outputs {
		outputs[i], err = d.read32(d.rm.OutputAddr(i))
		if err != nil {
			return nil, err
		}
		Debugf("read 0x%08X from 0x%02X", outputs[i], d.rm.OutputAddr(i))
	}

	d.progress("verifying results")
	report := newReport(cmd, outputs, attempts)
	if !report.Passed() {
		return report, fmt.Errorf("%w: %d of %d slots incorrect",
			ErrResultMismatch, report.Len()-report.CorrectCount(), report.Len())
	}
	return report, nil
}

// pollDone waits for the done bit under the fixed attempt budget:
// sleep one quantum, read the status register, repeat. The budget
// counts status reads, not wall-clock time, so the timeout contract is
// deterministic regardless of scheduling jitter. Returns the number of
// polls performed.
func (d *Device) pollDone(ctx context.Context) (int, error) {
	var lastStatus uint32
	for attempt := 1; attempt <= d.rm.MaxPolls; attempt++ {
		select {
		case <-ctx.Done():
			return 0, fmt.Errorf("polling interrupted: %w", ctx.Err())
		case <-time.After(d.rm.PollInterval):
		}

		status, err := d.read32(d.rm.Status)
		if err != nil {
			return 0, err
		}
		lastStatus = status
		if status&d.rm.DoneBit != 0 {
			return attempt, nil
		}
		if attempt%100 == 0 {
			Debugf("polling... count=%d, status=0x%08X", attempt, status)
		}
	}
	return 0, &TimeoutError{Attempts: d.rm.MaxPolls, LastStatus: lastStatus}
}
