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
	"time"
)

// Default register map of the Add-One compute unit. These offsets are a
// fixed contract with the accelerator image and match the reference
// bitstream.
const (
	// DefaultInputBase is the first input slot register (0x00-0x1C).
	DefaultInputBase = 0x00
	// DefaultOutputBase is the first output slot register (0x20-0x3C).
	DefaultOutputBase = 0x20
	// DefaultControlReg is the control register address.
	DefaultControlReg = 0x40
	// DefaultStatusReg is the status register address.
	DefaultStatusReg = 0x44

	// StartBit triggers the computation when written to the control register.
	StartBit = 0x00000001
	// DoneBit is set in the status register when the computation finished.
	DoneBit = 0x00000001

	// DefaultNumSlots is the number of 32-bit slots in each zone.
	DefaultNumSlots = 8
	// DefaultPollInterval is the fixed quantum slept between status polls.
	DefaultPollInterval = 1 * time.Millisecond
	// DefaultMaxPolls bounds the number of status reads while waiting for
	// the done bit, giving a worst-case latency of roughly one second.
	DefaultMaxPolls = 1000
)

// RegisterMap describes the accelerator's register layout and the poll
// budget of the command protocol. It is immutable once handed to a
// Device; tests substitute their own map to exercise fault paths.
type RegisterMap struct {
	// InputBase is the byte offset of the first input slot.
	InputBase uint32
	// OutputBase is the byte offset of the first output slot.
	OutputBase uint32
	// Control is the byte offset of the control register.
	Control uint32
	// Status is the byte offset of the status register.
	Status uint32
	// StartBit is the control register bit that triggers computation.
	StartBit uint32
	// DoneBit is the status register bit indicating completion.
	DoneBit uint32
	// NumSlots is the number of 32-bit slots per zone.
	NumSlots int
	// PollInterval is the fixed sleep between status polls.
	PollInterval time.Duration
	// MaxPolls is the maximum number of status reads before a poll
	// timeout. The budget is attempt-counted, not wall-clock.
	MaxPolls int
}

// DefaultRegisterMap returns the register map of the reference
// configuration.
func DefaultRegisterMap() RegisterMap {
	return RegisterMap{
		InputBase:    DefaultInputBase,
		OutputBase:   DefaultOutputBase,
		Control:      DefaultControlReg,
		Status:       DefaultStatusReg,
		StartBit:     StartBit,
		DoneBit:      DoneBit,
		NumSlots:     DefaultNumSlots,
		PollInterval: DefaultPollInterval,
		MaxPolls:     DefaultMaxPolls,
	}
}

// InputAddr returns the address of input slot i.
func (m RegisterMap) InputAddr(slot int) uint32 {
	return m.InputBase + uint32(slot)*4
}

// OutputAddr returns the address of output slot i.
func (m RegisterMap) OutputAddr(slot int) uint32 {
	return m.OutputBase + uint32(slot)*4
}

// span is a half-open byte range within the register window.
type span struct {
	name string
	lo   uint32
	hi   uint32
}

func (s span) overlaps(o span) bool {
	return s.lo < o.hi && o.lo < s.hi
}

// Validate checks the structural invariants of the map: positive slot
// count and poll budget, 4-byte alignment of every register, and
// non-overlapping zones.
func (m RegisterMap) Validate() error {
	if m.NumSlots <= 0 {
		return fmt.Errorf("%w: slot count %d", ErrBadRegisterMap, m.NumSlots)
	}
	if m.MaxPolls <= 0 {
		return fmt.Errorf("%w: poll budget %d", ErrBadRegisterMap, m.MaxPolls)
	}
	if m.PollInterval <= 0 {
		return fmt.Errorf("%w: poll interval %v", ErrBadRegisterMap, m.PollInterval)
	}
	if m.StartBit == 0 || m.DoneBit == 0 {
		return fmt.Errorf("%w: zero start or done mask", ErrBadRegisterMap)
	}
	for _, addr := range []uint32{m.InputBase, m.OutputBase, m.Control, m.Status} {
		if addr%4 != 0 {
			return fmt.Errorf("%w: unaligned register 0x%02X", ErrBadRegisterMap, addr)
		}
	}

	zone := uint32(m.NumSlots) * 4
	spans := []span{
		{"input zone", m.InputBase, m.InputBase + zone},
		{"output zone", m.OutputBase, m.OutputBase + zone},
		{"control", m.Control, m.Control + 4},
		{"status", m.Status, m.Status + 4},
	}
	for i := range spans {
		for j := i + 1; j < len(spans); j++ {
			if spans[i].overlaps(spans[j]) {
				return fmt.Errorf("%w: %s overlaps %s",
					ErrBadRegisterMap, spans[i].name, spans[j].name)
			}
		}
	}
	return nil
}
