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

import "errors"

// DefaultPatternBase seeds the reference operand pattern.
const DefaultPatternBase = 0x10000000

// Command is one Add-One invocation: an operand vector and the result
// vector the accelerator is expected to produce. It is immutable once
// constructed.
type Command struct {
	operands []uint32
	expected []uint32
}

// NewCommand builds a command from the given operands. The expected
// result for each slot is the operand plus one with wrapping 32-bit
// addition; overflow at 0xFFFFFFFF is well-defined and rolls over to 0.
func NewCommand(operands []uint32) (*Command, error) {
	if len(operands) == 0 {
		return nil, errors.New("command requires at least one operand")
	}
	cmd := &Command{
		operands: make([]uint32, len(operands)),
		expected: make([]uint32, len(operands)),
	}
	copy(cmd.operands, operands)
	for i, v := range operands {
		cmd.expected[i] = v + 1
	}
	return cmd, nil
}

// DefaultPattern returns the reference operand pattern of n slots,
// counting up from DefaultPatternBase.
func DefaultPattern(n int) []uint32 {
	return Pattern(DefaultPatternBase, n)
}

// Pattern returns n operands counting up from base.
func Pattern(base uint32, n int) []uint32 {
	operands := make([]uint32, n)
	for i := range operands {
		operands[i] = base + uint32(i)
	}
	return operands
}

// Len returns the number of slots in the command.
func (c *Command) Len() int { return len(c.operands) }

// Operand returns the operand for slot i.
func (c *Command) Operand(i int) uint32 { return c.operands[i] }

// Expected returns the expected result for slot i.
func (c *Command) Expected(i int) uint32 { return c.expected[i] }
