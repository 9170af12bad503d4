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
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport_Counts(t *testing.T) {
	t.Parallel()

	cmd := mustCommand(t, []uint32{10, 20, 30, 40})

	t.Run("All_Correct", func(t *testing.T) {
		t.Parallel()

		r := newReport(cmd, []uint32{11, 21, 31, 41}, 3)
		assert.Equal(t, 4, r.Len())
		assert.Equal(t, 4, r.CorrectCount())
		assert.True(t, r.Passed())
		assert.Equal(t, 100, r.Accuracy())
		assert.Equal(t, 3, r.Polls)
	})

	t.Run("Partial", func(t *testing.T) {
		t.Parallel()

		r := newReport(cmd, []uint32{11, 20, 31, 0}, 1)
		assert.Equal(t, 2, r.CorrectCount())
		assert.False(t, r.Passed())
		assert.Equal(t, 50, r.Accuracy())
	})

	t.Run("Truncated_Percentage", func(t *testing.T) {
		t.Parallel()

		eight := mustCommand(t, DefaultPattern(8))
		outputs := make([]uint32, 8)
		for i := range outputs {
			outputs[i] = eight.Expected(i)
		}
		outputs[5] = 0
		r := newReport(eight, outputs, 1)
		assert.Equal(t, 87, r.Accuracy())
	})
}

func TestReport_WriteTable(t *testing.T) {
	t.Parallel()

	cmd := mustCommand(t, []uint32{0x10000000, 0xFFFFFFFF})
	r := newReport(cmd, []uint32{0x10000001, 0xABCD1234}, 2)

	var sb strings.Builder
	require.NoError(t, r.WriteTable(&sb))
	out := sb.String()

	assert.Contains(t, out, "Reg# | Input      | Output     | Expected   | Status")
	assert.Contains(t, out, " 0   | 0x10000000 | 0x10000001 | 0x10000001 | PASS")
	assert.Contains(t, out, " 1   | 0xffffffff | 0xabcd1234 | 0x00000000 | FAIL")
	assert.Contains(t, out, "Summary: 1/2 correct (50%)")
	assert.Equal(t, out, r.String())
}

func TestReport_EmptyAccuracy(t *testing.T) {
	t.Parallel()

	r := &Report{}
	assert.Equal(t, 0, r.Accuracy())
	assert.True(t, r.Passed())
}
