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
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorUnwrapping(t *testing.T) {
	t.Parallel()

	cause := errors.New("bus fault")

	tests := []struct {
		err    error
		target error
		name   string
	}{
		{
			name:   "Register_Error",
			err:    &RegisterError{Err: cause, Op: OpRead32, Addr: 0x44},
			target: cause,
		},
		{
			name:   "Timeout_Error",
			err:    &TimeoutError{Attempts: 1000, LastStatus: 0},
			target: ErrPollTimeout,
		},
		{
			name:   "Readiness_Error",
			err:    &ReadinessError{Status: StatusCleared},
			target: ErrNotReady,
		},
		{
			name:   "Attach_Error",
			err:    &AttachError{Err: cause, Device: "0000:00:0f.0"},
			target: ErrAttachFailed,
		},
		{
			name:   "Wrapped_Mismatch",
			err:    fmt.Errorf("%w: 1 of 8 slots incorrect", ErrResultMismatch),
			target: ErrResultMismatch,
		},
	}

	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			assert.ErrorIs(t, tt.err, tt.target)
		})
	}
}

func TestErrorMessages(t *testing.T) {
	t.Parallel()

	re := &RegisterError{Err: errors.New("short write"), Op: OpWrite32, Addr: 0x40}
	assert.Equal(t, "write32 0x40: short write", re.Error())

	rb := &ReadbackError{Slot: 2, Addr: 0x08, Expected: 0x10000002, Got: 0xBAD0BAD0}
	assert.Equal(t,
		"input readback mismatch at slot 2 (0x08): expected 0x10000002, got 0xBAD0BAD0",
		rb.Error())

	te := &TimeoutError{Attempts: 1000, LastStatus: 0x2}
	assert.Equal(t, "computation did not complete after 1000 polls (status 0x00000002)", te.Error())

	assert.Equal(t, "accelerator image is CLEARED, want LOADED",
		(&ReadinessError{Status: StatusCleared}).Error())

	assert.Equal(t, "attach 0000:00:0f.0: no such device",
		(&AttachError{Err: errors.New("no such device"), Device: "0000:00:0f.0"}).Error())
	assert.Equal(t, "attach: no such device",
		(&AttachError{Err: errors.New("no such device")}).Error())
}

func TestErrorPredicates(t *testing.T) {
	t.Parallel()

	io := fmt.Errorf("step failed: %w", &RegisterError{Err: errors.New("x"), Op: OpRead32, Addr: 0})
	assert.True(t, IsRegisterIO(io))
	assert.False(t, IsTimeout(io))
	assert.False(t, IsReadback(io))

	assert.True(t, IsTimeout(&TimeoutError{Attempts: 1}))
	assert.True(t, IsReadback(&ReadbackError{Slot: 0}))
	assert.False(t, IsRegisterIO(ErrResultMismatch))
}
