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
)

// Error categories. Register I/O errors are transport failures and abort
// the remaining steps of a cycle; a result mismatch is a data-correctness
// finding on a cycle that ran to completion. The two must not be
// conflated.
var (
	// ErrNotReady indicates the accelerator image is not in the loaded
	// state. There is no retry: the image state does not change within
	// the lifetime of one run.
	ErrNotReady = errors.New("accelerator image not ready")
	// ErrAttachFailed indicates the BAR session could not be established.
	ErrAttachFailed = errors.New("attach failed")
	// ErrPollTimeout indicates the done bit was never observed within the
	// poll budget.
	ErrPollTimeout = errors.New("computation did not complete")
	// ErrResultMismatch indicates one or more output slots did not match
	// the expected transform.
	ErrResultMismatch = errors.New("output verification failed")
	// ErrTransportClosed indicates an operation on a detached session.
	ErrTransportClosed = errors.New("transport is closed")
	// ErrBadRegisterMap indicates a structurally invalid register map.
	ErrBadRegisterMap = errors.New("invalid register map")
)

// RegisterOp names a raw register operation for error context.
type RegisterOp string

const (
	// OpRead32 is a 32-bit register read.
	OpRead32 RegisterOp = "read32"
	// OpWrite32 is a 32-bit register write.
	OpWrite32 RegisterOp = "write32"
)

// RegisterError wraps a failed register access with the operation and
// address that failed.
type RegisterError struct {
	Err  error
	Op   RegisterOp
	Addr uint32
}

func (e *RegisterError) Error() string {
	return fmt.Sprintf("%s 0x%02X: %v", e.Op, e.Addr, e.Err)
}

func (e *RegisterError) Unwrap() error { return e.Err }

// ReadbackError reports an input slot whose readback did not match the
// value just written. It signals a broken register path and is raised
// before the start sequence is attempted.
type ReadbackError struct {
	Slot     int
	Addr     uint32
	Expected uint32
	Got      uint32
}

func (e *ReadbackError) Error() string {
	return fmt.Sprintf("input readback mismatch at slot %d (0x%02X): expected 0x%08X, got 0x%08X",
		e.Slot, e.Addr, e.Expected, e.Got)
}

// TimeoutError reports an exhausted poll budget. Attempts is the number
// of status reads performed during polling, always equal to the
// configured maximum when this error is returned.
type TimeoutError struct {
	Attempts   int
	LastStatus uint32
}

func (e *TimeoutError) Error() string {
	return fmt.Sprintf("computation did not complete after %d polls (status 0x%08X)",
		e.Attempts, e.LastStatus)
}

func (e *TimeoutError) Unwrap() error { return ErrPollTimeout }

// ReadinessError reports an accelerator image that is not loaded,
// carrying the observed status for diagnostics.
type ReadinessError struct {
	Status ImageStatus
}

func (e *ReadinessError) Error() string {
	return fmt.Sprintf("accelerator image is %s, want %s", e.Status, StatusLoaded)
}

func (e *ReadinessError) Unwrap() error { return ErrNotReady }

// AttachError reports a failure to establish a register session,
// carrying the device coordinates for diagnostics.
type AttachError struct {
	Err    error
	Device string
}

func (e *AttachError) Error() string {
	if e.Device != "" {
		return fmt.Sprintf("attach %s: %v", e.Device, e.Err)
	}
	return fmt.Sprintf("attach: %v", e.Err)
}

func (e *AttachError) Unwrap() error { return ErrAttachFailed }

// IsRegisterIO reports whether err is a transport-level register access
// failure.
func IsRegisterIO(err error) bool {
	var re *RegisterError
	return errors.As(err, &re)
}

// IsTimeout reports whether err is a poll timeout.
func IsTimeout(err error) bool {
	return errors.Is(err, ErrPollTimeout)
}

// IsReadback reports whether err is an input readback mismatch.
func IsReadback(err error) bool {
	var rb *ReadbackError
	return errors.As(err, &rb)
}
