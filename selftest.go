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

import "context"

// AttachFunc establishes one register session. It is called after the
// readiness gate passes, so a failed readiness check never attaches.
type AttachFunc func() (Transport, error)

// SelfTest runs one complete bring-up cycle: check that the image on
// the slot is loaded, attach, run a single command with the given
// operands (the reference pattern when operands is nil), and detach.
//
// The detach is attempted exactly once on every exit path after a
// successful attach. A detach failure is logged and never overrides
// the command cycle's outcome.
func SelfTest(ctx context.Context, attach AttachFunc, describer Describer,
	slot int, operands []uint32, opts ...Option,
) (*Report, error) {
	if _, err := CheckReady(describer, slot); err != nil {
		return nil, err
	}

	transport, err := attach()
	if err != nil {
		return nil, err
	}

	device, err := New(transport, opts...)
	if err != nil {
		// The session is live even though the device was never built.
		_ = transport.Close()
		return nil, err
	}
	defer func() {
		if cerr := device.Close(); cerr != nil {
			Debugf("detach failed: %v", cerr)
		}
	}()

	if operands == nil {
		operands = DefaultPattern(device.RegisterMap().NumSlots)
	}
	cmd, err := NewCommand(operands)
	if err != nil {
		return nil, err
	}
	return device.RunCommand(ctx, cmd)
}
