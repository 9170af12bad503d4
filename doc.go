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

// Package addone drives the Add-One compute unit, a memory-mapped
// accelerator exposed through a PCI-style base address region (BAR).
//
// The package implements the register-level command protocol: stage
// operands into the input zone, verify the writes by readback, trigger
// the computation through the control register, poll the status
// register under a fixed attempt budget, and read back and verify the
// results. Raw register access goes through the Transport interface,
// implemented for a mapped PCI BAR and for UART and SPI debug bridges
// under transport/.
//
// A typical run:
//
//	report, err := addone.SelfTest(ctx, func() (addone.Transport, error) {
//		return pcibar.New("0000:00:1d.0", 0)
//	}, describer, 0, nil)
//
// The protocol issues exactly one command per cycle and waits for it to
// finish; there is no command pipelining and no concurrent sessions.
package addone
