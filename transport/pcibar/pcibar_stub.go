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

//go:build !linux

package pcibar

import addone "github.com/openaccel/go-addone"

// Transport is unavailable on this platform.
type Transport struct{}

// New always fails: sysfs PCI resources only exist on Linux.
func New(device string, _ int) (*Transport, error) {
	return nil, &addone.AttachError{Device: device, Err: ErrUnsupported}
}

// Read32 implements addone.Transport.
func (*Transport) Read32(uint32) (uint32, error) { return 0, ErrUnsupported }

// Write32 implements addone.Transport.
func (*Transport) Write32(uint32, uint32) error { return ErrUnsupported }

// Close implements addone.Transport.
func (*Transport) Close() error { return nil }

// Type implements addone.Transport.
func (*Transport) Type() addone.TransportType { return addone.TransportPCIBar }

// IsConnected implements addone.Transport.
func (*Transport) IsConnected() bool { return false }
