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

// Package pcibar attaches to the accelerator's base address region by
// memory-mapping the sysfs PCI resource file of the device. This is the
// production transport; it is only available on Linux.
package pcibar

import "errors"

// SysfsRoot is where the kernel exposes PCI devices.
const SysfsRoot = "/sys/bus/pci/devices"

var (
	// ErrUnsupported is returned on platforms without sysfs PCI
	// resources.
	ErrUnsupported = errors.New("pcibar transport requires linux")
	// ErrOutOfRange indicates an access beyond the mapped BAR window.
	ErrOutOfRange = errors.New("register offset outside BAR window")
	// ErrUnaligned indicates an access that is not 4-byte aligned.
	ErrUnaligned = errors.New("register offset not 32-bit aligned")
)
