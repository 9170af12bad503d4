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

//go:build linux

package pcibar

import (
	"fmt"
	"os"
	"sync/atomic"
	"unsafe"

	"golang.org/x/sys/unix"

	addone "github.com/openaccel/go-addone"
)

// Transport is a memory-mapped PCI BAR window.
type Transport struct {
	file      *os.File
	device    string
	mem       []byte
	bar       int
	connected bool
}

// New attaches to the given BAR of a PCI device. The device is named by
// its full PCI address as listed under /sys/bus/pci/devices, for
// example "0000:00:1d.0".
func New(device string, bar int) (*Transport, error) {
	path := fmt.Sprintf("%s/%s/resource%d", SysfsRoot, device, bar)

	file, err := os.OpenFile(path, os.O_RDWR|os.O_SYNC, 0)
	if err != nil {
		return nil, &addone.AttachError{Device: device, Err: err}
	}

	info, err := file.Stat()
	if err != nil {
		_ = file.Close()
		return nil, &addone.AttachError{Device: device, Err: err}
	}
	size := int(info.Size())
	if size <= 0 {
		_ = file.Close()
		return nil, &addone.AttachError{
			Device: device,
			Err:    fmt.Errorf("resource%d has no mappable size", bar),
		}
	}

	mem, err := unix.Mmap(int(file.Fd()), 0, size,
		unix.PROT_READ|unix.PROT_WRITE, unix.MAP_SHARED)
	if err != nil {
		_ = file.Close()
		return nil, &addone.AttachError{
			Device: device,
			Err:    fmt.Errorf("mmap resource%d: %w", bar, err),
		}
	}

	return &Transport{
		file:      file,
		mem:       mem,
		device:    device,
		bar:       bar,
		connected: true,
	}, nil
}

// check validates an access against the mapped window.
func (t *Transport) check(addr uint32) error {
	if !t.connected {
		return addone.ErrTransportClosed
	}
	if addr%4 != 0 {
		return fmt.Errorf("%w: 0x%02X", ErrUnaligned, addr)
	}
	if int(addr)+4 > len(t.mem) {
		return fmt.Errorf("%w: 0x%02X", ErrOutOfRange, addr)
	}
	return nil
}

// Read32 implements addone.Transport. Atomic access keeps the MMIO
// read a single 32-bit bus transaction.
func (t *Transport) Read32(addr uint32) (uint32, error) {
	if err := t.check(addr); err != nil {
		return 0, err
	}
	return atomic.LoadUint32((*uint32)(unsafe.Pointer(&t.mem[addr]))), nil
}

// Write32 implements addone.Transport.
func (t *Transport) Write32(addr uint32, value uint32) error {
	if err := t.check(addr); err != nil {
		return err
	}
	atomic.StoreUint32((*uint32)(unsafe.Pointer(&t.mem[addr])), value)
	return nil
}

// Close unmaps the BAR window and detaches the session.
func (t *Transport) Close() error {
	if !t.connected {
		return nil
	}
	t.connected = false

	if err := unix.Munmap(t.mem); err != nil {
		_ = t.file.Close()
		return fmt.Errorf("munmap %s resource%d: %w", t.device, t.bar, err)
	}
	t.mem = nil
	if err := t.file.Close(); err != nil {
		return fmt.Errorf("close %s resource%d: %w", t.device, t.bar, err)
	}
	return nil
}

// Type implements addone.Transport.
func (*Transport) Type() addone.TransportType { return addone.TransportPCIBar }

// IsConnected implements addone.Transport.
func (t *Transport) IsConnected() bool { return t.connected }
