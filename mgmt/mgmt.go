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

// Package mgmt answers the one management question the protocol needs:
// is the accelerator image on a slot loaded and usable. It provides a
// sysfs-backed describer for the PCI path, a probe describer for bridge
// transports with no management plane, and a static describer for
// tests.
package mgmt

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	addone "github.com/openaccel/go-addone"
)

// PCI identity of the reference accelerator image.
const (
	DefaultVendorID = 0x1D0F
	DefaultDeviceID = 0xF000
)

// Sysfs describes the image by inspecting the PCI identity the kernel
// sees for the device. A present device with the expected vendor and
// device IDs is considered loaded; an absent device means no image is
// programmed; anything else is unknown.
type Sysfs struct {
	// Device is the PCI address, for example "0000:00:1d.0".
	Device string
	// Root overrides the sysfs PCI directory; used by tests.
	Root string
	// VendorID and DeviceID are the expected identity of the loaded
	// image; the reference identity when zero.
	VendorID uint16
	DeviceID uint16
}

// NewSysfs returns a sysfs describer for the reference image identity.
func NewSysfs(device string) *Sysfs {
	return &Sysfs{
		Device:   device,
		VendorID: DefaultVendorID,
		DeviceID: DefaultDeviceID,
	}
}

// DescribeImage implements addone.Describer. The slot argument is
// unused: the sysfs describer is already bound to one PCI address.
func (s *Sysfs) DescribeImage(_ int) (addone.ImageInfo, error) {
	root := s.Root
	if root == "" {
		root = "/sys/bus/pci/devices"
	}
	wantVendor := s.VendorID
	wantDevice := s.DeviceID
	if wantVendor == 0 && wantDevice == 0 {
		wantVendor = DefaultVendorID
		wantDevice = DefaultDeviceID
	}

	dir := filepath.Join(root, s.Device)
	if _, err := os.Stat(dir); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return addone.ImageInfo{Status: addone.StatusNotProgrammed}, nil
		}
		return addone.ImageInfo{}, fmt.Errorf("stat %s: %w", dir, err)
	}

	vendor, err := readHexID(filepath.Join(dir, "vendor"))
	if err != nil {
		return addone.ImageInfo{}, err
	}
	device, err := readHexID(filepath.Join(dir, "device"))
	if err != nil {
		return addone.ImageInfo{}, err
	}

	info := addone.ImageInfo{VendorID: vendor, DeviceID: device}
	if vendor == wantVendor && device == wantDevice {
		info.Status = addone.StatusLoaded
	} else {
		info.Status = addone.StatusUnknown
	}
	return info, nil
}

// readHexID parses a sysfs identity file of the form "0x1d0f\n".
func readHexID(path string) (uint16, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return 0, fmt.Errorf("read %s: %w", path, err)
	}
	value, err := strconv.ParseUint(strings.TrimSpace(string(data)), 0, 16)
	if err != nil {
		return 0, fmt.Errorf("parse %s: %w", path, err)
	}
	return uint16(value), nil
}

// Probe describes the image by attempting a status register read over
// an already attached transport. Bridge transports have no management
// plane, so a responsive status register is the best available
// readiness signal.
type Probe struct {
	Transport   addone.Transport
	RegisterMap addone.RegisterMap
	// VendorID and DeviceID are reported verbatim; the probe cannot
	// discover them.
	VendorID uint16
	DeviceID uint16
}

// NewProbe returns a probe describer over an attached transport using
// the default register map.
func NewProbe(transport addone.Transport) *Probe {
	return &Probe{
		Transport:   transport,
		RegisterMap: addone.DefaultRegisterMap(),
	}
}

// DescribeImage implements addone.Describer.
func (p *Probe) DescribeImage(_ int) (addone.ImageInfo, error) {
	if _, err := p.Transport.Read32(p.RegisterMap.Status); err != nil {
		return addone.ImageInfo{}, fmt.Errorf("status probe: %w", err)
	}
	return addone.ImageInfo{
		Status:   addone.StatusLoaded,
		VendorID: p.VendorID,
		DeviceID: p.DeviceID,
	}, nil
}

// Static is a fixed describer for tests and overrides.
type Static struct {
	Info addone.ImageInfo
	Err  error
}

// DescribeImage implements addone.Describer.
func (s *Static) DescribeImage(_ int) (addone.ImageInfo, error) {
	return s.Info, s.Err
}
