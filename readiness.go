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

import "fmt"

// ImageStatus is the load state of the accelerator image on a slot.
type ImageStatus int

const (
	// StatusUnknown is any state the management layer could not map.
	StatusUnknown ImageStatus = iota
	// StatusNotProgrammed means no image has been loaded on the slot.
	StatusNotProgrammed
	// StatusCleared means the slot was cleared after a previous image.
	StatusCleared
	// StatusLoaded means the image is loaded and the accelerator is
	// usable.
	StatusLoaded
	// StatusBusy means the slot is in a load or clear transition.
	StatusBusy
)

func (s ImageStatus) String() string {
	switch s {
	case StatusNotProgrammed:
		return "NOT_PROGRAMMED"
	case StatusCleared:
		return "CLEARED"
	case StatusLoaded:
		return "LOADED"
	case StatusBusy:
		return "BUSY"
	default:
		return "UNKNOWN"
	}
}

// ImageInfo describes the image currently associated with a slot.
type ImageInfo struct {
	Status   ImageStatus
	VendorID uint16
	DeviceID uint16
}

// Describer queries the load state of an accelerator slot. It is
// implemented by the mgmt package for sysfs-backed and probe-based
// queries.
type Describer interface {
	DescribeImage(slot int) (ImageInfo, error)
}

// CheckReady queries the image state of a slot and succeeds only when
// the image is loaded. Any other status is returned as a
// *ReadinessError carrying the observed status. There is no retry: the
// readiness check is a one-shot gate at the start of a run.
func CheckReady(d Describer, slot int) (ImageInfo, error) {
	info, err := d.DescribeImage(slot)
	if err != nil {
		return ImageInfo{}, fmt.Errorf("describe image on slot %d: %w", slot, err)
	}
	Debugf("slot %d image: status=%s vendor=0x%04X device=0x%04X",
		slot, info.Status, info.VendorID, info.DeviceID)
	if info.Status != StatusLoaded {
		return info, &ReadinessError{Status: info.Status}
	}
	return info, nil
}
