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

import "github.com/openaccel/go-addone/internal/syncutil"

// Transport is one attached register session: raw 32-bit access to the
// accelerator's byte-addressed register window. Implementations exist
// for a mapped PCI BAR and for UART and SPI debug bridges.
//
// A Transport is owned by exactly one Device at a time. Close releases
// the session; no method may be called after Close.
type Transport interface {
	// Read32 reads the 32-bit register at the given byte offset.
	Read32(addr uint32) (uint32, error)

	// Write32 writes the 32-bit register at the given byte offset.
	Write32(addr uint32, value uint32) error

	// Close detaches the session and releases the underlying resources.
	Close() error

	// Type returns the transport type.
	Type() TransportType

	// IsConnected returns true while the session is attached.
	IsConnected() bool
}

// TransportType identifies the register access backend.
type TransportType string

const (
	// TransportPCIBar is a memory-mapped PCI base address region.
	TransportPCIBar TransportType = "pcibar"
	// TransportUARTBridge is a serial debug bridge.
	TransportUARTBridge TransportType = "uart"
	// TransportSPIBridge is an SPI debug bridge.
	TransportSPIBridge TransportType = "spi"
	// TransportMock is the in-memory transport for testing.
	TransportMock TransportType = "mock"
)

// mockFault is an injected register access failure. onCall selects the
// n-th access to the address (1-based); zero means every access.
type mockFault struct {
	err    error
	onCall int
}

// MockTransport emulates the Add-One compute unit in memory for tests
// and dry runs. It models the register window described by a
// RegisterMap, latches the done bit a configurable number of status
// polls after the start bit is written, and supports fault injection on
// any register access.
type MockTransport struct {
	regs       map[uint32]uint32
	sticky     map[uint32]uint32
	readErrs   map[uint32]mockFault
	writeErrs  map[uint32]mockFault
	readCount  map[uint32]int
	writeCount map[uint32]int
	writes     map[uint32][]uint32
	transform  func(slot int, in uint32) uint32

	rm            RegisterMap
	completeAfter int
	pollsSeen     int
	closeErr      error
	closeCount    int
	running       bool
	never         bool
	connected     bool

	mu syncutil.RWMutex
}

// NewMockTransport creates a mock transport emulating an accelerator
// with the given register map. By default the done bit is observed on
// the first status poll after start and outputs are the wrapping
// add-one of the inputs.
func NewMockTransport(rm RegisterMap) *MockTransport {
	return &MockTransport{
		rm:            rm,
		regs:          make(map[uint32]uint32),
		sticky:        make(map[uint32]uint32),
		readErrs:      make(map[uint32]mockFault),
		writeErrs:     make(map[uint32]mockFault),
		readCount:     make(map[uint32]int),
		writeCount:    make(map[uint32]int),
		writes:        make(map[uint32][]uint32),
		transform:     func(_ int, in uint32) uint32 { return in + 1 },
		completeAfter: 1,
		connected:     true,
	}
}

// Read32 implements Transport.
func (m *MockTransport) Read32(addr uint32) (uint32, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return 0, ErrTransportClosed
	}

	m.readCount[addr]++
	if fault, ok := m.readErrs[addr]; ok {
		if fault.onCall == 0 || fault.onCall == m.readCount[addr] {
			return 0, fault.err
		}
	}

	if addr == m.rm.Status {
		m.stepAccelerator()
	}
	if v, ok := m.sticky[addr]; ok {
		return v, nil
	}
	return m.regs[addr], nil
}

// Write32 implements Transport.
func (m *MockTransport) Write32(addr uint32, value uint32) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.connected {
		return ErrTransportClosed
	}

	m.writeCount[addr]++
	if fault, ok := m.writeErrs[addr]; ok {
		if fault.onCall == 0 || fault.onCall == m.writeCount[addr] {
			return fault.err
		}
	}

	m.regs[addr] = value
	m.writes[addr] = append(m.writes[addr], value)

	if addr == m.rm.Control {
		if value&m.rm.StartBit != 0 {
			m.running = true
			m.pollsSeen = 0
			m.regs[m.rm.Status] &^= m.rm.DoneBit
		} else {
			m.running = false
		}
	}
	return nil
}

// stepAccelerator advances the emulated computation on each status
// poll. Caller holds the lock.
func (m *MockTransport) stepAccelerator() {
	if !m.running || m.never {
		return
	}
	m.pollsSeen++
	if m.pollsSeen < m.completeAfter {
		return
	}
	for i := 0; i < m.rm.NumSlots; i++ {
		in := m.regs[m.rm.InputAddr(i)]
		m.regs[m.rm.OutputAddr(i)] = m.transform(i, in)
	}
	m.regs[m.rm.Status] |= m.rm.DoneBit
	m.running = false
}

// Close implements Transport. Every call is counted so tests can assert
// the detach-exactly-once contract.
func (m *MockTransport) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeCount++
	m.connected = false
	return m.closeErr
}

// Type implements Transport.
func (*MockTransport) Type() TransportType { return TransportMock }

// IsConnected implements Transport.
func (m *MockTransport) IsConnected() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.connected
}

// Test helper methods

// SetCompleteAfter sets on which status poll after start the done bit
// becomes observable (1 means the first poll).
func (m *MockTransport) SetCompleteAfter(polls int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.completeAfter = polls
}

// NeverComplete keeps the done bit clear forever, forcing a poll
// timeout.
func (m *MockTransport) NeverComplete() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.never = true
}

// SetTransform replaces the emulated per-slot computation.
func (m *MockTransport) SetTransform(fn func(slot int, in uint32) uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.transform = fn
}

// SetStickyRead forces every read of addr to return value, regardless
// of writes. Used to simulate a broken register path for readback
// verification tests.
func (m *MockTransport) SetStickyRead(addr, value uint32) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sticky[addr] = value
}

// SetReadError injects err on every read of addr.
func (m *MockTransport) SetReadError(addr uint32, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErrs[addr] = mockFault{err: err}
}

// SetReadErrorOnCall injects err on the n-th read of addr (1-based).
func (m *MockTransport) SetReadErrorOnCall(addr uint32, n int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.readErrs[addr] = mockFault{err: err, onCall: n}
}

// SetWriteError injects err on every write of addr.
func (m *MockTransport) SetWriteError(addr uint32, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErrs[addr] = mockFault{err: err}
}

// SetWriteErrorOnCall injects err on the n-th write of addr (1-based).
func (m *MockTransport) SetWriteErrorOnCall(addr uint32, n int, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.writeErrs[addr] = mockFault{err: err, onCall: n}
}

// SetCloseError makes Close return err.
func (m *MockTransport) SetCloseError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closeErr = err
}

// Register returns the current value of a register in the emulated
// window.
func (m *MockTransport) Register(addr uint32) uint32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.regs[addr]
}

// ReadCount returns how many reads of addr were attempted, including
// reads that failed by injection.
func (m *MockTransport) ReadCount(addr uint32) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.readCount[addr]
}

// WriteCount returns how many writes of addr were attempted.
func (m *MockTransport) WriteCount(addr uint32) int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writeCount[addr]
}

// WriteValues returns the values successfully written to addr, in
// order.
func (m *MockTransport) WriteValues(addr uint32) []uint32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	values := make([]uint32, len(m.writes[addr]))
	copy(values, m.writes[addr])
	return values
}

// CloseCount returns how many times Close was called.
func (m *MockTransport) CloseCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.closeCount
}
