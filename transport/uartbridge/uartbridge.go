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

// Package uartbridge accesses the accelerator registers through a
// serial debug bridge: a small firmware shim that executes framed
// 32-bit peek and poke requests on behalf of the host. It is useful on
// development boards that expose the register window over a USB-serial
// console instead of PCI.
package uartbridge

import (
	"fmt"
	"time"

	"go.bug.st/serial"

	addone "github.com/openaccel/go-addone"
	"github.com/openaccel/go-addone/internal/bridge"
)

const (
	// DefaultBaudRate matches the reference bridge firmware.
	DefaultBaudRate = 115200
	// defaultTimeout bounds one request/response exchange.
	defaultTimeout = 500 * time.Millisecond
)

// Transport is a register session over a serial debug bridge.
type Transport struct {
	port      serial.Port
	portName  string
	timeout   time.Duration
	connected bool
}

// Config holds the serial parameters of the bridge.
type Config struct {
	// BaudRate of the bridge firmware; DefaultBaudRate when zero.
	BaudRate int
	// Timeout for one request/response exchange; a library default
	// when zero.
	Timeout time.Duration
}

// New attaches to the bridge on the given serial port with default
// parameters.
func New(portName string) (*Transport, error) {
	return NewWithConfig(portName, Config{})
}

// NewWithConfig attaches to the bridge on the given serial port.
func NewWithConfig(portName string, cfg Config) (*Transport, error) {
	if cfg.BaudRate == 0 {
		cfg.BaudRate = DefaultBaudRate
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}

	mode := &serial.Mode{
		BaudRate: cfg.BaudRate,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	port, err := serial.Open(portName, mode)
	if err != nil {
		return nil, &addone.AttachError{Device: portName, Err: err}
	}
	if err := port.SetReadTimeout(cfg.Timeout); err != nil {
		_ = port.Close()
		return nil, &addone.AttachError{
			Device: portName,
			Err:    fmt.Errorf("set read timeout: %w", err),
		}
	}
	// Drop anything the bridge emitted before we attached.
	_ = port.ResetInputBuffer()

	return &Transport{
		port:      port,
		portName:  portName,
		timeout:   cfg.Timeout,
		connected: true,
	}, nil
}

// transact sends one request frame and reads the fixed-size response.
func (t *Transport) transact(op byte, addr, value uint32) (uint32, error) {
	if !t.connected {
		return 0, addone.ErrTransportClosed
	}

	req := bridge.EncodeRequest(op, addr, value)
	if _, err := t.port.Write(req); err != nil {
		return 0, fmt.Errorf("write request to %s: %w", t.portName, err)
	}

	resp := make([]byte, bridge.RespLen)
	if err := t.readFull(resp); err != nil {
		return 0, err
	}
	return bridge.DecodeResponse(op, resp)
}

// readFull reads until buf is filled. The serial read timeout makes a
// stalled bridge surface as a zero-byte read.
func (t *Transport) readFull(buf []byte) error {
	off := 0
	for off < len(buf) {
		n, err := t.port.Read(buf[off:])
		if err != nil {
			return fmt.Errorf("read response from %s: %w", t.portName, err)
		}
		if n == 0 {
			return fmt.Errorf("bridge on %s did not respond within %v (%d of %d bytes)",
				t.portName, t.timeout, off, len(buf))
		}
		off += n
	}
	return nil
}

// Read32 implements addone.Transport.
func (t *Transport) Read32(addr uint32) (uint32, error) {
	return t.transact(bridge.OpRead, addr, 0)
}

// Write32 implements addone.Transport.
func (t *Transport) Write32(addr uint32, value uint32) error {
	_, err := t.transact(bridge.OpWrite, addr, value)
	return err
}

// Close detaches the session and closes the serial port.
func (t *Transport) Close() error {
	if !t.connected {
		return nil
	}
	t.connected = false
	if err := t.port.Close(); err != nil {
		return fmt.Errorf("close %s: %w", t.portName, err)
	}
	return nil
}

// Type implements addone.Transport.
func (*Transport) Type() addone.TransportType { return addone.TransportUARTBridge }

// IsConnected implements addone.Transport.
func (t *Transport) IsConnected() bool { return t.connected }
