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

// Package spibridge accesses the accelerator registers through an SPI
// debug bridge using the same frame codec as the UART bridge. The
// bridge firmware clocks out RespMagic when a response is ready; until
// then reads return filler bytes.
package spibridge

import (
	"fmt"
	"time"

	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"
	"periph.io/x/conn/v3/spi/spireg"
	"periph.io/x/host/v3"

	addone "github.com/openaccel/go-addone"
	"github.com/openaccel/go-addone/internal/bridge"
)

const (
	// defaultFreq is a conservative clock the reference bridge handles.
	defaultFreq = 1 * physic.MegaHertz
	// mode is CPOL=0, CPHA=0.
	mode = spi.Mode0

	// readyAttempts bounds the wait for the response magic.
	readyAttempts = 64
	// readyDelay is slept between ready probes.
	readyDelay = 100 * time.Microsecond
)

// Transport is a register session over an SPI debug bridge.
type Transport struct {
	port      spi.PortCloser
	conn      spi.Conn
	portName  string
	connected bool
}

// New attaches to the bridge on the given SPI port (for example
// "SPI0.0" or "/dev/spidev0.0").
func New(portName string) (*Transport, error) {
	if _, err := host.Init(); err != nil {
		return nil, &addone.AttachError{
			Device: portName,
			Err:    fmt.Errorf("initialize periph host: %w", err),
		}
	}

	port, err := spireg.Open(portName)
	if err != nil {
		return nil, &addone.AttachError{Device: portName, Err: err}
	}

	conn, err := port.Connect(defaultFreq, mode, 8)
	if err != nil {
		_ = port.Close()
		return nil, &addone.AttachError{
			Device: portName,
			Err:    fmt.Errorf("connect: %w", err),
		}
	}

	return &Transport{
		port:      port,
		conn:      conn,
		portName:  portName,
		connected: true,
	}, nil
}

// transact sends one request frame and reads the fixed-size response.
func (t *Transport) transact(op byte, addr, value uint32) (uint32, error) {
	if !t.connected {
		return 0, addone.ErrTransportClosed
	}

	req := bridge.EncodeRequest(op, addr, value)
	discard := make([]byte, len(req))
	if err := t.conn.Tx(req, discard); err != nil {
		return 0, fmt.Errorf("write request to %s: %w", t.portName, err)
	}

	resp, err := t.readResponse()
	if err != nil {
		return 0, err
	}
	return bridge.DecodeResponse(op, resp)
}

// readResponse clocks filler bytes until the bridge presents the
// response magic, then reads the rest of the frame.
func (t *Transport) readResponse() ([]byte, error) {
	probe := make([]byte, 1)
	found := false
	for attempt := 0; attempt < readyAttempts; attempt++ {
		if err := t.conn.Tx([]byte{0x00}, probe); err != nil {
			return nil, fmt.Errorf("read response from %s: %w", t.portName, err)
		}
		if probe[0] == bridge.RespMagic {
			found = true
			break
		}
		time.Sleep(readyDelay)
	}
	if !found {
		return nil, fmt.Errorf("bridge on %s did not respond after %d probes",
			t.portName, readyAttempts)
	}

	rest := make([]byte, bridge.RespLen-1)
	if err := t.conn.Tx(make([]byte, len(rest)), rest); err != nil {
		return nil, fmt.Errorf("read response from %s: %w", t.portName, err)
	}

	frame := make([]byte, 0, bridge.RespLen)
	frame = append(frame, bridge.RespMagic)
	frame = append(frame, rest...)
	return frame, nil
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

// Close detaches the session and closes the SPI port.
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
func (*Transport) Type() addone.TransportType { return addone.TransportSPIBridge }

// IsConnected implements addone.Transport.
func (t *Transport) IsConnected() bool { return t.connected }
