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

package uartbridge

import (
	"encoding/binary"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.bug.st/serial"

	addone "github.com/openaccel/go-addone"
	"github.com/openaccel/go-addone/internal/bridge"
)

// fakePort simulates the bridge firmware behind a serial port: every
// request frame written to it queues the matching response. Responses
// are served in chunks of chunkSize bytes to exercise partial reads.
type fakePort struct {
	regs      map[uint32]uint32
	pending   []byte
	chunkSize int
	closed    bool
	mute      bool
}

func newFakePort() *fakePort {
	return &fakePort{regs: make(map[uint32]uint32), chunkSize: bridge.RespLen}
}

func (p *fakePort) Write(req []byte) (int, error) {
	if p.mute {
		return len(req), nil
	}
	op := req[1]
	addr := binary.BigEndian.Uint32(req[2:6])
	value := binary.BigEndian.Uint32(req[6:10])

	switch op {
	case bridge.OpRead:
		p.pending = append(p.pending, bridge.EncodeResponse(op, bridge.StatusOK, p.regs[addr])...)
	case bridge.OpWrite:
		p.regs[addr] = value
		p.pending = append(p.pending, bridge.EncodeResponse(op, bridge.StatusOK, 0)...)
	}
	return len(req), nil
}

func (p *fakePort) Read(buf []byte) (int, error) {
	if len(p.pending) == 0 {
		// A real port returns 0 bytes on read timeout.
		return 0, nil
	}
	n := p.chunkSize
	if n > len(p.pending) {
		n = len(p.pending)
	}
	if n > len(buf) {
		n = len(buf)
	}
	copy(buf, p.pending[:n])
	p.pending = p.pending[n:]
	return n, nil
}

func (p *fakePort) Close() error {
	p.closed = true
	return nil
}

func (*fakePort) SetMode(_ *serial.Mode) error { return nil }

func (*fakePort) Drain() error { return nil }

func (*fakePort) ResetInputBuffer() error { return nil }

func (*fakePort) ResetOutputBuffer() error { return nil }

func (*fakePort) SetDTR(_ bool) error { return nil }

func (*fakePort) SetRTS(_ bool) error { return nil }

func (*fakePort) GetModemStatusBits() (*serial.ModemStatusBits, error) {
	return &serial.ModemStatusBits{}, nil
}

func (*fakePort) SetReadTimeout(_ time.Duration) error { return nil }

func (*fakePort) Break(_ time.Duration) error { return nil }

var _ serial.Port = (*fakePort)(nil)

func newFakeTransport(port *fakePort) *Transport {
	return &Transport{port: port, portName: "fake", timeout: time.Millisecond, connected: true}
}

func TestTransport_ReadWriteRoundTrip(t *testing.T) {
	t.Parallel()

	port := newFakePort()
	tr := newFakeTransport(port)

	require.NoError(t, tr.Write32(0x40, 0x00000001))

	value, err := tr.Read32(0x40)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x00000001), value)

	value, err = tr.Read32(0x44)
	require.NoError(t, err)
	assert.Zero(t, value, "unwritten registers read as zero")
}

func TestTransport_PartialReads(t *testing.T) {
	t.Parallel()

	port := newFakePort()
	port.chunkSize = 3
	tr := newFakeTransport(port)

	require.NoError(t, tr.Write32(0x00, 0xCAFEF00D))
	value, err := tr.Read32(0x00)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xCAFEF00D), value)
}

func TestTransport_BridgeSilence(t *testing.T) {
	t.Parallel()

	port := newFakePort()
	port.mute = true
	tr := newFakeTransport(port)

	_, err := tr.Read32(0x44)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not respond")
}

func TestTransport_Close(t *testing.T) {
	t.Parallel()

	port := newFakePort()
	tr := newFakeTransport(port)

	assert.True(t, tr.IsConnected())
	require.NoError(t, tr.Close())
	assert.False(t, tr.IsConnected())
	assert.True(t, port.closed)

	// Closing again is a no-op, and the session refuses further use.
	require.NoError(t, tr.Close())
	_, err := tr.Read32(0x44)
	require.ErrorIs(t, err, addone.ErrTransportClosed)
}

func TestTransport_Type(t *testing.T) {
	t.Parallel()

	assert.Equal(t, addone.TransportUARTBridge, newFakeTransport(newFakePort()).Type())
}
