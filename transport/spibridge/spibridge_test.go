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

package spibridge

import (
	"encoding/binary"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"periph.io/x/conn/v3"
	"periph.io/x/conn/v3/physic"
	"periph.io/x/conn/v3/spi"

	addone "github.com/openaccel/go-addone"
	"github.com/openaccel/go-addone/internal/bridge"
)

// fakeConn simulates the bridge firmware on the far side of the SPI
// link. A request frame queues its response; until fillerProbes reads
// have drained, the bridge clocks out filler bytes instead of the
// response magic.
type fakeConn struct {
	regs         map[uint32]uint32
	pending      []byte
	fillerProbes int
}

func newFakeConn() *fakeConn {
	return &fakeConn{regs: make(map[uint32]uint32)}
}

func (c *fakeConn) Tx(w, r []byte) error {
	if len(w) == bridge.ReqLen && w[0] == bridge.ReqMagic {
		op := w[1]
		addr := binary.BigEndian.Uint32(w[2:6])
		value := binary.BigEndian.Uint32(w[6:10])
		switch op {
		case bridge.OpRead:
			c.pending = bridge.EncodeResponse(op, bridge.StatusOK, c.regs[addr])
		case bridge.OpWrite:
			c.regs[addr] = value
			c.pending = bridge.EncodeResponse(op, bridge.StatusOK, 0)
		}
		return nil
	}

	for i := range r {
		if c.fillerProbes > 0 || len(c.pending) == 0 {
			if c.fillerProbes > 0 {
				c.fillerProbes--
			}
			r[i] = 0xFF
			continue
		}
		r[i] = c.pending[0]
		c.pending = c.pending[1:]
	}
	return nil
}

func (*fakeConn) String() string { return "fake" }

func (*fakeConn) Duplex() conn.Duplex { return conn.Full }

func (*fakeConn) TxPackets(_ []spi.Packet) error { return nil }

var _ spi.Conn = (*fakeConn)(nil)

// fakePort only has to absorb Close.
type fakePort struct {
	closed bool
}

func (p *fakePort) Close() error { p.closed = true; return nil }

func (*fakePort) String() string { return "fake" }

func (*fakePort) LimitSpeed(_ physic.Frequency) error { return nil }

func (*fakePort) Connect(_ physic.Frequency, _ spi.Mode, _ int) (spi.Conn, error) {
	return nil, nil
}

var _ spi.PortCloser = (*fakePort)(nil)

func newFakeTransport(c *fakeConn, p *fakePort) *Transport {
	return &Transport{port: p, conn: c, portName: "fake", connected: true}
}

func TestTransport_ReadWriteRoundTrip(t *testing.T) {
	t.Parallel()

	tr := newFakeTransport(newFakeConn(), &fakePort{})

	require.NoError(t, tr.Write32(0x40, 0x00000001))
	value, err := tr.Read32(0x40)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x00000001), value)
}

func TestTransport_WaitsForResponseMagic(t *testing.T) {
	t.Parallel()

	c := newFakeConn()
	c.fillerProbes = 5
	tr := newFakeTransport(c, &fakePort{})

	require.NoError(t, tr.Write32(0x00, 0xCAFEF00D))

	c.fillerProbes = 5
	value, err := tr.Read32(0x00)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xCAFEF00D), value)
}

func TestTransport_BridgeSilence(t *testing.T) {
	t.Parallel()

	c := newFakeConn()
	c.fillerProbes = readyAttempts + 1
	tr := newFakeTransport(c, &fakePort{})

	_, err := tr.Read32(0x44)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "did not respond")
}

func TestTransport_Close(t *testing.T) {
	t.Parallel()

	port := &fakePort{}
	tr := newFakeTransport(newFakeConn(), port)

	require.NoError(t, tr.Close())
	assert.True(t, port.closed)
	assert.False(t, tr.IsConnected())
	require.NoError(t, tr.Close())

	_, err := tr.Read32(0x44)
	require.ErrorIs(t, err, addone.ErrTransportClosed)
}

func TestTransport_Type(t *testing.T) {
	t.Parallel()

	assert.Equal(t, addone.TransportSPIBridge,
		newFakeTransport(newFakeConn(), &fakePort{}).Type())
}
