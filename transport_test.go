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

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMockTransport_ReadWrite(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport(DefaultRegisterMap())
	require.NoError(t, mock.Write32(0x08, 0xDEADBEEF))

	value, err := mock.Read32(0x08)
	require.NoError(t, err)
	assert.Equal(t, uint32(0xDEADBEEF), value)
	assert.Equal(t, 1, mock.WriteCount(0x08))
	assert.Equal(t, 1, mock.ReadCount(0x08))
	assert.Equal(t, []uint32{0xDEADBEEF}, mock.WriteValues(0x08))
}

func TestMockTransport_StickyRead(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport(DefaultRegisterMap())
	mock.SetStickyRead(0x04, 0x12345678)
	require.NoError(t, mock.Write32(0x04, 0xAAAAAAAA))

	value, err := mock.Read32(0x04)
	require.NoError(t, err)
	assert.Equal(t, uint32(0x12345678), value)
}

func TestMockTransport_FaultInjection(t *testing.T) {
	t.Parallel()

	injected := errors.New("injected fault")

	t.Run("Persistent_Read_Error", func(t *testing.T) {
		t.Parallel()

		mock := NewMockTransport(DefaultRegisterMap())
		mock.SetReadError(0x10, injected)

		_, err := mock.Read32(0x10)
		require.ErrorIs(t, err, injected)
		_, err = mock.Read32(0x10)
		require.ErrorIs(t, err, injected)
	})

	t.Run("Read_Error_On_Second_Call", func(t *testing.T) {
		t.Parallel()

		mock := NewMockTransport(DefaultRegisterMap())
		mock.SetReadErrorOnCall(0x10, 2, injected)

		_, err := mock.Read32(0x10)
		require.NoError(t, err)
		_, err = mock.Read32(0x10)
		require.ErrorIs(t, err, injected)
		_, err = mock.Read32(0x10)
		require.NoError(t, err)
	})

	t.Run("Write_Error_On_Second_Call", func(t *testing.T) {
		t.Parallel()

		mock := NewMockTransport(DefaultRegisterMap())
		mock.SetWriteErrorOnCall(0x10, 2, injected)

		require.NoError(t, mock.Write32(0x10, 1))
		require.ErrorIs(t, mock.Write32(0x10, 2), injected)
		// Failed writes never reach the register.
		assert.Equal(t, []uint32{1}, mock.WriteValues(0x10))
	})
}

func TestMockTransport_AcceleratorEmulation(t *testing.T) {
	t.Parallel()

	rm := DefaultRegisterMap()
	mock := NewMockTransport(rm)

	for i := 0; i < rm.NumSlots; i++ {
		require.NoError(t, mock.Write32(rm.InputAddr(i), uint32(100+i)))
	}

	// Not started yet: status stays clear.
	status, err := mock.Read32(rm.Status)
	require.NoError(t, err)
	assert.Zero(t, status&rm.DoneBit)

	require.NoError(t, mock.Write32(rm.Control, rm.StartBit))
	status, err = mock.Read32(rm.Status)
	require.NoError(t, err)
	assert.NotZero(t, status&rm.DoneBit)

	for i := 0; i < rm.NumSlots; i++ {
		out, err := mock.Read32(rm.OutputAddr(i))
		require.NoError(t, err)
		assert.Equal(t, uint32(101+i), out)
	}
}

func TestMockTransport_CompleteAfter(t *testing.T) {
	t.Parallel()

	rm := DefaultRegisterMap()
	mock := NewMockTransport(rm)
	mock.SetCompleteAfter(3)
	require.NoError(t, mock.Write32(rm.Control, rm.StartBit))

	for poll := 1; poll <= 3; poll++ {
		status, err := mock.Read32(rm.Status)
		require.NoError(t, err)
		if poll < 3 {
			assert.Zero(t, status&rm.DoneBit, "poll %d", poll)
		} else {
			assert.NotZero(t, status&rm.DoneBit, "poll %d", poll)
		}
	}
}

func TestMockTransport_Close(t *testing.T) {
	t.Parallel()

	mock := NewMockTransport(DefaultRegisterMap())
	assert.True(t, mock.IsConnected())

	require.NoError(t, mock.Close())
	assert.False(t, mock.IsConnected())
	assert.Equal(t, 1, mock.CloseCount())

	_, err := mock.Read32(0)
	require.ErrorIs(t, err, ErrTransportClosed)
	require.ErrorIs(t, mock.Write32(0, 0), ErrTransportClosed)

	// Double close is still counted so tests catch double detach.
	require.NoError(t, mock.Close())
	assert.Equal(t, 2, mock.CloseCount())
}
