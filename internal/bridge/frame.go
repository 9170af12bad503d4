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

// Package bridge implements the frame codec of the register debug
// bridge spoken over the UART and SPI transports.
//
// A request is 11 bytes: magic, opcode, big-endian address, big-endian
// value (zero for reads) and an XOR checksum. A response is 8 bytes:
// magic, opcode echo, status, big-endian value and an XOR checksum.
package bridge

import (
	"encoding/binary"
	"errors"
	"fmt"
)

const (
	// ReqMagic starts every request frame.
	ReqMagic = 0xA5
	// RespMagic starts every response frame.
	RespMagic = 0x5A

	// OpRead requests a 32-bit register read.
	OpRead = 0x01
	// OpWrite requests a 32-bit register write.
	OpWrite = 0x02

	// ReqLen is the fixed request frame length.
	ReqLen = 11
	// RespLen is the fixed response frame length.
	RespLen = 8

	// StatusOK means the bridge executed the access.
	StatusOK = 0x00
	// StatusBadAddr means the address is outside the register window.
	StatusBadAddr = 0x01
	// StatusBadChecksum means the bridge rejected the request frame.
	StatusBadChecksum = 0x02
)

var (
	// ErrBadMagic indicates a response that does not start with RespMagic.
	ErrBadMagic = errors.New("bad response magic")
	// ErrBadChecksum indicates a corrupted response frame.
	ErrBadChecksum = errors.New("response checksum mismatch")
	// ErrOpMismatch indicates a response echoing a different opcode than
	// the request.
	ErrOpMismatch = errors.New("response opcode mismatch")
	// ErrShortFrame indicates a truncated response.
	ErrShortFrame = errors.New("short response frame")
)

// Error is a non-zero status reported by the bridge firmware.
type Error struct {
	Status byte
}

func (e *Error) Error() string {
	switch e.Status {
	case StatusBadAddr:
		return "bridge error: address out of range"
	case StatusBadChecksum:
		return "bridge error: request checksum rejected"
	default:
		return fmt.Sprintf("bridge error: status 0x%02X", e.Status)
	}
}

// Checksum returns the XOR of all bytes in data.
func Checksum(data []byte) byte {
	var sum byte
	for _, b := range data {
		sum ^= b
	}
	return sum
}

// EncodeRequest builds a request frame for the given operation.
func EncodeRequest(op byte, addr, value uint32) []byte {
	frame := make([]byte, ReqLen)
	frame[0] = ReqMagic
	frame[1] = op
	binary.BigEndian.PutUint32(frame[2:6], addr)
	binary.BigEndian.PutUint32(frame[6:10], value)
	frame[10] = Checksum(frame[:10])
	return frame
}

// DecodeResponse validates a response frame against the request opcode
// and returns the value it carries.
func DecodeResponse(op byte, frame []byte) (uint32, error) {
	if len(frame) < RespLen {
		return 0, fmt.Errorf("%w: %d bytes", ErrShortFrame, len(frame))
	}
	if frame[0] != RespMagic {
		return 0, fmt.Errorf("%w: 0x%02X", ErrBadMagic, frame[0])
	}
	if Checksum(frame[:RespLen-1]) != frame[RespLen-1] {
		return 0, ErrBadChecksum
	}
	if frame[1] != op {
		return 0, fmt.Errorf("%w: sent 0x%02X, got 0x%02X", ErrOpMismatch, op, frame[1])
	}
	if frame[2] != StatusOK {
		return 0, &Error{Status: frame[2]}
	}
	return binary.BigEndian.Uint32(frame[3:7]), nil
}

// EncodeResponse builds a response frame. It exists for bridge
// simulators in tests; real responses come from the firmware.
func EncodeResponse(op, status byte, value uint32) []byte {
	frame := make([]byte, RespLen)
	frame[0] = RespMagic
	frame[1] = op
	frame[2] = status
	binary.BigEndian.PutUint32(frame[3:7], value)
	frame[7] = Checksum(frame[:7])
	return frame
}
