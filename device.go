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
	"fmt"

	"github.com/openaccel/go-addone/internal/syncutil"
)

// Device is one attached session with the Add-One compute unit. It owns
// its Transport exclusively for the session lifetime; Close detaches
// exactly once and the device must not be used afterwards.
//
// Thread safety: the command cycle is single-threaded by design. The
// internal mutex only serializes a stray concurrent call against the
// one-command-at-a-time contract; it does not make concurrent use
// meaningful.
type Device struct {
	transport Transport
	progress  func(format string, args ...any)
	rm        RegisterMap
	closed    bool
	mu        syncutil.Mutex
}

// Option configures a Device.
type Option func(*Device) error

// WithRegisterMap overrides the default register map. The map is
// validated before use.
func WithRegisterMap(rm RegisterMap) Option {
	return func(d *Device) error {
		if err := rm.Validate(); err != nil {
			return err
		}
		d.rm = rm
		return nil
	}
}

// WithProgress installs a step progress callback. The command cycle
// reports each protocol step through it; the default is the package
// debug logger.
func WithProgress(fn func(format string, args ...any)) Option {
	return func(d *Device) error {
		if fn == nil {
			return errors.New("nil progress func")
		}
		d.progress = fn
		return nil
	}
}

// New creates a device over an attached transport.
func New(transport Transport, opts ...Option) (*Device, error) {
	if transport == nil {
		return nil, errors.New("nil transport")
	}
	device := &Device{
		transport: transport,
		rm:        DefaultRegisterMap(),
		progress:  Debugf,
	}
	for _, opt := range opts {
		if err := opt(device); err != nil {
			return nil, err
		}
	}
	return device, nil
}

// Transport returns the underlying transport.
func (d *Device) Transport() Transport { return d.transport }

// RegisterMap returns the register map in effect.
func (d *Device) RegisterMap() RegisterMap { return d.rm }

// Close detaches the session. Only the first call reaches the
// transport; later calls are no-ops so a scoped release can never
// detach twice.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.closed {
		return nil
	}
	d.closed = true
	if err := d.transport.Close(); err != nil {
		return fmt.Errorf("detach: %w", err)
	}
	return nil
}

// read32 wraps a transport read with register error context.
func (d *Device) read32(addr uint32) (uint32, error) {
	value, err := d.transport.Read32(addr)
	if err != nil {
		return 0, &RegisterError{Op: OpRead32, Addr: addr, Err: err}
	}
	return value, nil
}

// write32 wraps a transport write with register error context.
func (d *Device) write32(addr, value uint32) error {
	if err := d.transport.Write32(addr, value); err != nil {
		return &RegisterError{Op: OpWrite32, Addr: addr, Err: err}
	}
	return nil
}
