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

package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	addone "github.com/openaccel/go-addone"
	"github.com/openaccel/go-addone/config"
	"github.com/openaccel/go-addone/internal/log"
)

// parseAddr parses a register offset given in decimal or 0x hex.
func parseAddr(s string) (uint32, error) {
	value, err := strconv.ParseUint(s, 0, 32)
	if err != nil {
		return 0, fmt.Errorf("invalid register address %q: %w", s, err)
	}
	return uint32(value), nil
}

// withTransport attaches the configured transport, runs fn, and always
// detaches.
func withTransport(cfg *config.Config, fn func(addone.Transport) error) error {
	transport, err := openTransport(cfg, addone.DefaultRegisterMap())
	if err != nil {
		return err
	}
	defer func() {
		if cerr := transport.Close(); cerr != nil {
			log.Warning("detach failed: %v", cerr)
		}
	}()
	return fn(transport)
}

func newPeekCommand(cfg *config.Config) *cobra.Command {
	var addrStr string
	cmd := &cobra.Command{
		Use:   "peek",
		Short: "Read a 32-bit register",
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr, err := parseAddr(addrStr)
			if err != nil {
				return err
			}
			return withTransport(cfg, func(transport addone.Transport) error {
				value, err := transport.Read32(addr)
				if err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "0x%02X = 0x%08X\n", addr, value)
				return err
			})
		},
	}
	cmd.Flags().StringVar(&addrStr, "addr", "", "Register address (decimal or 0x hex)")
	_ = cmd.MarkFlagRequired("addr")
	return cmd
}

func newPokeCommand(cfg *config.Config) *cobra.Command {
	var addrStr, valueStr string
	cmd := &cobra.Command{
		Use:   "poke",
		Short: "Write a 32-bit register",
		RunE: func(cmd *cobra.Command, _ []string) error {
			addr, err := parseAddr(addrStr)
			if err != nil {
				return err
			}
			value, err := strconv.ParseUint(valueStr, 0, 32)
			if err != nil {
				return fmt.Errorf("invalid register value %q: %w", valueStr, err)
			}
			return withTransport(cfg, func(transport addone.Transport) error {
				if err := transport.Write32(addr, uint32(value)); err != nil {
					return err
				}
				_, err = fmt.Fprintf(cmd.OutOrStdout(), "0x%02X <- 0x%08X\n", addr, uint32(value))
				return err
			})
		},
	}
	cmd.Flags().StringVar(&addrStr, "addr", "", "Register address (decimal or 0x hex)")
	cmd.Flags().StringVar(&valueStr, "value", "", "Value to write (decimal or 0x hex)")
	_ = cmd.MarkFlagRequired("addr")
	_ = cmd.MarkFlagRequired("value")
	return cmd
}
