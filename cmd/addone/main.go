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

// Command addone is the bring-up test tool for the Add-One compute
// unit. It checks image readiness, runs the register-level self-test
// cycle, and offers raw peek/poke access for debugging.
//
// The process exits 0 only when the full self-test passed; any failure
// category (readiness, attach, register I/O, poll timeout, output
// mismatch) exits 1.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	addone "github.com/openaccel/go-addone"
	"github.com/openaccel/go-addone/config"
	"github.com/openaccel/go-addone/internal/log"
	"github.com/openaccel/go-addone/mgmt"
	"github.com/openaccel/go-addone/transport/pcibar"
	"github.com/openaccel/go-addone/transport/spibridge"
	"github.com/openaccel/go-addone/transport/uartbridge"
)

func main() {
	if err := NewRootCommand(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

// NewRootCommand builds the command tree. Flags default to the values
// loaded from the config file and override them when set.
func NewRootCommand(out io.Writer) *cobra.Command {
	cfg := config.NewDefaultConfig()
	_ = cfg.Load()

	var logLevel string
	cmd := &cobra.Command{
		Use:          "addone",
		Short:        "Bring-up test tool for the Add-One compute unit",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}
			return log.Init(cmd.ErrOrStderr(), cfg.LogLevel)
		},
	}
	cmd.SetOut(out)

	flags := cmd.PersistentFlags()
	flags.StringVar(&cfg.Transport, "transport", cfg.Transport,
		"Register transport: pcibar, uart, spi or mock")
	flags.StringVar(&cfg.Device, "device", cfg.Device,
		"Device: PCI address for pcibar, port path for uart/spi")
	flags.IntVar(&cfg.Bar, "bar", cfg.Bar, "BAR index for the pcibar transport")
	flags.IntVar(&cfg.Slot, "slot", cfg.Slot, "Accelerator slot")
	flags.StringVar(&logLevel, "log-level", "", fmt.Sprintf("Log level. %s", log.HelpLevels))

	cmd.AddCommand(newRunCommand(cfg))
	cmd.AddCommand(newStatusCommand(cfg))
	cmd.AddCommand(newPeekCommand(cfg))
	cmd.AddCommand(newPokeCommand(cfg))
	cmd.AddCommand(newHistoryCommand(cfg))
	cmd.AddCommand(newConfigCommand(cfg))
	return cmd
}

// openTransport attaches the configured register transport.
func openTransport(cfg *config.Config, rm addone.RegisterMap) (addone.Transport, error) {
	switch cfg.Transport {
	case "pcibar":
		if cfg.Device == "" {
			return nil, fmt.Errorf("pcibar transport requires --device (PCI address)")
		}
		return pcibar.New(cfg.Device, cfg.Bar)
	case "uart":
		if cfg.Device == "" {
			return nil, fmt.Errorf("uart transport requires --device (serial port)")
		}
		return uartbridge.NewWithConfig(cfg.Device, uartbridge.Config{BaudRate: cfg.BaudRate})
	case "spi":
		if cfg.Device == "" {
			return nil, fmt.Errorf("spi transport requires --device (SPI port)")
		}
		return spibridge.New(cfg.Device)
	case "mock":
		return addone.NewMockTransport(rm), nil
	default:
		return nil, fmt.Errorf("unsupported transport type: %s", cfg.Transport)
	}
}

// mockDescriber reports a loaded reference image for mock runs.
func mockDescriber() addone.Describer {
	return &mgmt.Static{Info: addone.ImageInfo{
		Status:   addone.StatusLoaded,
		VendorID: mgmt.DefaultVendorID,
		DeviceID: mgmt.DefaultDeviceID,
	}}
}
