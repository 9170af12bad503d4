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
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	addone "github.com/openaccel/go-addone"
	"github.com/openaccel/go-addone/config"
	"github.com/openaccel/go-addone/internal/log"
	"github.com/openaccel/go-addone/mgmt"
)

func newStatusCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check whether the accelerator image is loaded",
		RunE: func(cmd *cobra.Command, _ []string) error {
			rm := addone.DefaultRegisterMap()

			var describer addone.Describer
			switch cfg.Transport {
			case "pcibar":
				if cfg.Device == "" {
					return fmt.Errorf("status over pcibar requires --device (PCI address)")
				}
				describer = mgmt.NewSysfs(cfg.Device)
			case "mock":
				describer = mockDescriber()
			default:
				transport, err := openTransport(cfg, rm)
				if err != nil {
					return err
				}
				defer func() {
					if cerr := transport.Close(); cerr != nil {
						log.Warning("detach failed: %v", cerr)
					}
				}()
				describer = &mgmt.Probe{Transport: transport, RegisterMap: rm}
			}

			info, err := addone.CheckReady(describer, cfg.Slot)
			if err != nil {
				var re *addone.ReadinessError
				if errors.As(err, &re) {
					log.Error("slot %d image status: %s", cfg.Slot, re.Status)
				}
				return err
			}
			_, err = fmt.Fprintf(cmd.OutOrStdout(),
				"slot %d: %s (vendor 0x%04X, device 0x%04X)\n",
				cfg.Slot, info.Status, info.VendorID, info.DeviceID)
			return err
		},
	}
}
