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

	"github.com/spf13/cobra"

	addone "github.com/openaccel/go-addone"
	"github.com/openaccel/go-addone/config"
	"github.com/openaccel/go-addone/history"
	"github.com/openaccel/go-addone/internal/log"
	"github.com/openaccel/go-addone/mgmt"
)

func newRunCommand(cfg *config.Config) *cobra.Command {
	var record bool
	var patternBase uint32
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run one add-one self-test cycle",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSelfTest(cmd, cfg, record, patternBase)
		},
	}
	cmd.Flags().BoolVar(&record, "record", false, "Record the run in the history log")
	cmd.Flags().Uint32Var(&patternBase, "pattern-base", addone.DefaultPatternBase,
		"Base value of the operand pattern")
	return cmd
}

func runSelfTest(cmd *cobra.Command, cfg *config.Config, record bool, patternBase uint32) error {
	rm := addone.DefaultRegisterMap()
	operands := addone.Pattern(patternBase, rm.NumSlots)
	ctx := cmd.Context()

	log.Info("add-one self-test starting (transport=%s, slot=%d)", cfg.Transport, cfg.Slot)

	var report *addone.Report
	var runErr error
	var transportType addone.TransportType

	if cfg.Transport == "pcibar" {
		if cfg.Device == "" {
			return fmt.Errorf("pcibar transport requires --device (PCI address)")
		}
		// The PCI path has a management plane: readiness is checked
		// before the BAR is attached, as on real hardware.
		transportType = addone.TransportPCIBar
		report, runErr = addone.SelfTest(ctx, func() (addone.Transport, error) {
			return openTransport(cfg, rm)
		}, mgmt.NewSysfs(cfg.Device), cfg.Slot, operands, addone.WithProgress(log.Info))
	} else {
		// Bridge and mock transports carry their own readiness signal,
		// so the session opens first and the status register is probed
		// through it.
		transport, err := openTransport(cfg, rm)
		if err != nil {
			return err
		}
		transportType = transport.Type()
		defer func() {
			// The cycle detaches on its own; this only covers a
			// readiness failure before the device took ownership.
			if transport.IsConnected() {
				_ = transport.Close()
			}
		}()

		var describer addone.Describer
		if cfg.Transport == "mock" {
			describer = mockDescriber()
		} else {
			describer = &mgmt.Probe{Transport: transport, RegisterMap: rm}
		}
		report, runErr = addone.SelfTest(ctx, func() (addone.Transport, error) {
			return transport, nil
		}, describer, cfg.Slot, operands, addone.WithProgress(log.Info))
	}

	if report != nil {
		out := cmd.OutOrStdout()
		if _, err := fmt.Fprintln(out); err != nil {
			return err
		}
		if err := report.WriteTable(out); err != nil {
			return err
		}
		if record {
			if err := recordRun(cfg, transportType, report); err != nil {
				log.Warning("recording run failed: %v", err)
			}
		}
	}

	if runErr != nil {
		log.Error("self-test failed: %v", runErr)
		return runErr
	}
	log.Info("all outputs correct")
	return nil
}

func recordRun(cfg *config.Config, transport addone.TransportType, report *addone.Report) error {
	store, err := history.Open(cfg.HistoryPath)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := store.Close(); cerr != nil {
			log.Warning("closing history log: %v", cerr)
		}
	}()
	return store.Append(transport, report)
}
