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
	"time"

	"github.com/spf13/cobra"

	"github.com/openaccel/go-addone/config"
	"github.com/openaccel/go-addone/history"
	"github.com/openaccel/go-addone/internal/log"
)

func newHistoryCommand(cfg *config.Config) *cobra.Command {
	return &cobra.Command{
		Use:   "history",
		Short: "List recorded self-test runs",
		RunE: func(cmd *cobra.Command, _ []string) error {
			store, err := history.Open(cfg.HistoryPath)
			if err != nil {
				return err
			}
			defer func() {
				if cerr := store.Close(); cerr != nil {
					log.Warning("closing history log: %v", cerr)
				}
			}()

			entries, err := store.List()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if len(entries) == 0 {
				_, err := fmt.Fprintln(out, "no recorded runs")
				return err
			}
			for _, e := range entries {
				verdict := "PASS"
				if !e.Passed {
					verdict = "FAIL"
				}
				_, err := fmt.Fprintf(out, "%s  %-6s  %d/%d correct (%d%%)  %d polls  %s\n",
					e.Time.Local().Format(time.RFC3339), e.Transport,
					e.Correct, e.Total, e.Accuracy, e.Polls, verdict)
				if err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newConfigCommand(cfg *config.Config) *cobra.Command {
	var overwrite bool
	cmd := &cobra.Command{
		Use:   "config",
		Short: "Write the active configuration to the config file",
		RunE: func(_ *cobra.Command, _ []string) error {
			return cfg.Persist(overwrite)
		},
	}
	cmd.Flags().BoolVar(&overwrite, "overwrite", false, "Replace an existing config file")
	return cmd
}
