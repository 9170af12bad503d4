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

// Package config holds the on-disk configuration of the addone command
// line tool.
package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v2"
)

const (
	// ConfigDir under the user's home directory.
	ConfigDir = ".go-addone"
	// ConfigFile name inside ConfigDir.
	ConfigFile = "config.yaml"
	// HistoryFile is the default run log inside ConfigDir.
	HistoryFile = "history.db"

	// DefaultTransport is the production register path.
	DefaultTransport = "pcibar"
	// DefaultBaudRate of the UART bridge.
	DefaultBaudRate = 115200
	// DefaultLogLevel of the tool.
	DefaultLogLevel = "info"
)

// Config is the tool configuration. Command line flags override any
// field loaded from disk.
type Config struct {
	// Transport selects the register path: pcibar, uart, spi or mock.
	Transport string `yaml:"transport"`
	// Device names the device for the transport: a PCI address for
	// pcibar, a port path for the bridges.
	Device string `yaml:"device"`
	// Bar is the BAR index for the pcibar transport.
	Bar int `yaml:"bar"`
	// Slot is the accelerator slot for the readiness query.
	Slot int `yaml:"slot"`
	// BaudRate of the UART bridge.
	BaudRate int `yaml:"baudRate"`
	// HistoryPath is the run log database.
	HistoryPath string `yaml:"historyPath"`
	// LogLevel of the tool.
	LogLevel string `yaml:"logLevel"`

	filepath string
}

// ErrConfigFileExists is returned by Persist when the config file is
// already present and overwrite was not requested.
type ErrConfigFileExists struct {
	Path string
}

func (e ErrConfigFileExists) Error() string {
	return fmt.Sprintf("config file already exists: %s", e.Path)
}

// DefaultConfigPath returns the per-user config file location.
func DefaultConfigPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return filepath.Join(home, ConfigDir, ConfigFile)
}

// DefaultHistoryPath returns the per-user run log location.
func DefaultHistoryPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = ""
	}
	return filepath.Join(home, ConfigDir, HistoryFile)
}

// NewDefaultConfig returns the built-in defaults bound to the per-user
// config path.
func NewDefaultConfig() *Config {
	return &Config{
		Transport:   DefaultTransport,
		Bar:         0,
		Slot:        0,
		BaudRate:    DefaultBaudRate,
		HistoryPath: DefaultHistoryPath(),
		LogLevel:    DefaultLogLevel,
		filepath:    DefaultConfigPath(),
	}
}

// SetPath rebinds the config to a different file; used by tests.
func (c *Config) SetPath(path string) { c.filepath = path }

// Load merges the on-disk config over the defaults. A missing file is
// not an error: the defaults stand.
func (c *Config) Load() error {
	data, err := os.ReadFile(c.filepath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return fmt.Errorf("read config %s: %w", c.filepath, err)
	}
	if err := yaml.Unmarshal(data, c); err != nil {
		return fmt.Errorf("parse config %s: %w", c.filepath, err)
	}
	return nil
}

// Persist writes the config to disk, creating the directory if needed.
func (c *Config) Persist(overwrite bool) error {
	if _, err := os.Stat(c.filepath); err == nil && !overwrite {
		return ErrConfigFileExists{Path: c.filepath}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(c.filepath), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	if err := os.WriteFile(c.filepath, data, 0o644); err != nil {
		return fmt.Errorf("write config %s: %w", c.filepath, err)
	}
	return nil
}
