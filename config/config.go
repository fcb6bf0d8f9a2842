// Copyright (C) 2023 Veil Markets Limited
//
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as
// published by the Free Software Foundation, either version 3 of the
// License, or (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU Affero General Public License for more details.
//
// You should have received a copy of the GNU Affero General Public License
// along with this program.  If not, see <http://www.gnu.org/licenses/>.

package config

import (
	"bytes"
	"os"
	"path/filepath"

	"code.veilmarkets.io/veil/broker"
	"code.veilmarkets.io/veil/core/execution"
	"code.veilmarkets.io/veil/metrics"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
)

// Config is the root configuration of a veil engine instance.
type Config struct {
	Execution execution.Config `group:"Execution" namespace:"execution"`
	Broker    broker.Config    `group:"Broker"    namespace:"broker"`
	Metrics   metrics.Config   `group:"Metrics"   namespace:"metrics"`
}

// NewDefaultConfig returns the whole configuration tree with defaults.
func NewDefaultConfig() Config {
	return Config{
		Execution: execution.NewDefaultConfig(),
		Broker:    broker.NewDefaultConfig(),
		Metrics:   metrics.NewDefaultConfig(),
	}
}

// Read loads a configuration from the given TOML file, applying it on top
// of the defaults.
func Read(path string) (*Config, error) {
	cfg := NewDefaultConfig()
	buf, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(err, "reading configuration file")
	}
	if _, err := toml.Decode(string(buf), &cfg); err != nil {
		return nil, errors.Wrap(err, "parsing configuration file")
	}
	return &cfg, nil
}

// Write serializes the configuration to the given TOML file, creating
// parent directories as needed.
func Write(path string, cfg Config) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return errors.Wrap(err, "creating configuration directory")
	}
	buf := &bytes.Buffer{}
	if err := toml.NewEncoder(buf).Encode(cfg); err != nil {
		return errors.Wrap(err, "encoding configuration")
	}
	return errors.Wrap(os.WriteFile(path, buf.Bytes(), 0o644), "writing configuration file")
}
