// Copyright (C) 2025  wwhai
//
// This program is free software; you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation; either version 2 of the License, or
// (at your option) any later version.
//
// This program is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License along
// with this program; if not, see <https://www.gnu.org/licenses/>.

package sdm3045x

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config describes how to reach one instrument. It is consumed by the
// example programs; the driver itself only needs a Transporter.
type Config struct {
	Resource string        `yaml:"resource"` // e.g. TCPIP::10.11.1.3::5025 or ASRL::/dev/ttyUSB0::115200
	Timeout  time.Duration `yaml:"timeout"`
	LogLevel string        `yaml:"log_level"` // DEBUG, INFO, WARNING, ERROR or NONE
}

// DefaultConfig returns a configuration with the package defaults.
func DefaultConfig() *Config {
	return &Config{
		Timeout:  DefaultTimeout,
		LogLevel: "WARNING",
	}
}

// LoadConfig reads a YAML configuration file.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("sdm3045x: failed to read config file: %w", err)
	}
	config := DefaultConfig()
	if err := yaml.Unmarshal(data, config); err != nil {
		return nil, fmt.Errorf("sdm3045x: failed to parse config file: %w", err)
	}
	if config.Resource == "" {
		return nil, fmt.Errorf("sdm3045x: config is missing a resource string")
	}
	return config, nil
}

// OpenTransport opens the transporter described by the configuration.
func (c *Config) OpenTransport() (Transporter, error) {
	return OpenTransport(c.Resource, c.Timeout)
}
