// Copyright (c) 2024 Behnam Momeni
// This Source Code Form is subject to the terms of the Mozilla Public
// License, v. 2.0. If a copy of the MPL was not distributed with this
// file, You can obtain one at https://mozilla.org/MPL/2.0/.

// Package config is an adapter which accepts yaml formatted config
// files from its users and allows the brweb to instantiate different
// components, from the adapter or use cases layers, using those loaded
// configuration settings.
// The parsed and validated configurations are passed to their ultimate
// components as a series of individual params (for the mandatory
// items) and a series of functional options (for the optional items),
// so they may be validated again by the relevant end-component such as
// a UseCase instance.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/momeni/boat-rental/pkg/core/usecase/schemauc"
	"gopkg.in/yaml.v3"
)

var _ schemauc.Settings = (*Config)(nil)

// Major is the major version of the configuration file format which
// is supported by the Config struct.
const Major = 1

// EnvConfigFile is the environment variable which may specify the
// configuration file path when no explicit path is given.
const EnvConfigFile = "CONFIG_FILE"

// DefaultPath is the configuration file path which is used when it is
// specified neither explicitly, nor by the EnvConfigFile variable.
const DefaultPath = "configs/sample-config.yaml"

// Config contains all settings which are required by different parts
// of the project, such as adapters or use cases. It is preferred to
// implement Config with primitive fields or other structs which are
// defined locally, not models or structs which are defined in lower
// layers, so the configuration format can be kept intact while other
// layers can change freely.
type Config struct {
	Database Database // PostgreSQL database connection settings
	Gin      Gin      // Gin-Gonic instantiation settings
	Auth     Auth     // Bearer tokens settings
	SMTP     SMTP     `yaml:"smtp"` // Email delivery settings
	Storage  Storage  // Object store settings for uploaded files
	Logging  Logging  // Structured logging settings
	Metrics  Metrics  // Prometheus metrics settings
	Usecases Usecases // Supported use cases configuration settings

	// Versions contains the configuration file and database schema
	// major versions, so an incompatible file may be detected early.
	Versions Versions `yaml:"versions"`
}

// Versions contains the configuration file and database schema major
// versions which this binary supports.
type Versions struct {
	Config   uint `yaml:"config"`
	Database uint `yaml:"database"`
}

// Path returns the configuration file path which should be loaded.
// The explicit path takes precedence over the EnvConfigFile variable
// and both of them take precedence over the DefaultPath.
func Path(explicit string) string {
	if explicit != "" {
		return explicit
	}
	if p := os.Getenv(EnvConfigFile); p != "" {
		return p
	}
	return DefaultPath
}

// Load function loads, validates, and normalizes the configuration
// file and returns its settings as an instance of the Config struct.
// Relative paths in the configuration file (e.g., pass-dir) are used
// as they are, so they are resolved with respect to the working
// directory of the process.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", path, err)
	}
	return c, nil
}

// Parse unmarshals the data byte slice and loads a Config instance.
// Unknown items in the data are rejected in order to catch typos,
// while missing items take their default values. Thereafter, loaded
// Config will be validated and normalized.
func Parse(data []byte) (*Config, error) {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	c := &Config{}
	if err := dec.Decode(c); err != nil {
		if errors.Is(err, io.EOF) {
			return nil, errors.New("empty configuration")
		}
		return nil, fmt.Errorf("decoding yaml: %w", err)
	}
	if err := c.ValidateAndNormalize(); err != nil {
		return nil, fmt.Errorf("validating configs: %w", err)
	}
	return c, nil
}

// ValidateAndNormalize validates the configuration settings and
// returns an error if they were not acceptable. It can also modify
// settings in order to normalize them or replace some zero values with
// their expected default values (if any).
func (c *Config) ValidateAndNormalize() error {
	switch {
	case c.Versions.Config != Major:
		return fmt.Errorf(
			"unsupported config version: %d", c.Versions.Config,
		)
	case c.Versions.Database != schemauc.MajorVersion:
		return fmt.Errorf(
			"unsupported database schema version: %d",
			c.Versions.Database,
		)
	}
	if err := c.Database.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating database settings: %w", err)
	}
	if err := c.Gin.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating gin settings: %w", err)
	}
	if err := c.Auth.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating auth settings: %w", err)
	}
	if err := c.SMTP.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating smtp settings: %w", err)
	}
	if err := c.Storage.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating storage settings: %w", err)
	}
	if err := c.Logging.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating logging settings: %w", err)
	}
	c.Metrics.ValidateAndNormalize()
	if err := c.Usecases.ValidateAndNormalize(); err != nil {
		return fmt.Errorf("validating use cases settings: %w", err)
	}
	return nil
}

// Marshal serializes c as YAML. Durations are written in their human
// readable form, e.g., 24h or 1h30m.
func (c *Config) Marshal() ([]byte, error) {
	return yaml.Marshal(c)
}
