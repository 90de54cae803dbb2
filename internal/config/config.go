/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package config loads the builder configuration from storybuild.yaml in the
// project root. Environment variables are treated as read-only overrides at
// runtime; a missing file yields the defaults.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// FileName is the per-project configuration file looked up in the project root.
const FileName = "storybuild.yaml"

// Environment override variable names.
const (
	EnvScenesDir  = "ANDI_SCENES_DIR"
	EnvEnemiesDir = "ANDI_ENEMIES_DIR"
	EnvOutDir     = "ANDI_OUT_DIR"
	EnvFormat     = "ANDI_OUT_FORMAT"
	EnvEntry      = "ANDI_ENTRY_SCENE"
	EnvLogLevel   = "ANDI_LOG_LEVEL"
	EnvLogFormat  = "ANDI_LOG_FORMAT"
	EnvLogSource  = "ANDI_LOG_SOURCE"
	EnvLogFile    = "ANDI_LOG_FILE"
)

// Output formats for the compiled story artifact.
const (
	FormatJSON = "json"
	FormatJS   = "js"
)

type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Source bool   `yaml:"source"`
	File   string `yaml:"file"`
}

// Config is the user-editable builder configuration.
// Directory fields are resolved relative to the project root when not absolute.
type Config struct {
	ScenesDir  string        `yaml:"scenes_dir"`
	EnemiesDir string        `yaml:"enemies_dir"`
	OutDir     string        `yaml:"out_dir"`
	Format     string        `yaml:"format"` // "json" or "js"
	Entry      string        `yaml:"entry"`  // entry scene id for reachability checks
	Logging    LoggingConfig `yaml:"logging"`
}

// Defaults returns the builder defaults.
func Defaults() Config {
	return Config{
		ScenesDir: "scenes",
		OutDir:    "build",
		Format:    FormatJSON,
		Entry:     "start",
		Logging: LoggingConfig{
			Level:  "info",
			Format: "console",
		},
	}
}

// Load reads storybuild.yaml under root (if present), applies defaults, merges
// environment overrides, and resolves directories against root.
func Load(root string) (Config, error) {
	cfg := Defaults()
	path := filepath.Join(root, FileName)
	if data, err := os.ReadFile(path); err == nil {
		var fileCfg Config
		if uerr := yaml.Unmarshal(data, &fileCfg); uerr != nil {
			return cfg, fmt.Errorf("parse %s: %w", FileName, uerr)
		}
		mergeInto(&cfg, &fileCfg)
	} else if !os.IsNotExist(err) {
		return cfg, fmt.Errorf("read %s: %w", path, err)
	}
	applyEnvOverrides(&cfg)
	if err := cfg.validate(); err != nil {
		return cfg, err
	}
	cfg.resolve(root)
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Format {
	case FormatJSON, FormatJS:
	default:
		return fmt.Errorf("unsupported output format %q (want %q or %q)", c.Format, FormatJSON, FormatJS)
	}
	if strings.TrimSpace(c.Entry) == "" {
		return fmt.Errorf("entry scene id must not be empty")
	}
	return nil
}

func (c *Config) resolve(root string) {
	abs := func(p string) string {
		if p == "" || filepath.IsAbs(p) {
			return p
		}
		return filepath.Join(root, p)
	}
	c.ScenesDir = abs(c.ScenesDir)
	c.EnemiesDir = abs(c.EnemiesDir)
	c.OutDir = abs(c.OutDir)
}

func mergeInto(dst *Config, src *Config) {
	if strings.TrimSpace(src.ScenesDir) != "" {
		dst.ScenesDir = strings.TrimSpace(src.ScenesDir)
	}
	if strings.TrimSpace(src.EnemiesDir) != "" {
		dst.EnemiesDir = strings.TrimSpace(src.EnemiesDir)
	}
	if strings.TrimSpace(src.OutDir) != "" {
		dst.OutDir = strings.TrimSpace(src.OutDir)
	}
	if strings.TrimSpace(src.Format) != "" {
		dst.Format = strings.ToLower(strings.TrimSpace(src.Format))
	}
	if strings.TrimSpace(src.Entry) != "" {
		dst.Entry = strings.TrimSpace(src.Entry)
	}
	if strings.TrimSpace(src.Logging.Level) != "" {
		dst.Logging.Level = strings.ToLower(strings.TrimSpace(src.Logging.Level))
	}
	if strings.TrimSpace(src.Logging.Format) != "" {
		dst.Logging.Format = strings.ToLower(strings.TrimSpace(src.Logging.Format))
	}
	dst.Logging.Source = src.Logging.Source
	if strings.TrimSpace(src.Logging.File) != "" {
		dst.Logging.File = strings.TrimSpace(src.Logging.File)
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := strings.TrimSpace(os.Getenv(EnvScenesDir)); v != "" {
		cfg.ScenesDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvEnemiesDir)); v != "" {
		cfg.EnemiesDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvOutDir)); v != "" {
		cfg.OutDir = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvFormat)); v != "" {
		cfg.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvEntry)); v != "" {
		cfg.Entry = v
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogLevel)); v != "" {
		cfg.Logging.Level = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFormat)); v != "" {
		cfg.Logging.Format = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogSource)); v != "" {
		lv := strings.ToLower(v)
		cfg.Logging.Source = lv == "1" || lv == "true" || lv == "on" || lv == "yes"
	}
	if v := strings.TrimSpace(os.Getenv(EnvLogFile)); v != "" {
		cfg.Logging.File = v
	}
}
