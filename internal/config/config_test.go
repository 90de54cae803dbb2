/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadDefaultsWithoutFile(t *testing.T) {
	root := t.TempDir()
	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.ScenesDir != filepath.Join(root, "scenes") {
		t.Fatalf("ScenesDir = %q", cfg.ScenesDir)
	}
	if cfg.OutDir != filepath.Join(root, "build") {
		t.Fatalf("OutDir = %q", cfg.OutDir)
	}
	if cfg.Format != FormatJSON || cfg.Entry != "start" {
		t.Fatalf("cfg = %+v", cfg)
	}
	if cfg.EnemiesDir != "" {
		t.Fatalf("EnemiesDir should stay empty by default: %q", cfg.EnemiesDir)
	}
}

func TestLoadMergesFile(t *testing.T) {
	root := t.TempDir()
	yaml := "scenes_dir: content/scenes\nenemies_dir: content/enemies\nformat: JS\nentry: intro\nlogging:\n  level: debug\n"
	if err := os.WriteFile(filepath.Join(root, FileName), []byte(yaml), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.ScenesDir != filepath.Join(root, "content/scenes") {
		t.Fatalf("ScenesDir = %q", cfg.ScenesDir)
	}
	if cfg.EnemiesDir != filepath.Join(root, "content/enemies") {
		t.Fatalf("EnemiesDir = %q", cfg.EnemiesDir)
	}
	if cfg.Format != FormatJS {
		t.Fatalf("Format = %q", cfg.Format)
	}
	if cfg.Entry != "intro" {
		t.Fatalf("Entry = %q", cfg.Entry)
	}
	if cfg.Logging.Level != "debug" {
		t.Fatalf("Logging.Level = %q", cfg.Logging.Level)
	}
}

func TestLoadRejectsUnknownFormat(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, FileName), []byte("format: xml\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(root); err == nil {
		t.Fatalf("expected error for unknown format")
	}
}

func TestLoadRejectsMalformedYAML(t *testing.T) {
	root := t.TempDir()
	if err := os.WriteFile(filepath.Join(root, FileName), []byte("scenes_dir: [unclosed\n"), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	if _, err := Load(root); err == nil {
		t.Fatalf("expected error for malformed yaml")
	}
}

func TestEnvOverridesDirsAndFormat(t *testing.T) {
	root := t.TempDir()
	alt := t.TempDir()
	old := os.Getenv(EnvScenesDir)
	oldFmt := os.Getenv(EnvFormat)
	_ = os.Setenv(EnvScenesDir, alt)
	_ = os.Setenv(EnvFormat, "JS")
	t.Cleanup(func() {
		_ = os.Setenv(EnvScenesDir, old)
		_ = os.Setenv(EnvFormat, oldFmt)
	})
	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.ScenesDir != alt {
		t.Fatalf("ScenesDir = %q, want %q", cfg.ScenesDir, alt)
	}
	if cfg.Format != FormatJS {
		t.Fatalf("Format = %q", cfg.Format)
	}
}

func TestEnvOverridesLogging(t *testing.T) {
	root := t.TempDir()
	oldLevel := os.Getenv(EnvLogLevel)
	oldSrc := os.Getenv(EnvLogSource)
	_ = os.Setenv(EnvLogLevel, "error")
	_ = os.Setenv(EnvLogSource, "1")
	t.Cleanup(func() {
		_ = os.Setenv(EnvLogLevel, oldLevel)
		_ = os.Setenv(EnvLogSource, oldSrc)
	})
	cfg, err := Load(root)
	if err != nil {
		t.Fatalf("Load() error: %v", err)
	}
	if cfg.Logging.Level != "error" || !cfg.Logging.Source {
		t.Fatalf("logging overrides not applied: %#v", cfg.Logging)
	}
}

func TestMergeIgnoresEmptyFields(t *testing.T) {
	dst := Defaults()
	src := Config{Entry: "  custom  "}
	mergeInto(&dst, &src)
	if dst.Entry != "custom" {
		t.Fatalf("Entry = %q", dst.Entry)
	}
	if dst.ScenesDir != "scenes" || dst.Format != FormatJSON {
		t.Fatalf("defaults clobbered: %+v", dst)
	}
}
