/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"

	"github.com/gcol33/andi-escape-from-rennweg/internal/domain"
)

// Output formats.
const (
	FormatJSON = "json"
	FormatJS   = "js"
)

// WriteStory serializes the scene set as a mapping from scene id to scene,
// in input order, and writes it atomically. Returns the artifact path.
func WriteStory(outDir, format string, scenes []*domain.Scene) (string, error) {
	body, err := marshalIDMap(sceneEntries(scenes))
	if err != nil {
		return "", fmt.Errorf("marshal story: %w", err)
	}
	return writeArtifact(outDir, "story", format, "story", body)
}

// WriteEnemies serializes the enemy set as a mapping from enemy id to enemy,
// in input order, and writes it atomically. Returns the artifact path.
func WriteEnemies(outDir, format string, enemies []*domain.Enemy) (string, error) {
	body, err := marshalIDMap(enemyEntries(enemies))
	if err != nil {
		return "", fmt.Errorf("marshal enemies: %w", err)
	}
	return writeArtifact(outDir, "enemies", format, "enemies", body)
}

type entry struct {
	id  string
	val any
}

func sceneEntries(scenes []*domain.Scene) []entry {
	out := make([]entry, len(scenes))
	for i, s := range scenes {
		out[i] = entry{s.ID, s}
	}
	return out
}

func enemyEntries(enemies []*domain.Enemy) []entry {
	out := make([]entry, len(enemies))
	for i, e := range enemies {
		out[i] = entry{e.ID, e}
	}
	return out
}

// marshalIDMap emits an indented JSON object keyed by id, preserving input
// order. encoding/json would sort a Go map's keys; insertion order is part
// of the output contract, so the object is assembled by hand.
func marshalIDMap(entries []entry) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString("{")
	for i, e := range entries {
		if i > 0 {
			buf.WriteByte(',')
		}
		buf.WriteString("\n  ")
		kb, err := json.Marshal(e.id)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteString(": ")
		vb, err := json.MarshalIndent(e.val, "  ", "  ")
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteString("\n}")
	return buf.Bytes(), nil
}

// writeArtifact renders the final file for the chosen format and replaces
// the previous artifact atomically.
func writeArtifact(outDir, stem, format, constName string, body []byte) (string, error) {
	var data []byte
	var name string
	switch format {
	case FormatJS:
		name = stem + ".js"
		data = renderJS(constName, body)
	case FormatJSON:
		name = stem + ".json"
		data = append(body, '\n')
	default:
		return "", fmt.Errorf("unsupported output format %q", format)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return "", fmt.Errorf("create output dir: %w", err)
	}
	path := filepath.Join(outDir, name)
	if err := replaceFile(path, data); err != nil {
		return "", err
	}
	return path, nil
}

// renderJS wraps the serialized mapping in the script shape the browser
// engine loads directly: a const declaration plus a CommonJS export guard.
func renderJS(constName string, body []byte) []byte {
	var buf bytes.Buffer
	buf.WriteString("/**\n")
	buf.WriteString(" * AUTO-GENERATED FILE - DO NOT EDIT MANUALLY\n")
	buf.WriteString(" * Generated by storybuild. Edit the source .md files instead.\n")
	buf.WriteString(" */\n\n")
	buf.WriteString("const " + constName + " = ")
	buf.Write(body)
	buf.WriteString(";\n\n")
	buf.WriteString("if (typeof module !== \"undefined\" && module.exports) {\n")
	buf.WriteString("    module.exports = { " + constName + " };\n")
	buf.WriteString("}\n")
	return buf.Bytes()
}

// replaceFile writes data to a temp file in the target directory, syncs it,
// and renames it over path.
func replaceFile(path string, data []byte) error {
	dir := filepath.Dir(path)
	temp := filepath.Join(dir, fmt.Sprintf(".%s.tmp-%d-%d", filepath.Base(path), os.Getpid(), rand.Int()))
	if err := writeFileSync(temp, data); err != nil {
		return fmt.Errorf("write temp artifact: %w", err)
	}
	// On Windows, replace by removing destination first if needed
	if _, err := os.Stat(path); err == nil {
		_ = os.Remove(path)
	}
	if err := os.Rename(temp, path); err != nil {
		_ = os.Remove(temp)
		return fmt.Errorf("replace artifact: %w", err)
	}
	return nil
}

// writeFileSync writes data to a file and ensures it is flushed to disk.
func writeFileSync(path string, data []byte) (err error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := f.Close(); err == nil {
			err = cerr
		}
	}()
	if _, err := f.Write(data); err != nil {
		return err
	}
	return f.Sync()
}
