/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package build drives one compilation run: discover source files, compile
// every scene and enemy, validate the full set, and only then write the
// artifacts. The full sets are always assembled before validation because
// identity and reference checks need global knowledge of all ids.
package build

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/gcol33/andi-escape-from-rennweg/internal/compile"
	"github.com/gcol33/andi-escape-from-rennweg/internal/config"
	"github.com/gcol33/andi-escape-from-rennweg/internal/domain"
	"github.com/gcol33/andi-escape-from-rennweg/internal/graph"
	applog "github.com/gcol33/andi-escape-from-rennweg/internal/log"
	"github.com/gcol33/andi-escape-from-rennweg/internal/storage"
)

// ValidationError aggregates every fatal content problem found in one run,
// so a single build surfaces all of them instead of failing on the first.
type ValidationError struct {
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%d problem(s) found in story content", len(e.Problems))
}

// Stats summarizes a successful run.
type Stats struct {
	Scenes      int
	Enemies     int
	Warnings    []string
	StoryPath   string
	EnemiesPath string
}

// Run executes a full build: compile, validate, write. On a *ValidationError
// no artifact is written or overwritten; prior output stays untouched.
func Run(cfg config.Config) (Stats, error) {
	l := applog.WithComponent("build")
	var stats Stats

	scenes, err := CompileScenes(cfg.ScenesDir)
	if err != nil {
		return stats, err
	}
	stats.Scenes = len(scenes)

	var enemies []*domain.Enemy
	if cfg.EnemiesDir != "" {
		enemies, err = CompileEnemies(cfg.EnemiesDir)
		if err != nil {
			return stats, err
		}
		stats.Enemies = len(enemies)
	}

	problems := graph.CheckEnemyIDs(enemies)
	report := graph.Validate(scenes, cfg.Entry)
	problems = append(report.Errors, problems...)
	stats.Warnings = report.Warnings
	for _, w := range report.Warnings {
		l.Warn(w)
	}
	if len(problems) > 0 {
		return stats, &ValidationError{Problems: problems}
	}

	storyPath, err := storage.WriteStory(cfg.OutDir, cfg.Format, scenes)
	if err != nil {
		return stats, err
	}
	stats.StoryPath = storyPath
	l.Info("story written", slog.String("path", storyPath), slog.Int("scenes", len(scenes)))

	if len(enemies) > 0 {
		enemiesPath, err := storage.WriteEnemies(cfg.OutDir, cfg.Format, enemies)
		if err != nil {
			return stats, err
		}
		stats.EnemiesPath = enemiesPath
		l.Info("enemies written", slog.String("path", enemiesPath), slog.Int("enemies", len(enemies)))
	}
	return stats, nil
}

// CompileScenes compiles every .md file under dir, in directory-entry name
// order. An unreadable directory or file is fatal; per-file parse oddities
// are logged and absorbed.
func CompileScenes(dir string) ([]*domain.Scene, error) {
	l := applog.WithOperation(applog.WithComponent("build"), "compile_scenes")
	files, err := listSourceFiles(dir)
	if err != nil {
		return nil, err
	}
	if len(files) == 0 {
		return nil, fmt.Errorf("no .md files found in %s", dir)
	}
	scenes := make([]*domain.Scene, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read scene file %s: %w", path, err)
		}
		scene, notes, err := compile.CompileScene(stem(path), string(data))
		if err != nil {
			return nil, fmt.Errorf("compile %s: %w", path, err)
		}
		for _, n := range notes {
			l.Debug("parse note", slog.String("file", filepath.Base(path)), slog.String("note", n.String()))
		}
		scenes = append(scenes, scene)
	}
	return scenes, nil
}

// CompileEnemies compiles every .md file under dir. An empty or absent enemy
// set is not an error at this level; the caller decides whether the
// directory is required.
func CompileEnemies(dir string) ([]*domain.Enemy, error) {
	l := applog.WithOperation(applog.WithComponent("build"), "compile_enemies")
	files, err := listSourceFiles(dir)
	if err != nil {
		return nil, err
	}
	enemies := make([]*domain.Enemy, 0, len(files))
	for _, path := range files {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read enemy file %s: %w", path, err)
		}
		enemy, notes := compile.CompileEnemy(stem(path), string(data))
		for _, n := range notes {
			if strings.HasPrefix(n.Message, "missing id") {
				l.Warn("enemy file without id", slog.String("file", filepath.Base(path)), slog.String("id", enemy.ID))
				continue
			}
			l.Debug("parse note", slog.String("file", filepath.Base(path)), slog.String("note", n.String()))
		}
		enemies = append(enemies, enemy)
	}
	return enemies, nil
}

func listSourceFiles(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read source directory %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !strings.HasSuffix(e.Name(), ".md") {
			continue
		}
		files = append(files, filepath.Join(dir, e.Name()))
	}
	return files, nil
}

func stem(path string) string {
	return strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
}
