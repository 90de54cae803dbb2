/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/gcol33/andi-escape-from-rennweg/internal/build"
	"github.com/gcol33/andi-escape-from-rennweg/internal/config"
	"github.com/gcol33/andi-escape-from-rennweg/internal/crash"
	applog "github.com/gcol33/andi-escape-from-rennweg/internal/log"
	"github.com/gcol33/andi-escape-from-rennweg/internal/storage"
	"github.com/gcol33/andi-escape-from-rennweg/internal/telemetry"
	"github.com/gcol33/andi-escape-from-rennweg/internal/version"
)

func usage() {
	fmt.Println("storybuild — narrative content compiler")
	fmt.Printf("Version: %s\n", version.String())
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  storybuild [build] [<dir>]          Compile scenes and enemies under <dir> (default .)")
	fmt.Println("  storybuild index [<dir>]            Build the full-text search index for <dir>")
	fmt.Println("  storybuild search <query> [<dir>]   Search scene text and choice labels")
	fmt.Println("  storybuild version|-v|--version     Show version")
}

func main() {
	// initialize structured logging using environment defaults
	applog.Init(applog.FromEnv())
	l := applog.WithComponent("cli")
	var root string
	defer func() { crash.Recover(root) }()

	args := os.Args
	l.Debug("start", slog.Int("args", len(args)))

	cmd := "build"
	rest := args[1:]
	if len(rest) > 0 {
		switch rest[0] {
		case "version", "--version", "-v":
			fmt.Println("storybuild — narrative content compiler")
			fmt.Println(version.String())
			return
		case "help", "--help", "-h":
			usage()
			return
		case "build", "index", "search":
			cmd = rest[0]
			rest = rest[1:]
		}
	}

	switch cmd {
	case "build":
		root = projectRoot(rest, 0)
		runBuild(root)
	case "index":
		root = projectRoot(rest, 0)
		runIndex(root)
	case "search":
		if len(rest) < 1 {
			fmt.Println("search requires <query>")
			usage()
			os.Exit(2)
		}
		root = projectRoot(rest, 1)
		runSearch(root, rest[0])
	}
}

// projectRoot resolves the optional trailing <dir> argument at position idx.
func projectRoot(rest []string, idx int) string {
	dir := "."
	if len(rest) > idx {
		dir = rest[idx]
	}
	abs, err := filepath.Abs(dir)
	if err != nil {
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	return abs
}

func runBuild(root string) {
	l := applog.WithComponent("cli")
	cfg, err := config.Load(root)
	if err != nil {
		l.Error("load config failed", slog.Any("err", err))
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	// config may sharpen the logging setup beyond the env defaults
	applog.Init(applog.Options{
		Level:     cfg.Logging.Level,
		Format:    cfg.Logging.Format,
		AddSource: cfg.Logging.Source,
		File:      cfg.Logging.File,
	})

	l.Info("build start", slog.String("root", root), slog.String("format", cfg.Format))
	stats, err := build.Run(cfg)
	if err != nil {
		var verr *build.ValidationError
		if errors.As(err, &verr) {
			fmt.Printf("Build failed: %s\n", verr.Error())
			for _, p := range verr.Problems {
				fmt.Println("  -", p)
			}
			os.Exit(1)
		}
		l.Error("build failed", slog.Any("err", err))
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	for _, w := range stats.Warnings {
		fmt.Println("warning:", w)
	}
	telemetry.Event("build_ok", map[string]any{
		"scenes":  stats.Scenes,
		"enemies": stats.Enemies,
	})
	fmt.Printf("Compiled %d scene(s)", stats.Scenes)
	if stats.Enemies > 0 {
		fmt.Printf(" and %d enemy(ies)", stats.Enemies)
	}
	fmt.Println()
	fmt.Println("Story:", stats.StoryPath)
	if stats.EnemiesPath != "" {
		fmt.Println("Enemies:", stats.EnemiesPath)
	}
}

func runIndex(root string) {
	l := applog.WithComponent("cli")
	cfg, err := config.Load(root)
	if err != nil {
		l.Error("load config failed", slog.Any("err", err))
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	scenes, err := build.CompileScenes(cfg.ScenesDir)
	if err != nil {
		l.Error("compile for index failed", slog.Any("err", err))
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	n, err := storage.RebuildIndex(context.Background(), root, scenes)
	if err != nil {
		l.Error("index rebuild failed", slog.Any("err", err))
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	fmt.Printf("Indexed %d document(s) from %d scene(s)\n", n, len(scenes))
	fmt.Println("Index:", storage.IndexPath(root))
}

func runSearch(root, query string) {
	l := applog.WithComponent("cli")
	results, err := storage.Search(context.Background(), root, query, 0)
	if err != nil {
		l.Error("search failed", slog.Any("err", err))
		fmt.Println("Error:", err)
		os.Exit(1)
	}
	if len(results) == 0 {
		fmt.Println("No matches.")
		return
	}
	for _, r := range results {
		fmt.Printf("%s [%s] %s\n", r.SceneID, r.Kind, r.Snippet)
	}
}
