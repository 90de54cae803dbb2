/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"context"
	"os"
	"strings"
	"testing"

	"github.com/gcol33/andi-escape-from-rennweg/internal/domain"
)

func indexScenes() []*domain.Scene {
	return []*domain.Scene{
		{
			ID:         "cell",
			TextBlocks: []string{"The cell is dark and damp.", "A rat scurries past."},
			Choices:    []domain.Choice{{Label: "Inspect the rusty door", Target: "hall"}},
		},
		{
			ID:         "hall",
			TextBlocks: []string{"Torchlight flickers along the hall."},
		},
	}
}

func TestInitOrOpenIndexCreatesDatabase(t *testing.T) {
	root := t.TempDir()
	db, err := InitOrOpenIndex(root)
	if err != nil {
		t.Fatalf("InitOrOpenIndex error: %v", err)
	}
	defer db.Close()

	if _, err := os.Stat(IndexPath(root)); err != nil {
		t.Fatalf("index file missing: %v", err)
	}
	var n int
	if err := db.QueryRow(`SELECT COUNT(*) FROM meta`).Scan(&n); err != nil {
		t.Fatalf("query meta: %v", err)
	}
	if n == 0 {
		t.Fatalf("meta table not seeded")
	}
}

func TestInitOrOpenIndexRequiresRoot(t *testing.T) {
	if _, err := InitOrOpenIndex("  "); err == nil {
		t.Fatalf("expected error for empty project root")
	}
}

func TestRebuildIndexAndSearch(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()

	n, err := RebuildIndex(ctx, root, indexScenes())
	if err != nil {
		t.Fatalf("RebuildIndex error: %v", err)
	}
	// 3 text blocks + 1 choice label
	if n != 4 {
		t.Fatalf("indexed %d documents, want 4", n)
	}

	results, err := Search(ctx, root, "rat", 0)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(results) != 1 {
		t.Fatalf("results = %+v", results)
	}
	if results[0].SceneID != "cell" || results[0].Kind != "text" {
		t.Fatalf("result = %+v", results[0])
	}
	if !strings.Contains(results[0].Snippet, "[rat]") {
		t.Fatalf("snippet = %q", results[0].Snippet)
	}
}

func TestRebuildIndexReplacesPreviousContents(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()

	if _, err := RebuildIndex(ctx, root, indexScenes()); err != nil {
		t.Fatalf("first rebuild: %v", err)
	}
	n, err := RebuildIndex(ctx, root, indexScenes())
	if err != nil {
		t.Fatalf("second rebuild: %v", err)
	}
	if n != 4 {
		t.Fatalf("second rebuild indexed %d, want 4", n)
	}

	results, err := Search(ctx, root, "hall", 0)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	// one text block mentions the hall; no duplicates from the first pass
	if len(results) != 1 {
		t.Fatalf("results after rebuild = %+v", results)
	}
}

func TestSearchChoiceLabels(t *testing.T) {
	root := t.TempDir()
	ctx := context.Background()
	if _, err := RebuildIndex(ctx, root, indexScenes()); err != nil {
		t.Fatalf("RebuildIndex error: %v", err)
	}
	results, err := Search(ctx, root, "rusty", 0)
	if err != nil {
		t.Fatalf("Search error: %v", err)
	}
	if len(results) != 1 || results[0].Kind != "choice" {
		t.Fatalf("results = %+v", results)
	}
}

func TestSearchRequiresText(t *testing.T) {
	if _, err := Search(context.Background(), t.TempDir(), "   ", 0); err == nil {
		t.Fatalf("expected error for blank search text")
	}
}
