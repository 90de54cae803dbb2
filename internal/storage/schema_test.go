/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package storage

import (
	"os"
	"path/filepath"
	"testing"

	gojsonschema "github.com/xeipuuv/gojsonschema"
	"github.com/gcol33/andi-escape-from-rennweg/internal/domain"
)

func TestStoryArtifactConformsToSchema(t *testing.T) {
	outDir := t.TempDir()
	x := 120.0
	scale := 0.8
	scenes := []*domain.Scene{
		{
			ID:         "start",
			Bg:         "intro.png",
			Music:      "theme.mp3",
			Chars:      []domain.CharRef{{File: "andi.png"}, {File: "guard.png", X: &x, Scale: &scale}},
			SetFlags:   []string{"intro_seen"},
			TextBlocks: []string{"It begins.", "It continues."},
			Actions: []domain.Action{
				{Type: domain.ActionRollDice, Roll: &domain.DiceRoll{
					Dice: "1d20", Threshold: 12, Skill: "wits",
					SuccessTarget: "hall", FailureTarget: "cell",
				}},
				{Type: domain.ActionStartBattle, Battle: &domain.Battle{
					EnemyName: "Guard", EnemyHP: 10, EnemyMaxHP: 10,
					VictoryTarget: "hall", DefeatTarget: "cell",
				}},
			},
			Choices: []domain.Choice{
				{Label: "Sneak out", Target: "hall", RequireItems: []string{"Key"}},
				{Label: "Drink coffee", Target: "start", UseItems: []string{"Coffee"}, Heals: 5},
			},
		},
		{ID: "hall", TextBlocks: []string{"A long corridor."}},
		{ID: "cell"},
	}

	path, err := WriteStory(outDir, FormatJSON, scenes)
	if err != nil {
		t.Fatalf("WriteStory error: %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read story artifact: %v", err)
	}

	schemaPath := filepath.Join("..", "..", "docs", "story.schema.json")
	schemaBytes, err := os.ReadFile(schemaPath)
	if err != nil {
		t.Fatalf("read schema: %v", err)
	}

	result, err := gojsonschema.Validate(
		gojsonschema.NewBytesLoader(schemaBytes),
		gojsonschema.NewBytesLoader(data),
	)
	if err != nil {
		t.Fatalf("schema validate error: %v", err)
	}
	if !result.Valid() {
		for _, e := range result.Errors() {
			t.Logf("schema error: %s", e)
		}
		t.Fatalf("story artifact does not conform to schema")
	}
}
