/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package compile turns story source files into their compiled records: one
// scene or enemy per file. It delegates frontmatter recovery to the
// frontmatter package and keeps the body handling (text blocks, the Choices
// section, enemy descriptions) here.
package compile

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/gcol33/andi-escape-from-rennweg/internal/domain"
	"github.com/gcol33/andi-escape-from-rennweg/internal/frontmatter"
)

var reChoicesHeading = regexp.MustCompile(`(?i)###\s*choices\s*\n`)

// CompileScene compiles one scene file. name is the file's base name without
// extension; it becomes the scene id when the frontmatter declares none.
// notes carry the recoverable conditions absorbed while parsing.
func CompileScene(name, src string) (*domain.Scene, []frontmatter.Note, error) {
	fm, body, notes := frontmatter.Parse(src)

	scene := &domain.Scene{ID: name}
	if id, ok := fm.GetString("id"); ok && strings.TrimSpace(id) != "" {
		scene.ID = strings.TrimSpace(id)
	}
	if scene.ID == "" {
		return nil, notes, fmt.Errorf("scene %q: empty id and empty file name", name)
	}
	scene.Bg, _ = fm.GetString("bg")
	scene.Music, _ = fm.GetString("music")
	scene.SetFlags = fm.GetStrings("set_flags")
	scene.RequireFlags = fm.GetStrings("require_flags")
	scene.AddItems = fm.GetStrings("add_items")
	scene.RemoveItems = fm.GetStrings("remove_items")
	scene.Chars = compileChars(fm)
	scene.Actions = compileActions(fm)

	scene.TextBlocks, scene.Choices = compileBody(body)
	return scene, notes, nil
}

// compileBody splits the body into text blocks and the choice list. Text
// blocks are separated by bare "---" lines; everything after a "### Choices"
// heading is treated as choice lines, with non-matching lines skipped.
func compileBody(body string) (blocks []string, choices []domain.Choice) {
	text := body
	if loc := reChoicesHeading.FindStringIndex(body); loc != nil {
		text = body[:loc[0]]
		choices = compileChoices(body[loc[1]:])
	}
	for _, block := range strings.Split(text, "\n---\n") {
		if b := strings.TrimSpace(block); b != "" {
			blocks = append(blocks, b)
		}
	}
	return blocks, choices
}

func compileChoices(section string) []domain.Choice {
	var choices []domain.Choice
	for _, line := range strings.Split(section, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || !strings.HasPrefix(line, "-") {
			continue
		}
		if c, ok := ParseChoice(strings.TrimSpace(line[1:])); ok {
			choices = append(choices, c)
		}
	}
	return choices
}

// compileChars accepts both sprite forms: a bare filename scalar and a
// positioned record with file/x/y/scale fields.
func compileChars(fm *frontmatter.Map) []domain.CharRef {
	v, ok := fm.Get("chars")
	if !ok {
		return nil
	}
	var chars []domain.CharRef
	for _, item := range v.Items() {
		switch item.Kind() {
		case frontmatter.KindScalar:
			if s, ok := item.AsString(); ok && s != "" {
				chars = append(chars, domain.CharRef{File: s})
			}
		case frontmatter.KindMap:
			rec := item.Map()
			c := domain.CharRef{}
			c.File, _ = rec.GetString("file")
			c.X = floatField(rec, "x")
			c.Y = floatField(rec, "y")
			c.Scale = floatField(rec, "scale")
			chars = append(chars, c)
		}
	}
	return chars
}

func floatField(rec *frontmatter.Map, key string) *float64 {
	v, ok := rec.Get(key)
	if !ok {
		return nil
	}
	f, ok := v.AsFloat()
	if !ok {
		return nil
	}
	return &f
}

func compileActions(fm *frontmatter.Map) []domain.Action {
	v, ok := fm.Get("actions")
	if !ok {
		return nil
	}
	var actions []domain.Action
	for _, item := range v.Items() {
		rec := item.Map()
		if rec == nil {
			continue
		}
		typ, _ := rec.GetString("type")
		switch typ {
		case domain.ActionRollDice:
			actions = append(actions, domain.Action{Type: typ, Roll: compileDiceRoll(rec)})
		case domain.ActionStartBattle:
			actions = append(actions, domain.Action{Type: typ, Battle: compileBattle(rec)})
		default:
			// Unknown action types pass through untouched.
			actions = append(actions, domain.Action{Type: typ, Raw: rec})
		}
	}
	return actions
}

func compileDiceRoll(rec *frontmatter.Map) *domain.DiceRoll {
	r := &domain.DiceRoll{}
	r.Dice, _ = rec.GetString("dice")
	r.Threshold, _ = rec.GetInt("threshold")
	r.Skill, _ = rec.GetString("skill")
	r.Modifier, _ = rec.GetString("modifier")
	r.CritText, _ = rec.GetString("crit_text")
	r.FumbleText, _ = rec.GetString("fumble_text")
	r.SuccessTarget, _ = rec.GetString("success_target")
	r.FailureTarget, _ = rec.GetString("failure_target")
	return r
}

func compileBattle(rec *frontmatter.Map) *domain.Battle {
	b := &domain.Battle{}
	b.EnemyName, _ = rec.GetString("enemy_name")
	b.EnemyHP, _ = rec.GetInt("enemy_hp")
	b.EnemyMaxHP, _ = rec.GetInt("enemy_max_hp")
	b.EnemyAttack, _ = rec.GetInt("enemy_attack")
	b.EnemyDefense, _ = rec.GetInt("enemy_defense")
	b.PlayerAttack, _ = rec.GetInt("player_attack")
	b.PlayerDefense, _ = rec.GetInt("player_defense")
	b.VictoryTarget, _ = rec.GetString("victory_target")
	b.DefeatTarget, _ = rec.GetString("defeat_target")
	b.FleeTarget, _ = rec.GetString("flee_target")
	return b
}
