/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package compile

import (
	"strings"

	"github.com/gcol33/andi-escape-from-rennweg/internal/domain"
	"github.com/gcol33/andi-escape-from-rennweg/internal/frontmatter"
)

// enemySections and enemyStatKeys are handled explicitly; any other scalar
// frontmatter key is carried through flat in document order.
var enemySections = map[string]bool{"dialogue": true, "moves": true, "summons": true}
var enemyStatKeys = map[string]bool{"id": true, "name": true, "hp": true, "max_hp": true, "attack": true, "defense": true}

// CompileEnemy compiles one enemy definition file. A missing id falls back
// to the file's base name and is reported as a note, not an error. The body
// text remaining after the frontmatter becomes the free-text description.
func CompileEnemy(name, src string) (*domain.Enemy, []frontmatter.Note) {
	fm, body, notes := frontmatter.Parse(src)

	e := &domain.Enemy{ID: name}
	if id, ok := fm.GetString("id"); ok && strings.TrimSpace(id) != "" {
		e.ID = strings.TrimSpace(id)
	} else {
		notes = append(notes, frontmatter.Note{Line: 1, Message: "missing id, using file name " + name})
	}
	e.Name, _ = fm.GetString("name")
	e.HP, _ = fm.GetInt("hp")
	e.MaxHP, _ = fm.GetInt("max_hp")
	e.Attack, _ = fm.GetInt("attack")
	e.Defense, _ = fm.GetInt("defense")

	for _, key := range fm.Keys() {
		if enemyStatKeys[key] || enemySections[key] {
			continue
		}
		v, _ := fm.Get(key)
		if v.Kind() != frontmatter.KindScalar {
			continue
		}
		if e.Extra == nil {
			e.Extra = frontmatter.NewMap()
		}
		e.Extra.Set(key, v)
	}

	e.Dialogue = compileDialogue(fm)
	e.Moves = compileMoves(fm)
	e.Summons = compileSummons(fm)
	e.Description = strings.TrimSpace(body)
	return e, notes
}

// compileDialogue reads trigger-keyed line pools. A trigger with a single
// inline line is accepted as a one-element pool.
func compileDialogue(fm *frontmatter.Map) domain.Dialogue {
	v, ok := fm.Get("dialogue")
	if !ok || v.Map() == nil {
		return nil
	}
	var pools domain.Dialogue
	m := v.Map()
	for _, trigger := range m.Keys() {
		entry, _ := m.Get(trigger)
		var lines []string
		switch entry.Kind() {
		case frontmatter.KindList:
			lines = entry.StringList()
		case frontmatter.KindScalar:
			if s, ok := entry.AsString(); ok && s != "" {
				lines = []string{s}
			}
		}
		if len(lines) > 0 {
			pools = append(pools, domain.DialoguePool{Trigger: trigger, Lines: lines})
		}
	}
	return pools
}

func compileMoves(fm *frontmatter.Map) []domain.Move {
	v, ok := fm.Get("moves")
	if !ok {
		return nil
	}
	var moves []domain.Move
	for _, item := range v.Items() {
		rec := item.Map()
		if rec == nil {
			continue
		}
		mv := domain.Move{}
		mv.Name, _ = rec.GetString("name")
		for _, key := range rec.Keys() {
			if key == "name" {
				continue
			}
			fv, _ := rec.Get(key)
			if key == "statusEffect" && fv.Map() != nil {
				mv.Status = fv.Map()
				continue
			}
			if fv.Kind() != frontmatter.KindScalar {
				continue
			}
			if mv.Fields == nil {
				mv.Fields = frontmatter.NewMap()
			}
			mv.Fields.Set(key, fv)
		}
		moves = append(moves, mv)
	}
	return moves
}

func compileSummons(fm *frontmatter.Map) []domain.Summon {
	v, ok := fm.Get("summons")
	if !ok {
		return nil
	}
	var summons []domain.Summon
	for _, item := range v.Items() {
		rec := item.Map()
		if rec == nil {
			continue
		}
		s := domain.Summon{}
		s.ID, _ = rec.GetString("id")
		for _, key := range rec.Keys() {
			if key == "id" {
				continue
			}
			fv, _ := rec.Get(key)
			if fv.Kind() != frontmatter.KindScalar {
				continue
			}
			if s.Fields == nil {
				s.Fields = frontmatter.NewMap()
			}
			s.Fields.Set(key, fv)
		}
		summons = append(summons, s)
	}
	return summons
}
