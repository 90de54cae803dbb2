/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package domain holds the compiled story records. The JSON shapes here are a
// compatibility contract with the runtime engine: optional fields that are
// empty or absent in the source must be omitted from the serialized record,
// never emitted as null or empty collections.
package domain

import (
	"bytes"
	"encoding/json"

	"github.com/gcol33/andi-escape-from-rennweg/internal/frontmatter"
)

// Reserved choice targets that resolve inside the active gameplay sub-loop
// instead of navigating to a scene.
const (
	TargetRoll   = "_roll"
	TargetBattle = "_battle"
)

// IsSentinelTarget reports whether target is a reserved non-scene target.
func IsSentinelTarget(target string) bool {
	return target == TargetRoll || target == TargetBattle
}

// Action type tags as they appear in scene frontmatter.
const (
	ActionRollDice    = "roll_dice"
	ActionStartBattle = "start_battle"
)

// Scene is one navigable unit of narrative content. Never mutated after
// compilation; owned by the compiled scene set.
type Scene struct {
	ID           string    `json:"id"`
	Bg           string    `json:"bg,omitempty"`
	Music        string    `json:"music,omitempty"`
	Chars        []CharRef `json:"chars,omitempty"`
	SetFlags     []string  `json:"set_flags,omitempty"`
	RequireFlags []string  `json:"require_flags,omitempty"`
	AddItems     []string  `json:"add_items,omitempty"`
	RemoveItems  []string  `json:"remove_items,omitempty"`
	Actions      []Action  `json:"actions,omitempty"`
	TextBlocks   []string  `json:"textBlocks,omitempty"`
	Choices      []Choice  `json:"choices,omitempty"`
}

// CharRef is a character placement: either a bare sprite filename or a
// positioned sprite with coordinates and scale. The bare form serializes as a
// plain string so existing content round-trips unchanged.
type CharRef struct {
	File  string
	X     *float64
	Y     *float64
	Scale *float64
}

func (c CharRef) positioned() bool { return c.X != nil || c.Y != nil || c.Scale != nil }

func (c CharRef) MarshalJSON() ([]byte, error) {
	if !c.positioned() {
		return json.Marshal(c.File)
	}
	type positionedChar struct {
		File  string   `json:"file"`
		X     *float64 `json:"x,omitempty"`
		Y     *float64 `json:"y,omitempty"`
		Scale *float64 `json:"scale,omitempty"`
	}
	return json.Marshal(positionedChar{File: c.File, X: c.X, Y: c.Y, Scale: c.Scale})
}

func (c *CharRef) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		return json.Unmarshal(data, &c.File)
	}
	var aux struct {
		File  string   `json:"file"`
		X     *float64 `json:"x"`
		Y     *float64 `json:"y"`
		Scale *float64 `json:"scale"`
	}
	if err := json.Unmarshal(data, &aux); err != nil {
		return err
	}
	c.File, c.X, c.Y, c.Scale = aux.File, aux.X, aux.Y, aux.Scale
	return nil
}

// Action is a tagged variant over the gameplay actions a scene can trigger on
// entry. Unknown types are preserved verbatim in Raw so forward-compatible
// content survives a rebuild.
type Action struct {
	Type   string
	Roll   *DiceRoll
	Battle *Battle
	Raw    *frontmatter.Map
}

// DiceRoll resolves a skill check and navigates on the result.
type DiceRoll struct {
	Dice          string `json:"dice,omitempty"`
	Threshold     int    `json:"threshold,omitempty"`
	Skill         string `json:"skill,omitempty"`
	Modifier      string `json:"modifier,omitempty"` // "advantage" or "disadvantage"
	CritText      string `json:"crit_text,omitempty"`
	FumbleText    string `json:"fumble_text,omitempty"`
	SuccessTarget string `json:"success_target,omitempty"`
	FailureTarget string `json:"failure_target,omitempty"`
}

// Battle starts turn-based combat with an inline enemy stat block.
type Battle struct {
	EnemyName     string `json:"enemy_name,omitempty"`
	EnemyHP       int    `json:"enemy_hp,omitempty"`
	EnemyMaxHP    int    `json:"enemy_max_hp,omitempty"`
	EnemyAttack   int    `json:"enemy_attack,omitempty"`
	EnemyDefense  int    `json:"enemy_defense,omitempty"`
	PlayerAttack  int    `json:"player_attack,omitempty"`
	PlayerDefense int    `json:"player_defense,omitempty"`
	VictoryTarget string `json:"victory_target,omitempty"`
	DefeatTarget  string `json:"defeat_target,omitempty"`
	FleeTarget    string `json:"flee_target,omitempty"`
}

// TargetField is one named navigation target carried by an action.
type TargetField struct {
	Name  string
	Value string
}

// Targets returns the scene ids this action navigates to, in document order.
// Empty fields are included; the validator skips them.
func (a Action) Targets() []TargetField {
	switch {
	case a.Roll != nil:
		return []TargetField{
			{"success_target", a.Roll.SuccessTarget},
			{"failure_target", a.Roll.FailureTarget},
		}
	case a.Battle != nil:
		return []TargetField{
			{"victory_target", a.Battle.VictoryTarget},
			{"defeat_target", a.Battle.DefeatTarget},
			{"flee_target", a.Battle.FleeTarget},
		}
	}
	return nil
}

func (a Action) MarshalJSON() ([]byte, error) {
	switch {
	case a.Roll != nil:
		return marshalTagged(a.Type, a.Roll)
	case a.Battle != nil:
		return marshalTagged(a.Type, a.Battle)
	case a.Raw != nil:
		return a.Raw.MarshalJSON()
	}
	return json.Marshal(struct {
		Type string `json:"type"`
	}{a.Type})
}

// marshalTagged emits {"type": tag, ...fields} with the tag first.
func marshalTagged(tag string, v any) ([]byte, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}
	tb, err := json.Marshal(tag)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	buf.WriteString(`{"type":`)
	buf.Write(tb)
	if !bytes.Equal(body, []byte("{}")) {
		buf.WriteByte(',')
		buf.Write(body[1 : len(body)-1])
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Choice is one player-facing option linking a scene to a target scene or a
// reserved sub-loop. Absent modifiers stay nil/zero so they are omitted from
// output.
type Choice struct {
	Label        string   `json:"label"`
	Target       string   `json:"target"`
	RequireFlags []string `json:"require_flags,omitempty"`
	SetFlags     []string `json:"set_flags,omitempty"`
	RequireItems []string `json:"require_items,omitempty"`
	UseItems     []string `json:"uses,omitempty"`
	Heals        int      `json:"heals,omitempty"`
	BattleAction string   `json:"battle_action,omitempty"`
	Sfx          string   `json:"sfx,omitempty"`
}

// Enemy is one compiled enemy definition. Core stats are typed; any other
// scalar frontmatter field is carried through flat, in document order.
type Enemy struct {
	ID          string
	Name        string
	HP          int
	MaxHP       int
	Attack      int
	Defense     int
	Extra       *frontmatter.Map
	Dialogue    Dialogue
	Moves       []Move
	Summons     []Summon
	Description string
}

// MarshalJSON assembles the enemy record in canonical order: id, typed stats,
// extra scalars, then dialogue, moves, summons and description. Empty
// sections are omitted.
func (e Enemy) MarshalJSON() ([]byte, error) {
	out := frontmatter.NewMap()
	out.Set("id", frontmatter.Scalar(e.ID))
	if e.Name != "" {
		out.Set("name", frontmatter.Scalar(e.Name))
	}
	setNonZero := func(key string, n int) {
		if n != 0 {
			out.Set(key, frontmatter.Scalar(n))
		}
	}
	setNonZero("hp", e.HP)
	setNonZero("max_hp", e.MaxHP)
	setNonZero("attack", e.Attack)
	setNonZero("defense", e.Defense)
	if e.Extra != nil {
		for _, k := range e.Extra.Keys() {
			if v, ok := e.Extra.Get(k); ok {
				out.Set(k, v)
			}
		}
	}
	head, err := out.MarshalJSON()
	if err != nil {
		return nil, err
	}

	var b bytes.Buffer
	b.Write(head[:len(head)-1])
	appendSection := func(key string, v any, skip bool) error {
		if skip {
			return nil
		}
		vb, err := json.Marshal(v)
		if err != nil {
			return err
		}
		b.WriteString(`,"` + key + `":`)
		b.Write(vb)
		return nil
	}
	if err := appendSection("dialogue", e.Dialogue, len(e.Dialogue) == 0); err != nil {
		return nil, err
	}
	if err := appendSection("moves", e.Moves, len(e.Moves) == 0); err != nil {
		return nil, err
	}
	if err := appendSection("summons", e.Summons, len(e.Summons) == 0); err != nil {
		return nil, err
	}
	if err := appendSection("description", e.Description, e.Description == ""); err != nil {
		return nil, err
	}
	b.WriteByte('}')
	return b.Bytes(), nil
}

// Dialogue holds trigger-keyed pools of line variants, preserving the order
// triggers were authored in. It serializes as a JSON object.
type Dialogue []DialoguePool

type DialoguePool struct {
	Trigger string
	Lines   []string
}

func (d Dialogue) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, p := range d {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(p.Trigger)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(p.Lines)
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// Move is one enemy attack: a name, its scalar tuning fields in document
// order, and an optional nested status effect record.
type Move struct {
	Name   string
	Fields *frontmatter.Map
	Status *frontmatter.Map
}

func (m Move) MarshalJSON() ([]byte, error) {
	out := frontmatter.NewMap()
	out.Set("name", frontmatter.Scalar(m.Name))
	if m.Fields != nil {
		for _, k := range m.Fields.Keys() {
			if v, ok := m.Fields.Get(k); ok {
				out.Set(k, v)
			}
		}
	}
	if m.Status != nil && m.Status.Len() > 0 {
		out.Set("statusEffect", frontmatter.Record(m.Status))
	}
	return out.MarshalJSON()
}

// Summon is a creature an enemy can call in: an id plus flat scalar fields.
type Summon struct {
	ID     string
	Fields *frontmatter.Map
}

func (s Summon) MarshalJSON() ([]byte, error) {
	out := frontmatter.NewMap()
	out.Set("id", frontmatter.Scalar(s.ID))
	if s.Fields != nil {
		for _, k := range s.Fields.Keys() {
			if v, ok := s.Fields.Get(k); ok {
				out.Set(k, v)
			}
		}
	}
	return out.MarshalJSON()
}
