/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package graph checks referential integrity across a compiled scene set.
// The reference graph is rebuilt on every run: nodes are scene ids, edges
// are choice targets and action sub-targets. Reserved sub-loop targets
// (_roll, _battle) are not edges.
package graph

import (
	"fmt"

	"github.com/gcol33/andi-escape-from-rennweg/internal/domain"
)

// Report carries everything a validation run found. Errors block output;
// Warnings do not. Both are ordered by scene input order and, within a
// scene, by document order, so repeated runs over identical input diff
// clean.
type Report struct {
	Errors   []string
	Warnings []string
}

func (r Report) OK() bool { return len(r.Errors) == 0 }

// Validate checks the full compiled scene set. Duplicate ids short-circuit:
// with colliding ids the reference checks would be ambiguous, so the report
// carries only the collisions. entry is the scene id exempt from the
// unreachable warning.
func Validate(scenes []*domain.Scene, entry string) Report {
	var r Report

	seen := make(map[string]int, len(scenes))
	var order []string
	for _, s := range scenes {
		if seen[s.ID] == 0 {
			order = append(order, s.ID)
		}
		seen[s.ID]++
	}
	for _, id := range order {
		if seen[id] > 1 {
			r.Errors = append(r.Errors, fmt.Sprintf("duplicate scene id %q declared by %d files", id, seen[id]))
		}
	}
	if len(r.Errors) > 0 {
		return r
	}

	ids := make(map[string]bool, len(scenes))
	for _, s := range scenes {
		ids[s.ID] = true
	}

	referenced := make(map[string]bool)
	check := func(sceneID, field, target string) {
		if target == "" || domain.IsSentinelTarget(target) {
			return
		}
		referenced[target] = true
		if !ids[target] {
			r.Errors = append(r.Errors, fmt.Sprintf("scene %q: %s %q does not exist", sceneID, field, target))
		}
	}
	for _, s := range scenes {
		for _, c := range s.Choices {
			check(s.ID, "choice target", c.Target)
		}
		for _, a := range s.Actions {
			for _, t := range a.Targets() {
				check(s.ID, t.Name, t.Value)
			}
		}
	}

	for _, s := range scenes {
		if s.ID == entry || referenced[s.ID] {
			continue
		}
		r.Warnings = append(r.Warnings, fmt.Sprintf("scene %q is never referenced (unreachable)", s.ID))
	}
	return r
}

// CheckEnemyIDs reports duplicate ids in the compiled enemy set, in first-seen
// order. Enemies have no reference graph; identity is the only global check.
func CheckEnemyIDs(enemies []*domain.Enemy) []string {
	seen := make(map[string]int, len(enemies))
	var order []string
	for _, e := range enemies {
		if seen[e.ID] == 0 {
			order = append(order, e.ID)
		}
		seen[e.ID]++
	}
	var errs []string
	for _, id := range order {
		if seen[id] > 1 {
			errs = append(errs, fmt.Sprintf("duplicate enemy id %q declared by %d files", id, seen[id]))
		}
	}
	return errs
}
