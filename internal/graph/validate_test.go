/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package graph

import (
	"strings"
	"testing"

	"github.com/gcol33/andi-escape-from-rennweg/internal/domain"
)

func scene(id string, targets ...string) *domain.Scene {
	s := &domain.Scene{ID: id}
	for _, t := range targets {
		s.Choices = append(s.Choices, domain.Choice{Label: "go", Target: t})
	}
	return s
}

func TestValidateCleanGraph(t *testing.T) {
	scenes := []*domain.Scene{
		scene("start", "hall"),
		scene("hall", "start"),
	}
	r := Validate(scenes, "start")
	if !r.OK() || len(r.Warnings) != 0 {
		t.Fatalf("report = %+v", r)
	}
}

func TestValidateDuplicateIDsShortCircuit(t *testing.T) {
	scenes := []*domain.Scene{
		scene("start", "missing_scene"),
		scene("cell"),
		scene("cell"),
	}
	r := Validate(scenes, "start")
	if len(r.Errors) != 1 {
		t.Fatalf("errors = %v", r.Errors)
	}
	if !strings.Contains(r.Errors[0], `duplicate scene id "cell"`) || !strings.Contains(r.Errors[0], "2 files") {
		t.Fatalf("error = %q", r.Errors[0])
	}
	// with colliding ids the dangling check is suppressed
	for _, e := range r.Errors {
		if strings.Contains(e, "missing_scene") {
			t.Fatalf("dangling check ran despite duplicates: %v", r.Errors)
		}
	}
}

func TestValidateDanglingTargets(t *testing.T) {
	scenes := []*domain.Scene{
		scene("start", "nowhere"),
	}
	scenes[0].Actions = []domain.Action{{
		Type: domain.ActionRollDice,
		Roll: &domain.DiceRoll{SuccessTarget: "hall", FailureTarget: "also_nowhere"},
	}}
	r := Validate(scenes, "start")
	if len(r.Errors) != 3 {
		t.Fatalf("errors = %v", r.Errors)
	}
	if !strings.Contains(r.Errors[0], `choice target "nowhere"`) {
		t.Fatalf("first error = %q", r.Errors[0])
	}
	if !strings.Contains(r.Errors[1], `success_target "hall"`) {
		t.Fatalf("second error = %q", r.Errors[1])
	}
	if !strings.Contains(r.Errors[2], `failure_target "also_nowhere"`) {
		t.Fatalf("third error = %q", r.Errors[2])
	}
}

func TestValidateSentinelTargetsAreNotEdges(t *testing.T) {
	scenes := []*domain.Scene{
		scene("start", domain.TargetRoll, domain.TargetBattle),
	}
	r := Validate(scenes, "start")
	if !r.OK() {
		t.Fatalf("sentinel targets flagged as dangling: %v", r.Errors)
	}
}

func TestValidateUnreachableWarning(t *testing.T) {
	scenes := []*domain.Scene{
		scene("start", "hall"),
		scene("hall"),
		scene("orphan"),
	}
	r := Validate(scenes, "start")
	if !r.OK() {
		t.Fatalf("errors = %v", r.Errors)
	}
	if len(r.Warnings) != 1 || !strings.Contains(r.Warnings[0], `scene "orphan" is never referenced`) {
		t.Fatalf("warnings = %v", r.Warnings)
	}
}

func TestValidateEmptyActionTargetsSkipped(t *testing.T) {
	s := scene("start")
	s.Actions = []domain.Action{{
		Type:   domain.ActionStartBattle,
		Battle: &domain.Battle{VictoryTarget: "start"},
	}}
	r := Validate([]*domain.Scene{s}, "start")
	if !r.OK() {
		t.Fatalf("empty defeat/flee targets flagged: %v", r.Errors)
	}
}

func TestCheckEnemyIDs(t *testing.T) {
	enemies := []*domain.Enemy{
		{ID: "rat"},
		{ID: "guard"},
		{ID: "rat"},
	}
	errs := CheckEnemyIDs(enemies)
	if len(errs) != 1 || !strings.Contains(errs[0], `duplicate enemy id "rat"`) {
		t.Fatalf("errs = %v", errs)
	}
	if errs := CheckEnemyIDs(nil); len(errs) != 0 {
		t.Fatalf("errs on empty set = %v", errs)
	}
}
