/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package compile

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gcol33/andi-escape-from-rennweg/internal/domain"
)

// Annotation markers embedded in choice labels. Extraction order is a
// contract: requires, sets, require_items, heals, uses, battle, sfx. heals
// runs before uses and also matches a bare ", heals: N" fragment, so the
// legacy single-group form "(uses: Potion, heals: 5)" still yields a clean
// uses list.
var (
	reRequires     = regexp.MustCompile(`\(requires:\s*([^)]+)\)`)
	reSets         = regexp.MustCompile(`\(sets:\s*([^)]+)\)`)
	reRequireItems = regexp.MustCompile(`\(require_items:\s*([^)]+)\)`)
	reHealsGroup   = regexp.MustCompile(`\(heals:\s*(\d+)\s*\)`)
	reHealsBare    = regexp.MustCompile(`,?\s*heals:\s*(\d+)`)
	reUses         = regexp.MustCompile(`\(uses:\s*([^)]+)\)`)
	reBattle       = regexp.MustCompile(`\(battle:\s*([^)]+)\)`)
	reSfx          = regexp.MustCompile(`\[sfx:\s*([^\]]+)\]`)
)

const arrowGlyph = "→" // →

// ParseChoice parses one logical choice line, with the leading list marker
// already stripped. It reports false when the line carries no target arrow
// and therefore is not a choice.
func ParseChoice(line string) (domain.Choice, bool) {
	label, target, ok := splitArrow(line)
	if !ok {
		return domain.Choice{}, false
	}
	c := domain.Choice{Target: strings.TrimSpace(target)}

	label = extractList(label, reRequires, &c.RequireFlags)
	label = extractList(label, reSets, &c.SetFlags)
	label = extractList(label, reRequireItems, &c.RequireItems)
	label = extractHeals(label, &c.Heals)
	label = extractList(label, reUses, &c.UseItems)
	label = extractScalar(label, reBattle, &c.BattleAction)
	label = extractScalar(label, reSfx, &c.Sfx)

	c.Label = strings.TrimSpace(label)
	return c, true
}

// splitArrow splits on the first arrow token, preferring the unicode glyph
// over the ASCII "->" spelling.
func splitArrow(line string) (label, target string, ok bool) {
	if strings.Contains(line, arrowGlyph) {
		parts := strings.SplitN(line, arrowGlyph, 2)
		return parts[0], parts[1], true
	}
	if strings.Contains(line, "->") {
		parts := strings.SplitN(line, "->", 2)
		return parts[0], parts[1], true
	}
	return "", "", false
}

// extractList pulls a comma-separated marker out of the label. Empty
// elements are dropped; an all-empty result leaves dst nil so the field is
// omitted from output.
func extractList(label string, re *regexp.Regexp, dst *[]string) string {
	m := re.FindStringSubmatch(label)
	if m == nil {
		return label
	}
	var items []string
	for _, part := range strings.Split(m[1], ",") {
		if p := strings.TrimSpace(part); p != "" {
			items = append(items, p)
		}
	}
	if len(items) > 0 {
		*dst = items
	}
	return re.ReplaceAllString(label, "")
}

func extractScalar(label string, re *regexp.Regexp, dst *string) string {
	m := re.FindStringSubmatch(label)
	if m == nil {
		return label
	}
	*dst = strings.TrimSpace(m[1])
	return re.ReplaceAllString(label, "")
}

func extractHeals(label string, dst *int) string {
	re := reHealsGroup
	m := re.FindStringSubmatch(label)
	if m == nil {
		re = reHealsBare
		m = re.FindStringSubmatch(label)
	}
	if m == nil {
		return label
	}
	// capture group is digits only
	n, _ := strconv.Atoi(m[1])
	*dst = n
	return re.ReplaceAllString(label, "")
}
