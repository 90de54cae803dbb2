/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

// Package frontmatter recovers structured records from the delimited block at
// the top of a story source file. The dialect is a YAML-like subset driven by
// line shape and indentation, not a grammar: which aggregate a "key:" opener
// produces depends on the key name, and structurally odd input degrades to a
// best-effort reading instead of failing. Recoverable oddities are reported
// as Notes so callers can log them; parsing itself never returns an error.
package frontmatter

import (
	"fmt"
	"strings"
)

// Note records a recoverable condition the parser absorbed.
type Note struct {
	Line    int // 1-based line within the frontmatter block
	Message string
}

func (n Note) String() string { return fmt.Sprintf("line %d: %s", n.Line, n.Message) }

// shape selects how an empty-valued "key:" opener consumes the lines below it.
type shape int

const (
	shapeList    shape = iota // "- item" scalars
	shapeRecords              // "- key: value" items with indented fields
	shapeMap                  // "name:" entries each holding a "- item" list
)

// sectionShapes names the keys known to hold structured aggregates. Any other
// empty-valued key opens a plain scalar list.
var sectionShapes = map[string]shape{
	"actions":  shapeRecords,
	"chars":    shapeRecords,
	"moves":    shapeRecords,
	"summons":  shapeRecords,
	"dialogue": shapeMap,
}

// Split separates the frontmatter block from the body. A file that does not
// open with a "---" delimiter, or whose block is never closed, is treated as
// all body with empty frontmatter; freeform scenes are valid input.
func Split(content string) (front, body string) {
	content = strings.ReplaceAll(content, "\r\n", "\n")
	if !strings.HasPrefix(content, "---") {
		return "", content
	}
	rest := content[3:]
	idx := strings.Index(rest, "\n---\n")
	if idx < 0 {
		return "", content
	}
	return rest[:idx], rest[idx+len("\n---\n"):]
}

// Parse splits content into frontmatter and body and parses the frontmatter
// block into an ordered record tree.
func Parse(content string) (*Map, string, []Note) {
	front, body := Split(content)
	m, notes := ParseBlock(front)
	return m, body, notes
}

// ParseBlock parses one frontmatter block's raw text (without delimiters).
func ParseBlock(text string) (*Map, []Note) {
	p := &parser{lines: strings.Split(text, "\n")}
	root := NewMap()

	for p.i < len(p.lines) {
		trimmed, indent := p.current()
		if trimmed == "" {
			p.i++
			continue
		}
		if indent > 0 {
			p.note("unexpected indentation at top level")
			// fall through: read the line for what it says
		}
		if isListItem(trimmed) {
			p.note("list item outside a list")
			p.i++
			continue
		}
		key, val, ok := splitKV(trimmed)
		if !ok {
			p.note("unrecognized line")
			p.i++
			continue
		}
		p.i++
		if val != "" {
			root.Set(key, Scalar(CoerceScalar(val)))
			continue
		}
		switch sectionShapes[key] {
		case shapeRecords:
			if v := p.parseRecordList(indent); len(v.Items()) > 0 {
				root.Set(key, v)
			}
		case shapeMap:
			if v := p.parseKeyedLists(indent); v.Map().Len() > 0 {
				root.Set(key, v)
			}
		default:
			root.Set(key, p.parseScalarList(indent))
		}
	}
	return root, p.notes
}

type parser struct {
	lines []string
	i     int
	notes []Note
}

func (p *parser) current() (trimmed string, indent int) {
	line := p.lines[p.i]
	trimmed = strings.TrimSpace(line)
	indent = indentOf(line)
	return
}

func (p *parser) note(msg string) {
	p.notes = append(p.notes, Note{Line: p.i + 1, Message: msg})
}

// parseScalarList consumes consecutive "- item" lines into a list of scalars.
// The first item fixes the list's indent; an item indented less closes the
// list, an item indented more is accepted with a note.
func (p *parser) parseScalarList(openIndent int) *Value {
	var items []*Value
	listIndent := -1
	for p.i < len(p.lines) {
		trimmed, indent := p.current()
		if trimmed == "" {
			p.i++
			continue
		}
		if !isListItem(trimmed) {
			break
		}
		if listIndent < 0 {
			listIndent = indent
		} else if indent < listIndent {
			break
		} else if indent > listIndent {
			p.note("list item indented deeper than its list")
		}
		items = append(items, Scalar(CoerceScalar(itemText(trimmed))))
		p.i++
	}
	return List(items)
}

// parseRecordList consumes "- key: value" items. A bare "- scalar" item is
// kept as a scalar element (the legacy sprite form). Lines indented deeper
// than the item marker populate the open record; an empty-valued field opens
// a nested record one level down.
func (p *parser) parseRecordList(openIndent int) *Value {
	var items []*Value
	itemIndent := -1
	for p.i < len(p.lines) {
		trimmed, indent := p.current()
		if trimmed == "" {
			p.i++
			continue
		}
		if indent <= openIndent && !isListItem(trimmed) {
			break
		}
		if isListItem(trimmed) {
			if itemIndent < 0 {
				itemIndent = indent
			} else if indent < itemIndent {
				break
			}
			rest := itemText(trimmed)
			key, val, ok := splitKV(rest)
			if !ok {
				items = append(items, Scalar(CoerceScalar(rest)))
				p.i++
				continue
			}
			rec := NewMap()
			rec.Set(key, Scalar(CoerceScalar(val)))
			p.i++
			p.parseRecordFields(rec, indent)
			items = append(items, Record(rec))
			continue
		}
		// A field line with no open record: the marker above it was missing
		// or the indentation is off. Close the aggregate.
		p.note("field line outside a record item")
		break
	}
	return List(items)
}

// parseRecordFields fills rec with "key: value" lines indented deeper than
// openIndent, recursing for empty-valued keys.
func (p *parser) parseRecordFields(rec *Map, openIndent int) {
	for p.i < len(p.lines) {
		trimmed, indent := p.current()
		if trimmed == "" {
			p.i++
			continue
		}
		if indent <= openIndent || isListItem(trimmed) {
			return
		}
		key, val, ok := splitKV(trimmed)
		if !ok {
			p.note("unrecognized record field")
			p.i++
			continue
		}
		p.i++
		if val == "" {
			sub := NewMap()
			p.parseRecordFields(sub, indent)
			if sub.Len() > 0 {
				rec.Set(key, Record(sub))
			} else {
				p.note("empty nested record for key " + key)
			}
			continue
		}
		rec.Set(key, Scalar(CoerceScalar(val)))
	}
}

// parseKeyedLists consumes "name:" entries that each hold a "- item" list,
// the shape used by dialogue pools. An entry with an inline scalar value is
// kept as that scalar.
func (p *parser) parseKeyedLists(openIndent int) *Value {
	m := NewMap()
	entryIndent := -1
	for p.i < len(p.lines) {
		trimmed, indent := p.current()
		if trimmed == "" {
			p.i++
			continue
		}
		if indent <= openIndent || isListItem(trimmed) {
			break
		}
		key, val, ok := splitKV(trimmed)
		if !ok {
			p.note("unrecognized dialogue entry")
			p.i++
			continue
		}
		if entryIndent < 0 {
			entryIndent = indent
		} else if indent != entryIndent {
			break
		}
		p.i++
		if val != "" {
			m.Set(key, Scalar(CoerceScalar(val)))
			continue
		}
		m.Set(key, p.parseScalarList(indent))
	}
	return Record(m)
}

func indentOf(line string) int {
	n := 0
	for _, r := range line {
		switch r {
		case ' ':
			n++
		case '\t':
			n += 4
		default:
			return n
		}
	}
	return n
}

func isListItem(trimmed string) bool {
	return strings.HasPrefix(trimmed, "- ")
}

func itemText(trimmed string) string {
	return strings.TrimSpace(trimmed[2:])
}

// splitKV splits "key: value" on the first colon. A key must be non-empty
// and free of spaces; anything else is not a field line.
func splitKV(trimmed string) (key, val string, ok bool) {
	idx := strings.Index(trimmed, ":")
	if idx <= 0 {
		return "", "", false
	}
	key = strings.TrimSpace(trimmed[:idx])
	if key == "" || strings.ContainsAny(key, " \t") {
		return "", "", false
	}
	return key, strings.TrimSpace(trimmed[idx+1:]), true
}
