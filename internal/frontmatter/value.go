/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package frontmatter

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind discriminates the variants of a parsed Value.
type Kind int

const (
	KindScalar Kind = iota
	KindList
	KindMap
)

// Value is one node of the parse tree recovered from a frontmatter block:
// a scalar (string, int, float64 or bool), an ordered list, or an ordered map.
// A Value is built once by the parser and read by a compiler; it is never
// mutated afterwards.
type Value struct {
	kind   Kind
	scalar any
	list   []*Value
	rec    *Map
}

// Scalar wraps a coerced scalar into a Value.
func Scalar(v any) *Value { return &Value{kind: KindScalar, scalar: v} }

// List wraps an ordered sequence into a Value.
func List(items []*Value) *Value { return &Value{kind: KindList, list: items} }

// Record wraps an ordered map into a Value.
func Record(m *Map) *Value { return &Value{kind: KindMap, rec: m} }

func (v *Value) Kind() Kind { return v.kind }

// ScalarValue returns the underlying scalar, or nil for non-scalars.
func (v *Value) ScalarValue() any {
	if v.kind != KindScalar {
		return nil
	}
	return v.scalar
}

// Items returns the list elements, or nil for non-lists.
func (v *Value) Items() []*Value {
	if v.kind != KindList {
		return nil
	}
	return v.list
}

// Map returns the record fields, or nil for non-maps.
func (v *Value) Map() *Map {
	if v.kind != KindMap {
		return nil
	}
	return v.rec
}

// AsString renders a scalar as its string form. Non-scalars report false.
func (v *Value) AsString() (string, bool) {
	if v.kind != KindScalar {
		return "", false
	}
	switch s := v.scalar.(type) {
	case string:
		return s, true
	case int:
		return strconv.Itoa(s), true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(s), true
	default:
		return fmt.Sprintf("%v", s), true
	}
}

// AsInt reports the scalar as an int when it holds one.
func (v *Value) AsInt() (int, bool) {
	if v.kind != KindScalar {
		return 0, false
	}
	switch n := v.scalar.(type) {
	case int:
		return n, true
	case float64:
		if n == float64(int(n)) {
			return int(n), true
		}
	}
	return 0, false
}

// AsFloat reports the scalar as a float64 when it holds a number.
func (v *Value) AsFloat() (float64, bool) {
	if v.kind != KindScalar {
		return 0, false
	}
	switch n := v.scalar.(type) {
	case int:
		return float64(n), true
	case float64:
		return n, true
	}
	return 0, false
}

// StringList flattens a list of scalars into their string forms.
// Non-scalar elements are skipped.
func (v *Value) StringList() []string {
	if v.kind != KindList {
		return nil
	}
	out := make([]string, 0, len(v.list))
	for _, it := range v.list {
		if s, ok := it.AsString(); ok {
			out = append(out, s)
		}
	}
	return out
}

// MarshalJSON renders scalars and lists as their JSON forms and maps in
// insertion order.
func (v *Value) MarshalJSON() ([]byte, error) {
	switch v.kind {
	case KindScalar:
		return json.Marshal(v.scalar)
	case KindList:
		if v.list == nil {
			return []byte("[]"), nil
		}
		return json.Marshal(v.list)
	case KindMap:
		return v.rec.MarshalJSON()
	}
	return nil, fmt.Errorf("frontmatter: unknown value kind %d", v.kind)
}

// Map is an insertion-ordered string-keyed mapping. Key order determines
// iteration and JSON emission order, which keeps compiled output
// deterministic across runs.
type Map struct {
	keys []string
	vals map[string]*Value
}

func NewMap() *Map {
	return &Map{vals: make(map[string]*Value)}
}

// Set stores v under key. Re-setting an existing key keeps its original
// position (map keys are unique per block).
func (m *Map) Set(key string, v *Value) {
	if _, ok := m.vals[key]; !ok {
		m.keys = append(m.keys, key)
	}
	m.vals[key] = v
}

// Get returns the value stored under key.
func (m *Map) Get(key string) (*Value, bool) {
	v, ok := m.vals[key]
	return v, ok
}

// Delete removes key, preserving the order of the remaining keys.
func (m *Map) Delete(key string) {
	if _, ok := m.vals[key]; !ok {
		return
	}
	delete(m.vals, key)
	for i, k := range m.keys {
		if k == key {
			m.keys = append(m.keys[:i], m.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order. The returned slice is shared;
// callers must not modify it.
func (m *Map) Keys() []string { return m.keys }

func (m *Map) Len() int { return len(m.keys) }

// GetString is a convenience accessor for scalar string fields.
func (m *Map) GetString(key string) (string, bool) {
	v, ok := m.Get(key)
	if !ok {
		return "", false
	}
	return v.AsString()
}

// GetInt is a convenience accessor for scalar int fields.
func (m *Map) GetInt(key string) (int, bool) {
	v, ok := m.Get(key)
	if !ok {
		return 0, false
	}
	return v.AsInt()
}

// GetStrings returns the list stored under key flattened to strings.
func (m *Map) GetStrings(key string) []string {
	v, ok := m.Get(key)
	if !ok {
		return nil
	}
	return v.StringList()
}

// MarshalJSON emits the map as a JSON object in insertion order.
func (m *Map) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range m.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		kb, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(kb)
		buf.WriteByte(':')
		vb, err := json.Marshal(m.vals[k])
		if err != nil {
			return nil, err
		}
		buf.Write(vb)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// CoerceScalar applies the scalar typing rules, in order: a pure digit
// sequence becomes an int; a value strconv accepts as a finite float becomes
// a float64; "true"/"false" (any case) becomes a bool; anything else is the
// literal string with one level of surrounding quotes stripped.
func CoerceScalar(s string) any {
	if s != "" && isDigits(s) {
		if n, err := strconv.Atoi(s); err == nil {
			return n
		}
	}
	if f, err := strconv.ParseFloat(s, 64); err == nil && !math.IsInf(f, 0) && !math.IsNaN(f) {
		return f
	}
	if strings.EqualFold(s, "true") {
		return true
	}
	if strings.EqualFold(s, "false") {
		return false
	}
	return stripQuotes(s)
}

func isDigits(s string) bool {
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func stripQuotes(s string) string {
	if len(s) >= 2 {
		if (s[0] == '"' && s[len(s)-1] == '"') || (s[0] == '\'' && s[len(s)-1] == '\'') {
			return s[1 : len(s)-1]
		}
	}
	return s
}
