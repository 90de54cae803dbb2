/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the specific language governing permissions and limitations under the License.
 */

package frontmatter

import (
	"reflect"
	"testing"
)

func TestCoerceScalar(t *testing.T) {
	cases := []struct {
		in   string
		want any
	}{
		{"12", 12},
		{"0", 0},
		{"1.5", 1.5},
		{"true", true},
		{"True", true},
		{"false", false},
		{"1d20", "1d20"},
		{"hello world", "hello world"},
		{`"quoted"`, "quoted"},
		{"'single'", "single"},
		{"", ""},
		{"Inf", "Inf"},
		{"NaN", "NaN"},
	}
	for _, c := range cases {
		got := CoerceScalar(c.in)
		if !reflect.DeepEqual(got, c.want) {
			t.Fatalf("CoerceScalar(%q) = %v (%T), want %v (%T)", c.in, got, got, c.want, c.want)
		}
	}
}

func TestMapPreservesInsertionOrder(t *testing.T) {
	m := NewMap()
	m.Set("zebra", Scalar(1))
	m.Set("apple", Scalar(2))
	m.Set("mango", Scalar(3))

	want := []string{"zebra", "apple", "mango"}
	if !reflect.DeepEqual(m.Keys(), want) {
		t.Fatalf("Keys() = %v, want %v", m.Keys(), want)
	}

	// re-setting keeps the original position
	m.Set("apple", Scalar(9))
	if !reflect.DeepEqual(m.Keys(), want) {
		t.Fatalf("Keys() after re-set = %v, want %v", m.Keys(), want)
	}
	if n, _ := m.GetInt("apple"); n != 9 {
		t.Fatalf("apple = %d, want 9", n)
	}

	data, err := m.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON error: %v", err)
	}
	if got, want := string(data), `{"zebra":1,"apple":9,"mango":3}`; got != want {
		t.Fatalf("MarshalJSON = %s, want %s", got, want)
	}
}

func TestMapDeleteKeepsOrder(t *testing.T) {
	m := NewMap()
	m.Set("a", Scalar(1))
	m.Set("b", Scalar(2))
	m.Set("c", Scalar(3))
	m.Delete("b")
	if !reflect.DeepEqual(m.Keys(), []string{"a", "c"}) {
		t.Fatalf("Keys() after delete = %v", m.Keys())
	}
	if _, ok := m.Get("b"); ok {
		t.Fatalf("deleted key still present")
	}
}

func TestValueAccessors(t *testing.T) {
	if s, ok := Scalar(12).AsString(); !ok || s != "12" {
		t.Fatalf("AsString(12) = %q, %v", s, ok)
	}
	if n, ok := Scalar(1.0).AsInt(); !ok || n != 1 {
		t.Fatalf("AsInt(1.0) = %d, %v", n, ok)
	}
	if _, ok := Scalar(1.5).AsInt(); ok {
		t.Fatalf("AsInt(1.5) should report false")
	}
	if f, ok := Scalar(3).AsFloat(); !ok || f != 3.0 {
		t.Fatalf("AsFloat(3) = %v, %v", f, ok)
	}

	lst := List([]*Value{Scalar("a"), Scalar(2), Record(NewMap())})
	if got := lst.StringList(); !reflect.DeepEqual(got, []string{"a", "2"}) {
		t.Fatalf("StringList = %v", got)
	}
	if lst.Map() != nil {
		t.Fatalf("Map() on a list should be nil")
	}
	if Scalar("x").Items() != nil {
		t.Fatalf("Items() on a scalar should be nil")
	}
}
