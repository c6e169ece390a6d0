package graph

import (
	"encoding/json"
	"math"
	"testing"
)

func TestValueEqual(t *testing.T) {
	cases := []struct {
		a, b Value
		want bool
	}{
		{String("x"), String("x"), true},
		{String("5"), Int(5), false},
		{Int(5), Float(5), true},
		{Int(5), Int(6), false},
		{Bool(true), Bool(true), true},
		{Bool(true), Int(1), false},
		{Absent, Absent, true},
		{Absent, String(""), false},
	}
	for _, c := range cases {
		if got := c.a.Equal(c.b); got != c.want {
			t.Errorf("%v(%s) == %v(%s): got %v, want %v", c.a, c.a.Kind(), c.b, c.b.Kind(), got, c.want)
		}
	}
}

func TestValueJSON(t *testing.T) {
	var props map[string]Value
	if err := json.Unmarshal([]byte(`{"year": 2014, "score": 4.5, "rated": "PG", "seen": true}`), &props); err != nil {
		t.Fatalf("Unmarshal failed: %v", err)
	}
	if props["year"].Kind() != KindInt {
		t.Errorf("year should decode as int, got %s", props["year"].Kind())
	}
	if props["score"].Kind() != KindFloat {
		t.Errorf("score should decode as float, got %s", props["score"].Kind())
	}
	if !props["rated"].Equal(String("PG")) || !props["seen"].Equal(Bool(true)) {
		t.Errorf("unexpected values: %v", props)
	}

	out, err := json.Marshal(map[string]Value{"year": Int(2014)})
	if err != nil {
		t.Fatal(err)
	}
	if string(out) != `{"year":2014}` {
		t.Errorf("unexpected encoding: %s", out)
	}
}

func TestValueOfRejectsComposite(t *testing.T) {
	if _, err := ValueOf([]string{"a"}); err == nil {
		t.Error("expected error for slice value")
	}
}

func TestValueOfLargeUnsigned(t *testing.T) {
	v, err := ValueOf(uint64(math.MaxInt64))
	if err != nil || !v.Equal(Int(math.MaxInt64)) {
		t.Errorf("MaxInt64 should stay an int, got %v (%v)", v, err)
	}

	v, err = ValueOf(uint64(math.MaxUint64))
	if err != nil {
		t.Fatal(err)
	}
	if v.Kind() != KindFloat {
		t.Fatalf("expected float, got %s", v.Kind())
	}
	if f, _ := v.AsFloat(); f <= 0 {
		t.Errorf("value wrapped to %v", f)
	}
}

func TestNullPropertyIsAbsent(t *testing.T) {
	var props map[string]Value
	if err := json.Unmarshal([]byte(`{"rated": null, "year": 2014}`), &props); err != nil {
		t.Fatal(err)
	}
	n := NewNode("Interstellar", "Movie", props)
	if _, err := n.Property("rated"); err == nil {
		t.Error("null property should not be stored")
	}
	if v, err := n.Property("year"); err != nil || !v.Equal(Int(2014)) {
		t.Errorf("year: got %v, %v", v, err)
	}
}

func TestParseValue(t *testing.T) {
	if v := ParseValue("2014"); v.Kind() != KindInt {
		t.Errorf("expected int, got %s", v.Kind())
	}
	if v := ParseValue("4.5"); v.Kind() != KindFloat {
		t.Errorf("expected float, got %s", v.Kind())
	}
	if v := ParseValue("true"); v.Kind() != KindBool {
		t.Errorf("expected bool, got %s", v.Kind())
	}
	if v := ParseValue("Sci-Fi"); v.Kind() != KindString {
		t.Errorf("expected string, got %s", v.Kind())
	}
}
