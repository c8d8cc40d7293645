package jsonval

import (
	"encoding/json"
	"testing"
)

func TestParseScalars(t *testing.T) {
	cases := []struct {
		name string
		in   string
		kind Kind
	}{
		{"string", `"hello"`, KindString},
		{"number", `12.5`, KindNumber},
		{"int", `7`, KindNumber},
		{"bool", `true`, KindBool},
		{"null", `null`, KindNull},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			v, err := Parse([]byte(tc.in))
			if err != nil {
				t.Fatalf("parse: %v", err)
			}
			if v.Kind() != tc.kind {
				t.Errorf("kind = %v, want %v", v.Kind(), tc.kind)
			}
		})
	}
}

func TestParseObjectPreservesOrder(t *testing.T) {
	v, err := Parse([]byte(`{"zebra":1,"apple":2,"mango":3}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	members := v.Members()
	if len(members) != 3 {
		t.Fatalf("members = %d, want 3", len(members))
	}
	want := []string{"zebra", "apple", "mango"}
	for i, m := range members {
		if m.Key != want[i] {
			t.Errorf("members[%d].Key = %q, want %q", i, m.Key, want[i])
		}
	}
}

func TestMarshalRoundTrip(t *testing.T) {
	in := `{"segments":[{"id":0,"start":1.5,"text":"hi"}],"speakers":{"S0":{"label":"speaker_00"}}}`

	v, err := Parse([]byte(in))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	out, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}

	if string(out) != in {
		t.Errorf("round trip = %s, want %s", out, in)
	}
}

func TestIntegerLiteralPreserved(t *testing.T) {
	v, err := Parse([]byte(`{"id":0}`))
	if err != nil {
		t.Fatalf("parse: %v", err)
	}

	id, ok := v.Get("id")
	if !ok {
		t.Fatal("id missing")
	}
	s, ok := id.StringValue()
	if !ok {
		t.Fatal("StringValue failed for number")
	}
	if s != "0" {
		t.Errorf("literal = %q, want %q", s, "0")
	}
}

func TestFloatValueCoercion(t *testing.T) {
	cases := []struct {
		name string
		v    Value
		want float64
		ok   bool
	}{
		{"native", Number(12.5), 12.5, true},
		{"string", String("12.5"), 12.5, true},
		{"int literal", NumberLit("3"), 3, true},
		{"garbage string", String("abc"), 0, false},
		{"bool", Bool(true), 0, false},
		{"null", Null(), 0, false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := tc.v.FloatValue()
			if ok != tc.ok {
				t.Fatalf("ok = %v, want %v", ok, tc.ok)
			}
			if ok && got != tc.want {
				t.Errorf("value = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestGetMissingKey(t *testing.T) {
	v := Object(Member{Key: "a", Value: Number(1)})
	if _, ok := v.Get("b"); ok {
		t.Error("Get should fail for missing key")
	}
	if _, ok := String("x").Get("a"); ok {
		t.Error("Get should fail for non-object")
	}
}

func TestParseMalformed(t *testing.T) {
	for _, in := range []string{`{`, `{"a":}`, `[1,`, `{"a":1}extra`} {
		if _, err := Parse([]byte(in)); err == nil {
			t.Errorf("Parse(%q) should fail", in)
		}
	}
}

func TestZeroValueIsNull(t *testing.T) {
	var v Value
	if !v.IsNull() {
		t.Error("zero Value should be null")
	}
	out, err := json.Marshal(v)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	if string(out) != "null" {
		t.Errorf("marshal = %s, want null", out)
	}
}
