package condition

import (
	"encoding/json"
	"testing"
)

func TestBuildAlwaysIgnoresOtherInputs(t *testing.T) {
	r := Build(TypeAlways, "status", "150")
	if r != (Rule{Type: TypeAlways}) {
		t.Errorf("always rule should carry no payload, got %+v", r)
	}
}

func TestBuildNumericTagsDefaultToZero(t *testing.T) {
	numericTags := []Type{
		TypeTotalOver, TypeTotalUnder, TypeFieldGreaterThan, TypeFieldLessThan,
	}
	badInputs := []string{"", "abc", "12x", "--5", "NaN is not a number"}

	for _, tag := range numericTags {
		for _, input := range badInputs {
			r := Build(tag, "f", input)
			if r.Number != 0 {
				t.Errorf("Build(%s, %q): value = %v, want 0", tag, input, r.Number)
			}
		}
	}
}

func TestBuildTotalOverHasNoField(t *testing.T) {
	r := Build(TypeTotalOver, "", "150")
	if r.Type != TypeTotalOver || r.Number != 150 {
		t.Fatalf("unexpected rule %+v", r)
	}
	if r.Field != "" {
		t.Errorf("total_over must not carry a field, got %q", r.Field)
	}

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(data), `{"type":"total_over","value":150}`; got != want {
		t.Errorf("wire format = %s, want %s", got, want)
	}
}

func TestBuildFieldEqualsKeepsStringValue(t *testing.T) {
	r := Build(TypeFieldEquals, "status", "ok")
	if r.Type != TypeFieldEquals || r.Field != "status" || r.Text != "ok" {
		t.Fatalf("unexpected rule %+v", r)
	}
	if r.Number != 0 {
		t.Errorf("string tag must not coerce a numeric value, got %v", r.Number)
	}

	data, err := json.Marshal(r)
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(data), `{"type":"field_equals","field":"status","value":"ok"}`; got != want {
		t.Errorf("wire format = %s, want %s", got, want)
	}
}

func TestBuildFieldEqualsNumericLookingValueStaysString(t *testing.T) {
	r := Build(TypeFieldEquals, "score", "42")
	if r.Text != "42" || r.Number != 0 {
		t.Errorf("field_equals value must stay a raw string, got %+v", r)
	}
}

func TestBuildEmptyFieldPassesThrough(t *testing.T) {
	r := Build(TypeFieldContains, "", "goal")
	if r.Field != "" || r.Text != "goal" {
		t.Errorf("empty field name is legal and passed through, got %+v", r)
	}
}

func TestWireFormatPerTag(t *testing.T) {
	cases := []struct {
		rule Rule
		want string
	}{
		{Build(TypeAlways, "", ""), `{"type":"always"}`},
		{Build(TypeTotalOver, "", "140"), `{"type":"total_over","value":140}`},
		{Build(TypeTotalUnder, "", "3.5"), `{"type":"total_under","value":3.5}`},
		{Build(TypeFieldEquals, "status", "final"), `{"type":"field_equals","field":"status","value":"final"}`},
		{Build(TypeFieldContains, "summary", "win"), `{"type":"field_contains","field":"summary","value":"win"}`},
		{Build(TypeFieldGreaterThan, "price", "99.9"), `{"type":"field_greater_than","field":"price","value":99.9}`},
		{Build(TypeFieldLessThan, "stock", "10"), `{"type":"field_less_than","field":"stock","value":10}`},
	}

	for _, c := range cases {
		data, err := json.Marshal(c.rule)
		if err != nil {
			t.Fatalf("%s: %v", c.rule.Type, err)
		}
		if string(data) != c.want {
			t.Errorf("%s: wire = %s, want %s", c.rule.Type, data, c.want)
		}
	}
}

func TestNumericZeroThresholdIsSerialized(t *testing.T) {
	data, err := json.Marshal(Build(TypeTotalOver, "", "junk"))
	if err != nil {
		t.Fatal(err)
	}
	if got, want := string(data), `{"type":"total_over","value":0}`; got != want {
		t.Errorf("zero threshold must not be omitted: got %s, want %s", got, want)
	}
}

func TestDecodeEncodeRoundTrip(t *testing.T) {
	rules := []Rule{
		Build(TypeAlways, "x", "y"),
		Build(TypeTotalOver, "", "150"),
		Build(TypeTotalUnder, "", "0.25"),
		Build(TypeFieldEquals, "status", "ok"),
		Build(TypeFieldContains, "", ""),
		Build(TypeFieldGreaterThan, "home_score", "9007199254740992"), // 2^53
		Build(TypeFieldLessThan, "temp", "-4.5"),
	}

	for _, original := range rules {
		condType, field, value := original.Inputs()
		rebuilt := Build(condType, field, value)
		if rebuilt != original {
			t.Errorf("round trip of %+v produced %+v", original, rebuilt)
		}
	}
}

func TestJSONRoundTrip(t *testing.T) {
	rules := []Rule{
		Build(TypeAlways, "", ""),
		Build(TypeTotalOver, "", "140"),
		Build(TypeFieldEquals, "status", "final"),
		Build(TypeFieldLessThan, "stock", "7"),
	}

	for _, original := range rules {
		data, err := json.Marshal(original)
		if err != nil {
			t.Fatal(err)
		}
		var decoded Rule
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("decoding %s: %v", data, err)
		}
		if decoded != original {
			t.Errorf("json round trip of %+v produced %+v", original, decoded)
		}
	}
}

func TestDecodeUnknownTagFallsBackToAlways(t *testing.T) {
	for _, payload := range []string{
		`{"type":"score_spike","value":12}`,
		`{"type":""}`,
		`{}`,
	} {
		var r Rule
		if err := json.Unmarshal([]byte(payload), &r); err != nil {
			t.Fatalf("decoding %s: %v", payload, err)
		}
		if r.Type != TypeAlways {
			t.Errorf("decoding %s: type = %s, want always", payload, r.Type)
		}
	}
}

func TestDecodeStringThreshold(t *testing.T) {
	var r Rule
	if err := json.Unmarshal([]byte(`{"type":"total_over","value":"140"}`), &r); err != nil {
		t.Fatal(err)
	}
	if r.Number != 140 {
		t.Errorf("string-typed threshold decoded to %v, want 140", r.Number)
	}
}

func TestInputsOfUnknownTag(t *testing.T) {
	condType, field, value := Rule{Type: "mystery", Field: "f", Text: "v"}.Inputs()
	if condType != TypeAlways || field != "" || value != "" {
		t.Errorf("unknown tag decoded as (%s, %q, %q), want display-safe always", condType, field, value)
	}
}

func TestIntegerFormattingHasNoExponent(t *testing.T) {
	_, _, value := Build(TypeTotalOver, "", "9007199254740992").Inputs()
	if value != "9007199254740992" {
		t.Errorf("2^53 formatted as %q", value)
	}
}

func TestDescribe(t *testing.T) {
	cases := []struct {
		rule Rule
		want string
	}{
		{Build(TypeAlways, "", ""), "Always trigger"},
		{Build(TypeTotalOver, "", "150"), "When total > 150"},
		{Build(TypeTotalUnder, "", "3.5"), "When total < 3.5"},
		{Build(TypeFieldEquals, "status", "ok"), "When status = ok"},
		{Build(TypeFieldContains, "summary", "win"), `When summary contains "win"`},
		{Build(TypeFieldGreaterThan, "price", "99"), "When price > 99"},
		{Build(TypeFieldLessThan, "stock", "10"), "When stock < 10"},
		{Rule{Type: "mystery"}, "Always trigger"},
	}

	for _, c := range cases {
		if got := c.rule.Describe(); got != c.want {
			t.Errorf("Describe(%+v) = %q, want %q", c.rule, got, c.want)
		}
	}
}
