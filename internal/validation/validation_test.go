package validation

import "testing"

func TestRequired(t *testing.T) {
	v := Violations{}
	Required("name", "ok", v)
	Required("blank", "   ", v)
	Required("empty", "", v)
	if v.Empty() {
		t.Fatal("expected violations")
	}
	if _, ok := v["name"]; ok {
		t.Error("non-blank value should pass")
	}
	if v["blank"] != "required" || v["empty"] != "required" {
		t.Errorf("got %v", v)
	}
}

func TestTimeHHMM(t *testing.T) {
	valid := []string{"00:00", "09:30", "18:05", "23:59"}
	invalid := []string{"24:00", "18:60", "9:30", "18h30", "", "aa:bb"}
	for _, s := range valid {
		v := Violations{}
		TimeHHMM("t", s, v)
		if !v.Empty() {
			t.Errorf("%q should be valid", s)
		}
	}
	for _, s := range invalid {
		v := Violations{}
		TimeHHMM("t", s, v)
		if v.Empty() {
			t.Errorf("%q should be invalid", s)
		}
	}
}

func TestIntRange(t *testing.T) {
	v := Violations{}
	IntRange("day", 0, 0, 6, v)
	IntRange("day2", 6, 0, 6, v)
	if !v.Empty() {
		t.Errorf("bounds are inclusive: %v", v)
	}
	IntRange("day3", 7, 0, 6, v)
	if v["day3"] != "out_of_range" {
		t.Errorf("got %v", v)
	}
}

func TestOneOf(t *testing.T) {
	v := Violations{}
	OneOf("state", "stock", []string{"stock", "loan", "broken"}, v)
	if !v.Empty() {
		t.Errorf("member should pass: %v", v)
	}
	OneOf("state2", "lost", []string{"stock", "loan", "broken"}, v)
	if v["state2"] != "invalid_value" {
		t.Errorf("got %v", v)
	}
}
