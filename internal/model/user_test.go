package model

import "testing"

func TestHasSkill(t *testing.T) {
	user := &User{Skills: SkillList{"React", "Go", "PostgreSQL"}}

	if !user.HasSkill("react") {
		t.Fatal("skill match must be case-insensitive")
	}
	if !user.HasSkill("Go") {
		t.Fatal("exact skill should match")
	}
	if user.HasSkill("Rust") {
		t.Fatal("absent skill should not match")
	}
}

func TestSkillListRoundTrip(t *testing.T) {
	skills := SkillList{"React", "Vue"}

	value, err := skills.Value()
	if err != nil {
		t.Fatalf("value error: %v", err)
	}

	var decoded SkillList
	if err := decoded.Scan(value); err != nil {
		t.Fatalf("scan error: %v", err)
	}

	if len(decoded) != 2 || decoded[0] != "React" || decoded[1] != "Vue" {
		t.Fatalf("unexpected decoded skills: %v", decoded)
	}
}

func TestSkillListEmptyValue(t *testing.T) {
	var skills SkillList

	value, err := skills.Value()
	if err != nil {
		t.Fatalf("value error: %v", err)
	}
	if value != nil {
		t.Fatalf("empty skill list should serialize to NULL, got %v", value)
	}

	var decoded SkillList
	if err := decoded.Scan(nil); err != nil {
		t.Fatalf("scan nil error: %v", err)
	}
	if decoded != nil {
		t.Fatalf("scanning NULL should yield nil, got %v", decoded)
	}
}
