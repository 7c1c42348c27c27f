package resume

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestParse_JSONAndYAMLAgree(t *testing.T) {
	jsonDoc := []byte(`{
  "personalInfo": {"firstName": "Ada", "lastName": "Lovelace", "email": "ada@example.com"},
  "summary": "Analyst.",
  "skills": [{"id": "1", "name": "Go", "category": "Languages"}]
}`)
	yamlDoc := []byte(`
personalInfo:
  firstName: Ada
  lastName: Lovelace
  email: ada@example.com
summary: Analyst.
skills:
  - id: "1"
    name: Go
    category: Languages
`)

	fromJSON, err := Parse(jsonDoc)
	if err != nil {
		t.Fatalf("parse json: %v", err)
	}
	fromYAML, err := Parse(yamlDoc)
	if err != nil {
		t.Fatalf("parse yaml: %v", err)
	}
	if diff := cmp.Diff(fromJSON, fromYAML); diff != "" {
		t.Fatalf("json/yaml mismatch (-json +yaml):\n%s", diff)
	}
	if fromJSON.FullName() != "Ada Lovelace" {
		t.Fatalf("unexpected full name %q", fromJSON.FullName())
	}
}

func TestParse_RejectsEmptyAndMalformed(t *testing.T) {
	if _, err := Parse([]byte("   ")); err == nil {
		t.Fatalf("expected error for empty document")
	}
	if _, err := Parse([]byte(`{"summary": `)); err == nil {
		t.Fatalf("expected error for malformed json")
	}
}

func TestFullName_TrimsMissingParts(t *testing.T) {
	data := &Data{PersonalInfo: PersonalInfo{LastName: " Hopper "}}
	if got := data.FullName(); got != "Hopper" {
		t.Fatalf("expected %q, got %q", "Hopper", got)
	}
	var empty *Data
	if got := empty.FullName(); got != "" {
		t.Fatalf("expected empty name for nil data, got %q", got)
	}
}

func TestSkillsByCategory_FirstSeenOrder(t *testing.T) {
	data := &Data{Skills: []Skill{
		{Name: "Go", Category: "Backend"},
		{Name: "Figma"},
		{Name: "Postgres", Category: "Backend"},
		{Name: "  "},
		{Name: "Sketch", Category: " "},
	}}

	want := []SkillGroup{
		{Category: "Backend", Skills: []string{"Go", "Postgres"}},
		{Category: OtherCategory, Skills: []string{"Figma", "Sketch"}},
	}
	if diff := cmp.Diff(want, data.SkillsByCategory()); diff != "" {
		t.Fatalf("groups mismatch (-want +got):\n%s", diff)
	}
	if groups := (&Data{}).SkillsByCategory(); groups != nil {
		t.Fatalf("expected nil groups for empty skills, got %v", groups)
	}
}
