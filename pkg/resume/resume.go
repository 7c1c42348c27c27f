// Package resume defines the normalized résumé data model consumed by the
// composition engine. Every field is optional; renderers omit what is absent
// instead of failing.
package resume

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"
)

// Data is the full résumé payload. The engine treats it as read-only.
type Data struct {
	PersonalInfo   PersonalInfo     `json:"personalInfo" yaml:"personalInfo"`
	Summary        string           `json:"summary,omitempty" yaml:"summary,omitempty"`
	WorkExperience []WorkEntry      `json:"workExperience,omitempty" yaml:"workExperience,omitempty"`
	Education      []EducationEntry `json:"education,omitempty" yaml:"education,omitempty"`
	Skills         []Skill          `json:"skills,omitempty" yaml:"skills,omitempty"`
	Languages      []Language       `json:"languages,omitempty" yaml:"languages,omitempty"`
}

// PersonalInfo holds contact and identity details.
type PersonalInfo struct {
	FirstName string `json:"firstName,omitempty" yaml:"firstName,omitempty"`
	LastName  string `json:"lastName,omitempty" yaml:"lastName,omitempty"`
	Email     string `json:"email,omitempty" yaml:"email,omitempty"`
	Phone     string `json:"phone,omitempty" yaml:"phone,omitempty"`
	Location  string `json:"location,omitempty" yaml:"location,omitempty"`
	JobTitle  string `json:"jobTitle,omitempty" yaml:"jobTitle,omitempty"`
	LinkedIn  string `json:"linkedin,omitempty" yaml:"linkedin,omitempty"`
	Website   string `json:"website,omitempty" yaml:"website,omitempty"`
	Links     []Link `json:"links,omitempty" yaml:"links,omitempty"`
}

// Link is an additional labelled profile URL (portfolio, GitHub, ...).
type Link struct {
	Label string `json:"label,omitempty" yaml:"label,omitempty"`
	URL   string `json:"url" yaml:"url"`
}

// WorkEntry is one position in the work history.
type WorkEntry struct {
	ID          string `json:"id,omitempty" yaml:"id,omitempty"`
	Title       string `json:"title,omitempty" yaml:"title,omitempty"`
	Company     string `json:"company,omitempty" yaml:"company,omitempty"`
	Location    string `json:"location,omitempty" yaml:"location,omitempty"`
	StartDate   string `json:"startDate,omitempty" yaml:"startDate,omitempty"`
	EndDate     string `json:"endDate,omitempty" yaml:"endDate,omitempty"`
	IsCurrent   bool   `json:"isCurrent,omitempty" yaml:"isCurrent,omitempty"`
	JobType     string `json:"jobType,omitempty" yaml:"jobType,omitempty"`
	Description string `json:"description,omitempty" yaml:"description,omitempty"`
}

// EducationEntry is one degree or programme.
type EducationEntry struct {
	ID        string `json:"id,omitempty" yaml:"id,omitempty"`
	School    string `json:"school,omitempty" yaml:"school,omitempty"`
	Degree    string `json:"degree,omitempty" yaml:"degree,omitempty"`
	Field     string `json:"field,omitempty" yaml:"field,omitempty"`
	StartDate string `json:"startDate,omitempty" yaml:"startDate,omitempty"`
	EndDate   string `json:"endDate,omitempty" yaml:"endDate,omitempty"`
}

// Skill is a named skill with an optional grouping category.
type Skill struct {
	ID       string `json:"id,omitempty" yaml:"id,omitempty"`
	Name     string `json:"name" yaml:"name"`
	Category string `json:"category,omitempty" yaml:"category,omitempty"`
}

// Language is a spoken language and proficiency label.
type Language struct {
	Name        string `json:"name" yaml:"name"`
	Proficiency string `json:"proficiency,omitempty" yaml:"proficiency,omitempty"`
}

// SkillGroup collects skill names sharing a category.
type SkillGroup struct {
	Category string
	Skills   []string
}

// OtherCategory labels skills that carry no category.
const OtherCategory = "Other"

// Parse decodes a résumé document. JSON is attempted first; anything that is
// not JSON is parsed as YAML.
func Parse(data []byte) (Data, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return Data{}, errors.New("resume: document is empty")
	}

	var out Data
	if trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &out); err != nil {
			return Data{}, fmt.Errorf("resume: decode json: %w", err)
		}
		return out, nil
	}
	if err := yaml.Unmarshal(trimmed, &out); err != nil {
		return Data{}, fmt.Errorf("resume: decode yaml: %w", err)
	}
	return out, nil
}

// FullName joins first and last name, trimming blanks.
func (d *Data) FullName() string {
	if d == nil {
		return ""
	}
	first := strings.TrimSpace(d.PersonalInfo.FirstName)
	last := strings.TrimSpace(d.PersonalInfo.LastName)
	return strings.TrimSpace(first + " " + last)
}

// SkillsByCategory groups skill names by category, keeping the order in which
// categories first appear. Skills with a blank name are ignored.
func (d *Data) SkillsByCategory() []SkillGroup {
	if d == nil || len(d.Skills) == 0 {
		return nil
	}
	var groups []SkillGroup
	index := make(map[string]int)
	for _, skill := range d.Skills {
		name := strings.TrimSpace(skill.Name)
		if name == "" {
			continue
		}
		category := strings.TrimSpace(skill.Category)
		if category == "" {
			category = OtherCategory
		}
		pos, ok := index[category]
		if !ok {
			pos = len(groups)
			index[category] = pos
			groups = append(groups, SkillGroup{Category: category})
		}
		groups[pos].Skills = append(groups[pos].Skills, name)
	}
	return groups
}
