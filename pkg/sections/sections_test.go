package sections

import (
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-resumetpl/pkg/descriptor"
	"github.com/goliatone/go-resumetpl/pkg/resume"
	"github.com/goliatone/go-resumetpl/pkg/style"
)

func sampleData() *resume.Data {
	return &resume.Data{
		PersonalInfo: resume.PersonalInfo{
			FirstName: "Ada",
			LastName:  "Lovelace",
			Email:     "ada@example.com",
			Phone:     "+44 20 0000",
			Location:  "London",
			JobTitle:  "Analyst",
			Website:   "ada.dev",
			Links:     []resume.Link{{Label: "GitHub", URL: "github.com/ada"}, {URL: "ada.blog"}},
		},
		Summary: "Writes <b>programs</b> & notes.",
		WorkExperience: []resume.WorkEntry{
			{
				ID:          "w1",
				Title:       "Engineer",
				Company:     "Analytical Engines",
				Location:    "London",
				StartDate:   "2015-06",
				IsCurrent:   true,
				JobType:     "Full-time",
				Description: "- Built the engine\n\n• Wrote * notes\n   ",
			},
		},
		Education: []resume.EducationEntry{
			{ID: "e1", School: "Home", Degree: "Mathematics", Field: "Logic", StartDate: "1830-01-10", EndDate: "1833-05"},
		},
		Skills: []resume.Skill{
			{ID: "s1", Name: "Go", Category: "Backend"},
			{ID: "s2", Name: "Postgres", Category: "Backend"},
			{ID: "s3", Name: "Figma"},
			{ID: "s4", Name: "Writing", Category: "Soft"},
			{ID: "s5", Name: "Math", Category: "Soft"},
		},
		Languages: []resume.Language{{Name: "English", Proficiency: "Native"}, {Name: "French"}},
	}
}

func TestDefault_RegistersClosedTable(t *testing.T) {
	reg := Default()
	want := []descriptor.SectionType{
		"additional-clean-impact",
		"education",
		"education-clean-impact",
		"header",
		"header-clean-impact",
		"languages",
		"skills",
		"summary",
		"summary-clean-impact",
		"work",
		"work-clean-impact",
	}
	if diff := cmp.Diff(want, reg.Types()); diff != "" {
		t.Fatalf("types mismatch (-want +got):\n%s", diff)
	}
	if _, ok := reg.Resolve("portfolio"); ok {
		t.Fatalf("expected unknown type to miss")
	}
	if _, ok := reg.Resolve(" Header "); !ok {
		t.Fatalf("expected lookup to normalize tag")
	}
}

func TestRegistry_RegisterAndClone(t *testing.T) {
	reg := Default()
	if err := reg.Register(descriptor.SectionHeader, RenderSummary); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if err := reg.Register("", RenderSummary); err == nil {
		t.Fatalf("expected empty type error")
	}
	if err := reg.Register("portfolio", nil); err == nil {
		t.Fatalf("expected nil renderer error")
	}

	clone := reg.Clone()
	clone.MustRegister("portfolio", func(*resume.Data, descriptor.SectionConfig, style.Style) (Content, bool) {
		return Content{}, false
	})
	if reg.Has("portfolio") {
		t.Fatalf("clone registration leaked into original")
	}
	if !clone.Has("portfolio") {
		t.Fatalf("expected clone to hold new renderer")
	}
	if err := clone.Replace(descriptor.SectionHeader, RenderHeaderCleanImpact); err != nil {
		t.Fatalf("replace: %v", err)
	}
}

func TestRenderHeader_Standard(t *testing.T) {
	content, ok := RenderHeader(sampleData(), descriptor.SectionConfig{Type: descriptor.SectionHeader}, style.Style{})
	if !ok {
		t.Fatalf("expected header content")
	}
	want := []Block{
		{Kind: BlockName, Text: "Ada Lovelace"},
		{Kind: BlockHeadline, Text: "Analyst"},
		{Kind: BlockContact, Label: "email", Text: "ada@example.com"},
		{Kind: BlockContact, Label: "phone", Text: "+44 20 0000"},
		{Kind: BlockContact, Label: "location", Text: "London"},
		{Kind: BlockContact, Label: "website", Text: "ada.dev"},
		{Kind: BlockContact, Label: "GitHub", Text: "github.com/ada"},
		{Kind: BlockContact, Label: "link", Text: "ada.blog"},
	}
	if diff := cmp.Diff(want, content.Blocks); diff != "" {
		t.Fatalf("header blocks mismatch (-want +got):\n%s", diff)
	}
	if content.Accent != DefaultAccent {
		t.Fatalf("expected default accent, got %q", content.Accent)
	}
}

func TestRenderHeader_PlaceholderAndLabelledVariant(t *testing.T) {
	content, ok := RenderHeader(&resume.Data{}, descriptor.SectionConfig{Type: descriptor.SectionHeader}, nil)
	if !ok {
		t.Fatalf("header must always render")
	}
	if diff := cmp.Diff([]Block{{Kind: BlockName, Text: "Your Name"}}, content.Blocks); diff != "" {
		t.Fatalf("placeholder mismatch (-want +got):\n%s", diff)
	}

	cfg := descriptor.SectionConfig{Type: descriptor.SectionHeader, ClassName: "ci-header compact"}
	labelled, _ := RenderHeader(sampleData(), cfg, style.Style{style.KeyPrimaryColor: "#123456"})
	want := []Block{
		{Kind: BlockName, Text: "ADA LOVELACE"},
		{Kind: BlockContact, Label: "Address", Text: "London"},
		{Kind: BlockContact, Label: "Phone", Text: "+44 20 0000"},
		{Kind: BlockContact, Label: "Email", Text: "ada@example.com"},
		{Kind: BlockContact, Label: "Website", Text: "ada.dev"},
	}
	if diff := cmp.Diff(want, labelled.Blocks); diff != "" {
		t.Fatalf("labelled header mismatch (-want +got):\n%s", diff)
	}
	if labelled.ClassName != "clean-impact-header ci-header compact" {
		t.Fatalf("unexpected class name %q", labelled.ClassName)
	}
	if labelled.Accent != "#123456" {
		t.Fatalf("expected accent from style, got %q", labelled.Accent)
	}
}

func TestRenderSummary_SanitizesAndHonoursTitle(t *testing.T) {
	showTitle := false
	cfg := descriptor.SectionConfig{Type: descriptor.SectionSummary, Title: "About", ShowTitle: &showTitle}
	content, ok := RenderSummary(sampleData(), cfg, nil)
	if !ok {
		t.Fatalf("expected summary content")
	}
	if content.Title != "About" || content.ShowTitle {
		t.Fatalf("unexpected title state %q/%v", content.Title, content.ShowTitle)
	}
	if got := content.Blocks[0].Text; got != "Writes programs & notes." {
		t.Fatalf("unexpected summary text %q", got)
	}

	if _, ok := RenderSummary(&resume.Data{Summary: "   "}, cfg, nil); ok {
		t.Fatalf("expected blank summary to be empty")
	}
}

func TestRenderWork_PeriodAndBullets(t *testing.T) {
	content, ok := RenderWork(sampleData(), descriptor.SectionConfig{Type: descriptor.SectionWork}, nil)
	if !ok {
		t.Fatalf("expected work content")
	}
	want := []Block{{
		Kind:  BlockEntry,
		Label: "Engineer",
		Text:  "Analytical Engines",
		Meta: map[string]string{
			MetaPeriod:   "Jun 2015 - Present",
			MetaLocation: "London",
			MetaJobType:  "Full-time",
		},
		Items: []Block{
			{Kind: BlockBullet, Text: "Built the engine"},
			{Kind: BlockBullet, Text: "Wrote  notes"},
		},
	}}
	if diff := cmp.Diff(want, content.Blocks); diff != "" {
		t.Fatalf("work blocks mismatch (-want +got):\n%s", diff)
	}
	if content.Title != TitleWork {
		t.Fatalf("expected default title, got %q", content.Title)
	}
}

func TestRenderWorkCleanImpact(t *testing.T) {
	content, ok := RenderWorkCleanImpact(sampleData(), descriptor.SectionConfig{Type: descriptor.SectionWorkCleanImpact}, nil)
	if !ok {
		t.Fatalf("expected work content")
	}
	entry := content.Blocks[0]
	if entry.Label != "Engineer, Analytical Engines" {
		t.Fatalf("unexpected label %q", entry.Label)
	}
	if entry.Meta[MetaPeriod] != "2015-06 — Present" {
		t.Fatalf("unexpected period %q", entry.Meta[MetaPeriod])
	}
	if diff := cmp.Diff([]string{"Built the engine", "Wrote * notes"}, blockTexts(entry.Items)); diff != "" {
		t.Fatalf("bullets mismatch (-want +got):\n%s", diff)
	}
	if content.Title != TitleCIWork || content.Accent != DefaultCleanImpactAccent {
		t.Fatalf("unexpected title/accent %q/%q", content.Title, content.Accent)
	}
	if content.ClassName != "clean-impact-section" {
		t.Fatalf("unexpected class name %q", content.ClassName)
	}
}

func TestRenderEducation(t *testing.T) {
	content, ok := RenderEducation(sampleData(), descriptor.SectionConfig{Type: descriptor.SectionEducation}, nil)
	if !ok {
		t.Fatalf("expected education content")
	}
	want := []Block{{
		Kind:  BlockEntry,
		Label: "Mathematics",
		Text:  "Home",
		Meta: map[string]string{
			MetaField:  "Logic",
			MetaPeriod: "Jan 1830 - May 1833",
		},
	}}
	if diff := cmp.Diff(want, content.Blocks); diff != "" {
		t.Fatalf("education mismatch (-want +got):\n%s", diff)
	}

	ci, _ := RenderEducationCleanImpact(sampleData(), descriptor.SectionConfig{Type: descriptor.SectionEducationCleanImpact}, nil)
	if diff := cmp.Diff([]string{"Logic"}, blockTexts(ci.Blocks[0].Items)); diff != "" {
		t.Fatalf("clean impact details mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderEntries_SkipBlankEntries(t *testing.T) {
	data := &resume.Data{
		WorkExperience: []resume.WorkEntry{{ID: "w1", Title: "  "}, {Title: "Analyst"}},
		Education:      []resume.EducationEntry{{ID: "e1"}},
	}
	cfg := descriptor.SectionConfig{}

	work, ok := RenderWork(data, cfg, nil)
	if !ok {
		t.Fatalf("expected work content")
	}
	if diff := cmp.Diff([]Block{{Kind: BlockEntry, Label: "Analyst"}}, work.Blocks); diff != "" {
		t.Fatalf("work blocks mismatch (-want +got):\n%s", diff)
	}

	for name, render := range map[string]Renderer{
		"education":              RenderEducation,
		"education-clean-impact": RenderEducationCleanImpact,
	} {
		if content, ok := render(data, cfg, nil); ok || !content.Empty() {
			t.Fatalf("%s: expected no content for blank entries, got %+v", name, content.Blocks)
		}
	}

	blank := &resume.Data{WorkExperience: []resume.WorkEntry{{}}}
	if _, ok := RenderWorkCleanImpact(blank, cfg, nil); ok {
		t.Fatalf("expected clean-impact work to be absent for blank entries")
	}
}

func TestRenderSkills_Columns(t *testing.T) {
	content, ok := RenderSkills(sampleData(), descriptor.SectionConfig{Type: descriptor.SectionSkills}, nil)
	if !ok {
		t.Fatalf("expected skills content")
	}
	if len(content.Blocks) != 2 {
		t.Fatalf("expected two columns for five skills, got %d blocks", len(content.Blocks))
	}
	if diff := cmp.Diff([]string{"Go", "Postgres", "Figma"}, blockTexts(content.Blocks[0].Items)); diff != "" {
		t.Fatalf("left column mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"Writing", "Math"}, blockTexts(content.Blocks[1].Items)); diff != "" {
		t.Fatalf("right column mismatch (-want +got):\n%s", diff)
	}

	small := &resume.Data{Skills: []resume.Skill{{Name: "Go"}, {Name: "SQL"}}}
	content, _ = RenderSkills(small, descriptor.SectionConfig{Type: descriptor.SectionSkills}, nil)
	if len(content.Blocks) != 1 || content.Blocks[0].Kind != BlockList {
		t.Fatalf("expected single list for two skills, got %+v", content.Blocks)
	}
}

func TestRenderSkills_EmptyDegradesGracefully(t *testing.T) {
	cfg := descriptor.SectionConfig{Type: descriptor.SectionSkills}
	if _, ok := RenderSkills(&resume.Data{}, cfg, nil); ok {
		t.Fatalf("expected no content for empty skills")
	}
	if _, ok := RenderSkills(&resume.Data{Skills: []resume.Skill{{Name: " "}}}, cfg, nil); ok {
		t.Fatalf("expected no content for blank skill names")
	}
}

func TestRenderLanguages(t *testing.T) {
	content, ok := RenderLanguages(sampleData(), descriptor.SectionConfig{Type: descriptor.SectionLanguages}, nil)
	if !ok {
		t.Fatalf("expected languages content")
	}
	want := []Block{
		{Kind: BlockRow, Label: "English", Text: "Native"},
		{Kind: BlockRow, Label: "French"},
	}
	if diff := cmp.Diff(want, content.Blocks); diff != "" {
		t.Fatalf("languages mismatch (-want +got):\n%s", diff)
	}
}

func TestRenderAdditionalCleanImpact(t *testing.T) {
	content, ok := RenderAdditionalCleanImpact(sampleData(), descriptor.SectionConfig{Type: descriptor.SectionAdditionalCleanImpact}, nil)
	if !ok {
		t.Fatalf("expected additional content")
	}
	if content.Title != TitleCIExtra {
		t.Fatalf("unexpected title %q", content.Title)
	}
	skills := content.Blocks[0]
	if skills.Text != "Go, Postgres, Figma, Writing, Math" {
		t.Fatalf("unexpected skills row %q", skills.Text)
	}
	categories := make([]string, 0, len(skills.Items))
	for _, item := range skills.Items {
		categories = append(categories, item.Meta[MetaCategory])
	}
	if diff := cmp.Diff([]string{"Backend", "Other", "Soft"}, categories); diff != "" {
		t.Fatalf("categories mismatch (-want +got):\n%s", diff)
	}
	if got := content.Blocks[1].Text; got != "English (Native), French" {
		t.Fatalf("unexpected languages row %q", got)
	}

	if _, ok := RenderAdditionalCleanImpact(&resume.Data{}, descriptor.SectionConfig{}, nil); ok {
		t.Fatalf("expected no content without skills or languages")
	}
}

func TestRenderers_DoNotMutateData(t *testing.T) {
	data := sampleData()
	before := sampleData()
	reg := Default()
	for _, sectionType := range reg.Types() {
		renderer, _ := reg.Resolve(sectionType)
		renderer(data, descriptor.SectionConfig{Type: sectionType}, style.Style{style.KeyColor: "#333"})
	}
	if diff := cmp.Diff(before, data); diff != "" {
		t.Fatalf("renderers mutated data (-before +after):\n%s", diff)
	}
}

func TestFormatDate(t *testing.T) {
	cases := map[string]string{
		"":           "",
		"2015-06":    "Jun 2015",
		"2015-06-15": "Jun 2015",
		"06/15/2015": "Jun 2015",
		"someday":    "someday",
	}
	for in, want := range cases {
		if got := FormatDate(in); got != want {
			t.Fatalf("FormatDate(%q): expected %q, got %q", in, want, got)
		}
	}
}

func TestPeriod(t *testing.T) {
	if got := Period("", "", false, " - ", nil); got != "" {
		t.Fatalf("expected empty period, got %q", got)
	}
	if got := Period("2019", "", false, " - ", nil); got != "2019" {
		t.Fatalf("expected start only, got %q", got)
	}
	if got := Period("", "2020", true, " - ", nil); got != "Present" {
		t.Fatalf("expected Present, got %q", got)
	}
}

func blockTexts(blocks []Block) []string {
	out := make([]string, 0, len(blocks))
	for _, b := range blocks {
		out = append(out, b.Text)
	}
	return out
}
