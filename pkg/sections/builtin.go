package sections

import (
	"strings"

	"github.com/goliatone/go-resumetpl/pkg/descriptor"
	"github.com/goliatone/go-resumetpl/pkg/resume"
	"github.com/goliatone/go-resumetpl/pkg/style"
)

// Default accents when neither the cascade nor the section defines one.
const (
	DefaultAccent            = "#000000"
	DefaultCleanImpactAccent = "#1ca3b8"
)

// Default section titles.
const (
	TitleSummary     = "Professional Summary"
	TitleWork        = "Work Experience"
	TitleEducation   = "Education"
	TitleSkills      = "Skills"
	TitleLanguages   = "Languages"
	TitleCISummary   = "SUMMARY"
	TitleCIWork      = "WORK EXPERIENCE"
	TitleCIEducation = "EDUCATION"
	TitleCIExtra     = "ADDITIONAL INFORMATION"

	placeholderName = "Your Name"

	cleanImpactSection = "clean-impact-section"
	cleanImpactHeader  = "clean-impact-header"
	labelledHeaderHint = "ci-header"
	twoColumnThreshold = 3
)

func builtins() map[descriptor.SectionType]Renderer {
	return map[descriptor.SectionType]Renderer{
		descriptor.SectionHeader:                RenderHeader,
		descriptor.SectionSummary:               RenderSummary,
		descriptor.SectionWork:                  RenderWork,
		descriptor.SectionEducation:             RenderEducation,
		descriptor.SectionSkills:                RenderSkills,
		descriptor.SectionLanguages:             RenderLanguages,
		descriptor.SectionHeaderCleanImpact:     RenderHeaderCleanImpact,
		descriptor.SectionSummaryCleanImpact:    RenderSummaryCleanImpact,
		descriptor.SectionWorkCleanImpact:       RenderWorkCleanImpact,
		descriptor.SectionEducationCleanImpact:  RenderEducationCleanImpact,
		descriptor.SectionAdditionalCleanImpact: RenderAdditionalCleanImpact,
	}
}

func newContent(cfg descriptor.SectionConfig, st style.Style, title, accent, className string) Content {
	return Content{
		Type:      cfg.Type,
		Title:     cfg.TitleOr(title),
		ShowTitle: cfg.TitleVisible(),
		ClassName: className,
		Accent:    st.Value(style.KeyPrimaryColor, accent),
		Style:     st.Clone(),
	}
}

func joinClass(base, extra string) string {
	return strings.TrimSpace(base + " " + strings.TrimSpace(extra))
}

// RenderHeader renders the name, headline, and contact channels. A class
// name containing "ci-header" switches to the labelled contact layout. The
// header always renders, falling back to a placeholder name.
func RenderHeader(data *resume.Data, cfg descriptor.SectionConfig, st style.Style) (Content, bool) {
	if strings.Contains(cfg.ClassName, labelledHeaderHint) {
		content := newContent(cfg, st, "", DefaultCleanImpactAccent, joinClass(cleanImpactHeader, cfg.ClassName))
		content.Blocks = labelledHeader(data)
		return content, true
	}

	content := newContent(cfg, st, "", DefaultAccent, strings.TrimSpace(cfg.ClassName))
	name := Clean(data.FullName())
	if name == "" {
		name = placeholderName
	}
	content.Blocks = append(content.Blocks, Block{Kind: BlockName, Text: name})

	info := data.PersonalInfo
	if headline := Clean(info.JobTitle); headline != "" {
		content.Blocks = append(content.Blocks, Block{Kind: BlockHeadline, Text: headline})
	}
	contacts := []struct{ label, value string }{
		{"email", info.Email},
		{"phone", info.Phone},
		{"location", info.Location},
		{"linkedin", info.LinkedIn},
		{"website", info.Website},
	}
	for _, c := range contacts {
		if value := Clean(c.value); value != "" {
			content.Blocks = append(content.Blocks, Block{Kind: BlockContact, Label: c.label, Text: value})
		}
	}
	for _, link := range info.Links {
		url := Clean(link.URL)
		if url == "" {
			continue
		}
		label := Clean(link.Label)
		if label == "" {
			label = "link"
		}
		content.Blocks = append(content.Blocks, Block{Kind: BlockContact, Label: label, Text: url})
	}
	return content, true
}

// RenderHeaderCleanImpact renders the upper-case name with labelled contacts.
func RenderHeaderCleanImpact(data *resume.Data, cfg descriptor.SectionConfig, st style.Style) (Content, bool) {
	content := newContent(cfg, st, "", DefaultCleanImpactAccent, joinClass(cleanImpactHeader, cfg.ClassName))
	content.Blocks = labelledHeader(data)
	return content, true
}

func labelledHeader(data *resume.Data) []Block {
	name := Clean(data.FullName())
	if name == "" {
		name = placeholderName
	}
	blocks := []Block{{Kind: BlockName, Text: strings.ToUpper(name)}}

	info := data.PersonalInfo
	contacts := []struct{ label, value string }{
		{"Address", info.Location},
		{"Phone", info.Phone},
		{"Email", info.Email},
		{"Website", info.Website},
	}
	for _, c := range contacts {
		if value := Clean(c.value); value != "" {
			blocks = append(blocks, Block{Kind: BlockContact, Label: c.label, Text: value})
		}
	}
	return blocks
}

// RenderSummary renders the professional summary paragraph.
func RenderSummary(data *resume.Data, cfg descriptor.SectionConfig, st style.Style) (Content, bool) {
	text := Clean(data.Summary)
	if text == "" {
		return Content{}, false
	}
	content := newContent(cfg, st, TitleSummary, DefaultAccent, strings.TrimSpace(cfg.ClassName))
	content.Blocks = []Block{{Kind: BlockParagraph, Text: text}}
	return content, true
}

// RenderSummaryCleanImpact is RenderSummary with the Clean Impact title and
// accent.
func RenderSummaryCleanImpact(data *resume.Data, cfg descriptor.SectionConfig, st style.Style) (Content, bool) {
	text := Clean(data.Summary)
	if text == "" {
		return Content{}, false
	}
	content := newContent(cfg, st, TitleCISummary, DefaultCleanImpactAccent, joinClass(cleanImpactSection, cfg.ClassName))
	content.Blocks = []Block{{Kind: BlockParagraph, Text: text}}
	return content, true
}

// RenderWork renders positions with formatted periods and bullet lines.
func RenderWork(data *resume.Data, cfg descriptor.SectionConfig, st style.Style) (Content, bool) {
	if len(data.WorkExperience) == 0 {
		return Content{}, false
	}
	content := newContent(cfg, st, TitleWork, DefaultAccent, strings.TrimSpace(cfg.ClassName))
	for _, work := range data.WorkExperience {
		entry := Block{
			Kind:  BlockEntry,
			Label: Clean(work.Title),
			Text:  Clean(work.Company),
			Meta:  map[string]string{},
		}
		setMeta(entry.Meta, MetaPeriod, Period(work.StartDate, work.EndDate, work.IsCurrent, " - ", FormatDate))
		setMeta(entry.Meta, MetaLocation, Clean(work.Location))
		if entry.Text != "" {
			setMeta(entry.Meta, MetaJobType, Clean(work.JobType))
		}
		entry.Items = bulletBlocks(Bullets(work.Description, true))
		content.Blocks = appendEntry(content.Blocks, entry)
	}
	return content, !content.Empty()
}

// RenderWorkCleanImpact renders "Title, Company" entries with raw periods.
func RenderWorkCleanImpact(data *resume.Data, cfg descriptor.SectionConfig, st style.Style) (Content, bool) {
	if len(data.WorkExperience) == 0 {
		return Content{}, false
	}
	content := newContent(cfg, st, TitleCIWork, DefaultCleanImpactAccent, joinClass(cleanImpactSection, cfg.ClassName))
	for _, work := range data.WorkExperience {
		entry := Block{
			Kind:  BlockEntry,
			Label: joinNonEmpty(", ", Clean(work.Title), Clean(work.Company)),
			Meta:  map[string]string{},
		}
		setMeta(entry.Meta, MetaPeriod, Period(work.StartDate, work.EndDate, work.IsCurrent, " — ", nil))
		entry.Items = bulletBlocks(Bullets(work.Description, false))
		content.Blocks = appendEntry(content.Blocks, entry)
	}
	return content, !content.Empty()
}

// RenderEducation renders degrees with school, field, and period.
func RenderEducation(data *resume.Data, cfg descriptor.SectionConfig, st style.Style) (Content, bool) {
	if len(data.Education) == 0 {
		return Content{}, false
	}
	content := newContent(cfg, st, TitleEducation, DefaultAccent, strings.TrimSpace(cfg.ClassName))
	for _, edu := range data.Education {
		entry := Block{
			Kind:  BlockEntry,
			Label: Clean(edu.Degree),
			Text:  Clean(edu.School),
			Meta:  map[string]string{},
		}
		setMeta(entry.Meta, MetaField, Clean(edu.Field))
		setMeta(entry.Meta, MetaPeriod, Period(edu.StartDate, edu.EndDate, false, " - ", FormatDate))
		content.Blocks = appendEntry(content.Blocks, entry)
	}
	return content, !content.Empty()
}

// RenderEducationCleanImpact lists the field of study as the entry's detail
// line.
func RenderEducationCleanImpact(data *resume.Data, cfg descriptor.SectionConfig, st style.Style) (Content, bool) {
	if len(data.Education) == 0 {
		return Content{}, false
	}
	content := newContent(cfg, st, TitleCIEducation, DefaultCleanImpactAccent, joinClass(cleanImpactSection, cfg.ClassName))
	for _, edu := range data.Education {
		entry := Block{
			Kind:  BlockEntry,
			Label: Clean(edu.Degree),
			Text:  Clean(edu.School),
			Meta:  map[string]string{},
		}
		setMeta(entry.Meta, MetaPeriod, Period(edu.StartDate, edu.EndDate, false, " — ", nil))
		if field := Clean(edu.Field); field != "" {
			entry.Items = []Block{{Kind: BlockBullet, Text: field}}
		}
		content.Blocks = appendEntry(content.Blocks, entry)
	}
	return content, !content.Empty()
}

// RenderSkills renders the skill list, split into two columns once there are
// more than three skills.
func RenderSkills(data *resume.Data, cfg descriptor.SectionConfig, st style.Style) (Content, bool) {
	var items []Block
	for _, skill := range data.Skills {
		if name := Clean(skill.Name); name != "" {
			items = append(items, Block{Kind: BlockItem, Text: name})
		}
	}
	if len(items) == 0 {
		return Content{}, false
	}
	content := newContent(cfg, st, TitleSkills, DefaultAccent, strings.TrimSpace(cfg.ClassName))
	if len(items) <= twoColumnThreshold {
		content.Blocks = []Block{{Kind: BlockList, Items: items}}
		return content, true
	}
	mid := (len(items) + 1) / 2
	content.Blocks = []Block{
		{Kind: BlockColumn, Items: items[:mid:mid]},
		{Kind: BlockColumn, Items: items[mid:]},
	}
	return content, true
}

// RenderLanguages renders name/proficiency rows.
func RenderLanguages(data *resume.Data, cfg descriptor.SectionConfig, st style.Style) (Content, bool) {
	var rows []Block
	for _, lang := range data.Languages {
		name := Clean(lang.Name)
		if name == "" {
			continue
		}
		rows = append(rows, Block{Kind: BlockRow, Label: name, Text: Clean(lang.Proficiency)})
	}
	if len(rows) == 0 {
		return Content{}, false
	}
	content := newContent(cfg, st, TitleLanguages, DefaultAccent, strings.TrimSpace(cfg.ClassName))
	content.Blocks = rows
	return content, true
}

// RenderAdditionalCleanImpact combines skills grouped by category and
// languages into two labelled rows.
func RenderAdditionalCleanImpact(data *resume.Data, cfg descriptor.SectionConfig, st style.Style) (Content, bool) {
	var blocks []Block

	if groups := data.SkillsByCategory(); len(groups) > 0 {
		row := Block{Kind: BlockRow, Label: "Technical Skills"}
		var all []string
		for _, group := range groups {
			names := make([]string, 0, len(group.Skills))
			for _, name := range group.Skills {
				if cleaned := Clean(name); cleaned != "" {
					names = append(names, cleaned)
				}
			}
			if len(names) == 0 {
				continue
			}
			all = append(all, names...)
			row.Items = append(row.Items, Block{
				Kind: BlockItem,
				Text: strings.Join(names, ", "),
				Meta: map[string]string{MetaCategory: Clean(group.Category)},
			})
		}
		if len(all) > 0 {
			row.Text = strings.Join(all, ", ")
			blocks = append(blocks, row)
		}
	}

	var languages []string
	for _, lang := range data.Languages {
		name := Clean(lang.Name)
		if name == "" {
			continue
		}
		if proficiency := Clean(lang.Proficiency); proficiency != "" {
			name += " (" + proficiency + ")"
		}
		languages = append(languages, name)
	}
	if len(languages) > 0 {
		blocks = append(blocks, Block{Kind: BlockRow, Label: "Languages", Text: strings.Join(languages, ", ")})
	}

	if len(blocks) == 0 {
		return Content{}, false
	}
	content := newContent(cfg, st, TitleCIExtra, DefaultCleanImpactAccent, joinClass(cleanImpactSection, cfg.ClassName))
	content.Blocks = blocks
	return content, true
}

func bulletBlocks(lines []string) []Block {
	if len(lines) == 0 {
		return nil
	}
	out := make([]Block, 0, len(lines))
	for _, line := range lines {
		out = append(out, Block{Kind: BlockBullet, Text: line})
	}
	return out
}

func setMeta(meta map[string]string, key, value string) {
	if value != "" {
		meta[key] = value
	}
}

// appendEntry appends b unless every field is blank.
func appendEntry(blocks []Block, b Block) []Block {
	b = compact(b)
	if b.Label == "" && b.Text == "" && len(b.Meta) == 0 && len(b.Items) == 0 {
		return blocks
	}
	return append(blocks, b)
}

func compact(b Block) Block {
	if len(b.Meta) == 0 {
		b.Meta = nil
	}
	return b
}

func joinNonEmpty(sep string, parts ...string) string {
	out := parts[:0:0]
	for _, part := range parts {
		if part != "" {
			out = append(out, part)
		}
	}
	return strings.Join(out, sep)
}
