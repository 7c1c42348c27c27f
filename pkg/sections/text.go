package sections

import (
	"html"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/araddon/dateparse"
	"github.com/microcosm-cc/bluemonday"
)

var (
	plainPolicyOnce sync.Once
	plainPolicy     *bluemonday.Policy
)

func textPolicy() *bluemonday.Policy {
	plainPolicyOnce.Do(func() {
		plainPolicy = bluemonday.StrictPolicy()
	})
	return plainPolicy
}

// Clean strips markup from user supplied text and trims it. Entities are
// decoded again because the content tree carries plain text, not HTML.
func Clean(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	if !strings.ContainsAny(value, "<>&") {
		return value
	}
	return strings.TrimSpace(html.UnescapeString(textPolicy().Sanitize(value)))
}

var (
	yearMonthPattern = regexp.MustCompile(`^\d{4}-\d{2}$`)
	isoDatePattern   = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
)

const (
	periodLayout = "Jan 2006"
	presentLabel = "Present"
)

// FormatDate renders a date as "Jun 2015". YYYY-MM and YYYY-MM-DD are read
// directly; other inputs go through dateparse. Anything unparseable is
// returned unchanged.
func FormatDate(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}
	switch {
	case yearMonthPattern.MatchString(value):
		if t, err := time.Parse("2006-01", value); err == nil {
			return t.Format(periodLayout)
		}
	case isoDatePattern.MatchString(value):
		if t, err := time.Parse("2006-01-02", value); err == nil {
			return t.Format(periodLayout)
		}
	}
	if t, err := dateparse.ParseIn(value, time.UTC); err == nil {
		return t.Format(periodLayout)
	}
	return value
}

// Period joins a start and end date with sep. A current position ends in
// "Present". Missing halves are dropped together with the separator.
func Period(start, end string, current bool, sep string, format func(string) string) string {
	if format == nil {
		format = strings.TrimSpace
	}
	from := format(start)
	to := format(end)
	if current {
		to = presentLabel
	}
	switch {
	case from == "" && to == "":
		return ""
	case from == "":
		return to
	case to == "":
		return from
	default:
		return from + sep + to
	}
}

var (
	leadingMarker = regexp.MustCompile(`^[*\x{2022}\x{2023}\x{25E6}\x{2043}\x{2219}\-]\s*`)
	inlineMarkers = regexp.MustCompile(`[*\x{2022}\x{2023}\x{25E6}\x{2043}\x{2219}]`)
)

// Bullets splits a description into lines and strips list markers. With
// strict set, marker glyphs are removed anywhere in the line, not only at the
// start.
func Bullets(description string, strict bool) []string {
	if strings.TrimSpace(description) == "" {
		return nil
	}
	var out []string
	for _, line := range strings.Split(description, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		line = strings.TrimSpace(leadingMarker.ReplaceAllString(line, ""))
		if strict {
			line = strings.TrimSpace(inlineMarkers.ReplaceAllString(line, ""))
		}
		line = Clean(line)
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}
