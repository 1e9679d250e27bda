package models

import (
	"regexp"
	"strings"
)

type Category string

type CategoryInfo struct {
	Code  Category
	Label string
}

// CategorySet is a closed catalog of job categories. The demo data and the
// live API use different catalogs.
type CategorySet []CategoryInfo

var DemoCategories = CategorySet{
	{"WEB", "Web Development"},
	{"DESIGN", "Graphic Design"},
	{"CONTENT", "Content Writing"},
	{"VIDEO", "Video Editing"},
	{"OTHER", "Other"},
}

var LiveCategories = CategorySet{
	{"WEB_DEVELOPMENT", "Web Development"},
	{"GRAPHIC_DESIGN", "Graphic Design"},
	{"WRITING", "Writing"},
	{"MARKETING", "Marketing"},
	{"MOBILE_DEVELOPMENT", "Mobile Development"},
	{"DATA_SCIENCE", "Data Science"},
	{"OTHER", "Other"},
}

var separators = regexp.MustCompile(`[\s-]+`)

// Normalize resolves a code, a display name or a loose spelling such as
// "web-development" to the catalog code.
func (s CategorySet) Normalize(raw string) (Category, bool) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", false
	}
	code := separators.ReplaceAllString(strings.ToUpper(trimmed), "_")
	for _, c := range s {
		if string(c.Code) == code || strings.EqualFold(c.Label, trimmed) {
			return c.Code, true
		}
	}
	return "", false
}

func (s CategorySet) Contains(c Category) bool {
	_, ok := s.Normalize(string(c))
	return ok
}

// Label returns the display name, falling back to title-casing the raw code.
func (s CategorySet) Label(c Category) string {
	if code, ok := s.Normalize(string(c)); ok {
		for _, info := range s {
			if info.Code == code {
				return info.Label
			}
		}
	}
	return FormatCategory(string(c))
}

// FormatCategory turns "MOBILE_DEVELOPMENT" into "Mobile Development".
func FormatCategory(raw string) string {
	if strings.TrimSpace(raw) == "" {
		return "Other"
	}
	words := strings.Fields(strings.ReplaceAll(strings.ToLower(raw), "_", " "))
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
