// Package listing filters and sorts an already fetched job list.
package listing

import (
	"slices"
	"strings"

	"github.com/uep-freelance/freelance_web/internal/models"
)

type SortKey string

const (
	SortNewest     SortKey = "newest"
	SortBudgetDesc SortKey = "budget-desc"
	SortBudgetAsc  SortKey = "budget-asc"
	SortDeadline   SortKey = "deadline"
)

var SortKeys = []SortKey{SortNewest, SortBudgetDesc, SortBudgetAsc, SortDeadline}

func ParseSort(s string) SortKey {
	for _, k := range SortKeys {
		if string(k) == strings.ToLower(strings.TrimSpace(s)) {
			return k
		}
	}
	return SortNewest
}

func (k SortKey) Label() string {
	switch k {
	case SortBudgetDesc:
		return "Budget: High to Low"
	case SortBudgetAsc:
		return "Budget: Low to High"
	case SortDeadline:
		return "Deadline"
	}
	return "Newest"
}

// Filter is empty-means-any on every field.
type Filter struct {
	Search   string
	Category models.Category
	Status   models.JobStatus
	Sort     SortKey
}

// Apply returns a new slice; jobs is left untouched.
func Apply(jobs []models.Job, f Filter) []models.Job {
	term := strings.ToLower(strings.TrimSpace(f.Search))
	out := make([]models.Job, 0, len(jobs))
	for _, j := range jobs {
		if f.Status != "" && j.Status != f.Status {
			continue
		}
		if f.Category != "" && !strings.EqualFold(string(j.Category), string(f.Category)) {
			continue
		}
		if term != "" && !matches(j, term) {
			continue
		}
		out = append(out, j)
	}
	slices.SortStableFunc(out, compare(f.Sort))
	return out
}

func matches(j models.Job, term string) bool {
	return strings.Contains(strings.ToLower(j.Title), term) ||
		strings.Contains(strings.ToLower(j.Description), term) ||
		strings.Contains(strings.ToLower(j.Skills), term)
}

func compare(k SortKey) func(a, b models.Job) int {
	switch k {
	case SortBudgetDesc:
		return func(a, b models.Job) int { return b.Budget.Cmp(a.Budget) }
	case SortBudgetAsc:
		return func(a, b models.Job) int { return a.Budget.Cmp(b.Budget) }
	case SortDeadline:
		return func(a, b models.Job) int { return a.Deadline.Compare(b.Deadline.Time) }
	case SortNewest:
		return func(a, b models.Job) int { return b.CreatedAt.Compare(a.CreatedAt.Time) }
	}
	return func(models.Job, models.Job) int { return 0 }
}
