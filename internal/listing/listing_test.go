package listing

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/uep-freelance/freelance_web/internal/models"
)

func date(s string) models.Date {
	d, _ := models.ParseDate(s)
	return d
}

func fixtures() []models.Job {
	return []models.Job{
		{ID: 1, Title: "Website Design", Description: "Responsive site", Category: "WEB", Status: models.JobStatusOpen,
			Skills: "HTML, CSS", Budget: decimal.NewFromInt(15000), Deadline: date("2024-12-31"), CreatedAt: date("2024-01-15")},
		{ID: 2, Title: "Logo Design", Description: "Creative logo", Category: "DESIGN", Status: models.JobStatusOpen,
			Skills: "Illustrator", Budget: decimal.NewFromInt(5000), Deadline: date("2024-12-20"), CreatedAt: date("2024-01-10")},
		{ID: 3, Title: "Blog Writing", Description: "Ten articles", Category: "CONTENT", Status: models.JobStatusOpen,
			Skills: "SEO, html basics", Budget: decimal.NewFromInt(8000), Deadline: date("2024-12-25"), CreatedAt: date("2024-01-05")},
		{ID: 4, Title: "Mobile App", Description: "Task manager", Category: "WEB", Status: models.JobStatusInProgress,
			Skills: "React Native", Budget: decimal.NewFromInt(25000), Deadline: date("2024-11-30"), CreatedAt: date("2023-12-28")},
	}
}

func ids(jobs []models.Job) []int64 {
	out := make([]int64, len(jobs))
	for i, j := range jobs {
		out[i] = j.ID
	}
	return out
}

func TestApply(t *testing.T) {
	t.Run("Should return only jobs of the requested category", func(t *testing.T) {
		got := Apply(fixtures(), Filter{Category: "WEB"})
		assert.Equal(t, []int64{1, 4}, ids(got))
		for _, j := range got {
			assert.Equal(t, models.Category("WEB"), j.Category)
		}
	})

	t.Run("Should match search terms case-insensitively across title, description and skills", func(t *testing.T) {
		assert.Equal(t, []int64{1, 3}, ids(Apply(fixtures(), Filter{Search: "HTML"})))
		assert.Equal(t, []int64{2}, ids(Apply(fixtures(), Filter{Search: "creative"})))
		assert.Equal(t, []int64{1, 2}, ids(Apply(fixtures(), Filter{Search: "design"})))
	})

	t.Run("Should combine category and search", func(t *testing.T) {
		assert.Equal(t, []int64{1}, ids(Apply(fixtures(), Filter{Category: "WEB", Search: "html"})))
		assert.Empty(t, Apply(fixtures(), Filter{Category: "DESIGN", Search: "html"}))
	})

	t.Run("Should filter by status", func(t *testing.T) {
		assert.Equal(t, []int64{4}, ids(Apply(fixtures(), Filter{Status: models.JobStatusInProgress})))
	})

	t.Run("Should sort by each key", func(t *testing.T) {
		jobs := fixtures()
		assert.Equal(t, []int64{1, 2, 3, 4}, ids(Apply(jobs, Filter{Sort: SortNewest})))
		assert.Equal(t, []int64{4, 1, 3, 2}, ids(Apply(jobs, Filter{Sort: SortBudgetDesc})))
		assert.Equal(t, []int64{2, 3, 1, 4}, ids(Apply(jobs, Filter{Sort: SortBudgetAsc})))
		assert.Equal(t, []int64{4, 2, 3, 1}, ids(Apply(jobs, Filter{Sort: SortDeadline})))
		assert.Equal(t, int64(1), jobs[0].ID)
	})

	t.Run("Should keep input order for equal keys", func(t *testing.T) {
		jobs := []models.Job{
			{ID: 7, Budget: decimal.NewFromInt(100)},
			{ID: 8, Budget: decimal.NewFromInt(100)},
		}
		assert.Equal(t, []int64{7, 8}, ids(Apply(jobs, Filter{Sort: SortBudgetAsc})))
	})
}

func TestParseSort(t *testing.T) {
	assert.Equal(t, SortBudgetAsc, ParseSort("Budget-Asc"))
	assert.Equal(t, SortNewest, ParseSort("random"))
}
