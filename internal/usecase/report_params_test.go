package usecase

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fadilmartias/evaltrack/internal/model"
)

func paramsFrom(raw map[string]string) ReportParams {
	return ParseReportParams(func(key string) string { return raw[key] })
}

func TestParseReportParamsDefaults(t *testing.T) {
	p := paramsFrom(nil)
	assert.Equal(t, model.EvaluationStatus(""), p.Status)
	assert.Equal(t, "", p.Q)
	assert.Equal(t, "employee", p.Sort)
	assert.Equal(t, "asc", p.Dir)
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, 25, p.PageSize)
	assert.Equal(t, ScopeFiltered, p.ExportScope)
	assert.False(t, p.Confirm)
}

func TestParseReportParamsNormalization(t *testing.T) {
	p := paramsFrom(map[string]string{
		"status":       "submitted",
		"q":            "  Alice ",
		"sort":         "score",
		"dir":          "DESC",
		"page":         "3",
		"page_size":    "100",
		"export_scope": "page",
		"confirm":      "1",
	})
	assert.Equal(t, model.StatusSubmitted, p.Status)
	assert.Equal(t, "Alice", p.Q)
	assert.Equal(t, "score", p.Sort)
	assert.Equal(t, "desc", p.Dir)
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, 100, p.PageSize)
	assert.Equal(t, ScopePage, p.ExportScope)
	assert.True(t, p.Confirm)
}

func TestParseReportParamsRejectsInvalid(t *testing.T) {
	p := paramsFrom(map[string]string{
		"status":    "ARCHIVED",
		"sort":      "salary",
		"dir":       "sideways",
		"page":      "-2",
		"page_size": "37",
	})
	assert.Equal(t, model.EvaluationStatus(""), p.Status, "invalid status is dropped")
	assert.Equal(t, "employee", p.Sort, "unknown sort keys fall back to employee")
	assert.Equal(t, "asc", p.Dir)
	assert.Equal(t, 1, p.Page, "page floors at 1, not an error")
	assert.Equal(t, 25, p.PageSize, "page_size snaps to the fixed set")
}

func TestParseReportParamsPageZero(t *testing.T) {
	p := paramsFrom(map[string]string{"page": "0"})
	assert.Equal(t, 1, p.Page)
}

func TestSortColumnWhitelist(t *testing.T) {
	for key, col := range map[string]string{
		"employee":  "employees.full_name",
		"status":    "evaluations.status",
		"score":     "evaluations.final_score",
		"updated":   "evaluations.updated_at",
		"submitted": "evaluations.submitted_at",
		"finalized": "evaluations.finalized_at",
	} {
		p := paramsFrom(map[string]string{"sort": key})
		assert.Equal(t, col, p.SortColumn())
	}
}

func TestQueryStringRoundTrip(t *testing.T) {
	p := paramsFrom(map[string]string{
		"status":    "DRAFT",
		"q":         "Alice",
		"sort":      "updated",
		"dir":       "desc",
		"page":      "2",
		"page_size": "50",
	})
	qs := p.QueryString()

	values, err := url.ParseQuery(qs)
	require.NoError(t, err)
	reparsed := ParseReportParams(func(key string) string { return values.Get(key) })
	assert.Equal(t, p, reparsed, "canonical querystring must round-trip exactly")
	assert.Equal(t, qs, reparsed.QueryString())
}

func TestQueryStringOmitsEmptyFilters(t *testing.T) {
	qs := paramsFrom(nil).QueryString()
	values, err := url.ParseQuery(qs)
	require.NoError(t, err)
	assert.False(t, values.Has("status"))
	assert.False(t, values.Has("q"))
	assert.Equal(t, "employee", values.Get("sort"))
	assert.Equal(t, "25", values.Get("page_size"))
}
