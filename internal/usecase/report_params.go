package usecase

import (
	"net/url"
	"strconv"
	"strings"

	"github.com/fadilmartias/evaltrack/internal/model"
)

const (
	ScopeFiltered = "filtered"
	ScopePage     = "page"

	defaultPageSize = 25
	defaultSort     = "employee"
)

// sortColumns whitelists the report sort keys and maps them to concrete
// columns. Unknown keys fall back to the employee name.
var sortColumns = map[string]string{
	"employee":  "employees.full_name",
	"status":    "evaluations.status",
	"score":     "evaluations.final_score",
	"updated":   "evaluations.updated_at",
	"submitted": "evaluations.submitted_at",
	"finalized": "evaluations.finalized_at",
}

// ReportParams is the normalized filter/sort/page state of one report view.
// Construct through ParseReportParams so every field is already clamped.
type ReportParams struct {
	Status      model.EvaluationStatus // "" when absent or invalid
	Q           string
	Sort        string
	Dir         string
	Page        int
	PageSize    int
	ExportScope string
	Confirm     bool
}

// ParseReportParams normalizes raw query values: invalid statuses are
// dropped, unknown sort keys fall back to employee, direction defaults to
// asc, page floors at 1 and page_size snaps to the fixed {25,50,100} set.
func ParseReportParams(get func(key string) string) ReportParams {
	p := ReportParams{
		Sort:        defaultSort,
		Dir:         "asc",
		Page:        1,
		PageSize:    defaultPageSize,
		ExportScope: ScopeFiltered,
	}

	if status := model.EvaluationStatus(strings.ToUpper(strings.TrimSpace(get("status")))); status.Valid() {
		p.Status = status
	}
	p.Q = strings.TrimSpace(get("q"))

	if sort := strings.ToLower(strings.TrimSpace(get("sort"))); sortColumns[sort] != "" {
		p.Sort = sort
	}
	if strings.ToLower(strings.TrimSpace(get("dir"))) == "desc" {
		p.Dir = "desc"
	}

	if page, err := strconv.Atoi(get("page")); err == nil && page > 1 {
		p.Page = page
	}
	switch get("page_size") {
	case "50":
		p.PageSize = 50
	case "100":
		p.PageSize = 100
	}

	if strings.ToLower(strings.TrimSpace(get("export_scope"))) == ScopePage {
		p.ExportScope = ScopePage
	}
	p.Confirm = get("confirm") == "1"

	return p
}

// SortColumn resolves the whitelisted SQL expression for the current key.
func (p ReportParams) SortColumn() string {
	if col, ok := sortColumns[p.Sort]; ok {
		return col
	}
	return sortColumns[defaultSort]
}

// Values collects every applied parameter. This is the set a continuation
// link must reproduce exactly.
func (p ReportParams) Values() url.Values {
	values := url.Values{}
	if p.Status != "" {
		values.Set("status", string(p.Status))
	}
	if p.Q != "" {
		values.Set("q", p.Q)
	}
	values.Set("sort", p.Sort)
	values.Set("dir", p.Dir)
	values.Set("page", strconv.Itoa(p.Page))
	values.Set("page_size", strconv.Itoa(p.PageSize))
	values.Set("export_scope", p.ExportScope)
	return values
}

// QueryString is the canonical re-serialization of the applied filters,
// stable across round-trips so sort toggles, pagination links and saved
// presets compare equal. url.Values.Encode sorts keys.
func (p ReportParams) QueryString() string {
	return p.Values().Encode()
}
