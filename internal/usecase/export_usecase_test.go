package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/fadilmartias/evaltrack/internal/model"
	"github.com/fadilmartias/evaltrack/internal/util"
)

// seedTeamEvaluations creates n employees under the manager, each with a
// fresh draft evaluation.
func seedTeamEvaluations(t *testing.T, f *fixture, n int) []*model.Evaluation {
	t.Helper()
	f.seedTemplate(t)
	evals := make([]*model.Evaluation, 0, n)
	for i := 0; i < n; i++ {
		name, dni := seedName(i)
		emp := f.seedEmployee(t, name, dni, f.manager.UserID)
		ev, err := f.lifecycleUC.GetOrCreate(emp.ID, f.period.ID, &f.manager, false)
		require.NoError(t, err)
		evals = append(evals, ev)
	}
	return evals
}

// padItems bulk-inserts extra text items so guardrail thresholds can be
// crossed without thousands of evaluations.
func padItems(t *testing.T, f *fixture, evaluationID uuid.UUID, n int) {
	t.Helper()
	items := make([]model.EvaluationItem, n)
	for i := range items {
		items[i] = model.EvaluationItem{
			ID:           uuid.New(),
			EvaluationID: evaluationID,
			SectionTitle: "Bulk",
			QuestionText: fmt.Sprintf("Bulk question %d", i),
			QuestionType: model.QuestionText,
			DisplayOrder: uint(i + 10),
		}
	}
	require.NoError(t, f.db.CreateInBatches(&items, 500).Error)
}

func parseCSV(t *testing.T, content []byte) [][]string {
	t.Helper()
	require.True(t, bytes.HasPrefix(content, []byte("\xEF\xBB\xBF")), "missing UTF-8 BOM")
	records, err := csv.NewReader(bytes.NewReader(content[3:])).ReadAll()
	require.NoError(t, err)
	return records
}

func TestSummaryCSVPageScope(t *testing.T) {
	f := newFixture(t)
	seedTeamEvaluations(t, f, 30)

	params := paramsFrom(map[string]string{
		"page": "2", "page_size": "25", "export_scope": "page",
	})
	file, err := f.exportUC.SummaryCSV(context.Background(), f.period.ID, params, &f.manager)
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf("period_%s_summary.csv", f.period.ID), file.Filename)
	records := parseCSV(t, file.Content)

	// Page scope exports exactly the visible page: 30 rows, page 2 of 25
	// leaves 5, plus the header.
	require.Len(t, records, 6)
	assert.Equal(t, []string{
		"period", "dni", "employee", "position_code", "status", "final_score",
		"overall_comment", "submitted_at", "finalized_at", "reopened_at",
	}, records[0])
	assert.Equal(t, "DNI25", records[1][1])
	assert.Equal(t, "Emp 29", records[5][2])
	assert.Equal(t, "DRAFT", records[1][4])
	assert.Equal(t, "", records[1][5]) // no score before submit
}

func TestSummaryCSVFilteredScopeIgnoresPagination(t *testing.T) {
	f := newFixture(t)
	seedTeamEvaluations(t, f, 30)

	params := paramsFrom(map[string]string{
		"page": "2", "page_size": "25", "export_scope": "filtered",
	})
	file, err := f.exportUC.SummaryCSV(context.Background(), f.period.ID, params, &f.manager)
	require.NoError(t, err)

	records := parseCSV(t, file.Content)
	assert.Len(t, records, 31)
}

func TestItemsCSVDetailRows(t *testing.T) {
	f := newFixture(t)
	evals := seedTeamEvaluations(t, f, 2)
	_, err := f.lifecycleUC.SaveAnswers(evals[0].ID, SaveInput{
		Answers: map[uuid.UUID]model.Answer{
			evals[0].Items[0].ID: model.ScaleAnswer(5),
			evals[0].Items[1].ID: model.YesNoAnswer(false),
		},
	}, &f.manager, false)
	require.NoError(t, err)

	params := paramsFrom(nil)
	file, err := f.exportUC.ItemsCSV(context.Background(), f.period.ID, params, &f.manager)
	require.NoError(t, err)

	assert.Equal(t, fmt.Sprintf("period_%s_items.csv", f.period.ID), file.Filename)
	records := parseCSV(t, file.Content)
	require.Len(t, records, 7) // header + 2 evaluations x 3 items

	var answers []string
	for _, rec := range records[1:] {
		answers = append(answers, rec[8])
	}
	assert.Contains(t, answers, "5")
	assert.Contains(t, answers, "NO")

	// Items keep their snapshot order within each evaluation.
	assert.Equal(t, "1", records[1][9])
	assert.Equal(t, "2", records[2][9])
	assert.Equal(t, "3", records[3][9])
}

func TestXLSXRendersWorkbook(t *testing.T) {
	f := newFixture(t)
	evals := seedTeamEvaluations(t, f, 2)
	_, err := f.lifecycleUC.SaveAnswers(evals[0].ID, SaveInput{
		Answers: map[uuid.UUID]model.Answer{evals[0].Items[0].ID: model.ScaleAnswer(3)},
	}, &f.manager, false)
	require.NoError(t, err)

	params := paramsFrom(nil)
	out, err := f.exportUC.XLSX(context.Background(), f.period.ID, params, &f.manager)
	require.NoError(t, err)
	require.Nil(t, out.Confirmation)
	require.NotNil(t, out.File)
	assert.Equal(t, fmt.Sprintf("period_%s.xlsx", f.period.ID), out.File.Filename)

	book, err := excelize.OpenReader(bytes.NewReader(out.File.Content))
	require.NoError(t, err)
	defer book.Close()
	assert.Equal(t, []string{"Summary", "Detail", "Stats"}, book.GetSheetList())

	events := f.sink.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "xlsx", events[0].Type)
	assert.Equal(t, "rendered", events[0].Outcome)
	assert.Equal(t, 2, events[0].RowCount)
	assert.Equal(t, 6, events[0].ItemCount)
}

func TestXLSXConfirmationFlow(t *testing.T) {
	f := newFixture(t)
	evals := seedTeamEvaluations(t, f, 1)
	padItems(t, f, evals[0].ID, 10_001)

	params := paramsFrom(map[string]string{"q": "emp"})
	out, err := f.exportUC.XLSX(context.Background(), f.period.ID, params, &f.manager)
	require.NoError(t, err)
	require.Nil(t, out.File)
	require.NotNil(t, out.Confirmation)
	assert.EqualValues(t, 10_004, out.Confirmation.ItemCount)

	// The continue link reproduces every applied parameter plus confirm=1.
	link := out.Confirmation.ContinueURL
	assert.True(t, strings.HasPrefix(link,
		fmt.Sprintf("http://app.test/reports/periods/%s/export.xlsx?", f.period.ID)), link)
	for _, fragment := range []string{"confirm=1", "q=emp", "page=1", "page_size=25", "sort=employee", "dir=asc", "export_scope=filtered"} {
		assert.Contains(t, link, fragment)
	}

	// Confirmed retry renders.
	params.Confirm = true
	out, err = f.exportUC.XLSX(context.Background(), f.period.ID, params, &f.manager)
	require.NoError(t, err)
	require.NotNil(t, out.File)

	events := f.sink.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "confirmation_required", events[0].Outcome)
	assert.Equal(t, "rendered", events[1].Outcome)
}

func TestXLSXHardCap(t *testing.T) {
	f := newFixture(t)
	evals := seedTeamEvaluations(t, f, 1)
	padItems(t, f, evals[0].ID, 50_001)

	// The hard cap rejects even a confirmed request.
	params := paramsFrom(map[string]string{"confirm": "1"})
	_, err := f.exportUC.XLSX(context.Background(), f.period.ID, params, &f.manager)
	var capErr *util.CapacityError
	require.ErrorAs(t, err, &capErr)
	assert.Equal(t, 50_004, capErr.ItemCount)

	events := f.sink.Events()
	require.Len(t, events, 1)
	assert.Equal(t, "blocked", events[0].Outcome)
	assert.Equal(t, 50_004, events[0].ItemCount)
}

func TestExportEventCarriesActorAndFilters(t *testing.T) {
	f := newFixture(t)
	seedTeamEvaluations(t, f, 1)

	params := paramsFrom(map[string]string{"status": "draft", "q": "emp"})
	_, err := f.exportUC.SummaryCSV(context.Background(), f.period.ID, params, &f.manager)
	require.NoError(t, err)

	events := f.sink.Events()
	require.Len(t, events, 1)
	event := events[0]
	assert.Equal(t, "summary_csv", event.Type)
	assert.Equal(t, f.period.ID, event.PeriodID)
	assert.Equal(t, ScopeFiltered, event.Scope)
	assert.Equal(t, f.manager.UserID, event.UserID)
	assert.Equal(t, "mgr", event.Username)
	assert.Equal(t, "DRAFT", event.Filters["status"])
	assert.Equal(t, "emp", event.Filters["q"])
	assert.False(t, event.GeneratedAt.IsZero())
}
