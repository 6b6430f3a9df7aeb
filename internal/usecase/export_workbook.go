package usecase

import (
	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"github.com/fadilmartias/evaltrack/internal/model"
	"github.com/fadilmartias/evaltrack/internal/scoring"
)

// buildWorkbook assembles the three-sheet XLSX: Summary mirrors the summary
// CSV, Detail mirrors the item CSV, Stats aggregates per (position, block).
func buildWorkbook(result *ReportResult, byID map[uuid.UUID]*model.Evaluation, items []model.EvaluationItem, statRows []scoring.StatRow) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Summary"); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet("Detail"); err != nil {
		return nil, err
	}
	if _, err := f.NewSheet("Stats"); err != nil {
		return nil, err
	}

	writeRow := func(sheet string, row int, values []any) error {
		cell, err := excelize.CoordinatesToCellName(1, row)
		if err != nil {
			return err
		}
		return f.SetSheetRow(sheet, cell, &values)
	}

	if err := writeRow("Summary", 1, []any{
		"period", "dni", "employee", "position_code", "status", "final_score",
		"overall_comment", "submitted_at", "finalized_at", "reopened_at",
	}); err != nil {
		return nil, err
	}
	for i := range result.Evaluations {
		ev := &result.Evaluations[i]
		var score any
		if ev.FinalScore != nil {
			score = ev.FinalScore.InexactFloat64()
		}
		if err := writeRow("Summary", i+2, []any{
			result.Period.Name,
			employeeDNI(ev),
			employeeName(ev),
			ev.FrozenPositionCode,
			string(ev.Status),
			score,
			ev.OverallComment,
			naiveTime(ev.SubmittedAt),
			naiveTime(ev.FinalizedAt),
			naiveTime(ev.ReopenedAt),
		}); err != nil {
			return nil, err
		}
	}

	if err := writeRow("Detail", 1, []any{
		"period", "dni", "employee", "status", "section", "question",
		"question_type", "required", "answer", "display_order",
	}); err != nil {
		return nil, err
	}
	for i := range items {
		it := &items[i]
		ev := byID[it.EvaluationID]
		if err := writeRow("Detail", i+2, []any{
			result.Period.Name,
			employeeDNI(ev),
			employeeName(ev),
			string(ev.Status),
			it.SectionTitle,
			it.QuestionText,
			string(it.QuestionType),
			it.IsRequired,
			it.AnswerDisplay(),
			int(it.DisplayOrder),
		}); err != nil {
			return nil, err
		}
	}

	stats := scoring.BlockStats(statRows)
	if err := writeRow("Stats", 1, []any{
		"position_code", "block", "avg_score", "min_score", "max_score", "evaluations",
	}); err != nil {
		return nil, err
	}
	for i := range stats {
		if err := writeRow("Stats", i+2, []any{
			stats[i].PositionCode,
			stats[i].Block,
			stats[i].Avg.InexactFloat64(),
			stats[i].Min.InexactFloat64(),
			stats[i].Max.InexactFloat64(),
			stats[i].Evaluations,
		}); err != nil {
			return nil, err
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
