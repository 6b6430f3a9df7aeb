package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/fadilmartias/evaltrack/internal/auth"
	"github.com/fadilmartias/evaltrack/internal/model"
	"github.com/fadilmartias/evaltrack/internal/repository"
	"github.com/fadilmartias/evaltrack/internal/service"
	"github.com/fadilmartias/evaltrack/internal/util"
)

const (
	// xlsxHardCapItems is the absolute workbook ceiling; beyond it the
	// caller is pointed at the CSV exports.
	xlsxHardCapItems = 50_000
	// xlsxConfirmItems is the soft threshold above which rendering needs an
	// explicit confirm=1.
	xlsxConfirmItems = 10_000

	csvContentType  = "text/csv; charset=utf-8"
	xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

	// utf8BOM makes spreadsheet tools detect the encoding.
	utf8BOM = "\xEF\xBB\xBF"
)

// ExportUsecase renders the bulk report exports. The whole scoped result is
// held in memory while rendering, which is exactly why the XLSX guardrails
// exist; no unbounded streaming path is offered.
type ExportUsecase struct {
	reportUC       *ReportUsecase
	evaluationRepo *repository.EvaluationRepository
	sink           service.ExportEventSink
	baseURL        string
	now            func() time.Time
}

func NewExportUsecase(
	reportUC *ReportUsecase,
	evaluationRepo *repository.EvaluationRepository,
	sink service.ExportEventSink,
	baseURL string,
) *ExportUsecase {
	return &ExportUsecase{
		reportUC:       reportUC,
		evaluationRepo: evaluationRepo,
		sink:           sink,
		baseURL:        baseURL,
		now:            time.Now,
	}
}

// FileExport is a fully rendered download.
type FileExport struct {
	Filename    string
	ContentType string
	Content     []byte
}

// ExportConfirmation asks the caller to re-request with confirm=1. The link
// reproduces every original query parameter.
type ExportConfirmation struct {
	ItemCount   int64  `json:"item_count"`
	ContinueURL string `json:"continue_url"`
}

// XLSXExport is either a rendered workbook or a confirmation request.
type XLSXExport struct {
	File         *FileExport
	Confirmation *ExportConfirmation
}

// SummaryCSV renders one row per scoped evaluation.
func (uc *ExportUsecase) SummaryCSV(ctx context.Context, periodID uuid.UUID, params ReportParams, actor *auth.Actor) (*FileExport, error) {
	start := uc.now()
	result, err := uc.reportUC.Scoped(periodID, params, actor)
	if err != nil {
		return nil, err
	}

	buf := &bytes.Buffer{}
	buf.WriteString(utf8BOM)
	w := csv.NewWriter(buf)
	_ = w.Write([]string{
		"period", "dni", "employee", "position_code", "status", "final_score",
		"overall_comment", "submitted_at", "finalized_at", "reopened_at",
	})
	for i := range result.Evaluations {
		ev := &result.Evaluations[i]
		_ = w.Write([]string{
			result.Period.Name,
			employeeDNI(ev),
			employeeName(ev),
			ev.FrozenPositionCode,
			string(ev.Status),
			decimalString(ev.FinalScore),
			ev.OverallComment,
			timeString(ev.SubmittedAt),
			timeString(ev.FinalizedAt),
			timeString(ev.ReopenedAt),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	uc.emit(ctx, "summary_csv", periodID, params, actor, "rendered",
		len(result.Evaluations), len(result.Evaluations), uc.now().Sub(start))
	return &FileExport{
		Filename:    fmt.Sprintf("period_%s_summary.csv", periodID),
		ContentType: csvContentType,
		Content:     buf.Bytes(),
	}, nil
}

// ItemsCSV renders one row per item across the scoped evaluations, ordered
// by (evaluation id, display_order, item id).
func (uc *ExportUsecase) ItemsCSV(ctx context.Context, periodID uuid.UUID, params ReportParams, actor *auth.Actor) (*FileExport, error) {
	start := uc.now()
	result, err := uc.reportUC.Scoped(periodID, params, actor)
	if err != nil {
		return nil, err
	}
	byID, ids := indexEvaluations(result.Evaluations)
	items, err := uc.evaluationRepo.ItemsForEvaluations(ids)
	if err != nil {
		return nil, err
	}

	buf := &bytes.Buffer{}
	buf.WriteString(utf8BOM)
	w := csv.NewWriter(buf)
	_ = w.Write([]string{
		"period", "dni", "employee", "status", "section", "question",
		"question_type", "required", "answer", "display_order",
	})
	for i := range items {
		it := &items[i]
		ev := byID[it.EvaluationID]
		_ = w.Write([]string{
			result.Period.Name,
			employeeDNI(ev),
			employeeName(ev),
			string(ev.Status),
			it.SectionTitle,
			it.QuestionText,
			string(it.QuestionType),
			boolString(it.IsRequired),
			it.AnswerDisplay(),
			fmt.Sprintf("%d", it.DisplayOrder),
		})
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}

	uc.emit(ctx, "items_csv", periodID, params, actor, "rendered",
		len(items), len(items), uc.now().Sub(start))
	return &FileExport{
		Filename:    fmt.Sprintf("period_%s_items.csv", periodID),
		ContentType: csvContentType,
		Content:     buf.Bytes(),
	}, nil
}

// XLSX renders the combined Summary/Detail/Stats workbook, subject to the
// size guardrails: beyond the hard cap the export is rejected outright;
// between the thresholds an explicit confirm=1 is required first. Both
// outcomes emit an export event, same as a successful render.
func (uc *ExportUsecase) XLSX(ctx context.Context, periodID uuid.UUID, params ReportParams, actor *auth.Actor) (*XLSXExport, error) {
	start := uc.now()
	result, err := uc.reportUC.Scoped(periodID, params, actor)
	if err != nil {
		return nil, err
	}
	byID, ids := indexEvaluations(result.Evaluations)

	itemCount, err := uc.evaluationRepo.ItemCount(ids)
	if err != nil {
		return nil, err
	}

	if itemCount > xlsxHardCapItems {
		uc.emit(ctx, "xlsx", periodID, params, actor, "blocked",
			0, int(itemCount), uc.now().Sub(start))
		return nil, &util.CapacityError{
			Message:   fmt.Sprintf("workbook would contain %d items (limit %d); use the CSV exports instead", itemCount, xlsxHardCapItems),
			ItemCount: int(itemCount),
		}
	}
	if itemCount > xlsxConfirmItems && !params.Confirm {
		uc.emit(ctx, "xlsx", periodID, params, actor, "confirmation_required",
			0, int(itemCount), uc.now().Sub(start))
		return &XLSXExport{Confirmation: &ExportConfirmation{
			ItemCount:   itemCount,
			ContinueURL: uc.continueURL(periodID, params),
		}}, nil
	}

	items, err := uc.evaluationRepo.ItemsForEvaluations(ids)
	if err != nil {
		return nil, err
	}
	statRows, err := uc.evaluationRepo.StatRows(ids)
	if err != nil {
		return nil, err
	}

	content, err := buildWorkbook(result, byID, items, statRows)
	if err != nil {
		return nil, err
	}

	uc.emit(ctx, "xlsx", periodID, params, actor, "rendered",
		len(result.Evaluations), int(itemCount), uc.now().Sub(start))
	return &XLSXExport{File: &FileExport{
		Filename:    fmt.Sprintf("period_%s.xlsx", periodID),
		ContentType: xlsxContentType,
		Content:     content,
	}}, nil
}

// continueURL rebuilds the original request with confirm=1 added so the
// confirmed retry preserves scope, filters, sort and pagination exactly.
func (uc *ExportUsecase) continueURL(periodID uuid.UUID, params ReportParams) string {
	values := params.Values()
	values.Set("confirm", "1")
	return fmt.Sprintf("%s/reports/periods/%s/export.xlsx?%s", uc.baseURL, periodID, values.Encode())
}

func (uc *ExportUsecase) emit(ctx context.Context, exportType string, periodID uuid.UUID, params ReportParams, actor *auth.Actor, outcome string, rows, itemCount int, duration time.Duration) {
	filters := make(map[string]string)
	for key, vals := range params.Values() {
		if len(vals) > 0 {
			filters[key] = vals[0]
		}
	}
	uc.sink.EmitExportEvent(ctx, service.ExportEvent{
		Type:        exportType,
		PeriodID:    periodID,
		Scope:       params.ExportScope,
		Outcome:     outcome,
		RowCount:    rows,
		ItemCount:   itemCount,
		Duration:    duration,
		UserID:      actor.UserID,
		Username:    actor.Username,
		RoleLabel:   actor.RoleLabel,
		Filters:     filters,
		GeneratedAt: uc.now(),
	})
}

func indexEvaluations(evals []model.Evaluation) (map[uuid.UUID]*model.Evaluation, []uuid.UUID) {
	byID := make(map[uuid.UUID]*model.Evaluation, len(evals))
	ids := make([]uuid.UUID, 0, len(evals))
	for i := range evals {
		byID[evals[i].ID] = &evals[i]
		ids = append(ids, evals[i].ID)
	}
	return byID, ids
}

func employeeDNI(ev *model.Evaluation) string {
	if ev != nil && ev.Employee != nil {
		return ev.Employee.DNI
	}
	return ""
}

func employeeName(ev *model.Evaluation) string {
	if ev != nil && ev.Employee != nil {
		return ev.Employee.FullName
	}
	return ""
}

func decimalString(d *decimal.Decimal) string {
	if d == nil {
		return ""
	}
	return d.String()
}

func timeString(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(time.RFC3339)
}

// naiveTime strips the timezone for workbook cells.
func naiveTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format("2006-01-02 15:04:05")
}

func boolString(b bool) string {
	if b {
		return "true"
	}
	return "false"
}
