package usecase

import (
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fadilmartias/evaltrack/internal/auth"
	"github.com/fadilmartias/evaltrack/internal/model"
	"github.com/fadilmartias/evaltrack/internal/repository"
	"github.com/fadilmartias/evaltrack/internal/util"
)

// ReportUsecase builds filtered, sorted, paginated evaluation views over the
// caller's visible employee set.
type ReportUsecase struct {
	evaluationRepo *repository.EvaluationRepository
	employeeRepo   *repository.EmployeeRepository
	periodRepo     *repository.PeriodRepository
	presetRepo     *repository.PresetRepository
}

func NewReportUsecase(
	evaluationRepo *repository.EvaluationRepository,
	employeeRepo *repository.EmployeeRepository,
	periodRepo *repository.PeriodRepository,
	presetRepo *repository.PresetRepository,
) *ReportUsecase {
	return &ReportUsecase{
		evaluationRepo: evaluationRepo,
		employeeRepo:   employeeRepo,
		periodRepo:     periodRepo,
		presetRepo:     presetRepo,
	}
}

// ReportResult is one page of the report plus the inputs needed to render
// stable links: total count and the canonical querystring.
type ReportResult struct {
	Period      *model.EvaluationPeriod
	Params      ReportParams
	QueryString string
	Total       int64
	Evaluations []model.Evaluation
}

func canReport(actor *auth.Actor) bool {
	return actor.CanViewReporting || actor.CanEvaluate
}

// Run executes the paginated report view. Pages past the end return an
// empty slice, never an error.
func (uc *ReportUsecase) Run(periodID uuid.UUID, params ReportParams, actor *auth.Actor) (*ReportResult, error) {
	return uc.run(periodID, params, actor, true)
}

// Scoped returns the evaluation set an export consumes: the entire filtered
// result, or only the current page when export_scope=page.
func (uc *ReportUsecase) Scoped(periodID uuid.UUID, params ReportParams, actor *auth.Actor) (*ReportResult, error) {
	return uc.run(periodID, params, actor, params.ExportScope == ScopePage)
}

func (uc *ReportUsecase) run(periodID uuid.UUID, params ReportParams, actor *auth.Actor, paginate bool) (*ReportResult, error) {
	if !canReport(actor) {
		return nil, &util.AuthorizationError{Message: "reporting capability required"}
	}

	period, err := uc.periodRepo.FindByID(periodID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &util.NotFoundError{Message: "period not found"}
		}
		return nil, err
	}

	visibleIDs, err := uc.employeeRepo.VisibleIDs(actor)
	if err != nil {
		return nil, err
	}

	query := repository.EvaluationQuery{
		PeriodID:    periodID,
		EmployeeIDs: visibleIDs,
		Status:      params.Status,
		Search:      params.Q,
		SortColumn:  params.SortColumn(),
		Descending:  params.Dir == "desc",
	}
	if paginate {
		query.Offset = (params.Page - 1) * params.PageSize
		query.Limit = params.PageSize
	}

	total, evals, err := uc.evaluationRepo.CountAndList(query)
	if err != nil {
		return nil, err
	}
	return &ReportResult{
		Period:      period,
		Params:      params,
		QueryString: params.QueryString(),
		Total:       total,
		Evaluations: evals,
	}, nil
}

// SavePreset stores the canonical querystring under a name for reuse.
func (uc *ReportUsecase) SavePreset(name, scope string, params ReportParams, shared bool, actor *auth.Actor) (*model.ReportFilterPreset, error) {
	if !canReport(actor) {
		return nil, &util.AuthorizationError{Message: "reporting capability required"}
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, &util.ValidationError{Message: "preset name is required"}
	}
	preset := &model.ReportFilterPreset{
		ID:          uuid.New(),
		Name:        name,
		Scope:       scope,
		QueryParams: params.QueryString(),
		CreatedByID: actor.UserID,
		IsShared:    shared,
	}
	if err := uc.presetRepo.Create(preset); err != nil {
		return nil, err
	}
	return preset, nil
}

// GetPreset loads one preset the actor may use: their own or a shared one.
// Invisible presets are indistinguishable from absent ones.
func (uc *ReportUsecase) GetPreset(id uuid.UUID, actor *auth.Actor) (*model.ReportFilterPreset, error) {
	if !canReport(actor) {
		return nil, &util.AuthorizationError{Message: "reporting capability required"}
	}
	preset, err := uc.presetRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &util.NotFoundError{Message: "preset not found"}
		}
		return nil, err
	}
	if !preset.IsShared && preset.CreatedByID != actor.UserID {
		return nil, &util.NotFoundError{Message: "preset not found"}
	}
	return preset, nil
}

// ListPresets returns the actor's own and the shared presets for a view.
func (uc *ReportUsecase) ListPresets(scope string, actor *auth.Actor) ([]model.ReportFilterPreset, error) {
	if !canReport(actor) {
		return nil, &util.AuthorizationError{Message: "reporting capability required"}
	}
	return uc.presetRepo.ListVisible(scope, actor.UserID)
}
