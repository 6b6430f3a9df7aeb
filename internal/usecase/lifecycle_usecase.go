package usecase

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/fadilmartias/evaltrack/internal/auth"
	"github.com/fadilmartias/evaltrack/internal/model"
	"github.com/fadilmartias/evaltrack/internal/repository"
	"github.com/fadilmartias/evaltrack/internal/scoring"
	"github.com/fadilmartias/evaltrack/internal/util"
)

// LifecycleUsecase owns evaluation creation, answer mutation and the
// DRAFT → SUBMITTED → FINAL (→ DRAFT on reopen) state machine.
type LifecycleUsecase struct {
	evaluationRepo *repository.EvaluationRepository
	employeeRepo   *repository.EmployeeRepository
	periodRepo     *repository.PeriodRepository
	templateRepo   *repository.TemplateRepository
	now            func() time.Time
}

func NewLifecycleUsecase(
	evaluationRepo *repository.EvaluationRepository,
	employeeRepo *repository.EmployeeRepository,
	periodRepo *repository.PeriodRepository,
	templateRepo *repository.TemplateRepository,
) *LifecycleUsecase {
	return &LifecycleUsecase{
		evaluationRepo: evaluationRepo,
		employeeRepo:   employeeRepo,
		periodRepo:     periodRepo,
		templateRepo:   templateRepo,
		now:            time.Now,
	}
}

// CanEdit is the single source of truth for item mutation: only a DRAFT
// evaluation is editable, and only by an actor holding the evaluate
// capability. SUBMITTED and FINAL are never editable regardless of role.
func (uc *LifecycleUsecase) CanEdit(ev *model.Evaluation, actor *auth.Actor) bool {
	return ev.Status == model.StatusDraft && actor.CanEvaluate
}

func (uc *LifecycleUsecase) CanFinalize(ev *model.Evaluation, actor *auth.Actor) bool {
	return ev.Status == model.StatusSubmitted && actor.CanFinalize
}

func (uc *LifecycleUsecase) CanReopen(ev *model.Evaluation, actor *auth.Actor) bool {
	return ev.Status == model.StatusFinal && actor.CanFinalize
}

// checkPeriodLock rejects every mutation inside a closed period unless the
// caller explicitly passed the override flag and holds the capability.
func checkPeriodLock(period *model.EvaluationPeriod, actor *auth.Actor, override bool) error {
	if !period.IsClosed {
		return nil
	}
	if override && actor.CanOverrideLock {
		return nil
	}
	return &util.LockError{Message: fmt.Sprintf("period %q is closed", period.Name)}
}

// GetOrCreate lazily instantiates the evaluation for an (employee, period)
// pair on first access, snapshotting the employee's resolved template into
// items. Two concurrent first accesses race on the uniqueness constraint;
// the loser re-reads the winner's row.
func (uc *LifecycleUsecase) GetOrCreate(employeeID, periodID uuid.UUID, actor *auth.Actor, override bool) (*model.Evaluation, error) {
	if !actor.CanEvaluate {
		return nil, &util.AuthorizationError{Message: "evaluate capability required"}
	}

	visible, err := uc.employeeRepo.IsVisible(actor, employeeID)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, &util.NotFoundError{Message: "employee not found"}
	}

	if ev, err := uc.evaluationRepo.FindByEmployeeAndPeriod(employeeID, periodID); err == nil {
		return ev, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	period, err := uc.periodRepo.FindByID(periodID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &util.NotFoundError{Message: "period not found"}
		}
		return nil, err
	}
	if err := checkPeriodLock(period, actor, override); err != nil {
		return nil, err
	}

	employee, err := uc.employeeRepo.FindByID(employeeID)
	if err != nil {
		return nil, err
	}
	if employee.EvaluationPosition == nil {
		return nil, &util.NotFoundError{Message: "employee has no evaluation position"}
	}
	tmpl, err := uc.templateRepo.ResolveActive(employee.EvaluationPosition.Code)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &util.NotFoundError{
				Message: fmt.Sprintf("no active template for position %s", employee.EvaluationPosition.Code),
			}
		}
		return nil, err
	}

	templateID := tmpl.ID
	ev := &model.Evaluation{
		ID:                 uuid.New(),
		EmployeeID:         employee.ID,
		EvaluatorID:        actor.UserID,
		PeriodID:           period.ID,
		TemplateID:         &templateID,
		Status:             model.StatusDraft,
		FrozenPositionCode: employee.EvaluationPosition.Code,
		FrozenPositionName: employee.EvaluationPosition.Name,
	}

	items := snapshotItems(tmpl)
	if err := uc.evaluationRepo.CreateWithItems(ev, items); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			// Lost the creation race; the winner's row is authoritative.
			return uc.evaluationRepo.FindByEmployeeAndPeriod(employeeID, periodID)
		}
		return nil, err
	}
	return uc.evaluationRepo.FindByID(ev.ID)
}

// snapshotItems flattens the template's ordered sections and questions into
// the immutable item snapshot, numbered 1..N.
func snapshotItems(tmpl *model.EvaluationTemplate) []model.EvaluationItem {
	var items []model.EvaluationItem
	order := uint(1)
	for si := range tmpl.Sections {
		section := &tmpl.Sections[si]
		for qi := range section.Questions {
			q := &section.Questions[qi]
			items = append(items, model.EvaluationItem{
				ID:           uuid.New(),
				SectionTitle: section.Title,
				QuestionText: q.Text,
				QuestionType: q.QuestionType,
				IsRequired:   q.IsRequired,
				DisplayOrder: order,
			})
			order++
		}
	}
	return items
}

// TeamMember pairs a visible employee with their evaluation status in a
// period, empty while no evaluation exists yet.
type TeamMember struct {
	Employee model.Employee
	Status   model.EvaluationStatus
}

// Team lists the actor's visible employees with their per-period evaluation
// state. periodID may be uuid.Nil when the caller only wants the roster.
func (uc *LifecycleUsecase) Team(periodID uuid.UUID, actor *auth.Actor) ([]TeamMember, error) {
	if !actor.CanEvaluate {
		return nil, &util.AuthorizationError{Message: "evaluate capability required"}
	}
	employees, err := uc.employeeRepo.Visible(actor)
	if err != nil {
		return nil, err
	}

	statuses := map[uuid.UUID]model.EvaluationStatus{}
	if periodID != uuid.Nil {
		ids := make([]uuid.UUID, len(employees))
		for i := range employees {
			ids[i] = employees[i].ID
		}
		statuses, err = uc.evaluationRepo.StatusByEmployee(periodID, ids)
		if err != nil {
			return nil, err
		}
	}

	members := make([]TeamMember, len(employees))
	for i := range employees {
		members[i] = TeamMember{Employee: employees[i], Status: statuses[employees[i].ID]}
	}
	return members, nil
}

// SaveInput carries one draft save: answers keyed by item ID plus the
// optional comment updates.
type SaveInput struct {
	Answers          map[uuid.UUID]model.Answer
	EvaluatorComment *string
	OverallComment   *string
	BlockComments    map[string]string
}

// SaveAnswers applies draft answers item by item. Item writes are not
// transactional across the set; a failure mid-save leaves earlier items
// written, but each single item is always in a consistent one-variant state.
func (uc *LifecycleUsecase) SaveAnswers(evaluationID uuid.UUID, input SaveInput, actor *auth.Actor, override bool) (*model.Evaluation, error) {
	ev, err := uc.loadVisible(evaluationID, actor)
	if err != nil {
		return nil, err
	}
	if !actor.CanEvaluate {
		return nil, &util.AuthorizationError{Message: "evaluate capability required"}
	}
	if !uc.CanEdit(ev, actor) {
		return nil, &util.StateError{Message: fmt.Sprintf("evaluation is %s, only DRAFT is editable", ev.Status)}
	}
	if err := checkPeriodLock(ev.Period, actor, override); err != nil {
		return nil, err
	}

	byID := make(map[uuid.UUID]*model.EvaluationItem, len(ev.Items))
	for i := range ev.Items {
		byID[ev.Items[i].ID] = &ev.Items[i]
	}
	for itemID, answer := range input.Answers {
		item, ok := byID[itemID]
		if !ok {
			return nil, &util.NotFoundError{Message: fmt.Sprintf("item %s not part of evaluation", itemID)}
		}
		if err := item.SetAnswer(answer); err != nil {
			return nil, &util.ValidationError{Message: err.Error()}
		}
		if err := uc.evaluationRepo.SaveItem(item); err != nil {
			return nil, err
		}
	}

	if input.EvaluatorComment != nil {
		ev.EvaluatorComment = *input.EvaluatorComment
	}
	if input.OverallComment != nil {
		ev.OverallComment = *input.OverallComment
	}
	if err := uc.evaluationRepo.Update(ev); err != nil {
		return nil, err
	}
	for blockCode, comment := range input.BlockComments {
		if err := uc.evaluationRepo.UpsertBlockComment(ev.ID, blockCode, comment); err != nil {
			return nil, err
		}
	}
	return uc.evaluationRepo.FindByID(ev.ID)
}

// Submit moves DRAFT → SUBMITTED. Every required item must be complete; on
// failure the full ordered offending list is returned and the caller decides
// how to truncate it for display. The completion score becomes FinalScore.
// SubmittedAt is set only the first time, surviving reopen/resubmit cycles.
func (uc *LifecycleUsecase) Submit(evaluationID uuid.UUID, actor *auth.Actor, override bool) (*model.Evaluation, error) {
	ev, err := uc.loadVisible(evaluationID, actor)
	if err != nil {
		return nil, err
	}
	if !actor.CanEvaluate {
		return nil, &util.AuthorizationError{Message: "evaluate capability required"}
	}
	if ev.Status == model.StatusSubmitted {
		return ev, nil // already there, nothing to do
	}
	if ev.Status != model.StatusDraft {
		return nil, &util.StateError{Message: fmt.Sprintf("cannot submit from %s", ev.Status)}
	}
	if err := checkPeriodLock(ev.Period, actor, override); err != nil {
		return nil, err
	}

	var missing []util.MissingItem
	for i := range ev.Items {
		if ev.Items[i].IsRequired && !ev.Items[i].IsComplete() {
			missing = append(missing, util.MissingItem{
				SectionTitle: ev.Items[i].SectionTitle,
				QuestionText: ev.Items[i].QuestionText,
			})
		}
	}
	if len(missing) > 0 {
		return nil, &util.ValidationError{Message: "required questions are unanswered", Items: missing}
	}

	now := uc.now()
	ev.FinalScore = scoring.CompletionScore(ev.Items)
	ev.Status = model.StatusSubmitted
	if ev.SubmittedAt == nil {
		ev.SubmittedAt = &now
	}
	ev.StatusChangedAt = &now
	if err := uc.evaluationRepo.Update(ev); err != nil {
		return nil, err
	}
	return ev, nil
}

// Finalize moves SUBMITTED → FINAL. Requires the elevated capability.
// FinalizedAt is set only once.
func (uc *LifecycleUsecase) Finalize(evaluationID uuid.UUID, actor *auth.Actor, override bool) (*model.Evaluation, error) {
	ev, err := uc.loadVisible(evaluationID, actor)
	if err != nil {
		return nil, err
	}
	if !actor.CanFinalize {
		return nil, &util.AuthorizationError{Message: "finalize capability required"}
	}
	if ev.Status == model.StatusFinal {
		return ev, nil
	}
	if ev.Status != model.StatusSubmitted {
		return nil, &util.StateError{Message: fmt.Sprintf("cannot finalize from %s", ev.Status)}
	}
	if err := checkPeriodLock(ev.Period, actor, override); err != nil {
		return nil, err
	}

	now := uc.now()
	ev.Status = model.StatusFinal
	if ev.FinalizedAt == nil {
		ev.FinalizedAt = &now
	}
	ev.StatusChangedAt = &now
	if err := uc.evaluationRepo.Update(ev); err != nil {
		return nil, err
	}
	return ev, nil
}

// Reopen moves FINAL → DRAFT. A non-empty reason is mandatory no matter the
// caller's capabilities. ReopenedAt is overwritten on every reopen, unlike
// the set-once submit/finalize timestamps.
func (uc *LifecycleUsecase) Reopen(evaluationID uuid.UUID, reason string, actor *auth.Actor, override bool) (*model.Evaluation, error) {
	reason = strings.TrimSpace(reason)
	if reason == "" {
		return nil, &util.ValidationError{Message: "a reopen reason is required"}
	}

	ev, err := uc.loadVisible(evaluationID, actor)
	if err != nil {
		return nil, err
	}
	if !actor.CanFinalize {
		return nil, &util.AuthorizationError{Message: "finalize capability required"}
	}
	if ev.Status != model.StatusFinal {
		return nil, &util.StateError{Message: fmt.Sprintf("cannot reopen from %s", ev.Status)}
	}
	if err := checkPeriodLock(ev.Period, actor, override); err != nil {
		return nil, err
	}

	now := uc.now()
	ev.Status = model.StatusDraft
	ev.ReopenedAt = &now
	ev.ReopenReason = &reason
	ev.StatusChangedAt = &now
	if err := uc.evaluationRepo.Update(ev); err != nil {
		return nil, err
	}
	return ev, nil
}

// WeightedScore exposes the legacy weighted block total for an evaluation.
// It is a read-only statistic and never written back to FinalScore.
func (uc *LifecycleUsecase) WeightedScore(evaluationID uuid.UUID) (decimal.Decimal, error) {
	ev, err := uc.evaluationRepo.FindByID(evaluationID)
	if err != nil {
		return decimal.Zero, err
	}
	if ev.TemplateID == nil {
		return decimal.Zero, nil
	}
	blocks, err := uc.templateRepo.BlocksForTemplate(*ev.TemplateID)
	if err != nil {
		return decimal.Zero, err
	}
	legacyScores, err := uc.templateRepo.ScoresForEvaluation(ev.ID)
	if err != nil {
		return decimal.Zero, err
	}
	scores := make(map[uuid.UUID]decimal.Decimal, len(legacyScores))
	for i := range legacyScores {
		scores[legacyScores[i].TemplateItemID] = decimal.NewFromInt(int64(legacyScores[i].Score))
	}
	return scoring.WeightedBlockScore(blocks, scores), nil
}

// loadVisible fetches an evaluation and hides it from actors whose employee
// scope does not include its subject.
func (uc *LifecycleUsecase) loadVisible(evaluationID uuid.UUID, actor *auth.Actor) (*model.Evaluation, error) {
	ev, err := uc.evaluationRepo.FindByID(evaluationID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, &util.NotFoundError{Message: "evaluation not found"}
		}
		return nil, err
	}
	visible, err := uc.employeeRepo.IsVisible(actor, ev.EmployeeID)
	if err != nil {
		return nil, err
	}
	if !visible {
		return nil, &util.NotFoundError{Message: "evaluation not found"}
	}
	if ev.Period == nil {
		period, err := uc.periodRepo.FindByID(ev.PeriodID)
		if err != nil {
			return nil, err
		}
		ev.Period = period
	}
	return ev, nil
}
