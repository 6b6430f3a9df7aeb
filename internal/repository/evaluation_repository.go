package repository

import (
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fadilmartias/evaltrack/internal/model"
	"github.com/fadilmartias/evaltrack/internal/scoring"
)

type EvaluationRepository struct {
	db *gorm.DB
}

func NewEvaluationRepository(db *gorm.DB) *EvaluationRepository {
	return &EvaluationRepository{db}
}

func itemOrder(db *gorm.DB) *gorm.DB {
	return db.Order("display_order, id")
}

func (r *EvaluationRepository) FindByID(id uuid.UUID) (*model.Evaluation, error) {
	var ev model.Evaluation
	err := r.db.
		Preload("Employee.EvaluationPosition").
		Preload("Period").
		Preload("Items", itemOrder).
		Preload("BlockComments").
		First(&ev, "id = ?", id).Error
	return &ev, err
}

func (r *EvaluationRepository) FindByEmployeeAndPeriod(employeeID, periodID uuid.UUID) (*model.Evaluation, error) {
	var ev model.Evaluation
	err := r.db.
		Preload("Employee.EvaluationPosition").
		Preload("Period").
		Preload("Items", itemOrder).
		Preload("BlockComments").
		First(&ev, "employee_id = ? AND period_id = ?", employeeID, periodID).Error
	return &ev, err
}

// CreateWithItems persists a new evaluation and its item snapshot in one
// transaction. A unique-constraint violation on (employee, period) is passed
// through as gorm.ErrDuplicatedKey for the caller to resolve.
func (r *EvaluationRepository) CreateWithItems(ev *model.Evaluation, items []model.EvaluationItem) error {
	return r.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(ev).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return nil
		}
		for i := range items {
			items[i].EvaluationID = ev.ID
		}
		return tx.Create(&items).Error
	})
}

// Update writes the evaluation's mutable columns under a single atomic
// update scoped to the row.
func (r *EvaluationRepository) Update(ev *model.Evaluation) error {
	return r.db.Model(ev).
		Select("status", "evaluator_comment", "overall_comment", "final_score",
			"submitted_at", "finalized_at", "reopened_at", "status_changed_at", "reopen_reason").
		Updates(ev).Error
}

func (r *EvaluationRepository) SaveItem(item *model.EvaluationItem) error {
	return r.db.Model(item).
		Select("value_scale", "value_yes_no", "value_text").
		Updates(map[string]any{
			"value_scale":  item.ValueScale,
			"value_yes_no": item.ValueYesNo,
			"value_text":   item.ValueText,
		}).Error
}

// UpsertBlockComment writes one per-block comment, replacing any previous
// text for the same (evaluation, block_code).
func (r *EvaluationRepository) UpsertBlockComment(evaluationID uuid.UUID, blockCode, comment string) error {
	var existing model.EvaluationBlockComment
	err := r.db.First(&existing, "evaluation_id = ? AND block_code = ?", evaluationID, blockCode).Error
	if err == nil {
		return r.db.Model(&existing).Update("comment", comment).Error
	}
	if err != gorm.ErrRecordNotFound {
		return err
	}
	return r.db.Create(&model.EvaluationBlockComment{
		ID:           uuid.New(),
		EvaluationID: evaluationID,
		BlockCode:    blockCode,
		Comment:      comment,
	}).Error
}

// StatusByEmployee maps each listed employee to their evaluation status in
// the period. Employees without an evaluation yet are simply absent.
func (r *EvaluationRepository) StatusByEmployee(periodID uuid.UUID, employeeIDs []uuid.UUID) (map[uuid.UUID]model.EvaluationStatus, error) {
	if len(employeeIDs) == 0 {
		return map[uuid.UUID]model.EvaluationStatus{}, nil
	}
	var rows []struct {
		EmployeeID uuid.UUID
		Status     model.EvaluationStatus
	}
	err := r.db.Model(&model.Evaluation{}).
		Select("employee_id, status").
		Where("period_id = ? AND employee_id IN ?", periodID, employeeIDs).
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	statuses := make(map[uuid.UUID]model.EvaluationStatus, len(rows))
	for _, row := range rows {
		statuses[row.EmployeeID] = row.Status
	}
	return statuses, nil
}

// EvaluationQuery is the already-normalized filter set a report view
// executes. EmployeeIDs is the caller's visible scope and always applies.
type EvaluationQuery struct {
	PeriodID    uuid.UUID
	EmployeeIDs []uuid.UUID
	Status      model.EvaluationStatus // zero value: no status filter
	Search      string                 // matched against employee name OR dni
	SortColumn  string                 // SQL column expression, whitelisted upstream
	Descending  bool
	Offset      int
	Limit       int // 0: no slice, full filtered set
}

func (r *EvaluationRepository) reportQuery(q EvaluationQuery) *gorm.DB {
	db := r.db.Model(&model.Evaluation{}).
		Joins("JOIN employees ON employees.id = evaluations.employee_id").
		Where("evaluations.period_id = ?", q.PeriodID).
		Where("evaluations.employee_id IN ?", q.EmployeeIDs)
	if q.Status != "" {
		db = db.Where("evaluations.status = ?", q.Status)
	}
	if q.Search != "" {
		needle := "%" + strings.ToLower(q.Search) + "%"
		db = db.Where("LOWER(employees.full_name) LIKE ? OR LOWER(employees.dni) LIKE ?", needle, needle)
	}
	return db
}

// CountAndList runs one report query: total count over the filtered set,
// then the requested slice ordered by the sort column with employee_id as
// the stable tiebreaker.
func (r *EvaluationRepository) CountAndList(q EvaluationQuery) (int64, []model.Evaluation, error) {
	if len(q.EmployeeIDs) == 0 {
		return 0, nil, nil
	}

	var total int64
	if err := r.reportQuery(q).Count(&total).Error; err != nil {
		return 0, nil, err
	}

	dir := "asc"
	if q.Descending {
		dir = "desc"
	}
	db := r.reportQuery(q).
		Preload("Employee.EvaluationPosition").
		Preload("Period").
		Order(q.SortColumn + " " + dir).
		Order("evaluations.employee_id asc")
	if q.Limit > 0 {
		db = db.Offset(q.Offset).Limit(q.Limit)
	}

	var evals []model.Evaluation
	if err := db.Find(&evals).Error; err != nil {
		return 0, nil, err
	}
	return total, evals, nil
}

// ItemCount counts items across the scoped evaluations, the number the
// export guardrails are evaluated on.
func (r *EvaluationRepository) ItemCount(evaluationIDs []uuid.UUID) (int64, error) {
	if len(evaluationIDs) == 0 {
		return 0, nil
	}
	var count int64
	err := r.db.Model(&model.EvaluationItem{}).
		Where("evaluation_id IN ?", evaluationIDs).
		Count(&count).Error
	return count, err
}

// ItemsForEvaluations loads detail rows in the export order
// (evaluation id, display_order, item id).
func (r *EvaluationRepository) ItemsForEvaluations(evaluationIDs []uuid.UUID) ([]model.EvaluationItem, error) {
	if len(evaluationIDs) == 0 {
		return nil, nil
	}
	var items []model.EvaluationItem
	err := r.db.Where("evaluation_id IN ?", evaluationIDs).
		Order("evaluation_id, display_order, id").
		Find(&items).Error
	return items, err
}

// StatRows joins answered scale items with their evaluation's frozen
// position code for the per-block statistics sheet.
func (r *EvaluationRepository) StatRows(evaluationIDs []uuid.UUID) ([]scoring.StatRow, error) {
	if len(evaluationIDs) == 0 {
		return nil, nil
	}
	var rows []scoring.StatRow
	err := r.db.Model(&model.EvaluationItem{}).
		Select("evaluation_items.evaluation_id, evaluations.frozen_position_code AS position_code, evaluation_items.section_title, evaluation_items.value_scale").
		Joins("JOIN evaluations ON evaluations.id = evaluation_items.evaluation_id").
		Where("evaluation_items.evaluation_id IN ?", evaluationIDs).
		Where("evaluation_items.question_type = ?", model.QuestionScale).
		Scan(&rows).Error
	return rows, err
}
