package usecase

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/fadilmartias/evaltrack/internal/auth"
	"github.com/fadilmartias/evaltrack/internal/model"
	"github.com/fadilmartias/evaltrack/internal/repository"
	"github.com/fadilmartias/evaltrack/internal/service"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&model.Department{},
		&model.Position{},
		&model.Employee{},
		&model.EvaluationPeriod{},
		&model.EvaluationTemplate{},
		&model.TemplateSection{},
		&model.TemplateQuestion{},
		&model.TemplateBlock{},
		&model.TemplateItem{},
		&model.Evaluation{},
		&model.EvaluationItem{},
		&model.EvaluationBlockComment{},
		&model.EvaluationScore{},
		&model.ReportFilterPreset{},
	))
	return db
}

// capturingSink records export events for assertions.
type capturingSink struct {
	mu     sync.Mutex
	events []service.ExportEvent
}

func (s *capturingSink) EmitExportEvent(_ context.Context, event service.ExportEvent) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.events = append(s.events, event)
}

func (s *capturingSink) Events() []service.ExportEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]service.ExportEvent, len(s.events))
	copy(out, s.events)
	return out
}

type fixture struct {
	db *gorm.DB

	evaluationRepo *repository.EvaluationRepository
	employeeRepo   *repository.EmployeeRepository
	periodRepo     *repository.PeriodRepository
	templateRepo   *repository.TemplateRepository
	presetRepo     *repository.PresetRepository

	lifecycleUC *LifecycleUsecase
	reportUC    *ReportUsecase
	exportUC    *ExportUsecase
	sink        *capturingSink

	manager auth.Actor // evaluates own team
	admin   auth.Actor // full capability set

	period   *model.EvaluationPeriod
	position *model.Position
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := newTestDB(t)

	f := &fixture{
		db:             db,
		evaluationRepo: repository.NewEvaluationRepository(db),
		employeeRepo:   repository.NewEmployeeRepository(db),
		periodRepo:     repository.NewPeriodRepository(db),
		templateRepo:   repository.NewTemplateRepository(db),
		presetRepo:     repository.NewPresetRepository(db),
		sink:           &capturingSink{},
		manager: auth.Actor{
			UserID:      uuid.New(),
			Username:    "mgr",
			RoleLabel:   "MANAGER",
			CanEvaluate: true,
		},
		admin: auth.Actor{
			UserID:             uuid.New(),
			Username:           "hr",
			RoleLabel:          "HR_ADMIN",
			CanEvaluate:        true,
			CanFinalize:        true,
			CanOverrideLock:    true,
			CanViewReporting:   true,
			CanManageEmployees: true,
		},
	}
	f.lifecycleUC = NewLifecycleUsecase(f.evaluationRepo, f.employeeRepo, f.periodRepo, f.templateRepo)
	f.reportUC = NewReportUsecase(f.evaluationRepo, f.employeeRepo, f.periodRepo, f.presetRepo)
	f.exportUC = NewExportUsecase(f.reportUC, f.evaluationRepo, f.sink, "http://app.test")

	dept := &model.Department{ID: uuid.New(), Name: "Dept"}
	require.NoError(t, db.Create(dept).Error)
	f.position = &model.Position{
		ID:                uuid.New(),
		Code:              "P99",
		Name:              "Pos",
		DepartmentID:      dept.ID,
		ProfessionalGroup: "GP1",
		IsActive:          true,
	}
	require.NoError(t, db.Create(f.position).Error)

	f.period = &model.EvaluationPeriod{ID: uuid.New(), Name: "2026 Annual"}
	require.NoError(t, db.Create(f.period).Error)

	return f
}

// seedTemplate installs an active template for the fixture position: two
// sections, three questions, two of them required.
func (f *fixture) seedTemplate(t *testing.T) *model.EvaluationTemplate {
	t.Helper()
	tmpl := &model.EvaluationTemplate{
		ID:       uuid.New(),
		BaseCode: f.position.Code,
		Version:  1,
		IsActive: true,
	}
	require.NoError(t, f.db.Create(tmpl).Error)

	sectionA := &model.TemplateSection{
		ID: uuid.New(), EvaluationTemplateID: tmpl.ID, Title: "Block A - Core", Order: 1,
	}
	sectionB := &model.TemplateSection{
		ID: uuid.New(), EvaluationTemplateID: tmpl.ID, Title: "Block B - Extras", Order: 2,
	}
	require.NoError(t, f.db.Create(sectionA).Error)
	require.NoError(t, f.db.Create(sectionB).Error)

	questions := []model.TemplateQuestion{
		{ID: uuid.New(), TemplateSectionID: sectionA.ID, Text: "Delivers on commitments", QuestionType: model.QuestionScale, IsRequired: true, Order: 1},
		{ID: uuid.New(), TemplateSectionID: sectionA.ID, Text: "Completed onboarding", QuestionType: model.QuestionYesNo, IsRequired: true, Order: 2},
		{ID: uuid.New(), TemplateSectionID: sectionB.ID, Text: "Anything else", QuestionType: model.QuestionText, IsRequired: false, Order: 1},
	}
	require.NoError(t, f.db.Create(&questions).Error)
	return tmpl
}

// seedEmployee creates an active employee managed by a user and holding the
// fixture position.
func (f *fixture) seedEmployee(t *testing.T, name, dni string, managerID uuid.UUID) *model.Employee {
	t.Helper()
	posID := f.position.ID
	emp := &model.Employee{
		ID:                   uuid.New(),
		DNI:                  dni,
		FullName:             name,
		IsActive:             true,
		EvaluationPositionID: &posID,
		ManagerID:            &managerID,
	}
	require.NoError(t, f.db.Create(emp).Error)
	return emp
}

// completeAndGet answers every required item of a fresh evaluation.
func (f *fixture) answerRequired(t *testing.T, ev *model.Evaluation, scale int16) {
	t.Helper()
	answers := map[uuid.UUID]model.Answer{}
	for i := range ev.Items {
		switch ev.Items[i].QuestionType {
		case model.QuestionScale:
			answers[ev.Items[i].ID] = model.ScaleAnswer(scale)
		case model.QuestionYesNo:
			answers[ev.Items[i].ID] = model.YesNoAnswer(true)
		}
	}
	_, err := f.lifecycleUC.SaveAnswers(ev.ID, SaveInput{Answers: answers}, &f.manager, false)
	require.NoError(t, err)
}

func seedName(i int) (string, string) {
	return fmt.Sprintf("Emp %02d", i), fmt.Sprintf("DNI%02d", i)
}
