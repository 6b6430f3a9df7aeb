package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/fadilmartias/evaltrack/internal/auth"
	"github.com/fadilmartias/evaltrack/internal/dto"
	"github.com/fadilmartias/evaltrack/internal/middleware"
	"github.com/fadilmartias/evaltrack/internal/model"
	"github.com/fadilmartias/evaltrack/internal/usecase"
	"github.com/fadilmartias/evaltrack/internal/util"
)

type EvaluationHandler struct {
	lifecycleUC *usecase.LifecycleUsecase
}

func NewEvaluationHandler(lifecycleUC *usecase.LifecycleUsecase) *EvaluationHandler {
	return &EvaluationHandler{lifecycleUC: lifecycleUC}
}

func (h *EvaluationHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/my-team", h.MyTeam)
	app.Get("/evaluations/:employeeID", h.GetOrCreate)
	app.Post("/evaluations/:id/action", h.Action)
	app.Get("/evaluations/:id/weighted-score", h.WeightedScore)
}

// MyTeam lists the employees the caller may evaluate, with their evaluation
// status in the period when the period query parameter is given.
func (h *EvaluationHandler) MyTeam(c *fiber.Ctx) error {
	actor := middleware.ActorFrom(c)
	periodID := uuid.Nil
	if raw := c.Query("period"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			return util.ErrorResponse(c, util.ErrorResponseFormat{
				Code: fiber.StatusBadRequest, Message: "invalid period id",
			}, err)
		}
		periodID = id
	}

	members, err := h.lifecycleUC.Team(periodID, actor)
	if err != nil {
		return util.DomainErrorResponse(c, err)
	}
	rows := make([]dto.TeamMemberDTO, 0, len(members))
	for i := range members {
		rows = append(rows, dto.NewTeamMemberDTO(&members[i].Employee, members[i].Status))
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get team",
		Data:    rows,
	})
}

// GetOrCreate returns the evaluation for (employee, period), creating it
// from the resolved template on first access.
func (h *EvaluationHandler) GetOrCreate(c *fiber.Ctx) error {
	actor := middleware.ActorFrom(c)
	employeeID, err := uuid.Parse(c.Params("employeeID"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: "invalid employee id",
		}, err)
	}
	periodID, err := uuid.Parse(c.Query("period"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: "period query parameter is required",
		}, err)
	}
	override := c.Query("override") == "1"

	ev, err := h.lifecycleUC.GetOrCreate(employeeID, periodID, actor, override)
	if err != nil {
		return util.DomainErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get evaluation",
		Data:    h.evaluationDTO(ev, actor),
	})
}

// Action dispatches on the action discriminator: save, submit, finalize or
// reopen.
func (h *EvaluationHandler) Action(c *fiber.Ctx) error {
	actor := middleware.ActorFrom(c)
	evaluationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: "invalid evaluation id",
		}, err)
	}

	var req dto.EvaluationActionRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: "invalid request body",
		}, err)
	}

	var ev *model.Evaluation
	switch req.Action {
	case "save":
		input := usecase.SaveInput{
			Answers:          make(map[uuid.UUID]model.Answer, len(req.Answers)),
			EvaluatorComment: req.EvaluatorComment,
			OverallComment:   req.OverallComment,
			BlockComments:    req.BlockComments,
		}
		for _, a := range req.Answers {
			input.Answers[a.ItemID] = a.Answer()
		}
		ev, err = h.lifecycleUC.SaveAnswers(evaluationID, input, actor, req.Override)
	case "submit":
		ev, err = h.lifecycleUC.Submit(evaluationID, actor, req.Override)
	case "finalize":
		ev, err = h.lifecycleUC.Finalize(evaluationID, actor, req.Override)
	case "reopen":
		ev, err = h.lifecycleUC.Reopen(evaluationID, req.ReopenReason, actor, req.Override)
	default:
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: "unknown action",
		})
	}
	if err != nil {
		return util.DomainErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success " + req.Action,
		Data:    h.evaluationDTO(ev, actor),
	})
}

// WeightedScore exposes the legacy weighted block total for statistics.
func (h *EvaluationHandler) WeightedScore(c *fiber.Ctx) error {
	actor := middleware.ActorFrom(c)
	if !actor.CanViewReporting && !actor.CanEvaluate {
		return util.DomainErrorResponse(c, &util.AuthorizationError{Message: "reporting capability required"})
	}
	evaluationID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: "invalid evaluation id",
		}, err)
	}
	score, err := h.lifecycleUC.WeightedScore(evaluationID)
	if err != nil {
		return util.DomainErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get weighted score",
		Data:    fiber.Map{"weighted_block_score": score},
	})
}

func (h *EvaluationHandler) evaluationDTO(ev *model.Evaluation, actor *auth.Actor) dto.EvaluationDTO {
	return dto.NewEvaluationDTO(ev,
		h.lifecycleUC.CanEdit(ev, actor),
		h.lifecycleUC.CanFinalize(ev, actor),
		h.lifecycleUC.CanReopen(ev, actor),
	)
}
