package handler

import (
	"errors"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/fadilmartias/evaltrack/internal/middleware"
	"github.com/fadilmartias/evaltrack/internal/repository"
	"github.com/fadilmartias/evaltrack/internal/util"
)

type PeriodHandler struct {
	periodRepo *repository.PeriodRepository
}

func NewPeriodHandler(periodRepo *repository.PeriodRepository) *PeriodHandler {
	return &PeriodHandler{periodRepo: periodRepo}
}

func (h *PeriodHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/periods", h.List)
	app.Post("/periods/:id/close", h.Close)
	app.Post("/periods/:id/open", h.Open)
}

func (h *PeriodHandler) List(c *fiber.Ctx) error {
	periods, err := h.periodRepo.List()
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{Message: "failed to list periods"}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success list periods",
		Data:    periods,
	})
}

// Close locks a period; closing twice is a no-op.
func (h *PeriodHandler) Close(c *fiber.Ctx) error {
	return h.toggle(c, true)
}

// Open unlocks a period; opening twice is a no-op.
func (h *PeriodHandler) Open(c *fiber.Ctx) error {
	return h.toggle(c, false)
}

func (h *PeriodHandler) toggle(c *fiber.Ctx, close bool) error {
	actor := middleware.ActorFrom(c)
	if !actor.CanManageEmployees {
		return util.DomainErrorResponse(c, &util.AuthorizationError{Message: "manage capability required"})
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: "invalid period id",
		}, err)
	}
	period, err := h.periodRepo.FindByID(id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.DomainErrorResponse(c, &util.NotFoundError{Message: "period not found"})
		}
		return util.ErrorResponse(c, util.ErrorResponseFormat{Message: "failed to load period"}, err)
	}

	if close && !period.IsClosed {
		err = h.periodRepo.Close(period, time.Now())
	} else if !close && period.IsClosed {
		err = h.periodRepo.Open(period)
	}
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{Message: "failed to update period"}, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success update period",
		Data:    period,
	})
}
