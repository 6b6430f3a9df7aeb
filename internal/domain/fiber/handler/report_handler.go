package handler

import (
	"context"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"github.com/fadilmartias/evaltrack/internal/auth"
	"github.com/fadilmartias/evaltrack/internal/dto"
	"github.com/fadilmartias/evaltrack/internal/middleware"
	"github.com/fadilmartias/evaltrack/internal/response"
	"github.com/fadilmartias/evaltrack/internal/usecase"
	"github.com/fadilmartias/evaltrack/internal/util"
)

type ReportHandler struct {
	reportUC *usecase.ReportUsecase
	exportUC *usecase.ExportUsecase
}

func NewReportHandler(reportUC *usecase.ReportUsecase, exportUC *usecase.ExportUsecase) *ReportHandler {
	return &ReportHandler{reportUC: reportUC, exportUC: exportUC}
}

func (h *ReportHandler) RegisterRoutes(app *fiber.App) {
	app.Get("/reports/periods/:periodID", h.Report)
	app.Get("/reports/periods/:periodID/export.csv", h.ExportSummaryCSV)
	app.Get("/reports/periods/:periodID/export_items.csv", h.ExportItemsCSV)
	app.Get("/reports/periods/:periodID/export.xlsx", h.ExportXLSX)
	app.Get("/reports/presets", h.ListPresets)
	app.Post("/reports/presets", h.CreatePreset)
	app.Get("/reports/presets/:id", h.GetPreset)
}

func (h *ReportHandler) periodParam(c *fiber.Ctx) (uuid.UUID, error) {
	return uuid.Parse(c.Params("periodID"))
}

// Report returns one filtered, sorted page of the period's evaluations.
// The canonical querystring is echoed so the UI can build stable links.
func (h *ReportHandler) Report(c *fiber.Ctx) error {
	actor := middleware.ActorFrom(c)
	periodID, err := h.periodParam(c)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: "invalid period id",
		}, err)
	}
	params := usecase.ParseReportParams(func(key string) string { return c.Query(key) })

	result, err := h.reportUC.Run(periodID, params, actor)
	if err != nil {
		return util.DomainErrorResponse(c, err)
	}

	rows := make([]dto.ReportRowDTO, 0, len(result.Evaluations))
	for i := range result.Evaluations {
		rows = append(rows, dto.NewReportRowDTO(&result.Evaluations[i]))
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message:    "Success get report",
		Data:       rows,
		Pagination: response.NewPagination(params.Page, params.PageSize, result.Total),
		Meta: fiber.Map{
			"period":       result.Period.Name,
			"query_string": result.QueryString,
		},
	})
}

func (h *ReportHandler) ExportSummaryCSV(c *fiber.Ctx) error {
	return h.exportCSV(c, h.exportUC.SummaryCSV)
}

func (h *ReportHandler) ExportItemsCSV(c *fiber.Ctx) error {
	return h.exportCSV(c, h.exportUC.ItemsCSV)
}

type csvRenderFunc func(ctx context.Context, periodID uuid.UUID, params usecase.ReportParams, actor *auth.Actor) (*usecase.FileExport, error)

func (h *ReportHandler) exportCSV(c *fiber.Ctx, render csvRenderFunc) error {
	actor := middleware.ActorFrom(c)
	periodID, err := h.periodParam(c)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: "invalid period id",
		}, err)
	}
	params := usecase.ParseReportParams(func(key string) string { return c.Query(key) })

	file, err := render(c.Context(), periodID, params, actor)
	if err != nil {
		return util.DomainErrorResponse(c, err)
	}
	c.Set(fiber.HeaderContentType, file.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+file.Filename+`"`)
	return c.Send(file.Content)
}

// ExportXLSX renders the combined workbook, or the confirmation payload
// when the scoped item count crosses the soft threshold without confirm=1.
func (h *ReportHandler) ExportXLSX(c *fiber.Ctx) error {
	actor := middleware.ActorFrom(c)
	periodID, err := h.periodParam(c)
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: "invalid period id",
		}, err)
	}
	params := usecase.ParseReportParams(func(key string) string { return c.Query(key) })

	result, err := h.exportUC.XLSX(c.Context(), periodID, params, actor)
	if err != nil {
		return util.DomainErrorResponse(c, err)
	}
	if result.Confirmation != nil {
		return util.SuccessResponse(c, util.SuccessResponseFormat{
			Message: "Confirmation required for large export",
			Data: fiber.Map{
				"confirmation_required": true,
				"item_count":            result.Confirmation.ItemCount,
				"continue_url":          result.Confirmation.ContinueURL,
			},
		})
	}
	c.Set(fiber.HeaderContentType, result.File.ContentType)
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+result.File.Filename+`"`)
	return c.Send(result.File.Content)
}

func (h *ReportHandler) ListPresets(c *fiber.Ctx) error {
	actor := middleware.ActorFrom(c)
	scope := c.Query("scope")
	presets, err := h.reportUC.ListPresets(scope, actor)
	if err != nil {
		return util.DomainErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success list presets",
		Data:    presets,
	})
}

// GetPreset loads one saved preset, own or shared.
func (h *ReportHandler) GetPreset(c *fiber.Ctx) error {
	actor := middleware.ActorFrom(c)
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: "invalid preset id",
		}, err)
	}
	preset, err := h.reportUC.GetPreset(id, actor)
	if err != nil {
		return util.DomainErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Message: "Success get preset",
		Data:    preset,
	})
}

// CreatePreset saves the current normalized filters under a name. The
// stored canonical querystring round-trips through ParseReportParams.
func (h *ReportHandler) CreatePreset(c *fiber.Ctx) error {
	actor := middleware.ActorFrom(c)
	var req dto.PresetCreateRequest
	if err := c.BodyParser(&req); err != nil {
		return util.ErrorResponse(c, util.ErrorResponseFormat{
			Code: fiber.StatusBadRequest, Message: "invalid request body",
		}, err)
	}
	params := usecase.ParseReportParams(func(key string) string { return c.Query(key) })

	preset, err := h.reportUC.SavePreset(req.Name, req.Scope, params, req.IsShared, actor)
	if err != nil {
		return util.DomainErrorResponse(c, err)
	}
	return util.SuccessResponse(c, util.SuccessResponseFormat{
		Code:    fiber.StatusCreated,
		Message: "Success create preset",
		Data:    preset,
	})
}
