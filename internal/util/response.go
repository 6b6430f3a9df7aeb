package util

import (
	"errors"
	"runtime/debug"

	"github.com/fadilmartias/evaltrack/internal/config"
	"github.com/fadilmartias/evaltrack/internal/response"
	"github.com/gofiber/fiber/v2"
)

type SuccessResponseFormat struct {
	Code       int
	Message    string
	Data       any
	Pagination *response.Pagination
	Meta       any
}

type OrderedSuccessResponse struct {
	Success    bool                 `json:"success"`
	Message    string               `json:"message"`
	Meta       any                  `json:"meta,omitempty"`
	Pagination *response.Pagination `json:"pagination,omitempty"`
	Data       any                  `json:"data,omitempty"`
}

type ErrorResponseFormat struct {
	Code       int
	Message    string
	DevMessage string
	Details    any
	Trace      string
}

type OrderedErrorResponse struct {
	Success    bool   `json:"success"`
	Message    string `json:"message"`
	DevMessage string `json:"dev_message,omitempty"`
	Details    any    `json:"details,omitempty"`
	Trace      string `json:"trace,omitempty"`
}

// SuccessResponse sends the standard JSON envelope for success.
func SuccessResponse(c *fiber.Ctx, params SuccessResponseFormat) error {
	code := params.Code
	if code == 0 {
		code = fiber.StatusOK
	}
	return c.Status(code).JSON(OrderedSuccessResponse{
		Success:    true,
		Message:    params.Message,
		Data:       params.Data,
		Pagination: params.Pagination,
		Meta:       params.Meta,
	})
}

// ErrorResponse sends the standard JSON envelope for errors.
func ErrorResponse(c *fiber.Ctx, params ErrorResponseFormat, errs ...error) error {
	resp := OrderedErrorResponse{
		Success: false,
		Message: params.Message,
	}
	if params.Details != nil {
		resp.Details = params.Details
	}
	if config.LoadAppConfig().Env != "production" {
		if len(errs) > 0 && errs[0] != nil {
			resp.DevMessage = errs[0].Error()
			resp.Trace = string(debug.Stack())
		}
		if params.DevMessage != "" {
			resp.DevMessage = params.DevMessage
		}
		if params.Trace != "" {
			resp.Trace = params.Trace
		}
	}

	code := params.Code
	if code == 0 {
		code = fiber.StatusInternalServerError
	}
	return c.Status(code).JSON(resp)
}

// DomainErrorResponse maps the usecase error taxonomy onto HTTP statuses.
// Authorization and not-found collapse into the same access-denied reply so
// callers cannot probe for existence.
func DomainErrorResponse(c *fiber.Ctx, err error) error {
	var (
		validationErr *ValidationError
		stateErr      *StateError
		authErr       *AuthorizationError
		lockErr       *LockError
		notFoundErr   *NotFoundError
		capacityErr   *CapacityError
	)
	switch {
	case errors.As(err, &validationErr):
		return ErrorResponse(c, ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: validationErr.Message,
			Details: fiber.Map{"missing_items": validationErr.Items},
		})
	case errors.As(err, &stateErr):
		return ErrorResponse(c, ErrorResponseFormat{
			Code:    fiber.StatusConflict,
			Message: stateErr.Message,
		})
	case errors.As(err, &authErr), errors.As(err, &notFoundErr):
		return ErrorResponse(c, ErrorResponseFormat{
			Code:    fiber.StatusForbidden,
			Message: "access denied",
		})
	case errors.As(err, &lockErr):
		return ErrorResponse(c, ErrorResponseFormat{
			Code:    fiber.StatusLocked,
			Message: lockErr.Message,
		})
	case errors.As(err, &capacityErr):
		return ErrorResponse(c, ErrorResponseFormat{
			Code:    fiber.StatusBadRequest,
			Message: capacityErr.Message,
			Details: fiber.Map{"item_count": capacityErr.ItemCount},
		})
	}
	return ErrorResponse(c, ErrorResponseFormat{
		Message: "internal error",
	}, err)
}
