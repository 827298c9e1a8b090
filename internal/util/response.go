package util

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/hireflow-ai/hireflow/internal/apperr"
)

type SuccessResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
	Data    any    `json:"data,omitempty"`
}

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func Success(c *fiber.Ctx, status int, message string, data any) error {
	return c.Status(status).JSON(SuccessResponse{Success: true, Message: message, Data: data})
}

// Error maps the shared error taxonomy to HTTP statuses: validation 400,
// not found 404, state conflict 409, unparseable extraction 422, failed
// model invocation 502, anything else 500.
func Error(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	message := "internal server error"

	var (
		validation *apperr.ValidationError
		notFound   *apperr.NotFoundError
		conflict   *apperr.StateConflictError
		parse      *apperr.ExtractionParseError
		invocation *apperr.ModelInvocationError
	)
	switch {
	case errors.As(err, &validation):
		status, message = fiber.StatusBadRequest, validation.Error()
	case errors.As(err, &notFound):
		status, message = fiber.StatusNotFound, notFound.Error()
	case errors.As(err, &conflict):
		status, message = fiber.StatusConflict, conflict.Error()
	case errors.As(err, &parse):
		status, message = fiber.StatusUnprocessableEntity, parse.Error()
	case errors.As(err, &invocation):
		status, message = fiber.StatusBadGateway, invocation.Error()
	}
	return c.Status(status).JSON(ErrorResponse{Success: false, Message: message})
}
