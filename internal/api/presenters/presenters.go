package presenters

import (
	"Fridge-Management-Backend/domain"
	"errors"

	"github.com/gofiber/fiber/v2"
)

type Response struct {
	Status  string `json:"status"`
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Data    any    `json:"data,omitempty"`
	Error   string `json:"error,omitempty"`
}

func SuccessResponse(c *fiber.Ctx, data any, status int, message string) error {
	return c.Status(status).JSON(Response{
		Status:  "success",
		Message: message,
		Data:    data,
	})
}

// ErrorResponse answers with the coded status carried by a *domain.Error when
// the error chain holds one, falling back to the handler's default status.
func ErrorResponse(c *fiber.Ctx, status int, message string, err error) error {
	res := Response{
		Status:  "error",
		Message: message,
	}

	var domainErr *domain.Error
	if errors.As(err, &domainErr) {
		status = domainErr.HTTPStatus
		res.Code = domainErr.Code
		res.Error = domainErr.Message
	} else if err != nil {
		res.Error = err.Error()
	}

	return c.Status(status).JSON(res)
}
