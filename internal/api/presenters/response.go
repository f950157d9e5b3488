package presenters

import (
	"github.com/gofiber/fiber/v2"
)

type (
	ErrorBody struct {
		Message string `json:"message"`
		Error   string `json:"error"`
	}

	MessageBody struct {
		Message string `json:"message"`
	}
)

func JSON(c *fiber.Ctx, status int, data interface{}) error {
	return c.Status(status).JSON(data)
}

func MessageResponse(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(MessageBody{Message: message})
}

func ErrorResponse(c *fiber.Ctx, status int, message string, err error) error {
	body := ErrorBody{Message: message}
	if err != nil {
		body.Error = err.Error()
	}
	return c.Status(status).JSON(body)
}
