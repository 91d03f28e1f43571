package handlers

import (
	"github.com/gofiber/fiber/v2"

	"threadflow/internal/transfer"
)

func jsonOK(c *fiber.Ctx, data interface{}, message string) error {
	return c.JSON(transfer.NewResponse(true, data, message))
}

func jsonError(c *fiber.Ctx, status int, err error, message string) error {
	return c.Status(status).JSON(transfer.NewErrorResponse(err, message))
}
