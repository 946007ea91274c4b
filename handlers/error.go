package handlers

import (
	stderrors "errors"

	"capsule/errors"

	"github.com/gofiber/fiber/v2"
	"github.com/sirupsen/logrus"
)

// ErrorHandler maps application errors onto JSON responses. AppError codes
// pass through; anything else becomes an opaque 500.
func ErrorHandler(c *fiber.Ctx, err error) error {
	var appErr *errors.AppError
	if stderrors.As(err, &appErr) {
		if appErr.Code >= fiber.StatusInternalServerError {
			logrus.WithError(appErr.Err).WithField("op", appErr.Op).Error("Request failed")
		}
		return c.Status(appErr.Code).JSON(fiber.Map{"error": appErr.Message})
	}

	var fiberErr *fiber.Error
	if stderrors.As(err, &fiberErr) {
		return c.Status(fiberErr.Code).JSON(fiber.Map{"error": fiberErr.Message})
	}

	logrus.WithError(err).Error("Unhandled request error")
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": "An error occurred while processing your request. Please try again later.",
	})
}
