package handlers

import (
	"errors"

	"walletwise/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const negativeBalanceWarning = "Wallet balance became negative"

func fail(c *fiber.Ctx, status int, message string) error {
	return c.Status(status).JSON(fiber.Map{
		"success": false,
		"message": message,
	})
}

// serviceError maps service errors to a status and a message safe for
// clients. Anything unrecognised is logged and reported as a 500 with
// fallback as the message.
func serviceError(c *fiber.Ctx, logger *zap.Logger, err error, fallback string) error {
	var ve *service.ValidationError
	switch {
	case errors.As(err, &ve):
		return fail(c, fiber.StatusBadRequest, ve.Message)
	case errors.Is(err, service.ErrInsufficientBalance):
		return fail(c, fiber.StatusBadRequest, "Insufficient wallet balance")
	case errors.Is(err, service.ErrNotRecurring):
		return fail(c, fiber.StatusBadRequest, "Transaction is not recurring")
	case errors.Is(err, service.ErrTransactionNotFound):
		return fail(c, fiber.StatusNotFound, "Transaction not found")
	case errors.Is(err, service.ErrUserNotFound):
		return fail(c, fiber.StatusNotFound, "User not found")
	case errors.Is(err, service.ErrInvalidCredentials):
		return fail(c, fiber.StatusUnauthorized, "Invalid credentials")
	case errors.Is(err, service.ErrUserExists):
		return fail(c, fiber.StatusConflict, "User already exists")
	case errors.Is(err, service.ErrTransactionConflict):
		return fail(c, fiber.StatusConflict, "Transaction was changed by another request, reload and retry")
	}

	logger.Error(fallback, zap.Error(err), zap.String("path", c.Path()))
	return fail(c, fiber.StatusInternalServerError, fallback)
}

func getUserID(c *fiber.Ctx) (uuid.UUID, error) {
	userIDStr, ok := c.Locals("userID").(string)
	if !ok {
		return uuid.Nil, fiber.ErrUnauthorized
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return uuid.Nil, err
	}

	return userID, nil
}
