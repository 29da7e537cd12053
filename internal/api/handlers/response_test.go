package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http/httptest"
	"testing"

	"walletwise/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestServiceError(t *testing.T) {
	tests := []struct {
		err     error
		status  int
		message string
	}{
		{&service.ValidationError{Message: "Amount must be greater than 0"}, fiber.StatusBadRequest, "Amount must be greater than 0"},
		{service.ErrInsufficientBalance, fiber.StatusBadRequest, "Insufficient wallet balance"},
		{fmt.Errorf("update: %w", service.ErrTransactionConflict), fiber.StatusConflict, "Transaction was changed by another request, reload and retry"},
		{service.ErrTransactionNotFound, fiber.StatusNotFound, "Transaction not found"},
		{service.ErrInvalidCredentials, fiber.StatusUnauthorized, "Invalid credentials"},
		{errors.New("connection reset"), fiber.StatusInternalServerError, "Failed to update transaction"},
	}

	for _, tt := range tests {
		app := fiber.New()
		app.Get("/", func(c *fiber.Ctx) error {
			return serviceError(c, zap.NewNop(), tt.err, "Failed to update transaction")
		})

		resp, err := app.Test(httptest.NewRequest(fiber.MethodGet, "/", nil), -1)
		require.NoError(t, err)

		var body map[string]any
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
		resp.Body.Close()

		assert.Equal(t, tt.status, resp.StatusCode, tt.err.Error())
		assert.Equal(t, false, body["success"])
		assert.Equal(t, tt.message, body["message"])
	}
}
