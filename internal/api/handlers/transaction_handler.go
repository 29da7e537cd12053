package handlers

import (
	"time"

	"walletwise/internal/dto"
	"walletwise/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type TransactionHandler struct {
	txService *service.TransactionService
	logger    *zap.Logger
}

func NewTransactionHandler(txService *service.TransactionService, logger *zap.Logger) *TransactionHandler {
	return &TransactionHandler{
		txService: txService,
		logger:    logger,
	}
}

// AddTransaction godoc
// @Summary Add a transaction
// @Description Creates an income or expense and applies it to the wallet balance. In strict mode an expense that would overdraw the wallet is rejected.
// @Tags transactions
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.TransactionInput true "Transaction"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /transactions [post]
func (h *TransactionHandler) AddTransaction(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var input dto.TransactionInput
	if err := c.BodyParser(&input); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	res, err := h.txService.AddTransaction(c.Context(), userID, &input)
	if err != nil {
		return serviceError(c, h.logger, err, "Failed to add transaction")
	}

	return c.Status(fiber.StatusCreated).JSON(resultBody("Transaction added", "transaction", res))
}

// ListTransactions godoc
// @Summary List transactions
// @Description Paginated, filtered list. Unknown filter values are ignored.
// @Tags transactions
// @Produce json
// @Security Bearer
// @Param page query int false "Page" default(1)
// @Param limit query int false "Page size" default(10)
// @Param search query string false "Search in description and category"
// @Param type query string false "income or expense"
// @Param startDate query string false "Start date (inclusive)"
// @Param endDate query string false "End date (inclusive)"
// @Param sort query string false "newest, oldest, amount-high, amount-low"
// @Success 200 {object} dto.ListTransactionsResponse
// @Router /transactions [get]
func (h *TransactionHandler) ListTransactions(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	query := dto.ListTransactionsQuery{
		Page:      c.QueryInt("page", 1),
		Limit:     c.QueryInt("limit", 10),
		Search:    c.Query("search"),
		Type:      c.Query("type"),
		StartDate: c.Query("startDate"),
		EndDate:   c.Query("endDate"),
		Sort:      c.Query("sort"),
	}

	resp, err := h.txService.ListTransactions(c.Context(), userID, query)
	if err != nil {
		return serviceError(c, h.logger, err, "Failed to list transactions")
	}

	return c.JSON(fiber.Map{
		"success":      true,
		"message":      "Transactions retrieved",
		"transactions": resp.Transactions,
		"pagination":   resp.Pagination,
	})
}

// UpdateTransaction godoc
// @Summary Update a transaction
// @Description Partial update. The old contribution is reversed and the new one applied.
// @Tags transactions
// @Accept json
// @Produce json
// @Security Bearer
// @Param id path string true "Transaction ID"
// @Param request body dto.TransactionInput true "Fields to change"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /transactions/{id} [put]
func (h *TransactionHandler) UpdateTransaction(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	txID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid transaction ID")
	}

	var input dto.TransactionInput
	if err := c.BodyParser(&input); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	res, err := h.txService.UpdateTransaction(c.Context(), userID, txID, &input)
	if err != nil {
		return serviceError(c, h.logger, err, "Failed to update transaction")
	}

	return c.JSON(resultBody("Transaction updated", "transaction", res))
}

// DeleteTransaction godoc
// @Summary Delete a transaction
// @Description Removes the transaction and reverses its contribution. Never blocked by strict mode. The returned snapshot can be passed to undo.
// @Tags transactions
// @Produce json
// @Security Bearer
// @Param id path string true "Transaction ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /transactions/{id} [delete]
func (h *TransactionHandler) DeleteTransaction(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	txID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid transaction ID")
	}

	res, err := h.txService.DeleteTransaction(c.Context(), userID, txID)
	if err != nil {
		return serviceError(c, h.logger, err, "Failed to delete transaction")
	}

	return c.JSON(resultBody("Transaction deleted", "deleted_transaction", res))
}

// UndoTransaction godoc
// @Summary Undo a delete
// @Description Re-creates a deleted transaction from its snapshot under a new ID.
// @Tags transactions
// @Accept json
// @Produce json
// @Security Bearer
// @Param request body dto.UndoTransactionRequest true "Snapshot returned by delete"
// @Success 201 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Router /transactions/undo [post]
func (h *TransactionHandler) UndoTransaction(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	var req dto.UndoTransactionRequest
	if err := c.BodyParser(&req); err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid request body")
	}

	res, err := h.txService.UndoTransaction(c.Context(), userID, req.DeletedTransaction)
	if err != nil {
		return serviceError(c, h.logger, err, "Failed to restore transaction")
	}

	return c.Status(fiber.StatusCreated).JSON(resultBody("Transaction restored", "transaction", res))
}

// SkipNextOccurrence godoc
// @Summary Skip the next occurrence
// @Description Moves a recurring transaction's next execution date forward by one interval.
// @Tags transactions
// @Produce json
// @Security Bearer
// @Param id path string true "Transaction ID"
// @Success 200 {object} map[string]interface{}
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /transactions/{id}/skip [post]
func (h *TransactionHandler) SkipNextOccurrence(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	txID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid transaction ID")
	}

	next, err := h.txService.SkipNextOccurrence(c.Context(), userID, txID)
	if err != nil {
		return serviceError(c, h.logger, err, "Failed to skip occurrence")
	}

	return c.JSON(fiber.Map{
		"success":                 true,
		"message":                 "Next occurrence skipped",
		"new_next_execution_date": next.UTC().Format(time.RFC3339Nano),
	})
}

// GetTransactionActivity godoc
// @Summary Transaction activity
// @Description Audit trail of a transaction, newest first. Available after the transaction is deleted.
// @Tags transactions
// @Produce json
// @Security Bearer
// @Param id path string true "Transaction ID"
// @Success 200 {array} dto.ActivityResponse
// @Failure 400 {object} map[string]interface{}
// @Router /transactions/{id}/activity [get]
func (h *TransactionHandler) GetTransactionActivity(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	txID, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return fail(c, fiber.StatusBadRequest, "Invalid transaction ID")
	}

	activity, err := h.txService.GetTransactionActivity(c.Context(), userID, txID)
	if err != nil {
		return serviceError(c, h.logger, err, "Failed to load activity")
	}

	return c.JSON(fiber.Map{
		"success":  true,
		"message":  "Activity retrieved",
		"activity": activity,
	})
}

func resultBody(message, key string, res *dto.TransactionResult) fiber.Map {
	body := fiber.Map{
		"success":        true,
		"message":        message,
		key:              res.Transaction,
		"wallet_balance": res.WalletBalance,
	}
	if res.Warning {
		body["warning"] = negativeBalanceWarning
	}
	return body
}
