package handlers

import (
	"walletwise/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type WalletHandler struct {
	walletService *service.WalletService
	logger        *zap.Logger
}

func NewWalletHandler(walletService *service.WalletService, logger *zap.Logger) *WalletHandler {
	return &WalletHandler{
		walletService: walletService,
		logger:        logger,
	}
}

// GetWallet godoc
// @Summary Wallet balance
// @Tags wallet
// @Produce json
// @Security Bearer
// @Success 200 {object} dto.WalletResponse
// @Router /wallet [get]
func (h *WalletHandler) GetWallet(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	wallet, err := h.walletService.GetWallet(c.Context(), userID)
	if err != nil {
		return serviceError(c, h.logger, err, "Failed to load wallet")
	}

	return c.JSON(fiber.Map{
		"success":        true,
		"message":        "Wallet retrieved",
		"wallet_balance": wallet.WalletBalance,
		"strict_mode":    wallet.StrictMode,
	})
}

// Reconcile godoc
// @Summary Reconcile wallet balance
// @Description Recomputes the balance from the transaction history and corrects the stored value unless dry_run is set.
// @Tags wallet
// @Produce json
// @Security Bearer
// @Param dry_run query bool false "Report drift without correcting it"
// @Success 200 {object} dto.ReconcileResponse
// @Router /wallet/reconcile [post]
func (h *WalletHandler) Reconcile(c *fiber.Ctx) error {
	userID, err := getUserID(c)
	if err != nil {
		return fail(c, fiber.StatusUnauthorized, "Unauthorized")
	}

	resp, err := h.walletService.Reconcile(c.Context(), userID, c.QueryBool("dry_run", false))
	if err != nil {
		return serviceError(c, h.logger, err, "Failed to reconcile wallet")
	}

	return c.JSON(fiber.Map{
		"success": true,
		"message": "Wallet reconciled",
		"data":    resp,
	})
}
