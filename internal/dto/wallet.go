package dto

import "github.com/shopspring/decimal"

type WalletResponse struct {
	WalletBalance decimal.Decimal `json:"wallet_balance"`
	StrictMode    bool            `json:"strict_mode"`
}

type ReconcileResponse struct {
	UserID          string          `json:"user_id"`
	StoredBalance   decimal.Decimal `json:"stored_balance"`
	ReplayedBalance decimal.Decimal `json:"replayed_balance"`
	Drift           decimal.Decimal `json:"drift"`
	Transactions    int             `json:"transactions"`
	Corrected       bool            `json:"corrected"`
}
