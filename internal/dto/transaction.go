package dto

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// TransactionInput carries the fields of an add or a partial update. A nil
// field was not supplied. Amount accepts both JSON numbers and numeric strings.
type TransactionInput struct {
	Type              *string          `json:"type,omitempty"`
	Amount            *decimal.Decimal `json:"amount,omitempty"`
	Category          *string          `json:"category,omitempty"`
	Description       *string          `json:"description,omitempty"`
	PaymentMethod     *string          `json:"payment_method,omitempty"`
	Mood              *string          `json:"mood,omitempty"`
	Date              *string          `json:"date,omitempty"`
	IsRecurring       *bool            `json:"is_recurring,omitempty"`
	RecurringInterval *string          `json:"recurring_interval,omitempty"`
}

type TransactionResponse struct {
	ID                string          `json:"id"`
	UserID            string          `json:"user_id"`
	Type              string          `json:"type"`
	Amount            decimal.Decimal `json:"amount"`
	Category          string          `json:"category"`
	Description       string          `json:"description"`
	PaymentMethod     string          `json:"payment_method"`
	Mood              string          `json:"mood"`
	Date              string          `json:"date"`
	IsRecurring       bool            `json:"is_recurring"`
	RecurringInterval *string         `json:"recurring_interval"`
	NextExecutionDate *string         `json:"next_execution_date"`
	CreatedAt         string          `json:"created_at"`
	UpdatedAt         string          `json:"updated_at"`
}

// TransactionResult is what every mutating operation returns.
type TransactionResult struct {
	Transaction   TransactionResponse
	WalletBalance decimal.Decimal
	// Warning is set when the operation left the wallet balance negative.
	Warning bool
}

type UndoTransactionRequest struct {
	DeletedTransaction *TransactionResponse `json:"deleted_transaction"`
}

type ListTransactionsQuery struct {
	Page      int    `query:"page"`
	Limit     int    `query:"limit"`
	Search    string `query:"search"`
	Type      string `query:"type"`
	StartDate string `query:"startDate"`
	EndDate   string `query:"endDate"`
	Sort      string `query:"sort"`
}

type Pagination struct {
	Total int `json:"total"`
	Page  int `json:"page"`
	Pages int `json:"pages"`
	Limit int `json:"limit"`
}

type ListTransactionsResponse struct {
	Transactions []TransactionResponse `json:"transactions"`
	Pagination   Pagination            `json:"pagination"`
}

type ActivityResponse struct {
	ID            string          `json:"id"`
	TransactionID string          `json:"transaction_id"`
	Action        string          `json:"action"`
	Changes       json.RawMessage `json:"changes"`
	Timestamp     string          `json:"timestamp"`
}
