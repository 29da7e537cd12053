package models

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type ActivityAction string

const (
	ActionCreated  ActivityAction = "CREATED"
	ActionUpdated  ActivityAction = "UPDATED"
	ActionDeleted  ActivityAction = "DELETED"
	ActionRestored ActivityAction = "RESTORED"
)

// TransactionActivity is an append-only audit entry.
type TransactionActivity struct {
	ID            uuid.UUID       `db:"id"`
	UserID        uuid.UUID       `db:"user_id"`
	TransactionID uuid.UUID       `db:"transaction_id"`
	Action        ActivityAction  `db:"action"`
	Changes       json.RawMessage `db:"changes"`
	Timestamp     time.Time       `db:"timestamp"`
}
