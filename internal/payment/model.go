package payment

import (
	"time"

	"github.com/alhamdani/settleup/internal/money"
)

// Payment represents a direct member-to-member payment within a group,
// recorded either by hand or by accepting a settlement suggestion.
type Payment struct {
	ID          int64       `json:"id"`
	GroupID     int64       `json:"group_id"`
	PayerID     int64       `json:"payer_id"`
	RecipientID int64       `json:"recipient_id"`
	Amount      money.Money `json:"amount"`
	Note        string      `json:"note,omitempty"`
	ClientRef   string      `json:"client_ref,omitempty"`
	PaidAt      time.Time   `json:"paid_at"`
	CreatedAt   time.Time   `json:"created_at"`

	// Populated via JOIN
	PayerName     string `json:"payer_name,omitempty"`
	RecipientName string `json:"recipient_name,omitempty"`
}
