package expense

import (
	"time"

	"github.com/alhamdani/settleup/internal/expense/split"
	"github.com/alhamdani/settleup/internal/money"
)

// Expense represents a shared expense. Its share rows always sum exactly to
// Amount in minor units; they are only ever replaced wholesale by a full
// re-split, never edited individually.
type Expense struct {
	ID          int64            `json:"id"`
	GroupID     int64            `json:"group_id"`
	PayerID     int64            `json:"payer_id"`
	Description string           `json:"description"`
	Amount      money.Money      `json:"amount"`
	SplitType   split.PolicyType `json:"split_type"`
	ClientRef   string           `json:"client_ref,omitempty"`
	SpentAt     time.Time        `json:"spent_at"`
	CreatedAt   time.Time        `json:"created_at"`

	// Populated via JOIN
	PayerName string `json:"payer_name,omitempty"`

	// Populated when shares are loaded alongside the expense
	Shares []*Share `json:"shares,omitempty"`
}

// Share is one participant's persisted portion of an expense. Percent is
// display-only and independently rounded; the amounts carry the invariant.
type Share struct {
	ID        int64       `json:"id"`
	ExpenseID int64       `json:"expense_id"`
	MemberID  int64       `json:"member_id"`
	Amount    money.Money `json:"amount"`
	Percent   float64     `json:"percent"`

	// Populated via JOIN
	MemberName string `json:"member_name,omitempty"`
}
