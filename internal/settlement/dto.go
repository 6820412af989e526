package settlement

import "github.com/alhamdani/settleup/internal/money"

// BalanceResponse is one member's net position within a group.
type BalanceResponse struct {
	MemberID   int64  `json:"member_id"`
	MemberName string `json:"member_name,omitempty"`
	Amount     string `json:"amount"`
	Currency   string `json:"currency"`
	// Status is "owed" when the group owes the member, "owes" when the
	// member owes the group, "settled" when even.
	Status string `json:"status"`
}

// TransferResponse is one suggested repayment from the settlement plan.
type TransferResponse struct {
	FromID   int64  `json:"from_id"`
	FromName string `json:"from_name,omitempty"`
	ToID     int64  `json:"to_id"`
	ToName   string `json:"to_name,omitempty"`
	Amount   string `json:"amount"`
	Currency string `json:"currency"`
}

// AcceptTransferRequest records a suggested transfer as a payment.
type AcceptTransferRequest struct {
	ToID      int64  `json:"to_id"`
	Amount    string `json:"amount"`
	ClientRef string `json:"client_ref,omitempty"`
}

func newBalanceResponse(memberID int64, name string, balance money.Money) *BalanceResponse {
	status := "settled"
	switch {
	case balance.IsPositive():
		status = "owed"
	case balance.IsNegative():
		status = "owes"
	}
	return &BalanceResponse{
		MemberID:   memberID,
		MemberName: name,
		Amount:     balance.Decimal(),
		Currency:   balance.Currency,
		Status:     status,
	}
}

func newTransferResponse(t Transfer, names map[int64]string) *TransferResponse {
	return &TransferResponse{
		FromID:   t.FromID,
		FromName: names[t.FromID],
		ToID:     t.ToID,
		ToName:   names[t.ToID],
		Amount:   t.Amount.Decimal(),
		Currency: t.Amount.Currency,
	}
}
