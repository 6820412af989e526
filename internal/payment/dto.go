package payment

// CreatePaymentRequest represents the request to record a payment
type CreatePaymentRequest struct {
	GroupID     int64  `json:"group_id" validate:"required"`
	RecipientID int64  `json:"recipient_id" validate:"required"`
	Amount      string `json:"amount" validate:"required"` // decimal, e.g. "30.00"
	Note        string `json:"note,omitempty" validate:"omitempty,max=255"`
	PaidAt      string `json:"paid_at,omitempty"` // ISO date, defaults to today
	ClientRef   string `json:"client_ref,omitempty"`
}

// PaymentResponse represents the response for a payment
type PaymentResponse struct {
	ID            int64  `json:"id"`
	GroupID       int64  `json:"group_id"`
	PayerID       int64  `json:"payer_id"`
	PayerName     string `json:"payer_name,omitempty"`
	RecipientID   int64  `json:"recipient_id"`
	RecipientName string `json:"recipient_name,omitempty"`
	Amount        string `json:"amount"`
	Currency      string `json:"currency"`
	Note          string `json:"note,omitempty"`
	PaidAt        string `json:"paid_at"`
	CreatedAt     string `json:"created_at"`
}

// ToResponse converts a Payment model to a PaymentResponse DTO
func (p *Payment) ToResponse() *PaymentResponse {
	return &PaymentResponse{
		ID:            p.ID,
		GroupID:       p.GroupID,
		PayerID:       p.PayerID,
		PayerName:     p.PayerName,
		RecipientID:   p.RecipientID,
		RecipientName: p.RecipientName,
		Amount:        p.Amount.Decimal(),
		Currency:      p.Amount.Currency,
		Note:          p.Note,
		PaidAt:        p.PaidAt.Format("2006-01-02"),
		CreatedAt:     p.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
}
