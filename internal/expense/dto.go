package expense

// ParticipantInput carries one participant's policy parameters, keyed by the
// split type: Percentage for PERCENTAGE, Amount (decimal string) for EXACT,
// Weight for SHARES. EQUAL needs only the member id.
type ParticipantInput struct {
	MemberID   int64    `json:"member_id" validate:"required"`
	Percentage *float64 `json:"percentage,omitempty"`
	Amount     *string  `json:"amount,omitempty"`
	Weight     *int64   `json:"weight,omitempty"`
}

// CreateExpenseRequest represents the request to create an expense
type CreateExpenseRequest struct {
	GroupID      int64               `json:"group_id" validate:"required"`
	Description  string              `json:"description" validate:"required,min=1,max=255"`
	Amount       string              `json:"amount" validate:"required"` // decimal, e.g. "45.00"
	SplitType    string              `json:"split_type" validate:"required,oneof=EQUAL PERCENTAGE EXACT SHARES"`
	Participants []*ParticipantInput `json:"participants" validate:"required,min=1"`
	SpentAt      string              `json:"spent_at,omitempty"` // ISO date, defaults to today
	ClientRef    string              `json:"client_ref,omitempty"`
}

// ResplitExpenseRequest re-derives the full split with a new total, policy,
// or participant set. There is deliberately no way to patch a single share.
type ResplitExpenseRequest struct {
	Amount       string              `json:"amount" validate:"required"`
	SplitType    string              `json:"split_type" validate:"required,oneof=EQUAL PERCENTAGE EXACT SHARES"`
	Participants []*ParticipantInput `json:"participants" validate:"required,min=1"`
}

// ExpenseResponse represents the response for an expense
type ExpenseResponse struct {
	ID          int64            `json:"id"`
	GroupID     int64            `json:"group_id"`
	PayerID     int64            `json:"payer_id"`
	PayerName   string           `json:"payer_name,omitempty"`
	Description string           `json:"description"`
	Amount      string           `json:"amount"`
	Currency    string           `json:"currency"`
	SplitType   string           `json:"split_type"`
	ClientRef   string           `json:"client_ref,omitempty"`
	SpentAt     string           `json:"spent_at"`
	CreatedAt   string           `json:"created_at"`
	Shares      []*ShareResponse `json:"shares,omitempty"`
}

// ShareResponse represents one participant's share in a response
type ShareResponse struct {
	ID         int64   `json:"id"`
	ExpenseID  int64   `json:"expense_id"`
	MemberID   int64   `json:"member_id"`
	MemberName string  `json:"member_name,omitempty"`
	Amount     string  `json:"amount"`
	Percent    float64 `json:"percent"`
}

// StatsResponse represents aggregate statistics over a group's expenses
type StatsResponse struct {
	Count                int64  `json:"count"`
	Total                string `json:"total"`
	Average              string `json:"average"`
	Min                  string `json:"min"`
	Max                  string `json:"max"`
	Currency             string `json:"currency"`
	FirstSpentAt         string `json:"first_spent_at,omitempty"`
	LastSpentAt          string `json:"last_spent_at,omitempty"`
	DistinctParticipants int64  `json:"distinct_participants"`
}

// ToResponse converts an Expense model to an ExpenseResponse DTO
func (e *Expense) ToResponse() *ExpenseResponse {
	resp := &ExpenseResponse{
		ID:          e.ID,
		GroupID:     e.GroupID,
		PayerID:     e.PayerID,
		PayerName:   e.PayerName,
		Description: e.Description,
		Amount:      e.Amount.Decimal(),
		Currency:    e.Amount.Currency,
		SplitType:   string(e.SplitType),
		ClientRef:   e.ClientRef,
		SpentAt:     e.SpentAt.Format("2006-01-02"),
		CreatedAt:   e.CreatedAt.Format("2006-01-02T15:04:05Z"),
	}
	if len(e.Shares) > 0 {
		resp.Shares = make([]*ShareResponse, len(e.Shares))
		for i, s := range e.Shares {
			resp.Shares[i] = s.ToResponse()
		}
	}
	return resp
}

// ToResponse converts a Share model to a ShareResponse DTO
func (s *Share) ToResponse() *ShareResponse {
	return &ShareResponse{
		ID:         s.ID,
		ExpenseID:  s.ExpenseID,
		MemberID:   s.MemberID,
		MemberName: s.MemberName,
		Amount:     s.Amount.Decimal(),
		Percent:    s.Percent,
	}
}
