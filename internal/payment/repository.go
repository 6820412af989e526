package payment

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alhamdani/settleup/internal/money"
)

// Repository handles payment data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new payment repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// Create inserts a new payment into the database
func (r *Repository) Create(ctx context.Context, p *Payment) (*Payment, error) {
	query := `
		INSERT INTO payments (group_id, payer_id, recipient_id, amount_cents, currency, note, client_ref, paid_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`

	err := r.db.QueryRowContext(ctx, query,
		p.GroupID,
		p.PayerID,
		p.RecipientID,
		p.Amount.Cents,
		p.Amount.Currency,
		p.Note,
		p.ClientRef,
		p.PaidAt,
	).Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create payment: %w", err)
	}

	return p, nil
}

// GetByID retrieves a non-deleted payment by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Payment, error) {
	query := `
		SELECT p.id, p.group_id, p.payer_id, p.recipient_id, p.amount_cents, p.currency,
		       p.note, p.client_ref, p.paid_at, p.created_at, COALESCE(NULLIF(payer.display_name, ''), payer.username), COALESCE(NULLIF(recipient.display_name, ''), recipient.username)
		FROM payments p
		JOIN users payer ON p.payer_id = payer.id
		JOIN users recipient ON p.recipient_id = recipient.id
		WHERE p.id = $1 AND p.deleted_at IS NULL
	`

	p, err := scanPayment(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get payment: %w", err)
	}
	return p, nil
}

// GetByClientRef retrieves a non-deleted payment by its idempotency reference
func (r *Repository) GetByClientRef(ctx context.Context, groupID int64, clientRef string) (*Payment, error) {
	query := `
		SELECT p.id, p.group_id, p.payer_id, p.recipient_id, p.amount_cents, p.currency,
		       p.note, p.client_ref, p.paid_at, p.created_at, COALESCE(NULLIF(payer.display_name, ''), payer.username), COALESCE(NULLIF(recipient.display_name, ''), recipient.username)
		FROM payments p
		JOIN users payer ON p.payer_id = payer.id
		JOIN users recipient ON p.recipient_id = recipient.id
		WHERE p.group_id = $1 AND p.client_ref = $2 AND p.deleted_at IS NULL
	`

	p, err := scanPayment(r.db.QueryRowContext(ctx, query, groupID, clientRef))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get payment by client ref: %w", err)
	}
	return p, nil
}

// ListByGroup retrieves a page of a group's payments, newest first
func (r *Repository) ListByGroup(ctx context.Context, groupID int64, limit, offset int) ([]*Payment, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM payments WHERE group_id = $1 AND deleted_at IS NULL`
	if err := r.db.QueryRowContext(ctx, countQuery, groupID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count payments: %w", err)
	}

	query := `
		SELECT p.id, p.group_id, p.payer_id, p.recipient_id, p.amount_cents, p.currency,
		       p.note, p.client_ref, p.paid_at, p.created_at, COALESCE(NULLIF(payer.display_name, ''), payer.username), COALESCE(NULLIF(recipient.display_name, ''), recipient.username)
		FROM payments p
		JOIN users payer ON p.payer_id = payer.id
		JOIN users recipient ON p.recipient_id = recipient.id
		WHERE p.group_id = $1 AND p.deleted_at IS NULL
		ORDER BY p.paid_at DESC, p.id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, groupID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}

	return payments, total, rows.Err()
}

// ListAllByGroup retrieves every non-deleted payment of a group, used for
// balance netting which needs the complete set.
func (r *Repository) ListAllByGroup(ctx context.Context, groupID int64) ([]*Payment, error) {
	query := `
		SELECT p.id, p.group_id, p.payer_id, p.recipient_id, p.amount_cents, p.currency,
		       p.note, p.client_ref, p.paid_at, p.created_at, COALESCE(NULLIF(payer.display_name, ''), payer.username), COALESCE(NULLIF(recipient.display_name, ''), recipient.username)
		FROM payments p
		JOIN users payer ON p.payer_id = payer.id
		JOIN users recipient ON p.recipient_id = recipient.id
		WHERE p.group_id = $1 AND p.deleted_at IS NULL
		ORDER BY p.paid_at ASC, p.id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list payments: %w", err)
	}
	defer rows.Close()

	var payments []*Payment
	for rows.Next() {
		p, err := scanPayment(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan payment: %w", err)
		}
		payments = append(payments, p)
	}

	return payments, rows.Err()
}

// SoftDelete marks a payment deleted without removing its row
func (r *Repository) SoftDelete(ctx context.Context, id int64) error {
	query := `UPDATE payments SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete payment: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanPayment(row rowScanner) (*Payment, error) {
	p := &Payment{}
	var cents int64
	var currency string
	err := row.Scan(
		&p.ID,
		&p.GroupID,
		&p.PayerID,
		&p.RecipientID,
		&cents,
		&currency,
		&p.Note,
		&p.ClientRef,
		&p.PaidAt,
		&p.CreatedAt,
		&p.PayerName,
		&p.RecipientName,
	)
	if err != nil {
		return nil, err
	}
	p.Amount = money.New(cents, currency)
	return p, nil
}
