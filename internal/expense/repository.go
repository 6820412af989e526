package expense

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/alhamdani/settleup/internal/expense/split"
	"github.com/alhamdani/settleup/internal/money"
)

// Repository handles expense and share data persistence
type Repository struct {
	db *sql.DB
}

// NewRepository creates a new expense repository
func NewRepository(db *sql.DB) *Repository {
	return &Repository{db: db}
}

// CreateWithShares inserts the expense and all of its shares in a single
// transaction, so a partially-split expense can never be observed.
func (r *Repository) CreateWithShares(ctx context.Context, exp *Expense, shares []split.Share) (*Expense, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO expenses (group_id, payer_id, description, amount_cents, currency, split_type, client_ref, spent_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id, created_at
	`
	err = tx.QueryRowContext(ctx, query,
		exp.GroupID,
		exp.PayerID,
		exp.Description,
		exp.Amount.Cents,
		exp.Amount.Currency,
		exp.SplitType,
		exp.ClientRef,
		exp.SpentAt,
	).Scan(&exp.ID, &exp.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	exp.Shares = make([]*Share, len(shares))
	for i, s := range shares {
		row := &Share{
			ExpenseID: exp.ID,
			MemberID:  s.MemberID,
			Amount:    s.Amount,
			Percent:   s.Percent,
		}
		shareQuery := `
			INSERT INTO expense_shares (expense_id, member_id, amount_cents, percent)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`
		if err := tx.QueryRowContext(ctx, shareQuery, exp.ID, s.MemberID, s.Amount.Cents, s.Percent).Scan(&row.ID); err != nil {
			return nil, fmt.Errorf("failed to create share: %w", err)
		}
		exp.Shares[i] = row
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit expense: %w", err)
	}
	return exp, nil
}

// GetByID retrieves a non-deleted expense by its ID
func (r *Repository) GetByID(ctx context.Context, id int64) (*Expense, error) {
	query := `
		SELECT e.id, e.group_id, e.payer_id, e.description, e.amount_cents, e.currency,
		       e.split_type, e.client_ref, e.spent_at, e.created_at, COALESCE(NULLIF(u.display_name, ''), u.username)
		FROM expenses e
		JOIN users u ON e.payer_id = u.id
		WHERE e.id = $1 AND e.deleted_at IS NULL
	`

	exp, err := scanExpense(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get expense: %w", err)
	}
	return exp, nil
}

// GetByClientRef retrieves a non-deleted expense by its idempotency reference.
func (r *Repository) GetByClientRef(ctx context.Context, groupID int64, clientRef string) (*Expense, error) {
	query := `
		SELECT e.id, e.group_id, e.payer_id, e.description, e.amount_cents, e.currency,
		       e.split_type, e.client_ref, e.spent_at, e.created_at, COALESCE(NULLIF(u.display_name, ''), u.username)
		FROM expenses e
		JOIN users u ON e.payer_id = u.id
		WHERE e.group_id = $1 AND e.client_ref = $2 AND e.deleted_at IS NULL
	`

	exp, err := scanExpense(r.db.QueryRowContext(ctx, query, groupID, clientRef))
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get expense by client ref: %w", err)
	}
	return exp, nil
}

// GetSharesByExpenseID retrieves all shares for an expense in insertion order
func (r *Repository) GetSharesByExpenseID(ctx context.Context, expenseID int64) ([]*Share, error) {
	query := `
		SELECT s.id, s.expense_id, s.member_id, s.amount_cents, s.percent, e.currency, COALESCE(NULLIF(u.display_name, ''), u.username)
		FROM expense_shares s
		JOIN expenses e ON s.expense_id = e.id
		JOIN users u ON s.member_id = u.id
		WHERE s.expense_id = $1
		ORDER BY s.id
	`

	rows, err := r.db.QueryContext(ctx, query, expenseID)
	if err != nil {
		return nil, fmt.Errorf("failed to get shares: %w", err)
	}
	defer rows.Close()

	var shares []*Share
	for rows.Next() {
		share := &Share{}
		var cents int64
		var currency string
		if err := rows.Scan(
			&share.ID,
			&share.ExpenseID,
			&share.MemberID,
			&cents,
			&share.Percent,
			&currency,
			&share.MemberName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}
		share.Amount = money.New(cents, currency)
		shares = append(shares, share)
	}

	return shares, rows.Err()
}

// ListByGroup retrieves a page of a group's expenses, newest first
func (r *Repository) ListByGroup(ctx context.Context, groupID int64, limit, offset int) ([]*Expense, int, error) {
	var total int
	countQuery := `SELECT COUNT(*) FROM expenses WHERE group_id = $1 AND deleted_at IS NULL`
	if err := r.db.QueryRowContext(ctx, countQuery, groupID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count expenses: %w", err)
	}

	query := `
		SELECT e.id, e.group_id, e.payer_id, e.description, e.amount_cents, e.currency,
		       e.split_type, e.client_ref, e.spent_at, e.created_at, COALESCE(NULLIF(u.display_name, ''), u.username)
		FROM expenses e
		JOIN users u ON e.payer_id = u.id
		WHERE e.group_id = $1 AND e.deleted_at IS NULL
		ORDER BY e.spent_at DESC, e.id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, groupID, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*Expense
	for rows.Next() {
		exp, err := scanExpense(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, exp)
	}

	return expenses, total, rows.Err()
}

// ListAllByGroupWithShares retrieves every non-deleted expense of a group
// with its shares attached. Used for balance netting and in-memory queries,
// which need the complete set.
func (r *Repository) ListAllByGroupWithShares(ctx context.Context, groupID int64) ([]*Expense, error) {
	query := `
		SELECT e.id, e.group_id, e.payer_id, e.description, e.amount_cents, e.currency,
		       e.split_type, e.client_ref, e.spent_at, e.created_at, COALESCE(NULLIF(u.display_name, ''), u.username)
		FROM expenses e
		JOIN users u ON e.payer_id = u.id
		WHERE e.group_id = $1 AND e.deleted_at IS NULL
		ORDER BY e.spent_at ASC, e.id ASC
	`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}
	defer rows.Close()

	var expenses []*Expense
	byID := make(map[int64]*Expense)
	for rows.Next() {
		exp, err := scanExpense(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		expenses = append(expenses, exp)
		byID[exp.ID] = exp
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	if len(expenses) == 0 {
		return nil, nil
	}

	shareQuery := `
		SELECT s.id, s.expense_id, s.member_id, s.amount_cents, s.percent, e.currency, COALESCE(NULLIF(u.display_name, ''), u.username)
		FROM expense_shares s
		JOIN expenses e ON s.expense_id = e.id
		JOIN users u ON s.member_id = u.id
		WHERE e.group_id = $1 AND e.deleted_at IS NULL
		ORDER BY s.expense_id, s.id
	`
	shareRows, err := r.db.QueryContext(ctx, shareQuery, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to list shares: %w", err)
	}
	defer shareRows.Close()

	for shareRows.Next() {
		share := &Share{}
		var cents int64
		var currency string
		if err := shareRows.Scan(
			&share.ID,
			&share.ExpenseID,
			&share.MemberID,
			&cents,
			&share.Percent,
			&currency,
			&share.MemberName,
		); err != nil {
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}
		share.Amount = money.New(cents, currency)
		if exp, ok := byID[share.ExpenseID]; ok {
			exp.Shares = append(exp.Shares, share)
		}
	}

	return expenses, shareRows.Err()
}

// ReplaceShares updates the expense's amount and policy and swaps out all of
// its shares atomically.
func (r *Repository) ReplaceShares(ctx context.Context, id int64, total money.Money, splitType split.PolicyType, shares []split.Share) (*Expense, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE expenses
		SET amount_cents = $2, currency = $3, split_type = $4
		WHERE id = $1 AND deleted_at IS NULL
		RETURNING id, group_id, payer_id, description, amount_cents, currency, split_type, client_ref, spent_at, created_at
	`
	exp := &Expense{}
	var cents int64
	var currency string
	err = tx.QueryRowContext(ctx, query, id, total.Cents, total.Currency, splitType).Scan(
		&exp.ID,
		&exp.GroupID,
		&exp.PayerID,
		&exp.Description,
		&cents,
		&currency,
		&exp.SplitType,
		&exp.ClientRef,
		&exp.SpentAt,
		&exp.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to update expense: %w", err)
	}
	exp.Amount = money.New(cents, currency)

	if _, err := tx.ExecContext(ctx, `DELETE FROM expense_shares WHERE expense_id = $1`, id); err != nil {
		return nil, fmt.Errorf("failed to delete old shares: %w", err)
	}

	exp.Shares = make([]*Share, len(shares))
	for i, s := range shares {
		row := &Share{
			ExpenseID: id,
			MemberID:  s.MemberID,
			Amount:    s.Amount,
			Percent:   s.Percent,
		}
		shareQuery := `
			INSERT INTO expense_shares (expense_id, member_id, amount_cents, percent)
			VALUES ($1, $2, $3, $4)
			RETURNING id
		`
		if err := tx.QueryRowContext(ctx, shareQuery, id, s.MemberID, s.Amount.Cents, s.Percent).Scan(&row.ID); err != nil {
			return nil, fmt.Errorf("failed to create share: %w", err)
		}
		exp.Shares[i] = row
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit re-split: %w", err)
	}
	return exp, nil
}

// SoftDelete marks an expense deleted without removing its rows
func (r *Repository) SoftDelete(ctx context.Context, id int64) error {
	query := `UPDATE expenses SET deleted_at = NOW() WHERE id = $1 AND deleted_at IS NULL`
	if _, err := r.db.ExecContext(ctx, query, id); err != nil {
		return fmt.Errorf("failed to delete expense: %w", err)
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanExpense(row rowScanner) (*Expense, error) {
	exp := &Expense{}
	var cents int64
	var currency string
	err := row.Scan(
		&exp.ID,
		&exp.GroupID,
		&exp.PayerID,
		&exp.Description,
		&cents,
		&currency,
		&exp.SplitType,
		&exp.ClientRef,
		&exp.SpentAt,
		&exp.CreatedAt,
		&exp.PayerName,
	)
	if err != nil {
		return nil, err
	}
	exp.Amount = money.New(cents, currency)
	return exp, nil
}
