package db

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oatsaysai/lend-reminder/internal/loans"
	"github.com/oatsaysai/lend-reminder/internal/models"
	"github.com/shopspring/decimal"
)

const loanColumns = `id::text, owner_id, friend_name, amount::text, currency, date_loaned, reason,
	phone_number, email, is_paid, reminder_count, last_reminder_sent, created_at, updated_at`

// Loans is the PostgreSQL implementation of loans.Store
type Loans struct{ pool *pgxpool.Pool }

// NewLoans wraps a connection pool
func NewLoans(p *pgxpool.Pool) *Loans { return &Loans{pool: p} }

var _ loans.Store = (*Loans)(nil)

func scanLoan(row pgx.Row) (models.Loan, error) {
	var l models.Loan
	var amount string
	err := row.Scan(&l.ID, &l.OwnerID, &l.FriendName, &amount, &l.Currency, &l.DateLoaned, &l.Reason,
		&l.PhoneNumber, &l.Email, &l.IsPaid, &l.ReminderCount, &l.LastReminderSent, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		return models.Loan{}, err
	}
	if l.Amount, err = decimal.NewFromString(amount); err != nil {
		return models.Loan{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	l.DateLoaned = models.CivilDate(l.DateLoaned)
	return l, nil
}

// validID rejects ids Postgres would refuse to cast to UUID
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// CreateLoan inserts a new loan with a generated UUID
func (r *Loans) CreateLoan(ctx context.Context, ownerID string, data models.CreateLoanData, createdAt time.Time) (models.Loan, error) {
	row := r.pool.QueryRow(ctx, `
		INSERT INTO loans(id, owner_id, friend_name, amount, currency, date_loaned, reason, phone_number, email, created_at, updated_at)
		VALUES($1, $2, $3, $4::numeric, $5, $6, $7, $8, $9, $10, $10)
		RETURNING `+loanColumns,
		uuid.NewString(), ownerID, data.FriendName, data.Amount.String(), data.Currency,
		data.DateLoaned, data.Reason, data.PhoneNumber, data.Email, createdAt)
	loan, err := scanLoan(row)
	if err != nil {
		return models.Loan{}, fmt.Errorf("error inserting loan: %w", err)
	}
	return loan, nil
}

// ListLoans returns all loans belonging to ownerID
func (r *Loans) ListLoans(ctx context.Context, ownerID string) ([]models.Loan, error) {
	rows, err := r.pool.Query(ctx, `SELECT `+loanColumns+` FROM loans WHERE owner_id = $1`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error querying loans: %w", err)
	}
	defer rows.Close()

	var out []models.Loan
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("error scanning loan row: %w", err)
		}
		out = append(out, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating loan rows: %w", err)
	}
	return out, nil
}

// GetLoan fetches one loan owned by ownerID
func (r *Loans) GetLoan(ctx context.Context, ownerID, id string) (models.Loan, error) {
	if !validID(id) {
		return models.Loan{}, loans.ErrNotFound
	}
	l, err := scanLoan(r.pool.QueryRow(ctx, `SELECT `+loanColumns+` FROM loans WHERE id = $1 AND owner_id = $2`, id, ownerID))
	if errors.Is(err, pgx.ErrNoRows) {
		return models.Loan{}, loans.ErrNotFound
	}
	if err != nil {
		return models.Loan{}, fmt.Errorf("error fetching loan %s: %w", id, err)
	}
	return l, nil
}

// MarkPaid sets is_paid; it never clears it
func (r *Loans) MarkPaid(ctx context.Context, ownerID, id string, at time.Time) error {
	if !validID(id) {
		return loans.ErrNotFound
	}
	tag, err := r.pool.Exec(ctx,
		`UPDATE loans SET is_paid = TRUE, updated_at = $3 WHERE id = $1 AND owner_id = $2`,
		id, ownerID, at)
	if err != nil {
		return fmt.Errorf("failed to mark loan %s as paid: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return loans.ErrNotFound
	}
	return nil
}

// RecordReminderSent increments the reminder count in a single guarded
// statement so concurrent sends cannot lose an update or exceed the cap.
func (r *Loans) RecordReminderSent(ctx context.Context, ownerID, id string, at time.Time, maxReminders int) (models.Loan, error) {
	if !validID(id) {
		return models.Loan{}, loans.ErrNotFound
	}
	l, err := scanLoan(r.pool.QueryRow(ctx, `
		UPDATE loans
		SET reminder_count = reminder_count + 1, last_reminder_sent = $3, updated_at = $3
		WHERE id = $1 AND owner_id = $2 AND is_paid = FALSE AND reminder_count < $4
		RETURNING `+loanColumns,
		id, ownerID, at, maxReminders))
	if errors.Is(err, pgx.ErrNoRows) {
		if _, getErr := r.GetLoan(ctx, ownerID, id); getErr != nil {
			return models.Loan{}, getErr
		}
		return models.Loan{}, loans.ErrReminderNotDue
	}
	if err != nil {
		return models.Loan{}, fmt.Errorf("failed to record reminder for loan %s: %w", id, err)
	}
	return l, nil
}

// DeleteLoan hard-deletes the loan
func (r *Loans) DeleteLoan(ctx context.Context, ownerID, id string) error {
	if !validID(id) {
		return loans.ErrNotFound
	}
	tag, err := r.pool.Exec(ctx, `DELETE FROM loans WHERE id = $1 AND owner_id = $2`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete loan %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return loans.ErrNotFound
	}
	return nil
}
