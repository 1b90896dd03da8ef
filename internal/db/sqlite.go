package db

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/oatsaysai/lend-reminder/internal/loans"
	"github.com/oatsaysai/lend-reminder/internal/models"
	"github.com/shopspring/decimal"

	_ "modernc.org/sqlite"
)

const (
	sqliteDateLayout = "2006-01-02"
	sqliteTimeLayout = time.RFC3339Nano
)

const sqliteLoanColumns = `id, owner_id, friend_name, amount, currency, date_loaned, reason,
	phone_number, email, is_paid, reminder_count, last_reminder_sent, created_at, updated_at`

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS loans (
	id TEXT PRIMARY KEY,
	owner_id TEXT NOT NULL,
	friend_name TEXT NOT NULL,
	amount TEXT NOT NULL,
	currency TEXT NOT NULL,
	date_loaned TEXT NOT NULL,
	reason TEXT,
	phone_number TEXT,
	email TEXT,
	is_paid INTEGER NOT NULL DEFAULT 0,
	reminder_count INTEGER NOT NULL DEFAULT 0 CHECK (reminder_count >= 0),
	last_reminder_sent TEXT,
	created_at TEXT NOT NULL,
	updated_at TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_loans_owner_id ON loans(owner_id);`

// SQLiteLoans is a loans.Store backed by a local SQLite file
type SQLiteLoans struct{ db *sql.DB }

var _ loans.Store = (*SQLiteLoans)(nil)

// OpenSQLite opens (or creates) the database at path and applies the schema.
// Use ":memory:" for a throwaway database.
func OpenSQLite(ctx context.Context, path string) (*SQLiteLoans, error) {
	sqlDB, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite %s: %w", path, err)
	}
	// A single connection keeps :memory: databases shared and serialises writers.
	sqlDB.SetMaxOpenConns(1)
	if _, err := sqlDB.ExecContext(ctx, sqliteSchema); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("migrate sqlite: %w", err)
	}
	return &SQLiteLoans{db: sqlDB}, nil
}

// Close releases the database handle
func (r *SQLiteLoans) Close() error { return r.db.Close() }

type sqlScanner interface {
	Scan(dest ...any) error
}

func scanSQLiteLoan(row sqlScanner) (models.Loan, error) {
	var (
		l                            models.Loan
		amount, dateLoaned           string
		createdAt, updatedAt         string
		reason, phone, email, lastAt sql.NullString
	)
	err := row.Scan(&l.ID, &l.OwnerID, &l.FriendName, &amount, &l.Currency, &dateLoaned, &reason,
		&phone, &email, &l.IsPaid, &l.ReminderCount, &lastAt, &createdAt, &updatedAt)
	if err != nil {
		return models.Loan{}, err
	}
	if l.Amount, err = decimal.NewFromString(amount); err != nil {
		return models.Loan{}, fmt.Errorf("parse amount %q: %w", amount, err)
	}
	if l.DateLoaned, err = time.Parse(sqliteDateLayout, dateLoaned); err != nil {
		return models.Loan{}, fmt.Errorf("parse date_loaned %q: %w", dateLoaned, err)
	}
	if l.CreatedAt, err = time.Parse(sqliteTimeLayout, createdAt); err != nil {
		return models.Loan{}, fmt.Errorf("parse created_at %q: %w", createdAt, err)
	}
	if l.UpdatedAt, err = time.Parse(sqliteTimeLayout, updatedAt); err != nil {
		return models.Loan{}, fmt.Errorf("parse updated_at %q: %w", updatedAt, err)
	}
	if lastAt.Valid {
		t, err := time.Parse(sqliteTimeLayout, lastAt.String)
		if err != nil {
			return models.Loan{}, fmt.Errorf("parse last_reminder_sent %q: %w", lastAt.String, err)
		}
		l.LastReminderSent = &t
	}
	l.Reason = nullable(reason)
	l.PhoneNumber = nullable(phone)
	l.Email = nullable(email)
	return l, nil
}

func nullable(s sql.NullString) *string {
	if !s.Valid {
		return nil
	}
	v := s.String
	return &v
}

func nullString(p *string) sql.NullString {
	if p == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *p, Valid: true}
}

func formatTime(t time.Time) string {
	return t.UTC().Format(sqliteTimeLayout)
}

// CreateLoan inserts a new loan with a generated UUID
func (r *SQLiteLoans) CreateLoan(ctx context.Context, ownerID string, data models.CreateLoanData, createdAt time.Time) (models.Loan, error) {
	id := uuid.NewString()
	ts := formatTime(createdAt)
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO loans(id, owner_id, friend_name, amount, currency, date_loaned, reason, phone_number, email, created_at, updated_at)
		VALUES(?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		id, ownerID, data.FriendName, data.Amount.String(), data.Currency,
		models.CivilDate(data.DateLoaned).Format(sqliteDateLayout),
		nullString(data.Reason), nullString(data.PhoneNumber), nullString(data.Email), ts, ts)
	if err != nil {
		return models.Loan{}, fmt.Errorf("error inserting loan: %w", err)
	}
	return r.GetLoan(ctx, ownerID, id)
}

// ListLoans returns all loans belonging to ownerID
func (r *SQLiteLoans) ListLoans(ctx context.Context, ownerID string) ([]models.Loan, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+sqliteLoanColumns+` FROM loans WHERE owner_id = ?`, ownerID)
	if err != nil {
		return nil, fmt.Errorf("error querying loans: %w", err)
	}
	defer rows.Close()

	var out []models.Loan
	for rows.Next() {
		l, err := scanSQLiteLoan(rows)
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
func (r *SQLiteLoans) GetLoan(ctx context.Context, ownerID, id string) (models.Loan, error) {
	l, err := scanSQLiteLoan(r.db.QueryRowContext(ctx,
		`SELECT `+sqliteLoanColumns+` FROM loans WHERE id = ? AND owner_id = ?`, id, ownerID))
	if errors.Is(err, sql.ErrNoRows) {
		return models.Loan{}, loans.ErrNotFound
	}
	if err != nil {
		return models.Loan{}, fmt.Errorf("error fetching loan %s: %w", id, err)
	}
	return l, nil
}

// MarkPaid sets is_paid; it never clears it
func (r *SQLiteLoans) MarkPaid(ctx context.Context, ownerID, id string, at time.Time) error {
	res, err := r.db.ExecContext(ctx,
		`UPDATE loans SET is_paid = 1, updated_at = ? WHERE id = ? AND owner_id = ?`,
		formatTime(at), id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to mark loan %s as paid: %w", id, err)
	}
	return requireAffected(res)
}

// RecordReminderSent increments the reminder count in one guarded UPDATE
func (r *SQLiteLoans) RecordReminderSent(ctx context.Context, ownerID, id string, at time.Time, maxReminders int) (models.Loan, error) {
	ts := formatTime(at)
	res, err := r.db.ExecContext(ctx, `
		UPDATE loans
		SET reminder_count = reminder_count + 1, last_reminder_sent = ?, updated_at = ?
		WHERE id = ? AND owner_id = ? AND is_paid = 0 AND reminder_count < ?`,
		ts, ts, id, ownerID, maxReminders)
	if err != nil {
		return models.Loan{}, fmt.Errorf("failed to record reminder for loan %s: %w", id, err)
	}
	if err := requireAffected(res); err != nil {
		if _, getErr := r.GetLoan(ctx, ownerID, id); getErr != nil {
			return models.Loan{}, getErr
		}
		return models.Loan{}, loans.ErrReminderNotDue
	}
	return r.GetLoan(ctx, ownerID, id)
}

// DeleteLoan hard-deletes the loan
func (r *SQLiteLoans) DeleteLoan(ctx context.Context, ownerID, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM loans WHERE id = ? AND owner_id = ?`, id, ownerID)
	if err != nil {
		return fmt.Errorf("failed to delete loan %s: %w", id, err)
	}
	return requireAffected(res)
}

func requireAffected(res sql.Result) error {
	n, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return loans.ErrNotFound
	}
	return nil
}
