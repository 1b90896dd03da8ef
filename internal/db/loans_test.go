package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/oatsaysai/lend-reminder/internal/loans"
	"github.com/shopspring/decimal"
)

// fakeRow feeds scanLoan the values a loanColumns query would return
type fakeRow struct {
	values []any
	err    error
}

func (r fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	if len(dest) != len(r.values) {
		return fmt.Errorf("expected %d destinations, got %d", len(r.values), len(dest))
	}
	for i, d := range dest {
		switch p := d.(type) {
		case *string:
			*p = r.values[i].(string)
		case **string:
			*p = r.values[i].(*string)
		case *bool:
			*p = r.values[i].(bool)
		case *int:
			*p = r.values[i].(int)
		case *time.Time:
			*p = r.values[i].(time.Time)
		case **time.Time:
			*p = r.values[i].(*time.Time)
		default:
			return fmt.Errorf("unsupported destination %T", d)
		}
	}
	return nil
}

func loanRow(amount string) fakeRow {
	bangkok := time.FixedZone("ICT", 7*60*60)
	sent := time.Date(2024, 3, 9, 8, 0, 0, 0, time.UTC)
	reason := "Dinner"
	return fakeRow{values: []any{
		"3f2a9c1e-0000-4000-8000-000000000000", "owner-1", "Sarah Miller", amount, "USD",
		time.Date(2024, 2, 27, 0, 0, 0, 0, bangkok), &reason,
		(*string)(nil), (*string)(nil), false, 2, &sent, storeNow, storeNow,
	}}
}

func TestScanLoan(t *testing.T) {
	l, err := scanLoan(loanRow("125.75"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !l.Amount.Equal(decimal.RequireFromString("125.75")) {
		t.Fatalf("expected amount 125.75, got %s", l.Amount)
	}
	if want := time.Date(2024, 2, 27, 0, 0, 0, 0, time.UTC); !l.DateLoaned.Equal(want) || l.DateLoaned.Location() != time.UTC {
		t.Fatalf("expected %v, got %v", want, l.DateLoaned)
	}
	if l.ReminderCount != 2 || l.LastReminderSent == nil || l.PhoneNumber != nil {
		t.Fatalf("unexpected loan %+v", l)
	}
}

func TestScanLoanErrors(t *testing.T) {
	if _, err := scanLoan(loanRow("not-a-number")); err == nil {
		t.Fatal("expected error for bad amount")
	}
	if _, err := scanLoan(fakeRow{err: pgx.ErrNoRows}); !errors.Is(err, pgx.ErrNoRows) {
		t.Fatalf("expected pgx.ErrNoRows, got %v", err)
	}
}

func TestValidID(t *testing.T) {
	tests := map[string]bool{
		"3f2a9c1e-0000-4000-8000-000000000000": true,
		"3F2A9C1E-0000-4000-8000-000000000000": true,
		"3f2a9c1e":                             false,
		"":                                     false,
		"'; DROP TABLE loans; --":              false,
	}
	for id, want := range tests {
		if got := validID(id); got != want {
			t.Fatalf("validID(%q): expected %v, got %v", id, want, got)
		}
	}
}

// TestPostgresLoans runs against a real server when PG_DSN is set
func TestPostgresLoans(t *testing.T) {
	dsn := os.Getenv("PG_DSN")
	if dsn == "" {
		t.Skip("PG_DSN not set")
	}
	ctx := context.Background()
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("connect: %v", err)
	}
	t.Cleanup(pool.Close)

	// twice to check it is idempotent
	for i := 0; i < 2; i++ {
		if err := Migrate(ctx, pool); err != nil {
			t.Fatalf("migrate: %v", err)
		}
	}

	store := NewLoans(pool)
	owner := "test-" + uuid.NewString()
	t.Cleanup(func() {
		pool.Exec(context.Background(), `DELETE FROM loans WHERE owner_id = $1`, owner)
	})

	created, err := store.CreateLoan(ctx, owner, sampleData(), storeNow)
	if err != nil {
		t.Fatalf("create loan: %v", err)
	}
	if !created.Amount.Equal(decimal.RequireFromString("125.75")) || !created.UpdatedAt.Equal(storeNow) {
		t.Fatalf("unexpected created loan %+v", created)
	}
	if want := time.Date(2024, time.February, 27, 0, 0, 0, 0, time.UTC); !created.DateLoaned.Equal(want) {
		t.Fatalf("expected %v, got %v", want, created.DateLoaned)
	}

	if _, err := store.GetLoan(ctx, owner, "not-a-uuid"); !errors.Is(err, loans.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for bad id, got %v", err)
	}
	if _, err := store.GetLoan(ctx, "someone-else", created.ID); !errors.Is(err, loans.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for other owner, got %v", err)
	}

	sentAt := storeNow.Add(72 * time.Hour)
	sent, err := store.RecordReminderSent(ctx, owner, created.ID, sentAt, 1)
	if err != nil {
		t.Fatalf("record reminder: %v", err)
	}
	if sent.ReminderCount != 1 || sent.LastReminderSent == nil || !sent.LastReminderSent.Equal(sentAt) {
		t.Fatalf("unexpected reminder state %+v", sent)
	}
	if !sent.UpdatedAt.Equal(sentAt) {
		t.Fatalf("expected updated_at %v, got %v", sentAt, sent.UpdatedAt)
	}
	if _, err := store.RecordReminderSent(ctx, owner, created.ID, sentAt.Add(time.Hour), 1); !errors.Is(err, loans.ErrReminderNotDue) {
		t.Fatalf("expected ErrReminderNotDue at cap, got %v", err)
	}

	paidAt := sentAt.Add(24 * time.Hour)
	if err := store.MarkPaid(ctx, owner, created.ID, paidAt); err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	got, err := store.GetLoan(ctx, owner, created.ID)
	if err != nil {
		t.Fatalf("get loan: %v", err)
	}
	if !got.IsPaid || !got.UpdatedAt.Equal(paidAt) {
		t.Fatalf("expected paid loan updated at %v, got %+v", paidAt, got)
	}

	list, err := store.ListLoans(ctx, owner)
	if err != nil || len(list) != 1 {
		t.Fatalf("expected one loan, got %d (%v)", len(list), err)
	}

	if err := store.DeleteLoan(ctx, owner, created.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if err := store.DeleteLoan(ctx, owner, created.ID); !errors.Is(err, loans.ErrNotFound) {
		t.Fatalf("expected ErrNotFound on second delete, got %v", err)
	}
}
