package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Supported currency codes. Other ISO codes are accepted and rendered as the bare code.
const (
	CurrencyUSD = "USD"
	CurrencyEUR = "EUR"
	CurrencyGBP = "GBP"
	CurrencyINR = "INR"
	CurrencyTHB = "THB"
)

// Loan represents money lent by the owner to a friend
type Loan struct {
	ID               string          `json:"id"`
	OwnerID          string          `json:"owner_id"`
	FriendName       string          `json:"friend_name"`
	Amount           decimal.Decimal `json:"amount"`
	Currency         string          `json:"currency"`
	DateLoaned       time.Time       `json:"date_loaned"` // date-only semantics, 00:00 UTC
	Reason           *string         `json:"reason,omitempty"`
	PhoneNumber      *string         `json:"phone_number,omitempty"`
	Email            *string         `json:"email,omitempty"`
	IsPaid           bool            `json:"is_paid"`
	ReminderCount    int             `json:"reminder_count"`
	LastReminderSent *time.Time      `json:"last_reminder_sent,omitempty"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// HasReason reports whether the loan carries a non-empty reason
func (l Loan) HasReason() bool {
	return l.Reason != nil && *l.Reason != ""
}

// CreateLoanData holds the user supplied fields for a new loan
type CreateLoanData struct {
	FriendName  string          `json:"friend_name"`
	Amount      decimal.Decimal `json:"amount"`
	Currency    string          `json:"currency"`
	DateLoaned  time.Time       `json:"date_loaned"`
	Reason      *string         `json:"reason,omitempty"`
	PhoneNumber *string         `json:"phone_number,omitempty"`
	Email       *string         `json:"email,omitempty"`
}

// CivilDate truncates t to midnight UTC of its calendar date in t's own location
func CivilDate(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// StringPtr returns nil for an empty string, otherwise a pointer to s
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// StringValue dereferences p, returning "" when absent
func StringValue(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}
