// Package reminder decides when a loan reminder may be sent and builds the
// reminder text and outbound links. Every function takes the current time as
// an argument; nothing here reads the wall clock or touches storage.
package reminder

import (
	"fmt"
	"time"

	"github.com/oatsaysai/lend-reminder/internal/models"
)

const day = 24 * time.Hour

// Status labels shown next to a loan.
const (
	StatusPaid        = "Paid"
	StatusReady       = "Ready to send"
	StatusMaxReminder = "Max reminders sent"
	StatusPending     = "Pending"
)

// Policy holds the reminder timing rules.
type Policy struct {
	GraceDays    int // no reminder within this many days of the loan
	CooldownDays int // minimum spacing between reminders
	MaxReminders int // reminders allowed per loan, ever
}

// DefaultPolicy is a 3 day grace period, 2 day cooldown and 3 reminders.
var DefaultPolicy = Policy{GraceDays: 3, CooldownDays: 2, MaxReminders: 3}

// WithDefaults fills zero or negative fields from DefaultPolicy.
func (p Policy) WithDefaults() Policy {
	if p.GraceDays <= 0 {
		p.GraceDays = DefaultPolicy.GraceDays
	}
	if p.CooldownDays <= 0 {
		p.CooldownDays = DefaultPolicy.CooldownDays
	}
	if p.MaxReminders <= 0 {
		p.MaxReminders = DefaultPolicy.MaxReminders
	}
	return p
}

// DaysSinceLoan returns the number of whole calendar days between the loan
// date and now's calendar date.
func DaysSinceLoan(loan models.Loan, now time.Time) int {
	loaned := models.CivilDate(loan.DateLoaned)
	today := models.CivilDate(now)
	return int(today.Sub(loaned) / day)
}

// DaysSinceLastReminder returns the whole days elapsed since the last
// recorded reminder. ok is false when no reminder was ever sent.
func DaysSinceLastReminder(loan models.Loan, now time.Time) (days int, ok bool) {
	if loan.LastReminderSent == nil {
		return 0, false
	}
	elapsed := now.Sub(*loan.LastReminderSent)
	if elapsed < 0 {
		return 0, true
	}
	return int(elapsed / day), true
}

// IsReminderDue reports whether a reminder may be sent for loan at now.
func (p Policy) IsReminderDue(loan models.Loan, now time.Time) bool {
	if loan.IsPaid {
		return false
	}
	if loan.ReminderCount >= p.MaxReminders {
		return false
	}
	if DaysSinceLoan(loan, now) < p.GraceDays {
		return false
	}
	sinceLast, sent := DaysSinceLastReminder(loan, now)
	if !sent {
		return true
	}
	return sinceLast >= p.CooldownDays
}

// StatusLabel returns the display status for loan at now. Paid wins over
// everything, the cap wins over the cooldown and the grace window is checked
// before the cooldown.
func (p Policy) StatusLabel(loan models.Loan, now time.Time) string {
	if loan.IsPaid {
		return StatusPaid
	}
	if p.IsReminderDue(loan, now) {
		return StatusReady
	}
	if loan.ReminderCount >= p.MaxReminders {
		return StatusMaxReminder
	}
	if since := DaysSinceLoan(loan, now); since < p.GraceDays {
		left := p.GraceDays - since
		return fmt.Sprintf("Wait %d more %s", left, dayUnit(left))
	}
	if sinceLast, sent := DaysSinceLastReminder(loan, now); sent && sinceLast < p.CooldownDays {
		left := p.CooldownDays - sinceLast
		return fmt.Sprintf("Next reminder in %d %s", left, dayUnit(left))
	}
	return StatusPending
}

// IsReminderDue applies DefaultPolicy.
func IsReminderDue(loan models.Loan, now time.Time) bool {
	return DefaultPolicy.IsReminderDue(loan, now)
}

// StatusLabel applies DefaultPolicy.
func StatusLabel(loan models.Loan, now time.Time) string {
	return DefaultPolicy.StatusLabel(loan, now)
}

func dayUnit(n int) string {
	if n == 1 {
		return "day"
	}
	return "days"
}
