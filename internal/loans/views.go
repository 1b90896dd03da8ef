package loans

import (
	"context"
	"sort"
	"strings"
	"time"

	"github.com/oatsaysai/lend-reminder/internal/models"
	"github.com/oatsaysai/lend-reminder/internal/reminder"
	"github.com/shopspring/decimal"
)

// LoanView is a loan with its reminder state evaluated at a point in time.
type LoanView struct {
	Loan          models.Loan `json:"loan"`
	Status        string      `json:"status"`
	Due           bool        `json:"due"`
	DaysSinceLoan int         `json:"days_since_loan"`
}

// Draft is everything needed to send one reminder by hand.
type Draft struct {
	LoanView
	TemplateID string                      `json:"template_id,omitempty"`
	Message    string                      `json:"message"`
	Links      map[reminder.Channel]string `json:"links"`
	Email      reminder.EmailTemplate      `json:"email"`
}

// Summary aggregates an owner's loans for the dashboard.
type Summary struct {
	Active      int                        `json:"active"`
	Paid        int                        `json:"paid"`
	Friends     int                        `json:"friends"`
	Outstanding map[string]decimal.Decimal `json:"outstanding"`
}

// View evaluates loan against the service policy at the current time.
func (s *Service) View(loan models.Loan) LoanView {
	return viewAt(s.policy, loan, s.now())
}

func viewAt(p reminder.Policy, loan models.Loan, now time.Time) LoanView {
	return LoanView{
		Loan:          loan,
		Status:        p.StatusLabel(loan, now),
		Due:           p.IsReminderDue(loan, now),
		DaysSinceLoan: reminder.DaysSinceLoan(loan, now),
	}
}

// Views evaluates every loan.
func (s *Service) Views(loans []models.Loan) []LoanView {
	now := s.now()
	out := make([]LoanView, 0, len(loans))
	for _, l := range loans {
		out = append(out, viewAt(s.policy, l, now))
	}
	return out
}

// Draft composes a reminder for the loan. An empty templateID picks a
// random template.
func (s *Service) Draft(ctx context.Context, ownerID, id, templateID string) (Draft, error) {
	loan, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return Draft{}, err
	}
	return s.DraftFor(loan, templateID), nil
}

// DraftFor composes a reminder for an already loaded loan.
func (s *Service) DraftFor(loan models.Loan, templateID string) Draft {
	var msg string
	if templateID == "" {
		msg = s.composer.RegenerateMessage(loan)
	} else {
		msg = s.composer.ComposeMessage(loan, templateID)
	}
	return Draft{
		LoanView:   s.View(loan),
		TemplateID: templateID,
		Message:    msg,
		Links:      reminder.BuildOutboundLinks(loan, msg),
		Email:      reminder.ComposeEmailTemplate(loan),
	}
}

// Summarize totals outstanding amounts per currency; no conversion happens.
func Summarize(loans []models.Loan) Summary {
	sum := Summary{Outstanding: map[string]decimal.Decimal{}}
	friends := map[string]struct{}{}
	for _, l := range loans {
		friends[strings.ToLower(strings.TrimSpace(l.FriendName))] = struct{}{}
		if l.IsPaid {
			sum.Paid++
			continue
		}
		sum.Active++
		sum.Outstanding[l.Currency] = sum.Outstanding[l.Currency].Add(l.Amount)
	}
	sum.Friends = len(friends)
	return sum
}

// Currencies returns the outstanding currency codes in sorted order.
func (s Summary) Currencies() []string {
	codes := make([]string, 0, len(s.Outstanding))
	for c := range s.Outstanding {
		codes = append(codes, c)
	}
	sort.Strings(codes)
	return codes
}
