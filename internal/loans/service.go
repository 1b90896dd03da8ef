// Package loans validates loan input, enforces ownership and the reminder
// policy, and delegates persistence to a Store.
package loans

import (
	"context"
	"net/mail"
	"sort"
	"strings"
	"time"

	"github.com/oatsaysai/lend-reminder/internal/models"
	"github.com/oatsaysai/lend-reminder/internal/reminder"
	"go.uber.org/zap"
	"golang.org/x/text/currency"
)

// Store persists loans. Implementations scope every call to ownerID and
// return ErrNotFound for missing or foreign loans.
type Store interface {
	CreateLoan(ctx context.Context, ownerID string, data models.CreateLoanData, createdAt time.Time) (models.Loan, error)
	ListLoans(ctx context.Context, ownerID string) ([]models.Loan, error)
	GetLoan(ctx context.Context, ownerID, id string) (models.Loan, error)
	MarkPaid(ctx context.Context, ownerID, id string, at time.Time) error
	// RecordReminderSent atomically increments the reminder count and sets
	// the last reminder time, only while the loan is unpaid and below
	// maxReminders. Otherwise it returns ErrReminderNotDue.
	RecordReminderSent(ctx context.Context, ownerID, id string, at time.Time, maxReminders int) (models.Loan, error)
	DeleteLoan(ctx context.Context, ownerID, id string) error
}

// Service is the entry point used by the Discord and HTTP surfaces.
type Service struct {
	store    Store
	policy   reminder.Policy
	composer *reminder.Composer
	now      func() time.Time
	log      *zap.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithPolicy overrides the reminder policy.
func WithPolicy(p reminder.Policy) Option {
	return func(s *Service) { s.policy = p.WithDefaults() }
}

// WithComposer sets the composer used for random template selection.
func WithComposer(c *reminder.Composer) Option {
	return func(s *Service) { s.composer = c }
}

// WithClock injects the time source.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLogger sets the logger.
func WithLogger(l *zap.Logger) Option {
	return func(s *Service) { s.log = l }
}

// NewService creates a Service over store.
func NewService(store Store, opts ...Option) *Service {
	s := &Service{
		store:  store,
		policy: reminder.DefaultPolicy,
		now:    time.Now,
		log:    zap.NewNop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.composer == nil {
		s.composer = reminder.NewComposer(reminder.NewRandomSource())
	}
	return s
}

// Policy returns the reminder policy in effect.
func (s *Service) Policy() reminder.Policy { return s.policy }

// Now returns the service clock's current time.
func (s *Service) Now() time.Time { return s.now() }

// Create validates data and stores a new loan for ownerID.
func (s *Service) Create(ctx context.Context, ownerID string, data models.CreateLoanData) (models.Loan, error) {
	now := s.now()
	ownerID = strings.TrimSpace(ownerID)
	if ownerID == "" {
		return models.Loan{}, invalid("owner_id", "is required")
	}
	normalized, err := NormalizeCreateLoanData(data, now)
	if err != nil {
		return models.Loan{}, err
	}

	loan, err := s.store.CreateLoan(ctx, ownerID, normalized, now)
	if err != nil {
		s.log.Error("create loan failed", zap.String("owner_id", ownerID), zap.Error(err))
		return models.Loan{}, storeErr("create loan", err)
	}
	s.log.Info("loan created",
		zap.String("owner_id", ownerID),
		zap.String("loan_id", loan.ID),
		zap.String("amount", loan.Amount.String()),
		zap.String("currency", loan.Currency))
	return loan, nil
}

// NormalizeCreateLoanData trims and validates loan input. Blank optional
// fields become nil.
func NormalizeCreateLoanData(data models.CreateLoanData, now time.Time) (models.CreateLoanData, error) {
	data.FriendName = strings.TrimSpace(data.FriendName)
	if data.FriendName == "" {
		return models.CreateLoanData{}, invalid("friend_name", "is required")
	}
	if !data.Amount.IsPositive() {
		return models.CreateLoanData{}, invalid("amount", "must be greater than 0")
	}

	data.Currency = strings.ToUpper(strings.TrimSpace(data.Currency))
	if data.Currency == "" {
		return models.CreateLoanData{}, invalid("currency", "is required")
	}
	if _, err := currency.ParseISO(data.Currency); err != nil {
		return models.CreateLoanData{}, invalid("currency", "is not a recognised ISO 4217 code")
	}

	if data.DateLoaned.IsZero() {
		return models.CreateLoanData{}, invalid("date_loaned", "is required")
	}
	data.DateLoaned = models.CivilDate(data.DateLoaned)
	if data.DateLoaned.After(models.CivilDate(now)) {
		return models.CreateLoanData{}, invalid("date_loaned", "cannot be in the future")
	}

	data.Reason = trimOptional(data.Reason)
	data.PhoneNumber = trimOptional(data.PhoneNumber)
	data.Email = trimOptional(data.Email)
	if data.Email != nil {
		addr, err := mail.ParseAddress(*data.Email)
		if err != nil {
			return models.CreateLoanData{}, invalid("email", "is not a valid address")
		}
		data.Email = &addr.Address
	}
	return data, nil
}

func trimOptional(p *string) *string {
	if p == nil {
		return nil
	}
	return models.StringPtr(strings.TrimSpace(*p))
}

// List returns the owner's loans, most recent loan date first.
func (s *Service) List(ctx context.Context, ownerID string) ([]models.Loan, error) {
	loans, err := s.store.ListLoans(ctx, ownerID)
	if err != nil {
		s.log.Error("list loans failed", zap.String("owner_id", ownerID), zap.Error(err))
		return nil, storeErr("list loans", err)
	}
	sort.SliceStable(loans, func(i, j int) bool {
		return loans[i].DateLoaned.After(loans[j].DateLoaned)
	})
	return loans, nil
}

// Get returns a single loan.
func (s *Service) Get(ctx context.Context, ownerID, id string) (models.Loan, error) {
	loan, err := s.store.GetLoan(ctx, ownerID, id)
	if err != nil {
		return models.Loan{}, storeErr("get loan", err)
	}
	return loan, nil
}

// MarkPaid flags the loan as repaid. Marking a paid loan again is a no-op.
func (s *Service) MarkPaid(ctx context.Context, ownerID, id string) error {
	loan, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return err
	}
	if loan.IsPaid {
		return nil
	}
	if err := s.store.MarkPaid(ctx, ownerID, id, s.now()); err != nil {
		s.log.Error("mark paid failed", zap.String("loan_id", id), zap.Error(err))
		return storeErr("mark paid", err)
	}
	s.log.Info("loan marked paid", zap.String("owner_id", ownerID), zap.String("loan_id", id))
	return nil
}

// RecordReminderSent logs that the owner sent a reminder now.
func (s *Service) RecordReminderSent(ctx context.Context, ownerID, id string) (models.Loan, error) {
	now := s.now()
	loan, err := s.Get(ctx, ownerID, id)
	if err != nil {
		return models.Loan{}, err
	}
	if !s.policy.IsReminderDue(loan, now) {
		return models.Loan{}, ErrReminderNotDue
	}

	updated, err := s.store.RecordReminderSent(ctx, ownerID, id, now, s.policy.MaxReminders)
	if err != nil {
		s.log.Warn("record reminder failed", zap.String("loan_id", id), zap.Error(err))
		return models.Loan{}, storeErr("record reminder", err)
	}
	s.log.Info("reminder recorded",
		zap.String("owner_id", ownerID),
		zap.String("loan_id", id),
		zap.Int("reminder_count", updated.ReminderCount))
	return updated, nil
}

// Delete removes the loan permanently.
func (s *Service) Delete(ctx context.Context, ownerID, id string) error {
	if err := s.store.DeleteLoan(ctx, ownerID, id); err != nil {
		return storeErr("delete loan", err)
	}
	s.log.Info("loan deleted", zap.String("owner_id", ownerID), zap.String("loan_id", id))
	return nil
}
