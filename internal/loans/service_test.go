package loans

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/oatsaysai/lend-reminder/internal/models"
	"github.com/oatsaysai/lend-reminder/internal/reminder"
	"github.com/shopspring/decimal"
)

var errBoom = errors.New("connection refused")

type memStore struct {
	mu    sync.Mutex
	loans map[string]models.Loan
	seq   int
	calls int
	fail  error
}

func newMemStore() *memStore {
	return &memStore{loans: map[string]models.Loan{}}
}

func (m *memStore) CreateLoan(_ context.Context, ownerID string, data models.CreateLoanData, at time.Time) (models.Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.fail != nil {
		return models.Loan{}, m.fail
	}
	m.seq++
	loan := models.Loan{
		ID:          fmt.Sprintf("loan-%d", m.seq),
		OwnerID:     ownerID,
		FriendName:  data.FriendName,
		Amount:      data.Amount,
		Currency:    data.Currency,
		DateLoaned:  data.DateLoaned,
		Reason:      data.Reason,
		PhoneNumber: data.PhoneNumber,
		Email:       data.Email,
		CreatedAt:   at,
		UpdatedAt:   at,
	}
	m.loans[loan.ID] = loan
	return loan, nil
}

func (m *memStore) ListLoans(_ context.Context, ownerID string) ([]models.Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.fail != nil {
		return nil, m.fail
	}
	var out []models.Loan
	for _, l := range m.loans {
		if l.OwnerID == ownerID {
			out = append(out, l)
		}
	}
	return out, nil
}

func (m *memStore) GetLoan(_ context.Context, ownerID, id string) (models.Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	if m.fail != nil {
		return models.Loan{}, m.fail
	}
	l, ok := m.loans[id]
	if !ok || l.OwnerID != ownerID {
		return models.Loan{}, ErrNotFound
	}
	return l, nil
}

func (m *memStore) MarkPaid(_ context.Context, ownerID, id string, at time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	l, ok := m.loans[id]
	if !ok || l.OwnerID != ownerID {
		return ErrNotFound
	}
	l.IsPaid = true
	l.UpdatedAt = at
	m.loans[id] = l
	return nil
}

func (m *memStore) RecordReminderSent(_ context.Context, ownerID, id string, at time.Time, max int) (models.Loan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	l, ok := m.loans[id]
	if !ok || l.OwnerID != ownerID {
		return models.Loan{}, ErrNotFound
	}
	if l.IsPaid || l.ReminderCount >= max {
		return models.Loan{}, ErrReminderNotDue
	}
	l.ReminderCount++
	l.LastReminderSent = &at
	l.UpdatedAt = at
	m.loans[id] = l
	return l, nil
}

func (m *memStore) DeleteLoan(_ context.Context, ownerID, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls++
	l, ok := m.loans[id]
	if !ok || l.OwnerID != ownerID {
		return ErrNotFound
	}
	delete(m.loans, id)
	return nil
}

type fakeClock struct{ t time.Time }

func (c *fakeClock) Now() time.Time          { return c.t }
func (c *fakeClock) Advance(d time.Duration) { c.t = c.t.Add(d) }

func newTestService(t *testing.T) (*Service, *memStore, *fakeClock) {
	t.Helper()
	store := newMemStore()
	clock := &fakeClock{t: time.Date(2024, time.March, 10, 9, 30, 0, 0, time.UTC)}
	svc := NewService(store, WithClock(clock.Now), WithComposer(reminder.NewSeededComposer(1)))
	return svc, store, clock
}

func validData(daysAgo int, now time.Time) models.CreateLoanData {
	return models.CreateLoanData{
		FriendName: "Alex Chen",
		Amount:     decimal.NewFromInt(50),
		Currency:   "usd",
		DateLoaned: now.AddDate(0, 0, -daysAgo),
	}
}

func TestCreateNormalizesInput(t *testing.T) {
	svc, _, clock := newTestService(t)
	data := validData(7, clock.Now())
	data.FriendName = "  Alex Chen "
	data.Reason = models.StringPtr("   ")
	data.Email = models.StringPtr(" Alex <alex@example.com> ")
	data.PhoneNumber = models.StringPtr(" +1 555 0100 ")

	loan, err := svc.Create(context.Background(), "owner-1", data)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if loan.ID == "" {
		t.Fatal("expected store-assigned id")
	}
	if loan.FriendName != "Alex Chen" {
		t.Fatalf("expected trimmed name, got %q", loan.FriendName)
	}
	if loan.Currency != "USD" {
		t.Fatalf("expected USD, got %q", loan.Currency)
	}
	if loan.Reason != nil {
		t.Fatalf("expected blank reason to be absent, got %q", *loan.Reason)
	}
	if got := models.StringValue(loan.Email); got != "alex@example.com" {
		t.Fatalf("expected bare email address, got %q", got)
	}
	if got := models.StringValue(loan.PhoneNumber); got != "+1 555 0100" {
		t.Fatalf("expected trimmed phone, got %q", got)
	}
	if !loan.DateLoaned.Equal(time.Date(2024, time.March, 3, 0, 0, 0, 0, time.UTC)) {
		t.Fatalf("expected date-only loan date, got %v", loan.DateLoaned)
	}
	if loan.IsPaid || loan.ReminderCount != 0 || loan.LastReminderSent != nil {
		t.Fatalf("expected fresh reminder state, got %+v", loan)
	}
}

func TestCreateValidation(t *testing.T) {
	svc, store, clock := newTestService(t)
	now := clock.Now()
	tests := []struct {
		name   string
		owner  string
		mutate func(*models.CreateLoanData)
		field  string
	}{
		{name: "missing owner", owner: " ", mutate: func(*models.CreateLoanData) {}, field: "owner_id"},
		{name: "blank name", owner: "o", mutate: func(d *models.CreateLoanData) { d.FriendName = "  " }, field: "friend_name"},
		{name: "zero amount", owner: "o", mutate: func(d *models.CreateLoanData) { d.Amount = decimal.Zero }, field: "amount"},
		{name: "negative amount", owner: "o", mutate: func(d *models.CreateLoanData) { d.Amount = decimal.NewFromInt(-5) }, field: "amount"},
		{name: "missing currency", owner: "o", mutate: func(d *models.CreateLoanData) { d.Currency = "" }, field: "currency"},
		{name: "bogus currency", owner: "o", mutate: func(d *models.CreateLoanData) { d.Currency = "XYZQ" }, field: "currency"},
		{name: "missing date", owner: "o", mutate: func(d *models.CreateLoanData) { d.DateLoaned = time.Time{} }, field: "date_loaned"},
		{name: "future date", owner: "o", mutate: func(d *models.CreateLoanData) { d.DateLoaned = now.AddDate(0, 0, 1) }, field: "date_loaned"},
		{name: "bad email", owner: "o", mutate: func(d *models.CreateLoanData) { d.Email = models.StringPtr("not-an-email") }, field: "email"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			data := validData(1, now)
			tt.mutate(&data)
			_, err := svc.Create(context.Background(), tt.owner, data)
			if !errors.Is(err, ErrValidation) {
				t.Fatalf("expected ErrValidation, got %v", err)
			}
			var verr *ValidationError
			if !errors.As(err, &verr) || verr.Field != tt.field {
				t.Fatalf("expected field %q, got %v", tt.field, err)
			}
		})
	}
	if store.calls != 0 {
		t.Fatalf("expected no store calls on invalid input, got %d", store.calls)
	}
}

func TestCreateAllowsToday(t *testing.T) {
	svc, _, clock := newTestService(t)
	if _, err := svc.Create(context.Background(), "o", validData(0, clock.Now())); err != nil {
		t.Fatalf("expected loan dated today to be accepted: %v", err)
	}
}

func TestStoreFailuresSurfaceAsUnavailable(t *testing.T) {
	svc, store, clock := newTestService(t)
	store.fail = errBoom

	_, err := svc.Create(context.Background(), "o", validData(1, clock.Now()))
	if !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable, got %v", err)
	}
	if !errors.Is(err, errBoom) {
		t.Fatalf("expected underlying error to be preserved, got %v", err)
	}
	if _, err := svc.List(context.Background(), "o"); !errors.Is(err, ErrStoreUnavailable) {
		t.Fatalf("expected ErrStoreUnavailable from list, got %v", err)
	}
	if store.calls != 2 {
		t.Fatalf("expected exactly one attempt per call, got %d", store.calls)
	}
}

func TestListSortedAndScoped(t *testing.T) {
	svc, _, clock := newTestService(t)
	ctx := context.Background()
	for _, days := range []int{12, 4, 30} {
		if _, err := svc.Create(ctx, "owner-1", validData(days, clock.Now())); err != nil {
			t.Fatalf("create: %v", err)
		}
	}
	if _, err := svc.Create(ctx, "owner-2", validData(1, clock.Now())); err != nil {
		t.Fatalf("create: %v", err)
	}

	loans, err := svc.List(ctx, "owner-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(loans) != 3 {
		t.Fatalf("expected 3 loans, got %d", len(loans))
	}
	for i := 1; i < len(loans); i++ {
		if loans[i].DateLoaned.After(loans[i-1].DateLoaned) {
			t.Fatalf("expected newest first, got %v before %v", loans[i-1].DateLoaned, loans[i].DateLoaned)
		}
	}
}

func TestRecordReminderSentLifecycle(t *testing.T) {
	svc, _, clock := newTestService(t)
	ctx := context.Background()
	loan, err := svc.Create(ctx, "o", validData(5, clock.Now()))
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if v := svc.View(loan); !v.Due || v.Status != reminder.StatusReady {
		t.Fatalf("expected ready loan, got %+v", v)
	}

	updated, err := svc.RecordReminderSent(ctx, "o", loan.ID)
	if err != nil {
		t.Fatalf("record reminder: %v", err)
	}
	if updated.ReminderCount != 1 {
		t.Fatalf("expected count 1, got %d", updated.ReminderCount)
	}
	if updated.LastReminderSent == nil || !updated.LastReminderSent.Equal(clock.Now()) {
		t.Fatalf("expected last reminder at now, got %v", updated.LastReminderSent)
	}
	if v := svc.View(updated); v.Due || v.Status != "Next reminder in 2 days" {
		t.Fatalf("expected cooldown, got %+v", v)
	}

	if _, err := svc.RecordReminderSent(ctx, "o", loan.ID); !errors.Is(err, ErrReminderNotDue) {
		t.Fatalf("expected ErrReminderNotDue inside cooldown, got %v", err)
	}

	for i := 2; i <= 3; i++ {
		clock.Advance(48 * time.Hour)
		updated, err = svc.RecordReminderSent(ctx, "o", loan.ID)
		if err != nil {
			t.Fatalf("reminder %d: %v", i, err)
		}
		if updated.ReminderCount != i {
			t.Fatalf("expected count %d, got %d", i, updated.ReminderCount)
		}
	}

	clock.Advance(10 * 24 * time.Hour)
	if _, err := svc.RecordReminderSent(ctx, "o", loan.ID); !errors.Is(err, ErrReminderNotDue) {
		t.Fatalf("expected capped loan to refuse reminders, got %v", err)
	}
	if v := svc.View(updated); v.Status != reminder.StatusMaxReminder {
		t.Fatalf("expected max reminders label, got %q", v.Status)
	}
}

func TestMarkPaidIsTerminal(t *testing.T) {
	svc, store, clock := newTestService(t)
	ctx := context.Background()
	loan, _ := svc.Create(ctx, "o", validData(10, clock.Now()))

	if err := svc.MarkPaid(ctx, "o", loan.ID); err != nil {
		t.Fatalf("mark paid: %v", err)
	}
	clock.Advance(time.Hour)
	if err := svc.MarkPaid(ctx, "o", loan.ID); err != nil {
		t.Fatalf("second mark paid: %v", err)
	}
	got, _ := svc.Get(ctx, "o", loan.ID)
	if !got.IsPaid {
		t.Fatal("expected loan paid")
	}
	if got.UpdatedAt.Equal(clock.Now()) {
		t.Fatal("expected repeated mark paid not to touch the loan")
	}
	if _, err := svc.RecordReminderSent(ctx, "o", loan.ID); !errors.Is(err, ErrReminderNotDue) {
		t.Fatalf("expected paid loan to refuse reminders, got %v", err)
	}
	if err := svc.Delete(ctx, "o", loan.ID); err != nil {
		t.Fatalf("expected paid loan to stay deletable: %v", err)
	}
	if len(store.loans) != 0 {
		t.Fatalf("expected hard delete, %d loans left", len(store.loans))
	}
}

func TestOwnershipIsEnforced(t *testing.T) {
	svc, _, clock := newTestService(t)
	ctx := context.Background()
	loan, _ := svc.Create(ctx, "alice", validData(5, clock.Now()))

	if err := svc.MarkPaid(ctx, "mallory", loan.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign mark paid, got %v", err)
	}
	if _, err := svc.RecordReminderSent(ctx, "mallory", loan.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign reminder, got %v", err)
	}
	if err := svc.Delete(ctx, "mallory", loan.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound for foreign delete, got %v", err)
	}
}

func TestDraft(t *testing.T) {
	svc, _, clock := newTestService(t)
	ctx := context.Background()
	data := validData(5, clock.Now())
	data.Currency = "INR"
	data.Amount = decimal.NewFromInt(500)
	data.Reason = models.StringPtr("Concert tickets")
	data.PhoneNumber = models.StringPtr("+91 98765 43210")
	loan, _ := svc.Create(ctx, "o", data)

	draft, err := svc.Draft(ctx, "o", loan.ID, "2")
	if err != nil {
		t.Fatalf("draft: %v", err)
	}
	if !strings.Contains(draft.Message, "₹500") {
		t.Fatalf("expected ₹500 in %q", draft.Message)
	}
	if !strings.HasSuffix(draft.Message, "(Concert tickets)") {
		t.Fatalf("expected reason suffix in %q", draft.Message)
	}
	if !strings.HasPrefix(draft.Links[reminder.ChannelChatApp], "https://wa.me/919876543210?text=") {
		t.Fatalf("unexpected chat link %q", draft.Links[reminder.ChannelChatApp])
	}
	if !draft.Due || draft.Status != reminder.StatusReady {
		t.Fatalf("expected ready draft, got %+v", draft.LoanView)
	}

	random, err := svc.Draft(ctx, "o", loan.ID, "")
	if err != nil {
		t.Fatalf("random draft: %v", err)
	}
	if random.Message == "" || random.TemplateID != "" {
		t.Fatalf("unexpected random draft %+v", random)
	}
}

func TestSummarize(t *testing.T) {
	loans := []models.Loan{
		{FriendName: "Alex", Amount: decimal.NewFromInt(50), Currency: "USD"},
		{FriendName: "alex ", Amount: decimal.RequireFromString("25.50"), Currency: "USD"},
		{FriendName: "Priya", Amount: decimal.NewFromInt(500), Currency: "INR"},
		{FriendName: "Sam", Amount: decimal.NewFromInt(10), Currency: "USD", IsPaid: true},
	}
	sum := Summarize(loans)
	if sum.Active != 3 || sum.Paid != 1 || sum.Friends != 3 {
		t.Fatalf("unexpected counts %+v", sum)
	}
	if got := sum.Outstanding["USD"].String(); got != "75.5" {
		t.Fatalf("expected USD 75.5 outstanding, got %s", got)
	}
	if got := sum.Outstanding["INR"].String(); got != "500" {
		t.Fatalf("expected INR 500 outstanding, got %s", got)
	}
	if codes := sum.Currencies(); len(codes) != 2 || codes[0] != "INR" {
		t.Fatalf("unexpected currency order %v", codes)
	}
}
