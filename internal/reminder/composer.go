package reminder

import (
	crand "crypto/rand"
	"fmt"
	"math/rand/v2"
	"strings"
	"sync"

	"github.com/oatsaysai/lend-reminder/internal/models"
)

// DateLayout renders loan dates as e.g. "Mar 5, 2024"
const DateLayout = "Jan 2, 2006"

var currencySymbols = map[string]string{
	models.CurrencyUSD: "$",
	models.CurrencyEUR: "€",
	models.CurrencyGBP: "£",
	models.CurrencyINR: "₹",
}

// CurrencySymbol maps a currency code to its symbol. Unknown codes are
// returned unchanged.
func CurrencySymbol(code string) string {
	if sym, ok := currencySymbols[code]; ok {
		return sym
	}
	return code
}

// FormatAmount renders the loan amount prefixed with its currency symbol
func FormatAmount(loan models.Loan) string {
	return CurrencySymbol(loan.Currency) + loan.Amount.String()
}

// FormatDate renders the loan date using DateLayout
func FormatDate(loan models.Loan) string {
	return models.CivilDate(loan.DateLoaned).Format(DateLayout)
}

// Composer builds reminder text from the template catalogue. The random
// source only matters for RegenerateMessage.
type Composer struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewComposer returns a Composer drawing template choices from src
func NewComposer(src rand.Source) *Composer {
	return &Composer{rng: rand.New(src)}
}

// NewRandomSource returns a ChaCha8 source seeded from crypto/rand.
func NewRandomSource() rand.Source {
	var seed [32]byte
	if _, err := crand.Read(seed[:]); err != nil {
		return rand.NewPCG(rand.Uint64(), rand.Uint64())
	}
	return rand.NewChaCha8(seed)
}

// NewSeededComposer returns a Composer with a reproducible PCG source
func NewSeededComposer(seed uint64) *Composer {
	return NewComposer(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
}

// ComposeMessage renders the template with templateID for loan, falling back
// to the first template when the id is unknown.
func (c *Composer) ComposeMessage(loan models.Loan, templateID string) string {
	return render(selectTemplate(templateID), loan, FormatAmount(loan))
}

// RegenerateMessage renders a uniformly random template for loan.
func (c *Composer) RegenerateMessage(loan models.Loan) string {
	c.mu.Lock()
	idx := c.rng.IntN(len(catalogue))
	c.mu.Unlock()
	return render(catalogue[idx], loan, FormatAmount(loan))
}

// ComposeSimpleMessage renders the amount as a bare numeral, leaving the
// currency to the caller.
func ComposeSimpleMessage(loan models.Loan, templateID string) string {
	return render(selectTemplate(templateID), loan, loan.Amount.String())
}

func selectTemplate(id string) Template {
	if t, ok := FindTemplate(id); ok {
		return t
	}
	return catalogue[0]
}

func render(t Template, loan models.Loan, amount string) string {
	msg := strings.NewReplacer(
		PlaceholderName, loan.FriendName,
		PlaceholderAmount, amount,
		PlaceholderDate, FormatDate(loan),
	).Replace(t.Message)
	if loan.HasReason() {
		msg += fmt.Sprintf(" (%s)", *loan.Reason)
	}
	return msg
}

// EmailTemplate is a ready to send email for manual delivery
type EmailTemplate struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

// ComposeEmailTemplate builds the fixed friendly email for loan
func ComposeEmailTemplate(loan models.Loan) EmailTemplate {
	date := FormatDate(loan)
	reason := ""
	if loan.HasReason() {
		reason = fmt.Sprintf(" (%s)", *loan.Reason)
	}

	var body strings.Builder
	body.WriteString(fmt.Sprintf("Hi %s,\n\n", loan.FriendName))
	body.WriteString("Hope you're doing well! 😊\n\n")
	body.WriteString(fmt.Sprintf("I wanted to send a quick, friendly reminder about the %s from %s%s.\n\n",
		FormatAmount(loan), date, reason))
	body.WriteString("No rush at all - just wanted to check in! Let me know when works for you.\n\n")
	body.WriteString("Thanks so much!")

	return EmailTemplate{
		Subject: fmt.Sprintf("Friendly reminder about the money from %s", date),
		Body:    body.String(),
	}
}
