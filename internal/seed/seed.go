// Package seed creates the demo loans used to try the bot and API.
package seed

import (
	"context"
	"time"

	"github.com/oatsaysai/lend-reminder/internal/loans"
	"github.com/oatsaysai/lend-reminder/internal/logger"
	"github.com/oatsaysai/lend-reminder/internal/models"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

var demoLoans = []struct {
	Friend  string
	Amount  string
	DaysAgo int
	Reason  string
}{
	{"Alex Chen", "50", 7, "Concert tickets"},
	{"Sarah Miller", "125", 12, "Dinner and drinks"},
	{"Mike Johnson", "200", 20, "Emergency car repair"},
	{"Emily Davis", "75", 4, "Birthday gift for mutual friend"},
	{"Chris Lee", "300", 30, "First month rent"},
}

// DemoLoans returns the demo loans dated relative to now
func DemoLoans(now time.Time) []models.CreateLoanData {
	today := models.CivilDate(now)
	out := make([]models.CreateLoanData, 0, len(demoLoans))
	for _, d := range demoLoans {
		out = append(out, models.CreateLoanData{
			FriendName: d.Friend,
			Amount:     decimal.RequireFromString(d.Amount),
			Currency:   models.CurrencyUSD,
			DateLoaned: today.AddDate(0, 0, -d.DaysAgo),
			Reason:     models.StringPtr(d.Reason),
		})
	}
	return out
}

// Run creates the demo loans for ownerID. A failing loan is logged and
// skipped; the created loans are returned.
func Run(ctx context.Context, svc *loans.Service, ownerID string) []models.Loan {
	var created []models.Loan
	for _, data := range DemoLoans(svc.Now()) {
		loan, err := svc.Create(ctx, ownerID, data)
		if err != nil {
			logger.Log.Error("failed to seed loan", zap.String("friend", data.FriendName), zap.Error(err))
			continue
		}
		created = append(created, loan)
	}
	logger.Log.Info("seed applied", zap.String("owner_id", ownerID), zap.Int("loans", len(created)))
	return created
}
