package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/oatsaysai/lend-reminder/internal/loans"
	"github.com/oatsaysai/lend-reminder/internal/logger"
	"github.com/oatsaysai/lend-reminder/internal/reminder"
	"github.com/oatsaysai/lend-reminder/internal/utils"
	"go.uber.org/zap"
)

// maxListedLoans keeps !loans inside Discord's embed description limit
const maxListedLoans = 20

var (
	loanService     *loans.Service
	defaultCurrency = "INR"
)

// SetLoanService sets the service the handlers operate on
func SetLoanService(svc *loans.Service) {
	loanService = svc
}

// SetDefaultCurrency sets the currency used when !lend omits one
func SetDefaultCurrency(code string) {
	if code != "" {
		defaultCurrency = strings.ToUpper(code)
	}
}

// HandleLendCommand handles the !lend command
func HandleLendCommand(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	data, err := utils.ParseLendArgs(args[1:], defaultCurrency, loanService.Now())
	if err != nil {
		SendErrorMessage(s, m.ChannelID, err.Error())
		return
	}
	if ids := utils.ExtractMentionIDs(data.FriendName); len(ids) == 1 {
		data.FriendName = GetDiscordUsername(s, ids[0])
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	loan, err := loanService.Create(ctx, m.Author.ID, data)
	if err != nil {
		SendErrorMessage(s, m.ChannelID, userMessage(err))
		return
	}

	content := fmt.Sprintf("✅ Recorded **%s** lent to **%s** on %s (id `%s`)",
		reminder.FormatAmount(loan), loan.FriendName, reminder.FormatDate(loan), utils.ShortID(loan.ID))
	if loan.HasReason() {
		content += fmt.Sprintf("\nFor: %s", *loan.Reason)
	}
	content += fmt.Sprintf("\nYou can send the first reminder after %d days with `!remind %s`.",
		loanService.Policy().GraceDays, utils.ShortID(loan.ID))
	s.ChannelMessageSend(m.ChannelID, content)
}

// HandleLoansCommand handles the !loans command
func HandleLoansCommand(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	list, err := loanService.List(ctx, m.Author.ID)
	if err != nil {
		SendErrorMessage(s, m.ChannelID, userMessage(err))
		return
	}
	if len(list) == 0 {
		s.ChannelMessageSend(m.ChannelID, "You haven't recorded any loans yet. Add one with `!lend <friend> <amount>`.")
		return
	}

	_, err = s.ChannelMessageSendEmbed(m.ChannelID, loansEmbed(loanService.Views(list)))
	if err != nil {
		logger.Log.Warn("error sending loans list", zap.Error(err))
	}
}

func loansEmbed(views []loans.LoanView) *discordgo.MessageEmbed {
	var sb strings.Builder
	for n, v := range views {
		if n == maxListedLoans {
			fmt.Fprintf(&sb, "…and %d more", len(views)-maxListedLoans)
			break
		}
		sb.WriteString(formatLoanLine(v))
		sb.WriteString("\n")
	}

	due := 0
	for _, v := range views {
		if v.Due {
			due++
		}
	}

	return &discordgo.MessageEmbed{
		Title:       "💸 Your loans",
		Description: sb.String(),
		Color:       0x5865F2,
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("%d ready for a reminder · use !remind <id>", due),
		},
	}
}

func formatLoanLine(v loans.LoanView) string {
	icon := "⏳"
	switch {
	case v.Loan.IsPaid:
		icon = "✅"
	case v.Due:
		icon = "🔔"
	}
	return fmt.Sprintf("%s `%s` **%s** %s · %s · %s · %s",
		icon, utils.ShortID(v.Loan.ID), v.Loan.FriendName, reminder.FormatAmount(v.Loan),
		reminder.FormatDate(v.Loan), daysAgo(v.DaysSinceLoan), v.Status)
}

func daysAgo(days int) string {
	switch days {
	case 0:
		return "today"
	case 1:
		return "1 day ago"
	default:
		return fmt.Sprintf("%d days ago", days)
	}
}

// HandlePaidCommand handles the !paid command
func HandlePaidCommand(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) < 2 {
		SendErrorMessage(s, m.ChannelID, "Usage: `!paid <loanID>`")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	loan, err := resolveLoan(ctx, m.Author.ID, args[1])
	if err == nil {
		err = loanService.MarkPaid(ctx, m.Author.ID, loan.ID)
	}
	if err != nil {
		SendErrorMessage(s, m.ChannelID, userMessage(err))
		return
	}
	s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("🎉 Marked %s from **%s** as paid back. No more reminders for this one.",
		reminder.FormatAmount(loan), loan.FriendName))
}

// HandleDeleteLoanCommand handles the !delloan command
func HandleDeleteLoanCommand(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) < 2 {
		SendErrorMessage(s, m.ChannelID, "Usage: `!delloan <loanID>`")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	loan, err := resolveLoan(ctx, m.Author.ID, args[1])
	if err == nil {
		err = loanService.Delete(ctx, m.Author.ID, loan.ID)
	}
	if err != nil {
		SendErrorMessage(s, m.ChannelID, userMessage(err))
		return
	}
	s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("🗑️ Deleted the %s loan to **%s**.", reminder.FormatAmount(loan), loan.FriendName))
}

// HandleSummaryCommand handles the !summary command
func HandleSummaryCommand(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	list, err := loanService.List(ctx, m.Author.ID)
	if err != nil {
		SendErrorMessage(s, m.ChannelID, userMessage(err))
		return
	}

	_, err = s.ChannelMessageSendEmbed(m.ChannelID, summaryEmbed(loans.Summarize(list)))
	if err != nil {
		logger.Log.Warn("error sending summary", zap.Error(err))
	}
}

func summaryEmbed(sum loans.Summary) *discordgo.MessageEmbed {
	outstanding := "Nothing outstanding 🎉"
	if codes := sum.Currencies(); len(codes) > 0 {
		lines := make([]string, 0, len(codes))
		for _, code := range codes {
			lines = append(lines, reminder.CurrencySymbol(code)+utils.FormatNumberWithCommas(sum.Outstanding[code]))
		}
		outstanding = strings.Join(lines, "\n")
	}

	return &discordgo.MessageEmbed{
		Title: "📊 Loan summary",
		Color: 0x57F287,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Outstanding", Value: outstanding},
			{Name: "Active", Value: fmt.Sprint(sum.Active), Inline: true},
			{Name: "Paid back", Value: fmt.Sprint(sum.Paid), Inline: true},
			{Name: "Friends", Value: fmt.Sprint(sum.Friends), Inline: true},
		},
	}
}
