package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/oatsaysai/lend-reminder/internal/loans"
	"github.com/oatsaysai/lend-reminder/internal/logger"
	"github.com/oatsaysai/lend-reminder/internal/models"
	"github.com/oatsaysai/lend-reminder/internal/reminder"
	"github.com/oatsaysai/lend-reminder/internal/utils"
	"github.com/oatsaysai/lend-reminder/pkg/qrcode"
	"go.uber.org/zap"
)

const (
	// Discord rejects link buttons with longer URLs
	maxButtonURL = 512
	// and embed fields with longer values
	maxFieldValue = 1024
)

var promptPayID string

// SetPromptPayID sets the lender's PromptPay ID used for THB loans
func SetPromptPayID(id string) {
	promptPayID = id
}

// HandleRemindCommand handles the !remind command
func HandleRemindCommand(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) < 2 {
		SendErrorMessage(s, m.ChannelID, "Usage: `!remind <loanID> [templateID]`")
		return
	}
	templateID := ""
	if len(args) > 2 {
		templateID = args[2]
		if _, ok := reminder.FindTemplate(templateID); !ok {
			SendErrorMessage(s, m.ChannelID, fmt.Sprintf("Unknown template `%s`. See `!templates`.", templateID))
			return
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	loan, err := resolveLoan(ctx, m.Author.ID, args[1])
	if err != nil {
		SendErrorMessage(s, m.ChannelID, userMessage(err))
		return
	}

	sendDraft(s, m.ChannelID, loanService.DraftFor(loan, templateID))
}

func sendDraft(s *discordgo.Session, channelID string, d loans.Draft) {
	msg := reminderMessage(d, loanService.Policy().MaxReminders)
	msg.Files = draftFiles(d)
	if _, err := s.ChannelMessageSendComplex(channelID, msg); err != nil {
		logger.Log.Warn("error sending reminder draft", zap.String("loan_id", d.Loan.ID), zap.Error(err))
	}
}

// reminderMessage lays out a draft with its outbound links and actions
func reminderMessage(d loans.Draft, maxReminders int) *discordgo.MessageSend {
	loan := d.Loan
	embed := &discordgo.MessageEmbed{
		Title:       fmt.Sprintf("Reminder for %s · %s", loan.FriendName, reminder.FormatAmount(loan)),
		Description: d.Message,
		Color:       0xFEE75C,
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Status", Value: d.Status, Inline: true},
			{Name: "Reminders sent", Value: fmt.Sprintf("%d of %d", loan.ReminderCount, maxReminders), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Loan %s · lent on %s", utils.ShortID(loan.ID), reminder.FormatDate(loan)),
		},
	}
	for _, c := range []struct {
		name    string
		channel reminder.Channel
	}{
		{"SMS", reminder.ChannelTextMessage},
		{"Email", reminder.ChannelEmail},
	} {
		if v := "`" + d.Links[c.channel] + "`"; len(v) <= maxFieldValue {
			embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{Name: c.name, Value: v})
		}
	}
	if loan.PhoneNumber == nil && loan.Email == nil {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "No contact saved",
			Value: "Copy the message above and send it yourself, or pick a recipient when the link opens.",
		})
	}

	var buttons []discordgo.MessageComponent
	if link := d.Links[reminder.ChannelChatApp]; len(link) <= maxButtonURL {
		buttons = append(buttons, discordgo.Button{
			Label: "Open WhatsApp",
			Style: discordgo.LinkButton,
			URL:   link,
		})
	}
	buttons = append(buttons,
		discordgo.Button{
			Label:    "Mark as sent",
			Style:    discordgo.SuccessButton,
			CustomID: remindSentButtonPrefix + loan.ID,
			Disabled: !d.Due,
		},
		discordgo.Button{
			Label:    "Regenerate",
			Style:    discordgo.SecondaryButton,
			CustomID: remindRegenButtonPrefix + loan.ID,
		},
		discordgo.Button{
			Label:    "Paid back",
			Style:    discordgo.PrimaryButton,
			CustomID: loanPaidButtonPrefix + loan.ID,
			Disabled: loan.IsPaid,
		},
	)

	return &discordgo.MessageSend{
		Embeds:     []*discordgo.MessageEmbed{embed},
		Components: []discordgo.MessageComponent{discordgo.ActionsRow{Components: buttons}},
	}
}

// draftFiles renders the WhatsApp link as a QR code, plus a PromptPay QR
// for THB loans when the lender has configured an ID.
func draftFiles(d loans.Draft) []*discordgo.File {
	var files []*discordgo.File

	path, err := qrcode.GenerateLink(utils.ShortID(d.Loan.ID), d.Links[reminder.ChannelChatApp])
	if err == nil {
		var f *discordgo.File
		if f, err = loadFile(path); err == nil {
			files = append(files, f)
		}
	}
	if err != nil {
		logger.Log.Warn("error generating link QR code", zap.String("loan_id", d.Loan.ID), zap.Error(err))
	}

	if promptPayID != "" && d.Loan.Currency == "THB" && !d.Loan.IsPaid {
		path, err := qrcode.GeneratePromptPay(promptPayID, d.Loan.Amount)
		if err == nil {
			var f *discordgo.File
			if f, err = loadFile(path); err == nil {
				files = append(files, f)
			}
		}
		if err != nil {
			logger.Log.Warn("error generating PromptPay QR code", zap.String("loan_id", d.Loan.ID), zap.Error(err))
		}
	}
	return files
}

// HandleSentCommand handles the !sent command
func HandleSentCommand(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) < 2 {
		SendErrorMessage(s, m.ChannelID, "Usage: `!sent <loanID>`")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	loan, err := resolveLoan(ctx, m.Author.ID, args[1])
	if err == nil {
		loan, err = loanService.RecordReminderSent(ctx, m.Author.ID, loan.ID)
	}
	if err != nil {
		SendErrorMessage(s, m.ChannelID, userMessage(err))
		return
	}
	s.ChannelMessageSend(m.ChannelID, sentConfirmation(loan))
}

func sentConfirmation(loan models.Loan) string {
	v := loanService.View(loan)
	return fmt.Sprintf("📨 Reminder %d of %d recorded for **%s**. Status: %s",
		loan.ReminderCount, loanService.Policy().MaxReminders, loan.FriendName, v.Status)
}

// HandleTemplatesCommand handles the !templates command
func HandleTemplatesCommand(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	s.ChannelMessageSend(m.ChannelID, templatesText())
}

func templatesText() string {
	var sb strings.Builder
	sb.WriteString("**Reminder templates** (use `!remind <loanID> <templateID>`)\n")
	for _, t := range reminder.Templates() {
		fmt.Fprintf(&sb, "\n`%s` *%s*\n> %s\n", t.ID, t.Tone, t.Message)
	}
	return sb.String()
}

// HandleEmailTemplateCommand handles the !emailtemplate command
func HandleEmailTemplateCommand(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	if len(args) < 2 {
		SendErrorMessage(s, m.ChannelID, "Usage: `!emailtemplate <loanID>`")
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	loan, err := resolveLoan(ctx, m.Author.ID, args[1])
	if err != nil {
		SendErrorMessage(s, m.ChannelID, userMessage(err))
		return
	}

	email := reminder.ComposeEmailTemplate(loan)
	s.ChannelMessageSend(m.ChannelID, fmt.Sprintf("**Subject:** %s\n```\n%s\n```", email.Subject, email.Body))
}
