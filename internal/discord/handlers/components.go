package handlers

import (
	"context"
	"fmt"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/oatsaysai/lend-reminder/internal/logger"
	"github.com/oatsaysai/lend-reminder/internal/reminder"
	"go.uber.org/zap"
)

// Component Custom IDs - shared constants for all interactive components
const (
	remindSentButtonPrefix  = "remind_sent_"
	remindRegenButtonPrefix = "remind_regen_"
	loanPaidButtonPrefix    = "loan_paid_"
)

// RegisterComponentHandlers registers the interaction handlers for components
func RegisterComponentHandlers(s *discordgo.Session) {
	s.AddHandler(func(s *discordgo.Session, i *discordgo.InteractionCreate) {
		if i.Type == discordgo.InteractionMessageComponent {
			handleMessageComponentInteraction(s, i)
		}
	})
}

// handleMessageComponentInteraction routes component interactions to the appropriate handler
func handleMessageComponentInteraction(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID

	switch {
	case strings.HasPrefix(customID, remindSentButtonPrefix):
		handleRemindSentButton(s, i, strings.TrimPrefix(customID, remindSentButtonPrefix))
	case strings.HasPrefix(customID, remindRegenButtonPrefix):
		handleRemindRegenButton(s, i, strings.TrimPrefix(customID, remindRegenButtonPrefix))
	case strings.HasPrefix(customID, loanPaidButtonPrefix):
		handleLoanPaidButton(s, i, strings.TrimPrefix(customID, loanPaidButtonPrefix))
	default:
		logger.Log.Warn("unknown component interaction", zap.String("custom_id", customID))
		respondWithError(s, i, "Unknown action.")
	}
}

// respondWithError sends an ephemeral error message
func respondWithError(s *discordgo.Session, i *discordgo.InteractionCreate, message string) {
	s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Content: "⚠️ " + message,
			Flags:   discordgo.MessageFlagsEphemeral,
		},
	})
}

func respond(s *discordgo.Session, i *discordgo.InteractionCreate, content string) {
	err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{Content: content},
	})
	if err != nil {
		logger.Log.Warn("error responding to interaction", zap.Error(err))
	}
}

// handleRemindSentButton records that the owner sent the drafted reminder.
// Only the loan owner can find the loan, so other users get "not found".
func handleRemindSentButton(s *discordgo.Session, i *discordgo.InteractionCreate, loanID string) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	loan, err := loanService.RecordReminderSent(ctx, interactionUserID(i), loanID)
	if err != nil {
		respondWithError(s, i, userMessage(err))
		return
	}
	respond(s, i, sentConfirmation(loan))
}

// handleRemindRegenButton posts a fresh draft using a random template
func handleRemindRegenButton(s *discordgo.Session, i *discordgo.InteractionCreate, loanID string) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	loan, err := loanService.Get(ctx, interactionUserID(i), loanID)
	if err != nil {
		respondWithError(s, i, userMessage(err))
		return
	}

	d := loanService.DraftFor(loan, "")
	msg := reminderMessage(d, loanService.Policy().MaxReminders)
	err = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseChannelMessageWithSource,
		Data: &discordgo.InteractionResponseData{
			Embeds:     msg.Embeds,
			Components: msg.Components,
			Files:      draftFiles(d),
		},
	})
	if err != nil {
		logger.Log.Warn("error sending regenerated draft", zap.String("loan_id", loanID), zap.Error(err))
	}
}

func handleLoanPaidButton(s *discordgo.Session, i *discordgo.InteractionCreate, loanID string) {
	ctx, cancel := context.WithTimeout(context.Background(), requestTimeout)
	defer cancel()

	ownerID := interactionUserID(i)
	loan, err := loanService.Get(ctx, ownerID, loanID)
	if err == nil {
		err = loanService.MarkPaid(ctx, ownerID, loanID)
	}
	if err != nil {
		respondWithError(s, i, userMessage(err))
		return
	}
	respond(s, i, fmt.Sprintf("🎉 Marked %s from **%s** as paid back.", reminder.FormatAmount(loan), loan.FriendName))
}
