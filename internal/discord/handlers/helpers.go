package handlers

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/oatsaysai/lend-reminder/internal/loans"
	"github.com/oatsaysai/lend-reminder/internal/logger"
	"github.com/oatsaysai/lend-reminder/internal/models"
	"go.uber.org/zap"
)

// requestTimeout bounds each store round trip made from a chat handler
const requestTimeout = 10 * time.Second

var errAmbiguousLoanRef = errors.New("more than one loan starts with that id, type a few more characters")

// SendErrorMessage sends an error message to the specified Discord channel
func SendErrorMessage(s *discordgo.Session, channelID, message string) {
	logger.Log.Info("error reply", zap.String("channel", channelID), zap.String("message", message))
	if _, err := s.ChannelMessageSend(channelID, "⚠️ "+message); err != nil {
		logger.Log.Warn("failed to send error message to Discord", zap.Error(err))
	}
}

// GetDiscordUsername retrieves a user's display name from their Discord ID
func GetDiscordUsername(s *discordgo.Session, discordID string) string {
	if s == nil {
		return "Friend"
	}

	user, err := s.User(discordID)
	if err != nil {
		logger.Log.Warn("error fetching user info", zap.String("discord_id", discordID), zap.Error(err))
		return "Friend"
	}

	// Use global_name if available, otherwise username
	if user.GlobalName != "" {
		return user.GlobalName
	}
	if user.Username != "" {
		return user.Username
	}
	return "Friend"
}

// userMessage turns a service error into text safe to show in chat
func userMessage(err error) string {
	var verr *loans.ValidationError
	switch {
	case errors.As(err, &verr):
		return "Invalid " + strings.ReplaceAll(verr.Field, "_", " ") + ": " + verr.Message
	case errors.Is(err, loans.ErrNotFound):
		return "Loan not found. Use `!loans` to see your loan ids."
	case errors.Is(err, loans.ErrReminderNotDue):
		return "That loan is not due for a reminder right now."
	case errors.Is(err, loans.ErrStoreUnavailable):
		return "Loan storage is unavailable right now, please try again later."
	case errors.Is(err, errAmbiguousLoanRef):
		return "More than one loan starts with that id, type a few more characters."
	default:
		return "Something went wrong."
	}
}

// resolveLoan finds the owner's loan by full id or unique id prefix
func resolveLoan(ctx context.Context, ownerID, ref string) (models.Loan, error) {
	list, err := loanService.List(ctx, ownerID)
	if err != nil {
		return models.Loan{}, err
	}
	return matchLoan(list, ref)
}

func matchLoan(list []models.Loan, ref string) (models.Loan, error) {
	ref = strings.ToLower(strings.TrimSpace(ref))
	if ref == "" {
		return models.Loan{}, loans.ErrNotFound
	}

	var found []models.Loan
	for _, l := range list {
		id := strings.ToLower(l.ID)
		if id == ref {
			return l, nil
		}
		if strings.HasPrefix(id, ref) {
			found = append(found, l)
		}
	}

	switch len(found) {
	case 0:
		return models.Loan{}, loans.ErrNotFound
	case 1:
		return found[0], nil
	default:
		return models.Loan{}, errAmbiguousLoanRef
	}
}

// loadFile reads a generated image into memory and deletes it from disk
func loadFile(path string) (*discordgo.File, error) {
	defer os.Remove(path)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	return &discordgo.File{
		Name:        filepath.Base(path),
		ContentType: "image/png",
		Reader:      bytes.NewReader(data),
	}, nil
}

// interactionUserID returns the clicking user for guild and DM interactions
func interactionUserID(i *discordgo.InteractionCreate) string {
	if i.Member != nil && i.Member.User != nil {
		return i.Member.User.ID
	}
	if i.User != nil {
		return i.User.ID
	}
	return ""
}
