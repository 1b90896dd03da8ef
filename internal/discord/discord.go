package discord

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
	"github.com/oatsaysai/lend-reminder/internal/discord/handlers"
	"github.com/oatsaysai/lend-reminder/internal/loans"
	"github.com/oatsaysai/lend-reminder/internal/logger"
)

var session *discordgo.Session

// SetLoanService sets the loan service used by every command
func SetLoanService(svc *loans.Service) {
	handlers.SetLoanService(svc)
}

// SetDefaultCurrency sets the currency !lend uses when none is given
func SetDefaultCurrency(code string) {
	handlers.SetDefaultCurrency(code)
}

// SetPromptPayID enables PromptPay QR codes on THB reminders
func SetPromptPayID(id string) {
	handlers.SetPromptPayID(id)
}

// Initialize sets up the Discord session and registers handlers
func Initialize(token string) error {
	var err error
	session, err = discordgo.New("Bot " + token)
	if err != nil {
		return fmt.Errorf("error creating Discord session: %w", err)
	}
	session.Identify.Intents = discordgo.IntentsAllWithoutPrivileged | discordgo.IntentMessageContent

	// Update the registry with all commands
	UpdateRegistry()

	// Register the message handler
	session.AddHandler(func(s *discordgo.Session, m *discordgo.MessageCreate) {
		ProcessCommand(s, m)
	})

	// Register component handlers for interactive UI
	handlers.RegisterComponentHandlers(session)

	// Open connection to Discord
	err = session.Open()
	if err != nil {
		return fmt.Errorf("error opening connection to Discord: %w", err)
	}

	logger.Log.Info("connected to Discord successfully")
	return nil
}

// Close closes the Discord session
func Close() {
	if session != nil {
		session.Close()
	}
}
