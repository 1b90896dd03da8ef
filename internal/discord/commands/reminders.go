package commands

import (
	"github.com/oatsaysai/lend-reminder/internal/discord/handlers"
)

// RegisterReminderCommands registers the reminder drafting commands
func RegisterReminderCommands() {
	registerCommand(CommandDefinition{
		Name:        "remind",
		Description: "Draft a reminder with WhatsApp, SMS and email links",
		Usage:       "!remind <loanID> [templateID]",
		Examples: []string{
			"!remind 3f2a9c1e",
			"!remind 3f2a9c1e 3",
		},
		Handler: handlers.HandleRemindCommand,
	})

	registerCommand(CommandDefinition{
		Name:        "sent",
		Description: "Record that you sent a reminder",
		Usage:       "!sent <loanID>",
		Examples: []string{
			"!sent 3f2a9c1e",
		},
		Handler: handlers.HandleSentCommand,
	})

	registerCommand(CommandDefinition{
		Name:        "templates",
		Description: "Show the reminder templates",
		Usage:       "!templates",
		Examples: []string{
			"!templates",
		},
		Handler: handlers.HandleTemplatesCommand,
	})

	registerCommand(CommandDefinition{
		Name:        "emailtemplate",
		Description: "Show a ready to paste reminder email",
		Usage:       "!emailtemplate <loanID>",
		Examples: []string{
			"!emailtemplate 3f2a9c1e",
		},
		Handler: handlers.HandleEmailTemplateCommand,
	})
}
