package commands

import (
	"github.com/oatsaysai/lend-reminder/internal/discord/handlers"
)

// RegisterHelpCommand registers the help command
func RegisterHelpCommand() {
	// Register the help command
	registerCommand(CommandDefinition{
		Name:        "loanhelp",
		Description: "Show help information about available commands",
		Usage:       "!loanhelp",
		Examples: []string{
			"!loanhelp",
		},
		Handler: handlers.HandleHelpCommand,
	})
}
