package commands

import (
	"github.com/oatsaysai/lend-reminder/internal/discord/handlers"
)

// RegisterLoanCommands registers all loan bookkeeping commands
func RegisterLoanCommands() {
	registerCommand(CommandDefinition{
		Name:        "lend",
		Description: "Record money you lent to a friend",
		Usage:       "!lend <friend> <amount> [currency] [YYYY-MM-DD] [reason...] [phone=<number>] [email=<address>] [cur=<code>]",
		Examples: []string{
			"!lend Alex 50 USD Concert tickets",
			"!lend Sarah_Miller 125 USD 2024-03-01 Dinner phone=+15550100000",
		},
		Handler: handlers.HandleLendCommand,
	})

	registerCommand(CommandDefinition{
		Name:        "loans",
		Description: "List your loans and their reminder status",
		Usage:       "!loans",
		Examples: []string{
			"!loans",
		},
		Handler: handlers.HandleLoansCommand,
	})

	registerCommand(CommandDefinition{
		Name:        "summary",
		Description: "Show outstanding totals and loan counts",
		Usage:       "!summary",
		Examples: []string{
			"!summary",
		},
		Handler: handlers.HandleSummaryCommand,
	})

	registerCommand(CommandDefinition{
		Name:        "paid",
		Description: "Mark a loan as paid back",
		Usage:       "!paid <loanID>",
		Examples: []string{
			"!paid 3f2a9c1e",
		},
		Handler: handlers.HandlePaidCommand,
	})

	registerCommand(CommandDefinition{
		Name:        "delloan",
		Description: "Delete a loan",
		Usage:       "!delloan <loanID>",
		Examples: []string{
			"!delloan 3f2a9c1e",
		},
		Handler: handlers.HandleDeleteLoanCommand,
	})
}
