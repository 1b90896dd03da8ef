package handlers

import (
	"fmt"

	"github.com/bwmarrin/discordgo"
)

// HandleHelpCommand handles the !loanhelp command
func HandleHelpCommand(s *discordgo.Session, m *discordgo.MessageCreate, args []string) {
	helpMessage := `
**Recording loans:**
- ` + "`!lend <friend> <amount> [currency] [YYYY-MM-DD] [reason...]`" + ` - record money you lent (use _ for spaces in names)
  add ` + "`phone=<number>`" + ` or ` + "`email=<address>`" + ` anywhere after the amount to save contact details
  a lowercase currency is only read for USD, EUR, GBP, INR and THB; type other codes in uppercase or as ` + "`cur=<code>`" + `
- ` + "`!loans`" + ` - list your loans with their reminder status
- ` + "`!summary`" + ` - totals outstanding per currency, active and paid counts
- ` + "`!paid <loanID>`" + ` - mark a loan as paid back
- ` + "`!delloan <loanID>`" + ` - delete a loan

**Reminders:**
- ` + "`!remind <loanID> [templateID]`" + ` - draft a reminder with WhatsApp, SMS and email links
- ` + "`!sent <loanID>`" + ` - record that you sent a reminder
- ` + "`!templates`" + ` - show the reminder templates
- ` + "`!emailtemplate <loanID>`" + ` - show a ready to paste email

**Rules:**
%s
Loan ids can be shortened to their first few characters.

**Example:**
` + "```" + `
!lend Sarah_Miller 125 USD 2024-03-01 Dinner and drinks phone=+15550100000
!remind 3f2a9c1e
` + "```" + `
`
	s.ChannelMessageSend(m.ChannelID, fmt.Sprintf(helpMessage, rulesText()))
}

func rulesText() string {
	p := loanService.Policy()
	return fmt.Sprintf("The first reminder unlocks %d days after lending, then one every %d days, up to %d reminders per loan.",
		p.GraceDays, p.CooldownDays, p.MaxReminders)
}
