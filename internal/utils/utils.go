package utils

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/oatsaysai/lend-reminder/internal/models"
	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
)

// DateLayout is the form dates are typed in on the command line
const DateLayout = "2006-01-02"

var (
	UserMentionRegex = regexp.MustCompile(`<@!?(\d+)>`)
	PromptPayRegex   = regexp.MustCompile(`^(\d{10}|\d{13}|ewallet-\d+)$`)
)

// ErrLendUsage is returned when !lend is missing its friend or amount
var ErrLendUsage = errors.New("usage: !lend <friend> <amount> [currency] [YYYY-MM-DD] [reason...] [cur=XXX]")

// ExtractMentionIDs extracts user IDs from Discord mention strings
func ExtractMentionIDs(content string) []string {
	var ids []string
	matches := UserMentionRegex.FindAllStringSubmatch(content, -1)
	for _, match := range matches {
		if len(match) > 1 {
			ids = append(ids, match[1])
		}
	}
	return ids
}

// ParseLendArgs parses the arguments following !lend.
//
//	<friend> <amount> [currency] [YYYY-MM-DD] [reason...]
//
// phone=<value>, email=<value> and cur=<code> tokens may appear anywhere
// after the amount. A bare currency is recognised only when it is one of the
// common codes in any case, or another ISO code typed in uppercase, so words
// like "top" or "try" stay in the reason.
// Friend names with spaces are written with underscores. A missing currency
// falls back to defaultCurrency and a missing date to today.
func ParseLendArgs(args []string, defaultCurrency string, now time.Time) (models.CreateLoanData, error) {
	var data models.CreateLoanData
	if len(args) < 2 {
		return data, ErrLendUsage
	}

	data.FriendName = strings.ReplaceAll(args[0], "_", " ")
	amount, err := decimal.NewFromString(strings.ReplaceAll(args[1], ",", ""))
	if err != nil {
		return data, fmt.Errorf("invalid amount %q", args[1])
	}
	data.Amount = amount
	data.Currency = defaultCurrency
	data.DateLoaned = models.CivilDate(now)

	var reason []string
	positional := 0
	for _, arg := range args[2:] {
		switch {
		case strings.HasPrefix(strings.ToLower(arg), "phone="):
			data.PhoneNumber = models.StringPtr(arg[len("phone="):])
		case strings.HasPrefix(strings.ToLower(arg), "email="):
			data.Email = models.StringPtr(arg[len("email="):])
		case strings.HasPrefix(strings.ToLower(arg), "cur="):
			code := strings.ToUpper(arg[len("cur="):])
			if _, err := currency.ParseISO(code); err != nil || len(code) != 3 {
				return data, fmt.Errorf("invalid currency %q", arg[len("cur="):])
			}
			data.Currency = code
		case positional == 0 && len(reason) == 0 && isCurrencyCode(arg):
			data.Currency = strings.ToUpper(arg)
			positional = 1
		case positional < 2 && len(reason) == 0 && looksLikeDate(arg):
			d, err := time.ParseInLocation(DateLayout, arg, now.Location())
			if err != nil {
				return data, fmt.Errorf("invalid date %q, use YYYY-MM-DD", arg)
			}
			data.DateLoaned = models.CivilDate(d)
			positional = 2
		default:
			reason = append(reason, arg)
		}
	}
	data.Reason = models.StringPtr(strings.Join(reason, " "))
	return data, nil
}

var commonCurrencies = map[string]bool{
	models.CurrencyUSD: true,
	models.CurrencyEUR: true,
	models.CurrencyGBP: true,
	models.CurrencyINR: true,
	models.CurrencyTHB: true,
}

func isCurrencyCode(s string) bool {
	if len(s) != 3 {
		return false
	}
	upper := strings.ToUpper(s)
	if commonCurrencies[upper] {
		return true
	}
	if s != upper {
		return false
	}
	_, err := currency.ParseISO(upper)
	return err == nil
}

func looksLikeDate(s string) bool {
	return len(s) == len(DateLayout) && s[4] == '-' && s[7] == '-'
}

// FormatNumberWithCommas formats a number with comma separators for thousands
func FormatNumberWithCommas(num decimal.Decimal) string {
	str := num.StringFixed(2)
	sign := ""
	if strings.HasPrefix(str, "-") {
		sign, str = "-", str[1:]
	}
	parts := strings.Split(str, ".")
	integerPart := parts[0]

	// Format the integer part with commas
	var formatted strings.Builder
	formatted.WriteString(sign)
	for i, c := range integerPart {
		if i > 0 && (len(integerPart)-i)%3 == 0 {
			formatted.WriteRune(',')
		}
		formatted.WriteRune(c)
	}

	// Add decimal part if it exists
	if len(parts) > 1 {
		formatted.WriteRune('.')
		formatted.WriteString(parts[1])
	}

	return formatted.String()
}

// ShortID is the prefix of a loan id shown in chat
func ShortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
