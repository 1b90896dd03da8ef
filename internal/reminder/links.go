package reminder

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"

	"github.com/oatsaysai/lend-reminder/internal/models"
)

// Channel is an outbound messaging application
type Channel string

const (
	ChannelChatApp     Channel = "whatsapp"
	ChannelTextMessage Channel = "sms"
	ChannelEmail       Channel = "email"
)

// Channels lists the supported channels in display order
var Channels = []Channel{ChannelChatApp, ChannelTextMessage, ChannelEmail}

var nonDigitRegex = regexp.MustCompile(`\D`)

// ParseChannel converts a user supplied channel name
func ParseChannel(s string) (Channel, error) {
	switch c := Channel(strings.ToLower(strings.TrimSpace(s))); c {
	case ChannelChatApp, ChannelTextMessage, ChannelEmail:
		return c, nil
	case "chat":
		return ChannelChatApp, nil
	case "text", "message":
		return ChannelTextMessage, nil
	case "mail":
		return ChannelEmail, nil
	default:
		return "", fmt.Errorf("unknown channel %q", s)
	}
}

// EncodeURIComponent percent-encodes s for use as a URI query value.
// Spaces become %20 rather than '+', which mail and sms handlers do not decode.
func EncodeURIComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}

// BuildOutboundLink returns a URI that opens channel's composer prefilled
// with message. Missing contact details yield an address-less link so the
// user can pick the recipient.
func BuildOutboundLink(channel Channel, loan models.Loan, message string) (string, error) {
	switch channel {
	case ChannelChatApp:
		return whatsAppLink(loan.PhoneNumber, message), nil
	case ChannelTextMessage:
		return smsLink(loan.PhoneNumber, message), nil
	case ChannelEmail:
		return emailLink(loan, message), nil
	default:
		return "", fmt.Errorf("unknown channel %q", channel)
	}
}

// BuildOutboundLinks builds a link for every channel
func BuildOutboundLinks(loan models.Loan, message string) map[Channel]string {
	links := make(map[Channel]string, len(Channels))
	for _, c := range Channels {
		link, _ := BuildOutboundLink(c, loan, message)
		links[c] = link
	}
	return links
}

func whatsAppLink(phone *string, message string) string {
	target := ""
	if phone != nil {
		target = nonDigitRegex.ReplaceAllString(*phone, "")
	}
	return fmt.Sprintf("https://wa.me/%s?text=%s", target, EncodeURIComponent(message))
}

func smsLink(phone *string, message string) string {
	recipient := ""
	if phone != nil {
		recipient = url.PathEscape(*phone)
	}
	return fmt.Sprintf("sms:%s?body=%s", recipient, EncodeURIComponent(message))
}

func emailLink(loan models.Loan, message string) string {
	if loan.Email != nil {
		subject := "Quick reminder - " + loan.FriendName
		return fmt.Sprintf("mailto:%s?subject=%s&body=%s",
			url.PathEscape(*loan.Email), EncodeURIComponent(subject), EncodeURIComponent(message))
	}
	tpl := ComposeEmailTemplate(loan)
	return fmt.Sprintf("mailto:?subject=%s&body=%s", EncodeURIComponent(tpl.Subject), EncodeURIComponent(message))
}
