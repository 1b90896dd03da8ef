package reminder

// Tone is the style category of a reminder template
type Tone string

const (
	ToneCasual   Tone = "casual"
	ToneFriendly Tone = "friendly"
	ToneGentle   Tone = "gentle"
)

// Template placeholders
const (
	PlaceholderName   = "{name}"
	PlaceholderAmount = "{amount}"
	PlaceholderDate   = "{date}"
)

// Template is a reminder message with name, amount and date placeholders
type Template struct {
	ID      string `json:"id"`
	Tone    Tone   `json:"tone"`
	Message string `json:"message"`
}

var catalogue = []Template{
	{
		ID:      "1",
		Tone:    ToneCasual,
		Message: "Hey {name}! 😊 Hope you're doing well! Just a friendly reminder about the {amount} I lent you on {date}. No rush at all, just wanted to check in!",
	},
	{
		ID:      "2",
		Tone:    ToneFriendly,
		Message: "Hi {name}! 👋 Quick heads up - I have that {amount} from {date} on my books. Whenever you get a chance to settle it would be great!",
	},
	{
		ID:      "3",
		Tone:    ToneGentle,
		Message: "Hey {name}, hope all is well! 🙂 I wanted to gently remind you about the {amount} from {date}. I know things get busy - just let me know when works for you!",
	},
	{
		ID:      "4",
		Tone:    ToneFriendly,
		Message: "Hi {name}! 💙 Reaching out about the {amount} we discussed on {date}. No pressure, just wanted to circle back. Thanks for understanding!",
	},
	{
		ID:      "5",
		Tone:    ToneGentle,
		Message: "Hey {name}! 😊 I hope you've been good! This is a gentle nudge about the {amount} from {date}. Totally get that life gets hectic - whenever you can!",
	},
}

// Templates returns a copy of the template catalogue in order
func Templates() []Template {
	out := make([]Template, len(catalogue))
	copy(out, catalogue)
	return out
}

// TemplatesByTone returns the templates tagged with tone, in catalogue order
func TemplatesByTone(tone Tone) []Template {
	var out []Template
	for _, t := range catalogue {
		if t.Tone == tone {
			out = append(out, t)
		}
	}
	return out
}

// FindTemplate looks up a template by id
func FindTemplate(id string) (Template, bool) {
	for _, t := range catalogue {
		if t.ID == id {
			return t, true
		}
	}
	return Template{}, false
}
