package discord

import (
	"sort"
	"strings"

	"github.com/bwmarrin/discordgo"
	"github.com/oatsaysai/lend-reminder/internal/logger"
	"go.uber.org/zap"
)

// CommandHandler defines the function signature for command handlers
type CommandHandler func(s *discordgo.Session, m *discordgo.MessageCreate, args []string)

// CommandDefinition holds information about a command
type CommandDefinition struct {
	Name        string
	Description string
	Usage       string
	Examples    []string
	Handler     CommandHandler
}

// commandRegistry holds all registered commands
var commandRegistry = make(map[string]CommandDefinition)

// RegisterCommand adds a command to the registry
func RegisterCommand(cmd CommandDefinition) {
	commandRegistry[strings.ToLower(cmd.Name)] = cmd
}

// GetCommand retrieves a command from the registry
func GetCommand(name string) (CommandDefinition, bool) {
	cmd, exists := commandRegistry[strings.ToLower(name)]
	return cmd, exists
}

// CommandNames lists registered command names in order
func CommandNames() []string {
	names := make([]string, 0, len(commandRegistry))
	for name := range commandRegistry {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// ParseCommand splits a message into a command name and its arguments.
// ok is false when the message is not a ! command.
func ParseCommand(content string) (name string, args []string, ok bool) {
	args = strings.Fields(strings.TrimSpace(content))
	if len(args) == 0 {
		return "", nil, false
	}

	// Extract the command name (remove ! prefix)
	name = strings.ToLower(args[0])
	if !strings.HasPrefix(name, "!") || len(name) == 1 {
		return "", nil, false
	}
	return strings.TrimPrefix(name, "!"), args, true
}

// ProcessCommand routes a message to the appropriate command handler
func ProcessCommand(s *discordgo.Session, m *discordgo.MessageCreate) {
	// Skip messages from the bot itself
	if m.Author == nil || m.Author.Bot || (s.State != nil && s.State.User != nil && m.Author.ID == s.State.User.ID) {
		return
	}

	commandName, args, ok := ParseCommand(m.Content)
	if !ok {
		return
	}

	// Route to the registered command handler
	if cmd, exists := GetCommand(commandName); exists {
		go cmd.Handler(s, m, args)
		return
	}

	// If no registered command found, log it for debugging
	logger.Log.Debug("unrecognized command", zap.String("command", commandName))
}
