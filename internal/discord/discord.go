package discord

import "context"

type Button struct {
	Label    string
	CustomID string
	Primary  bool
}

type ChannelMessage struct {
	ChannelID string
	Content   string
	Buttons   []Button
}

type SlashCommandOption struct {
	Name        string
	Description string
	Required    bool
}

type SlashCommandDefinition struct {
	Name        string
	Description string
	Options     []SlashCommandOption
}

// CommandEvent is a slash command invocation. Text is the joined value of
// its string options, e.g. "join every monday".
type CommandEvent struct {
	GuildID     string
	ChannelID   string
	UserID      string
	CommandName string
	Text        string
}

type ButtonEvent struct {
	GuildID   string
	ChannelID string
	UserID    string
	CustomID  string
}

type Client interface {
	Connect(ctx context.Context) error
	Close() error
	SendChannelMessage(msg ChannelMessage) (string, error)
	EditChannelMessage(messageID string, msg ChannelMessage) error
	// SendEphemeral shows content to userID only, answering the user's pending
	// interaction in channelID when there is one.
	SendEphemeral(channelID, userID, content string) error
	RegisterCommandHandler(handler func(CommandEvent))
	RegisterButtonHandler(handler func(ButtonEvent))
	RegisterActivityHandler(handler func())
	UpsertGuildSlashCommands(guildID string, defs []SlashCommandDefinition) error
	Run() error
}
