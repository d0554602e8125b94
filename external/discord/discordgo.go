package discord

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/bwmarrin/discordgo"
	discordpkg "github.com/foxseedlab/bootcampbot/internal/discord"
)

type Client struct {
	session   *discordgo.Session
	token     string
	botUserID string

	mu      sync.Mutex
	pending map[string]*discordgo.Interaction
}

func NewClient(token string) discordpkg.Client {
	return &Client{
		token:   token,
		pending: make(map[string]*discordgo.Interaction),
	}
}

func (c *Client) Connect(ctx context.Context) error {
	_ = ctx
	s, err := discordgo.New("Bot " + c.token)
	if err != nil {
		return err
	}
	c.session = s
	s.Identify.Intents = discordgo.MakeIntent(discordgo.IntentsGuilds)
	if err := s.Open(); err != nil {
		return err
	}
	userID, err := c.getBotUserID()
	if err != nil {
		return err
	}
	c.botUserID = userID
	return nil
}

func (c *Client) Close() error {
	if c.session != nil {
		return c.session.Close()
	}
	return nil
}

func (c *Client) SendChannelMessage(msg discordpkg.ChannelMessage) (string, error) {
	sent, err := c.session.ChannelMessageSendComplex(msg.ChannelID, &discordgo.MessageSend{
		Content:    msg.Content,
		Components: buttonComponents(msg.Buttons),
	})
	if err != nil {
		return "", err
	}
	return sent.ID, nil
}

func (c *Client) EditChannelMessage(messageID string, msg discordpkg.ChannelMessage) error {
	components := buttonComponents(msg.Buttons)
	edit := discordgo.NewMessageEdit(msg.ChannelID, messageID).SetContent(msg.Content)
	edit.Components = &components
	_, err := c.session.ChannelMessageEditComplex(edit)
	return err
}

// SendEphemeral answers the user's pending interaction with a message only
// they can see. Without a pending interaction the content goes to a DM.
func (c *Client) SendEphemeral(channelID, userID, content string) error {
	if ic := c.pendingInteraction(channelID, userID); ic != nil {
		_, err := c.session.FollowupMessageCreate(ic, false, &discordgo.WebhookParams{
			Content: content,
			Flags:   discordgo.MessageFlagsEphemeral,
		})
		return err
	}
	slog.Info("no pending interaction; sending direct message", "channel_id", channelID, "user_id", userID)
	dm, err := c.session.UserChannelCreate(userID)
	if err != nil {
		return fmt.Errorf("failed to open direct message channel: %w", err)
	}
	_, err = c.session.ChannelMessageSend(dm.ID, content)
	return err
}

func (c *Client) RegisterCommandHandler(handler func(discordpkg.CommandEvent)) {
	c.session.AddHandler(func(s *discordgo.Session, ic *discordgo.InteractionCreate) {
		if ic == nil || ic.Type != discordgo.InteractionApplicationCommand {
			return
		}
		data := ic.ApplicationCommandData()
		if data.Name == "" {
			return
		}
		userID := interactionUserID(ic)
		if userID == "" {
			return
		}
		slog.Info("slash command interaction received", "guild_id", ic.GuildID, "channel_id", ic.ChannelID, "command", data.Name, "user_id", userID)
		err := s.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
			Data: &discordgo.InteractionResponseData{Flags: discordgo.MessageFlagsEphemeral},
		})
		if err != nil {
			slog.Error("failed to acknowledge slash command", "error", err, "command", data.Name, "user_id", userID)
			return
		}

		done := c.trackInteraction(ic.ChannelID, userID, ic.Interaction)
		defer done()
		handler(discordpkg.CommandEvent{
			GuildID:     ic.GuildID,
			ChannelID:   ic.ChannelID,
			UserID:      userID,
			CommandName: data.Name,
			Text:        commandText(data.Options),
		})
	})
}

func (c *Client) RegisterButtonHandler(handler func(discordpkg.ButtonEvent)) {
	c.session.AddHandler(func(s *discordgo.Session, ic *discordgo.InteractionCreate) {
		if ic == nil || ic.Type != discordgo.InteractionMessageComponent {
			return
		}
		data := ic.MessageComponentData()
		userID := interactionUserID(ic)
		if userID == "" || data.CustomID == "" {
			return
		}
		slog.Info("button interaction received", "guild_id", ic.GuildID, "channel_id", ic.ChannelID, "custom_id", data.CustomID, "user_id", userID)
		err := s.InteractionRespond(ic.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseDeferredMessageUpdate,
		})
		if err != nil {
			slog.Error("failed to acknowledge button", "error", err, "custom_id", data.CustomID, "user_id", userID)
			return
		}

		done := c.trackInteraction(ic.ChannelID, userID, ic.Interaction)
		defer done()
		handler(discordpkg.ButtonEvent{
			GuildID:   ic.GuildID,
			ChannelID: ic.ChannelID,
			UserID:    userID,
			CustomID:  data.CustomID,
		})
	})
}

// RegisterActivityHandler calls handler for every gateway event.
func (c *Client) RegisterActivityHandler(handler func()) {
	c.session.AddHandler(func(_ *discordgo.Session, _ interface{}) {
		handler()
	})
}

func (c *Client) UpsertGuildSlashCommands(guildID string, defs []discordpkg.SlashCommandDefinition) error {
	appID := c.applicationID()
	if appID == "" {
		return fmt.Errorf("discord application id is not available")
	}
	existing, err := c.session.ApplicationCommands(appID, guildID)
	if err != nil {
		return err
	}
	existingByName := make(map[string]*discordgo.ApplicationCommand, len(existing))
	for _, cmd := range existing {
		if cmd == nil || cmd.Name == "" {
			continue
		}
		existingByName[cmd.Name] = cmd
	}
	for _, def := range defs {
		if err := c.upsertGuildSlashCommand(appID, guildID, def, existingByName); err != nil {
			return err
		}
	}
	return nil
}

func (c *Client) upsertGuildSlashCommand(appID, guildID string, def discordpkg.SlashCommandDefinition, existingByName map[string]*discordgo.ApplicationCommand) error {
	if def.Name == "" {
		return nil
	}
	payload := slashCommandPayload(def)
	cmd, ok := existingByName[def.Name]
	if !ok {
		_, err := c.session.ApplicationCommandCreate(appID, guildID, payload)
		return err
	}
	if sameSlashCommand(cmd, payload) {
		return nil
	}
	_, err := c.session.ApplicationCommandEdit(appID, guildID, cmd.ID, payload)
	return err
}

func slashCommandPayload(def discordpkg.SlashCommandDefinition) *discordgo.ApplicationCommand {
	options := make([]*discordgo.ApplicationCommandOption, 0, len(def.Options))
	for _, opt := range def.Options {
		options = append(options, &discordgo.ApplicationCommandOption{
			Type:        discordgo.ApplicationCommandOptionString,
			Name:        opt.Name,
			Description: opt.Description,
			Required:    opt.Required,
		})
	}
	return &discordgo.ApplicationCommand{
		Name:        def.Name,
		Description: def.Description,
		Options:     options,
	}
}

func sameSlashCommand(existing, desired *discordgo.ApplicationCommand) bool {
	if existing.Description != desired.Description || len(existing.Options) != len(desired.Options) {
		return false
	}
	for i, opt := range desired.Options {
		got := existing.Options[i]
		if got == nil || got.Name != opt.Name || got.Description != opt.Description || got.Required != opt.Required {
			return false
		}
	}
	return true
}

// commandText joins the string options of a slash command in order, so
// action "join" and when "every monday" read "join every monday".
func commandText(options []*discordgo.ApplicationCommandInteractionDataOption) string {
	parts := make([]string, 0, len(options))
	for _, opt := range options {
		if opt == nil || opt.Type != discordgo.ApplicationCommandOptionString {
			continue
		}
		if v := strings.TrimSpace(opt.StringValue()); v != "" {
			parts = append(parts, v)
		}
	}
	return strings.Join(parts, " ")
}

func buttonComponents(buttons []discordpkg.Button) []discordgo.MessageComponent {
	if len(buttons) == 0 {
		return []discordgo.MessageComponent{}
	}
	row := discordgo.ActionsRow{}
	for _, b := range buttons {
		style := discordgo.SecondaryButton
		if b.Primary {
			style = discordgo.PrimaryButton
		}
		row.Components = append(row.Components, discordgo.Button{
			Label:    b.Label,
			Style:    style,
			CustomID: b.CustomID,
		})
	}
	return []discordgo.MessageComponent{row}
}

func interactionUserID(ic *discordgo.InteractionCreate) string {
	if ic.Member != nil && ic.Member.User != nil {
		return ic.Member.User.ID
	}
	if ic.User != nil {
		return ic.User.ID
	}
	return ""
}

func pendingKey(channelID, userID string) string {
	return channelID + ":" + userID
}

func (c *Client) trackInteraction(channelID, userID string, ic *discordgo.Interaction) func() {
	key := pendingKey(channelID, userID)
	c.mu.Lock()
	c.pending[key] = ic
	c.mu.Unlock()
	return func() {
		c.mu.Lock()
		defer c.mu.Unlock()
		if c.pending[key] == ic {
			delete(c.pending, key)
		}
	}
}

func (c *Client) pendingInteraction(channelID, userID string) *discordgo.Interaction {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.pending[pendingKey(channelID, userID)]
}

func (c *Client) getBotUserID() (string, error) {
	if c.botUserID != "" {
		return c.botUserID, nil
	}
	if c.session == nil {
		return "", fmt.Errorf("discord session is not initialized")
	}
	if c.session.State != nil && c.session.State.User != nil && c.session.State.User.ID != "" {
		c.botUserID = c.session.State.User.ID
		return c.botUserID, nil
	}
	u, err := c.session.User("@me")
	if err != nil {
		return "", err
	}
	c.botUserID = u.ID
	return c.botUserID, nil
}

func (c *Client) applicationID() string {
	if c.session == nil || c.session.State == nil {
		return ""
	}
	if c.session.State.Application != nil && c.session.State.Application.ID != "" {
		return c.session.State.Application.ID
	}
	if c.session.State.User != nil {
		return c.session.State.User.ID
	}
	return ""
}

func (c *Client) Run() error {
	select {}
}
