package session

import (
	"context"
	"log/slog"

	"github.com/foxseedlab/bootcampbot/internal/discord"
	"github.com/foxseedlab/bootcampbot/internal/presenter"
)

const (
	SlashCommandName = "bootcamp"

	slashOptionAction = "action"
	slashOptionWhen   = "when"
)

func SlashCommandDefinitions() []discord.SlashCommandDefinition {
	return []discord.SlashCommandDefinition{
		{
			Name:        SlashCommandName,
			Description: slashCommandDescription,
			Options: []discord.SlashCommandOption{
				{Name: slashOptionAction, Description: slashOptionActionDescription},
				{Name: slashOptionWhen, Description: slashOptionWhenDescription},
			},
		},
	}
}

func (s *Scheduler) HandleCommand(event discord.CommandEvent) {
	if event.GuildID != s.cfg.DiscordGuildID {
		slog.Info("ignoring command for different guild", "event_guild_id", event.GuildID, "configured_guild_id", s.cfg.DiscordGuildID)
		return
	}
	if event.CommandName != SlashCommandName {
		slog.Info("ignoring unknown command", "command", event.CommandName)
		return
	}
	slog.Info("command received", "user_id", event.UserID, "channel_id", event.ChannelID, "text", event.Text)
	cmd := ParseCommand(event.Text, event.UserID, event.ChannelID)
	if err := s.Dispatch(context.Background(), cmd); err != nil {
		slog.Error("failed to handle command", "error", err, "user_id", event.UserID, "text", event.Text)
	}
}

func (s *Scheduler) HandleButton(event discord.ButtonEvent) {
	if event.GuildID != s.cfg.DiscordGuildID {
		slog.Info("ignoring button for different guild", "event_guild_id", event.GuildID, "configured_guild_id", s.cfg.DiscordGuildID)
		return
	}
	action, sessionID, ok := presenter.ParseButtonCustomID(event.CustomID)
	if !ok {
		slog.Warn("ignoring unknown button", "custom_id", event.CustomID)
		return
	}
	req := SessionRequest{SessionID: sessionID, User: event.UserID, Channel: event.ChannelID}
	var cmd Command = JoinCommand{Request: req}
	if action == presenter.ActionQuit {
		cmd = QuitCommand{Request: req}
	}
	if err := s.Dispatch(context.Background(), cmd); err != nil {
		slog.Error("failed to handle button", "error", err, "user_id", event.UserID, "action", action)
	}
}
