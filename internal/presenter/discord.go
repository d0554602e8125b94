package presenter

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/foxseedlab/bootcampbot/internal/calendar"
	"github.com/foxseedlab/bootcampbot/internal/discord"
	"github.com/foxseedlab/bootcampbot/internal/leaderboard"
	"github.com/foxseedlab/bootcampbot/internal/repository"
)

// Discord renders sessions, help and leaderboards into one guild channel.
type Discord struct {
	client    discord.Client
	channelID string
	today     func() calendar.Date
}

func NewDiscord(client discord.Client, channelID string, today func() calendar.Date) *Discord {
	return &Discord{client: client, channelID: channelID, today: today}
}

func (d *Discord) PresentSession(_ context.Context, session *repository.Session) error {
	msg := d.renderSession(session)
	if session.MessageID != "" {
		return d.client.EditChannelMessage(session.MessageID, msg)
	}
	id, err := d.client.SendChannelMessage(msg)
	if err != nil {
		return fmt.Errorf("failed to post session %s: %w", session.ID, err)
	}
	session.MessageID = id
	slog.Info("session message posted", "session_id", session.ID, "message_id", id, "date", session.Date.String())
	return nil
}

func (d *Discord) RepresentSession(_ context.Context, session *repository.Session) error {
	if session.MessageID == "" {
		return nil
	}
	return d.client.EditChannelMessage(session.MessageID, d.renderSession(session))
}

func (d *Discord) PrintHelp(_ context.Context, user, channel string) error {
	return d.client.SendEphemeral(channel, user, messageHelp)
}

func (d *Discord) PrintInfo(_ context.Context, user, channel, message string) error {
	return d.client.SendEphemeral(channel, user, message)
}

func (d *Discord) PresentLeaderboard(_ context.Context, board *leaderboard.Leaderboard) error {
	_, err := d.client.SendChannelMessage(discord.ChannelMessage{
		ChannelID: d.channelID,
		Content:   renderLeaderboard(board),
	})
	return err
}

func (d *Discord) PresentLeaderboardForUser(_ context.Context, board *leaderboard.Leaderboard, user, channel string) error {
	return d.client.SendEphemeral(channel, user, renderLeaderboard(board))
}

func (d *Discord) renderSession(session *repository.Session) discord.ChannelMessage {
	intro := fmt.Sprintf(messageIntroFormat, session.Date.Human())
	if session.Date == d.today() {
		intro = messageIntroToday
	}
	return discord.ChannelMessage{
		ChannelID: d.channelID,
		Content:   intro + "\n" + renderParticipants(session.Participants, session.Limit),
		Buttons: []discord.Button{
			{Label: buttonLabelJoin, CustomID: buttonCustomID(ActionJoin, session.ID), Primary: true},
			{Label: buttonLabelQuit, CustomID: buttonCustomID(ActionQuit, session.ID)},
		},
	}
}
