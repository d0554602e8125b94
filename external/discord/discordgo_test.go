package discord

import (
	"encoding/json"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	discordpkg "github.com/foxseedlab/bootcampbot/internal/discord"
)

type roundTripFunc func(req *http.Request) (*http.Response, error)

func (f roundTripFunc) RoundTrip(req *http.Request) (*http.Response, error) {
	return f(req)
}

func newTestSession(t *testing.T, rt roundTripFunc) *discordgo.Session {
	t.Helper()
	s, err := discordgo.New("Bot test-token")
	if err != nil {
		t.Fatalf("failed to create session: %v", err)
	}
	if rt != nil {
		s.Client = &http.Client{Transport: rt}
	}
	return s
}

func jsonResponse(body string) *http.Response {
	return &http.Response{
		StatusCode: http.StatusOK,
		Status:     "200 OK",
		Body:       io.NopCloser(strings.NewReader(body)),
		Header:     make(http.Header),
	}
}

func newTestClient(s *discordgo.Session) *Client {
	return &Client{session: s, pending: make(map[string]*discordgo.Interaction)}
}

func TestSendChannelMessage_ReturnsMessageIDAndSendsButtons(t *testing.T) {
	var payload map[string]any
	s := newTestSession(t, func(req *http.Request) (*http.Response, error) {
		if req.Method != http.MethodPost || !strings.HasSuffix(req.URL.Path, "/channels/channel-1/messages") {
			t.Fatalf("unexpected request: %s %s", req.Method, req.URL.Path)
		}
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		return jsonResponse(`{"id":"message-1","channel_id":"channel-1"}`), nil
	})

	c := newTestClient(s)
	id, err := c.SendChannelMessage(discordpkg.ChannelMessage{
		ChannelID: "channel-1",
		Content:   "hello",
		Buttons: []discordpkg.Button{
			{Label: "Join", CustomID: "bootcamp_join:s1", Primary: true},
			{Label: "Quit", CustomID: "bootcamp_quit:s1"},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if id != "message-1" {
		t.Fatalf("expected message-1, got %q", id)
	}
	if payload["content"] != "hello" {
		t.Fatalf("unexpected content: %v", payload["content"])
	}
	rows, _ := payload["components"].([]any)
	if len(rows) != 1 {
		t.Fatalf("expected one action row, got %v", payload["components"])
	}
	buttons, _ := rows[0].(map[string]any)["components"].([]any)
	if len(buttons) != 2 {
		t.Fatalf("expected two buttons, got %v", rows[0])
	}
	first := buttons[0].(map[string]any)
	if first["custom_id"] != "bootcamp_join:s1" || first["style"] != float64(discordgo.PrimaryButton) {
		t.Fatalf("unexpected first button: %v", first)
	}
}

func TestSendEphemeral_UsesPendingInteraction(t *testing.T) {
	var payload map[string]any
	s := newTestSession(t, func(req *http.Request) (*http.Response, error) {
		if !strings.Contains(req.URL.Path, "/webhooks/app-1/interaction-token") {
			t.Fatalf("unexpected request path: %s", req.URL.Path)
		}
		if err := json.NewDecoder(req.Body).Decode(&payload); err != nil {
			t.Fatalf("failed to decode body: %v", err)
		}
		return jsonResponse(`{}`), nil
	})

	c := newTestClient(s)
	done := c.trackInteraction("channel-1", "user-1", &discordgo.Interaction{AppID: "app-1", Token: "interaction-token"})
	defer done()

	if err := c.SendEphemeral("channel-1", "user-1", "only for you"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if payload["content"] != "only for you" {
		t.Fatalf("unexpected content: %v", payload["content"])
	}
	if payload["flags"] != float64(discordgo.MessageFlagsEphemeral) {
		t.Fatalf("expected ephemeral flag, got %v", payload["flags"])
	}
}

func TestSendEphemeral_FallsBackToDirectMessage(t *testing.T) {
	var paths []string
	s := newTestSession(t, func(req *http.Request) (*http.Response, error) {
		paths = append(paths, req.URL.Path)
		switch {
		case strings.HasSuffix(req.URL.Path, "/users/@me/channels"):
			return jsonResponse(`{"id":"dm-1","type":1}`), nil
		case strings.HasSuffix(req.URL.Path, "/channels/dm-1/messages"):
			return jsonResponse(`{"id":"message-2","channel_id":"dm-1"}`), nil
		default:
			t.Fatalf("unexpected request path: %s", req.URL.Path)
			return nil, nil
		}
	})

	c := newTestClient(s)
	if err := c.SendEphemeral("channel-1", "user-1", "hello"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected two requests, got %v", paths)
	}
}

func TestTrackInteraction_DoneClearsPending(t *testing.T) {
	c := newTestClient(nil)
	done := c.trackInteraction("channel-1", "user-1", &discordgo.Interaction{ID: "i-1"})
	if c.pendingInteraction("channel-1", "user-1") == nil {
		t.Fatal("expected pending interaction")
	}
	if c.pendingInteraction("channel-2", "user-1") != nil {
		t.Fatal("expected interaction to be scoped to its channel")
	}
	done()
	if c.pendingInteraction("channel-1", "user-1") != nil {
		t.Fatal("expected pending interaction to be cleared")
	}
}

func TestCommandText(t *testing.T) {
	options := []*discordgo.ApplicationCommandInteractionDataOption{
		{Name: "action", Type: discordgo.ApplicationCommandOptionString, Value: "join"},
		{Name: "when", Type: discordgo.ApplicationCommandOptionString, Value: " every monday "},
		{Name: "count", Type: discordgo.ApplicationCommandOptionInteger, Value: float64(3)},
	}
	if got := commandText(options); got != "join every monday" {
		t.Fatalf("unexpected text: %q", got)
	}
	if got := commandText(nil); got != "" {
		t.Fatalf("expected empty text, got %q", got)
	}
}

func TestSameSlashCommand(t *testing.T) {
	def := discordpkg.SlashCommandDefinition{
		Name:        "bootcamp",
		Description: "Join or quit bootcamp sessions.",
		Options:     []discordpkg.SlashCommandOption{{Name: "action", Description: "join or quit"}},
	}
	desired := slashCommandPayload(def)
	existing := slashCommandPayload(def)
	if !sameSlashCommand(existing, desired) {
		t.Fatal("expected identical commands to match")
	}
	existing.Options[0].Description = "old"
	if sameSlashCommand(existing, desired) {
		t.Fatal("expected changed option description to differ")
	}
	existing.Options = nil
	if sameSlashCommand(existing, desired) {
		t.Fatal("expected missing options to differ")
	}
}
