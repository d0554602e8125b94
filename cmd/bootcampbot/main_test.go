package main

import (
	"context"
	"errors"
	"slices"
	"testing"

	discordpkg "github.com/foxseedlab/bootcampbot/internal/discord"
)

type startupLog struct {
	steps []string
}

type mockDiscordClient struct {
	discordpkg.Client
	log *startupLog
}

func (m *mockDiscordClient) RegisterCommandHandler(_ func(discordpkg.CommandEvent)) {
	m.log.steps = append(m.log.steps, "register_command")
}

func (m *mockDiscordClient) RegisterButtonHandler(_ func(discordpkg.ButtonEvent)) {
	m.log.steps = append(m.log.steps, "register_button")
}

type mockBotScheduler struct {
	log      *startupLog
	startErr error
}

func (m *mockBotScheduler) Start(_ context.Context) error {
	m.log.steps = append(m.log.steps, "start")
	return m.startErr
}

func (m *mockBotScheduler) HandleCommand(_ discordpkg.CommandEvent) {}
func (m *mockBotScheduler) HandleButton(_ discordpkg.ButtonEvent)   {}

func TestStartScheduler_LoadsRegistryBeforeHandlers(t *testing.T) {
	for _, startErr := range []error{nil, errors.New("storage unavailable")} {
		log := &startupLog{}
		startScheduler(context.Background(), &mockDiscordClient{log: log}, &mockBotScheduler{log: log, startErr: startErr})

		want := []string{"start", "register_command", "register_button"}
		if !slices.Equal(log.steps, want) {
			t.Fatalf("unexpected startup order with start error %v: %v", startErr, log.steps)
		}
	}
}
