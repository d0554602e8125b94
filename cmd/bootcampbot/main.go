package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	configloader "github.com/foxseedlab/bootcampbot/external/config"
	"github.com/foxseedlab/bootcampbot/external/discord"
	"github.com/foxseedlab/bootcampbot/external/httpapi"
	repositoryimpl "github.com/foxseedlab/bootcampbot/external/repository"
	webhookimpl "github.com/foxseedlab/bootcampbot/external/webhook"
	"github.com/foxseedlab/bootcampbot/internal/config"
	discordpkg "github.com/foxseedlab/bootcampbot/internal/discord"
	"github.com/foxseedlab/bootcampbot/internal/presenter"
	"github.com/foxseedlab/bootcampbot/internal/session"
	"github.com/foxseedlab/bootcampbot/internal/watchdog"
	"github.com/samber/do/v2"
	"github.com/spf13/cobra"
)

const discordConnectTimeout = 20 * time.Second

func main() {
	if err := newRootCmd().Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           "bootcampbot",
		Short:         "Discord bot for signing up to bootcamp sessions",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(newServeCmd())
	root.AddCommand(newSessionsCmd())
	root.AddCommand(newSchedulesCmd())
	root.AddCommand(newLeaderboardCmd())
	return root
}

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the bot",
		RunE: func(_ *cobra.Command, _ []string) error {
			slog.Info("startup: loading configuration")
			cfg, err := configloader.Load()
			if err != nil {
				return fmt.Errorf("config validation failed: %w", err)
			}
			initLogger(cfg)
			slog.Info("startup: configuration loaded", "env", cfg.Env, "storage_backend", cfg.StorageBackend)

			slog.Info("startup: building dependency graph")
			injector := setupDI(cfg)
			defer shutdownDI(injector)

			slog.Info("startup: launching discord bot")
			return runBot(cfg, injector)
		},
	}
}

func initLogger(cfg *config.Config) {
	logLevel := slog.LevelInfo
	if cfg.IsDevelopment() {
		logLevel = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})))
}

func setupDI(cfg *config.Config) do.Injector {
	injector := do.New()

	do.ProvideValue(injector, cfg)
	repositoryimpl.RegisterDI(injector)
	discord.RegisterDI(injector)
	presenter.RegisterDI(injector)
	webhookimpl.RegisterDI(injector)
	session.RegisterDI(injector)
	httpapi.RegisterDI(injector)

	return injector
}

func shutdownDI(injector do.Injector) {
	if report := injector.Shutdown(); report != nil && !report.Succeed {
		slog.Error("dependency shutdown failed", "error", report.Error())
	}
}

func runBot(cfg *config.Config, injector do.Injector) error {
	dc, err := do.Invoke[discordpkg.Client](injector)
	if err != nil {
		return fmt.Errorf("failed to resolve discord client: %w", err)
	}
	scheduler, err := do.Invoke[*session.Scheduler](injector)
	if err != nil {
		return fmt.Errorf("failed to resolve scheduler: %w", err)
	}

	connectCtx, cancelConnect := context.WithTimeout(context.Background(), discordConnectTimeout)
	defer cancelConnect()

	slog.Info("startup: connecting to discord gateway")
	if err := dc.Connect(connectCtx); err != nil {
		return fmt.Errorf("discord connect failed: %w", err)
	}
	slog.Info("startup: discord connected")
	defer func() {
		if err := dc.Close(); err != nil {
			slog.Error("discord close failed", "error", err)
		}
	}()

	if err := dc.UpsertGuildSlashCommands(cfg.DiscordGuildID, session.SlashCommandDefinitions()); err != nil {
		return fmt.Errorf("failed to upsert slash commands in guild %s: %w", cfg.DiscordGuildID, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if cfg.InactivityTimeout > 0 {
		countdown := watchdog.NewCountdown(cfg.InactivityTimeout, func() {
			slog.Warn("no gateway activity, shutting down", "timeout", cfg.InactivityTimeout.String())
			stop()
		})
		countdown.Start()
		defer countdown.Stop()
		dc.RegisterActivityHandler(countdown.Reset)
	}
	startScheduler(ctx, dc, scheduler)
	slog.Info("discord handlers registered", "guild_id", cfg.DiscordGuildID, "commands", []string{session.SlashCommandName})

	go runTicker(ctx, cfg.TickInterval, scheduler)

	if cfg.HTTPAddr != "" {
		server, err := do.Invoke[*httpapi.Server](injector)
		if err != nil {
			return fmt.Errorf("failed to resolve http server: %w", err)
		}
		go func() {
			if err := server.ListenAndServe(ctx); err != nil {
				slog.Error("http server failed", "error", err)
			}
		}()
	}

	done := make(chan struct{})
	go func() {
		slog.Info("startup: entering discord run loop")
		if err := dc.Run(); err != nil {
			slog.Error("discord run failed", "error", err)
		}
		close(done)
	}()

	select {
	case <-ctx.Done():
		slog.Info("shutting down")
	case <-done:
	}
	return nil
}

type botScheduler interface {
	Start(ctx context.Context) error
	HandleCommand(event discordpkg.CommandEvent)
	HandleButton(event discordpkg.ButtonEvent)
}

// startScheduler loads the registry before any interaction can reach it.
func startScheduler(ctx context.Context, dc discordpkg.Client, scheduler botScheduler) {
	if err := scheduler.Start(ctx); err != nil {
		slog.Error("scheduler start incomplete", "error", err)
	}
	dc.RegisterCommandHandler(scheduler.HandleCommand)
	dc.RegisterButtonHandler(scheduler.HandleButton)
}

func runTicker(ctx context.Context, interval time.Duration, scheduler *session.Scheduler) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := scheduler.OnTick(ctx); err != nil {
				slog.Error("morning routine failed", "error", err)
			}
		}
	}
}
