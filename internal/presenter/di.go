package presenter

import (
	"time"

	"github.com/foxseedlab/bootcampbot/internal/calendar"
	"github.com/foxseedlab/bootcampbot/internal/config"
	"github.com/foxseedlab/bootcampbot/internal/discord"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Discord, error) {
		cfg := do.MustInvoke[*config.Config](i)
		dc := do.MustInvoke[discord.Client](i)
		return NewDiscord(dc, cfg.DiscordChannelID, func() calendar.Date { return calendar.Today(time.Local) }), nil
	})
	do.Provide(injector, func(i do.Injector) (SessionPresenter, error) {
		return do.MustInvoke[*Discord](i), nil
	})
	do.Provide(injector, func(i do.Injector) (HelpPrinter, error) {
		return do.MustInvoke[*Discord](i), nil
	})
	do.Provide(injector, func(i do.Injector) (LeaderboardPresenter, error) {
		return do.MustInvoke[*Discord](i), nil
	})
}
