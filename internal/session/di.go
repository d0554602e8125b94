package session

import (
	"github.com/foxseedlab/bootcampbot/internal/config"
	"github.com/foxseedlab/bootcampbot/internal/presenter"
	"github.com/foxseedlab/bootcampbot/internal/repository"
	"github.com/foxseedlab/bootcampbot/internal/webhook"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Scheduler, error) {
		cfg := do.MustInvoke[*config.Config](i)
		repo := do.MustInvoke[repository.Repository](i)
		sp := do.MustInvoke[presenter.SessionPresenter](i)
		hp := do.MustInvoke[presenter.HelpPrinter](i)
		lp := do.MustInvoke[presenter.LeaderboardPresenter](i)
		wh := do.MustInvoke[webhook.Sender](i)
		return NewScheduler(cfg, repo, sp, hp, lp, wh), nil
	})
}
