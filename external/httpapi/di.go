package httpapi

import (
	"github.com/foxseedlab/bootcampbot/internal/config"
	"github.com/foxseedlab/bootcampbot/internal/session"
	"github.com/samber/do/v2"
)

func RegisterDI(injector do.Injector) {
	do.Provide(injector, func(i do.Injector) (*Server, error) {
		cfg := do.MustInvoke[*config.Config](i)
		scheduler := do.MustInvoke[*session.Scheduler](i)
		return NewServer(cfg.HTTPAddr, scheduler), nil
	})
}
