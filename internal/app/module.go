package app

import (
	"log/slog"
	"os"

	"github.com/novapos/resetd/internal/hours"
	"github.com/novapos/resetd/internal/reset"
)

func (a *App) initModules() {
	if err := reset.New(reset.Dependency{
		DBConn:     a.dbConn,
		CacheConn:  a.cacheConn,
		Router:     a.router,
		Config:     a.config,
		Instrument: a.ins,
		Mail:       a.mail,
		UID:        a.uid,
		HMAC:       a.hmac,
		Clock:      a.clock,
		Validator:  a.validator,
	}); err != nil {
		slog.Error("failed to init module reset", "error", err)
		os.Exit(1)
	}

	if a.config.GetBool("modules.hours.enabled") {
		if err := hours.New(hours.Dependency{
			Router:     a.router,
			Config:     a.config,
			Instrument: a.ins,
			Clock:      a.clock,
			Validator:  a.validator,
		}); err != nil {
			slog.Error("failed to init module hours", "error", err)
			os.Exit(1)
		}
	}
}
