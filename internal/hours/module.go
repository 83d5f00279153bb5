package hours

import (
	"github.com/novapos/resetd/internal/hours/inbound"
	"github.com/novapos/resetd/internal/hours/usecase"
	"github.com/novapos/resetd/internal/pkg/clock"
	"github.com/novapos/resetd/internal/pkg/config"
	"github.com/novapos/resetd/internal/pkg/instrument"
	"github.com/novapos/resetd/internal/pkg/router"
	"github.com/novapos/resetd/internal/pkg/validator"
)

type Dependency struct {
	Router     *router.Router             `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	uc := usecase.New(usecase.Dependency{
		Config:     dep.Config,
		Clock:      dep.Clock,
		Instrument: dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
