package usecase

import (
	"context"

	"github.com/novapos/resetd/internal/pkg/clock"
	"github.com/novapos/resetd/internal/pkg/config"
	"github.com/novapos/resetd/internal/pkg/instrument"
	"go.opentelemetry.io/otel/trace"
)

type Usecase struct {
	cfg   config.Config
	clock clock.Clocker
	ins   instrument.Instrumentation
}

type Dependency struct {
	Config     config.Config
	Clock      clock.Clocker
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		cfg:   dep.Config,
		clock: dep.Clock,
		ins:   dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("hours.usecase").Start(ctx, name)
}
