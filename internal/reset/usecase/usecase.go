package usecase

import (
	"context"

	"github.com/novapos/resetd/internal/pkg/clock"
	"github.com/novapos/resetd/internal/pkg/config"
	"github.com/novapos/resetd/internal/pkg/hash"
	"github.com/novapos/resetd/internal/pkg/instrument"
	"github.com/novapos/resetd/internal/pkg/mail"
	"github.com/novapos/resetd/internal/pkg/otpcode"
	"github.com/novapos/resetd/internal/pkg/ratelimit"
	"github.com/novapos/resetd/internal/pkg/uid"
	"github.com/novapos/resetd/internal/pkg/validator"
	"github.com/novapos/resetd/internal/reset/entity"
	"go.opentelemetry.io/otel/trace"
)

type store interface {
	Create(ctx context.Context, rec entity.VerificationRecord) error
	LatestUnused(ctx context.Context, email string) (*entity.VerificationRecord, error)
	ConsumeUnused(ctx context.Context, id int64) (bool, error)
}

type identityProvider interface {
	FindByEmail(ctx context.Context, email string) (*entity.Identity, error)
	UpdatePassword(ctx context.Context, id, newPassword string) error
}

type Usecase struct {
	store     store
	identity  identityProvider
	mailer    mail.Mail
	limiter   ratelimit.Limiter
	validator validator.Validator
	cfg       config.Config
	hmac      hash.Hash
	otp       otpcode.Generator
	uid       uid.NumberID
	clock     clock.Clocker
	ins       instrument.Instrumentation
}

type Dependency struct {
	Store      store
	Identity   identityProvider
	Mail       mail.Mail
	Limiter    ratelimit.Limiter
	Validator  validator.Validator
	Config     config.Config
	HMAC       hash.Hash
	OTP        otpcode.Generator
	UID        uid.NumberID
	Clock      clock.Clocker
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		store:     dep.Store,
		identity:  dep.Identity,
		mailer:    dep.Mail,
		limiter:   dep.Limiter,
		validator: dep.Validator,
		cfg:       dep.Config,
		hmac:      dep.HMAC,
		otp:       dep.OTP,
		uid:       dep.UID,
		clock:     dep.Clock,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("reset.usecase").Start(ctx, name)
}

// proofMessage binds the code to the email so a code issued for one address
// can never verify another.
func proofMessage(email, code string) string {
	return email + ":" + code
}
