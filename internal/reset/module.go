package reset

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/novapos/resetd/internal/pkg/clock"
	"github.com/novapos/resetd/internal/pkg/config"
	"github.com/novapos/resetd/internal/pkg/hash"
	"github.com/novapos/resetd/internal/pkg/instrument"
	"github.com/novapos/resetd/internal/pkg/mail"
	"github.com/novapos/resetd/internal/pkg/otpcode"
	"github.com/novapos/resetd/internal/pkg/ratelimit"
	"github.com/novapos/resetd/internal/pkg/router"
	"github.com/novapos/resetd/internal/pkg/uid"
	"github.com/novapos/resetd/internal/pkg/validator"
	"github.com/novapos/resetd/internal/reset/inbound"
	"github.com/novapos/resetd/internal/reset/outbound/identity"
	"github.com/novapos/resetd/internal/reset/outbound/store"
	"github.com/novapos/resetd/internal/reset/usecase"
	"github.com/redis/go-redis/v9"
)

type Dependency struct {
	// DBConn is only required when store.driver is "postgres".
	DBConn     *pgxpool.Pool
	CacheConn  *redis.Client
	Router     *router.Router             `validate:"required"`
	Config     config.Config              `validate:"required"`
	Instrument instrument.Instrumentation `validate:"required"`
	Mail       mail.Mail                  `validate:"required"`
	UID        uid.NumberID               `validate:"required"`
	HMAC       hash.Hash                  `validate:"required"`
	Clock      clock.Clocker              `validate:"required"`
	Validator  validator.Validator        `validate:"required"`
}

func New(dep Dependency) error {
	if err := dep.Validator.Validate(dep); err != nil {
		return err
	}

	st, err := store.New(dep.Config, dep.DBConn, dep.Instrument)
	if err != nil {
		return err
	}

	idp, err := identity.New(identity.Config{
		BaseURL:        dep.Config.GetString("identity.base_url"),
		ServiceKey:     dep.Config.GetString("identity.service_key"),
		Timeout:        dep.Config.GetSecond("identity.timeout_seconds"),
		FilteredLookup: dep.Config.GetBool("identity.filtered_lookup"),
		PageSize:       dep.Config.GetInt("identity.scan_page_size"),
		MaxPages:       dep.Config.GetInt("identity.scan_max_pages"),
	}, dep.Instrument)
	if err != nil {
		return err
	}

	var limiter ratelimit.Limiter = ratelimit.Noop{}
	if dep.Config.GetBool("ratelimit.enabled") && dep.CacheConn != nil {
		limiter = ratelimit.NewFixedWindow(
			dep.CacheConn,
			"otp",
			dep.Config.GetInt("ratelimit.max_requests"),
			dep.Config.GetMinute("ratelimit.window_minutes"),
		)
	}

	uc := usecase.New(usecase.Dependency{
		Store:      st,
		Identity:   idp,
		Mail:       dep.Mail,
		Limiter:    limiter,
		Validator:  dep.Validator,
		Config:     dep.Config,
		HMAC:       dep.HMAC,
		OTP:        otpcode.NewRandom(),
		UID:        dep.UID,
		Clock:      dep.Clock,
		Instrument: dep.Instrument,
	})

	inbound.RegisterHTTPEndpoint(dep.Router, uc)

	return nil
}
