package store

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/novapos/resetd/internal/pkg/config"
	"github.com/novapos/resetd/internal/pkg/instrument"
	"github.com/novapos/resetd/internal/reset/entity"
)

// Store persists verification records.
//
// All implementations share the same contract: Create appends a new record,
// LatestUnused returns the newest unconsumed record for an email (or
// goerror.ErrNotFound), and ConsumeUnused atomically flips used from false
// to true, reporting false when another caller got there first.
type Store interface {
	Create(ctx context.Context, rec entity.VerificationRecord) error
	LatestUnused(ctx context.Context, email string) (*entity.VerificationRecord, error)
	ConsumeUnused(ctx context.Context, id int64) (bool, error)
}

// New selects a Store implementation from config.
//
// "postgres" talks to the database directly over pgx; "postgrest" goes
// through a REST facade with a service key, for deployments where the
// database is only reachable through its hosted API.
func New(cfg config.Config, pool *pgxpool.Pool, ins instrument.Instrumentation) (Store, error) {
	driver := cfg.GetString("store.driver")
	switch driver {
	case "postgres":
		if pool == nil {
			return nil, fmt.Errorf("store: postgres driver requires a database connection")
		}
		return NewPostgres(pool, ins), nil
	case "postgrest":
		return NewPostgREST(PostgRESTConfig{
			BaseURL:    cfg.GetString("store.postgrest.base_url"),
			ServiceKey: cfg.GetString("store.postgrest.service_key"),
			Timeout:    cfg.GetSecond("store.postgrest.timeout_seconds"),
		}, ins)
	default:
		return nil, fmt.Errorf("store: unknown driver %q", driver)
	}
}
