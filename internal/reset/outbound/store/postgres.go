package store

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/novapos/resetd/internal/pkg/goerror"
	"github.com/novapos/resetd/internal/pkg/instrument"
	"github.com/novapos/resetd/internal/reset/entity"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Postgres is a Store backed directly by PostgreSQL over pgx.
type Postgres struct {
	conn *pgxpool.Pool
	ins  instrument.Instrumentation
}

// NewPostgres constructs a Postgres store.
func NewPostgres(conn *pgxpool.Pool, ins instrument.Instrumentation) *Postgres {
	return &Postgres{conn: conn, ins: ins}
}

func (s *Postgres) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("reset.outbound.store").Start(ctx, name)
}

func (s *Postgres) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

// Create appends a new verification record.
func (s *Postgres) Create(ctx context.Context, rec entity.VerificationRecord) (err error) {
	ctx, span := s.startSpan(ctx, "Create")
	defer func() { s.endSpan(span, err) }()

	_, err = s.conn.Exec(ctx, `
		INSERT INTO verification_records (id, email, code_proof, created_at, expires_at, used)
		VALUES ($1, $2, $3, $4, $5, false)`,
		rec.ID, rec.Email, rec.CodeProof, rec.CreatedAt, rec.ExpiresAt,
	)
	return err
}

// LatestUnused returns the newest unconsumed record for email.
func (s *Postgres) LatestUnused(ctx context.Context, email string) (_ *entity.VerificationRecord, err error) {
	ctx, span := s.startSpan(ctx, "LatestUnused")
	defer func() { s.endSpan(span, err) }()

	var rec entity.VerificationRecord
	err = s.conn.QueryRow(ctx, `
		SELECT id, email, code_proof, created_at, expires_at, used
		FROM verification_records
		WHERE email = $1 AND used = false
		ORDER BY created_at DESC
		LIMIT 1`,
		email,
	).Scan(&rec.ID, &rec.Email, &rec.CodeProof, &rec.CreatedAt, &rec.ExpiresAt, &rec.Used)

	if errors.Is(err, pgx.ErrNoRows) {
		return nil, goerror.ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	return &rec, nil
}

// ConsumeUnused flips used from false to true for the given record. The
// WHERE clause makes the transition a compare-and-swap: a second caller
// sees zero rows affected and gets false.
func (s *Postgres) ConsumeUnused(ctx context.Context, id int64) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "ConsumeUnused")
	defer func() { s.endSpan(span, err) }()

	tag, err := s.conn.Exec(ctx, `
		UPDATE verification_records
		SET used = true
		WHERE id = $1 AND used = false`,
		id,
	)
	if err != nil {
		return false, err
	}

	return tag.RowsAffected() == 1, nil
}
