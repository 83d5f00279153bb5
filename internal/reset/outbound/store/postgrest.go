package store

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/novapos/resetd/internal/pkg/goerror"
	"github.com/novapos/resetd/internal/pkg/instrument"
	"github.com/novapos/resetd/internal/reset/entity"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

const recordsTable = "verification_records"

// ErrPostgRESTBaseURLRequired is returned when the base URL is missing.
var ErrPostgRESTBaseURLRequired = errors.New("postgrest base url is required")

// PostgRESTConfig configures the PostgREST-backed store.
type PostgRESTConfig struct {
	// BaseURL is the REST API root, without trailing slash.
	BaseURL string
	// ServiceKey authenticates as the service role. It is sent both as the
	// apikey header and as a bearer token, which is what hosted facades expect.
	ServiceKey string
	// Timeout bounds each HTTP call.
	Timeout time.Duration
}

// PostgREST is a Store that speaks to the database through its REST facade.
type PostgREST struct {
	baseURL    string
	serviceKey string
	client     *http.Client
	ins        instrument.Instrumentation
}

type recordDTO struct {
	ID        int64     `json:"id,omitempty"`
	Email     string    `json:"email"`
	CodeProof string    `json:"code_proof"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
	Used      bool      `json:"used"`
}

// NewPostgREST constructs a PostgREST store.
func NewPostgREST(cfg PostgRESTConfig, ins instrument.Instrumentation) (*PostgREST, error) {
	if cfg.BaseURL == "" {
		return nil, ErrPostgRESTBaseURLRequired
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 10 * time.Second
	}

	return &PostgREST{
		baseURL:    strings.TrimRight(cfg.BaseURL, "/"),
		serviceKey: cfg.ServiceKey,
		client:     &http.Client{Timeout: cfg.Timeout},
		ins:        ins,
	}, nil
}

func (s *PostgREST) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("reset.outbound.store").Start(ctx, name)
}

func (s *PostgREST) endSpan(span trace.Span, err error) {
	if err != nil && !errors.Is(err, goerror.ErrNotFound) {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	span.End()
}

func (s *PostgREST) do(ctx context.Context, method, rawURL string, body []byte, prefer string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, rawURL, reader)
	if err != nil {
		return nil, err
	}

	req.Header.Set("apikey", s.serviceKey)
	req.Header.Set("Authorization", "Bearer "+s.serviceKey)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	return s.client.Do(req)
}

// Create appends a new verification record. The facade assigns the row id;
// the id on rec is ignored.
func (s *PostgREST) Create(ctx context.Context, rec entity.VerificationRecord) (err error) {
	ctx, span := s.startSpan(ctx, "Create")
	defer func() { s.endSpan(span, err) }()

	payload, err := json.Marshal(recordDTO{
		Email:     rec.Email,
		CodeProof: rec.CodeProof,
		CreatedAt: rec.CreatedAt,
		ExpiresAt: rec.ExpiresAt,
		Used:      false,
	})
	if err != nil {
		return err
	}

	resp, err := s.do(ctx, http.MethodPost, s.baseURL+"/"+recordsTable, payload, "return=minimal")
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("postgrest insert: unexpected status %d", resp.StatusCode)
	}
	return nil
}

// LatestUnused returns the newest unconsumed record for email.
func (s *PostgREST) LatestUnused(ctx context.Context, email string) (_ *entity.VerificationRecord, err error) {
	ctx, span := s.startSpan(ctx, "LatestUnused")
	defer func() { s.endSpan(span, err) }()

	q := url.Values{}
	q.Set("email", "eq."+email)
	q.Set("used", "is.false")
	q.Set("order", "created_at.desc")
	q.Set("limit", "1")

	resp, err := s.do(ctx, http.MethodGet, s.baseURL+"/"+recordsTable+"?"+q.Encode(), nil, "")
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("postgrest select: unexpected status %d", resp.StatusCode)
	}

	var rows []recordDTO
	if err = json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, goerror.ErrNotFound
	}

	row := rows[0]
	return &entity.VerificationRecord{
		ID:        row.ID,
		Email:     row.Email,
		CodeProof: row.CodeProof,
		CreatedAt: row.CreatedAt,
		ExpiresAt: row.ExpiresAt,
		Used:      row.Used,
	}, nil
}

// ConsumeUnused flips used from false to true. The used=is.false filter
// keeps the update a compare-and-swap; return=representation lets us count
// how many rows actually changed.
func (s *PostgREST) ConsumeUnused(ctx context.Context, id int64) (_ bool, err error) {
	ctx, span := s.startSpan(ctx, "ConsumeUnused")
	defer func() { s.endSpan(span, err) }()

	q := url.Values{}
	q.Set("id", "eq."+strconv.FormatInt(id, 10))
	q.Set("used", "is.false")

	resp, err := s.do(ctx, http.MethodPatch, s.baseURL+"/"+recordsTable+"?"+q.Encode(),
		[]byte(`{"used":true}`), "return=representation")
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return false, fmt.Errorf("postgrest update: unexpected status %d", resp.StatusCode)
	}

	var rows []recordDTO
	if err = json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return false, err
	}

	return len(rows) == 1, nil
}
