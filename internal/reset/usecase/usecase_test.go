package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/novapos/resetd/internal/pkg/clock"
	"github.com/novapos/resetd/internal/pkg/config"
	"github.com/novapos/resetd/internal/pkg/goerror"
	"github.com/novapos/resetd/internal/pkg/hash"
	"github.com/novapos/resetd/internal/pkg/instrument"
	"github.com/novapos/resetd/internal/pkg/mail"
	"github.com/novapos/resetd/internal/pkg/validator"
	"github.com/novapos/resetd/internal/reset/entity"
	"github.com/stretchr/testify/require"
)

const testConfigYAML = `
otp:
  ttl_minutes: 10
`

var testNow = time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)

type fakeStore struct {
	records       []entity.VerificationRecord
	createErr     error
	latestErr     error
	consumeErr    error
	consumeDenied bool
}

func (f *fakeStore) Create(_ context.Context, rec entity.VerificationRecord) error {
	if f.createErr != nil {
		return f.createErr
	}
	f.records = append(f.records, rec)
	return nil
}

func (f *fakeStore) LatestUnused(_ context.Context, email string) (*entity.VerificationRecord, error) {
	if f.latestErr != nil {
		return nil, f.latestErr
	}

	var latest *entity.VerificationRecord
	for i := range f.records {
		rec := &f.records[i]
		if rec.Email != email || rec.Used {
			continue
		}
		if latest == nil || rec.CreatedAt.After(latest.CreatedAt) {
			latest = rec
		}
	}
	if latest == nil {
		return nil, goerror.ErrNotFound
	}

	cp := *latest
	return &cp, nil
}

func (f *fakeStore) ConsumeUnused(_ context.Context, id int64) (bool, error) {
	if f.consumeErr != nil {
		return false, f.consumeErr
	}
	if f.consumeDenied {
		return false, nil
	}
	for i := range f.records {
		if f.records[i].ID == id && !f.records[i].Used {
			f.records[i].Used = true
			return true, nil
		}
	}
	return false, nil
}

type fakeIdentity struct {
	users     map[string]string // lowercase email -> id
	findErr   error
	updateErr error
	updated   map[string]string // id -> new password
}

func (f *fakeIdentity) FindByEmail(_ context.Context, email string) (*entity.Identity, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	if id, ok := f.users[email]; ok {
		return &entity.Identity{ID: id, Email: email}, nil
	}
	return nil, goerror.ErrNotFound
}

func (f *fakeIdentity) UpdatePassword(_ context.Context, id, newPassword string) error {
	if f.updateErr != nil {
		return f.updateErr
	}
	if f.updated == nil {
		f.updated = map[string]string{}
	}
	f.updated[id] = newPassword
	return nil
}

type fakeMail struct {
	sent    []mail.Message
	sendErr error
}

func (f *fakeMail) Send(_ context.Context, msg mail.Message) error {
	if f.sendErr != nil {
		return f.sendErr
	}
	f.sent = append(f.sent, msg)
	return nil
}

func (f *fakeMail) Close() error { return nil }

type fakeLimiter struct {
	denied map[string]bool
	err    error
}

func (f *fakeLimiter) Allow(_ context.Context, key string) (bool, error) {
	if f.err != nil {
		return false, f.err
	}
	return !f.denied[key], nil
}

type fakeOTP struct {
	code string
	err  error
}

func (f *fakeOTP) Generate() (string, error) { return f.code, f.err }

type seqID struct{ next int64 }

func (s *seqID) Generate() int64 {
	s.next++
	return s.next
}

type fixture struct {
	uc       *Usecase
	store    *fakeStore
	identity *fakeIdentity
	mail     *fakeMail
	limiter  *fakeLimiter
	otp      *fakeOTP
	clock    *clock.Static
	hmac     *hash.HMACSHA256
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(testConfigYAML))
	require.NoError(t, err)
	t.Cleanup(func() { cfg.Close() })

	v10, err := validator.NewV10Validator()
	require.NoError(t, err)

	f := &fixture{
		store:    &fakeStore{},
		identity: &fakeIdentity{users: map[string]string{"alice@example.com": "u-1"}},
		mail:     &fakeMail{},
		limiter:  &fakeLimiter{},
		otp:      &fakeOTP{code: "482913"},
		clock:    &clock.Static{T: testNow},
		hmac:     hash.NewHMACSHA256("test-secret"),
	}

	f.uc = New(Dependency{
		Store:      f.store,
		Identity:   f.identity,
		Mail:       f.mail,
		Limiter:    f.limiter,
		Validator:  v10,
		Config:     cfg,
		HMAC:       f.hmac,
		OTP:        f.otp,
		UID:        &seqID{},
		Clock:      f.clock,
		Instrument: instrument.NewNoop(),
	})

	return f
}

func assertGoError(t *testing.T, err error, wantCode goerror.Code) {
	t.Helper()

	var gerr *goerror.Error
	require.ErrorAs(t, err, &gerr)
	require.Equal(t, wantCode, gerr.Code())
}
