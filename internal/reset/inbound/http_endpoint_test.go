package inbound

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/novapos/resetd/internal/pkg/goerror"
	"github.com/novapos/resetd/internal/pkg/instrument"
	"github.com/novapos/resetd/internal/pkg/router"
	"github.com/novapos/resetd/internal/pkg/uid"
	"github.com/novapos/resetd/internal/reset/usecase"
	"github.com/stretchr/testify/assert"
)

type fakeUsecase struct {
	sendIn    *usecase.SendOTPInput
	verifyIn  *usecase.VerifyOTPInput
	sendErr   error
	verifyErr error
}

func (f *fakeUsecase) SendOTP(_ context.Context, in usecase.SendOTPInput) error {
	f.sendIn = &in
	return f.sendErr
}

func (f *fakeUsecase) VerifyOTP(_ context.Context, in usecase.VerifyOTPInput) error {
	f.verifyIn = &in
	return f.verifyErr
}

func newServer(fu *fakeUsecase) *router.Router {
	ro := router.NewRouter(router.Config{
		UUID:       uid.NewUUID(),
		Instrument: instrument.NewNoop(),
	})
	RegisterHTTPEndpoint(ro, fu)
	return ro
}

func TestHTTPEndpoint_SendOTP(t *testing.T) {
	fu := &fakeUsecase{}
	ro := newServer(fu)

	req := httptest.NewRequest(http.MethodPost, "/send-otp", strings.NewReader(`{"email":"alice@example.com"}`))
	rec := httptest.NewRecorder()
	ro.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"message":"OTP sent"}`, rec.Body.String())
	assert.Equal(t, "alice@example.com", fu.sendIn.Email)
}

func TestHTTPEndpoint_SendOTP_Errors(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		ucErr    error
		wantCode int
	}{
		{
			name:     "malformed body",
			body:     `{`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "unknown field",
			body:     `{"email":"a@b.c","extra":true}`,
			wantCode: http.StatusBadRequest,
		},
		{
			name:     "rate limited",
			body:     `{"email":"a@b.c"}`,
			ucErr:    goerror.NewBusiness("Too many OTP requests, try again later", goerror.CodeTooManyRequest),
			wantCode: http.StatusTooManyRequests,
		},
		{
			name:     "store down",
			body:     `{"email":"a@b.c"}`,
			ucErr:    goerror.NewServer(assert.AnError),
			wantCode: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ro := newServer(&fakeUsecase{sendErr: tt.ucErr})

			req := httptest.NewRequest(http.MethodPost, "/send-otp", strings.NewReader(tt.body))
			rec := httptest.NewRecorder()
			ro.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
		})
	}
}

func TestHTTPEndpoint_VerifyOTP(t *testing.T) {
	fu := &fakeUsecase{}
	ro := newServer(fu)

	body := `{"email":"alice@example.com","otp":"482913","newPassword":"Passw0rd1"}`
	req := httptest.NewRequest(http.MethodPost, "/verify-otp", strings.NewReader(body))
	rec := httptest.NewRecorder()
	ro.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"success":true,"message":"Password updated"}`, rec.Body.String())
	assert.Equal(t, "482913", fu.verifyIn.OTP)
	assert.Equal(t, "Passw0rd1", fu.verifyIn.NewPassword)
}

func TestHTTPEndpoint_VerifyOTP_Errors(t *testing.T) {
	tests := []struct {
		name     string
		ucErr    error
		wantCode int
		wantMsg  string
	}{
		{
			name:     "no otp requested",
			ucErr:    goerror.NewBusiness("No OTP requested for this email", goerror.CodeInvalidInput),
			wantCode: http.StatusBadRequest,
			wantMsg:  "No OTP requested",
		},
		{
			name:     "expired",
			ucErr:    goerror.NewBusiness("OTP expired", goerror.CodeInvalidInput),
			wantCode: http.StatusBadRequest,
			wantMsg:  "OTP expired",
		},
		{
			name:     "invalid",
			ucErr:    goerror.NewBusiness("Invalid OTP", goerror.CodeInvalidInput),
			wantCode: http.StatusBadRequest,
			wantMsg:  "Invalid OTP",
		},
		{
			name:     "identity missing",
			ucErr:    goerror.NewBusiness("User not found", goerror.CodeNotFound),
			wantCode: http.StatusNotFound,
			wantMsg:  "User not found",
		},
		{
			name:     "upstream failure",
			ucErr:    goerror.NewServer(assert.AnError),
			wantCode: http.StatusInternalServerError,
			wantMsg:  "Internal server error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ro := newServer(&fakeUsecase{verifyErr: tt.ucErr})

			body := `{"email":"alice@example.com","otp":"482913","newPassword":"Passw0rd1"}`
			req := httptest.NewRequest(http.MethodPost, "/verify-otp", strings.NewReader(body))
			rec := httptest.NewRecorder()
			ro.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantCode, rec.Code)
			assert.Contains(t, rec.Body.String(), tt.wantMsg)
		})
	}
}

func TestHTTPEndpoint_MethodNotAllowed(t *testing.T) {
	ro := newServer(&fakeUsecase{})

	for _, method := range []string{http.MethodGet, http.MethodPut, http.MethodDelete} {
		req := httptest.NewRequest(method, "/send-otp", nil)
		rec := httptest.NewRecorder()
		ro.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusMethodNotAllowed, rec.Code, method)
	}
}
