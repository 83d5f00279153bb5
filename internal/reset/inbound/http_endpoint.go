package inbound

import (
	"github.com/novapos/resetd/internal/pkg/router"
	"github.com/novapos/resetd/internal/reset/usecase"
)

// HTTPEndpoint exposes HTTP handlers for the password-reset flow.
type HTTPEndpoint struct {
	uc uc
}

// SendOTP issues a one-time code to the submitted email.
//
// The acknowledgement is uniform whether or not the email belongs to a real
// account, so the endpoint cannot be used to probe for registered users.
func (h *HTTPEndpoint) SendOTP(r *router.Request) (any, error) {
	var req SendOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.SendOTP(r.Context(), usecase.SendOTPInput{
		Email:    req.Email,
		ClientIP: r.ClientIP(),
	}); err != nil {
		return nil, err
	}

	return SendOTPResponse{Message: "OTP sent"}, nil
}

// VerifyOTP checks a submitted code and resets the account credential.
func (h *HTTPEndpoint) VerifyOTP(r *router.Request) (any, error) {
	var req VerifyOTPRequest
	if err := r.DecodeBody(&req); err != nil {
		return nil, err
	}

	if err := h.uc.VerifyOTP(r.Context(), usecase.VerifyOTPInput{
		Email:       req.Email,
		OTP:         req.OTP,
		NewPassword: req.NewPassword,
	}); err != nil {
		return nil, err
	}

	return VerifyOTPResponse{Success: true, Message: "Password updated"}, nil
}
