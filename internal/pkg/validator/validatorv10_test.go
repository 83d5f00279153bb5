package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type verifyForm struct {
	Email       string `validate:"required,email"`
	OTP         string `validate:"required,otpcode"`
	NewPassword string `validate:"required,password"`
}

func TestV10Validator_Valid(t *testing.T) {
	v, err := NewV10Validator()
	require.NoError(t, err)

	err = v.Validate(verifyForm{
		Email:       "alice@example.com",
		OTP:         "482913",
		NewPassword: "Passw0rd1",
	})
	assert.NoError(t, err)
}

func TestV10Validator_FieldErrors(t *testing.T) {
	v, err := NewV10Validator()
	require.NoError(t, err)

	err = v.Validate(verifyForm{Email: "not-an-email", OTP: "12345", NewPassword: "short"})
	require.Error(t, err)

	var fields V10ValidationError
	require.True(t, errors.As(err, &fields))

	assert.Contains(t, fields, "email")
	assert.Contains(t, fields, "otp")
	assert.Contains(t, fields, "new_password")
}

func TestV10Validator_OTPCodeRule(t *testing.T) {
	v, err := NewV10Validator()
	require.NoError(t, err)

	type form struct {
		OTP string `validate:"required,otpcode"`
	}

	assert.NoError(t, v.Validate(form{OTP: "100000"}))
	assert.Error(t, v.Validate(form{OTP: "1000000"}))
	assert.Error(t, v.Validate(form{OTP: "12a456"}))
	assert.Error(t, v.Validate(form{OTP: ""}))
}
