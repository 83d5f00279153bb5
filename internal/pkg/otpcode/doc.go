// Package otpcode generates the short numeric codes mailed to users during
// the password-reset flow.
package otpcode
