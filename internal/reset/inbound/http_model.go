package inbound

type SendOTPRequest struct {
	Email string `json:"email"`
}

type SendOTPResponse struct {
	Message string `json:"message"`
}

type VerifyOTPRequest struct {
	Email       string `json:"email"`
	OTP         string `json:"otp"`
	NewPassword string `json:"newPassword"`
}

type VerifyOTPResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
