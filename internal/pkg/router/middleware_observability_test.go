package router

import (
	"net/http"
	"testing"

	"github.com/novapos/resetd/internal/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseAndMaskBody_CredentialFields(t *testing.T) {
	tests := []struct {
		name string
		body string
		want map[string]any
	}{
		{
			name: "verify otp request body",
			body: `{"email":"jane@example.com","otp":"123456","newPassword":"S3cretS3cret"}`,
			want: map[string]any{
				"email":       "jane@example.com",
				"otp":         "***",
				"newPassword": "***",
			},
		},
		{
			name: "snake case variant",
			body: `{"email":"jane@example.com","new_password":"S3cretS3cret"}`,
			want: map[string]any{
				"email":        "jane@example.com",
				"new_password": "***",
			},
		},
		{
			name: "nested payload",
			body: `{"data":{"code":"654321","NewPassword":"S3cretS3cret"}}`,
			want: map[string]any{
				"data": map[string]any{
					"code":        "***",
					"NewPassword": "***",
				},
			},
		},
	}

	maskKeys := getMaskKeys(nil)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := parseAndMaskBody([]byte(tt.body), maskKeys)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestGetMaskKeys_ConfigFields(t *testing.T) {
	cfg, err := config.NewViperFromBytes("yaml", []byte("instrument:\n  log_mask_fields: \"email, client_ip\"\n"))
	require.NoError(t, err)

	maskKeys := getMaskKeys(cfg)

	got := parseAndMaskBody([]byte(`{"email":"jane@example.com","clientIp":"10.0.0.1","otp":"123456"}`), maskKeys)
	assert.Equal(t, map[string]any{
		"email":    "***",
		"clientIp": "***",
		"otp":      "***",
	}, got)
}

func TestMaskHeaders(t *testing.T) {
	headers := http.Header{}
	headers.Set("Authorization", "Bearer secret")
	headers.Set("Content-Type", "application/json")

	masked := maskHeaders(headers, getMaskKeys(nil))

	assert.Equal(t, "***", masked.Get("Authorization"))
	assert.Equal(t, "application/json", masked.Get("Content-Type"))
}
