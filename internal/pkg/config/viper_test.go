package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleYAML = `
app:
  env: development
  server:
    cors: "http://localhost:3000,http://localhost:5173"
otp:
  ttl_minutes: 10
  hmac_secret: unit-test-secret
store:
  driver: postgres
  postgrest:
    timeout_seconds: 5
ratelimit:
  enabled: true
  send_otp:
    limit: 5
`

func TestViperFromBytes(t *testing.T) {
	cfg, err := NewViperFromBytes("yaml", []byte(sampleYAML))
	require.NoError(t, err)
	defer cfg.Close()

	assert.Equal(t, "development", cfg.GetString("app.env"))
	assert.Equal(t, "postgres", cfg.GetString("store.driver"))
	assert.Equal(t, 10*time.Minute, cfg.GetMinute("otp.ttl_minutes"))
	assert.Equal(t, 5*time.Second, cfg.GetSecond("store.postgrest.timeout_seconds"))
	assert.Equal(t, 5, cfg.GetInt("ratelimit.send_otp.limit"))
	assert.True(t, cfg.GetBool("ratelimit.enabled"))
	assert.Equal(t,
		[]string{"http://localhost:3000", "http://localhost:5173"},
		cfg.GetArray("app.server.cors"))
}

func TestViperFromBytes_MissingKeysReturnZeroValues(t *testing.T) {
	cfg, err := NewViperFromBytes("yaml", []byte(sampleYAML))
	require.NoError(t, err)

	assert.Empty(t, cfg.GetString("identity.base_url"))
	assert.Zero(t, cfg.GetInt("identity.scan.max_pages"))
	assert.False(t, cfg.GetBool("mail.insecure_dev_mode"))
}

func TestViperFromBytes_RequiresType(t *testing.T) {
	_, err := NewViperFromBytes("  ", []byte(sampleYAML))
	assert.Error(t, err)
}
