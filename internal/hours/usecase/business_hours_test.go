package usecase

import (
	"context"
	"testing"
	"time"

	"github.com/novapos/resetd/internal/pkg/clock"
	"github.com/novapos/resetd/internal/pkg/config"
	"github.com/novapos/resetd/internal/pkg/instrument"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newUsecase(t *testing.T, yaml string, now time.Time) *Usecase {
	t.Helper()

	cfg, err := config.NewViperFromBytes("yaml", []byte(yaml))
	require.NoError(t, err)
	t.Cleanup(func() { cfg.Close() })

	return New(Dependency{
		Config:     cfg,
		Clock:      clock.Static{T: now},
		Instrument: instrument.NewNoop(),
	})
}

const hoursYAML = `
hours:
  timezone: "UTC"
  opens_at: "09:00"
  closes_at: "18:00"
  days: "1,2,3,4,5"
`

func TestBusinessHours_OpenDuringWindow(t *testing.T) {
	// Monday 2025-06-02 10:30 UTC
	uc := newUsecase(t, hoursYAML, time.Date(2025, 6, 2, 10, 30, 0, 0, time.UTC))

	st, err := uc.BusinessHours(context.Background())
	require.NoError(t, err)

	assert.True(t, st.Open)
	assert.Equal(t, "UTC", st.Timezone)
	assert.Equal(t, "09:00", st.OpensAt)
	assert.Equal(t, "18:00", st.ClosesAt)
}

func TestBusinessHours_Boundaries(t *testing.T) {
	tests := []struct {
		name string
		now  time.Time
		open bool
	}{
		{"just before opening", time.Date(2025, 6, 2, 8, 59, 0, 0, time.UTC), false},
		{"at opening minute", time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC), true},
		{"last open minute", time.Date(2025, 6, 2, 17, 59, 0, 0, time.UTC), true},
		{"at closing minute", time.Date(2025, 6, 2, 18, 0, 0, 0, time.UTC), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			uc := newUsecase(t, hoursYAML, tt.now)

			st, err := uc.BusinessHours(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.open, st.Open)
		})
	}
}

func TestBusinessHours_ClosedOnWeekend(t *testing.T) {
	// Sunday 2025-06-01 10:30 UTC
	uc := newUsecase(t, hoursYAML, time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC))

	st, err := uc.BusinessHours(context.Background())
	require.NoError(t, err)
	assert.False(t, st.Open)
}

func TestBusinessHours_NoDaysMeansEveryDay(t *testing.T) {
	yaml := `
hours:
  timezone: "UTC"
  opens_at: "09:00"
  closes_at: "18:00"
`
	// Sunday
	uc := newUsecase(t, yaml, time.Date(2025, 6, 1, 10, 30, 0, 0, time.UTC))

	st, err := uc.BusinessHours(context.Background())
	require.NoError(t, err)
	assert.True(t, st.Open)
}

func TestBusinessHours_InvalidConfig(t *testing.T) {
	uc := newUsecase(t, `
hours:
  timezone: "Mars/Olympus"
  opens_at: "09:00"
  closes_at: "18:00"
`, time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC))

	_, err := uc.BusinessHours(context.Background())
	assert.Error(t, err)

	uc = newUsecase(t, `
hours:
  timezone: "UTC"
  opens_at: "9am"
  closes_at: "18:00"
`, time.Date(2025, 6, 2, 10, 0, 0, 0, time.UTC))

	_, err = uc.BusinessHours(context.Background())
	assert.Error(t, err)
}
