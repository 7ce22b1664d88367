package inventory

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"playarena/internal/schedule"
)

func baseConfig() schedule.Config {
	return schedule.Config{
		Mode:         schedule.ModeRecurring,
		StartDate:    "2024-03-04",
		EndDate:      "2024-03-17",
		WeekDays:     []string{"MON", "WED", "FRI"},
		OpeningTime:  "06:00",
		ClosingTime:  "08:00",
		IsHaveSlots:  true,
		SlotDuration: 60,
	}
}

func TestNeedsReconcile_UnchangedScheduleIsStable(t *testing.T) {
	cfg := baseConfig()
	generated, err := schedule.Generate(cfg)
	require.NoError(t, err)

	changed, err := NeedsReconcile(persistedFrom(generated, 0), cfg)

	require.NoError(t, err)
	assert.False(t, changed)
}

func TestNeedsReconcile_DetectsEachAxis(t *testing.T) {
	generated, err := schedule.Generate(baseConfig())
	require.NoError(t, err)
	persisted := persistedFrom(generated, 0)

	mutations := map[string]func(*schedule.Config){
		"date range": func(c *schedule.Config) { c.EndDate = "2024-03-24" },
		"week days":  func(c *schedule.Config) { c.WeekDays = []string{"MON", "WED"} },
		"slots":      func(c *schedule.Config) { c.SlotDuration = 30 },
		"window":     func(c *schedule.Config) { c.ClosingTime = "09:00" },
	}

	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			cfg := baseConfig()
			mutate(&cfg)

			changed, err := NeedsReconcile(persisted, cfg)

			require.NoError(t, err)
			assert.True(t, changed)
		})
	}
}

func TestNeedsReconcile_EmptyPersistedNeedsInitialInventory(t *testing.T) {
	changed, err := NeedsReconcile(nil, baseConfig())

	require.NoError(t, err)
	assert.True(t, changed)
}

func TestNeedsReconcile_InvalidConfig(t *testing.T) {
	cfg := baseConfig()
	cfg.ClosingTime = "05:00"

	_, err := NeedsReconcile(nil, cfg)

	assert.ErrorIs(t, err, schedule.ErrTimeWindow)
}
