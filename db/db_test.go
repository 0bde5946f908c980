package db

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wattwise/usage-engine/internal/model"
)

func openTestStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := Open(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestApplianceRoundTrip(t *testing.T) {
	s := openTestStore(t)

	created := time.Date(2025, time.June, 1, 9, 30, 0, 0, time.UTC)
	appliances := []model.Appliance{
		{ID: "a-1", Name: "Air Conditioner", PowerWatts: 1500, HoursPerDay: 8, DaysPerMonth: 30, CreatedAt: created},
		{ID: "a-2", Name: "Refrigerator", PowerWatts: 150, HoursPerDay: 24, DaysPerMonth: 31, CreatedAt: created.Add(48 * time.Hour)},
	}

	require.NoError(t, s.SaveAppliances(appliances))

	loaded, err := s.LoadAppliances()
	require.NoError(t, err)
	require.Len(t, loaded, 2)

	assert.Equal(t, "a-1", loaded[0].ID)
	assert.Equal(t, "Air Conditioner", loaded[0].Name)
	assert.Equal(t, 1500.0, loaded[0].PowerWatts)
	assert.True(t, loaded[0].CreatedAt.Equal(created))
}

func TestEmptyDatabaseLoadsEmpty(t *testing.T) {
	s := openTestStore(t)

	loaded, err := s.LoadAppliances()
	require.NoError(t, err)
	assert.Empty(t, loaded)

	onboarded, err := s.LoadOnboarding()
	require.NoError(t, err)
	assert.False(t, onboarded)
}

func TestSaveIsLastWriteWins(t *testing.T) {
	s := openTestStore(t)
	created := time.Date(2025, time.June, 1, 0, 0, 0, 0, time.UTC)

	require.NoError(t, s.SaveAppliances([]model.Appliance{
		{ID: "a-1", Name: "TV", PowerWatts: 120, HoursPerDay: 4, DaysPerMonth: 30, CreatedAt: created},
		{ID: "a-2", Name: "Washer", PowerWatts: 500, HoursPerDay: 1, DaysPerMonth: 12, CreatedAt: created},
	}))

	// A later save fully replaces the earlier collection.
	require.NoError(t, s.SaveAppliances([]model.Appliance{
		{ID: "a-3", Name: "Heater", PowerWatts: 2000, HoursPerDay: 2, DaysPerMonth: 30, CreatedAt: created},
	}))

	loaded, err := s.LoadAppliances()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "a-3", loaded[0].ID)
}

func TestMalformedTimestampSkipped(t *testing.T) {
	s := openTestStore(t)

	_, err := s.db.Exec(`INSERT INTO appliances (id, name, power_watts, hours_per_day, days_per_month, created_at) VALUES ('bad', 'Broken', 100, 1, 30, 'not-a-time')`)
	require.NoError(t, err)
	_, err = s.db.Exec(`INSERT INTO appliances (id, name, power_watts, hours_per_day, days_per_month, created_at) VALUES ('good', 'Fine', 100, 1, 30, '2025-06-01T00:00:00Z')`)
	require.NoError(t, err)

	loaded, err := s.LoadAppliances()
	require.NoError(t, err)
	require.Len(t, loaded, 1)
	assert.Equal(t, "good", loaded[0].ID)
}

func TestOnboardingFlag(t *testing.T) {
	s := openTestStore(t)

	require.NoError(t, s.SaveOnboarding(true))

	onboarded, err := s.LoadOnboarding()
	require.NoError(t, err)
	assert.True(t, onboarded)

	require.NoError(t, s.SaveOnboarding(false))

	onboarded, err = s.LoadOnboarding()
	require.NoError(t, err)
	assert.False(t, onboarded)
}
