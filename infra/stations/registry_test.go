package stations

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/evnav/evnav/core/model"
)

func seedFleet() []model.Station {
	return []model.Station{
		{
			ID:             "ktm-01",
			Name:           "Thamel Fast Charge",
			Location:       model.Coordinate{Lat: 27.7152, Lon: 85.3123},
			AvailableSlots: 2,
			TotalSlots:     4,
			PlugTypes:      []string{"CCS"},
			PricePerKWh:    18,
			Rating:         4.2,
		},
		{
			ID:             "pkr-01",
			Name:           "Lakeside Hub",
			Location:       model.Coordinate{Lat: 28.2096, Lon: 83.9856},
			AvailableSlots: 1,
			TotalSlots:     2,
			PlugTypes:      []string{"Type2"},
			PricePerKWh:    22,
			Rating:         3.8,
		},
	}
}

func TestNew_RejectsInvalidSeed(t *testing.T) {
	bad := seedFleet()
	bad[0].AvailableSlots = 99
	_, err := New(bad)
	assert.ErrorContains(t, err, "available slots")
}

func TestNew_RejectsDuplicateIDs(t *testing.T) {
	dup := seedFleet()
	dup[1].ID = dup[0].ID
	_, err := New(dup)
	assert.ErrorContains(t, err, "duplicate id")
}

func TestStations_SnapshotSortedAndDetached(t *testing.T) {
	r, err := New(seedFleet())
	require.NoError(t, err)

	snap, err := r.Stations(context.Background())
	require.NoError(t, err)
	require.Len(t, snap, 2)
	assert.Equal(t, "ktm-01", snap[0].ID)
	assert.Equal(t, "pkr-01", snap[1].ID)

	// Mutating the snapshot never leaks back into the registry.
	snap[0].AvailableSlots = 0
	got, ok := r.Get("ktm-01")
	require.True(t, ok)
	assert.Equal(t, 2, got.AvailableSlots)
}

func TestApplyAvailability(t *testing.T) {
	r, err := New(seedFleet())
	require.NoError(t, err)

	require.NoError(t, r.ApplyAvailability("ktm-01", 4))
	got, _ := r.Get("ktm-01")
	assert.Equal(t, 4, got.AvailableSlots)

	// Clamped to the slot range.
	require.NoError(t, r.ApplyAvailability("ktm-01", 9))
	got, _ = r.Get("ktm-01")
	assert.Equal(t, 4, got.AvailableSlots)

	require.NoError(t, r.ApplyAvailability("ktm-01", -3))
	got, _ = r.Get("ktm-01")
	assert.Equal(t, 0, got.AvailableSlots)

	assert.ErrorContains(t, r.ApplyAvailability("nope", 1), "unknown station")
}

func TestUpsert(t *testing.T) {
	r, err := New(seedFleet())
	require.NoError(t, err)

	st := seedFleet()[0]
	st.ID = "btl-01"
	st.Name = "Butwal Charge Park"
	require.NoError(t, r.Upsert(st))
	assert.Equal(t, 3, r.Len())

	st.Rating = 9
	assert.ErrorContains(t, r.Upsert(st), "rating")
}

func TestNewFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "stations.json")
	payload := `[
		{
			"id": "ktm-02",
			"name": "Patan Mall Chargers",
			"location": {"lat": 27.6766, "lon": 85.3188},
			"available_slots": 3,
			"total_slots": 6,
			"plug_types": ["CCS", "CHAdeMO"],
			"price_per_kwh": 16.5,
			"rating": 4.7
		}
	]`
	require.NoError(t, os.WriteFile(path, []byte(payload), 0o644))

	r, err := NewFromFile(path)
	require.NoError(t, err)
	require.Equal(t, 1, r.Len())
	got, ok := r.Get("ktm-02")
	require.True(t, ok)
	assert.Equal(t, 6, got.TotalSlots)
	assert.True(t, got.SupportsPlug("CHAdeMO"))

	_, err = NewFromFile(filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
}

func TestConcurrentUpdatesAndReads(t *testing.T) {
	r, err := New(seedFleet())
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				_ = r.ApplyAvailability("ktm-01", (n+j)%5)
				_, _ = r.Stations(context.Background())
			}
		}(i)
	}
	wg.Wait()

	got, _ := r.Get("ktm-01")
	assert.GreaterOrEqual(t, got.AvailableSlots, 0)
	assert.LessOrEqual(t, got.AvailableSlots, 4)
}
