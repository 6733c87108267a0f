package distributions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"brouette/models"
)

func ts(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

func tsp(s string) *time.Time {
	t := ts(s)
	return &t
}

func TestPickOpenNone(t *testing.T) {
	assert.Nil(t, PickOpen(nil))
	assert.Nil(t, PickOpen([]models.Distribution{
		{DistributionID: "d1", Status: models.DistributionPlanned},
		{DistributionID: "d2", Status: models.DistributionFinished},
	}))
}

func TestPickOpenLatestStamp(t *testing.T) {
	all := []models.Distribution{
		{DistributionID: "d1", Status: models.DistributionOpen, OpenedAt: tsp("2026-01-05T18:00:00Z")},
		{DistributionID: "d2", Status: models.DistributionOpen, OpenedAt: tsp("2026-02-05T18:00:00Z")},
		{DistributionID: "d3", Status: models.DistributionFinished, OpenedAt: tsp("2026-03-05T18:00:00Z")},
	}
	got := PickOpen(all)
	assert.NotNil(t, got)
	assert.Equal(t, "d2", got.DistributionID)
}

func TestPickOpenLegacyStatuses(t *testing.T) {
	all := []models.Distribution{
		{DistributionID: "d1", Status: "ouverte", OpenedAt: tsp("2026-01-05T18:00:00Z")},
		{DistributionID: "d2", Status: "ouvertes", OpenedAt: tsp("2026-01-01T18:00:00Z")},
	}
	got := PickOpen(all)
	assert.NotNil(t, got)
	assert.Equal(t, "d1", got.DistributionID)
}

func TestPickOpenFallsBackToFirstDate(t *testing.T) {
	all := []models.Distribution{
		{DistributionID: "d1", Status: models.DistributionOpen, Dates: []time.Time{ts("2026-04-01T18:00:00Z")}},
		{DistributionID: "d2", Status: models.DistributionOpen, OpenedAt: tsp("2026-03-01T18:00:00Z")},
	}
	got := PickOpen(all)
	assert.Equal(t, "d1", got.DistributionID)
}

func TestPickOpenTieBreaksOnID(t *testing.T) {
	stamp := tsp("2026-01-05T18:00:00Z")
	all := []models.Distribution{
		{DistributionID: "dA", Status: models.DistributionOpen, OpenedAt: stamp},
		{DistributionID: "dB", Status: models.DistributionOpen, OpenedAt: stamp},
	}
	assert.Equal(t, "dB", PickOpen(all).DistributionID)

	// Order of the slice must not change the winner.
	all[0], all[1] = all[1], all[0]
	assert.Equal(t, "dB", PickOpen(all).DistributionID)
}

func TestPickNextSoonestFutureFirstDate(t *testing.T) {
	now := ts("2026-09-01T00:00:00Z")
	all := []models.Distribution{
		{DistributionID: "d1", Status: models.DistributionPlanned, Dates: []time.Time{ts("2026-09-16T18:00:00Z")}},
		{DistributionID: "d2", Status: models.DistributionPlanned, Dates: []time.Time{ts("2026-09-02T18:00:00Z")}},
		{DistributionID: "d3", Status: models.DistributionFinished, Dates: []time.Time{ts("2026-09-01T18:00:00Z")}},
	}
	next := PickNext(all, now)
	if assert.NotNil(t, next) {
		assert.Equal(t, "d2", next.DistributionID)
	}
}

func TestPickNextFallsBackToEarliestPlanned(t *testing.T) {
	now := ts("2026-12-01T00:00:00Z")
	all := []models.Distribution{
		{DistributionID: "d1", Status: models.DistributionPlanned, Dates: []time.Time{ts("2026-09-16T18:00:00Z")}},
		{DistributionID: "d2", Status: models.DistributionPlanned, Dates: []time.Time{ts("2026-09-02T18:00:00Z")}},
	}
	next := PickNext(all, now)
	if assert.NotNil(t, next) {
		assert.Equal(t, "d2", next.DistributionID)
	}
}

func TestPickNextNoPlanned(t *testing.T) {
	assert.Nil(t, PickNext(nil, ts("2026-09-01T00:00:00Z")))
	assert.Nil(t, PickNext([]models.Distribution{
		{DistributionID: "d1", Status: models.DistributionFinished, Dates: []time.Time{ts("2026-09-16T18:00:00Z")}},
		{DistributionID: "d2", Status: models.DistributionPlanned},
	}, ts("2026-09-01T00:00:00Z")))
}
