package distributions

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDateKeyRoundTrip(t *testing.T) {
	d := time.Date(2026, 9, 2, 18, 0, 0, 0, time.UTC)
	key := DateKey(d)
	assert.Equal(t, "2026-09-02", key)

	back, err := DateFromKey(key)
	assert.NoError(t, err)
	assert.Equal(t, "2026-09-02", DateKey(back))
}

func TestNextWednesday(t *testing.T) {
	// A Monday: the coming Wednesday wins.
	mon := time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC)
	next := NextWednesday(mon)
	assert.Equal(t, time.Wednesday, next.Weekday())
	assert.Equal(t, "2026-09-02", DateKey(next))
	assert.Equal(t, 18, next.Hour())

	// Wednesday before 18:00 still resolves to the same evening.
	wedMorning := time.Date(2026, 9, 2, 8, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-09-02", DateKey(NextWednesday(wedMorning)))

	// Wednesday after 18:00 skips to the following week.
	wedNight := time.Date(2026, 9, 2, 20, 0, 0, 0, time.UTC)
	assert.Equal(t, "2026-09-09", DateKey(NextWednesday(wedNight)))
}

func TestPlanDates(t *testing.T) {
	dates := PlanDates(time.Date(2026, 8, 31, 9, 0, 0, 0, time.UTC))
	assert.Len(t, dates, 3)
	assert.Equal(t, "2026-09-02", DateKey(dates[0]))
	assert.Equal(t, "2026-09-16", DateKey(dates[1]))
	assert.Equal(t, "2026-09-30", DateKey(dates[2]))
	for _, d := range dates {
		assert.Equal(t, time.Wednesday, d.Weekday())
	}
}
