package distributions

import (
	"time"

	"brouette/models"
)

// openStatuses carries the legacy status spellings still present in
// old documents alongside the canonical one.
var openStatuses = map[string]bool{
	models.DistributionOpen: true,
	"ouverte":               true,
	"ouvertes":              true,
}

// IsOpenStatus reports whether a stored status counts as open.
func IsOpenStatus(status string) bool {
	return openStatuses[status]
}

func openedStamp(d *models.Distribution) time.Time {
	if d.OpenedAt != nil {
		return *d.OpenedAt
	}
	if len(d.Dates) > 0 {
		return d.Dates[0]
	}
	return time.Time{}
}

// PickNext selects the upcoming planned distribution: the one whose
// first date is the soonest still in the future, falling back to the
// earliest planned one when every first date has already passed.
func PickNext(all []models.Distribution, now time.Time) *models.Distribution {
	var next, earliest *models.Distribution
	for i := range all {
		d := &all[i]
		if d.Status != models.DistributionPlanned || len(d.Dates) == 0 {
			continue
		}
		if earliest == nil || d.Dates[0].Before(earliest.Dates[0]) {
			earliest = d
		}
		if !d.Dates[0].After(now) {
			continue
		}
		if next == nil || d.Dates[0].Before(next.Dates[0]) {
			next = d
		}
	}
	if next != nil {
		return next
	}
	return earliest
}

// PickOpen selects the distribution members should be shopping in: the
// open one with the most recent opening stamp. Ties fall back to the
// lexicographically greatest id so repeated calls agree. Returns nil
// when no distribution is open.
func PickOpen(all []models.Distribution) *models.Distribution {
	var best *models.Distribution
	for i := range all {
		d := &all[i]
		if !IsOpenStatus(d.Status) {
			continue
		}
		if best == nil {
			best = d
			continue
		}
		ds, bs := openedStamp(d), openedStamp(best)
		if ds.After(bs) || (ds.Equal(bs) && d.DistributionID > best.DistributionID) {
			best = d
		}
	}
	return best
}
