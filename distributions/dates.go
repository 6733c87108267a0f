package distributions

import "time"

const dateKeyLayout = "2006-01-02"

// DateKey truncates a sale date to its day key.
func DateKey(t time.Time) string {
	return t.Format(dateKeyLayout)
}

// DateFromKey parses a day key back into a UTC midnight time.
func DateFromKey(key string) (time.Time, error) {
	return time.Parse(dateKeyLayout, key)
}

// DateLabel renders a sale date the way the shop shows it.
func DateLabel(t time.Time) string {
	return t.Format("02/01/2006")
}

// NextWednesday returns the next Wednesday at 18:00 strictly after from.
func NextWednesday(from time.Time) time.Time {
	d := time.Date(from.Year(), from.Month(), from.Day(), 18, 0, 0, 0, from.Location())
	for d.Weekday() != time.Wednesday || !d.After(from) {
		d = d.AddDate(0, 0, 1)
		d = time.Date(d.Year(), d.Month(), d.Day(), 18, 0, 0, 0, d.Location())
	}
	return d
}

// PlanDates builds the default three pickup slots for a new
// distribution: the next Wednesday evening and the two following
// fortnights.
func PlanDates(from time.Time) []time.Time {
	first := NextWednesday(from)
	return []time.Time{first, first.AddDate(0, 0, 14), first.AddDate(0, 0, 28)}
}
