package billing

import (
	"fmt"
	"time"
)

// Tariff boundaries (19:00, 11:00, 12:00) are wall-clock times at the
// hotel, so both stay endpoints are converted into the hotel's fixed
// offset once, up front, and every boundary comparison happens in that
// frame. Durations are taken between the instants themselves and are
// therefore unaffected by the conversion.

// fixedOffset builds the hotel's location from a whole-hour UTC offset.
func fixedOffset(hours int) *time.Location {
	name := fmt.Sprintf("UTC+%d", hours)
	if hours < 0 {
		name = fmt.Sprintf("UTC%d", hours)
	}
	return time.FixedZone(name, hours*3600)
}

// atHour returns t's calendar day at hh:00 in t's location, offset by
// addDays. time.Date normalizes day overflow, so month/year rollovers
// are handled.
func atHour(t time.Time, addDays, hh int) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day()+addDays, hh, 0, 0, 0, t.Location())
}
