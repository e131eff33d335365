package billing

import "time"

// elapsedMinutes truncates to whole minutes so all later arithmetic is
// exact integer math.
func elapsedMinutes(a, b time.Time) int64 {
	return int64(b.Sub(a) / time.Minute)
}

// billableHours converts an elapsed duration into billed hours: a grace
// window of up to 5 minutes past the hour is free, anything more starts a
// new hour. With minOne, any stay bills at least one hour.
func billableHours(minutes int64, minOne bool) int64 {
	hours := minutes / 60
	if minutes%60 > 5 {
		hours++
	}
	if minOne && hours == 0 {
		hours = 1
	}
	return hours
}

// billedHoursBetween is the form every strategy uses: whole-minute elapsed
// time with the minimum-one clamp.
func billedHoursBetween(a, b time.Time) int64 {
	return billableHours(elapsedMinutes(a, b), true)
}
