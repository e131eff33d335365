package billing

import "time"

// The three pricing strategies. Each takes the stay endpoints already
// converted to the hotel's offset and returns an itemized charge; the
// calculator keeps whichever comes out cheapest.

// hourly: first hour at the first-hour rate, every further billed hour at
// the extra-hour rate. Always applicable.
func hourly(in, out time.Time, t Tariff) Charge {
	var c Charge
	hours := billedHoursBetween(in, out)
	c.add(FirstHourLabel, 1, t.FirstHour)
	if hours > 1 {
		c.add(ExtraHoursLabel, hours-1, t.ExtraHour)
	}
	return c
}

// overnight bills night windows of [19:00, 11:00 next day). Time outside
// the windows is surcharged per hour at the extra-hour rate: before 19:00
// on the arrival day, after 11:00 on the departure day, and the 11:00-19:00
// daytime gap of every day between two nights.
func overnight(in, out time.Time, t Tariff) Charge {
	var c Charge

	// First night starts at check-in if the guest arrived after 19:00,
	// else at 19:00 of the arrival day.
	cur := atHour(in, 0, 19)
	if in.After(cur) {
		cur = in
	}

	var nights int64
	for cur.Before(out) {
		nightEnd := atHour(cur, 1, 11)
		nights++
		if !out.After(nightEnd) {
			break
		}
		cur = atHour(nightEnd, 0, 19)
	}
	if nights > 0 {
		c.add(OvernightLabel, nights, t.Overnight)
	}

	if in.Hour() < 19 {
		c.add(EarlyArrivalLabel, billedHoursBetween(in, atHour(in, 0, 19)), t.ExtraHour)
	}
	if out.Hour() > 11 || (out.Hour() == 11 && out.Minute() > 0) {
		c.add(LateDepartureLabel, billedHoursBetween(atHour(out, 0, 11), out), t.ExtraHour)
	}

	// One surcharge line per intervening day keeps the bill explainable.
	if nights > 1 {
		day := atHour(in, 1, 11)
		for i := int64(0); i < nights-1; i++ {
			c.add(BetweenNightsLabel, billedHoursBetween(day, atHour(day, 0, 19)), t.ExtraHour)
			day = day.AddDate(0, 0, 1)
		}
	}
	return c
}

// daily bills day windows of [12:00, 12:00 next day). Consecutive windows
// touch, so unlike overnight there is no between-window gap; only arrival
// before noon and departure after noon are surcharged.
func daily(in, out time.Time, t Tariff) Charge {
	var c Charge

	cur := atHour(in, 0, 12)
	if in.After(cur) {
		cur = in
	}

	var days int64
	for cur.Before(out) {
		dayEnd := atHour(cur, 1, 12)
		days++
		if !out.After(dayEnd) {
			break
		}
		cur = dayEnd
	}
	if days > 0 {
		c.add(DailyLabel, days, t.Daily)
	}

	if in.Hour() < 12 {
		c.add(EarlyArrivalLabel, billedHoursBetween(in, atHour(in, 0, 12)), t.ExtraHour)
	}
	if out.Hour() > 12 || (out.Hour() == 12 && out.Minute() > 0) {
		c.add(LateDepartureLabel, billedHoursBetween(atHour(out, 0, 12), out), t.ExtraHour)
	}
	return c
}
