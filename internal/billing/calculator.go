package billing

import (
	"fmt"
	"time"

	"github.com/rs/zerolog"
)

// Config carries the two knobs the hotel can turn. Zero values fall back
// to the defaults the front desk has always used.
type Config struct {
	// UTCOffsetHours is the hotel's fixed offset from UTC for tariff
	// windows. Indochina time, +7, by default.
	UTCOffsetHours int
	// HourlyOnlyBelow forces the hourly strategy for stays shorter than
	// this; short stays must never match an overnight or daily window.
	HourlyOnlyBelow time.Duration
}

const (
	DefaultUTCOffsetHours  = 7
	DefaultHourlyOnlyBelow = 5 * time.Hour
)

// Calculator selects the cheapest of the three pricing strategies for a
// stay. Construct once and share freely; Quote is safe for concurrent use.
type Calculator struct {
	loc       *time.Location
	threshold time.Duration
	log       zerolog.Logger
}

func New(cfg Config, log zerolog.Logger) *Calculator {
	off := cfg.UTCOffsetHours
	if off == 0 {
		off = DefaultUTCOffsetHours
	}
	th := cfg.HourlyOnlyBelow
	if th <= 0 {
		th = DefaultHourlyOnlyBelow
	}
	return &Calculator{loc: fixedOffset(off), threshold: th, log: log}
}

// Quote prices the stay [checkIn, checkOut]. Instants may be in any
// location; both are normalized to the hotel offset before any window
// comparison. The returned charge carries the winning strategy's lines in
// emission order, prefixed with a zero-amount line recording the
// normalized stay window.
func (c *Calculator) Quote(checkIn, checkOut time.Time, t Tariff) (Charge, error) {
	if checkOut.Before(checkIn) {
		return Charge{}, ErrInvalidInterval
	}
	if err := t.validate(); err != nil {
		return Charge{}, err
	}

	in := checkIn.In(c.loc)
	out := checkOut.In(c.loc)
	c.log.Debug().
		Time("check_in_local", in).
		Time("check_out_local", out).
		Msg("billing: normalized stay window")

	if checkOut.Sub(checkIn) < c.threshold {
		ch := hourly(in, out, t)
		ch.Strategy = StrategyHourly
		c.log.Debug().Int64("total", ch.Total).Str("strategy", ch.Strategy).
			Msg("billing: below threshold, hourly forced")
		return ch, nil
	}

	hc := hourly(in, out, t)
	oc := overnight(in, out, t)
	dc := daily(in, out, t)

	// Cheapest wins; ties keep the earlier strategy.
	best, strategy := hc, StrategyHourly
	if oc.Total < best.Total {
		best, strategy = oc, StrategyOvernight
	}
	if dc.Total < best.Total {
		best, strategy = dc, StrategyDaily
	}
	best.Strategy = strategy

	c.log.Debug().
		Int64("hourly", hc.Total).
		Int64("overnight", oc.Total).
		Int64("daily", dc.Total).
		Str("winner", strategy).
		Msg("billing: strategy selected")

	window := LineItem{
		Label: StayWindowLabel,
		Note: fmt.Sprintf("check-in %s, check-out %s",
			in.Format("2006-01-02 15:04 -07:00"), out.Format("2006-01-02 15:04 -07:00")),
	}
	best.Lines = append([]LineItem{window}, best.Lines...)
	return best, nil
}
