// Package billing computes the room charge for a stay. It is a pure
// function over (check-in, check-out, tariff): no I/O, no shared state,
// safe to call from any number of goroutines.
package billing

import "errors"

var (
	ErrInvalidInterval = errors.New("billing: check-out before check-in")
	ErrInvalidTariff   = errors.New("billing: negative tariff rate")
)

// Tariff is the four-rate price configuration of a room type. Rates are
// whole currency units; this domain has no fractional sub-units.
type Tariff struct {
	FirstHour int64 `json:"first_hour_rate"`
	ExtraHour int64 `json:"extra_hour_rate"`
	Overnight int64 `json:"overnight_rate"`
	Daily     int64 `json:"daily_rate"`
}

func (t Tariff) validate() error {
	if t.FirstHour < 0 || t.ExtraHour < 0 || t.Overnight < 0 || t.Daily < 0 {
		return ErrInvalidTariff
	}
	return nil
}

// Line labels, in the order strategies emit them. StayWindowLabel marks the
// informational line carrying the normalized stay times; it never carries
// money.
const (
	FirstHourLabel     = "First hour"
	ExtraHoursLabel    = "Extra hours"
	OvernightLabel     = "Overnight"
	DailyLabel         = "Daily rate"
	EarlyArrivalLabel  = "Early-arrival surcharge"
	LateDepartureLabel = "Late-departure surcharge"
	BetweenNightsLabel = "Between-nights surcharge"
	StayWindowLabel    = "Stay window"
)

// LineItem is one row of the itemized bill. Amount is always
// Quantity * UnitRate.
type LineItem struct {
	Label    string `json:"label"`
	Quantity int64  `json:"quantity"`
	UnitRate int64  `json:"unit_rate"`
	Amount   int64  `json:"amount"`
	Note     string `json:"note,omitempty"`
}

// Strategy names as reported on quotes.
const (
	StrategyHourly    = "hourly"
	StrategyOvernight = "overnight"
	StrategyDaily     = "daily"
)

// Charge is the result of one calculation. Lines keep emission order for
// audit display; Total equals the sum of all line amounts.
type Charge struct {
	Strategy string     `json:"strategy"`
	Total    int64      `json:"total"`
	Lines    []LineItem `json:"lines"`
}

func (c *Charge) add(label string, qty, rate int64) {
	c.Lines = append(c.Lines, LineItem{Label: label, Quantity: qty, UnitRate: rate, Amount: qty * rate})
	c.Total += qty * rate
}
