// Package capital computes the per-partner capital account breakdowns: a
// deterministic fold of check-ins and categorized transactions over a set
// of time windows. Nothing here is persisted; the breakdown is recomputed
// from scratch on every request.
package capital

import (
	"time"

	"github.com/bathingculture/books/internal/checkin"
)

// Granularity selects the set of time windows the ledger is folded over.
type Granularity string

const (
	GranularityMonthly Granularity = "monthly"
	GranularityYearly  Granularity = "yearly"
	GranularityAllTime Granularity = "all-time"
)

const (
	monthlyWindows = 12
	yearlyWindows  = 5
)

// Category names in emission order.
const (
	CategoryStipend       = "Check-In Income"
	CategoryOtherIncome   = "Other Income"
	CategoryDeposits      = "Deposits"
	CategoryStudioExpense = "Studio Expenses"
	CategoryOtherExpense  = "Other Expenses"
	CategoryDistributions = "Distributions"
	CategoryTotal         = "Total"
	CategoryLLCCapital    = "LLC Capital"
)

// Partner identifies one of the two capital account holders.
type Partner struct {
	ID       int64
	Username string
}

// CheckIn is one stipend-earning day.
type CheckIn struct {
	UserID int64
	Date   time.Time
}

// Entry is one categorized transaction as the aggregator sees it: absolute
// amount, responsible partner (nil means split), category, and whether the
// expense ran through the studio account.
type Entry struct {
	Amount         float64
	CreditedUserID *int64
	Type           string
	IsStudio       bool
	PostedAt       time.Time
}

// TimeRange is one aggregation window, inclusive on both ends.
type TimeRange struct {
	Start time.Time
	End   time.Time
	Label string
}

// Value is one partner's cell in a category row. Count is only set for the
// stipend category, where it carries the number of check-in days.
type Value struct {
	Amount float64 `json:"amount"`
	Count  *int    `json:"count,omitempty"`
}

// Category is one named row of a period breakdown, keyed by partner id.
type Category struct {
	Name   string          `json:"name"`
	Values map[int64]Value `json:"values"`
}

// Period is the breakdown for one time range. Ranges in which every
// category nets to zero are dropped entirely.
type Period struct {
	Label      string     `json:"timePeriod"`
	Categories []Category `json:"categories"`
}

// Ranges builds the aggregation windows for a granularity, most recent
// first, always ending with the all-time window.
func Ranges(g Granularity, now time.Time) []TimeRange {
	var ranges []TimeRange

	switch g {
	case GranularityMonthly:
		current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
		for i := 0; i < monthlyWindows; i++ {
			ranges = append(ranges, TimeRange{
				Start: current,
				End:   current.AddDate(0, 1, 0).Add(-time.Nanosecond),
				Label: current.Format("January 2006"),
			})
			current = current.AddDate(0, -1, 0)
		}
	case GranularityYearly:
		current := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)
		for i := 0; i < yearlyWindows; i++ {
			ranges = append(ranges, TimeRange{
				Start: current,
				End:   current.AddDate(1, 0, 0).Add(-time.Nanosecond),
				Label: current.Format("2006"),
			})
			current = current.AddDate(-1, 0, 0)
		}
	}

	ranges = append(ranges, TimeRange{
		Start: time.Unix(0, 0).UTC(),
		End:   now,
		Label: "All Time",
	})

	return ranges
}

// bucket accumulates one partner's totals for a single range.
type bucket struct {
	stipendCount  int
	stipend       float64
	otherIncome   float64
	deposits      float64
	studioExpense float64
	otherExpense  float64
	distributions float64
}

func (b *bucket) total() float64 {
	return b.stipend + b.otherIncome + b.deposits - b.studioExpense - b.otherExpense - b.distributions
}

// Studio expenses are treated as pre-paid against LLC capital, so they do
// not reduce the withdrawable balance.
func (b *bucket) withdrawable() float64 {
	return b.total() + b.studioExpense
}

func inRange(t time.Time, r TimeRange) bool {
	return !t.Before(r.Start) && !t.After(r.End)
}

// Compute folds the check-ins and entries over every range, emitting one
// period per range in input order. Categories where every partner nets to
// zero are suppressed; a range with no surviving categories is dropped.
func Compute(ranges []TimeRange, partners []Partner, checkIns []CheckIn, entries []Entry) []Period {
	periods := make([]Period, 0, len(ranges))

	for _, r := range ranges {
		buckets := make(map[int64]*bucket, len(partners))
		for _, p := range partners {
			buckets[p.ID] = &bucket{}
		}

		for _, ci := range checkIns {
			if !inRange(ci.Date, r) {
				continue
			}

			b, ok := buckets[ci.UserID]
			if !ok {
				continue
			}

			b.stipendCount++
			b.stipend += checkin.StipendAmount
		}

		for _, e := range entries {
			if !inRange(e.PostedAt, r) {
				continue
			}

			switch e.Type {
			case "income":
				if b := creditedBucket(buckets, e.CreditedUserID); b != nil {
					b.otherIncome += e.Amount
				}
			case "deposit":
				if b := creditedBucket(buckets, e.CreditedUserID); b != nil {
					b.deposits += e.Amount
				}
			case "expense":
				// Unattributed expenses split 50/50, studio and
				// other independently.
				if b := creditedBucket(buckets, e.CreditedUserID); b != nil {
					if e.IsStudio {
						b.studioExpense += e.Amount
					} else {
						b.otherExpense += e.Amount
					}

					continue
				}

				for _, b := range buckets {
					if e.IsStudio {
						b.studioExpense += e.Amount / 2
					} else {
						b.otherExpense += e.Amount / 2
					}
				}
			case "distribution":
				// Distributions always have a concrete recipient;
				// rows without one are dropped rather than split.
				if b := creditedBucket(buckets, e.CreditedUserID); b != nil {
					b.distributions += e.Amount
				}
			}
		}

		if p, ok := buildPeriod(r.Label, partners, buckets); ok {
			periods = append(periods, p)
		}
	}

	return periods
}

func creditedBucket(buckets map[int64]*bucket, userID *int64) *bucket {
	if userID == nil {
		return nil
	}

	return buckets[*userID]
}

func buildPeriod(label string, partners []Partner, buckets map[int64]*bucket) (Period, bool) {
	period := Period{Label: label}

	addCategory := func(name string, value func(*bucket) Value) {
		values := make(map[int64]Value, len(partners))
		nonzero := false

		for _, p := range partners {
			v := value(buckets[p.ID])
			values[p.ID] = v

			if v.Amount != 0 {
				nonzero = true
			}
		}

		if nonzero {
			period.Categories = append(period.Categories, Category{Name: name, Values: values})
		}
	}

	addCategory(CategoryStipend, func(b *bucket) Value {
		count := b.stipendCount
		return Value{Amount: b.stipend, Count: &count}
	})
	addCategory(CategoryOtherIncome, func(b *bucket) Value {
		return Value{Amount: b.otherIncome}
	})
	addCategory(CategoryDeposits, func(b *bucket) Value {
		return Value{Amount: b.deposits}
	})
	addCategory(CategoryStudioExpense, func(b *bucket) Value {
		return Value{Amount: -b.studioExpense}
	})
	addCategory(CategoryOtherExpense, func(b *bucket) Value {
		return Value{Amount: -b.otherExpense}
	})
	addCategory(CategoryDistributions, func(b *bucket) Value {
		return Value{Amount: -b.distributions}
	})
	addCategory(CategoryTotal, func(b *bucket) Value {
		return Value{Amount: b.total()}
	})
	addCategory(CategoryLLCCapital, func(b *bucket) Value {
		return Value{Amount: b.withdrawable()}
	})

	return period, len(period.Categories) > 0
}

// Withdrawable returns one partner's all-time LLC Capital from a computed
// breakdown, zero when the partner has no history.
func Withdrawable(periods []Period, userID int64) float64 {
	for _, p := range periods {
		if p.Label != "All Time" {
			continue
		}

		for _, c := range p.Categories {
			if c.Name == CategoryLLCCapital {
				return c.Values[userID].Amount
			}
		}
	}

	return 0
}
