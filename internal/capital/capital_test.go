package capital_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bathingculture/books/internal/capital"
)

var (
	karl  = capital.Partner{ID: 1, Username: "karl"}
	chang = capital.Partner{ID: 2, Username: "chang"}
)

func partners() []capital.Partner {
	return []capital.Partner{karl, chang}
}

func june2024() []capital.TimeRange {
	return []capital.TimeRange{{
		Start: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 6, 30, 23, 59, 59, 0, time.UTC),
		Label: "June 2024",
	}}
}

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func ptr(v int64) *int64 { return &v }

func findCategory(t *testing.T, p capital.Period, name string) capital.Category {
	t.Helper()

	for _, c := range p.Categories {
		if c.Name == name {
			return c
		}
	}

	t.Fatalf("category %q not found in period %q", name, p.Label)

	return capital.Category{}
}

func hasCategory(p capital.Period, name string) bool {
	for _, c := range p.Categories {
		if c.Name == name {
			return true
		}
	}

	return false
}

func TestCompute_StipendOnly(t *testing.T) {
	checkIns := []capital.CheckIn{
		{UserID: karl.ID, Date: date(2024, 6, 1)},
		{UserID: karl.ID, Date: date(2024, 6, 2)},
	}

	periods := capital.Compute(june2024(), partners(), checkIns, nil)
	require.Len(t, periods, 1)

	stipend := findCategory(t, periods[0], capital.CategoryStipend)
	assert.Equal(t, 4400.0, stipend.Values[karl.ID].Amount)
	require.NotNil(t, stipend.Values[karl.ID].Count)
	assert.Equal(t, 2, *stipend.Values[karl.ID].Count)
	assert.Equal(t, 0.0, stipend.Values[chang.ID].Amount)
	assert.Equal(t, 0, *stipend.Values[chang.ID].Count)

	total := findCategory(t, periods[0], capital.CategoryTotal)
	assert.Equal(t, 4400.0, total.Values[karl.ID].Amount)
	assert.Equal(t, 0.0, total.Values[chang.ID].Amount)
}

func TestCompute_NullExpenseSplitsEvenly(t *testing.T) {
	entries := []capital.Entry{
		{Amount: 100, CreditedUserID: nil, Type: "expense", PostedAt: date(2024, 6, 10)},
	}

	periods := capital.Compute(june2024(), partners(), nil, entries)
	require.Len(t, periods, 1)

	expenses := findCategory(t, periods[0], capital.CategoryOtherExpense)
	assert.Equal(t, -50.0, expenses.Values[karl.ID].Amount)
	assert.Equal(t, -50.0, expenses.Values[chang.ID].Amount)

	// The two halves reassemble the original amount.
	assert.Equal(t, -100.0, expenses.Values[karl.ID].Amount+expenses.Values[chang.ID].Amount)

	total := findCategory(t, periods[0], capital.CategoryTotal)
	assert.Equal(t, -50.0, total.Values[karl.ID].Amount)
	assert.Equal(t, -50.0, total.Values[chang.ID].Amount)
}

func TestCompute_StudioExpenseAddedBackToLLCCapital(t *testing.T) {
	entries := []capital.Entry{
		{Amount: 1000, CreditedUserID: ptr(karl.ID), Type: "income", PostedAt: date(2024, 6, 5)},
		{Amount: 300, CreditedUserID: ptr(karl.ID), Type: "expense", IsStudio: true, PostedAt: date(2024, 6, 6)},
		{Amount: 100, CreditedUserID: ptr(karl.ID), Type: "expense", PostedAt: date(2024, 6, 7)},
	}

	periods := capital.Compute(june2024(), partners(), nil, entries)
	require.Len(t, periods, 1)

	total := findCategory(t, periods[0], capital.CategoryTotal)
	assert.Equal(t, 600.0, total.Values[karl.ID].Amount)

	// Studio expenses are pre-paid against LLC capital: withdrawable
	// balance is total plus the studio portion.
	llc := findCategory(t, periods[0], capital.CategoryLLCCapital)
	assert.Equal(t, 900.0, llc.Values[karl.ID].Amount)
}

func TestCompute_TotalIdentity(t *testing.T) {
	checkIns := []capital.CheckIn{
		{UserID: karl.ID, Date: date(2024, 6, 3)},
		{UserID: chang.ID, Date: date(2024, 6, 3)},
	}
	entries := []capital.Entry{
		{Amount: 5000, CreditedUserID: ptr(karl.ID), Type: "income", PostedAt: date(2024, 6, 4)},
		{Amount: 1200, CreditedUserID: ptr(chang.ID), Type: "deposit", PostedAt: date(2024, 6, 5)},
		{Amount: 400, CreditedUserID: nil, Type: "expense", PostedAt: date(2024, 6, 6)},
		{Amount: 250, CreditedUserID: ptr(karl.ID), Type: "expense", IsStudio: true, PostedAt: date(2024, 6, 7)},
		{Amount: 2000, CreditedUserID: ptr(karl.ID), Type: "distribution", PostedAt: date(2024, 6, 8)},
	}

	periods := capital.Compute(june2024(), partners(), checkIns, entries)
	require.Len(t, periods, 1)

	p := periods[0]
	total := findCategory(t, p, capital.CategoryTotal)

	for _, partner := range partners() {
		var sum float64

		for _, name := range []string{
			capital.CategoryStipend,
			capital.CategoryOtherIncome,
			capital.CategoryDeposits,
			capital.CategoryStudioExpense,
			capital.CategoryOtherExpense,
			capital.CategoryDistributions,
		} {
			if !hasCategory(p, name) {
				continue
			}

			sum += findCategory(t, p, name).Values[partner.ID].Amount
		}

		assert.InDelta(t, total.Values[partner.ID].Amount, sum, 1e-9,
			"total identity for %s", partner.Username)
	}

	// Spot-check karl: 2200 + 5000 - 200 - 250 - 2000.
	assert.InDelta(t, 4750.0, total.Values[karl.ID].Amount, 1e-9)
}

func TestCompute_DistributionsNeverSplit(t *testing.T) {
	entries := []capital.Entry{
		{Amount: 500, CreditedUserID: ptr(chang.ID), Type: "distribution", PostedAt: date(2024, 6, 9)},
		// A distribution with no recipient is malformed; it must not be
		// split between partners.
		{Amount: 999, CreditedUserID: nil, Type: "distribution", PostedAt: date(2024, 6, 9)},
	}

	periods := capital.Compute(june2024(), partners(), nil, entries)
	require.Len(t, periods, 1)

	dist := findCategory(t, periods[0], capital.CategoryDistributions)
	assert.Equal(t, -500.0, dist.Values[chang.ID].Amount)
	assert.Equal(t, 0.0, dist.Values[karl.ID].Amount)
}

func TestCompute_EmptyRangesDropped(t *testing.T) {
	ranges := append(june2024(), capital.TimeRange{
		Start: time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2024, 7, 31, 23, 59, 59, 0, time.UTC),
		Label: "July 2024",
	})

	entries := []capital.Entry{
		{Amount: 10, CreditedUserID: ptr(karl.ID), Type: "income", PostedAt: date(2024, 6, 1)},
	}

	periods := capital.Compute(ranges, partners(), nil, entries)
	require.Len(t, periods, 1)
	assert.Equal(t, "June 2024", periods[0].Label)
}

func TestCompute_ZeroCategoriesSuppressed(t *testing.T) {
	entries := []capital.Entry{
		{Amount: 10, CreditedUserID: ptr(karl.ID), Type: "income", PostedAt: date(2024, 6, 1)},
	}

	periods := capital.Compute(june2024(), partners(), nil, entries)
	require.Len(t, periods, 1)

	assert.False(t, hasCategory(periods[0], capital.CategoryStipend))
	assert.False(t, hasCategory(periods[0], capital.CategoryDeposits))
	assert.False(t, hasCategory(periods[0], capital.CategoryStudioExpense))
	assert.False(t, hasCategory(periods[0], capital.CategoryOtherExpense))
	assert.False(t, hasCategory(periods[0], capital.CategoryDistributions))
	assert.True(t, hasCategory(periods[0], capital.CategoryOtherIncome))
	assert.True(t, hasCategory(periods[0], capital.CategoryTotal))
}

func TestCompute_RangeBoundsInclusive(t *testing.T) {
	entries := []capital.Entry{
		{Amount: 10, CreditedUserID: ptr(karl.ID), Type: "income", PostedAt: date(2024, 6, 1)},
		{Amount: 20, CreditedUserID: ptr(karl.ID), Type: "income", PostedAt: time.Date(2024, 6, 30, 23, 59, 59, 0, time.UTC)},
		{Amount: 40, CreditedUserID: ptr(karl.ID), Type: "income", PostedAt: date(2024, 7, 1)},
	}

	periods := capital.Compute(june2024(), partners(), nil, entries)
	require.Len(t, periods, 1)

	income := findCategory(t, periods[0], capital.CategoryOtherIncome)
	assert.Equal(t, 30.0, income.Values[karl.ID].Amount)
}

func TestRanges(t *testing.T) {
	now := time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC)

	t.Run("monthly", func(t *testing.T) {
		ranges := capital.Ranges(capital.GranularityMonthly, now)
		require.Len(t, ranges, 13)

		assert.Equal(t, "June 2024", ranges[0].Label)
		assert.Equal(t, "July 2023", ranges[11].Label)
		assert.Equal(t, "All Time", ranges[12].Label)

		assert.Equal(t, time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC), ranges[0].Start)
		assert.True(t, ranges[0].End.After(time.Date(2024, 6, 30, 23, 59, 59, 0, time.UTC)))
		assert.True(t, ranges[0].End.Before(time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC)))
	})

	t.Run("yearly", func(t *testing.T) {
		ranges := capital.Ranges(capital.GranularityYearly, now)
		require.Len(t, ranges, 6)

		assert.Equal(t, "2024", ranges[0].Label)
		assert.Equal(t, "2020", ranges[4].Label)
		assert.Equal(t, "All Time", ranges[5].Label)
	})

	t.Run("all-time", func(t *testing.T) {
		ranges := capital.Ranges(capital.GranularityAllTime, now)
		require.Len(t, ranges, 1)
		assert.Equal(t, "All Time", ranges[0].Label)
		assert.Equal(t, now, ranges[0].End)
	})
}

func TestWithdrawable(t *testing.T) {
	entries := []capital.Entry{
		{Amount: 1000, CreditedUserID: ptr(karl.ID), Type: "income", PostedAt: date(2024, 6, 5)},
		{Amount: 300, CreditedUserID: ptr(karl.ID), Type: "expense", IsStudio: true, PostedAt: date(2024, 6, 6)},
	}

	ranges := capital.Ranges(capital.GranularityAllTime, time.Date(2024, 7, 1, 0, 0, 0, 0, time.UTC))
	periods := capital.Compute(ranges, partners(), nil, entries)

	assert.Equal(t, 1000.0, capital.Withdrawable(periods, karl.ID))
	assert.Equal(t, 0.0, capital.Withdrawable(periods, chang.ID))
	assert.Equal(t, 0.0, capital.Withdrawable(nil, karl.ID))
}
