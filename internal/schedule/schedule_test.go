package schedule

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestCompute_MonthlyWithDeposit(t *testing.T) {
	cfg := Config{
		BillingType:     BillingMonthly,
		Rate:            decimal.NewFromInt(10000),
		StartDate:       date(2024, time.January, 1),
		TotalMonths:     3,
		DepositRequired: true,
		DepositAmount:   decimal.NewFromInt(10000),
	}

	entries := Compute(cfg)

	require.Len(t, entries, 4)
	assert.Equal(t, LabelDeposit, entries[0].Label)
	assert.Equal(t, "Jan 01, 2024-Feb 01, 2024", entries[1].Label)
	assert.Equal(t, "Feb 01, 2024-Mar 01, 2024", entries[2].Label)
	assert.Equal(t, "Mar 01, 2024-Apr 01, 2024", entries[3].Label)
	for _, e := range entries {
		assert.True(t, e.Amount.Equal(decimal.NewFromInt(10000)), "entry %q amount %s", e.Label, e.Amount)
	}
	assert.True(t, Total(entries).Equal(decimal.NewFromInt(40000)))
}

func TestCompute_OneTime(t *testing.T) {
	cfg := Config{
		BillingType: BillingOneTime,
		Rate:        decimal.NewFromInt(5000),
		StartDate:   date(2024, time.June, 15),
		TotalMonths: 1,
	}

	entries := Compute(cfg)

	require.Len(t, entries, 1)
	assert.Equal(t, LabelOnInvoice, entries[0].Label)
	assert.True(t, entries[0].Amount.Equal(decimal.NewFromInt(5000)))
}

func TestCompute_OneTimeKeepsDepositAndMonths(t *testing.T) {
	// The total-months field stays in the one-time formula even though the
	// corresponding input is disabled in the client.
	cfg := Config{
		BillingType:     BillingOneTime,
		Rate:            decimal.NewFromInt(5000),
		TotalMonths:     3,
		DepositRequired: true,
		DepositAmount:   decimal.NewFromInt(2500),
	}

	entries := Compute(cfg)

	require.Len(t, entries, 1)
	assert.True(t, entries[0].Amount.Equal(decimal.NewFromInt(17500)))
}

func TestCompute_SumInvariant(t *testing.T) {
	tests := []struct {
		name            string
		rate            int64
		totalMonths     int
		depositRequired bool
		deposit         int64
	}{
		{name: "no deposit", rate: 7500, totalMonths: 6},
		{name: "with deposit", rate: 7500, totalMonths: 6, depositRequired: true, deposit: 15000},
		{name: "single month", rate: 120000, totalMonths: 1, depositRequired: true, deposit: 120000},
		{name: "zero months", rate: 9000, totalMonths: 0, depositRequired: true, deposit: 9000},
		{name: "manual deposit override", rate: 10000, totalMonths: 12, depositRequired: true, deposit: 12345},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Config{
				BillingType:     BillingMonthly,
				Rate:            decimal.NewFromInt(tt.rate),
				StartDate:       date(2024, time.March, 10),
				TotalMonths:     tt.totalMonths,
				DepositRequired: tt.depositRequired,
				DepositAmount:   decimal.NewFromInt(tt.deposit),
			}

			entries := Compute(cfg)

			expected := decimal.NewFromInt(tt.rate).Mul(decimal.NewFromInt(int64(tt.totalMonths)))
			if tt.depositRequired {
				expected = expected.Add(decimal.NewFromInt(tt.deposit))
			}
			assert.True(t, Total(entries).Equal(expected), "sum %s != %s", Total(entries), expected)
		})
	}
}

func TestCompute_DepositAlwaysFirst(t *testing.T) {
	cfg := Config{
		BillingType:     BillingMonthly,
		Rate:            decimal.NewFromInt(100),
		StartDate:       date(2025, time.November, 20),
		TotalMonths:     5,
		DepositRequired: true,
		DepositAmount:   decimal.NewFromInt(200),
	}

	entries := Compute(cfg)

	require.NotEmpty(t, entries)
	assert.Equal(t, LabelDeposit, entries[0].Label)
	for _, e := range entries[1:] {
		assert.NotEqual(t, LabelDeposit, e.Label)
	}
}

func TestCompute_DepositSkippedWhenZeroOrNotRequired(t *testing.T) {
	cfg := Config{
		BillingType:   BillingMonthly,
		Rate:          decimal.NewFromInt(100),
		StartDate:     date(2024, time.January, 1),
		TotalMonths:   2,
		DepositAmount: decimal.NewFromInt(200), // ignored: not required
	}
	assert.Len(t, Compute(cfg), 2)

	cfg.DepositRequired = true
	cfg.DepositAmount = decimal.Zero
	assert.Len(t, Compute(cfg), 2)
}

func TestCompute_LabelRoundTrip(t *testing.T) {
	start := date(2024, time.October, 15)
	cfg := Config{
		BillingType: BillingMonthly,
		Rate:        decimal.NewFromInt(100),
		StartDate:   start,
		TotalMonths: 14, // crosses a year boundary
	}

	for i, e := range Compute(cfg) {
		parsed, err := PeriodStart(e.Label)
		require.NoError(t, err, "label %q", e.Label)
		assert.True(t, parsed.Equal(start.AddDate(0, i, 0)), "label %q parsed to %s", e.Label, parsed)
	}
}

func TestDeriveDeposit(t *testing.T) {
	rate := decimal.NewFromInt(10000)

	one, err := DeriveDeposit(rate, "1 month")
	require.NoError(t, err)
	assert.True(t, one.Equal(decimal.NewFromInt(10000)))

	two, err := DeriveDeposit(rate, "2 months")
	require.NoError(t, err)
	assert.True(t, two.Equal(decimal.NewFromInt(20000)))

	_, err = DeriveDeposit(rate, "")
	assert.Error(t, err)

	_, err = DeriveDeposit(rate, "soon")
	assert.Error(t, err)
}

func TestInclusiveMonths(t *testing.T) {
	tests := []struct {
		name     string
		start    time.Time
		end      time.Time
		expected int
	}{
		{"same month", date(2024, time.January, 5), date(2024, time.January, 25), 1},
		{"full quarter", date(2024, time.January, 1), date(2024, time.March, 31), 3},
		{"partial months still count", date(2024, time.January, 15), date(2024, time.March, 2), 3},
		{"year boundary", date(2024, time.November, 1), date(2025, time.February, 1), 4},
		{"end before start clamps to one", date(2024, time.May, 1), date(2024, time.April, 1), 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, InclusiveMonths(tt.start, tt.end))
		})
	}
}

func TestDueDate(t *testing.T) {
	start := date(2024, time.June, 15)

	monthly := Entry{Label: "Jun 15, 2024-Jul 15, 2024"}
	assert.Equal(t, date(2024, time.June, 1), DueDate(monthly, start))

	deposit := Entry{Label: LabelDeposit}
	assert.Equal(t, start, DueDate(deposit, start))

	onInvoice := Entry{Label: LabelOnInvoice}
	assert.Equal(t, start, DueDate(onInvoice, start))
}
