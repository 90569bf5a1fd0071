package schedule

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Billing types
const (
	BillingMonthly = "monthly"
	BillingOneTime = "one_time"
)

// Entry labels and the period date layout used in monthly labels,
// e.g. "Jan 01, 2024-Feb 01, 2024".
const (
	LabelOnInvoice = "On Invoice"
	LabelDeposit   = "Deposit (deductible)"
	PeriodLayout   = "Jan 02, 2006"
)

// Config is the billing configuration a schedule is computed from. It is
// ephemeral: prefilled from a booking, edited by the caller, never persisted.
//
// TotalMonths is derived once from the booking's date range (inclusive month
// count) but stays independently editable afterward; Compute always trusts
// the current value, including for one-time billing where the field is
// disabled in the UI but still part of the total.
type Config struct {
	BillingType     string
	Rate            decimal.Decimal
	StartDate       time.Time
	TotalMonths     int
	DepositRequired bool
	DepositAmount   decimal.Decimal
	AdvanceRequired bool
	AdvanceTerms    string
}

// Entry is one line of a computed payment schedule.
type Entry struct {
	Label  string
	Amount decimal.Decimal
}

// Compute generates the ordered payment schedule for a billing
// configuration. Pure and deterministic: no I/O, no clock reads.
//
// One-time billing collapses to a single "On Invoice" entry of
// deposit + rate × totalMonths. Monthly billing emits the deposit entry
// first (when required and positive), then one entry per month. Advance
// terms never affect amounts.
func Compute(cfg Config) []Entry {
	if cfg.BillingType == BillingOneTime {
		total := cfg.Rate.Mul(decimal.NewFromInt(int64(cfg.TotalMonths)))
		if cfg.DepositRequired {
			total = total.Add(cfg.DepositAmount)
		}
		return []Entry{{Label: LabelOnInvoice, Amount: total}}
	}

	entries := make([]Entry, 0, cfg.TotalMonths+1)

	if cfg.DepositRequired && cfg.DepositAmount.IsPositive() {
		entries = append(entries, Entry{Label: LabelDeposit, Amount: cfg.DepositAmount})
	}

	for i := 0; i < cfg.TotalMonths; i++ {
		periodStart := cfg.StartDate.AddDate(0, i, 0)
		periodEnd := periodStart.AddDate(0, 1, 0)
		entries = append(entries, Entry{
			Label:  periodStart.Format(PeriodLayout) + "-" + periodEnd.Format(PeriodLayout),
			Amount: cfg.Rate,
		})
	}

	return entries
}

// Total sums the amounts of a schedule.
func Total(entries []Entry) decimal.Decimal {
	total := decimal.Zero
	for _, e := range entries {
		total = total.Add(e.Amount)
	}
	return total
}

// DeriveDeposit computes the default deposit amount as rate × the month
// count named by the terms string ("1 month", "2 months"). Callers may
// override the result; it is only a prefill.
func DeriveDeposit(rate decimal.Decimal, terms string) (decimal.Decimal, error) {
	fields := strings.Fields(terms)
	if len(fields) == 0 {
		return decimal.Zero, fmt.Errorf("empty deposit terms")
	}
	months, err := strconv.Atoi(fields[0])
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid deposit terms %q: %w", terms, err)
	}
	return rate.Mul(decimal.NewFromInt(int64(months))), nil
}

// InclusiveMonths returns the inclusive month count between two dates,
// counting calendar months touched rather than elapsed duration.
// Jan 15 to Mar 02 is 3 months.
func InclusiveMonths(start, end time.Time) int {
	months := (end.Year()-start.Year())*12 + int(end.Month()) - int(start.Month()) + 1
	if months < 1 {
		return 1
	}
	return months
}

// PeriodStart parses the start date out of a monthly entry label. It fails
// for the deposit and on-invoice labels, which carry no date.
func PeriodStart(label string) (time.Time, error) {
	prefix, _, found := strings.Cut(label, "-")
	if !found {
		return time.Time{}, fmt.Errorf("label %q has no period range", label)
	}
	return time.Parse(PeriodLayout, prefix)
}

// DueDate derives the due date for a schedule entry: the first day of the
// billing month for monthly period entries, the schedule start for deposit
// and on-invoice entries.
func DueDate(e Entry, scheduleStart time.Time) time.Time {
	periodStart, err := PeriodStart(e.Label)
	if err != nil {
		return scheduleStart
	}
	return time.Date(periodStart.Year(), periodStart.Month(), 1, 0, 0, 0, 0, time.UTC)
}
