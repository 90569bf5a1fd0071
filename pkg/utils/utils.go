package utils

import (
	"strconv"
	"time"

	"github.com/shopspring/decimal"
)

// FirstOfMonth truncates a date to the first day of its month.
func FirstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, t.Location())
}

// IsDateOverdue checks if a due date is past the given reference time.
func IsDateOverdue(dueDate, now time.Time) bool {
	return now.After(dueDate)
}

// ParsePositiveInt parses a query parameter as a positive integer, falling
// back to def when missing or invalid.
func ParsePositiveInt(s string, def int) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 1 {
		return def
	}
	return n
}

// ClampPageSize bounds a requested page size to [1, max].
func ClampPageSize(size, def, max int) int {
	if size < 1 {
		return def
	}
	if size > max {
		return max
	}
	return size
}

// TaxPortion returns amount × rate rounded to 2 decimal places, used for
// the VAT and withholding-tax columns.
func TaxPortion(amount, rate decimal.Decimal) decimal.Decimal {
	return amount.Mul(rate).Round(2)
}

// DecimalFromString converts string to decimal.Decimal
func DecimalFromString(s string) (decimal.Decimal, error) {
	return decimal.NewFromString(s)
}
