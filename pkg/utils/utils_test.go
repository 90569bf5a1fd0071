package utils

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestFirstOfMonth(t *testing.T) {
	in := time.Date(2024, time.June, 17, 13, 45, 2, 0, time.UTC)
	assert.Equal(t, time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC), FirstOfMonth(in))

	first := time.Date(2024, time.June, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, first, FirstOfMonth(first))
}

func TestIsDateOverdue(t *testing.T) {
	now := time.Date(2024, time.June, 15, 0, 0, 0, 0, time.UTC)

	assert.True(t, IsDateOverdue(now.AddDate(0, 0, -1), now))
	assert.False(t, IsDateOverdue(now.AddDate(0, 0, 1), now))
	assert.False(t, IsDateOverdue(now, now))
}

func TestParsePositiveInt(t *testing.T) {
	assert.Equal(t, 7, ParsePositiveInt("7", 1))
	assert.Equal(t, 1, ParsePositiveInt("", 1))
	assert.Equal(t, 1, ParsePositiveInt("abc", 1))
	assert.Equal(t, 1, ParsePositiveInt("0", 1))
	assert.Equal(t, 1, ParsePositiveInt("-3", 1))
}

func TestClampPageSize(t *testing.T) {
	assert.Equal(t, 10, ClampPageSize(0, 10, 100))
	assert.Equal(t, 25, ClampPageSize(25, 10, 100))
	assert.Equal(t, 100, ClampPageSize(500, 10, 100))
}

func TestTaxPortion(t *testing.T) {
	vat := TaxPortion(decimal.NewFromInt(10000), decimal.RequireFromString("0.12"))
	assert.True(t, vat.Equal(decimal.NewFromInt(1200)))

	// Rounded to currency precision.
	wht := TaxPortion(decimal.RequireFromString("333.33"), decimal.RequireFromString("0.05"))
	assert.True(t, wht.Equal(decimal.RequireFromString("16.67")))
}
