// Package taxrate holds the versioned UAE tax rate tables used by the
// calculation engine. Rates are value objects: loaded once, validated at
// startup, and passed explicitly into every calculator call.
package taxrate

import (
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrMissingVersion    = errors.New("missing_version")
	ErrInvalidRate       = errors.New("invalid_tax_rate")
	ErrInvalidThreshold  = errors.New("invalid_tax_threshold")
	ErrMissingEffective  = errors.New("missing_effective_date")
	ErrEmptyTable        = errors.New("empty_rate_table")
	ErrDuplicateVersion  = errors.New("duplicate_rate_version")
	ErrNoApplicableRates = errors.New("no_applicable_rates")
)

// Config is an immutable snapshot of the rates and thresholds in force for
// a filing period. Historical periods are recomputed with the version that
// was in force at filing time, never with the latest table.
type Config struct {
	Version       string
	EffectiveDate time.Time

	CITStandardRate              decimal.Decimal
	SmallBusinessReliefThreshold decimal.Decimal
	QFZPRate                     decimal.Decimal
	QFZPEligibleIncomeCap        decimal.Decimal
	VATStandardRate              decimal.Decimal
}

func (c Config) Validate() error {
	if c.Version == "" {
		return ErrMissingVersion
	}
	if c.EffectiveDate.IsZero() {
		return ErrMissingEffective
	}
	one := decimal.NewFromInt(1)
	for _, rate := range []decimal.Decimal{c.CITStandardRate, c.QFZPRate, c.VATStandardRate} {
		if rate.IsNegative() || rate.GreaterThanOrEqual(one) {
			return ErrInvalidRate
		}
	}
	if c.SmallBusinessReliefThreshold.IsNegative() || c.QFZPEligibleIncomeCap.IsNegative() {
		return ErrInvalidThreshold
	}
	return nil
}

// DefaultConfig is the rate table in force since the UAE Corporate Tax
// go-live (Federal Decree-Law 47 of 2022, effective 1 June 2023).
func DefaultConfig() Config {
	return Config{
		Version:                      "2023-06",
		EffectiveDate:                time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC),
		CITStandardRate:              decimal.RequireFromString("0.09"),
		SmallBusinessReliefThreshold: decimal.RequireFromString("375000"),
		QFZPRate:                     decimal.Zero,
		QFZPEligibleIncomeCap:        decimal.RequireFromString("3000000"),
		VATStandardRate:              decimal.RequireFromString("0.05"),
	}
}
