package settlement

import (
	"fmt"

	"github.com/shopspring/decimal"
)

// Amount bounds. MaxAmountDigits covers any uint256 base-unit value and
// MaxAmountScale the finest fraction an asset may use.
const (
	MaxAmountDigits = 78
	MaxAmountScale  = 18
)

// CheckAmount reports whether d fits the amount bounds. It inspects the
// exponent and coefficient only, so it never expands d into its decimal form.
func CheckAmount(d decimal.Decimal) error {
	exp := int(d.Exponent())
	if exp < -MaxAmountScale {
		return fmt.Errorf("%w: more than %d fractional digits", ErrAmountOutOfRange, MaxAmountScale)
	}
	if exp > MaxAmountDigits || d.NumDigits()+exp > MaxAmountDigits {
		return fmt.Errorf("%w: more than %d integer digits", ErrAmountOutOfRange, MaxAmountDigits)
	}
	return nil
}
