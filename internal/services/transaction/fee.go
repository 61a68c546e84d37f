package transaction

import "github.com/shopspring/decimal"

var hundred = decimal.NewFromInt(100)

// CalculateFee splits amount into the platform fee and the seller's share,
// both rounded to 2 decimals.
func CalculateFee(amount, feePercentage decimal.Decimal) (fee, sellerAmount decimal.Decimal) {
	fee = amount.Mul(feePercentage).Div(hundred).Round(2)
	sellerAmount = amount.Sub(fee).Round(2)
	return fee, sellerAmount
}
