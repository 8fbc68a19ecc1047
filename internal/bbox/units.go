package bbox

import "github.com/shopspring/decimal"

const (
	// PointsPerInch is the PostScript point definition
	PointsPerInch = 72
	// MillimetersPerInch is the exact inch to millimetre ratio
	MillimetersPerInch = 25.4
)

// divisionPrecision keeps enough digits that the rounding step sees the
// exact tie for any point value a PDF can carry.
const divisionPrecision = 28

var (
	pointsPerInch      = decimal.NewFromInt(PointsPerInch)
	millimetersPerInch = decimal.RequireFromString("25.4")
)

// PointsToMillimeters converts pt to mm in decimal arithmetic. The product
// is formed before the division so 72pt maps to exactly 25.4mm.
func PointsToMillimeters(pt float64) decimal.Decimal {
	return decimal.NewFromFloat(pt).Mul(millimetersPerInch).DivRound(pointsPerInch, divisionPrecision)
}

// PointsToInches converts pt to inches
func PointsToInches(pt float64) decimal.Decimal {
	return decimal.NewFromFloat(pt).DivRound(pointsPerInch, divisionPrecision)
}

// RoundMillimeters rounds to one decimal place with ties away from zero,
// so 12.25 becomes 12.3.
func RoundMillimeters(mm decimal.Decimal) decimal.Decimal {
	return mm.Round(1)
}
