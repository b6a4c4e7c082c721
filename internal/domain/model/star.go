package model

const (
	// BaselineStarPrice is the fixed reference price of one star in RUB.
	BaselineStarPrice = 1.65
	// StarsPerRatio is the number of stars the user-supplied ratio refers to.
	StarsPerRatio = 100
)

// StarPrice is the derived price of Telegram Stars. All fields are rounded to
// two decimals independently from the full-precision intermediates.
type StarPrice struct {
	Ratio         float64
	TonRubPrice   float64
	UnitPrice     float64
	TotalPrice    float64
	StandardTotal float64
	Difference    float64
}
