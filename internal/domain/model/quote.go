package model

// SpotTicker is a spot quote as reported by the venue. Prices stay in the
// venue's string form so they are shown exactly as quoted.
type SpotTicker struct {
	Venue     Venue
	Symbol    string
	LastPrice string
	High24h   string
	Low24h    string
}

// P2POffer is one advertisement from a peer-to-peer listing.
type P2POffer struct {
	Price          string
	PaymentMethods []string
}

// P2PSummary aggregates the first Window offers of a listing.
type P2PSummary struct {
	Market              P2PMarket
	Side                Side
	Amount              float64
	Sample              int
	MinPrice            float64
	MaxPrice            float64
	AvgPrice            float64 // rounded to 2 decimals
	PaymentMethodCounts map[string]int
}
