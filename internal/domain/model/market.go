package model

import "strings"

// Side is the trade direction as seen by the user.
type Side string

const (
	SideBuy  Side = "buy"
	SideSell Side = "sell"
)

// ParseSide accepts "buy" or "sell" in any case.
func ParseSide(s string) (Side, bool) {
	switch Side(strings.ToLower(strings.TrimSpace(s))) {
	case SideBuy:
		return SideBuy, true
	case SideSell:
		return SideSell, true
	}
	return "", false
}

type Venue string

const (
	VenueBybit   Venue = "bybit"
	VenueHuobi   Venue = "huobi"
	VenueBinance Venue = "binance"
)

// P2PMarket describes how offers of one venue are requested and aggregated.
type P2PMarket struct {
	Venue     Venue
	Asset     string
	Fiat      string
	PageSize  int
	Window    int // only the first Window offers are aggregated
	MinAmount float64
	Tally     []string // payment methods counted inside the window
}

var (
	BybitUSDTRUB = P2PMarket{
		Venue:     VenueBybit,
		Asset:     "USDT",
		Fiat:      "RUB",
		PageSize:  8,
		Window:    8,
		MinAmount: 1000,
	}

	HuobiUSDTCNY = P2PMarket{
		Venue:     VenueHuobi,
		Asset:     "USDT",
		Fiat:      "CNY",
		PageSize:  10,
		Window:    10,
		MinAmount: 100,
		Tally:     []string{"Alipay", "WeChat"},
	}
)

// MarketFor returns the P2P market served by a venue.
func MarketFor(v Venue) (P2PMarket, bool) {
	switch v {
	case VenueBybit:
		return BybitUSDTRUB, true
	case VenueHuobi:
		return HuobiUSDTCNY, true
	}
	return P2PMarket{}, false
}
