package adapter

import (
	"context"

	"currency-quote-bot/internal/domain/model"
)

// SpotTickerSource returns the current spot ticker of a symbol such as BTCUSDT.
type SpotTickerSource interface {
	SpotTicker(ctx context.Context, symbol string) (*model.SpotTicker, error)
}

// P2POfferSource lists peer-to-peer offers of one venue filtered by amount.
// Offers are returned in venue order; callers decide how many to use.
type P2POfferSource interface {
	Market() model.P2PMarket
	P2POffers(ctx context.Context, side model.Side, amount float64) ([]model.P2POffer, error)
}

// ReferencePriceSource returns the TON price in RUB at full precision.
type ReferencePriceSource interface {
	TonRubPrice(ctx context.Context) (float64, error)
}
