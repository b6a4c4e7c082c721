package usecase

import (
	"context"
	"fmt"
	"strings"

	"currency-quote-bot/internal/domain"
	"currency-quote-bot/internal/domain/model"
	"currency-quote-bot/internal/domain/ports/adapter"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// QuoteUseCase relays spot tickers and aggregated P2P offers. Nothing is cached.
type QuoteUseCase interface {
	// Spot returns the ticker of a spot symbol such as BTCUSDT.
	Spot(ctx context.Context, symbol string) (*model.SpotTicker, error)

	// Market returns the P2P market a venue serves.
	Market(venue model.Venue) (model.P2PMarket, error)

	// P2P validates amount against the venue minimum, fetches the offers and
	// aggregates the first Window of them. Amounts below the minimum return
	// domain.ErrBelowMinimum without any upstream request.
	P2P(ctx context.Context, venue model.Venue, side model.Side, amount float64) (*model.P2PSummary, error)
}

var _ QuoteUseCase = (*quoteUC)(nil)

type quoteUC struct {
	spot    adapter.SpotTickerSource
	sources map[model.Venue]adapter.P2POfferSource
	log     *zerolog.Logger
}

// NewQuoteUseCase wires one spot source and any number of P2P sources, keyed
// by the venue each of them reports.
func NewQuoteUseCase(spot adapter.SpotTickerSource, logger *zerolog.Logger, sources ...adapter.P2POfferSource) QuoteUseCase {
	m := make(map[model.Venue]adapter.P2POfferSource, len(sources))
	for _, s := range sources {
		m[s.Market().Venue] = s
	}
	return &quoteUC{spot: spot, sources: m, log: logger}
}

func (q *quoteUC) Spot(ctx context.Context, symbol string) (*model.SpotTicker, error) {
	symbol = strings.ToUpper(strings.TrimSpace(symbol))
	if symbol == "" {
		return nil, domain.ErrInvalidArgument
	}
	t, err := q.spot.SpotTicker(ctx, symbol)
	if err != nil {
		return nil, fmt.Errorf("spot ticker %s: %w", symbol, err)
	}
	return t, nil
}

func (q *quoteUC) Market(venue model.Venue) (model.P2PMarket, error) {
	src, ok := q.sources[venue]
	if !ok {
		return model.P2PMarket{}, domain.ErrUnknownVenue
	}
	return src.Market(), nil
}

func (q *quoteUC) P2P(ctx context.Context, venue model.Venue, side model.Side, amount float64) (*model.P2PSummary, error) {
	src, ok := q.sources[venue]
	if !ok {
		return nil, domain.ErrUnknownVenue
	}
	market := src.Market()
	if amount < market.MinAmount {
		return nil, domain.ErrBelowMinimum
	}

	offers, err := src.P2POffers(ctx, side, amount)
	if err != nil {
		return nil, err
	}
	if q.log != nil {
		q.log.Debug().
			Str("venue", string(venue)).
			Str("side", string(side)).
			Int("offers", len(offers)).
			Msg("p2p offers fetched")
	}

	summary, err := AggregateOffers(offers, market.Window, market.Tally)
	if err != nil {
		return nil, err
	}
	summary.Market = market
	summary.Side = side
	summary.Amount = amount
	return summary, nil
}

// AggregateOffers computes min, max and mean price over the first window
// offers and counts how many of them accept each tallied payment method.
// An empty window yields domain.ErrNoOffers.
func AggregateOffers(offers []model.P2POffer, window int, tally []string) (*model.P2PSummary, error) {
	if window > 0 && len(offers) > window {
		offers = offers[:window]
	}
	if len(offers) == 0 {
		return nil, domain.ErrNoOffers
	}

	counts := make(map[string]int, len(tally))
	for _, m := range tally {
		counts[m] = 0
	}

	var minP, maxP, sum decimal.Decimal
	for i, o := range offers {
		p, err := decimal.NewFromString(strings.TrimSpace(o.Price))
		if err != nil {
			return nil, fmt.Errorf("offer %d price %q: %w", i, o.Price, err)
		}
		if i == 0 || p.LessThan(minP) {
			minP = p
		}
		if i == 0 || p.GreaterThan(maxP) {
			maxP = p
		}
		sum = sum.Add(p)

		for _, m := range tally {
			if acceptsMethod(o.PaymentMethods, m) {
				counts[m]++
			}
		}
	}

	avg := sum.Div(decimal.NewFromInt(int64(len(offers)))).Round(2)
	return &model.P2PSummary{
		Sample:              len(offers),
		MinPrice:            minP.InexactFloat64(),
		MaxPrice:            maxP.InexactFloat64(),
		AvgPrice:            avg.InexactFloat64(),
		PaymentMethodCounts: counts,
	}, nil
}

func acceptsMethod(methods []string, want string) bool {
	for _, m := range methods {
		if strings.EqualFold(strings.TrimSpace(m), want) {
			return true
		}
	}
	return false
}
