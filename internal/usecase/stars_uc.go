package usecase

import (
	"context"
	"fmt"
	"math"

	"currency-quote-bot/internal/domain"
	"currency-quote-bot/internal/domain/model"
	"currency-quote-bot/internal/domain/ports/adapter"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// StarsUseCase prices Telegram Stars from the live TON/RUB rate.
type StarsUseCase interface {
	Quote(ctx context.Context, ratio float64) (*model.StarPrice, error)
}

var _ StarsUseCase = (*starsUC)(nil)

type starsUC struct {
	reference adapter.ReferencePriceSource
	log       *zerolog.Logger
}

func NewStarsUseCase(reference adapter.ReferencePriceSource, logger *zerolog.Logger) StarsUseCase {
	return &starsUC{reference: reference, log: logger}
}

func (s *starsUC) Quote(ctx context.Context, ratio float64) (*model.StarPrice, error) {
	if !validPositive(ratio) {
		return nil, domain.ErrInvalidArgument
	}
	tonRub, err := s.reference.TonRubPrice(ctx)
	if err != nil {
		return nil, fmt.Errorf("ton/rub reference: %w", err)
	}
	return CalculateStarPrice(tonRub, ratio)
}

// CalculateStarPrice derives the price of one star given the TON/RUB rate and
// the amount of TON paid for StarsPerRatio stars. Values are computed at full
// precision and every reported field is rounded to 2 decimals on its own.
func CalculateStarPrice(referencePrice, ratio float64) (*model.StarPrice, error) {
	if !validPositive(referencePrice) || !validPositive(ratio) {
		return nil, domain.ErrInvalidArgument
	}

	total := referencePrice * ratio
	unit := total / model.StarsPerRatio
	diff := model.BaselineStarPrice - unit

	return &model.StarPrice{
		Ratio:         ratio,
		TonRubPrice:   round2(referencePrice),
		UnitPrice:     round2(unit),
		TotalPrice:    round2(total),
		StandardTotal: round2(model.BaselineStarPrice * model.StarsPerRatio),
		Difference:    round2(diff),
	}, nil
}

func validPositive(v float64) bool {
	return v > 0 && !math.IsInf(v, 0) && !math.IsNaN(v)
}

// round2 rounds half away from zero on the shortest decimal form of v.
func round2(v float64) float64 {
	return decimal.NewFromFloat(v).Round(2).InexactFloat64()
}
