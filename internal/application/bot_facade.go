package application

import (
	"context"
	"fmt"

	"currency-quote-bot/internal/domain"
	"currency-quote-bot/internal/domain/model"
	"currency-quote-bot/internal/usecase"
)

// BotFacade composes the use cases behind the chat surface. The Telegram
// adapter only talks to the facade; it never touches the state store.
type BotFacade struct {
	QuoteUC usecase.QuoteUseCase
	StarsUC usecase.StarsUseCase
	ConvUC  usecase.ConversationUseCase
}

func NewBotFacade(quoteUC usecase.QuoteUseCase, starsUC usecase.StarsUseCase, convUC usecase.ConversationUseCase) *BotFacade {
	return &BotFacade{
		QuoteUC: quoteUC,
		StarsUC: starsUC,
		ConvUC:  convUC,
	}
}

// ReturnToMenu ends any active input flow.
func (b *BotFacade) ReturnToMenu(ctx context.Context, tgID int64) error {
	if err := b.ConvUC.Reset(ctx, tgID); err != nil {
		return fmt.Errorf("reset conversation: %w", err)
	}
	return nil
}

// HandleSpot returns the current spot ticker of symbol.
func (b *BotFacade) HandleSpot(ctx context.Context, symbol string) (*model.SpotTicker, error) {
	return b.QuoteUC.Spot(ctx, symbol)
}

// BeginStars starts the ratio flow.
func (b *BotFacade) BeginStars(ctx context.Context, tgID int64) error {
	return b.ConvUC.StartRatio(ctx, tgID)
}

// BeginP2P starts the amount flow of a venue and returns its market so the
// prompt can state the minimum. Huobi results are edited into menuMessageID.
func (b *BotFacade) BeginP2P(ctx context.Context, tgID int64, venue model.Venue, side model.Side, menuMessageID int) (model.P2PMarket, error) {
	market, err := b.QuoteUC.Market(venue)
	if err != nil {
		return model.P2PMarket{}, err
	}
	switch venue {
	case model.VenueBybit:
		err = b.ConvUC.StartAmount(ctx, tgID, side)
	case model.VenueHuobi:
		err = b.ConvUC.StartRegionalAmount(ctx, tgID, side, venue, menuMessageID)
	default:
		err = domain.ErrUnknownVenue
	}
	if err != nil {
		return model.P2PMarket{}, err
	}
	return market, nil
}

// Market returns the P2P market of a venue.
func (b *BotFacade) Market(venue model.Venue) (model.P2PMarket, error) {
	return b.QuoteUC.Market(venue)
}

// HandleText routes free text to the active flow.
func (b *BotFacade) HandleText(ctx context.Context, tgID int64, text string) (*usecase.FlowResult, error) {
	return b.ConvUC.HandleText(ctx, tgID, text)
}
