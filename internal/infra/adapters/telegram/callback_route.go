package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"currency-quote-bot/internal/domain/model"
	"currency-quote-bot/internal/infra/logging"
	"currency-quote-bot/internal/infra/metrics"
)

type cbHandler func(ctx context.Context, q *tgbotapi.CallbackQuery) error

func (r *RealTelegramBotAdapter) cbRoutes() map[string]cbHandler {
	return map[string]cbHandler{
		cbBack:        r.backCBRoute,
		cbBybit:       r.bybitCBRoute,
		cbHuobi:       r.huobiCBRoute,
		cbStars:       r.starsCBRoute,
		cbBTCUSDT:     r.spotCBRoute("BTCUSDT"),
		cbETHUSDT:     r.spotCBRoute("ETHUSDT"),
		cbUSDTRUBBuy:  r.p2pCBRoute(model.VenueBybit, model.SideBuy),
		cbUSDTRUBSell: r.p2pCBRoute(model.VenueBybit, model.SideSell),
		cbUSDTCNYBuy:  r.p2pCBRoute(model.VenueHuobi, model.SideBuy),
		cbUSDTCNYSell: r.p2pCBRoute(model.VenueHuobi, model.SideSell),
	}
}

func (r *RealTelegramBotAdapter) handleQuery(ctx context.Context, q *tgbotapi.CallbackQuery) error {
	if q == nil || q.From == nil {
		return errors.New("invalid callback query")
	}

	// Stop telegram spinner when we return
	notice := ""
	defer func() { _, _ = r.bot.Request(tgbotapi.NewCallback(q.ID, notice)) }()

	data := strings.TrimSpace(q.Data)
	fn, ok := r.callbacks[data]
	if !ok {
		metrics.IncTelegramCommand("cb:unknown")
		return fmt.Errorf("unknown callback data %q", data)
	}
	metrics.IncTelegramCommand("cb:" + data)
	ctx = logging.WithAction(ctx, "cb:"+data)

	if !r.allow(ctx, q.From.ID, "cb:"+data) {
		notice = r.present.rateLimited()
		return nil
	}
	return fn(ctx, q)
}

// cbTarget returns the chat and message a callback should edit. Buttons on
// inline-mode messages carry no message, so replies go to the user directly.
func cbTarget(q *tgbotapi.CallbackQuery) (int64, int) {
	if q.Message != nil && q.Message.Chat != nil {
		return q.Message.Chat.ID, q.Message.MessageID
	}
	return q.From.ID, 0
}

func (r *RealTelegramBotAdapter) resetFlow(ctx context.Context, tgID int64) {
	if err := r.facade.ReturnToMenu(ctx, tgID); err != nil {
		logging.With(ctx, r.log).Warn().Err(err).Msg("failed to reset conversation")
	}
}

func (r *RealTelegramBotAdapter) backCBRoute(ctx context.Context, q *tgbotapi.CallbackQuery) error {
	r.resetFlow(ctx, q.From.ID)
	chatID, msgID := cbTarget(q)
	return r.show(ctx, chatID, msgID, r.present.welcome(), "", r.keys.mainMenu())
}

func (r *RealTelegramBotAdapter) bybitCBRoute(ctx context.Context, q *tgbotapi.CallbackQuery) error {
	r.resetFlow(ctx, q.From.ID)
	chatID, msgID := cbTarget(q)
	return r.show(ctx, chatID, msgID, r.present.bybitMenu(), tgbotapi.ModeMarkdown, r.keys.bybitMenu())
}

func (r *RealTelegramBotAdapter) huobiCBRoute(ctx context.Context, q *tgbotapi.CallbackQuery) error {
	r.resetFlow(ctx, q.From.ID)
	chatID, msgID := cbTarget(q)
	market, err := r.facade.Market(model.VenueHuobi)
	if err != nil {
		return err
	}
	return r.show(ctx, chatID, msgID, r.present.huobiMenu(market), tgbotapi.ModeMarkdown, r.keys.huobiMenu())
}

func (r *RealTelegramBotAdapter) starsCBRoute(ctx context.Context, q *tgbotapi.CallbackQuery) error {
	chatID, msgID := cbTarget(q)
	if err := r.facade.BeginStars(ctx, q.From.ID); err != nil {
		_ = r.show(ctx, chatID, msgID, r.present.errorLine(err), "", r.keys.mainMenu())
		return err
	}
	return r.show(ctx, chatID, msgID, r.present.starsPrompt(), "", r.keys.starsPrompt())
}

func (r *RealTelegramBotAdapter) spotCBRoute(symbol string) cbHandler {
	return func(ctx context.Context, q *tgbotapi.CallbackQuery) error {
		chatID, msgID := cbTarget(q)
		t, err := r.facade.HandleSpot(ctx, symbol)
		if err != nil {
			logging.With(ctx, r.log).Warn().Err(err).Str("symbol", symbol).Msg("spot ticker failed")
			return r.show(ctx, chatID, msgID, r.present.errorLine(err), "", r.keys.bybitMenu())
		}
		return r.show(ctx, chatID, msgID, r.present.spotTicker(t), tgbotapi.ModeMarkdown, r.keys.bybitMenu())
	}
}

func (r *RealTelegramBotAdapter) p2pCBRoute(venue model.Venue, side model.Side) cbHandler {
	return func(ctx context.Context, q *tgbotapi.CallbackQuery) error {
		chatID, msgID := cbTarget(q)
		market, err := r.facade.BeginP2P(ctx, q.From.ID, venue, side, msgID)
		if err != nil {
			_ = r.show(ctx, chatID, msgID, r.present.errorLine(err), "", r.keys.mainMenu())
			return err
		}
		if venue == model.VenueHuobi {
			return r.show(ctx, chatID, msgID, r.present.huobiAmountPrompt(side, market), "", r.keys.huobiMenu())
		}
		return r.show(ctx, chatID, msgID, r.present.bybitAmountPrompt(side, market), "", r.keys.bybitPrompt())
	}
}
