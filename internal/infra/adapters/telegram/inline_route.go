package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"currency-quote-bot/internal/domain/ports/adapter"
	"currency-quote-bot/internal/infra/logging"
	"currency-quote-bot/internal/infra/metrics"
)

// Telegram may cache inline answers; one second keeps prices fresh.
const inlineCacheSeconds = 1

type inlineSymbol struct {
	ID     string
	Symbol string
	Name   string
}

var inlineSymbols = map[string]inlineSymbol{
	"btc": {ID: "1", Symbol: "BTCUSDT", Name: "BTC"},
	"eth": {ID: "2", Symbol: "ETHUSDT", Name: "ETH"},
}

// handleInlineQuery always answers with exactly one article.
func (r *RealTelegramBotAdapter) handleInlineQuery(ctx context.Context, q *tgbotapi.InlineQuery) error {
	metrics.IncTelegramCommand("inline")
	ctx = logging.WithAction(ctx, "inline")
	return r.AnswerInline(ctx, q.ID, inlineCacheSeconds, r.inlineArticle(ctx, q.Query))
}

func (r *RealTelegramBotAdapter) inlineArticle(ctx context.Context, query string) adapter.InlineArticle {
	sym, ok := inlineSymbols[strings.ToLower(strings.TrimSpace(query))]
	if !ok {
		return adapter.InlineArticle{
			ID:        "unknown",
			Title:     r.translator.T("inline_unknown_title"),
			Text:      r.translator.T("inline_unknown_text"),
			ParseMode: tgbotapi.ModeMarkdown,
		}
	}

	t, err := r.facade.HandleSpot(ctx, sym.Symbol)
	if err != nil {
		logging.With(ctx, r.log).Warn().Err(err).Str("symbol", sym.Symbol).Msg("inline spot ticker failed")
		return adapter.InlineArticle{
			ID:    "error",
			Title: r.translator.T("inline_error_title"),
			Text:  r.translator.T("inline_error_text", sym.Name),
		}
	}
	return adapter.InlineArticle{
		ID:          sym.ID,
		Title:       r.translator.T("inline_price_title", sym.Name),
		Description: r.translator.T("inline_price_description", sym.Name, t.LastPrice),
		Text:        r.present.spotTicker(t),
		ParseMode:   tgbotapi.ModeMarkdown,
	}
}
