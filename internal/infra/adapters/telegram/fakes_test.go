//go:build !integration

package telegram

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"

	"currency-quote-bot/internal/application"
	"currency-quote-bot/internal/config"
	"currency-quote-bot/internal/domain/model"
	"currency-quote-bot/internal/infra/i18n"
	"currency-quote-bot/internal/infra/memory"
	"currency-quote-bot/internal/usecase"
)

// fakeBotAPI records every outgoing call.
type fakeBotAPI struct {
	mu         sync.Mutex
	sent       []tgbotapi.Chattable
	requests   []tgbotapi.Chattable
	requestErr error
	updates    chan tgbotapi.Update
}

func (f *fakeBotAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func (f *fakeBotAPI) Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.requests = append(f.requests, c)
	if _, isEdit := c.(tgbotapi.EditMessageTextConfig); isEdit && f.requestErr != nil {
		return nil, f.requestErr
	}
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeBotAPI) GetUpdatesChan(cfg tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel {
	return f.updates
}

func (f *fakeBotAPI) StopReceivingUpdates() {}

func (f *fakeBotAPI) messages() []tgbotapi.MessageConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []tgbotapi.MessageConfig
	for _, c := range f.sent {
		if m, ok := c.(tgbotapi.MessageConfig); ok {
			out = append(out, m)
		}
	}
	return out
}

func (f *fakeBotAPI) edits() []tgbotapi.EditMessageTextConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []tgbotapi.EditMessageTextConfig
	for _, c := range f.requests {
		if e, ok := c.(tgbotapi.EditMessageTextConfig); ok {
			out = append(out, e)
		}
	}
	return out
}

func (f *fakeBotAPI) inlineAnswers() []tgbotapi.InlineConfig {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []tgbotapi.InlineConfig
	for _, c := range f.requests {
		if ic, ok := c.(tgbotapi.InlineConfig); ok {
			out = append(out, ic)
		}
	}
	return out
}

func (f *fakeBotAPI) lastMessage(t *testing.T) tgbotapi.MessageConfig {
	t.Helper()
	msgs := f.messages()
	if len(msgs) == 0 {
		t.Fatal("no message sent")
	}
	return msgs[len(msgs)-1]
}

func (f *fakeBotAPI) lastEdit(t *testing.T) tgbotapi.EditMessageTextConfig {
	t.Helper()
	edits := f.edits()
	if len(edits) == 0 {
		t.Fatal("no message edited")
	}
	return edits[len(edits)-1]
}

type fakeSpotSource struct {
	err error
}

func (f *fakeSpotSource) SpotTicker(ctx context.Context, symbol string) (*model.SpotTicker, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &model.SpotTicker{Venue: model.VenueBybit, Symbol: symbol, LastPrice: "67000.5", High24h: "68000", Low24h: "66000"}, nil
}

type fakeOfferSource struct {
	mu     sync.Mutex
	market model.P2PMarket
	offers []model.P2POffer
	calls  int
}

func (f *fakeOfferSource) Market() model.P2PMarket { return f.market }

func (f *fakeOfferSource) P2POffers(ctx context.Context, side model.Side, amount float64) ([]model.P2POffer, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.offers, nil
}

type fakeReference struct{}

func (fakeReference) TonRubPrice(ctx context.Context) (float64, error) { return 350, nil }

type denyLimiter struct{}

func (denyLimiter) Allow(ctx context.Context, key string, limit int, window time.Duration) (bool, error) {
	return false, nil
}

type testBot struct {
	api    *fakeBotAPI
	bot    *RealTelegramBotAdapter
	spot   *fakeSpotSource
	bybit  *fakeOfferSource
	huobi  *fakeOfferSource
	facade *application.BotFacade
}

func newTestBot(t *testing.T) *testBot {
	t.Helper()
	tr, err := i18n.NewTranslator(i18n.LocalesFS, "en")
	if err != nil {
		t.Fatalf("translator: %v", err)
	}
	logger := zerolog.Nop()

	tb := &testBot{
		api:  &fakeBotAPI{updates: make(chan tgbotapi.Update)},
		spot: &fakeSpotSource{},
		bybit: &fakeOfferSource{market: model.BybitUSDTRUB, offers: []model.P2POffer{
			{Price: "96.50"}, {Price: "97.00"}, {Price: "97.50"},
		}},
		huobi: &fakeOfferSource{market: model.HuobiUSDTCNY, offers: []model.P2POffer{
			{Price: "7.20", PaymentMethods: []string{"Alipay", "WeChat"}},
			{Price: "7.30", PaymentMethods: []string{"Alipay"}},
		}},
	}
	quotes := usecase.NewQuoteUseCase(tb.spot, &logger, tb.bybit, tb.huobi)
	stars := usecase.NewStarsUseCase(fakeReference{}, &logger)
	conv := usecase.NewConversationUseCase(memory.NewStateStore(time.Minute), quotes, stars, &logger)
	tb.facade = application.NewBotFacade(quotes, stars, conv)

	cfg := &config.BotConfig{Workers: 2, SupportURL: "https://t.me/support_test"}
	tb.bot, err = newRealTelegramBotAdapter(tb.api, cfg, tb.facade, tr, memory.NewRateLimiter(), 100, &logger)
	if err != nil {
		t.Fatalf("adapter: %v", err)
	}
	return tb
}

func (tb *testBot) handle(t *testing.T, up tgbotapi.Update) {
	t.Helper()
	if err := tb.bot.handleUpdate(context.Background(), up); err != nil {
		t.Fatalf("handleUpdate: %v", err)
	}
}

func (tb *testBot) step(t *testing.T, userID int64) string {
	t.Helper()
	s, err := tb.facade.ConvUC.Current(context.Background(), userID)
	if err != nil {
		t.Fatalf("Current: %v", err)
	}
	return s.Step
}

func textUpdate(userID int64, text string) tgbotapi.Update {
	msg := &tgbotapi.Message{
		MessageID: 500,
		From:      &tgbotapi.User{ID: userID},
		Chat:      &tgbotapi.Chat{ID: userID},
		Text:      text,
	}
	if strings.HasPrefix(text, "/") {
		cmd := strings.Fields(text)[0]
		msg.Entities = []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: len(cmd)}}
	}
	return tgbotapi.Update{Message: msg}
}

func callbackUpdate(userID int64, messageID int, data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:   "cb-" + data,
		From: &tgbotapi.User{ID: userID},
		Message: &tgbotapi.Message{
			MessageID: messageID,
			Chat:      &tgbotapi.Chat{ID: userID},
		},
		Data: data,
	}}
}

func inlineUpdate(userID int64, query string) tgbotapi.Update {
	return tgbotapi.Update{InlineQuery: &tgbotapi.InlineQuery{
		ID:    "iq-1",
		From:  &tgbotapi.User{ID: userID},
		Query: query,
	}}
}

var errNotModified = errors.New("Bad Request: message is not modified: specified new message content and reply markup are exactly the same")
