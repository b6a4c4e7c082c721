package telegram

import (
	"context"
	"errors"
	"fmt"
	"runtime/debug"
	"strings"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"currency-quote-bot/internal/application"
	"currency-quote-bot/internal/config"
	"currency-quote-bot/internal/domain/ports/adapter"
	"currency-quote-bot/internal/infra/i18n"
	"currency-quote-bot/internal/infra/logging"
	"currency-quote-bot/internal/infra/metrics"
	"currency-quote-bot/internal/infra/worker"
)

var _ adapter.TelegramBotAdapter = (*RealTelegramBotAdapter)(nil)

// botAPI is the subset of *tgbotapi.BotAPI the adapter uses.
type botAPI interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// RealTelegramBotAdapter uses tgbotapi to poll updates and delegates to BotFacade.
type RealTelegramBotAdapter struct {
	bot        botAPI
	facade     *application.BotFacade
	translator *i18n.Translator
	present    *presenter
	keys       keyboards
	limiter    adapter.RateLimiter
	perMinute  int
	log        *zerolog.Logger

	commands  map[string]commandHandler
	callbacks map[string]cbHandler

	updateWorkers int
	cancelPolling context.CancelFunc
}

func NewRealTelegramBotAdapter(
	cfg *config.BotConfig,
	facade *application.BotFacade,
	translator *i18n.Translator,
	limiter adapter.RateLimiter,
	perMinute int,
	logger *zerolog.Logger,
) (*RealTelegramBotAdapter, error) {
	if cfg == nil {
		return nil, errors.New("bot config is nil")
	}
	bot, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, err
	}
	return newRealTelegramBotAdapter(bot, cfg, facade, translator, limiter, perMinute, logger)
}

func newRealTelegramBotAdapter(
	bot botAPI,
	cfg *config.BotConfig,
	facade *application.BotFacade,
	translator *i18n.Translator,
	limiter adapter.RateLimiter,
	perMinute int,
	logger *zerolog.Logger,
) (*RealTelegramBotAdapter, error) {
	if facade == nil {
		return nil, errors.New("bot facade is nil")
	}
	if translator == nil {
		return nil, errors.New("translator is nil")
	}
	if logger == nil {
		nop := zerolog.Nop()
		logger = &nop
	}
	workers := cfg.Workers
	if workers <= 0 {
		workers = 4
	}
	supportURL := cfg.SupportURL
	if supportURL == "" {
		supportURL = config.DefaultSupportURL
	}

	r := &RealTelegramBotAdapter{
		bot:           bot,
		facade:        facade,
		translator:    translator,
		present:       newPresenter(translator),
		keys:          keyboards{tr: translator, supportURL: supportURL},
		limiter:       limiter,
		perMinute:     perMinute,
		log:           logger,
		updateWorkers: workers,
	}
	r.commands = r.commandRoutes()
	r.callbacks = r.cbRoutes()
	return r, nil
}

// Prepare registers the command menu and drops any webhook together with the
// updates queued while the bot was offline.
func (r *RealTelegramBotAdapter) Prepare(ctx context.Context) error {
	cmds := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: "start", Description: r.translator.T("command_start_description")},
		tgbotapi.BotCommand{Command: "help", Description: r.translator.T("command_help_description")},
	)
	if _, err := r.bot.Request(cmds); err != nil {
		return fmt.Errorf("set commands: %w", err)
	}
	if _, err := r.bot.Request(tgbotapi.DeleteWebhookConfig{DropPendingUpdates: true}); err != nil {
		return fmt.Errorf("delete webhook: %w", err)
	}
	return nil
}

// StartPolling blocks until ctx is cancelled. Updates are sharded by user so
// one user's actions are handled in order while different users run in
// parallel.
func (r *RealTelegramBotAdapter) StartPolling(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates := r.bot.GetUpdatesChan(u)

	ctx, cancel := context.WithCancel(ctx)
	r.cancelPolling = cancel

	pool := worker.NewPool(r.updateWorkers, 64)
	pool.Start(ctx)
	defer func() {
		r.bot.StopReceivingUpdates()
		pool.Stop()
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case up, ok := <-updates:
			if !ok {
				return nil
			}
			task := func(ctx context.Context, id int) { r.dispatch(ctx, id, up) }
			if err := pool.Submit(ctx, updateUserID(up), task); err != nil {
				return err
			}
		}
	}
}

func (r *RealTelegramBotAdapter) StopPolling() {
	if r.cancelPolling != nil {
		r.cancelPolling()
	}
}

func updateUserID(up tgbotapi.Update) int64 {
	switch {
	case up.Message != nil && up.Message.From != nil:
		return up.Message.From.ID
	case up.CallbackQuery != nil && up.CallbackQuery.From != nil:
		return up.CallbackQuery.From.ID
	case up.InlineQuery != nil && up.InlineQuery.From != nil:
		return up.InlineQuery.From.ID
	}
	return 0
}

// dispatch handles one update and never lets a handler failure escape.
func (r *RealTelegramBotAdapter) dispatch(ctx context.Context, worker int, up tgbotapi.Update) {
	ctx = logging.WithTraceID(ctx, uuid.NewString())
	if id := updateUserID(up); id != 0 {
		ctx = logging.WithTgID(ctx, id)
	}
	log := logging.With(ctx, r.log)

	defer func() {
		if rec := recover(); rec != nil {
			metrics.IncHandlerError("panic")
			log.Error().Interface("panic", rec).Bytes("stack", debug.Stack()).Int("worker", worker).Msg("update handler panicked")
		}
	}()

	done := logging.TraceDuration(log, "handle_update")
	defer done()

	if err := r.handleUpdate(ctx, up); err != nil {
		metrics.IncHandlerError("handler")
		log.Error().Err(err).Int("worker", worker).Msg("update handler failed")
	}
}

func (r *RealTelegramBotAdapter) handleUpdate(ctx context.Context, up tgbotapi.Update) error {
	switch {
	case up.CallbackQuery != nil:
		return r.handleQuery(ctx, up.CallbackQuery)
	case up.InlineQuery != nil:
		return r.handleInlineQuery(ctx, up.InlineQuery)
	case up.Message != nil:
		return r.handleMessage(ctx, up.Message)
	}
	return nil
}

// allow applies the per-user, per-action limit. Limiter failures let the
// request through.
func (r *RealTelegramBotAdapter) allow(ctx context.Context, userID int64, action string) bool {
	if r.limiter == nil || r.perMinute <= 0 {
		return true
	}
	ok, err := r.limiter.Allow(ctx, adapter.UserCommandKey(userID, action), r.perMinute, time.Minute)
	if err != nil {
		logging.With(ctx, r.log).Warn().Err(err).Msg("rate limiter unavailable")
		return true
	}
	if !ok {
		metrics.IncRateLimitTriggered()
	}
	return ok
}

func (r *RealTelegramBotAdapter) SendMessage(ctx context.Context, params adapter.SendMessageParams) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	msg := tgbotapi.NewMessage(params.ChatID, params.Text)
	msg.ParseMode = params.ParseMode
	if params.ReplyMarkup != nil {
		if params.ReplyMarkup.IsInline {
			msg.ReplyMarkup = toInlineMarkup(params.ReplyMarkup)
		} else {
			msg.ReplyMarkup = toReplyKeyboard(params.ReplyMarkup)
		}
	}
	_, err := r.bot.Send(msg)
	return err
}

// EditMessage replaces text and inline keyboard of a sent message. Editing to
// identical content is not an error.
func (r *RealTelegramBotAdapter) EditMessage(ctx context.Context, params adapter.EditMessageParams) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	var edit tgbotapi.EditMessageTextConfig
	if params.ReplyMarkup != nil {
		edit = tgbotapi.NewEditMessageTextAndMarkup(params.ChatID, params.MessageID, params.Text, toInlineMarkup(params.ReplyMarkup))
	} else {
		edit = tgbotapi.NewEditMessageText(params.ChatID, params.MessageID, params.Text)
	}
	edit.ParseMode = params.ParseMode

	if _, err := r.bot.Request(edit); err != nil && !isNotModified(err) {
		return err
	}
	return nil
}

func (r *RealTelegramBotAdapter) AnswerInline(ctx context.Context, queryID string, cacheTime int, articles ...adapter.InlineArticle) error {
	results := make([]interface{}, 0, len(articles))
	for _, a := range articles {
		var art tgbotapi.InlineQueryResultArticle
		if a.ParseMode == tgbotapi.ModeMarkdown {
			art = tgbotapi.NewInlineQueryResultArticleMarkdown(a.ID, a.Title, a.Text)
		} else {
			art = tgbotapi.NewInlineQueryResultArticle(a.ID, a.Title, a.Text)
		}
		art.Description = a.Description
		results = append(results, art)
	}
	_, err := r.bot.Request(tgbotapi.InlineConfig{
		InlineQueryID: queryID,
		Results:       results,
		CacheTime:     cacheTime,
	})
	return err
}

// show edits messageID in place, or sends a new message when there is no
// message to edit.
func (r *RealTelegramBotAdapter) show(ctx context.Context, chatID int64, messageID int, text, parseMode string, markup *adapter.ReplyMarkup) error {
	if messageID == 0 {
		return r.SendMessage(ctx, adapter.SendMessageParams{ChatID: chatID, Text: text, ParseMode: parseMode, ReplyMarkup: markup})
	}
	return r.EditMessage(ctx, adapter.EditMessageParams{ChatID: chatID, MessageID: messageID, Text: text, ParseMode: parseMode, ReplyMarkup: markup})
}

func (r *RealTelegramBotAdapter) send(ctx context.Context, chatID int64, text, parseMode string, markup *adapter.ReplyMarkup) error {
	return r.SendMessage(ctx, adapter.SendMessageParams{ChatID: chatID, Text: text, ParseMode: parseMode, ReplyMarkup: markup})
}

func isNotModified(err error) bool {
	return err != nil && strings.Contains(err.Error(), "message is not modified")
}

func toInlineMarkup(m *adapter.ReplyMarkup) tgbotapi.InlineKeyboardMarkup {
	rows := make([][]tgbotapi.InlineKeyboardButton, 0, len(m.Buttons))
	for _, row := range m.Buttons {
		if len(row) == 0 {
			continue
		}
		out := make([]tgbotapi.InlineKeyboardButton, 0, len(row))
		for _, btn := range row {
			label := strings.TrimSpace(btn.Text)
			if label == "" {
				label = "•"
			}
			switch {
			case btn.URL != "":
				out = append(out, tgbotapi.NewInlineKeyboardButtonURL(label, btn.URL))
			case btn.Data != "":
				out = append(out, tgbotapi.NewInlineKeyboardButtonData(label, btn.Data))
			default:
				out = append(out, tgbotapi.NewInlineKeyboardButtonData(label, label))
			}
		}
		rows = append(rows, out)
	}
	return tgbotapi.NewInlineKeyboardMarkup(rows...)
}

func toReplyKeyboard(m *adapter.ReplyMarkup) tgbotapi.ReplyKeyboardMarkup {
	rows := make([][]tgbotapi.KeyboardButton, 0, len(m.Buttons))
	for _, row := range m.Buttons {
		out := make([]tgbotapi.KeyboardButton, 0, len(row))
		for _, btn := range row {
			out = append(out, tgbotapi.NewKeyboardButton(btn.Text))
		}
		rows = append(rows, out)
	}
	kb := tgbotapi.NewReplyKeyboard(rows...)
	kb.ResizeKeyboard = true
	return kb
}
