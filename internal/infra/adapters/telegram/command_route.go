package telegram

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"currency-quote-bot/internal/infra/logging"
	"currency-quote-bot/internal/infra/metrics"
	"currency-quote-bot/internal/usecase"
)

type commandHandler func(ctx context.Context, message *tgbotapi.Message) error

// commandRoutes defines all available bot commands and their handlers.
func (r *RealTelegramBotAdapter) commandRoutes() map[string]commandHandler {
	return map[string]commandHandler{
		"start": r.handleStartCommand,
		"help":  r.handleHelpCommand,
	}
}

// handleMessage routes commands first; any other text goes to the active
// input flow, or back to the main menu when no flow is active.
func (r *RealTelegramBotAdapter) handleMessage(ctx context.Context, message *tgbotapi.Message) error {
	if message.From == nil || message.Chat == nil {
		return nil
	}

	if message.IsCommand() {
		cmd := strings.ToLower(message.Command())
		fn, ok := r.commands[cmd]
		if !ok {
			return nil
		}
		metrics.IncTelegramCommand("/" + cmd)
		ctx = logging.WithAction(ctx, "/"+cmd)
		if !r.allow(ctx, message.From.ID, cmd) {
			return r.send(ctx, message.Chat.ID, r.present.rateLimited(), "", nil)
		}
		return fn(ctx, message)
	}

	if strings.TrimSpace(message.Text) == "" {
		return nil
	}
	metrics.IncTelegramCommand("text")
	ctx = logging.WithAction(ctx, "text")
	if !r.allow(ctx, message.From.ID, "text") {
		return r.send(ctx, message.Chat.ID, r.present.rateLimited(), "", nil)
	}
	return r.handleText(ctx, message)
}

// handleStartCommand shows the main menu and abandons any active flow.
func (r *RealTelegramBotAdapter) handleStartCommand(ctx context.Context, message *tgbotapi.Message) error {
	if err := r.facade.ReturnToMenu(ctx, message.From.ID); err != nil {
		logging.With(ctx, r.log).Warn().Err(err).Msg("failed to reset conversation")
	}
	return r.send(ctx, message.Chat.ID, r.present.welcome(), "", r.keys.mainMenu())
}

func (r *RealTelegramBotAdapter) handleHelpCommand(ctx context.Context, message *tgbotapi.Message) error {
	return r.send(ctx, message.Chat.ID, r.present.help(), tgbotapi.ModeMarkdown, nil)
}

func (r *RealTelegramBotAdapter) handleText(ctx context.Context, message *tgbotapi.Message) error {
	chatID := message.Chat.ID
	res, err := r.facade.HandleText(ctx, message.From.ID, message.Text)
	if res == nil {
		if err != nil {
			_ = r.send(ctx, chatID, r.present.errorLine(err), "", r.keys.mainMenu())
		}
		return err
	}

	var sendErr error
	switch {
	case res.Outcome == usecase.OutcomeNoFlow:
		sendErr = r.send(ctx, chatID, r.present.welcome(), "", r.keys.mainMenu())
	case res.Session.Step == usecase.StepAwaitingRatio:
		sendErr = r.renderRatio(ctx, chatID, res)
	case res.Session.Step == usecase.StepAwaitingAmount:
		sendErr = r.renderBybitAmount(ctx, chatID, res)
	case res.Session.Step == usecase.StepAwaitingRegionalAmount:
		sendErr = r.renderRegionalAmount(ctx, chatID, res)
	}
	if err != nil {
		return err
	}
	return sendErr
}

func (r *RealTelegramBotAdapter) renderRatio(ctx context.Context, chatID int64, res *usecase.FlowResult) error {
	switch res.Outcome {
	case usecase.OutcomeInvalidInput:
		return r.send(ctx, chatID, r.present.starsInvalid(), "", nil)
	case usecase.OutcomeStarPrice:
		return r.send(ctx, chatID, r.present.starPrice(res.Star), tgbotapi.ModeMarkdown, r.keys.mainMenu())
	default:
		return r.send(ctx, chatID, r.present.errorLine(res.Err), "", r.keys.mainMenu())
	}
}

func (r *RealTelegramBotAdapter) renderBybitAmount(ctx context.Context, chatID int64, res *usecase.FlowResult) error {
	switch res.Outcome {
	case usecase.OutcomeInvalidInput:
		return r.send(ctx, chatID, r.present.bybitInvalid(), "", nil)
	case usecase.OutcomeBelowMinimum:
		return r.send(ctx, chatID, r.present.bybitBelowMinimum(res.Market), "", nil)
	case usecase.OutcomeP2PSummary:
		return r.send(ctx, chatID, r.present.bybitSummary(res.Summary), "", r.keys.bybitMenu())
	case usecase.OutcomeNoOffers:
		return r.send(ctx, chatID, r.present.bybitNoOffers(), "", r.keys.bybitMenu())
	default:
		return r.send(ctx, chatID, r.present.errorLine(res.Err), "", nil)
	}
}

// renderRegionalAmount edits every reply into the menu message the flow was
// started from.
func (r *RealTelegramBotAdapter) renderRegionalAmount(ctx context.Context, chatID int64, res *usecase.FlowResult) error {
	side := res.Session.Side
	var text string
	switch res.Outcome {
	case usecase.OutcomeInvalidInput, usecase.OutcomeBelowMinimum:
		text = r.present.huobiInvalid(side, res.Market)
	case usecase.OutcomeP2PSummary:
		text = r.present.huobiSummary(res.Summary)
	case usecase.OutcomeNoOffers:
		text = r.present.huobiNoOffers(side)
	default:
		text = r.present.huobiError(side, res.Err)
	}
	return r.show(ctx, chatID, res.Session.MenuMessageID, text, "", r.keys.huobiMenu())
}
