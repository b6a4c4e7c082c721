// File: internal/domain/ports/adapter/telegram.go
package adapter

import "context"

type Button struct {
	Text string
	Data string
	URL  string
}

type ReplyMarkup struct {
	Buttons  [][]Button
	IsInline bool
}

type SendMessageParams struct {
	ChatID      int64
	Text        string
	ParseMode   string
	ReplyMarkup *ReplyMarkup
}

type EditMessageParams struct {
	ChatID      int64
	MessageID   int
	Text        string
	ParseMode   string
	ReplyMarkup *ReplyMarkup
}

// InlineArticle is a single result of an inline query answer.
type InlineArticle struct {
	ID          string
	Title       string
	Description string
	Text        string
	ParseMode   string
}

type TelegramBotAdapter interface {
	SendMessage(ctx context.Context, params SendMessageParams) error
	EditMessage(ctx context.Context, params EditMessageParams) error
	AnswerInline(ctx context.Context, queryID string, cacheTime int, articles ...InlineArticle) error
}
