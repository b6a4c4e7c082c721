package telegram

import (
	"currency-quote-bot/internal/domain/ports/adapter"
	"currency-quote-bot/internal/infra/i18n"
)

// Callback data sent by the inline buttons.
const (
	cbBack        = "back"
	cbBybit       = "bybit"
	cbHuobi       = "huobi"
	cbStars       = "stars"
	cbBTCUSDT     = "btcusdt"
	cbETHUSDT     = "ethusdt"
	cbUSDTRUBBuy  = "usdtbuyrub"
	cbUSDTRUBSell = "usdtrubsell"
	cbUSDTCNYBuy  = "usdtcnybuy"
	cbUSDTCNYSell = "usdtcnysell"
)

// keyButton is a button whose label is a translation key. Support buttons
// open the configured support URL instead of sending callback data.
type keyButton struct {
	Key     string
	Data    string
	Support bool
}

type layout [][]keyButton

var (
	mainMenuLayout = layout{
		{{Key: "button_bybit", Data: cbBybit}, {Key: "button_huobi", Data: cbHuobi}},
		{{Key: "button_support", Support: true}},
		{{Key: "button_stars", Data: cbStars}},
	}

	bybitMenuLayout = layout{
		{{Key: "button_btcusdt", Data: cbBTCUSDT}, {Key: "button_ethusdt", Data: cbETHUSDT}},
		{{Key: "button_usdtrub_buy", Data: cbUSDTRUBBuy}, {Key: "button_usdtrub_sell", Data: cbUSDTRUBSell}},
		{{Key: "button_back", Data: cbBack}},
	}

	huobiMenuLayout = layout{
		{{Key: "button_usdtcny_buy", Data: cbUSDTCNYBuy}, {Key: "button_usdtcny_sell", Data: cbUSDTCNYSell}},
		{{Key: "button_back", Data: cbBack}},
	}

	starsPromptLayout = layout{
		{{Key: "button_prompt_back", Data: cbBack}},
	}

	// the Bybit amount prompt steps back to the Bybit menu, not the main one
	bybitPromptLayout = layout{
		{{Key: "button_prompt_back", Data: cbBybit}},
	}
)

type keyboards struct {
	tr         *i18n.Translator
	supportURL string
}

func (k keyboards) render(l layout) *adapter.ReplyMarkup {
	rows := make([][]adapter.Button, 0, len(l))
	for _, row := range l {
		out := make([]adapter.Button, 0, len(row))
		for _, b := range row {
			btn := adapter.Button{Text: k.tr.T(b.Key)}
			if b.Support {
				btn.URL = k.supportURL
			} else {
				btn.Data = b.Data
			}
			out = append(out, btn)
		}
		rows = append(rows, out)
	}
	return &adapter.ReplyMarkup{Buttons: rows, IsInline: true}
}

func (k keyboards) mainMenu() *adapter.ReplyMarkup    { return k.render(mainMenuLayout) }
func (k keyboards) bybitMenu() *adapter.ReplyMarkup   { return k.render(bybitMenuLayout) }
func (k keyboards) huobiMenu() *adapter.ReplyMarkup   { return k.render(huobiMenuLayout) }
func (k keyboards) starsPrompt() *adapter.ReplyMarkup { return k.render(starsPromptLayout) }
func (k keyboards) bybitPrompt() *adapter.ReplyMarkup { return k.render(bybitPromptLayout) }
