package telegram

import (
	"math"
	"strings"

	"currency-quote-bot/internal/domain/model"
	"currency-quote-bot/internal/infra/i18n"

	"github.com/leekchan/accounting"
)

var spotEmoji = map[string]string{
	"BTCUSDT": "🟠",
	"ETHUSDT": "🟣",
}

// presenter renders domain values into chat texts. It never does I/O.
type presenter struct {
	tr     *i18n.Translator
	money  accounting.Accounting
	amount accounting.Accounting
}

func newPresenter(tr *i18n.Translator) *presenter {
	return &presenter{
		tr:     tr,
		money:  accounting.Accounting{Symbol: "", Precision: 2, Thousand: ",", Decimal: "."},
		amount: accounting.Accounting{Symbol: "", Precision: 0, Thousand: ",", Decimal: "."},
	}
}

func (p *presenter) price(v float64) string { return p.money.FormatMoneyFloat64(v) }

// signed formats the magnitude and prefixes a minus for negative values.
func (p *presenter) signed(v float64) string {
	s := p.money.FormatMoneyFloat64(math.Abs(v))
	if v < 0 {
		return "-" + s
	}
	return s
}

func (p *presenter) minAmount(m model.P2PMarket) string {
	return p.amount.FormatMoneyFloat64(m.MinAmount)
}

func (p *presenter) welcome() string { return p.tr.T("welcome_message") }

func (p *presenter) help() string { return p.tr.T("help_message") }

func (p *presenter) bybitMenu() string { return p.tr.T("bybit_menu") }

func (p *presenter) huobiMenu(m model.P2PMarket) string {
	return p.tr.T("huobi_menu", m.Window, m.Window)
}

func (p *presenter) spotTicker(t *model.SpotTicker) string {
	emoji, ok := spotEmoji[t.Symbol]
	if !ok {
		emoji = "💱"
	}
	return p.tr.T("spot_ticker", emoji, t.Symbol, t.LastPrice, t.High24h, t.Low24h)
}

func (p *presenter) starsPrompt() string { return p.tr.T("stars_prompt") }

func (p *presenter) starsInvalid() string { return p.tr.T("stars_invalid_ratio") }

func (p *presenter) starPrice(s *model.StarPrice) string {
	return p.tr.T("stars_result",
		p.price(s.UnitPrice),
		p.price(s.TonRubPrice),
		p.price(s.TotalPrice),
		p.price(model.BaselineStarPrice),
		p.signed(s.Difference),
	)
}

func (p *presenter) sideLabel(side model.Side) string {
	if side == model.SideBuy {
		return p.tr.T("side_buy")
	}
	return p.tr.T("side_sell")
}

func (p *presenter) sideVerb(side model.Side) string {
	if side == model.SideBuy {
		return p.tr.T("side_buy_verb")
	}
	return p.tr.T("side_sell_verb")
}

func (p *presenter) bybitAmountPrompt(side model.Side, m model.P2PMarket) string {
	return p.tr.T("bybit_amount_prompt", p.sideVerb(side), p.minAmount(m))
}

func (p *presenter) bybitBelowMinimum(m model.P2PMarket) string {
	return p.tr.T("bybit_below_minimum", p.minAmount(m))
}

func (p *presenter) bybitInvalid() string { return p.tr.T("bybit_invalid_amount") }

func (p *presenter) bybitSummary(s *model.P2PSummary) string {
	return p.tr.T("bybit_p2p_result",
		p.sideLabel(s.Side),
		p.price(s.MaxPrice),
		p.price(s.MinPrice),
		p.price(s.AvgPrice),
	)
}

func (p *presenter) bybitNoOffers() string { return p.tr.T("bybit_no_offers") }

func (p *presenter) huobiAmountPrompt(side model.Side, m model.P2PMarket) string {
	label := p.sideLabel(side)
	return p.tr.T("huobi_amount_prompt", label, label, p.minAmount(m))
}

func (p *presenter) huobiInvalid(side model.Side, m model.P2PMarket) string {
	return p.tr.T("huobi_invalid_amount", p.sideLabel(side), p.minAmount(m))
}

var tallyEmoji = map[string]string{
	"Alipay": "🔵",
	"WeChat": "🟢",
}

func (p *presenter) huobiSummary(s *model.P2PSummary) string {
	var b strings.Builder
	b.WriteString(p.tr.T("huobi_p2p_result",
		p.sideLabel(s.Side),
		p.price(s.MinPrice),
		p.price(s.MaxPrice),
		p.price(s.AvgPrice),
	))
	// tally lines follow the market order so the text is stable
	for _, method := range s.Market.Tally {
		emoji, ok := tallyEmoji[method]
		if !ok {
			emoji = "•"
		}
		b.WriteString("\n")
		b.WriteString(p.tr.T("huobi_tally_line", emoji, method, s.PaymentMethodCounts[method], s.Market.Window))
	}
	return b.String()
}

func (p *presenter) huobiNoOffers(side model.Side) string {
	return p.tr.T("huobi_no_offers", p.sideLabel(side))
}

func (p *presenter) huobiError(side model.Side, err error) string {
	return p.tr.T("huobi_error", p.sideLabel(side), err.Error())
}

func (p *presenter) errorLine(err error) string { return p.tr.T("error_line", err.Error()) }

func (p *presenter) rateLimited() string { return p.tr.T("error_rate_limited") }
