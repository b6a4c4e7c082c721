package exchange

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"currency-quote-bot/internal/config"
	"currency-quote-bot/internal/domain/model"
	"currency-quote-bot/internal/domain/ports/adapter"
)

var _ adapter.ReferencePriceSource = (*BinanceClient)(nil)

// BinanceClient derives TON/RUB from the TONUSDT and USDTRUB spot prices.
type BinanceClient struct {
	http    *http.Client
	baseURL string
}

func NewBinanceClient(cfg config.ExchangeConfig) *BinanceClient {
	base := cfg.BinanceURL
	if base == "" {
		base = config.DefaultBinanceURL
	}
	return &BinanceClient{
		http:    newHTTPClient(cfg.Timeout),
		baseURL: strings.TrimRight(base, "/"),
	}
}

type binancePriceResponse struct {
	Symbol string     `json:"symbol"`
	Price  flexString `json:"price"`
}

// TickerPrice returns the last price of symbol.
func (c *BinanceClient) TickerPrice(ctx context.Context, symbol string) (float64, error) {
	q := url.Values{}
	q.Set("symbol", symbol)
	req, err := newRequest(ctx, http.MethodGet, c.baseURL+"/api/v3/ticker/price?"+q.Encode(), nil)
	if err != nil {
		return 0, err
	}

	var resp binancePriceResponse
	if err := doJSON(c.http, req, model.VenueBinance, "ticker_price", &resp); err != nil {
		return 0, err
	}
	if resp.Price == "" {
		return 0, upstreamErr(model.VenueBinance, "ticker_price", fmt.Errorf("no price for %s", symbol))
	}
	p, err := strconv.ParseFloat(string(resp.Price), 64)
	if err != nil || p <= 0 {
		return 0, upstreamErr(model.VenueBinance, "ticker_price", fmt.Errorf("bad price %q for %s", resp.Price, symbol))
	}
	return p, nil
}

func (c *BinanceClient) TonRubPrice(ctx context.Context) (float64, error) {
	tonUSDT, err := c.TickerPrice(ctx, "TONUSDT")
	if err != nil {
		return 0, err
	}
	usdtRUB, err := c.TickerPrice(ctx, "USDTRUB")
	if err != nil {
		return 0, err
	}
	return tonUSDT * usdtRUB, nil
}
