package exchange

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"currency-quote-bot/internal/config"
	"currency-quote-bot/internal/domain/model"
	"currency-quote-bot/internal/domain/ports/adapter"
)

var (
	_ adapter.SpotTickerSource = (*BybitClient)(nil)
	_ adapter.P2POfferSource   = (*BybitClient)(nil)
)

// Bybit P2P payment method ids requested for RUB offers.
var bybitRUBPayments = []string{"382", "581", "75"}

// BybitClient reads spot tickers from the public v5 API and RUB P2P offers
// from the web OTC endpoint.
type BybitClient struct {
	http     *http.Client
	spotURL  string
	p2pURL   string
	market   model.P2PMarket
	payments []string
}

func NewBybitClient(cfg config.ExchangeConfig) *BybitClient {
	spot := cfg.BybitURL
	if spot == "" {
		spot = config.DefaultBybitURL
	}
	p2p := cfg.BybitP2PURL
	if p2p == "" {
		p2p = config.DefaultBybitP2PURL
	}
	return &BybitClient{
		http:     newHTTPClient(cfg.Timeout),
		spotURL:  strings.TrimRight(spot, "/"),
		p2pURL:   strings.TrimRight(p2p, "/"),
		market:   model.BybitUSDTRUB,
		payments: bybitRUBPayments,
	}
}

type bybitTickerResponse struct {
	RetCode int    `json:"retCode"`
	RetMsg  string `json:"retMsg"`
	Result  struct {
		Category string `json:"category"`
		List     []struct {
			Symbol       string `json:"symbol"`
			LastPrice    string `json:"lastPrice"`
			HighPrice24h string `json:"highPrice24h"`
			LowPrice24h  string `json:"lowPrice24h"`
		} `json:"list"`
	} `json:"result"`
}

func (c *BybitClient) SpotTicker(ctx context.Context, symbol string) (*model.SpotTicker, error) {
	q := url.Values{}
	q.Set("category", "spot")
	q.Set("symbol", symbol)

	req, err := newRequest(ctx, http.MethodGet, c.spotURL+"/v5/market/tickers?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}

	var resp bybitTickerResponse
	if err := doJSON(c.http, req, model.VenueBybit, "tickers", &resp); err != nil {
		return nil, err
	}
	if resp.RetCode != 0 {
		return nil, upstreamErr(model.VenueBybit, "tickers", fmt.Errorf("%s (code %d)", resp.RetMsg, resp.RetCode))
	}
	if len(resp.Result.List) == 0 {
		return nil, upstreamErr(model.VenueBybit, "tickers", fmt.Errorf("no ticker for %s", symbol))
	}

	t := resp.Result.List[0]
	if t.Symbol == "" || t.LastPrice == "" || t.HighPrice24h == "" || t.LowPrice24h == "" {
		return nil, upstreamErr(model.VenueBybit, "tickers", fmt.Errorf("incomplete ticker for %s", symbol))
	}
	return &model.SpotTicker{
		Venue:     model.VenueBybit,
		Symbol:    t.Symbol,
		LastPrice: t.LastPrice,
		High24h:   t.HighPrice24h,
		Low24h:    t.LowPrice24h,
	}, nil
}

func (c *BybitClient) Market() model.P2PMarket { return c.market }

type bybitP2PRequest struct {
	UserID             string   `json:"userId"`
	TokenID            string   `json:"tokenId"`
	CurrencyID         string   `json:"currencyId"`
	Payment            []string `json:"payment"`
	Side               string   `json:"side"`
	Size               string   `json:"size"`
	Page               string   `json:"page"`
	Amount             string   `json:"amount"`
	VAMaker            bool     `json:"vaMaker"`
	BulkMaker          bool     `json:"bulkMaker"`
	CanTrade           bool     `json:"canTrade"`
	VerificationFilter int      `json:"verificationFilter"`
	SortType           string   `json:"sortType"`
	PaymentPeriod      []int    `json:"paymentPeriod"`
	ItemRegion         int      `json:"itemRegion"`
}

type bybitP2PResponse struct {
	RetCode int    `json:"ret_code"`
	RetMsg  string `json:"ret_msg"`
	Result  *struct {
		Count int `json:"count"`
		Items []struct {
			Price    flexString `json:"price"`
			Payments []string   `json:"payments"`
		} `json:"items"`
	} `json:"result"`
}

// bybitSide maps the user's direction to the OTC listing side: "1" lists
// sellers for a user who buys.
func bybitSide(side model.Side) string {
	if side == model.SideBuy {
		return "1"
	}
	return "0"
}

func (c *BybitClient) P2POffers(ctx context.Context, side model.Side, amount float64) ([]model.P2POffer, error) {
	payload := bybitP2PRequest{
		TokenID:       c.market.Asset,
		CurrencyID:    c.market.Fiat,
		Payment:       c.payments,
		Side:          bybitSide(side),
		Size:          strconv.Itoa(c.market.PageSize),
		Page:          "1",
		Amount:        strconv.FormatFloat(amount, 'f', -1, 64),
		CanTrade:      true,
		SortType:      "TRADE_PRICE",
		PaymentPeriod: []int{},
		ItemRegion:    1,
	}
	b, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("marshal p2p payload: %w", err)
	}

	req, err := newRequest(ctx, http.MethodPost, c.p2pURL+"/fiat/otc/item/online", bytes.NewReader(b))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json;charset=UTF-8")
	req.Header.Set("User-Agent", browserUserAgent)
	req.Header.Set("Origin", "https://www.bybit.com")
	req.Header.Set("Referer", "https://www.bybit.com/")

	var resp bybitP2PResponse
	if err := doJSON(c.http, req, model.VenueBybit, "p2p", &resp); err != nil {
		return nil, err
	}
	if resp.RetCode != 0 {
		return nil, upstreamErr(model.VenueBybit, "p2p", fmt.Errorf("%s (code %d)", resp.RetMsg, resp.RetCode))
	}
	if resp.Result == nil {
		return nil, nil
	}

	offers := make([]model.P2POffer, 0, len(resp.Result.Items))
	for _, it := range resp.Result.Items {
		offers = append(offers, model.P2POffer{
			Price:          string(it.Price),
			PaymentMethods: it.Payments,
		})
	}
	return offers, nil
}
