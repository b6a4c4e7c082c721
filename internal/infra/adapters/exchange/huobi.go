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

var _ adapter.P2POfferSource = (*HuobiClient)(nil)

// HTX identifiers for USDT and CNY on the OTC market.
const (
	huobiCoinUSDT    = "2"
	huobiCurrencyCNY = "172"
)

// HuobiClient reads CNY P2P offers from the HTX web OTC endpoint.
type HuobiClient struct {
	http    *http.Client
	baseURL string
	market  model.P2PMarket
}

func NewHuobiClient(cfg config.ExchangeConfig) *HuobiClient {
	base := cfg.HuobiURL
	if base == "" {
		base = config.DefaultHuobiURL
	}
	return &HuobiClient{
		http:    newHTTPClient(cfg.Timeout),
		baseURL: strings.TrimRight(base, "/"),
		market:  model.HuobiUSDTCNY,
	}
}

func (c *HuobiClient) Market() model.P2PMarket { return c.market }

type huobiTradeMarketResponse struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
	Data    []struct {
		Price      flexString `json:"price"`
		PayMethods []struct {
			Name string `json:"name"`
		} `json:"payMethods"`
	} `json:"data"`
}

func (c *HuobiClient) P2POffers(ctx context.Context, side model.Side, amount float64) ([]model.P2POffer, error) {
	q := url.Values{}
	q.Set("coinId", huobiCoinUSDT)
	q.Set("currency", huobiCurrencyCNY)
	q.Set("tradeType", string(side))
	q.Set("currPage", "1")
	q.Set("payMethod", "0")
	q.Set("acceptOrder", "0")
	q.Set("country", "")
	q.Set("blockType", "general")
	q.Set("online", "1")
	q.Set("range", "0")
	q.Set("amount", strconv.FormatFloat(amount, 'f', -1, 64))
	q.Set("isThumbsUp", "false")
	q.Set("isMerchant", "false")
	q.Set("isTraded", "false")
	q.Set("onlyTradable", "false")
	q.Set("isFollowed", "false")
	q.Set("makerCompleteRate", "0")

	req, err := newRequest(ctx, http.MethodGet, c.baseURL+"/-/x/otc/v1/data/trade-market?"+q.Encode(), nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", browserUserAgent)

	var resp huobiTradeMarketResponse
	if err := doJSON(c.http, req, model.VenueHuobi, "trade-market", &resp); err != nil {
		return nil, err
	}
	if resp.Code != 200 {
		return nil, upstreamErr(model.VenueHuobi, "trade-market", fmt.Errorf("api error: %s", resp.Message))
	}

	offers := make([]model.P2POffer, 0, len(resp.Data))
	for _, d := range resp.Data {
		methods := make([]string, 0, len(d.PayMethods))
		for _, m := range d.PayMethods {
			methods = append(methods, m.Name)
		}
		offers = append(offers, model.P2POffer{Price: string(d.Price), PaymentMethods: methods})
	}
	return offers, nil
}
