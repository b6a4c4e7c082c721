package exchange

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"currency-quote-bot/internal/domain"
	"currency-quote-bot/internal/domain/model"
	"currency-quote-bot/internal/infra/metrics"
)

const (
	defaultTimeout = 10 * time.Second
	maxBodyBytes   = 4 << 20

	// Public web endpoints reject requests without a browser user agent.
	browserUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64; rv:118.0) Gecko/20100101 Firefox/118.0"
)

func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			Proxy:               http.ProxyFromEnvironment,
			MaxIdleConns:        20,
			MaxIdleConnsPerHost: 5,
			IdleConnTimeout:     90 * time.Second,
		},
	}
}

// doJSON executes req, checks the HTTP status and decodes the body into out.
// Every failure wraps domain.ErrUpstream. Latency and outcome are recorded per
// venue and endpoint.
func doJSON(client *http.Client, req *http.Request, venue model.Venue, endpoint string, out any) (err error) {
	start := time.Now()
	defer func() {
		metrics.ObserveUpstream(string(venue), endpoint, time.Since(start), err == nil)
	}()

	if req.Header.Get("Accept") == "" {
		req.Header.Set("Accept", "application/json")
	}

	resp, err := client.Do(req)
	if err != nil {
		return upstreamErr(venue, endpoint, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		return upstreamErr(venue, endpoint, fmt.Errorf("read body: %w", err))
	}
	if resp.StatusCode != http.StatusOK {
		return upstreamErr(venue, endpoint, fmt.Errorf("status %d (%s)%s", resp.StatusCode, http.StatusText(resp.StatusCode), snippet(body)))
	}
	if err := json.Unmarshal(body, out); err != nil {
		return upstreamErr(venue, endpoint, fmt.Errorf("decode response: %w", err))
	}
	return nil
}

func newRequest(ctx context.Context, method, url string, body io.Reader) (*http.Request, error) {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	return req, nil
}

func upstreamErr(venue model.Venue, endpoint string, err error) error {
	return fmt.Errorf("%s %s: %w: %w", venue, endpoint, domain.ErrUpstream, err)
}

func snippet(body []byte) string {
	s := strings.TrimSpace(string(body))
	if s == "" {
		return ""
	}
	if len(s) > 200 {
		s = s[:200] + "..."
	}
	return ": " + s
}

// flexString decodes a JSON string or number into its textual form.
type flexString string

func (f *flexString) UnmarshalJSON(b []byte) error {
	s := strings.TrimSpace(string(b))
	if s == "null" {
		*f = ""
		return nil
	}
	if strings.HasPrefix(s, `"`) {
		var str string
		if err := json.Unmarshal(b, &str); err != nil {
			return err
		}
		s = str
	}
	*f = flexString(strings.TrimSpace(s))
	return nil
}
