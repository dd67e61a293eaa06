package market

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/tidwall/gjson"
)

const yahooChartURL = "https://query1.finance.yahoo.com/v8/finance/chart/%s?range=2d&interval=60m"

// YahooSource is the windowed-history adapter: it requests a short trailing
// window of hourly samples, takes the last sample as the current price and the
// earliest sample from a different calendar day as the change baseline.
type YahooSource struct {
	baseURL  string
	client   *http.Client
	specs    []SymbolSpec
	timeout  time.Duration
	location *time.Location
}

// NewYahooSource builds the adapter. loc decides which calendar day a sample
// belongs to when picking the reference baseline.
func NewYahooSource(client *http.Client, specs []SymbolSpec, timeout time.Duration, loc *time.Location) *YahooSource {
	if loc == nil {
		loc = time.UTC
	}
	return &YahooSource{
		baseURL:  yahooChartURL,
		client:   client,
		specs:    specs,
		timeout:  timeout,
		location: loc,
	}
}

func (y *YahooSource) Name() string           { return "yahoo" }
func (y *YahooSource) Specs() []SymbolSpec    { return y.specs }
func (y *YahooSource) Timeout() time.Duration { return y.timeout }

// SetBaseURL overrides the endpoint pattern, used by tests.
func (y *YahooSource) SetBaseURL(base string) { y.baseURL = base }

func (y *YahooSource) FetchOne(ctx context.Context, spec SymbolSpec) (Quote, error) {
	endpoint := fmt.Sprintf(y.baseURL, url.PathEscape(spec.Code))
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return Quote{}, fmt.Errorf("build request for %s: %w", spec.Code, err)
	}
	req.Header.Set("User-Agent", "dailybrief/1.0")

	resp, err := y.client.Do(req)
	if err != nil {
		return Quote{}, fmt.Errorf("fetch %s: %w", spec.Code, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Quote{}, fmt.Errorf("fetch %s: status %d", spec.Code, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Quote{}, fmt.Errorf("read %s: %w", spec.Code, err)
	}

	price, ref, err := y.parseWindow(body)
	if err != nil {
		return Quote{}, fmt.Errorf("parse %s: %w", spec.Code, err)
	}

	return Quote{
		Symbol:  spec.Code,
		Name:    spec.Name,
		Price:   price,
		PrevRef: ref,
		Format:  spec.Format,
	}, nil
}

// parseWindow extracts (current, reference) from a chart response. The current
// price is the last non-null close; the reference is the earliest non-null
// close from a different calendar day. A window spanning one day only yields
// reference == current, i.e. a flat quote rather than a failure.
func (y *YahooSource) parseWindow(body []byte) (price, ref float64, err error) {
	result := gjson.GetBytes(body, "chart.result.0")
	if !result.Exists() {
		return 0, 0, fmt.Errorf("no chart result in payload")
	}
	timestamps := result.Get("timestamp").Array()
	closes := result.Get("indicators.quote.0.close").Array()
	if len(timestamps) == 0 || len(closes) == 0 || len(timestamps) != len(closes) {
		return 0, 0, fmt.Errorf("window has %d timestamps and %d closes", len(timestamps), len(closes))
	}

	type sample struct {
		at    time.Time
		close float64
	}
	var samples []sample
	for i, c := range closes {
		if c.Type == gjson.Null {
			continue
		}
		samples = append(samples, sample{
			at:    time.Unix(timestamps[i].Int(), 0).In(y.location),
			close: c.Float(),
		})
	}
	if len(samples) == 0 {
		return 0, 0, fmt.Errorf("window contains no usable samples")
	}

	last := samples[len(samples)-1]
	price = last.close
	lastDay := last.at.Format("2006-01-02")

	for _, s := range samples {
		if s.at.Format("2006-01-02") != lastDay {
			return price, s.close, nil
		}
	}
	return price, price, nil
}
