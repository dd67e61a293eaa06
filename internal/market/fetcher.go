package market

import (
	"context"
	"net/http"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

// Fetcher runs every configured (source, symbol) call concurrently, each with
// its own timeout, and merges the successes in declaration order. A failed call
// is logged and skipped; it never cancels sibling calls or fails the batch.
type Fetcher struct {
	sources []Source
}

// NewFetcher creates a fetcher over the declared sources. Source and symbol
// declaration order fixes the output order for the whole cycle.
func NewFetcher(sources ...Source) *Fetcher {
	return &Fetcher{sources: sources}
}

type fetchUnit struct {
	source Source
	spec   SymbolSpec
}

// FetchAll fetches all symbols from all sources. The result preserves the
// declared order independent of completion order: each unit writes only its own
// pre-allocated slot, and slots are merged after every call has finished or
// timed out.
func (f *Fetcher) FetchAll(ctx context.Context) []Quote {
	var units []fetchUnit
	for _, src := range f.sources {
		for _, spec := range src.Specs() {
			units = append(units, fetchUnit{source: src, spec: spec})
		}
	}

	type slot struct {
		quote Quote
		ok    bool
	}
	slots := make([]slot, len(units))

	g := new(errgroup.Group)
	for i, u := range units {
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(ctx, u.source.Timeout())
			defer cancel()

			q, err := u.source.FetchOne(callCtx, u.spec)
			if err != nil {
				log.Warnf("Quote fetch failed (%s/%s): %v", u.source.Name(), u.spec.Code, err)
				return nil
			}
			slots[i] = slot{quote: q, ok: true}
			return nil
		})
	}
	// Units only ever return nil; Wait is a join point, not an error path.
	_ = g.Wait()

	quotes := make([]Quote, 0, len(units))
	for _, s := range slots {
		if s.ok {
			quotes = append(quotes, s.quote)
		}
	}
	log.Infof("Fetched %d/%d quotes", len(quotes), len(units))
	return quotes
}

// DefaultSources builds the production source set: the Sina snapshot feed for
// domestic tickers and the Yahoo history window for global ones. The gold ETF
// trades in 0.01 yuan/gram units, hence the ×100 display factor.
func DefaultSources(client *http.Client, loc *time.Location) ([]Source, error) {
	sina, err := NewSinaSource(client, []SymbolSpec{
		{Code: "sh000001", Name: "🇨🇳 上证指数"},
		{Code: "sz399006", Name: "🇨🇳 创业板指"},
		{Code: "sh518880", Name: "🟡 黄金价格(CNY)", Format: func(p float64) string {
			return formatFloat(p*100, 2) + " 元/克"
		}},
	}, 10*time.Second)
	if err != nil {
		return nil, err
	}

	yahoo := NewYahooSource(client, []SymbolSpec{
		{Code: "CNY=X", Name: "💱 美元/人民币", Format: func(p float64) string {
			return formatFloat(p, 4)
		}},
		{Code: "BTC-USD", Name: "🪙 比特币", Format: func(p float64) string {
			return "$ " + groupThousands(formatFloat(p, 2))
		}},
		{Code: "^TNX", Name: "🇺🇸 10年美债", Format: func(p float64) string {
			return formatFloat(p, 3) + "%"
		}},
	}, 15*time.Second, loc)

	return []Source{sina, yahoo}, nil
}
