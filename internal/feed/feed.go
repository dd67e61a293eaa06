/*
Package feed aggregates news headline candidates from syndicated feeds. Its job
is recall, not precision: each source contributes a generous slice of candidates
and the final selection is left to the generative backend.
*/
package feed

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/mmcdole/gofeed"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"
)

const summaryMaxRunes = 200

// Item is one headline candidate. Rank is the item's order within its source.
type Item struct {
	Source   string
	Headline string
	Summary  string
	Rank     int
}

// Line renders the candidate for the digest news pool.
func (it Item) Line() string {
	return fmt.Sprintf("【%s】%s", it.Source, it.Headline)
}

// Source is the static configuration of one syndication feed. Limit caps how
// many candidates the source contributes per cycle.
type Source struct {
	Name  string
	URL   string
	Limit int
}

// Aggregator fetches all configured feeds concurrently with a shared per-feed
// timeout. Failed or empty feeds contribute nothing and never fail the cycle.
type Aggregator struct {
	sources []Source
	client  *http.Client
	timeout time.Duration
}

// NewAggregator creates an aggregator over the declared sources. Declaration
// order fixes the candidate pool order.
func NewAggregator(client *http.Client, sources []Source, timeout time.Duration) *Aggregator {
	return &Aggregator{sources: sources, client: client, timeout: timeout}
}

// FetchAll fetches every feed concurrently and concatenates the candidates in
// source declaration order, preserving per-source item order. Each feed writes
// only its own result slot, so completion order cannot leak into pool order.
func (a *Aggregator) FetchAll(ctx context.Context) []Item {
	slots := make([][]Item, len(a.sources))

	g := new(errgroup.Group)
	for i, src := range a.sources {
		g.Go(func() error {
			callCtx, cancel := context.WithTimeout(ctx, a.timeout)
			defer cancel()

			items, err := a.fetchFeed(callCtx, src)
			if err != nil {
				log.Warnf("Feed fetch failed (%s): %v", src.Name, err)
				return nil
			}
			slots[i] = items
			return nil
		})
	}
	_ = g.Wait()

	var pool []Item
	for _, items := range slots {
		pool = append(pool, items...)
	}
	log.Infof("Collected %d news candidates from %d feeds", len(pool), len(a.sources))
	return pool
}

func (a *Aggregator) fetchFeed(ctx context.Context, src Source) ([]Item, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src.URL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch feed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("fetch feed: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read feed: %w", err)
	}

	parsed, err := gofeed.NewParser().ParseString(string(body))
	if err != nil {
		return nil, fmt.Errorf("parse feed: %w", err)
	}

	limit := src.Limit
	if limit <= 0 || limit > len(parsed.Items) {
		limit = len(parsed.Items)
	}

	items := make([]Item, 0, limit)
	for i, entry := range parsed.Items[:limit] {
		items = append(items, Item{
			Source:   src.Name,
			Headline: stripMarkup(entry.Title),
			Summary:  capRunes(stripMarkup(entry.Description), summaryMaxRunes),
			Rank:     i,
		})
	}
	return items, nil
}

// stripMarkup removes embedded HTML from feed text before it enters the pool.
func stripMarkup(s string) string {
	if !strings.ContainsAny(s, "<&") {
		return strings.TrimSpace(s)
	}
	doc, err := goquery.NewDocumentFromReader(strings.NewReader("<body>" + s + "</body>"))
	if err != nil {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(doc.Text())
}

func capRunes(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	return string(runes[:max])
}

// DefaultSources lists the production feeds with their candidate counts.
func DefaultSources() []Source {
	return []Source{
		{Name: "新浪财经", URL: "http://rss.sina.com.cn/roll/finance/hot_roll.xml", Limit: 6},
		{Name: "联合早报", URL: "https://www.zaobao.com.sg/rss/finance.xml", Limit: 3},
		{Name: "Yahoo", URL: "https://finance.yahoo.com/news/rssindex", Limit: 3},
	}
}
