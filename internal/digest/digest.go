/*
Package digest assembles the normalized quotes, the news candidate pool and the
optional knowledge text into the immutable snapshot handed to the generative
backend.
*/
package digest

import (
	"strings"

	"github.com/zhuwx/dailybrief/internal/feed"
	"github.com/zhuwx/dailybrief/internal/market"
)

// noNewsMarker makes a news-less cycle explicit to downstream consumers.
const noNewsMarker = "（今日无新闻数据）"

// Digest is one cycle's snapshot. It has no identity beyond the cycle and is
// never mutated after Build.
type Digest struct {
	Date      string
	Quotes    []market.Quote
	News      []feed.Item
	Knowledge string
}

// Build is pure assembly: ordering and joining only, no business logic.
func Build(date string, quotes []market.Quote, news []feed.Item, knowledge string) *Digest {
	return &Digest{
		Date:      date,
		Quotes:    quotes,
		News:      news,
		Knowledge: knowledge,
	}
}

// MarketTable renders the quote table, with an explicit placeholder row when
// every quote source failed.
func (d *Digest) MarketTable() string {
	return market.MarketTable(d.Quotes)
}

// NewsBlock renders the candidate pool one line per item, in pool order, with
// an explicit marker when the pool is empty.
func (d *Digest) NewsBlock() string {
	if len(d.News) == 0 {
		return noNewsMarker
	}
	lines := make([]string, 0, len(d.News))
	for _, item := range d.News {
		lines = append(lines, item.Line())
	}
	return strings.Join(lines, "\n")
}
