package digest

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zhuwx/dailybrief/internal/feed"
	"github.com/zhuwx/dailybrief/internal/market"
)

func TestBuild_IsPureAssembly(t *testing.T) {
	quotes := []market.Quote{{Symbol: "sh000001", Name: "🇨🇳 上证指数", Price: 3030, PrevRef: 3000}}
	news := []feed.Item{{Source: "新浪财经", Headline: "headline"}}

	d := Build("2026-08-29", quotes, news, "corpus")
	require.Equal(t, "2026-08-29", d.Date)
	require.Equal(t, quotes, d.Quotes)
	require.Equal(t, news, d.News)
	require.Equal(t, "corpus", d.Knowledge)
}

func TestDigest_MarketTable(t *testing.T) {
	d := Build("2026-08-29", []market.Quote{
		{Name: "🇨🇳 上证指数", Price: 3030, PrevRef: 3000},
	}, nil, "")

	table := d.MarketTable()
	require.Contains(t, table, "| 资产 | 最新价 | 涨跌幅 |")
	require.Contains(t, table, "| 🇨🇳 上证指数 | 3030.00 | 🔺 +1.00% |")
}

func TestDigest_MarketTable_EmptyQuotes(t *testing.T) {
	d := Build("2026-08-29", nil, nil, "")
	require.Contains(t, d.MarketTable(), "数据暂不可用")
}

func TestDigest_NewsBlock(t *testing.T) {
	d := Build("2026-08-29", nil, []feed.Item{
		{Source: "新浪财经", Headline: "first"},
		{Source: "Yahoo", Headline: "second"},
	}, "")
	require.Equal(t, "【新浪财经】first\n【Yahoo】second", d.NewsBlock())
}

func TestDigest_NewsBlock_Empty(t *testing.T) {
	d := Build("2026-08-29", nil, nil, "")
	require.Equal(t, "（今日无新闻数据）", d.NewsBlock())
}
