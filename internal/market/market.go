/*
Package market fetches asset quotes from multiple independent providers and
normalizes them into a single table for the daily digest.
*/
package market

import (
	"context"
	"fmt"
	"strings"
	"time"
)

// FormatFunc renders a raw price for display. It is applied at formatting time
// only and never touches the numeric fields used for the change computation.
type FormatFunc func(price float64) string

// Quote is one asset's latest known price. Price and PrevRef are always in the
// same source-native unit; a quote is built fresh each cycle and never mutated.
type Quote struct {
	Symbol  string
	Name    string
	Price   float64
	PrevRef float64
	Format  FormatFunc
}

// ChangePct returns the percentage change against the reference baseline.
// A zero baseline yields 0 rather than a division error.
func (q Quote) ChangePct() float64 {
	if q.PrevRef == 0 {
		return 0
	}
	return (q.Price - q.PrevRef) / q.PrevRef * 100
}

// Icon returns the trend indicator. Zero change is grouped with negative.
func (q Quote) Icon() string {
	if q.ChangePct() > 0 {
		return "🔺"
	}
	return "💚"
}

// DisplayPrice returns the formatted price string. Idempotent: repeated calls
// yield byte-identical output for the same quote.
func (q Quote) DisplayPrice() string {
	if q.Format != nil {
		return q.Format(q.Price)
	}
	return fmt.Sprintf("%.2f", q.Price)
}

// TableRow renders the quote as a markdown table row.
func (q Quote) TableRow() string {
	return fmt.Sprintf("| %s | %s | %s %+.2f%% |", q.Name, q.DisplayPrice(), q.Icon(), q.ChangePct())
}

// SymbolSpec is the static per-symbol configuration of a source: provider-native
// code, display name and an optional display formatter.
type SymbolSpec struct {
	Code   string
	Name   string
	Format FormatFunc
}

// Source is a quote provider adapter. FetchOne resolves a single symbol and
// returns a per-symbol error on failure; it never fails a whole batch.
type Source interface {
	Name() string
	Specs() []SymbolSpec
	Timeout() time.Duration
	FetchOne(ctx context.Context, spec SymbolSpec) (Quote, error)
}

const tableHeader = "| 资产 | 最新价 | 涨跌幅 |\n|---|---|---|"

// unavailableRow marks a cycle where no quote source produced data, so
// downstream consumers can tell "no data" from an empty table.
const unavailableRow = "| 数据暂不可用 | - | - |"

// MarketTable renders quotes as a markdown table in the order given. An empty
// slice renders a single explicit placeholder row.
func MarketTable(quotes []Quote) string {
	var sb strings.Builder
	sb.WriteString(tableHeader)
	if len(quotes) == 0 {
		sb.WriteString("\n" + unavailableRow)
		return sb.String()
	}
	for _, q := range quotes {
		sb.WriteString("\n" + q.TableRow())
	}
	return sb.String()
}
