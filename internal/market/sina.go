package market

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
)

const (
	sinaQuoteURL = "http://hq.sinajs.cn/list=%s"
	sinaReferer  = "https://finance.sina.com.cn"
)

// snapshotSchema describes the delimited one-line payload of a snapshot
// provider: field positions are declared up front so a malformed payload is an
// explicit error rather than an index panic.
type snapshotSchema struct {
	Delim      string
	RefIndex   int // previous close, the change baseline
	PriceIndex int // current price; zero or absent falls back to RefIndex
	MinFields  int
}

func (s snapshotSchema) validate() error {
	if s.Delim == "" {
		return fmt.Errorf("snapshot schema: empty delimiter")
	}
	if s.RefIndex < 0 || s.PriceIndex < 0 {
		return fmt.Errorf("snapshot schema: negative field index")
	}
	if s.MinFields <= s.RefIndex || s.MinFields <= s.PriceIndex {
		return fmt.Errorf("snapshot schema: min fields %d does not cover indices %d/%d", s.MinFields, s.RefIndex, s.PriceIndex)
	}
	return nil
}

// parse extracts the raw price and reference baseline from one quoted payload
// line, e.g. `var hq_str_sh000001="上证指数,3001.2,2990.1,3003.4,...";`.
func (s snapshotSchema) parse(payload string) (price, ref float64, err error) {
	start := strings.Index(payload, `"`)
	end := strings.LastIndex(payload, `"`)
	if start == -1 || end <= start {
		return 0, 0, fmt.Errorf("no quoted body in payload")
	}
	fields := strings.Split(payload[start+1:end], s.Delim)
	if len(fields) < s.MinFields {
		return 0, 0, fmt.Errorf("got %d fields, want at least %d", len(fields), s.MinFields)
	}

	ref, err = strconv.ParseFloat(strings.TrimSpace(fields[s.RefIndex]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad reference field %q: %w", fields[s.RefIndex], err)
	}
	price, err = strconv.ParseFloat(strings.TrimSpace(fields[s.PriceIndex]), 64)
	if err != nil {
		return 0, 0, fmt.Errorf("bad price field %q: %w", fields[s.PriceIndex], err)
	}
	// A zero current price means the venue has not traded yet; report a flat
	// quote against the reference instead of failing the symbol.
	if price == 0 {
		price = ref
	}
	return price, ref, nil
}

// SinaSource is the polling-snapshot adapter: one request per symbol against a
// delimited single-line endpoint gated by a Referer header.
type SinaSource struct {
	baseURL string
	client  *http.Client
	specs   []SymbolSpec
	schema  snapshotSchema
	timeout time.Duration
}

// NewSinaSource builds the adapter and validates the field schema up front.
func NewSinaSource(client *http.Client, specs []SymbolSpec, timeout time.Duration) (*SinaSource, error) {
	schema := snapshotSchema{Delim: ",", RefIndex: 2, PriceIndex: 3, MinFields: 4}
	if err := schema.validate(); err != nil {
		return nil, err
	}
	return &SinaSource{
		baseURL: sinaQuoteURL,
		client:  client,
		specs:   specs,
		schema:  schema,
		timeout: timeout,
	}, nil
}

func (s *SinaSource) Name() string           { return "sina" }
func (s *SinaSource) Specs() []SymbolSpec    { return s.specs }
func (s *SinaSource) Timeout() time.Duration { return s.timeout }

// SetBaseURL overrides the endpoint pattern, used by tests.
func (s *SinaSource) SetBaseURL(base string) { s.baseURL = base }

// FetchOne resolves a single symbol. Every failure mode (network, status,
// malformed payload) is returned as a per-symbol error.
func (s *SinaSource) FetchOne(ctx context.Context, spec SymbolSpec) (Quote, error) {
	url := fmt.Sprintf(s.baseURL, spec.Code)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Quote{}, fmt.Errorf("build request for %s: %w", spec.Code, err)
	}
	req.Header.Set("Referer", sinaReferer)

	resp, err := s.client.Do(req)
	if err != nil {
		return Quote{}, fmt.Errorf("fetch %s: %w", spec.Code, err)
	}
	defer func() {
		if cerr := resp.Body.Close(); cerr != nil {
			log.Warnf("Failed to close response body for %s: %v", spec.Code, cerr)
		}
	}()

	if resp.StatusCode != http.StatusOK {
		return Quote{}, fmt.Errorf("fetch %s: status %d", spec.Code, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return Quote{}, fmt.Errorf("read %s: %w", spec.Code, err)
	}

	price, ref, err := s.schema.parse(string(body))
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
