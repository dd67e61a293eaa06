package market

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

const sinaPayload = `var hq_str_sh000001="上证指数,2995.000,3000.000,3030.000,3035.000,2990.000";`

func TestSnapshotSchema_Validate(t *testing.T) {
	good := snapshotSchema{Delim: ",", RefIndex: 2, PriceIndex: 3, MinFields: 4}
	require.NoError(t, good.validate())

	require.Error(t, snapshotSchema{Delim: "", RefIndex: 2, PriceIndex: 3, MinFields: 4}.validate())
	require.Error(t, snapshotSchema{Delim: ",", RefIndex: -1, PriceIndex: 3, MinFields: 4}.validate())
	require.Error(t, snapshotSchema{Delim: ",", RefIndex: 2, PriceIndex: 5, MinFields: 4}.validate())
}

func TestSnapshotSchema_Parse(t *testing.T) {
	schema := snapshotSchema{Delim: ",", RefIndex: 2, PriceIndex: 3, MinFields: 4}

	price, ref, err := schema.parse(sinaPayload)
	require.NoError(t, err)
	require.InDelta(t, 3030.0, price, 1e-9)
	require.InDelta(t, 3000.0, ref, 1e-9)
}

func TestSnapshotSchema_Parse_ZeroPriceFallsBackToReference(t *testing.T) {
	schema := snapshotSchema{Delim: ",", RefIndex: 2, PriceIndex: 3, MinFields: 4}

	price, ref, err := schema.parse(`var hq_str_sh000001="上证指数,2995.0,3000.0,0.000,1,2";`)
	require.NoError(t, err)
	require.InDelta(t, 3000.0, price, 1e-9)
	require.InDelta(t, 3000.0, ref, 1e-9)
}

func TestSnapshotSchema_Parse_Malformed(t *testing.T) {
	schema := snapshotSchema{Delim: ",", RefIndex: 2, PriceIndex: 3, MinFields: 4}

	cases := []string{
		"",
		"no quotes here",
		`var hq_str_x="a,b";`,
		`var hq_str_x="name,1.0,not-a-number,2.0";`,
	}
	for _, payload := range cases {
		_, _, err := schema.parse(payload)
		require.Error(t, err, "payload %q", payload)
	}
}

func newSinaForTest(t *testing.T, handler http.Handler) (*SinaSource, *httptest.Server) {
	t.Helper()
	ts := httptest.NewServer(handler)
	t.Cleanup(ts.Close)

	src, err := NewSinaSource(ts.Client(), []SymbolSpec{{Code: "sh000001", Name: "🇨🇳 上证指数"}}, 5*time.Second)
	require.NoError(t, err)
	src.SetBaseURL(ts.URL + "/list=%s")
	return src, ts
}

func TestSinaSource_FetchOne(t *testing.T) {
	var gotReferer string
	src, _ := newSinaForTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotReferer = r.Header.Get("Referer")
		_, _ = w.Write([]byte(sinaPayload))
	}))

	q, err := src.FetchOne(context.Background(), src.Specs()[0])
	require.NoError(t, err)
	require.Equal(t, "sh000001", q.Symbol)
	require.Equal(t, "🇨🇳 上证指数", q.Name)
	require.InDelta(t, 3030.0, q.Price, 1e-9)
	require.InDelta(t, 3000.0, q.PrevRef, 1e-9)
	require.InDelta(t, 1.0, q.ChangePct(), 1e-9)
	require.Equal(t, sinaReferer, gotReferer)
}

func TestSinaSource_FetchOne_BadStatus(t *testing.T) {
	src, _ := newSinaForTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))

	_, err := src.FetchOne(context.Background(), src.Specs()[0])
	require.Error(t, err)
}

func TestSinaSource_FetchOne_Timeout(t *testing.T) {
	src, _ := newSinaForTest(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
		_, _ = w.Write([]byte(sinaPayload))
	}))

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := src.FetchOne(ctx, src.Specs()[0])
	require.Error(t, err)
}
