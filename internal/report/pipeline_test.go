package report

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/zhuwx/dailybrief/internal/digest"
	"github.com/zhuwx/dailybrief/internal/feed"
	"github.com/zhuwx/dailybrief/internal/market"
	"github.com/zhuwx/dailybrief/internal/notify"
)

type fakeQuotes struct{ quotes []market.Quote }

func (f *fakeQuotes) FetchAll(ctx context.Context) []market.Quote { return f.quotes }

type fakeNews struct{ items []feed.Item }

func (f *fakeNews) FetchAll(ctx context.Context) []feed.Item { return f.items }

type fakeGenerator struct {
	prose  string
	err    error
	digest *digest.Digest
}

func (f *fakeGenerator) Generate(ctx context.Context, d *digest.Digest) (string, error) {
	f.digest = d
	return f.prose, f.err
}

type fakeStore struct {
	path  string
	err   error
	saved string
}

func (f *fakeStore) Save(date string, content string) (string, error) {
	f.saved = content
	return f.path, f.err
}

type fakeRenderer struct{ err error }

func (f *fakeRenderer) Render(subject string, body string) (*notify.RenderedMessage, error) {
	if f.err != nil {
		return nil, f.err
	}
	return &notify.RenderedMessage{Subject: subject, Text: body, HTML: "<html>" + body + "</html>"}, nil
}

type fakeSender struct {
	err        error
	msg        *notify.RenderedMessage
	attachment string
	calls      int
}

func (f *fakeSender) Send(msg *notify.RenderedMessage, attachmentPath string) error {
	f.calls++
	f.msg = msg
	f.attachment = attachmentPath
	return f.err
}

func newTestPipeline(gen *fakeGenerator, st *fakeStore, r *fakeRenderer, snd *fakeSender) *Pipeline {
	quotes := &fakeQuotes{quotes: []market.Quote{{Name: "🇨🇳 上证指数", Price: 3030, PrevRef: 3000}}}
	news := &fakeNews{items: []feed.Item{{Source: "新浪财经", Headline: "headline"}}}
	return NewPipeline(quotes, news, gen, st, r, snd, "", time.UTC)
}

func TestPipeline_Run_Success(t *testing.T) {
	gen := &fakeGenerator{prose: "# 日报"}
	st := &fakeStore{path: "/reports/2026-08-29_AI_Daily.md"}
	snd := &fakeSender{}
	p := newTestPipeline(gen, st, &fakeRenderer{}, snd)

	result, err := p.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, StateDone, result.State)
	require.Equal(t, StateDone, p.State())
	require.NotEqual(t, uuid.Nil, result.CycleID)
	require.Equal(t, time.Now().UTC().Format("2006-01-02"), result.Date)
	require.Equal(t, "# 日报", result.Report)
	require.Equal(t, "# 日报", st.saved)
	require.Equal(t, st.path, result.ReportPath)
	require.True(t, result.Delivered)

	require.Equal(t, 1, snd.calls)
	require.Equal(t, "【内参】"+result.Date+" 历史映照与配置建议", snd.msg.Subject)
	require.Equal(t, st.path, snd.attachment)

	// The digest handed to the generator carries the fetched inputs.
	require.NotNil(t, gen.digest)
	require.Len(t, gen.digest.Quotes, 1)
	require.Len(t, gen.digest.News, 1)
}

func TestPipeline_Run_GenerationFailureIsTerminal(t *testing.T) {
	gen := &fakeGenerator{err: errors.New("model overloaded")}
	st := &fakeStore{}
	snd := &fakeSender{}
	p := newTestPipeline(gen, st, &fakeRenderer{}, snd)

	result, err := p.Run(context.Background())
	require.ErrorIs(t, err, ErrGenerationFailed)

	require.Equal(t, StateFailed, result.State)
	require.Equal(t, StateFailed, p.State())
	require.Empty(t, st.saved)
	require.Zero(t, snd.calls)
}

func TestPipeline_Run_PersistFailureStillDelivers(t *testing.T) {
	gen := &fakeGenerator{prose: "# 日报"}
	st := &fakeStore{err: errors.New("disk full")}
	snd := &fakeSender{}
	p := newTestPipeline(gen, st, &fakeRenderer{}, snd)

	result, err := p.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, StateDone, result.State)
	require.Empty(t, result.ReportPath)
	require.True(t, result.Delivered)
	// Without a persisted file there is nothing to attach.
	require.Empty(t, snd.attachment)
}

func TestPipeline_Run_DeliveryFailureDegrades(t *testing.T) {
	gen := &fakeGenerator{prose: "# 日报"}
	snd := &fakeSender{err: errors.New("smtp refused")}
	p := newTestPipeline(gen, &fakeStore{path: "/r/x.md"}, &fakeRenderer{}, snd)

	result, err := p.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, StateDone, result.State)
	require.False(t, result.Delivered)
	require.Equal(t, "/r/x.md", result.ReportPath)
}

func TestPipeline_Run_RenderFailureDegrades(t *testing.T) {
	gen := &fakeGenerator{prose: "# 日报"}
	snd := &fakeSender{}
	p := newTestPipeline(gen, &fakeStore{path: "/r/x.md"}, &fakeRenderer{err: errors.New("bad template")}, snd)

	result, err := p.Run(context.Background())
	require.NoError(t, err)

	require.Equal(t, StateDone, result.State)
	require.False(t, result.Delivered)
	require.Zero(t, snd.calls)
}

func TestState_String(t *testing.T) {
	require.Equal(t, "idle", StateIdle.String())
	require.Equal(t, "fetching", StateFetching.String())
	require.Equal(t, "done", StateDone.String())
	require.Equal(t, "failed", StateFailed.String())
}
