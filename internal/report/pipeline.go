/*
Package report drives one briefing cycle: fetch quotes and news, build the
digest, generate the prose, persist it and deliver it.
*/
package report

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/zhuwx/dailybrief/internal/digest"
	"github.com/zhuwx/dailybrief/internal/feed"
	"github.com/zhuwx/dailybrief/internal/knowledge"
	"github.com/zhuwx/dailybrief/internal/market"
	"github.com/zhuwx/dailybrief/internal/notify"
)

// State is the pipeline's position within a cycle.
type State int

const (
	StateIdle State = iota
	StateFetching
	StateBuilding
	StateGenerating
	StatePersisting
	StateDelivering
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateFetching:
		return "fetching"
	case StateBuilding:
		return "building"
	case StateGenerating:
		return "generating"
	case StatePersisting:
		return "persisting"
	case StateDelivering:
		return "delivering"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// ErrGenerationFailed wraps the only failure class that is terminal for a
// cycle. Fetch and build problems degrade; delivery problems are logged.
var ErrGenerationFailed = errors.New("report generation failed")

// QuoteFetcher supplies the cycle's quote snapshot.
type QuoteFetcher interface {
	FetchAll(ctx context.Context) []market.Quote
}

// NewsFetcher supplies the cycle's news candidate pool.
type NewsFetcher interface {
	FetchAll(ctx context.Context) []feed.Item
}

// Generator turns a digest into report prose. One call per cycle, no retry.
type Generator interface {
	Generate(ctx context.Context, d *digest.Digest) (string, error)
}

// Store persists the generated report and returns its path.
type Store interface {
	Save(date string, content string) (string, error)
}

// Renderer prepares the report for delivery.
type Renderer interface {
	Render(subject string, markdownBody string) (*notify.RenderedMessage, error)
}

// Sender delivers the rendered report.
type Sender interface {
	Send(msg *notify.RenderedMessage, attachmentPath string) error
}

// Result summarizes one cycle.
type Result struct {
	CycleID    uuid.UUID
	Date       string
	Report     string
	ReportPath string
	Delivered  bool
	State      State
}

// Pipeline wires the collaborators for one report cycle.
type Pipeline struct {
	quotes       QuoteFetcher
	news         NewsFetcher
	generator    Generator
	store        Store
	renderer     Renderer
	sender       Sender
	knowledgeDir string
	location     *time.Location

	state State
}

// NewPipeline builds a pipeline. loc decides the report date.
func NewPipeline(quotes QuoteFetcher, news NewsFetcher, gen Generator, st Store, r Renderer, snd Sender, knowledgeDir string, loc *time.Location) *Pipeline {
	if loc == nil {
		loc = time.Local
	}
	return &Pipeline{
		quotes:       quotes,
		news:         news,
		generator:    gen,
		store:        st,
		renderer:     r,
		sender:       snd,
		knowledgeDir: knowledgeDir,
		location:     loc,
		state:        StateIdle,
	}
}

// State returns the pipeline's current state.
func (p *Pipeline) State() State { return p.state }

func (p *Pipeline) transition(logger *log.Entry, s State) {
	p.state = s
	logger.Infof("Pipeline state: %s", s)
}

// Run executes one cycle. It returns an error only when generation fails;
// every quote/news/persist/delivery failure degrades and the cycle continues.
func (p *Pipeline) Run(ctx context.Context) (*Result, error) {
	result := &Result{
		CycleID: uuid.New(),
		Date:    time.Now().In(p.location).Format("2006-01-02"),
	}
	logger := log.WithFields(log.Fields{"cycle": result.CycleID, "date": result.Date})

	p.transition(logger, StateFetching)
	var (
		quotes        []market.Quote
		news          []feed.Item
		knowledgeText string
	)
	g := new(errgroup.Group)
	g.Go(func() error {
		quotes = p.quotes.FetchAll(ctx)
		return nil
	})
	g.Go(func() error {
		news = p.news.FetchAll(ctx)
		return nil
	})
	g.Go(func() error {
		text, err := knowledge.Load(p.knowledgeDir)
		if err != nil {
			logger.Warnf("Knowledge corpus unavailable: %v", err)
			return nil
		}
		knowledgeText = text
		return nil
	})
	_ = g.Wait()

	p.transition(logger, StateBuilding)
	d := digest.Build(result.Date, quotes, news, knowledgeText)

	p.transition(logger, StateGenerating)
	prose, err := p.generator.Generate(ctx, d)
	if err != nil {
		p.transition(logger, StateFailed)
		result.State = StateFailed
		return result, fmt.Errorf("%w: %v", ErrGenerationFailed, err)
	}
	result.Report = prose

	p.transition(logger, StatePersisting)
	path, err := p.store.Save(result.Date, prose)
	if err != nil {
		// Persistence is not the terminal failure class; deliver without the
		// attachment rather than dropping the cycle.
		logger.Errorf("Failed to persist report: %v", err)
	} else {
		result.ReportPath = path
	}

	p.transition(logger, StateDelivering)
	subject := fmt.Sprintf("【内参】%s 历史映照与配置建议", result.Date)
	msg, err := p.renderer.Render(subject, prose)
	if err != nil {
		logger.Errorf("Failed to render email: %v", err)
	} else if err := p.sender.Send(msg, result.ReportPath); err != nil {
		logger.Errorf("Failed to deliver report: %v", err)
	} else {
		result.Delivered = true
	}

	p.transition(logger, StateDone)
	result.State = StateDone
	return result, nil
}
