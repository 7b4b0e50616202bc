package pipeline

import (
	"articlesummarizer/internal/domain"
	"articlesummarizer/internal/markdown"
	"articlesummarizer/internal/summarizer"
	"context"
	"log/slog"
	"time"
)

type Fetcher interface {
	Fetch(ctx context.Context, rawURL string) (domain.Article, error)
}

type Persister interface {
	Save(ctx context.Context, content string, title string, now time.Time) (string, error)
}

type Option func(*ArticleExtractor)

// WithObserver registers fn to be called on every state the run enters.
func WithObserver(fn func(State)) Option {
	return func(e *ArticleExtractor) {
		e.observe = fn
	}
}

// WithClock replaces time.Now as the source of the run timestamp used for
// both the document and its filename.
func WithClock(now func() time.Time) Option {
	return func(e *ArticleExtractor) {
		e.now = now
	}
}

// ArticleExtractor runs fetch, summarize, format and save in order.
type ArticleExtractor struct {
	fetcher    Fetcher
	summarizer summarizer.Summarizer
	persister  Persister
	now        func() time.Time
	observe    func(State)
	log        *slog.Logger
}

func New(
	f Fetcher,
	s summarizer.Summarizer,
	p Persister,
	log *slog.Logger,
	opts ...Option,
) *ArticleExtractor {
	e := &ArticleExtractor{
		fetcher:    f,
		summarizer: s,
		persister:  p,
		now:        time.Now,
		observe:    func(State) {},
		log:        log,
	}

	for _, opt := range opts {
		opt(e)
	}

	return e
}

// Run processes one article URL and returns the path of the written file.
// The first failing step stops the run and its error is returned unchanged.
func (e *ArticleExtractor) Run(ctx context.Context, rawURL string) (string, error) {
	start := time.Now()

	e.enter(ctx, StateStart, rawURL)

	article, err := e.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		return "", e.fail(ctx, StateStart, rawURL, err)
	}
	e.enter(ctx, StateFetched, rawURL)

	summary, err := e.summarizer.Summarize(ctx, summarizer.Input{
		Text:      article.Text,
		SourceURL: article.URL,
	})
	if err != nil {
		return "", e.fail(ctx, StateFetched, rawURL, err)
	}
	e.enter(ctx, StateSummarized, rawURL)

	now := e.now()

	document := markdown.Render(article, summary, now)
	e.enter(ctx, StateFormatted, rawURL)

	path, err := e.persister.Save(ctx, document, article.Title, now)
	if err != nil {
		return "", e.fail(ctx, StateFormatted, rawURL, err)
	}
	e.enter(ctx, StateSaved, rawURL)

	e.enter(ctx, StateDone, rawURL)
	e.log.InfoContext(ctx, "Article is processed",
		"url", rawURL,
		"path", path,
		"durationSeconds", time.Since(start).Seconds())

	return path, nil
}

func (e *ArticleExtractor) enter(ctx context.Context, state State, rawURL string) {
	level := slog.LevelDebug
	if state.Terminal() {
		level = slog.LevelInfo
	}

	e.log.Log(ctx, level, "Pipeline state is entered",
		"state", state.String(),
		"terminal", state.Terminal(),
		"url", rawURL)

	e.observe(state)
}

func (e *ArticleExtractor) fail(ctx context.Context, from State, rawURL string, err error) error {
	kind, _ := domain.KindOf(err)

	e.log.ErrorContext(ctx, "Pipeline step failed",
		"error", err,
		"kind", kind.String(),
		"from", from.String(),
		"url", rawURL)

	e.enter(ctx, StateFailed, rawURL)

	return err
}
