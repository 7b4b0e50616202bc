package pipeline_test

import (
	"articlesummarizer/internal/domain"
	"articlesummarizer/internal/pipeline"
	"articlesummarizer/internal/summarizer"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"slices"
	"strings"
	"testing"
	"time"
)

type stubFetcher struct {
	article domain.Article
	err     error
	calls   int
}

func (f *stubFetcher) Fetch(_ context.Context, rawURL string) (domain.Article, error) {
	f.calls++
	if f.err != nil {
		return domain.Article{}, f.err
	}

	a := f.article
	a.URL = rawURL

	return a, nil
}

type stubSummarizer struct {
	summary string
	err     error
	inputs  []summarizer.Input
}

func (s *stubSummarizer) Summarize(_ context.Context, input summarizer.Input) (string, error) {
	s.inputs = append(s.inputs, input)

	return s.summary, s.err
}

type stubPersister struct {
	err      error
	contents []string
	titles   []string
	times    []time.Time
}

func (p *stubPersister) Save(_ context.Context, content string, title string, now time.Time) (string, error) {
	if p.err != nil {
		return "", p.err
	}

	p.contents = append(p.contents, content)
	p.titles = append(p.titles, title)
	p.times = append(p.times, now)

	return "articles/" + title + ".md", nil
}

type recorder struct {
	states []pipeline.State
}

func (r *recorder) observe(s pipeline.State) {
	r.states = append(r.states, s)
}

var fixedNow = time.Date(2024, 3, 15, 10, 11, 12, 0, time.Local)

func newExtractor(f *stubFetcher, s *stubSummarizer, p *stubPersister, r *recorder) *pipeline.ArticleExtractor {
	return pipeline.New(f, s, p, slog.Default(),
		pipeline.WithObserver(r.observe),
		pipeline.WithClock(func() time.Time { return fixedNow }),
	)
}

func TestRunSuccess(t *testing.T) {
	f := &stubFetcher{article: domain.Article{Title: "Title", Text: "Body text"}}
	s := &stubSummarizer{summary: "Short summary"}
	p := &stubPersister{}
	r := &recorder{}

	path, err := newExtractor(f, s, p, r).Run(context.Background(), "https://example.com/a")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if path != "articles/Title.md" {
		t.Fatalf("unexpected path: %q", path)
	}

	wantStates := []pipeline.State{
		pipeline.StateStart,
		pipeline.StateFetched,
		pipeline.StateSummarized,
		pipeline.StateFormatted,
		pipeline.StateSaved,
		pipeline.StateDone,
	}
	if !slices.Equal(r.states, wantStates) {
		t.Fatalf("unexpected states: got %v want %v", r.states, wantStates)
	}

	if len(s.inputs) != 1 || s.inputs[0].Text != "Body text" || s.inputs[0].SourceURL != "https://example.com/a" {
		t.Fatalf("unexpected summarizer inputs: %+v", s.inputs)
	}

	if len(p.contents) != 1 {
		t.Fatalf("expected one saved document, got %d", len(p.contents))
	}

	if !p.times[0].Equal(fixedNow) {
		t.Fatalf("expected document and filename to share the run time, got %v", p.times[0])
	}

	doc := p.contents[0]
	for _, part := range []string{"# Title", "Short summary", "Body text", "https://example.com/a", "2024-03-15 10:11:12"} {
		if !strings.Contains(doc, part) {
			t.Fatalf("expected document to contain %q, got %q", part, doc)
		}
	}
}

func TestRunStopsOnFetchError(t *testing.T) {
	fetchErr := domain.NewError(domain.KindFetch, "fetch article", errors.New("no extractable content"))
	f := &stubFetcher{err: fetchErr}
	s := &stubSummarizer{summary: "unused"}
	p := &stubPersister{}
	r := &recorder{}

	_, err := newExtractor(f, s, p, r).Run(context.Background(), "https://example.com/a")
	if !errors.Is(err, domain.ErrFetch) {
		t.Fatalf("expected fetch error, got %v", err)
	}

	if len(s.inputs) != 0 || len(p.contents) != 0 {
		t.Fatalf("expected no later steps to run")
	}

	if want := []pipeline.State{pipeline.StateStart, pipeline.StateFailed}; !slices.Equal(r.states, want) {
		t.Fatalf("unexpected states: got %v want %v", r.states, want)
	}
}

func TestRunStopsOnSummarizerError(t *testing.T) {
	f := &stubFetcher{article: domain.Article{Title: "T", Text: "X"}}
	s := &stubSummarizer{err: domain.NewError(domain.KindAPI, "generate summary", errors.New("401"))}
	p := &stubPersister{}
	r := &recorder{}

	_, err := newExtractor(f, s, p, r).Run(context.Background(), "https://example.com/a")
	if !errors.Is(err, domain.ErrAPI) {
		t.Fatalf("expected api error, got %v", err)
	}

	if len(p.contents) != 0 {
		t.Fatalf("expected nothing to be saved")
	}

	if got := r.states[len(r.states)-1]; got != pipeline.StateFailed {
		t.Fatalf("expected failed state, got %s", got)
	}
}

func TestRunReportsSaveError(t *testing.T) {
	f := &stubFetcher{article: domain.Article{Title: "T", Text: "X"}}
	s := &stubSummarizer{summary: "S"}
	p := &stubPersister{err: domain.NewError(domain.KindIO, "write file", errors.New("disk full"))}
	r := &recorder{}

	_, err := newExtractor(f, s, p, r).Run(context.Background(), "https://example.com/a")
	if !errors.Is(err, domain.ErrIO) {
		t.Fatalf("expected io error, got %v", err)
	}

	want := []pipeline.State{
		pipeline.StateStart,
		pipeline.StateFetched,
		pipeline.StateSummarized,
		pipeline.StateFormatted,
		pipeline.StateFailed,
	}
	if !slices.Equal(r.states, want) {
		t.Fatalf("unexpected states: got %v want %v", r.states, want)
	}
}

func TestStateTerminal(t *testing.T) {
	for _, s := range []pipeline.State{pipeline.StateDone, pipeline.StateFailed} {
		if !s.Terminal() {
			t.Fatalf("expected %s to be terminal", s)
		}
	}

	if pipeline.StateSaved.Terminal() {
		t.Fatalf("expected saved not to be terminal")
	}
}

func TestRunClockIsReadOncePerRun(t *testing.T) {
	var calls int
	clock := func() time.Time {
		calls++

		return fixedNow.Add(time.Duration(calls) * time.Hour)
	}

	p := &stubPersister{}
	e := pipeline.New(
		&stubFetcher{article: domain.Article{Title: "T", Text: "X"}},
		&stubSummarizer{summary: "S"},
		p,
		slog.Default(),
		pipeline.WithClock(clock),
	)

	if _, err := e.Run(context.Background(), "https://example.com/a"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if calls != 1 {
		t.Fatalf("expected clock to be read once, got %d", calls)
	}

	want := fixedNow.Add(time.Hour)
	if !p.times[0].Equal(want) || !strings.Contains(p.contents[0], want.Format("2006-01-02 15:04:05")) {
		t.Fatalf("expected filename time and document time to match %v, got %v", want, p.times[0])
	}
}

func TestRunLogsTerminalStatesAtInfo(t *testing.T) {
	for name, fetchErr := range map[string]error{
		"done":   nil,
		"failed": domain.NewError(domain.KindFetch, "fetch article", errors.New("timeout")),
	} {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			log := slog.New(slog.NewJSONHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo}))

			e := pipeline.New(
				&stubFetcher{article: domain.Article{Title: "T", Text: "X"}, err: fetchErr},
				&stubSummarizer{summary: "S"},
				&stubPersister{},
				log,
			)
			_, _ = e.Run(context.Background(), "https://example.com/a")

			var states []string
			for line := range strings.Lines(buf.String()) {
				var entry struct {
					Msg      string `json:"msg"`
					State    string `json:"state"`
					Terminal bool   `json:"terminal"`
				}
				if err := json.Unmarshal([]byte(line), &entry); err != nil {
					t.Fatalf("decode log line %q: %v", line, err)
				}

				if entry.Msg != "Pipeline state is entered" {
					continue
				}

				if !entry.Terminal {
					t.Fatalf("expected only terminal states at info level, got %q", entry.State)
				}

				states = append(states, entry.State)
			}

			if want := []string{name}; !slices.Equal(states, want) {
				t.Fatalf("unexpected terminal states: got %v want %v", states, want)
			}
		})
	}
}
