package main

import (
	"articlesummarizer/internal/article"
	"articlesummarizer/internal/config"
	"articlesummarizer/internal/pipeline"
	"articlesummarizer/internal/storage"
	"articlesummarizer/internal/summarizer"
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"mvdan.cc/xurls/v2"
)

const (
	promptText        = "請輸入文章網址："
	fetchingText      = "正在擷取文章..."
	summarizingText   = "正在生成AI摘要..."
	savedTextFormat   = "文章已成功儲存至：%s\n"
	failureTextFormat = "發生錯誤：%s\n"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	run(ctx, os.Stdin, os.Stdout, os.Stderr)
}

// run executes one interactive session. Logs go to logOut, user-facing text
// to out. Failures are printed and never change the exit status.
func run(ctx context.Context, in io.Reader, out io.Writer, logOut io.Writer) {
	log := slog.New(slog.NewJSONHandler(logOut, nil))

	cfg, err := config.Load()
	if err != nil {
		log.ErrorContext(ctx, "Failed to load config",
			"error", err,
			"envVar", "GROQ_API_KEY")
		fmt.Fprintf(out, failureTextFormat, err)

		return
	}

	log = slog.New(slog.NewJSONHandler(logOut, &slog.HandlerOptions{Level: cfg.LogLevel}))
	slog.SetDefault(log)

	extractor, err := initArticleExtractor(ctx, cfg, out, log)
	if err != nil {
		log.ErrorContext(ctx, "Failed to initialize article extractor",
			"error", err)
		fmt.Fprintf(out, failureTextFormat, err)

		return
	}

	fmt.Fprint(out, promptText)

	line, err := readLine(in)
	if err != nil {
		fmt.Fprintln(out)
		log.ErrorContext(ctx, "Failed to read URL",
			"error", err)
		fmt.Fprintf(out, failureTextFormat, err)

		return
	}

	rawURL := extractURL(line)
	log.InfoContext(ctx, "URL is received",
		"url", rawURL)

	path, err := extractor.Run(ctx, rawURL)
	if err != nil {
		fmt.Fprintf(out, failureTextFormat, err)

		return
	}

	fmt.Fprintf(out, savedTextFormat, path)
}

func initArticleExtractor(
	ctx context.Context,
	cfg config.Config,
	out io.Writer,
	log *slog.Logger,
) (*pipeline.ArticleExtractor, error) {
	s, err := summarizer.NewGroqSummarizer(summarizer.GroqConfig{
		APIKey:  cfg.GroqAPIKey,
		Model:   cfg.GroqModel,
		BaseURL: cfg.GroqBaseURL,
	}, log)
	if err != nil {
		return nil, fmt.Errorf("create summarizer: %w", err)
	}

	log.InfoContext(ctx, "Groq summarizer is initialized",
		"model", cfg.GroqModel,
		"outputDir", cfg.OutputDir)

	return pipeline.New(
		article.NewFetcher(log),
		s,
		storage.New(cfg.OutputDir, log),
		log,
		pipeline.WithObserver(progressPrinter(out)),
	), nil
}

func progressPrinter(out io.Writer) func(pipeline.State) {
	return func(state pipeline.State) {
		switch state {
		case pipeline.StateStart:
			fmt.Fprintln(out, fetchingText)
		case pipeline.StateFetched:
			fmt.Fprintln(out, summarizingText)
		}
	}
}

func readLine(in io.Reader) (string, error) {
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", fmt.Errorf("read input: %w", err)
	}

	return strings.TrimSpace(line), nil
}

// extractURL returns the first http(s) URL in line, or the trimmed line when
// none is found so the fetcher reports why it is unusable.
func extractURL(line string) string {
	line = strings.TrimSpace(line)

	re, err := xurls.StrictMatchingScheme(`https?://`)
	if err != nil {
		return line
	}

	if u := re.FindString(line); u != "" {
		return u
	}

	return line
}
