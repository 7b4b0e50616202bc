package storage

import (
	"articlesummarizer/internal/domain"
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode"
)

const (
	DefaultDir = "articles"

	maxTitleRunes = 30
	dateLayout    = "20060102"
	extension     = ".md"

	dirPerm  = 0o755
	filePerm = 0o644
)

// Store writes Markdown documents into a single output directory.
type Store struct {
	dir string
	log *slog.Logger
}

func New(dir string, log *slog.Logger) *Store {
	dir = strings.TrimSpace(dir)
	if dir == "" {
		dir = DefaultDir
	}

	return &Store{dir: dir, log: log}
}

// Save writes content to dir/Filename(title, now) and returns the path.
// An existing file with the same name is overwritten.
func (s *Store) Save(ctx context.Context, content string, title string, now time.Time) (string, error) {
	if err := os.MkdirAll(s.dir, dirPerm); err != nil {
		return "", domain.NewError(domain.KindIO, "create output directory", err)
	}

	path := filepath.Join(s.dir, Filename(title, now))

	if _, err := os.Stat(path); err == nil {
		s.log.WarnContext(ctx, "Overwriting existing file",
			"path", path)
	}

	if err := os.WriteFile(path, []byte(content), filePerm); err != nil {
		return "", domain.NewError(domain.KindIO, "write file", err)
	}

	s.log.InfoContext(ctx, "Document is saved",
		"path", path,
		"bytes", len(content))

	return path, nil
}

// Filename returns "<YYYYMMDD>_<first 30 runes of title>.md" with every rune
// other than letters, digits, space, '-', '_' and '.' removed.
func Filename(title string, now time.Time) string {
	return sanitize(fmt.Sprintf("%s_%s%s", now.Format(dateLayout), truncateRunes(title, maxTitleRunes), extension))
}

func truncateRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}

	return string(runes[:n])
}

func sanitize(name string) string {
	return strings.Map(func(r rune) rune {
		if allowedRune(r) {
			return r
		}

		return -1
	}, name)
}

func allowedRune(r rune) bool {
	switch r {
	case ' ', '-', '_', '.':
		return true
	}

	return unicode.IsLetter(r) || unicode.IsNumber(r)
}
