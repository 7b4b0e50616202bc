package article

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	readability "github.com/go-shiori/go-readability"
)

const blockSelector = "p, h1, h2, h3, h4, h5, h6, li, blockquote, pre"

// Elements removed before the fallback extractor looks for content.
var noiseSelectors = []string{
	"script", "style", "noscript", "template",
	"nav", "footer", "header", "aside",
	"form", "button", "input", "select", "textarea",
	"iframe", "video", "audio", "svg", "canvas",
	"figure", "figcaption",
	"[role=navigation]", "[aria-hidden=true]",
	".sidebar", ".menu", ".navigation", ".share", ".related",
	".ads", ".advertisement", ".comments",
}

// Fallback containers in priority order.
var containerSelectors = []string{"article", "main", "[role=main]", "body"}

func readabilityText(parsed readability.Article) string {
	if content := strings.TrimSpace(parsed.Content); content != "" {
		doc, err := goquery.NewDocumentFromReader(strings.NewReader(content))
		if err == nil {
			if text := collectText(doc.Selection); text != "" {
				return text
			}
		}
	}

	return normalizeBlock(parsed.TextContent)
}

func fallbackText(doc *goquery.Document) string {
	for _, sel := range noiseSelectors {
		doc.Find(sel).Remove()
	}

	for _, sel := range containerSelectors {
		container := doc.Find(sel).First()
		if container.Length() == 0 {
			continue
		}

		if text := collectText(container); text != "" {
			return text
		}
	}

	return ""
}

// collectText joins the text of the outermost block elements under sel with
// blank lines. Without any block elements the whole text of sel is used.
func collectText(sel *goquery.Selection) string {
	sel.Find("br").Each(func(_ int, br *goquery.Selection) {
		br.ReplaceWithHtml("\n")
	})

	var paragraphs []string

	sel.Find(blockSelector).Each(func(_ int, s *goquery.Selection) {
		if s.ParentsFiltered(blockSelector).Length() > 0 {
			return
		}

		if text := normalizeBlock(s.Text()); text != "" {
			paragraphs = append(paragraphs, text)
		}
	})

	if len(paragraphs) == 0 {
		return normalizeBlock(sel.Text())
	}

	return strings.Join(paragraphs, "\n\n")
}

func documentTitle(doc *goquery.Document) string {
	if content, ok := doc.Find("meta[property='og:title']").Attr("content"); ok {
		if title := normalizeSpace(content); title != "" {
			return title
		}
	}

	return normalizeSpace(doc.Find("title").First().Text())
}

// normalizeBlock collapses whitespace inside every line and drops empty lines.
func normalizeBlock(s string) string {
	lines := strings.Split(s, "\n")
	kept := lines[:0]

	for _, line := range lines {
		if line = normalizeSpace(line); line != "" {
			kept = append(kept, line)
		}
	}

	return strings.Join(kept, "\n")
}

func normalizeSpace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
