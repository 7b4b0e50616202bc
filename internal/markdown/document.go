package markdown

import (
	"articlesummarizer/internal/domain"
	"fmt"
	"strings"
	"time"
)

// TimestampLayout is the layout of the generation time in the metadata block.
const TimestampLayout = "2006-01-02 15:04:05"

const disclaimer = "*此摘要由 AI 自動生成，僅供參考*"

// Render builds the Markdown document for an article and its summary.
// Output depends only on the arguments.
func Render(article domain.Article, summary string, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "# %s\n\n", article.Title)

	b.WriteString("## 文章資訊\n")
	fmt.Fprintf(&b, "- 來源網址：%s\n", article.URL)
	if article.Byline != "" {
		fmt.Fprintf(&b, "- 作者：%s\n", article.Byline)
	}
	if article.SiteName != "" {
		fmt.Fprintf(&b, "- 網站：%s\n", article.SiteName)
	}
	fmt.Fprintf(&b, "- 摘要時間：%s\n\n", now.Format(TimestampLayout))

	fmt.Fprintf(&b, "## AI 摘要\n%s\n\n", summary)

	fmt.Fprintf(&b, "## 原文內容\n%s\n\n", article.Text)

	b.WriteString("---\n")
	b.WriteString(disclaimer)
	b.WriteString("\n")

	return b.String()
}
