package domain

// Article is the record extracted from a web page. It is not modified after
// the fetcher returns it.
type Article struct {
	Title string
	Text  string
	URL   string

	Byline   string
	SiteName string
}
