package loader

import (
	"net/http"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/akolanti/lexicon/internal/config"
	"github.com/akolanti/lexicon/internal/domain/commonModels"
)

// contentSelectors are tried in order; the first one that matches wins.
// Tuned for documentation sites (MDN in particular), falling back to body.
var contentSelectors = []string{
	"main#content article",
	"article#wikiArticle",
	"main#content",
	"body",
}

var httpClient = &http.Client{Timeout: config.LoaderHTTPTimeout}

// loadURL fetches the page and extracts its main textual content via the
// prioritized selector list. One Document per page.
func loadURL(url string) ([]commonModels.Document, error) {
	resp, err := httpClient.Get(url)
	if err != nil {
		return nil, loadErr(url, "failed to fetch url: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, loadErr(url, "unexpected status %d fetching url", resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, loadErr(url, "failed to parse html: %w", err)
	}

	var content string
	for _, selector := range contentSelectors {
		if selected := doc.Find(selector); selected.Length() > 0 {
			content = selected.Text()
			break
		}
	}
	content = cleanText(content)
	if content == "" {
		return nil, loadErr(url, "no textual content found")
	}

	return []commonModels.Document{
		{
			Text: content,
			Metadata: map[string]any{
				commonModels.MetaSource: url,
			},
		},
	}, nil
}

// cleanText collapses runs of whitespace while keeping paragraph breaks so
// the splitter still sees "\n\n" boundaries.
func cleanText(text string) string {
	paragraphs := strings.Split(text, "\n\n")
	var kept []string
	for _, p := range paragraphs {
		p = strings.Join(strings.Fields(p), " ")
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, "\n\n")
}
