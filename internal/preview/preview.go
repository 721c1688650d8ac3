// SPDX-License-Identifier: AGPL-3.0-only

// Package preview builds link-preview cards for URLs found in post
// text by scraping the target page's Open Graph tags.
package preview

import (
	"context"
	"fmt"
	"net/http"
	"regexp"
	"strings"
	"sync"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
)

var urlPattern = regexp.MustCompile(`https?://[^\s<>"']+`)

// FirstURL returns the first http(s) URL in text, or "".
func FirstURL(text string) string {
	return urlPattern.FindString(text)
}

// Card is the scraped preview for one URL.
type Card struct {
	URL         string
	Title       string
	Description string
	ImageURL    string
}

// Fetcher scrapes preview cards and caches them per URL. Failed
// lookups are cached too so a dead link is not re-fetched on every
// render.
type Fetcher struct {
	httpClient http.Client

	mu    sync.Mutex
	cache map[string]*Card
}

func NewFetcher(timeout time.Duration) *Fetcher {
	return &Fetcher{
		httpClient: http.Client{Timeout: timeout},
		cache:      make(map[string]*Card),
	}
}

// Fetch returns the preview card for url, scraping on first use. A nil
// card with nil error means the page had nothing usable.
func (f *Fetcher) Fetch(ctx context.Context, url string) (*Card, error) {
	f.mu.Lock()
	if card, ok := f.cache[url]; ok {
		f.mu.Unlock()
		return card, nil
	}
	f.mu.Unlock()

	card, err := f.scrape(ctx, url)
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	f.cache[url] = card
	f.mu.Unlock()
	return card, nil
}

func (f *Fetcher) scrape(ctx context.Context, url string) (*Card, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", "cssocial-desk/preview")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("preview fetch returned status %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "text/html") {
		return nil, nil
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("parse page: %w", err)
	}

	card := &Card{
		URL:         url,
		Title:       metaContent(doc, "og:title"),
		Description: metaContent(doc, "og:description"),
		ImageURL:    metaContent(doc, "og:image"),
	}
	if card.Title == "" {
		card.Title = strings.TrimSpace(doc.Find("title").First().Text())
	}
	if card.Title == "" && card.Description == "" {
		return nil, nil
	}
	return card, nil
}

func metaContent(doc *goquery.Document, property string) string {
	sel := fmt.Sprintf(`meta[property=%q]`, property)
	content, _ := doc.Find(sel).First().Attr("content")
	return strings.TrimSpace(content)
}

// StripHTML flattens markup to plain text, collapsing whitespace.
func StripHTML(input string) string {
	doc, err := html.Parse(strings.NewReader(input))
	if err != nil {
		return ""
	}

	var b strings.Builder

	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			text := strings.TrimSpace(n.Data)
			if text != "" {
				if b.Len() > 0 {
					b.WriteString(" ")
				}
				b.WriteString(text)
			}
		}

		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}

	walk(doc)

	return strings.Join(strings.Fields(html.UnescapeString(b.String())), " ")
}
