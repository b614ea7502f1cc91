package services

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

const scraperUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) " +
	"AppleWebKit/537.36 (KHTML, like Gecko) Chrome/122.0.0.0 Safari/537.36"

// Page is the scraped view of a website: title, visible body text with
// noisy tags removed, and all links resolved to absolute URLs.
type Page struct {
	URL   string
	Title string
	Text  string
	Links []string
}

type ScraperService struct {
	httpClient *http.Client
}

func NewScraperService() *ScraperService {
	return &ScraperService{
		httpClient: &http.Client{Timeout: 20 * time.Second},
	}
}

// Fetch downloads and parses one page.
func (s *ScraperService) Fetch(ctx context.Context, pageURL string) (*Page, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid page URL %q: %w", pageURL, err)
	}
	req.Header.Set("User-Agent", scraperUserAgent)

	resp, err := s.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch of %s returned %s", pageURL, resp.Status)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", pageURL, err)
	}

	return buildPage(pageURL, doc), nil
}

func buildPage(pageURL string, doc *goquery.Document) *Page {
	title := strings.TrimSpace(doc.Find("title").First().Text())
	if title == "" {
		title = "No title found"
	}

	base, baseErr := url.Parse(pageURL)

	var links []string
	doc.Find("a[href]").Each(func(_ int, sel *goquery.Selection) {
		href, ok := sel.Attr("href")
		if !ok || href == "" {
			return
		}
		if baseErr == nil {
			if ref, err := url.Parse(href); err == nil {
				links = append(links, base.ResolveReference(ref).String())
				return
			}
		}
		links = append(links, href)
	})

	body := doc.Find("body")
	body.Find("script, style, img, input, noscript").Remove()

	text := collapseWhitespace(body.Text())

	return &Page{
		URL:   pageURL,
		Title: title,
		Text:  text,
		Links: links,
	}
}

// collapseWhitespace joins the extracted text into newline-separated
// non-empty lines, the way the models best consume page content.
func collapseWhitespace(raw string) string {
	var lines []string
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			lines = append(lines, line)
		}
	}
	return strings.Join(lines, "\n")
}

// truncate caps model input at max characters.
func truncate(text string, max int) string {
	if len(text) <= max {
		return text
	}
	return text[:max]
}
