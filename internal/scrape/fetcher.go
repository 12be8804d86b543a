package scrape

import (
	"context"
	"crypto/tls"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"go.uber.org/zap"

	"github.com/jepco-agent/backend/pkg/logger"
)

// PageFetcher is the page-fetch capability the retrieval pipeline depends
// on. A failed fetch means "no data from this page"; callers skip it and
// keep going.
type PageFetcher interface {
	Fetch(ctx context.Context, pageURL string) (*PageContent, error)
}

// Client fetches and parses site pages over HTTP.
type Client struct {
	httpClient    *http.Client
	userAgent     string
	minTextLength int
}

type Options struct {
	Timeout       time.Duration
	UserAgent     string
	InsecureTLS   bool
	MinTextLength int
}

func NewClient(opts Options) *Client {
	if opts.Timeout == 0 {
		opts.Timeout = 10 * time.Second
	}
	if opts.MinTextLength == 0 {
		opts.MinTextLength = 10
	}

	transport := &http.Transport{}
	if opts.InsecureTLS {
		// The site has served misconfigured certificates before; retrieval
		// must keep working when that happens. Content here is public.
		transport.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	return &Client{
		httpClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: transport,
		},
		userAgent:     opts.UserAgent,
		minTextLength: opts.MinTextLength,
	}
}

// Fetch retrieves pageURL and extracts its structured content. Network
// failures, timeouts, and non-2xx statuses all surface as errors; none of
// them is fatal to the overall search.
func (c *Client) Fetch(ctx context.Context, pageURL string) (*PageContent, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageURL, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	if c.userAgent != "" {
		req.Header.Set("User-Agent", c.userAgent)
	}
	req.Header.Set("Accept", "text/html,application/xhtml+xml,application/xml;q=0.9,*/*;q=0.8")
	req.Header.Set("Accept-Language", "en-US,en;q=0.5,ar;q=0.3")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", pageURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("fetch %s returned status %d", pageURL, resp.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML from %s: %w", pageURL, err)
	}

	content := c.extract(doc, pageURL)
	logger.Debug("Page fetched",
		zap.String("url", pageURL),
		zap.Int("headers", len(content.Headers)),
		zap.Int("paragraphs", len(content.Paragraphs)),
		zap.Int("tables", len(content.Tables)),
	)

	return content, nil
}

// extract pulls every content type out of a parsed document. Split from
// Fetch so parsing can be exercised against fixture markup.
func (c *Client) extract(doc *goquery.Document, pageURL string) *PageContent {
	doc.Find("script, style").Remove()

	content := &PageContent{
		URL:   pageURL,
		Title: strings.TrimSpace(doc.Find("title").First().Text()),
	}
	if content.Title == "" {
		content.Title = pathTail(pageURL)
	}

	for level := 1; level <= 6; level++ {
		lvl := level
		doc.Find(fmt.Sprintf("h%d", level)).Each(func(_ int, s *goquery.Selection) {
			if text := collapseSpace(s.Text()); text != "" {
				content.Headers = append(content.Headers, Header{Level: lvl, Text: text})
			}
		})
	}

	doc.Find("p").Each(func(_ int, s *goquery.Selection) {
		if text := collapseSpace(s.Text()); len([]rune(text)) >= c.minTextLength {
			content.Paragraphs = append(content.Paragraphs, text)
		}
	})

	doc.Find("ul li, ol li").Each(func(_ int, s *goquery.Selection) {
		if text := collapseSpace(s.Text()); text != "" {
			content.ListItems = append(content.ListItems, text)
		}
	})

	doc.Find("table").Each(func(_ int, tableSel *goquery.Selection) {
		table := Table{}
		tableSel.Find("tr").Each(func(rowIdx int, rowSel *goquery.Selection) {
			var cells []string
			rowSel.Find("th, td").Each(func(_ int, cellSel *goquery.Selection) {
				cells = append(cells, collapseSpace(cellSel.Text()))
			})
			if !anyNonEmpty(cells) {
				return
			}
			if rowIdx == 0 {
				table.Headers = cells
			} else {
				table.Rows = append(table.Rows, cells)
			}
		})
		if len(table.Headers) > 0 || len(table.Rows) > 0 {
			content.Tables = append(content.Tables, table)
		}
	})

	doc.Find("a[href]").Each(func(_ int, s *goquery.Selection) {
		text := collapseSpace(s.Text())
		href, _ := s.Attr("href")
		if text == "" || href == "" {
			return
		}
		content.Links = append(content.Links, Link{Text: text, URL: resolveURL(pageURL, href)})
	})

	doc.Find("form").Each(func(_ int, formSel *goquery.Selection) {
		form := Form{
			Action: formSel.AttrOr("action", ""),
			Method: strings.ToUpper(formSel.AttrOr("method", "GET")),
		}
		formSel.Find("input, select, textarea").Each(func(_ int, fieldSel *goquery.Selection) {
			field := FormField{
				Type: fieldSel.AttrOr("type", goquery.NodeName(fieldSel)),
				Name: fieldSel.AttrOr("name", ""),
			}
			_, field.Required = fieldSel.Attr("required")
			if id, ok := fieldSel.Attr("id"); ok {
				field.Label = collapseSpace(formSel.Find(fmt.Sprintf("label[for=%q]", id)).Text())
			}
			form.Fields = append(form.Fields, field)
		})
		if len(form.Fields) > 0 {
			content.Forms = append(content.Forms, form)
		}
	})

	fullText := collapseSpace(doc.Text())
	content.FullText = fullText
	content.Contacts = extractContacts(fullText)
	content.Pricing = extractPricing(fullText)
	content.Procedures = extractSentences(fullText, procedureWords)
	content.Requirements = extractSentences(fullText, requirementWord)

	return content
}

// Extract parses raw markup without fetching. Used by tests and by any
// caller that already holds the page body.
func (c *Client) Extract(markup, pageURL string) (*PageContent, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(markup))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return c.extract(doc, pageURL), nil
}

func resolveURL(base, href string) string {
	baseURL, err := url.Parse(base)
	if err != nil {
		return href
	}
	ref, err := url.Parse(href)
	if err != nil {
		return href
	}
	return baseURL.ResolveReference(ref).String()
}

func pathTail(pageURL string) string {
	trimmed := strings.TrimRight(pageURL, "/")
	if idx := strings.LastIndex(trimmed, "/"); idx >= 0 {
		return trimmed[idx+1:]
	}
	return trimmed
}

func anyNonEmpty(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return true
		}
	}
	return false
}
