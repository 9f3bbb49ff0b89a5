// Package wikipedia provides the Wikipedia encyclopedia adapter.
// Clean Architecture: Adapter implementing ports.Encyclopedia.
package wikipedia

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/tidwall/gjson"

	"github.com/0xcro3dile/wikibot-go/internal/domain/entities"
)

// DefaultUserAgent identifies the bot to Wikimedia, which rejects anonymous clients.
const DefaultUserAgent = "WikiBot/1.0 (https://github.com/0xcro3dile/wikibot-go)"

const titleSeparator = "|"

// WikipediaAdapter implements ports.Encyclopedia using the MediaWiki action API.
type WikipediaAdapter struct {
	baseURL   string
	userAgent string
	client    *http.Client
}

// NewWikipediaAdapter creates a new Wikipedia adapter. An empty baseURL
// points at the language edition, e.g. https://en.wikipedia.org.
func NewWikipediaAdapter(baseURL, language, userAgent string, timeout time.Duration) *WikipediaAdapter {
	if language == "" {
		language = "en"
	}
	if baseURL == "" {
		baseURL = fmt.Sprintf("https://%s.wikipedia.org", language)
	}
	if userAgent == "" {
		userAgent = DefaultUserAgent
	}
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	return &WikipediaAdapter{
		baseURL:   strings.TrimRight(baseURL, "/"),
		userAgent: userAgent,
		client:    &http.Client{Timeout: timeout},
	}
}

// FetchPage returns the intro extract, canonical title and URL for query.
// Redirects are followed; a missing page is returned with Exists == false.
func (a *WikipediaAdapter) FetchPage(ctx context.Context, query string) (*entities.Page, error) {
	// The API splits titles on "|", and no page title may contain one.
	if strings.Contains(query, titleSeparator) {
		return &entities.Page{Exists: false, Title: query}, nil
	}

	params := url.Values{}
	params.Set("action", "query")
	params.Set("format", "json")
	params.Set("formatversion", "2")
	params.Set("prop", "extracts|info")
	params.Set("exintro", "1")
	params.Set("explaintext", "1")
	params.Set("inprop", "url")
	params.Set("redirects", "1")
	params.Set("titles", query)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, a.baseURL+"/w/api.php?"+params.Encode(), nil)
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("User-Agent", a.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := a.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("calling Wikipedia: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("Wikipedia returned status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response: %w", err)
	}
	if !gjson.ValidBytes(body) {
		return nil, fmt.Errorf("decoding response: invalid JSON")
	}
	if apiErr := gjson.GetBytes(body, "error.info"); apiErr.Exists() {
		return nil, fmt.Errorf("Wikipedia API error: %s", apiErr.String())
	}

	page := gjson.GetBytes(body, "query.pages.0")
	if !page.Exists() || page.Get("missing").Bool() || page.Get("invalid").Bool() {
		return &entities.Page{Exists: false, Title: query}, nil
	}

	title := page.Get("title").String()
	pageURL := page.Get("fullurl").String()
	if pageURL == "" {
		pageURL = a.baseURL + "/wiki/" + url.PathEscape(strings.ReplaceAll(title, " ", "_"))
	}

	return &entities.Page{
		Exists:  true,
		Title:   title,
		Summary: strings.TrimSpace(page.Get("extract").String()),
		URL:     pageURL,
	}, nil
}
