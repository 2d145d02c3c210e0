package page

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"os"

	"github.com/PuerkitoBio/goquery"
)

// Loader fetches a rendered page, either over HTTP or from disk.
type Loader struct {
	httpClient *http.Client
}

// NewLoader creates a Loader. A nil client means http.DefaultClient.
func NewLoader(httpClient *http.Client) *Loader {
	if httpClient == nil {
		httpClient = http.DefaultClient
	}
	return &Loader{httpClient: httpClient}
}

// IsRemote reports whether src names an http(s) URL rather than a file.
func IsRemote(src string) bool {
	u, err := url.Parse(src)
	return err == nil && (u.Scheme == "http" || u.Scheme == "https")
}

// Load reads and parses the page at src.
func (l *Loader) Load(ctx context.Context, src string) (*goquery.Document, error) {
	if !IsRemote(src) {
		f, err := os.Open(src)
		if err != nil {
			return nil, fmt.Errorf("failed to open page: %w", err)
		}
		defer f.Close()
		doc, err := goquery.NewDocumentFromReader(f)
		if err != nil {
			return nil, fmt.Errorf("failed to parse page %s: %w", src, err)
		}
		return doc, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build page request: %w", err)
	}
	resp, err := l.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to fetch page: unexpected status %s", resp.Status)
	}
	doc, err := goquery.NewDocumentFromReader(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse page %s: %w", src, err)
	}
	return doc, nil
}
