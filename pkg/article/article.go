// Package article turns a web article into a list of query words.
package article

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"regexp"
	"strings"

	"github.com/go-shiori/go-readability"
)

// maxBodySize caps how much HTML is read from a source.
const maxBodySize = 10 * 1024 * 1024

var (
	// (?s) allows dot to match newlines
	// (?i) makes it case-insensitive
	reRT = regexp.MustCompile(`(?si)<rt\b[^>]*>.*?</rt>`)
	reRP = regexp.MustCompile(`(?si)<rp\b[^>]*>.*?</rp>`)
)

// SanitizeRuby removes ruby text (<rt>...</rt>) and ruby parentheses (<rp>...</rp>)
// so furigana is not extracted next to the words it annotates.
func SanitizeRuby(content []byte) []byte {
	cleaned := reRT.ReplaceAll(content, []byte{})
	return reRP.ReplaceAll(cleaned, []byte{})
}

// Read loads HTML from an http(s) URL or a local file path.
func Read(ctx context.Context, client *http.Client, source string) ([]byte, *url.URL, error) {
	u, err := url.Parse(source)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		body, err := os.ReadFile(source)
		if err != nil {
			return nil, nil, err
		}
		return body, &url.URL{Scheme: "file", Path: source}, nil
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return nil, nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0 (compatible; cousinwords)")
	req.Header.Set("Accept", "text/html,application/xhtml+xml")

	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, nil, fmt.Errorf("fetch %s: %w", source, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, nil, fmt.Errorf("fetch %s: status %d", source, resp.StatusCode)
	}
	if resp.ContentLength > maxBodySize {
		return nil, nil, fmt.Errorf("content-length %d exceeds limit of %d bytes", resp.ContentLength, maxBodySize)
	}

	// Read one byte past the limit to tell a full page from a truncated one.
	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodySize+1))
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", source, err)
	}
	if len(body) > maxBodySize {
		return nil, nil, fmt.Errorf("response body exceeded maximum size limit of %d bytes", maxBodySize)
	}
	return body, u, nil
}

// Text extracts the readable main text of an HTML page.
func Text(html []byte, pageURL *url.URL) (readability.Article, error) {
	return readability.FromReader(bytes.NewReader(SanitizeRuby(html)), pageURL)
}

// QueryWords fetches source and tokenizes its main text for language.
func QueryWords(ctx context.Context, client *http.Client, source, language string) ([]string, error) {
	html, pageURL, err := Read(ctx, client, source)
	if err != nil {
		return nil, err
	}
	art, err := Text(html, pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to extract article: %w", err)
	}
	tok, err := NewTokenizer(language)
	if err != nil {
		return nil, err
	}
	return unique(tok.Words(art.TextContent)), nil
}

func unique(words []string) []string {
	seen := make(map[string]struct{}, len(words))
	out := words[:0]
	for _, w := range words {
		w = strings.TrimSpace(w)
		if w == "" {
			continue
		}
		if _, ok := seen[w]; ok {
			continue
		}
		seen[w] = struct{}{}
		out = append(out, w)
	}
	return out
}
