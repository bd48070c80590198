// Package source loads moderation logs from files, stdin or the web.
package source

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
)

// ErrEmpty is returned when a log has no visible text.
var ErrEmpty = errors.New("log is empty")

// maxLogBytes caps how much of a log is read.
const maxLogBytes = 32 << 20

// Document is a loaded log. HTML is empty for plain-text logs.
type Document struct {
	Text string
	HTML string
	URL  string // where the log came from, if it was fetched
}

// Parse builds a Document from raw bytes, converting HTML to text when the
// data looks like a web page.
func Parse(data string) (Document, error) {
	doc := Document{Text: data}
	if LooksLikeHTML(data) {
		text, err := HTMLToText(data)
		if err != nil {
			return Document{}, fmt.Errorf("parse html: %w", err)
		}
		doc = Document{Text: text, HTML: data}
	}
	if strings.TrimSpace(doc.Text) == "" {
		return Document{}, ErrEmpty
	}
	return doc, nil
}

// Read parses everything from r.
func Read(r io.Reader) (Document, error) {
	data, err := io.ReadAll(io.LimitReader(r, maxLogBytes))
	if err != nil {
		return Document{}, fmt.Errorf("read log: %w", err)
	}
	return Parse(string(data))
}

// Load reads a log from path. "-" means stdin, and http(s) URLs are fetched.
func Load(ctx context.Context, client *http.Client, path string) (Document, error) {
	if IsURL(path) {
		return Fetch(ctx, client, path)
	}
	if path == "-" {
		return Read(os.Stdin)
	}
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("open log: %w", err)
	}
	defer f.Close()
	return Read(f)
}

// Fetch downloads a log page.
func Fetch(ctx context.Context, client *http.Client, url string) (Document, error) {
	if client == nil {
		client = http.DefaultClient
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Document{}, fmt.Errorf("build request: %w", err)
	}
	resp, err := client.Do(req)
	if err != nil {
		return Document{}, fmt.Errorf("fetch %s: %w", url, err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return Document{}, fmt.Errorf("fetch %s: unexpected status %s", url, resp.Status)
	}
	doc, err := Read(resp.Body)
	if err != nil {
		return Document{}, err
	}
	doc.URL = url
	return doc, nil
}

// IsURL reports whether s is an http or https URL.
func IsURL(s string) bool {
	lower := strings.ToLower(s)
	return strings.HasPrefix(lower, "http://") || strings.HasPrefix(lower, "https://")
}
