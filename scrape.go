package edgar

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/net/html"
	"golang.org/x/net/html/charset"
)

// MaxTokenLength is the longest space-delimited token kept in extracted text.
// Longer runs are almost always inline scripts, encoded data or long links.
const MaxTokenLength = 200

// ExtractText fetches url and returns its cleaned visible text.
// A timeout <= 0 uses the client's scrape timeout.
//
// Non-HTML documents fail with *UnsupportedContentError, responses without
// a Content-Type header with ErrMissingContentType and deadline overruns
// with ErrTimeout. The HTTP status is not checked; whatever
// page the server returns is cleaned.
func (c *Client) ExtractText(ctx context.Context, url string, timeout time.Duration) (string, error) {
	if timeout <= 0 {
		timeout = c.scrapeTimeout
	}

	resp, err := c.fetch(ctx, url, timeout)
	if err != nil {
		return "", err
	}

	if len(resp.header.Values("Content-Type")) == 0 {
		return "", ErrMissingContentType
	}
	contentType := resp.header.Get("Content-Type")
	if !IsHTML(contentType) {
		return "", &UnsupportedContentError{ContentType: contentType}
	}

	body, err := charset.NewReader(bytes.NewReader(resp.body), contentType)
	if err != nil {
		return "", fmt.Errorf("failed to decode body: %w", err)
	}
	return CleanHTML(body)
}

// Scrape is ExtractText for callers that must not fail. Failures come back
// as diagnostic text: "timeout error", "not supported content: {type}" or
// "Exception: {message}". A response without a Content-Type header is an
// exception, not unsupported content.
func (c *Client) Scrape(ctx context.Context, url string, timeout time.Duration) string {
	text, err := c.ExtractText(ctx, url, timeout)
	if err == nil {
		return text
	}

	var unsupported *UnsupportedContentError
	switch {
	case errors.Is(err, ErrTimeout):
		return ErrTimeout.Error()
	case errors.As(err, &unsupported):
		return unsupported.Error()
	default:
		return "Exception: " + err.Error()
	}
}

// IsHTML reports whether a Content-Type header value mentions html
func IsHTML(contentType string) bool {
	return strings.Contains(strings.ToLower(contentType), "html")
}

// CleanHTML parses an HTML document, drops script and style elements with
// their contents, and returns the remaining text run through
// NormalizeLines and FilterLongTokens.
//
// Scripting is off while parsing so noscript content becomes elements
// rather than raw markup text.
func CleanHTML(r io.Reader) (string, error) {
	root, err := html.ParseWithOptions(r, html.ParseOptionEnableScripting(false))
	if err != nil {
		return "", fmt.Errorf("failed to parse HTML: %w", err)
	}
	doc := goquery.NewDocumentFromNode(root)

	doc.Find("script, style").Remove()

	return FilterLongTokens(NormalizeLines(doc.Text())), nil
}

// NormalizeLines splits text into lines, trims each one, splits every line
// again on double spaces and joins the non-empty trimmed phrases with
// newlines.
func NormalizeLines(text string) string {
	var chunks []string
	for _, line := range strings.FieldsFunc(text, isLineBreak) {
		line = strings.TrimFunc(line, isStripSpace)
		for _, phrase := range strings.Split(line, "  ") {
			if phrase = strings.TrimFunc(phrase, isStripSpace); phrase != "" {
				chunks = append(chunks, phrase)
			}
		}
	}
	return strings.Join(chunks, "\n")
}

// FilterLongTokens splits text on single spaces and drops every token longer
// than MaxTokenLength characters. Legitimate long unspaced runs are lost too.
func FilterLongTokens(text string) string {
	words := strings.Split(text, " ")
	kept := words[:0]
	for _, w := range words {
		if utf8.RuneCountInString(w) <= MaxTokenLength {
			kept = append(kept, w)
		}
	}
	return strings.Join(kept, " ")
}

// isLineBreak matches the line boundaries of Python's str.splitlines
func isLineBreak(r rune) bool {
	switch r {
	case '\n', '\r', '\v', '\f', 0x1c, 0x1d, 0x1e, 0x85, 0x2028, 0x2029:
		return true
	}
	return false
}

// isStripSpace matches the whitespace removed by Python's str.strip:
// unicode.IsSpace plus the ASCII separators 0x1c-0x1f
func isStripSpace(r rune) bool {
	return unicode.IsSpace(r) || (r >= 0x1c && r <= 0x1f)
}
