package edgar

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
)

var (
	archivePathPattern = regexp.MustCompile(`/edgar/data/(\d+)/(\d+)/([^/?#]+)`)
	unsafeNameChars    = regexp.MustCompile(`[^A-Za-z0-9._-]+`)
)

// FilingMetadata contains information extracted from SEC archive URLs
type FilingMetadata struct {
	CIK       string
	Accession string
	Document  string
}

// ExtractMetadataFromURL parses SEC EDGAR URLs to extract CIK, accession number and document
// Example URL: https://www.sec.gov/Archives/edgar/data/0000320193/000032019324000123/aapl-20240928.htm
func ExtractMetadataFromURL(url string) (*FilingMetadata, error) {
	matches := archivePathPattern.FindStringSubmatch(url)
	if len(matches) < 4 {
		return nil, fmt.Errorf("could not extract CIK and accession from URL")
	}

	// Format accession number: 0000320193-24-000123
	accession := matches[2]
	if len(accession) == 18 {
		accession = accession[:10] + "-" + accession[10:12] + "-" + accession[12:]
	}

	return &FilingMetadata{
		CIK:       matches[1],
		Accession: accession,
		Document:  matches[3],
	}, nil
}

// GenerateFilename creates a filename for saved filing text
// Format: {ticker}_{form}_{accession}.{ext}
// Parts that are unknown are left out.
func GenerateFilename(ticker, form string, meta *FilingMetadata, ext string) string {
	var parts []string
	for _, p := range []string{ticker, form} {
		if p = sanitizeNamePart(p); p != "" {
			parts = append(parts, p)
		}
	}
	if meta != nil && meta.Accession != "" {
		parts = append(parts, meta.Accession)
	}
	if len(parts) == 0 {
		parts = []string{"filing"}
	}
	return strings.Join(parts, "_") + "." + ext
}

func sanitizeNamePart(s string) string {
	return strings.Trim(unsafeNameChars.ReplaceAllString(strings.TrimSpace(s), "-"), "-")
}

// SaveText writes text to path, joined under outputDir when path is relative
// and outputDir is set. It returns the path written.
func SaveText(text, path, outputDir string) (string, error) {
	if outputDir != "" {
		if err := os.MkdirAll(outputDir, 0755); err != nil {
			return "", fmt.Errorf("failed to create output directory: %w", err)
		}
		if !filepath.IsAbs(path) {
			path = filepath.Join(outputDir, path)
		}
	}

	if err := os.WriteFile(path, []byte(text), 0644); err != nil {
		return "", fmt.Errorf("failed to save text: %w", err)
	}
	return path, nil
}

// WriteFilingsCSV writes the FilingColumns header followed by one row per
// filing. The header is written even for an empty listing.
func WriteFilingsCSV(w io.Writer, filings Filings) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(filings.Columns()); err != nil {
		return fmt.Errorf("failed to write CSV header: %w", err)
	}
	for i := range filings {
		if err := cw.Write(filings[i].Record()); err != nil {
			return fmt.Errorf("failed to write CSV row: %w", err)
		}
	}
	cw.Flush()
	return cw.Error()
}

// FormatJSON returns pretty-printed JSON for any listing or record
func FormatJSON(v any) ([]byte, error) {
	return json.MarshalIndent(v, "", "  ")
}
