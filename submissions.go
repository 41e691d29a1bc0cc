package edgar

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// DateLayout is the SEC's format for filing and report dates
const DateLayout = "2006-01-02"

// FilingColumns is the fixed column set of a filing listing
var FilingColumns = []string{
	"filingDate",
	"reportDate",
	"form",
	"filmNumber",
	"size",
	"isXBRL",
	"url",
	"acceptanceDateTime",
}

// Submissions is the subset of the SEC submissions feed this package reads
type Submissions struct {
	CIK     string      `json:"cik"`
	Name    string      `json:"name"`
	Tickers []string    `json:"tickers"`
	Filings FilingsData `json:"filings"`
}

// FilingsData contains the recent filings block
type FilingsData struct {
	Recent *FilingArrays `json:"recent"`
}

// FilingArrays contains parallel arrays of filing data
// Each index in the arrays represents one filing
type FilingArrays struct {
	AccessionNumber    []string `json:"accessionNumber"`
	FilingDate         []string `json:"filingDate"`
	ReportDate         []string `json:"reportDate"`
	AcceptanceDateTime []string `json:"acceptanceDateTime"`
	Form               []string `json:"form"`
	FilmNumber         []string `json:"filmNumber"`
	Size               []int    `json:"size"`
	IsXBRL             []int    `json:"isXBRL"`
	PrimaryDocument    []string `json:"primaryDocument"`
}

// Filing is one row of a filing listing
type Filing struct {
	FilingDate         time.Time `json:"filingDate"`
	ReportDate         time.Time `json:"reportDate"`
	Form               string    `json:"form"`
	FilmNumber         string    `json:"filmNumber"`
	Size               int       `json:"size"`
	IsXBRL             bool      `json:"isXBRL"`
	URL                string    `json:"url"`
	AcceptanceDateTime time.Time `json:"acceptanceDateTime"`

	// Source fields the URL is derived from
	CIK             string `json:"-"`
	AccessionNumber string `json:"-"`
	PrimaryDocument string `json:"-"`
}

// Filings is an ordered filing listing, most recent first as delivered by the SEC
type Filings []Filing

// Columns returns the listing's column names. They do not depend on the rows.
func (Filings) Columns() []string {
	return append([]string(nil), FilingColumns...)
}

// Record renders the filing in FilingColumns order
func (f *Filing) Record() []string {
	return []string{
		formatDate(f.FilingDate),
		formatDate(f.ReportDate),
		f.Form,
		f.FilmNumber,
		strconv.Itoa(f.Size),
		strconv.FormatBool(f.IsXBRL),
		f.URL,
		formatTimestamp(f.AcceptanceDateTime),
	}
}

// MarshalJSON writes the dates the way Record does, so an absent date is ""
// rather than the zero time.
func (f Filing) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		FilingDate         string `json:"filingDate"`
		ReportDate         string `json:"reportDate"`
		Form               string `json:"form"`
		FilmNumber         string `json:"filmNumber"`
		Size               int    `json:"size"`
		IsXBRL             bool   `json:"isXBRL"`
		URL                string `json:"url"`
		AcceptanceDateTime string `json:"acceptanceDateTime"`
	}{
		FilingDate:         formatDate(f.FilingDate),
		ReportDate:         formatDate(f.ReportDate),
		Form:               f.Form,
		FilmNumber:         f.FilmNumber,
		Size:               f.Size,
		IsXBRL:             f.IsXBRL,
		URL:                f.URL,
		AcceptanceDateTime: formatTimestamp(f.AcceptanceDateTime),
	})
}

// ParseSubmissions parses a submissions JSON from a reader (for local files or testing)
func ParseSubmissions(r io.Reader) (*Submissions, error) {
	var subs Submissions
	if err := json.NewDecoder(r).Decode(&subs); err != nil {
		return nil, fmt.Errorf("failed to parse submissions JSON: %w: %w", ErrMalformedResponse, err)
	}
	return &subs, nil
}

// SubmissionsURL returns the submissions feed location for a padded CIK
func (c *Client) SubmissionsURL(paddedCIK string) string {
	return fmt.Sprintf("%s/CIK%s.json", c.submissionsURL, paddedCIK)
}

// FetchSubmissions fetches and parses the submissions feed for a padded CIK
func (c *Client) FetchSubmissions(ctx context.Context, paddedCIK string) (*Submissions, error) {
	var subs Submissions
	if err := c.getJSON(ctx, c.SubmissionsURL(paddedCIK), &subs); err != nil {
		return nil, fmt.Errorf("failed to fetch submissions: %w", err)
	}
	return &subs, nil
}

// ListFilings resolves ticker and returns its recent filings in upstream
// order. An unknown ticker yields ErrTickerNotFound with an empty listing.
func (c *Client) ListFilings(ctx context.Context, ticker string) (Filings, error) {
	ids, err := c.LookupIdentifiers(ctx)
	if err != nil {
		return Filings{}, err
	}
	id, ok := ids[ticker]
	if !ok {
		return Filings{}, fmt.Errorf("%w: %s", ErrTickerNotFound, ticker)
	}

	subs, err := c.FetchSubmissions(ctx, id.PaddedCIK)
	if err != nil {
		return Filings{}, err
	}
	if subs.Filings.Recent == nil {
		return Filings{}, fmt.Errorf("%w: submissions for %s have no recent filings block", ErrMalformedResponse, id.PaddedCIK)
	}

	filings, err := subs.Filings.Recent.GetFilings(id.PaddedCIK, c.archivesURL)
	if err != nil {
		return Filings{}, err
	}
	return filings, nil
}

// FetchFilings is ListFilings for callers that must not fail.
// Errors are logged and an empty listing is returned.
func (c *Client) FetchFilings(ctx context.Context, ticker string) Filings {
	filings, err := c.ListFilings(ctx, ticker)
	if err != nil {
		c.logger.Warn("ticker not found", "ticker", ticker, "error", err)
		return Filings{}
	}
	return filings
}

// GetFilings converts the parallel arrays into Filing rows. Arrays shorter
// than accessionNumber leave the corresponding fields empty, except
// primaryDocument which every URL needs.
func (fa *FilingArrays) GetFilings(paddedCIK, archivesURL string) (Filings, error) {
	count := len(fa.AccessionNumber)
	if len(fa.PrimaryDocument) < count {
		return nil, fmt.Errorf("%w: %d accession numbers but %d primary documents",
			ErrMalformedResponse, count, len(fa.PrimaryDocument))
	}

	filings := make(Filings, count)
	for i := 0; i < count; i++ {
		filing := Filing{
			CIK:             paddedCIK,
			AccessionNumber: fa.AccessionNumber[i],
			PrimaryDocument: fa.PrimaryDocument[i],
		}

		// Handle optional fields with bounds checking
		var err error
		if i < len(fa.FilingDate) {
			if filing.FilingDate, err = parseDate(fa.FilingDate[i]); err != nil {
				return nil, fmt.Errorf("%w: filing %s: %w", ErrMalformedResponse, filing.AccessionNumber, err)
			}
		}
		if i < len(fa.ReportDate) {
			if filing.ReportDate, err = parseDate(fa.ReportDate[i]); err != nil {
				return nil, fmt.Errorf("%w: filing %s: %w", ErrMalformedResponse, filing.AccessionNumber, err)
			}
		}
		if i < len(fa.AcceptanceDateTime) {
			if filing.AcceptanceDateTime, err = parseTimestamp(fa.AcceptanceDateTime[i]); err != nil {
				return nil, fmt.Errorf("%w: filing %s: %w", ErrMalformedResponse, filing.AccessionNumber, err)
			}
		}
		if i < len(fa.Form) {
			filing.Form = fa.Form[i]
		}
		if i < len(fa.FilmNumber) {
			filing.FilmNumber = fa.FilmNumber[i]
		}
		if i < len(fa.Size) {
			filing.Size = fa.Size[i]
		}
		if i < len(fa.IsXBRL) {
			filing.IsXBRL = fa.IsXBRL[i] != 0
		}

		filing.URL = filing.BuildURL(archivesURL)
		filings[i] = filing
	}

	return filings, nil
}

// BuildURL constructs the document URL for this filing:
// {archives}/{paddedCIK}/{accession without dashes}/{primaryDocument}
func (f *Filing) BuildURL(archivesURL string) string {
	accessionPath := strings.ReplaceAll(f.AccessionNumber, "-", "")
	return fmt.Sprintf("%s/%s/%s/%s", strings.TrimRight(archivesURL, "/"), f.CIK, accessionPath, f.PrimaryDocument)
}

// FilterByForm returns filings whose form type equals formType exactly,
// keeping their order
func FilterByForm(filings Filings, formType string) Filings {
	filtered := Filings{}
	for _, f := range filings {
		if f.Form == formType {
			filtered = append(filtered, f)
		}
	}
	return filtered
}

// FilterByDateRange filters filings by filing date (inclusive).
// A zero bound leaves that side open.
func FilterByDateRange(filings Filings, from, to time.Time) Filings {
	filtered := Filings{}
	for _, f := range filings {
		if !from.IsZero() && f.FilingDate.Before(from) {
			continue
		}
		if !to.IsZero() && f.FilingDate.After(to) {
			continue
		}
		filtered = append(filtered, f)
	}
	return filtered
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q", s)
	}
	return t, nil
}

func parseTimestamp(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid timestamp %q", s)
	}
	return t, nil
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(DateLayout)
}

func formatTimestamp(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(time.RFC3339Nano)
}
