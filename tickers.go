package edgar

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"strconv"
	"strings"
)

// maxCIK is the largest identifier that fits in ten digits
const maxCIK = 9999999999

// Identifier maps a ticker to the SEC's Central Index Key
type Identifier struct {
	Ticker    string `json:"ticker"`
	CIK       int64  `json:"cik_str"`
	Title     string `json:"title"`
	PaddedCIK string `json:"cik"`
}

// tickerEntry is one value of company_tickers.json. Pointers tell a missing
// field apart from a zero one.
type tickerEntry struct {
	CIK    *int64  `json:"cik_str"`
	Ticker *string `json:"ticker"`
	Title  string  `json:"title"`
}

// PadCIK renders a CIK zero-padded to 10 digits
func PadCIK(cik int64) string {
	return fmt.Sprintf("%010d", cik)
}

// LookupIdentifiers downloads the ticker directory and indexes it by ticker.
// Every call fetches a fresh copy.
func (c *Client) LookupIdentifiers(ctx context.Context) (map[string]Identifier, error) {
	var raw map[string]tickerEntry
	if err := c.getJSON(ctx, c.tickersURL, &raw); err != nil {
		return nil, fmt.Errorf("failed to fetch company tickers: %w", err)
	}
	return buildIdentifiers(raw)
}

// FetchIdentifiers is LookupIdentifiers for callers that must not fail.
// Errors are logged and an empty map is returned.
func (c *Client) FetchIdentifiers(ctx context.Context) map[string]Identifier {
	ids, err := c.LookupIdentifiers(ctx)
	if err != nil {
		c.logger.Error("failed to load identifiers", "error", err)
		return map[string]Identifier{}
	}
	return ids
}

// buildIdentifiers walks the positional keys in numeric order so that the
// first listing of a duplicated ticker wins.
func buildIdentifiers(raw map[string]tickerEntry) (map[string]Identifier, error) {
	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	slices.SortFunc(keys, comparePositional)

	ids := make(map[string]Identifier, len(raw))
	for _, k := range keys {
		entry := raw[k]
		if entry.Ticker == nil || entry.CIK == nil {
			return nil, fmt.Errorf("%w: entry %s missing ticker or cik_str", ErrMalformedResponse, k)
		}
		if *entry.CIK < 0 || *entry.CIK > maxCIK {
			return nil, fmt.Errorf("%w: entry %s has out of range cik_str %d", ErrMalformedResponse, k, *entry.CIK)
		}
		if _, seen := ids[*entry.Ticker]; seen {
			continue
		}
		ids[*entry.Ticker] = Identifier{
			Ticker:    *entry.Ticker,
			CIK:       *entry.CIK,
			Title:     entry.Title,
			PaddedCIK: PadCIK(*entry.CIK),
		}
	}
	return ids, nil
}

func comparePositional(a, b string) int {
	ai, aErr := strconv.Atoi(a)
	bi, bErr := strconv.Atoi(b)
	switch {
	case aErr == nil && bErr == nil:
		return cmp.Compare(ai, bi)
	case aErr == nil:
		return -1
	case bErr == nil:
		return 1
	}
	return strings.Compare(a, b)
}
