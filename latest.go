package edgar

import (
	"context"
	"errors"
	"fmt"
)

// LatestFiling returns the first filing of the given form type in the
// ticker's recent listing. The SEC lists newest first and no re-sorting
// happens here.
func (c *Client) LatestFiling(ctx context.Context, ticker, form string) (Filing, error) {
	filings, err := c.ListFilings(ctx, ticker)
	if err != nil {
		return Filing{}, err
	}

	matches := FilterByForm(filings, form)
	if len(matches) == 0 {
		return Filing{}, fmt.Errorf("%w: %s for %s", ErrFormNotFound, form, ticker)
	}
	return matches[0], nil
}

// ScrapeLatest returns the cleaned text of the ticker's most recent filing of
// the given form type, or "" when there is none. Document fetch failures come
// back as Scrape diagnostics.
func (c *Client) ScrapeLatest(ctx context.Context, ticker, form string) string {
	filing, err := c.LatestFiling(ctx, ticker, form)
	switch {
	case errors.Is(err, ErrFormNotFound):
		c.logger.Warn(fmt.Sprintf("Form %s not found", form), "ticker", ticker)
		return ""
	case errors.Is(err, ErrTickerNotFound):
		c.logger.Warn("ticker not found", "ticker", ticker)
		return ""
	case err != nil:
		c.logger.Warn("failed to list filings", "ticker", ticker, "form", form, "error", err)
		return ""
	}
	if filing.URL == "" {
		return ""
	}
	return c.Scrape(ctx, filing.URL, c.scrapeTimeout)
}
