package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"sort"
	"strconv"
	"time"

	"github.com/RxDataLab/go-secfi"
	"github.com/joho/godotenv"
)

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: secfi <command> [options] [arguments]\n\n")
	fmt.Fprintf(os.Stderr, "Retrieve SEC EDGAR filings and extract their text.\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	fmt.Fprintf(os.Stderr, "  forms                   List known form codes\n")
	fmt.Fprintf(os.Stderr, "  ciks [ticker]           Resolve tickers to CIKs\n")
	fmt.Fprintf(os.Stderr, "  filings <ticker>        List recent filings as CSV or JSON\n")
	fmt.Fprintf(os.Stderr, "  latest <ticker> <form>  Print the text of the latest filing of a form type\n")
	fmt.Fprintf(os.Stderr, "  scrape <url>            Print the cleaned text of a document\n")
	fmt.Fprintf(os.Stderr, "\nExamples:\n")
	fmt.Fprintf(os.Stderr, "  secfi filings -form 10-K AAPL\n")
	fmt.Fprintf(os.Stderr, "  secfi latest -s AAPL 10-Q\n")
	fmt.Fprintf(os.Stderr, "  secfi scrape https://www.sec.gov/Archives/edgar/data/.../aapl-20240928.htm\n")
	fmt.Fprintf(os.Stderr, "\nEnvironment:\n")
	fmt.Fprintf(os.Stderr, "  SEC_EMAIL    Email for SEC User-Agent header (a .env file is read if present)\n")
}

// common holds the flags every network command accepts
type common struct {
	email      string
	configPath string
}

func (c *common) register(fset *flag.FlagSet) {
	fset.StringVar(&c.email, "email", "", "Email for SEC User-Agent header (or use SEC_EMAIL env var)")
	fset.StringVar(&c.email, "e", "", "Email for SEC User-Agent (shorthand)")
	fset.StringVar(&c.configPath, "config", "", "YAML config file")
}

func (c *common) load() (*edgar.Config, error) {
	cfg := &edgar.Config{}
	if c.configPath != "" {
		var err error
		cfg, err = edgar.LoadConfig(c.configPath)
		if err != nil {
			return nil, err
		}
	}
	if c.email != "" {
		cfg.Email = c.email
	}
	return cfg, nil
}

func (c *common) client(logger *slog.Logger) (*edgar.Client, *edgar.Config, error) {
	cfg, err := c.load()
	if err != nil {
		return nil, nil, err
	}
	client, err := cfg.NewClient(logger)
	if err != nil {
		return nil, nil, err
	}
	return client, cfg, nil
}

func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env: %v\n", err)
	}

	if len(os.Args) < 2 {
		usage()
		os.Exit(1)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, nil))
	ctx := context.Background()

	var err error
	switch cmd, args := os.Args[1], os.Args[2:]; cmd {
	case "forms":
		err = runForms(args, logger)
	case "ciks":
		err = runCiks(ctx, args, logger)
	case "filings":
		err = runFilings(ctx, args, logger)
	case "latest":
		err = runLatest(ctx, args, logger)
	case "scrape":
		err = runScrape(ctx, args, logger)
	case "-h", "--help", "help":
		usage()
		return
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", cmd)
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runForms(args []string, logger *slog.Logger) error {
	fset := flag.NewFlagSet("forms", flag.ExitOnError)
	catalogPath := fset.String("catalog", "", "Read form codes from this CSV instead of the bundled table")
	configPath := fset.String("config", "", "YAML config file")
	asJSON := fset.Bool("json", false, "Print JSON instead of CSV")
	fset.Parse(args)

	if *catalogPath == "" && *configPath != "" {
		cfg, err := edgar.LoadConfig(*configPath)
		if err != nil {
			return err
		}
		*catalogPath = cfg.FormsCatalog
	}

	var catalog edgar.FormsCatalog
	if *catalogPath != "" {
		catalog = edgar.LoadFormsCatalogFile(*catalogPath, logger)
	} else {
		catalog = edgar.LoadFormsCatalog(logger)
	}

	if *asJSON {
		data, err := edgar.FormatJSON(catalog)
		if err != nil {
			return fmt.Errorf("failed to format JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}
	for _, f := range catalog {
		fmt.Printf("%s\t%s\n", f.Code, f.Description)
	}
	return nil
}

func runCiks(ctx context.Context, args []string, logger *slog.Logger) error {
	fset := flag.NewFlagSet("ciks", flag.ExitOnError)
	var c common
	c.register(fset)
	fset.Parse(args)

	client, _, err := c.client(logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Fetching company tickers...\n")
	ids, err := client.LookupIdentifiers(ctx)
	if err != nil {
		return err
	}

	if fset.NArg() > 0 {
		ticker := fset.Arg(0)
		id, ok := ids[ticker]
		if !ok {
			return fmt.Errorf("%w: %s", edgar.ErrTickerNotFound, ticker)
		}
		fmt.Printf("%s\t%d\t%s\t%s\n", id.Ticker, id.CIK, id.Title, id.PaddedCIK)
		return nil
	}

	tickers := make([]string, 0, len(ids))
	for t := range ids {
		tickers = append(tickers, t)
	}
	sort.Strings(tickers)
	for _, t := range tickers {
		id := ids[t]
		fmt.Printf("%s\t%d\t%s\t%s\n", id.Ticker, id.CIK, id.Title, id.PaddedCIK)
	}
	return nil
}

func runFilings(ctx context.Context, args []string, logger *slog.Logger) error {
	fset := flag.NewFlagSet("filings", flag.ExitOnError)
	var c common
	c.register(fset)
	form := fset.String("form", "", "Only list filings of this form type")
	from := fset.String("from", "", "Earliest filing date (YYYY-MM-DD)")
	to := fset.String("to", "", "Latest filing date (YYYY-MM-DD)")
	asJSON := fset.Bool("json", false, "Print JSON instead of CSV")
	fset.Parse(args)

	if fset.NArg() < 1 {
		return fmt.Errorf("ticker required")
	}
	ticker := fset.Arg(0)

	fromDate, err := parseDateFlag(*from)
	if err != nil {
		return err
	}
	toDate, err := parseDateFlag(*to)
	if err != nil {
		return err
	}

	client, _, err := c.client(logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Fetching filings for %s...\n", ticker)
	filings, err := client.ListFilings(ctx, ticker)
	if err != nil {
		return err
	}
	if *form != "" {
		filings = edgar.FilterByForm(filings, *form)
	}
	if !fromDate.IsZero() || !toDate.IsZero() {
		filings = edgar.FilterByDateRange(filings, fromDate, toDate)
	}
	fmt.Fprintf(os.Stderr, "Found %d filings\n", len(filings))

	if *asJSON {
		data, err := edgar.FormatJSON(filings)
		if err != nil {
			return fmt.Errorf("failed to format JSON: %w", err)
		}
		fmt.Println(string(data))
		return nil
	}
	return edgar.WriteFilingsCSV(os.Stdout, filings)
}

func runLatest(ctx context.Context, args []string, logger *slog.Logger) error {
	fset := flag.NewFlagSet("latest", flag.ExitOnError)
	var c common
	c.register(fset)
	var (
		outputPath string
		save       bool
	)
	fset.StringVar(&outputPath, "output", "", "Write the text to this file (default: stdout)")
	fset.StringVar(&outputPath, "o", "", "Write the text to this file (shorthand)")
	fset.BoolVar(&save, "save", false, "Save the text under ./output with a generated name")
	fset.BoolVar(&save, "s", false, "Save the text under ./output (shorthand)")
	fset.Parse(args)

	if fset.NArg() < 2 {
		return fmt.Errorf("ticker and form required")
	}
	ticker, form := fset.Arg(0), fset.Arg(1)

	client, cfg, err := c.client(logger)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Looking up latest %s for %s...\n", form, ticker)
	filing, err := client.LatestFiling(ctx, ticker, form)
	if err != nil {
		return err
	}

	fmt.Fprintf(os.Stderr, "Fetching from SEC: %s\n", filing.URL)
	text := client.Scrape(ctx, filing.URL, cfg.ScrapeTimeout())

	if outputPath == "" && !save {
		fmt.Println(text)
		return nil
	}

	outputDir := ""
	if outputPath == "" {
		meta, err := edgar.ExtractMetadataFromURL(filing.URL)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: %v\n", err)
		}
		outputPath = edgar.GenerateFilename(ticker, form, meta, "txt")
		outputDir = "./output"
	}
	path, err := edgar.SaveText(text, outputPath, outputDir)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stderr, "Saved text: %s\n", path)
	return nil
}

func runScrape(ctx context.Context, args []string, logger *slog.Logger) error {
	fset := flag.NewFlagSet("scrape", flag.ExitOnError)
	var c common
	c.register(fset)
	timeout := fset.Int("timeout", 0, "Request timeout in seconds (default 15 or config scrape_timeout_sec)")
	fset.Parse(args)

	if fset.NArg() < 1 {
		return fmt.Errorf("url required")
	}

	client, cfg, err := c.client(logger)
	if err != nil {
		return err
	}

	d := cfg.ScrapeTimeout()
	if *timeout > 0 {
		d = time.Duration(*timeout) * time.Second
	}

	fmt.Fprintf(os.Stderr, "Fetching from SEC: %s\n", fset.Arg(0))
	fmt.Println(client.Scrape(ctx, fset.Arg(0), d))
	return nil
}

func parseDateFlag(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(edgar.DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %s: want YYYY-MM-DD", strconv.Quote(s))
	}
	return t, nil
}
