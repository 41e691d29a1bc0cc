package edgar

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net"
	"net/http"
	"os"
	"regexp"
	"strings"
	"time"
)

const (
	VERSION = "0.1.0"

	// SecEmailEnvVar is the environment variable name for SEC email
	SecEmailEnvVar = "SEC_EMAIL"

	// DefaultTickersURL lists every ticker with its CIK
	DefaultTickersURL = "https://www.sec.gov/files/company_tickers.json"

	// DefaultSubmissionsURL is the base for CIK{padded}.json submission feeds
	DefaultSubmissionsURL = "https://data.sec.gov/submissions"

	// DefaultArchivesURL is the base for filing documents
	DefaultArchivesURL = "https://www.sec.gov/Archives/edgar/data"

	// DefaultRequestTimeout bounds the ticker and submissions requests
	DefaultRequestTimeout = 30 * time.Second

	// DefaultScrapeTimeout bounds a document fetch when no timeout is given
	DefaultScrapeTimeout = 15 * time.Second
)

var emailRegex = regexp.MustCompile(`^[a-zA-Z0-9._%+\-]+@[a-zA-Z0-9.\-]+\.[a-zA-Z]{2,}$`)

// GetSecEmail retrieves email from environment variable or returns error
func GetSecEmail() (string, error) {
	email := os.Getenv(SecEmailEnvVar)
	if email == "" {
		return "", fmt.Errorf("SEC email required: set %s environment variable or use --email flag", SecEmailEnvVar)
	}
	if err := ValidateEmail(email); err != nil {
		return "", err
	}
	return email, nil
}

// ValidateEmail checks that an address is usable as an SEC contact
func ValidateEmail(email string) error {
	if !emailRegex.MatchString(email) {
		return fmt.Errorf("invalid email format: %s", email)
	}
	if strings.HasSuffix(email, "example.com") {
		return fmt.Errorf("use a real email address, not example.com: %s", email)
	}
	return nil
}

// BuildUserAgent creates a proper SEC User-Agent string
func BuildUserAgent(email string) string {
	return fmt.Sprintf("go-secfi/%s (%s)", VERSION, email)
}

// Client talks to the SEC EDGAR endpoints. It holds only configuration,
// so one Client can be shared between goroutines.
type Client struct {
	httpClient     *http.Client
	userAgent      string
	requestTimeout time.Duration
	scrapeTimeout  time.Duration
	tickersURL     string
	submissionsURL string
	archivesURL    string
	logger         *slog.Logger
}

// ClientOption customizes a Client
type ClientOption func(*Client)

// WithHTTPClient replaces the underlying http.Client
func WithHTTPClient(httpClient *http.Client) ClientOption {
	return func(c *Client) { c.httpClient = httpClient }
}

// WithRequestTimeout bounds the ticker and submissions requests.
// Zero disables the bound.
func WithRequestTimeout(d time.Duration) ClientOption {
	return func(c *Client) { c.requestTimeout = d }
}

// WithScrapeTimeout sets the timeout used when a document fetch does not name one
func WithScrapeTimeout(d time.Duration) ClientOption {
	return func(c *Client) {
		if d > 0 {
			c.scrapeTimeout = d
		}
	}
}

// WithTickersURL overrides the company tickers endpoint
func WithTickersURL(url string) ClientOption {
	return func(c *Client) { c.tickersURL = url }
}

// WithSubmissionsURL overrides the submissions base URL
func WithSubmissionsURL(url string) ClientOption {
	return func(c *Client) { c.submissionsURL = strings.TrimRight(url, "/") }
}

// WithArchivesURL overrides the archives base URL used to build document links
func WithArchivesURL(url string) ClientOption {
	return func(c *Client) { c.archivesURL = strings.TrimRight(url, "/") }
}

// WithLogger sets where diagnostics from the lenient helpers are written
func WithLogger(logger *slog.Logger) ClientOption {
	return func(c *Client) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewClient creates a client that identifies itself with userAgent on every
// request. The SEC requires a traceable contact; see BuildUserAgent.
func NewClient(userAgent string, opts ...ClientOption) *Client {
	c := &Client{
		httpClient:     &http.Client{},
		userAgent:      userAgent,
		requestTimeout: DefaultRequestTimeout,
		scrapeTimeout:  DefaultScrapeTimeout,
		tickersURL:     DefaultTickersURL,
		submissionsURL: DefaultSubmissionsURL,
		archivesURL:    DefaultArchivesURL,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// UserAgent returns the identification header value sent with each request
func (c *Client) UserAgent() string {
	return c.userAgent
}

type response struct {
	status int
	header http.Header
	body   []byte
}

// fetch performs one GET and reads the whole body while the deadline is
// still in force.
func (c *Client) fetch(ctx context.Context, url string, timeout time.Duration) (*response, error) {
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		if isTimeout(err) {
			return nil, fmt.Errorf("%w: %w", ErrTimeout, err)
		}
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	return &response{status: resp.StatusCode, header: resp.Header, body: body}, nil
}

// getJSON fetches url with the request timeout and decodes a 2xx body into v
func (c *Client) getJSON(ctx context.Context, url string, v any) error {
	resp, err := c.fetch(ctx, url, c.requestTimeout)
	if err != nil {
		return err
	}
	if resp.status < 200 || resp.status > 299 {
		return &StatusError{URL: url, StatusCode: resp.status}
	}
	if err := json.Unmarshal(resp.body, v); err != nil {
		return fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}
	return nil
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var netErr net.Error
	return errors.As(err, &netErr) && netErr.Timeout()
}
