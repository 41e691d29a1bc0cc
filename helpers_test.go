package edgar

import (
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
)

const testUserAgent = "go-secfi-test (nicholas@rxdatalab.com)"

// secServer serves the testdata fixtures under the same paths the SEC uses
// and records the User-Agent of every request.
type secServer struct {
	*httptest.Server

	mu         sync.Mutex
	userAgents []string
}

func newSECServer(t *testing.T) *secServer {
	t.Helper()

	s := &secServer{}
	mux := http.NewServeMux()
	mux.HandleFunc("/files/company_tickers.json", s.serveFile(t, "testdata/company_tickers.json", "application/json"))
	mux.HandleFunc("/submissions/CIK0000320193.json", s.serveFile(t, "testdata/submissions/CIK0000320193.json", "application/json"))
	mux.HandleFunc("/Archives/edgar/data/0000320193/000032019324000081/aapl-20240629.htm",
		s.serveFile(t, "testdata/archives/aapl-20240629.htm", "text/html; charset=utf-8"))
	mux.HandleFunc("/Archives/edgar/data/0000320193/000032019323000106/aapl-20230930.htm",
		s.serveFile(t, "testdata/archives/aapl-20230930.htm", "text/html"))

	s.Server = httptest.NewServer(mux)
	t.Cleanup(s.Close)
	return s
}

func (s *secServer) serveFile(t *testing.T, path, contentType string) http.HandlerFunc {
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("Failed to read fixture %s: %v", path, err)
	}
	return func(w http.ResponseWriter, r *http.Request) {
		s.mu.Lock()
		s.userAgents = append(s.userAgents, r.Header.Get("User-Agent"))
		s.mu.Unlock()

		w.Header().Set("Content-Type", contentType)
		w.Write(data)
	}
}

func (s *secServer) seenUserAgents() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]string(nil), s.userAgents...)
}

// client returns a Client pointed at the fixture server
func (s *secServer) client(opts ...ClientOption) *Client {
	base := []ClientOption{
		WithTickersURL(s.URL + "/files/company_tickers.json"),
		WithSubmissionsURL(s.URL + "/submissions"),
		WithArchivesURL(s.URL + "/Archives/edgar/data"),
		WithLogger(discardLogger()),
	}
	return NewClient(testUserAgent, append(base, opts...)...)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}
