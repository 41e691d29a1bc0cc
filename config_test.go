package edgar

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestLoadConfig(t *testing.T) {
	path := writeConfig(t, `
email: nicholas@rxdatalab.com
request_timeout_sec: 10
scrape_timeout_sec: 45
archives_url: https://mirror.test/Archives/edgar/data/
forms_catalog: info/sec_forms.csv
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "nicholas@rxdatalab.com", cfg.Email)
	assert.Equal(t, 45*time.Second, cfg.ScrapeTimeout())
	assert.Equal(t, "info/sec_forms.csv", cfg.FormsCatalog)

	client, err := cfg.NewClient(discardLogger())
	require.NoError(t, err)
	assert.Equal(t, BuildUserAgent("nicholas@rxdatalab.com"), client.UserAgent())
	assert.Equal(t, 10*time.Second, client.requestTimeout)
	assert.Equal(t, 45*time.Second, client.scrapeTimeout)
	assert.Equal(t, "https://mirror.test/Archives/edgar/data", client.archivesURL)
	assert.Equal(t, DefaultTickersURL, client.tickersURL)
}

func TestLoadConfig_Errors(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "email: [unterminated"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "scrape_timeout_sec: -1"))
	assert.Error(t, err)

	_, err = LoadConfig(writeConfig(t, "request_timeout_sec: -5"))
	assert.Error(t, err)
}

func TestLoadConfig_UnboundedRequestTimeout(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "email: nicholas@rxdatalab.com\nrequest_timeout_sec: 0\n"))
	require.NoError(t, err)
	require.NotNil(t, cfg.RequestTimeoutSec)

	client, err := cfg.NewClient(discardLogger())
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), client.requestTimeout)

	// Leaving the key out keeps the default
	cfg, err = LoadConfig(writeConfig(t, "email: nicholas@rxdatalab.com\n"))
	require.NoError(t, err)
	assert.Nil(t, cfg.RequestTimeoutSec)

	client, err = cfg.NewClient(discardLogger())
	require.NoError(t, err)
	assert.Equal(t, DefaultRequestTimeout, client.requestTimeout)
}

func TestResolveUserAgent(t *testing.T) {
	t.Setenv(SecEmailEnvVar, "ops@rxdatalab.com")

	ua, err := (&Config{UserAgent: "Research Desk research@rxdatalab.com"}).ResolveUserAgent()
	require.NoError(t, err)
	assert.Equal(t, "Research Desk research@rxdatalab.com", ua)

	ua, err = (&Config{Email: "nicholas@rxdatalab.com"}).ResolveUserAgent()
	require.NoError(t, err)
	assert.Equal(t, BuildUserAgent("nicholas@rxdatalab.com"), ua)

	ua, err = (&Config{}).ResolveUserAgent()
	require.NoError(t, err)
	assert.Equal(t, BuildUserAgent("ops@rxdatalab.com"), ua)

	_, err = (&Config{Email: "someone@example.com"}).ResolveUserAgent()
	assert.Error(t, err)

	t.Setenv(SecEmailEnvVar, "")
	_, err = (&Config{}).NewClient(nil)
	assert.Error(t, err)
}

func TestConfigDefaults(t *testing.T) {
	cfg := &Config{Email: "nicholas@rxdatalab.com"}
	assert.Equal(t, DefaultScrapeTimeout, cfg.ScrapeTimeout())

	client, err := cfg.NewClient(nil)
	require.NoError(t, err)
	assert.Equal(t, DefaultRequestTimeout, client.requestTimeout)
	assert.Equal(t, DefaultSubmissionsURL, client.submissionsURL)
	assert.NotNil(t, client.logger)
}
