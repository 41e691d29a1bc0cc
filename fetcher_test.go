package edgar_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/RxDataLab/go-secfi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetSecEmail(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		wantErr bool
	}{
		{"valid", "nicholas@rxdatalab.com", false},
		{"missing", "", true},
		{"malformed", "not-an-email", true},
		{"placeholder domain", "someone@example.com", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv(edgar.SecEmailEnvVar, tt.email)
			email, err := edgar.GetSecEmail()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.email, email)
		})
	}
}

func TestBuildUserAgent(t *testing.T) {
	ua := edgar.BuildUserAgent("nicholas@rxdatalab.com")
	assert.Equal(t, "go-secfi/"+edgar.VERSION+" (nicholas@rxdatalab.com)", ua)
}

// TestRequestTimeout verifies the bound on the JSON endpoints
func TestRequestTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(5 * time.Second):
		}
	}))
	defer srv.Close()

	client := edgar.NewClient("go-secfi-test (nicholas@rxdatalab.com)",
		edgar.WithTickersURL(srv.URL),
		edgar.WithRequestTimeout(50*time.Millisecond),
	)

	_, err := client.LookupIdentifiers(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, edgar.ErrTimeout)
}

// TestLookupIdentifiers_RealSEC fetches the live ticker directory (integration test)
// Skip in short mode to avoid rate limiting
func TestLookupIdentifiers_RealSEC(t *testing.T) {
	if testing.Short() {
		t.Skip("skipping integration test in short mode")
	}
	email, err := edgar.GetSecEmail()
	if err != nil {
		t.Skipf("skipping integration test: %v", err)
	}

	client := edgar.NewClient(edgar.BuildUserAgent(email))
	ids, err := client.LookupIdentifiers(context.Background())
	require.NoError(t, err)

	apple, ok := ids["AAPL"]
	require.True(t, ok)
	assert.Equal(t, "0000320193", apple.PaddedCIK)
}
