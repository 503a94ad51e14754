package fetcher

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
)

func newTestClient() *Client {
	log := logrus.New()
	log.SetLevel(logrus.ErrorLevel)
	return NewClient("hn-scraper-test", 5*time.Second, 6000, log)
}

func TestFetchSuccess(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "hn-scraper-test", r.Header.Get("User-Agent"))
		w.Write([]byte("<html><body>ok</body></html>"))
	}))
	defer server.Close()

	body, err := newTestClient().Fetch(context.Background(), server.URL)
	assert.NoError(t, err)
	assert.Contains(t, body, "ok")
}

func TestFetchNonSuccessStatus(t *testing.T) {
	tests := []struct {
		name   string
		status int
	}{
		{"Not found", http.StatusNotFound},
		{"Server error", http.StatusInternalServerError},
		{"Rate limited", http.StatusTooManyRequests},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tc.status)
			}))
			defer server.Close()

			_, err := newTestClient().Fetch(context.Background(), server.URL)
			assert.Error(t, err)

			httpErr, ok := IsHTTPError(err)
			assert.True(t, ok)
			assert.Equal(t, tc.status, httpErr.StatusCode)
		})
	}
}

func TestFetchConnectionFailure(t *testing.T) {
	// grab an address nothing is listening on
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	_, err := newTestClient().Fetch(context.Background(), url)
	assert.Error(t, err)

	_, ok := IsHTTPError(err)
	assert.False(t, ok, "transport failures should not be HTTPErrors")
}

func TestFetchCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newTestClient().Fetch(ctx, "https://news.ycombinator.com/front")
	assert.Error(t, err)
}
