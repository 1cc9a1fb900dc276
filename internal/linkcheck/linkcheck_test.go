package linkcheck_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zcrawl/zcrawl/internal/linkcheck"
)

func fastChecker() *linkcheck.Checker {
	return linkcheck.New(linkcheck.Config{
		Delay:       time.Millisecond,
		Parallelism: 2,
		Timeout:     5 * time.Second,
	}, nil)
}

func newSite(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/ok", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("fine"))
	})
	mux.HandleFunc("/missing", func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "gone", http.StatusNotFound)
	})
	mux.HandleFunc("/redirect", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/ok", http.StatusFound)
	})
	srv := httptest.NewServer(mux)
	t.Cleanup(srv.Close)
	return srv
}

func TestCheckReportsStatuses(t *testing.T) {
	t.Parallel()

	srv := newSite(t)
	urls := []string{
		srv.URL + "/ok",
		srv.URL + "/missing",
		srv.URL + "/redirect",
	}

	report, err := fastChecker().Check(context.Background(), urls)
	require.NoError(t, err)
	require.Len(t, report.Results, 3)

	assert.Equal(t, urls[0], report.Results[0].URL)
	assert.True(t, report.Results[0].OK)
	assert.Equal(t, http.StatusOK, report.Results[0].StatusCode)

	assert.Equal(t, urls[1], report.Results[1].URL)
	assert.False(t, report.Results[1].OK)
	assert.Equal(t, http.StatusNotFound, report.Results[1].StatusCode)
	assert.NoError(t, report.Results[1].Err)

	// The redirect is followed and the terminal status lands on the
	// original link.
	assert.Equal(t, urls[2], report.Results[2].URL)
	assert.True(t, report.Results[2].OK)
	assert.Equal(t, http.StatusOK, report.Results[2].StatusCode)

	assert.Equal(t, 2, report.Healthy)
	assert.Equal(t, 1, report.Broken)
}

func TestCheckRecordsTransportErrors(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.NotFoundHandler())
	dead := srv.URL + "/anything"
	srv.Close()

	report, err := fastChecker().Check(context.Background(), []string{dead})
	require.NoError(t, err)
	require.Len(t, report.Results, 1)

	assert.False(t, report.Results[0].OK)
	assert.Error(t, report.Results[0].Err)
	assert.Zero(t, report.Results[0].StatusCode)
	assert.Equal(t, 1, report.Broken)
}

func TestCheckCollapsesDuplicates(t *testing.T) {
	t.Parallel()

	srv := newSite(t)
	url := srv.URL + "/ok"

	report, err := fastChecker().Check(context.Background(), []string{url, url, url})
	require.NoError(t, err)

	require.Len(t, report.Results, 1)
	assert.Equal(t, 1, report.Healthy)
}

func TestCheckEmptyInput(t *testing.T) {
	t.Parallel()

	report, err := fastChecker().Check(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, report.Results)
	assert.Zero(t, report.Healthy)
	assert.Zero(t, report.Broken)
}

func TestCheckCancelledContext(t *testing.T) {
	t.Parallel()

	srv := newSite(t)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := fastChecker().Check(ctx, []string{srv.URL + "/ok"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
	require.NotNil(t, report)
	assert.Zero(t, report.Healthy)
}

func TestBrokenLinks(t *testing.T) {
	t.Parallel()

	srv := newSite(t)
	report, err := fastChecker().Check(context.Background(), []string{
		srv.URL + "/ok",
		srv.URL + "/missing",
	})
	require.NoError(t, err)

	broken := report.BrokenLinks()
	require.Len(t, broken, 1)
	assert.Equal(t, srv.URL+"/missing", broken[0].URL)
}
