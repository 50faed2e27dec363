package feed

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
	"time"

	"ao3feed-backend/lib/scrapers/ao3"
	"ao3feed-backend/lib/telemetry"

	"github.com/stretchr/testify/require"
)

func readFixture(t *testing.T) string {
	contents, err := os.ReadFile("testdata/work.html")
	require.NoError(t, err)
	return string(contents)
}

// stands in for the remote archive, serving `page` with an optional delay
func setupUpstream(t *testing.T, page string, delay time.Duration) *httptest.Server {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /works/{id}", func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "true", r.URL.Query().Get("view_adult"))
		require.Equal(t, "true", r.URL.Query().Get("view_full_work"))
		time.Sleep(delay)
		w.Write([]byte(page))
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func setupService(t *testing.T, upstreamUrl string, interval time.Duration) *httptest.Server {
	cleanup := telemetry.SetupForTesting(t, "services/feed")
	t.Cleanup(cleanup)

	client, err := ao3.NewClient(context.Background(), ao3.ClientOptions{
		BaseUrl: upstreamUrl,
	})
	require.NoError(t, err)

	mux := http.NewServeMux()
	NewService(client, Options{HeartbeatInterval: interval}).Register(mux)

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestWorkFeedEndToEnd(t *testing.T) {
	upstream := setupUpstream(t, readFixture(t), 0)
	server := setupService(t, upstream.URL, time.Hour)

	res, err := http.Get(server.URL + "/work/12345")
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)
	require.Equal(t, "application/rss+xml", res.Header.Get("Content-Type"))

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	rss := string(body)

	// the upstream answers before the first interval elapses
	require.NotContains(t, rss, heartbeat)
	require.Contains(t, rss, "<title>Sample Fic</title>")
	require.Contains(t, rss, "<pubDate>Wed, 01 Jan 2020 00:00:00 +0000</pubDate>")
	require.Contains(t, rss, "<lastBuildDate>Thu, 02 Jan 2020 00:00:00 +0000</lastBuildDate>")
	require.Equal(t, 2, strings.Count(rss, "<item>"))

	first := strings.Index(rss, upstream.URL+"/works/12345/chapters/111")
	second := strings.Index(rss, upstream.URL+"/works/12345/chapters/222")
	require.Greater(t, first, -1)
	require.Greater(t, second, first)
	require.Contains(t, rss, "<content:encoded><![CDATA[<p>Once upon a time there was a sample.</p>]]></content:encoded>")
}

func TestWorkFeedKeepaliveFiller(t *testing.T) {
	upstream := setupUpstream(t, readFixture(t), 150*time.Millisecond)
	server := setupService(t, upstream.URL, 60*time.Millisecond)

	res, err := http.Get(server.URL + "/work/12345")
	require.NoError(t, err)
	defer res.Body.Close()

	require.Equal(t, http.StatusOK, res.StatusCode)

	body, err := io.ReadAll(res.Body)
	require.NoError(t, err)
	rss := string(body)

	require.True(t, strings.HasPrefix(rss, heartbeat))

	// the filler never interleaves with the payload, it only precedes it
	payload := rss
	for strings.HasPrefix(payload, heartbeat) {
		payload = strings.TrimPrefix(payload, heartbeat)
	}
	require.NotContains(t, payload, heartbeat)
	require.Contains(t, payload, "<title>Sample Fic</title>")
	require.Equal(t, 2, strings.Count(rss, "<item>"))
}

func TestWorkFeedBadId(t *testing.T) {
	upstream := setupUpstream(t, readFixture(t), 0)
	server := setupService(t, upstream.URL, time.Hour)

	res, err := http.Get(server.URL + "/work/not-a-number")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusBadRequest, res.StatusCode)
}

func TestWorkFeedNotAWork(t *testing.T) {
	upstream := setupUpstream(t, "<html><body>This work is unavailable.</body></html>", 0)
	server := setupService(t, upstream.URL, time.Hour)

	res, err := http.Get(server.URL + "/work/12345")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusNotFound, res.StatusCode)
}

func TestWorkFeedUpstreamDown(t *testing.T) {
	upstream := setupUpstream(t, readFixture(t), 0)
	upstream.Close()
	server := setupService(t, upstream.URL, time.Hour)

	res, err := http.Get(server.URL + "/work/12345")
	require.NoError(t, err)
	defer res.Body.Close()
	require.Equal(t, http.StatusBadGateway, res.StatusCode)
}
