package downloader

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/patrondl/internal/common"
	"github.com/ternarybob/patrondl/internal/interfaces"
	"github.com/ternarybob/patrondl/internal/models"
	"github.com/ternarybob/patrondl/internal/services/events"
)

func testConfig() common.DownloadConfig {
	return common.DownloadConfig{
		RequestTimeout: 5 * time.Second,
		RatePerSecond:  1000, // Effectively unlimited for tests
	}
}

func TestDownload_FetchesFilesAndRaisesEvents(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "payload:"+r.URL.Path)
	}))
	defer server.Close()

	eventService := events.NewService(arbor.NewLogger())
	var downloadedEvents []models.FileDownloadedPayload
	require.NoError(t, eventService.Subscribe(interfaces.EventFileDownloaded, func(ctx context.Context, event interfaces.Event) error {
		downloadedEvents = append(downloadedEvents, event.Payload.(models.FileDownloadedPayload))
		return nil
	}))

	dir := t.TempDir()
	svc := NewService(server.Client(), eventService, testConfig(), arbor.NewLogger())

	urls := []*models.CrawledUrl{
		{Url: server.URL + "/a.png", Filename: "a.png"},
		{Url: server.URL + "/b.zip", Filename: "b.zip"},
	}
	require.NoError(t, svc.Download(context.Background(), urls, nil, dir))

	for _, name := range []string{"a.png", "b.zip"} {
		data, err := os.ReadFile(filepath.Join(dir, name))
		require.NoError(t, err)
		assert.Contains(t, string(data), "payload:")
	}

	require.Len(t, downloadedEvents, 2)
	assert.Equal(t, server.URL+"/a.png", downloadedEvents[0].Url)
	assert.Equal(t, filepath.Join(dir, "a.png"), downloadedEvents[0].LocalPath)
}

func TestDownload_SkipsExistingWithoutOverwrite(t *testing.T) {
	requests := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requests++
		fmt.Fprint(w, "fresh")
	}))
	defer server.Close()

	dir := t.TempDir()
	existing := filepath.Join(dir, "a.png")
	require.NoError(t, os.WriteFile(existing, []byte("stale"), 0644))

	svc := NewService(server.Client(), events.NewService(arbor.NewLogger()), testConfig(), arbor.NewLogger())
	urls := []*models.CrawledUrl{{Url: server.URL + "/a.png", Filename: "a.png"}}

	require.NoError(t, svc.Download(context.Background(), urls, nil, dir))
	assert.Equal(t, 0, requests)
	data, _ := os.ReadFile(existing)
	assert.Equal(t, "stale", string(data))

	// With overwrite requested the stale file is replaced
	settings := &models.RunSettings{OverwriteFiles: true}
	require.NoError(t, svc.Download(context.Background(), urls, settings, dir))
	assert.Equal(t, 1, requests)
	data, _ = os.ReadFile(existing)
	assert.Equal(t, "fresh", string(data))
}

func TestDownload_AllFailed(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	svc := NewService(server.Client(), events.NewService(arbor.NewLogger()), testConfig(), arbor.NewLogger())
	urls := []*models.CrawledUrl{{Url: server.URL + "/gone", Filename: "gone.bin"}}

	err := svc.Download(context.Background(), urls, nil, t.TempDir())
	assert.Error(t, err)
}

func TestLocalFilename(t *testing.T) {
	tests := []struct {
		name  string
		asset *models.CrawledUrl
		want  string
	}{
		{
			name:  "explicit filename wins",
			asset: &models.CrawledUrl{Url: "https://cdn.example/x/y.png", Filename: "cover.png"},
			want:  "cover.png",
		},
		{
			name:  "derived from url path",
			asset: &models.CrawledUrl{Url: "https://cdn.example/media/track.mp3?token=1"},
			want:  "track.mp3",
		},
		{
			name:  "invalid characters stripped",
			asset: &models.CrawledUrl{Url: "https://cdn.example/f", Filename: `a<b>:c?.png`},
			want:  "abc.png",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, LocalFilename(tt.asset))
		})
	}
}

func TestLocalFilename_GeneratesWhenEmpty(t *testing.T) {
	name := LocalFilename(&models.CrawledUrl{Url: "https://cdn.example/"})
	assert.True(t, len(name) > len("asset-"))
	assert.Contains(t, name, "asset-")
}
