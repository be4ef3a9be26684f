package identifiers

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
	"github.com/ternarybob/patrondl/internal/interfaces"
)

func TestExtractFromPage(t *testing.T) {
	r := NewResolver(http.DefaultClient, arbor.NewLogger())

	tests := []struct {
		name    string
		content string
		want    int64
	}{
		{
			name:    "bootstrap json with quoted id",
			content: `{"campaign": {"campaign_id": "424242"}}`,
			want:    424242,
		},
		{
			name:    "bootstrap json with bare id",
			content: `"campaign_id": 99,`,
			want:    99,
		},
		{
			name:    "media cdn path",
			content: `<img src="https://c10.patreonusercontent.com/patreon-media/p/campaign/123456/abc/photo.png">`,
			want:    123456,
		},
		{
			name:    "api reference",
			content: `fetch("/api/campaigns/777?include=creator")`,
			want:    777,
		},
		{
			name:    "no reference",
			content: `<html><body>nothing to see</body></html>`,
			want:    interfaces.CampaignIdNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, r.ExtractFromPage(tt.content))
		})
	}
}

func TestResolve_FetchesPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `<script>window.bootstrap = {"campaign_id": "8080"}</script>`)
	}))
	defer server.Close()

	r := NewResolver(server.Client(), arbor.NewLogger())
	id, err := r.Resolve(context.Background(), server.URL+"/creator/posts")
	require.NoError(t, err)
	assert.Equal(t, int64(8080), id)
}

func TestResolve_NotFoundPage(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	r := NewResolver(server.Client(), arbor.NewLogger())
	id, err := r.Resolve(context.Background(), server.URL+"/gone/posts")
	require.NoError(t, err)
	assert.Equal(t, interfaces.CampaignIdNotFound, id)
}

func TestResolve_ServerError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	r := NewResolver(server.Client(), arbor.NewLogger())
	_, err := r.Resolve(context.Background(), server.URL)
	assert.Error(t, err)
}
