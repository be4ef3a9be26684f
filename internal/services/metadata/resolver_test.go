package metadata

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/arbor"
)

func TestResolve_DecodesCampaign(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/api/campaigns/123", r.URL.Path)
		fmt.Fprint(w, `{
			"data": {
				"id": "123",
				"attributes": {
					"name": "Test Creator",
					"creation_name": "art and comics",
					"avatar_photo_url": "https://cdn.example/avatar.png",
					"cover_photo_url": "https://cdn.example/cover.png"
				}
			}
		}`)
	}))
	defer server.Close()

	r := NewResolver(server.URL, server.Client(), arbor.NewLogger())
	info, err := r.Resolve(context.Background(), 123)
	require.NoError(t, err)

	assert.Equal(t, int64(123), info.Id)
	assert.Equal(t, "Test Creator", info.Name)
	assert.Equal(t, "art and comics", info.CreationName)
	assert.Equal(t, "https://cdn.example/avatar.png", info.AvatarURL)
	assert.Equal(t, "https://cdn.example/cover.png", info.CoverURL)
}

func TestResolve_APIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer server.Close()

	r := NewResolver(server.URL, server.Client(), arbor.NewLogger())
	_, err := r.Resolve(context.Background(), 5)
	assert.Error(t, err)
}

func TestResolve_MalformedId(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"data": {"id": "not-a-number", "attributes": {"name": "x"}}}`)
	}))
	defer server.Close()

	r := NewResolver(server.URL, server.Client(), arbor.NewLogger())
	_, err := r.Resolve(context.Background(), 9)
	assert.Error(t, err)
}
