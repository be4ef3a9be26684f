package crawler

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const postsPageFixture = `
<html><body>
<div data-tag="post-card">
  <img src="https://c10.patreonusercontent.com/patreon-media/p/post/1/photo.png">
  <a href="https://www.patreon.com/file?h=1&i=2" download="notes.zip">notes.zip</a>
  <a href="/some-creator/posts">navigation link</a>
  <audio src="https://c10.patreonusercontent.com/media-u/track.mp3"></audio>
  <img src="data:image/png;base64,AAAA">
  <img src="https://c10.patreonusercontent.com/patreon-media/p/post/1/photo.png">
</div>
<a rel="next" href="?page=2">Next</a>
</body></html>`

func TestExtract_AssetReferences(t *testing.T) {
	var e assetExtractor
	assets, err := e.Extract(postsPageFixture)
	require.NoError(t, err)

	require.Len(t, assets, 3, "navigation links, data URIs and duplicates must be dropped")
	assert.Equal(t, "https://c10.patreonusercontent.com/patreon-media/p/post/1/photo.png", assets[0].Url)
	assert.Equal(t, "photo.png", assets[0].Filename)
	assert.Equal(t, "https://www.patreon.com/file?h=1&i=2", assets[1].Url)
	assert.Equal(t, "notes.zip", assets[1].Filename)
	assert.Equal(t, "https://c10.patreonusercontent.com/media-u/track.mp3", assets[2].Url)
}

func TestExtract_EmptyPage(t *testing.T) {
	var e assetExtractor
	assets, err := e.Extract("<html><body></body></html>")
	require.NoError(t, err)
	assert.Empty(t, assets)
}

func TestHasNextPageLink(t *testing.T) {
	assert.True(t, hasNextPageLink(postsPageFixture))
	assert.True(t, hasNextPageLink(`<a aria-label="Next page" href="?page=3">&gt;</a>`))
	assert.False(t, hasNextPageLink(`<html><body><a href="/x">x</a></body></html>`))
}

func TestRateLimiter_EnforcesDelay(t *testing.T) {
	rl := NewRateLimiter(50 * time.Millisecond)
	ctx := context.Background()

	require.NoError(t, rl.Wait(ctx))
	start := time.Now()
	require.NoError(t, rl.Wait(ctx))
	assert.GreaterOrEqual(t, time.Since(start), 50*time.Millisecond)
}

func TestRateLimiter_ContextCancelled(t *testing.T) {
	rl := NewRateLimiter(time.Minute)
	ctx, cancel := context.WithCancel(context.Background())

	require.NoError(t, rl.Wait(ctx))
	cancel()
	assert.ErrorIs(t, rl.Wait(ctx), context.Canceled)
}
