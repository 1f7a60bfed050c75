package services

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeCache records every Set so tests can assert on keys and TTLs.
type fakeCache struct {
	mu      sync.Mutex
	entries map[string]string
	ttls    map[string]time.Duration
}

func newFakeCache() *fakeCache {
	return &fakeCache{entries: map[string]string{}, ttls: map[string]time.Duration{}}
}

func (c *fakeCache) Get(key string) (string, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	value, ok := c.entries[key]
	return value, ok
}

func (c *fakeCache) Set(key, value string, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[key] = value
	c.ttls[key] = ttl
}

// failingTransport makes every request error without touching the network.
type failingTransport struct {
	calls int
}

func (t *failingTransport) RoundTrip(*http.Request) (*http.Response, error) {
	t.calls++
	return nil, errors.New("connection refused")
}

func TestResolveLinksFallsBackToAnchorText(t *testing.T) {
	transport := &failingTransport{}
	resolver := NewLinkResolver(newFakeCache(), &http.Client{Transport: transport}, zerolog.Nop())

	links := resolver.ResolveLinks(`<a href="http://x/a">A</a><a href="http://x/b">B</a>`)

	require.Len(t, links, 2)
	assert.Equal(t, Link{URL: "http://x/a", Title: "A"}, links[0])
	assert.Equal(t, Link{URL: "http://x/b", Title: "B"}, links[1])
}

func TestResolveLinksFetchesTitle(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html><head><TITLE>Target Page</TITLE></head><body></body></html>")
	}))
	defer server.Close()

	resolver := NewLinkResolver(newFakeCache(), server.Client(), zerolog.Nop())

	links := resolver.ResolveLinks(fmt.Sprintf(`see <a class="ext" href="%s" rel="nofollow">here</a>`, server.URL))

	require.Len(t, links, 1)
	assert.Equal(t, server.URL, links[0].URL)
	assert.Equal(t, "Target Page", links[0].Title)
}

func TestResolveLinksNoTitleTagUsesAnchorText(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "\x89PNG not html at all")
	}))
	defer server.Close()

	resolver := NewLinkResolver(newFakeCache(), server.Client(), zerolog.Nop())

	links := resolver.ResolveLinks(fmt.Sprintf(`<a href="%s">a chart</a>`, server.URL))

	require.Len(t, links, 1)
	assert.Equal(t, "a chart", links[0].Title)
}

func TestResolveLinksDeduplicatesByURL(t *testing.T) {
	transport := &failingTransport{}
	resolver := NewLinkResolver(newFakeCache(), &http.Client{Transport: transport}, zerolog.Nop())

	links := resolver.ResolveLinks(`<a href="http://x/a">first</a><a href="http://x/a">second</a>`)

	require.Len(t, links, 1)
	assert.Equal(t, "http://x/a", links[0].URL)
}

func TestResolveLinksUsesCacheAcrossCalls(t *testing.T) {
	transport := &failingTransport{}
	resolver := NewLinkResolver(newFakeCache(), &http.Client{Transport: transport}, zerolog.Nop())

	content := `<a href="http://x/a">A</a>`
	resolver.ResolveLinks(content)
	resolver.ResolveLinks(content)

	assert.Equal(t, 1, transport.calls)
}

func TestResolveLinksCachesFailuresWithTTL(t *testing.T) {
	c := newFakeCache()
	resolver := NewLinkResolver(c, &http.Client{Transport: &failingTransport{}}, zerolog.Nop())

	resolver.ResolveLinks(`<a href="http://x/a">A</a>`)

	require.Len(t, c.ttls, 1)
	for key, ttl := range c.ttls {
		assert.Contains(t, key, "href_title_")
		assert.Equal(t, LinkTitleTTL, ttl)
	}
}

func TestResolveLinksNoAnchors(t *testing.T) {
	resolver := NewLinkResolver(newFakeCache(), &http.Client{Transport: &failingTransport{}}, zerolog.Nop())
	assert.Empty(t, resolver.ResolveLinks("<p>plain paragraph</p>"))
}
