package services

import (
	"encoding/base64"
	"io"
	"net/http"
	"regexp"
	"time"

	"github.com/rs/zerolog"

	"articles-cms/cache"
)

// LinkTitleTTL is how long a resolved page title stays cached.
const LinkTitleTTL = 7 * 24 * time.Hour

var (
	linkRE  = regexp.MustCompile(`(?is)<a.*?href="(.*?)".*?>(.*?)</a>`)
	titleRE = regexp.MustCompile(`(?is)<title>(.*?)</title>`)
)

// Link is a hyperlink found in rendered article content together with the
// title of the page it points at.
type Link struct {
	URL   string `json:"url"`
	Title string `json:"title"`
}

// LinkResolver finds the links in rendered content and resolves each target's
// page title, caching results so a URL is fetched at most once per TTL.
type LinkResolver interface {
	ResolveLinks(renderedHTML string) []Link
}

type linkResolver struct {
	cache  cache.Cache
	client *http.Client
	ttl    time.Duration
	logger zerolog.Logger
}

// NewLinkResolver builds a resolver around the given cache and HTTP client.
// The client must carry a timeout; a nil client gets a 10s default.
func NewLinkResolver(c cache.Cache, client *http.Client, logger zerolog.Logger) LinkResolver {
	if client == nil {
		client = &http.Client{Timeout: 10 * time.Second}
	}
	return &linkResolver{cache: c, client: client, ttl: LinkTitleTTL, logger: logger}
}

// ResolveLinks returns (url, title) pairs for every anchor in the content,
// deduplicated by URL and ordered by first appearance. Fetch failures fall
// back to the anchor's own text; this method never fails.
func (s *linkResolver) ResolveLinks(renderedHTML string) []Link {
	titles := map[string]string{}
	var order []string

	for _, match := range linkRE.FindAllStringSubmatch(renderedHTML, -1) {
		url, text := match[1], match[2]
		key := "href_title_" + base64.StdEncoding.EncodeToString([]byte(url))

		if _, ok := s.cache.Get(key); !ok {
			s.cache.Set(key, s.fetchTitle(url, text), s.ttl)
		}

		title, ok := s.cache.Get(key)
		if !ok {
			continue
		}
		if _, seen := titles[url]; !seen {
			order = append(order, url)
		}
		titles[url] = title
	}

	links := make([]Link, 0, len(order))
	for _, url := range order {
		links = append(links, Link{URL: url, Title: titles[url]})
	}
	return links
}

// fetchTitle downloads the link target and pulls the contents of its <title>
// tag. Binary targets and any fetch or read error yield the fallback text.
func (s *linkResolver) fetchTitle(url, fallback string) string {
	resp, err := s.client.Get(url)
	if err != nil {
		s.logger.Debug().Err(err).Str("url", url).Msg("link title fetch failed")
		return fallback
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		s.logger.Debug().Err(err).Str("url", url).Msg("link title read failed")
		return fallback
	}

	if match := titleRE.FindSubmatch(body); match != nil {
		return string(match[1])
	}
	return fallback
}
