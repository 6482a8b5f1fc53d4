package feed

import (
	"net/url"
	"strings"
)

// videoHosts are known video platforms; their pages carry no article text
// worth extracting, so matching entries are skipped outright.
var videoHosts = []string{
	"youtube.com",
	"youtu.be",
	"vimeo.com",
	"dailymotion.com",
	"twitch.tv",
}

// resolveLink unwraps aggregator indirection links that carry the real article
// URL in a `url` query parameter (Google Alerts style). Anything else is
// returned unchanged.
func resolveLink(link string) string {
	parsed, err := url.Parse(link)
	if err != nil {
		return link
	}

	wrapped := parsed.Query().Get("url")
	if wrapped == "" {
		return link
	}

	inner, err := url.Parse(wrapped)
	if err != nil || (inner.Scheme != "http" && inner.Scheme != "https") {
		return link
	}
	return inner.String()
}

// isVideoHost reports whether the URL points at a known video platform.
func isVideoHost(link string) bool {
	parsed, err := url.Parse(link)
	if err != nil {
		return false
	}

	host := strings.ToLower(parsed.Hostname())
	host = strings.TrimPrefix(host, "www.")
	for _, candidate := range videoHosts {
		if host == candidate || strings.HasSuffix(host, "."+candidate) {
			return true
		}
	}
	return false
}
