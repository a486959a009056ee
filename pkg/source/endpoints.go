package source

import (
	"fmt"
	"net/url"
	"strings"

	"wallfetch/pkg/config"
)

const (
	// RandomEndpoint serves a random image at the requested resolution
	RandomEndpoint = "/random/"

	// FeaturedEndpoint serves a curated image matching a keyword query
	FeaturedEndpoint = "/featured/"
)

// Request describes which image to ask the service for
type Request struct {
	Mode       config.Mode
	Resolution string
	Keyword    string
}

// RequestFromConfig builds the request the fetch loop repeats every attempt
func RequestFromConfig(d config.DownloadConfig) Request {
	return Request{Mode: d.Mode, Resolution: d.Resolution, Keyword: d.Keyword}
}

// URL returns the endpoint for the request against base
func (r Request) URL(base string) string {
	if r.Mode == config.ModeKeyword {
		return KeywordURL(base, r.Resolution, r.Keyword)
	}
	return RandomURL(base, r.Resolution)
}

// RandomURL constructs <base>/random/<resolution>
func RandomURL(base, resolution string) string {
	return fmt.Sprintf("%s%s%s", strings.TrimRight(base, "/"), RandomEndpoint, resolution)
}

// KeywordURL constructs <base>/featured/<resolution>/?<keyword>
func KeywordURL(base, resolution, keyword string) string {
	return fmt.Sprintf("%s%s%s/?%s", strings.TrimRight(base, "/"), FeaturedEndpoint, resolution, url.QueryEscape(keyword))
}
