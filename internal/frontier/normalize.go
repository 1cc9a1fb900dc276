// Package frontier provides URL normalization for link discovery. URLs are
// normalized before insertion into a link set so that the same article
// expressed under different addresses dedupes to a single record.
package frontier

import (
	"errors"
	"fmt"
	"net/url"
	"path"
	"strings"
)

// defaultPorts maps schemes to their default port strings.
var defaultPorts = map[string]string{
	"http":  "80",
	"https": "443",
}

var (
	errEmptyInput          = errors.New("normalize url: empty input")
	errMissingSchemeOrHost = errors.New("normalize url: missing scheme or host")
	errUnsupportedScheme   = errors.New("normalize url: unsupported scheme")
	errEmptyHostInput      = errors.New("extract host: empty input")
)

// NormalizeURL applies deterministic transformations to a raw URL so that
// equivalent URLs produce identical strings. Transformations include
// lowercasing scheme and host, removing default ports, resolving path
// dot-segments, removing trailing slashes, and dropping the query string and
// fragment. Two URLs that differ only in query parameters or fragment are
// the same article, so both are discarded entirely rather than sorted.
func NormalizeURL(rawURL string) (string, error) {
	if rawURL == "" {
		return "", errEmptyInput
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("normalize url: %w", err)
	}

	if validateErr := validateParsedURL(parsed); validateErr != nil {
		return "", validateErr
	}

	parsed.Scheme = strings.ToLower(parsed.Scheme)
	parsed.Host = normalizeHost(parsed)
	parsed.Fragment = ""
	parsed.RawFragment = ""
	parsed.RawQuery = ""
	parsed.Path = normalizePath(parsed.Path)
	parsed.RawPath = ""

	return parsed.String(), nil
}

// ResolveReference resolves href against baseURL, yielding an absolute raw
// URL. Relative hrefs harvested from a document snapshot become absolute;
// hrefs that are already absolute pass through unchanged.
func ResolveReference(baseURL, href string) (string, error) {
	if href == "" {
		return "", errEmptyInput
	}

	base, err := url.Parse(baseURL)
	if err != nil {
		return "", fmt.Errorf("resolve reference: %w", err)
	}

	ref, err := url.Parse(href)
	if err != nil {
		return "", fmt.Errorf("resolve reference: %w", err)
	}

	return base.ResolveReference(ref).String(), nil
}

// ExtractHost returns the hostname (without port) from a URL, lowercased.
func ExtractHost(rawURL string) (string, error) {
	if rawURL == "" {
		return "", errEmptyHostInput
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return "", fmt.Errorf("extract host: %w", err)
	}

	if validateErr := validateParsedURL(parsed); validateErr != nil {
		return "", validateErr
	}

	return strings.ToLower(parsed.Hostname()), nil
}

// validateParsedURL checks that a parsed URL has the minimum required
// components and a fetchable scheme.
func validateParsedURL(u *url.URL) error {
	if u.Scheme == "" || u.Host == "" {
		return errMissingSchemeOrHost
	}

	scheme := strings.ToLower(u.Scheme)
	if scheme != "http" && scheme != "https" {
		return errUnsupportedScheme
	}

	return nil
}

// normalizeHost lowercases the hostname and removes the port when it is the
// default for the URL's scheme.
func normalizeHost(u *url.URL) string {
	hostname := strings.ToLower(u.Hostname())
	port := u.Port()

	if port == "" {
		return hostname
	}

	if defaultPort, ok := defaultPorts[strings.ToLower(u.Scheme)]; ok && port == defaultPort {
		return hostname
	}

	return hostname + ":" + port
}

// normalizePath resolves dot-segments (/../, /./) and removes trailing
// slashes while preserving the root "/".
func normalizePath(p string) string {
	if p == "" || p == "/" {
		return "/"
	}

	cleaned := path.Clean(p)

	return strings.TrimRight(cleaned, "/")
}
