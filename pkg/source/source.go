// Package source turns the command line argument into a stable source identifier.
package source

import (
	"net/url"
	"strings"

	apperrors "github.com/killallgit/herotrend/pkg/errors"
)

// QueryParam is the URL query parameter that carries the identifier
const QueryParam = "v"

// ParseID accepts either a bare identifier or a full URL and returns the identifier.
// Anything not starting with "http" is passed through untouched.
func ParseID(arg string) (string, error) {
	id := arg
	if strings.HasPrefix(arg, "http") {
		parsed, err := url.Parse(arg)
		if err != nil {
			return "", apperrors.InvalidInput(arg, "unparseable URL").WithDetail("cause", err.Error())
		}
		id = parsed.Query().Get(QueryParam)
	}

	if id == "" {
		return "", apperrors.InvalidInput(arg, "empty identifier")
	}

	// The identifier names files inside the cache directory
	if strings.ContainsAny(id, `/\`) || id == "." || id == ".." {
		return "", apperrors.InvalidInput(arg, "identifier must not contain path separators")
	}

	return id, nil
}

// WatchURL returns the watch page URL for an identifier
func WatchURL(id string) string {
	return "https://www.youtube.com/watch?" + url.Values{QueryParam: {id}}.Encode()
}
