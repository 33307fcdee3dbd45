package common

import (
	"net/url"
	"strings"

	"github.com/samber/lo"
)

// PublicURL returns the address a stored object is served under. base is
// either absolute ("https://cdn.example.com/media") or a path served by this
// process ("/uploads"). Segments may contain slashes; empty ones are dropped.
func PublicURL(base string, segments ...string) (string, error) {
	parts := lo.Compact(lo.Map(segments, func(s string, _ int) string {
		return strings.Trim(s, "/")
	}))
	return url.JoinPath(strings.TrimSuffix(base, "/"), parts...)
}
