package blob

import (
	"net/url"
	"strings"

	"github.com/d60-Lab/nousrire-site/internal/apperr"
)

// objectMarker separates the public base from the escaped object path.
const objectMarker = "/o/"

// ObjectURL builds the public URL of a blob: <base>/o/<escaped path>?alt=media.
func ObjectURL(base, p string) string {
	return strings.TrimRight(base, "/") + objectMarker + url.PathEscape(p) + "?alt=media"
}

// PathFromURL resolves the storage path of a blob from its public URL.
// The path is the segment after "/o/", with the query stripped and percent-decoding applied.
func PathFromURL(raw string) (string, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return "", apperr.Validation("invalid blob url %q: %v", raw, err)
	}
	escaped := u.EscapedPath()
	i := strings.Index(escaped, objectMarker)
	if i < 0 {
		return "", apperr.Validation("blob url %q has no object segment", raw)
	}
	p, err := url.PathUnescape(escaped[i+len(objectMarker):])
	if err != nil {
		return "", apperr.Validation("invalid blob url %q: %v", raw, err)
	}
	if p == "" {
		return "", apperr.Validation("blob url %q has empty object path", raw)
	}
	return p, nil
}
