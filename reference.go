package webscraper

import (
	"net/url"
	"strings"
)

// ResolveReference turns the document reference held in an input row into
// the URL to download.
//
// With an empty prefix the reference is used as given, followed by suffix.
// Otherwise the path of the reference (everything after its host, or the
// whole reference when it is a bare identifier) is joined onto prefix and
// followed by suffix.
func ResolveReference(ref, prefix, suffix string) (string, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return "", Errorf(EINVALID, "empty document reference")
	}

	if prefix == "" {
		return ref + suffix, nil
	}

	path := ref
	if u, err := url.Parse(ref); err == nil && u.Host != "" {
		path = u.EscapedPath()
	}
	path = strings.Trim(path, "/")
	if path == "" {
		return "", Errorf(EINVALID, "document reference %q has no path", ref)
	}

	return strings.TrimSuffix(prefix, "/") + "/" + path + suffix, nil
}
