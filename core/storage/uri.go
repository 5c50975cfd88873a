package storage

import (
	"path"
	"strings"
)

// Scheme is the URI scheme addressing objects in the configured store.
const Scheme = "s3://"

// IsObjectURI reports whether location addresses an object rather than a local file.
func IsObjectURI(location string) bool {
	return strings.HasPrefix(location, Scheme)
}

// ParseObjectURI splits "s3://bucket/key" into bucket and key.
// ok is false when either part is missing.
func ParseObjectURI(location string) (bucket, key string, ok bool) {
	if !IsObjectURI(location) {
		return "", "", false
	}
	bucket, key, _ = strings.Cut(strings.TrimPrefix(location, Scheme), "/")
	if bucket == "" || key == "" {
		return "", "", false
	}
	return bucket, key, true
}

// ObjectKey joins non-empty key segments with "/".
func ObjectKey(parts ...string) string {
	var kept []string
	for _, p := range parts {
		if p = strings.Trim(p, "/"); p != "" {
			kept = append(kept, p)
		}
	}
	return path.Join(kept...)
}
