package urlutil

import (
	"net/url"
	"strings"
)

// Normalize maps equivalent spellings of a page URL to the single key under
// which analysis results are stored.
//
// The normalization follows these rules:
//   - Scheme is forced to https
//   - Host is lowercased and one leading "www." label is dropped
//   - Query parameters whose key starts with "utm_" are removed; the rest keep their order
//   - One trailing slash is removed from the path, except for root "/"
//   - One trailing slash after a query or fragment is removed as well
//
// URLs that cannot be parsed, or that have no scheme or host, are returned unchanged.
//
// Properties:
//   - Pure: no state, no memory
//   - Deterministic: same input always produces same output
func Normalize(raw string) string {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil || u.Scheme == "" || u.Host == "" {
		return raw
	}

	u.Scheme = "https"
	u.Host = strings.TrimPrefix(lowerASCII(u.Host), "www.")

	if u.RawQuery != "" {
		u.RawQuery = stripTrackingParams(u.RawQuery)
	}
	u.ForceQuery = false

	if len(u.Path) > 1 {
		u.Path = stripTrailingSlash(u.Path)
		u.RawPath = ""
	}

	out := u.String()
	if (u.RawQuery != "" || u.Fragment != "") && strings.HasSuffix(out, "/") {
		out = out[:len(out)-1]
	}
	return out
}

// stripTrackingParams drops utm_* pairs without re-encoding or reordering the others.
func stripTrackingParams(rawQuery string) string {
	pairs := strings.Split(rawQuery, "&")
	kept := pairs[:0]
	for _, pair := range pairs {
		if pair == "" {
			continue
		}
		key := pair
		if i := strings.IndexByte(pair, '='); i >= 0 {
			key = pair[:i]
		}
		if unescaped, err := url.QueryUnescape(key); err == nil {
			key = unescaped
		}
		if strings.HasPrefix(key, "utm_") {
			continue
		}
		kept = append(kept, pair)
	}
	return strings.Join(kept, "&")
}

// lowerASCII converts ASCII characters to lowercase without allocating.
// This is faster than strings.ToLower for ASCII-only strings.
func lowerASCII(s string) string {
	var needsLower bool
	for i := 0; i < len(s); i++ {
		if s[i] >= 'A' && s[i] <= 'Z' {
			needsLower = true
			break
		}
	}
	if !needsLower {
		return s
	}
	b := []byte(s)
	for i := 0; i < len(b); i++ {
		if b[i] >= 'A' && b[i] <= 'Z' {
			b[i] += 'a' - 'A'
		}
	}
	return string(b)
}

// stripTrailingSlash removes a single trailing slash from a path.
func stripTrailingSlash(path string) string {
	if len(path) > 1 && path[len(path)-1] == '/' {
		return path[:len(path)-1]
	}
	return path
}
