package hn

import (
	"net/url"
	"strconv"
	"strings"
	"time"
)

// TimeAgo renders the age of t relative to now as 42s, 5m, 30h or 3d.
// Hours are used up to 48h. A zero t renders as "".
func TimeAgo(now, t time.Time) string {
	if t.IsZero() {
		return ""
	}
	seconds := int(max(0, now.Sub(t)) / time.Second)
	minutes := seconds / 60
	hours := minutes / 60
	switch {
	case seconds < 60:
		return strconv.Itoa(seconds) + "s"
	case minutes < 60:
		return strconv.Itoa(minutes) + "m"
	case hours < 48:
		return strconv.Itoa(hours) + "h"
	default:
		return strconv.Itoa(hours/24) + "d"
	}
}

// Host returns the host of rawURL without a leading "www.", or "" if rawURL
// is empty or not an absolute URL.
func Host(rawURL string) string {
	if rawURL == "" {
		return ""
	}
	u, err := url.Parse(rawURL)
	if err != nil || u.Host == "" {
		return ""
	}
	return strings.TrimPrefix(u.Host, "www.")
}

// Pluralize picks singular for n == 1 and plural otherwise. An empty plural
// defaults to singular + "s".
func Pluralize(n int, singular, plural string) string {
	if n == 1 {
		return singular
	}
	if plural == "" {
		return singular + "s"
	}
	return plural
}
