package hn

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestTimeAgo(t *testing.T) {
	now := time.Unix(1_700_000_000, 0)
	tests := []struct {
		name     string
		ago      time.Duration
		expected string
	}{
		{name: "seconds", ago: 42 * time.Second, expected: "42s"},
		{name: "minutes", ago: 5*time.Minute + 10*time.Second, expected: "5m"},
		{name: "hours", ago: 30 * time.Hour, expected: "30h"},
		{name: "just under two days", ago: 47*time.Hour + 59*time.Minute, expected: "47h"},
		{name: "days", ago: 72 * time.Hour, expected: "3d"},
		{name: "future clamps to zero", ago: -time.Minute, expected: "0s"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, TimeAgo(now, now.Add(-tt.ago)))
		})
	}
	assert.Equal(t, "", TimeAgo(now, time.Time{}))
}

func TestHost(t *testing.T) {
	tests := []struct {
		in       string
		expected string
	}{
		{in: "https://www.example.com/a/b", expected: "example.com"},
		{in: "http://news.ycombinator.com:8080/item?id=1", expected: "news.ycombinator.com:8080"},
		{in: "", expected: ""},
		{in: "not a url", expected: ""},
		{in: "://bad", expected: ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.expected, Host(tt.in))
		})
	}
}

func TestPluralize(t *testing.T) {
	assert.Equal(t, "comment", Pluralize(1, "comment", ""))
	assert.Equal(t, "comments", Pluralize(0, "comment", ""))
	assert.Equal(t, "replies", Pluralize(2, "reply", "replies"))
}
