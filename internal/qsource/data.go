package qsource

import (
	"fmt"
)

// Source identifies where a search question came from.
type Source string

const (
	SourceGoogle    Source = "google"
	SourceNaver     Source = "naver"
	SourceCommunity Source = "community"
)

// ParseSource accepts only the closed set of known sources.
func ParseSource(s string) (Source, error) {
	switch Source(s) {
	case SourceGoogle, SourceNaver, SourceCommunity:
		return Source(s), nil
	default:
		return "", fmt.Errorf("unknown question source: %q", s)
	}
}

func (s Source) String() string {
	return string(s)
}

// SearchQuestion is an externally sourced question phrasing.
// URL is empty when the source gave no link.
type SearchQuestion struct {
	Source Source `json:"source"`
	Text   string `json:"text"`
	URL    string `json:"url,omitempty"`
}
