package types

import "context"

// TagSet is the unordered collection of tag names a registry returned for one repository.
// An empty TagSet is a valid answer, not an error.
type TagSet []string

// Contains reports whether the set holds the exact tag name.
func (t TagSet) Contains(tag string) bool {
	for _, candidate := range t {
		if candidate == tag {
			return true
		}
	}

	return false
}

// TagFetcher lists the tags published for a repository.
//
// Implementations make a single attempt per call and enforce their own timeout.
// Network failures, non-success statuses and malformed payloads are all returned as errors.
type TagFetcher interface {
	FetchTags(ctx context.Context, repository string) (TagSet, error)
}
