// Package mocks provides mock implementations for testing tagwatch components.
package mocks

import (
	"context"
	"errors"
	"fmt"

	"github.com/nicholas-fedor/tagwatch/pkg/types"
)

// errUnknownRepository is returned for repositories without configured tags.
var errUnknownRepository = errors.New("repository not found")

// MockFetcher is a TagFetcher returning preconfigured tag sets.
type MockFetcher struct {
	Tags   map[string]types.TagSet // Tags per repository.
	Errors map[string]error        // Failures per repository.
	Calls  []string                // Repositories requested, in order.
}

// NewMockFetcher returns a fetcher serving the given tags.
func NewMockFetcher(tags map[string]types.TagSet) *MockFetcher {
	return &MockFetcher{
		Tags:   tags,
		Errors: map[string]error{},
	}
}

// FetchTags returns the configured tags or error for repository.
func (f *MockFetcher) FetchTags(ctx context.Context, repository string) (types.TagSet, error) {
	f.Calls = append(f.Calls, repository)

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	if err, ok := f.Errors[repository]; ok {
		return nil, err
	}

	tags, ok := f.Tags[repository]
	if !ok {
		return nil, fmt.Errorf("%w: %s", errUnknownRepository, repository)
	}

	return tags, nil
}
