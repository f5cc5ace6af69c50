// Package helpers provides utility functions for registry-related operations in tagwatch.
// It includes the image reference splitting rule used for manifest entries and registry address parsing.
package helpers

import (
	"errors"
	"fmt"
	"strings"

	"github.com/distribution/reference"
	"github.com/sirupsen/logrus"
)

// Domains for Docker Hub, the default registry.
const (
	DefaultRegistryDomain       = "docker.io"
	DefaultRegistryHost         = "index.docker.io"
	LegacyDefaultRegistryDomain = "index.docker.io"
)

// DefaultTag is the version assumed when a reference carries no usable tag.
const DefaultTag = "latest"

// tagSeparator splits a repository from its tag.
const tagSeparator = ":"

// taggedSegments is the only segment count that is read as repository:tag.
const taggedSegments = 2

// ErrEmptyRepository indicates a reference whose repository part is empty.
var ErrEmptyRepository = errors.New("image reference has an empty repository")

// ImageReference is a declared image split into repository and version.
type ImageReference struct {
	Repository string // Name used to look up tags.
	Version    string // Declared tag, DefaultTag when absent.
}

// String reassembles the reference as repository:version.
func (r ImageReference) String() string {
	return r.Repository + tagSeparator + r.Version
}

// ParseImageReference splits a raw image string into repository and version.
//
// The string is split on every colon. Exactly two segments are read as repository and tag.
// Any other count is not split: a bare name has no tag, and more than two segments
// (a registry port plus a tag, a digest, ...) is ambiguous, so the whole string is kept as the
// repository and the version defaults to "latest". Ambiguity is not an error.
//
// Parameters:
//   - image: Raw image reference from the manifest.
//
// Returns:
//   - ImageReference: Repository and version, with the version still set when the repository is empty.
//   - error: ErrEmptyRepository if the repository part is empty.
func ParseImageReference(image string) (ImageReference, error) {
	parts := strings.Split(image, tagSeparator)

	ref := ImageReference{Repository: image, Version: DefaultTag}
	if len(parts) == taggedSegments {
		ref = ImageReference{Repository: parts[0], Version: parts[1]}
	}

	if ref.Repository == "" {
		return ref, fmt.Errorf("%w: %q", ErrEmptyRepository, image)
	}

	if len(parts) > taggedSegments {
		logrus.WithFields(logrus.Fields{
			"image":    image,
			"segments": len(parts),
		}).Debug("Ambiguous image reference, using whole string as repository")
	}

	return ref, nil
}

// IsAmbiguousReference reports whether image has more colon-separated segments than
// repository:tag, the case ParseImageReference does not split.
func IsAmbiguousReference(image string) bool {
	return strings.Count(image, tagSeparator) >= taggedSegments
}

// GetRegistryAddress extracts the registry address from an image reference.
// It returns the domain part of the reference, mapping Docker Hub’s default domain
// to its canonical host address if applicable.
func GetRegistryAddress(imageRef string) (string, error) {
	normalizedRef, err := reference.ParseNormalizedNamed(imageRef)
	if err != nil {
		return "", fmt.Errorf("failed to parse image reference: %w", err)
	}

	address := reference.Domain(normalizedRef)
	if address == DefaultRegistryDomain {
		address = DefaultRegistryHost
	}

	return address, nil
}

// IsDefaultRegistry reports whether the repository is hosted on Docker Hub.
// Unparseable names are treated as Docker Hub names.
func IsDefaultRegistry(repository string) bool {
	address, err := GetRegistryAddress(repository)
	if err != nil {
		return true
	}

	return address == DefaultRegistryHost
}

// HubRepositoryPath returns the Docker Hub repository path for repository,
// adding the "library/" namespace for official images.
func HubRepositoryPath(repository string) string {
	normalizedRef, err := reference.ParseNormalizedNamed(repository)
	if err != nil || reference.Domain(normalizedRef) != DefaultRegistryDomain {
		return repository
	}

	return reference.Path(normalizedRef)
}
