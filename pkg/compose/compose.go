package compose

import (
	"errors"
	"fmt"
	"os"

	"github.com/sirupsen/logrus"
	"gopkg.in/yaml.v3"
)

// ServicesKey is the top-level manifest key holding service definitions.
const ServicesKey = "services"

// ImageKey is the service key holding the image reference.
const ImageKey = "image"

// nullTag is the YAML tag of an explicit null scalar.
const nullTag = "!!null"

// Errors for manifest parsing.
var (
	// ErrManifestParse indicates the manifest could not be read or is not a valid manifest.
	ErrManifestParse = errors.New("failed to parse compose file")
	// errNotMapping indicates the document root is not a mapping.
	errNotMapping = errors.New("document is not a mapping")
	// errServicesNotMapping indicates the services value is not a mapping.
	errServicesNotMapping = errors.New("services is not a mapping")
	// errDuplicateService indicates a service name declared twice.
	errDuplicateService = errors.New("duplicate service")
)

// Service is a manifest entry with an image reference.
type Service struct {
	Name  string // Key under services.
	Image string // Raw image reference, as declared.
}

// Manifest is the checkable content of a manifest file.
type Manifest struct {
	Path     string    // Source path, empty when parsed from bytes.
	Services []Service // Services with an image, in declaration order.
}

// ReadManifest loads the manifest at path.
//
// Parameters:
//   - path: Manifest file path.
//
// Returns:
//   - *Manifest: Parsed manifest.
//   - error: Wrapped ErrManifestParse if the file is unreadable or invalid.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		logrus.WithError(err).WithField("path", path).Debug("Failed to read manifest file")

		return nil, fmt.Errorf("%w: %w", ErrManifestParse, err)
	}

	manifest, err := Parse(data)
	if err != nil {
		return nil, err
	}

	manifest.Path = path

	logrus.WithFields(logrus.Fields{
		"path":     path,
		"services": len(manifest.Services),
	}).Debug("Read manifest")

	return manifest, nil
}

// Parse parses manifest bytes.
//
// A missing or null services key yields a manifest without services. Service entries that
// are not mappings, or whose image is absent, null, empty or not a scalar, are skipped.
//
// Parameters:
//   - data: Raw YAML.
//
// Returns:
//   - *Manifest: Parsed manifest.
//   - error: Wrapped ErrManifestParse if the YAML is invalid or not shaped like a manifest.
func Parse(data []byte) (*Manifest, error) {
	var root yaml.Node
	if err := yaml.Unmarshal(data, &root); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrManifestParse, err)
	}

	document := resolve(&root)
	if document.Kind == yaml.DocumentNode && len(document.Content) > 0 {
		document = resolve(document.Content[0])
	}

	if document.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: %w", ErrManifestParse, errNotMapping)
	}

	services := lookup(document, ServicesKey)
	if services == nil || isNull(services) {
		logrus.Debug("Manifest declares no services")

		return &Manifest{Services: []Service{}}, nil
	}

	if services.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: %w (line %d)", ErrManifestParse, errServicesNotMapping, services.Line)
	}

	if err := errDuplicates(services); err != nil {
		return nil, err
	}

	return &Manifest{Services: collectServices(services)}, nil
}

// collectServices walks the services mapping in order.
func collectServices(services *yaml.Node) []Service {
	result := make([]Service, 0, len(services.Content)/2)

	for i := 0; i+1 < len(services.Content); i += 2 {
		name := services.Content[i].Value
		entry := resolve(services.Content[i+1])
		clog := logrus.WithField("service", name)

		if entry.Kind != yaml.MappingNode {
			clog.Debug("Skipping service that is not a mapping")

			continue
		}

		image := lookup(entry, ImageKey)
		if image == nil || image.Kind != yaml.ScalarNode || isNull(image) || image.Value == "" {
			clog.Debug("Skipping service without image")

			continue
		}

		result = append(result, Service{Name: name, Image: image.Value})
	}

	return result
}

// errDuplicates reports a service name declared more than once.
func errDuplicates(services *yaml.Node) error {
	seen := make(map[string]bool, len(services.Content)/2)

	for i := 0; i+1 < len(services.Content); i += 2 {
		key := services.Content[i]
		if seen[key.Value] {
			return fmt.Errorf("%w: %w %q (line %d)", ErrManifestParse, errDuplicateService, key.Value, key.Line)
		}

		seen[key.Value] = true
	}

	return nil
}

// lookup returns the value node for key in a mapping node, or nil.
func lookup(mapping *yaml.Node, key string) *yaml.Node {
	for i := 0; i+1 < len(mapping.Content); i += 2 {
		if k := mapping.Content[i]; k.Kind == yaml.ScalarNode && k.Value == key {
			return resolve(mapping.Content[i+1])
		}
	}

	return nil
}

// resolve follows alias nodes to their anchors.
func resolve(node *yaml.Node) *yaml.Node {
	for node != nil && node.Kind == yaml.AliasNode && node.Alias != nil {
		node = node.Alias
	}

	return node
}

func isNull(node *yaml.Node) bool {
	return node.Kind == yaml.ScalarNode && node.ShortTag() == nullTag
}
