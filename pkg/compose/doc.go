// Package compose reads Compose-style deployment manifests.
//
// Only the top-level services mapping and each service's image are read. Services are
// returned in declaration order, which drives the order of the version check.
//
// Key components:
//   - ReadManifest: Loads and parses a manifest file.
//   - Parse: Parses manifest bytes.
//   - ErrManifestParse: Wraps every failure that prevents reading the service list.
//
// Usage example:
//
//	manifest, err := compose.ReadManifest("docker-compose.yml")
//	if err != nil {
//	    logrus.WithError(err).Error("Failed to read manifest")
//	}
//	for _, service := range manifest.Services {
//	    fmt.Println(service.Name, service.Image)
//	}
package compose
