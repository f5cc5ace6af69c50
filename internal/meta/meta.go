// Package meta holds build-time metadata for tagwatch.
package meta

var (
	// Version is the tagwatch version, set at build time with
	// -ldflags "-X github.com/nicholas-fedor/tagwatch/internal/meta.Version=v1.2.3".
	Version = "v0.0.0-unknown"

	// UserAgent is sent with every registry request.
	UserAgent = "Tagwatch/" + Version
)
