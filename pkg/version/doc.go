// Package version selects the "latest" tag out of the tags a registry publishes.
//
// Two strategies are supported:
//   - latest: the repository must publish the literal tag "latest".
//   - semver: the highest strict major.minor.patch tag, compared numerically per component.
//
// Resolve is pure: it never touches the network and returns the same Resolution for the
// same TagSet regardless of tag order.
package version
