// Package util provides small formatting helpers shared by tagwatch commands.
//
// Key components:
//   - FormatDuration: Renders a duration as "1 hour, 2 minutes, 3 seconds".
//   - FormatTimeUnit: Renders a single unit with singular or plural grammar.
//   - FilterEmpty: Drops empty strings from a slice.
//
// Usage example:
//
//	logrus.Info("Check took " + util.FormatDuration(duration))
package util
