package actions

import (
	"context"
	"errors"

	"github.com/sirupsen/logrus"

	"github.com/nicholas-fedor/tagwatch/pkg/compose"
	"github.com/nicholas-fedor/tagwatch/pkg/registry/helpers"
	"github.com/nicholas-fedor/tagwatch/pkg/session"
	"github.com/nicholas-fedor/tagwatch/pkg/types"
	"github.com/nicholas-fedor/tagwatch/pkg/version"
)

// ExitManifestError is the process exit code for a manifest that could not be read.
const ExitManifestError = 2

// errNoFetcher indicates Check was called without a tag fetcher.
var errNoFetcher = errors.New("no tag fetcher configured")

// CheckParams holds the inputs of a version check run.
type CheckParams struct {
	Manifest string // Manifest path.
	Strategy string // Version strategy identifier, used verbatim.
}

// Check resolves the latest version of every service in the manifest.
//
// Services are processed one at a time in declaration order. Each verdict is logged, appended
// to the report and handed to the notifier before the next service starts. A manifest that
// cannot be read produces exactly one fatal notification and no report output.
//
// Parameters:
//   - ctx: Context passed to registry fetches.
//   - params: Manifest and strategy.
//   - fetcher: Registry tag source.
//   - reporter: Report sink, may be nil.
//   - notifier: Notification sink, may be nil.
//
// Returns:
//   - types.Report: Verdicts of the run.
//   - error: Wrapped compose.ErrManifestParse if the manifest could not be read.
func Check(
	ctx context.Context,
	params CheckParams,
	fetcher types.TagFetcher,
	reporter types.Reporter,
	notifier types.Notifier,
) (types.Report, error) {
	if fetcher == nil {
		return nil, errNoFetcher
	}

	manifest, err := compose.ReadManifest(params.Manifest)
	if err != nil {
		logrus.WithError(err).WithField("manifest", params.Manifest).Error("Failed to read manifest")

		if notifier != nil {
			notifier.NotifyFatal(params.Manifest, err)
		}

		return nil, err
	}

	strategy := version.Strategy(params.Strategy)
	progress := &session.Progress{}

	logrus.WithFields(logrus.Fields{
		"manifest": params.Manifest,
		"strategy": strategy,
		"services": len(manifest.Services),
	}).Debug("Starting version check")

	for _, service := range manifest.Services {
		verdict := CheckService(ctx, service, strategy, fetcher)

		logVerdict(verdict)

		if reporter != nil {
			if err := reporter.Append(verdict); err != nil {
				logrus.WithError(err).WithField("service", verdict.Service()).Error("Failed to write report")
			}
		}

		if notifier != nil {
			notifier.Notify(verdict)
		}

		progress.Add(verdict)
	}

	return progress.Report(), nil
}

// CheckService decides the verdict for one service.
//
// Parameters:
//   - ctx: Context passed to the registry fetch.
//   - service: Manifest service.
//   - strategy: Version strategy.
//   - fetcher: Registry tag source.
//
// Returns:
//   - *session.Verdict: Verdict, never nil.
func CheckService(
	ctx context.Context,
	service compose.Service,
	strategy version.Strategy,
	fetcher types.TagFetcher,
) *session.Verdict {
	fields := logrus.Fields{
		"service": service.Name,
		"image":   service.Image,
	}

	ref, err := helpers.ParseImageReference(service.Image)
	if err != nil {
		logrus.WithError(err).WithFields(fields).Debug("Failed to parse image reference")

		return session.Decide(service.Name, service.Image, ref.Version, types.Failed(types.InvalidReference, err.Error()))
	}

	if helpers.IsAmbiguousReference(service.Image) {
		logrus.WithFields(fields).WithField("repository", ref.Repository).
			Warn("Image reference has several ':' separators, checking the whole reference as repository with tag latest")
	}

	tags, err := fetcher.FetchTags(ctx, ref.Repository)
	if err != nil {
		return session.Decide(service.Name, service.Image, ref.Version, types.Failed(types.RegistryError, err.Error()))
	}

	logrus.WithFields(fields).WithField("tags", len(tags)).Debug("Fetched tags")

	return session.Decide(service.Name, service.Image, ref.Version, version.Resolve(tags, strategy))
}

// logVerdict writes the console rendition of a verdict.
func logVerdict(verdict *session.Verdict) {
	clog := logrus.WithFields(logrus.Fields{
		"service": verdict.Service(),
		"image":   verdict.Image(),
	})

	if !verdict.Resolution().Succeeded() {
		clog.WithFields(logrus.Fields{
			"error":         verdict.Error(),
			"update_needed": true,
		}).Warn("Version check failed")

		return
	}

	clog.WithFields(logrus.Fields{
		"current":       verdict.DeclaredVersion(),
		"latest":        verdict.LatestVersion(),
		"update_needed": verdict.UpdateNeeded(),
	}).Info("Checked service version")
}
