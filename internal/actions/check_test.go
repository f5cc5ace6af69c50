package actions_test

import (
	"context"
	"errors"
	"os"
	"path/filepath"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"
	"github.com/stretchr/testify/mock"

	"github.com/nicholas-fedor/tagwatch/internal/actions"
	"github.com/nicholas-fedor/tagwatch/internal/actions/mocks"
	"github.com/nicholas-fedor/tagwatch/pkg/compose"
	"github.com/nicholas-fedor/tagwatch/pkg/report"
	"github.com/nicholas-fedor/tagwatch/pkg/types"
)

var errWriteFailed = errors.New("disk full")

var _ = ginkgo.Describe("the version check", func() {
	var (
		dir        string
		reportPath string
		fetcher    *mocks.MockFetcher
		notifier   *mocks.MockNotifier
	)

	writeManifest := func(content string) string {
		path := filepath.Join(dir, "docker-compose.yml")
		gomega.Expect(os.WriteFile(path, []byte(content), 0o600)).To(gomega.Succeed())

		return path
	}

	readReport := func() string {
		data, err := os.ReadFile(reportPath)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		return string(data)
	}

	run := func(manifest, strategy string) (types.Report, error) {
		return actions.Check(
			context.Background(),
			actions.CheckParams{Manifest: manifest, Strategy: strategy},
			fetcher,
			report.NewMarkdown(reportPath, manifest),
			notifier,
		)
	}

	ginkgo.BeforeEach(func() {
		dir = ginkgo.GinkgoT().TempDir()
		reportPath = filepath.Join(dir, "version_check.md")
		fetcher = mocks.NewMockFetcher(map[string]types.TagSet{
			"nginx": {"1.24.0", "1.26.1", "latest", "1.26.0-alpine"},
			"redis": {"7.2.4", "latest"},
		})
		notifier = mocks.NewMockNotifier()
	})

	ginkgo.When("a semver service is behind", func() {
		ginkgo.It("should report the newer version", func() {
			manifest := writeManifest("services:\n  web:\n    image: nginx:1.25.3\n")

			result, err := run(manifest, "semver")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			gomega.Expect(result.Stale()).To(gomega.HaveLen(1))
			verdict := result.Stale()[0]
			gomega.Expect(verdict.LatestVersion()).To(gomega.Equal("1.26.1"))
			gomega.Expect(verdict.UpdateNeeded()).To(gomega.BeTrue())

			content := readReport()
			gomega.Expect(content).To(gomega.ContainSubstring("### Service: web\n"))
			gomega.Expect(content).To(gomega.ContainSubstring("- **Current version:** 1.25.3\n"))
			gomega.Expect(content).To(gomega.ContainSubstring("- **Latest version:** 1.26.1\n"))
			gomega.Expect(content).To(gomega.ContainSubstring("- **Update needed:** yes\n"))

			notifier.AssertNumberOfCalls(ginkgo.GinkgoT(), "Notify", 1)
		})
	})

	ginkgo.When("an untagged service uses the latest strategy", func() {
		ginkgo.It("should need no update", func() {
			manifest := writeManifest("services:\n  cache:\n    image: redis\n")

			result, err := run(manifest, "latest")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			gomega.Expect(result.Fresh()).To(gomega.HaveLen(1))
			gomega.Expect(result.Fresh()[0].DeclaredVersion()).To(gomega.Equal("latest"))
			gomega.Expect(readReport()).To(gomega.ContainSubstring("- **Update needed:** no\n"))
			gomega.Expect(notifier.Notified()).To(gomega.HaveLen(1))
		})
	})

	ginkgo.When("the registry times out", func() {
		ginkgo.It("should record a registry error and keep going", func() {
			fetcher.Errors["postgres"] = context.DeadlineExceeded
			manifest := writeManifest(
				"services:\n  db:\n    image: postgres:16.1\n  web:\n    image: nginx:1.26.1\n",
			)

			result, err := run(manifest, "semver")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			gomega.Expect(result.All()).To(gomega.HaveLen(2))
			gomega.Expect(result.Failed()).To(gomega.HaveLen(1))

			failed := result.Failed()[0]
			gomega.Expect(failed.Service()).To(gomega.Equal("db"))
			gomega.Expect(failed.Resolution().Failure).To(gomega.Equal(types.RegistryError))
			gomega.Expect(failed.UpdateNeeded()).To(gomega.BeTrue())
			gomega.Expect(result.Fresh()[0].Service()).To(gomega.Equal("web"))

			gomega.Expect(readReport()).To(gomega.ContainSubstring("- **Error:** registry error: context deadline exceeded\n"))
			gomega.Expect(notifier.Notified()).To(gomega.HaveLen(2))
			gomega.Expect(notifier.Notified()[0].Service()).To(gomega.Equal("db"))
		})
	})

	ginkgo.When("the manifest cannot be parsed", func() {
		ginkgo.It("should send one fatal notification and leave the report alone", func() {
			manifest := writeManifest("services: [unclosed\n")

			result, err := run(manifest, "semver")
			gomega.Expect(err).To(gomega.MatchError(compose.ErrManifestParse))
			gomega.Expect(result).To(gomega.BeNil())

			notifier.AssertNumberOfCalls(ginkgo.GinkgoT(), "NotifyFatal", 1)
			notifier.AssertCalled(ginkgo.GinkgoT(), "NotifyFatal", manifest, mock.Anything)
			notifier.AssertNotCalled(ginkgo.GinkgoT(), "Notify", mock.Anything)

			gomega.Expect(fetcher.Calls).To(gomega.BeEmpty())
			_, statErr := os.Stat(reportPath)
			gomega.Expect(errors.Is(statErr, os.ErrNotExist)).To(gomega.BeTrue())
		})

		ginkgo.It("should treat a missing file the same way", func() {
			_, err := run(filepath.Join(dir, "missing.yml"), "semver")
			gomega.Expect(err).To(gomega.MatchError(compose.ErrManifestParse))
			notifier.AssertNumberOfCalls(ginkgo.GinkgoT(), "NotifyFatal", 1)
		})
	})

	ginkgo.When("the strategy is unknown", func() {
		ginkgo.It("should fail every service with the strategy name", func() {
			manifest := writeManifest("services:\n  web:\n    image: nginx:1.25.3\n  cache:\n    image: redis\n")

			result, err := run(manifest, "calver")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			gomega.Expect(result.Failed()).To(gomega.HaveLen(2))
			for _, verdict := range result.Failed() {
				gomega.Expect(verdict.Resolution().Failure).To(gomega.Equal(types.UnknownStrategy))
				gomega.Expect(verdict.Error()).To(gomega.ContainSubstring("calver"))
			}
		})
	})

	ginkgo.When("an image reference has no repository", func() {
		ginkgo.It("should fail the service without contacting the registry", func() {
			manifest := writeManifest("services:\n  odd:\n    image: \":1.0.0\"\n")

			result, err := run(manifest, "semver")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			gomega.Expect(result.Failed()).To(gomega.HaveLen(1))
			gomega.Expect(result.Failed()[0].Resolution().Failure).To(gomega.Equal(types.InvalidReference))
			gomega.Expect(result.Failed()[0].DeclaredVersion()).To(gomega.Equal("1.0.0"))
			gomega.Expect(fetcher.Calls).To(gomega.BeEmpty())
		})
	})

	ginkgo.When("an image reference carries a registry port", func() {
		ginkgo.It("should query the whole reference as repository with version latest", func() {
			fetcher.Tags["registry.local:5000/app:1.0.0"] = types.TagSet{"latest"}
			manifest := writeManifest("services:\n  app:\n    image: registry.local:5000/app:1.0.0\n")

			result, err := run(manifest, "latest")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			gomega.Expect(fetcher.Calls).To(gomega.Equal([]string{"registry.local:5000/app:1.0.0"}))
			gomega.Expect(result.Fresh()).To(gomega.HaveLen(1))
			gomega.Expect(result.Fresh()[0].DeclaredVersion()).To(gomega.Equal("latest"))
		})
	})

	ginkgo.When("the report cannot be written", func() {
		ginkgo.It("should still process and notify every service", func() {
			manifest := writeManifest("services:\n  web:\n    image: nginx:1.25.3\n  cache:\n    image: redis\n")
			reporter := &mocks.MockReporter{Err: errWriteFailed}

			result, err := actions.Check(
				context.Background(),
				actions.CheckParams{Manifest: manifest, Strategy: "semver"},
				fetcher,
				reporter,
				notifier,
			)
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			gomega.Expect(result.All()).To(gomega.HaveLen(2))
			gomega.Expect(reporter.Appended).To(gomega.HaveLen(2))
			gomega.Expect(notifier.Notified()).To(gomega.HaveLen(2))
		})
	})

	ginkgo.When("services are declared in a given order", func() {
		ginkgo.It("should process them in that order", func() {
			manifest := writeManifest(
				"services:\n  zeta:\n    image: redis\n  alpha:\n    image: nginx\n  built:\n    build: .\n",
			)

			result, err := run(manifest, "latest")
			gomega.Expect(err).NotTo(gomega.HaveOccurred())

			gomega.Expect(fetcher.Calls).To(gomega.Equal([]string{"redis", "nginx"}))
			gomega.Expect(result.All()[0].Service()).To(gomega.Equal("zeta"))
			gomega.Expect(result.All()[1].Service()).To(gomega.Equal("alpha"))
		})
	})

	ginkgo.When("no fetcher is configured", func() {
		ginkgo.It("should refuse to run", func() {
			_, err := actions.Check(context.Background(), actions.CheckParams{}, nil, nil, nil)
			gomega.Expect(err).To(gomega.HaveOccurred())
		})
	})
})

var _ = ginkgo.Describe("RunCheckWithNotifications", func() {
	ginkgo.It("should return the run metric", func() {
		dir := ginkgo.GinkgoT().TempDir()
		manifest := filepath.Join(dir, "docker-compose.yml")
		gomega.Expect(os.WriteFile(manifest, []byte(
			"services:\n  web:\n    image: nginx:1.25.3\n  cache:\n    image: redis\n  db:\n    image: postgres\n",
		), 0o600)).To(gomega.Succeed())

		fetcher := mocks.NewMockFetcher(map[string]types.TagSet{
			"nginx": {"1.26.1"},
			"redis": {"latest"},
		})

		metric, duration, err := actions.RunCheckWithNotifications(
			context.Background(),
			actions.CheckParams{Manifest: manifest, Strategy: "latest"},
			fetcher,
			&mocks.MockReporter{},
			nil,
		)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(duration).To(gomega.BeNumerically(">=", 0))
		gomega.Expect(metric.Checked).To(gomega.Equal(3))
		gomega.Expect(metric.Fresh).To(gomega.Equal(1))
		gomega.Expect(metric.Failed).To(gomega.Equal(2))
	})

	ginkgo.It("should return a zero metric for an unreadable manifest", func() {
		metric, _, err := actions.RunCheckWithNotifications(
			context.Background(),
			actions.CheckParams{Manifest: filepath.Join(ginkgo.GinkgoT().TempDir(), "missing.yml"), Strategy: "latest"},
			mocks.NewMockFetcher(nil),
			nil,
			mocks.NewMockNotifier(),
		)
		gomega.Expect(err).To(gomega.HaveOccurred())
		gomega.Expect(metric.Checked).To(gomega.Equal(0))
	})
})

var _ = ginkgo.Describe("the mock progress report", func() {
	ginkgo.It("should group verdicts by class", func() {
		result := mocks.CreateMockProgressReport(types.StaleClass, types.FreshClass, types.FailedClass, types.FreshClass)

		gomega.Expect(result.All()).To(gomega.HaveLen(4))
		gomega.Expect(result.Fresh()).To(gomega.HaveLen(2))
		gomega.Expect(result.Fresh()[1].Service()).To(gomega.Equal("fresh1"))
	})
})
