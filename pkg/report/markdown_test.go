package report_test

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofrs/flock"
	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/nicholas-fedor/tagwatch/pkg/report"
	"github.com/nicholas-fedor/tagwatch/pkg/session"
	"github.com/nicholas-fedor/tagwatch/pkg/types"
)

var _ = ginkgo.Describe("the markdown reporter", func() {
	var (
		path     string
		reporter *report.Markdown
		stamp    = time.Date(2026, 3, 14, 9, 26, 53, 0, time.UTC)
	)

	ginkgo.BeforeEach(func() {
		path = filepath.Join(ginkgo.GinkgoT().TempDir(), "version_check.md")
		reporter = report.NewMarkdown(path, "docker-compose.yml").WithClock(func() time.Time { return stamp })
	})

	read := func() string {
		data, err := os.ReadFile(path)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())

		return string(data)
	}

	ginkgo.It("writes the version lines for a resolved service", func() {
		verdict := session.Decide("web", "nginx:1.25.3", "1.25.3", types.Resolved("1.26.1"))
		gomega.Expect(reporter.Append(verdict)).To(gomega.Succeed())

		gomega.Expect(read()).To(gomega.Equal(
			"## 📊 docker-compose.yml version check results\n" +
				"<!-- run " + reporter.RunID() + " at 2026-03-14T09:26:53Z -->\n" +
				"### Service: web\n" +
				"- **Image:** nginx:1.25.3\n" +
				"- **Current version:** 1.25.3\n" +
				"- **Latest version:** 1.26.1\n" +
				"- **Update needed:** yes\n\n",
		))
	})

	ginkgo.It("writes the error line for a failed service", func() {
		verdict := session.Decide("db", "postgres:16.1", "16.1", types.Failed(types.RegistryError, "context deadline exceeded"))
		gomega.Expect(reporter.Append(verdict)).To(gomega.Succeed())

		content := read()
		gomega.Expect(content).To(gomega.ContainSubstring("- **Error:** registry error: context deadline exceeded\n"))
		gomega.Expect(content).To(gomega.ContainSubstring("- **Update needed:** yes\n\n"))
		gomega.Expect(content).NotTo(gomega.ContainSubstring("Current version"))
		gomega.Expect(content).NotTo(gomega.ContainSubstring("Latest version"))
	})

	ginkgo.It("reports no update for a matching version", func() {
		verdict := session.Decide("cache", "redis", "latest", types.Resolved("latest"))
		gomega.Expect(reporter.Append(verdict)).To(gomega.Succeed())

		gomega.Expect(read()).To(gomega.ContainSubstring("- **Update needed:** no\n\n"))
	})

	ginkgo.It("appends without truncating existing content", func() {
		gomega.Expect(os.WriteFile(path, []byte("# previous runs\n\n"), 0o600)).To(gomega.Succeed())

		gomega.Expect(reporter.Append(session.Decide("web", "nginx", "latest", types.Resolved("latest")))).To(gomega.Succeed())
		gomega.Expect(reporter.Append(session.Decide("db", "postgres", "latest", types.Resolved("latest")))).To(gomega.Succeed())

		content := read()
		gomega.Expect(content).To(gomega.HavePrefix("# previous runs\n\n"))
		gomega.Expect(strings.Count(content, "## 📊 docker-compose.yml version check results")).To(gomega.Equal(2))
		gomega.Expect(strings.Index(content, "### Service: web")).To(gomega.BeNumerically("<", strings.Index(content, "### Service: db")))
	})

	ginkgo.It("uses a distinct run id per reporter", func() {
		other := report.NewMarkdown(path, "docker-compose.yml")
		gomega.Expect(other.RunID()).NotTo(gomega.Equal(reporter.RunID()))
		gomega.Expect(other.RunID()).NotTo(gomega.BeEmpty())
	})

	ginkgo.It("defaults the report path", func() {
		gomega.Expect(report.NewMarkdown("", "m.yml").Path()).To(gomega.Equal(report.DefaultPath))
	})

	ginkgo.It("fails when the report directory does not exist", func() {
		missing := report.NewMarkdown(filepath.Join(path, "nested", "report.md"), "m.yml")
		err := missing.Append(session.Decide("web", "nginx", "latest", types.Resolved("latest")))
		gomega.Expect(err).To(gomega.HaveOccurred())
	})

	ginkgo.It("releases the lock after each append", func() {
		gomega.Expect(reporter.Append(session.Decide("web", "nginx", "latest", types.Resolved("latest")))).To(gomega.Succeed())

		lock := flock.New(path + ".lock")
		locked, err := lock.TryLock()
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(locked).To(gomega.BeTrue())
		gomega.Expect(lock.Unlock()).To(gomega.Succeed())
	})
})
