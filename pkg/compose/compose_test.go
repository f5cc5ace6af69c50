package compose_test

import (
	"os"
	"path/filepath"

	"github.com/onsi/ginkgo/v2"
	"github.com/onsi/gomega"

	"github.com/nicholas-fedor/tagwatch/pkg/compose"
)

var _ = ginkgo.Describe("Parse", func() {
	ginkgo.It("returns services with images in declaration order", func() {
		manifest, err := compose.Parse([]byte(`
services:
  web:
    image: nginx:1.25.3
  cache:
    image: redis
  db:
    image: postgres:16.1
`))
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(manifest.Services).To(gomega.Equal([]compose.Service{
			{Name: "web", Image: "nginx:1.25.3"},
			{Name: "cache", Image: "redis"},
			{Name: "db", Image: "postgres:16.1"},
		}))
	})

	ginkgo.It("skips services without a usable image", func() {
		manifest, err := compose.Parse([]byte(`
services:
  built:
    build: .
  nulled:
    image: ~
  empty:
    image: ""
  listed:
    image: [nginx]
  scalar: nginx
  app:
    image: acme/app:2.0.0
`))
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(manifest.Services).To(gomega.Equal([]compose.Service{
			{Name: "app", Image: "acme/app:2.0.0"},
		}))
	})

	ginkgo.It("follows anchors and aliases", func() {
		manifest, err := compose.Parse([]byte(`
x-img: &img redis:7.2.4
x-base: &base
  image: nginx:1.25.3
services:
  one: *base
  two:
    image: *img
`))
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(manifest.Services).To(gomega.Equal([]compose.Service{
			{Name: "one", Image: "nginx:1.25.3"},
			{Name: "two", Image: "redis:7.2.4"},
		}))
	})

	ginkgo.It("returns no services when the key is missing or null", func() {
		for _, doc := range []string{"version: '3'\n", "services:\n"} {
			manifest, err := compose.Parse([]byte(doc))
			gomega.Expect(err).NotTo(gomega.HaveOccurred())
			gomega.Expect(manifest.Services).To(gomega.BeEmpty())
		}
	})

	ginkgo.DescribeTable("rejects documents that are not manifests",
		func(doc string) {
			_, err := compose.Parse([]byte(doc))
			gomega.Expect(err).To(gomega.MatchError(compose.ErrManifestParse))
		},
		ginkgo.Entry("invalid YAML", "services: [unclosed\n"),
		ginkgo.Entry("empty document", ""),
		ginkgo.Entry("scalar document", "just a string\n"),
		ginkgo.Entry("sequence document", "- a\n- b\n"),
		ginkgo.Entry("services as a list", "services:\n  - web\n"),
		ginkgo.Entry("duplicate service", "services:\n  web:\n    image: a\n  web:\n    image: b\n"),
	)
})

var _ = ginkgo.Describe("ReadManifest", func() {
	ginkgo.It("reads a manifest file and records its path", func() {
		path := filepath.Join(ginkgo.GinkgoT().TempDir(), "docker-compose.yml")
		gomega.Expect(os.WriteFile(path, []byte("services:\n  web:\n    image: nginx\n"), 0o600)).To(gomega.Succeed())

		manifest, err := compose.ReadManifest(path)
		gomega.Expect(err).NotTo(gomega.HaveOccurred())
		gomega.Expect(manifest.Path).To(gomega.Equal(path))
		gomega.Expect(manifest.Services).To(gomega.HaveLen(1))
	})

	ginkgo.It("wraps read failures in ErrManifestParse", func() {
		_, err := compose.ReadManifest(filepath.Join(ginkgo.GinkgoT().TempDir(), "missing.yml"))
		gomega.Expect(err).To(gomega.MatchError(compose.ErrManifestParse))
		gomega.Expect(err).To(gomega.MatchError(os.ErrNotExist))
	})
})
