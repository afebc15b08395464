package version_test

import (
	"runtime"
	"strings"
	"time"

	"github.com/nabbar/gowsgi/version"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("NewVersion and getters", func() {
	var (
		testPackage     = "TestApp"
		testDescription = "Test Application"
		testBuild       = "abc123def"
		testRelease     = "v1.2.3"
		testAuthor      = "Test Author"
		testPrefix      = "test"
	)

	newV := func() version.Version {
		return version.NewVersion(
			version.License_MIT, testPackage, testDescription, testTime,
			testBuild, testRelease, testAuthor, testPrefix, testStruct{}, 0,
		)
	}

	It("creates a version instance", func() {
		Expect(newV()).ToNot(BeNil())
	})

	It("parses the build date", func() {
		v := newV()
		Expect(v.GetTime()).To(Equal(testTimeParsed))
		Expect(v.GetDate()).To(ContainSubstring("2024"))
	})

	It("falls back to the current time on an invalid date", func() {
		before := time.Now()
		v := version.NewVersion(version.License_MIT, testPackage, testDescription, "invalid-date", testBuild, testRelease, testAuthor, testPrefix, testStruct{}, 0)
		after := time.Now()
		Expect(v.GetTime()).ToNot(BeTemporally("<", before))
		Expect(v.GetTime()).ToNot(BeTemporally(">", after))
	})

	It("derives the package name when empty or noname", func() {
		v := version.NewVersion(version.License_MIT, "", testDescription, testTime, testBuild, testRelease, testAuthor, testPrefix, testStruct{}, 0)
		Expect(v.GetPackage()).To(Equal("version_test"))

		v = version.NewVersion(version.License_MIT, "noname", testDescription, testTime, testBuild, testRelease, testAuthor, testPrefix, testStruct{}, 0)
		Expect(v.GetPackage()).To(Equal("version_test"))
	})

	It("returns the fields verbatim", func() {
		v := newV()
		Expect(v.GetPackage()).To(Equal(testPackage))
		Expect(v.GetDescription()).To(Equal(testDescription))
		Expect(v.GetBuild()).To(Equal(testBuild))
		Expect(v.GetRelease()).To(Equal(testRelease))
		Expect(v.GetPrefix()).To(Equal(strings.ToUpper(testPrefix)))
	})

	It("reports an author string carrying the source path", func() {
		author := newV().GetAuthor()
		Expect(author).To(ContainSubstring(testAuthor))
		Expect(author).To(ContainSubstring("source"))
	})

	It("builds an app id with release and runtime", func() {
		appId := newV().GetAppId()
		Expect(appId).To(ContainSubstring(testRelease))
		Expect(appId).To(ContainSubstring(runtime.GOOS))
		Expect(appId).To(ContainSubstring(runtime.GOARCH))
		Expect(appId).To(ContainSubstring("Runtime"))
	})

	It("builds a header with package, release and build", func() {
		header := newV().GetHeader()
		Expect(header).To(ContainSubstring(testPackage))
		Expect(header).To(ContainSubstring(testRelease))
		Expect(header).To(ContainSubstring(testBuild))
	})

	It("builds an info block with release, build and date", func() {
		info := newV().GetInfo()
		Expect(info).To(ContainSubstring("Release"))
		Expect(info).To(ContainSubstring(testRelease))
		Expect(info).To(ContainSubstring("Build"))
		Expect(info).To(ContainSubstring(testBuild))
		Expect(info).To(ContainSubstring("Date"))
	})

	Describe("root package path", func() {
		It("keeps the full path at depth 0", func() {
			v := newV()
			Expect(v.GetRootPackagePath()).To(ContainSubstring("github.com/nabbar/gowsgi/version"))
		})

		It("trims one segment at depth 1", func() {
			v := version.NewVersion(version.License_MIT, testPackage, testDescription, testTime, testBuild, testRelease, testAuthor, testPrefix, testStruct{}, 1)
			path := v.GetRootPackagePath()
			Expect(path).To(ContainSubstring("github.com/nabbar/gowsgi"))
			Expect(path).ToNot(ContainSubstring("github.com/nabbar/gowsgi/version"))
		})
	})

	Describe("edge cases", func() {
		It("handles every field empty", func() {
			v := version.NewVersion(version.License_MIT, "", "", "", "", "", "", "", testStruct{}, 0)
			Expect(v).ToNot(BeNil())
			Expect(v.GetPackage()).ToNot(BeEmpty())
			Expect(v.GetTime()).ToNot(BeZero())
		})

		It("carries special characters through untouched", func() {
			v := version.NewVersion(version.License_MIT, "Test™Package©", "Description with émojis", testTime, "build-123.456", "v1.2.3-beta+meta", "Author Name <email@example.com>", "prefix_with_underscore", testStruct{}, 0)
			Expect(v.GetPackage()).To(ContainSubstring("Test"))
			Expect(v.GetDescription()).To(ContainSubstring("émojis"))
			Expect(v.GetAuthor()).To(ContainSubstring("email@example.com"))
		})

		It("accepts RFC3339 variants", func() {
			for _, format := range []string{
				"2024-01-15T10:30:00Z",
				"2024-01-15T10:30:00+01:00",
				"2024-01-15T10:30:00.123Z",
			} {
				v := version.NewVersion(version.License_MIT, testPackage, testDescription, format, testBuild, testRelease, testAuthor, testPrefix, testStruct{}, 0)
				Expect(v.GetTime()).ToNot(BeZero())
			}
		})
	})

	Describe("concurrency", func() {
		It("is safe to read from multiple goroutines", func() {
			v := newV()
			done := make(chan bool, 10)
			for i := 0; i < 10; i++ {
				go func() {
					defer GinkgoRecover()
					Expect(v.GetPackage()).To(Equal(testPackage))
					Expect(v.GetRelease()).To(Equal(testRelease))
					Expect(v.GetInfo()).ToNot(BeEmpty())
					done <- true
				}()
			}
			for i := 0; i < 10; i++ {
				Eventually(done).Should(Receive())
			}
		})
	})
})
