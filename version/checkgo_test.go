package version_test

import (
	"runtime"
	"strings"

	"github.com/nabbar/gowsgi/version"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("CheckGo", func() {
	var v version.Version

	BeforeEach(func() {
		v = version.NewVersion(version.License_MIT, "TestApp", "Test Application", testTime, "abc123", "v1.0.0", "Test Author", "test", testStruct{}, 0)
	})

	majorMinor := func() (string, string) {
		ver := strings.TrimPrefix(runtime.Version(), "go")
		parts := strings.Split(ver, ".")
		if len(parts) >= 2 {
			return parts[0], parts[1]
		}
		return "1", "18"
	}

	It("passes for a constraint the runtime satisfies", func() {
		Expect(v.CheckGo("1.18", ">=")).To(BeNil())
		Expect(v.CheckGo("1.16", ">=")).To(BeNil())
		Expect(v.CheckGo("1.10", ">")).To(BeNil())
		Expect(v.CheckGo("99.99", "<=")).To(BeNil())
		Expect(v.CheckGo("99.99", "<")).To(BeNil())
	})

	It("passes a pessimistic ~> constraint against the current minor line", func() {
		major, _ := majorMinor()
		Expect(v.CheckGo(major+".0", "~>")).To(BeNil())
	})

	It("fails when the runtime is below a future requirement", func() {
		err := v.CheckGo("99.99", ">=")
		Expect(err).ToNot(BeNil())
		Expect(err.GetCode()).To(Equal(version.ErrorGoVersionConstraint))
		Expect(err.Error()).To(ContainSubstring("non-compatible version of Go"))
	})

	It("fails a strict > constraint against its own exact version", func() {
		exact := strings.TrimPrefix(runtime.Version(), "go")
		err := v.CheckGo(exact, ">")
		Expect(err).ToNot(BeNil())
	})

	It("rejects a malformed operator", func() {
		err := v.CheckGo("1.18", "!!")
		Expect(err).ToNot(BeNil())
		Expect(err.GetCode()).To(Equal(version.ErrorGoVersionInit))
		Expect(err.Error()).To(ContainSubstring("init GoVersion contraint error"))
	})

	It("rejects a malformed version", func() {
		err := v.CheckGo("invalid.version", ">=")
		Expect(err).ToNot(BeNil())
		Expect(err.GetCode()).To(Equal(version.ErrorGoVersionInit))
	})

	It("rejects an empty version or empty operator", func() {
		Expect(v.CheckGo("", ">=")).ToNot(BeNil())
		Expect(v.CheckGo("1.18", "")).ToNot(BeNil())
	})

	It("is safe to call from multiple goroutines", func() {
		done := make(chan bool, 10)
		for i := 0; i < 10; i++ {
			go func() {
				defer GinkgoRecover()
				Expect(v.CheckGo("1.18", ">=")).To(BeNil())
				done <- true
			}()
		}
		for i := 0; i < 10; i++ {
			Eventually(done).Should(Receive())
		}
	})
})
