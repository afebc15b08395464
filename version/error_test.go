package version_test

import (
	liberr "github.com/nabbar/gowsgi/errors"
	"github.com/nabbar/gowsgi/version"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("error codes", func() {
	It("are unique and sequential from MinPkgVersion", func() {
		codes := []liberr.CodeError{
			version.ErrorParamEmpty,
			version.ErrorGoVersionInit,
			version.ErrorGoVersionRuntime,
			version.ErrorGoVersionConstraint,
		}

		seen := make(map[liberr.CodeError]bool)
		for _, c := range codes {
			Expect(seen[c]).To(BeFalse())
			seen[c] = true
			Expect(c).To(BeNumerically(">=", liberr.MinPkgVersion))
		}

		Expect(version.ErrorGoVersionInit).To(Equal(version.ErrorParamEmpty + 1))
		Expect(version.ErrorGoVersionRuntime).To(Equal(version.ErrorGoVersionInit + 1))
		Expect(version.ErrorGoVersionConstraint).To(Equal(version.ErrorGoVersionRuntime + 1))
	})

	It("produce a message containing the registered text", func() {
		err := version.ErrorParamEmpty.Error(nil)
		Expect(err.Error()).To(ContainSubstring("given parameters is empty"))
		Expect(err.GetCode()).To(Equal(version.ErrorParamEmpty))
	})

	It("chain parent errors", func() {
		parent := version.ErrorParamEmpty.Error(nil)
		child := version.ErrorGoVersionInit.Error(parent)
		Expect(child.GetParent(false)).To(HaveLen(1))
		Expect(child.HasCode(version.ErrorParamEmpty)).To(BeTrue())
	})
})
