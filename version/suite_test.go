package version_test

import (
	"testing"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestVersion(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Version Suite")
}

type testStruct struct{}

var (
	testTime       = "2024-01-15T10:30:00Z"
	testTimeParsed time.Time
)

var _ = BeforeSuite(func() {
	var err error
	testTimeParsed, err = time.Parse(time.RFC3339, testTime)
	Expect(err).ToNot(HaveOccurred())
})
