package fork

import (
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func TestFork(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Fork Suite")
}
