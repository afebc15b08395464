package version

import (
	"fmt"
	"runtime"
	"strings"

	hscvrs "github.com/hashicorp/go-version"
)

// CheckGo validates the runtime Go version against constraint using op.
// op is one of "==", "!=", ">", ">=", "<", "<=", "~>" — the same operator
// vocabulary hashicorp/go-version.Constraints parses, since op and
// constraint are joined into one "<op> <constraint>" string before
// parsing.
func (v *version) CheckGo(constraint string, op string) error {
	op = strings.TrimSpace(op)
	constraint = strings.TrimSpace(constraint)
	if op == "" || constraint == "" {
		return ErrorGoVersionInit.Error(fmt.Errorf("empty go version constraint or operator"))
	}

	c, err := hscvrs.NewConstraint(op + " " + constraint)
	if err != nil {
		return ErrorGoVersionInit.Error(err)
	}

	runtimeVer := strings.TrimPrefix(runtime.Version(), "go")
	rv, err := hscvrs.NewVersion(runtimeVer)
	if err != nil {
		return ErrorGoVersionRuntime.Error(err)
	}

	if !c.Check(rv) {
		return ErrorGoVersionConstraint.Error(fmt.Errorf(
			"runtime go%s does not satisfy constraint %s %s", runtimeVer, op, constraint,
		))
	}
	return nil
}
