package testing

import (
	"os"
	"path"
	"runtime"
)

func init() {
	// tests run from the project root so that the logs/ directory and sqlite files
	// land in one place. usage, in some_test.go:
	//
	//   import (
	//     _ "liyu1981.xyz/insole-monitor-service/pkg/testing"
	//   )

	_, filename, _, _ := runtime.Caller(0)
	dir := path.Join(path.Dir(filename), "..", "..")
	err := os.Chdir(dir)
	if err != nil {
		panic(err)
	}
}
