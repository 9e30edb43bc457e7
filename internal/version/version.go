// Package version exposes build metadata stamped into the souschef binary.
//
// Release builds set the variables with -ldflags:
//
//	go build -ldflags="\
//	  -X github.com/souschef-ai/souschef-go/internal/version.Version=v1.2.3 \
//	  -X github.com/souschef-ai/souschef-go/internal/version.Commit=abc1234 \
//	  -X github.com/souschef-ai/souschef-go/internal/version.BuildDate=2026-01-01"
//
// Unstamped builds (go run, go test) fall back to readable defaults.
package version

import "fmt"

// Version is the semantic version of the binary, "dev" when unstamped.
var Version = "dev"

// Commit is the short git SHA the binary was built from.
var Commit = "unknown"

// BuildDate is the UTC build date in RFC3339 form.
var BuildDate = "unknown"

// String renders the full build identity on one line, e.g.
// "souschef v1.2.3 (commit abc1234, built 2026-01-01)".
func String() string {
	return fmt.Sprintf("souschef %s (commit %s, built %s)", Version, Commit, BuildDate)
}
