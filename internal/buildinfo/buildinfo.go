// Package buildinfo reports version data stamped at link time:
//
//	go build -ldflags "-X github.com/discera/discera-client/internal/buildinfo.Version=v1.2.0 \
//	  -X github.com/discera/discera-client/internal/buildinfo.Date=$(date -u +%F) \
//	  -X github.com/discera/discera-client/internal/buildinfo.Commit=$(git rev-parse --short HEAD)"
package buildinfo

import (
	"fmt"
	"io"
)

var (
	Version string
	Date    string
	Commit  string
)

func orNA(s string) string {
	if s == "" {
		return "N/A"
	}
	return s
}

// PrintBuildData writes the three build fields to w, one per line.
func PrintBuildData(w io.Writer) {
	fmt.Fprintf(w, "Build version: %s\n", orNA(Version))
	fmt.Fprintf(w, "Build date: %s\n", orNA(Date))
	fmt.Fprintf(w, "Build commit: %s\n", orNA(Commit))
}
