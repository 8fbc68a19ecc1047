// Command get-bounding-box prints the size of the figure drawn on the first
// page of a PDF.
package main

import (
	"os"
)

var (
	version   = "dev"     // This will be set by build flags
	buildTime = "unknown" // This will be set by build flags
	gitCommit = "unknown" // This will be set by build flags
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}
