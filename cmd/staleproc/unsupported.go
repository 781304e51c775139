//go:build !linux

package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Fprintln(
		os.Stderr,
		"staleproc is only supported on Linux.\n\nIt reads process memory maps from /proc, which other platforms do not provide.",
	)
	os.Exit(1)
}
