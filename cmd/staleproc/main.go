//go:build linux

package main

import "github.com/pranshuparmar/staleproc/internal/app"

func main() {
	app.Main()
}
