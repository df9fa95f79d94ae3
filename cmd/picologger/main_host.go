//go:build !rp2040

package main

import "os"

func main() {
	os.Stderr.WriteString("picologger targets the rp2040; build with: tinygo flash -target pico ./cmd/picologger\n")
	os.Exit(2)
}
