// xray-analyzer forwards dental radiographs to a hosted image classifier and
// re-labels its output as dental findings.
//
// Usage:
//
//	xray-analyzer serve [--http-addr=:8080] [--grpc-addr=:9090]
//	xray-analyzer analyze <image> [--report] [-o <file>]
package main

import (
	"fmt"
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
