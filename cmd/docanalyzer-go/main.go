// Command docanalyzer-go checks that every public symbol of a Go library has a doc
// comment.
//
// Exit codes: 0 when everything is documented, 1 when violations were found or the
// analysis failed, 2 on configuration errors.
package main

import (
	"os"

	"github.com/codellm-devkit/docanalyzer-go/internal/cli"
)

func main() {
	os.Exit(cli.Main(os.Args[1:], os.Stdout, os.Stderr))
}
