// Command docvet runs the doccheck analyzer as a standalone vet tool:
//
//	go vet -vettool=$(which docvet) ./...
package main

import (
	"golang.org/x/tools/go/analysis/singlechecker"

	"github.com/codellm-devkit/docanalyzer-go/internal/analyzer"
)

func main() {
	singlechecker.Main(analyzer.Analyzer)
}
