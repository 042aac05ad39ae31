// Package main — точка входа CLI-клиента Livestock Market.
package main

import "github.com/IvanChernomyrdin/go-livestock-market/internal/agent/cli"

var (
	// buildVersion задаётся при сборке через -ldflags.
	buildVersion = "dev"
	// buildDate задаётся при сборке через -ldflags.
	buildDate = "unknown"
)

func main() {
	cli.Execute(buildVersion, buildDate)
}
