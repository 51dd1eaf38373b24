// Package main содержит точку входа CLI-клиента authctl.
package main

import "github.com/IvanChernomyrdin/go-auth-service/internal/agent/cli"

var (
	// buildVersion содержит версию приложения, передаваемую при сборке.
	buildVersion = "dev"
	// buildDate содержит дату сборки приложения.
	buildDate = "unknown"
)

func main() {
	cli.Execute(buildVersion, buildDate)
}
