// Command web serves the report generator's HTTP API: dataset upload and
// remapping, report generation with websocket progress, and artifact
// downloads.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"

	"github.com/zengjun200211-svg/douyindata/internal/app"
)

func main() {
	// Optional .env for local development; real deployments configure via
	// environment.
	_ = godotenv.Load()

	application, err := app.New()
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start: %v\n", err)
		os.Exit(1)
	}
	if err := application.Run(); err != nil {
		application.Logger.Error("server error", "error", err)
		os.Exit(1)
	}
}
