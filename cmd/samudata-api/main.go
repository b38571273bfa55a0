package main

import (
	"fmt"
	"os"

	_ "github.com/samudata/samudata-api/api/swagger"
	"github.com/samudata/samudata-api/cmd/samudata-api/cli"
)

// @title Samudata API
// @version 1.0.0
// @description Fisheries document repository: uploads, downloads, activity logs and request tickets.
// @BasePath /api
// @schemes http

var (
	version = "0.0.1-dev"
	commit  = "main"
)

func main() {
	root := cli.NewRootCommand(cli.VersionInfo{Version: version, Commit: commit})
	root.AddCommand(cli.NewServeCommand())
	root.AddCommand(cli.NewMigrateCommand())
	root.AddCommand(cli.NewSweepCommand())
	root.AddCommand(cli.NewSettingsCommand())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
