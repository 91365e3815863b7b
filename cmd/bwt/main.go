package main

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v2"
)

func main() {
	app := cli.NewApp()

	app.Version = "0.1.0"
	app.Name = "bwt CLI"
	app.Usage = "Command line companion for the bwt daemon"
	app.Commands = append(
		app.Commands,
		&convert,
		&descriptorCmd,
		&derive,
	)

	if err := app.Run(os.Args); err != nil {
		fatal(err)
	}
}

func printJSON(v interface{}) {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fatal(err)
	}
	fmt.Println(string(out))
}

func fatal(err error) {
	_, _ = fmt.Fprintf(os.Stderr, "[bwt] %v\n", err)
	os.Exit(1)
}
