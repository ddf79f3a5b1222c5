package main

import (
	"fmt"
	"os"

	"fjacquet/statement-csv/cmd/preview"
	"fjacquet/statement-csv/cmd/root"
	"fjacquet/statement-csv/cmd/serve"
	"fjacquet/statement-csv/cmd/standardize"
	"fjacquet/statement-csv/internal/config"
)

func init() {
	// .env has to be in the environment before viper reads STMT_* variables
	_, _ = config.LoadEnv()

	root.Init()

	root.Cmd.AddCommand(standardize.Cmd)
	root.Cmd.AddCommand(preview.Cmd)
	root.Cmd.AddCommand(serve.Cmd)
}

func main() {
	if err := root.Cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
