package main

import (
	"os"

	"github.com/git-l10n/convert_po/cmd"
)

func main() {
	resp := cmd.Execute()

	if resp.Err != nil {
		resp.Report()
		os.Exit(resp.ExitCode())
	}
}
