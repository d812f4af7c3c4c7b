package cmd

import (
	"fmt"
	"strings"

	"github.com/git-l10n/convert_po/flag"
	"github.com/git-l10n/convert_po/util"
	"github.com/spf13/cobra"
)

type statCommand struct {
	cmd *cobra.Command
}

func (v *statCommand) Command() *cobra.Command {
	if v.cmd != nil {
		return v.cmd
	}

	v.cmd = &cobra.Command{
		Use:   "stat <po-or-json-file>",
		Short: "Report statistics for a PO file or a converted JSON file",
		Long: `Report entry statistics:
  translated   - entries with non-empty translation
  untranslated - entries with empty msgstr
  same         - entries where msgstr equals msgid (suspect untranslated)
  fuzzy        - entries with fuzzy flag
  obsolete     - obsolete entries (#~ format)

The file may be a PO file or a JSON file written by any layout of
` + Program + `; the format is detected by extension or content.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return v.Execute(args)
		},
	}

	return v.cmd
}

func (v statCommand) Execute(args []string) error {
	if len(args) != 1 {
		return NewErrorWithUsage("stat requires exactly one argument: <po-or-json-file>")
	}

	file := args[0]
	if !util.IsFile(file) {
		return newUserError("File doesn't exist:", file)
	}

	stats, err := util.CountFileReportStats(file)
	if err != nil {
		return err
	}

	out := v.cmd.OutOrStdout()
	if flag.Verbose() > 0 {
		title := fmt.Sprintf("File: %s", file)
		fmt.Fprintln(out, title)
		fmt.Fprintln(out, strings.Repeat("-", len(title)))
		fmt.Fprintf(out, "  translated:   %d\n", stats.Translated)
		fmt.Fprintf(out, "  untranslated: %d\n", stats.Untranslated)
		fmt.Fprintf(out, "  same:         %d\n", stats.Same)
		fmt.Fprintf(out, "  fuzzy:        %d\n", stats.Fuzzy)
		fmt.Fprintf(out, "  obsolete:     %d\n", stats.Obsolete)
		fmt.Fprintf(out, "  total:        %d\n", stats.Total())
	} else {
		fmt.Fprint(out, util.FormatStatLine(stats))
	}

	return nil
}

var statCmd = statCommand{}

func init() {
	rootCmd.AddCommand(statCmd.Command())
}
