package cmd

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
)

const (
	groupAnnotationKey = "group"
	defaultFlagGroup   = "Other options"
)

// groupedUsageTemplate is cobra's default usage template, with local flags
// printed by flagUsagesByGroup.
const groupedUsageTemplate = `Usage:{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}{{if gt (len .Aliases) 0}}

Aliases:
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

Examples:
{{.Example}}{{end}}{{if .HasAvailableSubCommands}}

Available Commands:{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{rpad .Name .NamePadding }} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

Flags:
{{flagUsagesByGroup . | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

Global Flags:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasHelpSubCommands}}

Additional help topics:{{range .Commands}}{{if .IsAdditionalHelpTopicCommand}}
  {{rpad .CommandPath .CommandPathPadding}} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableSubCommands}}

Use "{{.CommandPath}} [command] --help" for more information about a command.{{end}}
`

func flagGroup(f *pflag.Flag) string {
	if g, ok := f.Annotations[groupAnnotationKey]; ok && len(g) > 0 {
		return g[0]
	}
	// Cobra adds --help after command creation; put it in General options
	if f.Name == "help" {
		return "General options"
	}
	return defaultFlagGroup
}

// flagUsagesByGroup formats local flags by their "group" annotation.
// Flags with the same group are printed under a section header, groups in
// first-seen order. Falls back to default FlagUsages if no flags have
// group annotations.
func flagUsagesByGroup(cmd *cobra.Command) string {
	fs := cmd.LocalFlags()
	if fs == nil || !cmd.HasAvailableLocalFlags() {
		return ""
	}

	var groupOrder []string
	groups := make(map[string]*pflag.FlagSet)
	hasAnyGroup := false

	fs.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		group := flagGroup(f)
		if _, ok := f.Annotations[groupAnnotationKey]; ok {
			hasAnyGroup = true
		}
		set, seen := groups[group]
		if !seen {
			set = pflag.NewFlagSet(group, pflag.ContinueOnError)
			set.SortFlags = false
			groups[group] = set
			groupOrder = append(groupOrder, group)
		}
		set.AddFlag(f)
	})

	if !hasAnyGroup {
		return fs.FlagUsages()
	}

	var buf bytes.Buffer
	for _, group := range groupOrder {
		fmt.Fprintf(&buf, "\n%s:\n%s", group, groups[group].FlagUsages())
	}
	return strings.TrimPrefix(buf.String(), "\n")
}

func init() {
	cobra.AddTemplateFunc("flagUsagesByGroup", flagUsagesByGroup)
}
