package cmd

import (
	"fmt"

	"github.com/git-l10n/convert_po/config"
	"github.com/git-l10n/convert_po/flag"
	"github.com/git-l10n/convert_po/util"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

type showConfigCommand struct {
	cmd *cobra.Command
}

func (v *showConfigCommand) Command() *cobra.Command {
	if v.cmd != nil {
		return v.cmd
	}

	v.cmd = &cobra.Command{
		Use:   "show-config",
		Short: "Show the effective configuration as YAML",
		Long: `Show the configuration used for conversion, after merging
~/` + config.UserConfigFile + `, ` + config.RepoConfigFile + ` at the root of the
worktree, the file given by --config, CONVERT_PO_* environment
variables and the --layout and --indent flags.`,
		Args: cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return v.Execute(args)
		},
	}

	return v.cmd
}

func (v showConfigCommand) Execute(args []string) error {
	if len(args) > 0 {
		return NewErrorWithUsage("show-config takes no arguments")
	}
	cfg, err := config.LoadConfig(flag.ConfigFile())
	if err != nil {
		return err
	}
	opts, err := resolveConvertOptions(cfg, util.EntryStateFilter{})
	if err != nil {
		return err
	}

	indent := opts.Indent
	effective := config.Config{
		Layout: string(opts.Layout),
		Indent: &indent,
		Filter: config.FilterConfig{
			Translated:   opts.Filter.Translated,
			Untranslated: opts.Filter.Untranslated,
			Fuzzy:        opts.Filter.Fuzzy,
			NoObsolete:   opts.Filter.NoObsolete,
			OnlySame:     opts.Filter.OnlySame,
			OnlyObsolete: opts.Filter.OnlyObsolete,
		},
	}
	yamlData, err := yaml.Marshal(&effective)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}
	fmt.Fprint(v.cmd.OutOrStdout(), string(yamlData))
	return nil
}

var showConfigCmd = showConfigCommand{}

func init() {
	rootCmd.AddCommand(showConfigCmd.Command())
}
