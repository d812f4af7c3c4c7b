// Package cmd provides CLI implementations.
package cmd

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/git-l10n/convert_po/config"
	"github.com/git-l10n/convert_po/flag"
	"github.com/git-l10n/convert_po/repository"
	"github.com/git-l10n/convert_po/util"
	"github.com/mattn/go-isatty"
	log "github.com/sirupsen/logrus"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const (
	// Program is name for this project
	Program = "convert_po"

	// Exit codes.
	exitOK        = 0
	exitFailure   = 1
	exitUserError = 2
)

var rootCmd = rootCommand{}

// errorWithUsage marks an error that should display command usage.
type errorWithUsage struct{ msg string }

func (e errorWithUsage) Error() string { return e.msg }

// NewErrorWithUsage creates an error that should display usage (e.g. argument/flag errors).
func NewErrorWithUsage(a ...interface{}) error {
	return errorWithUsage{msg: strings.TrimSuffix(fmt.Sprintln(a...), "\n")}
}

// NewErrorWithUsageF creates an error that should display usage.
func NewErrorWithUsageF(format string, a ...interface{}) error {
	return errorWithUsage{msg: fmt.Sprintf(format, a...)}
}

// userError is a bad invocation that is not about syntax, such as a
// missing input file. It is reported on stdout without usage.
type userError struct{ msg string }

func (e userError) Error() string { return e.msg }

func newUserError(a ...interface{}) error {
	return userError{msg: strings.TrimSuffix(fmt.Sprintln(a...), "\n")}
}

// IsErrorWithUsage returns true if the error should display command usage.
func IsErrorWithUsage(err error) bool {
	_, ok := err.(errorWithUsage)
	return ok
}

// IsUserError returns true for usage errors and other invocation errors.
func IsUserError(err error) bool {
	if IsErrorWithUsage(err) {
		return true
	}
	_, ok := err.(userError)
	return ok
}

// ExitCode maps an error returned by a command to the process exit status.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case IsUserError(err):
		return exitUserError
	default:
		return exitFailure
	}
}

// Response wraps error for subcommand, and is returned from cmd package.
type Response struct {
	// Err contains error returned from the subcommand executed.
	Err error

	// Cmd contains the command object.
	Cmd *cobra.Command
}

// IsUserError returns true if the command failed because of how it was invoked.
func (r Response) IsUserError() bool {
	return IsUserError(r.Err)
}

// ExitCode returns the process exit status for the response.
func (r Response) ExitCode() int {
	return ExitCode(r.Err)
}

// Report prints the error of the response: invocation errors go to
// stdout, everything else to stderr.
func (r Response) Report() {
	if r.Err == nil {
		return
	}
	var out, errOut io.Writer = os.Stdout, os.Stderr
	if r.Cmd != nil {
		out = r.Cmd.OutOrStdout()
		errOut = r.Cmd.ErrOrStderr()
	}
	switch {
	case IsErrorWithUsage(r.Err):
		fmt.Fprintf(out, "ERROR: %s\n\n", r.Err)
		if r.Cmd != nil {
			fmt.Fprint(out, r.Cmd.UsageString())
		}
	case r.IsUserError():
		fmt.Fprintln(out, r.Err)
	default:
		fmt.Fprintf(errOut, "ERROR: %s\n", r.Err)
	}
}

type rootCommand struct {
	cmd *cobra.Command
	O   struct {
		Translated   bool
		Untranslated bool
		Fuzzy        bool
		NoObsolete   bool
		OnlySame     bool
		OnlyObsolete bool
	}
}

func (v *rootCommand) initLog() {
	f := new(log.TextFormatter)
	f.DisableTimestamp = true
	f.DisableLevelTruncation = true
	if isatty.IsTerminal(os.Stderr.Fd()) {
		f.ForceColors = true
	} else {
		f.DisableColors = true
	}
	log.SetFormatter(f)
	verbose := flag.Verbose()
	quiet := flag.Quiet()
	if verbose == 1 {
		log.SetLevel(log.DebugLevel)
	} else if verbose > 1 {
		log.SetLevel(log.TraceLevel)
	} else if quiet == 1 {
		log.SetLevel(log.WarnLevel)
	} else if quiet > 1 {
		log.SetLevel(log.ErrorLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

func (v *rootCommand) initRepository() {
	repository.OpenRepository("")
}

// Command represents the base command when called without any subcommands
func (v *rootCommand) Command() *cobra.Command {
	if v.cmd != nil {
		return v.cmd
	}

	v.cmd = &cobra.Command{
		Use:   Program + " [flags] <input.po> <output.json>",
		Short: "Convert a gettext PO file to JSON",
		Long: `Parse a gettext PO file and write it as a JSON document.

The output file is created or overwritten; use "-" to write to stdout.
JSON is UTF-8, indented by 4 spaces, with non-ASCII characters kept as is.

Layouts (--layout):
  polib    array of entry objects with msgid, msgstr, msgid_plural,
           msgstr_plural, msgctxt, obsolete, encoding, comment, tcomment,
           occurrences, flags, previous_*, linenum (default)
  catalog  object with header, metadata, encoding, language and entries
  gettext  object with header_comment, header_meta and entries

By default every entry is written. Use --translated, --untranslated,
--fuzzy to filter by state (OR relationship), --no-obsolete to drop
obsolete entries, or --only-same / --only-obsolete for a single state.

An input file named like a subcommand (stat, show-config, help) is taken
as that subcommand; write it as "./stat" or put it after "--".`,
		Args: cobra.ArbitraryArgs,
		// Let Response.Report handle error output
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return v.Execute(args)
		},
	}
	v.cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		return NewErrorWithUsage(err)
	})

	pfs := v.cmd.PersistentFlags()
	pfs.CountP("quiet",
		"q",
		"quiet mode")
	pfs.CountP("verbose",
		"v",
		"verbose mode")
	pfs.String("config",
		"",
		"load configuration from this file (overrides ~/"+config.UserConfigFile+
			" and "+config.RepoConfigFile+" in the worktree)")
	pfs.String("layout",
		string(util.LayoutPolib),
		"JSON layout: polib, catalog or gettext")
	pfs.Int("indent",
		util.DefaultIndent,
		"number of spaces to indent JSON with, 0 for compact output")
	_ = pfs.SetAnnotation("quiet", groupAnnotationKey, []string{"General options"})
	_ = pfs.SetAnnotation("verbose", groupAnnotationKey, []string{"General options"})
	_ = pfs.SetAnnotation("config", groupAnnotationKey, []string{"General options"})
	_ = pfs.SetAnnotation("layout", groupAnnotationKey, []string{"Output options"})
	_ = pfs.SetAnnotation("indent", groupAnnotationKey, []string{"Output options"})

	for _, key := range []string{"quiet", "verbose", "config", "layout", "indent"} {
		_ = viper.BindPFlag(key, pfs.Lookup(key))
	}

	fs := v.cmd.Flags()
	fs.SortFlags = false

	// State filter: translated, untranslated, fuzzy (OR when combined)
	fs.BoolVar(&v.O.Translated, "translated", false, "select translated entries")
	fs.BoolVar(&v.O.Untranslated, "untranslated", false, "select untranslated entries")
	fs.BoolVar(&v.O.Fuzzy, "fuzzy", false, "select fuzzy entries")
	_ = fs.SetAnnotation("translated", groupAnnotationKey, []string{"State filter"})
	_ = fs.SetAnnotation("untranslated", groupAnnotationKey, []string{"State filter"})
	_ = fs.SetAnnotation("fuzzy", groupAnnotationKey, []string{"State filter"})

	fs.BoolVar(&v.O.NoObsolete, "no-obsolete", false, "exclude obsolete entries")
	_ = fs.SetAnnotation("no-obsolete", groupAnnotationKey, []string{"Obsolete handling"})

	// Single-state filter: mutually exclusive with state filter above
	fs.BoolVar(&v.O.OnlySame, "only-same", false, "only entries where msgstr equals msgid")
	fs.BoolVar(&v.O.OnlyObsolete, "only-obsolete", false, "only obsolete entries")
	_ = fs.SetAnnotation("only-same", groupAnnotationKey, []string{"Single-state filter"})
	_ = fs.SetAnnotation("only-obsolete", groupAnnotationKey, []string{"Single-state filter"})

	v.cmd.SetUsageTemplate(groupedUsageTemplate)

	return v.cmd
}

func (v *rootCommand) Execute(args []string) error {
	if len(args) != 2 {
		return NewErrorWithUsageF("requires exactly two arguments: <input.po> <output.json> (got %d)",
			len(args))
	}
	poFile, jsonFile := args[0], args[1]
	if !util.IsFile(poFile) {
		return newUserError("File doesn't exist:", poFile)
	}

	cfg, err := config.LoadConfig(flag.ConfigFile())
	if err != nil {
		return err
	}
	opts, err := resolveConvertOptions(cfg, v.filter())
	if err != nil {
		return err
	}

	log.Debugf("converting %s to %s (layout %s)", poFile, jsonFile, opts.Layout)
	return util.ConvertPoFile(poFile, jsonFile, v.cmd.OutOrStdout(), opts)
}

func (v *rootCommand) filter() util.EntryStateFilter {
	return util.EntryStateFilter{
		Translated:   v.O.Translated,
		Untranslated: v.O.Untranslated,
		Fuzzy:        v.O.Fuzzy,
		NoObsolete:   v.O.NoObsolete,
		OnlySame:     v.O.OnlySame,
		OnlyObsolete: v.O.OnlyObsolete,
	}
}

// resolveConvertOptions applies command-line flags and CONVERT_PO_*
// environment variables over the configuration files. Filter switches
// from both sources are combined.
func resolveConvertOptions(cfg *config.Config, cli util.EntryStateFilter) (util.ConvertOptions, error) {
	opts := util.DefaultConvertOptions()

	layoutName := cfg.Layout
	if layoutName == "" || viper.IsSet("layout") {
		layoutName = flag.Layout()
	}
	layout, err := util.ParseLayout(layoutName)
	if err != nil {
		return opts, NewErrorWithUsage(err)
	}
	opts.Layout = layout

	opts.Indent = cfg.IndentOrDefault(util.DefaultIndent)
	if viper.IsSet("indent") {
		opts.Indent = flag.Indent()
	}
	if opts.Indent < 0 {
		return opts, NewErrorWithUsageF("invalid indent %d, must not be negative", opts.Indent)
	}

	opts.Filter = util.EntryStateFilter{
		Translated:   cli.Translated || cfg.Filter.Translated,
		Untranslated: cli.Untranslated || cfg.Filter.Untranslated,
		Fuzzy:        cli.Fuzzy || cfg.Filter.Fuzzy,
		NoObsolete:   cli.NoObsolete || cfg.Filter.NoObsolete,
		OnlySame:     cli.OnlySame || cfg.Filter.OnlySame,
		OnlyObsolete: cli.OnlyObsolete || cfg.Filter.OnlyObsolete,
	}
	if err := opts.Filter.Validate(); err != nil {
		return opts, NewErrorWithUsage(err)
	}
	return opts, nil
}

func (v *rootCommand) AddCommand(cmds ...*cobra.Command) {
	v.Command().AddCommand(cmds...)
}

func execute(c *cobra.Command) Response {
	var resp Response
	resp.Cmd, resp.Err = c.ExecuteC()
	return resp
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() Response {
	return execute(rootCmd.Command())
}

func init() {
	viper.SetEnvPrefix(Program)
	viper.AutomaticEnv()

	cobra.OnInitialize(rootCmd.initLog)
	cobra.OnInitialize(rootCmd.initRepository)
}
