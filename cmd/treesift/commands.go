package main

import (
	"github.com/desertwitch/treesift/internal/search"
	"github.com/spf13/cobra"
)

type findOptions struct {
	filters     []string
	filtersFile string
	recursive   bool
	format      string
	fingerprint bool
	ui          bool
}

type dirOptions struct {
	recursive bool
}

func newRootCmd(app *App) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "treesift",
		Short: "Search directory trees with declarative filters",
		Long: `treesift walks a directory tree on the local filesystem, an FTP server
or an S3 bucket and prints the entries passing every given filter.

Targets:
  /local/path
  ftp://[user[:password]@]host[:port]/path
  ftps://[user[:password]@]host[:port]/path   (explicit TLS)
  s3://bucket/prefix`,
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return app.setup(cmd.Context())
		},
	}

	rootCmd.PersistentFlags().StringArrayVar(&app.envFiles, "env", nil, "dotenv file with settings (repeatable)")
	rootCmd.PersistentFlags().StringVar(&app.logLevelFlag, "log-level", "", "log level (debug|info|warn|error)")
	rootCmd.PersistentFlags().StringVar(&app.cpuprofile, "cpuprofile", "", "write cpu profile to file")
	rootCmd.PersistentFlags().StringVar(&app.memprofile, "memprofile", "", "write memory profile to this file")

	rootCmd.AddCommand(newFindCmd(app))
	rootCmd.AddCommand(newDirCmd(app))

	rootCmd.CompletionOptions.DisableDefaultCmd = true

	return rootCmd
}

func newFindCmd(app *App) *cobra.Command {
	opts := &findOptions{}

	cmd := &cobra.Command{
		Use:   "find <target>",
		Short: "Find entries matching filters",
		Long: `Find entries below a target passing every filter, in order.

Filters are "<key>[operator]=<value>" assignments. Keys are type, name, time
and size; operators are == != > >= < <= % *- -* * and //. Without a type
filter only files are returned.

Examples:
  # Log files of at least 1 MiB, recursively
  treesift find /var/log -r --filter 'name-*=.log' --filter 'size>==1M'

  # Directories only, as YAML
  treesift find ftp://ftp.example.com/pub --filter type=dir --format yaml

  # Filters from a file
  treesift find s3://bucket/data -r --filters filters.yaml`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return app.runFind(cmd, args[0], opts)
		},
	}

	cmd.Flags().StringArrayVarP(&opts.filters, "filter", "f", nil, "filter assignment key[op]=value (repeatable)")
	cmd.Flags().StringVar(&opts.filtersFile, "filters", "", "YAML file with an ordered mapping of filters")
	cmd.Flags().BoolVarP(&opts.recursive, "recursive", "r", false, "descend into subdirectories")
	cmd.Flags().StringVarP(&opts.format, "format", "o", string(FormatTable), "output format (table|yaml|json|paths)")
	cmd.Flags().BoolVar(&opts.fingerprint, "fingerprint", false, "print only the fingerprint of the results")
	cmd.Flags().BoolVar(&opts.ui, "ui", false, "show search progress in a terminal interface")

	return cmd
}

func newDirCmd(app *App) *cobra.Command {
	opts := &dirOptions{}

	cmd := &cobra.Command{
		Use:   "dir <target> [pattern]",
		Short: "List files matching a glob pattern",
		Long: `List the files below a target whose names match a glob pattern.
"*" matches any run of characters and "?" a single one, case-insensitively.

Examples:
  treesift dir /srv/www '*.php' -r`,
		Args: cobra.RangeArgs(1, 2), //nolint:mnd
		RunE: func(cmd *cobra.Command, args []string) error {
			var pattern string
			if len(args) > 1 {
				pattern = args[1]
			}

			return app.runDir(cmd, args[0], pattern, opts)
		},
	}

	cmd.Flags().BoolVarP(&opts.recursive, "recursive", "r", false, "descend into subdirectories")

	return cmd
}

func (app *App) runFind(cmd *cobra.Command, rawTarget string, opts *findOptions) error {
	ctx := cmd.Context()

	format, err := ParseFormat(opts.format)
	if err != nil {
		return err
	}

	spec, err := buildSpec(opts.filtersFile, opts.filters)
	if err != nil {
		return err
	}

	target, b, err := app.openTarget(ctx, rawTarget)
	if err != nil {
		return err
	}
	defer closeBackend(b, target)

	engine := search.NewEngine()

	results, err := app.runSearch(ctx, engine, b, target, spec, opts.recursive, opts.ui)
	if err != nil {
		return err
	}
	logSummary(target, engine.Progress())

	printer := NewPrinter(cmd.OutOrStdout(), format)
	if opts.fingerprint {
		return printer.PrintFingerprint(results)
	}

	return printer.PrintResults(results)
}

func (app *App) runDir(cmd *cobra.Command, rawTarget string, pattern string, opts *dirOptions) error {
	ctx := cmd.Context()

	target, b, err := app.openTarget(ctx, rawTarget)
	if err != nil {
		return err
	}
	defer closeBackend(b, target)

	engine := search.NewEngine()

	paths, err := engine.Dir(ctx, b, target.Path, pattern, opts.recursive)
	if err != nil {
		return err
	}
	logSummary(target, engine.Progress())

	return NewPrinter(cmd.OutOrStdout(), FormatPaths).PrintPaths(paths)
}
