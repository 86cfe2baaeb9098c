package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dshills/stormdbg/internal/app"
	"github.com/dshills/stormdbg/internal/logging"
)

// runFunc starts the application with the parsed options.
type runFunc func(ctx context.Context, opts app.Options) error

func newRootCommand(version, commit, date string, run runFunc) *cobra.Command {
	var opts app.Options

	rootCmd := &cobra.Command{
		Use:   "stormdbg [executable] [-- args...]",
		Short: "stormdbg - terminal debugger front-end",
		Long: `stormdbg is a debugger front-end with dockable panels, Lua plugins
and persisted window layout.

Examples:
  stormdbg                          Start with no program loaded
  stormdbg ./server                 Open ./server for debugging
  stormdbg ./server -- -port 8080   Pass arguments to the program
  stormdbg --plugins-dir ./plugins  Load plugins from ./plugins`,
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		PreRunE: func(cmd *cobra.Command, args []string) error {
			_, err := logging.ParseLevel(opts.LogLevel)
			return err
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(args) > 0 {
				opts.Executable = args[0]
				opts.Args = args[1:]
			}
			opts.Version = version
			return run(cmd.Context(), opts)
		},
	}

	flags := rootCmd.Flags()
	flags.StringVarP(&opts.ConfigPath, "config", "c", "", "path to configuration file")
	flags.StringVar(&opts.SettingsPath, "settings", "", "path to the persisted settings file")
	flags.StringArrayVar(&opts.PluginDirs, "plugins-dir", nil, "plugin search directory (repeatable)")
	flags.StringVar(&opts.LogLevel, "log-level", "", "log level (debug, info, warn, error)")
	flags.BoolVar(&opts.Headless, "headless", false, "run without a terminal interface")

	rootCmd.AddCommand(newVersionCommand(version, commit, date))
	return rootCmd
}

func newVersionCommand(version, commit, date string) *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "stormdbg %s\n", version)
			fmt.Fprintf(out, "Commit: %s\n", commit)
			fmt.Fprintf(out, "Built: %s\n", date)
		},
	}
}
