package main

import (
	"log/slog"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	var logLevel string

	rootCmd := &cobra.Command{
		Use:          "stadium",
		Short:        "Parametric stadium geometry generator",
		SilenceUsage: true,
		PersistentPreRun: func(_ *cobra.Command, _ []string) {
			slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
				Level: parseLogLevel(logLevel),
			})))
		},
	}
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(initCmd())
	rootCmd.AddCommand(buildCmd())
	rootCmd.AddCommand(validateCmd())
	rootCmd.AddCommand(planCmd())
	rootCmd.AddCommand(serveCmd())
	rootCmd.AddCommand(presetCmd())

	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// parseLogLevel converts string log level to slog.Level.
// Defaults to Info if invalid or empty.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func projectArg(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}

func initCmd() *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [project-path]",
		Short: "Write a default stadium.yaml into a project directory",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runInit(projectArg(args), force)
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, "overwrite an existing stadium.yaml")
	return cmd
}

func buildCmd() *cobra.Command {
	var opts buildOptions

	cmd := &cobra.Command{
		Use:   "build [project-path]",
		Short: "Build the stadium and write its scene graph as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runBuild(projectArg(args), opts)
		},
	}
	cmd.Flags().StringVarP(&opts.out, "out", "o", "", "output file (default stdout)")
	cmd.Flags().BoolVar(&opts.stats, "stats", false, "print build and device statistics instead of the scene")
	cmd.Flags().IntVar(&opts.rebuilds, "rebuilds", 1, "number of consecutive rebuilds to run")
	return cmd
}

func validateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "validate [project-path]",
		Short: "Validate stadium parameters without writing a scene",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runValidate(projectArg(args))
		},
	}
}

func planCmd() *cobra.Command {
	var out string

	cmd := &cobra.Command{
		Use:   "plan [project-path]",
		Short: "Write the top-down 2D plan of the stadium as JSON",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runPlan(projectArg(args), out)
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "", "output file (default stdout)")
	return cmd
}

func serveCmd() *cobra.Command {
	var opts serveOptions

	cmd := &cobra.Command{
		Use:   "serve [project-path]",
		Short: "Start the local design server",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), projectArg(args), opts)
		},
	}
	cmd.Flags().IntVarP(&opts.port, "port", "p", 3000, "HTTP server port")
	cmd.Flags().BoolVarP(&opts.watch, "watch", "w", false, "rebuild when the project file changes")
	cmd.Flags().StringVar(&opts.presets, "presets", "", "preset database path (default in the user config dir)")
	cmd.Flags().BoolVar(&opts.noPresets, "no-presets", false, "disable the preset endpoints")
	return cmd
}

func presetCmd() *cobra.Command {
	var dbPath string

	cmd := &cobra.Command{
		Use:   "preset",
		Short: "Manage named parameter presets",
	}
	cmd.PersistentFlags().StringVar(&dbPath, "db", "", "preset database path (default in the user config dir)")

	cmd.AddCommand(&cobra.Command{
		Use:   "save <name> [project-path]",
		Short: "Store the project's parameters under name",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPresetSave(cmd.Context(), dbPath, args[0], projectArg(args[1:]))
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "list",
		Short: "List stored presets",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runPresetList(cmd.Context(), dbPath)
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show <name>",
		Short: "Print a preset as YAML",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPresetShow(cmd.Context(), dbPath, args[0])
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "apply <name> [project-path]",
		Short: "Write a preset into the project's parameter file",
		Args:  cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPresetApply(cmd.Context(), dbPath, args[0], projectArg(args[1:]))
		},
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "delete <name>",
		Short: "Remove a preset",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPresetDelete(cmd.Context(), dbPath, args[0])
		},
	})
	return cmd
}
