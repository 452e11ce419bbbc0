package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/yangzhixuan/llvm-dsa/debuginfo"
	"github.com/yangzhixuan/llvm-dsa/loader"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var logLevel string
	root := &cobra.Command{
		Use:           "dbgscan",
		Short:         "Inspect and strip debug metadata in module descriptions",
		SilenceUsage:  true,
		SilenceErrors: false,
	}
	root.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	root.AddCommand(newScanCmd(&logLevel))
	root.AddCommand(newStripCmd(&logLevel))
	return root
}

func newLogger(level, component string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
		Level(lvl).
		With().Timestamp().Str("component", component).
		Logger()
}

func newScanCmd(logLevel *string) *cobra.Command {
	return &cobra.Command{
		Use:   "scan <module.yaml>",
		Short: "Run the debug info finder over a module and emit a YAML report",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(*logLevel, "scan")
			mod, err := loader.New().Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			finder := debuginfo.NewFinder()
			finder.ProcessModule(mod)
			logger.Info().
				Str("module", mod.Name).
				Int("compile_units", len(finder.CompileUnits())).
				Int("subprograms", len(finder.Subprograms())).
				Int("global_variables", len(finder.GlobalVariables())).
				Int("types", len(finder.Types())).
				Int("scopes", len(finder.Scopes())).
				Int("metadata_version", debuginfo.DebugMetadataVersion(mod)).
				Msg("Module processed")
			report, err := debuginfo.NewReport(finder)
			if err != nil {
				return err
			}
			data, err := report.Marshal()
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		},
	}
}

func newStripCmd(logLevel *string) *cobra.Command {
	return &cobra.Command{
		Use:   "strip <module.yaml>",
		Short: "Strip all debug metadata from a module and report whether anything changed",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger := newLogger(*logLevel, "strip")
			mod, err := loader.New().Load(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			changed := debuginfo.StripDebugInfo(mod)
			logger.Info().
				Str("module", mod.Name).
				Bool("changed", changed).
				Int("functions", len(mod.Functions())).
				Int("named_metadata", len(mod.NamedMetadataList())).
				Msg("Module stripped")
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "changed: %t\n", changed)
			return err
		},
	}
}
