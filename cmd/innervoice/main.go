// Command innervoice is a terminal chat where the inner voices of a detective
// answer, one skill check at a time.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

type flags struct {
	configPath string
	language   string
	logLevel   string
}

func newRootCmd() *cobra.Command {
	var f flags

	rootCmd := &cobra.Command{
		Use:   "innervoice",
		Short: "Talk to the voices in your head",
		Long: `innervoice streams the answer to every prompt from the configured model and
shows it one skill check at a time. Press Enter to hear the next voice, type
"exit" or press Ctrl+C to leave.

Configuration is read from the YAML file given with --config (or
INNERVOICE_CONFIG) and from INNERVOICE_* environment variables, e.g.
INNERVOICE_MODEL__NAME.`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd.Context(), f)
		},
	}

	rootCmd.PersistentFlags().StringVar(&f.configPath, "config", "", "path to the YAML config file")
	rootCmd.PersistentFlags().StringVar(&f.language, "language", "", "interface and answer language (en, ru)")
	rootCmd.PersistentFlags().StringVar(&f.logLevel, "log-level", "", "log level (debug, info, warn, error)")

	rootCmd.AddCommand(newNotesCmd(&f))
	return rootCmd
}

func newNotesCmd(f *flags) *cobra.Command {
	return &cobra.Command{
		Use:   "notes",
		Short: "Print what the voices remember about you",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd.Context(), *f)
			if err != nil {
				return err
			}
			store, err := openNotes(cfg)
			if err != nil {
				return err
			}
			defer store.Close()

			contents, err := store.Contents(cmd.Context())
			if err != nil {
				return fmt.Errorf("read notes: %w", err)
			}
			if contents != "" {
				fmt.Fprintln(cmd.OutOrStdout(), contents)
			}
			return nil
		},
	}
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Check failure:", err)
		stop()
		os.Exit(1)
	}
}
