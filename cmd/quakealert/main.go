// Command quakealert predicts earthquake alert levels from the terminal.
//
// Usage:
//
//	quakealert predict --magnitude 7.2 --depth 15 --cdi 8 --mmi 7 --sig 650
//	quakealert predict --model "Random Forest=models/best_random_forest.json"
//	quakealert alerts
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

// rootOptions holds the persistent flags shared by every subcommand.
type rootOptions struct {
	verbose bool
}

func (o *rootOptions) logger() *slog.Logger {
	level := slog.LevelWarn
	if o.verbose {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}

// newRootCmd builds the command tree with fresh flag state.
func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:   "quakealert",
		Short: "Predict earthquake alert levels with pre-trained classifiers",
		Long: `quakealert feeds five earthquake measurements to one or more pre-trained
tree-ensemble classifiers and shows each model's alert level on a colored panel.`,
		SilenceUsage: true,
	}
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")
	cmd.AddCommand(newPredictCmd(opts), newAlertsCmd())
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		stop()
		os.Exit(1)
	}
}
