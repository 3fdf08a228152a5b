package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/kovidgoyal/labtransfer"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:     "labtransfer",
	Short:   "Transfer colours between images with RBF interpolation in CIELAB space",
	Version: labtransfer.Version.String(),
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
			labtransfer.SetLogger(slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelDebug})))
		}
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Log fit statistics and progress to stderr")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
