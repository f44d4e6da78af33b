package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/bethropolis/dir-mirror/internal/app"
	"github.com/bethropolis/dir-mirror/internal/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func newRootCmd() *cobra.Command {
	v := viper.New()
	cmd := &cobra.Command{
		Use:   "dir-mirror [flags] <source> <destination> [ignore-file]",
		Short: "Mirror a source directory onto a destination directory",
		Long: `Make <destination> an exact copy of <source>: files and directories
that only exist in the destination are deleted, missing or changed files
are copied. Paths matched by the ignore file are left alone on both sides.`,
		Args:          cobra.RangeArgs(2, 3),
		Version:       config.Version,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceUsage = true

			cfg, err := config.Load(v, args)
			if err != nil {
				return err
			}
			application, err := app.New(cfg)
			if err != nil {
				return err
			}
			application.Output = cmd.OutOrStdout()
			return application.Run(cmd.Context())
		},
	}
	if err := config.RegisterFlags(cmd, v); err != nil {
		panic(err)
	}
	return cmd
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := newRootCmd().ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %v\n", err)
		stop()
		os.Exit(1)
	}
}
