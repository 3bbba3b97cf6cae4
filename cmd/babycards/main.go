package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"codeberg.org/snonux/babycards/internal/cli"
	"codeberg.org/snonux/babycards/internal/processor"
)

func main() {
	// API keys may live in a .env file next to the word lists
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: failed to load .env: %v\n", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	flags := cli.NewFlags()
	newProcessor := func() *processor.Processor {
		return processor.NewProcessor(flags, cli.NewLogger(os.Stderr, flags.Verbose))
	}

	rootCmd := cli.CreateRootCommand(flags, cli.Handlers{
		Words: func(cmd *cobra.Command, args []string) error {
			return newProcessor().RunWords()
		},
		OpenImages: func(cmd *cobra.Command, args []string) error {
			return newProcessor().RunOpenImages(cmd.Context())
		},
		QuickDraw: func(cmd *cobra.Command, args []string) error {
			return newProcessor().RunQuickDraw(cmd.Context())
		},
		Generate: func(cmd *cobra.Command, args []string) error {
			return newProcessor().RunGenerate(cmd.Context())
		},
		ListModels: func(cmd *cobra.Command, args []string) error {
			return newProcessor().RunListModels(cmd.Context())
		},
		Archive: func(cmd *cobra.Command, args []string) error {
			return newProcessor().RunArchive(args[0])
		},
		History: func(cmd *cobra.Command, args []string) error {
			return newProcessor().RunHistory(cmd.Context())
		},
	})

	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}
