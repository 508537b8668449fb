package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"coffeerange/internal/config"
)

var (
	rootCmd = &cobra.Command{
		Use:   "coffeerange",
		Short: "Dynamic price ranges of coffee grades",
	}

	configPath string
	cnf        *config.Config
	logger     *slog.Logger
)

func Execute() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "./config.yml", "path to the config file")
	rootCmd.PersistentPreRun = func(*cobra.Command, []string) {
		initConfig()
		initLogger()
	}

	rootCmd.AddCommand(serveCmd, rangesCmd, recordCmd, importCmd)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		stop()
		os.Exit(1)
	}
}

func initConfig() {
	cnf = config.MustLoad(configPath)
}

func initLogger() {
	opts := &slog.HandlerOptions{Level: cnf.Logger.ParsedSlogLevel}
	logger = slog.New(slog.NewJSONHandler(os.Stdout, opts))
}
