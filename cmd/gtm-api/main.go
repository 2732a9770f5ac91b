package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/mendel-gtm/gtm-api/internal/build"
)

func main() {
	// A missing .env file is the normal case in production.
	_ = godotenv.Load()

	rootCmd := &cobra.Command{
		Use:     "gtm-api",
		Short:   "Tenant-aware GTM context and prompt service",
		Long:    "gtm-api serves per-tenant sales context and assembles generation prompts for outbound emails, research briefs, lead scores and snippets.",
		Version: build.Summary(),
	}

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newPromptCmd())

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// newLogger builds a JSON logger, or a console logger when stderr is a
// terminal.
func newLogger(level string) (*zap.Logger, error) {
	lvl, err := zapcore.ParseLevel(level)
	if err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}
	cfg := zap.NewProductionConfig()
	if isatty.IsTerminal(os.Stderr.Fd()) || isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		cfg = zap.NewDevelopmentConfig()
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)
	return cfg.Build()
}
