package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jmoiron/sqlx"
	"github.com/spf13/cobra"

	"github.com/mendel-gtm/gtm-api/internal/config"
	"github.com/mendel-gtm/gtm-api/internal/generate"
)

func newPromptCmd() *cobra.Command {
	var showMeta bool
	cmd := &cobra.Command{
		Use:   "prompt <task> [file|-]",
		Short: "Print the prompt assembled for a request without calling the provider",
		Long: "Reads a JSON request body from a file or stdin and prints the prompt the service would send.\n" +
			"Tasks: " + strings.Join(generate.Tasks, ", "),
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			logger, err := newLogger(cfg.LogLevel)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			body, err := readBody(cmd.InOrStdin(), args[1:])
			if err != nil {
				return err
			}

			var database *sqlx.DB
			if cfg.RemoteEnabled() {
				database, err = openStore(cfg)
				if err != nil {
					return err
				}
				defer func() { _ = database.Close() }()
			}

			svc, _, err := buildService(cfg, database, logger)
			if err != nil {
				return err
			}
			pr, err := svc.Prompt(cmd.Context(), args[0], body)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if showMeta {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				if err := enc.Encode(pr.Metadata); err != nil {
					return err
				}
				fmt.Fprintf(out, "max_tokens: %d\n\n", pr.MaxTokens)
			}
			_, err = fmt.Fprintln(out, pr.Prompt)
			return err
		},
	}
	cmd.Flags().BoolVar(&showMeta, "meta", false, "also print request metadata and the token ceiling")
	return cmd
}

func readBody(stdin io.Reader, args []string) ([]byte, error) {
	if len(args) == 0 || args[0] == "-" {
		return io.ReadAll(stdin)
	}
	return os.ReadFile(args[0])
}
