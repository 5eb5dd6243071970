package commands

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/jmylchreest/socialscout/internal/logger"
	"github.com/jmylchreest/socialscout/internal/output"
)

var searchCmd = &cobra.Command{
	Use:   "search <tiktok|facebook>",
	Short: "Run one keyword search and print the table",
	Long: `Search one platform by keyword without starting the server.

Examples:
  socialscout search tiktok -q gatos
  socialscout search facebook -q "gatos con botas" --format jsonl -o gatos.jsonl`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"tiktok", "facebook"},
	PreRun:    func(cmd *cobra.Command, args []string) { bindFlags(cmd, searchFlagKeys) },
	RunE:      runSearch,
}

func init() {
	rootCmd.AddCommand(searchCmd)

	flags := searchCmd.Flags()
	flags.StringP("query", "q", "", "keyword to search for (required)")
	flags.StringP("output", "o", "", "output file (default: stdout)")
	flags.String("format", "json", "output format: json, jsonl, yaml")
	flags.String("cookies", "fb_cookies.json", "Facebook session cookie file")
	flags.String("screenshot-dir", "", "write a screenshot here when the search fails")

	_ = searchCmd.MarkFlagRequired("query")
}

var searchFlagKeys = map[string]string{
	"cookies":        "scrape.cookie_file",
	"screenshot-dir": "browser.screenshot_dir",
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	keyword, _ := cmd.Flags().GetString("query")
	formatStr, _ := cmd.Flags().GetString("format")

	// Resolve the writer before launching a browser
	var out io.Writer = os.Stdout
	if outPath, _ := cmd.Flags().GetString("output"); outPath != "" {
		f, err := os.Create(outPath)
		if err != nil {
			logger.Error("failed to create output file", "path", outPath, "error", err)
			return err
		}
		defer func() { _ = f.Close() }()
		out = f
	}
	w, err := output.NewWriter(out, output.Format(formatStr))
	if err != nil {
		logger.Error("failed to create output writer", "format", formatStr, "error", err)
		return err
	}

	svc, pool := newService(cfg)
	defer pool.Close()

	start := time.Now()
	table, err := svc.Search(ctx, args[0], keyword)
	if err != nil {
		logError("%v", err)
		return err
	}

	if err := w.Write(table); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("failed to write output: %w", err)
	}

	logger.Info("done", "platform", table.Platform, "records", table.Len(), "duration", time.Since(start).Round(time.Millisecond))
	return nil
}
