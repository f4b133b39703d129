package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/akulenkov/konspekt/internal/worker"
	"github.com/spf13/cobra"
)

var (
	concurrency  int
	outputDir    string
	batchTimeout time.Duration
)

// batchCmd represents the batch command
var batchCmd = &cobra.Command{
	Use:   "batch <file>",
	Short: "Summarize multiple sources from a list file in parallel",
	Long: `Batch reads sources (file paths or URLs, one per line) from a list
file and summarizes them concurrently. Each source produces a .txt
summary and a .json result in the output directory.

Example:
  konspekt batch sources.txt
  konspekt batch sources.txt --concurrency 8 --output-dir ./summaries
  konspekt batch sources.txt --llm openai --lang en`,
	Args: cobra.ExactArgs(1),
	RunE: runBatch,
}

func init() {
	rootCmd.AddCommand(batchCmd)

	batchCmd.Flags().IntVar(&concurrency, "concurrency", 4, "number of concurrent workers")
	batchCmd.Flags().StringVar(&outputDir, "output-dir", "./konspekt-summaries", "output directory")
	batchCmd.Flags().DurationVar(&batchTimeout, "timeout", 30*time.Minute, "total timeout for batch processing")

	// Shared with summarize
	batchCmd.Flags().StringVar(&lang, "lang", "ru", "summary language (ru, en)")
	batchCmd.Flags().StringVar(&format, "format", "bullets", "summary format (bullets, paragraph, structured)")
	batchCmd.Flags().IntVar(&targetChars, "target-chars", 1000, "desired summary length in characters")
	batchCmd.Flags().StringVar(&userAgent, "ua", "Konspekt/0.1 (+https://github.com/akulenkov/konspekt)", "HTTP User-Agent")
	batchCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable result cache")
	batchCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	batchCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")
	batchCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable two-phase LLM summarization")
	batchCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	batchCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runBatch(cmd *cobra.Command, args []string) error {
	file := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), batchTimeout)
	defer cancel()

	timeout = batchTimeout
	cfg, err := buildConfig()
	if err != nil {
		return err
	}
	cfg.Concurrency.BatchWorkers = concurrency

	fmt.Fprintf(os.Stderr, "Input file: %s\n", file)
	fmt.Fprintf(os.Stderr, "Workers:    %d\n", concurrency)
	fmt.Fprintf(os.Stderr, "Output dir: %s\n", outputDir)
	if cfg.LLM.Provider != "" {
		fmt.Fprintf(os.Stderr, "LLM:        %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
	}
	fmt.Fprintln(os.Stderr)

	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}

	app := NewApp(cfg)
	processor := worker.NewBatchProcessor(app, concurrency)

	results, err := processor.ProcessFile(ctx, file)
	if err != nil {
		return fmt.Errorf("process file: %w", err)
	}

	successCount := 0
	failureCount := 0

	for _, result := range results {
		if result.Error != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: %v\n", result.Source, result.Error)
			continue
		}

		slug := sanitizeFilename(result.Source)
		txtPath := filepath.Join(outputDir, slug+".txt")
		jsonPath := filepath.Join(outputDir, slug+".json")

		if err := os.WriteFile(txtPath, []byte(result.Result.Summary+"\n"), 0644); err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: write summary: %v\n", result.Source, err)
			continue
		}

		data, err := json.MarshalIndent(result.Result, "", "  ")
		if err == nil {
			err = os.WriteFile(jsonPath, data, 0644)
		}
		if err != nil {
			failureCount++
			fmt.Fprintf(os.Stderr, "✗ %s: write JSON: %v\n", result.Source, err)
			continue
		}

		successCount++
		fmt.Fprintf(os.Stderr, "✓ %s (method: %s, score: %.2f)\n", result.Source, result.Result.Method, result.Result.Quality.QualityScore)
	}

	fmt.Fprintln(os.Stderr)
	fmt.Fprintf(os.Stderr, "Total:    %d\n", len(results))
	fmt.Fprintf(os.Stderr, "Success:  %d\n", successCount)
	fmt.Fprintf(os.Stderr, "Failures: %d\n", failureCount)
	fmt.Fprintf(os.Stderr, "Output:   %s\n", outputDir)

	return nil
}

// sanitizeFilename reduces a source (path or URL) to a safe file name
func sanitizeFilename(source string) string {
	s := source
	if i := strings.Index(s, "://"); i >= 0 {
		s = s[i+3:]
	}
	s = strings.TrimSuffix(s, "/")

	replacer := strings.NewReplacer(
		"/", "_",
		"\\", "_",
		":", "_",
		"*", "_",
		"?", "_",
		"\"", "_",
		"<", "_",
		">", "_",
		"|", "_",
		" ", "-",
	)
	s = replacer.Replace(s)

	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "summary"
	}

	return s
}
