package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/akulenkov/konspekt/internal/model"
	"github.com/spf13/cobra"
)

var (
	lang        string
	format      string
	targetChars int
	outJSON     string
	outPath     string
	timeout     time.Duration
	userAgent   string
	maxBytes    int64
	noCache     bool
	httpProxy   string
	httpsProxy  string
	llmEnabled  bool
	llmProvider string
	llmModel    string
)

// summarizeCmd represents the summarize command
var summarizeCmd = &cobra.Command{
	Use:   "summarize <source>",
	Short: "Summarize a file, URL or stdin, preserving all facts",
	Long: `Summarize condenses one text into a short summary that keeps every
number, date, money amount and named entity from the source.

The source may be a file path, an http(s) URL, or "-" for stdin.

Example:
  konspekt summarize meeting.txt
  konspekt summarize https://example.com/article --lang en
  cat report.txt | konspekt summarize - --format paragraph --target-chars 1500
  konspekt summarize notes.txt --llm openai --llm-model gpt-4o-mini`,
	Args: cobra.ExactArgs(1),
	RunE: runSummarize,
}

func init() {
	rootCmd.AddCommand(summarizeCmd)

	// Summary flags
	summarizeCmd.Flags().StringVar(&lang, "lang", "ru", "summary language (ru, en)")
	summarizeCmd.Flags().StringVar(&format, "format", "bullets", "summary format (bullets, paragraph, structured)")
	summarizeCmd.Flags().IntVar(&targetChars, "target-chars", 1000, "desired summary length in characters")

	// Output flags
	summarizeCmd.Flags().StringVar(&outPath, "out", "", "write summary text to file (default: stdout)")
	summarizeCmd.Flags().StringVar(&outJSON, "json", "", "write full result JSON to file")

	// HTTP flags
	summarizeCmd.Flags().DurationVar(&timeout, "timeout", 5*time.Minute, "overall timeout")
	summarizeCmd.Flags().StringVar(&userAgent, "ua", "Konspekt/0.1 (+https://github.com/akulenkov/konspekt)", "HTTP User-Agent")
	summarizeCmd.Flags().Int64Var(&maxBytes, "max-bytes", 2_000_000, "max response bytes to read")
	summarizeCmd.Flags().BoolVar(&noCache, "no-cache", false, "disable result cache")
	summarizeCmd.Flags().StringVar(&httpProxy, "http-proxy", "", "HTTP proxy URL (overrides HTTP_PROXY env var)")
	summarizeCmd.Flags().StringVar(&httpsProxy, "https-proxy", "", "HTTPS proxy URL (overrides HTTPS_PROXY env var)")

	// LLM flags
	summarizeCmd.Flags().BoolVar(&llmEnabled, "llm", false, "enable two-phase LLM summarization")
	summarizeCmd.Flags().StringVar(&llmProvider, "llm-provider", "openai", "LLM provider (openai, anthropic, ollama)")
	summarizeCmd.Flags().StringVar(&llmModel, "llm-model", "gpt-4o-mini", "LLM model name")
}

func runSummarize(cmd *cobra.Command, args []string) error {
	source := args[0]
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	cfg, err := buildConfig()
	if err != nil {
		return err
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "Summarizing: %s\n", source)
		fmt.Fprintf(os.Stderr, "Language: %s, format: %s, target: %d chars\n", cfg.Summary.Lang, cfg.Summary.Format, cfg.Summary.TargetChars)
		if cfg.LLM.Provider != "" {
			fmt.Fprintf(os.Stderr, "LLM: %s/%s\n", cfg.LLM.Provider, cfg.LLM.Model)
		}
		fmt.Fprintln(os.Stderr)
	}

	app := NewApp(cfg)

	result, err := app.SummarizeSource(ctx, source)
	if err != nil {
		return fmt.Errorf("summarize failed: %w", err)
	}

	if verbose {
		fmt.Fprintf(os.Stderr, "✓ Method: %s\n", result.Method)
		fmt.Fprintf(os.Stderr, "✓ Quality score: %.2f\n", result.Quality.QualityScore)
		fmt.Fprintf(os.Stderr, "✓ Length: %d/%d chars\n", result.Quality.ActualLength, result.Quality.TargetLength)
		if result.ChunksProcessed > 0 {
			fmt.Fprintf(os.Stderr, "✓ Chunks processed: %d\n", result.ChunksProcessed)
		}
		if len(result.Quality.MissingNumbers) > 0 {
			fmt.Fprintf(os.Stderr, "⚠ Missing numbers: %v\n", result.Quality.MissingNumbers)
		}
		fmt.Fprintln(os.Stderr)
	}

	if outPath != "" {
		if err := os.WriteFile(outPath, []byte(result.Summary+"\n"), 0644); err != nil {
			return fmt.Errorf("write summary: %w", err)
		}
	} else {
		fmt.Println(result.Summary)
	}

	if outJSON != "" {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("marshal result: %w", err)
		}
		if err := os.WriteFile(outJSON, data, 0644); err != nil {
			return fmt.Errorf("write JSON: %w", err)
		}
	}

	return nil
}

// buildConfig assembles configuration from defaults and flags. API keys
// come from the environment only.
func buildConfig() (*model.Config, error) {
	cfg := model.DefaultConfig()
	cfg.Summary.Lang = lang
	cfg.Summary.Format = format
	cfg.Summary.TargetChars = targetChars
	cfg.HTTP.Timeout = timeout
	cfg.HTTP.UserAgent = userAgent
	cfg.HTTP.MaxBodyBytes = maxBytes
	cfg.HTTP.HTTPProxy = httpProxy
	cfg.HTTP.HTTPSProxy = httpsProxy
	cfg.Cache.Enabled = !noCache
	cfg.Output.Verbose = verbose

	if !llmEnabled {
		return cfg, nil
	}

	cfg.LLM.Provider = llmProvider
	cfg.LLM.Model = llmModel

	switch llmProvider {
	case "openai":
		cfg.LLM.APIKey = os.Getenv("OPENAI_API_KEY")
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("OPENAI_API_KEY environment variable not set")
		}
	case "anthropic", "claude":
		cfg.LLM.APIKey = os.Getenv("ANTHROPIC_API_KEY")
		if cfg.LLM.APIKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable not set")
		}
	case "ollama":
		// Ollama doesn't need an API key
		if baseURL := os.Getenv("OLLAMA_BASE_URL"); baseURL != "" {
			cfg.LLM.BaseURL = baseURL
		}
	default:
		return nil, fmt.Errorf("unknown LLM provider: %s", llmProvider)
	}

	return cfg, nil
}
