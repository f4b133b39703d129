package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/akulenkov/konspekt/internal/ingest"
	"github.com/akulenkov/konspekt/internal/model"
	"github.com/akulenkov/konspekt/internal/pipeline"
	"github.com/akulenkov/konspekt/internal/worker"
)

// App wires the pipeline and the fetcher behind a single entry point
// that accepts any source: a file path, a URL or "-" for stdin.
type App struct {
	pipeline *pipeline.Pipeline
	fetcher  *ingest.Fetcher
	cfg      *model.Config
}

// NewApp builds the application from configuration
func NewApp(cfg *model.Config) *App {
	fetchLimiter := worker.NewLimiter(1, 2)
	return &App{
		pipeline: pipeline.NewPipeline(cfg),
		fetcher:  ingest.NewFetcher(cfg.HTTP, fetchLimiter),
		cfg:      cfg,
	}
}

// SummarizeSource reads the source and summarizes it. An unreadable
// source is the only error path; summarization itself always produces
// a result.
func (a *App) SummarizeSource(ctx context.Context, source string) (*model.SummaryResult, error) {
	text, err := a.readSource(ctx, source)
	if err != nil {
		return nil, err
	}
	if strings.TrimSpace(text) == "" {
		return nil, fmt.Errorf("empty input: %s", source)
	}

	result := a.pipeline.Summarize(ctx, pipeline.Request{
		Text:        text,
		Lang:        model.Language(a.cfg.Summary.Lang),
		TargetChars: a.cfg.Summary.TargetChars,
		Format:      model.Format(a.cfg.Summary.Format),
	})
	return &result, nil
}

func (a *App) readSource(ctx context.Context, source string) (string, error) {
	switch {
	case source == "-":
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil

	case ingest.IsURL(source):
		page, err := a.fetcher.FetchText(ctx, source)
		if err != nil {
			return "", err
		}
		return page.Text, nil

	default:
		data, err := os.ReadFile(source)
		if err != nil {
			return "", fmt.Errorf("read file: %w", err)
		}
		return string(data), nil
	}
}
