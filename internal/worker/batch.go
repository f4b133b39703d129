package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/akulenkov/konspekt/internal/model"
)

// Summarizer turns one input source (file path, URL or "-" for stdin)
// into a summary
type Summarizer interface {
	SummarizeSource(ctx context.Context, source string) (*model.SummaryResult, error)
}

// SummarizeJob is one batch entry
type SummarizeJob struct {
	Source     string
	Summarizer Summarizer
}

// Execute runs the summarization for a single source
func (j *SummarizeJob) Execute(ctx context.Context) Result {
	result, err := j.Summarizer.SummarizeSource(ctx, j.Source)
	return &BatchResult{
		Source: j.Source,
		Result: result,
		Error:  err,
	}
}

// BatchResult pairs a source with its summarization outcome. Error is set
// only when the input could not be read at all; summarization itself
// never fails.
type BatchResult struct {
	Source string
	Result *model.SummaryResult
	Error  error
}

// GetError returns the input error, if any
func (r *BatchResult) GetError() error {
	return r.Error
}

// BatchProcessor summarizes multiple sources concurrently
type BatchProcessor struct {
	summarizer  Summarizer
	concurrency int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(summarizer Summarizer, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		summarizer:  summarizer,
		concurrency: concurrency,
	}
}

// ProcessSources summarizes the given sources concurrently
func (b *BatchProcessor) ProcessSources(ctx context.Context, sources []string) []*BatchResult {
	if len(sources) == 0 {
		return []*BatchResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	for _, source := range sources {
		pool.Submit(&SummarizeJob{
			Source:     source,
			Summarizer: b.summarizer,
		})
	}

	results := pool.Wait()

	batchResults := make([]*BatchResult, len(results))
	for i, result := range results {
		batchResults[i] = result.(*BatchResult)
	}

	return batchResults
}

// ProcessFile reads sources from a list file and summarizes them
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*BatchResult, error) {
	sources, err := ReadSourcesFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read sources: %w", err)
	}

	return b.ProcessSources(ctx, sources), nil
}

// ReadSourcesFromFile reads sources from a file (one per line),
// skipping blanks, comments and duplicates
func ReadSourcesFromFile(filePath string) ([]string, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var sources []string
	seen := make(map[string]bool)

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())

		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		if !seen[line] {
			seen[line] = true
			sources = append(sources, line)
		}
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return sources, nil
}
