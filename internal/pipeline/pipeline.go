package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/akulenkov/konspekt/internal/cache"
	"github.com/akulenkov/konspekt/internal/chunk"
	"github.com/akulenkov/konspekt/internal/extract"
	"github.com/akulenkov/konspekt/internal/llm"
	"github.com/akulenkov/konspekt/internal/model"
	"github.com/akulenkov/konspekt/internal/quality"
	"github.com/akulenkov/konspekt/internal/worker"
)

// Request is one summarization request. Text is a plain UTF-8 blob; where
// it came from (transcript, web page, document) is not the core's concern.
type Request struct {
	Text        string
	Lang        model.Language
	TargetChars int
	Format      model.Format
}

// Pipeline orchestrates the two-phase summarization:
// EXTRACT → SPLIT → PHASE_A* → MERGE → PHASE_B → VALIDATE → RECOVER? → DONE,
// with any failed stage short-circuiting to the deterministic fallback.
type Pipeline struct {
	provider  llm.Provider // nil when generation is disabled
	extractor *extract.FactExtractor
	limiter   *worker.Limiter
	cache     cache.Cache
	config    *model.Config
}

// NewPipeline creates a pipeline from configuration. A misconfigured
// provider downgrades to the fallback path with a warning instead of
// failing construction.
func NewPipeline(cfg *model.Config) *Pipeline {
	var provider llm.Provider
	if cfg.LLM.Provider != "" {
		p, err := llm.NewProvider(llm.ConfigFromModel(cfg.LLM, cfg.HTTP))
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to initialize LLM provider: %v\n", err)
		} else {
			provider = p
		}
	}

	var resultCache cache.Cache
	if cfg.Cache.Enabled {
		resultCache = cache.NewDefault(cfg.Cache.Dir, cfg.Cache.TTL)
	}

	return &Pipeline{
		provider:  provider,
		extractor: extract.NewFactExtractor(extract.NewHeuristicRecognizer()),
		limiter:   worker.NewLimiter(cfg.Concurrency.RatePerSecond, cfg.Concurrency.Burst),
		cache:     resultCache,
		config:    cfg,
	}
}

// Summarize runs the full pipeline. It never returns an error: every
// failure mode terminates in a fallback result, and an internal fault is
// converted into method "fallback_on_error" with the message captured.
func (p *Pipeline) Summarize(ctx context.Context, req Request) (result model.SummaryResult) {
	req = p.withDefaults(req)

	cacheKey := cache.SummaryKey(req.Text, string(req.Lang), string(req.Format), req.TargetChars, p.generatorTag())
	if cached, ok := p.cacheLookup(cacheKey); ok {
		return cached
	}

	defer func() {
		if r := recover(); r != nil {
			facts := p.extractor.Extract(req.Text, req.Lang)
			summary := BuildFallback(req.Text, facts, req.Lang, req.Format, req.TargetChars)
			result = model.SummaryResult{
				Success: true,
				Summary: summary,
				Quality: quality.Check(req.Text, summary, req.Lang, req.TargetChars),
				Method:  model.MethodFallbackOnError,
				Err:     fmt.Sprintf("%v", r),
			}
		} else {
			p.cacheStore(cacheKey, result)
		}
	}()

	facts := p.extractor.Extract(req.Text, req.Lang)
	mustKeep := extract.SelectMustKeep(facts, 1)

	if p.provider == nil {
		return p.fallbackResult(req, facts, model.MethodFallback, 0)
	}

	chunks := chunk.Split(req.Text, p.config.Summary.ChunkChars)
	if len(chunks) == 0 {
		return p.fallbackResult(req, facts, model.MethodFallback, 0)
	}

	intermediates := p.runPhaseAAll(ctx, chunks, req, mustKeep)
	if len(intermediates) == 0 {
		return p.fallbackResult(req, facts, model.MethodFallbackAfterFailure, 0)
	}

	merged := Merge(intermediates)

	summary, ok := p.runPhaseB(ctx, merged, req)
	if !ok {
		return p.fallbackResult(req, facts, model.MethodFallbackAfterFailure, len(intermediates))
	}

	report := quality.Check(req.Text, summary, req.Lang, req.TargetChars)

	if !report.NumbersPreserved && len(report.MissingNumbers) > 0 {
		summary = p.recoverMissingFacts(ctx, summary, report.MissingNumbers, req.Lang)
		report = quality.Check(req.Text, summary, req.Lang, req.TargetChars)
	}

	return model.SummaryResult{
		Success:         true,
		Summary:         summary,
		Quality:         report,
		Method:          model.MethodTwoPhase,
		ChunksProcessed: len(intermediates),
		SourceFacts:     len(facts.Numbers),
	}
}

// generatorTag identifies what would produce the summary. Cached results
// are only valid for the same provider/model combination; with generation
// disabled the tag is empty.
func (p *Pipeline) generatorTag() string {
	if p.provider == nil {
		return ""
	}
	return p.provider.Name() + "/" + p.config.LLM.Model
}

func (p *Pipeline) withDefaults(req Request) Request {
	if req.Lang != model.LangEnglish {
		req.Lang = model.LangRussian
	}
	if req.TargetChars <= 0 {
		req.TargetChars = p.config.Summary.TargetChars
	}
	switch req.Format {
	case model.FormatBullets, model.FormatParagraph, model.FormatStructured:
	default:
		req.Format = model.Format(p.config.Summary.Format)
	}
	return req
}

func (p *Pipeline) fallbackResult(req Request, facts *model.FactSet, method model.Method, chunksProcessed int) model.SummaryResult {
	summary := BuildFallback(req.Text, facts, req.Lang, req.Format, req.TargetChars)
	return model.SummaryResult{
		Success:         true,
		Summary:         summary,
		Quality:         quality.Check(req.Text, summary, req.Lang, req.TargetChars),
		Method:          method,
		ChunksProcessed: chunksProcessed,
		SourceFacts:     len(facts.Numbers),
	}
}

// phaseAJob is one chunk's structuring call, dispatched on the worker pool.
type phaseAJob struct {
	pipeline *Pipeline
	index    int
	chunk    string
	req      Request
	mustKeep map[int]struct{}
	perChunk int
}

type phaseAResult struct {
	index   int
	summary *model.IntermediateSummary
	err     error
}

func (r *phaseAResult) GetError() error { return r.err }

func (j *phaseAJob) Execute(ctx context.Context) worker.Result {
	summary, err := j.pipeline.runPhaseA(ctx, j.chunk, j.req, j.mustKeep, j.perChunk)
	return &phaseAResult{index: j.index, summary: summary, err: err}
}

// runPhaseAAll dispatches Phase A calls with bounded concurrency and
// returns the successful intermediates in original chunk order. Failed
// chunks are skipped; an empty return means total Phase A failure.
func (p *Pipeline) runPhaseAAll(ctx context.Context, chunks []string, req Request, mustKeep map[int]struct{}) []*model.IntermediateSummary {
	perChunk := req.TargetChars / len(chunks)
	if perChunk < 200 {
		perChunk = 200
	}

	workers := p.config.Concurrency.PhaseAWorkers
	if workers <= 0 {
		workers = 1
	}
	if workers > len(chunks) {
		workers = len(chunks)
	}

	pool := worker.NewPool(workers)
	pool.Start()
	for i, c := range chunks {
		pool.Submit(&phaseAJob{
			pipeline: p,
			index:    i,
			chunk:    c,
			req:      req,
			mustKeep: mustKeep,
			perChunk: perChunk,
		})
	}
	results := pool.Wait()

	// Re-establish chunk order: the bullet cap must favor earlier chunks.
	byIndex := make([]*model.IntermediateSummary, len(chunks))
	for _, r := range results {
		pr, ok := r.(*phaseAResult)
		if !ok {
			continue
		}
		if pr.err != nil {
			if p.config.Output.Verbose {
				fmt.Fprintf(os.Stderr, "Warning: Phase A chunk %d failed: %v\n", pr.index+1, pr.err)
			}
			continue
		}
		byIndex[pr.index] = pr.summary
	}

	var ordered []*model.IntermediateSummary
	for _, s := range byIndex {
		if s != nil {
			ordered = append(ordered, s)
		}
	}
	return ordered
}

// runPhaseA issues one structuring call and validates the response at the
// parse boundary. No retry here: a failed chunk is a skipped chunk.
func (p *Pipeline) runPhaseA(ctx context.Context, chunkText string, req Request, mustKeep map[int]struct{}, targetChars int) (*model.IntermediateSummary, error) {
	if err := p.limiter.Wait(ctx, p.provider.Name()); err != nil {
		return nil, fmt.Errorf("rate limit: %w", err)
	}

	system, user := llm.BuildPhaseAPrompts(chunkText, req.Lang, req.Format, targetChars, mustKeep)
	resp, err := p.provider.Complete(ctx, llm.CompletionRequest{
		System:      system,
		User:        user,
		MaxTokens:   p.config.LLM.MaxTokens,
		Temperature: 0.1,
		JSONMode:    true,
	})
	if err != nil {
		return nil, err
	}

	return ParseIntermediate(resp.Content)
}

// runPhaseB renders the merged representation into final prose with the
// mandatory trailing facts block.
func (p *Pipeline) runPhaseB(ctx context.Context, merged *model.IntermediateSummary, req Request) (string, bool) {
	if err := p.limiter.Wait(ctx, p.provider.Name()); err != nil {
		return "", false
	}

	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return "", false
	}

	system, user := llm.BuildPhaseBPrompts(string(data), req.Lang, req.Format, req.TargetChars)
	resp, err := p.provider.Complete(ctx, llm.CompletionRequest{
		System:      system,
		User:        user,
		MaxTokens:   p.config.LLM.MaxTokens,
		Temperature: 0.2,
	})
	if err != nil {
		if p.config.Output.Verbose {
			fmt.Fprintf(os.Stderr, "Warning: Phase B failed: %v\n", err)
		}
		return "", false
	}

	return resp.Content, true
}

// recoverMissingFacts makes exactly one corrective call; if that also
// fails, the missing values are appended verbatim so no fact is lost
// silently.
func (p *Pipeline) recoverMissingFacts(ctx context.Context, summary string, missing []string, lang model.Language) string {
	system, user := llm.BuildRecoveryPrompts(summary, missing, lang)

	if err := p.limiter.Wait(ctx, p.provider.Name()); err == nil {
		resp, err := p.provider.Complete(ctx, llm.CompletionRequest{
			System:      system,
			User:        user,
			MaxTokens:   p.config.LLM.MaxTokens,
			Temperature: 0.1,
		})
		if err == nil && strings.TrimSpace(resp.Content) != "" {
			return resp.Content
		}
		if p.config.Output.Verbose {
			fmt.Fprintf(os.Stderr, "Warning: fact recovery call failed: %v\n", err)
		}
	}

	label := "Дополнительные факты"
	if lang == model.LangEnglish {
		label = "Additional facts"
	}
	return summary + "\n\n" + label + ": " + strings.Join(missing, ", ")
}

func (p *Pipeline) cacheLookup(key string) (model.SummaryResult, bool) {
	if p.cache == nil {
		return model.SummaryResult{}, false
	}
	data, found := p.cache.Get(key)
	if !found {
		return model.SummaryResult{}, false
	}
	var result model.SummaryResult
	if err := json.Unmarshal(data, &result); err != nil {
		return model.SummaryResult{}, false
	}
	return result, true
}

func (p *Pipeline) cacheStore(key string, result model.SummaryResult) {
	if p.cache == nil || !result.Success {
		return
	}
	// A failure-path result reflects a transient provider problem, not
	// the answer for this key; the next request should try again.
	if result.Method == model.MethodFallbackAfterFailure {
		return
	}
	data, err := json.Marshal(result)
	if err != nil {
		return
	}
	_ = p.cache.Set(key, data, p.config.Cache.TTL)
}
