package pipeline

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/akulenkov/konspekt/internal/cache"
	"github.com/akulenkov/konspekt/internal/extract"
	"github.com/akulenkov/konspekt/internal/llm"
	"github.com/akulenkov/konspekt/internal/model"
	"github.com/akulenkov/konspekt/internal/worker"
)

// mockProvider replays scripted responses in call order
type mockProvider struct {
	responses []mockResponse
	calls     int
}

type mockResponse struct {
	content string
	err     error
}

func (m *mockProvider) Name() string { return "mock" }

func (m *mockProvider) IsAvailable(ctx context.Context) bool { return true }

func (m *mockProvider) Complete(ctx context.Context, req llm.CompletionRequest) (*llm.CompletionResponse, error) {
	if m.calls >= len(m.responses) {
		return nil, errors.New("mock: no scripted response")
	}
	resp := m.responses[m.calls]
	m.calls++
	if resp.err != nil {
		return nil, resp.err
	}
	return &llm.CompletionResponse{Content: resp.content, Model: "mock"}, nil
}

func newTestPipeline(provider llm.Provider) *Pipeline {
	return &Pipeline{
		provider:  provider,
		extractor: extract.NewFactExtractor(nil),
		limiter:   worker.NewLimiter(1000, 1000),
		config:    model.DefaultConfig(),
	}
}

const testSource = "Выручка выросла на 38% и достигла отметки. Прогноз на год сохранен без изменений. Команда работает в прежнем составе."

const testPhaseA = `{
	"bullets": ["Выручка выросла на 38%", "Прогноз сохранен", "Состав команды прежний"],
	"key_facts": [{"value_raw": "38%", "unit": "%"}],
	"entities": {"ORG": [], "PERSON": [], "GPE": []}
}`

const testPhaseB = "• Выручка выросла на 38%\n• Прогноз на год сохранен\n\n🔢 Цифры и факты:\n— 38%"

func TestSummarize_NoProviderFallsBack(t *testing.T) {
	p := newTestPipeline(nil)

	result := p.Summarize(context.Background(), Request{Text: testSource, Lang: model.LangRussian})

	if !result.Success {
		t.Error("pipeline must always succeed")
	}
	if result.Method != model.MethodFallback {
		t.Errorf("expected method %s, got %s", model.MethodFallback, result.Method)
	}
	if !strings.Contains(result.Summary, model.FactsHeading(model.LangRussian)) {
		t.Error("fallback summary must carry the facts heading")
	}
}

func TestSummarize_TwoPhaseHappyPath(t *testing.T) {
	provider := &mockProvider{responses: []mockResponse{
		{content: testPhaseA},
		{content: testPhaseB},
	}}
	p := newTestPipeline(provider)

	result := p.Summarize(context.Background(), Request{Text: testSource, Lang: model.LangRussian})

	if result.Method != model.MethodTwoPhase {
		t.Fatalf("expected method %s, got %s (err=%s)", model.MethodTwoPhase, result.Method, result.Err)
	}
	if result.Summary != testPhaseB {
		t.Errorf("unexpected summary: %q", result.Summary)
	}
	if result.ChunksProcessed != 1 {
		t.Errorf("expected 1 chunk, got %d", result.ChunksProcessed)
	}
	if !result.Quality.NumbersPreserved {
		t.Errorf("expected numbers preserved, missing: %v", result.Quality.MissingNumbers)
	}
	if provider.calls != 2 {
		t.Errorf("expected 2 provider calls, got %d", provider.calls)
	}
}

func TestSummarize_PhaseAFailureFallsBack(t *testing.T) {
	provider := &mockProvider{responses: []mockResponse{
		{err: errors.New("model overloaded")},
	}}
	p := newTestPipeline(provider)

	result := p.Summarize(context.Background(), Request{Text: testSource, Lang: model.LangRussian})

	if !result.Success {
		t.Error("pipeline must always succeed")
	}
	if result.Method != model.MethodFallbackAfterFailure {
		t.Errorf("expected method %s, got %s", model.MethodFallbackAfterFailure, result.Method)
	}
	if !strings.Contains(result.Summary, "38%") {
		t.Errorf("fallback must keep the facts:\n%s", result.Summary)
	}
}

func TestSummarize_MalformedPhaseAFallsBack(t *testing.T) {
	provider := &mockProvider{responses: []mockResponse{
		{content: `{"bullets": ["только", "два"], "key_facts": [], "entities": {}}`},
	}}
	p := newTestPipeline(provider)

	result := p.Summarize(context.Background(), Request{Text: testSource, Lang: model.LangRussian})

	if result.Method != model.MethodFallbackAfterFailure {
		t.Errorf("expected method %s, got %s", model.MethodFallbackAfterFailure, result.Method)
	}
}

func TestSummarize_PhaseBFailureFallsBack(t *testing.T) {
	provider := &mockProvider{responses: []mockResponse{
		{content: testPhaseA},
		{err: errors.New("model overloaded")},
	}}
	p := newTestPipeline(provider)

	result := p.Summarize(context.Background(), Request{Text: testSource, Lang: model.LangRussian})

	if result.Method != model.MethodFallbackAfterFailure {
		t.Errorf("expected method %s, got %s", model.MethodFallbackAfterFailure, result.Method)
	}
	if !result.Success {
		t.Error("pipeline must always succeed")
	}
}

func TestSummarize_RecoveryCall(t *testing.T) {
	// Phase B drops the percentage; the recovery call restores it.
	recovered := "• Выручка выросла на 38%, прогноз сохранен\n\n🔢 Цифры и факты:\n— 38%"
	provider := &mockProvider{responses: []mockResponse{
		{content: testPhaseA},
		{content: "• Выручка выросла, прогноз сохранен"},
		{content: recovered},
	}}
	p := newTestPipeline(provider)

	result := p.Summarize(context.Background(), Request{Text: testSource, Lang: model.LangRussian})

	if result.Method != model.MethodTwoPhase {
		t.Fatalf("expected method %s, got %s", model.MethodTwoPhase, result.Method)
	}
	if result.Summary != recovered {
		t.Errorf("expected recovered summary, got %q", result.Summary)
	}
	if !result.Quality.NumbersPreserved {
		t.Errorf("recovered summary must preserve numbers, missing: %v", result.Quality.MissingNumbers)
	}
	if provider.calls != 3 {
		t.Errorf("expected 3 provider calls, got %d", provider.calls)
	}
}

func TestSummarize_RecoveryFailureAppendsFacts(t *testing.T) {
	provider := &mockProvider{responses: []mockResponse{
		{content: testPhaseA},
		{content: "• Выручка выросла, прогноз сохранен"},
		{err: errors.New("model overloaded")},
	}}
	p := newTestPipeline(provider)

	result := p.Summarize(context.Background(), Request{Text: testSource, Lang: model.LangRussian})

	if result.Method != model.MethodTwoPhase {
		t.Fatalf("expected method %s, got %s", model.MethodTwoPhase, result.Method)
	}
	if !strings.Contains(result.Summary, "Дополнительные факты") {
		t.Errorf("expected verbatim fact append, got %q", result.Summary)
	}
	if !strings.Contains(result.Summary, "38%") {
		t.Errorf("appended facts must include the missing number, got %q", result.Summary)
	}
}

func TestSummarize_Defaults(t *testing.T) {
	p := newTestPipeline(nil)

	result := p.Summarize(context.Background(), Request{Text: "Краткий текст с числом 7%."})

	if result.Quality.TargetLength != p.config.Summary.TargetChars {
		t.Errorf("expected default target %d, got %d", p.config.Summary.TargetChars, result.Quality.TargetLength)
	}
	if !result.Success {
		t.Error("pipeline must always succeed")
	}
}

func TestSummarize_EmptyTextFallsBack(t *testing.T) {
	provider := &mockProvider{}
	p := newTestPipeline(provider)

	result := p.Summarize(context.Background(), Request{Text: "   ", Lang: model.LangRussian})

	if !result.Success {
		t.Error("pipeline must always succeed")
	}
	if result.Method != model.MethodFallback {
		t.Errorf("expected method %s, got %s", model.MethodFallback, result.Method)
	}
	if provider.calls != 0 {
		t.Errorf("no generation calls expected for empty text, got %d", provider.calls)
	}
}

func TestSummarize_CacheHitSkipsGeneration(t *testing.T) {
	provider := &mockProvider{responses: []mockResponse{
		{content: testPhaseA},
		{content: testPhaseB},
	}}
	p := newTestPipeline(provider)
	p.cache = cache.NewMemoryCache(time.Minute, time.Minute)

	req := Request{Text: testSource, Lang: model.LangRussian}
	first := p.Summarize(context.Background(), req)
	second := p.Summarize(context.Background(), req)

	if first.Method != model.MethodTwoPhase || second.Method != model.MethodTwoPhase {
		t.Fatalf("expected two-phase results, got %s then %s", first.Method, second.Method)
	}
	if second.Summary != first.Summary {
		t.Error("cached result must match the original")
	}
	if provider.calls != 2 {
		t.Errorf("second request must be served from cache, got %d provider calls", provider.calls)
	}
}

func TestSummarize_FallbackResultNotServedToEnabledProvider(t *testing.T) {
	shared := cache.NewMemoryCache(time.Minute, time.Minute)
	req := Request{Text: testSource, Lang: model.LangRussian}

	disabled := newTestPipeline(nil)
	disabled.cache = shared
	if result := disabled.Summarize(context.Background(), req); result.Method != model.MethodFallback {
		t.Fatalf("expected method %s, got %s", model.MethodFallback, result.Method)
	}

	// Enabling generation must not surface the cached fallback.
	provider := &mockProvider{responses: []mockResponse{
		{content: testPhaseA},
		{content: testPhaseB},
	}}
	enabled := newTestPipeline(provider)
	enabled.cache = shared

	result := enabled.Summarize(context.Background(), req)
	if result.Method != model.MethodTwoPhase {
		t.Fatalf("expected method %s, got %s", model.MethodTwoPhase, result.Method)
	}
	if provider.calls != 2 {
		t.Errorf("expected 2 provider calls, got %d", provider.calls)
	}
}

func TestSummarize_FailureResultNotCached(t *testing.T) {
	provider := &mockProvider{responses: []mockResponse{
		{err: errors.New("model overloaded")},
		{content: testPhaseA},
		{content: testPhaseB},
	}}
	p := newTestPipeline(provider)
	p.cache = cache.NewMemoryCache(time.Minute, time.Minute)

	req := Request{Text: testSource, Lang: model.LangRussian}
	first := p.Summarize(context.Background(), req)
	if first.Method != model.MethodFallbackAfterFailure {
		t.Fatalf("expected method %s, got %s", model.MethodFallbackAfterFailure, first.Method)
	}

	second := p.Summarize(context.Background(), req)
	if second.Method != model.MethodTwoPhase {
		t.Errorf("transient failure must not be cached, got %s", second.Method)
	}
}
