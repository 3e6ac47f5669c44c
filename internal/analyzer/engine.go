package analyzer

import (
	"context"
	"time"

	"github.com/Tameralinada/ai-code-reviewer/internal/llm"
)

// DefaultRequestTimeout bounds a single model call so one slow request
// cannot starve other callers' rate-limit accounting.
const DefaultRequestTimeout = 60 * time.Second

// Token budgets per analysis kind, following the upstream API limits.
const (
	fullReviewMaxTokens int64 = 2048
	scanMaxTokens       int64 = 4000
	quickMaxTokens      int64 = 1000
)

const analysisTemperature = 0.1

// Chat settings. Conversation gets a higher temperature than structured
// analysis and its own token budget.
const (
	chatTemperature       = 0.7
	chatMaxTokens   int64 = 2000
)

// Config carries the tunables for an Engine. Zero values select defaults.
type Config struct {
	CallsPerMinute int
	MaxRetries     int
	RequestTimeout time.Duration
	CacheSize      int

	// Extra prompt criteria merged from a standards profile.
	SecurityCriteria []string
	QualityCriteria  []string
}

// Engine orchestrates a single analysis request end to end: prompt, rate
// limit, transport call with retry, normalization, and caching. Public
// operations never return a Go error; failures are captured in the result.
// Safe for concurrent use.
type Engine struct {
	caller         llm.Caller
	limiter        *RateLimiter
	cache          *Cache
	maxRetries     int
	requestTimeout time.Duration
	sleep          func(ctx context.Context, d time.Duration) error

	securityCriteria []string
	qualityCriteria  []string
}

// NewEngine creates an analysis engine backed by the given model caller.
func NewEngine(caller llm.Caller, cfg Config) *Engine {
	maxRetries := cfg.MaxRetries
	if maxRetries <= 0 {
		maxRetries = DefaultMaxRetries
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = DefaultRequestTimeout
	}
	return &Engine{
		caller:           caller,
		limiter:          NewRateLimiter(cfg.CallsPerMinute),
		cache:            NewCache(cfg.CacheSize),
		maxRetries:       maxRetries,
		requestTimeout:   timeout,
		sleep:            sleepContext,
		securityCriteria: cfg.SecurityCriteria,
		qualityCriteria:  cfg.QualityCriteria,
	}
}

// Result is the outcome of a full code review. Exactly one of Analysis or
// Error is meaningful, selected by Success.
type Result struct {
	Success  bool
	Analysis *Analysis
	Error    string
}

// SecurityResult is the outcome of a security scan.
type SecurityResult struct {
	Success bool
	Report  *SecurityReport
	Error   string
}

// QualityResult is the outcome of a quality scan.
type QualityResult struct {
	Success bool
	Report  *QualityReport
	Error   string
}

type callRequest struct {
	system      string
	messages    []llm.Message
	temperature float64
	maxTokens   int64
}

// analysisRequest wraps a single user prompt in the settings shared by all
// structured analysis calls.
func analysisRequest(system, user string, maxTokens int64) callRequest {
	return callRequest{
		system:      system,
		messages:    []llm.Message{{Role: "user", Content: user}},
		temperature: analysisTemperature,
		maxTokens:   maxTokens,
	}
}

// call performs one bounded transport call.
func (e *Engine) call(ctx context.Context, req callRequest) (string, error) {
	callCtx, cancel := context.WithTimeout(ctx, e.requestTimeout)
	defer cancel()

	return e.caller.Complete(callCtx, llm.Request{
		System:      req.system,
		Messages:    req.messages,
		Temperature: req.temperature,
		MaxTokens:   req.maxTokens,
	})
}

// AnalyzeCode runs the full review pipeline. It never returns a Go error:
// transport and parse failures are captured as Success=false with a message.
func (e *Engine) AnalyzeCode(ctx context.Context, code string) Result {
	system, user := BuildFullReviewPrompt(code)

	raw, err := e.callWithRetry(ctx, analysisRequest(system, user, fullReviewMaxTokens))
	if err != nil {
		return Result{Error: err.Error()}
	}

	analysis, err := NormalizeFullReview(raw)
	if err != nil {
		return Result{Error: err.Error()}
	}
	return Result{Success: true, Analysis: analysis}
}

// AnalyzeSecurity runs a security scan. Identical inputs are served from the
// bounded cache without a network call.
func (e *Engine) AnalyzeSecurity(ctx context.Context, code string) SecurityResult {
	if cached, ok := e.cache.Get(code, KindSecurity); ok {
		return cached.(SecurityResult)
	}

	system, user := BuildSecurityPrompt(code, e.securityCriteria)
	raw, err := e.callWithRetry(ctx, analysisRequest(system, user, scanMaxTokens))
	if err != nil {
		return SecurityResult{Error: err.Error()}
	}

	report, err := NormalizeSecurity(raw)
	if err != nil {
		return SecurityResult{Error: err.Error()}
	}

	result := SecurityResult{Success: true, Report: report}
	e.cache.Put(code, KindSecurity, result)
	return result
}

// AnalyzeQuality runs a quality scan with the same caching behavior as
// AnalyzeSecurity, and attaches locally computed code stats.
func (e *Engine) AnalyzeQuality(ctx context.Context, code string) QualityResult {
	if cached, ok := e.cache.Get(code, KindQuality); ok {
		return cached.(QualityResult)
	}

	system, user := BuildQualityPrompt(code, e.qualityCriteria)
	raw, err := e.callWithRetry(ctx, analysisRequest(system, user, scanMaxTokens))
	if err != nil {
		return QualityResult{Error: err.Error()}
	}

	report, err := NormalizeQuality(raw)
	if err != nil {
		return QualityResult{Error: err.Error()}
	}
	report.Stats = CountStats(code)

	result := QualityResult{Success: true, Report: report}
	e.cache.Put(code, KindQuality, result)
	return result
}

// Chat sends a conversation through the same rate-limited, retried transport
// path as the analysis operations and returns the assistant's reply. Unlike
// the analysis operations it surfaces the error so the caller can shape it
// into a conversational turn.
func (e *Engine) Chat(ctx context.Context, messages []llm.Message) (string, error) {
	return e.callWithRetry(ctx, callRequest{
		system:      ChatSystemPrompt(),
		messages:    messages,
		temperature: chatTemperature,
		maxTokens:   chatMaxTokens,
	})
}

// QuickAnalyze returns fast, best-effort feedback with a reduced token
// budget. On total failure it returns sentinel "N/A" metrics rather than an
// error; quick feedback must never crash the caller.
func (e *Engine) QuickAnalyze(ctx context.Context, code string) *QuickFeedback {
	system, user := BuildQuickPrompt(code)

	raw, err := e.callWithRetry(ctx, analysisRequest(system, user, quickMaxTokens))
	if err != nil {
		return &QuickFeedback{Suggestions: []QuickSuggestion{}, Metrics: quickFallbackMetrics()}
	}

	fb, err := NormalizeQuick(raw)
	if err != nil {
		return &QuickFeedback{Suggestions: []QuickSuggestion{}, Metrics: quickFallbackMetrics()}
	}
	return fb
}
