package extract

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"github.com/vidfact/vidfact/internal/model"
)

// Method identifies which extraction tier produced a result
type Method string

const (
	// MethodLLM means the generative-model provider produced the claims
	MethodLLM Method = "llm"
	// MethodHeuristic means the pattern-based tier produced the claims,
	// either by choice or as a fallback
	MethodHeuristic Method = "heuristic"
)

// Result carries extracted claims plus the tier that produced them.
// Fallback is an explicit value here, not a recovered failure, so the
// degraded branch stays visible and testable.
type Result struct {
	Claims []model.Claim
	Method Method
}

const extractionPrompt = `Analyze the following transcript and extract factual claims that can be fact-checked.
Ignore opinions, questions, and subjective statements.
Return ONLY a valid JSON array with this exact format:

[
    {"claim": "specific factual statement", "start_time": 0.0, "end_time": 2.5},
    {"claim": "another factual statement", "start_time": 3.0, "end_time": 6.0}
]

Transcript: %q

JSON array of factual claims:`

const extractionSystemPrompt = "You are an expert at identifying factual claims that can be verified. Extract only objective, verifiable statements."

// LLMExtractor extracts claims via a generative-model provider.
// On provider failure or malformed output it degrades to the heuristic
// extractor with the same inputs: the pipeline always gets some result.
type LLMExtractor struct {
	client      *openai.Client
	model       string
	maxTokens   int
	temperature float32
	timeout     time.Duration
	fallback    *HeuristicExtractor
	log         *logrus.Entry
}

// NewLLMExtractor creates a new LLM extractor for the given credential
func NewLLMExtractor(apiKey string, cfg model.ExtractionConfig, log *logrus.Entry) *LLMExtractor {
	clientConfig := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &LLMExtractor{
		client:      openai.NewClientWithConfig(clientConfig),
		model:       cfg.Model,
		maxTokens:   cfg.MaxTokens,
		temperature: cfg.Temperature,
		timeout:     cfg.Timeout,
		fallback:    NewHeuristicExtractor(),
		log:         log,
	}
}

// llmClaim is the wire shape the provider is instructed to return
type llmClaim struct {
	Claim     string  `json:"claim"`
	StartTime float64 `json:"start_time"`
	EndTime   float64 `json:"end_time"`
}

// Extract asks the provider for a strict JSON claim array and maps each
// entry to base_timestamp + start_time. Missing start_time means offset
// zero. Provider errors and malformed JSON both fall back to the
// heuristic tier.
func (e *LLMExtractor) Extract(ctx context.Context, transcript string, baseTimestamp float64) Result {
	timeout := e.timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	maxTokens := e.maxTokens
	if maxTokens == 0 {
		maxTokens = 500
	}

	resp, err := e.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: e.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: extractionSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(extractionPrompt, transcript)},
		},
		MaxTokens:   maxTokens,
		Temperature: e.temperature,
	})
	if err != nil {
		e.log.WithError(err).Warn("LLM claim extraction failed, falling back to heuristic method")
		return e.fallbackResult(transcript, baseTimestamp)
	}

	if len(resp.Choices) == 0 {
		e.log.Warn("LLM returned no choices, falling back to heuristic method")
		return e.fallbackResult(transcript, baseTimestamp)
	}

	content := stripCodeFence(strings.TrimSpace(resp.Choices[0].Message.Content))

	var entries []llmClaim
	if err := json.Unmarshal([]byte(content), &entries); err != nil {
		e.log.WithError(err).Warn("LLM returned invalid JSON, falling back to heuristic method")
		return e.fallbackResult(transcript, baseTimestamp)
	}

	claims := make([]model.Claim, 0, len(entries))
	for _, entry := range entries {
		text := strings.TrimSpace(entry.Claim)
		if text == "" {
			continue
		}
		claims = append(claims, model.Claim{
			Text:      text,
			Timestamp: baseTimestamp + entry.StartTime,
		})
	}

	return Result{Claims: dedupeClaims(claims), Method: MethodLLM}
}

func (e *LLMExtractor) fallbackResult(transcript string, baseTimestamp float64) Result {
	return Result{
		Claims: e.fallback.Extract(transcript, baseTimestamp),
		Method: MethodHeuristic,
	}
}

// stripCodeFence unwraps ```json ... ``` blocks. Models routinely fence
// their JSON despite instructions; fenced output still counts as a
// parse success.
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:] // drop the language tag line
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
