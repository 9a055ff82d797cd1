package verify

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

const verdictSystemPrompt = "You are a careful fact checker. Assess only the specific claim given, " +
	"cite real, well-known sources, and never invent URLs."

const verdictPrompt = `Fact-check the following claim and respond with ONLY a valid JSON object in this exact format:

{"verdict": "TRUE", "confidence": 85, "sources": ["https://example.org/reference"]}

verdict must be one of TRUE, FALSE, MIXED, UNVERIFIED.
confidence is an integer from 0 to 100.
sources is an array of supporting URLs or citations, most relevant first.

Claim: %q

JSON object:`

// LLMVerifier adjudicates claims through a generative-model provider
type LLMVerifier struct {
	client    *openai.Client
	model     string
	maxTokens int
	timeout   time.Duration
	log       *logrus.Entry
}

// NewLLMVerifier creates a verifier for the given credential
func NewLLMVerifier(apiKey string, cfg model.VerificationConfig, log *logrus.Entry) *LLMVerifier {
	clientConfig := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	return &LLMVerifier{
		client:    openai.NewClientWithConfig(clientConfig),
		model:     cfg.Model,
		maxTokens: cfg.MaxTokens,
		timeout:   cfg.Timeout,
		log:       log,
	}
}

// verdictResponse is the wire shape the provider is instructed to return
type verdictResponse struct {
	Verdict    string   `json:"verdict"`
	Confidence int      `json:"confidence"`
	Sources    []string `json:"sources"`
}

// Check submits one claim and parses the provider's JSON verdict.
// Transport and API failures return an error; a response that is not
// parseable degrades to an UNVERIFIED verdict rather than failing the
// claim outright.
func (v *LLMVerifier) Check(ctx context.Context, claim string) (model.Verdict, error) {
	timeout := v.timeout
	if timeout == 0 {
		timeout = 30 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	maxTokens := v.maxTokens
	if maxTokens == 0 {
		maxTokens = 500
	}

	resp, err := v.client.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: v.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: verdictSystemPrompt},
			{Role: openai.ChatMessageRoleUser, Content: fmt.Sprintf(verdictPrompt, claim)},
		},
		MaxTokens:   maxTokens,
		Temperature: 0.1,
	})
	if err != nil {
		return model.Verdict{}, &model.ProviderError{Provider: "openai", Err: err}
	}
	if len(resp.Choices) == 0 {
		return model.Verdict{}, &model.ProviderError{Provider: "openai", Err: fmt.Errorf("no choices in response")}
	}

	content := stripCodeFence(strings.TrimSpace(resp.Choices[0].Message.Content))

	var parsed verdictResponse
	if err := json.Unmarshal([]byte(content), &parsed); err != nil {
		v.log.WithError(err).Warn("verification provider returned invalid JSON, recording unverified")
		return model.Verdict{
			Label:      model.VerdictUnverified,
			Confidence: 0,
			Sources:    []string{},
		}, nil
	}

	verdict := model.Verdict{
		Label:      model.ParseVerdictLabel(strings.ToUpper(strings.TrimSpace(parsed.Verdict))),
		Confidence: clampConfidence(parsed.Confidence),
		Sources:    parsed.Sources,
	}
	if verdict.Sources == nil {
		verdict.Sources = []string{}
	}

	return verdict, nil
}

func clampConfidence(c int) int {
	if c < 0 {
		return 0
	}
	if c > 100 {
		return 100
	}
	return c
}

// stripCodeFence unwraps ```json ... ``` blocks around the verdict
func stripCodeFence(s string) string {
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```")
	if idx := strings.Index(s, "\n"); idx >= 0 {
		s = s[idx+1:]
	}
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
