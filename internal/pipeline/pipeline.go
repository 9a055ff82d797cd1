package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/vidfact/vidfact/internal/cache"
	"github.com/vidfact/vidfact/internal/extract"
	"github.com/vidfact/vidfact/internal/model"
	"github.com/vidfact/vidfact/internal/store"
	"github.com/vidfact/vidfact/internal/transcribe"
	"github.com/vidfact/vidfact/internal/validate"
	"github.com/vidfact/vidfact/internal/verify"
)

// minTranscriptLength is the shortest transcript worth extracting from
const minTranscriptLength = 10

// Limiter throttles outbound calls per provider
type Limiter interface {
	Wait(ctx context.Context, provider string) error
}

// Extractor produces claims from a transcript. Both tiers satisfy it:
// the heuristic tier through heuristicAdapter, the provider-backed tier
// directly.
type Extractor interface {
	Extract(ctx context.Context, transcript string, baseTimestamp float64) extract.Result
}

// heuristicAdapter lifts the network-free extractor into Extractor
type heuristicAdapter struct {
	inner *extract.HeuristicExtractor
}

func (a heuristicAdapter) Extract(_ context.Context, transcript string, baseTimestamp float64) extract.Result {
	return extract.Result{
		Claims: a.inner.Extract(transcript, baseTimestamp),
		Method: extract.MethodHeuristic,
	}
}

// ChunkRequest is one audio chunk to process
type ChunkRequest struct {
	Chunk     model.ChunkContext
	AudioPath string
	APIKey    string
	Language  string
}

// ChunkResult is what one chunk produced. Claims are also appended to
// the store under the chunk's video ID before the result is returned.
type ChunkResult struct {
	Claims     []model.VerifiedClaim `json:"claims"`
	Transcript string                `json:"transcript"`
	Degraded   bool                  `json:"degraded"`
	Method     extract.Method        `json:"extraction_method"`
}

// Pipeline runs one chunk through transcription, extraction,
// verification and storage. Providers are built per request because the
// credential arrives with the chunk.
type Pipeline struct {
	cfg          *model.Config
	store        store.Store
	verdictCache cache.Cache
	limiter      Limiter
	sources      *validate.SourceValidator
	log          *logrus.Entry

	newTranscriber func(apiKey string) transcribe.Transcriber
	newExtractor   func(apiKey string) Extractor
	newVerifier    func(apiKey string) verify.Verifier
}

// New creates a pipeline with providers wired from the configuration
func New(cfg *model.Config, st store.Store, log *logrus.Entry) *Pipeline {
	p := &Pipeline{
		cfg:   cfg,
		store: st,
		log:   log,
	}

	if cfg.Cache.Enabled {
		if cfg.Cache.Dir != "" {
			p.verdictCache = cache.NewLayeredCache(cfg.Cache.MemoryTTL, cfg.Cache.Dir, cfg.Cache.DiskTTL)
		} else {
			p.verdictCache = cache.NewMemoryCache(cfg.Cache.MemoryTTL, cfg.Cache.MemoryTTL)
		}
	}

	if cfg.Verification.ValidateSources {
		p.sources = validate.NewSourceValidator(cfg.HTTP, cfg.Concurrency.ValidationWorkers)
	}

	p.newTranscriber = func(apiKey string) transcribe.Transcriber {
		return transcribe.NewWhisperTranscriber(apiKey, cfg.Transcription, log)
	}
	p.newExtractor = func(apiKey string) Extractor {
		if cfg.Extraction.Mode == "llm" {
			return extract.NewLLMExtractor(apiKey, cfg.Extraction, log)
		}
		return heuristicAdapter{inner: extract.NewHeuristicExtractor()}
	}
	p.newVerifier = func(apiKey string) verify.Verifier {
		var v verify.Verifier = verify.NewLLMVerifier(apiKey, cfg.Verification, log)
		if p.verdictCache != nil {
			v = verify.NewCachedVerifier(v, p.verdictCache, cfg.Cache.MemoryTTL, log)
		}
		return v
	}

	return p
}

// SetLimiter installs a provider rate limiter
func (p *Pipeline) SetLimiter(l Limiter) {
	p.limiter = l
}

// ProcessChunk runs the full chain for one chunk. Transcription
// failures abort the chunk; per-claim verification failures record a
// sentinel verdict and the remaining claims still complete.
func (p *Pipeline) ProcessChunk(ctx context.Context, req ChunkRequest) (*ChunkResult, error) {
	log := p.log.WithFields(logrus.Fields{
		"chunk_id": uuid.NewString(),
		"video_id": req.Chunk.VideoID,
		"offset":   req.Chunk.BaseTimestamp,
	})

	language := req.Language
	if language == "" {
		language = p.cfg.Transcription.Language
	}

	if p.limiter != nil {
		if err := p.limiter.Wait(ctx, "openai"); err != nil {
			return nil, fmt.Errorf("rate limit wait: %w", err)
		}
	}

	transcriber := p.newTranscriber(req.APIKey)
	transcription, err := transcriber.Transcribe(ctx, req.AudioPath, language)
	if err != nil {
		return nil, fmt.Errorf("transcribe: %w", err)
	}
	if transcription.Degraded {
		log.Warn("transcription degraded, using placeholder transcript")
	}

	result := &ChunkResult{
		Claims:     []model.VerifiedClaim{},
		Transcript: transcription.Text,
		Degraded:   transcription.Degraded,
		Method:     extract.MethodHeuristic,
	}

	if len(strings.TrimSpace(transcription.Text)) < minTranscriptLength {
		log.Info("transcript too short, skipping extraction")
		return result, nil
	}

	extraction := p.newExtractor(req.APIKey).Extract(ctx, transcription.Text, req.Chunk.BaseTimestamp)
	result.Method = extraction.Method
	claims := p.clampTimestamps(log, extraction.Claims, req.Chunk)

	log.WithFields(logrus.Fields{
		"claims": len(claims),
		"method": extraction.Method,
	}).Info("claims extracted")

	if len(claims) == 0 {
		return result, nil
	}

	verifier := p.newVerifier(req.APIKey)
	verified := make([]model.VerifiedClaim, 0, len(claims))
	for _, claim := range claims {
		vc := model.VerifiedClaim{Claim: claim}

		if p.limiter != nil {
			if err := p.limiter.Wait(ctx, "openai"); err != nil {
				return nil, fmt.Errorf("rate limit wait: %w", err)
			}
		}

		verdict, err := verifier.Check(ctx, claim.Text)
		if err != nil {
			log.WithError(err).WithField("claim", claim.Text).Warn("verification failed, recording error verdict")
			verdict = model.ErrorVerdict()
		}
		vc.Verdict = verdict

		if p.sources != nil && len(verdict.Sources) > 0 {
			vc.SourceChecks = p.sources.Validate(ctx, verdict.Sources)
		}

		verified = append(verified, vc)
	}

	p.store.Append(req.Chunk.VideoID, verified)
	result.Claims = verified

	log.WithField("verified", len(verified)).Info("chunk processed")
	return result, nil
}

// clampTimestamps forces every claim timestamp into the chunk's window.
// Out-of-range values are clamped, not dropped, and logged so provider
// timing bugs stay visible.
func (p *Pipeline) clampTimestamps(log *logrus.Entry, claims []model.Claim, chunk model.ChunkContext) []model.Claim {
	lower := chunk.BaseTimestamp
	upper := chunk.BaseTimestamp + chunk.Duration

	for i := range claims {
		ts := claims[i].Timestamp
		clamped := ts
		if clamped < lower {
			clamped = lower
		}
		if chunk.Duration > 0 && clamped > upper {
			clamped = upper
		}
		if clamped != ts {
			log.WithFields(logrus.Fields{
				"claim":     claims[i].Text,
				"timestamp": ts,
				"clamped":   clamped,
			}).Warn("claim timestamp outside chunk window")
			claims[i].Timestamp = clamped
		}
	}

	return claims
}

// Results returns everything stored for a video so far
func (p *Pipeline) Results(videoID string) []model.VerifiedClaim {
	return p.store.Get(videoID)
}

// ClearResults drops everything stored for a video
func (p *Pipeline) ClearResults(videoID string) {
	p.store.Clear(videoID)
}
