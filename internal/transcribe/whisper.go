package transcribe

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/sashabaranov/go-openai"
	"github.com/sirupsen/logrus"

	"github.com/vidfact/vidfact/internal/model"
)

// WhisperTranscriber implements Transcriber via the OpenAI
// speech-to-text endpoint
type WhisperTranscriber struct {
	client  *openai.Client
	model   string
	timeout time.Duration
	log     *logrus.Entry
}

// NewWhisperTranscriber creates a transcriber for the given credential
func NewWhisperTranscriber(apiKey string, cfg model.TranscriptionConfig, log *logrus.Entry) *WhisperTranscriber {
	clientConfig := openai.DefaultConfig(apiKey)
	if cfg.BaseURL != "" {
		clientConfig.BaseURL = cfg.BaseURL
	}

	m := cfg.Model
	if m == "" {
		m = openai.Whisper1
	}

	return &WhisperTranscriber{
		client:  openai.NewClientWithConfig(clientConfig),
		model:   m,
		timeout: cfg.Timeout,
		log:     log,
	}
}

// Transcribe converts the audio file at audioPath into text. The
// language hint defaults to "en". A missing file and a provider-reported
// API error are fatal for the chunk; any other fault is logged and
// masked with the placeholder transcript, flagged as Degraded.
func (t *WhisperTranscriber) Transcribe(ctx context.Context, audioPath, language string) (Result, error) {
	if language == "" {
		language = "en"
	}

	if _, err := os.Stat(audioPath); err != nil {
		return Result{}, fmt.Errorf("%w: %s", model.ErrAudioNotFound, audioPath)
	}

	timeout := t.timeout
	if timeout == 0 {
		timeout = 60 * time.Second
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	resp, err := t.client.CreateTranscription(ctx, openai.AudioRequest{
		Model:    t.model,
		FilePath: audioPath,
		Language: language,
	})
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return Result{}, &model.ProviderError{Provider: "openai", Err: err}
		}

		// Unexpected faults (network, local I/O) are masked with a
		// placeholder so downstream stages still execute. The Degraded
		// flag keeps the mask distinguishable from a real transcript.
		t.log.WithError(err).WithField("audio_path", audioPath).
			Error("unexpected transcription fault, returning placeholder transcript")
		return Result{Text: PlaceholderTranscript, Degraded: true}, nil
	}

	return Result{Text: strings.TrimSpace(resp.Text)}, nil
}
