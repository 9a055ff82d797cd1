package transcribe

import "context"

// PlaceholderTranscript is returned in place of real text when an
// unexpected transcription fault is swallowed to keep the pipeline
// alive. Callers must check Result.Degraded to tell it apart.
const PlaceholderTranscript = "This is a sample transcript for testing purposes."

// Result is the outcome of one transcription call
type Result struct {
	// Text is the transcript, trimmed
	Text string
	// Degraded marks the fixed placeholder produced when an unexpected
	// fault was masked rather than propagated
	Degraded bool
}

// Transcriber converts one audio file into transcript text.
// Implementations return model.ErrAudioNotFound when the source file is
// missing and *model.ProviderError for provider-reported failures; both
// are fatal for the chunk. Any other fault yields a degraded Result
// instead of an error.
type Transcriber interface {
	Transcribe(ctx context.Context, audioPath, language string) (Result, error)
}
