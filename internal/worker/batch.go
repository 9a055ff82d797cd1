package worker

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/vidfact/vidfact/internal/model"
	"github.com/vidfact/vidfact/internal/pipeline"
)

// ChunkSource is one audio chunk read from a batch list
type ChunkSource struct {
	AudioPath string
	VideoID   string
	Offset    float64
	Duration  float64
}

// Processor runs one chunk end to end
type Processor interface {
	ProcessChunk(ctx context.Context, req pipeline.ChunkRequest) (*pipeline.ChunkResult, error)
}

// ChunkJob is a pool job wrapping one chunk
type ChunkJob struct {
	Source    ChunkSource
	APIKey    string
	Processor Processor
}

// Execute runs the chunk through the processor
func (j *ChunkJob) Execute(ctx context.Context) Result {
	result, err := j.Processor.ProcessChunk(ctx, pipeline.ChunkRequest{
		Chunk: model.ChunkContext{
			VideoID:       j.Source.VideoID,
			BaseTimestamp: j.Source.Offset,
			Duration:      j.Source.Duration,
		},
		AudioPath: j.Source.AudioPath,
		APIKey:    j.APIKey,
	})
	return &ChunkJobResult{Source: j.Source, Result: result, Error: err}
}

// ChunkJobResult is the outcome of one batch chunk
type ChunkJobResult struct {
	Source ChunkSource
	Result *pipeline.ChunkResult
	Error  error
}

// GetError returns the chunk's processing error, if any
func (r *ChunkJobResult) GetError() error {
	return r.Error
}

// BatchProcessor runs many chunks through a worker pool
type BatchProcessor struct {
	processor   Processor
	apiKey      string
	concurrency int
}

// NewBatchProcessor creates a batch processor
func NewBatchProcessor(processor Processor, apiKey string, concurrency int) *BatchProcessor {
	return &BatchProcessor{
		processor:   processor,
		apiKey:      apiKey,
		concurrency: concurrency,
	}
}

// ProcessChunks runs all chunks concurrently and returns results in
// completion order
func (b *BatchProcessor) ProcessChunks(ctx context.Context, sources []ChunkSource) []*ChunkJobResult {
	if len(sources) == 0 {
		return []*ChunkJobResult{}
	}

	pool := NewPool(b.concurrency)
	pool.Start()

	// Submit from a separate goroutine so Wait drains results while
	// jobs queue up; lists larger than the pool's channel buffering
	// would otherwise stall on Submit.
	go func() {
		for _, src := range sources {
			pool.Submit(&ChunkJob{
				Source:    src,
				APIKey:    b.apiKey,
				Processor: b.processor,
			})
		}
		pool.Close()
	}()

	results := pool.Wait()

	chunkResults := make([]*ChunkJobResult, len(results))
	for i, result := range results {
		chunkResults[i] = result.(*ChunkJobResult)
	}

	return chunkResults
}

// ProcessFile reads a chunk list from a file and processes it
func (b *BatchProcessor) ProcessFile(ctx context.Context, filePath string) ([]*ChunkJobResult, error) {
	sources, err := ReadSourcesFromFile(filePath)
	if err != nil {
		return nil, fmt.Errorf("read sources: %w", err)
	}

	return b.ProcessChunks(ctx, sources), nil
}

// ReadSourcesFromFile parses a chunk list, one chunk per line:
//
//	audio_path [video_id [offset_seconds [duration_seconds]]]
//
// Fields are tab-separated. video_id defaults to the audio path, and
// empty lines and #-comments are skipped.
func ReadSourcesFromFile(filePath string) ([]ChunkSource, error) {
	file, err := os.Open(filePath)
	if err != nil {
		return nil, fmt.Errorf("open file: %w", err)
	}
	defer func() { _ = file.Close() }()

	var sources []ChunkSource

	scanner := bufio.NewScanner(file)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		fields := strings.Split(line, "\t")
		src := ChunkSource{AudioPath: strings.TrimSpace(fields[0])}
		src.VideoID = src.AudioPath

		if len(fields) > 1 && strings.TrimSpace(fields[1]) != "" {
			src.VideoID = strings.TrimSpace(fields[1])
		}
		if len(fields) > 2 {
			offset, err := strconv.ParseFloat(strings.TrimSpace(fields[2]), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid offset %q", lineNo, fields[2])
			}
			src.Offset = offset
		}
		if len(fields) > 3 {
			duration, err := strconv.ParseFloat(strings.TrimSpace(fields[3]), 64)
			if err != nil {
				return nil, fmt.Errorf("line %d: invalid duration %q", lineNo, fields[3])
			}
			src.Duration = duration
		}

		sources = append(sources, src)
	}

	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("scan file: %w", err)
	}

	return sources, nil
}
