package worker

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/vidfact/vidfact/internal/pipeline"
)

// fakeProcessor records the chunks it was asked to process
type fakeProcessor struct {
	mu       sync.Mutex
	requests []pipeline.ChunkRequest
	failPath string
}

func (f *fakeProcessor) ProcessChunk(ctx context.Context, req pipeline.ChunkRequest) (*pipeline.ChunkResult, error) {
	f.mu.Lock()
	f.requests = append(f.requests, req)
	f.mu.Unlock()

	if req.AudioPath == f.failPath {
		return nil, errors.New("transcription unavailable")
	}
	return &pipeline.ChunkResult{Transcript: "ok"}, nil
}

func TestBatchProcessor_ProcessesAllChunks(t *testing.T) {
	proc := &fakeProcessor{}
	b := NewBatchProcessor(proc, "sk-test-key-123", 3)

	sources := []ChunkSource{
		{AudioPath: "/tmp/a.webm", VideoID: "vid1", Offset: 0, Duration: 30},
		{AudioPath: "/tmp/b.webm", VideoID: "vid1", Offset: 30, Duration: 30},
		{AudioPath: "/tmp/c.webm", VideoID: "vid2", Offset: 0, Duration: 30},
	}

	results := b.ProcessChunks(context.Background(), sources)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}
	for _, r := range results {
		if r.Error != nil {
			t.Errorf("chunk %s failed: %v", r.Source.AudioPath, r.Error)
		}
	}

	proc.mu.Lock()
	defer proc.mu.Unlock()
	if len(proc.requests) != 3 {
		t.Fatalf("expected 3 processed chunks, got %d", len(proc.requests))
	}
	for _, req := range proc.requests {
		if req.APIKey != "sk-test-key-123" {
			t.Error("batch credential must reach every chunk")
		}
	}
}

func TestBatchProcessor_OneFailureDoesNotStopOthers(t *testing.T) {
	proc := &fakeProcessor{failPath: "/tmp/bad.webm"}
	b := NewBatchProcessor(proc, "sk-test-key-123", 2)

	results := b.ProcessChunks(context.Background(), []ChunkSource{
		{AudioPath: "/tmp/good.webm", VideoID: "vid1"},
		{AudioPath: "/tmp/bad.webm", VideoID: "vid1"},
	})

	failed := 0
	for _, r := range results {
		if r.GetError() != nil {
			failed++
		}
	}
	if failed != 1 {
		t.Errorf("expected exactly 1 failure, got %d", failed)
	}
}

func TestBatchProcessor_LargeBatchCompletes(t *testing.T) {
	proc := &fakeProcessor{}
	b := NewBatchProcessor(proc, "sk-test-key-123", 1)

	const chunks = 50
	sources := make([]ChunkSource, chunks)
	for i := range sources {
		sources[i] = ChunkSource{
			AudioPath: fmt.Sprintf("/tmp/chunk-%02d.webm", i),
			VideoID:   "vid1",
			Offset:    float64(i * 30),
			Duration:  30,
		}
	}

	done := make(chan []*ChunkJobResult, 1)
	go func() { done <- b.ProcessChunks(context.Background(), sources) }()

	select {
	case results := <-done:
		if len(results) != chunks {
			t.Fatalf("expected %d results, got %d", chunks, len(results))
		}
	case <-time.After(5 * time.Second):
		t.Fatal("batch stalled on a list larger than the pool buffering")
	}
}

func TestReadSourcesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chunks.txt")
	content := "# batch of chunks\n" +
		"/audio/a.webm\tvid1\t0\t30\n" +
		"\n" +
		"/audio/b.webm\tvid1\t30\n" +
		"/audio/c.webm\n"
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write list: %v", err)
	}

	sources, err := ReadSourcesFromFile(path)
	if err != nil {
		t.Fatalf("ReadSourcesFromFile failed: %v", err)
	}
	if len(sources) != 3 {
		t.Fatalf("expected 3 sources, got %d", len(sources))
	}

	if sources[0].VideoID != "vid1" || sources[0].Offset != 0 || sources[0].Duration != 30 {
		t.Errorf("unexpected first source: %+v", sources[0])
	}
	if sources[1].Offset != 30 || sources[1].Duration != 0 {
		t.Errorf("unexpected second source: %+v", sources[1])
	}
	// A bare path uses itself as the video ID
	if sources[2].VideoID != "/audio/c.webm" {
		t.Errorf("expected path as video ID, got %q", sources[2].VideoID)
	}
}

func TestReadSourcesFromFile_InvalidOffset(t *testing.T) {
	path := filepath.Join(t.TempDir(), "chunks.txt")
	if err := os.WriteFile(path, []byte("/audio/a.webm\tvid1\tnot-a-number\n"), 0o644); err != nil {
		t.Fatalf("write list: %v", err)
	}

	if _, err := ReadSourcesFromFile(path); err == nil {
		t.Error("expected error for invalid offset")
	}
}
