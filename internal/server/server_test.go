package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/vidfact/vidfact/internal/extract"
	"github.com/vidfact/vidfact/internal/model"
	"github.com/vidfact/vidfact/internal/pipeline"
	"github.com/vidfact/vidfact/internal/store"
)

func init() {
	gin.SetMode(gin.TestMode)
}

func testLogger() *logrus.Entry {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return logrus.NewEntry(log)
}

// fakeProcessor returns a canned result and remembers the last request
type fakeProcessor struct {
	lastReq pipeline.ChunkRequest
	result  *pipeline.ChunkResult
	err     error
	st      store.Store
}

func (f *fakeProcessor) ProcessChunk(ctx context.Context, req pipeline.ChunkRequest) (*pipeline.ChunkResult, error) {
	f.lastReq = req
	if f.err != nil {
		return nil, f.err
	}
	if f.st != nil {
		f.st.Append(req.Chunk.VideoID, f.result.Claims)
	}
	return f.result, nil
}

func testServer(proc ChunkProcessor, st store.Store) *Server {
	return New(model.DefaultConfig(), proc, st, testLogger())
}

func uploadRequest(t *testing.T, fields map[string]string, withAudio bool) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		if err := w.WriteField(k, v); err != nil {
			t.Fatalf("write field %s: %v", k, err)
		}
	}
	if withAudio {
		part, err := w.CreateFormFile("audio", "chunk.webm")
		if err != nil {
			t.Fatalf("create form file: %v", err)
		}
		if _, err := part.Write([]byte("fake audio bytes")); err != nil {
			t.Fatalf("write audio: %v", err)
		}
	}
	if err := w.Close(); err != nil {
		t.Fatalf("close writer: %v", err)
	}

	req := httptest.NewRequest(http.MethodPost, "/upload-audio", &buf)
	req.Header.Set("Content-Type", w.FormDataContentType())
	return req
}

func TestUploadAudio_HappyPath(t *testing.T) {
	st := store.NewMemoryStore()
	proc := &fakeProcessor{
		result: &pipeline.ChunkResult{
			Claims: []model.VerifiedClaim{{
				Claim:   model.Claim{Text: "The Earth is 4.5 billion years old", Timestamp: 12},
				Verdict: model.Verdict{Label: model.VerdictTrue, Confidence: 92, Sources: []string{"https://nasa.gov"}},
			}},
			Transcript: "The Earth is 4.5 billion years old.",
			Method:     extract.MethodHeuristic,
		},
		st: st,
	}
	srv := testServer(proc, st)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, uploadRequest(t, map[string]string{
		"api_key":   "sk-test-key-123",
		"video_id":  "vid1",
		"timestamp": "10.0",
		"duration":  "30",
	}, true))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp pipeline.ChunkResult
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(resp.Claims) != 1 || resp.Claims[0].Verdict.Label != model.VerdictTrue {
		t.Errorf("unexpected claims: %+v", resp.Claims)
	}

	if proc.lastReq.Chunk.VideoID != "vid1" || proc.lastReq.Chunk.BaseTimestamp != 10.0 {
		t.Errorf("unexpected chunk context: %+v", proc.lastReq.Chunk)
	}
	// The buffered upload must be cleaned up after processing
	if _, err := os.Stat(proc.lastReq.AudioPath); !os.IsNotExist(err) {
		t.Errorf("temp audio file not removed: %s", proc.lastReq.AudioPath)
	}
}

func TestUploadAudio_ShortAPIKeyRejected(t *testing.T) {
	srv := testServer(&fakeProcessor{result: &pipeline.ChunkResult{}}, store.NewMemoryStore())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, uploadRequest(t, map[string]string{
		"api_key":  "short",
		"video_id": "vid1",
	}, true))

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("expected 401, got %d", rec.Code)
	}
}

func TestUploadAudio_MissingVideoID(t *testing.T) {
	srv := testServer(&fakeProcessor{result: &pipeline.ChunkResult{}}, store.NewMemoryStore())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, uploadRequest(t, map[string]string{
		"api_key": "sk-test-key-123",
	}, true))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestUploadAudio_MissingAudioFile(t *testing.T) {
	srv := testServer(&fakeProcessor{result: &pipeline.ChunkResult{}}, store.NewMemoryStore())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, uploadRequest(t, map[string]string{
		"api_key":  "sk-test-key-123",
		"video_id": "vid1",
	}, false))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestUploadAudio_InvalidTimestamp(t *testing.T) {
	srv := testServer(&fakeProcessor{result: &pipeline.ChunkResult{}}, store.NewMemoryStore())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, uploadRequest(t, map[string]string{
		"api_key":   "sk-test-key-123",
		"video_id":  "vid1",
		"timestamp": "ten",
	}, true))

	if rec.Code != http.StatusBadRequest {
		t.Errorf("expected 400, got %d", rec.Code)
	}
}

func TestUploadAudio_ProcessorErrorIs500(t *testing.T) {
	srv := testServer(&fakeProcessor{err: errors.New("transcribe: boom")}, store.NewMemoryStore())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, uploadRequest(t, map[string]string{
		"api_key":  "sk-test-key-123",
		"video_id": "vid1",
	}, true))

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("expected 500, got %d", rec.Code)
	}
}

func TestGetVerdicts(t *testing.T) {
	st := store.NewMemoryStore()
	st.Append("vid1", []model.VerifiedClaim{{
		Claim:   model.Claim{Text: "Claim A", Timestamp: 0},
		Verdict: model.Verdict{Label: model.VerdictFalse, Confidence: 70, Sources: []string{}},
	}})
	srv := testServer(&fakeProcessor{}, st)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/get-verdicts/vid1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		VideoID     string                `json:"video_id"`
		Claims      []model.VerifiedClaim `json:"claims"`
		TotalClaims int                   `json:"total_claims"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.VideoID != "vid1" || resp.TotalClaims != 1 || len(resp.Claims) != 1 {
		t.Errorf("unexpected response: %+v", resp)
	}
}

func TestGetVerdicts_UnknownVideoIsEmpty(t *testing.T) {
	srv := testServer(&fakeProcessor{}, store.NewMemoryStore())

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/get-verdicts/never-seen", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp struct {
		TotalClaims int `json:"total_claims"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if resp.TotalClaims != 0 {
		t.Errorf("expected 0 claims, got %d", resp.TotalClaims)
	}
}

func TestClearVerdicts(t *testing.T) {
	st := store.NewMemoryStore()
	st.Append("vid1", []model.VerifiedClaim{{Claim: model.Claim{Text: "Claim A"}}})
	srv := testServer(&fakeProcessor{}, st)

	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/clear-verdicts/vid1", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(st.Get("vid1")) != 0 {
		t.Error("expected store cleared for vid1")
	}
}

func TestCORSPreflight(t *testing.T) {
	srv := testServer(&fakeProcessor{}, store.NewMemoryStore())

	req := httptest.NewRequest(http.MethodOptions, "/upload-audio", nil)
	req.Header.Set("Origin", "https://example.com")
	rec := httptest.NewRecorder()
	srv.Handler().ServeHTTP(rec, req)

	if rec.Code != http.StatusNoContent {
		t.Errorf("expected 204 for preflight, got %d", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Errorf("expected wildcard CORS origin, got %q", rec.Header().Get("Access-Control-Allow-Origin"))
	}
}
