package server

import (
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/vidfact/vidfact/internal/model"
	"github.com/vidfact/vidfact/internal/pipeline"
)

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"service": "vidfact",
		"status":  "ok",
	})
}

// handleUploadAudio accepts one audio chunk as multipart form data and
// runs it through the pipeline. The caller supplies the provider
// credential per request; nothing is persisted on failure.
func (s *Server) handleUploadAudio(c *gin.Context) {
	if s.cfg.Server.MaxAudioBytes > 0 {
		c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.cfg.Server.MaxAudioBytes)
	}

	apiKey := c.PostForm("api_key")
	if err := model.ValidateAPIKey(apiKey); err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	videoID := c.PostForm("video_id")
	if videoID == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "video_id is required"})
		return
	}

	timestamp := 0.0
	if raw := c.PostForm("timestamp"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid timestamp: %q", raw)})
			return
		}
		timestamp = parsed
	}

	duration := 0.0
	if raw := c.PostForm("duration"); raw != "" {
		parsed, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("invalid duration: %q", raw)})
			return
		}
		duration = parsed
	}

	fileHeader, err := c.FormFile("audio")
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "audio file is required"})
		return
	}

	ext := filepath.Ext(fileHeader.Filename)
	if ext == "" {
		ext = ".webm"
	}
	tmpFile, err := os.CreateTemp("", "vidfact-chunk-*"+ext)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to buffer audio"})
		return
	}
	tmpPath := tmpFile.Name()
	_ = tmpFile.Close()
	defer func() { _ = os.Remove(tmpPath) }()

	if err := c.SaveUploadedFile(fileHeader, tmpPath); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("failed to save audio: %v", err)})
		return
	}

	result, err := s.processor.ProcessChunk(c.Request.Context(), pipeline.ChunkRequest{
		Chunk: model.ChunkContext{
			VideoID:       videoID,
			BaseTimestamp: timestamp,
			Duration:      duration,
		},
		AudioPath: tmpPath,
		APIKey:    apiKey,
		Language:  c.PostForm("language"),
	})
	if err != nil {
		s.log.WithError(err).WithField("video_id", videoID).Error("chunk processing failed")
		c.JSON(http.StatusInternalServerError, gin.H{"error": fmt.Sprintf("processing error: %v", err)})
		return
	}

	c.JSON(http.StatusOK, result)
}

func (s *Server) handleGetVerdicts(c *gin.Context) {
	videoID := c.Param("video_id")
	claims := s.store.Get(videoID)

	c.JSON(http.StatusOK, gin.H{
		"video_id":     videoID,
		"claims":       claims,
		"total_claims": len(claims),
	})
}

func (s *Server) handleClearVerdicts(c *gin.Context) {
	videoID := c.Param("video_id")
	s.store.Clear(videoID)

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Cleared claims for video %s", videoID),
	})
}
