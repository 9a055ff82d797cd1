package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/vidfact/vidfact/internal/model"
	"github.com/vidfact/vidfact/internal/pipeline"
	"github.com/vidfact/vidfact/internal/store"
)

// ChunkProcessor runs one uploaded chunk through the full pipeline
type ChunkProcessor interface {
	ProcessChunk(ctx context.Context, req pipeline.ChunkRequest) (*pipeline.ChunkResult, error)
}

// Server is the HTTP boundary: it accepts audio chunk uploads and
// serves accumulated verdicts per video.
type Server struct {
	cfg        *model.Config
	processor  ChunkProcessor
	store      store.Store
	log        *logrus.Entry
	engine     *gin.Engine
	httpServer *http.Server
}

// New creates a server around the given processor and store
func New(cfg *model.Config, processor ChunkProcessor, st store.Store, log *logrus.Entry) *Server {
	engine := gin.New()
	engine.Use(gin.Recovery())

	s := &Server{
		cfg:       cfg,
		processor: processor,
		store:     st,
		log:       log,
		engine:    engine,
	}

	engine.Use(RequestLogger(log))
	engine.Use(CORS(cfg.Server.CORSOrigins))

	engine.GET("/", s.handleRoot)
	engine.POST("/upload-audio", s.handleUploadAudio)
	engine.GET("/get-verdicts/:video_id", s.handleGetVerdicts)
	engine.DELETE("/clear-verdicts/:video_id", s.handleClearVerdicts)

	return s
}

// Handler exposes the route tree, mainly for tests
func (s *Server) Handler() http.Handler {
	return s.engine
}

// Start blocks serving HTTP until Shutdown is called
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.cfg.Server.Host, s.cfg.Server.Port)
	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.engine,
	}

	s.log.WithField("addr", addr).Info("HTTP server listening")
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("listen: %w", err)
	}
	return nil
}

// Shutdown drains in-flight requests and stops the server
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	return s.httpServer.Shutdown(ctx)
}
