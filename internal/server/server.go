package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/benmeehan/absensi-agent/internal/gate"
	"github.com/benmeehan/absensi-agent/internal/metrics"
	"github.com/benmeehan/absensi-agent/internal/panel"
	"github.com/benmeehan/absensi-agent/internal/services"
	"github.com/benmeehan/absensi-agent/pkg/camera"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
)

// Capturer takes a still photo for the session.
type Capturer interface {
	Capture(ctx context.Context) (camera.Photo, error)
}

// Submitter delivers one attendance submission.
type Submitter interface {
	Submit(ctx context.Context, kind gate.Kind) (services.Result, error)
}

// StateSource exposes the current panel state.
type StateSource interface {
	Snapshot() panel.Snapshot
}

const shutdownTimeout = 5 * time.Second

// Server is the local kiosk API the touch screen front end talks to.
type Server struct {
	address   string
	state     StateSource
	capturer  Capturer
	submitter Submitter
	metrics   *metrics.Collector
	logger    zerolog.Logger

	engine *gin.Engine
	srv    *http.Server
	wg     sync.WaitGroup
}

func NewServer(address string, state StateSource, capturer Capturer, submitter Submitter, m *metrics.Collector, logger zerolog.Logger) *Server {
	s := &Server{
		address:   address,
		state:     state,
		capturer:  capturer,
		submitter: submitter,
		metrics:   m,
		logger:    logger,
	}
	s.engine = s.routes()
	return s
}

// Handler returns the HTTP handler serving the API.
func (s *Server) Handler() http.Handler {
	return s.engine
}

func (s *Server) routes() *gin.Engine {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery(), s.requestLogger())

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/metrics", gin.WrapH(s.metrics.Handler()))

	api := r.Group("/api/v1")
	{
		api.GET("/state", s.getState)
		api.POST("/capture", s.capture)
		api.POST("/attendance/:type", s.submit)
	}
	return r
}

// Start binds the listen address and serves in the background.
func (s *Server) Start() error {
	if s.srv != nil {
		return errors.New("http server is already running")
	}

	ln, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	s.srv = &http.Server{
		Handler:           s.engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	s.wg.Add(1)
	go func() {
		defer s.wg.Done()
		if err := s.srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Msg("HTTP server stopped unexpectedly")
		}
	}()

	s.logger.Info().Str("address", ln.Addr().String()).Msg("HTTP server started")
	return nil
}

// Stop shuts the server down, waiting briefly for in-flight requests.
func (s *Server) Stop() error {
	if s.srv == nil {
		return errors.New("http server is not running")
	}

	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	err := s.srv.Shutdown(ctx)
	s.wg.Wait()
	s.srv = nil

	s.logger.Info().Msg("HTTP server stopped")
	return err
}

func (s *Server) requestLogger() gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		s.logger.Debug().
			Str("method", c.Request.Method).
			Str("path", c.FullPath()).
			Int("status", c.Writer.Status()).
			Dur("took", time.Since(start)).
			Msg("Request handled")
	}
}
