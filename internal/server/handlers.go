package server

import (
	"errors"
	"net/http"

	"github.com/benmeehan/absensi-agent/internal/gate"
	"github.com/benmeehan/absensi-agent/internal/services"
	"github.com/gin-gonic/gin"
)

func (s *Server) getState(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": s.state.Snapshot()})
}

func (s *Server) capture(c *gin.Context) {
	photo, err := s.capturer.Capture(c.Request.Context())
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": gin.H{"photo": photo.DataURL}})
}

func (s *Server) submit(c *gin.Context) {
	kind, err := gate.ParseKind(c.Param("type"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	result, err := s.submitter.Submit(c.Request.Context(), kind)
	if err != nil {
		s.fail(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok", "data": result, "message": s.state.Snapshot().Status})
}

func (s *Server) fail(c *gin.Context, err error) {
	code := statusFor(err)
	if code >= http.StatusInternalServerError {
		s.logger.Error().Err(err).Str("path", c.FullPath()).Msg("Request failed")
	}
	c.JSON(code, gin.H{"error": err.Error(), "message": s.state.Snapshot().Status})
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, services.ErrNoPhoto),
		errors.Is(err, services.ErrNoLocation),
		errors.Is(err, services.ErrActionDisabled),
		errors.Is(err, services.ErrSubmissionInFlight):
		return http.StatusConflict
	case errors.Is(err, services.ErrCameraUnavailable):
		return http.StatusServiceUnavailable
	case errors.Is(err, services.ErrSubmitFailed):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}
