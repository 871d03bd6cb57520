package server

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/ppiankov/caselens/internal/logging"
	"github.com/ppiankov/caselens/internal/model"
	"github.com/ppiankov/caselens/internal/pipeline"
	"github.com/ppiankov/caselens/internal/validate"
)

func (s *Server) handleExtract(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, s.maxBodyBytes)

	var req model.ExtractionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		status := http.StatusBadRequest
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			status = http.StatusRequestEntityTooLarge
		}
		c.JSON(status, model.ErrorResponse{Error: "invalid request body: " + err.Error()})
		return
	}

	ctx := pipeline.WithRequestID(c.Request.Context(), c.GetString(requestIDKey))
	resp, err := s.extractor.Extract(ctx, req)
	if err != nil {
		if validate.IsValidation(err) {
			c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: err.Error()})
			return
		}
		s.logger.Error("extraction failed",
			logging.String("request_id", c.GetString(requestIDKey)),
			logging.Err(err))
		c.JSON(http.StatusInternalServerError, model.ErrorResponse{Error: "internal error"})
		return
	}

	c.JSON(http.StatusOK, resp)
}

func (s *Server) handleHealth(c *gin.Context) {
	ai := s.aiProvider
	if ai == "" {
		ai = "disabled"
	}
	body := gin.H{
		"status":  "ok",
		"version": s.version,
		"ai":      ai,
	}
	if s.aiCheck != nil {
		body["ai_available"] = s.aiCheck(c.Request.Context())
	}
	c.JSON(http.StatusOK, body)
}
