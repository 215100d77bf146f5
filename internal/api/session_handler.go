package api

import (
	"fmt"
	"net/http"
	"time"

	"mindmentor/study-craft/internal/domain"
	"mindmentor/study-craft/internal/logger"
	"mindmentor/study-craft/internal/service"

	"github.com/gin-gonic/gin"
)

type SessionHandler struct {
	sessionService service.SessionService
	log            *logger.Logger
}

func NewSessionHandler(sessionService service.SessionService, log *logger.Logger) *SessionHandler {
	return &SessionHandler{sessionService: sessionService, log: log}
}

type RecordSessionRequest struct {
	Mode      domain.SessionMode `json:"mode" binding:"required,oneof=focus break"`
	StartedAt time.Time          `json:"startedAt" binding:"required"`
	EndedAt   time.Time          `json:"endedAt" binding:"required"`
}

// RecordSession stores a finished timer run and returns refreshed stats.
func (h *SessionHandler) RecordSession(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	var req RecordSessionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, CodeInvalidInput, fmt.Sprintf("Validation error: %v", err))
		return
	}

	session, stats, err := h.sessionService.RecordSession(c.Request.Context(), userID, req.Mode, req.StartedAt, req.EndedAt)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, http.StatusCreated, gin.H{"session": MapStudySessionToResponse(session), "stats": stats})
}

func (h *SessionHandler) Stats(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	stats, err := h.sessionService.Stats(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"stats": stats})
}
