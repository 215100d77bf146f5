package api

import (
	"context"
	"errors"
	"net/http"

	"mindmentor/study-craft/internal/ai"
	"mindmentor/study-craft/internal/logger"
	"mindmentor/study-craft/internal/service"

	"github.com/gin-gonic/gin"
)

// Error codes carried in the "error" field of failure envelopes.
const (
	CodeInvalidInput       = "INVALID_INPUT"
	CodeUnauthorized       = "UNAUTHORIZED"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeForbidden          = "FORBIDDEN"
	CodeNotFound           = "NOT_FOUND"
	CodeUserExists         = "USER_EXISTS"
	CodePlanExists         = "PLAN_EXISTS"
	CodeResourceExists     = "RESOURCE_EXISTS"
	CodeUpstreamFailure    = "UPSTREAM_FAILURE"
	CodeTimeout            = "TIMEOUT"
	CodeServiceUnavailable = "SERVICE_UNAVAILABLE"
	CodeServerError        = "SERVER_ERROR"
)

// ErrorEnvelope is the body of every failed request.
type ErrorEnvelope struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
	Message string `json:"message"`
}

func respondOK(c *gin.Context, status int, payload gin.H) {
	body := gin.H{"success": true}
	for k, v := range payload {
		body[k] = v
	}
	c.JSON(status, body)
}

// abortWithError writes a failure envelope and stops the handler chain.
func abortWithError(c *gin.Context, status int, code, message string) {
	c.AbortWithStatusJSON(status, ErrorEnvelope{Success: false, Error: code, Message: message})
}

type errorMapping struct {
	target  error
	status  int
	code    string
	message string // empty means use err.Error()
}

// errorTable is checked in order; the first errors.Is match wins.
var errorTable = []errorMapping{
	{service.ErrInvalidInput, http.StatusBadRequest, CodeInvalidInput, ""},
	{service.ErrNotFound, http.StatusNotFound, CodeNotFound, "Not found"},
	{service.ErrUserAlreadyExists, http.StatusConflict, CodeUserExists, ""},
	{service.ErrAuthenticationFailed, http.StatusUnauthorized, CodeInvalidCredentials, "Invalid email or password"},
	{service.ErrTimeout, http.StatusGatewayTimeout, CodeTimeout, "Generation took too long, please try again"},
	{service.ErrUpstream, http.StatusBadGateway, CodeUpstreamFailure, "An upstream service failed, please try again later"},
	{service.ErrStorageUnavailable, http.StatusServiceUnavailable, CodeServiceUnavailable, "Export is not available"},
	{ai.ErrInvalidPlanFormat, http.StatusInternalServerError, CodeServerError, "Plan generation failed"},
}

// respondServiceError maps a service error onto the envelope. Unknown errors
// are logged and reported as SERVER_ERROR without details.
func respondServiceError(c *gin.Context, log *logger.Logger, err error) {
	for _, m := range errorTable {
		if errors.Is(err, m.target) {
			msg := m.message
			if msg == "" {
				msg = err.Error()
			}
			if m.status >= http.StatusInternalServerError {
				log.Error("request failed", "path", c.FullPath(), "error", err)
			}
			abortWithError(c, m.status, m.code, msg)
			return
		}
	}
	if errors.Is(err, context.Canceled) {
		// client went away; nobody reads this response
		c.Abort()
		return
	}
	log.Error("unhandled error", "path", c.FullPath(), "error", err)
	abortWithError(c, http.StatusInternalServerError, CodeServerError, "An unexpected error occurred")
}
