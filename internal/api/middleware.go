package api

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"mindmentor/study-craft/internal/logger"
	"mindmentor/study-craft/internal/service"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Constants for context keys
const (
	ContextUserIDKey    = "userID"
	ContextRequestIDKey = "requestID"
	requestIDHeader     = "X-Request-ID"
)

// AuthMiddleware validates the Bearer token and stores the user id.
func AuthMiddleware(authService service.AuthService) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortWithError(c, http.StatusUnauthorized, CodeUnauthorized, "Authorization header is missing")
			return
		}

		// Expecting "Bearer <token>"
		parts := strings.Fields(authHeader)
		if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
			abortWithError(c, http.StatusUnauthorized, CodeUnauthorized, "Authorization header format must be Bearer {token}")
			return
		}

		userID, err := authService.ValidateToken(parts[1])
		if err != nil {
			abortWithError(c, http.StatusUnauthorized, CodeUnauthorized, "Invalid or expired token")
			return
		}

		c.Set(ContextUserIDKey, userID)
		c.Next()
	}
}

// getUserIDFromContext returns the id stored by AuthMiddleware.
func getUserIDFromContext(c *gin.Context) (primitive.ObjectID, error) {
	idRaw, exists := c.Get(ContextUserIDKey)
	if !exists {
		return primitive.NilObjectID, errors.New("user ID not found in context")
	}
	id, ok := idRaw.(primitive.ObjectID)
	if !ok {
		return primitive.NilObjectID, errors.New("invalid user ID type in context")
	}
	return id, nil
}

// requireUser returns the caller id or aborts with a 500 when the auth
// middleware did not run.
func requireUser(c *gin.Context) (primitive.ObjectID, bool) {
	id, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusInternalServerError, CodeServerError, "Failed to get user ID from token")
		return primitive.NilObjectID, false
	}
	return id, true
}

// requireSameUser checks that a client-supplied user id, when present,
// names the caller.
func requireSameUser(c *gin.Context, caller primitive.ObjectID, claimed string) bool {
	claimed = strings.TrimSpace(claimed)
	if claimed == "" || claimed == caller.Hex() {
		return true
	}
	abortWithError(c, http.StatusForbidden, CodeForbidden, "userId does not match the authenticated user")
	return false
}

// RequestID assigns every request an id, reusing an incoming X-Request-ID.
func RequestID() gin.HandlerFunc {
	return func(c *gin.Context) {
		id := strings.TrimSpace(c.GetHeader(requestIDHeader))
		if id == "" || len(id) > 128 {
			id = uuid.NewString()
		}
		c.Set(ContextRequestIDKey, id)
		c.Header(requestIDHeader, id)
		c.Next()
	}
}

// RequestLogger logs one line per request, at a level derived from the status.
func RequestLogger(log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		status := c.Writer.Status()
		path := c.FullPath()
		if path == "" {
			path = c.Request.URL.Path
		}
		fields := []interface{}{
			"method", c.Request.Method,
			"path", path,
			"status", status,
			"duration_ms", time.Since(start).Milliseconds(),
			"request_id", c.GetString(ContextRequestIDKey),
		}
		if id, err := getUserIDFromContext(c); err == nil {
			fields = append(fields, "user_id", id.Hex())
		}

		switch {
		case status >= 500:
			log.Error("HTTP request", fields...)
		case status >= 400:
			log.Warn("HTTP request", fields...)
		default:
			log.Info("HTTP request", fields...)
		}
	}
}

// Recovery turns panics into a SERVER_ERROR envelope.
func Recovery(log *logger.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered any) {
		log.Error("panic recovered", "path", c.Request.URL.Path, "panic", recovered, "request_id", c.GetString(ContextRequestIDKey))
		abortWithError(c, http.StatusInternalServerError, CodeServerError, "An unexpected error occurred")
	})
}

// CORS allows the configured origins; an empty list falls back to the local frontend.
func CORS(origins []string) gin.HandlerFunc {
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000"}
	}
	return cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", requestIDHeader},
		ExposeHeaders:    []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	})
}
