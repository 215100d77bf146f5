package api

import (
	"fmt"
	"net/http"

	"mindmentor/study-craft/internal/logger"
	"mindmentor/study-craft/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler holds the authentication service dependency.
type AuthHandler struct {
	authService service.AuthService
	log         *logger.Logger
}

// NewAuthHandler creates a new AuthHandler.
func NewAuthHandler(authService service.AuthService, log *logger.Logger) *AuthHandler {
	return &AuthHandler{authService: authService, log: log}
}

// --- Request/Response Structs ---

type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// --- Handler Methods ---

// Register godoc
// @Summary Register a new user
// @Tags Auth
// @Accept json
// @Produce json
// @Param user body RegisterRequest true "Registration details"
// @Success 201 {object} UserResponse "User created successfully"
// @Failure 400 {object} ErrorEnvelope "INVALID_INPUT"
// @Failure 409 {object} ErrorEnvelope "USER_EXISTS"
// @Router /auth/register [post]
func (h *AuthHandler) Register(c *gin.Context) {
	var req RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, CodeInvalidInput, fmt.Sprintf("Validation error: %v", err))
		return
	}

	// Call the service (hashes the password, lowercases the email)
	user, err := h.authService.Register(c.Request.Context(), req.Name, req.Email, req.Password)
	if err != nil {
		respondServiceError(c, h.log, err) // USER_EXISTS on duplicate email
		return
	}

	respondOK(c, http.StatusCreated, gin.H{"user": MapUserToResponse(user)}) // Never expose the hash
}

// Login godoc
// @Summary Log in a user
// @Tags Auth
// @Accept json
// @Produce json
// @Param credentials body LoginRequest true "Login credentials"
// @Success 200 {object} gin.H "token and user"
// @Failure 401 {object} ErrorEnvelope "INVALID_CREDENTIALS"
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, CodeInvalidInput, fmt.Sprintf("Validation error: %v", err))
		return
	}

	token, user, err := h.authService.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	respondOK(c, http.StatusOK, gin.H{"token": token, "user": MapUserToResponse(user)})
}

// Me returns the authenticated user's profile.
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	user, err := h.authService.GetUser(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"user": MapUserToResponse(user)})
}
