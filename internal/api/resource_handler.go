package api

import (
	"fmt"
	"net/http"

	"mindmentor/study-craft/internal/logger"
	"mindmentor/study-craft/internal/service"

	"github.com/gin-gonic/gin"
)

type ResourceHandler struct {
	resourceService service.ResourceService
	log             *logger.Logger
}

func NewResourceHandler(resourceService service.ResourceService, log *logger.Logger) *ResourceHandler {
	return &ResourceHandler{resourceService: resourceService, log: log}
}

type CurateResourcesRequest struct {
	Subject string `json:"subject" binding:"required"`
	UserID  string `json:"userId"`
}

// CurateResources godoc
// @Summary Curate five free resources for a subject, or return the stored set
// @Tags Resources
// @Accept json
// @Produce json
// @Param request body CurateResourcesRequest true "Subject"
// @Success 201 {object} ResourceSetResponse "Resources curated"
// @Success 200 {object} ResourceSetResponse "Existing set (code RESOURCE_EXISTS)"
// @Router /resources [post]
func (h *ResourceHandler) CurateResources(c *gin.Context) {
	// 1. Caller from token
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	// 2. Bind and check the optional body userId
	var req CurateResourcesRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, CodeInvalidInput, fmt.Sprintf("Validation error: %v", err))
		return
	}
	if !requireSameUser(c, userID, req.UserID) {
		return
	}

	// 3. Curate (or find the stored set for this topic)
	res, err := h.resourceService.CurateResources(c.Request.Context(), userID, req.Subject)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	if res.AlreadyExists {
		respondOK(c, http.StatusOK, gin.H{
			"alreadyExists": true,
			"code":          CodeResourceExists,
			"message":       "Resources already exist for this subject",
			"resource":      MapResourceSetToResponse(res.Set),
		})
		return
	}
	// usedFallback tells the client the defaults were served instead of model output
	respondOK(c, http.StatusCreated, gin.H{
		"resource":     MapResourceSetToResponse(res.Set),
		"usedFallback": res.UsedFallback,
	})
}

func (h *ResourceHandler) ListResources(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok || !requireSameUser(c, userID, c.Param("userId")) {
		return
	}
	sets, err := h.resourceService.ListResources(c.Request.Context(), userID)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"resources": MapResourceSetsToResponse(sets)})
}

func (h *ResourceHandler) GetResourceSet(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok || !requireSameUser(c, userID, c.Param("userId")) {
		return
	}
	setID, err := service.ParseObjectID("resource id", c.Param("id"))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	set, err := h.resourceService.GetResourceSet(c.Request.Context(), userID, setID)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"resource": MapResourceSetToResponse(set)})
}

func (h *ResourceHandler) DeleteResourceSet(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	setID, err := service.ParseObjectID("resource id", c.Param("id"))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	// Sets owned by someone else come back as NOT_FOUND
	if err := h.resourceService.DeleteResourceSet(c.Request.Context(), userID, setID); err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"message": "Resource deleted successfully"})
}
