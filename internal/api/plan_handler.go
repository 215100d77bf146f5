package api

import (
	"fmt"
	"net/http"
	"strconv"

	"mindmentor/study-craft/internal/logger"
	"mindmentor/study-craft/internal/service"

	"github.com/gin-gonic/gin"
)

type PlanHandler struct {
	planService service.PlanService
	log         *logger.Logger
}

func NewPlanHandler(planService service.PlanService, log *logger.Logger) *PlanHandler {
	return &PlanHandler{planService: planService, log: log}
}

type CreatePlanRequest struct {
	Subject  string `json:"subject" binding:"required"`
	ExamDate string `json:"examDate" binding:"required"`
	UserID   string `json:"userId"` // optional, must match the token when sent
}

type UpdateProgressRequest struct {
	Progress *int `json:"progress" binding:"required"`
}

// CreatePlan godoc
// @Summary Generate a study plan, or return the active plan for the subject
// @Tags Plans
// @Accept json
// @Produce json
// @Param plan body CreatePlanRequest true "Subject and exam date (YYYY-MM-DD)"
// @Success 201 {object} StudyPlanResponse "Plan generated"
// @Success 200 {object} StudyPlanResponse "Existing active plan (code PLAN_EXISTS)"
// @Failure 400 {object} ErrorEnvelope "INVALID_INPUT"
// @Failure 504 {object} ErrorEnvelope "TIMEOUT"
// @Router /plan [post]
func (h *PlanHandler) CreatePlan(c *gin.Context) {
	// 1. Caller from token
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	// 2. Bind and check the optional body userId
	var req CreatePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, CodeInvalidInput, fmt.Sprintf("Validation error: %v", err))
		return
	}
	if !requireSameUser(c, userID, req.UserID) {
		return
	}

	// 3. Generate (or find the active plan for this subject)
	res, err := h.planService.GeneratePlan(c.Request.Context(), userID, req.Subject, req.ExamDate)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	// 4. Existing plans come back as a 200 with a signal code, not an error
	if res.AlreadyExists {
		respondOK(c, http.StatusOK, gin.H{
			"alreadyExists": true,
			"code":          CodePlanExists,
			"message":       "An active plan for this subject already exists",
			"plan":          MapStudyPlanToResponse(res.Plan),
		})
		return
	}
	respondOK(c, http.StatusCreated, gin.H{"plan": MapStudyPlanToResponse(res.Plan)})
}

// ListPlans godoc
// @Summary List a user's plans, newest first (active only unless all=true)
// @Tags Plans
// @Produce json
// @Param userId path string true "User ID"
// @Param all query bool false "Include inactive plans"
// @Router /plan/{userId} [get]
func (h *PlanHandler) ListPlans(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok || !requireSameUser(c, userID, c.Param("userId")) {
		return
	}
	includeInactive, _ := strconv.ParseBool(c.DefaultQuery("all", "false")) // Unparseable means active only

	plans, err := h.planService.ListPlans(c.Request.Context(), userID, includeInactive)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"plans": MapStudyPlansToResponse(plans)})
}

func (h *PlanHandler) GetPlan(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok || !requireSameUser(c, userID, c.Param("userId")) {
		return
	}
	planID, err := service.ParseObjectID("plan id", c.Param("id"))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	plan, err := h.planService.GetPlan(c.Request.Context(), userID, planID)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"plan": MapStudyPlanToResponse(plan)})
}

// DeletePlan godoc
// @Summary Delete one of the caller's plans
// @Tags Plans
// @Param id path string true "Plan ID"
// @Success 200 {object} gin.H "Plan deleted successfully"
// @Failure 404 {object} ErrorEnvelope "NOT_FOUND (missing or not owned)"
// @Router /plan/{id} [delete]
func (h *PlanHandler) DeletePlan(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	planID, err := service.ParseObjectID("plan id", c.Param("id"))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	if err := h.planService.DeletePlan(c.Request.Context(), userID, planID); err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"message": "Plan deleted successfully"})
}

func (h *PlanHandler) UpdateProgress(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok {
		return
	}
	planID, err := service.ParseObjectID("plan id", c.Param("id"))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	var req UpdateProgressRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, CodeInvalidInput, fmt.Sprintf("Validation error: %v", err))
		return
	}

	// Range (0..100) is checked by the service
	plan, err := h.planService.UpdateProgress(c.Request.Context(), userID, planID, *req.Progress)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"plan": MapStudyPlanToResponse(plan)})
}

// ExportPlan godoc
// @Summary Render a plan as Markdown and return a temporary download link
// @Tags Plans
// @Produce json
// @Param userId path string true "User ID"
// @Param id path string true "Plan ID"
// @Failure 503 {object} ErrorEnvelope "SERVICE_UNAVAILABLE (no storage configured)"
// @Router /plan/{userId}/{id}/export [get]
func (h *PlanHandler) ExportPlan(c *gin.Context) {
	userID, ok := requireUser(c)
	if !ok || !requireSameUser(c, userID, c.Param("userId")) {
		return
	}
	planID, err := service.ParseObjectID("plan id", c.Param("id"))
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}

	export, err := h.planService.ExportPlan(c.Request.Context(), userID, planID)
	if err != nil {
		respondServiceError(c, h.log, err)
		return
	}
	respondOK(c, http.StatusOK, gin.H{"url": export.URL, "expiresAt": export.ExpiresAt})
}
