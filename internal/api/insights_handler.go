package api

import (
	"errors"
	"io"
	"net/http"

	"ironlog/fitness-tracker/internal/insights"

	"github.com/gin-gonic/gin"
)

type InsightsHandler struct {
	insightsService insights.Service
}

func NewInsightsHandler(insightsService insights.Service) *InsightsHandler {
	return &InsightsHandler{insightsService: insightsService}
}

type InsightsRequest struct {
	UserInput string `json:"userInput"`
}

type InsightsResponse struct {
	Reply string `json:"reply"`
}

// Ask godoc
// @Summary Ask the assistant about your training history
// @Tags Insights
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param question body InsightsRequest false "Question, defaults to a general analysis"
// @Success 200 {object} InsightsResponse
// @Failure 502 {object} gin.H "Model unavailable"
// @Router /insights [post]
func (h *InsightsHandler) Ask(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}

	var req InsightsRequest
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	reply, err := h.insightsService.Ask(c.Request.Context(), ownerID, req.UserInput)
	if err != nil {
		if errors.Is(err, insights.ErrUpstream) {
			abortWithError(c, http.StatusBadGateway, insights.ErrorReply)
		} else {
			abortWithError(c, http.StatusInternalServerError, insights.ErrorReply)
		}
		return
	}

	c.JSON(http.StatusOK, InsightsResponse{Reply: reply})
}
