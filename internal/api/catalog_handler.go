package api

import (
	"net/http"

	"ironlog/fitness-tracker/internal/domain"

	"github.com/gin-gonic/gin"
)

type CatalogResponse struct {
	MuscleGroups []string            `json:"muscleGroups"`
	Exercises    map[string][]string `json:"exercises"`
	WeightTypes  []domain.WeightType `json:"weightTypes"`
}

// GetCatalog godoc
// @Summary Muscle groups, suggested exercises and weight types
// @Tags Catalog
// @Produce json
// @Success 200 {object} CatalogResponse
// @Router /catalog [get]
func GetCatalog(c *gin.Context) {
	c.JSON(http.StatusOK, CatalogResponse{
		MuscleGroups: domain.MuscleGroups,
		Exercises:    domain.ExerciseCatalog,
		WeightTypes:  domain.WeightTypes,
	})
}
