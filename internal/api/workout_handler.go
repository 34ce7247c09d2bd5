package api

import (
	"errors"
	"net/http"
	"time"

	"ironlog/fitness-tracker/internal/domain"
	"ironlog/fitness-tracker/internal/service"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"
)

// WorkoutHandler serves the workout log of the authenticated user.
type WorkoutHandler struct {
	workoutService service.WorkoutService
}

func NewWorkoutHandler(workoutService service.WorkoutService) *WorkoutHandler {
	return &WorkoutHandler{workoutService: workoutService}
}

// --- DTOs ---

// ExerciseEntryRequest is one exercise of a workout as sent by clients.
type ExerciseEntryRequest struct {
	MuscleGroup  string            `json:"muscleGroup"`
	Exercise     string            `json:"exercise"`
	Sets         int               `json:"sets"`
	Reps         int               `json:"reps"`
	Weight       float64           `json:"weight"`
	WeightType   domain.WeightType `json:"weightType"`
	IsAssistance bool              `json:"isAssistance"`
}

// WorkoutRequest is the body of create and update calls. The owner always
// comes from the token.
type WorkoutRequest struct {
	WorkoutName string                 `json:"workoutName"`
	WorkoutDate domain.Date            `json:"workoutDate"`
	Exercises   []ExerciseEntryRequest `json:"exercises"`
}

type WorkoutResponse struct {
	WorkoutID   string                 `json:"workoutId"`
	WorkoutName string                 `json:"workoutName"`
	WorkoutDate domain.Date            `json:"workoutDate"`
	Exercises   []domain.ExerciseEntry `json:"exercises"`
	CreatedAt   time.Time              `json:"createdAt"`
	UpdatedAt   time.Time              `json:"updatedAt"`
}

type RenameExerciseRequest struct {
	OldExerciseName string `json:"oldExerciseName" binding:"required"`
	NewExerciseName string `json:"newExerciseName" binding:"required"`
}

func (r WorkoutRequest) toInput() service.WorkoutInput {
	input := service.WorkoutInput{
		Name:      r.WorkoutName,
		Date:      r.WorkoutDate,
		Exercises: make([]domain.ExerciseEntry, len(r.Exercises)),
	}
	for i, e := range r.Exercises {
		input.Exercises[i] = domain.ExerciseEntry{
			MuscleGroup:  e.MuscleGroup,
			Exercise:     e.Exercise,
			Sets:         e.Sets,
			Reps:         e.Reps,
			Weight:       e.Weight,
			WeightType:   e.WeightType,
			IsAssistance: e.IsAssistance,
		}
	}
	return input
}

// MapWorkoutToResponse converts a domain.WorkoutRecord to its DTO.
func MapWorkoutToResponse(w *domain.WorkoutRecord) WorkoutResponse {
	if w == nil {
		return WorkoutResponse{}
	}
	exercises := w.Exercises
	if exercises == nil {
		exercises = []domain.ExerciseEntry{}
	}
	return WorkoutResponse{
		WorkoutID:   w.WorkoutID,
		WorkoutName: w.Name,
		WorkoutDate: w.Date,
		Exercises:   exercises,
		CreatedAt:   w.CreatedAt,
		UpdatedAt:   w.UpdatedAt,
	}
}

func MapWorkoutsToResponse(workouts []domain.WorkoutRecord) []WorkoutResponse {
	responses := make([]WorkoutResponse, len(workouts))
	for i := range workouts {
		responses[i] = MapWorkoutToResponse(&workouts[i])
	}
	return responses
}

// ownerOrAbort resolves the authenticated owner; it aborts the request when missing.
func ownerOrAbort(c *gin.Context) (string, bool) {
	ownerID, err := getUserIDFromContext(c)
	if err != nil {
		abortWithError(c, http.StatusUnauthorized, "Unable to identify user from token.")
		return "", false
	}
	return ownerID, true
}

func bindWorkout(c *gin.Context) (WorkoutRequest, bool) {
	var req WorkoutRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return req, false
	}
	return req, true
}

// handleWorkoutError maps service errors to HTTP responses.
func handleWorkoutError(c *gin.Context, op string, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidWorkout), errors.Is(err, service.ErrInvalidRename):
		abortWithError(c, http.StatusBadRequest, err.Error())
	case errors.Is(err, service.ErrWorkoutNotFound):
		abortWithError(c, http.StatusNotFound, err.Error())
	default:
		log.Errorf("%s: %s", op, err)
		abortWithError(c, http.StatusInternalServerError, "Failed to "+op)
	}
}

// --- Handler Methods ---

// CreateWorkout godoc
// @Summary Log a workout
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workout body WorkoutRequest true "Workout"
// @Success 201 {object} gin.H "message and workoutId"
// @Failure 400 {object} gin.H "Invalid workout"
// @Router /workouts [post]
func (h *WorkoutHandler) CreateWorkout(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}
	req, ok := bindWorkout(c)
	if !ok {
		return
	}

	workout, err := h.workoutService.CreateWorkout(c.Request.Context(), ownerID, req.toInput())
	if err != nil {
		handleWorkoutError(c, "save workout", err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":   "Workout saved successfully",
		"workoutId": workout.WorkoutID,
	})
}

// ListWorkouts godoc
// @Summary List the user's workouts, newest first
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Success 200 {array} WorkoutResponse
// @Router /workouts [get]
func (h *WorkoutHandler) ListWorkouts(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}

	workouts, err := h.workoutService.ListWorkouts(c.Request.Context(), ownerID)
	if err != nil {
		handleWorkoutError(c, "fetch workouts", err)
		return
	}

	c.JSON(http.StatusOK, MapWorkoutsToResponse(workouts))
}

// UpdateWorkout godoc
// @Summary Replace a workout
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param workoutId path string true "Workout ID"
// @Param workout body WorkoutRequest true "Workout"
// @Success 200 {object} gin.H "message and workout"
// @Failure 404 {object} gin.H "Workout not found"
// @Router /workouts/{workoutId} [put]
func (h *WorkoutHandler) UpdateWorkout(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}
	req, ok := bindWorkout(c)
	if !ok {
		return
	}

	workout, err := h.workoutService.UpdateWorkout(c.Request.Context(), ownerID, c.Param("workoutId"), req.toInput())
	if err != nil {
		handleWorkoutError(c, "update workout", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": "Workout updated successfully",
		"workout": MapWorkoutToResponse(workout),
	})
}

// DeleteWorkout godoc
// @Summary Delete a workout
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Param workoutId path string true "Workout ID"
// @Success 200 {object} gin.H
// @Failure 404 {object} gin.H "Workout not found"
// @Router /workouts/{workoutId} [delete]
func (h *WorkoutHandler) DeleteWorkout(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}

	if err := h.workoutService.DeleteWorkout(c.Request.Context(), ownerID, c.Param("workoutId")); err != nil {
		handleWorkoutError(c, "delete workout", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Workout deleted successfully"})
}

// GetAnalytics godoc
// @Summary Aggregated training analytics
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} analytics.Report
// @Router /workouts/analytics [get]
func (h *WorkoutHandler) GetAnalytics(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}

	report, err := h.workoutService.Analyze(c.Request.Context(), ownerID)
	if err != nil {
		handleWorkoutError(c, "compute analytics", err)
		return
	}

	c.JSON(http.StatusOK, report)
}

// RenameExercise godoc
// @Summary Rename an exercise across all workouts
// @Tags Workouts
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param rename body RenameExerciseRequest true "Old and new name"
// @Success 200 {object} gin.H "modifiedCount"
// @Router /workouts/rename-exercise [post]
func (h *WorkoutHandler) RenameExercise(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}
	var req RenameExerciseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		abortWithError(c, http.StatusBadRequest, "Validation error: "+err.Error())
		return
	}

	modified, err := h.workoutService.RenameExercise(c.Request.Context(), ownerID, req.OldExerciseName, req.NewExerciseName)
	if err != nil {
		handleWorkoutError(c, "rename exercise", err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       "Exercise renamed",
		"modifiedCount": modified,
	})
}

// ExportWorkouts godoc
// @Summary Export all workouts as a downloadable JSON file
// @Tags Workouts
// @Produce json
// @Security BearerAuth
// @Success 200 {object} service.ExportResult
// @Router /workouts/export [post]
func (h *WorkoutHandler) ExportWorkouts(c *gin.Context) {
	ownerID, ok := ownerOrAbort(c)
	if !ok {
		return
	}

	result, err := h.workoutService.ExportWorkouts(c.Request.Context(), ownerID)
	if err != nil {
		handleWorkoutError(c, "export workouts", err)
		return
	}

	c.JSON(http.StatusOK, result)
}
