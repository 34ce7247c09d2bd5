package insights

import (
	"encoding/json"
	"fmt"

	"ironlog/fitness-tracker/internal/domain"
)

const (
	DefaultQuery  = "Analyze my workouts"
	FallbackReply = "Sorry, I couldn't understand that."
	ErrorReply    = "Sorry, something went wrong. Please try again later."
)

// workoutSummary is the reduced view of a workout sent to the model.
type workoutSummary struct {
	WorkoutName string            `json:"workoutName"`
	WorkoutDate string            `json:"workoutDate"`
	Exercises   []exerciseSummary `json:"exercises"`
}

type exerciseSummary struct {
	MuscleGroup  string            `json:"muscleGroup"`
	Exercise     string            `json:"exercise"`
	Sets         int               `json:"sets"`
	Reps         int               `json:"reps"`
	Weight       float64           `json:"weight"`
	WeightType   domain.WeightType `json:"weightType"`
	IsAssistance bool              `json:"isAssistance"`
}

func summarize(workouts []domain.WorkoutRecord) []workoutSummary {
	out := make([]workoutSummary, 0, len(workouts))
	for _, w := range workouts {
		s := workoutSummary{
			WorkoutName: w.Name,
			WorkoutDate: w.Date.String(),
			Exercises:   make([]exerciseSummary, 0, len(w.Exercises)),
		}
		for _, e := range w.Exercises {
			s.Exercises = append(s.Exercises, exerciseSummary{
				MuscleGroup:  e.MuscleGroup,
				Exercise:     e.Exercise,
				Sets:         e.Sets,
				Reps:         e.Reps,
				Weight:       e.Weight,
				WeightType:   e.WeightType,
				IsAssistance: e.IsAssistance,
			})
		}
		out = append(out, s)
	}
	return out
}

// BuildPrompt combines the user's question with the projected workout history.
func BuildPrompt(query string, workouts []domain.WorkoutRecord) (string, error) {
	history, err := json.Marshal(summarize(workouts))
	if err != nil {
		return "", fmt.Errorf("marshal workout history: %w", err)
	}
	return fmt.Sprintf("User's Query: %s\n\nWorkout History (summarized):\n%s", query, history), nil
}
