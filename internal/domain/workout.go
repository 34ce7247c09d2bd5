package domain

import (
	"math"
	"time"
)

// WeightType tags the unit of an exercise entry's weight.
type WeightType string

const (
	WeightKg         WeightType = "kg"
	WeightMachine    WeightType = "machine" // plate/pin number on a machine stack
	WeightBodyweight WeightType = "bodyweight"
)

// DefaultWorkoutName is used when a workout is saved without a name.
const DefaultWorkoutName = "Untitled Workout"

// WorkoutRecord is one logged training session of a user.
type WorkoutRecord struct {
	OwnerID   string          `bson:"ownerId" json:"ownerId"`     // Authenticated user, never taken from the request body
	WorkoutID string          `bson:"workoutId" json:"workoutId"` // UUID, unique within the owner's records
	Name      string          `bson:"workoutName" json:"workoutName"`
	Date      Date            `bson:"workoutDate" json:"workoutDate"`
	Exercises []ExerciseEntry `bson:"exercises" json:"exercises"`
	CreatedAt time.Time       `bson:"createdAt" json:"createdAt"`
	UpdatedAt time.Time       `bson:"updatedAt" json:"updatedAt"`
}

// ExerciseEntry is a single exercise performed in a workout.
// A negative Weight means the exercise was done with assistance of that magnitude.
type ExerciseEntry struct {
	MuscleGroup  string     `bson:"muscleGroup" json:"muscleGroup"`
	Exercise     string     `bson:"exercise" json:"exercise"`
	Sets         int        `bson:"sets" json:"sets"`
	Reps         int        `bson:"reps" json:"reps"`
	Weight       float64    `bson:"weight" json:"weight"`
	WeightType   WeightType `bson:"weightType" json:"weightType"`
	IsAssistance bool       `bson:"isAssistance" json:"isAssistance"`
}

// Load is the absolute load of the entry. Bodyweight entries carry no load.
func (e ExerciseEntry) Load() float64 {
	if e.WeightType == WeightBodyweight {
		return 0
	}
	return math.Abs(e.Weight)
}

// Volume is sets x reps x load.
func (e ExerciseEntry) Volume() float64 {
	return float64(e.Sets) * float64(e.Reps) * e.Load()
}

// Assisted reports whether the weight encodes assistance rather than resistance.
func (e ExerciseEntry) Assisted() bool {
	return e.Weight < 0
}

// NormalizeWeight applies the assistance flag to the sign of the weight.
func (e *ExerciseEntry) NormalizeWeight() {
	if e.WeightType == "" {
		e.WeightType = WeightKg
	}
	if e.IsAssistance {
		e.Weight = -math.Abs(e.Weight)
	} else {
		e.Weight = math.Abs(e.Weight)
	}
}
