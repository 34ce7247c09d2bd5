package domain

// MuscleGroups lists the muscle groups in display order.
var MuscleGroups = []string{"Chest", "Legs", "Back", "Shoulders", "Arms", "Abs"}

// WeightTypes lists the accepted weight unit tags.
var WeightTypes = []WeightType{WeightKg, WeightMachine, WeightBodyweight}

// ExerciseCatalog holds the exercise names offered per muscle group.
var ExerciseCatalog = map[string][]string{
	"Chest": {
		"Pushups",
		"Deficit Pushups",
		"Dips",
		"Dumbbell Bench Press",
		"Dumbbell Incline Press",
		"Barbell Bench Press",
		"Barbell Incline Press",
		"Chest Press Machine",
		"Chest Press",
		"Cable Crossovers",
		"Incline Cable Crossovers",
		"Decline Cable Crossovers",
		"Pec Deck",
	},
	"Legs": {
		"Barbell Squats",
		"Smith Machine Squats",
		"Hack Squat",
		"Leg Press",
		"Leg Extensions",
		"Deadlifts",
		"Seated Hamstring Curls",
		"Lying Hamstring Curl",
		"Smith Machine Goodmornings",
		"Romanian Deadlifts",
		"Bulgarian Split Squats",
		"Calf Raises",
		"Seated Calf Raises",
		"Tib Raises",
		"Glute Machine",
		"Hip Thrusts",
		"Abductor Machine",
		"Adductor Machine",
		"Dumbbell Lunges",
		"Sprinter Lunges Dumbbell",
		"Sprinter Lunges Smith Machine",
	},
	"Back": {
		"Pull Ups",
		"Assisted Pull Ups",
		"Chin Ups",
		"Assisted Chin-Ups",
		"Lat Pulldown",
		"Straight Arm Cable Pulldown",
		"Dumbbell Rows",
		"Barbell Rows",
		"Cable Rows",
		"T Bar Row",
		"High Row Machine",
		"Low Row Machine",
		"Back Extensions Bench",
		"Back Extensions Machine",
		"Dumbbell Shrugs",
		"Barbell Shrugs",
		"Trap Bar Shrugs",
		"Incline Trap Raise",
	},
	"Arms": {
		"Tricep Press Machine",
		"Cable Overhead Tricep Extensions",
		"Tricep Pulldown Rope",
		"Tricep Pulldown Rope Single-Arm",
		"Dumbbell Kickbacks",
		"Cable Kickbacks",
		"Skullcrushers",
		"Bicep Curls Dumbbell",
		"Bicep Curls Barbell",
		"Bicep Curls Cable",
		"Bicep Curls Cable Non-Machine",
		"Reverse Curls Cable Non-Machine",
		"Reverse Curls Cable",
		"Reverse Curls Dumbbell",
		"Reverse Curls Barbell",
		"Hammer Curls Dumbbell",
		"Preacher Curls",
		"Preacher Curls Dumbbell",
		"Preacher Curls Cable",
		"Reverse Preacher Curls",
		"Forearm Curls Pronated",
		"Forearm Curls Supinated",
		"Wrist Curls Supinated",
		"Wrist Curls Pronated",
	},
	"Shoulders": {
		"Shoulder Press Machine",
		"Shoulder Press Dumbbell",
		"Shoulder Press Barbell",
		"Lateral Raises",
		"Cable Lateral Raises",
		"Face Pulls",
		"Rotator Cuff Band",
		"External Rotation Horizontal",
		"External Rotation Vertical",
		"Rotator Cuff Cable",
		"Reverse Pec Deck Flys",
	},
	"Abs": {
		"Crunch Machine",
		"V-Crunch Machine",
		"Oblique Machine",
		"Hanging Leg Raises",
		"Elbow-Supported Hanging Leg Raises",
	},
}

// IsMuscleGroup reports whether group is a known muscle group.
func IsMuscleGroup(group string) bool {
	_, ok := ExerciseCatalog[group]
	return ok
}

// IsWeightType reports whether wt is an accepted weight unit tag.
func IsWeightType(wt WeightType) bool {
	for _, known := range WeightTypes {
		if wt == known {
			return true
		}
	}
	return false
}
