package notify

import (
	"context"
	"fmt"

	"ironlog/fitness-tracker/internal/domain"
)

const workoutLoggedSubject = "New Workout Logged"

//go:generate mockgen -source=notify.go -destination=../mocks/notify_mock.go -package=mocks

// Notifier announces newly logged workouts.
type Notifier interface {
	WorkoutLogged(ctx context.Context, user *domain.User, workout *domain.WorkoutRecord) error
}

// WorkoutLoggedMessage renders the notification body for a workout.
func WorkoutLoggedMessage(user *domain.User, workout *domain.WorkoutRecord) string {
	who := workout.OwnerID
	if user != nil {
		who = user.Name
		if who == "" {
			who = user.Email
		}
	}
	return fmt.Sprintf("User %s logged a workout: %q on %s", who, workout.Name, workout.Date)
}

// Noop drops every notification. Used when no topic is configured.
type Noop struct{}

func (Noop) WorkoutLogged(context.Context, *domain.User, *domain.WorkoutRecord) error { return nil }
