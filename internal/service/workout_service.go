package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"ironlog/fitness-tracker/internal/analytics"
	"ironlog/fitness-tracker/internal/domain"
	"ironlog/fitness-tracker/internal/metrics"
	"ironlog/fitness-tracker/internal/notify"
	"ironlog/fitness-tracker/internal/repository"
	"ironlog/fitness-tracker/internal/storage"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// --- Error Definitions ---
var (
	ErrWorkoutNotFound = errors.New("workout not found")
	ErrInvalidWorkout  = errors.New("invalid workout")
	ErrInvalidRename   = errors.New("invalid exercise rename")
)

// WorkoutInput is the client-editable part of a workout.
type WorkoutInput struct {
	Name      string
	Date      domain.Date
	Exercises []domain.ExerciseEntry
}

// ExportResult points at an uploaded export of a user's workouts.
type ExportResult struct {
	ObjectKey    string    `json:"objectKey"`
	URL          string    `json:"url"`
	ExpiresAt    time.Time `json:"expiresAt"`
	WorkoutCount int       `json:"workoutCount"`
}

type WorkoutService interface {
	CreateWorkout(ctx context.Context, ownerID string, input WorkoutInput) (*domain.WorkoutRecord, error)
	ListWorkouts(ctx context.Context, ownerID string) ([]domain.WorkoutRecord, error)
	UpdateWorkout(ctx context.Context, ownerID, workoutID string, input WorkoutInput) (*domain.WorkoutRecord, error)
	DeleteWorkout(ctx context.Context, ownerID, workoutID string) error
	Analyze(ctx context.Context, ownerID string) (*analytics.Report, error)
	RenameExercise(ctx context.Context, ownerID, oldName, newName string) (int64, error)
	ExportWorkouts(ctx context.Context, ownerID string) (*ExportResult, error)
}

type workoutService struct {
	workoutRepo  repository.WorkoutRepository
	userRepo     repository.UserRepository
	notifier     notify.Notifier
	fileStorage  storage.FileStorage
	aggregator   *analytics.Aggregator
	metrics      *metrics.Manager
	exportExpiry time.Duration
}

// NewWorkoutService creates a new instance of workoutService.
func NewWorkoutService(
	workoutRepo repository.WorkoutRepository,
	userRepo repository.UserRepository,
	notifier notify.Notifier,
	fileStorage storage.FileStorage,
	metricsManager *metrics.Manager,
	exportExpiry time.Duration,
) WorkoutService {
	if exportExpiry <= 0 {
		exportExpiry = storage.DefaultPresignedURLExpiry
	}
	return &workoutService{
		workoutRepo:  workoutRepo,
		userRepo:     userRepo,
		notifier:     notifier,
		fileStorage:  fileStorage,
		aggregator:   analytics.NewAggregator(analytics.DefaultMergeTable),
		metrics:      metricsManager,
		exportExpiry: exportExpiry,
	}
}

func invalidf(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrInvalidWorkout, fmt.Sprintf(format, args...))
}

// normalize validates the input and returns the record fields to store.
func normalize(input WorkoutInput) (string, []domain.ExerciseEntry, error) {
	if input.Date.IsZero() {
		return "", nil, invalidf("workoutDate is required")
	}

	name := strings.TrimSpace(input.Name)
	if name == "" {
		name = domain.DefaultWorkoutName
	}

	exercises := make([]domain.ExerciseEntry, 0, len(input.Exercises))
	for i, e := range input.Exercises {
		e.Exercise = strings.TrimSpace(e.Exercise)
		switch {
		case !domain.IsMuscleGroup(e.MuscleGroup):
			return "", nil, invalidf("exercises[%d].muscleGroup %q is not a known muscle group", i, e.MuscleGroup)
		case e.Exercise == "":
			return "", nil, invalidf("exercises[%d].exercise is required", i)
		case e.Sets < 1:
			return "", nil, invalidf("exercises[%d].sets must be at least 1", i)
		case e.Reps < 1:
			return "", nil, invalidf("exercises[%d].reps must be at least 1", i)
		case e.WeightType != "" && !domain.IsWeightType(e.WeightType):
			return "", nil, invalidf("exercises[%d].weightType %q is not supported", i, e.WeightType)
		}
		e.NormalizeWeight()
		exercises = append(exercises, e)
	}

	return name, exercises, nil
}

// CreateWorkout stores a new workout for the owner and announces it.
func (s *workoutService) CreateWorkout(ctx context.Context, ownerID string, input WorkoutInput) (*domain.WorkoutRecord, error) {
	name, exercises, err := normalize(input)
	if err != nil {
		return nil, err
	}

	workout := &domain.WorkoutRecord{
		OwnerID:   ownerID,
		WorkoutID: uuid.NewString(),
		Name:      name,
		Date:      input.Date,
		Exercises: exercises,
	}
	if err := s.workoutRepo.Create(ctx, workout); err != nil {
		return nil, fmt.Errorf("save workout: %w", err)
	}
	s.metrics.CounterWorkoutsCreated.Inc()

	s.notifyLogged(ctx, workout)
	return workout, nil
}

// notifyLogged publishes the workout; failures never fail the request.
func (s *workoutService) notifyLogged(ctx context.Context, workout *domain.WorkoutRecord) {
	var user *domain.User
	if id, err := primitive.ObjectIDFromHex(workout.OwnerID); err == nil {
		if u, err := s.userRepo.GetByID(ctx, id); err == nil {
			user = u
		} else {
			log.Debugf("notification user lookup for %s: %s", workout.OwnerID, err)
		}
	}

	if err := s.notifier.WorkoutLogged(ctx, user, workout); err != nil {
		s.metrics.CounterNotificationFailures.Inc()
		log.Warnf("workout %s saved but notification failed: %s", workout.WorkoutID, err)
	}
}

// ListWorkouts returns the owner's workouts, newest first.
func (s *workoutService) ListWorkouts(ctx context.Context, ownerID string) ([]domain.WorkoutRecord, error) {
	workouts, err := s.workoutRepo.ListByOwner(ctx, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list workouts: %w", err)
	}
	return workouts, nil
}

// UpdateWorkout replaces an existing workout of the owner.
func (s *workoutService) UpdateWorkout(ctx context.Context, ownerID, workoutID string, input WorkoutInput) (*domain.WorkoutRecord, error) {
	if workoutID == "" {
		return nil, ErrWorkoutNotFound
	}
	name, exercises, err := normalize(input)
	if err != nil {
		return nil, err
	}

	workout := &domain.WorkoutRecord{
		OwnerID:   ownerID,
		WorkoutID: workoutID,
		Name:      name,
		Date:      input.Date,
		Exercises: exercises,
	}
	if err := s.workoutRepo.Update(ctx, workout); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrWorkoutNotFound
		}
		return nil, fmt.Errorf("update workout: %w", err)
	}
	return workout, nil
}

// DeleteWorkout removes a workout of the owner.
func (s *workoutService) DeleteWorkout(ctx context.Context, ownerID, workoutID string) error {
	if workoutID == "" {
		return ErrWorkoutNotFound
	}
	if err := s.workoutRepo.Delete(ctx, ownerID, workoutID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrWorkoutNotFound
		}
		return fmt.Errorf("delete workout: %w", err)
	}
	return nil
}

// Analyze runs the aggregator over all of the owner's workouts.
func (s *workoutService) Analyze(ctx context.Context, ownerID string) (*analytics.Report, error) {
	workouts, err := s.ListWorkouts(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	report := s.aggregator.Aggregate(workouts)
	if err := report.SkipErr(); err != nil {
		log.Warnf("analytics for %s skipped %d entries: %s", ownerID, len(report.Skipped), err)
	}
	return report, nil
}

// RenameExercise renames an exercise across all of the owner's workouts.
func (s *workoutService) RenameExercise(ctx context.Context, ownerID, oldName, newName string) (int64, error) {
	oldName = strings.TrimSpace(oldName)
	newName = strings.TrimSpace(newName)
	if oldName == "" || newName == "" {
		return 0, fmt.Errorf("%w: oldExerciseName and newExerciseName are required", ErrInvalidRename)
	}
	if oldName == newName {
		return 0, fmt.Errorf("%w: names are identical", ErrInvalidRename)
	}

	modified, err := s.workoutRepo.RenameExercise(ctx, ownerID, oldName, newName)
	if err != nil {
		return 0, fmt.Errorf("rename exercise: %w", err)
	}
	log.Infof("renamed %q to %q in %d workouts of %s", oldName, newName, modified, ownerID)
	return modified, nil
}

type exportDocument struct {
	OwnerID    string                 `json:"ownerId"`
	ExportedAt time.Time              `json:"exportedAt"`
	Workouts   []domain.WorkoutRecord `json:"workouts"`
}

// ExportWorkouts uploads the owner's workouts as JSON and returns a download link.
func (s *workoutService) ExportWorkouts(ctx context.Context, ownerID string) (*ExportResult, error) {
	workouts, err := s.ListWorkouts(ctx, ownerID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	body, err := json.Marshal(exportDocument{OwnerID: ownerID, ExportedAt: now, Workouts: workouts})
	if err != nil {
		return nil, fmt.Errorf("marshal export: %w", err)
	}

	key := fmt.Sprintf("exports/%s/%s.json", ownerID, uuid.NewString())
	if err := s.fileStorage.PutObject(ctx, key, "application/json", body); err != nil {
		return nil, fmt.Errorf("upload export: %w", err)
	}

	url, err := s.fileStorage.GeneratePresignedDownloadURL(ctx, key, s.exportExpiry)
	if err != nil {
		if delErr := s.fileStorage.DeleteObject(ctx, key); delErr != nil {
			log.Errorf("cleanup of export %s failed: %s", key, delErr)
		}
		return nil, fmt.Errorf("presign export: %w", err)
	}

	return &ExportResult{
		ObjectKey:    key,
		URL:          url,
		ExpiresAt:    now.Add(s.exportExpiry),
		WorkoutCount: len(workouts),
	}, nil
}
