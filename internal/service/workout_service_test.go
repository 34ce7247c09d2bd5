package service_test

import (
	"context"
	"encoding/json"
	"errors"
	"regexp"
	"testing"
	"time"

	"ironlog/fitness-tracker/internal/analytics"
	"ironlog/fitness-tracker/internal/domain"
	"ironlog/fitness-tracker/internal/metrics"
	"ironlog/fitness-tracker/internal/mocks"
	"ironlog/fitness-tracker/internal/repository"
	"ironlog/fitness-tracker/internal/service"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.uber.org/goleak"
	"go.uber.org/mock/gomock"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

type workoutDeps struct {
	workouts *mocks.MockWorkoutRepository
	users    *mocks.MockUserRepository
	notifier *mocks.MockNotifier
	storage  *mocks.MockFileStorage
	metrics  *metrics.Manager
	svc      service.WorkoutService
}

func newWorkoutDeps(t *testing.T) *workoutDeps {
	ctrl := gomock.NewController(t)
	d := &workoutDeps{
		workouts: mocks.NewMockWorkoutRepository(ctrl),
		users:    mocks.NewMockUserRepository(ctrl),
		notifier: mocks.NewMockNotifier(ctrl),
		storage:  mocks.NewMockFileStorage(ctrl),
		metrics:  metrics.NewTestManager(),
	}
	d.svc = service.NewWorkoutService(d.workouts, d.users, d.notifier, d.storage, d.metrics, 10*time.Minute)
	return d
}

func validInput() service.WorkoutInput {
	return service.WorkoutInput{
		Name: "Back day",
		Date: domain.NewDate(2024, time.October, 1),
		Exercises: []domain.ExerciseEntry{
			{MuscleGroup: "Back", Exercise: "Assisted Pull Ups", Sets: 3, Reps: 8, Weight: 20, IsAssistance: true},
			{MuscleGroup: "Back", Exercise: "Seated Cable Row", Sets: 3, Reps: 10, Weight: -40, WeightType: domain.WeightMachine},
		},
	}
}

func TestWorkoutService_CreateWorkout(t *testing.T) {
	d := newWorkoutDeps(t)
	ownerID := primitive.NewObjectID()
	owner := &domain.User{ID: ownerID, Name: "Ana"}

	var saved *domain.WorkoutRecord
	d.workouts.EXPECT().
		Create(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, w *domain.WorkoutRecord) error {
			saved = w
			return nil
		})
	d.users.EXPECT().GetByID(gomock.Any(), ownerID).Return(owner, nil)
	d.notifier.EXPECT().WorkoutLogged(gomock.Any(), owner, gomock.Any()).Return(nil)

	workout, err := d.svc.CreateWorkout(context.Background(), ownerID.Hex(), validInput())
	require.NoError(t, err)
	require.Same(t, saved, workout)

	assert.Equal(t, ownerID.Hex(), workout.OwnerID)
	_, err = uuid.Parse(workout.WorkoutID)
	assert.NoError(t, err)
	assert.Equal(t, "Back day", workout.Name)

	require.Len(t, workout.Exercises, 2)
	assert.Equal(t, -20.0, workout.Exercises[0].Weight)
	assert.Equal(t, domain.WeightKg, workout.Exercises[0].WeightType)
	assert.Equal(t, 40.0, workout.Exercises[1].Weight)
	assert.Equal(t, domain.WeightMachine, workout.Exercises[1].WeightType)

	assert.Equal(t, 1.0, testutil.ToFloat64(d.metrics.CounterWorkoutsCreated))
	assert.Equal(t, 0.0, testutil.ToFloat64(d.metrics.CounterNotificationFailures))
}

func TestWorkoutService_CreateWorkoutDefaultsName(t *testing.T) {
	d := newWorkoutDeps(t)

	input := validInput()
	input.Name = "   "

	d.workouts.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	d.notifier.EXPECT().WorkoutLogged(gomock.Any(), nil, gomock.Any()).Return(nil)

	// owner id that is not an ObjectID skips the profile lookup
	workout, err := d.svc.CreateWorkout(context.Background(), "external-owner", input)
	require.NoError(t, err)
	assert.Equal(t, domain.DefaultWorkoutName, workout.Name)
}

func TestWorkoutService_CreateWorkoutNotificationFailure(t *testing.T) {
	d := newWorkoutDeps(t)
	ownerID := primitive.NewObjectID()

	d.workouts.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil)
	d.users.EXPECT().GetByID(gomock.Any(), ownerID).Return(nil, repository.ErrNotFound)
	d.notifier.EXPECT().WorkoutLogged(gomock.Any(), nil, gomock.Any()).Return(errors.New("sns unavailable"))

	workout, err := d.svc.CreateWorkout(context.Background(), ownerID.Hex(), validInput())
	require.NoError(t, err)
	assert.NotEmpty(t, workout.WorkoutID)
	assert.Equal(t, 1.0, testutil.ToFloat64(d.metrics.CounterNotificationFailures))
}

func TestWorkoutService_CreateWorkoutValidation(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(in *service.WorkoutInput)
		wantMsg string
	}{
		{"missing date", func(in *service.WorkoutInput) { in.Date = domain.Date{} }, "workoutDate is required"},
		{"unknown muscle group", func(in *service.WorkoutInput) { in.Exercises[0].MuscleGroup = "Neck" }, `exercises[0].muscleGroup "Neck"`},
		{"missing exercise", func(in *service.WorkoutInput) { in.Exercises[1].Exercise = " " }, "exercises[1].exercise is required"},
		{"zero sets", func(in *service.WorkoutInput) { in.Exercises[0].Sets = 0 }, "exercises[0].sets must be at least 1"},
		{"zero reps", func(in *service.WorkoutInput) { in.Exercises[1].Reps = 0 }, "exercises[1].reps must be at least 1"},
		{"bad weight type", func(in *service.WorkoutInput) { in.Exercises[0].WeightType = "lbs" }, `exercises[0].weightType "lbs"`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := newWorkoutDeps(t)
			input := validInput()
			tt.mutate(&input)

			_, err := d.svc.CreateWorkout(context.Background(), "owner", input)
			require.ErrorIs(t, err, service.ErrInvalidWorkout)
			assert.Contains(t, err.Error(), tt.wantMsg)
		})
	}
}

func TestWorkoutService_UpdateWorkout(t *testing.T) {
	d := newWorkoutDeps(t)
	created := time.Date(2024, time.September, 30, 18, 0, 0, 0, time.UTC)

	d.workouts.EXPECT().
		Update(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, w *domain.WorkoutRecord) error {
			assert.Equal(t, "owner", w.OwnerID)
			assert.Equal(t, "w-1", w.WorkoutID)
			w.CreatedAt = created
			w.UpdatedAt = created.Add(time.Hour)
			return nil
		})

	workout, err := d.svc.UpdateWorkout(context.Background(), "owner", "w-1", validInput())
	require.NoError(t, err)
	assert.Equal(t, "w-1", workout.WorkoutID)
	assert.Equal(t, created, workout.CreatedAt)
	assert.Equal(t, created.Add(time.Hour), workout.UpdatedAt)

	d.workouts.EXPECT().Update(gomock.Any(), gomock.Any()).Return(repository.ErrNotFound)
	_, err = d.svc.UpdateWorkout(context.Background(), "owner", "missing", validInput())
	assert.ErrorIs(t, err, service.ErrWorkoutNotFound)
}

func TestWorkoutService_DeleteWorkout(t *testing.T) {
	d := newWorkoutDeps(t)

	d.workouts.EXPECT().Delete(gomock.Any(), "owner", "w-1").Return(nil)
	require.NoError(t, d.svc.DeleteWorkout(context.Background(), "owner", "w-1"))

	d.workouts.EXPECT().Delete(gomock.Any(), "owner", "w-2").Return(repository.ErrNotFound)
	assert.ErrorIs(t, d.svc.DeleteWorkout(context.Background(), "owner", "w-2"), service.ErrWorkoutNotFound)

	d.workouts.EXPECT().Delete(gomock.Any(), "owner", "w-3").Return(errors.New("timeout"))
	err := d.svc.DeleteWorkout(context.Background(), "owner", "w-3")
	require.Error(t, err)
	assert.NotErrorIs(t, err, service.ErrWorkoutNotFound)
}

func TestWorkoutService_Analyze(t *testing.T) {
	d := newWorkoutDeps(t)

	d.workouts.EXPECT().ListByOwner(gomock.Any(), "owner").Return([]domain.WorkoutRecord{
		{WorkoutID: "w2", Date: domain.NewDate(2024, time.January, 8), Exercises: []domain.ExerciseEntry{
			{MuscleGroup: "Back", Exercise: "Chin Ups", Sets: 3, Reps: 8, Weight: 10, WeightType: domain.WeightKg},
		}},
		{WorkoutID: "w1", Date: domain.NewDate(2024, time.January, 1), Exercises: []domain.ExerciseEntry{
			{MuscleGroup: "Back", Exercise: "Pull Ups", Sets: 3, Reps: 8, WeightType: domain.WeightBodyweight},
			{MuscleGroup: "Back", Exercise: "", Sets: 3, Reps: 8},
		}},
	}, nil)

	report, err := d.svc.Analyze(context.Background(), "owner")
	require.NoError(t, err)

	stats := report.Groups["Back"][analytics.PullUpChinUp]
	require.NotNil(t, stats)
	assert.Equal(t, 2, stats.SessionCount)
	assert.Equal(t, 240.0, stats.TotalVolume)
	assert.Len(t, report.Skipped, 1)
}

func TestWorkoutService_RenameExercise(t *testing.T) {
	d := newWorkoutDeps(t)

	d.workouts.EXPECT().RenameExercise(gomock.Any(), "owner", "Pullups", "Pull Ups").Return(int64(4), nil)
	n, err := d.svc.RenameExercise(context.Background(), "owner", " Pullups ", "Pull Ups")
	require.NoError(t, err)
	assert.Equal(t, int64(4), n)

	_, err = d.svc.RenameExercise(context.Background(), "owner", "", "Pull Ups")
	assert.ErrorIs(t, err, service.ErrInvalidRename)

	_, err = d.svc.RenameExercise(context.Background(), "owner", "Dips", "Dips")
	assert.ErrorIs(t, err, service.ErrInvalidRename)
}

func TestWorkoutService_ExportWorkouts(t *testing.T) {
	d := newWorkoutDeps(t)
	records := []domain.WorkoutRecord{{OwnerID: "owner", WorkoutID: "w1", Name: "A", Date: domain.NewDate(2024, time.May, 1)}}
	keyPattern := regexp.MustCompile(`^exports/owner/[0-9a-f-]{36}\.json$`)

	d.workouts.EXPECT().ListByOwner(gomock.Any(), "owner").Return(records, nil)

	var uploadedKey string
	d.storage.EXPECT().
		PutObject(gomock.Any(), gomock.Any(), "application/json", gomock.Any()).
		DoAndReturn(func(_ context.Context, key, _ string, body []byte) error {
			uploadedKey = key
			assert.Regexp(t, keyPattern, key)

			var doc struct {
				OwnerID  string                 `json:"ownerId"`
				Workouts []domain.WorkoutRecord `json:"workouts"`
			}
			require.NoError(t, json.Unmarshal(body, &doc))
			assert.Equal(t, "owner", doc.OwnerID)
			require.Len(t, doc.Workouts, 1)
			assert.Equal(t, "2024-05-01", doc.Workouts[0].Date.String())
			return nil
		})
	d.storage.EXPECT().
		GeneratePresignedDownloadURL(gomock.Any(), gomock.Any(), 10*time.Minute).
		DoAndReturn(func(_ context.Context, key string, _ time.Duration) (string, error) {
			assert.Equal(t, uploadedKey, key)
			return "https://s3.local/" + key, nil
		})

	result, err := d.svc.ExportWorkouts(context.Background(), "owner")
	require.NoError(t, err)
	assert.Equal(t, uploadedKey, result.ObjectKey)
	assert.Equal(t, "https://s3.local/"+uploadedKey, result.URL)
	assert.Equal(t, 1, result.WorkoutCount)
	assert.WithinDuration(t, time.Now().Add(10*time.Minute), result.ExpiresAt, time.Minute)
}

func TestWorkoutService_ExportWorkoutsPresignFailureCleansUp(t *testing.T) {
	d := newWorkoutDeps(t)

	d.workouts.EXPECT().ListByOwner(gomock.Any(), "owner").Return(nil, nil)
	d.storage.EXPECT().PutObject(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(nil)
	d.storage.EXPECT().GeneratePresignedDownloadURL(gomock.Any(), gomock.Any(), gomock.Any()).Return("", errors.New("no creds"))
	d.storage.EXPECT().DeleteObject(gomock.Any(), gomock.Any()).Return(nil)

	_, err := d.svc.ExportWorkouts(context.Background(), "owner")
	assert.ErrorContains(t, err, "presign export")
}
