package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"ironlog/fitness-tracker/internal/domain"
	"ironlog/fitness-tracker/internal/repository"

	log "github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const workoutCollectionName = "workouts"

// mongoWorkoutRepository implements repository.WorkoutRepository
type mongoWorkoutRepository struct {
	collection *mongo.Collection
}

// NewMongoWorkoutRepository creates a new Workout repository.
func NewMongoWorkoutRepository(db *mongo.Database) repository.WorkoutRepository {
	return &mongoWorkoutRepository{
		collection: db.Collection(workoutCollectionName),
	}
}

func ownerFilter(ownerID, workoutID string) bson.M {
	return bson.M{"ownerId": ownerID, "workoutId": workoutID}
}

// Create inserts a new workout record.
func (r *mongoWorkoutRepository) Create(ctx context.Context, workout *domain.WorkoutRecord) error {
	if workout.OwnerID == "" || workout.WorkoutID == "" {
		return errors.New("workout requires ownerId and workoutId")
	}
	now := time.Now().UTC()
	workout.CreatedAt = now
	workout.UpdatedAt = now

	if _, err := r.collection.InsertOne(ctx, workout); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return repository.ErrDuplicate
		}
		return fmt.Errorf("insert workout: %w", err)
	}
	return nil
}

// ListByOwner returns every workout of the owner, newest first.
func (r *mongoWorkoutRepository) ListByOwner(ctx context.Context, ownerID string) ([]domain.WorkoutRecord, error) {
	findOptions := options.Find().SetSort(bson.D{
		{Key: "workoutDate", Value: -1},
		{Key: "createdAt", Value: -1},
	})

	cursor, err := r.collection.Find(ctx, bson.M{"ownerId": ownerID}, findOptions)
	if err != nil {
		return nil, fmt.Errorf("find workouts: %w", err)
	}
	defer cursor.Close(ctx)

	return decodeWorkouts(ctx, cursor)
}

// decodeWorkouts drains the cursor, skipping documents that do not decode into a
// WorkoutRecord so one corrupt document cannot hide the rest of the history.
func decodeWorkouts(ctx context.Context, cursor *mongo.Cursor) ([]domain.WorkoutRecord, error) {
	workouts := []domain.WorkoutRecord{}
	for cursor.Next(ctx) {
		var workout domain.WorkoutRecord
		if err := cursor.Decode(&workout); err != nil {
			workoutID, _ := cursor.Current.Lookup("workoutId").StringValueOK()
			log.Warnf("skipping undecodable workout %q: %s", workoutID, err)
			continue
		}
		workouts = append(workouts, workout)
	}
	if err := cursor.Err(); err != nil {
		return nil, fmt.Errorf("iterate workouts: %w", err)
	}
	return workouts, nil
}

// Update replaces the mutable fields of an existing workout and refreshes
// workout with the stored document.
func (r *mongoWorkoutRepository) Update(ctx context.Context, workout *domain.WorkoutRecord) error {
	if workout.OwnerID == "" || workout.WorkoutID == "" {
		return errors.New("workout ownerId and workoutId are required for update")
	}

	workout.UpdatedAt = time.Now().UTC()
	update := bson.M{
		"$set": bson.M{
			"workoutName": workout.Name,
			"workoutDate": workout.Date,
			"exercises":   workout.Exercises,
			"updatedAt":   workout.UpdatedAt,
		},
	}

	opts := options.FindOneAndUpdate().SetReturnDocument(options.After)
	err := r.collection.FindOneAndUpdate(ctx, ownerFilter(workout.OwnerID, workout.WorkoutID), update, opts).Decode(workout)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return repository.ErrNotFound
		}
		return fmt.Errorf("update workout: %w", err)
	}
	return nil
}

// Delete removes one workout of the owner.
func (r *mongoWorkoutRepository) Delete(ctx context.Context, ownerID, workoutID string) error {
	result, err := r.collection.DeleteOne(ctx, ownerFilter(ownerID, workoutID))
	if err != nil {
		return fmt.Errorf("delete workout: %w", err)
	}
	if result.DeletedCount == 0 {
		return repository.ErrNotFound
	}
	return nil
}

// RenameExercise renames every matching exercise entry across the owner's workouts.
func (r *mongoWorkoutRepository) RenameExercise(ctx context.Context, ownerID, oldName, newName string) (int64, error) {
	filter := bson.M{"ownerId": ownerID, "exercises.exercise": oldName}
	update := bson.M{
		"$set": bson.M{
			"exercises.$[e].exercise": newName,
			"updatedAt":               time.Now().UTC(),
		},
	}
	updateOptions := options.Update().SetArrayFilters(options.ArrayFilters{
		Filters: []interface{}{bson.M{"e.exercise": oldName}},
	})

	result, err := r.collection.UpdateMany(ctx, filter, update, updateOptions)
	if err != nil {
		return 0, fmt.Errorf("rename exercise: %w", err)
	}
	return result.ModifiedCount, nil
}

// EnsureWorkoutIndexes creates necessary indexes. Call during startup.
func EnsureWorkoutIndexes(ctx context.Context, collection *mongo.Collection) error {
	indexes := []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "workoutId", Value: 1}},
			Options: options.Index().SetUnique(true),
		},
		{
			Keys:    bson.D{{Key: "ownerId", Value: 1}, {Key: "workoutDate", Value: -1}},
			Options: options.Index(),
		},
	}
	if _, err := collection.Indexes().CreateMany(ctx, indexes); err != nil {
		return fmt.Errorf("create indexes for %s: %w", collection.Name(), err)
	}
	return nil
}
