package analytics_test

import (
	"testing"
	"time"

	"ironlog/fitness-tracker/internal/analytics"
	"ironlog/fitness-tracker/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func workout(id string, date domain.Date, exercises ...domain.ExerciseEntry) domain.WorkoutRecord {
	return domain.WorkoutRecord{
		OwnerID:   "owner-1",
		WorkoutID: id,
		Date:      date,
		Exercises: exercises,
	}
}

func entry(group, name string, sets, reps int, weight float64) domain.ExerciseEntry {
	return domain.ExerciseEntry{
		MuscleGroup: group,
		Exercise:    name,
		Sets:        sets,
		Reps:        reps,
		Weight:      weight,
		WeightType:  domain.WeightKg,
	}
}

func TestAggregate_PullUpChinUpMerge(t *testing.T) {
	pullUps := entry("Back", "Pull Ups", 3, 8, 0)
	pullUps.WeightType = domain.WeightBodyweight

	report := analytics.Aggregate([]domain.WorkoutRecord{
		workout("w1", domain.NewDate(2024, time.January, 1), pullUps),
		workout("w2", domain.NewDate(2024, time.January, 8), entry("Back", "Chin Ups", 3, 8, 10)),
	})

	require.Contains(t, report.Groups, "Back")
	require.Len(t, report.Groups["Back"], 1)
	stats := report.Groups["Back"][analytics.PullUpChinUp]
	require.NotNil(t, stats)

	assert.Equal(t, 2, stats.SessionCount)
	require.Len(t, stats.Progression, 2)
	assert.Equal(t, 0.0, stats.Progression[0].SessionVolume)
	assert.Equal(t, 240.0, stats.Progression[1].SessionVolume)
	assert.Equal(t, 240.0, stats.TotalVolume)
	assert.Equal(t, 6, stats.TotalSets)
	assert.Equal(t, 10.0, stats.MaxWeight)

	require.NotNil(t, stats.VolumeChange)
	assert.True(t, stats.VolumeChange.Unbounded)
	assert.Contains(t, stats.Metrics, "Total volume: 0.00 kg → 240.00 kg (increased from zero)")
	assert.Contains(t, stats.Metrics, "Average change between workouts: increased from zero")
	assert.Empty(t, report.Skipped)
}

func TestAggregate_EmptyInput(t *testing.T) {
	report := analytics.Aggregate(nil)

	require.NotNil(t, report)
	assert.Equal(t, "You completed 0 workout(s) on 0 unique day(s).", report.FrequencySummary)
	assert.Equal(t, 0, report.Workouts)
	assert.Equal(t, 0, report.UniqueDays)
	assert.Empty(t, report.Groups)
	assert.Empty(t, report.Skipped)
	assert.NoError(t, report.SkipErr())
}

func TestAggregate_MalformedEntrySkipped(t *testing.T) {
	report := analytics.Aggregate([]domain.WorkoutRecord{
		workout("w1", domain.NewDate(2024, time.March, 3),
			entry("Back", "", 3, 8, 40),
			entry("Chest", "Dips", 3, 10, 20),
		),
	})

	require.Len(t, report.Groups, 1)
	require.Contains(t, report.Groups, "Chest")
	assert.Equal(t, 600.0, report.Groups["Chest"]["Dips"].TotalVolume)

	require.Len(t, report.Skipped, 1)
	assert.Equal(t, analytics.SkippedEntry{WorkoutID: "w1", Index: 0, Reason: "missing exercise name"}, report.Skipped[0])
	assert.EqualError(t, report.SkipErr(), "workout w1 exercise #0 skipped: missing exercise name")
}

func TestAggregate_InvalidEntries(t *testing.T) {
	report := analytics.Aggregate([]domain.WorkoutRecord{
		workout("w1", domain.NewDate(2024, time.March, 3),
			entry("", "Dips", 3, 10, 20),
			entry("Chest", "Dips", 0, 10, 20),
			entry("Chest", "Dips", 3, -1, 20),
		),
		workout("w2", domain.Date{}, entry("Chest", "Dips", 3, 10, 20)),
	})

	assert.Empty(t, report.Groups)
	require.Len(t, report.Skipped, 4)
	// the undated workout sorts first
	assert.Equal(t, -1, report.Skipped[0].Index)
	assert.Equal(t, "missing workout date", report.Skipped[0].Reason)
	assert.Equal(t, "missing muscle group", report.Skipped[1].Reason)
	assert.Equal(t, "sets must be positive", report.Skipped[2].Reason)
	assert.Equal(t, "reps must be positive", report.Skipped[3].Reason)
	assert.Equal(t, 2, report.Workouts)
}

func TestAggregate_FrequencySummary(t *testing.T) {
	monday := domain.NewDate(2024, time.May, 6)
	report := analytics.Aggregate([]domain.WorkoutRecord{
		workout("w1", monday, entry("Legs", "Leg Press", 3, 10, 100)),
		workout("w2", monday, entry("Arms", "Skullcrushers", 3, 10, 20)),
		workout("w3", domain.NewDate(2024, time.May, 8)),
	})

	assert.Equal(t, 3, report.Workouts)
	assert.Equal(t, 2, report.UniqueDays)
	assert.Equal(t, "You completed 3 workout(s) on 2 unique day(s).", report.FrequencySummary)
}

func TestAggregate_SessionFoldsEntriesOfOneWorkout(t *testing.T) {
	report := analytics.Aggregate([]domain.WorkoutRecord{
		workout("w1", domain.NewDate(2024, time.June, 1),
			entry("Legs", "Barbell Squats", 2, 5, 100),
			entry("Legs", "Barbell Squats", 3, 5, 120),
			entry("Legs", "Leg Press", 3, 10, 150),
		),
	})

	squats := report.Groups["Legs"]["Barbell Squats"]
	require.NotNil(t, squats)
	assert.Equal(t, 1, squats.SessionCount)
	require.Len(t, squats.Progression, 1)
	assert.Equal(t, 2800.0, squats.Progression[0].SessionVolume)
	assert.Equal(t, 560.0, squats.Progression[0].AvgVolumePerSet)
	assert.Equal(t, 120.0, squats.Progression[0].SessionMaxWeight)
	assert.Equal(t, 2800.0, squats.AvgVolumePerSession)
	assert.Nil(t, squats.VolumeChange)
	assert.Contains(t, squats.Metrics, "Not enough data for progression analysis.")

	assert.Len(t, report.Groups["Legs"], 2)
}

func TestAggregate_ProgressionChange(t *testing.T) {
	report := analytics.Aggregate([]domain.WorkoutRecord{
		workout("w1", domain.NewDate(2024, time.July, 1), entry("Chest", "Pec Deck", 2, 10, 50)),
		workout("w2", domain.NewDate(2024, time.July, 3), entry("Chest", "Pec Deck", 3, 10, 50)),
		workout("w3", domain.NewDate(2024, time.July, 5), entry("Chest", "Pec Deck", 3, 8, 50)),
	})

	stats := report.Groups["Chest"]["Pec Deck"]
	require.NotNil(t, stats)
	require.NotNil(t, stats.VolumeChange)
	assert.InDelta(t, 20.0, stats.VolumeChange.Percent, 1e-9)
	assert.False(t, stats.VolumeChange.Unbounded)

	require.NotNil(t, stats.AvgChange)
	assert.Equal(t, 2, stats.AvgChange.Steps)
	assert.InDelta(t, 15.0, stats.AvgChange.Percent, 1e-9)

	assert.Equal(t, []string{
		"Total Volume: 3700.00 kg",
		"Average Volume/Workout: 1233.33 kg",
		"Average Volume/Set: 462.50 kg",
		"Workout Count: 3",
		"Max Weight: 50 kg",
		"Total volume: 1000.00 kg → 1200.00 kg (20.00% change)",
		"Average change between workouts: 15.00%",
	}, stats.Metrics)
}

func TestAggregate_ZeroBaselineBothZero(t *testing.T) {
	first := entry("Abs", "Hanging Leg Raises", 3, 12, 0)
	first.WeightType = domain.WeightBodyweight
	second := first

	report := analytics.Aggregate([]domain.WorkoutRecord{
		workout("w1", domain.NewDate(2024, time.August, 1), first),
		workout("w2", domain.NewDate(2024, time.August, 2), second),
	})

	stats := report.Groups["Abs"]["Hanging Leg Raises"]
	require.NotNil(t, stats.VolumeChange)
	assert.False(t, stats.VolumeChange.Unbounded)
	assert.Equal(t, 0.0, stats.VolumeChange.Percent)
	assert.Equal(t, 0.0, stats.AvgVolumePerSet)
	assert.Contains(t, stats.Metrics, "Total volume: 0.00 kg → 0.00 kg (0.00% change)")
}

func TestAggregate_AssistedMaxWeight(t *testing.T) {
	assisted := entry("Chest", "Dips", 3, 8, -20)
	assisted.IsAssistance = true

	report := analytics.Aggregate([]domain.WorkoutRecord{
		workout("w1", domain.NewDate(2024, time.September, 1), assisted, entry("Chest", "Dips", 1, 5, 10)),
	})

	stats := report.Groups["Chest"]["Dips"]
	assert.Equal(t, 20.0, stats.MaxWeight)
	assert.True(t, stats.MaxWeightAssisted)
	assert.Equal(t, 530.0, stats.TotalVolume)
	assert.Contains(t, stats.Metrics, "Max Weight: 20 kg (assisted)")
}

func TestAggregate_OrderIndependentTotals(t *testing.T) {
	w1 := workout("w1", domain.NewDate(2024, time.January, 10), entry("Back", "Lat Pulldown", 3, 10, 50))
	w2 := workout("w2", domain.NewDate(2024, time.January, 3), entry("Back", "Lat Pulldown", 3, 10, 45))
	w3 := workout("w3", domain.NewDate(2024, time.January, 17),
		entry("Back", "Lat Pulldown", 3, 10, 55),
		entry("Back", "Assisted Pull Ups", 3, 6, -30),
	)

	inOrder := analytics.Aggregate([]domain.WorkoutRecord{w2, w1, w3})
	shuffled := analytics.Aggregate([]domain.WorkoutRecord{w3, w1, w2})

	assert.Equal(t, inOrder.Groups, shuffled.Groups)

	pulldown := shuffled.Groups["Back"]["Lat Pulldown"]
	require.Len(t, pulldown.Progression, 3)
	for i := 1; i < len(pulldown.Progression); i++ {
		assert.True(t, pulldown.Progression[i-1].Date.Before(pulldown.Progression[i].Date.Time))
	}
	assert.Equal(t, 4500.0, pulldown.TotalVolume)
	assert.Len(t, shuffled.Groups["Back"][analytics.PullUpChinUp].Progression, 1)
}

func TestAggregate_StableForSameDay(t *testing.T) {
	day := domain.NewDate(2024, time.October, 1)
	report := analytics.Aggregate([]domain.WorkoutRecord{
		workout("morning", day, entry("Arms", "Preacher Curls", 3, 10, 20)),
		workout("evening", day, entry("Arms", "Preacher Curls", 3, 10, 25)),
	})

	prog := report.Groups["Arms"]["Preacher Curls"].Progression
	require.Len(t, prog, 2)
	assert.Equal(t, 600.0, prog[0].SessionVolume)
	assert.Equal(t, 750.0, prog[1].SessionVolume)
}

func TestAggregate_DoesNotMutateInput(t *testing.T) {
	records := []domain.WorkoutRecord{
		workout("b", domain.NewDate(2024, time.February, 2), entry("Back", "Chin Ups", 3, 8, 5)),
		workout("a", domain.NewDate(2024, time.February, 1), entry("Back", "Pull Ups", 3, 8, 5)),
	}
	before := make([]domain.WorkoutRecord, len(records))
	copy(before, records)

	analytics.Aggregate(records)

	assert.Equal(t, before, records)
	assert.Equal(t, "Chin Ups", records[0].Exercises[0].Exercise)
}

func TestAggregate_VolumeMatchesEntries(t *testing.T) {
	records := []domain.WorkoutRecord{
		workout("w1", domain.NewDate(2024, time.April, 1),
			entry("Shoulders", "Face Pulls", 3, 15, 20),
			entry("Shoulders", "Lateral Raises", 4, 12, 8),
		),
		workout("w2", domain.NewDate(2024, time.April, 4),
			entry("Shoulders", "Face Pulls", 3, 12, 22.5),
		),
	}

	report := analytics.Aggregate(records)

	for group, exercises := range report.Groups {
		for name, stats := range exercises {
			var want float64
			var sessions int
			for _, r := range records {
				found := false
				for _, e := range r.Exercises {
					if e.MuscleGroup == group && analytics.DefaultMergeTable.Canonical(e.MuscleGroup, e.Exercise) == name {
						want += e.Volume()
						found = true
					}
				}
				if found {
					sessions++
				}
			}
			assert.InDelta(t, want, stats.TotalVolume, 1e-9, name)
			assert.Len(t, stats.Progression, sessions, name)
		}
	}
}
