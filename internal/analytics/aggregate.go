package analytics

import (
	"fmt"
	"sort"
	"strconv"

	"ironlog/fitness-tracker/internal/domain"

	"go.uber.org/multierr"
)

// Report is the analytics view over a list of workouts.
type Report struct {
	FrequencySummary string `json:"frequencySummary"`
	Workouts         int    `json:"workouts"`
	UniqueDays       int    `json:"uniqueDays"`
	// Groups maps muscle group -> canonical exercise name -> stats.
	Groups  map[string]map[string]*ExerciseStats `json:"groups"`
	Skipped []SkippedEntry                       `json:"skipped,omitempty"`
}

// ExerciseStats accumulates one exercise across all workouts.
type ExerciseStats struct {
	MuscleGroup         string             `json:"muscleGroup"`
	Exercise            string             `json:"exercise"`
	TotalVolume         float64            `json:"totalVolume"`
	TotalSets           int                `json:"totalSets"`
	SessionCount        int                `json:"sessionCount"`
	MaxWeight           float64            `json:"maxWeight"`
	MaxWeightAssisted   bool               `json:"maxWeightAssisted"`
	AvgVolumePerSession float64            `json:"avgVolumePerSession"`
	AvgVolumePerSet     float64            `json:"avgVolumePerSet"`
	Progression         []ProgressionPoint `json:"progression"`
	VolumeChange        *Change            `json:"volumeChange,omitempty"`
	AvgChange           *AverageChange     `json:"avgChange,omitempty"`
	Metrics             []string           `json:"metrics"`
}

// ProgressionPoint is one workout's contribution to an exercise.
type ProgressionPoint struct {
	Date             domain.Date `json:"date"`
	SessionVolume    float64     `json:"sessionVolume"`
	AvgVolumePerSet  float64     `json:"avgVolumePerSet"`
	SessionMaxWeight float64     `json:"sessionMaxWeight"`
}

// SkippedEntry describes input that was left out of the report.
// Index is the exercise position inside the workout, or -1 when the whole
// workout was skipped.
type SkippedEntry struct {
	WorkoutID string `json:"workoutId"`
	Index     int    `json:"index"`
	Reason    string `json:"reason"`
}

func (s SkippedEntry) Error() string {
	if s.Index < 0 {
		return fmt.Sprintf("workout %s skipped: %s", s.WorkoutID, s.Reason)
	}
	return fmt.Sprintf("workout %s exercise #%d skipped: %s", s.WorkoutID, s.Index, s.Reason)
}

// SkipErr combines the skipped entries into one error, nil if nothing was skipped.
func (r *Report) SkipErr() error {
	var err error
	for _, s := range r.Skipped {
		err = multierr.Append(err, s)
	}
	return err
}

// Aggregator reduces workout lists into reports.
type Aggregator struct {
	merge MergeTable
}

// NewAggregator creates an Aggregator that merges exercise names with the given table.
func NewAggregator(merge MergeTable) *Aggregator {
	if merge == nil {
		merge = MergeTable{}
	}
	return &Aggregator{merge: merge}
}

// Aggregate runs the default aggregator.
func Aggregate(records []domain.WorkoutRecord) *Report {
	return NewAggregator(DefaultMergeTable).Aggregate(records)
}

type exerciseKey struct {
	muscleGroup string
	exercise    string
}

// session holds one exercise's totals within a single workout.
type session struct {
	key         exerciseKey
	volume      float64
	sets        int
	maxWeight   float64
	maxAssisted bool
}

// Aggregate builds the report. The input is not modified; malformed entries are
// skipped and listed in Report.Skipped.
func (a *Aggregator) Aggregate(records []domain.WorkoutRecord) *Report {
	report := &Report{
		Workouts: len(records),
		Groups:   make(map[string]map[string]*ExerciseStats),
	}

	days := make(map[string]struct{}, len(records))
	for _, r := range records {
		days[r.Date.String()] = struct{}{}
	}
	report.UniqueDays = len(days)
	report.FrequencySummary = fmt.Sprintf(
		"You completed %d workout(s) on %d unique day(s).", report.Workouts, report.UniqueDays,
	)

	sorted := make([]domain.WorkoutRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date.Time)
	})

	for _, record := range sorted {
		if record.Date.IsZero() {
			report.Skipped = append(report.Skipped, SkippedEntry{
				WorkoutID: record.WorkoutID,
				Index:     -1,
				Reason:    "missing workout date",
			})
			continue
		}

		for _, s := range a.sessions(record, report) {
			stats := report.stats(s.key)
			stats.TotalVolume += s.volume
			stats.TotalSets += s.sets
			stats.SessionCount++
			if s.maxWeight > stats.MaxWeight {
				stats.MaxWeight = s.maxWeight
				stats.MaxWeightAssisted = s.maxAssisted
			}
			stats.Progression = append(stats.Progression, ProgressionPoint{
				Date:             record.Date,
				SessionVolume:    s.volume,
				AvgVolumePerSet:  safeDiv(s.volume, float64(s.sets)),
				SessionMaxWeight: s.maxWeight,
			})
		}
	}

	for _, exercises := range report.Groups {
		for _, stats := range exercises {
			stats.summarize()
		}
	}

	return report
}

// sessions folds a workout's entries per canonical exercise, in first-seen order.
func (a *Aggregator) sessions(record domain.WorkoutRecord, report *Report) []*session {
	var out []*session
	index := make(map[exerciseKey]*session)

	for i, e := range record.Exercises {
		if reason := invalidEntry(e); reason != "" {
			report.Skipped = append(report.Skipped, SkippedEntry{
				WorkoutID: record.WorkoutID,
				Index:     i,
				Reason:    reason,
			})
			continue
		}

		key := exerciseKey{
			muscleGroup: e.MuscleGroup,
			exercise:    a.merge.Canonical(e.MuscleGroup, e.Exercise),
		}
		s, ok := index[key]
		if !ok {
			s = &session{key: key}
			index[key] = s
			out = append(out, s)
		}

		s.volume += e.Volume()
		s.sets += e.Sets
		if load := e.Load(); load > s.maxWeight {
			s.maxWeight = load
			s.maxAssisted = e.Assisted()
		}
	}

	return out
}

func invalidEntry(e domain.ExerciseEntry) string {
	switch {
	case e.MuscleGroup == "":
		return "missing muscle group"
	case e.Exercise == "":
		return "missing exercise name"
	case e.Sets <= 0:
		return "sets must be positive"
	case e.Reps <= 0:
		return "reps must be positive"
	}
	return ""
}

func (r *Report) stats(key exerciseKey) *ExerciseStats {
	exercises, ok := r.Groups[key.muscleGroup]
	if !ok {
		exercises = make(map[string]*ExerciseStats)
		r.Groups[key.muscleGroup] = exercises
	}
	stats, ok := exercises[key.exercise]
	if !ok {
		stats = &ExerciseStats{
			MuscleGroup: key.muscleGroup,
			Exercise:    key.exercise,
		}
		exercises[key.exercise] = stats
	}
	return stats
}

func (s *ExerciseStats) summarize() {
	s.AvgVolumePerSession = safeDiv(s.TotalVolume, float64(s.SessionCount))
	s.AvgVolumePerSet = safeDiv(s.TotalVolume, float64(s.TotalSets))

	s.Metrics = []string{
		fmt.Sprintf("Total Volume: %.2f kg", s.TotalVolume),
		fmt.Sprintf("Average Volume/Workout: %.2f kg", s.AvgVolumePerSession),
		fmt.Sprintf("Average Volume/Set: %.2f kg", s.AvgVolumePerSet),
		fmt.Sprintf("Workout Count: %d", s.SessionCount),
		"Max Weight: " + weightLabel(s.MaxWeight, s.MaxWeightAssisted),
	}

	if len(s.Progression) < 2 {
		s.Metrics = append(s.Metrics, "Not enough data for progression analysis.")
		return
	}

	first := s.Progression[0]
	last := s.Progression[len(s.Progression)-1]
	change := newChange(first.SessionVolume, last.SessionVolume)
	avg := newAverageChange(s.Progression)
	s.VolumeChange = &change
	s.AvgChange = &avg

	s.Metrics = append(s.Metrics,
		fmt.Sprintf("Total volume: %.2f kg → %.2f kg (%s)", change.From, change.To, change.describe()),
		"Average change between workouts: "+avg.describe(),
	)
}

func weightLabel(weight float64, assisted bool) string {
	label := strconv.FormatFloat(weight, 'f', -1, 64) + " kg"
	if assisted {
		label += " (assisted)"
	}
	return label
}

func safeDiv(a, b float64) float64 {
	if b == 0 {
		return 0
	}
	return a / b
}
