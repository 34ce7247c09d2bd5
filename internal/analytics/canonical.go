package analytics

// PullUpChinUp is the bucket every vertical pulling variant on the back is
// aggregated under.
const PullUpChinUp = "Pull Up/Chin-Up"

// MergeTable maps a muscle group to raw exercise names and the canonical name
// each one is aggregated under. Names absent from the table are their own
// canonical name.
type MergeTable map[string]map[string]string

// DefaultMergeTable collapses the pull-up and chin-up variants, including the
// "<movement> - <variant>" names used after the catalog rename.
var DefaultMergeTable = MergeTable{
	"Back": {
		"Pull Ups":              PullUpChinUp,
		"Assisted Pull Ups":     PullUpChinUp,
		"Chin Ups":              PullUpChinUp,
		"Assisted Chin-Ups":     PullUpChinUp,
		"Pull Ups - Bodyweight": PullUpChinUp,
		"Pull Ups - Assisted":   PullUpChinUp,
		"Chin Ups - Bodyweight": PullUpChinUp,
		"Chin Ups - Assisted":   PullUpChinUp,
	},
}

// Canonical returns the name the exercise is aggregated under.
func (m MergeTable) Canonical(muscleGroup, exercise string) string {
	if names, ok := m[muscleGroup]; ok {
		if canonical, ok := names[exercise]; ok {
			return canonical
		}
	}
	return exercise
}
