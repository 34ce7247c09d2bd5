package analytics

import "fmt"

// Change compares two progression values.
// Unbounded is set when the baseline is zero and the new value is positive;
// Percent is 0 in that case.
type Change struct {
	From      float64 `json:"from"`
	To        float64 `json:"to"`
	Percent   float64 `json:"percent"`
	Unbounded bool    `json:"unbounded"`
}

func newChange(from, to float64) Change {
	c := Change{From: from, To: to}
	switch {
	case from == 0 && to > 0:
		c.Unbounded = true
	case from == 0:
		// both zero (volumes are never negative)
	default:
		c.Percent = (to - from) / from * 100
	}
	return c
}

func (c Change) describe() string {
	if c.Unbounded {
		return "increased from zero"
	}
	return fmt.Sprintf("%.2f%% change", c.Percent)
}

// AverageChange is the mean session-to-session percentage change.
// Steps that start from zero volume have no finite percentage; they are counted
// in UnboundedSteps and left out of Percent.
type AverageChange struct {
	Percent        float64 `json:"percent"`
	Steps          int     `json:"steps"`
	UnboundedSteps int     `json:"unboundedSteps"`
}

func newAverageChange(points []ProgressionPoint) AverageChange {
	var avg AverageChange
	var sum float64
	var finite int
	for i := 1; i < len(points); i++ {
		avg.Steps++
		c := newChange(points[i-1].SessionVolume, points[i].SessionVolume)
		if c.Unbounded {
			avg.UnboundedSteps++
			continue
		}
		sum += c.Percent
		finite++
	}
	if finite > 0 {
		avg.Percent = sum / float64(finite)
	}
	return avg
}

func (a AverageChange) describe() string {
	finite := a.Steps - a.UnboundedSteps
	switch {
	case finite == 0 && a.UnboundedSteps > 0:
		return "increased from zero"
	case a.UnboundedSteps > 0:
		return fmt.Sprintf("%.2f%% (excluding %d increase(s) from zero)", a.Percent, a.UnboundedSteps)
	default:
		return fmt.Sprintf("%.2f%%", a.Percent)
	}
}
