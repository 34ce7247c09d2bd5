package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"

	"ironlog/fitness-tracker/internal/analytics"
	"ironlog/fitness-tracker/internal/domain"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newAnalyzeCmd() *cobra.Command {
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "analyze <export.json>",
		Short: "Print analytics for an exported workout file",
		Long: `Read a workout export and print the per-exercise report.

The file is either the document produced by POST /workouts/export
({"workouts": [...]}) or a plain JSON array of workouts.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, skipped, err := loadWorkouts(args[0])
			if err != nil {
				return err
			}

			report := analytics.Aggregate(records)
			report.Skipped = append(skipped, report.Skipped...)
			if asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}

			printReport(cmd.OutOrStdout(), report)
			return nil
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print the raw report as JSON")
	return cmd
}

func loadWorkouts(path string) ([]domain.WorkoutRecord, []analytics.SkippedEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return parseWorkouts(data)
}

// parseWorkouts decodes each record on its own. Records that do not decode are
// returned as skipped entries instead of failing the whole file.
func parseWorkouts(data []byte) ([]domain.WorkoutRecord, []analytics.SkippedEntry, error) {
	var raw []json.RawMessage

	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '[' {
		if err := json.Unmarshal(trimmed, &raw); err != nil {
			return nil, nil, fmt.Errorf("failed to parse workouts: %w", err)
		}
	} else {
		var doc struct {
			Workouts []json.RawMessage `json:"workouts"`
		}
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, nil, fmt.Errorf("failed to parse export: %w", err)
		}
		raw = doc.Workouts
	}

	records := make([]domain.WorkoutRecord, 0, len(raw))
	var skipped []analytics.SkippedEntry
	for i, r := range raw {
		var record domain.WorkoutRecord
		if err := json.Unmarshal(r, &record); err != nil {
			skipped = append(skipped, analytics.SkippedEntry{
				WorkoutID: recordID(r, i),
				Index:     -1,
				Reason:    "invalid record: " + err.Error(),
			})
			continue
		}
		records = append(records, record)
	}
	return records, skipped, nil
}

func recordID(raw json.RawMessage, position int) string {
	var id struct {
		WorkoutID string `json:"workoutId"`
	}
	if err := json.Unmarshal(raw, &id); err == nil && id.WorkoutID != "" {
		return id.WorkoutID
	}
	return fmt.Sprintf("#%d", position)
}

func printReport(w io.Writer, report *analytics.Report) {
	bold := color.New(color.Bold)
	group := color.New(color.FgCyan, color.Bold)
	faint := color.New(color.Faint)
	warn := color.New(color.FgYellow)

	bold.Fprintln(w, report.FrequencySummary)

	for _, muscleGroup := range sortedKeys(report.Groups) {
		fmt.Fprintln(w)
		group.Fprintln(w, muscleGroup)

		exercises := report.Groups[muscleGroup]
		for _, name := range sortedKeys(exercises) {
			stats := exercises[name]
			bold.Fprintf(w, "  %s\n", name)
			for _, line := range stats.Metrics {
				fmt.Fprintf(w, "    %s\n", line)
			}
			for _, p := range stats.Progression {
				faint.Fprintf(w, "    %s  %.2f kg over the session, max %.2f kg\n",
					p.Date, p.SessionVolume, p.SessionMaxWeight)
			}
		}
	}

	if len(report.Skipped) > 0 {
		fmt.Fprintln(w)
		warn.Fprintf(w, "⚠ %d entr(ies) skipped\n", len(report.Skipped))
		for _, s := range report.Skipped {
			faint.Fprintf(w, "  %s\n", s.Error())
		}
	}
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
