package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

type renamePair struct {
	Old string
	New string
}

func newRenameCmd(opts *rootOptions) *cobra.Command {
	var file string

	cmd := &cobra.Command{
		Use:   "rename [old=new ...]",
		Short: "Rename exercises across all of your workouts",
		Long: `Rename exercises through the API, one request per pair.

Pairs come from the arguments and from --file (one old=new per line,
blank lines and lines starting with # are ignored). A failing pair is
reported and the remaining pairs are still sent.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if opts.token == "" {
				return errors.New("a token is required (--token or IRONLOG_TOKEN)")
			}

			pairs, err := parsePairs(args)
			if err != nil {
				return err
			}
			if file != "" {
				filePairs, err := readPairsFile(file)
				if err != nil {
					return err
				}
				pairs = append(pairs, filePairs...)
			}
			if len(pairs) == 0 {
				return errors.New("nothing to rename")
			}

			client := &renameClient{
				baseURL:    strings.TrimRight(opts.apiURL, "/"),
				token:      opts.token,
				httpClient: &http.Client{Timeout: 30 * time.Second},
			}

			failed := runRenames(cmd.Context(), cmd.OutOrStdout(), client, pairs)
			if failed > 0 {
				return fmt.Errorf("%d of %d rename(s) failed", failed, len(pairs))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&file, "file", "f", "", "file with one old=new pair per line")
	return cmd
}

func parsePair(s string) (renamePair, error) {
	oldName, newName, ok := strings.Cut(s, "=")
	oldName, newName = strings.TrimSpace(oldName), strings.TrimSpace(newName)
	if !ok || oldName == "" || newName == "" {
		return renamePair{}, fmt.Errorf("invalid pair %q, expected old=new", s)
	}
	return renamePair{Old: oldName, New: newName}, nil
}

func parsePairs(args []string) ([]renamePair, error) {
	pairs := make([]renamePair, 0, len(args))
	for _, a := range args {
		p, err := parsePair(a)
		if err != nil {
			return nil, err
		}
		pairs = append(pairs, p)
	}
	return pairs, nil
}

func readPairsFile(path string) ([]renamePair, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	var pairs []renamePair
	scanner := bufio.NewScanner(f)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		p, err := parsePair(line)
		if err != nil {
			return nil, fmt.Errorf("%s:%d: %w", path, lineNo, err)
		}
		pairs = append(pairs, p)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	return pairs, nil
}

func runRenames(ctx context.Context, w io.Writer, client *renameClient, pairs []renamePair) int {
	failed := 0
	for _, p := range pairs {
		modified, err := client.rename(ctx, p)
		if err != nil {
			failed++
			color.New(color.FgRed).Fprintf(w, "✗ %s -> %s: %v\n", p.Old, p.New, err)
			continue
		}
		color.New(color.FgGreen).Fprintf(w, "✓ %s -> %s", p.Old, p.New)
		color.New(color.Faint).Fprintf(w, " (%d workout(s) updated)\n", modified)
	}
	return failed
}

type renameClient struct {
	baseURL    string
	token      string
	httpClient *http.Client
}

type renameResponse struct {
	Message       string `json:"message"`
	ModifiedCount int64  `json:"modifiedCount"`
	Error         string `json:"error"`
}

func (c *renameClient) rename(ctx context.Context, p renamePair) (int64, error) {
	body, err := json.Marshal(map[string]string{
		"oldExerciseName": p.Old,
		"newExerciseName": p.New,
	})
	if err != nil {
		return 0, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/workouts/rename-exercise", bytes.NewReader(body))
	if err != nil {
		return 0, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, err
	}
	defer resp.Body.Close()

	var out renameResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil && !errors.Is(err, io.EOF) {
		return 0, fmt.Errorf("failed to decode response (status %d): %w", resp.StatusCode, err)
	}
	if resp.StatusCode != http.StatusOK {
		if out.Error != "" {
			return 0, fmt.Errorf("status %d: %s", resp.StatusCode, out.Error)
		}
		return 0, fmt.Errorf("status %d", resp.StatusCode)
	}
	return out.ModifiedCount, nil
}
