package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/2beens/liftlog/internal/draft"

	"github.com/urfave/cli/v2"
)

var errSetFormat = errors.New("set must look like WEIGHTxREPS or WEIGHTxREPS@RPE")

func argInt(c *cli.Context, i int, name string) (int, error) {
	if c.NArg() <= i {
		return 0, fmt.Errorf("missing %s", name)
	}
	v, err := strconv.Atoi(c.Args().Get(i))
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %q", name, c.Args().Get(i))
	}
	return v, nil
}

// parseSet reads "100x5" or "100x5@8". Range checks are left to the editor.
func parseSet(s string) (draft.SetInput, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	body, rpeStr, hasRPE := strings.Cut(s, "@")
	weightStr, repsStr, ok := strings.Cut(body, "x")
	if !ok {
		return draft.SetInput{}, fmt.Errorf("%w: %q", errSetFormat, s)
	}

	weight, err := strconv.ParseFloat(strings.TrimSpace(weightStr), 64)
	if err != nil {
		return draft.SetInput{}, fmt.Errorf("%w: weight %q", errSetFormat, weightStr)
	}
	reps, err := strconv.Atoi(strings.TrimSpace(repsStr))
	if err != nil {
		return draft.SetInput{}, fmt.Errorf("%w: reps %q", errSetFormat, repsStr)
	}

	in := draft.SetInput{Weight: weight, Reps: reps}
	if hasRPE {
		rpe, err := strconv.ParseFloat(strings.TrimSpace(rpeStr), 64)
		if err != nil {
			return draft.SetInput{}, fmt.Errorf("%w: rpe %q", errSetFormat, rpeStr)
		}
		in.RPE = &rpe
	}
	return in, nil
}

// parseQuickEntry reads "<exerciseId>:<set>,<set>,...".
func parseQuickEntry(s string) (draft.QuickEntry, error) {
	idStr, setsStr, ok := strings.Cut(s, ":")
	if !ok {
		return draft.QuickEntry{}, fmt.Errorf("entry must look like EXERCISE_ID:SET,SET: %q", s)
	}
	exerciseID, err := strconv.Atoi(strings.TrimSpace(idStr))
	if err != nil {
		return draft.QuickEntry{}, fmt.Errorf("invalid exercise id %q", idStr)
	}

	entry := draft.QuickEntry{ExerciseID: exerciseID}
	for _, part := range strings.Split(setsStr, ",") {
		if strings.TrimSpace(part) == "" {
			continue
		}
		in, err := parseSet(part)
		if err != nil {
			return draft.QuickEntry{}, err
		}
		entry.Sets = append(entry.Sets, in)
	}
	if len(entry.Sets) == 0 {
		return draft.QuickEntry{}, fmt.Errorf("entry for exercise %d has no sets", exerciseID)
	}
	return entry, nil
}
