// Package solutionlog renders the textual solution log format of spec.md
// §6: one <agent> block per agent, each listing its moves with start/end
// times and vertex pair. Round-trip is not required. Grounded on the
// teacher's direct fmt.Fprintf reporting style in cmd/mapfhet/main.go
// rather than a templating library — none of the pack's repos reach for
// text/template for this kind of fixed tabular report.
package solutionlog

import (
	"fmt"
	"io"
	"sort"

	"github.com/continuum-robotics/ccbs/internal/cbs"
	"github.com/continuum-robotics/ccbs/internal/roadmap"
)

// Write renders sol to w. If sol.Found is false, only the summary line and
// the reason are written.
func Write(w io.Writer, sol cbs.Solution) error {
	if _, err := fmt.Fprintf(w, "found=%v flowtime=%.6f makespan=%.6f high_level_expanded=%d low_level_expansions=%d time=%s\n",
		sol.Found, sol.Flowtime, sol.Makespan, sol.HighLevelExpanded, sol.LowLevelExpansions, sol.Time); err != nil {
		return err
	}
	if !sol.Found {
		_, err := fmt.Fprintf(w, "reason=%s\n", sol.Reason)
		return err
	}

	ids := make([]roadmap.AgentID, 0, len(sol.Paths))
	for id := range sol.Paths {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		if _, err := fmt.Fprintf(w, "<agent id=%d>\n", id); err != nil {
			return err
		}
		for _, m := range sol.Paths[id] {
			kind := "move"
			if m.IsWait() {
				kind = "wait"
			}
			if _, err := fmt.Fprintf(w, "  %s %d -> %d [%.6f, %.6f)\n", kind, m.From, m.To, m.Start, m.End); err != nil {
				return err
			}
		}
		if _, err := fmt.Fprintf(w, "</agent>\n"); err != nil {
			return err
		}
	}
	return nil
}
