package solutionlog

import (
	"strings"
	"testing"
	"time"

	"github.com/continuum-robotics/ccbs/internal/cbs"
	"github.com/continuum-robotics/ccbs/internal/roadmap"
)

func TestWriteFoundSolution(t *testing.T) {
	sol := cbs.Solution{
		Found: true, Flowtime: 3.5, Makespan: 2.0, Time: 10 * time.Millisecond,
		HighLevelExpanded: 1, LowLevelExpansions: 2,
		Paths: map[roadmap.AgentID]roadmap.Path{
			1: {{Agent: 1, From: 0, To: 1, Start: 0, End: 1}},
			2: {{Agent: 2, From: 1, To: 1, Start: 0, End: 0.5}, {Agent: 2, From: 1, To: 0, Start: 0.5, End: 1.5}},
		},
	}

	var buf strings.Builder
	if err := Write(&buf, sol); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	out := buf.String()

	if !strings.Contains(out, "found=true") {
		t.Errorf("expected summary line, got %q", out)
	}
	if !strings.Contains(out, "<agent id=1>") || !strings.Contains(out, "</agent>") {
		t.Errorf("expected agent block markers, got %q", out)
	}
	if !strings.Contains(out, "wait 1 -> 1") {
		t.Errorf("expected the wait move to be labeled, got %q", out)
	}
	if !strings.Contains(out, "move 0 -> 1") {
		t.Errorf("expected agent 1's move to be listed, got %q", out)
	}
}

func TestWriteNotFoundSolution(t *testing.T) {
	sol := cbs.Solution{Found: false, Reason: cbs.ReasonTimeout}
	var buf strings.Builder
	if err := Write(&buf, sol); err != nil {
		t.Fatalf("Write returned error: %v", err)
	}
	out := buf.String()
	if !strings.Contains(out, "found=false") || !strings.Contains(out, "reason=timeout") {
		t.Errorf("expected not-found summary with reason, got %q", out)
	}
	if strings.Contains(out, "<agent") {
		t.Errorf("not-found solution should not list agent blocks, got %q", out)
	}
}
