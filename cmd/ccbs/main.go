// Command ccbs runs a Continuous Conflict-Based Search solve over a
// roadmap/task pair and prints the resulting solution log. It is a demo
// binary exercising the core library end-to-end, not a configuration
// dispatcher in its own right (that surface is out of scope, spec.md §1).
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/continuum-robotics/ccbs/internal/cbs"
	"github.com/continuum-robotics/ccbs/internal/ccbslog"
	"github.com/continuum-robotics/ccbs/internal/config"
	"github.com/continuum-robotics/ccbs/internal/hvalue"
	"github.com/continuum-robotics/ccbs/internal/loader"
	"github.com/continuum-robotics/ccbs/internal/metrics"
	"github.com/continuum-robotics/ccbs/internal/roadmap"
	"github.com/continuum-robotics/ccbs/internal/solutionlog"
)

func main() {
	roadmapPath := flag.String("roadmap", "", "path to a native JSON roadmap file")
	tasksPath := flag.String("tasks", "", "path to a native JSON task file")
	configPath := flag.String("config", "", "path to a YAML config file (defaults used if omitted)")
	verbose := flag.Bool("v", false, "enable structured (zap production) logging of the search outcome")
	flag.Parse()

	if *roadmapPath == "" || *tasksPath == "" {
		fmt.Println("=== CCBS demo: built-in two-vertex swap instance ===")
		runDemo(*verbose)
		return
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Fatalf("loading config: %v", err)
		}
		cfg = loaded
	}

	r, err := loader.LoadRoadmap(*roadmapPath)
	if err != nil {
		log.Fatalf("loading roadmap: %v", err)
	}
	agents, err := loader.LoadTasks(*tasksPath)
	if err != nil {
		log.Fatalf("loading tasks: %v", err)
	}

	run(r, agents, cfg, *verbose)
}

// runDemo builds and solves the two-vertex head-on swap instance (spec.md
// §8 scenario S1) so the binary has something to show with no input files.
func runDemo(verbose bool) {
	r := roadmap.New()
	r.AddVertex(&roadmap.Vertex{ID: 0, Pos: roadmap.Point{X: 0, Y: 0}})
	r.AddVertex(&roadmap.Vertex{ID: 1, Pos: roadmap.Point{X: 1, Y: 0}})
	r.AddEdge(0, 1)

	agents := []roadmap.Agent{
		{ID: 1, Start: 0, Goal: 1},
		{ID: 2, Start: 1, Goal: 0},
	}

	cfg := config.Default()
	cfg.AgentSize = 0.4
	cfg.UseCardinal = true
	cfg.HLHType = int(hvalue.TypeGreedy)

	run(r, agents, cfg, verbose)
}

func run(r *roadmap.Roadmap, agents []roadmap.Agent, cfg config.Config, verbose bool) {
	if err := cfg.Validate(); err != nil {
		log.Fatalf("invalid config: %v", err)
	}

	for i := range agents {
		agents[i].Radius = cfg.AgentSize
	}

	logger := ccbslog.Nop()
	if verbose {
		var err error
		logger, err = ccbslog.Production()
		if err != nil {
			log.Fatalf("building logger: %v", err)
		}
	}
	defer logger.Sync()

	reg := prometheus.NewRegistry()
	rec := metrics.NewRecorder(reg)

	runID := uuid.NewString()
	gh := roadmap.NewGoalHeuristics(r)
	solverCfg := cbs.Config{
		Radius:                    cfg.AgentSize,
		Precision:                 cfg.Precision,
		HLHType:                   cfg.HValueType(),
		UsePrecalculatedHeuristic: cfg.UsePrecalculatedHeuristic,
		UseDisjointSplitting:      cfg.UseDisjointSplitting,
		UseCardinal:               cfg.UseCardinal,
		UseCorridorSymmetry:       cfg.UseCorridorSymmetry,
		UseTargetSymmetry:         cfg.UseTargetSymmetry,
		TimeLimit:                 time.Duration(cfg.TimeLimitSeconds * float64(time.Second)),
		StepLimit:                 cfg.StepLimit,
	}

	sol, err := cbs.Solve(r, gh, agents, solverCfg)
	if err != nil {
		log.Fatalf("invalid instance (run %s): %v", runID, err)
	}
	rec.Observe(sol.Found, string(sol.Reason), sol.HighLevelExpanded, sol.LowLevelExpansions, sol.Time.Seconds())
	logger.SearchFinished(runID, sol.Found, string(sol.Reason), sol.HighLevelExpanded)

	if err := solutionlog.Write(os.Stdout, sol); err != nil {
		log.Fatalf("writing solution log: %v", err)
	}
}
