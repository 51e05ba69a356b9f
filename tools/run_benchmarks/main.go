// Command run_benchmarks runs the CCBS solver over every roadmap/task pair
// produced by gen_instances under a fixed set of named configurations
// (an ablation over spec.md §6's optional speedups) and records the spec's
// Solution fields to CSV. Grounded on the teacher's run_benchmarks.go CLI
// shape and evidence-CSV schema (timestamp/commit/go version/os/arch columns
// plus a per-solver summary table), adapted from a multi-solver comparison
// to a multi-configuration ablation of the single CCBS solver.
package main

import (
	"encoding/csv"
	"flag"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"time"

	"github.com/continuum-robotics/ccbs/internal/cbs"
	"github.com/continuum-robotics/ccbs/internal/hvalue"
	"github.com/continuum-robotics/ccbs/internal/loader"
	"github.com/continuum-robotics/ccbs/internal/roadmap"
)

// namedConfig is one point in the ablation: a label plus the cbs.Config
// fields it varies. Radius and TimeLimit are filled in by the runner from
// command-line flags, not listed here.
type namedConfig struct {
	name                      string
	hlhType                   hvalue.Type
	usePrecalculatedHeuristic bool
	useDisjointSplitting      bool
	useCardinal               bool
	useCorridorSymmetry       bool
	useTargetSymmetry         bool
}

var configs = []namedConfig{
	{name: "Baseline"},
	{name: "Cardinal", useCardinal: true},
	{name: "Disjoint", useCardinal: true, useDisjointSplitting: true},
	{name: "CorridorSymmetry", useCardinal: true, useCorridorSymmetry: true},
	{name: "TargetSymmetry", useCardinal: true, useTargetSymmetry: true},
	{name: "GreedyH", useCardinal: true, hlhType: hvalue.TypeGreedy},
	{name: "PrecalcH", useCardinal: true, hlhType: hvalue.TypeGreedy, usePrecalculatedHeuristic: true},
	{name: "AllSpeedups", useCardinal: true, useDisjointSplitting: true, useCorridorSymmetry: true, useTargetSymmetry: true, hlhType: hvalue.TypeGreedy, usePrecalculatedHeuristic: true},
}

// instance is one loaded roadmap/task pair, named after its shared file
// stem (e.g. "ccbs_10x10_20agents_seed42").
type instance struct {
	name    string
	roadmap *roadmap.Roadmap
	agents  []roadmap.Agent
}

// BenchmarkResult is a single config-over-instance run, one CSV row.
type BenchmarkResult struct {
	Timestamp          string
	CommitHash         string
	GoVersion          string
	OS                 string
	Arch               string
	Instance           string
	NumAgents          int
	Config             string
	RuntimeMs          float64
	Found              bool
	Reason             string
	Flowtime           float64
	Makespan           float64
	HighLevelExpanded  int
	LowLevelExpansions int
}

// configMetrics holds per-config aggregated metrics for the summary table.
type configMetrics struct {
	Name              string
	TotalRuns         int
	Successes         int
	TotalRuntimeMs    float64
	TotalFlowtime     float64
	TotalHighLevelExp int
	TotalLowLevelExp  int
}

func getGitCommit() string {
	cmd := exec.Command("git", "rev-parse", "--short", "HEAD")
	output, err := cmd.Output()
	if err != nil {
		return "unknown"
	}
	return strings.TrimSpace(string(output))
}

// discoverInstances globs dir for "*.roadmap.json" files and loads each one
// alongside its matching "*.tasks.json" sibling.
func discoverInstances(dir string) ([]instance, error) {
	pattern := filepath.Join(dir, "*.roadmap.json")
	roadmapFiles, err := filepath.Glob(pattern)
	if err != nil {
		return nil, err
	}

	var out []instance
	for _, rp := range roadmapFiles {
		stem := strings.TrimSuffix(rp, ".roadmap.json")
		name := filepath.Base(stem)
		tp := stem + ".tasks.json"

		r, err := loader.LoadRoadmap(rp)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", rp, err)
		}
		agents, err := loader.LoadTasks(tp)
		if err != nil {
			return nil, fmt.Errorf("loading %s: %w", tp, err)
		}
		out = append(out, instance{name: name, roadmap: r, agents: agents})
	}
	return out, nil
}

// runConfig runs one named configuration over one instance and measures
// wall-clock time around cbs.Solve.
func runConfig(inst instance, nc namedConfig, radius float64, timeLimit time.Duration) *BenchmarkResult {
	result := &BenchmarkResult{
		Timestamp:  time.Now().UTC().Format(time.RFC3339),
		CommitHash: getGitCommit(),
		GoVersion:  runtime.Version(),
		OS:         runtime.GOOS,
		Arch:       runtime.GOARCH,
		Instance:   inst.name,
		NumAgents:  len(inst.agents),
		Config:     nc.name,
	}

	agents := make([]roadmap.Agent, len(inst.agents))
	copy(agents, inst.agents)
	for i := range agents {
		agents[i].Radius = radius
	}

	gh := roadmap.NewGoalHeuristics(inst.roadmap)
	solverCfg := cbs.Config{
		Radius:                    radius,
		HLHType:                   nc.hlhType,
		UsePrecalculatedHeuristic: nc.usePrecalculatedHeuristic,
		UseDisjointSplitting:      nc.useDisjointSplitting,
		UseCardinal:               nc.useCardinal,
		UseCorridorSymmetry:       nc.useCorridorSymmetry,
		UseTargetSymmetry:         nc.useTargetSymmetry,
		TimeLimit:                 timeLimit,
	}

	start := time.Now()
	sol, err := cbs.Solve(inst.roadmap, gh, agents, solverCfg)
	result.RuntimeMs = float64(time.Since(start).Microseconds()) / 1000.0
	if err != nil {
		result.Reason = fmt.Sprintf("invalid_input: %v", err)
		return result
	}

	result.Found = sol.Found
	result.Reason = string(sol.Reason)
	result.Flowtime = sol.Flowtime
	result.Makespan = sol.Makespan
	result.HighLevelExpanded = sol.HighLevelExpanded
	result.LowLevelExpansions = sol.LowLevelExpansions
	return result
}

func writeCSV(results []*BenchmarkResult, path string) error {
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	writer := csv.NewWriter(file)
	defer writer.Flush()

	header := []string{
		"timestamp", "commit_hash", "go_version", "os", "arch",
		"instance", "num_agents", "config",
		"runtime_ms", "found", "reason", "flowtime", "makespan",
		"high_level_expanded", "low_level_expansions",
	}
	if err := writer.Write(header); err != nil {
		return err
	}

	for _, r := range results {
		row := []string{
			r.Timestamp, r.CommitHash, r.GoVersion, r.OS, r.Arch,
			r.Instance, fmt.Sprintf("%d", r.NumAgents), r.Config,
			fmt.Sprintf("%.3f", r.RuntimeMs), fmt.Sprintf("%t", r.Found), r.Reason,
			fmt.Sprintf("%.3f", r.Flowtime), fmt.Sprintf("%.3f", r.Makespan),
			fmt.Sprintf("%d", r.HighLevelExpanded), fmt.Sprintf("%d", r.LowLevelExpansions),
		}
		if err := writer.Write(row); err != nil {
			return err
		}
	}
	return nil
}

func printSummary(results []*BenchmarkResult) {
	metrics := make(map[string]*configMetrics)
	for _, r := range results {
		m, ok := metrics[r.Config]
		if !ok {
			m = &configMetrics{Name: r.Config}
			metrics[r.Config] = m
		}
		m.TotalRuns++
		if r.Found {
			m.Successes++
			m.TotalRuntimeMs += r.RuntimeMs
			m.TotalFlowtime += r.Flowtime
			m.TotalHighLevelExp += r.HighLevelExpanded
			m.TotalLowLevelExp += r.LowLevelExpansions
		}
	}

	fmt.Println("\n=== BENCHMARK SUMMARY ===")
	fmt.Printf("%-18s %6s %8s %12s %10s %10s %10s\n",
		"Config", "Runs", "Solved", "Avg Time(ms)", "AvgFlowt", "AvgHLExp", "AvgLLExp")
	fmt.Println(strings.Repeat("-", 78))

	var names []string
	for name := range metrics {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		m := metrics[name]
		avgTime, avgFlowtime, avgHL, avgLL := 0.0, 0.0, 0.0, 0.0
		if m.Successes > 0 {
			avgTime = m.TotalRuntimeMs / float64(m.Successes)
			avgFlowtime = m.TotalFlowtime / float64(m.Successes)
			avgHL = float64(m.TotalHighLevelExp) / float64(m.Successes)
			avgLL = float64(m.TotalLowLevelExp) / float64(m.Successes)
		}
		fmt.Printf("%-18s %6d %8d %12.2f %10.2f %10.1f %10.1f\n",
			m.Name, m.TotalRuns, m.Successes, avgTime, avgFlowtime, avgHL, avgLL)
	}
}

func main() {
	inputDir := flag.String("input", "testdata", "directory containing *.roadmap.json / *.tasks.json instance pairs")
	outputFile := flag.String("output", "evidence/benchmark_results.csv", "output CSV file")
	timeout := flag.Duration("timeout", 30*time.Second, "time limit per solve")
	radius := flag.Float64("radius", 0.3, "agent radius applied to every instance")
	configFilter := flag.String("configs", "", "run only these configs (comma-separated, default all)")

	flag.Parse()

	outputDir := filepath.Dir(*outputFile)
	if err := os.MkdirAll(outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "creating output directory: %v\n", err)
		os.Exit(1)
	}

	instances, err := discoverInstances(*inputDir)
	if err != nil {
		fmt.Fprintf(os.Stderr, "discovering instances: %v\n", err)
		os.Exit(1)
	}
	if len(instances) == 0 {
		fmt.Fprintf(os.Stderr, "no instances found in %s\n", *inputDir)
		fmt.Fprintf(os.Stderr, "run gen_instances first: go run ./tools/gen_instances -output %s\n", *inputDir)
		os.Exit(1)
	}

	activeConfigs := configs
	if *configFilter != "" {
		wanted := make(map[string]bool)
		for _, n := range strings.Split(*configFilter, ",") {
			wanted[n] = true
		}
		activeConfigs = nil
		for _, nc := range configs {
			if wanted[nc.name] {
				activeConfigs = append(activeConfigs, nc)
			}
		}
	}

	var results []*BenchmarkResult
	totalRuns := len(instances) * len(activeConfigs)
	currentRun := 0

	fmt.Printf("Running benchmarks: %d instances x %d configs = %d runs\n",
		len(instances), len(activeConfigs), totalRuns)
	fmt.Printf("Time limit per run: %v\n\n", *timeout)

	for _, inst := range instances {
		for _, nc := range activeConfigs {
			currentRun++
			fmt.Printf("\r[%d/%d] %s / %s ...", currentRun, totalRuns, inst.name, nc.name)

			result := runConfig(inst, nc, *radius, *timeout)
			results = append(results, result)
		}
	}
	fmt.Println()

	if err := writeCSV(results, *outputFile); err != nil {
		fmt.Fprintf(os.Stderr, "writing results: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Results written to: %s\n", *outputFile)

	printSummary(results)
}
