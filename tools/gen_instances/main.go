// Command gen_instances generates deterministic CCBS benchmark instances: a
// 4-connected grid roadmap and a set of agents with disjoint random start
// and goal vertices, written in the native JSON format internal/loader
// consumes. Grounded on the teacher's seeded math/rand generation style in
// this same tool, adapted from the heterogeneous-robot/task schema to the
// plain roadmap/agent schema spec.md actually describes.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
)

type roadmapVertex struct {
	ID int     `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

type roadmapEdge struct {
	From int `json:"from"`
	To   int `json:"to"`
}

type roadmapFile struct {
	Vertices []roadmapVertex `json:"vertices"`
	Edges    []roadmapEdge   `json:"edges"`
}

type taskAgent struct {
	ID    int `json:"id"`
	Start int `json:"start"`
	Goal  int `json:"goal"`
}

type taskFile struct {
	Agents []taskAgent `json:"agents"`
}

// generateGrid builds a width x height 4-connected grid roadmap with unit
// edge length.
func generateGrid(width, height int) roadmapFile {
	var rf roadmapFile
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			id := y*width + x
			rf.Vertices = append(rf.Vertices, roadmapVertex{ID: id, X: float64(x), Y: float64(y)})
		}
	}
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			id := y*width + x
			if x < width-1 {
				rf.Edges = append(rf.Edges, roadmapEdge{From: id, To: id + 1})
			}
			if y < height-1 {
				rf.Edges = append(rf.Edges, roadmapEdge{From: id, To: id + width})
			}
		}
	}
	return rf
}

// generateTasks picks numAgents pairwise-distinct start vertices and,
// independently, numAgents pairwise-distinct goal vertices deterministically
// from rng. Distinct starts satisfy spec.md §7's InvalidInput rule; an
// agent's goal may still equal its own start or another agent's start.
func generateTasks(rng *rand.Rand, numVertices, numAgents int) taskFile {
	perm := rng.Perm(numVertices)
	starts := perm[:numAgents]
	goalPerm := rng.Perm(numVertices)
	goals := goalPerm[:numAgents]

	var tf taskFile
	for i := 0; i < numAgents; i++ {
		tf.Agents = append(tf.Agents, taskAgent{ID: i + 1, Start: starts[i], Goal: goals[i]})
	}
	return tf
}

func main() {
	seed := flag.Int64("seed", 42, "random seed for deterministic generation")
	numAgents := flag.Int("agents", 10, "number of agents")
	gridWidth := flag.Int("width", 10, "grid width")
	gridHeight := flag.Int("height", 10, "grid height")
	outputDir := flag.String("output", "testdata", "output directory")
	name := flag.String("name", "", "instance name (defaults to a size-derived name)")
	flag.Parse()

	if *numAgents > (*gridWidth)*(*gridHeight) {
		fmt.Fprintf(os.Stderr, "cannot place %d agents on a %dx%d grid (%d vertices)\n", *numAgents, *gridWidth, *gridHeight, (*gridWidth)*(*gridHeight))
		os.Exit(1)
	}

	if err := os.MkdirAll(*outputDir, 0o755); err != nil {
		fmt.Fprintf(os.Stderr, "creating output directory: %v\n", err)
		os.Exit(1)
	}

	instName := *name
	if instName == "" {
		instName = fmt.Sprintf("ccbs_%dx%d_%dagents_seed%d", *gridWidth, *gridHeight, *numAgents, *seed)
	}

	rng := rand.New(rand.NewSource(*seed))
	rf := generateGrid(*gridWidth, *gridHeight)
	tf := generateTasks(rng, (*gridWidth)*(*gridHeight), *numAgents)

	roadmapPath := filepath.Join(*outputDir, instName+".roadmap.json")
	tasksPath := filepath.Join(*outputDir, instName+".tasks.json")

	if err := writeJSON(roadmapPath, rf); err != nil {
		fmt.Fprintf(os.Stderr, "writing roadmap: %v\n", err)
		os.Exit(1)
	}
	if err := writeJSON(tasksPath, tf); err != nil {
		fmt.Fprintf(os.Stderr, "writing tasks: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Generated: %s (%d vertices, %d edges), %s (%d agents)\n",
		roadmapPath, len(rf.Vertices), len(rf.Edges), tasksPath, len(tf.Agents))
}

func writeJSON(path string, v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
