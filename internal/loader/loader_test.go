package loader

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadRoadmapAndTasks(t *testing.T) {
	dir := t.TempDir()
	roadmapPath := filepath.Join(dir, "roadmap.json")
	tasksPath := filepath.Join(dir, "tasks.json")

	roadmapJSON := `{
		"vertices": [{"id":0,"x":0,"y":0},{"id":1,"x":1,"y":0}],
		"edges": [{"from":0,"to":1}]
	}`
	tasksJSON := `{"agents":[{"id":1,"start":0,"goal":1},{"id":2,"start":1,"goal":0}]}`

	if err := os.WriteFile(roadmapPath, []byte(roadmapJSON), 0o644); err != nil {
		t.Fatalf("writing roadmap fixture: %v", err)
	}
	if err := os.WriteFile(tasksPath, []byte(tasksJSON), 0o644); err != nil {
		t.Fatalf("writing tasks fixture: %v", err)
	}

	r, err := LoadRoadmap(roadmapPath)
	if err != nil {
		t.Fatalf("LoadRoadmap returned error: %v", err)
	}
	if len(r.Vertices) != 2 {
		t.Errorf("expected 2 vertices, got %d", len(r.Vertices))
	}
	if _, ok := r.EdgeBetween(0, 1); !ok {
		t.Error("expected edge 0->1 to exist")
	}
	if _, ok := r.EdgeBetween(1, 0); !ok {
		t.Error("expected the reverse edge 1->0 to exist (undirected)")
	}

	agents, err := LoadTasks(tasksPath)
	if err != nil {
		t.Fatalf("LoadTasks returned error: %v", err)
	}
	if len(agents) != 2 {
		t.Fatalf("expected 2 agents, got %d", len(agents))
	}
	if agents[0].Start != 0 || agents[0].Goal != 1 {
		t.Errorf("unexpected agent 0 record: %+v", agents[0])
	}
}

func TestLoadRoadmapRejectsUnknownEdgeVertex(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "roadmap.json")
	contents := `{"vertices":[{"id":0,"x":0,"y":0}],"edges":[{"from":0,"to":99}]}`
	if err := os.WriteFile(path, []byte(contents), 0o644); err != nil {
		t.Fatalf("writing fixture: %v", err)
	}
	if _, err := LoadRoadmap(path); err == nil {
		t.Fatal("expected an error for an edge referencing an unknown vertex")
	}
}

func TestProjectPlanarNearbyVerticesStayClose(t *testing.T) {
	vertices := []GeoVertex{
		{ID: 0, LatDeg: 40.0, LonDeg: -74.0},
		{ID: 1, LatDeg: 40.001, LonDeg: -74.001},
	}
	planar := ProjectPlanar(vertices)
	if len(planar) != 2 {
		t.Fatalf("expected 2 projected vertices, got %d", len(planar))
	}
	// The two vertices should project to distinct, nearby points (about 140
	// meters apart, not degrees apart).
	dx := planar[0].Pos.X - planar[1].Pos.X
	dy := planar[0].Pos.Y - planar[1].Pos.Y
	dist := dx*dx + dy*dy
	if dist <= 0 || dist > 1e6 {
		t.Errorf("expected a small nonzero planar separation, got squared distance %v", dist)
	}
}
