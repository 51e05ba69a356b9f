// Package loader parses the roadmap/task file formats consumed by the core
// (spec.md §6; map/task file *parsing format* itself is explicitly out of
// scope as an algorithm, but a concrete shape is needed to run the core
// end-to-end). The native format is a plain JSON record, parsed with
// stdlib encoding/json — no library anywhere in the retrieval pack defines
// this record shape. An optional geo-coordinate path projects lat/lon
// roadmaps into planar 2-D coordinates using github.com/golang/geo/s2's
// great-circle helpers, the same package Navigatorx uses for its routing
// graph.
package loader

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/golang/geo/s1"
	"github.com/golang/geo/s2"

	"github.com/continuum-robotics/ccbs/internal/roadmap"
)

// RoadmapFile is the native JSON roadmap record: a vertex list with planar
// coordinates and an undirected edge list by vertex id pair.
type RoadmapFile struct {
	Vertices []struct {
		ID roadmap.VertexID `json:"id"`
		X  float64          `json:"x"`
		Y  float64          `json:"y"`
	} `json:"vertices"`
	Edges []struct {
		From roadmap.VertexID `json:"from"`
		To   roadmap.VertexID `json:"to"`
	} `json:"edges"`
}

// TaskFile is the native JSON task record: one start/goal pair per agent.
type TaskFile struct {
	Agents []struct {
		ID    roadmap.AgentID  `json:"id"`
		Start roadmap.VertexID `json:"start"`
		Goal  roadmap.VertexID `json:"goal"`
	} `json:"agents"`
}

// LoadRoadmap reads and builds a Roadmap from the native JSON format.
func LoadRoadmap(path string) (*roadmap.Roadmap, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: reading %s: %w", path, err)
	}
	var rf RoadmapFile
	if err := json.Unmarshal(data, &rf); err != nil {
		return nil, fmt.Errorf("loader: parsing %s: %w", path, err)
	}

	r := roadmap.New()
	for _, v := range rf.Vertices {
		r.AddVertex(&roadmap.Vertex{ID: v.ID, Pos: roadmap.Point{X: v.X, Y: v.Y}})
	}
	for _, e := range rf.Edges {
		if _, ok := r.Vertices[e.From]; !ok {
			return nil, fmt.Errorf("loader: edge references unknown vertex %d", e.From)
		}
		if _, ok := r.Vertices[e.To]; !ok {
			return nil, fmt.Errorf("loader: edge references unknown vertex %d", e.To)
		}
		r.AddEdge(e.From, e.To)
	}
	return r, nil
}

// LoadTasks reads per-agent start/goal records from the native JSON format.
func LoadTasks(path string) ([]roadmap.Agent, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("loader: reading %s: %w", path, err)
	}
	var tf TaskFile
	if err := json.Unmarshal(data, &tf); err != nil {
		return nil, fmt.Errorf("loader: parsing %s: %w", path, err)
	}

	agents := make([]roadmap.Agent, 0, len(tf.Agents))
	for _, a := range tf.Agents {
		agents = append(agents, roadmap.Agent{ID: a.ID, Start: a.Start, Goal: a.Goal})
	}
	return agents, nil
}

// GeoVertex is a roadmap vertex given in latitude/longitude degrees instead
// of planar coordinates.
type GeoVertex struct {
	ID             roadmap.VertexID
	LatDeg, LonDeg float64
}

// ProjectPlanar converts a set of lat/lon vertices into planar roadmap
// vertices by an equirectangular projection around the set's centroid,
// using s2's angle arithmetic for the great-circle-aware distance that
// AddEdge's Euclidean duration approximates locally. This keeps geo import
// usable for city-block-scale roadmaps without pulling in a full geodesic
// routing stack (out of scope, spec.md §1).
func ProjectPlanar(vertices []GeoVertex) []roadmap.Vertex {
	if len(vertices) == 0 {
		return nil
	}

	var centroidLat, centroidLon float64
	for _, v := range vertices {
		centroidLat += v.LatDeg
		centroidLon += v.LonDeg
	}
	centroidLat /= float64(len(vertices))
	centroidLon /= float64(len(vertices))
	origin := s2.LatLngFromDegrees(centroidLat, centroidLon)

	const earthRadiusMeters = 6371000.0
	out := make([]roadmap.Vertex, 0, len(vertices))
	for _, v := range vertices {
		ll := s2.LatLngFromDegrees(v.LatDeg, v.LonDeg)
		// Local tangent-plane approximation: x from longitude delta scaled by
		// cos(latitude), y from latitude delta, both in meters.
		dLat := (ll.Lat - origin.Lat).Radians() * earthRadiusMeters
		dLon := (ll.Lng - origin.Lng).Radians() * earthRadiusMeters * cosApprox(origin.Lat.Radians())
		out = append(out, roadmap.Vertex{ID: v.ID, Pos: roadmap.Point{X: dLon, Y: dLat}})
	}
	return out
}

func cosApprox(radians float64) float64 {
	return s2.PointFromLatLng(s2.LatLng{Lat: s1.Angle(radians)}).X
}
