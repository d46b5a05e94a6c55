package osm

import (
	"context"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"

	"github.com/paulmach/osm"
	"github.com/paulmach/osm/osmpbf"
	"github.com/paulmach/osm/osmxml"

	"astar_router/pkg/geo"
)

// RawEdge is a directed edge between two OSM nodes.
type RawEdge struct {
	FromNodeID osm.NodeID
	ToNodeID   osm.NodeID
	Weight     float64 // great-circle length in metres
}

// ParseResult holds the edges and the coordinates of every node they use.
type ParseResult struct {
	Edges   []RawEdge
	NodeLat map[osm.NodeID]float64
	NodeLon map[osm.NodeID]float64
}

// Format selects the OSM encoding.
type Format int

const (
	FormatXML Format = iota
	FormatPBF
)

// FormatFromPath guesses the encoding from a file name.
func FormatFromPath(path string) Format {
	if strings.EqualFold(filepath.Ext(path), ".pbf") {
		return FormatPBF
	}
	return FormatXML
}

// Profile decides which ways are traversable and whether oneway tags apply.
type Profile struct {
	Name          string
	Highways      map[string]bool
	RespectOneway bool
	// Tags whose value "no" excludes the way, in addition to access=no/private.
	DenyTags []string
}

// CarProfile routes over roads open to motor vehicles.
var CarProfile = Profile{
	Name: "car",
	Highways: map[string]bool{
		"motorway":       true,
		"motorway_link":  true,
		"trunk":          true,
		"trunk_link":     true,
		"primary":        true,
		"primary_link":   true,
		"secondary":      true,
		"secondary_link": true,
		"tertiary":       true,
		"tertiary_link":  true,
		"unclassified":   true,
		"residential":    true,
		"living_street":  true,
		"service":        true,
	},
	RespectOneway: true,
	DenyTags:      []string{"motor_vehicle"},
}

// FootProfile routes over anything walkable; oneway tags are ignored.
var FootProfile = Profile{
	Name: "foot",
	Highways: map[string]bool{
		"primary":       true,
		"secondary":     true,
		"tertiary":      true,
		"unclassified":  true,
		"residential":   true,
		"living_street": true,
		"service":       true,
		"pedestrian":    true,
		"footway":       true,
		"path":          true,
		"steps":         true,
		"track":         true,
	},
	DenyTags: []string{"foot"},
}

// ProfileByName returns the named profile.
func ProfileByName(name string) (Profile, error) {
	switch name {
	case "", "car":
		return CarProfile, nil
	case "foot":
		return FootProfile, nil
	}
	return Profile{}, fmt.Errorf("unknown profile %q", name)
}

// accessible reports whether the profile may use a way with these tags.
func (p Profile) accessible(tags osm.Tags) bool {
	if !p.Highways[tags.Find("highway")] {
		return false
	}
	if tags.Find("area") == "yes" {
		return false
	}
	access := tags.Find("access")
	if access == "no" || access == "private" {
		return false
	}
	for _, k := range p.DenyTags {
		if tags.Find(k) == "no" {
			return false
		}
	}
	return true
}

// directions returns (forward, backward) for a way under this profile.
func (p Profile) directions(tags osm.Tags) (forward, backward bool) {
	if !p.RespectOneway {
		return true, true
	}

	forward, backward = true, true
	hw := tags.Find("highway")
	if hw == "motorway" || hw == "motorway_link" || tags.Find("junction") == "roundabout" {
		backward = false
	}

	switch tags.Find("oneway") {
	case "yes", "true", "1":
		forward, backward = true, false
	case "-1", "reverse":
		forward, backward = false, true
	case "no":
		forward, backward = true, true
	case "reversible":
		forward, backward = false, false
	}
	return forward, backward
}

// wayInfo holds the parts of a way kept between passes.
type wayInfo struct {
	NodeIDs  []osm.NodeID
	Forward  bool
	Backward bool
}

// BBox is a geographic bounding box; the zero value disables filtering.
type BBox struct {
	MinLat, MaxLat float64
	MinLng, MaxLng float64
}

// IsZero returns true if the bbox is unset.
func (b BBox) IsZero() bool {
	return b.MinLat == 0 && b.MaxLat == 0 && b.MinLng == 0 && b.MaxLng == 0
}

// Contains returns true if the point is inside the bounding box.
func (b BBox) Contains(lat, lng float64) bool {
	return lat >= b.MinLat && lat <= b.MaxLat && lng >= b.MinLng && lng <= b.MaxLng
}

// ParseOptions configures Parse.
type ParseOptions struct {
	Format  Format
	Profile Profile // zero value means CarProfile
	BBox    BBox
}

func newScanner(ctx context.Context, r io.Reader, format Format) osm.Scanner {
	if format == FormatPBF {
		return osmpbf.New(ctx, r, 1)
	}
	return osmxml.New(ctx, r)
}

// Parse reads an OSM extract and returns the directed edges usable under the
// profile. The reader is scanned twice, ways first and then node coordinates.
func Parse(ctx context.Context, rs io.ReadSeeker, opts ParseOptions) (*ParseResult, error) {
	profile := opts.Profile
	if profile.Highways == nil {
		profile = CarProfile
	}
	useBBox := !opts.BBox.IsZero()

	referencedNodes := make(map[osm.NodeID]struct{})
	var ways []wayInfo

	scanner := newScanner(ctx, rs, opts.Format)
	for scanner.Scan() {
		w, ok := scanner.Object().(*osm.Way)
		if !ok || len(w.Nodes) < 2 || !profile.accessible(w.Tags) {
			continue
		}

		fwd, bwd := profile.directions(w.Tags)
		if !fwd && !bwd {
			continue
		}

		nodeIDs := make([]osm.NodeID, len(w.Nodes))
		for i, wn := range w.Nodes {
			nodeIDs[i] = wn.ID
			referencedNodes[wn.ID] = struct{}{}
		}
		ways = append(ways, wayInfo{NodeIDs: nodeIDs, Forward: fwd, Backward: bwd})
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("pass 1 (ways): %w", err)
	}
	scanner.Close()

	log.Printf("Pass 1 complete: %d %s ways, %d referenced nodes", len(ways), profile.Name, len(referencedNodes))

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("seek for pass 2: %w", err)
	}

	nodeLat := make(map[osm.NodeID]float64, len(referencedNodes))
	nodeLon := make(map[osm.NodeID]float64, len(referencedNodes))

	scanner = newScanner(ctx, rs, opts.Format)
	for scanner.Scan() {
		n, ok := scanner.Object().(*osm.Node)
		if !ok {
			continue
		}
		if _, needed := referencedNodes[n.ID]; !needed {
			continue
		}
		nodeLat[n.ID] = n.Lat
		nodeLon[n.ID] = n.Lon
	}
	if err := scanner.Err(); err != nil {
		scanner.Close()
		return nil, fmt.Errorf("pass 2 (nodes): %w", err)
	}
	scanner.Close()

	var edges []RawEdge
	var skippedEdges, bboxFiltered int

	for _, w := range ways {
		for i := 0; i < len(w.NodeIDs)-1; i++ {
			fromID, toID := w.NodeIDs[i], w.NodeIDs[i+1]
			if fromID == toID {
				continue
			}

			fromLat, fromOk := nodeLat[fromID]
			toLat, toOk := nodeLat[toID]
			if !fromOk || !toOk {
				skippedEdges++
				continue
			}
			fromLon, toLon := nodeLon[fromID], nodeLon[toID]

			if useBBox && (!opts.BBox.Contains(fromLat, fromLon) || !opts.BBox.Contains(toLat, toLon)) {
				bboxFiltered++
				continue
			}

			dist := geo.Distance(fromLat, fromLon, toLat, toLon)
			if dist == 0 {
				dist = geo.MinEdgeMeters // a zero weight would mean "no edge"
			}

			if w.Forward {
				edges = append(edges, RawEdge{FromNodeID: fromID, ToNodeID: toID, Weight: dist})
			}
			if w.Backward {
				edges = append(edges, RawEdge{FromNodeID: toID, ToNodeID: fromID, Weight: dist})
			}
		}
	}

	if skippedEdges > 0 {
		log.Printf("Warning: skipped %d edges due to missing node coordinates", skippedEdges)
	}
	if bboxFiltered > 0 {
		log.Printf("Filtered %d edges outside bounding box", bboxFiltered)
	}
	log.Printf("Built %d directed edges", len(edges))

	return &ParseResult{
		Edges:   edges,
		NodeLat: nodeLat,
		NodeLon: nodeLon,
	}, nil
}
