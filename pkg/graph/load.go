package graph

import (
	"path/filepath"
	"strings"
)

// Load reads a graph from path, choosing the codec by extension:
// ".bin" uses the binary format, anything else is read as CSV with n nodes
// (0 infers n from the first line).
func Load(path string, n int) (*Graph, error) {
	if strings.EqualFold(filepath.Ext(path), ".bin") {
		return ReadBinary(path)
	}
	return LoadCSV(path, n)
}

// Save writes g to path, choosing the codec by extension like Load.
func Save(path string, g *Graph) error {
	if strings.EqualFold(filepath.Ext(path), ".bin") {
		return WriteBinary(path, g)
	}
	return SaveCSV(path, g)
}
