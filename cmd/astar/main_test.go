package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

const fixture = "testdata/input.csv"

func runCLI(t *testing.T, args ...string) (int, string, string) {
	t.Helper()
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunText(t *testing.T) {
	code, out, errOut := runCLI(t, "-i", fixture, "-f", "0", "-w", "0")
	require.Equal(t, exitOK, code, errOut)
	assert.Equal(t, "Shortest path from vertex 0 to vertex 5 is:\n0->1->3->5\n\nTotal path cost: 7.000000\n", out)
}

func TestRunVerify(t *testing.T) {
	code, out, _ := runCLI(t, "-i", fixture, "-f", "0", "-w", "0", "-verify", "-heap")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "Optimal path cost: 7.000000 (gap 0)")
}

func TestRunJSON(t *testing.T) {
	code, out, _ := runCLI(t, "-i", fixture, "-f", "0", "-w", "0", "-format", "json", "-s", "1")
	require.Equal(t, exitOK, code)

	var rep struct {
		Start     int     `json:"start"`
		Status    string  `json:"status"`
		Path      []int   `json:"path"`
		TotalCost float64 `json:"total_cost"`
		Frontier  string  `json:"frontier"`
	}
	require.NoError(t, json.Unmarshal([]byte(out), &rep))
	assert.Equal(t, 1, rep.Start)
	assert.Equal(t, "found", rep.Status)
	assert.Equal(t, []int{1, 3, 5}, rep.Path)
	assert.Equal(t, 6.0, rep.TotalCost)
	assert.Equal(t, "linear", rep.Frontier)
}

func TestRunYAMLWithNoise(t *testing.T) {
	code, out, _ := runCLI(t, "-i", fixture, "-format", "yaml", "-seed", "42")
	require.Equal(t, exitOK, code)

	var rep map[string]any
	require.NoError(t, yaml.Unmarshal([]byte(out), &rep))
	assert.Equal(t, "found", rep["status"])
	assert.Equal(t, 42, rep["seed"])

	_, again, _ := runCLI(t, "-i", fixture, "-format", "yaml", "-seed", "42")
	assert.Equal(t, out, again, "same seed must reproduce the same result")
}

func TestRunUnreachable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cut.csv")
	data := "0,0,0\n0,1,0\n1,0,0\n0,0,0\n"
	require.NoError(t, os.WriteFile(path, []byte(data), 0o644))

	code, out, _ := runCLI(t, "-i", path, "-n", "3", "-s", "0", "-e", "2", "-f", "0", "-w", "0")
	assert.Equal(t, exitUnreachable, code)
	assert.Equal(t, "No path from vertex 0 to vertex 2.\n", out)
}

func TestRunTrace(t *testing.T) {
	code, out, _ := runCLI(t, "-i", fixture, "-f", "0", "-w", "0", "-trace")
	require.Equal(t, exitOK, code)
	assert.Contains(t, out, "step 1: expand 0 (g=0 f=6), improved 2\n")
}

func TestRunErrors(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"too few nodes", []string{"-i", fixture, "-n", "1"}, "at least 2"},
		{"too many nodes", []string{"-i", fixture, "-n", "65"}, "node_count"},
		{"start out of range", []string{"-i", fixture, "-s", "9"}, "start"},
		{"negative coefficient", []string{"-i", fixture, "-f", "-1"}, "heuristic"},
		{"bad format", []string{"-i", fixture, "-format", "xml"}, "format"},
		{"missing file", []string{"-i", "testdata/missing.csv"}, "failed to load graph"},
		{"unknown flag", []string{"-x"}, "Error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			code, _, errOut := runCLI(t, tt.args...)
			assert.Equal(t, exitError, code)
			assert.Contains(t, errOut, tt.want)
		})
	}
}

func TestRunHelp(t *testing.T) {
	code, out, _ := runCLI(t, "-h")
	assert.Equal(t, exitOK, code)
	assert.Contains(t, out, "Example implementing the A* search algorithm.")
}
