package graph

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

// ReadCSV reads a graph in the line-oriented text format:
//
//	h0,h1,...,h(n-1)          heuristic values
//	w00,w01,...,w0(n-1)       adjacency row 0
//	...
//	w(n-1)0,...,w(n-1)(n-1)   adjacency row n-1
//
// Every line must hold at least n values; extra trailing fields are ignored.
// If n is 0 it is inferred from the number of values on the first line.
func ReadCSV(r io.Reader, n int) (*Graph, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.TrimLeadingSpace = true
	cr.ReuseRecord = true

	record, err := cr.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("read heuristics: empty input")
		}
		return nil, fmt.Errorf("read heuristics: %w", err)
	}
	if n == 0 {
		n = countValues(record)
	}

	g, err := New(n)
	if err != nil {
		return nil, err
	}
	if err := parseRow(record, g.Heuristic[:n], 1); err != nil {
		return nil, fmt.Errorf("read heuristics: %w", err)
	}

	for i := 0; i < n; i++ {
		record, err := cr.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				return nil, fmt.Errorf("read adjacency row %d: expected %d rows, got %d", i, n, i)
			}
			return nil, fmt.Errorf("read adjacency row %d: %w", i, err)
		}
		if err := parseRow(record, g.Adjacency[i][:n], i+2); err != nil {
			return nil, fmt.Errorf("read adjacency row %d: %w", i, err)
		}
	}

	return g, nil
}

// LoadCSV opens path and reads it with ReadCSV.
func LoadCSV(path string, n int) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	g, err := ReadCSV(f, n)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// WriteCSV writes g in the format read by ReadCSV.
func WriteCSV(w io.Writer, g *Graph) error {
	cw := csv.NewWriter(w)
	row := make([]string, g.NumNodes)

	for i := 0; i < g.NumNodes; i++ {
		row[i] = formatFloat(g.Heuristic[i])
	}
	if err := cw.Write(row); err != nil {
		return fmt.Errorf("write heuristics: %w", err)
	}

	for i := 0; i < g.NumNodes; i++ {
		for j := 0; j < g.NumNodes; j++ {
			row[j] = formatFloat(g.Adjacency[i][j])
		}
		if err := cw.Write(row); err != nil {
			return fmt.Errorf("write adjacency row %d: %w", i, err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// SaveCSV writes g to path.
func SaveCSV(path string, g *Graph) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create: %w", err)
	}
	if err := WriteCSV(f, g); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

// parseRow parses the first len(dst) fields of record into dst.
// line is 1-based and only used for error messages.
func parseRow(record []string, dst []float64, line int) error {
	if len(record) < len(dst) {
		return fmt.Errorf("line %d: expected %d values, got %d", line, len(dst), len(record))
	}
	for k := range dst {
		v, err := strconv.ParseFloat(strings.TrimSpace(record[k]), 64)
		if err != nil {
			return fmt.Errorf("line %d, field %d: %w", line, k+1, err)
		}
		dst[k] = v
	}
	return nil
}

// countValues counts fields up to the first empty trailing one, so that a
// line ending in a comma does not count an extra node.
func countValues(record []string) int {
	n := len(record)
	for n > 0 && strings.TrimSpace(record[n-1]) == "" {
		n--
	}
	return n
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}
