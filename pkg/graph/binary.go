package graph

import (
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"math"
	"os"
	"unsafe"
)

const (
	magicBytes = "ASTARGRF"
	version    = uint32(1)
)

// fileHeader is the binary header.
type fileHeader struct {
	Magic     [8]byte
	Version   uint32
	NumNodes  uint32
	HasCoords uint32 // 1 if NodeLat/NodeLon follow the adjacency rows
}

// WriteBinary serializes g to path. The file is written to a temporary
// sibling and renamed into place once the CRC32 trailer is on disk.
func WriteBinary(path string, g *Graph) error {
	tmpPath := path + ".tmp"
	f, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	defer func() {
		f.Close()
		os.Remove(tmpPath) // clean up on error
	}()

	crcWriter := crc32Writer{w: f, hash: crc32.NewIEEE()}
	w := &crcWriter

	n := g.NumNodes
	hdr := fileHeader{
		Version:  version,
		NumNodes: uint32(n),
	}
	if g.HasCoordinates() {
		hdr.HasCoords = 1
	}
	copy(hdr.Magic[:], magicBytes)
	if err := binary.Write(w, binary.LittleEndian, &hdr); err != nil {
		return fmt.Errorf("write header: %w", err)
	}

	if err := writeFloat64Slice(w, g.Heuristic[:n]); err != nil {
		return fmt.Errorf("write heuristics: %w", err)
	}
	for i := 0; i < n; i++ {
		if err := writeFloat64Slice(w, g.Adjacency[i][:n]); err != nil {
			return fmt.Errorf("write adjacency row %d: %w", i, err)
		}
	}

	if hdr.HasCoords == 1 {
		if err := writeFloat64Slice(w, g.NodeLat); err != nil {
			return fmt.Errorf("write NodeLat: %w", err)
		}
		if err := writeFloat64Slice(w, g.NodeLon); err != nil {
			return fmt.Errorf("write NodeLon: %w", err)
		}
	}

	checksum := crcWriter.hash.Sum32()
	if err := binary.Write(f, binary.LittleEndian, checksum); err != nil {
		return fmt.Errorf("write CRC32: %w", err)
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close temp file: %w", err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("rename: %w", err)
	}

	return nil
}

// ReadBinary deserializes a graph written by WriteBinary.
func ReadBinary(path string) (*Graph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open: %w", err)
	}
	defer f.Close()

	crcReader := crc32Reader{r: f, hash: crc32.NewIEEE()}
	r := &crcReader

	var hdr fileHeader
	if err := binary.Read(r, binary.LittleEndian, &hdr); err != nil {
		return nil, fmt.Errorf("read header: %w", err)
	}

	if string(hdr.Magic[:]) != magicBytes {
		return nil, fmt.Errorf("invalid magic bytes: %q", hdr.Magic)
	}
	if hdr.Version != version {
		return nil, fmt.Errorf("unsupported version: %d", hdr.Version)
	}
	if hdr.HasCoords > 1 {
		return nil, fmt.Errorf("invalid coordinate flag: %d", hdr.HasCoords)
	}

	g, err := New(int(hdr.NumNodes))
	if err != nil {
		return nil, fmt.Errorf("header: %w", err)
	}
	n := g.NumNodes

	if err := readFloat64Into(r, g.Heuristic[:n]); err != nil {
		return nil, fmt.Errorf("read heuristics: %w", err)
	}
	for i := 0; i < n; i++ {
		if err := readFloat64Into(r, g.Adjacency[i][:n]); err != nil {
			return nil, fmt.Errorf("read adjacency row %d: %w", i, err)
		}
	}

	if hdr.HasCoords == 1 {
		g.NodeLat = make([]float64, n)
		g.NodeLon = make([]float64, n)
		if err := readFloat64Into(r, g.NodeLat); err != nil {
			return nil, fmt.Errorf("read NodeLat: %w", err)
		}
		if err := readFloat64Into(r, g.NodeLon); err != nil {
			return nil, fmt.Errorf("read NodeLon: %w", err)
		}
	}

	expectedCRC := crcReader.hash.Sum32()
	var storedCRC uint32
	if err := binary.Read(f, binary.LittleEndian, &storedCRC); err != nil {
		return nil, fmt.Errorf("read CRC32: %w", err)
	}
	if storedCRC != expectedCRC {
		return nil, fmt.Errorf("CRC32 mismatch: stored=%08x computed=%08x", storedCRC, expectedCRC)
	}

	if err := validateWeights(g); err != nil {
		return nil, err
	}

	return g, nil
}

// validateWeights rejects weights the search cannot handle.
func validateWeights(g *Graph) error {
	for i := 0; i < g.NumNodes; i++ {
		for j := 0; j < g.NumNodes; j++ {
			w := g.Adjacency[i][j]
			if w < 0 || math.IsNaN(w) {
				return fmt.Errorf("Adjacency[%d][%d]=%v is not a valid weight", i, j, w)
			}
		}
	}
	return nil
}

// Zero-copy I/O helpers using unsafe.Slice.

func writeFloat64Slice(w io.Writer, s []float64) error {
	if len(s) == 0 {
		return nil
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*8)
	_, err := w.Write(b)
	return err
}

func readFloat64Into(r io.Reader, s []float64) error {
	if len(s) == 0 {
		return nil
	}
	b := unsafe.Slice((*byte)(unsafe.Pointer(&s[0])), len(s)*8)
	_, err := io.ReadFull(r, b)
	return err
}

// CRC32 wrapping writers/readers.

type crc32Writer struct {
	w    io.Writer
	hash crc32Hash
}

type crc32Hash interface {
	Write([]byte) (int, error)
	Sum32() uint32
}

func (cw *crc32Writer) Write(p []byte) (int, error) {
	cw.hash.Write(p)
	return cw.w.Write(p)
}

type crc32Reader struct {
	r    io.Reader
	hash crc32Hash
}

func (cr *crc32Reader) Read(p []byte) (int, error) {
	n, err := cr.r.Read(p)
	if n > 0 {
		cr.hash.Write(p[:n])
	}
	return n, err
}
