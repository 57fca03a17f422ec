package mapgraph

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strconv"

	"github.com/pkg/errors"
)

// The three CSV files that make up a map directory, named after the
// original spreadsheet export they come from.
const (
	graphInfoFile   = "Sheet 1-Graph Info.csv"
	verticesFile    = "Sheet 1-Vertices Positions.csv"
	connectionsFile = "Sheet 1-Connection Matrix.csv"
)

// csvDelimiter is the field separator used by every map file.
const csvDelimiter = ';'

// Info carries the header-declared counts read from the Graph Info sheet,
// kept around so a loader can validate what it parsed against what the
// file claimed.
type Info struct {
	Vertices int
	Edges    int
	MapSize  float64
}

// Load reads the three map CSVs from dir and builds a Map, failing fatally
// (as spec'd in "Malformed map input") with a descriptive diagnostic on any
// mismatch between the declared header counts and the actual content.
func Load(dir string) (*Map, Info, error) {
	info, err := readGraphInfo(filepath.Join(dir, graphInfoFile))
	if err != nil {
		return nil, Info{}, errors.Wrap(err, "mapgraph: reading graph info")
	}

	vertices, err := readVertices(filepath.Join(dir, verticesFile), info.Vertices)
	if err != nil {
		return nil, Info{}, errors.Wrap(err, "mapgraph: reading vertex positions")
	}

	edges, count, err := readConnections(filepath.Join(dir, connectionsFile), info.Vertices)
	if err != nil {
		return nil, Info{}, errors.Wrap(err, "mapgraph: reading connection matrix")
	}
	if count != info.Edges {
		return nil, Info{}, errors.Errorf(
			"mapgraph: connection matrix declares %d edges but header says %d", count, info.Edges)
	}

	m, err := NewMap(vertices, edges)
	if err != nil {
		return nil, Info{}, err
	}
	return m, info, nil
}

func readGraphInfo(path string) (Info, error) {
	rows, err := readCSV(path)
	if err != nil {
		return Info{}, err
	}
	if len(rows) < 3 {
		return Info{}, errors.New("graph info must have three rows: vertices, connections, map size")
	}

	var info Info
	for i, label := range []string{"Number of vertices", "Number of connections", "Map size"} {
		row := rows[i]
		if len(row) < 2 || row[0] != label {
			return Info{}, errors.Errorf("expected row %q, got %v", label, row)
		}
		switch i {
		case 0:
			v, err := strconv.Atoi(row[1])
			if err != nil {
				return Info{}, errors.Wrap(err, "parsing vertex count")
			}
			info.Vertices = v
		case 1:
			v, err := strconv.Atoi(row[1])
			if err != nil {
				return Info{}, errors.Wrap(err, "parsing edge count")
			}
			info.Edges = v
		case 2:
			v, err := strconv.ParseFloat(row[1], 64)
			if err != nil {
				return Info{}, errors.Wrap(err, "parsing map size")
			}
			info.MapSize = v
		}
	}
	return info, nil
}

func readVertices(path string, nVertices int) ([]Vertex, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, err
	}
	if len(rows) == 0 {
		return nil, errors.New("vertex file is empty, missing header row")
	}
	rows = rows[1:] // drop header
	if len(rows) != nVertices {
		return nil, errors.Errorf("declared %d vertices but found %d rows", nVertices, len(rows))
	}

	vertices := make([]Vertex, 0, len(rows))
	for _, row := range rows {
		if len(row) < 3 {
			return nil, errors.Errorf("malformed vertex row %v", row)
		}
		x, err := strconv.ParseFloat(row[1], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing x for vertex %q", row[0])
		}
		y, err := strconv.ParseFloat(row[2], 64)
		if err != nil {
			return nil, errors.Wrapf(err, "parsing y for vertex %q", row[0])
		}
		vertices = append(vertices, Vertex{
			ID:     row[0],
			Pos:    Point{X: x, Y: y},
			IsStop: IsStopName(row[0]),
		})
	}
	return vertices, nil
}

func readConnections(path string, nVertices int) (map[EdgeKey]float64, int, error) {
	rows, err := readCSV(path)
	if err != nil {
		return nil, 0, err
	}
	if len(rows) != nVertices {
		return nil, 0, errors.Errorf("declared %d vertices but connection matrix has %d rows", nVertices, len(rows))
	}

	edges := make(map[EdgeKey]float64)
	edgeCount := 0
	for i, row := range rows {
		if len(row) != nVertices {
			return nil, 0, errors.Errorf("row %d has %d columns, expected %d", i, len(row), nVertices)
		}
		for j, cell := range row {
			if i == j || cell == "" {
				continue
			}
			w, err := strconv.ParseFloat(cell, 64)
			if err != nil {
				return nil, 0, errors.Wrapf(err, "parsing weight at (%d,%d)", i, j)
			}
			edges[MakeEdgeKey(i, j)] = w
			if i > j {
				edgeCount++
			}
		}
	}
	return edges, edgeCount, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening %s", path)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.Comma = csvDelimiter
	r.FieldsPerRecord = -1
	rows, err := r.ReadAll()
	if err != nil {
		return nil, errors.Wrapf(err, "parsing %s", path)
	}
	return rows, nil
}
