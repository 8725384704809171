package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/socat/omegeo/internal/core/domain"
	"github.com/socat/omegeo/internal/core/usecases"
	"github.com/socat/omegeo/internal/pkg/geospatial"
)

var requiredColumns = []string{"name", "north", "west", "south", "east"}

// parseResult holds the rows kept from one gazetteer file and the counts
// of rows that were dropped.
type parseResult struct {
	Places    []domain.Place
	Invalid   int
	Malformed int
}

// parseGazetteer reads a name,north,west,south,east CSV. Rows whose box
// fails geospatial.IsValid are dropped, as are rows that cannot be parsed.
// When a name repeats, the last row wins.
func parseGazetteer(r io.Reader, source string) (parseResult, error) {
	var res parseResult

	reader := csv.NewReader(r)
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	header, err := reader.Read()
	if err != nil {
		return res, fmt.Errorf("read header: %w", err)
	}
	cols := indexColumns(header)
	for _, c := range requiredColumns {
		if _, ok := cols[c]; !ok {
			return res, fmt.Errorf("missing column %q", c)
		}
	}

	seen := map[string]int{}
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			res.Malformed++
			continue
		}

		name := getField(record, cols, "name")
		b, ok := parseBox(record, cols)
		if name == "" || !ok {
			res.Malformed++
			continue
		}
		if !geospatial.IsValid(b.West, b.South, b.East, b.North) {
			res.Invalid++
			continue
		}

		slug := usecases.Slugify(name)
		if slug == "" {
			res.Malformed++
			continue
		}

		p := domain.Place{
			Name:   name,
			Slug:   slug,
			Source: source,
			Bounds: b,
		}
		if i, dup := seen[p.Slug]; dup {
			res.Places[i] = p
			continue
		}
		seen[p.Slug] = len(res.Places)
		res.Places = append(res.Places, p)
	}

	return res, nil
}

func parseBox(record []string, cols map[string]int) (domain.BoundingBox, bool) {
	var vals [4]float64
	for i, key := range []string{"west", "south", "east", "north"} {
		v, err := strconv.ParseFloat(getField(record, cols, key), 64)
		if err != nil {
			return domain.BoundingBox{}, false
		}
		vals[i] = v
	}
	return domain.BoundingBox{West: vals[0], South: vals[1], East: vals[2], North: vals[3]}, true
}

func indexColumns(header []string) map[string]int {
	m := make(map[string]int, len(header))
	for i, col := range header {
		// Strip BOM from first column
		col = strings.TrimPrefix(col, "\xef\xbb\xbf")
		m[strings.ToLower(strings.TrimSpace(col))] = i
	}
	return m
}

func getField(record []string, cols map[string]int, name string) string {
	idx, ok := cols[name]
	if !ok || idx >= len(record) {
		return ""
	}
	return strings.TrimSpace(record[idx])
}
