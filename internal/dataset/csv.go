package dataset

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/baigrayyan/music-recommender/internal/models"
)

// Column names as they appear in the clustered dataset header.
const (
	ColumnID      = "id"
	ColumnName    = "name"
	ColumnArtists = "artists"
	ColumnYear    = "year"
	ColumnCluster = "cluster"
)

// SchemaError reports a row or header that does not fit the song schema.
type SchemaError struct {
	Line   int
	Column string
	Value  string
	Err    error
}

func (e *SchemaError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("header: %v", e.Err)
	}
	return fmt.Sprintf("line %d, column %q: value %q: %v", e.Line, e.Column, e.Value, e.Err)
}

func (e *SchemaError) Unwrap() error { return e.Err }

var (
	errMissingColumn = errors.New("missing required column")
	errNotFinite     = errors.New("value is not a finite number")
	errNotWhole      = errors.New("value is not a whole number")
)

type columnIndex struct {
	id       int
	name     int
	artists  int
	year     int
	cluster  int
	features [models.FeatureCount]int
}

func indexHeader(header []string) (columnIndex, error) {
	pos := make(map[string]int, len(header))
	for i, h := range header {
		key := strings.ToLower(strings.TrimSpace(strings.TrimPrefix(h, "\ufeff")))
		if _, dup := pos[key]; !dup {
			pos[key] = i
		}
	}

	require := func(name string) (int, error) {
		i, ok := pos[name]
		if !ok {
			return 0, &SchemaError{Column: name, Err: fmt.Errorf("%w %q", errMissingColumn, name)}
		}
		return i, nil
	}

	var (
		idx columnIndex
		err error
	)
	if idx.name, err = require(ColumnName); err != nil {
		return idx, err
	}
	if idx.artists, err = require(ColumnArtists); err != nil {
		return idx, err
	}
	if idx.year, err = require(ColumnYear); err != nil {
		return idx, err
	}
	if idx.cluster, err = require(ColumnCluster); err != nil {
		return idx, err
	}
	for f, name := range models.FeatureNames {
		if idx.features[f], err = require(name); err != nil {
			return idx, err
		}
	}

	idx.id = -1
	if i, ok := pos[ColumnID]; ok {
		idx.id = i
	}
	return idx, nil
}

// ReadCSV parses a clustered dataset. Columns are matched by header name,
// case-insensitively; unknown columns are ignored.
func ReadCSV(r io.Reader) ([]models.Song, error) {
	reader := csv.NewReader(r)
	reader.ReuseRecord = true

	header, err := reader.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, ErrEmptyDataset
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	idx, err := indexHeader(header)
	if err != nil {
		return nil, err
	}

	var songs []models.Song
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read row: %w", err)
		}

		line, _ := reader.FieldPos(0)
		song, err := parseRow(record, idx, line)
		if err != nil {
			return nil, err
		}
		song.Position = len(songs)
		songs = append(songs, song)
	}
	return songs, nil
}

func parseRow(record []string, idx columnIndex, line int) (models.Song, error) {
	song := models.Song{
		Name:    record[idx.name],
		Artists: record[idx.artists],
	}
	if idx.id >= 0 {
		song.ID = strings.TrimSpace(record[idx.id])
	}

	year, err := parseWholeNumber(record[idx.year])
	if err != nil {
		return song, &SchemaError{Line: line, Column: ColumnYear, Value: record[idx.year], Err: err}
	}
	song.Year = year

	cluster, err := parseWholeNumber(record[idx.cluster])
	if err != nil {
		return song, &SchemaError{Line: line, Column: ColumnCluster, Value: record[idx.cluster], Err: err}
	}
	song.Cluster = cluster

	for f, col := range idx.features {
		raw := record[col]
		v, err := strconv.ParseFloat(strings.TrimSpace(raw), 64)
		if err == nil && (math.IsNaN(v) || math.IsInf(v, 0)) {
			err = errNotFinite
		}
		if err != nil {
			return song, &SchemaError{Line: line, Column: models.FeatureNames[f], Value: raw, Err: err}
		}
		song.Set(f, v)
	}
	return song, nil
}

// parseWholeNumber accepts "1998" as well as "1998.0", which is how
// dataframe exports often write integer columns.
func parseWholeNumber(raw string) (int, error) {
	s := strings.TrimSpace(raw)
	if n, err := strconv.Atoi(s); err == nil {
		return n, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if math.IsNaN(f) || math.IsInf(f, 0) || f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, errNotWhole
	}
	return int(f), nil
}
