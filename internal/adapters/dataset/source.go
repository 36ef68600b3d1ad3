package dataset

import (
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/okian/fortuna/internal/domain/model"
)

// Years covered by the yearly exports.
const (
	FirstYear = 1997
	LastYear  = 2024
)

// Source reads the raw dataset.
type Source interface {
	// Read returns every record of the source or an error; never partial data.
	Read(ctx context.Context) ([]model.Billionaire, error)
	// String names the source for logs.
	String() string
}

// DirSource reads billionaires_<year>.csv files from a directory.
// Missing years are skipped.
type DirSource struct {
	fsys  fs.FS
	name  string
	first int
	last  int
}

// NewDirSource reads from dir on disk.
func NewDirSource(dir string) *DirSource {
	return NewFSSource(os.DirFS(dir), dir)
}

// NewFSSource reads yearly files from fsys; name is used in logs.
func NewFSSource(fsys fs.FS, name string) *DirSource {
	return &DirSource{fsys: fsys, name: name, first: FirstYear, last: LastYear}
}

// String implements Source.
func (d *DirSource) String() string { return "dir:" + d.name }

// FileName returns the export file name for a year.
func FileName(year int) string { return fmt.Sprintf("billionaires_%d.csv", year) }

// Read implements Source.
func (d *DirSource) Read(ctx context.Context) ([]model.Billionaire, error) {
	var (
		out   []model.Billionaire
		found int
	)
	for year := d.first; year <= d.last; year++ {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		f, err := d.fsys.Open(FileName(year))
		if errors.Is(err, fs.ErrNotExist) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("open %s: %w", FileName(year), err)
		}
		rows, err := readCSV(f)
		_ = f.Close()
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", FileName(year), err)
		}
		found++
		out = append(out, rows...)
	}
	if found == 0 {
		return nil, fmt.Errorf("%w: %s has no billionaires_<year>.csv files", ErrNoSource, d.name)
	}
	return out, nil
}

// CSVFile reads a single export file.
type CSVFile struct{ path string }

// NewCSVFile reads the export at path.
func NewCSVFile(path string) *CSVFile { return &CSVFile{path: path} }

// String implements Source.
func (c *CSVFile) String() string { return "csv:" + c.path }

// Read implements Source.
func (c *CSVFile) Read(_ context.Context) ([]model.Billionaire, error) {
	f, err := os.Open(c.path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	return readCSV(f)
}

// JSONFile reads a merged JSON array of records.
type JSONFile struct{ path string }

// NewJSONFile reads the merged file at path.
func NewJSONFile(path string) *JSONFile { return &JSONFile{path: path} }

// String implements Source.
func (j *JSONFile) String() string { return "json:" + j.path }

// Read implements Source.
func (j *JSONFile) Read(_ context.Context) ([]model.Billionaire, error) {
	f, err := os.Open(j.path)
	if err != nil {
		return nil, err
	}
	defer func() { _ = f.Close() }()
	var out []model.Billionaire
	if err := json.NewDecoder(f).Decode(&out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", j.path, err)
	}
	return out, nil
}

// Open picks a source for path: a directory of yearly exports, a .json
// merged file, or a single .csv export.
func Open(path string) (Source, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrNoSource, err)
	}
	if info.IsDir() {
		return NewDirSource(path), nil
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".json":
		return NewJSONFile(path), nil
	case ".csv":
		return NewCSVFile(path), nil
	default:
		return nil, fmt.Errorf("%w: unsupported file %s", ErrNoSource, path)
	}
}

// unavailable is a source whose every read fails with err.
type unavailable struct {
	name string
	err  error
}

// Unavailable returns a Source that fails every read with err, for a path
// Open could not resolve. The service then runs without data.
func Unavailable(name string, err error) Source {
	return unavailable{name: name, err: err}
}

func (u unavailable) Read(context.Context) ([]model.Billionaire, error) { return nil, u.err }

func (u unavailable) String() string { return "unavailable:" + u.name }

func readCSV(r io.Reader) ([]model.Billionaire, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	cr.ReuseRecord = true

	header, err := cr.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	columns := make([]string, len(header))
	for i, h := range header {
		columns[i] = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
	}

	var out []model.Billionaire
	row := make(map[string]string, len(columns))
	for {
		rec, err := cr.Read()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		if blank(rec) {
			continue
		}
		clear(row)
		for i, col := range columns {
			if i < len(rec) {
				row[col] = rec[i]
			}
		}
		out = append(out, Row(row))
	}
}

func blank(rec []string) bool {
	for _, v := range rec {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}
