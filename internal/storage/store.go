package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/san-kum/graphlab/internal/vec"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
	pointsFile   = "points.csv"
	frameColumns = 6
)

var ErrNoFrames = errors.New("storage: capture has no frames")

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID                 string             `json:"id"`
	Function           string             `json:"function"`
	Mode               string             `json:"mode"`
	Resolution         int                `json:"resolution"`
	Timestamp          time.Time          `json:"timestamp"`
	Seed               int64              `json:"seed"`
	Dt                 float64            `json:"dt"`
	Frames             int                `json:"frames"`
	FunctionDuration   float64            `json:"function_duration"`
	TransitionDuration float64            `json:"transition_duration"`
	Backend            string             `json:"backend"`
	Stats              map[string]float64 `json:"stats,omitempty"`
}

// Save writes meta and the capture under a new run directory and returns the
// run ID. ID and Timestamp in meta are filled in.
func (s *Store) Save(meta RunMetadata, c *Capture) (string, error) {
	if c == nil || len(c.Frames) == 0 {
		return "", ErrNoFrames
	}

	now := time.Now()
	meta.ID = fmt.Sprintf("%s_%d", meta.Function, now.UnixNano())
	meta.Timestamp = now
	runDir := filepath.Join(s.baseDir, meta.ID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}
	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeFrames(filepath.Join(runDir, framesFile), c.Frames); err != nil {
		return "", err
	}
	if err := writePoints(filepath.Join(runDir, pointsFile), c.Last); err != nil {
		return "", err
	}
	return meta.ID, nil
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

func writeFrames(path string, frames []Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	header := []string{"frame", "time", "phase", "function", "previous", "progress"}
	for i := range frames[0].Heights {
		header = append(header, fmt.Sprintf("y%d", i))
	}
	if err := w.Write(header); err != nil {
		return err
	}

	for _, fr := range frames {
		row := []string{
			strconv.Itoa(fr.Index),
			formatFloat(fr.Time),
			fr.Phase,
			fr.Function,
			fr.Previous,
			formatFloat(fr.Progress),
		}
		for _, y := range fr.Heights {
			row = append(row, formatFloat(y))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

func writePoints(path string, points []vec.Vec3) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write([]string{"x", "y", "z"}); err != nil {
		return err
	}
	for _, p := range points {
		if err := w.Write([]string{formatFloat(p.X), formatFloat(p.Y), formatFloat(p.Z)}); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, newest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.Slice(runs, func(i, j int) bool {
		return runs[i].Timestamp.After(runs[j].Timestamp)
	})
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("decode %s metadata: %w", runID, err)
	}
	return &meta, nil
}

func readCSV(path string) ([][]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

// LoadFrames reads the recorded frames back. Rows that fail to parse are
// skipped.
func (s *Store) LoadFrames(runID string) ([]Frame, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, err
	}
	if len(records) < 2 {
		return []Frame{}, nil
	}

	frames := make([]Frame, 0, len(records)-1)
	for _, record := range records[1:] {
		if len(record) < frameColumns {
			continue
		}
		index, err := strconv.Atoi(record[0])
		if err != nil {
			continue
		}
		t, err := strconv.ParseFloat(record[1], 64)
		if err != nil {
			continue
		}
		progress, err := strconv.ParseFloat(record[5], 64)
		if err != nil {
			continue
		}

		heights := make([]float64, 0, len(record)-frameColumns)
		for _, field := range record[frameColumns:] {
			y, err := strconv.ParseFloat(field, 64)
			if err != nil {
				continue
			}
			heights = append(heights, y)
		}

		frames = append(frames, Frame{
			Index:    index,
			Time:     t,
			Phase:    record[2],
			Function: record[3],
			Previous: record[4],
			Progress: progress,
			Heights:  heights,
		})
	}
	return frames, nil
}

// LoadPoints reads the positions of the last recorded frame.
func (s *Store) LoadPoints(runID string) ([]vec.Vec3, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, pointsFile))
	if err != nil {
		return nil, err
	}

	points := make([]vec.Vec3, 0, len(records))
	for _, record := range records[min(1, len(records)):] {
		if len(record) != 3 {
			continue
		}
		var xyz [3]float64
		ok := true
		for i, field := range record {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				ok = false
				break
			}
			xyz[i] = v
		}
		if ok {
			points = append(points, vec.Vec3{X: xyz[0], Y: xyz[1], Z: xyz[2]})
		}
	}
	return points, nil
}

// FramesPath is the CSV file of a run, for streaming it out unchanged.
func (s *Store) FramesPath(runID string) string {
	return filepath.Join(s.baseDir, runID, framesFile)
}
