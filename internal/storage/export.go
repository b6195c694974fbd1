package storage

import (
	"encoding/json"
	"io"
)

type ExportData struct {
	Meta   RunMetadata `json:"meta"`
	Steps  int         `json:"steps"`
	Times  []float64   `json:"times"`
	Frames []Frame     `json:"frames"`
}

// ExportJSON writes the metadata and every frame of a run as one document.
func (s *Store) ExportJSON(w io.Writer, runID string) error {
	meta, err := s.Load(runID)
	if err != nil {
		return err
	}
	frames, err := s.LoadFrames(runID)
	if err != nil {
		return err
	}

	data := ExportData{
		Meta:   *meta,
		Steps:  len(frames),
		Times:  make([]float64, len(frames)),
		Frames: frames,
	}
	for i, f := range frames {
		data.Times[i] = f.Time
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(data)
}
