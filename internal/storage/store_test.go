package storage

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/san-kum/graphlab/internal/compute"
	"github.com/san-kum/graphlab/internal/graph"
	"github.com/san-kum/graphlab/internal/vec"
)

func sampleCapture() *Capture {
	return &Capture{
		Frames: []Frame{
			{Index: 1, Time: 0.1, Phase: "steady", Function: "wave", Previous: "wave", Heights: []float64{0.5, -0.25}},
			{Index: 2, Time: 0.2, Phase: "transitioning", Function: "ripple", Previous: "wave", Progress: 0.5, Heights: []float64{0.75, 0}},
		},
		Last: []vec.Vec3{{X: -0.5, Y: 0.75, Z: -0.5}, {X: 0.5, Y: 0, Z: -0.5}},
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	meta := RunMetadata{Function: "wave", Mode: "cycle", Resolution: 2, Seed: 42, Dt: 0.1, Frames: 2, Backend: "cpu",
		Stats: map[string]float64{"max_height": 0.75}}
	runID, err := st.Save(meta, sampleCapture())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Error("expected non-empty run id")
	}

	loaded, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if loaded.Function != "wave" || loaded.Seed != 42 || loaded.ID != runID {
		t.Errorf("unexpected metadata %+v", loaded)
	}
	if loaded.Stats["max_height"] != 0.75 {
		t.Errorf("expected max_height 0.75, got %f", loaded.Stats["max_height"])
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		t.Fatalf("load frames failed: %v", err)
	}
	if len(frames) != 2 {
		t.Fatalf("expected 2 frames, got %d", len(frames))
	}
	f := frames[1]
	if f.Index != 2 || f.Phase != "transitioning" || f.Function != "ripple" || f.Previous != "wave" || f.Progress != 0.5 {
		t.Errorf("unexpected frame %+v", f)
	}
	if len(f.Heights) != 2 || f.Heights[0] != 0.75 {
		t.Errorf("unexpected heights %v", f.Heights)
	}

	points, err := st.LoadPoints(runID)
	if err != nil {
		t.Fatal(err)
	}
	if len(points) != 2 || points[0] != (vec.Vec3{X: -0.5, Y: 0.75, Z: -0.5}) {
		t.Errorf("unexpected points %v", points)
	}
}

func TestStoreSaveEmpty(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Save(RunMetadata{Function: "wave"}, &Capture{}); !errors.Is(err, ErrNoFrames) {
		t.Errorf("expected ErrNoFrames, got %v", err)
	}
}

func TestStoreList(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	runs, err := st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 0 {
		t.Errorf("expected 0 runs, got %d", len(runs))
	}

	first, _ := st.Save(RunMetadata{Function: "wave"}, sampleCapture())
	second, _ := st.Save(RunMetadata{Function: "torus"}, sampleCapture())

	runs, err = st.List()
	if err != nil {
		t.Fatalf("list failed: %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("expected 2 runs, got %d", len(runs))
	}
	if runs[0].ID != second || runs[1].ID != first {
		t.Errorf("expected newest first, got %s, %s", runs[0].ID, runs[1].ID)
	}
}

func TestStoreListMissingDir(t *testing.T) {
	st := New(filepath.Join(t.TempDir(), "nope"))
	runs, err := st.List()
	if err != nil || len(runs) != 0 {
		t.Errorf("expected empty list, got %v, %v", runs, err)
	}
}

func TestStoreFileStructure(t *testing.T) {
	tmpDir := t.TempDir()
	st := New(tmpDir)

	runID, err := st.Save(RunMetadata{Function: "sphere"}, sampleCapture())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}

	for _, name := range []string{"metadata.json", "frames.csv", "points.csv"} {
		if _, err := os.Stat(filepath.Join(tmpDir, runID, name)); os.IsNotExist(err) {
			t.Errorf("%s not created", name)
		}
	}
	if st.FramesPath(runID) != filepath.Join(tmpDir, runID, "frames.csv") {
		t.Error("unexpected frames path")
	}
}

func TestExportJSON(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(RunMetadata{Function: "wave", Resolution: 2}, sampleCapture())
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := st.ExportJSON(&buf, runID); err != nil {
		t.Fatal(err)
	}

	var data ExportData
	if err := json.Unmarshal(buf.Bytes(), &data); err != nil {
		t.Fatal(err)
	}
	if data.Steps != 2 || len(data.Times) != 2 || data.Times[1] != 0.2 || data.Meta.ID != runID {
		t.Errorf("unexpected export %+v", data)
	}
}

func TestRecorder(t *testing.T) {
	cfg := graph.DefaultConfig()
	cfg.Resolution = 3
	g, err := graph.New(cfg, graph.WithBackend(compute.NewCPUBackend()))
	if err != nil {
		t.Fatal(err)
	}

	rec := NewRecorder(2)
	err = graph.Run(t.Context(), g, graph.RunConfig{Dt: 0.1, Frames: 5}, func(int) bool {
		rec.Record(g.Snapshot(), g.Points())
		return true
	})
	if err != nil {
		t.Fatal(err)
	}

	c := rec.Capture()
	if len(c.Frames) != 2 || c.Frames[0].Index != 2 || c.Frames[1].Index != 4 {
		t.Fatalf("expected frames 2 and 4, got %+v", c.Frames)
	}
	if len(c.Frames[0].Heights) != 9 || len(c.Last) != 9 {
		t.Errorf("expected 9 cells, got %d heights and %d points", len(c.Frames[0].Heights), len(c.Last))
	}
	if math.Abs(c.Frames[1].Time-0.4) > 1e-9 {
		t.Errorf("frame 4 at t=%v", c.Frames[1].Time)
	}
}
