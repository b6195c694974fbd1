package main

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"

	"github.com/san-kum/graphlab/internal/storage"
)

func newTestCommand(t *testing.T, flags ...string) *cobra.Command {
	t.Helper()
	preset, configFile = "", ""
	cmd := &cobra.Command{Use: "test"}
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "")
	addGraphFlags(cmd)
	cmd.Flags().Float64Var(&dt, "dt", 0.01, "")
	if err := cmd.ParseFlags(flags); err != nil {
		t.Fatal(err)
	}
	return cmd
}

func TestLoadConfigPrecedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "graphlab.yaml")
	data := "graph:\n  mode: cycle\n  transition_duration: 3\n  resolution: 33\n"
	if err := os.WriteFile(path, []byte(data), 0644); err != nil {
		t.Fatal(err)
	}

	cmd := newTestCommand(t, "--preset", "storm", "--resolution", "12")
	configFile = path
	t.Setenv("GRAPHLAB_FUNCTION_DURATION", "7")

	cfg, err := loadConfig(cmd, []string{"ripple"})
	if err != nil {
		t.Fatal(err)
	}

	g := cfg.Graph
	if g.Function != "ripple" {
		t.Errorf("function = %s, want ripple from the argument", g.Function)
	}
	if g.Resolution != 12 {
		t.Errorf("resolution = %d, flag should win", g.Resolution)
	}
	if g.FunctionDuration != 7 {
		t.Errorf("function duration = %v, env should beat the preset", g.FunctionDuration)
	}
	if g.TransitionDuration != 3 || g.Mode != "cycle" {
		t.Errorf("config file should override the preset, got %+v", g)
	}
	if g.Seed == 0 {
		t.Error("zero seed should be replaced")
	}
}

func TestLoadConfigErrors(t *testing.T) {
	tests := []struct {
		name  string
		flags []string
		args  []string
	}{
		{"unknown preset", []string{"--preset", "nope"}, nil},
		{"unknown function", nil, []string{"cone"}},
		{"bad resolution", []string{"--resolution", "0"}, nil},
		{"bad log level", []string{"--log-level", "loud"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newTestCommand(t, tt.flags...)
			if _, err := loadConfig(cmd, tt.args); err == nil {
				t.Error("expected an error")
			}
		})
	}
}

func TestExtent(t *testing.T) {
	c := &storage.Capture{Frames: []storage.Frame{
		{Heights: []float64{0.5, -0.25}},
		{Heights: []float64{0.75, 0}},
	}}
	lo, hi := extent(c)
	if lo != -0.25 || hi != 0.75 {
		t.Errorf("extent = (%v, %v)", lo, hi)
	}
	if lo, hi := extent(&storage.Capture{}); lo != 0 || hi != 0 {
		t.Error("empty capture should give zeros")
	}
}
