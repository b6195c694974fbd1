package glcompute

import (
	"errors"
	"strings"
	"testing"

	"github.com/san-kum/graphlab/internal/compute"
	"github.com/san-kum/graphlab/internal/surface"
)

func TestSnippetsCoverLibrary(t *testing.T) {
	for _, name := range surface.Names() {
		src, ok := snippets[name]
		if !ok {
			t.Fatalf("no snippet for %s", name)
		}
		if !strings.HasPrefix(src, "vec3 "+glslName(name)+"(") {
			t.Errorf("snippet for %s declares the wrong function", name)
		}
	}
}

func TestSurfaceSource(t *testing.T) {
	tests := []struct {
		name    string
		key     compute.KernelKey
		want    []string
		notWant []string
	}{
		{
			name:    "identity",
			key:     compute.KernelKey{From: surface.Ripple, To: surface.Ripple},
			want:    []string{"vec3 p = Ripple(uv.x, uv.y, _Time);"},
			notWant: []string{"mix("},
		},
		{
			name: "morph",
			key:  compute.KernelKey{From: surface.Wave, To: surface.Torus},
			want: []string{
				"vec3 Wave(", "vec3 Torus(",
				"mix(Wave(uv.x, uv.y, _Time), Torus(uv.x, uv.y, _Time), _TransitionProgress)",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			src, err := SurfaceSource(tt.key)
			if err != nil {
				t.Fatal(err)
			}
			for _, s := range append(tt.want, "local_size_x = 8, local_size_y = 8", "uniform float _Step;") {
				if !strings.Contains(src, s) {
					t.Errorf("source missing %q", s)
				}
			}
			for _, s := range tt.notWant {
				if strings.Contains(src, s) {
					t.Errorf("source should not contain %q", s)
				}
			}
		})
	}
}

func TestSurfaceSourceUnknown(t *testing.T) {
	_, err := SurfaceSource(compute.KernelKey{From: "cone", To: surface.Wave})
	if !errors.Is(err, compute.ErrUnknownKernel) {
		t.Errorf("expected ErrUnknownKernel, got %v", err)
	}
}

func TestBackendNeedsInit(t *testing.T) {
	b := New(nil)
	if b.Available() {
		t.Error("backend should not be available before Init")
	}
	if _, err := b.Allocate(16); !errors.Is(err, compute.ErrUnavailable) {
		t.Errorf("Allocate before Init: %v", err)
	}
	if err := b.Hash(compute.HashParams{Resolution: 4}, make([]uint32, 16)); !errors.Is(err, compute.ErrUnavailable) {
		t.Errorf("Hash before Init: %v", err)
	}
	b.Cleanup()
}
